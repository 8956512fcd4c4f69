package callxhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Abraxas-365/callx/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

type response struct {
	status int
	body   []byte
	err    error
}

// executor issues one request through a fiber client agent.
type executor[R any] struct {
	client  *Client
	method  string
	url     string
	headers map[string]string
	body    any
}

func (e *executor[R]) Execute(ctx context.Context) (R, error) {
	var out R

	var payload []byte
	if e.body != nil {
		var err error
		if payload, err = json.Marshal(e.body); err != nil {
			return out, httpErrors.NewWithCause(ErrEncode, err).WithDetail("url", e.url)
		}
	}

	timeout := e.client.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(e.method)
	req.SetRequestURI(e.url)
	for k, v := range e.headers {
		agent.Set(k, v)
	}
	if payload != nil {
		agent.ContentType(fiber.MIMEApplicationJSON)
		agent.Body(payload)
	}
	agent.Timeout(timeout)

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return out, httpErrors.NewWithCause(ErrRequest, err).WithDetail("url", e.url)
	}

	e.logRequest(payload)
	start := time.Now()

	// Bytes releases the agent.
	done := make(chan response, 1)
	go func() {
		status, body, errs := agent.Bytes()
		done <- response{status: status, body: body, err: errors.Join(errs...)}
	}()

	var res response
	select {
	case res = <-done:
	case <-ctx.Done():
		return out, ctx.Err()
	}

	e.logResponse(res, time.Since(start))

	if res.err != nil {
		return out, httpErrors.NewWithCause(ErrRequest, res.err).
			WithDetail("method", e.method).
			WithDetail("url", e.url)
	}
	if res.status < fiber.StatusOK || res.status >= fiber.StatusMultipleChoices {
		return out, httpErrors.New(ErrFailedResponse).
			WithDetail("method", e.method).
			WithDetail("url", e.url).
			WithDetail("status", res.status).
			WithDetail("body", truncate(res.body, 512))
	}

	trimmed := bytes.TrimSpace(res.body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		var zero R
		return zero, httpErrors.NewWithCause(ErrDecode, err).
			WithDetail("url", e.url).
			WithDetail("status", res.status)
	}
	return out, nil
}

func (e *executor[R]) logRequest(payload []byte) {
	if !e.client.debug {
		return
	}
	entry := logx.WithFields(logx.Fields{
		"method":  e.method,
		"url":     e.url,
		"headers": e.headers,
	})
	if payload != nil {
		entry = entry.WithField("body", string(payload))
	}
	entry.Debug("callxhttp: --> request")
}

func (e *executor[R]) logResponse(res response, elapsed time.Duration) {
	if !e.client.debug {
		return
	}
	entry := logx.WithFields(logx.Fields{
		"method":  e.method,
		"url":     e.url,
		"status":  res.status,
		"elapsed": elapsed.String(),
		"body":    truncate(res.body, 2048),
	})
	if res.err != nil {
		entry = entry.WithError(res.err)
	}
	entry.Debug("callxhttp: <-- response")
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
