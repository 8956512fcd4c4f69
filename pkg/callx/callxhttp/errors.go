package callxhttp

import "github.com/Abraxas-365/callx/pkg/errx"

var httpErrors = errx.NewRegistry("CALLX_HTTP")

var (
	ErrRequest        = httpErrors.Register("REQUEST", errx.TypeExternal, 502, "HTTP request failed")
	ErrFailedResponse = httpErrors.Register("FAILED_RESPONSE", errx.TypeExternal, 502, "HTTP response status is not successful")
	ErrEncode         = httpErrors.Register("ENCODE", errx.TypeValidation, 400, "Failed to encode request body")
	ErrDecode         = httpErrors.Register("DECODE", errx.TypeExternal, 502, "Failed to decode response body")
)
