package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/callx/pkg/callx"
	"github.com/Abraxas-365/callx/pkg/callx/callxhttp"
	"github.com/Abraxas-365/callx/pkg/config"
	"github.com/Abraxas-365/callx/pkg/errx"
	"github.com/Abraxas-365/callx/pkg/logx"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "callx",
		Short:        "Fan out calls and collect their outcomes in order",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./callx.yaml)")

	withContainer := func(run func(cmd *cobra.Command, c *Container, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logx.SetDefaultLogger(logx.NewLogger(cfg.Log.Logger()))

			c, err := NewContainer(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer c.Cleanup()
			return run(cmd, c, args)
		}
	}

	rootCmd.AddCommand(
		newFanoutCmd(withContainer),
		newRecentCmd(withContainer),
	)
	return rootCmd
}

type runner = func(run func(cmd *cobra.Command, c *Container, args []string) error) func(*cobra.Command, []string) error

type slotOutput struct {
	Index int             `json:"index"`
	URL   string          `json:"url"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *errx.Error     `json:"error,omitempty"`
	Cause string          `json:"cause,omitempty"`
}

func newFanoutCmd(withContainer runner) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "fanout URL...",
		Short: "GET every URL concurrently and print the results in argument order",
		Args:  cobra.MinimumNArgs(1),
		RunE: withContainer(func(cmd *cobra.Command, c *Container, urls []string) error {
			callOpts := []callx.Option{callx.WithConditions()}
			if c.Config.Scheduler.RetryAttempts > 1 {
				callOpts = append(callOpts, callx.WithRetry(c.Config.Scheduler.RetryAttempts, c.Config.Scheduler.RetryDelay))
			}

			calls := make([]*callx.Call[json.RawMessage], len(urls))
			for i, u := range urls {
				calls[i] = callxhttp.Get[json.RawMessage](c.HTTP, u, callOpts...).Bind(cmd.Context())
			}

			mc, err := callx.NewMultiCall(calls, append(c.Sinks(), callx.WithMultiName(name))...)
			if err != nil {
				return err
			}

			out := make([]slotOutput, len(urls))
			err = mc.Dispatch(func(data []json.RawMessage, errs []error, _ []*callx.Call[json.RawMessage], _ *callx.MultiCall[json.RawMessage]) {
				for i := range urls {
					out[i] = slotOutput{Index: i, URL: urls[i], Data: data[i]}
					if errs[i] == nil {
						continue
					}
					var e *errx.Error
					if errx.As(errs[i], &e) {
						out[i].Error = e
					} else {
						out[i].Cause = errs[i].Error()
					}
				}
			})
			if err != nil {
				return err
			}
			<-mc.Done()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"id": mc.ID(), "results": out})
		}),
	}
	cmd.Flags().StringVar(&name, "name", "fanout", "label recorded with the settlement summary")
	return cmd
}

func newRecentCmd(withContainer runner) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently settled multi-calls stored in Redis",
		Args:  cobra.NoArgs,
		RunE: withContainer(func(cmd *cobra.Command, c *Container, _ []string) error {
			if c.Store == nil {
				return fmt.Errorf("redis is disabled; set CALLX_REDIS_ENABLED=true")
			}
			summaries, err := c.Store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, s := range summaries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s size=%d ok=%d failed=%d cancelled=%d  %s\n",
					s.ID, s.Name, s.Size, s.Succeeded, s.Failed, s.Cancelled, s.SettledAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of summaries to show")
	return cmd
}
