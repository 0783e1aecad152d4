package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"critique/internal/api"
	"critique/internal/daemon"
	"critique/internal/logging"
	"critique/internal/preprocess"
)

// newRunner wires the store and models into a batch runner.
func (c *commandContext) newRunner(ctx context.Context) (*preprocess.Runner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	st, err := c.openStore()
	if err != nil {
		return nil, err
	}
	models, err := c.loadModels(ctx)
	if err != nil {
		return nil, err
	}
	return preprocess.New(cfg, st, models, c.log())
}

// newRouter builds the API handler over the shared store, models and runner.
func (c *commandContext) newRouter(ctx context.Context, runner api.Runner) (*gin.Engine, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	st, err := c.openStore()
	if err != nil {
		return nil, err
	}
	models, err := c.loadModels(ctx)
	if err != nil {
		return nil, err
	}
	if strings.ToLower(cfg.Logging.Level) != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(api.Options{
		Models:            models,
		Store:             st,
		Runner:            runner,
		Token:             cfg.API.Token,
		IncludeFirstNames: cfg.Pipeline.IncludeFirstNames,
		Logger:            c.log(),
	}), nil
}

func newPreprocessCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "preprocess",
		Short: "Preprocess every pending review in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			runner, err := ctx.newRunner(signalCtx)
			if err != nil {
				return err
			}
			summary, err := runner.Run(signalCtx)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s finished in %s\n", summary.RunID, summary.Duration.Round(time.Millisecond))
			fmt.Fprintf(out, "Reviews: %d processed, %d failed, %d requeued (of %d)\n",
				summary.Processed, summary.Failed, summary.Requeued, summary.Reviews)
			fmt.Fprintf(out, "Sentences: %d, warnings: %d\n", summary.Sentences, summary.Warnings)
			if summary.Failed > 0 {
				fmt.Fprintln(out, "Run 'critique reviews retry' to requeue failed reviews")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if bind == "" {
				bind = cfg.API.Bind
			}
			runner, err := ctx.newRunner(signalCtx)
			if err != nil {
				return err
			}
			router, err := ctx.newRouter(signalCtx, runner)
			if err != nil {
				return err
			}
			server := api.NewServer(bind, router, ctx.log())
			if err := server.Start(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s/api/v1\n", server.Addr())

			<-signalCtx.Done()
			ctx.log().Info("critique api shutting down")
			return server.Shutdown(context.Background())
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to api.bind)")
	return cmd
}

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	var noAPI bool
	var runNow bool

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Preprocess pending reviews on batch.schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.log()
			runner, err := ctx.newRunner(signalCtx)
			if err != nil {
				return err
			}
			var handler http.Handler
			if !noAPI {
				router, err := ctx.newRouter(signalCtx, runner)
				if err != nil {
					return err
				}
				handler = router
			}

			d, err := daemon.New(cfg, runner, handler, logger)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}
			if err := d.Start(signalCtx); err != nil {
				return err
			}
			defer d.Stop()

			if runNow {
				d.RunNow()
			}
			status := d.Status()
			logger.Info("critique daemon ready",
				logging.String("next_run", status.NextRun.Format("2006-01-02 15:04:05")),
				logging.String("api", status.APIAddr),
			)

			<-signalCtx.Done()
			logger.Info("critique daemon shutting down")
			return nil
		},
	}
	cmd.Flags().BoolVar(&noAPI, "no-api", false, "Do not start the HTTP API")
	cmd.Flags().BoolVar(&runNow, "run-now", false, "Run one batch immediately after starting")
	return cmd
}
