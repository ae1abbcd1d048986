package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/recmu/pkg/cli/config"
	httpctrl "github.com/secmon-lab/recmu/pkg/controller/http"
	"github.com/secmon-lab/recmu/pkg/domain/interfaces"
	domainConfig "github.com/secmon-lab/recmu/pkg/domain/model/config"
	"github.com/secmon-lab/recmu/pkg/usecase"
	"github.com/secmon-lab/recmu/pkg/utils/logging"
)

const defaultPageTitle = "recmu"

// newHTTPHandler wires the panel use cases into the HTTP controller. The page
// title is independent of the panel labels so that an error page carries
// nothing but the error message.
func newHTTPHandler(svc interfaces.CountQueryService, labels *domainConfig.Panel, title string, renderTimeout time.Duration) (http.Handler, error) {
	uc := usecase.New(svc, usecase.WithLabels(labels))

	handler, err := httpctrl.New(uc,
		httpctrl.WithRenderTimeout(renderTimeout),
		httpctrl.WithTitle(title),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create http server")
	}
	return handler, nil
}

func cmdServe(version string) *cli.Command {
	var addr string
	var title string
	var renderTimeout time.Duration
	var gqlCfg config.GraphQL
	var panelCfg config.Panel
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("RECMU_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "title",
			Usage:       "HTML page title",
			Value:       defaultPageTitle,
			Sources:     cli.EnvVars("RECMU_TITLE"),
			Destination: &title,
		},
		&cli.DurationFlag{
			Name:        "render-timeout",
			Usage:       "How long a page waits for userCount before rendering the loading state",
			Value:       httpctrl.DefaultRenderTimeout,
			Sources:     cli.EnvVars("RECMU_RENDER_TIMEOUT"),
			Destination: &renderTimeout,
		},
	}

	// Add shared config flags
	flags = append(flags, gqlCfg.Flags()...)
	flags = append(flags, panelCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server rendering the result panel",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return goerr.Wrap(err, "failed to configure error reporting")
			}
			defer flush()

			svc, err := gqlCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure GraphQL client")
			}

			labels, err := panelCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load panel configuration")
			}

			httpHandler, err := newHTTPHandler(svc, labels, title, renderTimeout)
			if err != nil {
				return err
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"title", title,
					"render_timeout", renderTimeout,
					slog.GroupAttrs("graphql", gqlCfg.LogAttrs()...),
					slog.GroupAttrs("sentry", sentryCfg.LogAttrs()...),
					"panel_config", panelCfg.Path(),
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logging.Default().Info("Context cancelled, shutting down")
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
