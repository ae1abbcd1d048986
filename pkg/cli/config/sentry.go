package config

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Sentry holds configuration for error reporting
type Sentry struct {
	dsn string
	env string
}

// Flags returns CLI flags for Sentry
func (s *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting",
			Category:    "Sentry",
			Sources:     cli.EnvVars("RECMU_SENTRY_DSN"),
			Destination: &s.dsn,
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Category:    "Sentry",
			Value:       "production",
			Sources:     cli.EnvVars("RECMU_SENTRY_ENV"),
			Destination: &s.env,
		},
	}
}

// LogAttrs returns log attributes for the Sentry configuration (DSN hidden)
func (s *Sentry) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Bool("enabled", s.dsn != ""),
		slog.String("env", s.env),
	}
}

// IsConfigured returns true if a DSN is set
func (s *Sentry) IsConfigured() bool {
	return s.dsn != ""
}

// Configure initializes the global Sentry client. The returned function
// flushes buffered events and must be called before exit. Without a DSN
// nothing is initialized and error reporting stays disabled.
func (s *Sentry) Configure(release string) (func(), error) {
	if !s.IsConfigured() {
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         s.dsn,
		Environment: s.env,
		Release:     release,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize Sentry")
	}

	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}
