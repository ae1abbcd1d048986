package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/recmu/pkg/service/usercount"
)

// GraphQL holds configuration for the upstream GraphQL endpoint
type GraphQL struct {
	endpoint string
	token    string
	timeout  time.Duration
}

// Flags returns CLI flags for the GraphQL endpoint
func (g *GraphQL) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "graphql-endpoint",
			Usage:       "GraphQL endpoint serving userCount (e.g., http://localhost:4001/graphql)",
			Category:    "GraphQL",
			Sources:     cli.EnvVars("RECMU_GRAPHQL_ENDPOINT"),
			Destination: &g.endpoint,
		},
		&cli.StringFlag{
			Name:        "graphql-token",
			Usage:       "Bearer token sent to the GraphQL endpoint",
			Category:    "GraphQL",
			Sources:     cli.EnvVars("RECMU_GRAPHQL_TOKEN"),
			Destination: &g.token,
		},
		&cli.DurationFlag{
			Name:        "graphql-timeout",
			Usage:       "Timeout of a single userCount request",
			Category:    "GraphQL",
			Value:       10 * time.Second,
			Sources:     cli.EnvVars("RECMU_GRAPHQL_TIMEOUT"),
			Destination: &g.timeout,
		},
	}
}

// LogAttrs returns log attributes for the GraphQL configuration (secrets hidden)
func (g *GraphQL) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("endpoint", g.endpoint),
		slog.Duration("timeout", g.timeout),
		slog.Bool("token", g.token != ""),
	}
}

// Configure creates the userCount query service
func (g *GraphQL) Configure() (usercount.Service, error) {
	if g.endpoint == "" {
		return nil, goerr.Wrap(ErrMissingEndpoint, "--graphql-endpoint is not set")
	}

	opts := []usercount.Option{
		usercount.WithTimeout(g.timeout),
	}
	if g.token != "" {
		opts = append(opts, usercount.WithToken(g.token))
	}

	svc, err := usercount.New(g.endpoint, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create userCount service")
	}
	return svc, nil
}
