package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/recmu/pkg/cli/config"
	"github.com/secmon-lab/recmu/pkg/domain/interfaces"
	"github.com/secmon-lab/recmu/pkg/domain/model"
	domainConfig "github.com/secmon-lab/recmu/pkg/domain/model/config"
	"github.com/secmon-lab/recmu/pkg/usecase"
	"github.com/secmon-lab/recmu/pkg/view"
)

// Errors reported by the render command after the panel was printed
var (
	ErrRenderFailed  = goerr.New("userCount query failed")
	ErrRenderTimeout = goerr.New("userCount query did not finish in time")
)

// renderOptions are the inputs of a one-shot render
type renderOptions struct {
	vars    model.CountVariables
	format  string
	timeout time.Duration
	color   bool
	labels  *domainConfig.Panel
}

func cmdRender() *cli.Command {
	var name string
	var format string
	var timeout time.Duration
	var noColor bool
	var gqlCfg config.GraphQL
	var panelCfg config.Panel

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "name",
			Aliases:     []string{"n"},
			Usage:       "Name passed to userCount (omit to send null)",
			Destination: &name,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Output format (text, html, json)",
			Value:       "text",
			Destination: &format,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "How long to wait for userCount",
			Value:       10 * time.Second,
			Destination: &timeout,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable colored text output",
			Destination: &noColor,
		},
	}
	flags = append(flags, gqlCfg.Flags()...)
	flags = append(flags, panelCfg.Flags()...)

	return &cli.Command{
		Name:    "render",
		Aliases: []string{"r"},
		Usage:   "Query userCount once and print the result panel",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			svc, err := gqlCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure GraphQL client")
			}

			labels, err := panelCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load panel configuration")
			}

			opts := renderOptions{
				format:  format,
				timeout: timeout,
				color:   !noColor,
				labels:  labels,
			}
			if c.IsSet("name") {
				opts.vars = model.NameVariables(name)
			}

			out := c.Root().Writer
			if out == nil {
				out = os.Stdout
			}
			return renderPanel(ctx, out, svc, opts)
		},
	}
}

func renderPanel(ctx context.Context, w io.Writer, svc interfaces.CountQueryService, opts renderOptions) error {
	switch opts.format {
	case "text", "html", "json":
	default:
		return goerr.New("unknown output format", goerr.V("format", opts.format))
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	uc := usecase.New(svc, usecase.WithLabels(opts.labels))
	node, result := uc.Resolve(ctx, opts.vars)

	var err error
	switch opts.format {
	case "text":
		err = view.NewText(node, view.WithColor(opts.color)).Render(w)
	case "html":
		err = view.NewHTML(node).Render(w)
		if err == nil {
			_, err = io.WriteString(w, "\n")
		}
	case "json":
		err = view.NewDocument(node, result).Render(w)
	}
	if err != nil {
		return goerr.Wrap(err, "failed to write panel", goerr.V("format", opts.format))
	}

	switch result.Status {
	case model.StatusFailed:
		return goerr.Wrap(ErrRenderFailed, "panel rendered in error state", goerr.V("name", opts.vars))
	case model.StatusPending:
		return goerr.Wrap(ErrRenderTimeout, "panel rendered in loading state", goerr.V("timeout", opts.timeout))
	}
	return nil
}
