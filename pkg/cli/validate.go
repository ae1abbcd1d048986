package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/recmu/pkg/cli/config"
	"github.com/secmon-lab/recmu/pkg/service/usercount"
	"github.com/secmon-lab/recmu/pkg/utils/logging"
)

const builtinSchemaName = "builtin.graphql"

func cmdValidate() *cli.Command {
	var schemaPath string
	var panelCfg config.Panel

	var flags []cli.Flag
	flags = append(flags, &cli.StringFlag{
		Name:        "schema",
		Usage:       "Path to the upstream GraphQL schema (SDL). The built-in userCount schema is used when omitted",
		Sources:     cli.EnvVars("RECMU_GRAPHQL_SCHEMA"),
		Destination: &schemaPath,
	})
	flags = append(flags, panelCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the userCount query against a schema and the panel configuration",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return validate(ctx, schemaPath, &panelCfg)
		},
	}
}

func validate(ctx context.Context, schemaPath string, panelCfg *config.Panel) error {
	logger := logging.From(ctx)

	// Step 1: query document against the schema
	schemaName, sdl := builtinSchemaName, usercount.SchemaSDL
	if schemaPath != "" {
		// #nosec G304 - path is expected to be provided by CLI argument
		data, err := os.ReadFile(schemaPath)
		if err != nil {
			return goerr.Wrap(err, "failed to read schema file", goerr.V("path", schemaPath))
		}
		schemaName, sdl = schemaPath, string(data)
	}

	if err := usercount.ValidateDocument(schemaName, sdl, usercount.QueryDocument); err != nil {
		return goerr.Wrap(err, "query validation failed")
	}
	logger.Info("Query validation passed", "schema", schemaName)

	// Step 2: panel labels
	labels, err := panelCfg.Configure()
	if err != nil {
		return goerr.Wrap(err, "panel configuration validation failed")
	}
	logger.Info("Panel configuration validation passed",
		"path", panelCfg.Path(),
		"heading", labels.Heading,
		"link_path", labels.LinkPath,
	)

	return nil
}
