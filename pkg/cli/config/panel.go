package config

import (
	"bytes"
	"errors"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	domainConfig "github.com/secmon-lab/recmu/pkg/domain/model/config"
)

// Panel holds the CLI flag pointing at the panel label file
type Panel struct {
	path string
}

// panelFile is the TOML layout of the panel label file. Keys left out keep
// their default values.
type panelFile struct {
	Heading      string `toml:"heading"`
	LoadingText  string `toml:"loading_text"`
	ErrorMessage string `toml:"error_message"`
	LinkLabel    string `toml:"link_label"`
	LinkPath     string `toml:"link_path"`
}

// Flags returns CLI flags for panel configuration
func (p *Panel) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "panel-config",
			Usage:       "Path to a TOML file overriding panel labels",
			Category:    "Panel",
			Sources:     cli.EnvVars("RECMU_PANEL_CONFIG"),
			Destination: &p.path,
		},
	}
}

// Path returns the configured file path, empty when defaults are used
func (p *Panel) Path() string {
	return p.path
}

// Configure returns the panel labels, loaded from file when one is set
func (p *Panel) Configure() (*domainConfig.Panel, error) {
	if p.path == "" {
		return domainConfig.DefaultPanel(), nil
	}
	return LoadPanel(p.path)
}

// LoadPanel reads panel labels from a TOML file
func LoadPanel(path string) (*domainConfig.Panel, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "panel config file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read panel config", goerr.V(ConfigPathKey, path))
	}

	return ParsePanel(data, path)
}

// ParsePanel decodes panel labels on top of the defaults and validates them
func ParsePanel(data []byte, path string) (*domainConfig.Panel, error) {
	def := domainConfig.DefaultPanel()
	f := panelFile{
		Heading:      def.Heading,
		LoadingText:  def.LoadingText,
		ErrorMessage: def.ErrorMessage,
		LinkLabel:    def.LinkLabel,
		LinkPath:     def.LinkPath,
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "failed to parse panel config", goerr.V(ConfigPathKey, path))
	}

	panel := &domainConfig.Panel{
		Heading:      f.Heading,
		LoadingText:  f.LoadingText,
		ErrorMessage: f.ErrorMessage,
		LinkLabel:    f.LinkLabel,
		LinkPath:     f.LinkPath,
	}
	if err := panel.Validate(); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "panel config validation failed", goerr.V(ConfigPathKey, path))
	}

	return panel, nil
}
