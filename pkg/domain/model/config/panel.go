package config

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Default panel labels
const (
	DefaultHeading      = "Search Results"
	DefaultLoadingText  = "Loading..."
	DefaultErrorMessage = "Error: help!"
	DefaultLinkLabel    = "View songs"
	DefaultLinkPath     = "/users"
)

// Panel holds the static labels and link target of the result panel
type Panel struct {
	Heading      string
	LoadingText  string
	ErrorMessage string
	LinkLabel    string
	LinkPath     string
}

// DefaultPanel returns the built-in panel labels
func DefaultPanel() *Panel {
	return &Panel{
		Heading:      DefaultHeading,
		LoadingText:  DefaultLoadingText,
		ErrorMessage: DefaultErrorMessage,
		LinkLabel:    DefaultLinkLabel,
		LinkPath:     DefaultLinkPath,
	}
}

// Validate checks that every label is set and the link path is absolute
func (p *Panel) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"heading", p.Heading},
		{"loading_text", p.LoadingText},
		{"error_message", p.ErrorMessage},
		{"link_label", p.LinkLabel},
		{"link_path", p.LinkPath},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return goerr.New("panel label is required", goerr.V("key", r.key))
		}
	}

	if !strings.HasPrefix(p.LinkPath, "/") {
		return goerr.New("link path must be absolute", goerr.V("link_path", p.LinkPath))
	}

	return nil
}
