package view

import (
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/recmu/pkg/domain/model"
)

// Text renders a view tree for a terminal, one line per leaf node
type Text struct {
	view       *model.Node
	stylesheet *model.Stylesheet
	color      bool
}

// TextOption configures the terminal renderer
type TextOption func(*Text)

// WithColor enables ANSI colors regardless of the terminal detection
func WithColor(enabled bool) TextOption {
	return func(t *Text) {
		t.color = enabled
	}
}

// WithStylesheet sets the rules used to decide link decoration
func WithStylesheet(s *model.Stylesheet) TextOption {
	return func(t *Text) {
		if s != nil {
			t.stylesheet = s
		}
	}
}

// NewText creates a terminal renderer for view
func NewText(view *model.Node, opts ...TextOption) *Text {
	t := &Text{
		view:       view,
		stylesheet: model.DefaultStylesheet(),
		color:      !color.NoColor,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Render writes the view to w
func (t *Text) Render(w io.Writer) error {
	var err error
	t.view.Walk(func(n *model.Node) bool {
		var c *color.Color
		line := n.Text

		switch n.Kind {
		case model.NodeParagraph:
			c = color.New(color.FgRed)
		case model.NodeHeading:
			c = color.New(color.Bold)
		case model.NodeValue:
			c = color.New(color.FgGreen, color.Bold)
		case model.NodeLink:
			c = color.New(color.FgCyan)
			if t.stylesheet.Underlined(n.Styles) {
				c.Add(color.Underline)
			}
			line = n.Text + " (" + n.Href + ")"
		default:
			return true
		}

		if t.color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		if _, err = c.Fprintln(w, line); err != nil {
			err = goerr.Wrap(err, "failed to write panel line", goerr.V("kind", n.Kind))
			return false
		}
		return true
	})
	return err
}
