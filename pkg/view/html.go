package view

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/recmu/pkg/domain/model"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var templates = template.Must(
	template.New("view").
		Funcs(template.FuncMap{
			"classes": func(styles []string) string { return strings.Join(styles, " ") },
		}).
		ParseFS(templateFS, "templates/*.gohtml"),
)

// Page is the data of a full HTML page around a panel
type Page struct {
	Title          string
	StylesheetPath string
	View           *model.Node
	// StreamURL is set while the panel is still pending; the page then
	// follows re-renders from the event stream.
	StreamURL string
}

// HTML renders a view tree as an HTML fragment
type HTML struct {
	view *model.Node
}

// NewHTML creates an HTML renderer for view
func NewHTML(view *model.Node) *HTML {
	return &HTML{view: view}
}

// Render writes the panel fragment to w
func (h *HTML) Render(w io.Writer) error {
	if err := templates.ExecuteTemplate(w, "panel", h.view); err != nil {
		return goerr.Wrap(err, "failed to render panel fragment")
	}
	return nil
}

// String returns the fragment, or an empty string on template failure
func (h *HTML) String() string {
	var buf bytes.Buffer
	if err := h.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// RenderPage writes a complete HTML document
func RenderPage(w io.Writer, page *Page) error {
	if err := templates.ExecuteTemplate(w, "page", page); err != nil {
		return goerr.Wrap(err, "failed to render page")
	}
	return nil
}
