package view

import (
	"encoding/json"
	"io"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/recmu/pkg/domain/model"
)

// Document is the JSON form of a render
type Document struct {
	Status string       `json:"status"`
	Count  *model.Count `json:"count,omitempty"`
	View   *model.Node  `json:"view"`
}

// NewDocument pairs a view tree with the result it was rendered from.
// The failure cause is deliberately left out.
func NewDocument(view *model.Node, result model.CountResult) *Document {
	doc := &Document{
		Status: result.Status.String(),
		View:   view,
	}
	if result.Status == model.StatusSucceeded {
		count := result.Count
		doc.Count = &count
	}
	return doc
}

// Render writes the document as indented JSON
func (d *Document) Render(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return goerr.Wrap(err, "failed to encode panel document")
	}
	return nil
}
