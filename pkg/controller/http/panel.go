package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/recmu/pkg/domain/model"
	"github.com/secmon-lab/recmu/pkg/utils/errutil"
	"github.com/secmon-lab/recmu/pkg/utils/logging"
	"github.com/secmon-lab/recmu/pkg/utils/safe"
	"github.com/secmon-lab/recmu/pkg/view"
)

const stylesheetPath = "/static/panel.css"

// variablesFromRequest reads the name query parameter. A missing parameter
// means a null name; an empty one is passed through as an empty string.
func variablesFromRequest(r *http.Request) model.CountVariables {
	q := r.URL.Query()
	if !q.Has("name") {
		return model.CountVariables{}
	}
	return model.NameVariables(q.Get("name"))
}

func streamURL(vars model.CountVariables) string {
	if vars.Name == nil {
		return "/panel/stream"
	}
	return "/panel/stream?" + url.Values{"name": {*vars.Name}}.Encode()
}

func (s *Server) resolve(r *http.Request) (*model.Node, model.CountResult, model.CountVariables) {
	vars := variablesFromRequest(r)
	ctx := r.Context()
	if s.renderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.renderTimeout)
		defer cancel()
	}
	node, result := s.panelUC.Resolve(ctx, vars)
	return node, result, vars
}

// pageHandler serves a full HTML page. A panel still pending after the
// render timeout is served as loading and keeps updating over SSE.
func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	node, result, vars := s.resolve(r)

	page := &view.Page{
		Title:          s.title,
		StylesheetPath: stylesheetPath,
		View:           node,
	}
	if !result.IsTerminal() {
		page.StreamURL = streamURL(vars)
	}

	var buf bytes.Buffer
	if err := view.RenderPage(&buf, page); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	safe.Write(r.Context(), w, buf.Bytes())
}

// fragmentHandler serves only the panel markup
func (s *Server) fragmentHandler(w http.ResponseWriter, r *http.Request) {
	node, _, _ := s.resolve(r)

	var buf bytes.Buffer
	if err := view.NewHTML(node).Render(&buf); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	safe.Write(r.Context(), w, buf.Bytes())
}

// documentHandler serves the view tree as JSON
func (s *Server) documentHandler(w http.ResponseWriter, r *http.Request) {
	node, result, _ := s.resolve(r)

	var buf bytes.Buffer
	if err := view.NewDocument(node, result).Render(&buf); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, buf.Bytes())
}

// streamHandler pushes one "render" event per panel transition and a final
// "done" event once the query finished. The stream ends with the request.
func (s *Server) streamHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		errutil.HandleHTTP(r.Context(), w, goerr.New("streaming is not supported by the response writer"), http.StatusInternalServerError)
		return
	}

	streamID := uuid.NewString()
	ctx := logging.With(r.Context(), logging.From(r.Context()).With("stream_id", streamID))
	vars := variablesFromRequest(r)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	safe.Flush(w)

	seq := 0
	terminal := false
	err := s.panelUC.Watch(ctx, vars, func(node *model.Node, result model.CountResult) bool {
		seq++
		terminal = result.IsTerminal()
		if !safe.Write(ctx, w, sseEvent(streamID, seq, "render", view.NewHTML(node).String())) {
			return false
		}
		safe.Flush(w)
		return true
	})
	if err != nil {
		_ = errutil.Handle(ctx, err, "panel stream failed")
		return
	}

	if terminal {
		seq++
		safe.Write(ctx, w, sseEvent(streamID, seq, "done", ""))
		safe.Flush(w)
	}
	logging.From(ctx).Debug("panel stream closed", "events", seq, "terminal", terminal)
}

// sseEvent formats one server-sent event. Multi-line data is split into
// several data fields as the SSE format requires.
func sseEvent(streamID string, seq int, event, data string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "id: %s-%d\n", streamID, seq)
	fmt.Fprintf(&b, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")
	return []byte(b.String())
}

func (s *Server) stylesheetHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	safe.Write(r.Context(), w, []byte(s.stylesheet.CSS()))
}
