package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/secmon-lab/recmu/pkg/domain/model"
)

// DefaultRenderTimeout bounds how long a page request waits for userCount
// before it is served in the loading state
const DefaultRenderTimeout = 2 * time.Second

// PanelUseCase resolves and watches result panels
type PanelUseCase interface {
	Resolve(ctx context.Context, vars model.CountVariables) (*model.Node, model.CountResult)
	Watch(ctx context.Context, vars model.CountVariables, fn func(view *model.Node, result model.CountResult) bool) error
}

type Server struct {
	router        *chi.Mux
	panelUC       PanelUseCase
	renderTimeout time.Duration
	stylesheet    *model.Stylesheet
	title         string
}

type Options func(*Server)

// WithRenderTimeout sets how long page and fragment requests wait for the
// query before rendering the loading state
func WithRenderTimeout(d time.Duration) Options {
	return func(s *Server) {
		s.renderTimeout = d
	}
}

func WithStylesheet(sheet *model.Stylesheet) Options {
	return func(s *Server) {
		s.stylesheet = sheet
	}
}

func WithTitle(title string) Options {
	return func(s *Server) {
		s.title = title
	}
}

func New(panelUC PanelUseCase, opts ...Options) (*Server, error) {
	r := chi.NewRouter()

	s := &Server{
		router:        r,
		panelUC:       panelUC,
		renderTimeout: DefaultRenderTimeout,
		stylesheet:    model.DefaultStylesheet(),
		title:         "recmu",
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.pageHandler)
	r.Route("/panel", func(r chi.Router) {
		r.Get("/", s.fragmentHandler)
		r.Get("/stream", s.streamHandler)
	})
	r.Get("/api/panel", s.documentHandler)
	r.Get(stylesheetPath, s.stylesheetHandler)
	r.Get("/health", healthHandler)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok")) //nolint:errcheck // header already committed
}
