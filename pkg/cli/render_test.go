package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/recmu/pkg/domain/model"
	domainConfig "github.com/secmon-lab/recmu/pkg/domain/model/config"
)

type stubCountService struct {
	result model.CountResult
	vars   []model.CountVariables
}

func (s *stubCountService) FetchUserCount(ctx context.Context, vars model.CountVariables) <-chan model.CountResult {
	s.vars = append(s.vars, vars)
	ch := make(chan model.CountResult, 2)
	ch <- model.PendingResult()
	if s.result.IsTerminal() {
		ch <- s.result
		close(ch)
		return ch
	}
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

func TestRenderPanel(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		svc := &stubCountService{result: model.SucceededResult(model.NewIntCount(42))}
		var buf bytes.Buffer
		err := renderPanel(context.Background(), &buf, svc, renderOptions{
			vars:    model.NameVariables("alice"),
			format:  "text",
			timeout: time.Second,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, buf.String()).Equal("Search Results\n42\nView songs (/users)\n")
		gt.Value(t, *svc.vars[0].Name).Equal("alice")
	})

	t.Run("html", func(t *testing.T) {
		svc := &stubCountService{result: model.SucceededResult(model.NewIntCount(42))}
		var buf bytes.Buffer
		err := renderPanel(context.Background(), &buf, svc, renderOptions{
			format:  "html",
			timeout: time.Second,
		})
		gt.NoError(t, err).Required()
		gt.String(t, buf.String()).Contains(`<a href="/users" class="navLink">View songs</a>`)
		gt.Value(t, svc.vars[0].Name).Nil()
	})

	t.Run("json", func(t *testing.T) {
		svc := &stubCountService{result: model.SucceededResult(model.NewStringCount("9"))}
		var buf bytes.Buffer
		err := renderPanel(context.Background(), &buf, svc, renderOptions{
			format:  "json",
			timeout: time.Second,
		})
		gt.NoError(t, err).Required()
		gt.String(t, buf.String()).Contains(`"status": "succeeded"`)
		gt.String(t, buf.String()).Contains(`"count": "9"`)
	})

	t.Run("failed prints the error panel", func(t *testing.T) {
		svc := &stubCountService{result: model.FailedResult(errors.New("boom"))}
		var buf bytes.Buffer
		err := renderPanel(context.Background(), &buf, svc, renderOptions{
			format:  "text",
			timeout: time.Second,
		})
		gt.Bool(t, errors.Is(err, ErrRenderFailed)).True()
		gt.Value(t, buf.String()).Equal("Error: help!\n")
	})

	t.Run("custom error message", func(t *testing.T) {
		labels := domainConfig.DefaultPanel()
		labels.ErrorMessage = "Could not count users"
		svc := &stubCountService{result: model.FailedResult(errors.New("boom"))}
		var buf bytes.Buffer
		err := renderPanel(context.Background(), &buf, svc, renderOptions{
			format:  "text",
			timeout: time.Second,
			labels:  labels,
		})
		gt.Bool(t, errors.Is(err, ErrRenderFailed)).True()
		gt.Value(t, buf.String()).Equal("Could not count users\n")
	})

	t.Run("timeout prints the loading panel", func(t *testing.T) {
		svc := &stubCountService{result: model.PendingResult()}
		var buf bytes.Buffer
		err := renderPanel(context.Background(), &buf, svc, renderOptions{
			format:  "text",
			timeout: 50 * time.Millisecond,
		})
		gt.Bool(t, errors.Is(err, ErrRenderTimeout)).True()
		gt.Bool(t, strings.Contains(buf.String(), "Loading...")).True()
	})

	t.Run("unknown format", func(t *testing.T) {
		svc := &stubCountService{}
		err := renderPanel(context.Background(), &bytes.Buffer{}, svc, renderOptions{format: "yaml"})
		gt.Error(t, err)
		gt.Array(t, svc.vars).Length(0)
	})
}
