package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/recmu/pkg/utils/logging"
)

func TestFrom(t *testing.T) {
	gt.Value(t, logging.From(context.Background())).Equal(logging.Default())

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := logging.With(context.Background(), logger)

	logging.From(ctx).Info("panel mounted", "panel_id", "p1")
	gt.String(t, buf.String()).Contains("panel_id=p1")
}

func TestSetDefault(t *testing.T) {
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	logging.SetDefault(nil)
	gt.Value(t, logging.Default()).Equal(prev)

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	logging.SetDefault(logger)
	gt.Value(t, logging.Default()).Equal(logger)
}
