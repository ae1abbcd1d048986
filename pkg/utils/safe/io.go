package safe

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/secmon-lab/recmu/pkg/utils/logging"
)

// Close closes c and logs any error. A nil closer is ignored.
func Close(ctx context.Context, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Write writes data to w and logs any error. It reports whether the write
// succeeded so streaming loops can stop on a dead client.
func Write(ctx context.Context, w io.Writer, data []byte) bool {
	if w == nil {
		return false
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Warn("Failed to write", slog.Any("error", err))
		return false
	}
	return true
}

// Flush pushes buffered response data to the client when w supports it
func Flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
