package config_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/recmu/pkg/cli/config"
	"github.com/secmon-lab/recmu/pkg/utils/logging"
)

func TestLogger_NewLogger(t *testing.T) {
	t.Run("json output honours the level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := config.NewLoggerForTest("warn", "json", "stderr").NewLogger(&buf, false)
		gt.NoError(t, err).Required()

		logger.Info("hidden message")
		logger.Warn("visible message", "name", "alice")

		out := buf.String()
		gt.Bool(t, strings.Contains(out, "hidden message")).False()
		gt.String(t, out).Contains("visible message")
		gt.String(t, out).Contains(`"name":"alice"`)
	})

	t.Run("bearer credentials are redacted", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := config.NewLoggerForTest("info", "json", "stderr").NewLogger(&buf, false)
		gt.NoError(t, err).Required()

		logger.Info("request", "authorization", "Bearer s3cret-token")
		gt.Bool(t, strings.Contains(buf.String(), "s3cret-token")).False()
	})

	t.Run("console output", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := config.NewLoggerForTest("debug", "console", "stderr").NewLogger(&buf, false)
		gt.NoError(t, err).Required()

		logger.Debug("panel mounted")
		gt.String(t, buf.String()).Contains("panel mounted")
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("loud", "json", "stderr").NewLogger(&bytes.Buffer{}, false)
		gt.Bool(t, errors.Is(err, config.ErrInvalidLogLevel)).True()
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stderr").NewLogger(&bytes.Buffer{}, false)
		gt.Bool(t, errors.Is(err, config.ErrInvalidLogFormat)).True()
	})
}

func TestLogger_Configure(t *testing.T) {
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "recmu.log")
	closer, err := config.NewLoggerForTest("info", "json", path).Configure()
	gt.NoError(t, err).Required()

	logging.Default().Info("written to file", "name", "alice")
	closer()

	data, err := os.ReadFile(path)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains("written to file")
}
