package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/recmu/pkg/utils/logging"
	"github.com/secmon-lab/recmu/pkg/utils/safe"
)

// Logger holds CLI flags for the process-wide logger
type Logger struct {
	level  string
	format string
	output string
}

// Flags returns CLI flags for logger configuration
func (l *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Category:    "Logging",
			Value:       "info",
			Sources:     cli.EnvVars("RECMU_LOG_LEVEL"),
			Destination: &l.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json)",
			Category:    "Logging",
			Value:       "console",
			Sources:     cli.EnvVars("RECMU_LOG_FORMAT"),
			Destination: &l.format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Log output (stdout, stderr or file path)",
			Category:    "Logging",
			Value:       "stderr",
			Sources:     cli.EnvVars("RECMU_LOG_OUTPUT"),
			Destination: &l.output,
		},
	}
}

// LogValue implements slog.LogValuer
func (l Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", l.level),
		slog.String("format", l.format),
		slog.String("output", l.output),
	)
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, goerr.Wrap(ErrInvalidLogLevel, "unknown log level", goerr.V(LogLevelKey, level))
	}
}

// redactFilter hides credentials in any logged value
func redactFilter() func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(
		masq.WithTag("secret"),
		masq.WithFieldName("Token"),
		masq.WithFieldPrefix("Secret"),
		masq.WithContain("Bearer "),
	)
}

// NewLogger builds a logger writing to w without touching the default logger
func (l *Logger) NewLogger(w io.Writer, useColor bool) (*slog.Logger, error) {
	level, err := parseLogLevel(l.level)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	switch l.format {
	case "console", "":
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithColor(useColor),
			clog.WithReplaceAttr(redactFilter()),
		)
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redactFilter(),
		})
	default:
		return nil, goerr.Wrap(ErrInvalidLogFormat, "unknown log format", goerr.V(LogFormatKey, l.format))
	}

	return slog.New(handler), nil
}

// Configure installs the logger as the process default. The returned function
// closes the log file, if any.
func (l *Logger) Configure() (func(), error) {
	closer := func() {}

	var w io.Writer
	useColor := false
	switch l.output {
	case "stdout", "-":
		w = os.Stdout
		useColor = !color.NoColor
	case "stderr", "":
		w = os.Stderr
		useColor = !color.NoColor
	default:
		// #nosec G304 -- path comes from CLI flag
		f, err := os.OpenFile(l.output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", l.output))
		}
		w = f
		closer = func() {
			safe.Close(context.Background(), f)
		}
	}

	logger, err := l.NewLogger(w, useColor)
	if err != nil {
		closer()
		return nil, err
	}

	logging.SetDefault(logger)
	return closer, nil
}
