package errutil

import (
	"context"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/recmu/pkg/utils/logging"
)

// Handle logs the error with a message and reports it to Sentry when a Sentry
// client is configured. The error is returned unchanged.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	report(err, msg, ge)
	return err
}

// HandleHTTP logs the error and writes an HTTP error response. The response
// body never contains error details.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
		)
	}

	if statusCode >= http.StatusInternalServerError {
		report(err, "HTTP error", ge)
	}

	http.Error(w, http.StatusText(statusCode), statusCode)
}

func report(err error, msg string, ge *goerr.Error) {
	if sentry.CurrentHub().Client() == nil {
		return
	}

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("message", msg)
		if ge != nil {
			values := sentry.Context{}
			for k, v := range ge.Values() {
				values[k] = v
			}
			scope.SetContext("values", values)
		}
	})
	hub.CaptureException(err)
}
