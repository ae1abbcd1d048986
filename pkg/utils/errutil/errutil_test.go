package errutil_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/recmu/pkg/utils/errutil"
)

func TestHandle(t *testing.T) {
	gt.NoError(t, errutil.Handle(context.Background(), nil, "nothing"))

	orig := goerr.New("query failed", goerr.V("name", "alice"))
	err := errutil.Handle(context.Background(), orig, "failed")
	gt.Bool(t, errors.Is(err, orig)).True()
}

func TestHandleHTTP(t *testing.T) {
	w := httptest.NewRecorder()
	errutil.HandleHTTP(context.Background(), w, goerr.New("upstream token leaked"), http.StatusBadGateway)

	gt.Value(t, w.Code).Equal(http.StatusBadGateway)
	gt.String(t, w.Body.String()).Contains(http.StatusText(http.StatusBadGateway))
	gt.Bool(t, strings.Contains(w.Body.String(), "leaked")).False()
}
