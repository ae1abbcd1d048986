package cli

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/recmu/pkg/domain/model"
	domainConfig "github.com/secmon-lab/recmu/pkg/domain/model/config"
)

func getPage(t *testing.T, handler http.Handler, path string) string {
	t.Helper()
	ts := httptest.NewServer(handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + path)
	gt.NoError(t, err).Required()
	defer resp.Body.Close()
	gt.Value(t, resp.StatusCode).Equal(http.StatusOK)

	body, err := io.ReadAll(resp.Body)
	gt.NoError(t, err).Required()
	return string(body)
}

func TestNewHTTPHandler(t *testing.T) {
	t.Run("error page shows only the error message", func(t *testing.T) {
		svc := &stubCountService{result: model.FailedResult(errors.New("boom"))}
		handler, err := newHTTPHandler(svc, domainConfig.DefaultPanel(), defaultPageTitle, time.Second)
		gt.NoError(t, err).Required()

		body := getPage(t, handler, "/?name=alice")
		gt.String(t, body).Contains("<p>Error: help!</p>")
		gt.String(t, body).Contains("<title>recmu</title>")
		gt.Bool(t, strings.Contains(body, "Search Results")).False()
		gt.Bool(t, strings.Contains(body, "Loading...")).False()
		gt.Bool(t, strings.Contains(body, "View songs")).False()
	})

	t.Run("custom heading stays out of the title", func(t *testing.T) {
		labels := domainConfig.DefaultPanel()
		labels.Heading = "User Totals"
		svc := &stubCountService{result: model.FailedResult(errors.New("boom"))}
		handler, err := newHTTPHandler(svc, labels, "Songs", time.Second)
		gt.NoError(t, err).Required()

		body := getPage(t, handler, "/?name=alice")
		gt.String(t, body).Contains("<title>Songs</title>")
		gt.Bool(t, strings.Contains(body, "User Totals")).False()
	})

	t.Run("succeeded page", func(t *testing.T) {
		svc := &stubCountService{result: model.SucceededResult(model.NewIntCount(42))}
		handler, err := newHTTPHandler(svc, domainConfig.DefaultPanel(), defaultPageTitle, time.Second)
		gt.NoError(t, err).Required()

		body := getPage(t, handler, "/?name=alice")
		gt.String(t, body).Contains("<h2 class=\"panel-title\">Search Results</h2>")
		gt.String(t, body).Contains("<p class=\"panel-value\">42</p>")
	})
}
