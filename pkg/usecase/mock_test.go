package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/secmon-lab/recmu/pkg/domain/model"
)

// fetchCall is one captured FetchUserCount invocation. The test completes it
// by sending on results; the channel is closed by the mock when ctx is done.
type fetchCall struct {
	ctx     context.Context
	vars    model.CountVariables
	results chan model.CountResult
}

// mockCountService records calls and lets tests drive each fetch
type mockCountService struct {
	mu       sync.Mutex
	calls    []*fetchCall
	autoDone func(vars model.CountVariables) *model.CountResult
}

func (m *mockCountService) FetchUserCount(ctx context.Context, vars model.CountVariables) <-chan model.CountResult {
	call := &fetchCall{ctx: ctx, vars: vars, results: make(chan model.CountResult, 4)}
	call.results <- model.PendingResult()

	m.mu.Lock()
	m.calls = append(m.calls, call)
	auto := m.autoDone
	m.mu.Unlock()

	out := make(chan model.CountResult)
	go func() {
		defer close(out)
		for {
			select {
			case r := <-call.results:
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
				if r.IsTerminal() {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	if auto != nil {
		if r := auto(vars); r != nil {
			call.results <- *r
		}
	}
	return out
}

func (m *mockCountService) Calls() []*fetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*fetchCall(nil), m.calls...)
}

func respondWith(result model.CountResult) func(model.CountVariables) *model.CountResult {
	return func(model.CountVariables) *model.CountResult {
		return &result
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
