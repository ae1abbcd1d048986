package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/recmu/pkg/domain/interfaces"
	"github.com/secmon-lab/recmu/pkg/domain/model"
	"github.com/secmon-lab/recmu/pkg/domain/model/config"
	"github.com/secmon-lab/recmu/pkg/utils/async"
	"github.com/secmon-lab/recmu/pkg/utils/logging"
)

// renderBuffer is the per-subscriber backlog. When a subscriber falls behind,
// the oldest render is dropped; the newest always gets through.
const renderBuffer = 8

// ResultPanel keeps the userCount result for its current variables and
// re-renders on every state transition.
//
// All transitions happen on a single event-loop goroutine started by Mount:
// variable changes, fetch results and unmount are processed one at a time.
// Each fetch is tagged with a generation and results from an outdated
// generation are dropped.
type ResultPanel struct {
	id     string
	svc    interfaces.CountQueryService
	labels *config.Panel

	varsCh    chan model.CountVariables
	resultCh  chan fetchResult
	unmountCh chan struct{}
	doneCh    chan struct{}

	mountOnce   sync.Once
	unmountOnce sync.Once

	mu      sync.RWMutex
	mounted bool
	closed  bool
	vars    model.CountVariables
	state   model.CountResult
	view    *model.Node
	subs    map[chan Render]struct{}
}

// Render is a published view together with the result it was rendered from
type Render struct {
	View   *model.Node
	Result model.CountResult
}

type fetchResult struct {
	gen    uint64
	result model.CountResult
}

// PanelOption configures a ResultPanel
type PanelOption func(*ResultPanel)

// WithPanelLabels sets the labels used by RenderPanel
func WithPanelLabels(labels *config.Panel) PanelOption {
	return func(p *ResultPanel) {
		if labels != nil {
			p.labels = labels
		}
	}
}

// NewResultPanel creates an unmounted panel backed by svc
func NewResultPanel(svc interfaces.CountQueryService, opts ...PanelOption) *ResultPanel {
	p := &ResultPanel{
		id:        uuid.NewString(),
		svc:       svc,
		labels:    config.DefaultPanel(),
		varsCh:    make(chan model.CountVariables),
		resultCh:  make(chan fetchResult),
		unmountCh: make(chan struct{}),
		doneCh:    make(chan struct{}),
		state:     model.PendingResult(),
		subs:      make(map[chan Render]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID identifies the panel in logs
func (p *ResultPanel) ID() string {
	return p.id
}

// Mount starts the event loop and issues the first query for vars.
// The panel unmounts itself when ctx is cancelled.
func (p *ResultPanel) Mount(ctx context.Context, vars model.CountVariables) error {
	started := false
	p.mountOnce.Do(func() {
		started = true
	})
	if !started {
		return goerr.Wrap(ErrPanelMounted, "panel cannot be mounted twice", goerr.V(PanelIDKey, p.id))
	}
	select {
	case <-p.unmountCh:
		return goerr.Wrap(ErrPanelUnmounted, "panel was unmounted before mount", goerr.V(PanelIDKey, p.id))
	default:
	}

	logger := logging.From(ctx).With(PanelIDKey, p.id)
	ctx = logging.With(ctx, logger)

	p.mu.Lock()
	p.mounted = true
	p.vars = vars
	p.mu.Unlock()

	logger.Debug("panel mounted", "name", vars)
	go p.run(ctx, vars)
	return nil
}

// SetVariables changes the query variables. Equal variables are ignored;
// different ones cancel the in-flight query and start a new one.
func (p *ResultPanel) SetVariables(vars model.CountVariables) error {
	p.mu.RLock()
	mounted := p.mounted
	p.mu.RUnlock()
	if !mounted {
		return goerr.Wrap(ErrPanelUnmounted, "panel must be mounted before setting variables", goerr.V(PanelIDKey, p.id))
	}

	select {
	case p.varsCh <- vars:
		return nil
	case <-p.doneCh:
		return goerr.Wrap(ErrPanelUnmounted, "panel was unmounted", goerr.V(PanelIDKey, p.id))
	}
}

// Unmount cancels the in-flight query, closes all render subscriptions and
// waits for the event loop to exit. It is safe to call more than once and on
// a panel that was never mounted.
func (p *ResultPanel) Unmount() {
	p.unmountOnce.Do(func() {
		close(p.unmountCh)
	})

	p.mu.RLock()
	mounted := p.mounted
	p.mu.RUnlock()
	if mounted {
		<-p.doneCh
		return
	}
	p.closeSubscribers()
}

// State returns the current result
func (p *ResultPanel) State() model.CountResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Variables returns the variables of the current query
func (p *ResultPanel) Variables() model.CountVariables {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.vars
}

// View returns the latest render, or nil before the first one
func (p *ResultPanel) View() *model.Node {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.view
}

// Subscribe returns a channel receiving every render in transition order,
// starting with the current one if any. The channel is closed on unmount or
// when cancel is called.
func (p *ResultPanel) Subscribe() (<-chan Render, func()) {
	ch := make(chan Render, renderBuffer)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	p.subs[ch] = struct{}{}
	if p.view != nil {
		ch <- Render{View: p.view, Result: p.state}
	}
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.subs[ch]; ok {
			delete(p.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

func (p *ResultPanel) run(ctx context.Context, vars model.CountVariables) {
	defer close(p.doneCh)
	defer p.closeSubscribers()

	logger := logging.From(ctx)

	var gen uint64
	var cancelFetch context.CancelFunc
	defer func() {
		if cancelFetch != nil {
			cancelFetch()
		}
	}()

	current := vars
	start := func(vars model.CountVariables) {
		if cancelFetch != nil {
			cancelFetch()
		}
		gen++
		var fetchCtx context.Context
		fetchCtx, cancelFetch = context.WithCancel(ctx)

		p.mu.Lock()
		p.vars = vars
		p.mu.Unlock()
		p.transition(model.PendingResult())

		results := p.svc.FetchUserCount(fetchCtx, vars)
		p.forward(fetchCtx, gen, results)
	}

	start(current)

	for {
		select {
		case vars := <-p.varsCh:
			if vars.Equal(current) {
				continue
			}
			logger.Debug("panel variables changed", "from", current, "to", vars)
			current = vars
			start(current)

		case res := <-p.resultCh:
			if res.gen != gen {
				logger.Debug("dropping outdated result", "generation", res.gen, "current", gen)
				continue
			}
			if res.result.Status == model.StatusPending && p.State().Status == model.StatusPending {
				continue
			}
			p.transition(res.result)

		case <-p.unmountCh:
			logger.Debug("panel unmounted")
			return

		case <-ctx.Done():
			logger.Debug("panel context done", "error", ctx.Err())
			return
		}
	}
}

// forward relays results of one fetch into the event loop
func (p *ResultPanel) forward(ctx context.Context, gen uint64, results <-chan model.CountResult) {
	async.Dispatch(ctx, "forward userCount results", func(context.Context) error {
		for r := range results {
			select {
			case p.resultCh <- fetchResult{gen: gen, result: r}:
			case <-p.doneCh:
				return nil
			}
		}
		return nil
	})
}

// transition updates the state and publishes the new render. Subscribers get
// renders in transition order because publishing happens under the lock.
func (p *ResultPanel) transition(result model.CountResult) {
	view := RenderPanel(result, p.labels)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = result
	p.view = view
	for ch := range p.subs {
		publish(ch, Render{View: view, Result: result})
	}
}

func (p *ResultPanel) closeSubscribers() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	for ch := range p.subs {
		delete(p.subs, ch)
		close(ch)
	}
}

func publish(ch chan Render, r Render) {
	select {
	case ch <- r:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}
	select {
	case ch <- r:
	default:
	}
}
