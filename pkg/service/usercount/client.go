package usercount

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/shurcooL/graphql"
	"golang.org/x/sync/singleflight"

	"github.com/secmon-lab/recmu/pkg/domain/model"
	"github.com/secmon-lab/recmu/pkg/utils/errutil"
	"github.com/secmon-lab/recmu/pkg/utils/logging"
)

type client struct {
	gql     *graphql.Client
	timeout time.Duration
	group   singleflight.Group

	mu    sync.Mutex
	calls map[string]*sharedCall
}

// sharedCall is the context of one upstream request shared by every fetch
// of the same variables. It is cancelled once no fetch waits for it.
type sharedCall struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

type options struct {
	httpClient *http.Client
	token      string
	timeout    time.Duration
}

// Option configures the GraphQL client
type Option func(*options)

// WithHTTPClient sets the HTTP client used for upstream requests
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithToken sends the token as a bearer Authorization header
func WithToken(token string) Option {
	return func(o *options) {
		o.token = token
	}
}

// WithTimeout bounds every upstream request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// New creates a userCount Service for the given GraphQL endpoint
func New(endpoint string, opts ...Option) (Service, error) {
	if endpoint == "" {
		return nil, goerr.New("GraphQL endpoint is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse GraphQL endpoint", goerr.V("endpoint", endpoint))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, goerr.New("GraphQL endpoint must be http or https", goerr.V("endpoint", endpoint))
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if o.token != "" {
		hc := *httpClient
		hc.Transport = &bearerTransport{base: hc.Transport, token: o.token}
		httpClient = &hc
	}

	return &client{
		gql:     graphql.NewClient(endpoint, httpClient),
		timeout: o.timeout,
		calls:   make(map[string]*sharedCall),
	}, nil
}

// userCountQuery renders as QueryDocument. A nullable *graphql.String
// variable declares $name as String.
type userCountQuery struct {
	UserCount model.Count `graphql:"userCount(name: $name)"`
}

func queryVariables(vars model.CountVariables) map[string]any {
	var name *graphql.String
	if vars.Name != nil {
		name = graphql.NewString(graphql.String(*vars.Name))
	}
	return map[string]any{"name": name}
}

// Query resolves userCount synchronously
func (c *client) Query(ctx context.Context, vars model.CountVariables) (model.Count, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var q userCountQuery
	if err := c.gql.Query(ctx, &q, queryVariables(vars)); err != nil {
		return model.Count{}, goerr.Wrap(errors.Join(ErrQueryFailed, err), "failed to query userCount",
			goerr.V("name", vars))
	}
	if !q.UserCount.Valid() {
		return model.Count{}, goerr.Wrap(ErrNullCount, "upstream returned no userCount",
			goerr.V("name", vars))
	}

	return q.UserCount, nil
}

// FetchUserCount runs Query in the background. Callers asking for the same
// variables at the same time share one upstream request, which is cancelled
// when the last of them goes away.
func (c *client) FetchUserCount(ctx context.Context, vars model.CountVariables) <-chan model.CountResult {
	ch := make(chan model.CountResult, 2)
	ch <- model.PendingResult()

	logger := logging.From(ctx).With("fetch_id", uuid.NewString(), "name", vars)
	key := vars.Key()
	call, resCh := c.join(logging.With(ctx, logger), key, vars)

	go func() {
		defer close(ch)
		defer c.leave(key, call)

		select {
		case <-ctx.Done():
			logger.Debug("userCount fetch abandoned", "error", ctx.Err())
			return

		case res := <-resCh:
			if res.Err != nil {
				ch <- model.FailedResult(res.Err)
				return
			}
			count := res.Val.(model.Count)
			logger.Debug("userCount resolved",
				"count", count.String(),
				"numeric", count.IsNumber(),
				"shared", res.Shared,
			)
			ch <- model.SucceededResult(count)
		}
	}()

	return ch
}

// join registers a waiter for key and returns the shared request for it,
// starting one when none is in flight
func (c *client) join(ctx context.Context, key string, vars model.CountVariables) (*sharedCall, <-chan singleflight.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	call, ok := c.calls[key]
	if !ok {
		callCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		call = &sharedCall{ctx: callCtx, cancel: cancel}
		c.calls[key] = call
	}
	call.waiters++

	resCh := c.group.DoChan(key, func() (any, error) {
		defer c.finish(key, call)

		logging.From(call.ctx).Debug("querying userCount")
		count, err := c.Query(call.ctx, vars)
		if err != nil && call.ctx.Err() == nil {
			_ = errutil.Handle(call.ctx, err, "userCount query failed")
		}
		return count, err
	})
	return call, resCh
}

// finish detaches a completed request so that later fetches start a new one
func (c *client) finish(key string, call *sharedCall) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.calls[key] == call {
		delete(c.calls, key)
	}
}

// leave drops a waiter and cancels the request when it was the last one
func (c *client) leave(key string, call *sharedCall) {
	c.mu.Lock()
	defer c.mu.Unlock()

	call.waiters--
	if call.waiters > 0 {
		return
	}
	call.cancel()
	if c.calls[key] == call {
		delete(c.calls, key)
		c.group.Forget(key)
	}
}

type bearerTransport struct {
	base  http.RoundTripper
	token string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	return base.RoundTrip(req)
}
