package usecase

import (
	"context"

	"github.com/secmon-lab/recmu/pkg/domain/model"
	"github.com/secmon-lab/recmu/pkg/utils/logging"
)

// Resolve mounts a panel for vars and waits until the query finishes or ctx
// is done, whichever comes first. It returns the last render together with
// the result it was rendered from; on ctx expiry that is the pending render.
func (uc *UseCases) Resolve(ctx context.Context, vars model.CountVariables) (*model.Node, model.CountResult) {
	panel := uc.NewPanel()
	renders, cancel := panel.Subscribe()
	defer cancel()

	if err := panel.Mount(ctx, vars); err != nil {
		// A fresh panel cannot already be mounted
		logging.From(ctx).Error("failed to mount panel", PanelIDKey, panel.ID(), "error", err)
		result := model.FailedResult(err)
		return RenderPanel(result, uc.labels), result
	}
	defer panel.Unmount()

	for {
		select {
		case r, ok := <-renders:
			if !ok {
				return uc.lastRender(panel)
			}
			if r.Result.IsTerminal() {
				return r.View, r.Result
			}
		case <-ctx.Done():
			return uc.lastRender(panel)
		}
	}
}

// Watch mounts a panel for vars and calls fn with every render until the
// query finishes, ctx is done or fn returns false.
func (uc *UseCases) Watch(ctx context.Context, vars model.CountVariables, fn func(view *model.Node, result model.CountResult) bool) error {
	panel := uc.NewPanel()
	renders, cancel := panel.Subscribe()
	defer cancel()

	if err := panel.Mount(ctx, vars); err != nil {
		return err
	}
	defer panel.Unmount()

	for {
		select {
		case r, ok := <-renders:
			if !ok {
				return nil
			}
			if !fn(r.View, r.Result) || r.Result.IsTerminal() {
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (uc *UseCases) lastRender(panel *ResultPanel) (*model.Node, model.CountResult) {
	view, state := panel.View(), panel.State()
	if view == nil {
		state = model.PendingResult()
		view = RenderPanel(state, uc.labels)
	}
	return view, state
}
