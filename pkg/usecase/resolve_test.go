package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/recmu/pkg/domain/model"
	"github.com/secmon-lab/recmu/pkg/domain/model/config"
	"github.com/secmon-lab/recmu/pkg/usecase"
)

func TestUseCases_Resolve(t *testing.T) {
	t.Run("returns the succeeded render", func(t *testing.T) {
		svc := &mockCountService{autoDone: respondWith(model.SucceededResult(model.NewIntCount(42)))}
		uc := usecase.New(svc)

		view, result := uc.Resolve(context.Background(), model.NameVariables("alice"))
		gt.Value(t, result.Status).Equal(model.StatusSucceeded)
		gt.Value(t, view.Find(model.NodeValue).Text).Equal("42")
	})

	t.Run("returns the failed render", func(t *testing.T) {
		svc := &mockCountService{autoDone: respondWith(model.FailedResult(errors.New("boom")))}
		uc := usecase.New(svc)

		view, result := uc.Resolve(context.Background(), model.NameVariables("alice"))
		gt.Value(t, result.Status).Equal(model.StatusFailed)
		gt.Value(t, view.Texts()).Equal([]string{"Error: help!"})
	})

	t.Run("returns loading when the context expires", func(t *testing.T) {
		svc := &mockCountService{}
		uc := usecase.New(svc)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		view, result := uc.Resolve(ctx, model.NameVariables("alice"))
		gt.Value(t, result.Status).Equal(model.StatusPending)
		gt.Value(t, view.Find(model.NodeValue).Text).Equal("Loading...")

		waitFor(t, func() bool { return len(svc.Calls()) == 1 && svc.Calls()[0].ctx.Err() != nil })
	})

	t.Run("uses configured labels", func(t *testing.T) {
		labels := config.DefaultPanel()
		labels.ErrorMessage = "Something went wrong"
		svc := &mockCountService{autoDone: respondWith(model.FailedResult(errors.New("boom")))}
		uc := usecase.New(svc, usecase.WithLabels(labels))

		view, _ := uc.Resolve(context.Background(), model.NameVariables("alice"))
		gt.Value(t, view.Texts()).Equal([]string{"Something went wrong"})
	})
}

func TestUseCases_Watch(t *testing.T) {
	t.Run("delivers every render until terminal", func(t *testing.T) {
		svc := &mockCountService{autoDone: respondWith(model.SucceededResult(model.NewStringCount("12")))}
		uc := usecase.New(svc)

		var values []string
		err := uc.Watch(context.Background(), model.NameVariables("alice"), func(view *model.Node, result model.CountResult) bool {
			values = append(values, view.Find(model.NodeValue).Text)
			return true
		})
		gt.NoError(t, err)
		gt.Value(t, values).Equal([]string{"Loading...", "12"})
	})

	t.Run("stops when the callback returns false", func(t *testing.T) {
		svc := &mockCountService{}
		uc := usecase.New(svc)

		calls := 0
		err := uc.Watch(context.Background(), model.NameVariables("alice"), func(*model.Node, model.CountResult) bool {
			calls++
			return false
		})
		gt.NoError(t, err)
		gt.Value(t, calls).Equal(1)
	})
}
