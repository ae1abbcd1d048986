package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/recmu/pkg/usecase"
)

func TestErrors_SentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrPanelMounted", usecase.ErrPanelMounted},
		{"ErrPanelUnmounted", usecase.ErrPanelUnmounted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.err).NotNil()
			wrapped := goerr.Wrap(tt.err, "wrapped", goerr.V(usecase.PanelIDKey, "panel-1"))
			gt.Bool(t, errors.Is(wrapped, tt.err)).True()
		})
	}
}

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	gt.Bool(t, errors.Is(usecase.ErrPanelMounted, usecase.ErrPanelUnmounted)).False()
	gt.Bool(t, errors.Is(usecase.ErrPanelUnmounted, usecase.ErrPanelMounted)).False()
}
