package usecase

import (
	"github.com/secmon-lab/recmu/pkg/domain/interfaces"
	"github.com/secmon-lab/recmu/pkg/domain/model/config"
)

type UseCases struct {
	svc    interfaces.CountQueryService
	labels *config.Panel
}

type Option func(*UseCases)

// WithLabels overrides the default panel labels
func WithLabels(labels *config.Panel) Option {
	return func(uc *UseCases) {
		if labels != nil {
			uc.labels = labels
		}
	}
}

func New(svc interfaces.CountQueryService, opts ...Option) *UseCases {
	uc := &UseCases{
		svc:    svc,
		labels: config.DefaultPanel(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// NewPanel creates an unmounted panel wired to the configured query service
func (uc *UseCases) NewPanel() *ResultPanel {
	return NewResultPanel(uc.svc, WithPanelLabels(uc.labels))
}
