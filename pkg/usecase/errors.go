package usecase

import "errors"

// Sentinel errors for use case layer
var (
	ErrPanelMounted   = errors.New("panel is already mounted")
	ErrPanelUnmounted = errors.New("panel is not mounted")
)

// Context keys for error values
const (
	PanelIDKey = "panel_id"
)
