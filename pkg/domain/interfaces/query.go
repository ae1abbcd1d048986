package interfaces

import (
	"context"

	"github.com/secmon-lab/recmu/pkg/domain/model"
)

// CountQueryService requests userCount for a set of variables.
//
// FetchUserCount returns immediately. The channel yields a pending result,
// then exactly one terminal result (succeeded or failed), and is closed.
// When ctx is cancelled before completion the channel is closed without a
// terminal result.
type CountQueryService interface {
	FetchUserCount(ctx context.Context, vars model.CountVariables) <-chan model.CountResult
}
