package usercount

import (
	"context"
	"errors"

	"github.com/secmon-lab/recmu/pkg/domain/interfaces"
	"github.com/secmon-lab/recmu/pkg/domain/model"
)

// QueryDocument is the operation sent upstream for every panel render
const QueryDocument = `query($name: String) {
  userCount(name: $name)
}`

// SchemaSDL is the minimal upstream schema the query document is written
// against. It is used when no schema file is given to the validate command.
const SchemaSDL = `type Query {
  userCount(name: String): Int
}`

// Sentinel errors for the userCount query
var (
	ErrQueryFailed = errors.New("userCount query failed")
	ErrNullCount   = errors.New("userCount is null")
)

// Service provides userCount lookups against a GraphQL endpoint
type Service interface {
	interfaces.CountQueryService

	// Query resolves userCount synchronously
	Query(ctx context.Context, vars model.CountVariables) (model.Count, error)
}
