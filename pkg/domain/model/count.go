package model

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

// ErrInvalidCount is returned when userCount holds neither a number nor a string
var ErrInvalidCount = goerr.New("userCount must be a number or a string")

// Count is the value resolved under the userCount field. Resolvers may return
// an Int or a numeric String, so the literal is kept as received.
type Count struct {
	raw     string
	numeric bool
	valid   bool
}

// NewIntCount creates a numeric Count
func NewIntCount(n int64) Count {
	return Count{raw: strconv.FormatInt(n, 10), numeric: true, valid: true}
}

// NewStringCount creates a Count from a string value
func NewStringCount(s string) Count {
	return Count{raw: s, valid: true}
}

// Valid returns false for the zero Count and for a null userCount
func (c Count) Valid() bool {
	return c.valid
}

// IsNumber reports whether upstream returned a JSON number
func (c Count) IsNumber() bool {
	return c.numeric
}

// String returns the count exactly as it should be displayed
func (c Count) String() string {
	return c.raw
}

// UnmarshalJSON accepts a JSON number, a JSON string or null
func (c *Count) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return goerr.Wrap(ErrInvalidCount, "empty userCount value")
	}

	switch trimmed[0] {
	case 'n':
		if !bytes.Equal(trimmed, []byte("null")) {
			return goerr.Wrap(ErrInvalidCount, "malformed userCount", goerr.V("raw", string(trimmed)))
		}
		*c = Count{}
		return nil

	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return goerr.Wrap(err, "failed to decode userCount string")
		}
		*c = NewStringCount(s)
		return nil

	case '{', '[', 't', 'f':
		return goerr.Wrap(ErrInvalidCount, "unsupported userCount value", goerr.V("raw", string(trimmed)))
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return goerr.Wrap(ErrInvalidCount, "malformed userCount number", goerr.V("raw", string(trimmed)))
	}
	*c = Count{raw: n.String(), numeric: true, valid: true}
	return nil
}

// MarshalJSON keeps the original JSON type of the count
func (c Count) MarshalJSON() ([]byte, error) {
	switch {
	case !c.valid:
		return []byte("null"), nil
	case c.numeric:
		return []byte(c.raw), nil
	default:
		return json.Marshal(c.raw)
	}
}

// ResultStatus is the discriminator of CountResult
type ResultStatus int

const (
	StatusPending ResultStatus = iota
	StatusFailed
	StatusSucceeded
)

func (s ResultStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFailed:
		return "failed"
	case StatusSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// CountResult is the three-state outcome of a userCount query.
// Err is set only for StatusFailed and Count only for StatusSucceeded.
type CountResult struct {
	Status ResultStatus
	Count  Count
	Err    error
}

// PendingResult means no data has arrived yet
func PendingResult() CountResult {
	return CountResult{Status: StatusPending}
}

// FailedResult wraps the query failure. The error is never displayed.
func FailedResult(err error) CountResult {
	return CountResult{Status: StatusFailed, Err: err}
}

// SucceededResult carries the resolved count
func SucceededResult(count Count) CountResult {
	return CountResult{Status: StatusSucceeded, Count: count}
}

// IsTerminal reports whether the query has finished, successfully or not
func (r CountResult) IsTerminal() bool {
	return r.Status != StatusPending
}

// CountVariables are the variables of the userCount query.
// A nil Name is sent as GraphQL null; an empty string is sent verbatim.
type CountVariables struct {
	Name *string
}

// NameVariables creates variables with the given name set
func NameVariables(name string) CountVariables {
	return CountVariables{Name: &name}
}

// Equal compares by value, treating two nil names as equal
func (v CountVariables) Equal(other CountVariables) bool {
	if v.Name == nil || other.Name == nil {
		return v.Name == nil && other.Name == nil
	}
	return *v.Name == *other.Name
}

// Key identifies the variables for request deduplication
func (v CountVariables) Key() string {
	if v.Name == nil {
		return "null"
	}
	return "name:" + *v.Name
}

// LogValue implements slog.LogValuer
func (v CountVariables) LogValue() slog.Value {
	if v.Name == nil {
		return slog.StringValue("<null>")
	}
	return slog.StringValue(*v.Name)
}
