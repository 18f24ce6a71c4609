package engine

import (
	"errors"

	"github.com/calderahq/caldera/internal/query"
	"github.com/calderahq/caldera/internal/schema"
	"github.com/calderahq/caldera/internal/store"
)

// Sentinels surfaced by engine operations. Filter and sort errors pass
// through from the query package so callers match one taxonomy.
var (
	// ErrNotFound covers missing scopes, missing records, empty first-mode
	// results and unmatched relation targets.
	ErrNotFound = store.ErrNotFound

	// ErrMalformedPagination reports an offset given without a limit.
	ErrMalformedPagination = errors.New("offset requires limit")

	ErrMalformedFilter = query.ErrMalformedFilter
	ErrUnknownField    = query.ErrUnknownField
	ErrMalformedSort   = query.ErrMalformedSort
)

// FieldErrors aggregates validation and uniqueness failures per field.
type FieldErrors = schema.FieldErrors
