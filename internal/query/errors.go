package query

import "errors"

var (
	// ErrMalformedFilter reports a filter expression the wire grammar or
	// compiler rejects.
	ErrMalformedFilter = errors.New("malformed filter expression")

	// ErrUnknownField reports a filter referencing a field that is neither
	// a core content field nor part of the collection schema.
	ErrUnknownField = errors.New("field not found")

	// ErrMalformedSort reports a sort expression that is not a
	// comma-separated list of field:direction pairs.
	ErrMalformedSort = errors.New("malformed sort expression")
)
