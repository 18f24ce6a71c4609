package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calderahq/caldera/internal/codec"
	"github.com/calderahq/caldera/internal/engine"
)

var (
	errBadID         = errors.New("record id must be an integer")
	errBadWhere      = errors.New("where must be valid JSON")
	errBadPagination = errors.New("offset and limit must be integers")
	errBadBody       = errors.New("body must be a JSON object")
	errBadLocale     = errors.New("locale must be a string")
)

// fail writes the error response for err: 404 for missing scopes, records
// and relation targets; 422 for malformed queries, invalid values and
// validation failures; 500 otherwise. Validation failures carry the
// per-field messages.
func (s *Server) fail(c *gin.Context, err error) {
	var fieldErrs engine.FieldErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrs})
		return
	}

	switch {
	case errors.Is(err, engine.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Record not found!"})
	case errors.Is(err, engine.ErrUnknownField),
		errors.Is(err, engine.ErrMalformedFilter),
		errors.Is(err, engine.ErrMalformedSort),
		errors.Is(err, engine.ErrMalformedPagination),
		errors.Is(err, codec.ErrInvalidValue),
		errors.Is(err, errBadID),
		errors.Is(err, errBadWhere),
		errors.Is(err, errBadPagination),
		errors.Is(err, errBadBody),
		errors.Is(err, errBadLocale):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	default:
		s.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal error"})
	}
}
