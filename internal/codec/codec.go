// Package codec converts typed field input to and from the flat string form
// stored in attribute rows.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/calderahq/caldera/internal/schema"
)

// ErrInvalidValue reports input that cannot be encoded for its field type.
var ErrInvalidValue = errors.New("invalid value for field")

// Encode renders value into the stored string form for field f.
//
// prev is the currently stored value for the field on the record being
// written, with hasPrev reporting whether such a live row exists. Only the
// password type consults it: a blank password on update preserves the
// previous hash instead of overwriting it.
func Encode(f schema.Field, value any, prev string, hasPrev bool) (string, error) {
	switch f.Type {
	case schema.TypePassword:
		return encodePassword(value, prev, hasPrev)
	case schema.TypeMedia, schema.TypeRelation:
		return joinList(value), nil
	case schema.TypeJSON:
		b, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("%w %q: %v", ErrInvalidValue, f.Name, err)
		}
		return string(b), nil
	case schema.TypeText, schema.TypeTextarea, schema.TypeRichText,
		schema.TypeEmail, schema.TypeNumber, schema.TypeDate, schema.TypeBoolean:
		return schema.Stringify(value), nil
	}
	return "", fmt.Errorf("%w %q: unhandled type %q", ErrInvalidValue, f.Name, f.Type)
}

// Decode converts a stored value back to its API shape for field f. Lists
// come back as string slices, json blobs as parsed values, hashes and
// scalars as the stored string.
func Decode(f schema.Field, stored string) any {
	switch f.Type {
	case schema.TypeMedia, schema.TypeRelation:
		if stored == "" {
			return []string{}
		}
		return strings.Split(stored, ",")
	case schema.TypeJSON:
		var v any
		if err := json.Unmarshal([]byte(stored), &v); err != nil {
			return stored
		}
		return v
	}
	return stored
}

func encodePassword(value any, prev string, hasPrev bool) (string, error) {
	plain := schema.Stringify(value)
	if plain == "" {
		if hasPrev {
			return prev, nil
		}
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches a stored password hash.
func VerifyPassword(stored, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}

// joinList flattens list-shaped input to a comma-joined string, dropping
// empty entries. A plain string is treated as already comma-joined.
func joinList(value any) string {
	var items []string
	switch t := value.(type) {
	case nil:
		return ""
	case string:
		items = strings.Split(t, ",")
	case []string:
		items = t
	case []any:
		for _, item := range t {
			items = append(items, schema.Stringify(item))
		}
	default:
		return schema.Stringify(value)
	}

	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			kept = append(kept, item)
		}
	}
	return strings.Join(kept, ",")
}
