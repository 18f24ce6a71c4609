package engine

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/calderahq/caldera/internal/query"
	"github.com/calderahq/caldera/internal/schema"
)

// resolveRelations turns relation filters into containment conditions on
// the parsed expression. Each target condition runs a substring match over
// the target collection's attribute values; the first matching record wins
// and its id must appear in the relation field's comma-joined list. A
// target with no match fails the whole query with NotFound.
func (e *Engine) resolveRelations(sc *Scope, expr query.Expr, relations map[string]map[string]string) (query.Expr, error) {
	if len(relations) == 0 {
		return expr, nil
	}

	fields := sc.FieldSet()
	for _, name := range sortedKeys(relations) {
		f, ok := fields.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		if f.Type != schema.TypeRelation {
			return nil, fmt.Errorf("%w: %q is not a relation field", ErrMalformedFilter, name)
		}
		opts := f.Options.Relation
		if opts == nil || opts.Collection == 0 {
			return nil, fmt.Errorf("%w: relation field %q has no target collection", ErrMalformedFilter, name)
		}

		targetFields, err := e.store.FieldsForCollection(opts.Collection)
		if err != nil {
			return nil, err
		}
		targetSet := schema.NewFieldSet(targetFields)

		conditions := relations[name]
		for _, targetName := range sortedKeys(conditions) {
			if _, ok := targetSet.Lookup(targetName); !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownField, targetName)
			}
			id, found, err := e.store.FirstAttributeContaining(opts.Collection, targetName, conditions[targetName])
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, fmt.Errorf("relation %q: %w", name, ErrNotFound)
			}
			expr = query.Conjoin(expr, &query.Compare{
				Field: name,
				Op:    query.OpContains,
				Value: strconv.FormatInt(id, 10),
			})
		}
	}
	return expr, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
