package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/calderahq/caldera/internal/schema"
)

var wireOps = map[string]Op{
	"not":         OpNot,
	"in":          OpIn,
	"not_in":      OpNotIn,
	"lt":          OpLt,
	"lte":         OpLte,
	"gt":          OpGt,
	"gte":         OpGte,
	"between":     OpBetween,
	"not_between": OpNotBetween,
	"like":        OpLike,
}

// ParseFilter converts a decoded wire filter into an expression tree.
//
// A plain object is one AND-joined group of field conditions. Grouped form
// is a list of group objects combined in order: a group spelled
// {"or": {...}} joins the running expression with OR, every other group
// with AND. OR binds looser than AND, so a chain splits into AND-runs at
// each or-group (SQL operator precedence). A numerically keyed object with
// at most one "or" key is accepted as an ordered list for query-string
// callers, the or-group applying last.
//
// A condition operand is either a bare value (equality, with the "null" and
// "not_null" sentinels testing attribute absence and presence) or an object
// with exactly one operator key.
func ParseFilter(raw any) (Expr, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		if groups, ors, ok := indexedGroups(v); ok {
			return foldGroups(groups, ors)
		}
		if inner, ok := soleOrGroup(v); ok {
			return parseGroup(inner)
		}
		return parseGroup(v)
	case []any:
		var groups []any
		var ors []bool
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: group must be an object", ErrMalformedFilter)
			}
			if inner, isOr := soleOrGroup(m); isOr {
				groups = append(groups, inner)
				ors = append(ors, true)
				continue
			}
			groups = append(groups, m)
			ors = append(ors, false)
		}
		return foldGroups(groups, ors)
	}
	return nil, fmt.Errorf("%w: unsupported filter shape %T", ErrMalformedFilter, raw)
}

// soleOrGroup unwraps {"or": {...}} into its inner group.
func soleOrGroup(m map[string]any) (map[string]any, bool) {
	if len(m) != 1 {
		return nil, false
	}
	inner, ok := m["or"]
	if !ok {
		return nil, false
	}
	group, ok := inner.(map[string]any)
	return group, ok
}

// indexedGroups recognizes the numerically keyed grouped form and returns
// the groups in index order, the or-group last.
func indexedGroups(m map[string]any) (groups []any, ors []bool, ok bool) {
	type indexed struct {
		idx   int
		group any
	}
	var plain []indexed
	var orGroup any
	hasOr := false

	for key, val := range m {
		if key == "or" {
			orGroup = val
			hasOr = true
			continue
		}
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, nil, false
		}
		plain = append(plain, indexed{idx: idx, group: val})
	}
	if len(plain) == 0 {
		return nil, nil, false
	}

	sort.Slice(plain, func(i, j int) bool { return plain[i].idx < plain[j].idx })
	for _, p := range plain {
		groups = append(groups, p.group)
		ors = append(ors, false)
	}
	if hasOr {
		groups = append(groups, orGroup)
		ors = append(ors, true)
	}
	return groups, ors, true
}

// foldGroups combines parsed groups into OR over AND-runs.
func foldGroups(groups []any, ors []bool) (Expr, error) {
	var runs []Expr
	var run Expr

	for i, g := range groups {
		m, ok := g.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: group must be an object", ErrMalformedFilter)
		}
		expr, err := parseGroup(m)
		if err != nil {
			return nil, err
		}
		if i > 0 && ors[i] {
			runs = append(runs, run)
			run = expr
			continue
		}
		run = Conjoin(run, expr)
	}
	if run != nil {
		runs = append(runs, run)
	}

	switch len(runs) {
	case 0:
		return nil, nil
	case 1:
		return runs[0], nil
	}
	return &Or{Exprs: runs}, nil
}

// parseGroup turns one {field: operand, ...} object into an AND of
// comparisons. Fields are visited in sorted order so compilation is
// deterministic.
func parseGroup(m map[string]any) (Expr, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	var out Expr
	for _, name := range names {
		cmp, err := parseOperand(name, m[name])
		if err != nil {
			return nil, err
		}
		out = Conjoin(out, cmp)
	}
	return out, nil
}

func parseOperand(field string, operand any) (*Compare, error) {
	if obj, ok := operand.(map[string]any); ok {
		if len(obj) != 1 {
			return nil, fmt.Errorf("%w: field %q needs exactly one operator", ErrMalformedFilter, field)
		}
		for name, val := range obj {
			op, ok := wireOps[name]
			if !ok {
				return nil, fmt.Errorf("%w: unknown operator %q", ErrMalformedFilter, name)
			}
			s := schema.Stringify(val)
			switch op {
			case OpIn, OpNotIn:
				return &Compare{Field: field, Op: op, Values: strings.Split(s, ",")}, nil
			case OpBetween, OpNotBetween:
				bounds := strings.Split(s, ",")
				if len(bounds) != 2 {
					return nil, fmt.Errorf("%w: %s needs exactly two bounds", ErrMalformedFilter, op)
				}
				return &Compare{Field: field, Op: op, Values: bounds}, nil
			}
			return &Compare{Field: field, Op: op, Value: s}, nil
		}
	}

	s := schema.Stringify(operand)
	switch s {
	case "null":
		return &Compare{Field: field, Op: OpNull}, nil
	case "not_null":
		return &Compare{Field: field, Op: OpNotNull}, nil
	}
	return &Compare{Field: field, Op: OpEq, Value: s}, nil
}

// SortKey is one parsed sort entry.
type SortKey struct {
	Field string
	Desc  bool
}

// ParseSort parses a comma-separated list of field:direction pairs. An
// empty string yields no keys.
func ParseSort(s string) ([]SortKey, error) {
	if s == "" {
		return nil, nil
	}

	var keys []SortKey
	for _, entry := range strings.Split(s, ",") {
		parts := strings.Split(entry, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: %q is not field:direction", ErrMalformedSort, entry)
		}
		key := SortKey{Field: parts[0]}
		switch strings.ToLower(parts[1]) {
		case "asc":
		case "desc":
			key.Desc = true
		default:
			return nil, fmt.Errorf("%w: direction %q", ErrMalformedSort, parts[1])
		}
		keys = append(keys, key)
	}
	return keys, nil
}
