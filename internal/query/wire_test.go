package query

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseFilterSingleGroup(t *testing.T) {
	expr, err := ParseFilter(map[string]any{"category": "guides"})
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	cmp, ok := expr.(*Compare)
	if !ok {
		t.Fatalf("expr = %T", expr)
	}
	if cmp.Field != "category" || cmp.Op != OpEq || cmp.Value != "guides" {
		t.Errorf("cmp = %+v", cmp)
	}
}

func TestParseFilterOperators(t *testing.T) {
	tests := []struct {
		name    string
		operand any
		wantOp  Op
		value   string
		values  []string
	}{
		{"not", map[string]any{"not": "x"}, OpNot, "x", nil},
		{"in", map[string]any{"in": "a,b,c"}, OpIn, "", []string{"a", "b", "c"}},
		{"not_in", map[string]any{"not_in": "a,b"}, OpNotIn, "", []string{"a", "b"}},
		{"lt", map[string]any{"lt": float64(5)}, OpLt, "5", nil},
		{"lte", map[string]any{"lte": "5"}, OpLte, "5", nil},
		{"gt", map[string]any{"gt": "5"}, OpGt, "5", nil},
		{"gte", map[string]any{"gte": "5"}, OpGte, "5", nil},
		{"between", map[string]any{"between": "1,9"}, OpBetween, "", []string{"1", "9"}},
		{"not_between", map[string]any{"not_between": "1,9"}, OpNotBetween, "", []string{"1", "9"}},
		{"like", map[string]any{"like": "needle"}, OpLike, "needle", nil},
		{"null sentinel", "null", OpNull, "", nil},
		{"not_null sentinel", "not_null", OpNotNull, "", nil},
		{"bare equality", "v", OpEq, "v", nil},
		{"numeric equality", float64(7), OpEq, "7", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseFilter(map[string]any{"f": tt.operand})
			if err != nil {
				t.Fatalf("ParseFilter: %v", err)
			}
			cmp := expr.(*Compare)
			if cmp.Op != tt.wantOp {
				t.Errorf("op = %s, want %s", cmp.Op, tt.wantOp)
			}
			if cmp.Value != tt.value {
				t.Errorf("value = %q, want %q", cmp.Value, tt.value)
			}
			if !reflect.DeepEqual(cmp.Values, tt.values) {
				t.Errorf("values = %v, want %v", cmp.Values, tt.values)
			}
		})
	}
}

func TestParseFilterMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"unknown operator", map[string]any{"f": map[string]any{"fuzzy": "x"}}},
		{"two operators", map[string]any{"f": map[string]any{"lt": "1", "gt": "2"}}},
		{"between one bound", map[string]any{"f": map[string]any{"between": "1"}}},
		{"between three bounds", map[string]any{"f": map[string]any{"between": "1,2,3"}}},
		{"scalar group", []any{"nope"}},
		{"scalar filter", "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(tt.raw)
			if !errors.Is(err, ErrMalformedFilter) {
				t.Errorf("err = %v, want ErrMalformedFilter", err)
			}
		})
	}
}

func TestParseFilterGroupList(t *testing.T) {
	raw := []any{
		map[string]any{"category": "guides", "locale": "en"},
		map[string]any{"price": map[string]any{"lt": "10"}},
		map[string]any{"or": map[string]any{"featured": "true"}},
	}
	expr, err := ParseFilter(raw)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}

	or, ok := expr.(*Or)
	if !ok {
		t.Fatalf("top = %T, want *Or", expr)
	}
	if len(or.Exprs) != 2 {
		t.Fatalf("or arms = %d", len(or.Exprs))
	}

	// First arm is the AND-run of the two leading groups.
	and, ok := or.Exprs[0].(*And)
	if !ok {
		t.Fatalf("first arm = %T", or.Exprs[0])
	}
	if len(and.Exprs) != 3 {
		t.Errorf("and run has %d comparisons", len(and.Exprs))
	}
	if cmp, ok := or.Exprs[1].(*Compare); !ok || cmp.Field != "featured" {
		t.Errorf("second arm = %+v", or.Exprs[1])
	}
}

func TestParseFilterIndexedGroups(t *testing.T) {
	raw := map[string]any{
		"1":  map[string]any{"b": "2"},
		"0":  map[string]any{"a": "1"},
		"or": map[string]any{"c": "3"},
	}
	expr, err := ParseFilter(raw)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	or, ok := expr.(*Or)
	if !ok {
		t.Fatalf("top = %T, want *Or", expr)
	}
	and, ok := or.Exprs[0].(*And)
	if !ok || len(and.Exprs) != 2 {
		t.Fatalf("first arm = %#v", or.Exprs[0])
	}
	if and.Exprs[0].(*Compare).Field != "a" {
		t.Errorf("index order not respected: %+v", and.Exprs[0])
	}
}

func TestParseFilterAllOrGroups(t *testing.T) {
	// A leading or-group joins nothing, so two groups make one OR.
	raw := []any{
		map[string]any{"a": "1"},
		map[string]any{"or": map[string]any{"b": "2"}},
		map[string]any{"or": map[string]any{"c": "3"}},
	}
	expr, err := ParseFilter(raw)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	or := expr.(*Or)
	if len(or.Exprs) != 3 {
		t.Errorf("or arms = %d, want 3", len(or.Exprs))
	}
}

func TestParseFilterNil(t *testing.T) {
	expr, err := ParseFilter(nil)
	if err != nil || expr != nil {
		t.Errorf("got (%v, %v)", expr, err)
	}
}

func TestParseSort(t *testing.T) {
	keys, err := ParseSort("price:desc,name:asc")
	if err != nil {
		t.Fatalf("ParseSort: %v", err)
	}
	want := []SortKey{{Field: "price", Desc: true}, {Field: "name"}}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v", keys)
	}

	if keys, err := ParseSort(""); err != nil || keys != nil {
		t.Errorf("empty sort: (%v, %v)", keys, err)
	}

	if keys, err := ParseSort("name:DESC"); err != nil || !keys[0].Desc {
		t.Errorf("direction should be case-insensitive: (%v, %v)", keys, err)
	}

	for _, bad := range []string{"name", "name:asc:extra", "name:sideways"} {
		if _, err := ParseSort(bad); !errors.Is(err, ErrMalformedSort) {
			t.Errorf("ParseSort(%q) err = %v, want ErrMalformedSort", bad, err)
		}
	}
}
