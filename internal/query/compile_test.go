package query

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/calderahq/caldera/internal/schema"
)

func testCompiler() *Compiler {
	return NewCompiler([]schema.Field{
		{Name: "title", Type: schema.TypeText},
		{Name: "price", Type: schema.TypeNumber},
		{Name: "release", Type: schema.TypeDate},
		{Name: "author", Type: schema.TypeRelation},
	})
}

func TestCompileAttributeEquality(t *testing.T) {
	pred, err := testCompiler().Compile(&Compare{Field: "title", Op: OpEq, Value: "hello"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.HasPrefix(pred.Cond, "EXISTS (SELECT 1 FROM attributes a") {
		t.Errorf("cond = %s", pred.Cond)
	}
	if !strings.Contains(pred.Cond, "a.deleted_at IS NULL") {
		t.Errorf("live-row guard missing: %s", pred.Cond)
	}
	if !strings.Contains(pred.Cond, "a.value = ?") {
		t.Errorf("value comparison missing: %s", pred.Cond)
	}
	if !reflect.DeepEqual(pred.Args, []any{"title", "hello"}) {
		t.Errorf("args = %v", pred.Args)
	}
}

func TestCompileTypedComparisons(t *testing.T) {
	t.Run("number casts to REAL", func(t *testing.T) {
		pred, err := testCompiler().Compile(&Compare{Field: "price", Op: OpLt, Value: "10"})
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if !strings.Contains(pred.Cond, "CAST(a.value AS REAL) < CAST(? AS REAL)") {
			t.Errorf("cond = %s", pred.Cond)
		}
	})

	t.Run("date compares by calendar date", func(t *testing.T) {
		pred, err := testCompiler().Compile(&Compare{Field: "release", Op: OpGte, Value: "2026-01-01"})
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if !strings.Contains(pred.Cond, "date(a.value) >= date(?)") {
			t.Errorf("cond = %s", pred.Cond)
		}
	})

	t.Run("in casts elements for numbers", func(t *testing.T) {
		pred, err := testCompiler().Compile(&Compare{Field: "price", Op: OpIn, Values: []string{"5", "10"}})
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if !strings.Contains(pred.Cond, "CAST(a.value AS REAL) IN (CAST(? AS REAL), CAST(? AS REAL))") {
			t.Errorf("cond = %s", pred.Cond)
		}
	})

	t.Run("not_in compares by date for dates", func(t *testing.T) {
		pred, err := testCompiler().Compile(&Compare{Field: "release", Op: OpNotIn, Values: []string{"2026-01-01"}})
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if !strings.Contains(pred.Cond, "date(a.value) NOT IN (date(?))") {
			t.Errorf("cond = %s", pred.Cond)
		}
	})

	t.Run("in stays raw for text", func(t *testing.T) {
		pred, err := testCompiler().Compile(&Compare{Field: "title", Op: OpIn, Values: []string{"a", "b"}})
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if !strings.Contains(pred.Cond, "a.value IN (?, ?)") {
			t.Errorf("cond = %s", pred.Cond)
		}
	})
}

func TestCompileRelationEquality(t *testing.T) {
	pred, err := testCompiler().Compile(&Compare{Field: "author", Op: OpEq, Value: "7"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(pred.Cond, "instr(',' || a.value || ',', ',' || ? || ',') > 0") {
		t.Errorf("cond = %s", pred.Cond)
	}
	if !reflect.DeepEqual(pred.Args, []any{"author", "7"}) {
		t.Errorf("args = %v", pred.Args)
	}
}

func TestCompileNullSentinels(t *testing.T) {
	pred, err := testCompiler().Compile(&Compare{Field: "title", Op: OpNull})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.HasPrefix(pred.Cond, "NOT EXISTS (") || !strings.Contains(pred.Cond, "a.value != ''") {
		t.Errorf("cond = %s", pred.Cond)
	}

	pred, err = testCompiler().Compile(&Compare{Field: "title", Op: OpNotNull})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if strings.HasPrefix(pred.Cond, "NOT EXISTS") || !strings.HasPrefix(pred.Cond, "EXISTS (") {
		t.Errorf("cond = %s", pred.Cond)
	}
}

func TestCompileCoreFields(t *testing.T) {
	t.Run("id equality", func(t *testing.T) {
		pred, err := testCompiler().Compile(&Compare{Field: "id", Op: OpEq, Value: "3"})
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if pred.Cond != "content.id = ?" {
			t.Errorf("cond = %s", pred.Cond)
		}
	})

	t.Run("date core field equality compares by date", func(t *testing.T) {
		pred, err := testCompiler().Compile(&Compare{Field: "created_at", Op: OpEq, Value: "2026-08-28"})
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if pred.Cond != "date(content.created_at) = date(?)" {
			t.Errorf("cond = %s", pred.Cond)
		}
	})

	t.Run("date core field in compares raw instants", func(t *testing.T) {
		pred, err := testCompiler().Compile(&Compare{Field: "created_at", Op: OpIn, Values: []string{"a", "b"}})
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if pred.Cond != "content.created_at IN (?, ?)" {
			t.Errorf("cond = %s", pred.Cond)
		}
	})

	t.Run("like rejected on core fields", func(t *testing.T) {
		_, err := testCompiler().Compile(&Compare{Field: "locale", Op: OpLike, Value: "e"})
		if !errors.Is(err, ErrMalformedFilter) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestCompileUnknownField(t *testing.T) {
	_, err := testCompiler().Compile(&Compare{Field: "bogus", Op: OpEq, Value: "x"})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestCompileBoolean(t *testing.T) {
	expr := &Or{Exprs: []Expr{
		&And{Exprs: []Expr{
			&Compare{Field: "title", Op: OpEq, Value: "a"},
			&Compare{Field: "price", Op: OpGt, Value: "1"},
		}},
		&Compare{Field: "title", Op: OpEq, Value: "b"},
	}}
	pred, err := testCompiler().Compile(expr)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(pred.Cond, " OR ") || !strings.Contains(pred.Cond, " AND ") {
		t.Errorf("cond = %s", pred.Cond)
	}
	if !strings.HasPrefix(pred.Cond, "(") {
		t.Errorf("boolean groups should parenthesize: %s", pred.Cond)
	}
	if len(pred.Args) != 6 {
		t.Errorf("args = %v", pred.Args)
	}
}

func TestCompileNil(t *testing.T) {
	pred, err := testCompiler().Compile(nil)
	if err != nil || pred != nil {
		t.Errorf("got (%v, %v)", pred, err)
	}
}
