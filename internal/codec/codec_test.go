package codec

import (
	"reflect"
	"strings"
	"testing"

	"github.com/calderahq/caldera/internal/schema"
)

func TestEncodeLists(t *testing.T) {
	relation := schema.Field{Name: "tags", Type: schema.TypeRelation}

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string slice", []string{"3", "7"}, "3,7"},
		{"any slice", []any{float64(3), "7"}, "3,7"},
		{"comma string", "3,7", "3,7"},
		{"drops empties", []string{"3", "", "7", ""}, "3,7"},
		{"empty slice", []string{}, ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(relation, tt.value, "", false)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeLists(t *testing.T) {
	media := schema.Field{Name: "gallery", Type: schema.TypeMedia}

	got := Decode(media, "a.png,b.png")
	if !reflect.DeepEqual(got, []string{"a.png", "b.png"}) {
		t.Errorf("Decode = %v", got)
	}
	if got := Decode(media, ""); !reflect.DeepEqual(got, []string{}) {
		t.Errorf("Decode empty = %v", got)
	}
}

func TestEncodePassword(t *testing.T) {
	password := schema.Field{Name: "secret", Type: schema.TypePassword}

	first, err := Encode(password, "hunter2", "", false)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if first == "hunter2" || first == "" {
		t.Fatalf("password stored unhashed: %q", first)
	}
	if !VerifyPassword(first, "hunter2") {
		t.Error("hash does not verify")
	}
	if VerifyPassword(first, "wrong") {
		t.Error("wrong password verified")
	}

	second, err := Encode(password, "hunter2", "", false)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if second == first {
		t.Error("hashes should be salted differently")
	}

	t.Run("blank on update keeps previous hash", func(t *testing.T) {
		kept, err := Encode(password, "", first, true)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if kept != first {
			t.Errorf("blank update replaced hash: %q", kept)
		}
	})

	t.Run("blank on create stays empty", func(t *testing.T) {
		got, err := Encode(password, "", "", false)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if got != "" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("non-blank update rehashes", func(t *testing.T) {
		got, err := Encode(password, "newpass", first, true)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if got == first || !VerifyPassword(got, "newpass") {
			t.Errorf("update did not rehash: %q", got)
		}
	})
}

func TestEncodeJSON(t *testing.T) {
	field := schema.Field{Name: "meta", Type: schema.TypeJSON}

	stored, err := Encode(field, map[string]any{"a": float64(1)}, "", false)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if stored != `{"a":1}` {
		t.Errorf("stored = %q", stored)
	}

	decoded := Decode(field, stored)
	m, ok := decoded.(map[string]any)
	if !ok || m["a"] != float64(1) {
		t.Errorf("decoded = %#v", decoded)
	}

	// Unparseable blobs come back raw rather than vanishing.
	if got := Decode(field, "not json"); got != "not json" {
		t.Errorf("Decode = %#v", got)
	}
}

func TestEncodeScalars(t *testing.T) {
	tests := []struct {
		typ   schema.FieldType
		value any
		want  string
	}{
		{schema.TypeText, "hello", "hello"},
		{schema.TypeNumber, float64(12.5), "12.5"},
		{schema.TypeNumber, float64(10), "10"},
		{schema.TypeBoolean, true, "true"},
		{schema.TypeDate, "2026-08-28", "2026-08-28"},
	}
	for _, tt := range tests {
		got, err := Encode(schema.Field{Name: "f", Type: tt.typ}, tt.value, "", false)
		if err != nil {
			t.Fatalf("Encode(%s): %v", tt.typ, err)
		}
		if got != tt.want {
			t.Errorf("Encode(%s, %v) = %q, want %q", tt.typ, tt.value, got, tt.want)
		}
	}
}

func TestEncodeUnknownType(t *testing.T) {
	_, err := Encode(schema.Field{Name: "f", Type: "bogus"}, "x", "", false)
	if err == nil || !strings.Contains(err.Error(), "unhandled type") {
		t.Errorf("err = %v", err)
	}
}
