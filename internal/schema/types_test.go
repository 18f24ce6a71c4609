package schema

import "testing"

func TestFieldTypeValid(t *testing.T) {
	for _, ft := range FieldTypes() {
		if !ft.Valid() {
			t.Errorf("%s should be valid", ft)
		}
	}
	for _, bad := range []FieldType{"", "string", "TEXT", "datetime"} {
		if bad.Valid() {
			t.Errorf("%q should be invalid", bad)
		}
	}
}

func TestValidationsRoundtrip(t *testing.T) {
	v := Validations{
		Required:  RequiredRule{Enabled: true, Message: "custom"},
		Unique:    UniqueRule{Enabled: true},
		CharCount: CharCountRule{Enabled: true, Policy: CharCountBetween, Min: 2, Max: 8},
	}
	encoded, err := EncodeValidations(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeValidations(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != v {
		t.Errorf("roundtrip changed value: %+v != %+v", decoded, v)
	}
}

func TestOptionsRoundtrip(t *testing.T) {
	o := Options{Relation: &RelationOptions{Collection: 7, Multiple: true}}
	encoded, err := EncodeOptions(o)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeOptions(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Relation == nil || *decoded.Relation != *o.Relation {
		t.Errorf("roundtrip changed value: %+v", decoded)
	}

	empty, err := DecodeOptions("")
	if err != nil {
		t.Fatalf("decode empty: %v", err)
	}
	if empty.Relation != nil || empty.Media != nil {
		t.Errorf("empty blob should decode to zero value: %+v", empty)
	}
}

func TestDisplayName(t *testing.T) {
	if got := (Field{Name: "title"}).DisplayName(); got != "title" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := (Field{Name: "title", Label: "Title"}).DisplayName(); got != "Title" {
		t.Errorf("DisplayName = %q", got)
	}
}
