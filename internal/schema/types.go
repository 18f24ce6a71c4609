// Package schema defines collection field definitions and the validation
// rules generated from them.
package schema

import "encoding/json"

// FieldType identifies the value shape of a collection field. The set is
// closed: every consumer (codec, predicate compiler, rule generator)
// switches over it exhaustively.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeTextarea FieldType = "textarea"
	TypeRichText FieldType = "richtext"
	TypeEmail    FieldType = "email"
	TypePassword FieldType = "password"
	TypeNumber   FieldType = "number"
	TypeDate     FieldType = "date"
	TypeBoolean  FieldType = "boolean"
	TypeMedia    FieldType = "media"
	TypeRelation FieldType = "relation"
	TypeJSON     FieldType = "json"
)

// FieldTypes returns all valid field types in a stable order.
func FieldTypes() []FieldType {
	return []FieldType{
		TypeText, TypeTextarea, TypeRichText, TypeEmail, TypePassword,
		TypeNumber, TypeDate, TypeBoolean, TypeMedia, TypeRelation, TypeJSON,
	}
}

// Valid reports whether t is a member of the closed type set.
func (t FieldType) Valid() bool {
	switch t {
	case TypeText, TypeTextarea, TypeRichText, TypeEmail, TypePassword,
		TypeNumber, TypeDate, TypeBoolean, TypeMedia, TypeRelation, TypeJSON:
		return true
	}
	return false
}

// Field is one named, typed slot in a collection's schema.
type Field struct {
	ID           int64       `json:"id" yaml:"-"`
	ProjectID    int64       `json:"project_id" yaml:"-"`
	CollectionID int64       `json:"collection_id" yaml:"-"`
	Name         string      `json:"name" yaml:"name"`
	Label        string      `json:"label" yaml:"label"`
	Type         FieldType   `json:"type" yaml:"type"`
	Description  string      `json:"description,omitempty" yaml:"description"`
	Placeholder  string      `json:"placeholder,omitempty" yaml:"placeholder"`
	Options      Options     `json:"options" yaml:"options"`
	Validations  Validations `json:"validations" yaml:"validations"`
	Position     int         `json:"position" yaml:"position"`
}

// DisplayName is the name used in validation messages: the label when set,
// the field name otherwise.
func (f Field) DisplayName() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// Options carries the per-type configuration blob stored alongside a field.
type Options struct {
	Relation *RelationOptions `json:"relation,omitempty" yaml:"relation"`
	Media    *MediaOptions    `json:"media,omitempty" yaml:"media"`
}

// RelationOptions configures a relation field: the target collection and
// whether the field holds one id or a list.
type RelationOptions struct {
	Collection int64 `json:"collection" yaml:"collection"`
	Multiple   bool  `json:"multiple,omitempty" yaml:"multiple"`
}

// MediaOptions configures a media field.
type MediaOptions struct {
	Kind     string `json:"kind,omitempty" yaml:"kind"`
	Multiple bool   `json:"multiple,omitempty" yaml:"multiple"`
}

// Validations is the stored validation configuration for a field. Rules are
// generated from it by RulesFor.
type Validations struct {
	Required  RequiredRule  `json:"required" yaml:"required"`
	Unique    UniqueRule    `json:"unique" yaml:"unique"`
	CharCount CharCountRule `json:"charcount" yaml:"charcount"`
}

// RequiredRule marks a field mandatory, with an optional custom message.
type RequiredRule struct {
	Enabled bool   `json:"status" yaml:"status"`
	Message string `json:"message,omitempty" yaml:"message"`
}

// UniqueRule requires the field value to be unique within the collection.
type UniqueRule struct {
	Enabled bool   `json:"status" yaml:"status"`
	Message string `json:"message,omitempty" yaml:"message"`
}

// CharCountPolicy selects which bound(s) a charcount rule enforces.
type CharCountPolicy string

const (
	CharCountBetween CharCountPolicy = "Between"
	CharCountMin     CharCountPolicy = "Min"
	CharCountMax     CharCountPolicy = "Max"
)

// CharCountRule bounds the length of a value. For number fields the bounds
// apply to the numeric value itself rather than the character count.
type CharCountRule struct {
	Enabled bool            `json:"status" yaml:"status"`
	Policy  CharCountPolicy `json:"type,omitempty" yaml:"type"`
	Min     int             `json:"min,omitempty" yaml:"min"`
	Max     int             `json:"max,omitempty" yaml:"max"`
}

// EncodeOptions serializes o for storage in the fields table.
func EncodeOptions(o Options) (string, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeOptions parses a stored options blob. Empty input yields the zero
// value.
func DecodeOptions(s string) (Options, error) {
	var o Options
	if s == "" {
		return o, nil
	}
	err := json.Unmarshal([]byte(s), &o)
	return o, err
}

// EncodeValidations serializes v for storage in the fields table.
func EncodeValidations(v Validations) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeValidations parses a stored validations blob.
func DecodeValidations(s string) (Validations, error) {
	var v Validations
	if s == "" {
		return v, nil
	}
	err := json.Unmarshal([]byte(s), &v)
	return v, err
}

// FieldSet indexes fields by name.
type FieldSet map[string]Field

// NewFieldSet builds a FieldSet from an ordered field list.
func NewFieldSet(fields []Field) FieldSet {
	set := make(FieldSet, len(fields))
	for _, f := range fields {
		set[f.Name] = f
	}
	return set
}

// Lookup returns the field named name, if present.
func (s FieldSet) Lookup(name string) (Field, bool) {
	f, ok := s[name]
	return f, ok
}
