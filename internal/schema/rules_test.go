package schema

import (
	"strings"
	"testing"
)

func TestRulesForMessages(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  []string
	}{
		{
			name: "required default message",
			field: Field{Name: "title", Type: TypeText,
				Validations: Validations{Required: RequiredRule{Enabled: true}}},
			want: []string{"The title field is required."},
		},
		{
			name: "required custom message",
			field: Field{Name: "title", Type: TypeText,
				Validations: Validations{Required: RequiredRule{Enabled: true, Message: "Title it."}}},
			want: []string{"Title it."},
		},
		{
			name:  "email format",
			field: Field{Name: "contact", Type: TypeEmail},
			want:  []string{"The contact must be a valid email address."},
		},
		{
			name:  "numeric",
			field: Field{Name: "price", Type: TypeNumber},
			want:  []string{"The price must be numeric."},
		},
		{
			name: "charcount between",
			field: Field{Name: "title", Type: TypeText,
				Validations: Validations{CharCount: CharCountRule{Enabled: true, Policy: CharCountBetween, Min: 3, Max: 10}}},
			want: []string{"The title must be between 3 and 10 characters."},
		},
		{
			name: "charcount min",
			field: Field{Name: "title", Type: TypeText,
				Validations: Validations{CharCount: CharCountRule{Enabled: true, Policy: CharCountMin, Min: 3}}},
			want: []string{"The title must be at least 3 characters."},
		},
		{
			name: "charcount max",
			field: Field{Name: "title", Type: TypeText,
				Validations: Validations{CharCount: CharCountRule{Enabled: true, Policy: CharCountMax, Max: 10}}},
			want: []string{"The title may not be greater than 10 characters."},
		},
		{
			name: "number bounds drop the characters suffix",
			field: Field{Name: "price", Type: TypeNumber,
				Validations: Validations{CharCount: CharCountRule{Enabled: true, Policy: CharCountBetween, Min: 1, Max: 100}}},
			want: []string{
				"The price must be numeric.",
				"The price must be between 1 and 100.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := RulesFor(tt.field)
			if len(rules) != len(tt.want) {
				t.Fatalf("got %d rules, want %d", len(rules), len(tt.want))
			}
			for i, r := range rules {
				if r.Message != tt.want[i] {
					t.Errorf("rule %d message = %q, want %q", i, r.Message, tt.want[i])
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	fields := []Field{
		{Name: "title", Type: TypeText, Validations: Validations{
			Required:  RequiredRule{Enabled: true},
			CharCount: CharCountRule{Enabled: true, Policy: CharCountMax, Max: 5},
		}},
		{Name: "contact", Type: TypeEmail},
		{Name: "price", Type: TypeNumber, Validations: Validations{
			CharCount: CharCountRule{Enabled: true, Policy: CharCountMin, Min: 10},
		}},
	}

	t.Run("clean input", func(t *testing.T) {
		errs := Validate(fields, map[string]any{"title": "hi", "contact": "a@b.co", "price": 25})
		if errs != nil {
			t.Fatalf("unexpected errors: %v", errs)
		}
	})

	t.Run("missing required", func(t *testing.T) {
		errs := Validate(fields, map[string]any{})
		if got := errs["title"]; len(got) != 1 || got[0] != "The title field is required." {
			t.Errorf("title errors = %v", got)
		}
	})

	t.Run("empty string fails required", func(t *testing.T) {
		errs := Validate(fields, map[string]any{"title": ""})
		if len(errs["title"]) != 1 {
			t.Errorf("title errors = %v", errs["title"])
		}
	})

	t.Run("bad email", func(t *testing.T) {
		errs := Validate(fields, map[string]any{"title": "hi", "contact": "not-an-email"})
		if got := errs["contact"]; len(got) != 1 || got[0] != "The contact must be a valid email address." {
			t.Errorf("contact errors = %v", got)
		}
	})

	t.Run("absent optional fields pass format rules", func(t *testing.T) {
		errs := Validate(fields, map[string]any{"title": "hi"})
		if errs != nil {
			t.Fatalf("unexpected errors: %v", errs)
		}
	})

	t.Run("charcount over max", func(t *testing.T) {
		errs := Validate(fields, map[string]any{"title": "too long here"})
		if got := errs["title"]; len(got) != 1 || got[0] != "The title may not be greater than 5 characters." {
			t.Errorf("title errors = %v", got)
		}
	})

	t.Run("number bounds compare the value", func(t *testing.T) {
		errs := Validate(fields, map[string]any{"title": "hi", "price": 3})
		if got := errs["price"]; len(got) != 1 || got[0] != "The price must be at least 10." {
			t.Errorf("price errors = %v", got)
		}
		// 3 has one character; only the numeric comparison can fail here.
		if errs2 := Validate(fields, map[string]any{"title": "hi", "price": 30}); errs2 != nil {
			t.Errorf("unexpected errors: %v", errs2)
		}
	})

	t.Run("non-numeric number field", func(t *testing.T) {
		errs := Validate(fields, map[string]any{"title": "hi", "price": "abc"})
		found := false
		for _, msg := range errs["price"] {
			if msg == "The price must be numeric." {
				found = true
			}
		}
		if !found {
			t.Errorf("price errors = %v", errs["price"])
		}
	})
}

func TestFieldErrorsError(t *testing.T) {
	errs := FieldErrors{}
	errs.Add("b", "second.")
	errs.Add("a", "first.")
	got := errs.Error()
	if !strings.Contains(got, "first.") || !strings.Contains(got, "second.") {
		t.Errorf("Error() = %q", got)
	}
	if strings.Index(got, "first.") > strings.Index(got, "second.") {
		t.Errorf("messages not in field order: %q", got)
	}
}
