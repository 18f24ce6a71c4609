package schema

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// RuleKind enumerates the generated validation rules.
type RuleKind int

const (
	RuleRequired RuleKind = iota
	RuleEmail
	RuleNumeric
	RuleBetween
	RuleMin
	RuleMax
)

// Rule is a single generated validation check with its failure message.
type Rule struct {
	Kind    RuleKind
	Message string
	Min     float64
	Max     float64
}

// RulesFor generates the validation rules for a field from its type and
// stored validation configuration.
func RulesFor(f Field) []Rule {
	var rules []Rule

	if f.Validations.Required.Enabled {
		msg := f.Validations.Required.Message
		if msg == "" {
			msg = fmt.Sprintf("The %s field is required.", f.Name)
		}
		rules = append(rules, Rule{Kind: RuleRequired, Message: msg})
	}

	switch f.Type {
	case TypeEmail:
		rules = append(rules, Rule{
			Kind:    RuleEmail,
			Message: fmt.Sprintf("The %s must be a valid email address.", f.Name),
		})
	case TypeNumber:
		rules = append(rules, Rule{
			Kind:    RuleNumeric,
			Message: fmt.Sprintf("The %s must be numeric.", f.Name),
		})
	}

	cc := f.Validations.CharCount
	if cc.Enabled {
		// Number fields bound the value itself, so the message drops the
		// "characters" suffix.
		suffix := " characters."
		if f.Type == TypeNumber {
			suffix = "."
		}
		switch cc.Policy {
		case CharCountBetween:
			rules = append(rules, Rule{
				Kind:    RuleBetween,
				Message: fmt.Sprintf("The %s must be between %d and %d%s", f.Name, cc.Min, cc.Max, suffix),
				Min:     float64(cc.Min),
				Max:     float64(cc.Max),
			})
		case CharCountMin:
			rules = append(rules, Rule{
				Kind:    RuleMin,
				Message: fmt.Sprintf("The %s must be at least %d%s", f.Name, cc.Min, suffix),
				Min:     float64(cc.Min),
			})
		case CharCountMax:
			rules = append(rules, Rule{
				Kind:    RuleMax,
				Message: fmt.Sprintf("The %s may not be greater than %d%s", f.Name, cc.Max, suffix),
				Max:     float64(cc.Max),
			})
		}
	}

	return rules
}

// UniqueMessage is the failure message for a uniqueness violation on f.
func UniqueMessage(f Field) string {
	if f.Validations.Unique.Message != "" {
		return f.Validations.Unique.Message
	}
	return fmt.Sprintf("The %s has already been taken.", f.Name)
}

// FieldErrors aggregates validation failures by field name. A nil map means
// the input is valid.
type FieldErrors map[string][]string

// Add appends a failure message for a field.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Error joins all messages in field-name order.
func (e FieldErrors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		parts = append(parts, strings.Join(e[name], " "))
	}
	return strings.Join(parts, " ")
}

// Validate checks values against the rules generated for fields. It returns
// nil when every rule passes. Non-required rules only apply to values that
// are present and non-empty.
func Validate(fields []Field, values map[string]any) FieldErrors {
	errs := make(FieldErrors)

	for _, f := range fields {
		raw, present := values[f.Name]
		s := Stringify(raw)

		for _, r := range RulesFor(f) {
			switch r.Kind {
			case RuleRequired:
				if !present || isEmpty(raw) {
					errs.Add(f.Name, r.Message)
				}
			case RuleEmail:
				if s == "" {
					continue
				}
				if _, err := mail.ParseAddress(s); err != nil {
					errs.Add(f.Name, r.Message)
				}
			case RuleNumeric:
				if s == "" {
					continue
				}
				if _, err := strconv.ParseFloat(s, 64); err != nil {
					errs.Add(f.Name, r.Message)
				}
			case RuleBetween:
				if s == "" {
					continue
				}
				n, ok := measure(f, s)
				if ok && (n < r.Min || n > r.Max) {
					errs.Add(f.Name, r.Message)
				}
			case RuleMin:
				if s == "" {
					continue
				}
				if n, ok := measure(f, s); ok && n < r.Min {
					errs.Add(f.Name, r.Message)
				}
			case RuleMax:
				if s == "" {
					continue
				}
				if n, ok := measure(f, s); ok && n > r.Max {
					errs.Add(f.Name, r.Message)
				}
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// measure returns the quantity a size rule compares: the numeric value for
// number fields, the character count otherwise.
func measure(f Field, s string) (float64, bool) {
	if f.Type == TypeNumber {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// The numeric rule already reports unparseable input.
			return 0, false
		}
		return n, true
	}
	return float64(utf8.RuneCountInString(s)), true
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

// Stringify renders a submitted value in its canonical string form. Lists
// are comma-joined; everything else follows fmt conventions except floats,
// which drop insignificant zeros.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}
