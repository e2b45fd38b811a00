// Package validate applies ordered, fail-fast field checks to decoded JSON
// payloads.
//
// A Schema is data, not code: an ordered list of fields, each expanding to
// the canonical rule sequence presence → type-is-string → trim → non-empty.
// Evaluation stops at the first failing rule and reports a machine-stable
// message naming the offending field and the violated rule.
package validate

import "strings"

// Error is a validation failure. Message is machine-stable: clients match
// on the exact text.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Field describes the checks for one payload field.
type Field struct {
	// Name is the JSON key.
	Name string

	// TypeOnly skips the presence rule: a missing value falls through to
	// the type rule and is reported as an incorrect type, since an absent
	// value is not a string either.
	TypeOnly bool
}

// Schema is an ordered list of fields, evaluated strictly in order.
type Schema []Field

// Required returns a field with the full rule sequence.
func Required(name string) Field {
	return Field{Name: name}
}

// TypeChecked returns a field whose absence is reported as a type error
// rather than a missing field.
func TypeChecked(name string) Field {
	return Field{Name: name, TypeOnly: true}
}

// Apply evaluates the schema against the payload, fail-fast. On success it
// returns the field values with surrounding whitespace trimmed; the trimmed
// value is what callers persist. The payload itself is never mutated.
func (s Schema) Apply(payload map[string]any) (map[string]string, *Error) {
	values := make(map[string]string, len(s))
	for _, f := range s {
		raw, present := payload[f.Name]

		if !present {
			if !f.TypeOnly {
				return nil, &Error{Field: f.Name, Message: "Missing field: " + f.Name}
			}
			// Absent and type-only: fails the type rule below.
		}

		str, ok := raw.(string)
		if !ok {
			return nil, &Error{Field: f.Name, Message: "Incorrect field type: " + f.Name}
		}

		trimmed := strings.TrimSpace(str)
		if trimmed == "" {
			return nil, &Error{Field: f.Name, Message: "Incorrect field length: " + f.Name}
		}

		values[f.Name] = trimmed
	}
	return values, nil
}
