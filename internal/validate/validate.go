// Package validate holds the request checks applied before any store write.
// Nothing here performs I/O.
package validate

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/erazemk/zaloga/internal/model"
)

// Field is a named payload value. Set is false when the field was absent or null.
type Field struct {
	Name  string
	Value string
	Set   bool
}

// String builds a Field from an optional string.
func String(name string, v *string) Field {
	if v == nil {
		return Field{Name: name}
	}
	return Field{Name: name, Value: *v, Set: true}
}

// Raw builds a Field from an undecoded JSON value. JSON strings are unquoted,
// any other literal is kept as written.
func Raw(name string, raw json.RawMessage) Field {
	if !Present(raw) {
		return Field{Name: name}
	}
	raw = bytes.TrimSpace(raw)
	var s string
	if raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return Field{Name: name, Value: s, Set: true}
	}
	return Field{Name: name, Value: string(raw), Set: true}
}

// Present reports whether raw holds a non-null JSON value.
func Present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// Trim removes leading and trailing whitespace.
func Trim(value string) string {
	return strings.TrimSpace(value)
}

// RequiredFields fails on the first field that is unset or blank after trimming.
func RequiredFields(fields ...Field) error {
	for _, f := range fields {
		if !f.Set || Trim(f.Value) == "" {
			return &model.MissingFieldError{Field: f.Name}
		}
	}
	return nil
}

// Amount coerces a JSON number or numeric string to an int. Zero is accepted
// only when allowZero is set.
func Amount(raw json.RawMessage, allowZero bool) (int, error) {
	f := Raw("amount", raw)
	if !f.Set {
		return 0, model.ErrInvalidAmount
	}

	n, err := strconv.Atoi(Trim(f.Value))
	if err != nil {
		return 0, model.ErrInvalidAmount
	}

	if n < 0 {
		return 0, model.ErrNegativeAmount
	}
	if !allowZero && n < 1 {
		return 0, model.ErrNonPositiveAmount
	}
	return n, nil
}
