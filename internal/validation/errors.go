package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Error collects human readable messages per field path.
type Error struct {
	Fields map[string][]string
}

func (e *Error) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *Error) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Err returns nil when nothing was collected so callers never see a typed nil.
func (e *Error) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *Error) Has(field string) bool {
	if e == nil {
		return false
	}
	_, ok := e.Fields[field]
	return ok
}

func (e *Error) First() string {
	if e.Empty() {
		return ""
	}
	keys := e.keys()
	return e.Fields[keys[0]][0]
}

func (e *Error) Error() string {
	if e.Empty() {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, key := range e.keys() {
		parts = append(parts, fmt.Sprintf("%s: %s", key, strings.Join(e.Fields[key], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) keys() []string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func Unique(field string) string {
	return fmt.Sprintf("The %s has already been taken.", label(field))
}

func Invalid(field string) string {
	return fmt.Sprintf("The selected %s is invalid.", label(field))
}

// WrongType is the message for a field whose JSON value does not decode into
// the expected kind. Nested paths are labelled by their last segment.
func WrongType(field string, kind reflect.Kind) string {
	if i := strings.LastIndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}

	var expected string
	switch kind {
	case reflect.String:
		expected = "a string"
	case reflect.Bool:
		expected = "true or false"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		expected = "an integer"
	case reflect.Slice, reflect.Array:
		expected = "an array"
	default:
		expected = "an object"
	}
	return fmt.Sprintf("The %s must be %s.", label(field), expected)
}
