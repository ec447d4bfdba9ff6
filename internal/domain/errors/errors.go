package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalid     = errors.New("invalid")
	ErrUnknownMode = errors.New("unknown render mode")
)

type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationError collects every field problem found in one pass so the
// user can fix a config file in a single edit.
type ValidationError struct {
	Items []FieldError
}

func (e ValidationError) Error() string {
	switch len(e.Items) {
	case 0:
		return "validation failed"
	case 1:
		return "validation failed: " + e.Items[0].Error()
	}
	var b strings.Builder
	b.WriteString("validation failed:")
	for _, item := range e.Items {
		b.WriteString("\n - ")
		b.WriteString(item.Error())
	}
	return b.String()
}

func (e *ValidationError) Add(field, msg string) {
	e.Items = append(e.Items, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e ValidationError) HasAny() bool {
	return len(e.Items) > 0
}

// Err returns nil when nothing was recorded.
func (e ValidationError) Err() error {
	if e.HasAny() {
		return e
	}
	return nil
}
