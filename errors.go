package shapec

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for generated code.
var (
	// ErrMissingField is returned when a builder is missing one or more
	// required fields at build time.
	ErrMissingField = errors.New("shapec: missing required field")

	// ErrUnknownVariant is returned when the forward-compatibility variant
	// of a union reaches a request serialization path.
	ErrUnknownVariant = errors.New("shapec: unknown union variant")
)

// Redacted is the token sensitive values format to. Generated String
// methods never show the underlying value of a sensitive member.
const Redacted = "*** REDACTED ***"

// FieldError describes a single field rejected at build time. It carries
// enough structure for a validation-exception translator to render a
// user-facing message without parsing error strings.
type FieldError struct {
	// Name is the schema name of the field, not the Go name.
	Name string
	// Reason is a short machine-stable reason, e.g. "missing".
	Reason string
}

// ValidationError is returned by generated Build methods. It enumerates
// every offending field so a caller can fix all of them after a single
// failed build.
type ValidationError struct {
	// Struct is the name of the structure being built.
	Struct string
	// Fields holds one entry per rejected field.
	Fields []FieldError
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Name
	}
	return fmt.Sprintf("shapec: cannot build %s: missing required fields: %s",
		e.Struct, strings.Join(names, ", "))
}

// Is reports whether the target matches the missing-field sentinel.
// This allows errors.Is(err, ErrMissingField) to return true.
func (e *ValidationError) Is(err error) bool {
	return err == ErrMissingField
}

// FieldNames returns the schema names of all rejected fields.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Name
	}
	return names
}

// NewMissingFieldsError returns a ValidationError for the given structure
// with one "missing" entry per field name.
func NewMissingFieldsError(structName string, fields ...string) *ValidationError {
	e := &ValidationError{Struct: structName}
	for _, name := range fields {
		e.Fields = append(e.Fields, FieldError{Name: name, Reason: "missing"})
	}
	return e
}

// IsValidation returns true if the error is a ValidationError.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e) || errors.Is(err, ErrMissingField)
}

// UnknownVariantError is the error serializers return when the catch-all
// variant of a union is about to be sent as part of a request. The variant
// exists only so deserialization can accept members added by a newer
// server; it is never valid on an outbound path.
type UnknownVariantError struct {
	// Union is the name of the union type.
	Union string
}

// Error returns the error string.
func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("shapec: cannot serialize union %s: the unknown variant is response-only and represents a member added by a newer server", e.Union)
}

// Is reports whether the target matches the unknown-variant sentinel.
func (e *UnknownVariantError) Is(err error) bool {
	return err == ErrUnknownVariant
}

// NewUnknownVariantError returns an UnknownVariantError for the given union.
func NewUnknownVariantError(union string) *UnknownVariantError {
	return &UnknownVariantError{Union: union}
}

// IsUnknownVariant returns true if the error is an UnknownVariantError.
func IsUnknownVariant(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownVariantError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownVariant)
}
