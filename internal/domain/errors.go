package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField signals an operation on a field that was never declared.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownType signals a reference to a type tag that was never registered.
	ErrUnknownType = errors.New("unknown type")
	// ErrDuplicateField signals a re-declaration of a field with a conflicting type.
	ErrDuplicateField = errors.New("duplicate field")
	// ErrDuplicateType signals a re-registration of a type tag with conflicting operations.
	ErrDuplicateType = errors.New("duplicate type")
	// ErrParse signals raw text that cannot be resolved to the declared type.
	ErrParse = errors.New("parse error")
	// ErrEngine signals a failure surfaced by an index engine.
	ErrEngine = errors.New("engine error")

	// ErrInvalidField signals a malformed field definition.
	ErrInvalidField = errors.New("invalid field")
	// ErrInvalidType signals a malformed type registration.
	ErrInvalidType = errors.New("invalid type")
	// ErrInvalidDocument signals a malformed document or document id.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrTagMismatch signals a typed value routed to a handle of another type.
	ErrTagMismatch = errors.New("type tag mismatch")
	// ErrBatchAborted marks batch items skipped because another item failed validation.
	ErrBatchAborted = errors.New("batch aborted")
)

// UnknownFieldError wraps ErrUnknownField with the field name.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownField.Error(), e.Name)
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }

// UnknownTypeError wraps ErrUnknownType with the type tag.
type UnknownTypeError struct {
	Tag string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownType.Error(), e.Tag)
}

func (e *UnknownTypeError) Unwrap() error { return ErrUnknownType }

// DuplicateFieldError wraps ErrDuplicateField with the existing and requested tags.
type DuplicateFieldError struct {
	Name      string
	Existing  string
	Requested string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("%s: %q is declared as %q, cannot redeclare as %q",
		ErrDuplicateField.Error(), e.Name, e.Existing, e.Requested)
}

func (e *DuplicateFieldError) Unwrap() error { return ErrDuplicateField }

// DuplicateTypeError wraps ErrDuplicateType with the type tag.
type DuplicateTypeError struct {
	Tag string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("%s: %q is registered with different operations", ErrDuplicateType.Error(), e.Tag)
}

func (e *DuplicateTypeError) Unwrap() error { return ErrDuplicateType }

// ParseError reports raw text that the resolver of Tag rejected for Field.
type ParseError struct {
	Field string
	Text  string
	Tag   string
	Err   error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: field %q: cannot resolve %q as %s", ErrParse.Error(), e.Field, e.Text, e.Tag)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both ErrParse and the parser's own error.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// EngineError carries an engine failure unmodified, tagged with the operation and field.
type EngineError struct {
	Op    string
	Field string
	Err   error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s %q: %v", ErrEngine.Error(), e.Op, e.Field, e.Err)
}

// Unwrap exposes both ErrEngine and the original engine error.
func (e *EngineError) Unwrap() []error { return []error{ErrEngine, e.Err} }

// NewEngineError wraps err unless it is nil or already an *EngineError.
func NewEngineError(op, field string, err error) error {
	if err == nil {
		return nil
	}
	var ee *EngineError
	if errors.As(err, &ee) {
		return err
	}
	return &EngineError{Op: op, Field: field, Err: err}
}
