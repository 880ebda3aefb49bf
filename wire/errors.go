package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Decode error kinds. Every error returned by this package and by codec
// wraps exactly one of them, so callers can branch with errors.Is.
var (
	ErrTruncated          = errors.New("buffer underflow")
	ErrMalformed          = errors.New("malformed encoding")
	ErrUnexpectedWireType = errors.New("unexpected wire type")
	ErrRecursionLimit     = errors.New("recursion limit reached")
)

// FieldRef names the message field that was being decoded when an error occurred.
type FieldRef struct {
	Message string
	Field   string
}

// DecodeError is the error type produced while decoding the wire format.
type DecodeError struct {
	Kind        error
	Description string
	// Stack lists the enclosing fields, innermost first.
	Stack []FieldRef
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	sb.WriteString("failed to decode message: ")
	for _, ref := range e.Stack {
		sb.WriteString(ref.Message)
		sb.WriteByte('.')
		sb.WriteString(ref.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.Error())
	if e.Description != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Description)
	}
	return sb.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

// WrapField records that err happened while decoding message.field.
// Errors that are not *DecodeError are wrapped as ErrMalformed.
func WrapField(err error, message, field string) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		de = &DecodeError{Kind: ErrMalformed, Description: err.Error()}
	}
	de.Stack = append(de.Stack, FieldRef{Message: message, Field: field})
	return de
}

func truncated(desc string) error {
	return &DecodeError{Kind: ErrTruncated, Description: desc}
}

func malformed(desc string) error {
	return &DecodeError{Kind: ErrMalformed, Description: desc}
}

// Malformed returns an ErrMalformed decode error with the given description.
func Malformed(format string, args ...any) error {
	return malformed(fmt.Sprintf(format, args...))
}

// Truncated returns an ErrTruncated decode error with the given description.
func Truncated(format string, args ...any) error {
	return truncated(fmt.Sprintf(format, args...))
}
