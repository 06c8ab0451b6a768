package ir

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes generation failures. Every failure is fatal to the
// current run; no partial schema output is ever persisted.
type ErrorCode string

const (
	// ErrUnsupportedType indicates a field, variant payload, or parameter
	// uses a host type shape the mapper does not recognize.
	ErrUnsupportedType ErrorCode = "UNSUPPORTED_TYPE"

	// ErrMissingTypeParameter indicates an optional or sequence container
	// without its required element type.
	ErrMissingTypeParameter ErrorCode = "MISSING_TYPE_PARAMETER"

	// ErrMultiFieldVariant indicates a sum-type variant with more than one
	// payload field.
	ErrMultiFieldVariant ErrorCode = "MULTI_FIELD_VARIANT"

	// ErrCyclicDependency indicates a cycle in the record reference graph.
	ErrCyclicDependency ErrorCode = "CYCLIC_DEPENDENCY"

	// ErrUnknownType indicates a field references a type name that is never
	// declared anywhere in the input set.
	ErrUnknownType ErrorCode = "UNKNOWN_TYPE"

	// ErrIOFailure indicates reading a declaration source or writing the
	// schema or output file failed.
	ErrIOFailure ErrorCode = "IO_FAILURE"

	// ErrCompilerHandoff indicates the external compiler invocation failed
	// or did not produce the expected bindings.
	ErrCompilerHandoff ErrorCode = "COMPILER_HANDOFF_FAILURE"
)

// Error is the typed failure returned by every pipeline stage. It carries
// enough identity (type, member, cycle path) for the caller to locate and
// fix the offending declaration.
type Error struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// TypeName identifies the declaration that triggered the failure, when
	// applicable.
	TypeName string

	// Member identifies the field, variant, or method involved, when
	// applicable.
	Member string

	// Cycle lists the type names forming a dependency cycle, in traversal
	// order, for CYCLIC_DEPENDENCY errors.
	Cycle []string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if e.TypeName != "" {
		b.WriteString(" (type=")
		b.WriteString(e.TypeName)
		if e.Member != "" {
			b.WriteString(", member=")
			b.WriteString(e.Member)
		}
		b.WriteString(")")
	}
	if len(e.Cycle) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Cycle, " -> "))
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// CodeOf extracts the error code from err, unwrapping as needed. Returns
// the empty code when err is not a generation error.
func CodeOf(err error) ErrorCode {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// IsCycleError reports whether err is a cyclic-dependency failure.
func IsCycleError(err error) bool {
	return CodeOf(err) == ErrCyclicDependency
}

// IsUnknownTypeError reports whether err is an unknown-type failure.
func IsUnknownTypeError(err error) bool {
	return CodeOf(err) == ErrUnknownType
}
