// Package errors provides the typed error taxonomy for the optimization
// engine: configuration errors, solution-copy contract violations,
// incompatible-move errors, search-execution errors, and iterator
// exhaustion. See spec §7.
package errors

import (
	"errors"
	"fmt"
)

// Code identifies one of the error kinds the core distinguishes.
type Code string

const (
	// CodeConfiguration: config change outside IDLE, missing/empty
	// required argument, or an out-of-range parameter.
	CodeConfiguration Code = "CONFIGURATION"

	// CodeSolutionCopy: Solution.Copy() returned a value that does not
	// satisfy the contract (see SolutionCopyError).
	CodeSolutionCopy Code = "SOLUTION_COPY"

	// CodeIncompatibleMove: a problem/neighborhood/tabu memory received a
	// move of a kind it cannot interpret.
	CodeIncompatibleMove Code = "INCOMPATIBLE_MOVE"

	// CodeSearchExecution: a concurrent-execution failure or an invariant
	// violation surfaced from a run.
	CodeSearchExecution Code = "SEARCH_EXECUTION"

	// CodeNoSuchElement: an iterator was advanced past its end.
	CodeNoSuchElement Code = "NO_SUCH_ELEMENT"
)

// AppError is the concrete error type carried by every Code above. It
// keeps an optional wrapped Cause and free-form Fields for diagnostics.
type AppError struct {
	Code    Code
	Message string
	Cause   error
	Fields  map[string]interface{}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause attaches an underlying cause and returns e for chaining.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithField attaches a diagnostic field and returns e for chaining.
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New creates an *AppError with the given code and message.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap creates an *AppError carrying cause as its Cause.
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

// Is reports whether err is an *AppError with the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the Code from err, or "" if err is not an *AppError.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Configuration builds a CodeConfiguration error: an attempted config
// change outside IDLE, or an invalid/out-of-range parameter.
func Configuration(message string) *AppError {
	return New(CodeConfiguration, message)
}

// NotIdle is the specific configuration error for mutating a search's
// configuration while it is not IDLE.
func NotIdle(operation string) *AppError {
	return New(CodeConfiguration, fmt.Sprintf("%s requires the search to be idle", operation)).
		WithField("operation", operation)
}

// SolutionCopy builds a CodeSolutionCopy error, identifying the offending
// dynamic type and whether it appears to have substituted an unrelated
// implementation.
func SolutionCopy(offendingType string, suspectedWrongImpl bool) *AppError {
	return New(CodeSolutionCopy, fmt.Sprintf("Copy() returned a value of type %s that fails the copy contract", offendingType)).
		WithField("type", offendingType).
		WithField("suspected_wrong_impl", suspectedWrongImpl)
}

// IncompatibleMove builds a CodeIncompatibleMove error, naming the actual
// type of the move that could not be interpreted.
func IncompatibleMove(actualType string) *AppError {
	return New(CodeIncompatibleMove, fmt.Sprintf("move of type %s is not compatible with this component", actualType)).
		WithField("type", actualType)
}

// SearchExecution wraps a concurrent-execution failure or invariant
// violation surfaced during a run.
func SearchExecution(message string, cause error) *AppError {
	e := New(CodeSearchExecution, message)
	if cause != nil {
		e.Cause = cause
	}
	return e
}

// NoSuchElement builds a CodeNoSuchElement error for an iterator advanced
// past its end.
func NoSuchElement() *AppError {
	return New(CodeNoSuchElement, "iterator exhausted")
}
