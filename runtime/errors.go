package runtime

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/deicod/goliquid/internal/suggest"
	"github.com/deicod/goliquid/nodes"
)

// ErrorType represents different types of runtime errors
type ErrorType string

const (
	ErrorTypeTemplate    ErrorType = "template_error"
	ErrorTypeFilter      ErrorType = "filter_error"
	ErrorTypeLoopControl ErrorType = "loop_control_error"
	ErrorTypeOutput      ErrorType = "output_error"
)

// ErrUnknownFilter is the cause of a FilterError raised for a filter name
// that is not registered on the context.
var ErrUnknownFilter = errors.New("unknown filter")

// Error represents a runtime error with position information
type Error struct {
	Type     ErrorType
	Message  string
	Position nodes.Position
	Node     nodes.Node
	Cause    error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Position.Line > 0 {
		if e.Position.Column > 0 {
			return fmt.Sprintf("%s at line %d, column %d: %s", e.Type, e.Position.Line, e.Position.Column, e.Message)
		}
		return fmt.Sprintf("%s at line %d: %s", e.Type, e.Position.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", string(e.Type)),
		slog.String("message", e.Message),
	}
	if e.Position.Line > 0 {
		attrs = append(attrs, slog.Int("line", e.Position.Line), slog.Int("column", e.Position.Column))
	}
	if e.Cause != nil {
		attrs = append(attrs, slog.String("cause", e.Cause.Error()))
	}
	return slog.GroupValue(attrs...)
}

// NewError creates a new runtime error
func NewError(errorType ErrorType, message string, position nodes.Position, node nodes.Node) *Error {
	return &Error{
		Type:     errorType,
		Message:  message,
		Position: position,
		Node:     node,
	}
}

// NewErrorWithCause creates a new runtime error with an underlying cause
func NewErrorWithCause(errorType ErrorType, message string, position nodes.Position, node nodes.Node, cause error) *Error {
	return &Error{
		Type:     errorType,
		Message:  message,
		Position: position,
		Node:     node,
		Cause:    cause,
	}
}

// WrapError attaches position information to err. Errors that already
// carry a position keep it.
func WrapError(err error, position nodes.Position, node nodes.Node) error {
	if err == nil {
		return nil
	}

	var rtErr *Error
	if errors.As(err, &rtErr) {
		if rtErr.Position.Line == 0 {
			rtErr.Position = position
		}
		if rtErr.Node == nil {
			rtErr.Node = node
		}
		return err
	}

	return &Error{
		Type:     ErrorTypeTemplate,
		Message:  err.Error(),
		Position: position,
		Node:     node,
		Cause:    err,
	}
}

// FilterError represents a filter-related error: either the filter is not
// registered, or it returned an error.
type FilterError struct {
	error
	FilterName string
	Suggestion string
}

// NewFilterError creates a new filter error
func NewFilterError(filterName, message string, position nodes.Position, node nodes.Node, cause error) *FilterError {
	return &FilterError{
		error:      NewErrorWithCause(ErrorTypeFilter, fmt.Sprintf("filter '%s': %s", filterName, message), position, node, cause),
		FilterName: filterName,
	}
}

// newUnknownFilterError reports name as unregistered and suggests the
// closest registered filter, if any.
func newUnknownFilterError(name string, registered []string, position nodes.Position, node nodes.Node) *FilterError {
	message := "unknown filter"
	suggestion := suggest.Closest(name, registered)
	if suggestion != "" {
		message += fmt.Sprintf(", did you mean '%s'?", suggestion)
	}
	err := NewFilterError(name, message, position, node, ErrUnknownFilter)
	err.Suggestion = suggestion
	return err
}

// Unwrap exposes the underlying *Error.
func (e *FilterError) Unwrap() error {
	return e.error
}

// LogValue implements slog.LogValuer.
func (e *FilterError) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("filter", e.FilterName)}
	if e.Suggestion != "" {
		attrs = append(attrs, slog.String("suggestion", e.Suggestion))
	}
	var rtErr *Error
	if errors.As(e.error, &rtErr) {
		attrs = append(attrs, slog.Any("error", rtErr))
	}
	return slog.GroupValue(attrs...)
}

// LoopControlError is raised when break or continue escapes every
// enclosing loop. The parser rejects such templates, so only a hand-built
// tree can trigger it.
type LoopControlError struct {
	error
	Keyword string
}

// NewLoopControlError creates a new loop control error
func NewLoopControlError(keyword string, position nodes.Position, node nodes.Node) *LoopControlError {
	return &LoopControlError{
		error:   NewError(ErrorTypeLoopControl, fmt.Sprintf("%s outside of a for loop", keyword), position, node),
		Keyword: keyword,
	}
}

// Unwrap exposes the underlying *Error.
func (e *LoopControlError) Unwrap() error {
	return e.error
}

// IsFilterError reports whether err is or wraps a FilterError.
func IsFilterError(err error) bool {
	var filterErr *FilterError
	return errors.As(err, &filterErr)
}

// IsUnknownFilter reports whether err was raised for an unregistered filter.
func IsUnknownFilter(err error) bool {
	return errors.Is(err, ErrUnknownFilter)
}

// IsLoopControlError reports whether err is or wraps a LoopControlError.
func IsLoopControlError(err error) bool {
	var loopErr *LoopControlError
	return errors.As(err, &loopErr)
}
