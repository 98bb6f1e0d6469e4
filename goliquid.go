// Package goliquid is a Go implementation of a Liquid-style template language
package goliquid

import (
	"github.com/deicod/goliquid/nodes"
	"github.com/deicod/goliquid/parser"
	"github.com/deicod/goliquid/runtime"
	"github.com/deicod/goliquid/values"
)

// Version of the goliquid library
const Version = "0.1.0"

// Template represents a parsed template
type Template = runtime.Template

// Context represents the template rendering context
type Context = runtime.Context

// Environment holds configuration shared by many templates
type Environment = runtime.Environment

// FilterFunc is the signature of a template filter
type FilterFunc = runtime.FilterFunc

// Value is a template value
type Value = values.Value

// ErrorMode controls how rendering reacts to evaluation errors
type ErrorMode = runtime.ErrorMode

const (
	ErrorModeContinue = runtime.ErrorModeContinue
	ErrorModeFailFast = runtime.ErrorModeFailFast
)

// NewContext creates a rendering context preloaded with the built-in filters
func NewContext() *Context {
	return runtime.NewContext()
}

// NewEnvironment creates a new environment
func NewEnvironment() *Environment {
	return runtime.NewEnvironment()
}

// Parse parses a template from a string. The error is a *parser.ParseError
// carrying every diagnostic.
func Parse(source string) (*Template, error) {
	return runtime.ParseString(source)
}

// TryParse parses a template and reports diagnostics without failing.
// The template is nil and ok is false when any diagnostic is an error.
func TryParse(source string) (*Template, []parser.Diagnostic, bool) {
	return runtime.TryParseString(source, parser.Options{})
}

// MustParse is like Parse but panics on error
func MustParse(source string) *Template {
	tmpl, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// Render parses source and renders it with vars bound in the root scope
func Render(source string, vars map[string]any) (string, error) {
	return runtime.ExecuteToString(source, vars)
}

// Node access for AST inspection

// Node represents an AST node
type Node = nodes.Node

// TemplateNode represents the root AST node
type TemplateNode = nodes.Template

// DumpAST returns a string representation of the AST for debugging
func DumpAST(node Node) string {
	return nodes.Dump(node)
}

// Walk traverses the AST using the visitor pattern
func Walk(visitor nodes.Visitor, node Node) {
	nodes.Walk(visitor, node)
}

// Error types

// Error represents a rendering error
type Error = runtime.Error

// ErrorType represents the type of error
type ErrorType = runtime.ErrorType

// FilterError reports an unknown or failing filter
type FilterError = runtime.FilterError

// LoopControlError reports break or continue outside of a loop
type LoopControlError = runtime.LoopControlError

// ParseError aggregates the diagnostics of a failed parse
type ParseError = parser.ParseError

// Diagnostic is a single parse message with its position
type Diagnostic = parser.Diagnostic
