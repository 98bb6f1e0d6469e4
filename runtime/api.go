package runtime

import (
	"io"

	"github.com/deicod/goliquid/parser"
)

// Simple API functions for ease of use

// ParseString parses a template string and returns a ready-to-use Template
func ParseString(templateString string) (*Template, error) {
	return ParseStringWithOptions(templateString, parser.Options{})
}

// ParseStringWithName parses a template string with a given name
func ParseStringWithName(templateString, name string) (*Template, error) {
	return ParseStringWithOptions(templateString, parser.Options{Name: name})
}

// ParseStringWithOptions parses a template string with lexer and parser
// options. The error is a *parser.ParseError.
func ParseStringWithOptions(templateString string, opts parser.Options) (*Template, error) {
	ast, err := parser.ParseTemplateWithOptions(templateString, opts)
	if err != nil {
		return nil, err
	}
	return NewTemplate(ast, opts.Name), nil
}

// TryParseString parses a template string and reports every diagnostic,
// warnings included. The template is nil when ok is false.
func TryParseString(templateString string, opts parser.Options) (*Template, []parser.Diagnostic, bool) {
	ast, diagnostics, ok := parser.TryParseTemplate(templateString, opts)
	if !ok {
		return nil, diagnostics, false
	}
	return NewTemplate(ast, opts.Name), diagnostics, true
}

// ExecuteToString is a convenience function that parses and renders a template string
func ExecuteToString(templateString string, vars map[string]any) (string, error) {
	template, err := ParseString(templateString)
	if err != nil {
		return "", err
	}
	ctx := NewContext()
	ctx.SetValues(vars)
	return template.Render(ctx)
}

// Execute is a convenience function that parses and renders a template string to a writer
func Execute(templateString string, vars map[string]any, writer io.Writer) error {
	template, err := ParseString(templateString)
	if err != nil {
		return err
	}
	ctx := NewContext()
	ctx.SetValues(vars)
	return template.RenderTo(writer, ctx)
}
