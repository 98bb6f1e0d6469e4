package parser

import (
	"github.com/deicod/goliquid/nodes"
)

// ParseTemplate parses a template string. On failure the error is a
// *ParseError carrying every diagnostic and no template is returned.
func ParseTemplate(template string) (*nodes.Template, error) {
	return ParseTemplateWithOptions(template, Options{})
}

// ParseTemplateWithOptions parses a template string with custom options
func ParseTemplateWithOptions(template string, opts Options) (*nodes.Template, error) {
	tmpl, diagnostics, ok := TryParseTemplate(template, opts)
	if !ok {
		return nil, &ParseError{Name: opts.Name, Diagnostics: diagnostics}
	}
	return tmpl, nil
}

// TryParseTemplate parses a template and reports every diagnostic. ok is
// false, and the template nil, when any diagnostic is an error. Warnings
// alone do not fail the parse.
func TryParseTemplate(template string, opts Options) (tmpl *nodes.Template, diagnostics []Diagnostic, ok bool) {
	p := NewParser(template, opts)
	tmpl = p.Parse()
	if p.HasErrors() {
		return nil, p.Diagnostics(), false
	}
	return tmpl, p.Diagnostics(), true
}
