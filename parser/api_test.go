package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseErrors(t *testing.T, source string) []Diagnostic {
	t.Helper()
	tmpl, err := ParseTemplate(source)
	require.Error(t, err)
	assert.Nil(t, tmpl)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	return parseErr.Errors()
}

func TestAPI_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		message  string
		line     int
		column   int
	}{
		{
			name:     "unknown tag",
			template: "ok\n{% frobnicate x %}",
			message:  `Encountered unknown tag "frobnicate".`,
			line:     2,
			column:   4,
		},
		{
			name:     "unknown tag suggestion",
			template: "{% fr i in x %}{% endfor %}",
			message:  `Did you mean "for"?`,
			line:     1,
			column:   4,
		},
		{
			name:     "missing endfor",
			template: "{% for i in x %}{{ i }}",
			message:  "Unexpected end of template.",
			line:     1,
			column:   24,
		},
		{
			name:     "innermost block reported",
			template: "{% for i in x %}{% if i %}",
			message:  `The innermost block that needs to be closed is "if".`,
		},
		{
			name:     "unmatched endfor",
			template: "text{% endfor %}",
			message:  `Encountered unexpected tag "endfor". No open block expects it.`,
			line:     1,
			column:   8,
		},
		{
			name:     "nesting mistake",
			template: "{% for i in x %}{% if i %}{% endfor %}{% endif %}{% endfor %}",
			message:  "You probably made a nesting mistake",
		},
		{
			name:     "bad for header",
			template: "{% for in x %}{% endfor %}",
			message:  `expected "in", got name "x"`,
		},
		{
			name:     "unknown for option",
			template: "{% for i in x sorted %}{% endfor %}",
			message:  `unknown for loop option "sorted"`,
		},
		{
			name:     "trailing tokens in output",
			template: "{{ a b }}",
			message:  `expected output end ('}}'), got name "b"`,
		},
		{
			name:     "missing filter name",
			template: "{{ a | }}",
			message:  "expected filter name",
		},
		{
			name:     "break outside loop",
			template: "{% break %}",
			message:  "break tag outside of a for loop",
		},
		{
			name:     "unterminated tag",
			template: "Hello {{ name",
			message:  "unterminated tag",
			line:     1,
			column:   7,
		},
		{
			name:     "empty statement",
			template: "{% %}",
			message:  "tag name expected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseErrors(t, tt.template)
			require.NotEmpty(t, errs)

			var found *Diagnostic
			for i := range errs {
				if strings.Contains(errs[i].Message, tt.message) {
					found = &errs[i]
					break
				}
			}
			require.NotNil(t, found, "no diagnostic containing %q in %v", tt.message, errs)
			if tt.line > 0 {
				assert.Equal(t, tt.line, found.Line)
				assert.Equal(t, tt.column, found.Column)
			}
		})
	}
}

func TestAPI_MultipleDiagnostics(t *testing.T) {
	errs := parseErrors(t, "{% foo %}\n{{ a b }}\n{% bar %}")
	require.Len(t, errs, 3)
	assert.Equal(t, 1, errs[0].Line)
	assert.Equal(t, 2, errs[1].Line)
	assert.Equal(t, 3, errs[2].Line)
}

func TestAPI_SingleEOFDiagnostic(t *testing.T) {
	errs := parseErrors(t, "{% for a in x %}{% for b in a %}{% if b %}")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, `"if"`)
}

func TestAPI_Warnings(t *testing.T) {
	tmpl, diagnostics, ok := TryParseTemplate("a{{ }}b", Options{})
	require.True(t, ok)
	require.NotNil(t, tmpl)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, SeverityWarning, diagnostics[0].Severity)
	assert.Equal(t, "empty output tag", diagnostics[0].Message)
	assert.Len(t, tmpl.Body, 2)
}

func TestAPI_ParseErrorMessage(t *testing.T) {
	_, err := ParseTemplateWithOptions("{% foo %}{% bar %}", Options{Name: "page.liquid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page.liquid: ")
	assert.Contains(t, err.Error(), "(and 1 more errors)")
}

func TestAPI_Diagnostics(t *testing.T) {
	_, diagnostics, ok := TryParseTemplate("{{ 'x }}", Options{})
	assert.False(t, ok)
	require.NotEmpty(t, diagnostics)
	assert.Equal(t, "error: unterminated string literal at line 1, column 4", diagnostics[0].String())
}
