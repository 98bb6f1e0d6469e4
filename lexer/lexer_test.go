package lexer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tok struct {
	Type  TokenType
	Value string
}

func lex(t *testing.T, source string) []tok {
	t.Helper()
	stream, err := Tokenize(source)
	require.NoError(t, err)
	var out []tok
	for _, token := range stream.Tokens() {
		if token.Type == TokenEOF {
			break
		}
		out = append(out, tok{token.Type, token.Value})
	}
	return out
}

func TestBasicLexing(t *testing.T) {
	tests := []struct {
		name     string
		template string
		expected []tok
	}{
		{
			name:     "simple text",
			template: "Hello World",
			expected: []tok{{TokenText, "Hello World"}},
		},
		{
			name:     "empty template",
			template: "",
			expected: nil,
		},
		{
			name:     "string output",
			template: "{{ 'abc' }}",
			expected: []tok{{TokenVariableStart, "{{"}, {TokenString, "abc"}, {TokenVariableEnd, "}}"}},
		},
		{
			name:     "double quoted string",
			template: `{{"a b"}}`,
			expected: []tok{{TokenVariableStart, "{{"}, {TokenString, "a b"}, {TokenVariableEnd, "}}"}},
		},
		{
			name:     "signed numbers",
			template: "{{ -123.456 }}{{ +7 }}",
			expected: []tok{
				{TokenVariableStart, "{{"}, {TokenNumber, "-123.456"}, {TokenVariableEnd, "}}"},
				{TokenVariableStart, "{{"}, {TokenNumber, "+7"}, {TokenVariableEnd, "}}"},
			},
		},
		{
			name:     "filter chain",
			template: "{{ 1 | inc: 2, x }}",
			expected: []tok{
				{TokenVariableStart, "{{"}, {TokenNumber, "1"}, {TokenPipe, "|"}, {TokenName, "inc"},
				{TokenColon, ":"}, {TokenNumber, "2"}, {TokenComma, ","}, {TokenName, "x"},
				{TokenVariableEnd, "}}"},
			},
		},
		{
			name:     "member and index",
			template: "{{ p.Name[0] }}",
			expected: []tok{
				{TokenVariableStart, "{{"}, {TokenName, "p"}, {TokenDot, "."}, {TokenName, "Name"},
				{TokenLeftBracket, "["}, {TokenNumber, "0"}, {TokenRightBracket, "]"},
				{TokenVariableEnd, "}}"},
			},
		},
		{
			name:     "range",
			template: "{% for i in (1..3) %}",
			expected: []tok{
				{TokenBlockStart, "{%"}, {TokenName, "for"}, {TokenName, "i"}, {TokenName, "in"},
				{TokenLeftParen, "("}, {TokenNumber, "1"}, {TokenRange, ".."}, {TokenNumber, "3"},
				{TokenRightParen, ")"}, {TokenBlockEnd, "%}"},
			},
		},
		{
			name:     "comparison and assign",
			template: "{% assign x = a <= b %}",
			expected: []tok{
				{TokenBlockStart, "{%"}, {TokenName, "assign"}, {TokenName, "x"}, {TokenAssign, "="},
				{TokenName, "a"}, {TokenComparison, "<="}, {TokenName, "b"}, {TokenBlockEnd, "%}"},
			},
		},
		{
			name:     "text around tags",
			template: "a{{x}}b",
			expected: []tok{
				{TokenText, "a"}, {TokenVariableStart, "{{"}, {TokenName, "x"},
				{TokenVariableEnd, "}}"}, {TokenText, "b"},
			},
		},
		{
			name:     "first close delimiter ends the tag",
			template: "{{ a }}}}",
			expected: []tok{
				{TokenVariableStart, "{{"}, {TokenName, "a"}, {TokenVariableEnd, "}}"}, {TokenText, "}}"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, lex(t, tt.template))
		})
	}
}

func TestWhitespaceControl(t *testing.T) {
	tokens := lex(t, "a  {{- x -}}  b")
	assert.Equal(t, []tok{
		{TokenText, "a"}, {TokenVariableStart, "{{"}, {TokenName, "x"},
		{TokenVariableEnd, "}}"}, {TokenText, "b"},
	}, tokens)

	tokens = lex(t, "a\n{%- if x -%}\n b")
	assert.Equal(t, tok{TokenText, "a"}, tokens[0])
	assert.Equal(t, tok{TokenText, "b"}, tokens[len(tokens)-1])
}

func TestWhitespaceControl_SignedNumber(t *testing.T) {
	assert.Equal(t, []tok{
		{TokenText, "a "}, {TokenVariableStart, "{{"}, {TokenNumber, "-5"},
		{TokenVariableEnd, "}}"}, {TokenText, " b"},
	}, lex(t, "a {{-5}} b"))

	assert.Equal(t, []tok{
		{TokenText, "a"}, {TokenVariableStart, "{{"}, {TokenName, "x"}, {TokenVariableEnd, "}}"},
	}, lex(t, "a {{-x}}"))

	assert.Equal(t, []tok{
		{TokenVariableStart, "{{"}, {TokenNumber, "-1"}, {TokenRange, ".."}, {TokenNumber, "3"},
		{TokenVariableEnd, "}}"},
	}, lex(t, "{{-1..3}}"))
}

func TestRawAndComment(t *testing.T) {
	assert.Equal(t, []tok{{TokenText, "{{ not a var }}"}}, lex(t, "{% raw %}{{ not a var }}{% endraw %}"))
	assert.Equal(t, []tok{{TokenText, "a"}, {TokenText, "b"}}, lex(t, "a{% comment %}{{ ignored }}{% endcomment %}b"))
	assert.Equal(t, []tok{{TokenText, "a"}, {TokenText, "b"}}, lex(t, "a{% # note %}b"))
	assert.Equal(t, []tok{{TokenText, "x"}}, lex(t, "{%- raw -%}  x  {%- endraw -%}"))
}

func TestTrimBlocks(t *testing.T) {
	l := NewLexer(LexerConfig{TrimBlocks: true})
	stream, err := l.Tokenize("{% if x %}\nyes")
	require.NoError(t, err)
	tokens := stream.Tokens()
	require.GreaterOrEqual(t, len(tokens), 2)
	assert.Equal(t, "yes", tokens[len(tokens)-2].Value)
}

func TestCustomDelimiters(t *testing.T) {
	l := NewLexer(LexerConfig{Delimiters: Delimiters{
		BlockStart: "<%", BlockEnd: "%>", VariableStart: "<<", VariableEnd: ">>",
	}})
	stream, err := l.Tokenize("<< x >>{{ y }}")
	require.NoError(t, err)
	tokens := stream.Tokens()
	assert.Equal(t, TokenVariableStart, tokens[0].Type)
	assert.Equal(t, "x", tokens[1].Value)
	assert.Equal(t, tok{TokenText, "{{ y }}"}, tok{tokens[3].Type, tokens[3].Value})
}

func TestTokenPositions(t *testing.T) {
	stream, err := Tokenize("line one\n  {{ name }}")
	require.NoError(t, err)
	tokens := stream.Tokens()

	require.Equal(t, TokenVariableStart, tokens[1].Type)
	assert.Equal(t, 2, tokens[1].Line)
	assert.Equal(t, 3, tokens[1].Column)
	assert.Equal(t, 11, tokens[1].Position)

	assert.Equal(t, "name", tokens[2].Value)
	assert.Equal(t, 2, tokens[2].Line)
	assert.Equal(t, 6, tokens[2].Column)
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		count    int
		message  string
	}{
		{"unterminated output", "Hello {{ name", 1, "unterminated tag"},
		{"unterminated statement", "{% for x in y", 1, "unterminated tag"},
		{"unterminated string", "{{ 'abc }}", 1, "unterminated string literal"},
		{"unexpected characters", "{{ a @ b # c }}", 2, "unexpected character"},
		{"unterminated raw", "{% raw %}abc", 1, "unterminated raw block"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream, err := Tokenize(tt.template)
			require.Error(t, err)
			require.NotNil(t, stream)

			var list ErrorList
			require.True(t, errors.As(err, &list))
			assert.Len(t, list, tt.count)
			assert.Contains(t, list[0].Message, tt.message)
			assert.Equal(t, 1, list[0].Line)
		})
	}
}

func TestTokenStream(t *testing.T) {
	stream := NewTokenStream([]Token{
		{Type: TokenName, Value: "a"},
		{Type: TokenPipe, Value: "|"},
		{Type: TokenEOF, Line: 3},
	})

	assert.Equal(t, "a", stream.Peek().Value)
	assert.Len(t, stream.Tokens(), 3)

	assert.Equal(t, "a", stream.Next().Value)
	assert.Equal(t, TokenPipe, stream.Next().Type)
	assert.True(t, stream.Eof())
	assert.Equal(t, 3, stream.Next().Line)
}
