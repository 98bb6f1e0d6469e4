package lexer

import (
	"regexp"
)

// Precompiled regular expressions for tokenizing tag contents. All of them
// are anchored at the scan position.
var (
	WhitespaceRegex = regexp.MustCompile(`^\s+`)

	// Single or double quoted, no escape sequences
	StringRegex = regexp.MustCompile(`^('[^']*'|"[^"]*")`)

	// Optionally signed integer or decimal. A dot must be followed by a
	// digit so that "1..3" lexes as a range.
	NumberRegex = regexp.MustCompile(`^[+-]?\d+(\.\d+)?`)

	NameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*\??`)

	// Longer operators first
	OperatorRegex = regexp.MustCompile(`^(\.\.|==|!=|<>|<=|>=|[<>=|:,.\[\]()])`)
)

// Delimiters holds the tag markers recognized in template text
type Delimiters struct {
	BlockStart    string
	BlockEnd      string
	VariableStart string
	VariableEnd   string
}

func DefaultDelimiters() Delimiters {
	return Delimiters{
		BlockStart:    "{%",
		BlockEnd:      "%}",
		VariableStart: "{{",
		VariableEnd:   "}}",
	}
}

// endTagRegex matches a closing tag such as "{%- endraw %}" for the given
// delimiters.
func endTagRegex(delims Delimiters, name string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(delims.BlockStart) + `-?\s*` + name + `\s*-?` + regexp.QuoteMeta(delims.BlockEnd))
}

var operatorTypes = map[string]TokenType{
	"..": TokenRange,
	"==": TokenComparison,
	"!=": TokenComparison,
	"<>": TokenComparison,
	"<=": TokenComparison,
	">=": TokenComparison,
	"<":  TokenComparison,
	">":  TokenComparison,
	"=":  TokenAssign,
	"|":  TokenPipe,
	":":  TokenColon,
	",":  TokenComma,
	".":  TokenDot,
	"[":  TokenLeftBracket,
	"]":  TokenRightBracket,
	"(":  TokenLeftParen,
	")":  TokenRightParen,
}
