package lexer

import (
	"fmt"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenText
	TokenVariableStart
	TokenVariableEnd
	TokenBlockStart
	TokenBlockEnd
	TokenName
	TokenString
	TokenNumber
	TokenAssign
	TokenComma
	TokenColon
	TokenPipe
	TokenLeftParen
	TokenRightParen
	TokenLeftBracket
	TokenRightBracket
	TokenDot
	TokenRange
	TokenComparison
)

var tokenNames = map[TokenType]string{
	TokenEOF:           "EOF",
	TokenText:          "TEXT",
	TokenVariableStart: "VAR_START",
	TokenVariableEnd:   "VAR_END",
	TokenBlockStart:    "BLOCK_START",
	TokenBlockEnd:      "BLOCK_END",
	TokenName:          "NAME",
	TokenString:        "STRING",
	TokenNumber:        "NUMBER",
	TokenAssign:        "ASSIGN",
	TokenComma:         "COMMA",
	TokenColon:         "COLON",
	TokenPipe:          "PIPE",
	TokenLeftParen:     "LPAREN",
	TokenRightParen:    "RPAREN",
	TokenLeftBracket:   "LBRACKET",
	TokenRightBracket:  "RBRACKET",
	TokenDot:           "DOT",
	TokenRange:         "RANGE",
	TokenComparison:    "COMPARISON",
}

func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", tt)
}

// Token represents a single token in the template
type Token struct {
	Type     TokenType
	Value    string
	Line     int
	Column   int
	Position int
}

func (t Token) String() string {
	return fmt.Sprintf("%s('%s') at %d:%d", t.Type, t.Value, t.Line, t.Column)
}

// IsTagEnd reports whether the token closes an output or statement tag.
func (t Token) IsTagEnd() bool {
	return t.Type == TokenVariableEnd || t.Type == TokenBlockEnd
}

// TokenStream represents a stream of tokens
type TokenStream struct {
	tokens []Token
	pos    int
	eof    Token
}

func NewTokenStream(tokens []Token) *TokenStream {
	ts := &TokenStream{tokens: tokens, eof: Token{Type: TokenEOF}}
	if n := len(tokens); n > 0 && tokens[n-1].Type == TokenEOF {
		ts.eof = tokens[n-1]
		ts.tokens = tokens[:n-1]
	}
	return ts
}

func (ts *TokenStream) Next() Token {
	if ts.pos >= len(ts.tokens) {
		return ts.eof
	}
	token := ts.tokens[ts.pos]
	ts.pos++
	return token
}

func (ts *TokenStream) Peek() Token {
	if ts.pos >= len(ts.tokens) {
		return ts.eof
	}
	return ts.tokens[ts.pos]
}

func (ts *TokenStream) Eof() bool {
	return ts.Peek().Type == TokenEOF
}

// Tokens returns the remaining tokens, terminated by EOF.
func (ts *TokenStream) Tokens() []Token {
	rest := make([]Token, 0, len(ts.tokens)-ts.pos+1)
	rest = append(rest, ts.tokens[ts.pos:]...)
	return append(rest, ts.eof)
}
