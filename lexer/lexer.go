package lexer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// LexerError represents a lexing error
type LexerError struct {
	Message string
	Line    int
	Column  int
	Pos     int
}

func (e LexerError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
}

// ErrorList collects every LexerError found in one pass.
type ErrorList []LexerError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
}

// LexerConfig holds configuration for the lexer
type LexerConfig struct {
	Delimiters Delimiters
	// TrimBlocks drops the first newline after a statement tag.
	TrimBlocks bool
}

func DefaultLexerConfig() LexerConfig {
	return LexerConfig{
		Delimiters: DefaultDelimiters(),
	}
}

// Lexer turns template source into tokens
type Lexer struct {
	config     LexerConfig
	endRaw     *regexp.Regexp
	endComment *regexp.Regexp
}

// NewLexer creates a new lexer with the given configuration
func NewLexer(config LexerConfig) *Lexer {
	if config.Delimiters == (Delimiters{}) {
		config.Delimiters = DefaultDelimiters()
	}
	return &Lexer{
		config:     config,
		endRaw:     endTagRegex(config.Delimiters, "endraw"),
		endComment: endTagRegex(config.Delimiters, "endcomment"),
	}
}

// Tokenize scans source into a token stream. Lexing never stops at the
// first problem: the returned stream is always usable and the error, when
// non-nil, is an ErrorList describing every problem found.
func (l *Lexer) Tokenize(source string) (*TokenStream, error) {
	s := &scanner{
		lexer: l,
		src:   source,
		lines: lineStarts(source),
	}
	s.run()
	if len(s.errors) > 0 {
		return NewTokenStream(s.tokens), s.errors
	}
	return NewTokenStream(s.tokens), nil
}

// Tokenize scans source with the default configuration.
func Tokenize(source string) (*TokenStream, error) {
	return NewLexer(DefaultLexerConfig()).Tokenize(source)
}

type scanner struct {
	lexer  *Lexer
	src    string
	pos    int
	lines  []int
	tokens []Token
	errors ErrorList

	// set by a "-" before a close delimiter; strips leading whitespace
	// from the next text
	trimNext bool
	// set by TrimBlocks after a statement tag
	skipNewline bool
}

func (s *scanner) run() {
	delims := s.lexer.config.Delimiters
	for s.pos < len(s.src) {
		open, isBlock := s.nextOpen()
		if open < 0 {
			s.emitText(s.pos, len(s.src), false)
			break
		}

		openDelim := delims.VariableStart
		closeDelim := delims.VariableEnd
		if isBlock {
			openDelim = delims.BlockStart
			closeDelim = delims.BlockEnd
		}

		contentStart := open + len(openDelim)
		trimBefore := isTrimMarker(s.src[contentStart:])
		if trimBefore {
			contentStart++
		}
		s.emitText(s.pos, open, trimBefore)

		rel := strings.Index(s.src[contentStart:], closeDelim)
		if rel < 0 {
			s.fail(open, fmt.Sprintf("unterminated tag, expected %q", closeDelim))
			s.pos = len(s.src)
			break
		}
		contentEnd := contentStart + rel
		tagEnd := contentEnd + len(closeDelim)
		trimAfter := contentEnd > contentStart && s.src[contentEnd-1] == '-'
		if trimAfter {
			contentEnd--
		}

		if isBlock && s.lexBodyTag(open, contentStart, contentEnd, tagEnd, trimAfter) {
			continue
		}

		startType, endType := TokenVariableStart, TokenVariableEnd
		if isBlock {
			startType, endType = TokenBlockStart, TokenBlockEnd
		}
		s.emit(startType, openDelim, open)
		s.lexTag(contentStart, contentEnd)
		s.emit(endType, closeDelim, contentEnd)

		s.pos = tagEnd
		s.trimNext = trimAfter
		s.skipNewline = isBlock && s.lexer.config.TrimBlocks
	}
	s.emit(TokenEOF, "", len(s.src))
}

// nextOpen finds the nearest open delimiter at or after the scan position.
func (s *scanner) nextOpen() (int, bool) {
	delims := s.lexer.config.Delimiters
	rest := s.src[s.pos:]
	v := strings.Index(rest, delims.VariableStart)
	b := strings.Index(rest, delims.BlockStart)
	switch {
	case v < 0 && b < 0:
		return -1, false
	case v < 0:
		return s.pos + b, true
	case b < 0:
		return s.pos + v, false
	case b < v:
		return s.pos + b, true
	default:
		return s.pos + v, false
	}
}

// lexBodyTag handles raw, comment and inline comment tags, whose bodies
// are never tokenized. It reports whether the tag was one of those.
func (s *scanner) lexBodyTag(open, contentStart, contentEnd, tagEnd int, trimAfter bool) bool {
	content := strings.TrimSpace(s.src[contentStart:contentEnd])
	switch {
	case strings.HasPrefix(content, "#"):
		s.pos = tagEnd
		s.trimNext = trimAfter
		return true
	case content == "raw", content == "comment":
	default:
		return false
	}

	end := s.lexer.endRaw
	if content == "comment" {
		end = s.lexer.endComment
	}
	loc := end.FindStringIndex(s.src[tagEnd:])
	if loc == nil {
		s.fail(open, fmt.Sprintf("unterminated %s block, expected end%s", content, content))
		s.pos = len(s.src)
		return true
	}

	bodyEnd := tagEnd + loc[0]
	closing := s.src[bodyEnd : tagEnd+loc[1]]
	if content == "raw" {
		s.trimNext = trimAfter
		s.emitText(tagEnd, bodyEnd, strings.HasPrefix(closing[len(s.lexer.config.Delimiters.BlockStart):], "-"))
	}
	s.pos = tagEnd + loc[1]
	s.trimNext = strings.HasSuffix(strings.TrimSuffix(closing, s.lexer.config.Delimiters.BlockEnd), "-")
	return true
}

// lexTag tokenizes the contents of one tag.
func (s *scanner) lexTag(start, end int) {
	pos := start
	for pos < end {
		rest := s.src[pos:end]

		if m := WhitespaceRegex.FindString(rest); m != "" {
			pos += len(m)
			continue
		}

		c := rest[0]
		switch {
		case c == '\'' || c == '"':
			m := StringRegex.FindString(rest)
			if m == "" {
				s.fail(pos, "unterminated string literal")
				return
			}
			s.emit(TokenString, m[1:len(m)-1], pos)
			pos += len(m)
			continue
		case isDigit(c) || ((c == '+' || c == '-') && len(rest) > 1 && isDigit(rest[1])):
			m := NumberRegex.FindString(rest)
			s.emit(TokenNumber, m, pos)
			pos += len(m)
			continue
		}

		if m := NameRegex.FindString(rest); m != "" {
			s.emit(TokenName, m, pos)
			pos += len(m)
			continue
		}

		if m := OperatorRegex.FindString(rest); m != "" {
			s.emit(operatorTypes[m], m, pos)
			pos += len(m)
			continue
		}

		r, size := utf8.DecodeRuneInString(rest)
		s.fail(pos, fmt.Sprintf("unexpected character %q", r))
		pos += size
	}
}

// emitText emits source[start:end] as text, applying pending whitespace
// control. trimRight strips trailing whitespace.
func (s *scanner) emitText(start, end int, trimRight bool) {
	text := s.src[start:end]
	if s.skipNewline {
		s.skipNewline = false
		if strings.HasPrefix(text, "\r\n") {
			text = text[2:]
			start += 2
		} else if strings.HasPrefix(text, "\n") {
			text = text[1:]
			start++
		}
	}
	if s.trimNext {
		s.trimNext = false
		trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
		start += len(text) - len(trimmed)
		text = trimmed
	}
	if trimRight {
		text = strings.TrimRightFunc(text, unicode.IsSpace)
	}
	if text != "" {
		s.emit(TokenText, text, start)
	}
}

func (s *scanner) emit(tokenType TokenType, value string, pos int) {
	line, column := s.location(pos)
	s.tokens = append(s.tokens, Token{
		Type:     tokenType,
		Value:    value,
		Line:     line,
		Column:   column,
		Position: pos,
	})
}

func (s *scanner) fail(pos int, msg string) {
	line, column := s.location(pos)
	s.errors = append(s.errors, LexerError{
		Message: msg,
		Line:    line,
		Column:  column,
		Pos:     pos,
	})
}

// location converts a byte offset into a 1-based line and column. Columns
// count runes.
func (s *scanner) location(pos int) (int, int) {
	line := sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > pos })
	start := s.lines[line-1]
	if pos > len(s.src) {
		pos = len(s.src)
	}
	return line, utf8.RuneCountInString(s.src[start:pos]) + 1
}

func lineStarts(src string) []int {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// isTrimMarker reports whether rest starts with a whitespace control dash.
// A dash followed by a digit is the sign of a number literal.
func isTrimMarker(rest string) bool {
	return strings.HasPrefix(rest, "-") && (len(rest) == 1 || !isDigit(rest[1]))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
