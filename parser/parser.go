package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deicod/goliquid/internal/suggest"
	"github.com/deicod/goliquid/lexer"
	"github.com/deicod/goliquid/nodes"
)

// Severity classifies a diagnostic
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one problem found while lexing or parsing
type Diagnostic struct {
	Severity Severity
	Message  string
	Line     int
	Column   int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s at line %d, column %d", d.Severity, d.Message, d.Line, d.Column)
}

// TemplateSyntaxError represents a syntax error in a template
type TemplateSyntaxError struct {
	Message string
	Line    int
	Column  int
	Name    string
}

func (e *TemplateSyntaxError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s at line %d, column %d in %s", e.Message, e.Line, e.Column, e.Name)
	}
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
}

// ParseError is returned when a template has at least one error
// diagnostic. It carries every diagnostic, warnings included.
type ParseError struct {
	Name        string
	Diagnostics []Diagnostic
}

func (e *ParseError) Error() string {
	errs := e.Errors()
	if len(errs) == 0 {
		return "template parse failed"
	}
	first := errs[0]
	prefix := ""
	if e.Name != "" {
		prefix = e.Name + ": "
	}
	msg := fmt.Sprintf("%s%s at line %d, column %d", prefix, first.Message, first.Line, first.Column)
	if len(errs) > 1 {
		msg += fmt.Sprintf(" (and %d more errors)", len(errs)-1)
	}
	return msg
}

// Errors returns the error-severity diagnostics
func (e *ParseError) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range e.Diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// errReported marks a failure whose diagnostic was already recorded
var errReported = errors.New("already reported")

// Options configure a Parser
type Options struct {
	Lexer lexer.LexerConfig
	// Name identifies the template in error messages
	Name string
}

// Parser builds an AST from a token stream, collecting diagnostics and
// recovering at tag boundaries so one pass reports as many problems as
// possible.
type Parser struct {
	stream        *lexer.TokenStream
	name          string
	tagStack      []string
	endTokenStack [][]string
	loopDepth     int
	diagnostics   []Diagnostic
	eofReported   bool
}

// NewParser lexes source and prepares a parser over the result. Lexer
// errors become diagnostics.
func NewParser(source string, opts Options) *Parser {
	p := &Parser{name: opts.Name}

	stream, err := lexer.NewLexer(opts.Lexer).Tokenize(source)
	p.stream = stream

	var lexErrs lexer.ErrorList
	if errors.As(err, &lexErrs) {
		for _, e := range lexErrs {
			p.diagnostics = append(p.diagnostics, Diagnostic{
				Severity: SeverityError,
				Message:  e.Message,
				Line:     e.Line,
				Column:   e.Column,
			})
		}
	}
	return p
}

// Diagnostics returns everything recorded so far
func (p *Parser) Diagnostics() []Diagnostic {
	return p.diagnostics
}

// HasErrors reports whether any error-severity diagnostic was recorded
func (p *Parser) HasErrors() bool {
	for _, d := range p.diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Fail creates a syntax error at the given token
func (p *Parser) Fail(msg string, token lexer.Token) error {
	return &TemplateSyntaxError{
		Message: msg,
		Line:    token.Line,
		Column:  token.Column,
		Name:    p.name,
	}
}

// Warn records a warning at the given token
func (p *Parser) Warn(msg string, token lexer.Token) {
	p.diagnostics = append(p.diagnostics, Diagnostic{
		Severity: SeverityWarning,
		Message:  msg,
		Line:     token.Line,
		Column:   token.Column,
	})
}

// record turns err into a diagnostic
func (p *Parser) record(err error) {
	if err == nil || errors.Is(err, errReported) {
		return
	}
	var syntaxErr *TemplateSyntaxError
	if errors.As(err, &syntaxErr) {
		p.diagnostics = append(p.diagnostics, Diagnostic{
			Severity: SeverityError,
			Message:  syntaxErr.Message,
			Line:     syntaxErr.Line,
			Column:   syntaxErr.Column,
		})
		return
	}
	token := p.stream.Peek()
	p.diagnostics = append(p.diagnostics, Diagnostic{
		Severity: SeverityError,
		Message:  err.Error(),
		Line:     token.Line,
		Column:   token.Column,
	})
}

// syncTag records err and skips to the end of the current tag without
// consuming the close delimiter.
func (p *Parser) syncTag(err error) {
	p.record(err)
	for !p.stream.Eof() && !p.stream.Peek().IsTagEnd() {
		p.stream.Next()
	}
}

// recoverTag records err and skips past the end of the current tag.
func (p *Parser) recoverTag(err error) {
	p.syncTag(err)
	if p.stream.Peek().IsTagEnd() {
		p.stream.Next()
	}
}

// FailUnknownTag is called when the parser encounters an unknown tag
func (p *Parser) FailUnknownTag(token lexer.Token) error {
	return p.failUntilEOF(token.Value, p.endTokenStack, token)
}

// FailEOF is called when EOF is encountered unexpectedly. Only the
// innermost unclosed block is reported.
func (p *Parser) FailEOF(endTokens []string) error {
	if p.eofReported {
		return errReported
	}
	p.eofReported = true

	stack := make([][]string, len(p.endTokenStack))
	copy(stack, p.endTokenStack)
	if endTokens != nil {
		stack = append(stack, endTokens)
	}
	return p.failUntilEOF("", stack, p.stream.Peek())
}

// failUntilEOF creates an appropriate error message for EOF or unknown tag situations
func (p *Parser) failUntilEOF(name string, endTokenStack [][]string, token lexer.Token) error {
	expected := make(map[string]bool)
	for _, exprs := range endTokenStack {
		for _, expr := range exprs {
			expected[strings.TrimPrefix(expr, "name:")] = true
		}
	}

	var currentlyLooking string
	if len(endTokenStack) > 0 {
		lastTokens := endTokenStack[len(endTokenStack)-1]
		quoted := make([]string, len(lastTokens))
		for i, rule := range lastTokens {
			quoted[i] = fmt.Sprintf("%q", strings.TrimPrefix(rule, "name:"))
		}
		currentlyLooking = strings.Join(quoted, " or ")
	}

	var message strings.Builder
	if name == "" {
		message.WriteString("Unexpected end of template.")
	} else if expected[name] || isClosingTag(name) {
		message.WriteString(fmt.Sprintf("Encountered unexpected tag %q.", name))
	} else {
		message.WriteString(fmt.Sprintf("Encountered unknown tag %q.", name))
		candidates := make([]string, 0, len(statementKeywords)+len(expected))
		for kw := range statementKeywords {
			candidates = append(candidates, kw)
		}
		for kw := range expected {
			candidates = append(candidates, kw)
		}
		if s := suggest.Closest(name, candidates); s != "" {
			message.WriteString(fmt.Sprintf(" Did you mean %q?", s))
		}
	}

	if currentlyLooking != "" {
		if name != "" && expected[name] {
			message.WriteString(fmt.Sprintf(" You probably made a nesting mistake; the parser is looking for %s.", currentlyLooking))
		} else {
			message.WriteString(fmt.Sprintf(" The parser was looking for %s.", currentlyLooking))
		}
	} else if name != "" && isClosingTag(name) {
		message.WriteString(" No open block expects it.")
	}

	if len(p.tagStack) > 0 {
		message.WriteString(fmt.Sprintf(" The innermost block that needs to be closed is %q.", p.tagStack[len(p.tagStack)-1]))
	}

	return p.Fail(message.String(), token)
}

// isClosingTag reports whether name can only close or continue a block
func isClosingTag(name string) bool {
	switch name {
	case "else", "elsif":
		return true
	}
	return strings.HasPrefix(name, "end")
}

// tokenMatchesRule checks if a token matches an end rule such as "name:endfor"
func (p *Parser) tokenMatchesRule(token lexer.Token, rule string) bool {
	value, ok := strings.CutPrefix(rule, "name:")
	return ok && token.Type == lexer.TokenName && token.Value == value
}

// SkipIf skips a token if it matches the expected type
func (p *Parser) SkipIf(expectedType lexer.TokenType) bool {
	if p.stream.Peek().Type == expectedType {
		p.stream.Next()
		return true
	}
	return false
}

// SkipIfByName skips a name token with the given value
func (p *Parser) SkipIfByName(name string) bool {
	token := p.stream.Peek()
	if token.Type == lexer.TokenName && token.Value == name {
		p.stream.Next()
		return true
	}
	return false
}

// Expect consumes and returns a token, failing if it doesn't match the expected type
func (p *Parser) Expect(expectedType lexer.TokenType) (lexer.Token, error) {
	token := p.stream.Peek()
	if token.Type == expectedType {
		return p.stream.Next(), nil
	}
	return token, p.Fail(fmt.Sprintf("expected %s, got %s", describeToken(expectedType), p.describeCurrentToken()), token)
}

// ExpectByName consumes a name token with the given value
func (p *Parser) ExpectByName(name string) (lexer.Token, error) {
	token := p.stream.Peek()
	if token.Type == lexer.TokenName && token.Value == name {
		return p.stream.Next(), nil
	}
	return token, p.Fail(fmt.Sprintf("expected %q, got %s", name, p.describeCurrentToken()), token)
}

// describeToken provides a human-readable description of a token type
func describeToken(tokenType lexer.TokenType) string {
	switch tokenType {
	case lexer.TokenEOF:
		return "end of template"
	case lexer.TokenText:
		return "text"
	case lexer.TokenVariableStart:
		return "output start ('{{')"
	case lexer.TokenVariableEnd:
		return "output end ('}}')"
	case lexer.TokenBlockStart:
		return "tag start ('{%')"
	case lexer.TokenBlockEnd:
		return "tag end ('%}')"
	case lexer.TokenName:
		return "name"
	case lexer.TokenString:
		return "string"
	case lexer.TokenNumber:
		return "number"
	case lexer.TokenAssign:
		return "assignment operator ('=')"
	case lexer.TokenComma:
		return "comma (',')"
	case lexer.TokenColon:
		return "colon (':')"
	case lexer.TokenPipe:
		return "pipe ('|')"
	case lexer.TokenLeftParen:
		return "left parenthesis ('(')"
	case lexer.TokenRightParen:
		return "right parenthesis (')')"
	case lexer.TokenLeftBracket:
		return "left bracket ('[')"
	case lexer.TokenRightBracket:
		return "right bracket (']')"
	case lexer.TokenDot:
		return "dot ('.')"
	case lexer.TokenRange:
		return "range ('..')"
	case lexer.TokenComparison:
		return "comparison operator"
	default:
		return tokenType.String()
	}
}

// describeCurrentToken provides a description of the current token
func (p *Parser) describeCurrentToken() string {
	token := p.stream.Peek()
	switch token.Type {
	case lexer.TokenName:
		return fmt.Sprintf("name %q", token.Value)
	case lexer.TokenString:
		return fmt.Sprintf("string %q", token.Value)
	case lexer.TokenNumber:
		return fmt.Sprintf("number %s", token.Value)
	case lexer.TokenComparison:
		return fmt.Sprintf("operator %q", token.Value)
	}
	return describeToken(token.Type)
}

func position(token lexer.Token) nodes.Position {
	return nodes.NewPosition(token.Line, token.Column)
}

// statementKeywords lists the tags ParseStatement dispatches on
var statementKeywords = map[string]bool{
	"for":      true,
	"if":       true,
	"unless":   true,
	"assign":   true,
	"capture":  true,
	"break":    true,
	"continue": true,
}
