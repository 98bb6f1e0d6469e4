package parser

import (
	"github.com/deicod/goliquid/lexer"
	"github.com/deicod/goliquid/nodes"
)

// ParseStatement parses a single statement. The stream is positioned
// after the tag start delimiter.
func (p *Parser) ParseStatement() (nodes.Node, error) {
	token := p.stream.Peek()
	if token.Type != lexer.TokenName {
		return nil, p.Fail("tag name expected, got "+p.describeCurrentToken(), token)
	}

	if !statementKeywords[token.Value] {
		return nil, p.FailUnknownTag(token)
	}

	p.tagStack = append(p.tagStack, token.Value)
	defer func() {
		p.tagStack = p.tagStack[:len(p.tagStack)-1]
	}()

	switch token.Value {
	case "for":
		return p.ParseFor()
	case "if":
		return p.ParseIf(false)
	case "unless":
		return p.ParseIf(true)
	case "assign":
		return p.ParseAssign()
	case "capture":
		return p.ParseCapture()
	case "break":
		return p.ParseLoopControl(&nodes.Break{})
	case "continue":
		return p.ParseLoopControl(&nodes.Continue{})
	}

	return nil, p.FailUnknownTag(token)
}

// ParseStatements parses the body of a block tag until one of the end
// tokens is reached. The stream is positioned before the close delimiter
// of the opening tag. With dropNeedle the end tag name is consumed.
func (p *Parser) ParseStatements(endTokens []string, dropNeedle bool) ([]nodes.Node, error) {
	if _, err := p.Expect(lexer.TokenBlockEnd); err != nil {
		p.recoverTag(err)
	}

	result := p.Subparse(endTokens)

	if p.stream.Eof() {
		return result, p.FailEOF(endTokens)
	}

	if dropNeedle {
		p.stream.Next()
	}

	return result, nil
}

// Subparse parses until one of the end tokens is reached or the stream
// ends. Errors are recorded and parsing resumes after the failing tag.
func (p *Parser) Subparse(endTokens []string) []nodes.Node {
	var body []nodes.Node

	if endTokens != nil {
		p.endTokenStack = append(p.endTokenStack, endTokens)
		defer func() {
			p.endTokenStack = p.endTokenStack[:len(p.endTokenStack)-1]
		}()
	}

	for !p.stream.Eof() {
		token := p.stream.Peek()

		switch token.Type {
		case lexer.TokenText:
			text := &nodes.Text{Data: token.Value}
			text.SetPosition(position(token))
			body = append(body, text)
			p.stream.Next()

		case lexer.TokenVariableStart:
			p.stream.Next()
			output, err := p.parseOutput(token)
			if err != nil {
				p.recoverTag(err)
				continue
			}
			if output != nil {
				body = append(body, output)
			}

		case lexer.TokenBlockStart:
			p.stream.Next()

			if endTokens != nil && p.testEndTokens(endTokens) {
				return body
			}

			stmt, err := p.ParseStatement()
			if err != nil {
				p.recoverTag(err)
				continue
			}
			body = append(body, stmt)

			if _, err := p.Expect(lexer.TokenBlockEnd); err != nil {
				p.recoverTag(err)
			}

		default:
			p.recoverTag(p.Fail("unexpected "+p.describeCurrentToken(), token))
		}
	}

	return body
}

// parseOutput parses the inside of an output tag. An empty tag yields a
// warning and no node.
func (p *Parser) parseOutput(start lexer.Token) (nodes.Node, error) {
	if p.SkipIf(lexer.TokenVariableEnd) {
		p.Warn("empty output tag", start)
		return nil, nil
	}

	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.Expect(lexer.TokenVariableEnd); err != nil {
		return nil, err
	}

	output := &nodes.Output{Node: expr}
	output.SetPosition(position(start))
	return output, nil
}

// testEndTokens checks if the current token matches any of the end tokens
func (p *Parser) testEndTokens(endTokens []string) bool {
	token := p.stream.Peek()
	for _, endToken := range endTokens {
		if p.tokenMatchesRule(token, endToken) {
			return true
		}
	}
	return false
}

// Parse parses the whole template into a Template node. The node is
// returned even when diagnostics were recorded; callers check HasErrors.
func (p *Parser) Parse() *nodes.Template {
	body := p.Subparse(nil)

	template := &nodes.Template{Body: body}
	template.SetPosition(nodes.NewPosition(1, 1))
	return template
}
