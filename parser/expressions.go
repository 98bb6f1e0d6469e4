package parser

import (
	"github.com/deicod/goliquid/lexer"
	"github.com/deicod/goliquid/nodes"
	"github.com/deicod/goliquid/values"
)

// ParseExpression parses a full expression. Binding, loosest first:
// and/or (right-associative, equal precedence), comparison, filter
// pipeline, range, postfix access, primary.
func (p *Parser) ParseExpression() (nodes.Expr, error) {
	return p.parseLogical()
}

func (p *Parser) parseLogical() (nodes.Expr, error) {
	left, err := p.ParseCompare()
	if err != nil {
		return nil, err
	}

	token := p.stream.Peek()
	if token.Type == lexer.TokenName && (token.Value == nodes.OpAnd || token.Value == nodes.OpOr) {
		p.stream.Next()
		right, err := p.parseLogical()
		if err != nil {
			return nil, err
		}
		node := &nodes.BinExpr{Left: left, Operator: token.Value, Right: right}
		node.SetPosition(position(token))
		return node, nil
	}
	return left, nil
}

// ParseCompare parses a single, non-chaining comparison
func (p *Parser) ParseCompare() (nodes.Expr, error) {
	left, err := p.ParsePipeline()
	if err != nil {
		return nil, err
	}

	token := p.stream.Peek()
	var op string
	switch {
	case token.Type == lexer.TokenComparison:
		op = token.Value
		if op == "<>" {
			op = nodes.OpNe
		}
	case token.Type == lexer.TokenName && token.Value == nodes.OpContains:
		op = nodes.OpContains
	default:
		return left, nil
	}
	p.stream.Next()

	right, err := p.ParsePipeline()
	if err != nil {
		return nil, err
	}
	node := &nodes.BinExpr{Left: left, Operator: op, Right: right}
	node.SetPosition(position(token))
	return node, nil
}

// ParsePipeline parses an expression followed by zero or more filters:
//
//	expr | name | name: arg, arg
func (p *Parser) ParsePipeline() (nodes.Expr, error) {
	node, err := p.ParseRange()
	if err != nil {
		return nil, err
	}
	if p.stream.Peek().Type != lexer.TokenPipe {
		return node, nil
	}

	pipeline := &nodes.Pipeline{Node: node}
	pipeline.SetPosition(node.GetPosition())

	for p.SkipIf(lexer.TokenPipe) {
		filter, err := p.parseFilterCall()
		if err != nil {
			return nil, err
		}
		pipeline.Filters = append(pipeline.Filters, filter)
	}
	return pipeline, nil
}

func (p *Parser) parseFilterCall() (*nodes.FilterCall, error) {
	token, err := p.Expect(lexer.TokenName)
	if err != nil {
		return nil, p.Fail("expected filter name, got "+p.describeCurrentToken(), token)
	}

	filter := &nodes.FilterCall{Name: token.Value}
	filter.SetPosition(position(token))

	if !p.SkipIf(lexer.TokenColon) {
		return filter, nil
	}

	for {
		arg, err := p.ParseRange()
		if err != nil {
			return nil, err
		}
		filter.Args = append(filter.Args, arg)
		if !p.SkipIf(lexer.TokenComma) {
			return filter, nil
		}
	}
}

// ParseRange parses a postfix expression optionally followed by ".." and
// another postfix expression.
func (p *Parser) ParseRange() (nodes.Expr, error) {
	from, err := p.ParsePostfix()
	if err != nil {
		return nil, err
	}

	token := p.stream.Peek()
	if token.Type != lexer.TokenRange {
		return from, nil
	}
	p.stream.Next()

	to, err := p.ParsePostfix()
	if err != nil {
		return nil, err
	}
	node := &nodes.Range{From: from, To: to}
	node.SetPosition(from.GetPosition())
	return node, nil
}

// ParsePostfix parses a primary followed by any chain of .name and [expr]
func (p *Parser) ParsePostfix() (nodes.Expr, error) {
	node, err := p.ParsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		token := p.stream.Peek()
		switch token.Type {
		case lexer.TokenDot:
			p.stream.Next()
			attr, err := p.Expect(lexer.TokenName)
			if err != nil {
				return nil, err
			}
			getattr := &nodes.Getattr{Node: node, Attr: attr.Value}
			getattr.SetPosition(position(token))
			node = getattr
		case lexer.TokenLeftBracket:
			p.stream.Next()
			arg, err := p.ParsePipeline()
			if err != nil {
				return nil, err
			}
			if _, err := p.Expect(lexer.TokenRightBracket); err != nil {
				return nil, err
			}
			getitem := &nodes.Getitem{Node: node, Arg: arg}
			getitem.SetPosition(position(token))
			node = getitem
		default:
			return node, nil
		}
	}
}

// ParsePrimary parses a literal, a variable name or a parenthesized
// expression.
func (p *Parser) ParsePrimary() (nodes.Expr, error) {
	token := p.stream.Peek()

	switch token.Type {
	case lexer.TokenNumber:
		p.stream.Next()
		f, ok := values.ParseNumber(token.Value)
		if !ok {
			return nil, p.Fail("invalid number "+token.Value, token)
		}
		return nodes.NewConst(values.Number(f), token.Line, token.Column), nil

	case lexer.TokenString:
		p.stream.Next()
		return nodes.NewConst(values.String(token.Value), token.Line, token.Column), nil

	case lexer.TokenName:
		p.stream.Next()
		switch token.Value {
		case "true":
			return nodes.NewConst(values.True, token.Line, token.Column), nil
		case "false":
			return nodes.NewConst(values.False, token.Line, token.Column), nil
		case "nil", "null":
			return nodes.NewConst(values.Nil, token.Line, token.Column), nil
		}
		return nodes.NewName(token.Value, token.Line, token.Column), nil

	case lexer.TokenLeftParen:
		p.stream.Next()
		expr, err := p.ParsePipeline()
		if err != nil {
			return nil, err
		}
		if _, err := p.Expect(lexer.TokenRightParen); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, p.Fail("unexpected "+p.describeCurrentToken(), token)
}
