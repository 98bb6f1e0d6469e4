package parser

import (
	"fmt"

	"github.com/deicod/goliquid/lexer"
	"github.com/deicod/goliquid/nodes"
)

// ParseFor parses a for loop:
//
//	{% for item in expr [reversed] [limit: n] [offset: n] %} ... [{% else %} ...] {% endfor %}
func (p *Parser) ParseFor() (nodes.Node, error) {
	token := p.stream.Next() // consume 'for'

	forNode := &nodes.For{}
	forNode.SetPosition(position(token))

	if err := p.parseForHeader(forNode); err != nil {
		p.syncTag(err)
	}

	p.loopDepth++
	body, err := p.ParseStatements([]string{"name:else", "name:endfor"}, false)
	p.loopDepth--
	forNode.Body = body
	if err != nil {
		return forNode, err
	}

	if p.SkipIfByName("else") {
		forNode.Else, err = p.ParseStatements([]string{"name:endfor"}, true)
		return forNode, err
	}

	p.stream.Next() // consume 'endfor'
	return forNode, nil
}

func (p *Parser) parseForHeader(forNode *nodes.For) error {
	target, err := p.Expect(lexer.TokenName)
	if err != nil {
		return err
	}
	forNode.Target = target.Value

	if _, err := p.ExpectByName("in"); err != nil {
		return err
	}

	forNode.Iter, err = p.ParseRange()
	if err != nil {
		return err
	}

	for !p.stream.Peek().IsTagEnd() && !p.stream.Eof() {
		option := p.stream.Peek()
		if option.Type != lexer.TokenName {
			return p.Fail("unexpected "+p.describeCurrentToken()+" in for tag", option)
		}

		switch option.Value {
		case "reversed":
			p.stream.Next()
			forNode.Reversed = true
		case "limit", "offset":
			p.stream.Next()
			if _, err := p.Expect(lexer.TokenColon); err != nil {
				return err
			}
			value, err := p.ParseRange()
			if err != nil {
				return err
			}
			if option.Value == "limit" {
				forNode.Limit = value
			} else {
				forNode.Offset = value
			}
		default:
			return p.Fail(fmt.Sprintf("unknown for loop option %q", option.Value), option)
		}
	}
	return nil
}

// ParseIf parses an if or unless construct. An unless test is negated.
func (p *Parser) ParseIf(negate bool) (nodes.Node, error) {
	token := p.stream.Next() // consume 'if' / 'unless'
	endTag := "endif"
	if negate {
		endTag = "endunless"
	}
	endTokens := []string{"name:elsif", "name:else", "name:" + endTag}

	root := &nodes.If{}
	root.SetPosition(position(token))

	test, err := p.ParseExpression()
	if err != nil {
		p.syncTag(err)
	}
	if negate && test != nil {
		not := &nodes.UnaryExpr{Operator: nodes.OpNot, Node: test}
		not.SetPosition(position(token))
		test = not
	}
	root.Test = test

	current := root
	for {
		body, err := p.ParseStatements(endTokens, false)
		current.Body = body
		if err != nil {
			return root, err
		}

		branch := p.stream.Next() // consume the end token
		switch branch.Value {
		case "elsif":
			elif := &nodes.If{}
			elif.SetPosition(position(branch))
			elif.Test, err = p.ParseExpression()
			if err != nil {
				p.syncTag(err)
			}
			root.Elif = append(root.Elif, elif)
			current = elif
		case "else":
			root.Else, err = p.ParseStatements([]string{"name:" + endTag}, true)
			return root, err
		default:
			return root, nil
		}
	}
}

// ParseAssign parses an assignment: {% assign name = expr %}
func (p *Parser) ParseAssign() (nodes.Node, error) {
	token := p.stream.Next() // consume 'assign'

	target, err := p.Expect(lexer.TokenName)
	if err != nil {
		return nil, err
	}
	if _, err := p.Expect(lexer.TokenAssign); err != nil {
		return nil, err
	}
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	assign := &nodes.Assign{Target: target.Value, Node: expr}
	assign.SetPosition(position(token))
	return assign, nil
}

// ParseCapture parses a capture block: {% capture name %} ... {% endcapture %}
func (p *Parser) ParseCapture() (nodes.Node, error) {
	token := p.stream.Next() // consume 'capture'

	capture := &nodes.Capture{}
	capture.SetPosition(position(token))

	target := p.stream.Peek()
	if target.Type == lexer.TokenName || target.Type == lexer.TokenString {
		p.stream.Next()
		capture.Target = target.Value
	} else {
		p.syncTag(p.Fail("expected variable name, got "+p.describeCurrentToken(), target))
	}

	body, err := p.ParseStatements([]string{"name:endcapture"}, true)
	capture.Body = body
	return capture, err
}

// ParseLoopControl parses break and continue, which are only valid inside
// a for loop body.
func (p *Parser) ParseLoopControl(node nodes.Stmt) (nodes.Node, error) {
	token := p.stream.Next()
	if p.loopDepth == 0 {
		return nil, p.Fail(fmt.Sprintf("%s tag outside of a for loop", token.Value), token)
	}
	node.SetPosition(position(token))
	return node, nil
}
