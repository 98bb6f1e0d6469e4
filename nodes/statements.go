package nodes

import (
	"fmt"
)

// Template represents the outermost template node
type Template struct {
	BaseStmt
	Body []Node `json:"body"`
}

func (t *Template) Accept(visitor Visitor) interface{} { return visitor.Visit(t) }
func (t *Template) GetChildren() []Node               { return t.Body }
func (t *Template) Type() string                      { return "Template" }

func (t *Template) String() string {
	return fmt.Sprintf("Template(body=%v)", t.Body)
}

// Text is literal template text, written verbatim
type Text struct {
	BaseStmt
	Data string `json:"data"`
}

func (t *Text) Accept(visitor Visitor) interface{} { return visitor.Visit(t) }
func (t *Text) Type() string                      { return "Text" }

func (t *Text) String() string {
	return fmt.Sprintf("Text(%q)", t.Data)
}

// Output prints the value of an expression
type Output struct {
	BaseStmt
	Node Expr `json:"node"`
}

func (o *Output) Accept(visitor Visitor) interface{} { return visitor.Visit(o) }
func (o *Output) Type() string                      { return "Output" }

func (o *Output) GetChildren() []Node {
	return exprsToNodes([]Expr{o.Node})
}

func (o *Output) String() string {
	return fmt.Sprintf("Output(%v)", o.Node)
}

// For represents a for loop
type For struct {
	BaseStmt
	Target   string `json:"target"`
	Iter     Expr   `json:"iter"`
	Limit    Expr   `json:"limit,omitempty"`
	Offset   Expr   `json:"offset,omitempty"`
	Reversed bool   `json:"reversed"`
	Body     []Node `json:"body"`
	Else     []Node `json:"else"`
}

func (f *For) Accept(visitor Visitor) interface{} { return visitor.Visit(f) }
func (f *For) Type() string                      { return "For" }

func (f *For) GetChildren() []Node {
	children := exprsToNodes([]Expr{f.Iter, f.Limit, f.Offset})
	children = append(children, f.Body...)
	children = append(children, f.Else...)
	return children
}

func (f *For) String() string {
	return fmt.Sprintf("For(target=%s, iter=%v, body=%v, else=%v, reversed=%t)",
		f.Target, f.Iter, f.Body, f.Else, f.Reversed)
}

// If represents an if statement. Elif holds the elsif branches in order.
type If struct {
	BaseStmt
	Test Expr   `json:"test"`
	Body []Node `json:"body"`
	Elif []*If  `json:"elif"`
	Else []Node `json:"else"`
}

func (i *If) Accept(visitor Visitor) interface{} { return visitor.Visit(i) }
func (i *If) Type() string                      { return "If" }

func (i *If) GetChildren() []Node {
	children := exprsToNodes([]Expr{i.Test})
	children = append(children, i.Body...)
	for _, elif := range i.Elif {
		children = append(children, elif)
	}
	children = append(children, i.Else...)
	return children
}

func (i *If) String() string {
	return fmt.Sprintf("If(test=%v, body=%v, elif=%v, else=%v)", i.Test, i.Body, i.Elif, i.Else)
}

// Assign binds the value of an expression to a root-scope variable
type Assign struct {
	BaseStmt
	Target string `json:"target"`
	Node   Expr   `json:"node"`
}

func (a *Assign) Accept(visitor Visitor) interface{} { return visitor.Visit(a) }
func (a *Assign) Type() string                      { return "Assign" }

func (a *Assign) GetChildren() []Node {
	return exprsToNodes([]Expr{a.Node})
}

func (a *Assign) String() string {
	return fmt.Sprintf("Assign(%s=%v)", a.Target, a.Node)
}

// Capture renders its body and binds the text to a root-scope variable
type Capture struct {
	BaseStmt
	Target string `json:"target"`
	Body   []Node `json:"body"`
}

func (c *Capture) Accept(visitor Visitor) interface{} { return visitor.Visit(c) }
func (c *Capture) GetChildren() []Node               { return c.Body }
func (c *Capture) Type() string                      { return "Capture" }

func (c *Capture) String() string {
	return fmt.Sprintf("Capture(%s, body=%v)", c.Target, c.Body)
}

// Break stops the innermost loop
type Break struct {
	BaseStmt
}

func (b *Break) Accept(visitor Visitor) interface{} { return visitor.Visit(b) }
func (b *Break) Type() string                      { return "Break" }
func (b *Break) String() string                    { return "Break()" }

// Continue skips to the next iteration of the innermost loop
type Continue struct {
	BaseStmt
}

func (c *Continue) Accept(visitor Visitor) interface{} { return visitor.Visit(c) }
func (c *Continue) Type() string                      { return "Continue" }
func (c *Continue) String() string                    { return "Continue()" }
