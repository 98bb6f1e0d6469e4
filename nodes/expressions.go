package nodes

import (
	"fmt"

	"github.com/deicod/goliquid/values"
)

// Const is a literal value
type Const struct {
	BaseExpr
	Value values.Value `json:"value"`
}

func (c *Const) Accept(visitor Visitor) interface{} { return visitor.Visit(c) }
func (c *Const) Type() string                      { return "Const" }

func (c *Const) String() string {
	return fmt.Sprintf("Const(%s)", values.Inspect(c.Value))
}

// Name is a variable reference, resolved at render time
type Name struct {
	BaseExpr
	Name string `json:"name"`
}

func (n *Name) Accept(visitor Visitor) interface{} { return visitor.Visit(n) }
func (n *Name) Type() string                      { return "Name" }

func (n *Name) String() string {
	return fmt.Sprintf("Name(%s)", n.Name)
}

// Getattr is member access: node.attr
type Getattr struct {
	BaseExpr
	Node Expr   `json:"node"`
	Attr string `json:"attr"`
}

func (g *Getattr) Accept(visitor Visitor) interface{} { return visitor.Visit(g) }
func (g *Getattr) Type() string                      { return "Getattr" }

func (g *Getattr) GetChildren() []Node {
	return exprsToNodes([]Expr{g.Node})
}

func (g *Getattr) String() string {
	return fmt.Sprintf("Getattr(%v.%s)", g.Node, g.Attr)
}

// Getitem is index access: node[arg]
type Getitem struct {
	BaseExpr
	Node Expr `json:"node"`
	Arg  Expr `json:"arg"`
}

func (g *Getitem) Accept(visitor Visitor) interface{} { return visitor.Visit(g) }
func (g *Getitem) Type() string                      { return "Getitem" }

func (g *Getitem) GetChildren() []Node {
	return exprsToNodes([]Expr{g.Node, g.Arg})
}

func (g *Getitem) String() string {
	return fmt.Sprintf("Getitem(%v[%v])", g.Node, g.Arg)
}

// Range is an inclusive integer range: (from..to)
type Range struct {
	BaseExpr
	From Expr `json:"from"`
	To   Expr `json:"to"`
}

func (r *Range) Accept(visitor Visitor) interface{} { return visitor.Visit(r) }
func (r *Range) Type() string                      { return "Range" }

func (r *Range) GetChildren() []Node {
	return exprsToNodes([]Expr{r.From, r.To})
}

func (r *Range) String() string {
	return fmt.Sprintf("Range(%v..%v)", r.From, r.To)
}

// Pipeline feeds an input expression through filters, left to right
type Pipeline struct {
	BaseExpr
	Node    Expr          `json:"node"`
	Filters []*FilterCall `json:"filters"`
}

func (p *Pipeline) Accept(visitor Visitor) interface{} { return visitor.Visit(p) }
func (p *Pipeline) Type() string                      { return "Pipeline" }

func (p *Pipeline) GetChildren() []Node {
	children := exprsToNodes([]Expr{p.Node})
	for _, f := range p.Filters {
		children = append(children, f)
	}
	return children
}

func (p *Pipeline) String() string {
	return fmt.Sprintf("Pipeline(%v | %v)", p.Node, p.Filters)
}

// FilterCall is one stage of a pipeline: a filter name and its arguments
type FilterCall struct {
	BaseHelper
	Name string `json:"name"`
	Args []Expr `json:"args"`
}

func (f *FilterCall) Accept(visitor Visitor) interface{} { return visitor.Visit(f) }
func (f *FilterCall) GetChildren() []Node               { return exprsToNodes(f.Args) }
func (f *FilterCall) Type() string                      { return "FilterCall" }

func (f *FilterCall) String() string {
	return fmt.Sprintf("FilterCall(%s, args=%v)", f.Name, f.Args)
}

// Binary operators
const (
	OpEq       = "=="
	OpNe       = "!="
	OpLt       = "<"
	OpLe       = "<="
	OpGt       = ">"
	OpGe       = ">="
	OpContains = "contains"
	OpAnd      = "and"
	OpOr       = "or"
	OpNot      = "not"
)

// BinExpr is a comparison or logical operation
type BinExpr struct {
	BaseExpr
	Left     Expr   `json:"left"`
	Operator string `json:"operator"`
	Right    Expr   `json:"right"`
}

func (b *BinExpr) Accept(visitor Visitor) interface{} { return visitor.Visit(b) }
func (b *BinExpr) Type() string                      { return "BinExpr" }

func (b *BinExpr) GetChildren() []Node {
	return exprsToNodes([]Expr{b.Left, b.Right})
}

func (b *BinExpr) String() string {
	return fmt.Sprintf("BinExpr(%v %s %v)", b.Left, b.Operator, b.Right)
}

// UnaryExpr applies an operator to one operand. The parser only produces
// "not", for unless tags.
type UnaryExpr struct {
	BaseExpr
	Operator string `json:"operator"`
	Node     Expr   `json:"node"`
}

func (u *UnaryExpr) Accept(visitor Visitor) interface{} { return visitor.Visit(u) }
func (u *UnaryExpr) Type() string                      { return "UnaryExpr" }

func (u *UnaryExpr) GetChildren() []Node {
	return exprsToNodes([]Expr{u.Node})
}

func (u *UnaryExpr) String() string {
	return fmt.Sprintf("UnaryExpr(%s %v)", u.Operator, u.Node)
}

// NewConst creates a new Const node
func NewConst(value values.Value, line, column int) *Const {
	node := &Const{Value: value}
	node.SetPosition(NewPosition(line, column))
	return node
}

// NewName creates a new Name node
func NewName(name string, line, column int) *Name {
	node := &Name{Name: name}
	node.SetPosition(NewPosition(line, column))
	return node
}
