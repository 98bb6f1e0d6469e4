package nodes

import (
	"fmt"
	"strings"

	"github.com/deicod/goliquid/values"
)

// Position represents source code position information
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// NewPosition creates a new Position
func NewPosition(line, column int) Position {
	return Position{
		Line:   line,
		Column: column,
	}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node represents the base interface for all AST nodes. A tree returned
// by the parser is never mutated afterwards and may be shared by
// concurrent renders.
type Node interface {
	// GetPosition returns the position information for this node
	GetPosition() Position

	// SetPosition sets the position information for this node
	SetPosition(pos Position)

	// GetChildren returns all child nodes
	GetChildren() []Node

	// Accept implements the visitor pattern
	Accept(visitor Visitor) interface{}

	// String returns a string representation of the node
	String() string

	// Type returns the node type for identification
	Type() string
}

// BaseNode provides common functionality for all nodes
type BaseNode struct {
	Pos Position `json:"pos"`
}

// GetPosition returns the position information
func (n *BaseNode) GetPosition() Position {
	return n.Pos
}

// SetPosition sets the position information
func (n *BaseNode) SetPosition(pos Position) {
	n.Pos = pos
}

// GetChildren returns the base implementation (empty slice)
func (n *BaseNode) GetChildren() []Node {
	return []Node{}
}

// Visitor implements the visitor pattern for AST traversal
type Visitor interface {
	Visit(node Node) interface{}
}

// NodeVisitorFunc is a function adapter for Visitor interface
type NodeVisitorFunc func(node Node) interface{}

func (f NodeVisitorFunc) Visit(node Node) interface{} {
	return f(node)
}

// Walk traverses the AST using the visitor pattern
func Walk(visitor Visitor, node Node) {
	if node == nil {
		return
	}

	result := visitor.Visit(node)
	if result != nil {
		// If visitor returns non-nil, stop traversal
		return
	}

	for _, child := range node.GetChildren() {
		Walk(visitor, child)
	}
}

// Stmt represents statement nodes
type Stmt interface {
	Node
	isStmt()
}

// BaseStmt provides common functionality for statement nodes
type BaseStmt struct {
	BaseNode
}

func (n *BaseStmt) isStmt() {}

// Expr represents expression nodes
type Expr interface {
	Node
	isExpr()
}

// BaseExpr provides common functionality for expression nodes
type BaseExpr struct {
	BaseNode
}

func (n *BaseExpr) isExpr() {}

// Helper represents nodes that only appear inside other nodes
type Helper interface {
	Node
	isHelper()
}

// BaseHelper provides common functionality for helper nodes
type BaseHelper struct {
	BaseNode
}

func (n *BaseHelper) isHelper() {}

func exprsToNodes(exprs []Expr) []Node {
	children := make([]Node, 0, len(exprs))
	for _, expr := range exprs {
		if expr != nil {
			children = append(children, expr)
		}
	}
	return children
}

// Dump creates a string representation of the AST for debugging
func Dump(node Node) string {
	if node == nil {
		return "nil"
	}

	var buf strings.Builder
	dumpNode(&buf, node, 0)
	return buf.String()
}

// dumpNode recursively dumps a node
func dumpNode(buf *strings.Builder, node Node, indent int) {
	buf.WriteString(strings.Repeat("  ", indent))
	buf.WriteString(node.Type())

	switch n := node.(type) {
	case *Text:
		fmt.Fprintf(buf, "(%q)", n.Data)
	case *Const:
		fmt.Fprintf(buf, "(%s)", values.Inspect(n.Value))
	case *Name:
		fmt.Fprintf(buf, "(%s)", n.Name)
	case *Getattr:
		fmt.Fprintf(buf, "(.%s)", n.Attr)
	case *FilterCall:
		fmt.Fprintf(buf, "(%s)", n.Name)
	case *BinExpr:
		fmt.Fprintf(buf, "(%s)", n.Operator)
	case *UnaryExpr:
		fmt.Fprintf(buf, "(%s)", n.Operator)
	case *For:
		fmt.Fprintf(buf, "(%s", n.Target)
		if n.Reversed {
			buf.WriteString(", reversed")
		}
		buf.WriteString(")")
	case *Assign:
		fmt.Fprintf(buf, "(%s)", n.Target)
	case *Capture:
		fmt.Fprintf(buf, "(%s)", n.Target)
	}
	buf.WriteString("\n")

	for _, child := range node.GetChildren() {
		dumpNode(buf, child, indent+1)
	}
}

// Find returns the first node, in depth-first order, for which match
// returns true.
func Find(node Node, match func(Node) bool) Node {
	var result Node
	Walk(NodeVisitorFunc(func(n Node) interface{} {
		if result != nil {
			return true
		}
		if match(n) {
			result = n
			return true
		}
		return nil
	}), node)
	return result
}

// FindAll returns every node for which match returns true.
func FindAll(node Node, match func(Node) bool) []Node {
	var results []Node
	Walk(NodeVisitorFunc(func(n Node) interface{} {
		if match(n) {
			results = append(results, n)
		}
		return nil
	}), node)
	return results
}
