package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deicod/goliquid/nodes"
	"github.com/deicod/goliquid/values"
)

func mustParse(t *testing.T, source string) *nodes.Template {
	t.Helper()
	tmpl, err := ParseTemplate(source)
	require.NoError(t, err)
	require.NotNil(t, tmpl)
	return tmpl
}

func outputExpr(t *testing.T, tmpl *nodes.Template, index int) nodes.Expr {
	t.Helper()
	require.Greater(t, len(tmpl.Body), index)
	output, ok := tmpl.Body[index].(*nodes.Output)
	require.True(t, ok, "expected Output node, got %T", tmpl.Body[index])
	return output.Node
}

func TestParser_Expressions(t *testing.T) {
	tests := []struct {
		name     string
		template string
		validate func(*testing.T, nodes.Expr)
	}{
		{
			name:     "SimpleVariable",
			template: "{{ name }}",
			validate: func(t *testing.T, expr nodes.Expr) {
				name, ok := expr.(*nodes.Name)
				require.True(t, ok)
				assert.Equal(t, "name", name.Name)
			},
		},
		{
			name:     "StringLiteral",
			template: "{{ 'abc' }}",
			validate: func(t *testing.T, expr nodes.Expr) {
				c, ok := expr.(*nodes.Const)
				require.True(t, ok)
				assert.Equal(t, values.String("abc"), c.Value)
			},
		},
		{
			name:     "SignedNumber",
			template: "{{ -123.456 }}",
			validate: func(t *testing.T, expr nodes.Expr) {
				c, ok := expr.(*nodes.Const)
				require.True(t, ok)
				assert.Equal(t, values.Number(-123.456), c.Value)
			},
		},
		{
			name:     "Keywords",
			template: "{{ true }}",
			validate: func(t *testing.T, expr nodes.Expr) {
				c, ok := expr.(*nodes.Const)
				require.True(t, ok)
				assert.Equal(t, values.True, c.Value)
			},
		},
		{
			name:     "MemberChain",
			template: "{{ a.b[0].c }}",
			validate: func(t *testing.T, expr nodes.Expr) {
				c, ok := expr.(*nodes.Getattr)
				require.True(t, ok)
				assert.Equal(t, "c", c.Attr)
				item, ok := c.Node.(*nodes.Getitem)
				require.True(t, ok)
				assert.Equal(t, values.Number(0), item.Arg.(*nodes.Const).Value)
				b, ok := item.Node.(*nodes.Getattr)
				require.True(t, ok)
				assert.Equal(t, "b", b.Attr)
				assert.Equal(t, "a", b.Node.(*nodes.Name).Name)
			},
		},
		{
			name:     "Range",
			template: "{{ (1..3) }}",
			validate: func(t *testing.T, expr nodes.Expr) {
				r, ok := expr.(*nodes.Range)
				require.True(t, ok)
				assert.Equal(t, values.Number(1), r.From.(*nodes.Const).Value)
				assert.Equal(t, values.Number(3), r.To.(*nodes.Const).Value)
			},
		},
		{
			name:     "RangeWithVariables",
			template: "{{ (a..b.size) }}",
			validate: func(t *testing.T, expr nodes.Expr) {
				r, ok := expr.(*nodes.Range)
				require.True(t, ok)
				assert.IsType(t, &nodes.Name{}, r.From)
				assert.IsType(t, &nodes.Getattr{}, r.To)
			},
		},
		{
			name:     "FilterChain",
			template: "{{ 1 | inc: 2 | inc }}",
			validate: func(t *testing.T, expr nodes.Expr) {
				p, ok := expr.(*nodes.Pipeline)
				require.True(t, ok)
				require.Len(t, p.Filters, 2)
				assert.Equal(t, "inc", p.Filters[0].Name)
				require.Len(t, p.Filters[0].Args, 1)
				assert.Equal(t, "inc", p.Filters[1].Name)
				assert.Empty(t, p.Filters[1].Args)
			},
		},
		{
			name:     "FilterArguments",
			template: "{{ 'a' | append: 'b', x.y }}",
			validate: func(t *testing.T, expr nodes.Expr) {
				p, ok := expr.(*nodes.Pipeline)
				require.True(t, ok)
				require.Len(t, p.Filters, 1)
				require.Len(t, p.Filters[0].Args, 2)
				assert.IsType(t, &nodes.Getattr{}, p.Filters[0].Args[1])
			},
		},
		{
			name:     "Comparison",
			template: "{{ a | size >= 2 }}",
			validate: func(t *testing.T, expr nodes.Expr) {
				b, ok := expr.(*nodes.BinExpr)
				require.True(t, ok)
				assert.Equal(t, nodes.OpGe, b.Operator)
				assert.IsType(t, &nodes.Pipeline{}, b.Left)
			},
		},
		{
			name:     "LegacyNotEqual",
			template: "{{ a <> b }}",
			validate: func(t *testing.T, expr nodes.Expr) {
				assert.Equal(t, nodes.OpNe, expr.(*nodes.BinExpr).Operator)
			},
		},
		{
			name:     "LogicalRightAssociative",
			template: "{{ a and b or c }}",
			validate: func(t *testing.T, expr nodes.Expr) {
				b, ok := expr.(*nodes.BinExpr)
				require.True(t, ok)
				assert.Equal(t, nodes.OpAnd, b.Operator)
				right, ok := b.Right.(*nodes.BinExpr)
				require.True(t, ok)
				assert.Equal(t, nodes.OpOr, right.Operator)
			},
		},
		{
			name:     "Contains",
			template: "{{ tags contains 'go' }}",
			validate: func(t *testing.T, expr nodes.Expr) {
				assert.Equal(t, nodes.OpContains, expr.(*nodes.BinExpr).Operator)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, outputExpr(t, mustParse(t, tt.template), 0))
		})
	}
}

func TestParser_Statements(t *testing.T) {
	tests := []struct {
		name     string
		template string
		validate func(*testing.T, *nodes.Template)
	}{
		{
			name:     "TextOnly",
			template: "Hello World",
			validate: func(t *testing.T, tmpl *nodes.Template) {
				require.Len(t, tmpl.Body, 1)
				assert.Equal(t, "Hello World", tmpl.Body[0].(*nodes.Text).Data)
			},
		},
		{
			name:     "ForRange",
			template: "{% for i in (1..3) %}{{i}}{% endfor %}",
			validate: func(t *testing.T, tmpl *nodes.Template) {
				require.Len(t, tmpl.Body, 1)
				loop, ok := tmpl.Body[0].(*nodes.For)
				require.True(t, ok)
				assert.Equal(t, "i", loop.Target)
				assert.IsType(t, &nodes.Range{}, loop.Iter)
				require.Len(t, loop.Body, 1)
				assert.IsType(t, &nodes.Output{}, loop.Body[0])
			},
		},
		{
			name:     "ForOptionsAndElse",
			template: "{% for p in products reversed limit: 2 offset: n %}x{% else %}none{% endfor %}",
			validate: func(t *testing.T, tmpl *nodes.Template) {
				loop := tmpl.Body[0].(*nodes.For)
				assert.True(t, loop.Reversed)
				assert.Equal(t, values.Number(2), loop.Limit.(*nodes.Const).Value)
				assert.Equal(t, "n", loop.Offset.(*nodes.Name).Name)
				require.Len(t, loop.Else, 1)
				assert.Equal(t, "none", loop.Else[0].(*nodes.Text).Data)
			},
		},
		{
			name:     "NestedFor",
			template: "{% for a in x %}{% for b in a %}{{ b }}{% break %}{% endfor %}{% continue %}{% endfor %}",
			validate: func(t *testing.T, tmpl *nodes.Template) {
				outer := tmpl.Body[0].(*nodes.For)
				require.Len(t, outer.Body, 2)
				inner := outer.Body[0].(*nodes.For)
				assert.Equal(t, "b", inner.Target)
				assert.IsType(t, &nodes.Break{}, inner.Body[1])
				assert.IsType(t, &nodes.Continue{}, outer.Body[1])
			},
		},
		{
			name:     "IfElsifElse",
			template: "{% if a %}A{% elsif b %}B{% elsif c %}C{% else %}D{% endif %}",
			validate: func(t *testing.T, tmpl *nodes.Template) {
				node := tmpl.Body[0].(*nodes.If)
				assert.Equal(t, "a", node.Test.(*nodes.Name).Name)
				require.Len(t, node.Elif, 2)
				assert.Equal(t, "c", node.Elif[1].Test.(*nodes.Name).Name)
				assert.Equal(t, "C", node.Elif[1].Body[0].(*nodes.Text).Data)
				assert.Equal(t, "D", node.Else[0].(*nodes.Text).Data)
			},
		},
		{
			name:     "Unless",
			template: "{% unless a %}x{% endunless %}",
			validate: func(t *testing.T, tmpl *nodes.Template) {
				node := tmpl.Body[0].(*nodes.If)
				not, ok := node.Test.(*nodes.UnaryExpr)
				require.True(t, ok)
				assert.Equal(t, nodes.OpNot, not.Operator)
			},
		},
		{
			name:     "Assign",
			template: "{% assign x = 'a' | upcase %}",
			validate: func(t *testing.T, tmpl *nodes.Template) {
				node := tmpl.Body[0].(*nodes.Assign)
				assert.Equal(t, "x", node.Target)
				assert.IsType(t, &nodes.Pipeline{}, node.Node)
			},
		},
		{
			name:     "Capture",
			template: "{% capture greeting %}Hi {{ name }}{% endcapture %}",
			validate: func(t *testing.T, tmpl *nodes.Template) {
				node := tmpl.Body[0].(*nodes.Capture)
				assert.Equal(t, "greeting", node.Target)
				assert.Len(t, node.Body, 2)
			},
		},
		{
			name:     "Positions",
			template: "ab\n  {{ x }}",
			validate: func(t *testing.T, tmpl *nodes.Template) {
				require.Len(t, tmpl.Body, 2)
				assert.Equal(t, nodes.NewPosition(2, 3), tmpl.Body[1].GetPosition())
				assert.Equal(t, nodes.NewPosition(2, 6), tmpl.Body[1].(*nodes.Output).Node.GetPosition())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, mustParse(t, tt.template))
		})
	}
}

func TestParser_TreeIsReusable(t *testing.T) {
	tmpl := mustParse(t, "{% for i in (1..3) %}{{ i }}{% endfor %}")
	before := nodes.Dump(tmpl)
	assert.Equal(t, before, nodes.Dump(tmpl))
	assert.Contains(t, before, "For(i)")
}
