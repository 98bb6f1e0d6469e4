package runtime

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/deicod/goliquid/nodes"
	"github.com/deicod/goliquid/values"
)

type continueSignal struct{}
type breakSignal struct{}

func isControlSignal(value interface{}) (interface{}, bool) {
	switch value.(type) {
	case continueSignal, breakSignal:
		return value, true
	default:
		return nil, false
	}
}

func controlName(signal interface{}) string {
	switch signal.(type) {
	case continueSignal:
		return "continue"
	case breakSignal:
		return "break"
	default:
		return "control"
	}
}

// Evaluator implements the visitor pattern for evaluating AST nodes.
// Statements write to the current output and return nil, an error or a
// loop control signal. Expressions return a values.Value or an error.
type Evaluator struct {
	ctx      *Context
	out      io.Writer
	writeErr error
}

// NewEvaluator creates an evaluator writing to out
func NewEvaluator(ctx *Context, out io.Writer) *Evaluator {
	return &Evaluator{ctx: ctx, out: out}
}

// Evaluate evaluates a node and returns the result
func (e *Evaluator) Evaluate(node nodes.Node) interface{} {
	if node == nil {
		return nil
	}
	return node.Accept(e)
}

// Write appends content to the current output. The first write failure
// is kept and stops rendering.
func (e *Evaluator) Write(content string) {
	if e.writeErr != nil || content == "" {
		return
	}
	if _, err := io.WriteString(e.out, content); err != nil {
		e.writeErr = NewErrorWithCause(ErrorTypeOutput, "write failed", nodes.Position{}, nil, err)
	}
}

// EvalExpr evaluates an expression node to a value.
func (e *Evaluator) EvalExpr(expr nodes.Expr) (values.Value, error) {
	if expr == nil {
		return values.Nil, nil
	}
	switch result := e.Evaluate(expr).(type) {
	case error:
		return nil, result
	case values.Value:
		return result, nil
	default:
		return values.Nil, nil
	}
}

// Visit implements the Visitor interface
func (e *Evaluator) Visit(node nodes.Node) interface{} {
	switch n := node.(type) {
	case *nodes.Template:
		return e.visitTemplate(n)
	case *nodes.Text:
		e.Write(n.Data)
		return nil
	case *nodes.Output:
		return e.visitOutput(n)
	case *nodes.For:
		return e.visitFor(n)
	case *nodes.If:
		return e.visitIf(n)
	case *nodes.Assign:
		return e.visitAssign(n)
	case *nodes.Capture:
		return e.visitCapture(n)
	case *nodes.Continue:
		return continueSignal{}
	case *nodes.Break:
		return breakSignal{}

	// Expression nodes
	case *nodes.Const:
		if n.Value == nil {
			return values.Nil
		}
		return n.Value
	case *nodes.Name:
		return e.ctx.Resolve(n.Name)
	case *nodes.Getattr:
		return e.visitGetattr(n)
	case *nodes.Getitem:
		return e.visitGetitem(n)
	case *nodes.Range:
		return e.visitRange(n)
	case *nodes.Pipeline:
		return e.visitPipeline(n)
	case *nodes.BinExpr:
		return e.visitBinExpr(n)
	case *nodes.UnaryExpr:
		return e.visitUnaryExpr(n)

	default:
		return NewError(ErrorTypeTemplate, fmt.Sprintf("unknown node type: %T", node), node.GetPosition(), node)
	}
}

// renderBody evaluates statements in order. In continue mode a failing
// statement is recorded and skipped; in fail-fast mode the error is
// returned. Loop control signals are returned to the enclosing loop.
func (e *Evaluator) renderBody(body []nodes.Node) interface{} {
	for _, stmt := range body {
		result := e.Evaluate(stmt)
		if e.writeErr != nil {
			return e.writeErr
		}
		if result == nil {
			continue
		}
		if signal, ok := isControlSignal(result); ok {
			return signal
		}
		if err, ok := result.(error); ok {
			err = WrapError(err, stmt.GetPosition(), stmt)
			if e.ctx.errorMode == ErrorModeFailFast {
				return err
			}
			e.ctx.AddError(err)
		}
	}
	return nil
}

// Statement node visitors

func (e *Evaluator) visitTemplate(node *nodes.Template) interface{} {
	result := e.renderBody(node.Body)
	if signal, ok := isControlSignal(result); ok {
		err := NewLoopControlError(controlName(signal), node.GetPosition(), node)
		if e.ctx.errorMode == ErrorModeFailFast {
			return err
		}
		e.ctx.AddError(err)
		return nil
	}
	return result
}

func (e *Evaluator) visitOutput(node *nodes.Output) interface{} {
	value, err := e.EvalExpr(node.Node)
	if err != nil {
		return err
	}
	e.Write(values.ToString(value))
	return nil
}

func (e *Evaluator) visitFor(node *nodes.For) interface{} {
	seq, err := e.loopSequence(node)
	if err != nil {
		return err
	}

	length := seq.Len()
	if length == 0 {
		return e.renderBody(node.Else)
	}

	parent := e.ctx.CurrentLoop()
	defer e.ctx.setLoop(parent)

	for i := 0; i < length; i++ {
		loop := &LoopContext{Index0: i, Length: length, Parent: parent}
		e.ctx.setLoop(loop)

		switch result := e.iterate(node, seq.At(i), loop).(type) {
		case nil, continueSignal:
		case breakSignal:
			return nil
		default:
			return result
		}
	}
	return nil
}

// iterate renders one loop pass in its own scope. The scope is popped
// even when the body fails.
func (e *Evaluator) iterate(node *nodes.For, item values.Value, loop *LoopContext) interface{} {
	e.ctx.PushScope()
	defer e.ctx.PopScope()

	e.ctx.Set(node.Target, item)
	e.ctx.Set("forloop", values.Object(loop))
	return e.renderBody(node.Body)
}

// loopSequence resolves the source of a for loop and applies its offset,
// limit and reversed options. Range sources are never materialized.
func (e *Evaluator) loopSequence(node *nodes.For) (sequence, error) {
	var seq sequence
	if r, ok := node.Iter.(*nodes.Range); ok {
		from, to, err := e.rangeBounds(r)
		if err != nil {
			return nil, err
		}
		seq = newRangeSequence(from, to)
	} else {
		source, err := e.EvalExpr(node.Iter)
		if err != nil {
			return nil, err
		}
		items, _ := values.Iterate(source)
		seq = arraySequence(items)
	}

	offset, limit := 0, -1
	if node.Offset != nil {
		value, err := e.EvalExpr(node.Offset)
		if err != nil {
			return nil, err
		}
		offset = toInt(value)
	}
	if node.Limit != nil {
		value, err := e.EvalExpr(node.Limit)
		if err != nil {
			return nil, err
		}
		limit = max(toInt(value), 0)
	}

	return window(seq, offset, limit, node.Reversed), nil
}

func (e *Evaluator) visitIf(node *nodes.If) interface{} {
	ok, err := e.test(node.Test)
	if err != nil {
		return err
	}
	if ok {
		return e.renderBody(node.Body)
	}

	for _, elif := range node.Elif {
		ok, err := e.test(elif.Test)
		if err != nil {
			return err
		}
		if ok {
			return e.renderBody(elif.Body)
		}
	}

	return e.renderBody(node.Else)
}

func (e *Evaluator) test(expr nodes.Expr) (bool, error) {
	value, err := e.EvalExpr(expr)
	if err != nil {
		return false, err
	}
	return values.ToBoolean(value), nil
}

func (e *Evaluator) visitAssign(node *nodes.Assign) interface{} {
	value, err := e.EvalExpr(node.Node)
	if err != nil {
		return err
	}
	e.ctx.SetRoot(node.Target, value)
	return nil
}

func (e *Evaluator) visitCapture(node *nodes.Capture) interface{} {
	var buf strings.Builder
	out := e.out
	e.out = &buf
	result := e.renderBody(node.Body)
	e.out = out

	e.ctx.SetRoot(node.Target, values.String(buf.String()))
	return result
}

// Expression node visitors

func (e *Evaluator) visitGetattr(node *nodes.Getattr) interface{} {
	obj, err := e.EvalExpr(node.Node)
	if err != nil {
		return err
	}
	return values.Member(obj, node.Attr)
}

func (e *Evaluator) visitGetitem(node *nodes.Getitem) interface{} {
	obj, err := e.EvalExpr(node.Node)
	if err != nil {
		return err
	}
	arg, err := e.EvalExpr(node.Arg)
	if err != nil {
		return err
	}
	return values.Index(obj, arg)
}

func (e *Evaluator) visitRange(node *nodes.Range) interface{} {
	from, to, err := e.rangeBounds(node)
	if err != nil {
		return err
	}
	seq := newRangeSequence(from, to)
	items := make([]values.Value, seq.Len())
	for i := range items {
		items[i] = seq.At(i)
	}
	return values.Array(items...)
}

func (e *Evaluator) rangeBounds(node *nodes.Range) (int64, int64, error) {
	from, err := e.EvalExpr(node.From)
	if err != nil {
		return 0, 0, err
	}
	to, err := e.EvalExpr(node.To)
	if err != nil {
		return 0, 0, err
	}
	return toRangeBound(from), toRangeBound(to), nil
}

func (e *Evaluator) visitPipeline(node *nodes.Pipeline) interface{} {
	input, err := e.EvalExpr(node.Node)
	if err != nil {
		return err
	}

	for _, filter := range node.Filters {
		args := make([]values.Value, len(filter.Args))
		for i, arg := range filter.Args {
			args[i], err = e.EvalExpr(arg)
			if err != nil {
				return err
			}
		}

		input, err = e.callFilter(filter, input, args)
		if err != nil {
			return err
		}
	}
	return input
}

func (e *Evaluator) callFilter(filter *nodes.FilterCall, input values.Value, args []values.Value) (result values.Value, err error) {
	fn, ok := e.ctx.GetFilter(filter.Name)
	if !ok {
		return nil, newUnknownFilterError(filter.Name, e.ctx.FilterNames(), filter.GetPosition(), filter)
	}

	defer func() {
		if r := recover(); r != nil {
			err = NewFilterError(filter.Name, fmt.Sprintf("panic: %v", r), filter.GetPosition(), filter, nil)
		}
	}()

	result, err = fn(input, args)
	if err != nil {
		return nil, NewFilterError(filter.Name, err.Error(), filter.GetPosition(), filter, err)
	}
	if result == nil {
		result = values.Nil
	}
	return result, nil
}

func (e *Evaluator) visitBinExpr(node *nodes.BinExpr) interface{} {
	left, err := e.EvalExpr(node.Left)
	if err != nil {
		return err
	}

	switch node.Operator {
	case nodes.OpAnd:
		if !values.ToBoolean(left) {
			return values.False
		}
		right, err := e.test(node.Right)
		if err != nil {
			return err
		}
		return values.Boolean(right)
	case nodes.OpOr:
		if values.ToBoolean(left) {
			return values.True
		}
		right, err := e.test(node.Right)
		if err != nil {
			return err
		}
		return values.Boolean(right)
	}

	right, err := e.EvalExpr(node.Right)
	if err != nil {
		return err
	}

	switch node.Operator {
	case nodes.OpEq:
		return values.Boolean(values.Equal(left, right))
	case nodes.OpNe:
		return values.Boolean(!values.Equal(left, right))
	case nodes.OpContains:
		return values.Boolean(values.Contains(left, right))
	case nodes.OpLt, nodes.OpLe, nodes.OpGt, nodes.OpGe:
		cmp, ok := values.Compare(left, right)
		if !ok {
			return values.False
		}
		switch node.Operator {
		case nodes.OpLt:
			return values.Boolean(cmp < 0)
		case nodes.OpLe:
			return values.Boolean(cmp <= 0)
		case nodes.OpGt:
			return values.Boolean(cmp > 0)
		default:
			return values.Boolean(cmp >= 0)
		}
	}

	return NewError(ErrorTypeTemplate, fmt.Sprintf("unknown operator %q", node.Operator), node.GetPosition(), node)
}

func (e *Evaluator) visitUnaryExpr(node *nodes.UnaryExpr) interface{} {
	value, err := e.EvalExpr(node.Node)
	if err != nil {
		return err
	}
	if node.Operator == nodes.OpNot {
		return values.Boolean(!values.ToBoolean(value))
	}
	return NewError(ErrorTypeTemplate, fmt.Sprintf("unknown operator %q", node.Operator), node.GetPosition(), node)
}

// maxExactInt is the largest magnitude below which every integer is exact
// in a float64 Number.
const maxExactInt = 1 << 53

// toRangeBound truncates a range bound towards zero. Bounds beyond
// ±2^53 are clamped, since Numbers past that no longer hold every integer.
func toRangeBound(v values.Value) int64 {
	f := math.Trunc(values.ToNumber(v))
	switch {
	case math.IsNaN(f):
		return 0
	case f > maxExactInt:
		return maxExactInt
	case f < -maxExactInt:
		return -maxExactInt
	}
	return int64(f)
}

// toInt truncates a value towards zero, clamped to the int32 range. It is
// used for counts and positions: offsets, limits, lengths and digits.
func toInt(v values.Value) int {
	f := math.Trunc(values.ToNumber(v))
	switch {
	case math.IsNaN(f):
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}
