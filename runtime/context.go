package runtime

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/deicod/goliquid/values"
)

// ErrorMode selects what the evaluator does when a node fails.
type ErrorMode int

const (
	// ErrorModeContinue renders a failing node as nothing, records the
	// error and keeps rendering. This is the default.
	ErrorModeContinue ErrorMode = iota
	// ErrorModeFailFast stops rendering at the first error.
	ErrorModeFailFast
)

func (m ErrorMode) String() string {
	switch m {
	case ErrorModeContinue:
		return "continue"
	case ErrorModeFailFast:
		return "fail-fast"
	}
	return "unknown"
}

// FilterFunc transforms the input of a pipeline stage. args holds the
// evaluated filter arguments in source order.
type FilterFunc func(input values.Value, args []values.Value) (values.Value, error)

// Scope maps variable names to values
type Scope map[string]values.Value

// LoopContext represents the context of a for loop. It is bound as
// "forloop" inside the loop body.
type LoopContext struct {
	Index0 int
	Length int
	Parent *LoopContext
}

// GetMember implements values.MemberResolvable.
func (l *LoopContext) GetMember(name string) (values.Value, bool) {
	switch name {
	case "index":
		return values.Number(float64(l.Index0 + 1)), true
	case "index0":
		return values.Number(float64(l.Index0)), true
	case "rindex":
		return values.Number(float64(l.Length - l.Index0)), true
	case "rindex0":
		return values.Number(float64(l.Length - l.Index0 - 1)), true
	case "first":
		return values.Boolean(l.Index0 == 0), true
	case "last":
		return values.Boolean(l.Index0 == l.Length-1), true
	case "length":
		return values.Number(float64(l.Length)), true
	case "parentloop":
		if l.Parent == nil {
			return values.Nil, true
		}
		return values.Object(l.Parent), true
	}
	return values.Nil, false
}

// Context holds the state of a render: a scope stack whose bottom entry
// is the root scope, the filter registry, the error mode and the logger.
// A Context is not safe for concurrent renders.
type Context struct {
	scopes    []Scope
	filters   map[string]FilterFunc
	errorMode ErrorMode
	logger    *slog.Logger
	errors    []error
	loop      *LoopContext
}

// NewContext creates a context with an empty root scope and the built-in
// filters registered.
func NewContext() *Context {
	return &Context{
		scopes:  []Scope{make(Scope)},
		filters: DefaultFilters(),
		logger:  slog.New(slog.DiscardHandler),
	}
}

// SetValue binds name in the root scope. Host values are converted with
// values.FromGo.
func (ctx *Context) SetValue(name string, value any) {
	ctx.scopes[0][name] = values.FromGo(value)
}

// SetValues binds every entry of vars in the root scope.
func (ctx *Context) SetValues(vars map[string]any) {
	for name, value := range vars {
		ctx.SetValue(name, value)
	}
}

// Set binds name in the innermost scope.
func (ctx *Context) Set(name string, value values.Value) {
	ctx.scopes[len(ctx.scopes)-1][name] = value
}

// SetRoot binds name in the root scope.
func (ctx *Context) SetRoot(name string, value values.Value) {
	ctx.scopes[0][name] = value
}

// Get looks name up from the innermost scope outwards.
func (ctx *Context) Get(name string) (values.Value, bool) {
	for i := len(ctx.scopes) - 1; i >= 0; i-- {
		if value, ok := ctx.scopes[i][name]; ok {
			return value, true
		}
	}
	return values.Nil, false
}

// Resolve returns the value bound to name, or Nil when no scope binds it.
func (ctx *Context) Resolve(name string) values.Value {
	value, _ := ctx.Get(name)
	return value
}

// PushScope enters a new innermost scope
func (ctx *Context) PushScope() {
	ctx.scopes = append(ctx.scopes, make(Scope))
}

// PopScope leaves the innermost scope. The root scope is never popped.
func (ctx *Context) PopScope() {
	if len(ctx.scopes) > 1 {
		ctx.scopes[len(ctx.scopes)-1] = nil
		ctx.scopes = ctx.scopes[:len(ctx.scopes)-1]
	}
}

// Depth returns the number of scopes on the stack, root included.
func (ctx *Context) Depth() int {
	return len(ctx.scopes)
}

// setLoop makes l the innermost loop and returns the previous one.
func (ctx *Context) setLoop(l *LoopContext) *LoopContext {
	prev := ctx.loop
	ctx.loop = l
	return prev
}

// CurrentLoop returns the innermost loop context, or nil outside loops.
func (ctx *Context) CurrentLoop() *LoopContext {
	return ctx.loop
}

// SetFilter registers fn under name, replacing any previous filter.
func (ctx *Context) SetFilter(name string, fn FilterFunc) {
	if fn == nil {
		delete(ctx.filters, name)
		return
	}
	ctx.filters[name] = fn
}

// GetFilter looks up a registered filter.
func (ctx *Context) GetFilter(name string) (FilterFunc, bool) {
	fn, ok := ctx.filters[name]
	return fn, ok
}

// ClearFilters removes every registered filter, built-ins included.
func (ctx *Context) ClearFilters() {
	clear(ctx.filters)
}

// FilterNames returns the registered filter names in sorted order.
func (ctx *Context) FilterNames() []string {
	return slices.Sorted(maps.Keys(ctx.filters))
}

// SetErrorMode selects how evaluation errors are handled.
func (ctx *Context) SetErrorMode(mode ErrorMode) {
	ctx.errorMode = mode
}

// ErrorMode returns the current error mode.
func (ctx *Context) ErrorMode() ErrorMode {
	return ctx.errorMode
}

// SetLogger sets the logger used during rendering. A nil logger discards.
func (ctx *Context) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx.logger = logger
}

// Logger returns the context logger.
func (ctx *Context) Logger() *slog.Logger {
	return ctx.logger
}

// AddError records an evaluation error
func (ctx *Context) AddError(err error) {
	ctx.errors = append(ctx.errors, err)
	ctx.logger.Warn("evaluation error", slog.Any("error", err))
}

// Errors returns the errors recorded during the last render.
func (ctx *Context) Errors() []error {
	return slices.Clone(ctx.errors)
}

// HasErrors checks if any errors were recorded
func (ctx *Context) HasErrors() bool {
	return len(ctx.errors) > 0
}

// ClearErrors forgets every recorded error
func (ctx *Context) ClearErrors() {
	ctx.errors = nil
}
