package runtime

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/deicod/goliquid/nodes"
)

// Template represents a parsed template ready for rendering. It is
// immutable and may be rendered concurrently against distinct contexts.
type Template struct {
	name string
	root *nodes.Template
}

// NewTemplate creates a new template from an AST
func NewTemplate(root *nodes.Template, name string) *Template {
	if root == nil {
		root = &nodes.Template{}
	}
	return &Template{name: name, root: root}
}

// Name returns the template name
func (t *Template) Name() string {
	return t.name
}

// Root returns the parsed tree. Callers must not modify it.
func (t *Template) Root() *nodes.Template {
	return t.root
}

// Render renders the template to a string. In continue mode the full
// output is returned together with every recorded error; in fail-fast
// mode the output produced before the first error is returned with it.
func (t *Template) Render(ctx *Context) (string, error) {
	var buf strings.Builder
	err := t.RenderTo(&buf, ctx)
	return buf.String(), err
}

// RenderTo renders the template to w. A nil context renders against a
// fresh NewContext.
func (t *Template) RenderTo(w io.Writer, ctx *Context) error {
	if ctx == nil {
		ctx = NewContext()
	}
	ctx.ClearErrors()

	logger := ctx.Logger().With(slog.String("template", t.name))
	logger.Debug("render start")

	evaluator := NewEvaluator(ctx, w)
	result := evaluator.Evaluate(t.root)

	if evaluator.writeErr != nil {
		logger.Error("render aborted", slog.Any("error", evaluator.writeErr))
		return evaluator.writeErr
	}
	if err, ok := result.(error); ok {
		ctx.AddError(err)
		logger.Debug("render stopped", slog.Any("error", err))
		return err
	}

	logger.Debug("render finished", slog.Int("errors", len(ctx.errors)))
	return errors.Join(ctx.errors...)
}
