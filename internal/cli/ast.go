package cli

import (
	"fmt"
	"io"

	"github.com/deicod/goliquid/nodes"
	"github.com/deicod/goliquid/runtime"
)

// AST prints the syntax tree of a template.
type AST struct {
	Template string `arg:"" help:"Template file or '-' for stdin" name:"template"`
}

// Run executes the ast command.
func (a *AST) Run(in io.Reader, out io.Writer) error {
	source, name, err := readTemplate(a.Template, in)
	if err != nil {
		return err
	}

	tmpl, err := runtime.ParseStringWithName(source, name)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, nodes.Dump(tmpl.Root()))
	return err
}
