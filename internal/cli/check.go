package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/deicod/goliquid/log"
	"github.com/deicod/goliquid/parser"
	"github.com/deicod/goliquid/runtime"
)

// ErrCheckFailed is returned when at least one template has errors.
var ErrCheckFailed = errors.New("check failed")

// Check parses templates and prints every diagnostic.
type Check struct {
	Templates []string `arg:"" help:"Template files" name:"template" type:"existingfile"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context, out io.Writer, logger log.Logger) error {
	env := runtime.NewEnvironment()
	failed := 0

	for _, path := range c.Templates {
		source, name, err := readTemplate(path, nil)
		if err != nil {
			return err
		}

		_, diagnostics, ok := env.TryParseString(source, name)
		for _, d := range diagnostics {
			fmt.Fprintf(out, "%s:%d:%d: %s: %s\n", name, d.Line, d.Column, d.Severity, d.Message)
		}
		if !ok {
			failed++
		}

		logger.DebugContext(ctx, "checked",
			"template", name,
			"diagnostics", len(diagnostics),
			"errors", countErrors(diagnostics),
		)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d templates", ErrCheckFailed, failed, len(c.Templates))
	}
	return nil
}

func countErrors(diagnostics []parser.Diagnostic) int {
	n := 0
	for _, d := range diagnostics {
		if d.Severity == parser.SeverityError {
			n++
		}
	}
	return n
}
