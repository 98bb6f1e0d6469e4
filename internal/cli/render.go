package cli

import (
	"context"
	"io"
	"maps"
	"os"

	"github.com/deicod/goliquid/log"
	"github.com/deicod/goliquid/runtime"
)

// Render renders a template against data files and --set variables.
type Render struct {
	Template   string            `arg:"" help:"Template file or '-' for stdin" name:"template"`
	Data       []string          `help:"Data file (YAML, JSON or TOML) bound as root variables" short:"d" type:"existingfile"`
	Set        map[string]string `help:"Bind a root variable" placeholder:"KEY=VALUE" short:"s"`
	FailFast   bool              `help:"Stop at the first evaluation error"`
	TrimBlocks bool              `help:"Remove the first newline after a block tag"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context, in io.Reader, out io.Writer, logger log.Logger) error {
	source, name, err := readTemplate(r.Template, in)
	if err != nil {
		return err
	}

	env := runtime.NewEnvironment()
	env.SetLogger(logger.Logger)
	env.SetTrimBlocks(r.TrimBlocks)
	if r.FailFast {
		env.SetErrorMode(runtime.ErrorModeFailFast)
	}

	tmpl, err := env.ParseString(source, name)
	if err != nil {
		return err
	}

	vars, err := r.vars()
	if err != nil {
		return err
	}

	logger.DebugContext(ctx, "render",
		"template", name,
		"variables", len(vars),
		"fail-fast", r.FailFast,
	)

	tctx := env.NewContext()
	tctx.SetValues(vars)

	return tmpl.RenderTo(out, tctx)
}

// vars merges the data files in order, then the --set pairs on top.
func (r *Render) vars() (map[string]any, error) {
	vars := map[string]any{}
	for _, path := range r.Data {
		data, err := loadData(path)
		if err != nil {
			return nil, err
		}
		maps.Copy(vars, data)
	}
	for key, value := range r.Set {
		vars[key] = parseScalar(value)
	}
	return vars, nil
}

// readTemplate reads a template file, or stdin for "-".
func readTemplate(path string, in io.Reader) (source, name string, err error) {
	if path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", "", err
		}
		return string(data), "<stdin>", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return string(data), path, nil
}
