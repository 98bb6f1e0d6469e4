// Package cli implements the goliquid command line tool.
package cli

import (
	"context"
	"io"
	"iter"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/deicod/goliquid"
)

// Name is the command name shown in usage.
const Name = "goliquid"

// Description is the one-line summary shown in usage.
const Description = "Render and check Liquid-style templates"

// CLI is the top-level command-line interface.
type CLI struct {
	Log     logConfig     `embed:"" group:"log"     prefix:"log-"`
	Profile profileConfig `embed:"" group:"profile" prefix:"profile-"`

	Version kong.VersionFlag `help:"Print version and exit"`

	Render Render `cmd:"" help:"Render a template"`
	Check  Check  `cmd:"" help:"Parse templates and report diagnostics"`
	AST    AST    `cmd:"" help:"Print the syntax tree of a template" name:"ast"`
}

// Streams are the standard streams a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Std returns the process standard streams.
func Std() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Run executes the CLI with the given arguments.
// The exit function is called by kong when it terminates early, such as
// after printing help.
func Run(ctx context.Context, streams Streams, exit func(code int), args ...string) error {
	var cli CLI

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	parser, err := kong.New(&cli,
		kong.Name(Name),
		kong.Description(Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(streams.Out, streams.Err),
		kong.ExplicitGroups([]kong.Group{cli.Log.group(), cli.Profile.group()}),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{"version": goliquid.Version}.
			CloneWith(cli.Log.vars()).
			CloneWith(cli.Profile.vars()),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := cli.Log.logger(streams.Err)

	logger.DebugContext(ctx, "logger initialized",
		"level", logger.Level().String(),
		"format", logger.Format().String(),
	)

	defer cli.Profile.start(ctx, logger)()

	ktx.BindTo(ctx, (*context.Context)(nil))
	ktx.BindTo(streams.In, (*io.Reader)(nil))
	ktx.BindTo(streams.Out, (*io.Writer)(nil))
	ktx.Bind(logger)

	return ktx.Run()
}

func joinSeq(seq iter.Seq[string]) string {
	return strings.Join(slices.Collect(seq), ",")
}
