package cli

import (
	"io"

	"github.com/alecthomas/kong"

	"github.com/deicod/goliquid/log"
)

type logConfig struct {
	Level      string `default:"${logLevelDefault}"  enum:"${logLevelEnum}"  help:"Set log level."`
	Format     string `default:"${logFormatDefault}" enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string `default:"RFC3339"                                    help:"Set timestamp format, empty to omit."`
	Caller     bool   `default:"false"                                      help:"Include caller information." negatable:""`
}

func (logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelDefault":  log.DefaultLevel.String(),
		"logLevelEnum":     joinSeq(log.Levels()),
		"logFormatDefault": log.DefaultFormat.String(),
		"logFormatEnum":    joinSeq(log.Formats()),
	}
}

func (logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// timeLayouts maps the layout names accepted on the command line to their
// time package constants. Anything else is used as a literal layout.
var timeLayouts = map[string]string{
	"RFC3339":     "2006-01-02T15:04:05Z07:00",
	"RFC3339Nano": "2006-01-02T15:04:05.999999999Z07:00",
	"Kitchen":     "3:04PM",
	"DateTime":    "2006-01-02 15:04:05",
}

func (f logConfig) logger(w io.Writer) log.Logger {
	layout := f.TimeLayout
	if named, ok := timeLayouts[layout]; ok {
		layout = named
	}

	return log.Make(w,
		log.WithLevel(log.ParseLevel(f.Level)),
		log.WithFormat(log.ParseFormat(f.Format)),
		log.WithTimeLayout(layout),
		log.WithCaller(f.Caller),
	)
}
