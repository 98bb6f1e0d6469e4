package cli

import (
	"context"
	"maps"
	"slices"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"

	"github.com/deicod/goliquid/log"
)

var profileModes = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"clock":     profile.ClockProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

type profileConfig struct {
	Mode string `default:""  enum:",${profileModeEnum}" help:"Enable profiling" placeholder:"MODE"`
	Dir  string `default:"." help:"Profile output directory" type:"path"`
}

func (profileConfig) vars() kong.Vars {
	return kong.Vars{
		"profileModeEnum": joinSeq(slices.Values(slices.Sorted(maps.Keys(profileModes)))),
	}
}

func (profileConfig) group() kong.Group {
	var group kong.Group

	group.Key = "profile"
	group.Title = "Profiling (pprof)"

	return group
}

// start starts profiling if a mode was selected.
func (f profileConfig) start(ctx context.Context, logger log.Logger) (stop func()) {
	mode, ok := profileModes[f.Mode]
	if !ok {
		return func() {}
	}

	logger.DebugContext(ctx, "profile start", "mode", f.Mode, "dir", f.Dir)

	p := profile.Start(mode, profile.ProfilePath(f.Dir), profile.Quiet, profile.NoShutdownHook)

	return func() {
		p.Stop()
		logger.DebugContext(ctx, "profile stop", "mode", f.Mode, "dir", f.Dir)
	}
}
