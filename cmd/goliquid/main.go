package main

import (
	"context"
	"os"

	"github.com/deicod/goliquid/internal/cli"
	"github.com/deicod/goliquid/log"
)

func main() {
	err := cli.Run(context.Background(), cli.Std(), os.Exit, os.Args[1:]...)
	if err != nil {
		log.Make(os.Stderr, log.WithTimeLayout("")).Error("run failed", "error", err)
		os.Exit(1)
	}
}
