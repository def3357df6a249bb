package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/mylist/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadDotEnv(".env"); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		ConfigPath: defaultConfigPath,
		Logger:     logger,
	})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "mylist",
		Usage:     "Personal list service: add, list and remove saved content per user",
		Version:   "0.1.0",
		Writer:    r.output,
		ErrWriter: r.output,
		Commands:  r.register(),
	}
}
