// Package main is the entry point for the nomake CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"

	"go.nomake.dev/nomake/cmd/nomake/commands"
	"go.nomake.dev/nomake/internal/app"
	_ "go.nomake.dev/nomake/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...func(*app.App)) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, _, err := graft.ExecuteFor[*app.App](ctx)
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	for _, opt := range opts {
		opt(a)
	}

	cli := commands.New(a)

	if err := cli.Execute(ctx); err != nil {
		var buildErr *app.BuildError
		if errors.As(err, &buildErr) {
			return buildErr.Kind.ExitCode()
		}
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	return 0
}
