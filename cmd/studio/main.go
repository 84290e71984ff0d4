package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"brand-visual-studio/internal/builder"
	"brand-visual-studio/internal/config"
)

func main() {
	_ = godotenv.Load()

	root, err := newApp(config.Load)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// newApp loads the configuration before any command exists, so a missing
// credential stops the CLI even for --help.
func newApp(load func() (config.Config, error)) (*cobra.Command, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	return newRootCmd(func(ctx context.Context) (generator, error) {
		return builder.BuildStudio(ctx, cfg, cfg.NewLogger(os.Stderr))
	}), nil
}
