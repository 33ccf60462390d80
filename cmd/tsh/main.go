package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"tsh/internal/config"
	"tsh/internal/history"
	"tsh/internal/logging"
	"tsh/internal/shell"
)

func main() {
	app := &cli.Command{
		Name:      "tsh",
		Usage:     "a tiny shell with job control",
		UsageText: "tsh [-v] [-p] [--config file] [--env file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print additional diagnostic information",
			},
			&cli.BoolFlag{
				Name:    "no-prompt",
				Aliases: []string{"p"},
				Usage:   "do not emit a command prompt",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file",
				Value: "config.yml",
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "dotenv file with TSH_* overrides",
				Value: ".env",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"), cmd.String("env"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Bool("verbose") {
		cfg.LogLevel = "debug"
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Config{Level: level, Format: cfg.LogFormat}, os.Stderr).
		With("session", uuid.NewString())

	hist, err := history.New(cfg.HistoryFile, history.DefaultMaxItems)
	if err != nil {
		return err
	}

	emitPrompt := cfg.ShouldEmitPrompt(true) && !cmd.Bool("no-prompt")
	reader, err := shell.NewReader(cfg, emitPrompt, hist.All())
	if err != nil {
		return err
	}

	s, err := shell.New(cfg, hist, shell.Options{
		Reader: reader,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("initializing shell: %w", err)
	}

	if err := s.Run(ctx); err != nil {
		// Already reported by the shell.
		if shell.IsFatal(err) {
			return cli.Exit("", 1)
		}
		return err
	}
	return nil
}
