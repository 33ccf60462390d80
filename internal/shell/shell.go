// Package shell implements the interactive loop and job control of tsh.
//
// Two goroutines touch the job table: the loop that reads and runs command
// lines (launcher, builtins, foreground waiter) and the signal goroutine
// (reaper and relay). Both go through jobs.Guard.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"tsh/internal/config"
	"tsh/internal/history"
	"tsh/internal/jobs"
	"tsh/internal/proc"
)

type Options struct {
	System proc.System
	Reader LineReader
	// Stdio is inherited by launched jobs. Nil files mean /dev/null.
	Stdio  proc.Stdio
	Out    io.Writer
	Err    io.Writer
	Logger *slog.Logger
	// Exit terminates the process after SIGQUIT. Defaults to os.Exit.
	Exit func(code int)
}

type Shell struct {
	config  *config.Config
	history *history.History
	jobs    *jobs.Table
	sys     proc.System
	reader  LineReader
	stdio   proc.Stdio
	out     io.Writer
	errOut  io.Writer
	log     *slog.Logger
	exit    func(int)

	signalChan chan os.Signal
	childChan  chan os.Signal
}

func New(cfg *config.Config, hist *history.History, opts Options) (*Shell, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if hist == nil {
		var err error
		if hist, err = history.New("", 0); err != nil {
			return nil, err
		}
	}

	s := &Shell{
		config:     cfg,
		history:    hist,
		jobs:       jobs.NewTable(cfg.MaxJobs),
		sys:        opts.System,
		reader:     opts.Reader,
		stdio:      opts.Stdio,
		log:        opts.Logger,
		exit:       opts.Exit,
		signalChan: make(chan os.Signal, 4),
		childChan:  make(chan os.Signal, 1),
	}
	if s.sys == nil {
		s.sys = proc.Unix{}
	}
	if s.reader == nil {
		s.reader = NewPlainReader(os.Stdin, os.Stdout, "")
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.exit == nil {
		s.exit = os.Exit
	}
	if s.stdio == (proc.Stdio{}) {
		s.stdio = proc.Stdio{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	}

	out := opts.Out
	if out == nil {
		out = s.reader.Stdout()
	}
	s.out = &syncWriter{w: out}
	s.errOut = opts.Err
	if s.errOut == nil {
		s.errOut = os.Stderr
	}
	return s, nil
}

// Jobs exposes the job table.
func (s *Shell) Jobs() *jobs.Table {
	return s.jobs
}

// Run reads and executes command lines until end of input, quit, or an
// unrecoverable error, which is returned.
func (s *Shell) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := s.setupSignalHandling(ctx)
	defer stop()
	defer s.reader.Close()

	for {
		line, err := s.reader.ReadLine()
		if errors.Is(err, ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("read line: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := s.history.Add(line); err != nil {
			s.log.Warn("saving history failed", "error", err)
		}

		err = s.Execute(ctx, line)
		switch {
		case err == nil:
		case errors.Is(err, errQuit):
			return nil
		case IsFatal(err):
			fmt.Fprintf(s.errOut, "tsh: %v\n", err)
			return err
		default:
			s.report(err)
		}
	}
}

// Execute runs one command line: a builtin, or an external program launched
// as a new job.
func (s *Shell) Execute(ctx context.Context, input string) error {
	argv, background, err := parseLine(input)
	if err != nil {
		return err
	}
	if len(argv) == 0 {
		return nil
	}
	if ok, err := s.executeBuiltin(ctx, argv); ok {
		return err
	}
	_, err = s.launch(ctx, strings.TrimSpace(input), argv, background)
	return err
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) report(err error) {
	var usage *UsageError
	if errors.As(err, &usage) {
		s.printf("%s\n", usage.Msg)
		return
	}
	fmt.Fprintf(s.errOut, "Error: %v\n", err)
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
