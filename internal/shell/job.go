package shell

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"tsh/internal/jobs"
	"tsh/internal/proc"
)

// launch starts argv as a new job and registers it. The table guard is held
// from before the child exists until it is registered: the reaper collects
// children only while holding the same guard, so a child that exits at
// once is still found in the table.
func (s *Shell) launch(ctx context.Context, cmdline string, argv []string, background bool) (int, error) {
	state := jobs.Foreground
	if background {
		state = jobs.Background
	}

	g := s.jobs.Enter()
	defer g.Exit()

	if g.Full() {
		return 0, jobs.ErrTableFull
	}

	pid, err := s.sys.Start(argv, s.stdio)
	if errors.Is(err, proc.ErrNotFound) {
		s.printf("%s: Command not found\n", argv[0])
		return 0, nil
	}
	if err != nil {
		return 0, &FatalError{Op: "fork", Err: err}
	}

	id, err := g.Insert(pid, state, cmdline)
	if err != nil {
		// Not tracked, so nobody could resume or relay to it. The reaper
		// collects it as an untracked child.
		if kerr := s.sys.Signal(pid, syscall.SIGKILL); kerr != nil {
			s.log.Error("killing unregistered child failed", "pid", pid, "error", kerr)
		}
		return 0, fmt.Errorf("register pid %d: %w", pid, err)
	}
	job := jobs.Job{PID: pid, ID: id, State: state, CommandLine: cmdline}
	s.log.Debug("added job", "job", id, "pid", pid, "state", state, "cmdline", cmdline)

	if background {
		s.printf("%s\n", job)
		return id, nil
	}
	g.Exit()
	return id, s.waitForeground(ctx, pid)
}
