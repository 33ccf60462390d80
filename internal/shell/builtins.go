package shell

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"tsh/internal/jobs"
)

func (s *Shell) executeBuiltin(ctx context.Context, args []string) (bool, error) {
	switch args[0] {
	case "quit", "exit":
		return true, errQuit
	case "jobs":
		s.listJobs()
		return true, nil
	case "fg":
		return true, s.resume(ctx, args, jobs.Foreground)
	case "bg":
		return true, s.resume(ctx, args, jobs.Background)
	case "history":
		s.showHistory()
		return true, nil
	case "cd":
		return true, s.changeDirectory(args[1:])
	default:
		return false, nil
	}
}

func (s *Shell) listJobs() {
	for _, job := range s.jobs.List() {
		s.printf("%s\n", job.Status())
	}
}

// resume moves a stopped or background job to the foreground or the
// background. args is the full command, e.g. ["fg", "%1"].
func (s *Shell) resume(ctx context.Context, args []string, to jobs.State) error {
	name := args[0]
	if len(args) < 2 {
		return usagef("%s command requires PID or %%jobid argument", name)
	}

	g := s.jobs.Enter()
	defer g.Exit()

	job, err := resolveJob(g, name, args[1])
	if err != nil {
		return err
	}

	switch job.State {
	case jobs.Foreground:
		return &jobs.InvariantError{Job: job, Reason: "shell is reading commands while a foreground job runs"}
	case jobs.Background:
		if to == jobs.Background {
			return nil
		}
		if err := g.SetState(job.PID, jobs.Foreground); err != nil {
			return err
		}
	case jobs.Stopped:
		if err := g.SetState(job.PID, to); err != nil {
			return err
		}
		if err := s.sys.Signal(job.PID, syscall.SIGCONT); err != nil {
			s.log.Warn("continuing job failed", "job", job.ID, "pid", job.PID, "error", err)
			fmt.Fprintf(s.errOut, "Error: %v\n", err)
		}
		if to == jobs.Background {
			s.printf("%s\n", job)
			return nil
		}
	default:
		return &jobs.InvariantError{Job: job, Reason: "job in undefined state"}
	}

	g.Exit()
	return s.waitForeground(ctx, job.PID)
}

// resolveJob looks up "%<jobid>" or "<pid>".
func resolveJob(g *jobs.Guard, name, arg string) (jobs.Job, error) {
	if rest, ok := strings.CutPrefix(arg, "%"); ok {
		id, err := strconv.Atoi(rest)
		if err != nil || id < 1 {
			return jobs.Job{}, usagef("%s: argument must be a PID or %%jobid", name)
		}
		job, ok := g.ByJobID(id).Get()
		if !ok {
			return jobs.Job{}, usagef("%s: No such job", arg)
		}
		return job, nil
	}

	pid, err := strconv.Atoi(arg)
	if err != nil || pid < 1 {
		return jobs.Job{}, usagef("%s: argument must be a PID or %%jobid", name)
	}
	job, ok := g.ByPID(pid).Get()
	if !ok {
		return jobs.Job{}, usagef("(%s): No such process", arg)
	}
	return job, nil
}

func (s *Shell) showHistory() {
	for i, cmd := range s.history.All() {
		s.printf("%d: %s\n", i+1, cmd)
	}
}

func (s *Shell) changeDirectory(args []string) error {
	var dir string
	if len(args) == 0 {
		dir = s.config.HomeDir
	} else {
		dir = args[0]
	}

	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("cd: %w", err)
	}
	return nil
}
