package shell

import (
	"context"
	"time"

	"tsh/internal/jobs"
)

// waitForeground blocks until the job led by pid is gone from the table or
// is no longer in the foreground. The job may already have been reaped.
func (s *Shell) waitForeground(ctx context.Context, pid int) error {
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		g := s.jobs.Enter()
		job, ok := g.ByPID(pid).Get()
		changed := g.Changed()
		g.Exit()

		if !ok || job.State != jobs.Foreground {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		case <-ticker.C:
		}
	}
}
