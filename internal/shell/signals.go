package shell

import (
	"context"
	"os/signal"
	"syscall"

	"tsh/internal/jobs"
	"tsh/internal/proc"
)

func (s *Shell) setupSignalHandling(ctx context.Context) (stop func()) {
	signal.Notify(s.signalChan, syscall.SIGINT, syscall.SIGTSTP, syscall.SIGQUIT)
	signal.Notify(s.childChan, syscall.SIGCHLD)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.handleSignals(ctx)
	}()

	// Children that changed state before Notify was in place.
	select {
	case s.childChan <- syscall.SIGCHLD:
	default:
	}

	return func() {
		signal.Stop(s.signalChan)
		signal.Stop(s.childChan)
		cancel()
		<-done
	}
}

func (s *Shell) handleSignals(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.childChan:
			s.reapChildren()
		case sig := <-s.signalChan:
			switch sig {
			case syscall.SIGINT, syscall.SIGTSTP:
				s.relay(sig.(syscall.Signal))
			case syscall.SIGQUIT:
				s.terminate()
			}
		}
	}
}

// reapChildren collects every pending child status change. The guard is
// held for the whole drain so the loop never sees a half-applied batch.
func (s *Shell) reapChildren() {
	g := s.jobs.Enter()
	defer g.Exit()

	for {
		st, ok, err := s.sys.Reap()
		if err != nil {
			s.log.Error("waitpid error", "error", err)
			s.printf("waitpid error: %v\n", err)
			return
		}
		if !ok {
			return
		}
		s.applyStatus(g, st)
	}
}

func (s *Shell) applyStatus(g *jobs.Guard, st proc.Status) {
	job, ok := g.ByPID(st.PID).Get()
	if !ok {
		s.log.Debug("reaped untracked child", "pid", st.PID)
		return
	}

	switch {
	case st.Exited:
		g.Remove(job.PID)
		s.log.Debug("job exited", "job", job.ID, "pid", job.PID, "code", st.ExitCode)
	case st.Signaled:
		s.printf("Job [%d] (%d) terminated by signal %d\n", job.ID, job.PID, int(st.Signal))
		g.Remove(job.PID)
	case st.Stopped:
		if err := g.SetState(job.PID, jobs.Stopped); err != nil {
			s.log.Error("marking job stopped failed", "job", job.ID, "pid", job.PID, "error", err)
			return
		}
		s.printf("Job [%d] (%d) stopped by signal %d\n", job.ID, job.PID, int(st.StopSignal))
	case st.Continued:
		s.log.Debug("job continued", "job", job.ID, "pid", job.PID)
	}
}

// relay forwards a keyboard signal to the foreground job's process group.
// Without a foreground job the signal is dropped.
func (s *Shell) relay(sig syscall.Signal) {
	g := s.jobs.Enter()
	defer g.Exit()

	pid, ok := g.ForegroundPID().Get()
	if !ok {
		return
	}
	if err := s.sys.Signal(pid, sig); err != nil {
		s.log.Warn("relaying signal failed", "signal", sig, "pid", pid, "error", err)
	}
}

func (s *Shell) terminate() {
	s.printf("Terminating after receipt of SIGQUIT signal\n")
	_ = s.reader.Close()
	s.exit(1)
}
