//go:build unix

package proc

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// Unix is the System backed by the running kernel.
type Unix struct{}

func (Unix) Start(argv []string, stdio Stdio) (int, error) {
	if len(argv) == 0 {
		return 0, fmt.Errorf("start: empty argument vector")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	// Only assign non-nil files; a typed nil in the interface would not be
	// treated as /dev/null by exec.
	if stdio.Stdin != nil {
		cmd.Stdin = stdio.Stdin
	}
	if stdio.Stdout != nil {
		cmd.Stdout = stdio.Stdout
	}
	if stdio.Stderr != nil {
		cmd.Stderr = stdio.Stderr
	}

	if err := cmd.Start(); err != nil {
		if notFound(err) {
			return 0, fmt.Errorf("%s: %w", argv[0], ErrNotFound)
		}
		return 0, fmt.Errorf("start %s: %w", argv[0], err)
	}
	pid := cmd.Process.Pid
	// The child is collected by Reap, never by cmd.Wait.
	_ = cmd.Process.Release()
	return pid, nil
}

func notFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, exec.ErrDot) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.ENOEXEC) ||
		errors.Is(err, syscall.ENOTDIR)
}

func (Unix) Reap() (Status, bool, error) {
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG|unix.WUNTRACED|unix.WCONTINUED, nil)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.ECHILD:
			return Status{}, false, nil
		case err != nil:
			return Status{}, false, fmt.Errorf("wait4: %w", err)
		case pid <= 0:
			return Status{}, false, nil
		}
		return decode(pid, ws), true, nil
	}
}

func decode(pid int, ws unix.WaitStatus) Status {
	st := Status{PID: pid}
	switch {
	case ws.Exited():
		st.Exited = true
		st.ExitCode = ws.ExitStatus()
	case ws.Signaled():
		st.Signaled = true
		st.Signal = ws.Signal()
	case ws.Stopped():
		st.Stopped = true
		st.StopSignal = ws.StopSignal()
	case ws.Continued():
		st.Continued = true
	}
	return st
}

func (Unix) Signal(pgid int, sig syscall.Signal) error {
	if pgid <= 0 {
		return fmt.Errorf("signal %s: invalid process group %d", sig, pgid)
	}
	if err := unix.Kill(-pgid, sig); err != nil {
		return fmt.Errorf("signal %s to group %d: %w", sig, pgid, err)
	}
	return nil
}
