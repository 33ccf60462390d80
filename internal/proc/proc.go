// Package proc wraps the process primitives the shell needs: starting a
// child in its own process group, collecting child status changes without
// blocking, and signalling a whole process group.
package proc

import (
	"errors"
	"os"
	"syscall"
)

// ErrNotFound means the program could not be found or executed. No child
// process exists when Start returns it.
var ErrNotFound = errors.New("command not found")

// Status is one collected child status change.
type Status struct {
	PID int

	Exited   bool
	ExitCode int

	Signaled bool
	Signal   syscall.Signal

	Stopped    bool
	StopSignal syscall.Signal

	Continued bool
}

// Stdio are the files handed to a child. Nil entries mean /dev/null.
type Stdio struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// System is the set of operating system calls the job control code uses.
type System interface {
	// Start launches argv as the leader of a new process group and returns
	// its pid. The child is never waited on by Start.
	Start(argv []string, stdio Stdio) (int, error)
	// Reap collects the next pending status change. ok is false when no
	// child has anything to report. It never blocks.
	Reap() (st Status, ok bool, err error)
	// Signal delivers sig to every process in the group led by pgid.
	Signal(pgid int, sig syscall.Signal) error
}
