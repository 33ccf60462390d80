package shell

import (
	"errors"
	"fmt"

	"tsh/internal/jobs"
)

var errQuit = errors.New("quit")

// UsageError is a user mistake. Its message is shown as is and the shell
// carries on.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func usagef(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// FatalError is an OS failure the shell cannot continue after, such as
// being unable to create processes.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err should end the shell.
func IsFatal(err error) bool {
	var fatal *FatalError
	var inv *jobs.InvariantError
	return errors.As(err, &fatal) || errors.As(err, &inv)
}
