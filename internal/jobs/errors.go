package jobs

import (
	"errors"
	"fmt"
)

var (
	ErrTableFull    = errors.New("too many jobs")
	ErrInvalidPID   = errors.New("invalid pid")
	ErrDuplicatePID = errors.New("pid already tracked")
	ErrInvalidState = errors.New("invalid job state")
	ErrNoSuchJob    = errors.New("no such job")
)

// InvariantError reports table state that should be impossible. The shell
// treats it as unrecoverable.
type InvariantError struct {
	Job    Job
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("job table invariant violated: %s (job %s, state %s)", e.Reason, e.Job, e.Job.State)
}
