// Package jobs holds the shell's job table and the guard that serializes
// access to it.
//
// The table is shared by the shell loop and the signal goroutine. Every read
// that has to agree with a concurrent mutation, and every mutation, happens
// between Table.Enter and Guard.Exit.
package jobs

import "fmt"

// State is the lifecycle state of a job.
type State int

const (
	Undefined State = iota
	Foreground
	Background
	Stopped
)

func (s State) String() string {
	switch s {
	case Foreground:
		return "Foreground"
	case Background:
		return "Background"
	case Stopped:
		return "Stopped"
	default:
		return "Undefined"
	}
}

// Label is the word used for the state in job listings.
func (s State) Label() string {
	if s == Background {
		return "Running"
	}
	return s.String()
}

// Job is a snapshot of one table slot.
type Job struct {
	PID         int
	ID          int
	State       State
	CommandLine string
}

// String renders the acknowledgment form "[id] (pid) command_line".
func (j Job) String() string {
	return fmt.Sprintf("[%d] (%d) %s", j.ID, j.PID, j.CommandLine)
}

// Status renders the listing form "[id] (pid) Running command_line".
func (j Job) Status() string {
	return fmt.Sprintf("[%d] (%d) %s %s", j.ID, j.PID, j.State.Label(), j.CommandLine)
}

func (j Job) free() bool {
	return j.PID == 0
}
