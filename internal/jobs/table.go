package jobs

import (
	"sync"

	"github.com/samber/mo"
)

const (
	// DefaultCapacity is the number of slots in a table built with a
	// non-positive capacity.
	DefaultCapacity = 16
	// MaxJobID bounds job ids before allocation wraps to the lowest free id.
	MaxJobID = 1 << 16
)

// Table is a fixed-capacity arena of job slots. Slot order is the listing
// order.
type Table struct {
	mu      sync.Mutex
	slots   []Job
	nextID  int
	changed chan struct{}
}

func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Table{
		slots:   make([]Job, capacity),
		nextID:  1,
		changed: make(chan struct{}),
	}
}

// Cap returns the number of slots.
func (t *Table) Cap() int {
	return len(t.slots)
}

// Enter starts a critical section. The caller must call Exit on the returned
// guard, typically with defer.
func (t *Table) Enter() *Guard {
	t.mu.Lock()
	return &Guard{t: t}
}

// Do runs fn inside a critical section.
func (t *Table) Do(fn func(g *Guard) error) error {
	g := t.Enter()
	defer g.Exit()
	return fn(g)
}

func (t *Table) List() []Job {
	g := t.Enter()
	defer g.Exit()
	return g.List()
}

func (t *Table) Len() int {
	g := t.Enter()
	defer g.Exit()
	return g.Len()
}

func (t *Table) ForegroundPID() mo.Option[int] {
	g := t.Enter()
	defer g.Exit()
	return g.ForegroundPID()
}

// Guard is a held critical section over a Table.
type Guard struct {
	t    *Table
	done bool
}

// Exit ends the critical section. Calling it more than once is allowed.
func (g *Guard) Exit() {
	if g.done {
		return
	}
	g.done = true
	g.t.mu.Unlock()
}

// Insert occupies the first free slot and returns the assigned job id.
func (g *Guard) Insert(pid int, state State, commandLine string) (int, error) {
	if pid <= 0 {
		return 0, ErrInvalidPID
	}
	if state == Undefined {
		return 0, ErrInvalidState
	}
	free := -1
	for i, j := range g.t.slots {
		if j.free() {
			if free < 0 {
				free = i
			}
			continue
		}
		if j.PID == pid {
			return 0, ErrDuplicatePID
		}
		if state == Foreground && j.State == Foreground {
			return 0, &InvariantError{Job: j, Reason: "second foreground job"}
		}
	}
	if free < 0 {
		return 0, ErrTableFull
	}

	id := g.allocID()
	g.t.slots[free] = Job{PID: pid, ID: id, State: state, CommandLine: commandLine}
	g.notify()
	return id, nil
}

// Remove clears the slot holding pid and reports whether one was found.
func (g *Guard) Remove(pid int) bool {
	if pid <= 0 {
		return false
	}
	i := g.index(pid)
	if i < 0 {
		return false
	}
	g.t.slots[i] = Job{}
	g.t.nextID = g.maxID() + 1
	g.notify()
	return true
}

// SetState changes the state of the job holding pid.
func (g *Guard) SetState(pid int, state State) error {
	if state == Undefined {
		return ErrInvalidState
	}
	i := g.index(pid)
	if i < 0 {
		return ErrNoSuchJob
	}
	if state == Foreground {
		for k, j := range g.t.slots {
			if k != i && !j.free() && j.State == Foreground {
				return &InvariantError{Job: j, Reason: "second foreground job"}
			}
		}
	}
	if g.t.slots[i].State != state {
		g.t.slots[i].State = state
		g.notify()
	}
	return nil
}

func (g *Guard) ByPID(pid int) mo.Option[Job] {
	if i := g.index(pid); i >= 0 {
		return mo.Some(g.t.slots[i])
	}
	return mo.None[Job]()
}

func (g *Guard) ByJobID(id int) mo.Option[Job] {
	if id < 1 {
		return mo.None[Job]()
	}
	for _, j := range g.t.slots {
		if !j.free() && j.ID == id {
			return mo.Some(j)
		}
	}
	return mo.None[Job]()
}

// ForegroundPID returns the pid of the foreground job, if any.
func (g *Guard) ForegroundPID() mo.Option[int] {
	for _, j := range g.t.slots {
		if !j.free() && j.State == Foreground {
			return mo.Some(j.PID)
		}
	}
	return mo.None[int]()
}

// List returns snapshots of the occupied slots in slot order.
func (g *Guard) List() []Job {
	out := make([]Job, 0, len(g.t.slots))
	for _, j := range g.t.slots {
		if !j.free() {
			out = append(out, j)
		}
	}
	return out
}

func (g *Guard) Len() int {
	n := 0
	for _, j := range g.t.slots {
		if !j.free() {
			n++
		}
	}
	return n
}

func (g *Guard) Full() bool {
	return g.Len() == len(g.t.slots)
}

// Changed returns a channel that is closed by the next mutation of the table.
func (g *Guard) Changed() <-chan struct{} {
	return g.t.changed
}

func (g *Guard) notify() {
	close(g.t.changed)
	g.t.changed = make(chan struct{})
}

func (g *Guard) index(pid int) int {
	if pid <= 0 {
		return -1
	}
	for i, j := range g.t.slots {
		if j.PID == pid {
			return i
		}
	}
	return -1
}

func (g *Guard) maxID() int {
	hi := 0
	for _, j := range g.t.slots {
		if j.ID > hi {
			hi = j.ID
		}
	}
	return hi
}

// allocID hands out nextID. Past MaxJobID, or if nextID is somehow held,
// it falls back to the lowest id not held by a live job.
func (g *Guard) allocID() int {
	id := g.t.nextID
	if id > MaxJobID || g.ByJobID(id).IsPresent() {
		id = g.lowestFreeID()
	}
	g.t.nextID = id + 1
	return id
}

func (g *Guard) lowestFreeID() int {
	id := 1
	for g.ByJobID(id).IsPresent() {
		id++
	}
	return id
}
