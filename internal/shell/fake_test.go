package shell

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tsh/internal/config"
	"tsh/internal/proc"
)

type sentSignal struct {
	PGID int
	Sig  syscall.Signal
}

// fakeSystem hands out pids from 1000 and reports whatever statuses the test
// queues.
type fakeSystem struct {
	mu       sync.Mutex
	nextPID  int
	started  [][]string
	pending  []proc.Status
	signals  []sentSignal
	startErr error
	reapErr  error
}

func newFakeSystem() *fakeSystem {
	return &fakeSystem{nextPID: 1000}
}

func (f *fakeSystem) Start(argv []string, _ proc.Stdio) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return 0, f.startErr
	}
	f.started = append(f.started, argv)
	pid := f.nextPID
	f.nextPID++
	return pid, nil
}

func (f *fakeSystem) Reap() (proc.Status, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reapErr != nil {
		err := f.reapErr
		f.reapErr = nil
		return proc.Status{}, false, err
	}
	if len(f.pending) == 0 {
		return proc.Status{}, false, nil
	}
	st := f.pending[0]
	f.pending = f.pending[1:]
	return st, true, nil
}

func (f *fakeSystem) Signal(pgid int, sig syscall.Signal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals = append(f.signals, sentSignal{PGID: pgid, Sig: sig})
	return nil
}

func (f *fakeSystem) queue(st ...proc.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, st...)
}

func (f *fakeSystem) sent() []sentSignal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentSignal(nil), f.signals...)
}

func (f *fakeSystem) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.started)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *lockedBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

type testShell struct {
	*Shell
	sys    *fakeSystem
	out    *lockedBuffer
	errOut *lockedBuffer
	exits  chan int
}

func testConfig(maxJobs int) *config.Config {
	cfg := config.Default()
	cfg.MaxJobs = maxJobs
	cfg.PollInterval = 5 * time.Millisecond
	return cfg
}

func newTestShell(t *testing.T, maxJobs int, input string) *testShell {
	t.Helper()
	ts := &testShell{
		sys:    newFakeSystem(),
		out:    &lockedBuffer{},
		errOut: &lockedBuffer{},
		exits:  make(chan int, 1),
	}
	s, err := New(testConfig(maxJobs), nil, Options{
		System: ts.sys,
		Reader: NewPlainReader(strings.NewReader(input), io.Discard, ""),
		Out:    ts.out,
		Err:    ts.errOut,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Exit:   func(code int) { ts.exits <- code },
	})
	require.NoError(t, err)
	ts.Shell = s
	return ts
}
