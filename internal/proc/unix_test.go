//go:build unix

package proc

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// waitStatus polls Reap until pid reports a status accepted by match.
func waitStatus(t *testing.T, pid int, match func(Status) bool) Status {
	t.Helper()
	var got Status
	require.Eventually(t, func() bool {
		for {
			st, ok, err := Unix{}.Reap()
			require.NoError(t, err)
			if !ok {
				return false
			}
			if st.PID == pid && match(st) {
				got = st
				return true
			}
		}
	}, 5*time.Second, 10*time.Millisecond)
	return got
}

func TestStartPlacesChildInOwnGroup(t *testing.T) {
	pid, err := Unix{}.Start([]string{"sleep", "10"}, Stdio{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = unix.Kill(-pid, syscall.SIGKILL) })

	pgid, err := unix.Getpgid(pid)
	require.NoError(t, err)
	assert.Equal(t, pid, pgid)

	require.NoError(t, Unix{}.Signal(pid, syscall.SIGKILL))
	st := waitStatus(t, pid, func(s Status) bool { return s.Signaled })
	assert.Equal(t, syscall.SIGKILL, st.Signal)
}

func TestReapStopContinueExit(t *testing.T) {
	pid, err := Unix{}.Start([]string{"sleep", "10"}, Stdio{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = unix.Kill(-pid, syscall.SIGKILL) })

	require.NoError(t, Unix{}.Signal(pid, syscall.SIGTSTP))
	st := waitStatus(t, pid, func(s Status) bool { return s.Stopped })
	assert.Equal(t, syscall.SIGTSTP, st.StopSignal)

	require.NoError(t, Unix{}.Signal(pid, syscall.SIGCONT))
	waitStatus(t, pid, func(s Status) bool { return s.Continued })

	require.NoError(t, Unix{}.Signal(pid, syscall.SIGINT))
	st = waitStatus(t, pid, func(s Status) bool { return s.Signaled })
	assert.Equal(t, syscall.SIGINT, st.Signal)
}

func TestReapExitCode(t *testing.T) {
	pid, err := Unix{}.Start([]string{"sh", "-c", "exit 3"}, Stdio{})
	require.NoError(t, err)

	st := waitStatus(t, pid, func(s Status) bool { return s.Exited })
	assert.Equal(t, 3, st.ExitCode)
}

func TestStartNotFound(t *testing.T) {
	_, err := Unix{}.Start([]string{"/definitely/not/here"}, Stdio{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Unix{}.Start([]string{"no-such-program-for-tsh-tests"}, Stdio{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Unix{}.Start(nil, Stdio{})
	assert.Error(t, err)
}

func TestReapWithNothingPending(t *testing.T) {
	_, ok, err := Unix{}.Reap()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSignalRejectsBadGroup(t *testing.T) {
	assert.Error(t, Unix{}.Signal(0, syscall.SIGCONT))
}
