//go:build unix

package storage

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

const (
	lockRetries    = 10
	lockRetryDelay = 100 * time.Millisecond
)

// lock takes a flock on f, shared or exclusive. It retries a bounded
// number of times without blocking and then proceeds unlocked rather than
// stalling the request: the lock narrows the read/write race, it does not
// guard correctness on its own.
func lock(f *os.File, exclusive bool) {
	how := unix.LOCK_SH
	if exclusive {
		how = unix.LOCK_EX
	}
	for i := 0; i < lockRetries; i++ {
		if err := unix.Flock(int(f.Fd()), how|unix.LOCK_NB); err == nil {
			return
		}
		time.Sleep(lockRetryDelay)
	}
}

func unlock(f *os.File) {
	unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
