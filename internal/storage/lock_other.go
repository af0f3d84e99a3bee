//go:build !unix

package storage

import "os"

// Advisory locking is only wired up on unix; elsewhere atomic rename is
// the only guarantee.
func lock(_ *os.File, _ bool) {}

func unlock(_ *os.File) {}
