//go:build linux

package base

import (
	"os"
	"syscall"
	"time"
)

var startedAt = time.Now()

func Elapsed() time.Duration {
	return time.Since(startedAt)
}

// preserves sub-second precision, CopyTree compares timestamps with a one second tolerance
func SetMTime(file *os.File, mtime time.Time) error {
	sysMTime := syscall.NsecToTimeval(mtime.UnixNano())
	return syscall.Futimes(int(file.Fd()), []syscall.Timeval{
		sysMTime, // atime
		sysMTime, // mtime
	})
}
