//go:build darwin

package base

import (
	"os"
	"time"
)

var startedAt = time.Now()

func Elapsed() time.Duration {
	return time.Since(startedAt)
}

func SetMTime(file *os.File, mtime time.Time) error {
	return os.Chtimes(file.Name(), mtime, mtime)
}
