package utils

import (
	"errors"
	"fmt"

	"github.com/danjacques/gofslock/fslock"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

// BuildLock guards a build folder against concurrent orchestrators.
type BuildLock struct {
	Path   Filename
	handle fslock.Handle
}

func LockBuildFolder(folder Directory) (*BuildLock, error) {
	if err := UFS.MkdirEx(folder); err != nil {
		return nil, err
	}

	lock := &BuildLock{Path: folder.File(".llvmboot.lock")}
	handle, err := fslock.Lock(lock.Path.String())
	switch {
	case err == nil:
		base.LogVerbose(LogUtils, "acquired build lock %q", lock.Path)
		lock.handle = handle
		return lock, nil
	case errors.Is(err, fslock.ErrLockHeld):
		return nil, fmt.Errorf("build folder %q is already locked by another process", folder)
	default:
		return nil, err
	}
}

func (x *BuildLock) Close() error {
	if x.handle == nil {
		return nil
	}
	base.LogVerbose(LogUtils, "release build lock %q", x.Path)
	err := x.handle.Unlock()
	x.handle = nil
	return err
}
