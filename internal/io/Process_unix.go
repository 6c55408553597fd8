//go:build !windows

package io

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func newProcessGroupSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
		Pgid:    0,
	}
}

func killProcessGroup(process *os.Process) error {
	if process == nil {
		return nil
	}
	// negative pid targets the whole process group
	if err := unix.Kill(-process.Pid, unix.SIGKILL); err != nil && err != unix.ESRCH {
		return process.Kill()
	}
	return nil
}
