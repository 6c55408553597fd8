//go:build darwin

package hal

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

func InitHAL() {
	name := "Darwin"
	if release, err := unix.Sysctl("kern.osrelease"); err == nil {
		name = "Darwin " + release
	}
	setCurrentHost(name)

	base.SetEnableInteractiveShell(isTty() && isInteractiveTerm())
}

func isTty() bool {
	_, err := unix.IoctlGetTermios(int(os.Stdout.Fd()), unix.TIOCGETA)
	return err == nil
}
