//go:build linux

package hal

import (
	"os"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

func InitHAL() {
	var uname syscall.Utsname
	name := "Linux"
	if err := syscall.Uname(&uname); err == nil {
		name = arrayToString(uname.Release)
	} else {
		base.LogWarning(LogHAL, "uname: %v", err)
	}
	setCurrentHost(name)

	base.SetEnableInteractiveShell(isTty() && isInteractiveTerm())
}

func isTty() bool {
	_, err := unix.IoctlGetTermios(int(os.Stdout.Fd()), unix.TCGETS)
	return err == nil
}

func arrayToString(x [65]int8) string {
	var buf [65]byte
	for i, b := range x {
		buf[i] = byte(b)
	}
	str := string(buf[:])
	if i := strings.Index(str, "\x00"); i != -1 {
		str = str[:i]
	}
	return str
}
