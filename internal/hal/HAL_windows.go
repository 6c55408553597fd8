//go:build windows

package hal

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

func osVersion() string {
	v := windows.RtlGetVersion()
	return fmt.Sprintf("%d.%d build %d", v.MajorVersion, v.MinorVersion, v.BuildNumber)
}

func setConsoleMode() bool {
	stdout := windows.Handle(os.Stdout.Fd())

	var originalMode uint32
	if err := windows.GetConsoleMode(stdout, &originalMode); err != nil {
		base.LogVerbose(LogHAL, "failed to get console mode with %v", err)
		return false
	}
	if err := windows.SetConsoleMode(stdout, originalMode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING); err != nil {
		base.LogVerbose(LogHAL, "failed to set console mode with %v", err)
		return false
	}
	return true
}

func InitHAL() {
	setCurrentHost("Windows " + osVersion())

	base.SetEnableInteractiveShell(setConsoleMode())
}
