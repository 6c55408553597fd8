package base

import "fmt"

type AnsiCode string

var enableAnsiColor bool = true

func SetEnableAnsiColor(enabled bool) {
	enableAnsiColor = enabled
}

func (x AnsiCode) Always() string {
	return (string)(x)
}
func (x AnsiCode) String() string {
	if enableAnsiColor {
		return (string)(x)
	}
	return ""
}

// https://gist.github.com/fnky/458719343aabd01cfb17a3a4f7296797

const (
	ANSI_RESET     AnsiCode = "\033[0m"
	ANSI_BOLD      AnsiCode = "\033[1m"
	ANSI_FAINT     AnsiCode = "\033[2m"
	ANSI_ITALIC    AnsiCode = "\033[3m"
	ANSI_UNDERLINE AnsiCode = "\033[4m"
	ANSI_BLINK0    AnsiCode = "\033[5m"

	ANSI_FG0_BLACK   AnsiCode = "\033[30m"
	ANSI_FG0_RED     AnsiCode = "\033[31m"
	ANSI_FG0_GREEN   AnsiCode = "\033[32m"
	ANSI_FG0_YELLOW  AnsiCode = "\033[33m"
	ANSI_FG0_BLUE    AnsiCode = "\033[34m"
	ANSI_FG0_MAGENTA AnsiCode = "\033[35m"
	ANSI_FG0_CYAN    AnsiCode = "\033[36m"
	ANSI_FG0_WHITE   AnsiCode = "\033[37m"
	ANSI_FG1_BLACK   AnsiCode = "\033[30;1m"
	ANSI_FG1_RED     AnsiCode = "\033[31;1m"
	ANSI_FG1_GREEN   AnsiCode = "\033[32;1m"
	ANSI_FG1_YELLOW  AnsiCode = "\033[33;1m"
	ANSI_FG1_BLUE    AnsiCode = "\033[34;1m"
	ANSI_FG1_MAGENTA AnsiCode = "\033[35;1m"
	ANSI_FG1_CYAN    AnsiCode = "\033[36;1m"
	ANSI_FG1_WHITE   AnsiCode = "\033[37;1m"
	ANSI_BG0_RED     AnsiCode = "\033[41m"
	ANSI_BG1_WHITE   AnsiCode = "\033[47;1m"

	ANSI_FG_TRUECOLOR_FMT AnsiCode = "\033[38;2;%v;%v;%vm"
	ANSI_BG_TRUECOLOR_FMT AnsiCode = "\033[48;2;%v;%v;%vm"
)

func FormatAnsiColor(r, g, b uint8, fg bool) string {
	if !enableAnsiColor {
		return ""
	}
	if fg {
		return fmt.Sprintf(ANSI_FG_TRUECOLOR_FMT.Always(), r, g, b)
	}
	return fmt.Sprintf(ANSI_BG_TRUECOLOR_FMT.Always(), r, g, b)
}
