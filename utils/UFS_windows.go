//go:build windows

package utils

import (
	"path/filepath"
	"strings"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

func CleanPath(in string) string {
	in = filepath.Clean(in)

	if cleaned, err := filepath.Abs(in); err == nil {
		in = cleaned
	} else {
		base.LogPanicErr(LogUFS, err)
	}

	// normalize drive letter, paths are compared as strings
	if len(in) > 1 && in[1] == ':' {
		in = strings.ToUpper(in[:1]) + in[1:]
	}
	return in
}
