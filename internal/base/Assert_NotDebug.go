//go:build !llvmboot_debug
// +build !llvmboot_debug

package base

import "fmt"

const DEBUG_ENABLED = false

var LogAssert = NewLogCategory("Assert")

var enableDiagnostics bool = false

func EnableDiagnostics() bool {
	return enableDiagnostics
}
func SetEnableDiagnostics(enabled bool) {
	enableDiagnostics = enabled
}

func AssertErr(func() error)                  {}
func Assert(func() bool)                      {}
func AssertIn[T comparable](T, ...T)          {}
func AssertNotIn[T comparable](T, ...T)       {}
func AssertInStrings[T fmt.Stringer](T, ...T) {}

func UnreachableCode()            { LogPanic(LogAssert, "unreachable code") }
func UnexpectedValue(interface{}) { LogPanic(LogAssert, "unexpected value") }
