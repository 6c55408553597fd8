//go:build llvmboot_debug
// +build llvmboot_debug

package base

import (
	"fmt"
)

const DEBUG_ENABLED = true

var enableDiagnostics bool = true

func EnableDiagnostics() bool {
	return enableDiagnostics
}
func SetEnableDiagnostics(enabled bool) {
	enableDiagnostics = enabled
}

/***************************************
 * Assertions
 ***************************************/

var LogAssert = NewLogCategory("Assert")

func AssertErr(pred func() error) {
	if err := pred(); err != nil {
		Panic(err)
	}
}

func Assert(pred func() bool) {
	if success := pred(); !success {
		Panicf("failed assertion")
	}
}

func AssertIn[T comparable](elt T, values ...T) {
	for _, x := range values {
		if x == elt {
			return
		}
	}
	Panicf("element <%v> is not in the slice", elt)
}
func AssertNotIn[T comparable](elt T, values ...T) {
	for _, x := range values {
		if x == elt {
			Panicf("element <%v> is already in the slice", elt)
		}
	}
}

func AssertInStrings[T fmt.Stringer](elt T, values ...T) {
	for _, x := range values {
		if x.String() == elt.String() {
			return
		}
	}
	Panicf("element <%v> is not in the slice", elt)
}

func UnreachableCode() {
	Panicf("unreachable code")
}
func UnexpectedValue(x interface{}) {
	Panicf("unexpected value: <%T> %#v", x, x)
}
