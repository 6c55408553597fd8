package main

import (
	"github.com/poppolopoppo/llvmboot"
	"github.com/poppolopoppo/llvmboot/internal/base"
)

/***************************************
 * Launch Command (program entry point)
 ***************************************/

func main() {
	err := llvmboot.LaunchCommand("llvmboot")
	base.LogPanicIfFailed(llvmboot.LogLlvmBoot, err)
}
