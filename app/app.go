package app

import (
	"os"
	"time"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/internal/hal"
	"github.com/poppolopoppo/llvmboot/utils"
)

func WithCommandEnv(prefix string, scope func(*utils.CommandEnvT) error) error {
	startedAt := time.Now()

	env, err := utils.InitCommandEnv(prefix, os.Args[1:], startedAt)
	if err != nil {
		base.LogError(utils.LogCommand, "%v", err)
		return err
	}

	defer utils.StartProfiling()()

	hal.InitHAL()

	if err = scope(env); err != nil {
		base.LogError(utils.LogCommand, "%v", err)
	}
	return err
}
