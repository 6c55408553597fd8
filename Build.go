package llvmboot

import (
	"github.com/poppolopoppo/llvmboot/app"
	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/internal/cmd"
	"github.com/poppolopoppo/llvmboot/utils"
)

var LogLlvmBoot = base.NewLogCategory("LlvmBoot")

/***************************************
 * Launch Command (program entry point)
 ***************************************/

func LaunchCommand(prefix string) error {
	return app.WithCommandEnv(prefix, func(env *utils.CommandEnvT) error {
		cmd.InitCmd()
		return env.Run()
	})
}
