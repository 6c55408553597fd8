package cmd

import (
	//lint:ignore ST1001 ignore dot imports warning
	. "github.com/poppolopoppo/llvmboot/utils"
)

var CommandSource = NewCommand(
	"Recipe",
	"source",
	"clone llvm-project and include-what-you-use sources",
	OptionCommandRecipe(),
	OptionCommandRun(func(cc CommandContext) error {
		r, err := resolveRecipe(nil)
		if err != nil {
			return err
		}
		if err := r.Source(CommandEnv.Context()); err != nil {
			return err
		}
		return r.SourceStatus(CommandEnv.Context())
	}),
)
