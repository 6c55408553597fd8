package cmd

import (
	"github.com/poppolopoppo/llvmboot/recipe"

	//lint:ignore ST1001 ignore dot imports warning
	. "github.com/poppolopoppo/llvmboot/utils"
)

var CommandTest = NewCommand(
	"Package",
	"test",
	"build and run test_package against the package folder",
	OptionCommandRecipe(),
	OptionCommandRun(func(cc CommandContext) error {
		r, err := resolveRecipe(nil)
		if err != nil {
			return err
		}

		consumer := recipe.TestPackage{
			SourceDir: UFS.Root.Folder("test_package"),
			BuildDir:  UFS.Consumer,
			Env:       r.Env,
			Runner:    r.Runner,
		}
		return consumer.Test(CommandEnv.Context(), r.Paths.Package)
	}),
)
