package cmd

import (
	"fmt"
	"os"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/recipe"

	//lint:ignore ST1001 ignore dot imports warning
	. "github.com/poppolopoppo/llvmboot/utils"
)

var CommandConfigure = NewCommand(
	"Recipe",
	"configure",
	"validate options and print cmake definitions of every stage",
	OptionCommandRecipe(),
	OptionCommandNotes("nothing is built, stage commands are only printed"),
	OptionCommandRun(func(cc CommandContext) error {
		r, err := resolveRecipe(recipe.DryRunner{Output: os.Stdout})
		if err != nil {
			return err
		}
		r.DryRun = true

		base.LogClaim(LogCmd, "configure %s with %v", recipe.PACKAGE_NAME, r.Settings)
		fmt.Fprintln(os.Stdout, "options:")
		r.Options.Print(os.Stdout)

		return r.Build(CommandEnv.Context())
	}),
)
