package cmd

import (
	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/recipe"

	//lint:ignore ST1001 ignore dot imports warning
	. "github.com/poppolopoppo/llvmboot/utils"
)

var LogCmd = base.NewLogCategory("Cmd")

// shared by every command, persisted under "RecipeFlags" in the config file
var recipeFlags = &recipe.RecipeFlags{}

func OptionCommandRecipe() CommandOptionFunc {
	return recipe.OptionCommandRecipeFlags(recipeFlags)
}

func resolveRecipe(runner recipe.CMakeRunner) (*recipe.Recipe, error) {
	return recipeFlags.Resolve(CommandEnv.Context(), runner)
}

// InitCmd forces registration of every command declared in this package.
func InitCmd() {
	for _, it := range []func() CommandItem{
		CommandSource,
		CommandConfigure,
		CommandBuild,
		CommandPackage,
		CommandCreate,
		CommandInfo,
		CommandEnvironment,
		CommandExport,
		CommandInspect,
		CommandTest,
		CommandDistClean,
		CommandRun,
		CommandHelp,
		ListCommands,
		ListProjects,
		ListTargets,
		ListLibs,
		ListSanitizers,
		ListEnv,
	} {
		base.LogTrace(LogCmd, "registered command %v", it())
	}
}
