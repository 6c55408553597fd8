package cmd

import (
	"os"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/recipe"

	//lint:ignore ST1001 ignore dot imports warning
	. "github.com/poppolopoppo/llvmboot/utils"
)

var distCleanStages []StringVar

var CommandDistClean = NewCommand(
	"Recipe",
	"distclean",
	"erase stage build folders, package and exports",
	OptionCommandConsumeMany("stages", "only erase given stages (stage_tmp_compiler, stage_runtime, stage_llvm, iwyu)", &distCleanStages, COMMANDARG_OPTIONAL),
	OptionCommandRun(func(cc CommandContext) error {
		paths := recipe.GetRecipePaths()

		if len(distCleanStages) == 0 {
			base.LogClaim(LogCmd, "dist-clean all output folders")

			distCleanDir(paths.Build)
			distCleanDir(paths.Package)
			distCleanDir(UFS.Exports)
			distCleanDir(UFS.Consumer)
			return nil
		}

		for _, it := range distCleanStages {
			re := MakeGlobRegexp(it.Get())
			base.LogClaim(LogCmd, "dist-clean stages matching /%v/", re)

			matched := false
			for _, stage := range []string{recipe.STAGE_TMP_COMPILER, recipe.STAGE_RUNTIME, recipe.STAGE_LLVM, recipe.STAGE_IWYU} {
				if re.MatchString(stage) {
					matched = true
					distCleanDir(paths.Build.Folder(stage))
				}
			}
			if !matched {
				base.LogWarning(LogCmd, "distclean: no stage matching %q", it)
			}
		}
		return nil
	}))

func distCleanDir(d Directory) {
	if d.Exists() {
		base.LogVerbose(LogCmd, "remove directory '%v'", d)
		if err := os.RemoveAll(d.String()); err != nil {
			base.LogWarning(LogCmd, "distclean: %v", err)
		}
	}
}
