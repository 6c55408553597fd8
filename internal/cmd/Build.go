package cmd

import (
	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/internal/hal"

	//lint:ignore ST1001 ignore dot imports warning
	. "github.com/poppolopoppo/llvmboot/utils"
)

// 30 GiB is a conservative estimate for three llvm builds
const minFreeDiskSpace = 30 << 30

func checkFreeDiskSpace() {
	if free, err := hal.GetFreeDiskSpace(CommandEnv.Context(), UFS.Output.String()); err == nil {
		if free < minFreeDiskSpace {
			base.LogWarning(LogCmd, "only %.1f GiB free in %q, llvm bootstrap may run out of disk space",
				float64(free)/(1<<30), UFS.Output)
		}
	} else {
		base.LogWarningVerbose(LogCmd, "free disk space: %v", err)
	}
}

var CommandBuild = NewCommand(
	"Recipe",
	"build",
	"run stage_tmp_compiler, stage_runtime, stage_llvm and iwyu builds",
	OptionCommandRecipe(),
	OptionCommandRun(func(cc CommandContext) error {
		r, err := resolveRecipe(nil)
		if err != nil {
			return err
		}

		base.LogClaim(LogCmd, "build %s on %v", r.Paths.Build, hal.GetHostHardware())
		checkFreeDiskSpace()
		return r.Build(CommandEnv.Context())
	}),
)

var CommandPackage = NewCommand(
	"Recipe",
	"package",
	"assemble the package folder from stage outputs",
	OptionCommandRecipe(),
	OptionCommandRun(func(cc CommandContext) error {
		r, err := resolveRecipe(nil)
		if err != nil {
			return err
		}
		if err := r.Validate(); err != nil {
			return err
		}
		return r.Package()
	}),
)

var CommandCreate = NewCommand(
	"Recipe",
	"create",
	"clone sources, build every stage and assemble the package",
	OptionCommandRecipe(),
	OptionCommandRun(func(cc CommandContext) error {
		r, err := resolveRecipe(nil)
		if err != nil {
			return err
		}
		if err := r.Validate(); err != nil {
			return err
		}

		ctx := CommandEnv.Context()
		if err := r.Source(ctx); err != nil {
			return err
		}

		checkFreeDiskSpace()
		if err := r.Build(ctx); err != nil {
			return err
		}
		if err := r.Package(); err != nil {
			return err
		}

		info, err := r.PackageInfo()
		if err != nil {
			return err
		}
		return info.Save(r.Paths.Package.File(PackageInfoFilename))
	}),
)
