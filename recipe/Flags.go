package recipe

import (
	"context"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/utils"
)

/***************************************
 * Recipe flags
 ***************************************/

// RecipeFlags holds command-line values, every field starts inheritable so lower layers show through.
type RecipeFlags struct {
	Profile  utils.Filename
	Options  Options
	Settings Settings
}

func (x *RecipeFlags) Flags(cfv utils.CommandFlagsVisitor) {
	cfv.Persistent("Profile", "load recipe options from an HCL profile", &x.Profile)
	x.Options.Flags(cfv)
	x.Settings.Flags(cfv)
}

func OptionCommandRecipeFlags(flags *RecipeFlags) utils.CommandOptionFunc {
	return utils.OptionCommandParsableFlags("RecipeFlags", "recipe options and settings", flags)
}

// ResolveOptions layers defaults, then the HCL profile, then persisted and command-line flags.
func (x *RecipeFlags) ResolveOptions(env Environment) (Options, Settings, Environment, error) {
	options := DefaultOptions()
	var settings Settings

	if err := CheckLlvmLibs(x.Options.Libs); err != nil {
		return options, settings, env, err
	}

	if x.Profile.Valid() {
		profile, err := LoadProfile(x.Profile)
		if err != nil {
			return options, settings, env, err
		}
		if err := profile.ApplyOptions(&options); err != nil {
			return options, settings, env, err
		}
		if err := profile.ApplySettings(&settings); err != nil {
			return options, settings, env, err
		}
		env = profile.ApplyEnvironment(env)
	}

	options.Overwrite(&x.Options)
	settings.Overwrite(&x.Settings)
	return options, settings, env, nil
}

// Resolve builds a recipe mounted on UFS paths, probing the host compiler for missing settings.
func (x *RecipeFlags) Resolve(ctx context.Context, runner CMakeRunner) (*Recipe, error) {
	options, overrides, env, err := x.ResolveOptions(ProcessEnvironment())
	if err != nil {
		return nil, err
	}

	settings, err := DetectSettings(ctx, &overrides)
	if err != nil {
		return nil, err
	}

	if runner == nil {
		if runner, err = NewProcessRunner(settings.BuildType.Get()); err != nil {
			return nil, err
		}
	}

	r := NewRecipe(options, settings, env, GetRecipePaths(), runner)
	base.LogVerbose(LogRecipe, "recipe %s/%s with %d CPUs", PACKAGE_NAME, GetPackageVersion(env), r.NumCpu)
	return r, nil
}
