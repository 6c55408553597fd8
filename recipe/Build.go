package recipe

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/internal/hal"
	"github.com/poppolopoppo/llvmboot/utils"
)

/***************************************
 * Recipe paths
 ***************************************/

type RecipePaths struct {
	Source  utils.Directory
	Patches utils.Directory
	Build   utils.Directory
	Package utils.Directory
}

func GetRecipePaths() RecipePaths {
	return RecipePaths{
		Source:  utils.UFS.Sources,
		Patches: utils.UFS.Patches,
		Build:   utils.UFS.Build,
		Package: utils.UFS.Package,
	}
}

func (x RecipePaths) LlvmSource() utils.Directory       { return x.Source.Folder(LLVM_SOURCE_DIR) }
func (x RecipePaths) LlvmRoot() utils.Directory         { return x.LlvmSource().Folder("llvm") }
func (x RecipePaths) CompilerRtSource() utils.Directory { return x.LlvmSource().Folder("compiler-rt") }
func (x RecipePaths) IwyuSource() utils.Directory       { return x.Source.Folder(IWYU_SOURCE_DIR) }

func (x RecipePaths) StageTmpCompiler() utils.Directory { return x.Build.Folder(STAGE_TMP_COMPILER) }
func (x RecipePaths) StageRuntime() utils.Directory     { return x.Build.Folder(STAGE_RUNTIME) }
func (x RecipePaths) StageLlvm() utils.Directory        { return x.Build.Folder(STAGE_LLVM) }
func (x RecipePaths) IwyuBuild() utils.Directory        { return x.Build.Folder(STAGE_IWYU) }

/***************************************
 * Recipe
 ***************************************/

type Recipe struct {
	Options  Options
	Settings Settings
	Env      Environment
	Paths    RecipePaths
	Runner   CMakeRunner
	NumCpu   int
	// DryRun skips path checks and file mutations, used with a DryRunner to print commands.
	DryRun bool
}

func NewRecipe(options Options, settings Settings, env Environment, paths RecipePaths, runner CMakeRunner) *Recipe {
	return &Recipe{
		Options:  options,
		Settings: settings,
		Env:      env,
		Paths:    paths,
		Runner:   runner,
		NumCpu:   hal.GetNumCpu(),
	}
}

func (r *Recipe) Validate() error {
	return Validate(r.Options, r.Settings)
}

func (r *Recipe) runStage(ctx context.Context, name string, stage func(context.Context) error) error {
	bench := base.LogBenchmark(LogRecipe, "%s", name)
	defer bench.Close()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := stage(ctx); err != nil {
		base.LogError(LogRecipe, "%s failed: %v", name, err)
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Build runs every stage in sequence while holding the build folder lock.
func (r *Recipe) Build(ctx context.Context) error {
	if err := r.Validate(); err != nil {
		return err
	}

	if !r.DryRun {
		lock, err := utils.LockBuildFolder(r.Paths.Build)
		if err != nil {
			return err
		}
		defer lock.Close()
	}

	if r.StageTmpCompilerEnabled() {
		if err := r.runStage(ctx, STAGE_TMP_COMPILER, r.BuildStageTmpCompiler); err != nil {
			return err
		}
	} else {
		base.LogVerbose(LogRecipe, "stage_tmp_compiler disabled by LLVM_stage_tmp_compiler_ENABLED")
	}

	if err := r.runStage(ctx, STAGE_RUNTIME, r.BuildStageRuntime); err != nil {
		return err
	}
	if err := r.runStage(ctx, STAGE_LLVM, r.BuildStageLlvm); err != nil {
		return err
	}
	return r.runStage(ctx, STAGE_IWYU, r.BuildIwyu)
}

/***************************************
 * Dry runner
 ***************************************/

// DryRunner prints the commands a ProcessRunner would execute.
type DryRunner struct {
	Output io.Writer
}

func (x DryRunner) Configure(_ context.Context, stage CMakeStage) error {
	fmt.Fprintf(x.Output, "[%v] configure %q -> %q\n", stage, stage.SourceDir, stage.BuildDir)
	for _, it := range stage.Environment {
		fmt.Fprintf(x.Output, "    env %v\n", it)
	}
	stage.Definitions.Print(x.Output)
	return nil
}
func (x DryRunner) Build(_ context.Context, stage CMakeStage, args ...string) error {
	fmt.Fprintf(x.Output, "[%v] build %s\n", stage, strings.Join(args, " "))
	return nil
}
func (x DryRunner) Install(_ context.Context, stage CMakeStage, args ...string) error {
	fmt.Fprintf(x.Output, "[%v] install %s\n", stage, strings.Join(args, " "))
	return nil
}
func (x DryRunner) Command(_ context.Context, workingDir utils.Directory, args ...string) error {
	fmt.Fprintf(x.Output, "[%v] cmake %s\n", workingDir.Basename(), strings.Join(args, " "))
	return nil
}
func (x DryRunner) Patch(_ context.Context, dir utils.Directory, patch utils.Filename) error {
	fmt.Fprintf(x.Output, "[patch] %q in %q\n", patch, dir)
	return nil
}
