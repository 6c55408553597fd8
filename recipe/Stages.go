package recipe

import (
	"context"
	"fmt"
	"strconv"

	"github.com/poppolopoppo/llvmboot/internal/base"
	internal_io "github.com/poppolopoppo/llvmboot/internal/io"
	"github.com/poppolopoppo/llvmboot/utils"
)

/***************************************
 * Stage projects
 ***************************************/

const (
	STAGE_TMP_COMPILER = "stage_tmp_compiler"
	STAGE_RUNTIME      = "stage_runtime"
	STAGE_LLVM         = "stage_llvm"
	STAGE_IWYU         = "iwyu"
)

func projectNames(projects LlvmProjects) base.StringSet {
	return base.MakeStringerSet(projects.Slice()...)
}

func (r *Recipe) StageTmpCompilerEnabled() bool {
	return r.Env.Flag("LLVM_stage_tmp_compiler_ENABLED", true) == "ON"
}

// compilerRtBuildCrt resolves the llvm_env entry, the environment wins over the table default.
func (r *Recipe) compilerRtBuildCrt() bool {
	it, _ := FindLlvmEnv("COMPILER_RT_BUILD_CRT")
	return r.Env.Flag(it.Name, it.Default.Get()) == "ON"
}

// StageTmpCompilerProjects ignores user selection: the temporary compiler builds everything.
func (r *Recipe) StageTmpCompilerProjects() base.StringSet {
	return projectNames(AllLlvmProjects())
}

func (r *Recipe) StageRuntimeProjects() (base.StringSet, error) {
	runtimes := base.NewEnumSet[LlvmProject, *LlvmProject](
		LLVMPROJECT_LIBCXX,
		LLVMPROJECT_LIBCXXABI,
		LLVMPROJECT_COMPILER_RT)
	projects := r.Options.Projects.Intersect(runtimes)

	// clang is required to build compiler-rt crt objects
	if r.compilerRtBuildCrt() {
		if !r.Options.HasProject(LLVMPROJECT_CLANG) {
			return nil, fmt.Errorf("enable project clang required by COMPILER_RT_BUILD_CRT")
		}
		projects.Add(LLVMPROJECT_CLANG)
	}

	result := projectNames(projects)
	base.LogVerbose(LogRecipe, "enabled LLVM stage_runtime subprojects: %v", result.Join(", "))
	return result, nil
}

func (r *Recipe) StageLlvmProjects() base.StringSet {
	projects := r.Options.Projects
	// sanitized libc++ was already built by stage_runtime
	if r.Options.HasSanitizers() {
		projects.Remove(LLVMPROJECT_LIBCXX, LLVMPROJECT_LIBCXXABI)
	}

	result := projectNames(projects)
	base.LogVerbose(LogRecipe, "enabled LLVM stage_llvm subprojects: %v", result.Join(", "))
	return result
}

/***************************************
 * Stage helpers
 ***************************************/

func (r *Recipe) requirePath(path fmt.Stringer, exists bool) error {
	if !exists && !r.DryRun {
		return fmt.Errorf("Unable to find path: %v", path)
	}
	return nil
}

func (r *Recipe) requireFile(f utils.Filename) error {
	return r.requirePath(f, f.Exists())
}
func (r *Recipe) requireDirectory(d utils.Directory) error {
	return r.requirePath(d, d.Exists())
}

func (r *Recipe) removeCMakeCache(buildDir utils.Directory) error {
	cache := buildDir.File("CMakeCache.txt")
	if r.DryRun || !cache.Exists() {
		return nil
	}
	if err := utils.UFS.Remove(cache); err != nil {
		return err
	}
	base.LogVerbose(LogRecipe, "removed %q", cache)
	return nil
}

func (r *Recipe) newStage(name string, buildDir utils.Directory, defs Definitions) CMakeStage {
	return CMakeStage{
		Name:        name,
		SourceDir:   r.Paths.LlvmRoot(),
		BuildDir:    buildDir,
		Definitions: defs,
		Environment: internal_io.NewProcessEnvironment(),
	}
}

func setSharedLibs(defs Definitions, enabled bool) {
	value := OnOff(enabled)
	defs.Set("BUILD_SHARED_LIBS", value)
	defs.Set("SHARED_LIBS", value)
	defs.Set("SHARED", value)
}

// UseStageTmpCompiler points the stage at tools built by stage_tmp_compiler.
func (r *Recipe) UseStageTmpCompiler(stage *CMakeStage) error {
	bin := r.Paths.StageTmpCompiler().Folder("bin")

	for _, it := range []struct {
		Definition string
		Export     string
		Filename   utils.Filename
	}{
		{"LLVM_TABLEGEN", "", bin.File("llvm-tblgen")},
		{"CMAKE_C_COMPILER", "", bin.File("clang")},
		{"CMAKE_CXX_COMPILER", "", bin.File("clang++")},
		{"LLVM_SYMBOLIZER_PATH", "SYMBOLIZER", bin.File("llvm-symbolizer")},
		{"LLVM_CONFIG_PATH", "LLVM_CONFIG_PATH", bin.File("llvm-config")},
	} {
		if err := r.requireFile(it.Filename); err != nil {
			return err
		}
		stage.Definitions.Set(it.Definition, it.Filename)
		if len(it.Export) > 0 {
			stage.Environment.Set(it.Export, it.Filename.String())
		}
	}
	return nil
}

/***************************************
 * Stages
 ***************************************/

func (r *Recipe) BuildStageTmpCompiler(ctx context.Context) error {
	base.LogClaim(LogRecipe, "stage_tmp_compiler")
	if !r.Options.HasProject(LLVMPROJECT_CLANG) {
		return fmt.Errorf("enable project clang for stage_tmp_compiler")
	}

	buildDir := r.Paths.StageTmpCompiler()
	if err := r.removeCMakeCache(buildDir); err != nil {
		return err
	}

	defs, err := r.ConfigureCMake(ctx, r.StageTmpCompilerProjects(), base.StringSet{}, SANITIZER_NONE)
	if err != nil {
		return err
	}
	setSharedLibs(defs, false)

	stage := r.newStage(STAGE_TMP_COMPILER, buildDir, defs)
	if err := r.Runner.Configure(ctx, stage); err != nil {
		return err
	}
	if err := r.Runner.Build(ctx, stage, "--", "-j"+strconv.Itoa(r.buildJobs())); err != nil {
		return err
	}

	// stage_tmp_compiler is never installed
	clang := buildDir.Folder("bin").File("clang")
	if !clang.Exists() && !r.DryRun {
		return fmt.Errorf("ERROR: Unable to find path: %v", clang)
	}
	return nil
}

func (r *Recipe) BuildStageRuntime(ctx context.Context) error {
	base.LogClaim(LogRecipe, "stage_runtime")

	buildDir := r.Paths.StageRuntime()
	if err := r.removeCMakeCache(buildDir); err != nil {
		return err
	}

	projects, err := r.StageRuntimeProjects()
	if err != nil {
		return err
	}

	base.LogVerbose(LogRecipe, "llvm_sanitizer_key = %v", r.Options.Sanitizer)
	defs, err := r.ConfigureCMake(ctx, projects, base.StringSet{}, r.Options.Sanitizer)
	if err != nil {
		return err
	}

	stage := r.newStage(STAGE_RUNTIME, buildDir, defs)
	if r.StageTmpCompilerEnabled() {
		if err := r.UseStageTmpCompiler(&stage); err != nil {
			return err
		}
	}

	jobs := "-j" + strconv.Itoa(r.buildJobs())
	for _, shared := range []bool{true, false} {
		setSharedLibs(stage.Definitions, shared)
		base.LogVerbose(LogRecipe, "stage_runtime pass with BUILD_SHARED_LIBS=%s", OnOff(shared))

		if err := r.Runner.Configure(ctx, stage); err != nil {
			return err
		}
		if err := r.Runner.Build(ctx, stage, "--", "cxx", "cxxabi", jobs); err != nil {
			return err
		}
		if err := r.Runner.Install(ctx, stage, "--", "cxx", "cxxabi"); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recipe) BuildStageLlvm(ctx context.Context) error {
	base.LogClaim(LogRecipe, "stage_llvm")

	buildDir := r.Paths.StageLlvm()
	if err := r.removeCMakeCache(buildDir); err != nil {
		return err
	}

	defs, err := r.ConfigureCMake(ctx, r.StageLlvmProjects(), base.StringSet{}, SANITIZER_NONE)
	if err != nil {
		return err
	}

	stage := r.newStage(STAGE_LLVM, buildDir, defs)
	if r.StageTmpCompilerEnabled() {
		if err := r.UseStageTmpCompiler(&stage); err != nil {
			return err
		}
	}

	if err := r.Runner.Configure(ctx, stage); err != nil {
		return err
	}
	if err := r.Runner.Build(ctx, stage, "--", "-j"+strconv.Itoa(r.buildJobs())); err != nil {
		return err
	}
	return r.Runner.Install(ctx, stage)
}

func (r *Recipe) BuildIwyu(ctx context.Context) error {
	base.LogClaim(LogRecipe, "stage iwyu")

	if !r.DryRun {
		if err := utils.UFS.MkdirEx(r.Paths.IwyuBuild()); err != nil {
			return err
		}
	}
	if !r.Options.IncludeWhatYouUse.Get() {
		return nil
	}

	source := r.Paths.IwyuSource()
	args := base.StringSet{"-B", "build", "-S", "."}
	args.Append(
		fmt.Sprintf("-DCMAKE_BUILD_TYPE=%v", r.Settings.BuildType),
		fmt.Sprintf("-DCMAKE_INSTALL_PREFIX=%v", r.Paths.Package),
		fmt.Sprintf("-DCMAKE_PREFIX_PATH=%v", r.Paths.IwyuBuild()),
		fmt.Sprintf("-DIWYU_LLVM_ROOT_PATH=%v", r.Paths.StageLlvm()))

	if err := r.Runner.Command(ctx, source, args...); err != nil {
		return err
	}

	build := source.Folder("build")
	if err := r.Runner.Command(ctx, build, "--build", ".", "--config", r.Settings.BuildType.Get()); err != nil {
		return err
	}
	return r.Runner.Command(ctx, build, "--build", ".", "--target", "install")
}
