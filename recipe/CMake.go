package recipe

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/poppolopoppo/llvmboot/internal/base"
	internal_io "github.com/poppolopoppo/llvmboot/internal/io"
	"github.com/poppolopoppo/llvmboot/utils"
)

var LogCMake = base.NewLogCategory("CMake")

/***************************************
 * CMake definitions
 ***************************************/

type Definitions map[string]string

func NewDefinitions() Definitions {
	return make(Definitions)
}

func (x Definitions) Set(name string, value any) {
	x[name] = base.MakeString(value)
}
func (x Definitions) Get(name string) (string, bool) {
	value, ok := x[name]
	return value, ok
}
func (x Definitions) Names() []string {
	names := make([]string, 0, len(x))
	for name := range x {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommandLine formats every definition as -DNAME=VALUE, sorted by name.
func (x Definitions) CommandLine() (result base.StringSet) {
	for _, name := range x.Names() {
		result.Append(fmt.Sprintf("-D%s=%s", name, x[name]))
	}
	return
}
func (x Definitions) Print(w io.Writer) {
	for _, name := range x.Names() {
		fmt.Fprintf(w, "    %-48s = %q\n", name, x[name])
	}
}

/***************************************
 * CMake stage
 ***************************************/

type CMakeStage struct {
	Name        string
	SourceDir   utils.Directory
	BuildDir    utils.Directory
	Definitions Definitions
	Environment internal_io.ProcessEnvironment
}

func (x CMakeStage) String() string {
	return x.Name
}

// CMakeRunner drives external processes, tests substitute a recording fake.
type CMakeRunner interface {
	Configure(ctx context.Context, stage CMakeStage) error
	Build(ctx context.Context, stage CMakeStage, args ...string) error
	Install(ctx context.Context, stage CMakeStage, args ...string) error
	Command(ctx context.Context, workingDir utils.Directory, args ...string) error
	Patch(ctx context.Context, dir utils.Directory, patch utils.Filename) error
}

/***************************************
 * Process runner
 ***************************************/

type ProcessRunner struct {
	CMake     utils.Filename
	PatchTool utils.Filename
	Generator string
	BuildType string
}

func NewProcessRunner(buildType string) (*ProcessRunner, error) {
	cmake, err := internal_io.FindExecutable("cmake")
	if err != nil {
		return nil, fmt.Errorf("cmake not found in PATH: %w", err)
	}
	runner := &ProcessRunner{
		CMake:     cmake,
		Generator: "Unix Makefiles",
		BuildType: buildType,
	}
	if runtime.GOOS == "windows" {
		runner.Generator = "NMake Makefiles"
	}
	// patch is only needed when patches/ has content
	if patch, err := internal_io.FindExecutable("patch"); err == nil {
		runner.PatchTool = patch
	}
	return runner, nil
}

func (x *ProcessRunner) Configure(ctx context.Context, stage CMakeStage) error {
	if err := utils.UFS.MkdirEx(stage.BuildDir); err != nil {
		return err
	}

	args := base.StringSet{"-G", x.Generator}
	args.Append(stage.Definitions.CommandLine()...)
	args.Append(stage.SourceDir.String())

	base.LogInfo(LogCMake, "configure %v in %q", stage, stage.BuildDir)
	return internal_io.RunProcess(ctx, x.CMake, args,
		internal_io.OptionProcessWorkingDir(stage.BuildDir),
		internal_io.OptionProcessEnvironment(stage.Environment),
		internal_io.OptionProcessCaptureOutput)
}

func (x *ProcessRunner) Build(ctx context.Context, stage CMakeStage, args ...string) error {
	cmdline := base.StringSet{"--build", stage.BuildDir.String(), "--config", x.BuildType}
	cmdline.Append(args...)

	base.LogInfo(LogCMake, "build %v: %v", stage, strings.Join(args, " "))
	return internal_io.RunProcess(ctx, x.CMake, cmdline,
		internal_io.OptionProcessWorkingDir(stage.BuildDir),
		internal_io.OptionProcessEnvironment(stage.Environment),
		internal_io.OptionProcessCaptureOutput)
}

func (x *ProcessRunner) Install(ctx context.Context, stage CMakeStage, args ...string) error {
	cmdline := base.StringSet{"--build", stage.BuildDir.String(), "--config", x.BuildType, "--target", "install"}
	cmdline.Append(args...)

	base.LogInfo(LogCMake, "install %v: %v", stage, strings.Join(args, " "))
	return internal_io.RunProcess(ctx, x.CMake, cmdline,
		internal_io.OptionProcessWorkingDir(stage.BuildDir),
		internal_io.OptionProcessEnvironment(stage.Environment),
		internal_io.OptionProcessCaptureOutput)
}

func (x *ProcessRunner) Command(ctx context.Context, workingDir utils.Directory, args ...string) error {
	if err := utils.UFS.MkdirEx(workingDir); err != nil {
		return err
	}
	base.LogInfo(LogCMake, "cmake %v (in %q)", strings.Join(args, " "), workingDir)
	return internal_io.RunProcess(ctx, x.CMake, args,
		internal_io.OptionProcessWorkingDir(workingDir),
		internal_io.OptionProcessCaptureOutput)
}

// Patch applies a unified diff once: a patch which reverses cleanly is already applied.
func (x *ProcessRunner) Patch(ctx context.Context, dir utils.Directory, patch utils.Filename) error {
	if !x.PatchTool.Valid() {
		return fmt.Errorf("patch not found in PATH, needed to apply %q", patch)
	}

	reverse := base.StringSet{"-p1", "-R", "-s", "-f", "--dry-run", "-i", patch.String()}
	if err := internal_io.RunProcess(ctx, x.PatchTool, reverse, internal_io.OptionProcessWorkingDir(dir)); err == nil {
		base.LogVerbose(LogCMake, "patch %q already applied in %q", patch, dir)
		return nil
	}

	base.LogInfo(LogCMake, "patch is %q", patch)
	return internal_io.RunProcess(ctx, x.PatchTool, base.StringSet{"-p1", "-N", "-i", patch.String()},
		internal_io.OptionProcessWorkingDir(dir),
		internal_io.OptionProcessCaptureOutput)
}

/***************************************
 * Configure
 ***************************************/

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (r *Recipe) configureJobs() int { return maxInt(r.NumCpu-3, 1) }
func (r *Recipe) buildJobs() int     { return maxInt(r.NumCpu-2, 1) }

func (r *Recipe) applyPatches(ctx context.Context) error {
	if !r.Paths.Patches.Exists() {
		base.LogVeryVerbose(LogCMake, "no patches folder in %q", r.Paths.Patches)
		return nil
	}

	_, patches, err := utils.UFS.Scan(r.Paths.Patches)
	if err != nil {
		return err
	}

	compilerRt := r.Paths.CompilerRtSource()
	for _, patch := range patches {
		if err := r.Runner.Patch(ctx, compilerRt, patch); err != nil {
			return err
		}
	}
	return nil
}

// ConfigureCMake derives the definitions shared by every stage, projects and runtimes are ';' separated.
func (r *Recipe) ConfigureCMake(ctx context.Context, projects, runtimes base.StringSet, sanitizer SanitizerType) (Definitions, error) {
	defs := NewDefinitions()
	defs.Set("CMAKE_BUILD_TYPE", r.Settings.BuildType)
	defs.Set("CMAKE_INSTALL_PREFIX", r.Paths.Package)

	cpuCount := r.configureJobs()
	base.LogVerbose(LogCMake, "detected %d CPUs", cpuCount)

	defs.Set("LLVM_ENABLE_PROJECTS", projects.Join(";"))

	for _, jobs := range []struct {
		Name    string
		Default int
	}{
		{"LLVM_PARALLEL_COMPILE_JOBS", cpuCount},
		{"LLVM_COMPILER_JOBS", cpuCount},
		{"LLVM_PARALLEL_LINK_JOBS", 1},
	} {
		n, err := r.Env.Int(jobs.Name, jobs.Default)
		if err != nil {
			return nil, err
		}
		defs.Set(jobs.Name, strconv.Itoa(n))
	}

	if !runtimes.Empty() {
		defs.Set("LLVM_ENABLE_RUNTIMES", runtimes.Join(";"))
	}

	base.LogVerbose(LogCMake, "llvm_sanitizer = %v", sanitizer)
	if sanitizer.IsEnabled() {
		defs.Set("LLVM_USE_SANITIZER", sanitizer)
		if r.Env.Has("LLVM_ENABLE_LIBCXX") {
			defs.Set("LLVM_ENABLE_LIBCXX", "ON")
		}
		for _, name := range []string{
			"LLVM_TOOL_CLANG_TOOLS_EXTRA_BUILD",
			"LLVM_TOOL_OPENMP_BUILD",
			"CLANG_ENABLE_ARCMT",
			"CLANG_ENABLE_STATIC_ANALYZER",
			"CLANG_ENABLE_FORMAT",
			"CLANG_TOOL_CLANG_FORMAT_BUILD",
			"CLANG_TOOL_CLANG_FUZZER_BUILD",
		} {
			defs.Set(name, "OFF")
		}
	} else {
		defs.Set("LLVM_USE_SANITIZER", "")
		for _, name := range []string{
			"CLANG_ENABLE_STATIC_ANALYZER",
			"CLANG_TOOL_CLANG_CHECK_BUILD",
			"CLANG_PLUGIN_SUPPORT",
			"CLANG_TOOL_CLANG_FORMAT_BUILD",
			"CLANG_ENABLE_FORMAT",
			"CLANG_TOOL_CLANG_FUZZER_BUILD",
		} {
			defs.Set(name, r.Env.Flag(name, true))
		}
	}

	if instrumented := r.Env.Get("LLVM_BUILD_INSTRUMENTED", ""); len(instrumented) > 0 {
		defs.Set("LLVM_BUILD_INSTRUMENTED", instrumented)
	}

	defs.Set("LLVM_ENABLE_LTO", r.Options.Lto)
	defs.Set("LLVM_ENABLE_ZLIB", FlagToCMake(r.Options.LibZ))
	defs.Set("LLVM_ENABLE_THREADS", FlagToCMake(r.Options.Threads))
	defs.Set("LLVM_ENABLE_FFI", FlagToCMake(r.Options.LibFFI))

	if sanitizer.IsEnabled() {
		defs.Set("LLVM_BUILD_TOOLS", "OFF")
	} else {
		defs.Set("LLVM_BUILD_TOOLS", r.Env.Flag("LLVM_BUILD_TOOLS", true))
	}

	// msan requires instrumented clang_rt runtimes installed alongside clang
	buildSanitizers := r.Env.Get("COMPILER_RT_BUILD_SANITIZERS", "ON")
	defs.Set("COMPILER_RT_BUILD_SANITIZERS", buildSanitizers)
	if buildSanitizers != "ON" && r.Options.HasSanitizers() {
		return nil, fmt.Errorf("sanitizers require COMPILER_RT_BUILD_SANITIZERS=ON")
	}

	for _, it := range llvmEnv {
		if it.Default.IsInheritable() {
			continue
		}
		value := r.Env.Flag(it.Name, it.Default.Get())
		defs.Set(it.Name, value)
		base.LogVeryVerbose(LogCMake, "%s -> %s", it.Name, value)
	}

	defs.Set("BUILD_SHARED_LIBS", FlagToCMake(r.Options.Shared))

	if r.Options.Targets.Empty() {
		return nil, fmt.Errorf("enable some llvm targets")
	}
	defs.Set("LLVM_TARGETS_TO_BUILD", r.Options.Targets.Join(";"))

	pic := OnOff(r.Options.FPIC.Get() || r.Options.Shared.Get())
	defs.Set("LLVM_ENABLE_PIC", pic)
	defs.Set("CMAKE_POSITION_INDEPENDENT_CODE", pic)

	defs.Set("LLVM_ENABLE_RTTI", FlagToCMake(r.Options.Rtti))
	defs.Set("LLVM_ENABLE_UNWIND_TABLES", FlagToCMake(r.Options.UnwindTables))
	defs.Set("LLVM_ENABLE_EH", FlagToCMake(r.Options.Exceptions))

	sanitizersToBuild := r.Env.Get("LLVM_COMPILER_RT_SANITIZERS_TO_BUILD", DefaultCompilerRtSanitizers().Join(";"))
	for _, it := range strings.Split(sanitizersToBuild, ";") {
		if !compilerRtSanitizers.Contains(it) {
			return nil, fmt.Errorf("Unknown compiler_rt sanitizer: %s", it)
		}
	}
	defs.Set("COMPILER_RT_SANITIZERS_TO_BUILD", sanitizersToBuild)

	if assertions := r.Env.Get("LLVM_ENABLE_ASSERTIONS", ""); len(assertions) > 0 {
		defs.Set("LLVM_ENABLE_ASSERTIONS", FlagToCMake(assertions))
	} else {
		defs.Set("LLVM_ENABLE_ASSERTIONS", OnOff(r.Settings.IsBuildType("Debug")))
	}

	// sources are only patched once every definition was validated
	if err := r.applyPatches(ctx); err != nil {
		return nil, err
	}
	return defs, nil
}
