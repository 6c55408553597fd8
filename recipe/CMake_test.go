package recipe

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/utils"
)

func expectDefinition(t *testing.T, defs Definitions, name, expected string) {
	t.Helper()
	value, ok := defs.Get(name)
	if !ok {
		t.Errorf("definition %s: missing, expected %q", name, expected)
		return
	}
	if value != expected {
		t.Errorf("definition %s: expected %q, got %q", name, expected, value)
	}
}

func TestDefinitions_CommandLine(t *testing.T) {
	defs := NewDefinitions()
	defs.Set("LLVM_ENABLE_RTTI", "OFF")
	defs.Set("CMAKE_BUILD_TYPE", utils.StringVar("Release"))
	defs.Set("LLVM_PARALLEL_LINK_JOBS", 1)

	got := strings.Join(defs.CommandLine(), " ")
	expected := "-DCMAKE_BUILD_TYPE=Release -DLLVM_ENABLE_RTTI=OFF -DLLVM_PARALLEL_LINK_JOBS=1"
	if got != expected {
		t.Errorf("Definitions.CommandLine: expected %q, got %q", expected, got)
	}
}

func TestConfigureCMake_Defaults(t *testing.T) {
	r, runner := newTestRecipe(t, nil)

	defs, err := r.ConfigureCMake(context.Background(), base.StringSet{"clang", "lld"}, base.StringSet{}, SANITIZER_NONE)
	if err != nil {
		t.Fatal(err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("ConfigureCMake: unexpected runner calls %v", runner.calls)
	}

	expectDefinition(t, defs, "CMAKE_BUILD_TYPE", "Release")
	expectDefinition(t, defs, "CMAKE_INSTALL_PREFIX", r.Paths.Package.String())
	expectDefinition(t, defs, "LLVM_ENABLE_PROJECTS", "clang;lld")
	expectDefinition(t, defs, "LLVM_PARALLEL_COMPILE_JOBS", "5")
	expectDefinition(t, defs, "LLVM_COMPILER_JOBS", "5")
	expectDefinition(t, defs, "LLVM_PARALLEL_LINK_JOBS", "1")
	expectDefinition(t, defs, "LLVM_USE_SANITIZER", "")
	expectDefinition(t, defs, "CLANG_ENABLE_STATIC_ANALYZER", "ON")
	expectDefinition(t, defs, "CLANG_PLUGIN_SUPPORT", "ON")
	expectDefinition(t, defs, "LLVM_ENABLE_LTO", "Off")
	expectDefinition(t, defs, "LLVM_ENABLE_ZLIB", "ON")
	expectDefinition(t, defs, "LLVM_ENABLE_THREADS", "ON")
	expectDefinition(t, defs, "LLVM_ENABLE_FFI", "OFF")
	expectDefinition(t, defs, "LLVM_BUILD_TOOLS", "ON")
	expectDefinition(t, defs, "COMPILER_RT_BUILD_SANITIZERS", "ON")
	expectDefinition(t, defs, "BUILD_SHARED_LIBS", "ON")
	expectDefinition(t, defs, "LLVM_ENABLE_PIC", "ON")
	expectDefinition(t, defs, "CMAKE_POSITION_INDEPENDENT_CODE", "ON")
	expectDefinition(t, defs, "LLVM_ENABLE_RTTI", "OFF")
	expectDefinition(t, defs, "LLVM_ENABLE_UNWIND_TABLES", "ON")
	expectDefinition(t, defs, "LLVM_ENABLE_EH", "OFF")
	expectDefinition(t, defs, "COMPILER_RT_SANITIZERS_TO_BUILD", "asan;msan;tsan;safestack;cfi;esan")
	expectDefinition(t, defs, "LLVM_ENABLE_ASSERTIONS", "OFF")
	expectDefinition(t, defs, "LLVM_INCLUDE_TOOLS", "ON")
	expectDefinition(t, defs, "LLVM_INCLUDE_TESTS", "OFF")
	expectDefinition(t, defs, "LLVM_OPTIMIZED_TABLEGEN", "ON")

	for _, name := range []string{"LLVM_ENABLE_RUNTIMES", "LLVM_BUILD_INSTRUMENTED", "LLVM_ENABLE_LIBCXX", "LLVM_BUILD_RUNTIME", "PYTHON_EXECUTABLE"} {
		if _, ok := defs.Get(name); ok {
			t.Errorf("definition %s: should not be set", name)
		}
	}
}

func TestConfigureCMake_EnvironmentOverrides(t *testing.T) {
	r, _ := newTestRecipe(t, map[string]string{
		"LLVM_PARALLEL_LINK_JOBS":              "2",
		"LLVM_COMPILER_JOBS":                   "12",
		"CLANG_ENABLE_FORMAT":                  "false",
		"LLVM_BUILD_INSTRUMENTED":              "IR",
		"LLVM_BUILD_TOOLS":                     "off",
		"LLVM_USE_NEWPM":                       "on",
		"LLVM_INCLUDE_TOOLS":                   "OFF",
		"LLVM_COMPILER_RT_SANITIZERS_TO_BUILD": "asan;ubsan_minimal",
		"LLVM_ENABLE_ASSERTIONS":               "True",
	})
	r.NumCpu = 2
	r.Options.FPIC = base.INHERITABLE_FALSE
	r.Options.Shared = base.INHERITABLE_FALSE
	r.Options.Lto = LTO_THIN

	defs, err := r.ConfigureCMake(context.Background(), base.StringSet{"clang"}, base.StringSet{"libcxx", "libcxxabi"}, SANITIZER_NONE)
	if err != nil {
		t.Fatal(err)
	}

	expectDefinition(t, defs, "LLVM_PARALLEL_COMPILE_JOBS", "1")
	expectDefinition(t, defs, "LLVM_COMPILER_JOBS", "12")
	expectDefinition(t, defs, "LLVM_PARALLEL_LINK_JOBS", "2")
	expectDefinition(t, defs, "LLVM_ENABLE_RUNTIMES", "libcxx;libcxxabi")
	expectDefinition(t, defs, "CLANG_ENABLE_FORMAT", "OFF")
	expectDefinition(t, defs, "LLVM_BUILD_INSTRUMENTED", "IR")
	expectDefinition(t, defs, "LLVM_BUILD_TOOLS", "OFF")
	expectDefinition(t, defs, "LLVM_USE_NEWPM", "ON")
	expectDefinition(t, defs, "LLVM_INCLUDE_TOOLS", "OFF")
	expectDefinition(t, defs, "LLVM_ENABLE_LTO", "Thin")
	expectDefinition(t, defs, "LLVM_ENABLE_PIC", "OFF")
	expectDefinition(t, defs, "BUILD_SHARED_LIBS", "OFF")
	expectDefinition(t, defs, "COMPILER_RT_SANITIZERS_TO_BUILD", "asan;ubsan_minimal")
	expectDefinition(t, defs, "LLVM_ENABLE_ASSERTIONS", "ON")
}

func TestConfigureCMake_Sanitizer(t *testing.T) {
	r, _ := newTestRecipe(t, map[string]string{
		"LLVM_ENABLE_LIBCXX":          "1",
		"CLANG_PLUGIN_SUPPORT":        "ON",
		"LLVM_BUILD_TOOLS":            "ON",
		"CLANG_ENABLE_FORMAT":         "ON",
		"LLVM_ENABLE_OCAMLDOC":        "ON",
		"CLANG_INCLUDE_TESTS":         "off",
		"LLVM_STATIC_LINK_CXX_STDLIB": "ON",
	})
	r.Options.Sanitizer = SANITIZER_MEMORY_WITH_ORIGINS

	defs, err := r.ConfigureCMake(context.Background(), base.StringSet{"libcxx"}, base.StringSet{}, r.Options.Sanitizer)
	if err != nil {
		t.Fatal(err)
	}

	expectDefinition(t, defs, "LLVM_USE_SANITIZER", "MemoryWithOrigins")
	expectDefinition(t, defs, "LLVM_ENABLE_LIBCXX", "ON")
	for _, name := range []string{
		"LLVM_TOOL_CLANG_TOOLS_EXTRA_BUILD",
		"LLVM_TOOL_OPENMP_BUILD",
		"CLANG_ENABLE_ARCMT",
		"CLANG_ENABLE_STATIC_ANALYZER",
		"CLANG_ENABLE_FORMAT",
		"CLANG_TOOL_CLANG_FORMAT_BUILD",
		"CLANG_TOOL_CLANG_FUZZER_BUILD",
		"LLVM_BUILD_TOOLS",
	} {
		expectDefinition(t, defs, name, "OFF")
	}
	expectDefinition(t, defs, "LLVM_ENABLE_OCAMLDOC", "ON")
	// sanitized builds do not forward the plain clang switches
	if _, ok := defs.Get("CLANG_PLUGIN_SUPPORT"); ok {
		t.Errorf("definition CLANG_PLUGIN_SUPPORT: should not be set with a sanitizer")
	}
	if _, ok := defs.Get("LLVM_STATIC_LINK_CXX_STDLIB"); ok {
		t.Errorf("definition LLVM_STATIC_LINK_CXX_STDLIB: inherited entries are never forwarded")
	}

	// stage_llvm is configured without sanitizer even for sanitized recipes
	defs, err = r.ConfigureCMake(context.Background(), base.StringSet{"clang"}, base.StringSet{}, SANITIZER_NONE)
	if err != nil {
		t.Fatal(err)
	}
	expectDefinition(t, defs, "LLVM_USE_SANITIZER", "")
	if _, ok := defs.Get("LLVM_ENABLE_LIBCXX"); ok {
		t.Errorf("definition LLVM_ENABLE_LIBCXX: only set for sanitized stages")
	}
}

func TestConfigureCMake_Errors(t *testing.T) {
	for _, it := range []struct {
		Name  string
		Env   map[string]string
		Setup func(*Recipe)
		Error string
	}{
		{Name: "no targets",
			Setup: func(r *Recipe) { r.Options.Targets.Clear() },
			Error: "enable some llvm targets"},
		{Name: "unknown sanitizer",
			Env:   map[string]string{"LLVM_COMPILER_RT_SANITIZERS_TO_BUILD": "asan;leaky"},
			Error: "Unknown compiler_rt sanitizer: leaky"},
		{Name: "invalid jobs",
			Env:   map[string]string{"LLVM_PARALLEL_COMPILE_JOBS": "many"},
			Error: "invalid integer LLVM_PARALLEL_COMPILE_JOBS"},
		{Name: "sanitizers disabled",
			Env: map[string]string{"COMPILER_RT_BUILD_SANITIZERS": "OFF"},
			Setup: func(r *Recipe) {
				r.Options.Sanitizer = SANITIZER_THREAD
			},
			Error: "sanitizers require COMPILER_RT_BUILD_SANITIZERS=ON"},
	} {
		t.Run(it.Name, func(t *testing.T) {
			r, _ := newTestRecipe(t, it.Env)
			if it.Setup != nil {
				it.Setup(r)
			}
			_, err := r.ConfigureCMake(context.Background(), base.StringSet{"clang"}, base.StringSet{}, r.Options.Sanitizer)
			expectError(t, err, it.Error)
		})
	}
}

func TestConfigureCMake_AppliesPatches(t *testing.T) {
	r, runner := newTestRecipe(t, nil)

	for _, name := range []string{"0002-asan-flags.patch", "0001-msan-flags.patch"} {
		if err := utils.UFS.Create(r.Paths.Patches.File(name), func(w io.Writer) error {
			_, err := io.WriteString(w, "--- a/CMakeLists.txt\n+++ b/CMakeLists.txt\n")
			return err
		}); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := r.ConfigureCMake(context.Background(), base.StringSet{"compiler-rt"}, base.StringSet{}, SANITIZER_NONE); err != nil {
		t.Fatal(err)
	}
	expectCalls(t, runner,
		"patch[compiler-rt] 0001-msan-flags.patch",
		"patch[compiler-rt] 0002-asan-flags.patch")
}

func TestConfigureCMake_PatchFailure(t *testing.T) {
	r, runner := newTestRecipe(t, nil)
	runner.fail = "patch"

	if err := utils.UFS.Create(r.Paths.Patches.File("broken.patch"), func(w io.Writer) error { return nil }); err != nil {
		t.Fatal(err)
	}
	_, err := r.ConfigureCMake(context.Background(), base.StringSet{"clang"}, base.StringSet{}, SANITIZER_NONE)
	expectError(t, err, "patch[compiler-rt] broken.patch failed")
}

func TestConfigureCMake_ValidatesBeforePatching(t *testing.T) {
	for name, setup := range map[string]func(*Recipe){
		"unknown sanitizer": func(r *Recipe) {
			r.Env = MakeEnvironment(map[string]string{"LLVM_COMPILER_RT_SANITIZERS_TO_BUILD": "asan;leaky"})
		},
		"no targets": func(r *Recipe) { r.Options.Targets.Clear() },
	} {
		t.Run(name, func(t *testing.T) {
			r, runner := newTestRecipe(t, nil)
			setup(r)

			if err := utils.UFS.Create(r.Paths.Patches.File("0001-msan-flags.patch"), func(io.Writer) error { return nil }); err != nil {
				t.Fatal(err)
			}
			if _, err := r.ConfigureCMake(context.Background(), base.StringSet{"compiler-rt"}, base.StringSet{}, SANITIZER_NONE); err == nil {
				t.Fatal("ConfigureCMake: expected an error")
			}
			expectCalls(t, runner)
		})
	}
}
