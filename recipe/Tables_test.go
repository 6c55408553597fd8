package recipe

import (
	"testing"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

func TestLlvmProjects_Set(t *testing.T) {
	var projects LlvmProjects
	if err := projects.Set("lld|clang||compiler-rt"); err != nil {
		t.Fatal(err)
	}
	if got := projects.Join(";"); got != "clang;compiler-rt;lld" {
		t.Errorf("LlvmProjects.Set: got %q", got)
	}
	if err := projects.Set("clang|fortran"); err == nil {
		t.Errorf("LlvmProjects.Set: expected an error for an unknown project")
	}
}

func TestLlvmProjects_Names(t *testing.T) {
	seen := base.StringSet{}
	for _, it := range GetLlvmProjects() {
		name := it.String()
		if len(name) == 0 || seen.Contains(name) {
			t.Errorf("LlvmProject(%d): invalid or duplicate name %q", it, name)
		}
		seen.Append(name)

		var parsed LlvmProject
		if err := parsed.Set(name); err != nil || parsed != it {
			t.Errorf("LlvmProject.Set(%q): got %v (%v)", name, parsed, err)
		}
	}
}

func TestLlvmTargets(t *testing.T) {
	if got := DefaultLlvmTargets().Join(";"); got != "X86" {
		t.Errorf("DefaultLlvmTargets: got %q", got)
	}
	var targets LlvmTargets
	if err := targets.Set("x86|aarch64|WebAssembly"); err != nil {
		t.Fatal(err)
	}
	if got := targets.Join(";"); got != "AArch64;WebAssembly;X86" {
		t.Errorf("LlvmTargets.Set: got %q", got)
	}
}

func TestSanitizerType(t *testing.T) {
	for _, it := range []struct {
		Input    string
		Expected SanitizerType
	}{
		{"Address", SANITIZER_ADDRESS},
		{"memory", SANITIZER_MEMORY},
		{"MemoryWithOrigins", SANITIZER_MEMORY_WITH_ORIGINS},
		{"Address+Undefined", SANITIZER_ADDRESS_UNDEFINED},
		{"Address;Undefined", SANITIZER_ADDRESS_UNDEFINED},
		{" None ", SANITIZER_NONE},
	} {
		var parsed SanitizerType
		if err := parsed.Set(it.Input); err != nil || parsed != it.Expected {
			t.Errorf("SanitizerType.Set(%q): expected %v, got %v (%v)", it.Input, it.Expected, parsed, err)
		}
	}

	if SANITIZER_NONE.IsEnabled() || SANITIZER_INHERIT.IsEnabled() || !SANITIZER_THREAD.IsEnabled() {
		t.Errorf("SanitizerType.IsEnabled: wrong result")
	}
	if !SANITIZER_MEMORY_WITH_ORIGINS.IsMemory() || SANITIZER_ADDRESS.IsMemory() {
		t.Errorf("SanitizerType.IsMemory: wrong result")
	}
}

func TestLtoType(t *testing.T) {
	var lto LtoType
	if err := lto.Set("thin"); err != nil || lto != LTO_THIN {
		t.Errorf("LtoType.Set: expected Thin, got %v (%v)", lto, err)
	}
	if err := lto.Set("partial"); err == nil {
		t.Errorf("LtoType.Set: expected an error")
	}
}

func TestLlvmLibs(t *testing.T) {
	libs := GetLlvmLibs()
	for _, it := range []string{"LLVMCore", "LLVMSupport", "clangAST"} {
		if !libs.Contains(it) {
			t.Errorf("GetLlvmLibs: missing %q", it)
		}
	}

	options := DefaultOptions()
	options.Libs = base.StringSet{"clangAST", "LLVMSupport", "NotALib"}
	if got := options.EnabledLibs().Join(","); got != "LLVMSupport,clangAST" {
		t.Errorf("Options.EnabledLibs: got %q", got)
	}
}

func TestFindLlvmEnv(t *testing.T) {
	it, ok := FindLlvmEnv("COMPILER_RT_BUILD_CRT")
	if !ok || it.Default != base.INHERITABLE_FALSE {
		t.Errorf("FindLlvmEnv: unexpected entry %v", it)
	}
	if _, ok := FindLlvmEnv("LLVM_ENABLE_MAGIC"); ok {
		t.Errorf("FindLlvmEnv: unexpected entry for an unknown variable")
	}
	for _, it := range GetCompilerRtSanitizers() {
		if len(it) == 0 {
			t.Errorf("GetCompilerRtSanitizers: empty entry")
		}
	}
}
