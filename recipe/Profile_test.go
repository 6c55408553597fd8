package recipe

import (
	"runtime"
	"testing"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/utils"
)

const testProfile = `
recipe {
  sanitizer = "Address+Undefined"
  lto       = "Thin"
  projects  = ["clang", "compiler-rt", "libcxx", "libcxxabi"]
  targets   = ["X86", "AArch64"]
  libs      = ["LLVMCore", "LLVMSupport"]
  shared    = host.os == "NotAnOs"
  include_what_you_use = false
}

settings {
  compiler         = "clang"
  compiler_version = "9"
  cppstd           = "17"
}

env = {
  LLVM_BUILD_TOOLS = "OFF"
  LLVM_PARALLEL_LINK_JOBS = "${host.cores > 0 ? 2 : 1}"
}
`

func TestParseProfile(t *testing.T) {
	profile, err := ParseProfile([]byte(testProfile), "test.hcl")
	if err != nil {
		t.Fatal(err)
	}

	options := DefaultOptions()
	if err := profile.ApplyOptions(&options); err != nil {
		t.Fatal(err)
	}

	if options.Sanitizer != SANITIZER_ADDRESS_UNDEFINED {
		t.Errorf("Profile: expected Address;Undefined sanitizer, got %v", options.Sanitizer)
	}
	if options.Lto != LTO_THIN {
		t.Errorf("Profile: expected Thin LTO, got %v", options.Lto)
	}
	if got := options.Projects.Join(";"); got != "clang;compiler-rt;libcxx;libcxxabi" {
		t.Errorf("Profile: unexpected projects %q", got)
	}
	if got := options.Targets.Join(";"); got != "AArch64;X86" {
		t.Errorf("Profile: unexpected targets %q", got)
	}
	if got := options.Libs.Join(","); got != "LLVMCore,LLVMSupport" {
		t.Errorf("Profile: unexpected libs %q", got)
	}
	if options.Shared.Get() {
		t.Errorf("Profile: shared should evaluate to false")
	}
	if options.IncludeWhatYouUse.Get() {
		t.Errorf("Profile: include_what_you_use should be disabled")
	}
	// attributes missing from the profile keep their defaults
	if !options.LibZ.Get() || options.Rtti.Get() {
		t.Errorf("Profile: defaults were overwritten, libz=%v rtti=%v", options.LibZ, options.Rtti)
	}

	var settings Settings
	if err := profile.ApplySettings(&settings); err != nil {
		t.Fatal(err)
	}
	if settings.Compiler.Name.Get() != "clang" || settings.Compiler.Version.Get() != "9" || settings.Compiler.Cppstd.Get() != "17" {
		t.Errorf("Profile: unexpected settings %v", settings)
	}
	if !settings.Compiler.Libcxx.IsInheritable() || !settings.OsBuild.IsInheritable() {
		t.Errorf("Profile: missing settings should stay inheritable, got %v", settings)
	}

	env := profile.ApplyEnvironment(MakeEnvironment(map[string]string{"LLVM_BUILD_TOOLS": "ON"}))
	if got := env.Get("LLVM_BUILD_TOOLS", ""); got != "ON" {
		t.Errorf("Profile: process environment should win, got %q", got)
	}
	if got := env.Get("LLVM_PARALLEL_LINK_JOBS", ""); got != "2" {
		t.Errorf("Profile: expected LLVM_PARALLEL_LINK_JOBS=2, got %q", got)
	}
}

func TestParseProfile_HostVariables(t *testing.T) {
	profile, err := ParseProfile([]byte(`recipe {
  shared = host.os == "`+GetOsName(runtime.GOOS)+`"
}`), "host.hcl")
	if err != nil {
		t.Fatal(err)
	}

	var options Options
	if err := profile.ApplyOptions(&options); err != nil {
		t.Fatal(err)
	}
	if options.Shared != base.INHERITABLE_TRUE {
		t.Errorf("Profile: host.os should match %q, got shared=%v", GetOsName(runtime.GOOS), options.Shared)
	}
	if !options.Sanitizer.IsInheritable() || !options.Projects.IsInheritable() {
		t.Errorf("Profile: missing attributes should stay inheritable")
	}
}

func TestParseProfile_Errors(t *testing.T) {
	for _, it := range []struct {
		Name   string
		Source string
		Error  string
	}{
		{"syntax", `recipe {`, "failed to parse HCL profile"},
		{"unknown attribute", `recipe { color = "blue" }`, "failed to decode HCL profile"},
		{"wrong type", `recipe { shared = [] }`, "failed to decode HCL profile"},
	} {
		t.Run(it.Name, func(t *testing.T) {
			_, err := ParseProfile([]byte(it.Source), "broken.hcl")
			expectError(t, err, it.Error)
		})
	}

	for _, it := range []struct {
		Name   string
		Source string
		Error  string
	}{
		{"unknown lib", `recipe { libs = ["LLVMCore", "LLVMUnicorn"] }`, `unknown llvm library "LLVMUnicorn"`},
		{"unknown project", `recipe { projects = ["clang", "flang-next"] }`, "flang-next"},
		{"unknown sanitizer", `recipe { sanitizer = "Leak" }`, "Leak"},
	} {
		t.Run(it.Name, func(t *testing.T) {
			profile, err := ParseProfile([]byte(it.Source), "invalid.hcl")
			if err != nil {
				t.Fatal(err)
			}
			options := DefaultOptions()
			expectError(t, profile.ApplyOptions(&options), it.Error)
		})
	}
}

func TestRecipeFlags_ResolveOptions(t *testing.T) {
	profile := utils.MakeDirectory(t.TempDir()).File("asan.hcl")
	writeFile(t, profile, `
recipe {
  sanitizer = "Address"
  shared    = false
  rtti      = true
}
settings {
  compiler = "clang"
}
env = {
  LLVM_ENABLE_LIBCXX = "ON"
}
`)

	flags := RecipeFlags{Profile: profile}
	flags.Options.Shared = base.INHERITABLE_TRUE
	flags.Settings.Compiler.Version = "10"

	options, settings, env, err := flags.ResolveOptions(MakeEnvironment(nil))
	if err != nil {
		t.Fatal(err)
	}

	if options.Sanitizer != SANITIZER_ADDRESS {
		t.Errorf("ResolveOptions: profile sanitizer was lost, got %v", options.Sanitizer)
	}
	if !options.Shared.Get() {
		t.Errorf("ResolveOptions: command-line flags should override the profile")
	}
	if !options.Rtti.Get() {
		t.Errorf("ResolveOptions: profile rtti was lost")
	}
	if !options.LibZ.Get() || options.Targets != DefaultLlvmTargets() {
		t.Errorf("ResolveOptions: defaults were lost")
	}
	if settings.Compiler.Name.Get() != "clang" || settings.Compiler.Version.Get() != "10" {
		t.Errorf("ResolveOptions: unexpected settings %v", settings)
	}
	if !env.Has("LLVM_ENABLE_LIBCXX") {
		t.Errorf("ResolveOptions: profile environment was lost")
	}
}

func TestRecipeFlags_MissingProfile(t *testing.T) {
	flags := RecipeFlags{Profile: utils.MakeDirectory(t.TempDir()).File("missing.hcl")}
	if _, _, _, err := flags.ResolveOptions(MakeEnvironment(nil)); err == nil {
		t.Errorf("ResolveOptions: expected an error for a missing profile")
	}
}

func TestRecipeFlags_UnknownLibs(t *testing.T) {
	var flags RecipeFlags
	if err := flags.Options.Libs.Set("LLVMCore, LLVMNope"); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := flags.ResolveOptions(MakeEnvironment(nil))
	expectError(t, err, `unknown llvm library "LLVMNope"`)

	if err := flags.Options.Libs.Set("LLVMCore,LLVMSupport"); err != nil {
		t.Fatal(err)
	}
	options, _, _, err := flags.ResolveOptions(MakeEnvironment(nil))
	if err != nil {
		t.Fatal(err)
	}
	if libs := options.EnabledLibs().Join(","); libs != "LLVMCore,LLVMSupport" {
		t.Errorf("ResolveOptions: unexpected libs %q", libs)
	}
}
