package recipe

import (
	"sort"
	"strings"
	"testing"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

func TestPackageInfo_RequiresClang(t *testing.T) {
	r, _ := newTestRecipe(t, nil)
	r.Options.Projects.Remove(LLVMPROJECT_CLANG)

	_, err := r.PackageInfo()
	expectError(t, err, "enable project clang")
}

func TestPackageInfo_Linux(t *testing.T) {
	r, _ := newTestRecipe(t, map[string]string{"llvm_9_BUILD_NUMBER": ".3"})
	r.Options.Libs = base.StringSet{"LLVMSupport", "clangAST", "LLVMCore"}
	r.Settings.Compiler.Libcxx = "libstdc++"

	info, err := r.PackageInfo()
	if err != nil {
		t.Fatal(err)
	}

	if info.Name != PACKAGE_NAME || info.Version != "master.3" {
		t.Errorf("PackageInfo: unexpected name/version %s/%s", info.Name, info.Version)
	}
	// system libraries first, then llvm libraries in link order
	expected := "pthread unwind z m dl ncurses tinfo atomic LLVMCore LLVMSupport clangAST"
	if got := strings.Join(info.Libs, " "); got != expected {
		t.Errorf("PackageInfo.Libs:\n  expected %q\n  got      %q", expected, got)
	}
	for _, it := range []string{"include", "clang/include", "tools/clang/include", r.Paths.Package.String()} {
		if !info.IncludeDirs.Contains(it) {
			t.Errorf("PackageInfo.IncludeDirs: missing %q in %v", it, info.IncludeDirs)
		}
	}
	if !info.BinDirs.Contains("bin") || !info.LibDirs.Contains("lib") {
		t.Errorf("PackageInfo: unexpected dirs %v / %v", info.BinDirs, info.LibDirs)
	}
	if info.PackageId != r.PackageId() {
		t.Errorf("PackageInfo.PackageId: expected %v, got %v", r.PackageId(), info.PackageId)
	}
}

func TestPackageInfo_SystemLibs(t *testing.T) {
	for _, it := range []struct {
		Name     string
		Settings Settings
		Contains []string
		Excludes []string
	}{
		{Name: "linux libc++",
			Settings: testSettings(),
			Contains: []string{"pthread", "dl"},
			Excludes: []string{"atomic", "ws2_32"}},
		{Name: "linux clang 6 libstdc++",
			Settings: Settings{OsBuild: "Linux", BuildType: "Release", Compiler: CompilerSettings{Name: "clang", Version: "6.0", Libcxx: "libstdc++"}},
			Contains: []string{"pthread", "atomic"}},
		{Name: "macos apple-clang 9",
			Settings: Settings{OsBuild: "Macos", BuildType: "Release", Compiler: CompilerSettings{Name: "apple-clang", Version: "9.0", Libcxx: "libc++"}},
			Contains: []string{"atomic"},
			Excludes: []string{"pthread"}},
		{Name: "windows msvc",
			Settings: Settings{OsBuild: "Windows", BuildType: "Release", Compiler: CompilerSettings{Name: "Visual Studio", Version: "16"}},
			Contains: []string{"ws2_32", "Iphlpapi", "Crypt32"},
			Excludes: []string{"pthread", "atomic"}},
	} {
		t.Run(it.Name, func(t *testing.T) {
			r, _ := newTestRecipe(t, nil)
			r.Settings = it.Settings

			info, err := r.PackageInfo()
			if err != nil {
				t.Fatal(err)
			}
			for _, lib := range it.Contains {
				if !info.Libs.Contains(lib) {
					t.Errorf("PackageInfo.Libs: missing %q in %v", lib, info.Libs)
				}
			}
			for _, lib := range it.Excludes {
				if info.Libs.Contains(lib) {
					t.Errorf("PackageInfo.Libs: unexpected %q in %v", lib, info.Libs)
				}
			}
		})
	}
}

func TestPackageIdSettings(t *testing.T) {
	keys := func(settings map[string]string) string {
		result := make([]string, 0, len(settings))
		for k := range settings {
			result = append(result, k)
		}
		sort.Strings(result)
		return strings.Join(result, ",")
	}

	for _, it := range []struct {
		Name     string
		Env      map[string]string
		Windows  bool
		Expected string
	}{
		{Name: "default",
			Expected: "arch_build,build_type,os,os_build"},
		{Name: "windows",
			Windows:  true,
			Expected: "build_type,os,os_build"},
		{Name: "keep arch",
			Env:      map[string]string{"LLVM_CONAN_IGNORE_ARCH": "OFF"},
			Expected: "arch,arch_build,build_type,os,os_build"},
		{Name: "keep compiler",
			Env:      map[string]string{"LLVM_CONAN_IGNORE_COMPILER": "false"},
			Expected: "arch_build,build_type,compiler,compiler.cppstd,compiler.libcxx,compiler.version,os,os_build"},
		{Name: "exclude build settings",
			Env:      map[string]string{"LLVM_CONAN_FORCE_INCLUDE_SETTINGS": "OFF"},
			Expected: "build_type,os"},
	} {
		t.Run(it.Name, func(t *testing.T) {
			r, _ := newTestRecipe(t, it.Env)
			if it.Windows {
				r.Settings.OsBuild = "Windows"
			}
			if got := keys(r.PackageIdSettings()); got != it.Expected {
				t.Errorf("PackageIdSettings: expected %q, got %q", it.Expected, got)
			}
		})
	}
}

func TestPackageId(t *testing.T) {
	a, _ := newTestRecipe(t, nil)
	b, _ := newTestRecipe(t, nil)
	if a.PackageId() != b.PackageId() {
		t.Errorf("PackageId: expected a stable id")
	}

	// compiler is ignored by default
	b.Settings.Compiler.Version = "10"
	if a.PackageId() != b.PackageId() {
		t.Errorf("PackageId: compiler version should not change the id")
	}

	b.Options.Sanitizer = SANITIZER_ADDRESS
	if a.PackageId() == b.PackageId() {
		t.Errorf("PackageId: options should change the id")
	}

	c, _ := newTestRecipe(t, map[string]string{"LLVM_CONAN_IGNORE_COMPILER": "OFF"})
	c.Settings.Compiler.Version = "10"
	if a.PackageId() == c.PackageId() {
		t.Errorf("PackageId: compiler version should change the id when not ignored")
	}
}
