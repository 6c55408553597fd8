package recipe

import (
	"io"
	"testing"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/utils"
)

func writeFile(t *testing.T, dst utils.Filename, content string) {
	t.Helper()
	if err := utils.UFS.Create(dst, func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	}); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, src utils.Filename) string {
	t.Helper()
	data, err := utils.UFS.ReadAll(src)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// populateStages lays out the minimal tree left by a successful build.
func populateStages(t *testing.T, r *Recipe) {
	t.Helper()
	llvm := r.Paths.StageLlvm()
	writeFile(t, llvm.File("bin", "clang"), "clang")
	writeFile(t, llvm.File("include", "llvm", "Config", "llvm-config.h"), "#define LLVM_VERSION_MAJOR 9")
	writeFile(t, llvm.File("tools", "clang", "include", "clang", "Config", "config.h"), "")
	writeFile(t, llvm.File("lib", "libLLVMCore.a"), "core")
	writeFile(t, llvm.File("lib", "libc++.a"), "uninstrumented")
	writeFile(t, llvm.File("libexec", "ccc-analyzer"), "")
	writeFile(t, r.Paths.LlvmSource().File("clang", "include", "clang", "Basic", "Version.h"), "")

	runtime := r.Paths.StageRuntime()
	writeFile(t, runtime.File("lib", "libc++.a"), "instrumented")
	writeFile(t, runtime.File("lib", "libc++abi.a"), "instrumented")
	writeFile(t, runtime.File("include", "c++", "v1", "iostream"), "// iostream")
}

func TestPackage_Assemble(t *testing.T) {
	r, _ := newTestRecipe(t, nil)
	r.Options.IncludeWhatYouUse = base.INHERITABLE_FALSE
	populateStages(t, r)

	if err := r.Package(); err != nil {
		t.Fatal(err)
	}

	pkg := r.Paths.Package
	for _, it := range []utils.Filename{
		pkg.File("bin", "clang"),
		pkg.File("include", "llvm", "Config", "llvm-config.h"),
		pkg.File("include", "c++", "v1", "iostream"),
		pkg.File("clang", "include", "clang", "Basic", "Version.h"),
		pkg.File("tools", "clang", "include", "clang", "Config", "config.h"),
		pkg.File("lib", "libLLVMCore.a"),
		pkg.File("libexec", "ccc-analyzer"),
	} {
		if !it.Exists() {
			t.Errorf("Package: missing %v", it)
		}
	}

	// packaging twice is a no-op
	if err := r.Package(); err != nil {
		t.Fatalf("Package: second run failed with %v", err)
	}
}

func TestPackage_MissingStage(t *testing.T) {
	r, _ := newTestRecipe(t, nil)
	expectError(t, r.Package(), "Unable to find path: "+r.Paths.StageLlvm().String())
}

func TestPackage_MissingIostream(t *testing.T) {
	r, _ := newTestRecipe(t, nil)
	r.Options.IncludeWhatYouUse = base.INHERITABLE_FALSE
	populateStages(t, r)
	if err := utils.UFS.Remove(r.Paths.StageRuntime().File("include", "c++", "v1", "iostream")); err != nil {
		t.Fatal(err)
	}

	expectError(t, r.Package(), "iostream")
}

func TestPackage_Sanitized(t *testing.T) {
	r, _ := newTestRecipe(t, nil)
	r.Options.Sanitizer = SANITIZER_ADDRESS
	r.Options.IncludeWhatYouUse = base.INHERITABLE_FALSE
	populateStages(t, r)
	writeFile(t, r.Paths.StageRuntime().File("lib", "clang", CLANG_VERSION, "lib", "linux", "libclang_rt.asan-x86_64.a"), "asan")

	if err := r.Package(); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, r.Paths.Package.File("lib", "libc++.a")); got != "instrumented" {
		t.Errorf("Package: sanitized libc++ should come from stage_runtime, got %q", got)
	}
	if got := readFile(t, r.Paths.Package.File("lib", "libLLVMCore.a")); got != "core" {
		t.Errorf("Package: unexpected libLLVMCore.a content %q", got)
	}
}

func TestCheckPackage_SanitizerRuntimes(t *testing.T) {
	r, _ := newTestRecipe(t, nil)
	r.Options.Sanitizer = SANITIZER_ADDRESS

	pkg := r.Paths.Package
	writeFile(t, pkg.File("include", "c++", "v1", "iostream"), "")
	writeFile(t, pkg.File("lib", "libLLVMCore.a"), "")
	expectError(t, r.CheckPackage(), "Unable to find *c++abi*")

	writeFile(t, pkg.File("lib", "libc++abi.so"), "")
	expectError(t, r.CheckPackage(), "Unable to find path: "+pkg.Folder("lib", "clang", CLANG_VERSION, "lib").String())

	// runtimes must be in a per-os subfolder
	clangLib := pkg.Folder("lib", "clang", CLANG_VERSION, "lib")
	writeFile(t, clangLib.File("libclang_rt.asan-x86_64.a"), "")
	expectError(t, r.CheckPackage(), "Unable to find *clang_rt.*asan*")

	writeFile(t, clangLib.File("linux", "libclang_rt.msan-x86_64.a"), "")
	if err := r.CheckPackage(); err != nil {
		t.Errorf("CheckPackage: unexpected error %v", err)
	}

	r.Options.Sanitizer = SANITIZER_NONE
	if err := utils.UFS.RemoveAll(pkg.Folder("lib")); err != nil {
		t.Fatal(err)
	}
	if err := r.CheckPackage(); err != nil {
		t.Errorf("CheckPackage: only iostream is required without sanitizer, got %v", err)
	}
}

func TestPackageIwyu(t *testing.T) {
	r, _ := newTestRecipe(t, nil)
	writeFile(t, r.Paths.IwyuSource().File("build", "bin", "include-what-you-use"), "iwyu")
	writeFile(t, r.Paths.IwyuBuild().File("bin", "iwyu_tool.py"), "tool")

	if err := r.PackageIwyu(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"include-what-you-use", "iwyu_tool.py"} {
		if !r.Paths.Package.File("bin", name).Exists() {
			t.Errorf("PackageIwyu: missing bin/%s", name)
		}
	}
}
