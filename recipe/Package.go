package recipe

import (
	"fmt"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/utils"
)

/***************************************
 * Package
 ***************************************/

func (r *Recipe) copyTree(src, dst utils.Directory) error {
	base.LogVerbose(LogRecipe, "copying %q into %q", src, dst)
	return utils.UFS.CopyTree(src, dst)
}

func (r *Recipe) PackageStageLlvm() error {
	stageLlvm := r.Paths.StageLlvm()
	if !stageLlvm.Exists() {
		return fmt.Errorf("Unable to find path: %v", stageLlvm)
	}

	pkg := r.Paths.Package
	for _, it := range []struct {
		Src utils.Directory
		Dst utils.Directory
	}{
		{stageLlvm.Folder("bin"), pkg.Folder("bin")},
		{stageLlvm.Folder("include"), pkg.Folder("include")},
		{r.Paths.LlvmSource().Folder("clang"), pkg.Folder("clang")},
		{stageLlvm.Folder("tools"), pkg.Folder("tools")},
		{stageLlvm.Folder("lib"), pkg.Folder("lib")},
		{stageLlvm.Folder("libexec"), pkg.Folder("libexec")},
	} {
		if err := r.copyTree(it.Src, it.Dst); err != nil {
			return err
		}
	}

	stageRuntime := r.Paths.StageRuntime()
	if !stageRuntime.Exists() {
		return fmt.Errorf("Unable to find path: %v", stageRuntime)
	}

	// libc++ from stage_llvm is not instrumented, stage_runtime provides it
	if r.Options.HasSanitizers() {
		libcxx, err := utils.UFS.Glob(pkg.Folder("lib"), false, "*c++*")
		if err != nil {
			return err
		}
		for _, it := range libcxx {
			base.LogVerbose(LogRecipe, "removing %q", it)
			if err := utils.UFS.Remove(it); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Recipe) PackageStageRuntime() error {
	stageRuntime := r.Paths.StageRuntime()
	pkg := r.Paths.Package

	if err := r.copyTree(stageRuntime.Folder("lib"), pkg.Folder("lib")); err != nil {
		return err
	}
	for _, name := range []string{"libexec", "include"} {
		if src := stageRuntime.Folder(name); src.Exists() {
			if err := r.copyTree(src, pkg.Folder(name)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Recipe) PackageIwyu() error {
	if !r.Options.IncludeWhatYouUse.Get() {
		return nil
	}

	bin := r.Paths.Package.Folder("bin")
	if err := r.copyTree(r.Paths.IwyuSource().Folder("build", "bin"), bin); err != nil {
		return err
	}
	if iwyuBin := r.Paths.IwyuBuild().Folder("bin"); iwyuBin.Exists() {
		return r.copyTree(iwyuBin, bin)
	}
	return nil
}

// CheckPackage verifies the package is usable, sanitized packages also need instrumented runtimes.
func (r *Recipe) CheckPackage() error {
	pkg := r.Paths.Package

	iostream := pkg.Folder("include", "c++", "v1").File("iostream")
	if !iostream.Exists() {
		return fmt.Errorf("Unable to find path: %v", iostream)
	}

	if !r.Options.HasSanitizers() {
		return nil
	}

	lib := pkg.Folder("lib")
	cxxabi, err := utils.UFS.Glob(lib, false, "*c++abi*")
	if err != nil {
		return err
	}
	if len(cxxabi) == 0 {
		return fmt.Errorf("Unable to find *c++abi* in %v", lib)
	}

	clangLib := lib.Folder("clang", CLANG_VERSION, "lib")
	if !clangLib.Exists() {
		return fmt.Errorf("Unable to find path: %v", clangLib)
	}

	// runtimes live in a per-os subfolder, i.e. lib/clang/9.0.1/lib/linux
	runtimes, err := utils.UFS.Glob(clangLib, true, "*clang_rt.*san*")
	if err != nil {
		return err
	}
	for _, it := range runtimes {
		if it.Dirname.Parent().Equals(clangLib) {
			base.LogVerbose(LogRecipe, "found sanitizer runtime %q", it)
			return nil
		}
	}
	return fmt.Errorf("Unable to find *clang_rt.*asan* in %v", clangLib)
}

func (r *Recipe) Package() error {
	bench := base.LogBenchmark(LogRecipe, "package")
	defer bench.Close()

	base.LogClaim(LogRecipe, "package %q", r.Paths.Package)
	for _, step := range []func() error{
		r.PackageStageLlvm,
		r.PackageStageRuntime,
		r.PackageIwyu,
		r.CheckPackage,
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
