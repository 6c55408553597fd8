package recipe

import (
	"context"

	"github.com/poppolopoppo/llvmboot/internal/base"
	internal_io "github.com/poppolopoppo/llvmboot/internal/io"
	"github.com/poppolopoppo/llvmboot/utils"
)

/***************************************
 * Test package
 ***************************************/

type TestPackage struct {
	SourceDir utils.Directory
	BuildDir  utils.Directory
	Env       Environment
	Runner    CMakeRunner
}

func (x TestPackage) PackageName() string {
	return x.Env.Get("LLVM_PACKAGE_NAME", PACKAGE_NAME)
}

func (x TestPackage) Definitions(pkg utils.Directory) Definitions {
	defs := NewDefinitions()
	defs.Set("CONAN_DISABLE_CHECK_COMPILER", "ON")
	defs.Set("CMAKE_C_COMPILER_FORCED", "TRUE")
	defs.Set("CMAKE_CXX_COMPILER_FORCED", "TRUE")
	defs.Set("LLVM_PACKAGE_NAME", x.PackageName())
	defs.Set("CMAKE_PREFIX_PATH", pkg)
	return defs
}

// ImportPath is where the consumer would deploy package binaries.
func (x TestPackage) ImportPath() string {
	return x.Env.Get("CONAN_IMPORT_PATH", "bin")
}

func (x TestPackage) Build(ctx context.Context, pkg utils.Directory) error {
	base.LogClaim(LogRecipe, "test_package %q", x.SourceDir)
	base.LogVerbose(LogRecipe, "CONAN_IMPORT_PATH=%v", x.ImportPath())

	stage := CMakeStage{
		Name:        "test_package",
		SourceDir:   x.SourceDir,
		BuildDir:    x.BuildDir,
		Definitions: x.Definitions(pkg),
		Environment: internal_io.NewProcessEnvironment(),
	}
	if err := x.Runner.Configure(ctx, stage); err != nil {
		return err
	}
	return x.Runner.Build(ctx, stage)
}

// Run executes bin/test_package with the package libraries visible to the loader.
func (x TestPackage) Run(ctx context.Context, pkg utils.Directory) error {
	executable := x.BuildDir.Folder("bin").File("test_package")
	base.LogInfo(LogRecipe, "run %q", executable)

	return internal_io.RunProcess(ctx, executable, base.StringSet{},
		internal_io.OptionProcessWorkingDir(x.BuildDir),
		internal_io.OptionProcessExport("LD_LIBRARY_PATH", pkg.Folder("lib").String()),
		internal_io.OptionProcessExport("DYLD_LIBRARY_PATH", pkg.Folder("lib").String()),
		internal_io.OptionProcessCaptureOutput)
}

func (x TestPackage) Test(ctx context.Context, pkg utils.Directory) error {
	if err := x.Build(ctx, pkg); err != nil {
		return err
	}
	return x.Run(ctx, pkg)
}
