package cmd

import (
	"github.com/poppolopoppo/llvmboot/internal/base"
	internal_io "github.com/poppolopoppo/llvmboot/internal/io"
	"github.com/poppolopoppo/llvmboot/recipe"
	"github.com/poppolopoppo/llvmboot/utils"
)

var LogRun = base.NewLogCategory("Run")

type RunCommand struct {
	Program    utils.StringVar
	Arguments  []utils.StringVar
	ShowOutput utils.BoolVar
}

var CommandRun = utils.NewCommandable(
	"Package",
	"run",
	"launch a program from the package bin folders",
	&RunCommand{
		ShowOutput: base.INHERITABLE_TRUE,
	})

func (x *RunCommand) Flags(cfv utils.CommandFlagsVisitor) {
	cfv.Variable("ShowOutput", "capture output of the program", &x.ShowOutput)
}
func (x *RunCommand) Init(ci utils.CommandContext) error {
	ci.Options(
		utils.OptionCommandParsableFlags("RunCommand", "control packaged program execution", x),
		utils.OptionCommandConsumeArg("Program", "program name, looked up in package bin dirs", &x.Program),
		utils.OptionCommandConsumeMany("Arguments", "pass given arguments to the program", &x.Arguments, utils.COMMANDARG_OPTIONAL),
	)
	return nil
}

// findPackagedProgram searches bin dirs in package_info order.
func findPackagedProgram(pkg utils.Directory, name string) (utils.Filename, bool) {
	for _, dir := range recipe.PackageBinDirs() {
		if f := pkg.Folder(dir).File(name); f.Exists() {
			return f, true
		}
	}
	return utils.Filename{}, false
}

func (x *RunCommand) Run(cc utils.CommandContext) error {
	base.LogClaim(LogRun, "run <%v>...", x.Program)

	pkg := recipe.GetRecipePaths().Package
	executable, ok := findPackagedProgram(pkg, x.Program.Get())
	if !ok {
		return base.MakeError("program %q not found in package %q", x.Program, pkg)
	}

	if x.ShowOutput.Get() {
		base.LogVeryVerbose(LogRun, "capturing output")
	}

	return internal_io.RunProcess(utils.CommandEnv.Context(), executable, base.MakeStringerSet(x.Arguments...),
		internal_io.OptionProcessExport("LD_LIBRARY_PATH", pkg.Folder("lib").String()),
		internal_io.OptionProcessCaptureOutputIf(x.ShowOutput.Get()),
		internal_io.OptionProcessWorkingDir(utils.UFS.Root))
}
