package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/recipe"

	//lint:ignore ST1001 ignore dot imports warning
	. "github.com/poppolopoppo/llvmboot/utils"
)

type CompletionArgs struct {
	Inputs []StringVar
	Output Filename
}

func (flags *CompletionArgs) Flags(cfv CommandFlagsVisitor) {
	cfv.Variable("Output", "optional output file", &flags.Output)
}

func optionCommandCompletionArgs(args *CompletionArgs) []CommandOptionFunc {
	return []CommandOptionFunc{
		OptionCommandParsableFlags("CompletionArgs", "control completion command output", args),
		OptionCommandConsumeMany("Input", "filter output with given globs", &args.Inputs, COMMANDARG_OPTIONAL),
	}
}

func openCompletion(args *CompletionArgs, closure func(io.Writer) error) error {
	base.LogVerbose(LogCmd, "completion input parameters = %v", args.Inputs)
	if args.Output.Valid() {
		base.LogInfo(LogCmd, "export completion results to %q...", args.Output)
		return UFS.CreateBuffered(args.Output, closure)
	}
	return closure(os.Stdout)
}

func filterCompletion(args *CompletionArgs, output func(string), in ...string) {
	sort.Strings(in)
	if len(args.Inputs) == 0 {
		for _, x := range in {
			output(x)
		}
		return
	}

	globs := make([]string, len(args.Inputs))
	for i, it := range args.Inputs {
		globs[i] = it.Get()
	}
	re := MakeGlobRegexp(globs...)
	for _, x := range in {
		if re.MatchString(x) {
			output(x)
		}
	}
}

func printCompletion(args *CompletionArgs, in ...string) error {
	return openCompletion(args, func(w io.Writer) error {
		filterCompletion(args, func(s string) {
			fmt.Fprintln(w, s)
		}, in...)
		return nil
	})
}

func newListCommand(name, description string, values func() []string) func() CommandItem {
	args := &CompletionArgs{}
	options := append(optionCommandCompletionArgs(args),
		OptionCommandRun(func(cc CommandContext) error {
			return printCompletion(args, values()...)
		}))
	return NewCommand("Metadata", name, description, options...)
}

var ListCommands = newListCommand("list-commands", "list all available commands", func() (result []string) {
	for _, it := range GetAllCommands() {
		result = append(result, it.Details().Name)
	}
	return
})

var ListProjects = newListCommand("list-projects", "list llvm projects accepted by -Projects", func() []string {
	return base.MakeStringerSet(recipe.GetLlvmProjects()...)
})

var ListTargets = newListCommand("list-targets", "list llvm targets accepted by -Targets", func() []string {
	return base.MakeStringerSet(recipe.GetLlvmTargets()...)
})

var ListLibs = newListCommand("list-libs", "list llvm libraries accepted by -Libs", func() []string {
	return recipe.GetLlvmLibs()
})

var ListSanitizers = newListCommand("list-sanitizers", "list compiler-rt sanitizers accepted by LLVM_COMPILER_RT_SANITIZERS_TO_BUILD", func() []string {
	return recipe.GetCompilerRtSanitizers()
})

var ListEnv = newListCommand("list-env", "list llvm_env variables forwarded to cmake", func() (result []string) {
	for _, it := range recipe.GetLlvmEnv() {
		result = append(result, fmt.Sprintf("%s=%v", it.Name, it.Default))
	}
	return
})
