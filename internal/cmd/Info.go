package cmd

import (
	"fmt"
	"os"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/recipe"

	//lint:ignore ST1001 ignore dot imports warning
	. "github.com/poppolopoppo/llvmboot/utils"
)

const PackageInfoFilename = "llvmboot-info.json"

type InfoArgs struct {
	Output Filename
}

func (x *InfoArgs) Flags(cfv CommandFlagsVisitor) {
	cfv.Variable("Output", "write package info json to given file instead of stdout", &x.Output)
}

var infoArgs = &InfoArgs{}

var CommandInfo = NewCommand(
	"Package",
	"info",
	"print package info and package id as json",
	OptionCommandRecipe(),
	OptionCommandParsableFlags("InfoArgs", "package info options", infoArgs),
	OptionCommandRun(func(cc CommandContext) error {
		r, err := resolveRecipe(nil)
		if err != nil {
			return err
		}

		consumer := recipe.TestPackage{Env: r.Env}
		base.LogInfo(LogCmd, "CONAN_IMPORT_PATH=%v", consumer.ImportPath())

		info, err := r.PackageInfo()
		if err != nil {
			return err
		}

		if infoArgs.Output.Valid() {
			base.LogClaim(LogCmd, "write package info to %q", infoArgs.Output)
			return info.Save(infoArgs.Output)
		}
		return base.JsonSerialize(&info, os.Stdout, base.OptionJsonPrettyPrint(true))
	}),
)

var CommandEnvironment = NewCommand(
	"Package",
	"env",
	"print environment variables read by the recipe",
	OptionCommandRun(func(cc CommandContext) error {
		env := recipe.ProcessEnvironment()
		env.Print(func(name, value string, set bool) {
			if set {
				fmt.Fprintf(os.Stdout, "%-48s = %q\n", name, value)
			} else if base.IsLogLevelActive(base.LOG_VERBOSE) {
				fmt.Fprintf(os.Stdout, "%-48s   (unset)\n", name)
			}
		})
		return nil
	}),
)
