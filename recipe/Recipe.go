package recipe

import (
	"fmt"
	"strings"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

var LogRecipe = base.NewLogCategory("Recipe")

const (
	PACKAGE_NAME    = "llvm_9"
	PACKAGE_VERSION = "master"

	CLANG_VERSION = "9.0.1"

	LLVM_REPO_URL   = "https://github.com/llvm/llvm-project.git"
	LLVM_BRANCH     = "llvmorg-9.0.1"
	LLVM_SOURCE_DIR = "llvm_project"

	IWYU_REPO_URL   = "https://github.com/include-what-you-use/include-what-you-use.git"
	IWYU_BRANCH     = "clang_9.0"
	IWYU_SOURCE_DIR = "iwyu"

	CLONE_DEPTH = 100
)

// FlagToCMake returns ON for true, "on" or "true" (case-insensitive), OFF otherwise.
func FlagToCMake(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "ON"
		}
		return "OFF"
	case base.InheritableBool:
		return FlagToCMake(v.Get())
	case string:
		switch strings.ToLower(v) {
		case "on", "true":
			return "ON"
		}
		return "OFF"
	case fmt.Stringer:
		return FlagToCMake(v.String())
	default:
		return FlagToCMake(fmt.Sprint(v))
	}
}

func OnOff(enabled bool) string {
	return FlagToCMake(enabled)
}

// GetVersion appends $<name>_BUILD_NUMBER to version when set.
func GetVersion(env Environment, name, version string) string {
	if suffix := env.Get(fmt.Sprint(name, "_BUILD_NUMBER"), ""); len(suffix) > 0 {
		return version + suffix
	}
	return version
}

// GetBranch appends $<name>_<envName> to branch when set.
func GetBranch(env Environment, name, envName, branch string) string {
	if suffix := env.Get(fmt.Sprint(name, "_", envName), ""); len(suffix) > 0 {
		return branch + suffix
	}
	return branch
}

func GetPackageVersion(env Environment) string {
	return GetVersion(env, PACKAGE_NAME, PACKAGE_VERSION)
}
func GetLlvmBranch(env Environment) string {
	return GetBranch(env, PACKAGE_NAME, "llvm_version", LLVM_BRANCH)
}
func GetIwyuBranch(env Environment) string {
	return GetBranch(env, PACKAGE_NAME, "iwyu_version", IWYU_BRANCH)
}
