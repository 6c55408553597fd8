package recipe

import (
	"fmt"
	"strconv"

	"github.com/xyproto/env/v2"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

/***************************************
 * Environment snapshot
 ***************************************/

type EnvironmentLookup = func(name string) (string, bool)

// Environment is an explicit view over process variables, passed by value.
type Environment struct {
	lookup EnvironmentLookup
}

// ProcessEnvironment reads variables through env/v2, which caches them on first access.
func ProcessEnvironment() Environment {
	return Environment{
		lookup: func(name string) (string, bool) {
			if env.Has(name) {
				return env.Str(name), true
			}
			return "", false
		},
	}
}

func MakeEnvironment(vars map[string]string) Environment {
	snapshot := make(map[string]string, len(vars))
	for k, v := range vars {
		snapshot[k] = v
	}
	return Environment{
		lookup: func(name string) (value string, ok bool) {
			value, ok = snapshot[name]
			return
		},
	}
}

// WithDefaults returns a view where variables missing from x are read from defaults.
func (x Environment) WithDefaults(defaults map[string]string) Environment {
	fallback := MakeEnvironment(defaults)
	return Environment{
		lookup: func(name string) (string, bool) {
			if value, ok := x.Lookup(name); ok {
				return value, true
			}
			return fallback.Lookup(name)
		},
	}
}

func (x Environment) Lookup(name string) (string, bool) {
	if x.lookup == nil {
		return "", false
	}
	return x.lookup(name)
}

// Has follows `if os.getenv(name):`, an empty variable counts as unset.
func (x Environment) Has(name string) bool {
	value, ok := x.Lookup(name)
	return ok && len(value) > 0
}

func (x Environment) Get(name, defaultValue string) string {
	if value, ok := x.Lookup(name); ok {
		return value
	}
	return defaultValue
}

// Flag converts the variable with FlagToCMake, or the default when unset.
func (x Environment) Flag(name string, defaultValue bool) string {
	if value, ok := x.Lookup(name); ok {
		return FlagToCMake(value)
	}
	return FlagToCMake(defaultValue)
}

func (x Environment) Int(name string, defaultValue int) (int, error) {
	if value, ok := x.Lookup(name); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue, fmt.Errorf("invalid integer %s=%q: %w", name, value, err)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// Print dumps every variable the recipe knows about, set or not.
func (x Environment) Print(each func(name, value string, set bool)) {
	for _, name := range GetKnownEnvironmentVariables() {
		value, ok := x.Lookup(name)
		each(name, value, ok)
	}
}

func GetKnownEnvironmentVariables() base.StringSet {
	result := base.StringSet{
		"LLVM_PARALLEL_COMPILE_JOBS",
		"LLVM_COMPILER_JOBS",
		"LLVM_PARALLEL_LINK_JOBS",
		"LLVM_ENABLE_LIBCXX",
		"CLANG_ENABLE_STATIC_ANALYZER",
		"CLANG_TOOL_CLANG_CHECK_BUILD",
		"CLANG_PLUGIN_SUPPORT",
		"CLANG_TOOL_CLANG_FORMAT_BUILD",
		"CLANG_ENABLE_FORMAT",
		"CLANG_TOOL_CLANG_FUZZER_BUILD",
		"LLVM_BUILD_INSTRUMENTED",
		"LLVM_BUILD_TOOLS",
		"COMPILER_RT_BUILD_SANITIZERS",
		"LLVM_COMPILER_RT_SANITIZERS_TO_BUILD",
		"LLVM_ENABLE_ASSERTIONS",
		"LLVM_stage_tmp_compiler_ENABLED",
		PACKAGE_NAME + "_BUILD_NUMBER",
		PACKAGE_NAME + "_llvm_version",
		PACKAGE_NAME + "_iwyu_version",
		"LLVM_CONAN_FORCE_INCLUDE_SETTINGS",
		"LLVM_CONAN_IGNORE_ARCH_BUILD",
		"LLVM_CONAN_IGNORE_ARCH",
		"LLVM_CONAN_IGNORE_COMPILER",
		"LLVM_PACKAGE_NAME",
		"CONAN_IMPORT_PATH",
	}
	for _, it := range llvmEnv {
		if !it.Default.IsInheritable() {
			result.Append(it.Name)
		}
	}
	return result
}
