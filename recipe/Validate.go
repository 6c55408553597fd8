package recipe

import (
	"fmt"
	"strconv"
	"strings"
)

/***************************************
 * Validation
 ***************************************/

type InvalidConfigurationError struct {
	Reason string
}

func (x InvalidConfigurationError) Error() string {
	return fmt.Sprint("invalid configuration: ", x.Reason)
}

func invalidConfiguration(format string, args ...interface{}) error {
	return InvalidConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// Validate rejects unsupported option and settings combinations before any build step.
func Validate(options Options, settings Settings) error {
	if options.Exceptions.Get() && !options.Rtti.Get() {
		return invalidConfiguration("Cannot enable exceptions without rtti support")
	}

	if err := checkSupportedCompiler(settings.Compiler); err != nil {
		return err
	}

	if !settings.IsBuildType("Release") {
		return invalidConfiguration("This library is compatible only with Release builds. Debug build of llvm may take a lot of time or crash due to lack of RAM or CPU")
	}

	if !options.HasProject(LLVMPROJECT_COMPILER_RT) && options.HasSanitizers() {
		return invalidConfiguration("sanitizers require compiler-rt")
	}

	if options.Sanitizer.IsMemory() && !options.Shared.Get() {
		return invalidConfiguration("Static linking is not supported with MemorySanitizer.")
	}

	// all code must be instrumented, including the C++ standard library
	if options.HasSanitizers() && !options.HasProject(LLVMPROJECT_LIBCXX) {
		return invalidConfiguration("Sanitizer requires libcxx project.")
	}

	if cppstd := settings.Compiler.Cppstd.Get(); len(cppstd) > 0 && !settings.Compiler.Cppstd.IsInheritable() {
		if err := checkMinCppstd(cppstd, 14); err != nil {
			return err
		}
	}

	if settings.Compiler.Name.Get() == "Visual Studio" && CompareVersions(settings.Compiler.Version.Get(), "19.1") < 0 {
		return invalidConfiguration("Need MSVC >= 19.1")
	}

	if options.HasSanitizers() {
		switch settings.Compiler.Name.Get() {
		case "clang", "apple-clang", "clang-cl":
		default:
			return invalidConfiguration("Sanitized package is only compatible with clang")
		}
	}

	if options.IncludeWhatYouUse.Get() && options.HasSanitizers() {
		return invalidConfiguration("disable include_what_you_use when sanitizers enabled")
	}

	return nil
}

func checkSupportedCompiler(compiler CompilerSettings) error {
	name, version := compiler.Name.Get(), compiler.Version.Get()
	majorStr, minorStr := VersionMajorMinor(version)
	major, _ := strconv.Atoi(majorStr)
	minor, _ := strconv.Atoi(minorStr)

	unsupported := false
	switch name {
	case "gcc":
		unsupported = (major == 5 && minor < 1) || major < 5
	case "clang":
		unsupported = major < 4
	case "apple-clang":
		unsupported = major < 9
	case "Visual Studio":
		unsupported = major < 15
	}

	if unsupported {
		return invalidConfiguration("unsupported compiler: %q, version %q", name, version)
	}
	return nil
}

func checkMinCppstd(cppstd string, minimum int) error {
	value := strings.TrimPrefix(strings.ToLower(cppstd), "gnu")
	std, err := strconv.Atoi(value)
	if err != nil {
		return invalidConfiguration("unknown cppstd %q", cppstd)
	}
	// 98 sorts after 2x in numbers but not in time
	if std == 98 || std < minimum {
		return invalidConfiguration("Current cppstd (%s) is lower than the required C++ standard (%d).", cppstd, minimum)
	}
	return nil
}
