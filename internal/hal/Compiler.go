package hal

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/internal/io"
)

/***************************************
 * Host compiler detection
 ***************************************/

type HostCompiler struct {
	Name    string
	Version string
	Libcxx  string
}

func (x HostCompiler) String() string {
	return fmt.Sprintf("%s %s (%s)", x.Name, x.Version, x.Libcxx)
}

var re_clangMatchVersion = regexp.MustCompile(`(?m)(Apple )?(?:clang|LLVM) version (\d+(?:\.\d+)*)`)
var re_gccMatchVersion = regexp.MustCompile(`(?m)^(\d+(?:\.\d+)*)\s*$`)

// ParseClangVersion extracts the compiler name and version from `clang++ --version` output.
func ParseClangVersion(output string) (HostCompiler, error) {
	m := re_clangMatchVersion.FindStringSubmatch(output)
	if len(m) != 3 {
		return HostCompiler{}, fmt.Errorf("can't match clang version string: %q", output)
	}
	result := HostCompiler{Name: "clang", Version: m[2]}
	if len(m[1]) > 0 {
		result.Name = "apple-clang"
	}
	return result, nil
}

// ParseGccVersion extracts the version from `g++ -dumpfullversion` output.
func ParseGccVersion(output string) (HostCompiler, error) {
	m := re_gccMatchVersion.FindStringSubmatch(strings.TrimSpace(output))
	if len(m) != 2 {
		return HostCompiler{}, fmt.Errorf("can't match gcc version string: %q", output)
	}
	return HostCompiler{Name: "gcc", Version: m[1]}, nil
}

func defaultLibcxx(compiler string) string {
	switch {
	case runtime.GOOS == "darwin":
		return "libc++"
	case compiler == "Visual Studio" || compiler == "clang-cl":
		return ""
	default:
		return "libstdc++11"
	}
}

func probeCompiler(ctx context.Context, name string, args []string, parse func(string) (HostCompiler, error)) (HostCompiler, error) {
	executable, err := io.FindExecutable(name)
	if err != nil {
		return HostCompiler{}, err
	}
	output, err := io.RunProcessOutput(ctx, executable, args)
	if err != nil {
		return HostCompiler{}, err
	}
	return parse(output)
}

// DetectHostCompiler looks for clang first, then gcc, then clang-cl.
func DetectHostCompiler(ctx context.Context) (result HostCompiler, err error) {
	defer base.LogBenchmark(LogHAL, "DetectHostCompiler").Close()

	probes := []struct {
		Name  string
		Args  []string
		Parse func(string) (HostCompiler, error)
	}{
		{"clang++", []string{"--version"}, ParseClangVersion},
		{"g++", []string{"-dumpfullversion"}, ParseGccVersion},
		{"clang-cl", []string{"--version"}, func(s string) (HostCompiler, error) {
			hc, err := ParseClangVersion(s)
			hc.Name = "clang-cl"
			return hc, err
		}},
	}

	for _, it := range probes {
		if result, err = probeCompiler(ctx, it.Name, it.Args, it.Parse); err == nil {
			result.Libcxx = defaultLibcxx(result.Name)
			base.LogVerbose(LogHAL, "detected host compiler %v", result)
			return
		}
		base.LogDebug(LogHAL, "compiler probe %q failed: %v", it.Name, err)
	}

	return HostCompiler{}, fmt.Errorf("no supported host compiler found in PATH")
}
