package recipe

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/internal/hal"
	"github.com/poppolopoppo/llvmboot/utils"
)

/***************************************
 * Settings
 ***************************************/

type CompilerSettings struct {
	Name    utils.StringVar
	Version utils.StringVar
	Libcxx  utils.StringVar
	Cppstd  utils.StringVar
}

type Settings struct {
	OsBuild   utils.StringVar
	Arch      utils.StringVar
	ArchBuild utils.StringVar
	BuildType utils.StringVar
	Compiler  CompilerSettings
}

func (x *Settings) Flags(cfv utils.CommandFlagsVisitor) {
	cfv.Persistent("OsBuild", "override build operating system (Linux, Windows, Macos)", &x.OsBuild)
	cfv.Persistent("Arch", "override target architecture", &x.Arch)
	cfv.Persistent("ArchBuild", "override build architecture", &x.ArchBuild)
	cfv.Persistent("BuildType", "override build type, only Release is supported", &x.BuildType)
	cfv.Persistent("Compiler", "override compiler name (gcc, clang, apple-clang, clang-cl, Visual Studio)", &x.Compiler.Name)
	cfv.Persistent("CompilerVersion", "override compiler version", &x.Compiler.Version)
	cfv.Persistent("Libcxx", "override C++ standard library", &x.Compiler.Libcxx)
	cfv.Persistent("Cppstd", "override C++ standard version", &x.Compiler.Cppstd)
}

func (x *Settings) Overwrite(other *Settings) {
	base.Overwrite(&x.OsBuild, other.OsBuild)
	base.Overwrite(&x.Arch, other.Arch)
	base.Overwrite(&x.ArchBuild, other.ArchBuild)
	base.Overwrite(&x.BuildType, other.BuildType)
	base.Overwrite(&x.Compiler.Name, other.Compiler.Name)
	base.Overwrite(&x.Compiler.Version, other.Compiler.Version)
	base.Overwrite(&x.Compiler.Libcxx, other.Compiler.Libcxx)
	base.Overwrite(&x.Compiler.Cppstd, other.Compiler.Cppstd)
}

func (x Settings) String() string {
	return fmt.Sprintf("os_build=%v arch=%v arch_build=%v build_type=%v compiler=%v compiler.version=%v compiler.libcxx=%v compiler.cppstd=%v",
		x.OsBuild, x.Arch, x.ArchBuild, x.BuildType,
		x.Compiler.Name, x.Compiler.Version, x.Compiler.Libcxx, x.Compiler.Cppstd)
}

func (x Settings) IsLinux() bool   { return x.OsBuild.Get() == "Linux" }
func (x Settings) IsWindows() bool { return x.OsBuild.Get() == "Windows" }
func (x Settings) IsMacos() bool   { return x.OsBuild.Get() == "Macos" }

func (x Settings) IsBuildType(buildType string) bool {
	return strings.EqualFold(x.BuildType.Get(), buildType)
}

func GetOsName(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "windows":
		return "Windows"
	case "darwin":
		return "Macos"
	case "freebsd":
		return "FreeBSD"
	default:
		return goos
	}
}
func GetArchName(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "x86"
	case "arm64":
		return "armv8"
	case "arm":
		return "armv7"
	default:
		return goarch
	}
}

func DefaultSettings() Settings {
	arch := utils.StringVar(GetArchName(runtime.GOARCH))
	return Settings{
		OsBuild:   utils.StringVar(GetOsName(runtime.GOOS)),
		Arch:      arch,
		ArchBuild: arch,
		BuildType: "Release",
	}
}

// DetectSettings fills compiler settings missing from overrides by probing the host.
func DetectSettings(ctx context.Context, overrides *Settings) (Settings, error) {
	result := DefaultSettings()
	result.Overwrite(overrides)

	if result.Compiler.Name.IsInheritable() || result.Compiler.Version.IsInheritable() {
		hc, err := hal.DetectHostCompiler(ctx)
		if err != nil {
			return result, err
		}
		base.Inherit(&result.Compiler.Name, utils.StringVar(hc.Name))
		base.Inherit(&result.Compiler.Version, utils.StringVar(hc.Version))
		base.Inherit(&result.Compiler.Libcxx, utils.StringVar(hc.Libcxx))
	}

	base.LogVerbose(LogRecipe, "settings: %v", result)
	return result, nil
}

/***************************************
 * Versions
 ***************************************/

func canonicalVersion(version string) string {
	version = strings.TrimSpace(version)
	if n := strings.IndexAny(version, "-+ "); n >= 0 {
		version = version[:n]
	}
	// semver accepts at most MAJOR.MINOR.PATCH
	if parts := strings.Split(version, "."); len(parts) > 3 {
		version = strings.Join(parts[:3], ".")
	}
	return "v" + version
}

// CompareVersions compares dotted numeric versions, "9" == "9.0" == "9.0.0".
func CompareVersions(a, b string) int {
	return semver.Compare(canonicalVersion(a), canonicalVersion(b))
}

func VersionMajorMinor(version string) (major, minor string) {
	mm := semver.MajorMinor(canonicalVersion(version))
	if len(mm) == 0 {
		return "0", "0"
	}
	major = strings.TrimPrefix(semver.Major(mm), "v")
	minor = strings.TrimPrefix(mm, semver.Major(mm)+".")
	return
}
