package recipe

import (
	"fmt"
	"io"
	"time"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/internal/hal"
	"github.com/poppolopoppo/llvmboot/utils"
)

/***************************************
 * Package info
 ***************************************/

type PackageInfo struct {
	Name        string
	Version     string
	PackageId   base.Fingerprint
	IncludeDirs base.StringSet
	LibDirs     base.StringSet
	BinDirs     base.StringSet
	Libs        base.StringSet
	Settings    map[string]string
	Host        string
	CreatedAt   time.Time
}

func PackageBinDirs() base.StringSet {
	return base.StringSet{"bin", "libexec", "clang", "tools", "tools/clang"}
}

// PackageInfo describes how consumers link against the package, relative dirs are rooted at the package folder.
func (r *Recipe) PackageInfo() (result PackageInfo, err error) {
	if !r.Options.HasProject(LLVMPROJECT_CLANG) {
		err = fmt.Errorf("enable project clang")
		return
	}

	pkg := r.Paths.Package
	result = PackageInfo{
		Name:        PACKAGE_NAME,
		Version:     GetPackageVersion(r.Env),
		PackageId:   r.PackageId(),
		IncludeDirs: base.StringSet{"include", "clang/include", "tools/clang/include"},
		LibDirs:     base.StringSet{"lib", "clang/lib", "tools/clang/lib"},
		BinDirs:     PackageBinDirs(),
		Settings:    r.PackageIdSettings(),
		Host:        hal.GetCurrentHost().String(),
		CreatedAt:   time.Now().UTC(),
	}

	compiler := r.Settings.Compiler.Name.Get()
	libcxx := r.Settings.Compiler.Libcxx.Get()
	switch {
	case r.Settings.IsLinux():
		result.Libs.Append("pthread", "unwind", "z", "m", "dl", "ncurses", "tinfo")
		if compiler == "clang" && libcxx == "libstdc++" {
			result.Libs.Append("atomic")
		}
	case r.Settings.IsWindows() && compiler == "Visual Studio":
		result.Libs.Append("ws2_32", "Iphlpapi", "Crypt32")
	}

	version := r.Settings.Compiler.Version.Get()
	if (r.Settings.IsLinux() && compiler == "clang" && CompareVersions(version, "6") == 0 && libcxx == "libstdc++") ||
		(r.Settings.IsMacos() && compiler == "apple-clang" && CompareVersions(version, "9.0") == 0 && libcxx == "libc++") {
		result.Libs.AppendUniq("atomic")
	}

	result.IncludeDirs.Append(pkg.Folder("include").String(), pkg.String())

	enabledLibs := r.Options.EnabledLibs()
	base.LogVerbose(LogRecipe, "enabled LLVM libs: %v", enabledLibs.Join(", "))
	result.Libs.Append(enabledLibs...)

	base.LogVeryVerbose(LogRecipe, "LIBRARIES: %v", result.Libs)
	base.LogVeryVerbose(LogRecipe, "package folder: %q", pkg)
	return result, nil
}

func (x *PackageInfo) Save(dst utils.Filename) error {
	return utils.UFS.SafeCreate(dst, func(w io.Writer) error {
		return base.JsonSerialize(x, w, base.OptionJsonPrettyPrint(true))
	})
}
func (x *PackageInfo) Load(src utils.Filename) error {
	return utils.UFS.OpenBuffered(src, func(r io.Reader) error {
		return base.JsonDeserialize(x, r)
	})
}

/***************************************
 * Package id
 ***************************************/

// PackageIdSettings returns the settings hashed into the package id, after LLVM_CONAN_* toggles.
func (r *Recipe) PackageIdSettings() map[string]string {
	settings := map[string]string{
		"os":               r.Settings.OsBuild.Get(),
		"arch":             r.Settings.Arch.Get(),
		"build_type":       r.Settings.BuildType.Get(),
		"compiler":         r.Settings.Compiler.Name.Get(),
		"compiler.version": r.Settings.Compiler.Version.Get(),
		"compiler.libcxx":  r.Settings.Compiler.Libcxx.Get(),
		"compiler.cppstd":  r.Settings.Compiler.Cppstd.Get(),
	}

	if r.Env.Flag("LLVM_CONAN_FORCE_INCLUDE_SETTINGS", true) == "ON" {
		settings["os_build"] = r.Settings.OsBuild.Get()
		settings["arch_build"] = r.Settings.ArchBuild.Get()
	}
	// same build is used for x86 and x86_64
	if r.Env.Flag("LLVM_CONAN_IGNORE_ARCH_BUILD", true) == "ON" && r.Settings.IsWindows() {
		delete(settings, "arch_build")
	}
	if r.Env.Flag("LLVM_CONAN_IGNORE_ARCH", true) == "ON" {
		delete(settings, "arch")
	}
	if r.Env.Flag("LLVM_CONAN_IGNORE_COMPILER", true) == "ON" {
		for _, it := range []string{"compiler", "compiler.version", "compiler.libcxx", "compiler.cppstd"} {
			delete(settings, it)
		}
	}

	for k, v := range settings {
		if len(v) == 0 {
			delete(settings, k)
		}
	}
	return settings
}

func (r *Recipe) PackageId() base.Fingerprint {
	digester := base.NewDigester(base.StringFingerprint(PACKAGE_NAME))

	settings := r.PackageIdSettings()
	for _, name := range base.SortedKeys(settings) {
		digester.WriteString("settings."+name, settings[name])
	}

	utils.VisitParsableFlags(&r.Options, func(name, _ string, value utils.PersistentVar, _ bool) {
		digester.WriteStringer("options."+name, value)
	})
	return digester.Sum()
}
