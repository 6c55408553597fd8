package recipe

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/internal/hal"
	"github.com/poppolopoppo/llvmboot/utils"
)

/***************************************
 * HCL profile
 ***************************************/

// Profile is a recipe preset, every attribute is optional:
//
//	recipe {
//	  sanitizer = "Address"
//	  projects  = ["clang", "compiler-rt", "libcxx", "libcxxabi"]
//	  shared    = host.os == "Linux"
//	}
//	settings {
//	  compiler = "clang"
//	}
//	env = {
//	  LLVM_BUILD_TOOLS = "OFF"
//	}
type Profile struct {
	Recipe   *hclProfileRecipe   `hcl:"recipe,block"`
	Settings *hclProfileSettings `hcl:"settings,block"`
	Env      map[string]string   `hcl:"env,optional"`
}

type hclProfileRecipe struct {
	Projects          *[]string `hcl:"projects,optional"`
	Targets           *[]string `hcl:"targets,optional"`
	Libs              *[]string `hcl:"libs,optional"`
	Sanitizer         *string   `hcl:"sanitizer,optional"`
	Lto               *string   `hcl:"lto,optional"`
	FPIC              *bool     `hcl:"fpic,optional"`
	Shared            *bool     `hcl:"shared,optional"`
	Exceptions        *bool     `hcl:"exceptions,optional"`
	UnwindTables      *bool     `hcl:"unwind_tables,optional"`
	Rtti              *bool     `hcl:"rtti,optional"`
	Threads           *bool     `hcl:"threads,optional"`
	LibFFI            *bool     `hcl:"libffi,optional"`
	LibZ              *bool     `hcl:"libz,optional"`
	IncludeWhatYouUse *bool     `hcl:"include_what_you_use,optional"`
}

type hclProfileSettings struct {
	OsBuild         *string `hcl:"os_build,optional"`
	Arch            *string `hcl:"arch,optional"`
	ArchBuild       *string `hcl:"arch_build,optional"`
	BuildType       *string `hcl:"build_type,optional"`
	Compiler        *string `hcl:"compiler,optional"`
	CompilerVersion *string `hcl:"compiler_version,optional"`
	Libcxx          *string `hcl:"libcxx,optional"`
	Cppstd          *string `hcl:"cppstd,optional"`
}

// profileEvalContext exposes host facts to profile expressions as `host.<name>`.
func profileEvalContext() *hcl.EvalContext {
	host := hal.GetCurrentHost()
	hw := hal.GetHostHardware()
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"host": cty.ObjectVal(map[string]cty.Value{
				"os":       cty.StringVal(GetOsName(host.Os)),
				"arch":     cty.StringVal(GetArchName(host.Arch)),
				"name":     cty.StringVal(host.Name),
				"hostname": cty.StringVal(host.Hostname),
				"cores":    cty.NumberIntVal(int64(hw.Cores)),
				"threads":  cty.NumberIntVal(int64(hw.Threads)),
			}),
		},
	}
}

func ParseProfile(src []byte, filename string) (*Profile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL profile %s: %w", filename, diags)
	}

	profile := &Profile{}
	if diags = gohcl.DecodeBody(file.Body, profileEvalContext(), profile); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL profile %s: %w", filename, diags)
	}
	return profile, nil
}

func LoadProfile(src utils.Filename) (*Profile, error) {
	raw, err := utils.UFS.ReadAll(src)
	if err != nil {
		return nil, err
	}
	base.LogVerbose(LogRecipe, "loading recipe profile %q", src)
	return ParseProfile(raw, src.String())
}

func setFromList(dst interface{ Set(string) error }, list *[]string, sep string) error {
	if list == nil {
		return nil
	}
	return dst.Set(strings.Join(*list, sep))
}
func setFromString(dst interface{ Set(string) error }, value *string) error {
	if value == nil {
		return nil
	}
	return dst.Set(*value)
}
func setFromBool(dst *utils.BoolVar, value *bool) {
	if value != nil {
		*dst = base.MakeBoolVar(*value)
	}
}

// ApplyOptions overwrites options with every attribute present in the profile.
func (x *Profile) ApplyOptions(options *Options) error {
	if x.Recipe == nil {
		return nil
	}
	it := x.Recipe

	var projects LlvmProjects
	if err := setFromList(&projects, it.Projects, "|"); err != nil {
		return err
	}
	var targets LlvmTargets
	if err := setFromList(&targets, it.Targets, "|"); err != nil {
		return err
	}
	if it.Libs != nil {
		libs := base.NewStringSet(*it.Libs...)
		if err := CheckLlvmLibs(libs); err != nil {
			return err
		}
		options.Libs = libs
	}

	var sanitizer SanitizerType
	if err := setFromString(&sanitizer, it.Sanitizer); err != nil {
		return err
	}
	var lto LtoType
	if err := setFromString(&lto, it.Lto); err != nil {
		return err
	}

	base.Overwrite(&options.Projects, projects)
	base.Overwrite(&options.Targets, targets)
	base.Overwrite(&options.Sanitizer, sanitizer)
	base.Overwrite(&options.Lto, lto)

	setFromBool(&options.FPIC, it.FPIC)
	setFromBool(&options.Shared, it.Shared)
	setFromBool(&options.Exceptions, it.Exceptions)
	setFromBool(&options.UnwindTables, it.UnwindTables)
	setFromBool(&options.Rtti, it.Rtti)
	setFromBool(&options.Threads, it.Threads)
	setFromBool(&options.LibFFI, it.LibFFI)
	setFromBool(&options.LibZ, it.LibZ)
	setFromBool(&options.IncludeWhatYouUse, it.IncludeWhatYouUse)
	return nil
}

func (x *Profile) ApplySettings(settings *Settings) error {
	if x.Settings == nil {
		return nil
	}
	it := x.Settings
	for _, field := range []struct {
		Dst   *utils.StringVar
		Value *string
	}{
		{&settings.OsBuild, it.OsBuild},
		{&settings.Arch, it.Arch},
		{&settings.ArchBuild, it.ArchBuild},
		{&settings.BuildType, it.BuildType},
		{&settings.Compiler.Name, it.Compiler},
		{&settings.Compiler.Version, it.CompilerVersion},
		{&settings.Compiler.Libcxx, it.Libcxx},
		{&settings.Compiler.Cppstd, it.Cppstd},
	} {
		if err := setFromString(field.Dst, field.Value); err != nil {
			return err
		}
	}
	return nil
}

// ApplyEnvironment layers profile variables under env, the process environment still wins.
func (x *Profile) ApplyEnvironment(env Environment) Environment {
	if len(x.Env) == 0 {
		return env
	}
	return env.WithDefaults(x.Env)
}
