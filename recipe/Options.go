package recipe

import (
	"fmt"
	"io"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/utils"
)

/***************************************
 * Options
 ***************************************/

type Options struct {
	Projects LlvmProjects
	Targets  LlvmTargets
	Libs     base.StringSet

	Sanitizer SanitizerType
	Lto       LtoType

	FPIC              utils.BoolVar
	Shared            utils.BoolVar
	Exceptions        utils.BoolVar
	UnwindTables      utils.BoolVar
	Rtti              utils.BoolVar
	Threads           utils.BoolVar
	LibFFI            utils.BoolVar
	LibZ              utils.BoolVar
	IncludeWhatYouUse utils.BoolVar
}

func DefaultOptions() Options {
	return Options{
		Projects:          DefaultLlvmProjects(),
		Targets:           DefaultLlvmTargets(),
		Libs:              DefaultLlvmLibs(),
		Sanitizer:         SANITIZER_NONE,
		Lto:               LTO_OFF,
		FPIC:              base.INHERITABLE_TRUE,
		Shared:            base.INHERITABLE_TRUE,
		Exceptions:        base.INHERITABLE_FALSE,
		UnwindTables:      base.INHERITABLE_TRUE,
		Rtti:              base.INHERITABLE_FALSE,
		Threads:           base.INHERITABLE_TRUE,
		LibFFI:            base.INHERITABLE_FALSE,
		LibZ:              base.INHERITABLE_TRUE,
		IncludeWhatYouUse: base.INHERITABLE_TRUE,
	}
}

func (x *Options) Flags(cfv utils.CommandFlagsVisitor) {
	cfv.Persistent("Projects", "llvm projects to enable, separated by '|'", &x.Projects)
	cfv.Persistent("Targets", "llvm targets to build, separated by '|'", &x.Targets)
	cfv.Persistent("Libs", "llvm libraries exported to consumers, separated by ','", &x.Libs)
	cfv.Persistent("Sanitizer", "override sanitizer mode", &x.Sanitizer)
	cfv.Persistent("LTO", "override link time optimization mode", &x.Lto)
	cfv.Persistent("fPIC", "enable/disable position independent code", &x.FPIC)
	cfv.Persistent("Shared", "enable/disable shared libraries", &x.Shared)
	cfv.Persistent("Exceptions", "enable/disable C++ exceptions", &x.Exceptions)
	cfv.Persistent("UnwindTables", "enable/disable unwind tables", &x.UnwindTables)
	cfv.Persistent("Rtti", "enable/disable C++ runtime type information", &x.Rtti)
	cfv.Persistent("Threads", "enable/disable multithreading support", &x.Threads)
	cfv.Persistent("LibFFI", "enable/disable libffi support", &x.LibFFI)
	cfv.Persistent("LibZ", "enable/disable zlib support", &x.LibZ)
	cfv.Persistent("IWYU", "enable/disable include-what-you-use build", &x.IncludeWhatYouUse)
}

func (x *Options) Inherit(other *Options) {
	base.Inherit(&x.Projects, other.Projects)
	base.Inherit(&x.Targets, other.Targets)
	if x.Libs.Empty() {
		x.Libs = base.CopySlice(other.Libs...)
	}

	base.Inherit(&x.Sanitizer, other.Sanitizer)
	base.Inherit(&x.Lto, other.Lto)

	base.Inherit(&x.FPIC, other.FPIC)
	base.Inherit(&x.Shared, other.Shared)
	base.Inherit(&x.Exceptions, other.Exceptions)
	base.Inherit(&x.UnwindTables, other.UnwindTables)
	base.Inherit(&x.Rtti, other.Rtti)
	base.Inherit(&x.Threads, other.Threads)
	base.Inherit(&x.LibFFI, other.LibFFI)
	base.Inherit(&x.LibZ, other.LibZ)
	base.Inherit(&x.IncludeWhatYouUse, other.IncludeWhatYouUse)
}
func (x *Options) Overwrite(other *Options) {
	base.Overwrite(&x.Projects, other.Projects)
	base.Overwrite(&x.Targets, other.Targets)
	if !other.Libs.Empty() {
		x.Libs = base.CopySlice(other.Libs...)
	}

	base.Overwrite(&x.Sanitizer, other.Sanitizer)
	base.Overwrite(&x.Lto, other.Lto)

	base.Overwrite(&x.FPIC, other.FPIC)
	base.Overwrite(&x.Shared, other.Shared)
	base.Overwrite(&x.Exceptions, other.Exceptions)
	base.Overwrite(&x.UnwindTables, other.UnwindTables)
	base.Overwrite(&x.Rtti, other.Rtti)
	base.Overwrite(&x.Threads, other.Threads)
	base.Overwrite(&x.LibFFI, other.LibFFI)
	base.Overwrite(&x.LibZ, other.LibZ)
	base.Overwrite(&x.IncludeWhatYouUse, other.IncludeWhatYouUse)
}

func (x Options) HasSanitizers() bool {
	return x.Sanitizer.IsEnabled()
}
func (x Options) HasProject(project LlvmProject) bool {
	return x.Projects.Has(project)
}

// CheckLlvmLibs rejects names missing from the llvm_libs table, EnabledLibs would drop them silently.
func CheckLlvmLibs(libs base.StringSet) error {
	for _, it := range libs {
		if !llvmLibs.Contains(it) {
			return fmt.Errorf("unknown llvm library %q", it)
		}
	}
	return nil
}

// EnabledLibs returns selected libraries in table order.
func (x Options) EnabledLibs() (result base.StringSet) {
	for _, it := range llvmLibs {
		if x.Libs.Contains(it) {
			result.Append(it)
		}
	}
	return
}

func (x Options) Print(w io.Writer) {
	utils.VisitParsableFlags(&x, func(name, _ string, value utils.PersistentVar, _ bool) {
		fmt.Fprintf(w, "    %-16s = %v\n", name, value)
	})
}
