package utils

import (
	"runtime"

	"github.com/pkg/profile"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

var LogProfiling = base.NewLogCategory("Profiling")

/***************************************
 * Profiling Mode
 ***************************************/

type ProfilingMode byte

const (
	PROFILING_NONE ProfilingMode = iota
	PROFILING_BLOCK
	PROFILING_CPU
	PROFILING_GOROUTINE
	PROFILING_MEMORY
	PROFILING_MEMORYALLOC
	PROFILING_MEMORYHEAP
	PROFILING_MUTEX
	PROFILING_THREADCREATION
	PROFILING_TRACE
)

func ProfilingModes() []ProfilingMode {
	return []ProfilingMode{
		PROFILING_NONE,
		PROFILING_BLOCK,
		PROFILING_CPU,
		PROFILING_GOROUTINE,
		PROFILING_MEMORY,
		PROFILING_MEMORYALLOC,
		PROFILING_MEMORYHEAP,
		PROFILING_MUTEX,
		PROFILING_THREADCREATION,
		PROFILING_TRACE,
	}
}
func (x ProfilingMode) Mode() func(*profile.Profile) {
	switch x {
	case PROFILING_BLOCK:
		return profile.BlockProfile
	case PROFILING_CPU:
		return profile.CPUProfile
	case PROFILING_GOROUTINE:
		return profile.GoroutineProfile
	case PROFILING_MEMORY:
		return profile.MemProfile
	case PROFILING_MEMORYALLOC:
		return profile.MemProfileAllocs
	case PROFILING_MEMORYHEAP:
		return profile.MemProfileHeap
	case PROFILING_MUTEX:
		return profile.MutexProfile
	case PROFILING_THREADCREATION:
		return profile.ThreadcreationProfile
	case PROFILING_TRACE:
		return profile.TraceProfile
	default:
		base.UnexpectedValue(x)
		return nil
	}
}
func (x ProfilingMode) String() string {
	switch x {
	case PROFILING_NONE:
		return "NONE"
	case PROFILING_BLOCK:
		return "BLOCK"
	case PROFILING_CPU:
		return "CPU"
	case PROFILING_GOROUTINE:
		return "GOROUTINE"
	case PROFILING_MEMORY:
		return "MEM"
	case PROFILING_MEMORYALLOC:
		return "MEMALLOC"
	case PROFILING_MEMORYHEAP:
		return "MEMHEAP"
	case PROFILING_MUTEX:
		return "MUTEX"
	case PROFILING_THREADCREATION:
		return "THREADCREATION"
	case PROFILING_TRACE:
		return "TRACE"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}
func (x ProfilingMode) Description() string {
	switch x {
	case PROFILING_NONE:
		return "disables profiling"
	case PROFILING_BLOCK:
		return "enables block (contention) profiling"
	case PROFILING_CPU:
		return "enables cpu profiling"
	case PROFILING_GOROUTINE:
		return "enables goroutine profiling"
	case PROFILING_MEMORY:
		return "enables memory profiling"
	case PROFILING_MEMORYALLOC:
		return "enables memory allocs profiling"
	case PROFILING_MEMORYHEAP:
		return "enables heap memory allocation profiling"
	case PROFILING_MUTEX:
		return "enables mutex profiling"
	case PROFILING_THREADCREATION:
		return "enables thread creation profiling"
	case PROFILING_TRACE:
		return "enables execution tracing"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}
func (x *ProfilingMode) Set(in string) error {
	return base.ParseEnum(x, in, ProfilingModes()...)
}
func (x ProfilingMode) MarshalText() ([]byte, error) {
	return base.UnsafeBytesFromString(x.String()), nil
}
func (x *ProfilingMode) UnmarshalText(data []byte) error {
	return x.Set(base.UnsafeStringFromBytes(data))
}
func (x *ProfilingMode) AutoComplete(in base.AutoComplete) {
	for _, it := range ProfilingModes() {
		in.Add(it.String(), it.Description())
	}
}

/***************************************
 * Profiling flags
 ***************************************/

type ProfilingFlags struct {
	Profiling ProfilingMode
}

var GetProfilingFlags = NewGlobalCommandParsableFlags("profiling options", &ProfilingFlags{
	Profiling: PROFILING_NONE,
})

func (flags *ProfilingFlags) Flags(cfv CommandFlagsVisitor) {
	cfv.Variable("Profiling", "set profiling mode", &flags.Profiling)
}

/***************************************
 * Profiler
 ***************************************/

var running_profiler interface {
	Stop()
}

func StartProfiling() func() {
	profiling := GetProfilingFlags().Profiling
	if profiling == PROFILING_NONE {
		return PurgeProfiling
	}

	base.LogWarning(LogProfiling, "use %v profiling mode", profiling)
	if profiling == PROFILING_CPU {
		runtime.SetCPUProfileRate(300) // default is 100
	}
	running_profiler = profile.Start(
		profiling.Mode(),
		profile.Quiet,
		profile.NoShutdownHook,
		profile.ProfilePath(UFS.Saved.String()))
	return PurgeProfiling
}

func PurgeProfiling() {
	if running_profiler != nil {
		running_profiler.Stop()
		running_profiler = nil
	}
}
