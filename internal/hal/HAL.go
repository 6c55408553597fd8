package hal

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/Showmax/go-fqdn"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/disk"
	"github.com/shirou/gopsutil/mem"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

var LogHAL = base.NewLogCategory("HAL")

/***************************************
 * Host Platform
 ***************************************/

type HostPlatform struct {
	Os       string
	Arch     string
	Name     string
	Hostname string
}

func (x HostPlatform) String() string {
	return fmt.Sprintf("%s-%s (%s) on %q", x.Os, x.Arch, x.Name, x.Hostname)
}

var currentHost = HostPlatform{
	Os:   runtime.GOOS,
	Arch: runtime.GOARCH,
	Name: runtime.GOOS,
}

func GetCurrentHost() HostPlatform { return currentHost }

func setCurrentHost(name string) {
	currentHost.Name = name

	if hostname, err := fqdn.FqdnHostname(); err == nil {
		currentHost.Hostname = hostname
	} else if hostname, err = os.Hostname(); err == nil {
		base.LogVeryVerbose(LogHAL, "fqdn: %v", err)
		currentHost.Hostname = hostname
	} else {
		currentHost.Hostname = "localhost"
	}

	base.LogVerbose(LogHAL, "running on %v", currentHost)
}

/***************************************
 * Host Hardware
 ***************************************/

type HostHardware struct {
	CpuName         string
	Cores           int
	Threads         int
	VirtualMemory   uint64
	AvailableMemory uint64
}

func (x HostHardware) String() string {
	return fmt.Sprintf("%s, %d cores / %d threads, %.1f GiB available on %.1f GiB",
		x.CpuName, x.Cores, x.Threads,
		float64(x.AvailableMemory)/(1<<30),
		float64(x.VirtualMemory)/(1<<30))
}

var GetHostHardware = base.Memoize(func() (hw HostHardware) {
	defer base.LogBenchmark(LogHAL, "GetHostHardware").Close()

	hw.CpuName = runtime.GOARCH
	hw.Threads = runtime.NumCPU()
	hw.Cores = hw.Threads

	if cpuInfos, err := cpu.Info(); err == nil && len(cpuInfos) > 0 {
		hw.CpuName = strings.TrimSpace(cpuInfos[0].ModelName)
	} else {
		base.LogWarningVerbose(LogHAL, "cpu info: %v", err)
	}

	if threads, err := cpu.Counts(true); err == nil && threads > 0 {
		hw.Threads = threads
	}
	if cores, err := cpu.Counts(false); err == nil && cores > 0 {
		hw.Cores = cores
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		hw.VirtualMemory = vm.Total
		hw.AvailableMemory = vm.Available
	} else {
		base.LogWarningVerbose(LogHAL, "virtual memory: %v", err)
	}

	base.LogVerbose(LogHAL, "host hardware: %v", hw)
	return
})

// GetNumCpu returns the number of logical threads, as used for parallel jobs.
func GetNumCpu() int {
	return GetHostHardware().Threads
}

// GetFreeDiskSpace returns the free bytes on the partition containing path.
func GetFreeDiskSpace(ctx context.Context, path string) (uint64, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

func isInteractiveTerm() bool {
	term := os.Getenv("TERM")
	switch term {
	case "xterm", "alacritty":
		return true
	default:
		return strings.HasPrefix(term, "xterm-")
	}
}
