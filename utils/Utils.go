package utils

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

var LogUtils = base.NewLogCategory("Utils")

const PROCESS_VERSION = "0.1.0"

/***************************************
 * Process Fingerprint
 ***************************************/

type ProcessInfo struct {
	Path      string
	Version   string
	Timestamp time.Time
	Checksum  base.Fingerprint
}

func (x ProcessInfo) String() string {
	return fmt.Sprintf("%v-%v-%v", x.Path, x.Version, x.Checksum.ShortString())
}

var PROCESS_INFO = getExecutableInfo()

func getExecutableInfo() (result ProcessInfo) {
	result.Path = UFS.Executable.String()
	result.Version = PROCESS_VERSION

	if info, err := UFS.Executable.Info(); err == nil {
		result.Timestamp = GetModificationTime(info)
	} else {
		result.Timestamp = base.StartedAt()
	}

	digester := base.NewDigester(base.Fingerprint{})
	if bi, ok := debug.ReadBuildInfo(); ok {
		if bi.Main.Path != "" {
			result.Path = bi.Main.Path
		}
		if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			result.Version = bi.Main.Version
		}
		digester.WriteString(bi.Main.Path, bi.Main.Version+bi.Main.Sum)
		for _, it := range bi.Deps {
			digester.WriteString(it.Path, it.Version+it.Sum)
		}
	} else {
		digester.WriteString("version", PROCESS_VERSION)
	}
	result.Checksum = digester.Sum()

	// round timestamp to millisecond, it is persisted as JSON
	result.Timestamp = time.UnixMilli(result.Timestamp.UnixMilli())
	return
}
