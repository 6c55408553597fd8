package recipe

import (
	"strings"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

/***************************************
 * SanitizerType
 ***************************************/

type SanitizerType byte

const (
	SANITIZER_INHERIT SanitizerType = iota
	SANITIZER_NONE
	SANITIZER_ADDRESS
	SANITIZER_MEMORY
	SANITIZER_MEMORY_WITH_ORIGINS
	SANITIZER_UNDEFINED
	SANITIZER_THREAD
	SANITIZER_DATAFLOW
	SANITIZER_ADDRESS_UNDEFINED
)

func GetSanitizerTypes() []SanitizerType {
	return []SanitizerType{
		SANITIZER_INHERIT,
		SANITIZER_NONE,
		SANITIZER_ADDRESS,
		SANITIZER_MEMORY,
		SANITIZER_MEMORY_WITH_ORIGINS,
		SANITIZER_UNDEFINED,
		SANITIZER_THREAD,
		SANITIZER_DATAFLOW,
		SANITIZER_ADDRESS_UNDEFINED,
	}
}
func (x SanitizerType) Description() string {
	switch x {
	case SANITIZER_INHERIT:
		return "inherit default value from configuration"
	case SANITIZER_NONE:
		return "don't use a sanitizer"
	case SANITIZER_ADDRESS:
		return "use address sanitizer for memory issues"
	case SANITIZER_MEMORY:
		return "use memory sanitizer for uninitialized reads"
	case SANITIZER_MEMORY_WITH_ORIGINS:
		return "use memory sanitizer and track origins of uninitialized values"
	case SANITIZER_UNDEFINED:
		return "use undefined behavior sanitizer"
	case SANITIZER_THREAD:
		return "use thread sanitizer for race conditions"
	case SANITIZER_DATAFLOW:
		return "use dataflow sanitizer for taint tracking"
	case SANITIZER_ADDRESS_UNDEFINED:
		return "use both address and undefined behavior sanitizers"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}

// String returns the value expected by LLVM_USE_SANITIZER.
func (x SanitizerType) String() string {
	switch x {
	case SANITIZER_INHERIT:
		return base.INHERIT_STRING
	case SANITIZER_NONE:
		return "None"
	case SANITIZER_ADDRESS:
		return "Address"
	case SANITIZER_MEMORY:
		return "Memory"
	case SANITIZER_MEMORY_WITH_ORIGINS:
		return "MemoryWithOrigins"
	case SANITIZER_UNDEFINED:
		return "Undefined"
	case SANITIZER_THREAD:
		return "Thread"
	case SANITIZER_DATAFLOW:
		return "DataFlow"
	case SANITIZER_ADDRESS_UNDEFINED:
		return "Address;Undefined"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}
func (x SanitizerType) IsEnabled() bool {
	return !x.IsInheritable() && x != SANITIZER_NONE
}
func (x SanitizerType) IsMemory() bool {
	return x == SANITIZER_MEMORY || x == SANITIZER_MEMORY_WITH_ORIGINS
}
func (x SanitizerType) IsInheritable() bool {
	return x == SANITIZER_INHERIT
}
func (x *SanitizerType) Set(in string) error {
	in = strings.TrimSpace(in)
	if strings.EqualFold(in, "Address+Undefined") {
		in = SANITIZER_ADDRESS_UNDEFINED.String()
	}
	return base.ParseEnum(x, in, GetSanitizerTypes()...)
}
func (x SanitizerType) MarshalText() ([]byte, error) {
	return base.UnsafeBytesFromString(x.String()), nil
}
func (x *SanitizerType) UnmarshalText(data []byte) error {
	return x.Set(base.UnsafeStringFromBytes(data))
}
func (x *SanitizerType) AutoComplete(in base.AutoComplete) {
	for _, it := range GetSanitizerTypes() {
		in.Add(it.String(), it.Description())
	}
}

/***************************************
 * LtoType
 ***************************************/

type LtoType byte

const (
	LTO_INHERIT LtoType = iota
	LTO_ON
	LTO_OFF
	LTO_FULL
	LTO_THIN
)

func GetLtoTypes() []LtoType {
	return []LtoType{
		LTO_INHERIT,
		LTO_ON,
		LTO_OFF,
		LTO_FULL,
		LTO_THIN,
	}
}
func (x LtoType) Description() string {
	switch x {
	case LTO_INHERIT:
		return "inherit default value from configuration"
	case LTO_ON:
		return "enable link time optimization"
	case LTO_OFF:
		return "disable link time optimization"
	case LTO_FULL:
		return "monolithic link time optimization"
	case LTO_THIN:
		return "scalable and incremental ThinLTO"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}

// String returns the value expected by LLVM_ENABLE_LTO.
func (x LtoType) String() string {
	switch x {
	case LTO_INHERIT:
		return base.INHERIT_STRING
	case LTO_ON:
		return "On"
	case LTO_OFF:
		return "Off"
	case LTO_FULL:
		return "Full"
	case LTO_THIN:
		return "Thin"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}
func (x LtoType) IsInheritable() bool {
	return x == LTO_INHERIT
}
func (x *LtoType) Set(in string) error {
	return base.ParseEnum(x, strings.TrimSpace(in), GetLtoTypes()...)
}
func (x LtoType) MarshalText() ([]byte, error) {
	return base.UnsafeBytesFromString(x.String()), nil
}
func (x *LtoType) UnmarshalText(data []byte) error {
	return x.Set(base.UnsafeStringFromBytes(data))
}
func (x *LtoType) AutoComplete(in base.AutoComplete) {
	for _, it := range GetLtoTypes() {
		in.Add(it.String(), it.Description())
	}
}
