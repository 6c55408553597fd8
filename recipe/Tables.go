package recipe

import (
	"strings"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

/***************************************
 * LlvmProject
 ***************************************/

type LlvmProject byte

const (
	LLVMPROJECT_ALL LlvmProject = iota
	LLVMPROJECT_CLANG
	LLVMPROJECT_CLANG_TOOLS_EXTRA
	LLVMPROJECT_COMPILER_RT
	LLVMPROJECT_DEBUGINFO_TESTS
	LLVMPROJECT_LIBC
	LLVMPROJECT_LIBCLC
	LLVMPROJECT_LIBCXX
	LLVMPROJECT_LIBCXXABI
	LLVMPROJECT_LIBUNWIND
	LLVMPROJECT_LLD
	LLVMPROJECT_LLDB
	LLVMPROJECT_MLIR
	LLVMPROJECT_OPENMP
	LLVMPROJECT_PARALLEL_LIBS
	LLVMPROJECT_POLLY
	LLVMPROJECT_PSTL
)

type LlvmProjects = base.EnumSet[LlvmProject, *LlvmProject]

func GetLlvmProjects() []LlvmProject {
	return []LlvmProject{
		LLVMPROJECT_ALL,
		LLVMPROJECT_CLANG,
		LLVMPROJECT_CLANG_TOOLS_EXTRA,
		LLVMPROJECT_COMPILER_RT,
		LLVMPROJECT_DEBUGINFO_TESTS,
		LLVMPROJECT_LIBC,
		LLVMPROJECT_LIBCLC,
		LLVMPROJECT_LIBCXX,
		LLVMPROJECT_LIBCXXABI,
		LLVMPROJECT_LIBUNWIND,
		LLVMPROJECT_LLD,
		LLVMPROJECT_LLDB,
		LLVMPROJECT_MLIR,
		LLVMPROJECT_OPENMP,
		LLVMPROJECT_PARALLEL_LIBS,
		LLVMPROJECT_POLLY,
		LLVMPROJECT_PSTL,
	}
}

func AllLlvmProjects() LlvmProjects {
	return base.NewEnumSet[LlvmProject, *LlvmProject](GetLlvmProjects()...)
}
func DefaultLlvmProjects() LlvmProjects {
	return base.NewEnumSet[LlvmProject, *LlvmProject](
		LLVMPROJECT_CLANG,
		LLVMPROJECT_CLANG_TOOLS_EXTRA,
		LLVMPROJECT_COMPILER_RT,
		LLVMPROJECT_LIBCXX,
		LLVMPROJECT_LIBCXXABI,
		LLVMPROJECT_LIBUNWIND,
		LLVMPROJECT_LLD,
		LLVMPROJECT_LLDB)
}

func (x LlvmProject) Ord() int32 { return int32(x) }
func (x LlvmProject) String() string {
	switch x {
	case LLVMPROJECT_ALL:
		return "all"
	case LLVMPROJECT_CLANG:
		return "clang"
	case LLVMPROJECT_CLANG_TOOLS_EXTRA:
		return "clang-tools-extra"
	case LLVMPROJECT_COMPILER_RT:
		return "compiler-rt"
	case LLVMPROJECT_DEBUGINFO_TESTS:
		return "debuginfo-tests"
	case LLVMPROJECT_LIBC:
		return "libc"
	case LLVMPROJECT_LIBCLC:
		return "libclc"
	case LLVMPROJECT_LIBCXX:
		return "libcxx"
	case LLVMPROJECT_LIBCXXABI:
		return "libcxxabi"
	case LLVMPROJECT_LIBUNWIND:
		return "libunwind"
	case LLVMPROJECT_LLD:
		return "lld"
	case LLVMPROJECT_LLDB:
		return "lldb"
	case LLVMPROJECT_MLIR:
		return "mlir"
	case LLVMPROJECT_OPENMP:
		return "openmp"
	case LLVMPROJECT_PARALLEL_LIBS:
		return "parallel-libs"
	case LLVMPROJECT_POLLY:
		return "polly"
	case LLVMPROJECT_PSTL:
		return "pstl"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}
func (x *LlvmProject) Set(in string) error {
	return base.ParseEnum(x, strings.TrimSpace(in), GetLlvmProjects()...)
}
func (x LlvmProject) MarshalText() ([]byte, error) {
	return base.UnsafeBytesFromString(x.String()), nil
}
func (x *LlvmProject) UnmarshalText(data []byte) error {
	return x.Set(base.UnsafeStringFromBytes(data))
}
func (x *LlvmProject) AutoComplete(in base.AutoComplete) {
	for _, it := range GetLlvmProjects() {
		in.Add(it.String(), "llvm project")
	}
}

/***************************************
 * LlvmTarget
 ***************************************/

type LlvmTarget byte

const (
	LLVMTARGET_ALL LlvmTarget = iota
	LLVMTARGET_AARCH64
	LLVMTARGET_AMDGPU
	LLVMTARGET_ARM
	LLVMTARGET_BPF
	LLVMTARGET_HEXAGON
	LLVMTARGET_LANAI
	LLVMTARGET_MIPS
	LLVMTARGET_MSP430
	LLVMTARGET_NVPTX
	LLVMTARGET_RISCV
	LLVMTARGET_SYSTEMZ
	LLVMTARGET_WEBASSEMBLY
	LLVMTARGET_X86
	LLVMTARGET_XCORE
)

type LlvmTargets = base.EnumSet[LlvmTarget, *LlvmTarget]

func GetLlvmTargets() []LlvmTarget {
	return []LlvmTarget{
		LLVMTARGET_ALL,
		LLVMTARGET_AARCH64,
		LLVMTARGET_AMDGPU,
		LLVMTARGET_ARM,
		LLVMTARGET_BPF,
		LLVMTARGET_HEXAGON,
		LLVMTARGET_LANAI,
		LLVMTARGET_MIPS,
		LLVMTARGET_MSP430,
		LLVMTARGET_NVPTX,
		LLVMTARGET_RISCV,
		LLVMTARGET_SYSTEMZ,
		LLVMTARGET_WEBASSEMBLY,
		LLVMTARGET_X86,
		LLVMTARGET_XCORE,
	}
}

func DefaultLlvmTargets() LlvmTargets {
	return base.NewEnumSet[LlvmTarget, *LlvmTarget](LLVMTARGET_X86)
}

func (x LlvmTarget) Ord() int32 { return int32(x) }
func (x LlvmTarget) String() string {
	switch x {
	case LLVMTARGET_ALL:
		return "all"
	case LLVMTARGET_AARCH64:
		return "AArch64"
	case LLVMTARGET_AMDGPU:
		return "AMDGPU"
	case LLVMTARGET_ARM:
		return "ARM"
	case LLVMTARGET_BPF:
		return "BPF"
	case LLVMTARGET_HEXAGON:
		return "Hexagon"
	case LLVMTARGET_LANAI:
		return "Lanai"
	case LLVMTARGET_MIPS:
		return "Mips"
	case LLVMTARGET_MSP430:
		return "MSP430"
	case LLVMTARGET_NVPTX:
		return "NVPTX"
	case LLVMTARGET_RISCV:
		return "RISCV"
	case LLVMTARGET_SYSTEMZ:
		return "SystemZ"
	case LLVMTARGET_WEBASSEMBLY:
		return "WebAssembly"
	case LLVMTARGET_X86:
		return "X86"
	case LLVMTARGET_XCORE:
		return "XCore"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}
func (x *LlvmTarget) Set(in string) error {
	return base.ParseEnum(x, strings.TrimSpace(in), GetLlvmTargets()...)
}
func (x LlvmTarget) MarshalText() ([]byte, error) {
	return base.UnsafeBytesFromString(x.String()), nil
}
func (x *LlvmTarget) UnmarshalText(data []byte) error {
	return x.Set(base.UnsafeStringFromBytes(data))
}
func (x *LlvmTarget) AutoComplete(in base.AutoComplete) {
	for _, it := range GetLlvmTargets() {
		in.Add(it.String(), "llvm target")
	}
}

/***************************************
 * LLVM libraries
 ***************************************/

// order is preserved when exporting link libraries
var llvmLibs = base.StringSet{
	"LLVMCore",
	"LLVMAnalysis",
	"LLVMSupport",
	"LLVMipo",
	"LLVMIRReader",
	"LLVMBinaryFormat",
	"LLVMBitReader",
	"LLVMBitWriter",
	"LLVMMC",
	"LLVMMCParser",
	"LLVMTransformUtils",
	"LLVMScalarOpts",
	"LLVMLTO",
	"LLVMCoroutines",
	"LLVMCoverage",
	"LLVMInstCombine",
	"LLVMInstrumentation",
	"LLVMLinker",
	"LLVMObjCARCOpts",
	"LLVMObject",
	"LLVMPasses",
	"LLVMProfileData",
	"LLVMTarget",
	"LLVMLibDriver",
	"LLVMLineEditor",
	"LLVMMIRParser",
	"LLVMOption",
	"LLVMRuntimeDyld",
	"LLVMSelectionDAG",
	"LLVMSymbolize",
	"LLVMTableGen",
	"LLVMVectorize",
	"clangToolingRefactoring",
	"clangStaticAnalyzerCore",
	"clangDynamicASTMatchers",
	"clangCodeGen",
	"clangFrontendTool",
	"clang",
	"clangEdit",
	"clangRewriteFrontend",
	"clangDriver",
	"clangSema",
	"clangASTMatchers",
	"clangSerialization",
	"clangBasic",
	"clangAST",
	"clangTooling",
	"clangStaticAnalyzerFrontend",
	"clangFormat",
	"clangLex",
	"clangFrontend",
	"clangRewrite",
	"clangToolingCore",
	"clangIndex",
	"clangAnalysis",
	"clangParse",
	"clangStaticAnalyzerCheckers",
	"clangARCMigrate",
}

func GetLlvmLibs() base.StringSet {
	return base.CopySlice(llvmLibs...)
}
func DefaultLlvmLibs() base.StringSet {
	return GetLlvmLibs()
}

/***************************************
 * compiler-rt sanitizers
 ***************************************/

var compilerRtSanitizers = base.StringSet{
	"all", "asan", "dfsan", "msan", "hwasan", "tsan",
	"safestack", "cfi", "esan", "scudo", "ubsan_minimal", "gwp_asan",
}

func GetCompilerRtSanitizers() base.StringSet {
	return base.CopySlice(compilerRtSanitizers...)
}
func DefaultCompilerRtSanitizers() base.StringSet {
	return base.StringSet{"asan", "msan", "tsan", "safestack", "cfi", "esan"}
}

/***************************************
 * llvm_env passthrough table
 ***************************************/

// Default is INHERITABLE_INHERIT when the variable must not be forwarded.
type LlvmEnvVar struct {
	Name    string
	Default base.InheritableBool
}

var llvmEnv = []LlvmEnvVar{
	{"LLVM_INCLUDE_TOOLS", base.INHERITABLE_TRUE},
	{"LLVM_USE_OPROFILE", base.INHERITABLE_FALSE},
	{"LLVM_USE_NEWPM", base.INHERITABLE_FALSE},
	{"LLVM_BUILD_RUNTIME", base.INHERITABLE_INHERIT},
	{"COMPILER_RT_BUILD_CRT", base.INHERITABLE_FALSE},
	{"COMPILER_RT_BUILD_BUILTINS", base.INHERITABLE_FALSE},
	{"COMPILER_RT_CRT_USE_EH_FRAME_REGISTRY", base.INHERITABLE_INHERIT},
	{"COMPILER_RT_BUILD_XRAY", base.INHERITABLE_INHERIT},
	{"COMPILER_RT_BUILD_XRAY_NO_PREINIT", base.INHERITABLE_INHERIT},
	{"COMPILER_RT_BUILD_PROFILE", base.INHERITABLE_INHERIT},
	{"COMPILER_RT_BUILD_LIBFUZZER", base.INHERITABLE_INHERIT},
	{"COMPILER_RT_BUILD_MEMPROF", base.INHERITABLE_INHERIT},
	{"LLVM_BUILD_LLVM_DYLIB", base.INHERITABLE_INHERIT},
	{"LLVM_LINK_LLVM_DYLIB", base.INHERITABLE_INHERIT},
	{"LLVM_ENABLE_BINDINGS", base.INHERITABLE_INHERIT},
	{"LLVM_INSTALL_BINUTILS_SYMLINKS", base.INHERITABLE_FALSE},
	{"LLVM_INSTALL_CCTOOLS_SYMLINKS", base.INHERITABLE_FALSE},
	{"LLVM_TARGET_ARCH", base.INHERITABLE_INHERIT},
	{"LLVM_COMPILER_RT_DEFAULT_TARGET_TRIPLE", base.INHERITABLE_INHERIT},
	{"LLVM_DEFAULT_TARGET_TRIPLE", base.INHERITABLE_INHERIT},
	{"PYTHON_EXECUTABLE", base.INHERITABLE_INHERIT},
	{"LLVM_APPEND_VC_REV", base.INHERITABLE_INHERIT},
	{"LLVM_BINUTILS_INCDIR", base.INHERITABLE_INHERIT},
	{"LLVM_BUILD_32_BITS", base.INHERITABLE_FALSE},
	{"LLVM_ENABLE_EXPENSIVE_CHECKS", base.INHERITABLE_FALSE},
	{"LLVM_ENABLE_IDE", base.INHERITABLE_FALSE},
	{"COMPILER_RT_INCLUDE_TESTS", base.INHERITABLE_FALSE},
	{"LLDB_INCLUDE_TESTS", base.INHERITABLE_FALSE},
	{"CLANG_INCLUDE_TESTS", base.INHERITABLE_FALSE},
	{"LIBCXXABI_INCLUDE_TESTS", base.INHERITABLE_FALSE},
	{"LIBCXX_INCLUDE_TESTS", base.INHERITABLE_FALSE},
	{"LLDB_ENABLE_PYTHON", base.INHERITABLE_FALSE},
	{"LLDB_ENABLE_LIBEDIT", base.INHERITABLE_FALSE},
	{"LLDB_ENABLE_CURSES", base.INHERITABLE_FALSE},
	{"LLDB_ENABLE_LIBXML2", base.INHERITABLE_FALSE},
	{"LLDB_ENABLE_LUA", base.INHERITABLE_FALSE},
	{"LLDB_ENABLE_LZMA", base.INHERITABLE_FALSE},
	{"LLVM_INCLUDE_TESTS", base.INHERITABLE_FALSE},
	{"LLVM_BUILD_TESTS", base.INHERITABLE_FALSE},
	{"BUILD_TESTS", base.INHERITABLE_FALSE},
	{"LLVM_BUILD_EXAMPLES", base.INHERITABLE_FALSE},
	{"LLVM_INCLUDE_EXAMPLES", base.INHERITABLE_FALSE},
	{"LLVM_BUILD_BENCHMARKS", base.INHERITABLE_FALSE},
	{"LLVM_INCLUDE_BENCHMARKS", base.INHERITABLE_FALSE},
	{"LLVM_ENABLE_DOXYGEN", base.INHERITABLE_FALSE},
	{"LLVM_ENABLE_DOXYGEN_QT_HELP", base.INHERITABLE_FALSE},
	{"LLVM_DOXYGEN_SVG", base.INHERITABLE_FALSE},
	{"LLVM_ENABLE_OCAMLDOC", base.INHERITABLE_FALSE},
	{"LLVM_ENABLE_SPHINX", base.INHERITABLE_FALSE},
	{"LLVM_ENABLE_WARNINGS", base.INHERITABLE_INHERIT},
	{"LLVM_OPTIMIZED_TABLEGEN", base.INHERITABLE_TRUE},
	{"LLVM_STATIC_LINK_CXX_STDLIB", base.INHERITABLE_INHERIT},
}

func GetLlvmEnv() []LlvmEnvVar {
	return base.CopySlice(llvmEnv...)
}

func FindLlvmEnv(name string) (LlvmEnvVar, bool) {
	for _, it := range llvmEnv {
		if it.Name == name {
			return it, true
		}
	}
	return LlvmEnvVar{}, false
}
