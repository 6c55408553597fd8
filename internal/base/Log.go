package base

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

/***************************************
 * Logger API
 ***************************************/

var LogGlobal = NewLogCategory("Global")

var gLogger Logger = NewLogger()

func GetLogger() Logger { return gLogger }

func LogDebug(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_DEBUG, msg, args...)
}
func LogTrace(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_TRACE, msg, args...)
}
func LogVeryVerbose(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_VERYVERBOSE, msg, args...)
}
func LogVerbose(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_VERBOSE, msg, args...)
}
func LogInfo(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_INFO, msg, args...)
}
func LogClaim(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_CLAIM, msg, args...)
}

func LogWarning(category *LogCategory, msg string, args ...interface{}) {
	if gLogWarningAsError {
		LogError(category, msg, args...)
		return
	}
	gLogger.Log(category, LOG_WARNING, msg, args...)
}
func LogWarningVerbose(category *LogCategory, msg string, args ...interface{}) {
	if IsLogLevelActive(LOG_VERBOSE) {
		LogWarning(category, msg, args...)
	}
}

func LogError(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_ERROR, msg, args...)
}

func LogPanic(category *LogCategory, msg string, args ...interface{}) {
	LogPanicErr(category, fmt.Errorf(msg, args...))
}
func LogPanicErr(category *LogCategory, err error) {
	LogError(category, "💀 panic: caught error %v", err)
	FlushLog()
	Panic(err)
}
func LogPanicIfFailed(category *LogCategory, err error) {
	if err != nil {
		LogPanicErr(category, err)
	}
}

// LogForward writes raw text, cmake and compiler output goes through here.
func LogForward(msg ...string) {
	gLogger.Forward(msg...)
}
func LogForwardln(msg ...string) {
	gLogger.Forwardln(msg...)
}

func IsLogLevelActive(level LogLevel) bool {
	return gLogger.IsVisible(level)
}
func FlushLog() {
	gLogger.Flush()
}

var gLogWarningAsError bool = false

func SetLogWarningAsError(enabled bool) {
	gLogWarningAsError = enabled
}

/***************************************
 * Logger interface
 ***************************************/

type LogCategory struct {
	Name  string
	Level LogLevel
	Color Color3b
}

type LogWriter interface {
	io.Writer
	io.StringWriter
}

type Logger interface {
	IsVisible(LogLevel) bool

	SetLevel(LogLevel) LogLevel
	SetShowTimestamp(bool)
	SetWriter(LogWriter)

	Forward(msg ...string)
	Forwardln(msg ...string)

	Log(category *LogCategory, level LogLevel, msg string, args ...interface{})
	Flush()
}

/***************************************
 * Errors
 ***************************************/

func MakeError(msg string, args ...interface{}) error {
	// DONT log here -> this can lock recursively the logger
	return fmt.Errorf(msg, args...)
}

func MakeUnexpectedValueError(dst interface{}, any interface{}) error {
	return MakeError("unexpected <%T> value: %#v", dst, any)
}

/***************************************
 * Log categories
 ***************************************/

type LogManager struct {
	barrierRW  sync.RWMutex
	categories map[string]*LogCategory
}

var gLogManager = LogManager{
	categories: make(map[string]*LogCategory, 32),
}

func GetLogManager() *LogManager { return &gLogManager }

// SetCategoryLevel makes every message of a category visible, used by -Verbose=<Category>.
func (x *LogManager) SetCategoryLevel(name string, level LogLevel) error {
	x.barrierRW.RLock()
	category, ok := x.categories[name]
	x.barrierRW.RUnlock()

	if !ok {
		return fmt.Errorf("unknown log category: %q", name)
	}
	category.Level = level
	return nil
}

func NewLogCategory(name string) *LogCategory {
	x := &gLogManager
	x.barrierRW.Lock()
	defer x.barrierRW.Unlock()

	if category, ok := x.categories[name]; ok {
		return category
	}

	hash := fnv.New64a()
	hash.Write(UnsafeBytesFromString(name))
	category := &LogCategory{
		Name:  name,
		Level: LOG_FATAL,
		Color: NewColorFromHash(hash.Sum64()).Quantize(),
	}
	x.categories[name] = category
	return category
}

/***************************************
 * Log level
 ***************************************/

type LogLevel int32

const (
	LOG_ALL LogLevel = iota
	LOG_DEBUG
	LOG_TRACE
	LOG_VERYVERBOSE
	LOG_VERBOSE
	LOG_INFO
	LOG_CLAIM
	LOG_WARNING
	LOG_ERROR
	LOG_FATAL
)

func (x LogLevel) IsVisible(level LogLevel) bool {
	return (int32(level) >= int32(x))
}
func (x LogLevel) Style(dst io.Writer) {
	switch x {
	case LOG_DEBUG:
		fmt.Fprint(dst, ANSI_FG0_MAGENTA, ANSI_ITALIC, ANSI_FAINT)
	case LOG_TRACE:
		fmt.Fprint(dst, ANSI_FG0_CYAN, ANSI_ITALIC, ANSI_FAINT)
	case LOG_VERYVERBOSE:
		fmt.Fprint(dst, ANSI_FG1_MAGENTA, ANSI_ITALIC)
	case LOG_VERBOSE:
		fmt.Fprint(dst, ANSI_FG0_BLUE)
	case LOG_INFO:
		fmt.Fprint(dst, ANSI_FG1_WHITE)
	case LOG_CLAIM:
		fmt.Fprint(dst, ANSI_FG1_GREEN, ANSI_BOLD)
	case LOG_WARNING:
		fmt.Fprint(dst, ANSI_FG0_YELLOW)
	case LOG_ERROR:
		fmt.Fprint(dst, ANSI_FG1_RED, ANSI_BOLD)
	case LOG_FATAL:
		fmt.Fprint(dst, ANSI_FG1_WHITE, ANSI_BG0_RED, ANSI_BLINK0)
	}
}
func (x LogLevel) Header(dst io.Writer) {
	switch x {
	case LOG_DEBUG:
		fmt.Fprint(dst, "🐜 ")
	case LOG_TRACE:
		fmt.Fprint(dst, "👣 ")
	case LOG_VERYVERBOSE:
		fmt.Fprint(dst, "👥 ")
	case LOG_VERBOSE:
		fmt.Fprint(dst, "🗣️ ")
	case LOG_INFO:
		fmt.Fprint(dst, "🔹 ")
	case LOG_CLAIM:
		fmt.Fprint(dst, "❇️ ")
	case LOG_WARNING:
		fmt.Fprint(dst, "⚠️ ")
	case LOG_ERROR:
		fmt.Fprint(dst, "❌ ")
	case LOG_FATAL:
		fmt.Fprint(dst, "💀 ")
	}
}
func (x LogLevel) String() string {
	outp := strings.Builder{}
	x.Header(&outp)
	return outp.String()
}

/***************************************
 * Console logger
 ***************************************/

// consoleLogger serializes every call, output of child processes is forwarded from several goroutines
type consoleLogger struct {
	barrier       sync.Mutex
	minimumLevel  LogLevel
	showTimestamp bool
	writer        LogWriter
}

func NewLogger() Logger {
	level := LOG_INFO
	if EnableDiagnostics() {
		level = LOG_ALL
	}
	return &consoleLogger{
		minimumLevel: level,
		writer:       os.Stdout,
	}
}

func (x *consoleLogger) IsVisible(level LogLevel) bool {
	return x.minimumLevel.IsVisible(level)
}

func (x *consoleLogger) SetLevel(level LogLevel) LogLevel {
	x.barrier.Lock()
	defer x.barrier.Unlock()
	previous := x.minimumLevel
	x.minimumLevel = min(level, LOG_FATAL)
	return previous
}
func (x *consoleLogger) SetShowTimestamp(enabled bool) {
	x.barrier.Lock()
	defer x.barrier.Unlock()
	x.showTimestamp = enabled
}
func (x *consoleLogger) SetWriter(dst LogWriter) {
	x.barrier.Lock()
	defer x.barrier.Unlock()
	x.flush()
	x.writer = dst
}

func (x *consoleLogger) Forward(msg ...string) {
	x.barrier.Lock()
	defer x.barrier.Unlock()
	for _, it := range msg {
		x.writer.WriteString(it)
	}
}
func (x *consoleLogger) Forwardln(msg ...string) {
	if len(msg) == 0 {
		return
	}

	x.barrier.Lock()
	defer x.barrier.Unlock()
	for _, it := range msg {
		x.writer.WriteString(it)
	}
	if !strings.HasSuffix(msg[len(msg)-1], "\n") {
		x.writer.WriteString("\n")
	}
	x.flush()
}

func (x *consoleLogger) Log(category *LogCategory, level LogLevel, msg string, args ...interface{}) {
	if !x.IsVisible(level) && !category.Level.IsVisible(level) {
		return
	}

	x.barrier.Lock()
	defer x.barrier.Unlock()

	if x.showTimestamp {
		fmt.Fprintf(x.writer, "%s%010.5f |%s  ", ANSI_FG1_BLACK, Elapsed().Seconds(), ANSI_RESET)
	}

	level.Style(x.writer)
	level.Header(x.writer)
	fmt.Fprintf(x.writer, " %s%s%s%s: ", ANSI_RESET, category.Color.Ansi(true), category.Name, ANSI_RESET)
	level.Style(x.writer)

	fmt.Fprintf(x.writer, msg, args...)
	fmt.Fprintln(x.writer, ANSI_RESET.String())
	x.flush()
}

func (x *consoleLogger) Flush() {
	x.barrier.Lock()
	defer x.barrier.Unlock()
	x.flush()
}
func (x *consoleLogger) flush() {
	if err := FlushWriterIFP(x.writer); err != nil {
		panic(err)
	}
}

/***************************************
 * Interactive shell
 ***************************************/

var enableInteractiveShell bool = false

func EnableInteractiveShell() bool {
	return enableInteractiveShell
}
func SetEnableInteractiveShell(enabled bool) {
	enableInteractiveShell = enabled
}

/***************************************
 * Benchmark
 ***************************************/

type BenchmarkLog struct {
	category  *LogCategory
	message   string
	startedAt time.Duration
}

func (x BenchmarkLog) Close() time.Duration {
	duration := Elapsed() - x.startedAt
	LogVeryVerbose(x.category, "benchmark: %10v   %s", duration, x.message)
	return duration
}
func LogBenchmark(category *LogCategory, msg string, args ...interface{}) BenchmarkLog {
	formatted := fmt.Sprintf(msg, args...) // before measured scope
	return BenchmarkLog{
		category:  category,
		message:   formatted,
		startedAt: Elapsed(),
	}
}
