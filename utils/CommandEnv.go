package utils

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

/***************************************
 * Command Flags
 ***************************************/

type CommandFlags struct {
	Force          BoolVar
	Quiet          BoolVar
	Verbose        BoolVar
	Trace          BoolVar
	VeryVerbose    BoolVar
	Debug          BoolVar
	Timestamp      BoolVar
	Color          BoolVar
	LogAll         base.StringSet
	LogFile        Filename
	OutputDir      Directory
	RootDir        Directory
	WarningAsError BoolVar
}

var GetCommandFlags = NewGlobalCommandParsableFlags("global command options", &CommandFlags{
	Force:          base.INHERITABLE_FALSE,
	Quiet:          base.INHERITABLE_FALSE,
	Verbose:        base.INHERITABLE_FALSE,
	Trace:          base.INHERITABLE_FALSE,
	VeryVerbose:    base.INHERITABLE_FALSE,
	Debug:          base.MakeBoolVar(base.DEBUG_ENABLED),
	Color:          base.INHERITABLE_INHERIT,
	Timestamp:      base.INHERITABLE_FALSE,
	WarningAsError: base.INHERITABLE_FALSE,
})

func (flags *CommandFlags) Flags(cfv CommandFlagsVisitor) {
	cfv.Variable("f", "force stages to run even if their output folder already exists", &flags.Force)
	cfv.Variable("q", "disable all messages", &flags.Quiet)
	cfv.Variable("v", "turn on verbose mode", &flags.Verbose)
	cfv.Variable("t", "print more informations about progress", &flags.Trace)
	cfv.Variable("V", "turn on very verbose mode", &flags.VeryVerbose)
	cfv.Variable("d", "turn on debug assertions and more log", &flags.Debug)
	cfv.Variable("T", "turn on timestamp logging", &flags.Timestamp)
	cfv.Variable("Color", "control ansi color output in log messages", &flags.Color)
	cfv.Variable("LogAll", "force to output all messages for given log categories", &flags.LogAll)
	cfv.Variable("LogFile", "output log to specified file (default: stdout)", &flags.LogFile)
	cfv.Variable("OutputDir", "override default output directory", &flags.OutputDir)
	cfv.Variable("RootDir", "override root directory", &flags.RootDir)
	cfv.Variable("WX", "consider warnings as errors", &flags.WarningAsError)
}
func (flags *CommandFlags) Apply() error {
	for _, category := range flags.LogAll {
		if err := base.GetLogManager().SetCategoryLevel(category, base.LOG_ALL); err != nil {
			return err
		}
	}

	if flags.LogFile.Valid() {
		if outp, err := UFS.CreateWriter(flags.LogFile); err == nil {
			base.SetEnableInteractiveShell(false)
			base.SetEnableAnsiColor(false)
			base.GetLogger().SetWriter(outp)
		} else {
			return err
		}
	}

	base.GetLogger().SetShowTimestamp(flags.Timestamp.Get())

	if flags.Debug.Get() {
		base.GetLogger().SetLevel(base.LOG_DEBUG)
		base.SetEnableDiagnostics(true)
	}
	if flags.Verbose.Get() {
		base.GetLogger().SetLevel(base.LOG_VERBOSE)
	}
	if flags.Trace.Get() {
		base.GetLogger().SetLevel(base.LOG_TRACE)
	}
	if flags.VeryVerbose.Get() {
		base.GetLogger().SetLevel(base.LOG_VERYVERBOSE)
	}
	if flags.Quiet.Get() {
		base.GetLogger().SetLevel(base.LOG_ERROR)
	}
	if flags.WarningAsError.Get() {
		base.SetLogWarningAsError(true)
	}
	if flags.Force.Get() {
		base.LogTrace(LogCommand, "stages will be forced due to '-f' command-line option")
	}

	if !flags.Color.IsInheritable() {
		base.SetEnableAnsiColor(flags.Color.Get())
	}

	if flags.RootDir.Valid() {
		if err := UFS.MountRootDirectory(flags.RootDir); err != nil {
			return err
		}
	}
	if flags.OutputDir.Valid() {
		return UFS.MountOutputDir(flags.OutputDir)
	}
	return nil
}

/***************************************
 * Command Env
 ***************************************/

type CommandEnvT struct {
	prefix     string
	persistent *persistentData
	startedAt  time.Time

	configPath Filename

	context context.Context
	cancel  context.CancelFunc

	onExit []func(*CommandEnvT) error

	commandEvents CommandEvents
	commandLines  []CommandLine

	panicked atomic.Bool
}

var CommandEnv *CommandEnvT

func InitCommandEnv(prefix string, args []string, startedAt time.Time) (*CommandEnvT, error) {
	CommandEnv = &CommandEnvT{
		prefix:     prefix,
		persistent: NewPersistentMap(prefix),
		startedAt:  startedAt,
	}
	CommandEnv.context, CommandEnv.cancel = context.WithCancel(context.Background())

	base.OnPanic = CommandEnv.OnPanic

	// parse global flags early-on, then drop command-lines left empty
	commandLines := NewCommandLine(CommandEnv.persistent, args)
	for _, cl := range commandLines {
		if err := GlobalParsableFlags.Parse(cl); err != nil {
			return nil, err
		}
		if !cl.Empty() {
			CommandEnv.commandLines = append(CommandEnv.commandLines, cl)
		}
	}

	// apply global command flags early-on
	if err := GetCommandFlags().Apply(); err != nil {
		return nil, err
	}

	// use UFS.Output only after having parsed -OutputDir/RootDir= flags
	CommandEnv.configPath = UFS.Output.File(fmt.Sprint(".", prefix, "-config.json"))
	base.LogVerbose(LogCommand, "will load config from %q", CommandEnv.configPath)

	go func() {
		const maxBeforePanic = 3
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		for i := 0; i < maxBeforePanic; i++ {
			<-c

			base.LogWarning(LogCommand, "\r- Ctrl+C pressed in Terminal, aborting (%d/%d)", i+1, maxBeforePanic)
			// the running process group is killed through the canceled context
			CommandEnv.Abort()
		}

		CommandPanicF("Ctrl+C pressed %d times in Terminal, panic", maxBeforePanic)
	}()

	return CommandEnv, nil
}
func (env *CommandEnvT) Prefix() string             { return env.prefix }
func (env *CommandEnvT) Persistent() PersistentData { return env.persistent }
func (env *CommandEnvT) ConfigPath() Filename       { return env.configPath }
func (env *CommandEnvT) StartedAt() time.Time       { return env.startedAt }
func (env *CommandEnvT) Context() context.Context   { return env.context }

func (env *CommandEnvT) OnExit(e func(*CommandEnvT) error) {
	env.onExit = append(env.onExit, e)
}

func CommandPanicF(msg string, args ...interface{}) {
	CommandPanic(fmt.Errorf(msg, args...))
}
func CommandPanic(err error) {
	base.Panic(err)
}

// config is not saved when a panic occurred
func (env *CommandEnvT) OnPanic(err error) base.PanicResult {
	if env.panicked.CompareAndSwap(false, true) {
		base.LogError(LogCommand, "%v", err)
		env.Abort()
		return base.PANIC_ABORT
	}
	return base.PANIC_REENTRANCY // a fatal error was already reported
}

func (env *CommandEnvT) Abort() {
	env.cancel()
}

func (env *CommandEnvT) Run() error {
	if err := env.loadConfig(); err != nil {
		base.LogWarningVerbose(LogCommand, "failed to load config: %v", err)
	}

	// parse specified commands
	for _, cl := range env.commandLines {
		if err := env.commandEvents.Parse(cl); err != nil {
			return err
		}
	}

	defer func() {
		for _, it := range env.onExit {
			if err := it(env); err != nil {
				base.LogError(LogCommand, "on exit: %v", err)
			}
		}
		env.cancel()
	}()

	// check if any command was successfully parsed
	if !env.commandEvents.Bound() {
		base.LogWarning(LogCommand, "missing argument, use `help` to learn about command usage")
		return nil
	}

	err := env.commandEvents.Run()

	if er := env.saveConfig(); er != nil && err == nil {
		err = er
	}
	return err
}

func (env *CommandEnvT) loadConfig() error {
	benchmark := base.LogBenchmark(LogCommand, "loading config from '%v'...", env.configPath)
	defer benchmark.Close()

	if !env.configPath.Exists() {
		return nil
	}
	return UFS.OpenBuffered(env.configPath, env.persistent.Deserialize)
}
func (env *CommandEnvT) saveConfig() error {
	if !env.persistent.Dirty() {
		base.LogTrace(LogCommand, "skipped saving unmodified config")
		return nil
	}
	benchmark := base.LogBenchmark(LogCommand, "saving config to '%v'...", env.configPath)
	defer benchmark.Close()

	return UFS.SafeCreate(env.configPath, env.persistent.Serialize)
}
