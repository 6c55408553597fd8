package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

var LogCommand = base.NewLogCategory("Command")

var allCommands = struct {
	barrier sync.Mutex
	items   map[string]func() *commandItem
}{items: make(map[string]func() *commandItem)}

var GlobalParsableFlags commandItem

/***************************************
 * CommandName
 ***************************************/

type CommandName struct {
	StringVar
}

func (x CommandName) AutoComplete(in base.AutoComplete) {
	for _, cmd := range GetAllCommands() {
		details := cmd.Details()
		in.Add(details.Name, details.Description)
	}
}

/***************************************
 * CommandLine
 ***************************************/

type CommandLine interface {
	PeekArg(int) (string, bool)
	ConsumeArg(int) (string, error)
	Empty() bool
	fmt.Stringer
	PersistentData
}

type CommandLinable interface {
	CommandLine(name, input string) (bool, error)
}

func splitArgsIFN(args []string, each func([]string) error) error {
	first := 0
	for last := 0; last < len(args); last++ {
		if strings.TrimSpace(args[last]) == `--` {
			break // '--' disables all command-line switches
		}
		if strings.TrimSpace(args[last]) == `-and` {
			if first < last {
				if err := each(args[first:last]); err != nil {
					return err
				}
			}
			first = last + 1
		}
	}

	if first < len(args) {
		return each(args[first:])
	}

	return nil
}

func NewCommandLine(persistent PersistentData, args []string) (result []CommandLine) {
	splitArgsIFN(args, func(split []string) error {
		base.LogTrace(LogCommand, "process arguments -> %q", split)

		result = append(result, &commandLine{
			args:           base.CopySlice(split...),
			PersistentData: persistent,
		})
		return nil
	})

	return
}

type commandLine struct {
	args []string
	PersistentData
}

func (x *commandLine) Empty() bool {
	return len(x.args) == 0
}
func (x *commandLine) String() string {
	return strings.Join(x.args, " ")
}
func (x *commandLine) PeekArg(i int) (string, bool) {
	if i >= len(x.args) {
		return "", false
	}
	return x.args[i], true
}
func (x *commandLine) ConsumeArg(i int) (string, error) {
	if i >= len(x.args) {
		return "", fmt.Errorf("missing argument(s)")
	}
	consumed := x.args[i]
	x.args = append(x.args[:i], x.args[i+1:]...)
	return consumed, nil
}

/***************************************
 * CommandEvents
 ***************************************/

type CommandContext interface {
	CommandItem
}

type commandEvent = func() error

// CommandEvents holds the run events of every command chained with -and, in order.
type CommandEvents struct {
	OnRun []commandEvent
}

type commandEventError struct {
	cmd   *commandItem
	phase string
	inner error
}

func (x commandEventError) Error() string {
	return fmt.Sprintf("%s command %q failed with:\n\t%v", x.phase, x.cmd.Name, x.inner)
}
func (x commandEventError) Unwrap() error {
	return x.inner
}

func makeCommandEventErrorIFN(cmd *commandItem, phase string, inner error) error {
	if inner == nil {
		return nil
	}
	return commandEventError{
		cmd:   cmd,
		phase: phase,
		inner: inner,
	}
}

func invokeCommandEvents(events []commandEvent) error {
	for _, it := range events {
		if err := it(); err != nil {
			return err
		}
	}
	return nil
}

func (x *CommandEvents) Bound() bool {
	return len(x.OnRun) > 0
}
func (x *CommandEvents) Run() error {
	return invokeCommandEvents(x.OnRun)
}
func (x *CommandEvents) Parse(cl CommandLine) (err error) {
	var name string
	if name, err = cl.ConsumeArg(0); err != nil {
		return
	}

	var cmd CommandItem
	if cmd, err = FindCommand(name); err == nil {
		if err = cmd.Parse(cl); err == nil {
			x.Add(cmd.(*commandItem))
		}
	}

	return
}
func (x *CommandEvents) Add(it *commandItem) {
	for _, run := range it.run {
		x.OnRun = append(x.OnRun, func() error {
			base.LogTrace(LogCommand, "run command %q", it)
			return makeCommandEventErrorIFN(it, "run", run(it))
		})
	}
}

/***************************************
 * CommandArgument
 ***************************************/

type CommandArgumentFlag int32

const (
	COMMANDARG_PERSISTENT CommandArgumentFlag = iota
	COMMANDARG_CONSUME
	COMMANDARG_OPTIONAL
	COMMANDARG_VARIADIC
)

func CommandArgumentFlagValues() []CommandArgumentFlag {
	return []CommandArgumentFlag{
		COMMANDARG_PERSISTENT,
		COMMANDARG_CONSUME,
		COMMANDARG_OPTIONAL,
		COMMANDARG_VARIADIC,
	}
}
func (x CommandArgumentFlag) Ord() int32 { return int32(x) }
func (x CommandArgumentFlag) String() string {
	switch x {
	case COMMANDARG_PERSISTENT:
		return "PERSISTENT"
	case COMMANDARG_CONSUME:
		return "CONSUME"
	case COMMANDARG_OPTIONAL:
		return "OPTIONAL"
	case COMMANDARG_VARIADIC:
		return "VARIADIC"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}
func (x *CommandArgumentFlag) Set(in string) error {
	return base.ParseEnum(x, in, CommandArgumentFlagValues()...)
}

type CommandArgumentFlags = base.EnumSet[CommandArgumentFlag, *CommandArgumentFlag]

type CommandArgument interface {
	HasFlag(CommandArgumentFlag) bool
	Parse(CommandLine) error
	Format() string
	Help(io.Writer)
	base.AutoCompletable
}

/***************************************
 * commandBasicArgument
 ***************************************/

type commandBasicArgument struct {
	Short, Long string
	Description string
	Flags       CommandArgumentFlags
}

func (x *commandBasicArgument) Name() string {
	if len(x.Long) > 0 {
		return x.Long
	}
	return x.Short
}
func (x *commandBasicArgument) HasFlag(flag CommandArgumentFlag) bool {
	return x.Flags.Has(flag)
}
func (x *commandBasicArgument) AutoComplete(in base.AutoComplete) {
	if len(x.Short) > 0 {
		in.Add(x.Short, x.Description)
	}
	if len(x.Long) > 0 {
		in.Add(x.Long, x.Description)
	}
}
func (x *commandBasicArgument) Parse(CommandLine) error {
	return nil
}
func (x *commandBasicArgument) Format() string {
	format := x.Short
	if len(x.Short) == 0 {
		format = x.Long
	} else if len(x.Long) > 0 {
		format = fmt.Sprint(format, "|", x.Long)
	}

	if x.Flags.Has(COMMANDARG_OPTIONAL) {
		format = fmt.Sprint(base.ANSI_FAINT, "[", format, "]")
		if x.Flags.Has(COMMANDARG_VARIADIC) {
			format = fmt.Sprint(format, "*")
		}
	} else {
		format = fmt.Sprint("<", format, ">")
		if x.Flags.Has(COMMANDARG_VARIADIC) {
			format = fmt.Sprint(format, "+")
		}
	}
	return fmt.Sprint(base.ANSI_ITALIC, base.ANSI_FG0_YELLOW, format, base.ANSI_RESET)
}
func (x *commandBasicArgument) Help(w io.Writer) {
	fmt.Fprintf(w, "    %s\n", x.Format())
	fmt.Fprintf(w, "        %v%s%v\n", base.ANSI_FG0_BLUE, x.Description, base.ANSI_RESET)
}

/***************************************
 * CommandConsumeArgument
 ***************************************/

type commandConsumeOneArgument[T any, P interface {
	*T
	PersistentVar
}] struct {
	Value   *T
	Default T
	commandBasicArgument
}

func (x *commandConsumeOneArgument[T, P]) AutoComplete(in base.AutoComplete) {
	var anon interface{} = x.Value
	if it, ok := anon.(base.AutoCompletable); ok {
		it.AutoComplete(in)
	}
}
func (x *commandConsumeOneArgument[T, P]) Parse(cl CommandLine) error {
	*x.Value = x.Default

	arg, err := cl.ConsumeArg(0)
	if err != nil {
		if x.HasFlag(COMMANDARG_OPTIONAL) {
			err = nil
		}
		return err
	}

	return P(x.Value).Set(arg)
}

func OptionCommandConsumeArg[T any, P interface {
	*T
	PersistentVar
}](name, description string, value *T, flags ...CommandArgumentFlag) CommandOptionFunc {
	return optionCommandArg(&commandConsumeOneArgument[T, P]{
		Value:   value,
		Default: *value,
		commandBasicArgument: commandBasicArgument{
			Long:        name,
			Description: description,
			Flags:       base.NewEnumSet[CommandArgumentFlag, *CommandArgumentFlag](append(flags, COMMANDARG_CONSUME)...),
		},
	})
}

type commandConsumeManyArguments[T any, P interface {
	*T
	PersistentVar
}] struct {
	Value *[]T
	commandBasicArgument
}

func (x *commandConsumeManyArguments[T, P]) Parse(cl CommandLine) (err error) {
	*x.Value = []T{}

	var arg string
	for loop := 0; ; loop++ {
		if arg, err = cl.ConsumeArg(0); err == nil {
			var it T
			if err = P(&it).Set(arg); err == nil {
				*x.Value = append(*x.Value, it)
				continue
			}
		}

		if x.HasFlag(COMMANDARG_OPTIONAL) || loop > 0 {
			err = nil
		}
		break
	}

	return err
}

func OptionCommandConsumeMany[T any, P interface {
	*T
	PersistentVar
}](name, description string, value *[]T, flags ...CommandArgumentFlag) CommandOptionFunc {
	return optionCommandArg(&commandConsumeManyArguments[T, P]{
		Value: value,
		commandBasicArgument: commandBasicArgument{
			Long:        name,
			Description: description,
			Flags:       base.NewEnumSet[CommandArgumentFlag, *CommandArgumentFlag](append(flags, COMMANDARG_CONSUME, COMMANDARG_VARIADIC)...),
		},
	})
}

/***************************************
 * CommandParsableFlagsArgument
 ***************************************/

type CommandFlagsVisitor interface {
	Persistent(name, usage string, value PersistentVar)
	Variable(name, usage string, value PersistentVar)
}

type CommandParsableFlags interface {
	Flags(CommandFlagsVisitor)
}

type commandPersistentVar struct {
	Name, Usage string
	Switch      string
	Value       PersistentVar
	Flags       CommandArgumentFlags
}

type commandParsableArgument struct {
	Value     CommandParsableFlags
	Variables []commandPersistentVar
	commandBasicArgument
}

func NewGlobalCommandParsableFlags[T any, P interface {
	*T
	CommandParsableFlags
}](description string, flags *T) func() P {
	parsable := P(flags)
	GlobalParsableFlags.Options(OptionCommandParsableFlags(
		fmt.Sprintf("%T", flags)[1:],
		description,
		parsable))
	return func() P {
		return parsable
	}
}

func (x *commandParsableArgument) AutoComplete(in base.AutoComplete) {
	for _, v := range x.Variables {
		if _, ok := v.Value.(*BoolVar); ok {
			in.Add(v.Switch, v.Usage)
			in.Add("-no-"+v.Name, v.Usage)
		} else {
			in.Add(fmt.Sprint(v.Switch, `=`, v.Value.String()), v.Usage)
		}
	}
}
func (x *commandParsableArgument) Parse(cl CommandLine) (err error) {
	for _, v := range x.Variables {
		if v.Flags.Has(COMMANDARG_PERSISTENT) {
			cl.LoadData(x.Long, v.Name, v.Value)
		}
	}

	for _, v := range x.Variables {
		for i := 0; ; {
			if arg, ok := cl.PeekArg(i); ok {
				if arg == "--" {
					// using "--" will ignore option parsing for the rest of the command-line
					break
				}

				var anon interface{} = v.Value
				var clb CommandLinable
				if clb, ok = anon.(CommandLinable); ok {
					ok, err = clb.CommandLine(v.Name, arg)
				} else {
					ok, err = base.InheritableCommandLine(v.Name, arg, v.Value)
				}

				if ok || err != nil {
					cl.ConsumeArg(i)
					if err == nil {
						continue
					} else {
						break
					}
				}
			} else {
				break
			}
			i++
		}

		if err != nil {
			break
		}
	}

	for _, v := range x.Variables {
		if v.Flags.Has(COMMANDARG_PERSISTENT) {
			cl.StoreData(x.Long, v.Name, v.Value)
		}
	}

	return
}
func (x *commandParsableArgument) Help(w io.Writer) {
	x.commandBasicArgument.Help(w)
	for _, v := range x.Variables {
		colorFG := base.ANSI_FG0_CYAN
		if v.Flags.Has(COMMANDARG_PERSISTENT) {
			colorFG = base.ANSI_FG1_MAGENTA
		}
		fmt.Fprintf(w, "        %v%v%-24s%v %v%s%v\n",
			base.ANSI_ITALIC, colorFG, v.Switch, base.ANSI_RESET,
			base.ANSI_FAINT, v.Value.String(), base.ANSI_RESET)
		fmt.Fprintf(w, "            %v%s%v\n", base.ANSI_FG0_WHITE, v.Usage, base.ANSI_RESET)
	}
}

type commandParsableFunctor struct {
	onPersistent func(name, usage string, value PersistentVar, persistent bool)
}

func (x commandParsableFunctor) Persistent(name, usage string, value PersistentVar) {
	x.onPersistent(name, usage, value, true)
}
func (x commandParsableFunctor) Variable(name, usage string, value PersistentVar) {
	x.onPersistent(name, usage, value, false)
}

func VisitParsableFlags(parsable CommandParsableFlags,
	onPersistent func(name, usage string, value PersistentVar, persistent bool)) {
	parsable.Flags(commandParsableFunctor{onPersistent: onPersistent})
}

func newCommandParsableFlags(name, description string, value CommandParsableFlags, flags ...CommandArgumentFlag) *commandParsableArgument {
	arg := &commandParsableArgument{
		Value: value,
		commandBasicArgument: commandBasicArgument{
			Long:        name,
			Description: description,
			Flags:       base.NewEnumSet[CommandArgumentFlag, *CommandArgumentFlag](append(flags, COMMANDARG_OPTIONAL, COMMANDARG_VARIADIC)...),
		},
	}

	VisitParsableFlags(arg.Value, func(name, usage string, value PersistentVar, persistent bool) {
		base.Assert(func() bool { return len(name) > 0 })
		base.Assert(func() bool { return len(usage) > 0 })

		v := commandPersistentVar{
			Name:   name,
			Usage:  usage,
			Switch: fmt.Sprint("-", name),
			Value:  value,
			Flags:  base.NewEnumSet[CommandArgumentFlag, *CommandArgumentFlag](COMMANDARG_OPTIONAL),
		}

		if persistent {
			v.Flags.Add(COMMANDARG_PERSISTENT)
		}

		arg.Variables = append(arg.Variables, v)
	})

	return arg
}

func OptionCommandParsableFlags(name, description string, value CommandParsableFlags, flags ...CommandArgumentFlag) CommandOptionFunc {
	arg := newCommandParsableFlags(name, description, value, flags...)
	return optionCommandArg(arg)
}

/***************************************
 * CommandItem
 ***************************************/

type CommandDetails struct {
	Category, Name string
	Description    string
	Notes          string
}

func (x CommandDetails) IsNaked() bool {
	return len(x.Name) == 0
}

type CommandItem interface {
	Details() CommandDetails
	Arguments() []CommandArgument
	Options(...CommandOptionFunc)
	Parse(CommandLine) error
	Usage() string
	Help(io.Writer)
	base.AutoCompletable
	fmt.Stringer
}

type commandItem struct {
	CommandDetails

	arguments []CommandArgument
	run       []func(CommandContext) error
}

func (x *commandItem) Details() CommandDetails      { return x.CommandDetails }
func (x *commandItem) Arguments() []CommandArgument { return x.arguments }
func (x *commandItem) String() string               { return fmt.Sprint(x.Category, "/", x.Name) }

func (x *commandItem) Options(options ...CommandOptionFunc) {
	for _, opt := range options {
		opt(x)
	}
}
func (x *commandItem) AutoComplete(in base.AutoComplete) {
	for _, a := range x.Arguments() {
		a.AutoComplete(in)
	}
}
func (x *commandItem) Parse(cl CommandLine) error {
	// first switch/non-positional arguments
	for _, it := range x.arguments {
		if it.HasFlag(COMMANDARG_CONSUME) {
			continue
		}
		if err := it.Parse(cl); err != nil {
			return err
		}
	}

	// then detect unknown command flags (warning)
	if !x.IsNaked() {
		unknownFlags := []string{}
		for i := 0; ; {
			if arg, ok := cl.PeekArg(i); ok {
				if len(arg) > 0 && arg[0] == '-' {
					cl.ConsumeArg(i) // ignored by consumable/positional arguments
					if arg == "--" {
						break
					}
					unknownFlags = append(unknownFlags, arg)
					continue
				}
				i++
			} else {
				break
			}
		}
		if len(unknownFlags) > 0 {
			for _, it := range unknownFlags {
				suggest := base.NewPrefixAutoComplete(it)
				x.AutoComplete(suggest)
				GlobalParsableFlags.AutoComplete(suggest)
				if best := suggest.Best(1); len(best) > 0 {
					base.LogWarning(LogCommand, "unknown command flag %q, did you mean %q?", it, best[0].Text)
				} else {
					base.LogWarning(LogCommand, "unknown command flag %q", it)
				}
			}
		}
	}

	// then consume arguments (error)
	for _, it := range x.arguments {
		if !it.HasFlag(COMMANDARG_CONSUME) {
			continue
		}
		if err := it.Parse(cl); err != nil {
			return err
		}
	}

	// then detect unused arguments
	if !x.IsNaked() {
		unusedArguments := []string{}
		for i := 0; ; i++ {
			if arg, ok := cl.PeekArg(i); ok {
				unusedArguments = append(unusedArguments, arg)
			} else {
				break
			}
		}
		if len(unusedArguments) > 0 {
			return fmt.Errorf("unused command arguments: %q", strings.Join(unusedArguments, ", "))
		}
	}

	return nil
}
func (x *commandItem) Usage() (format string) {
	if base.EnableInteractiveShell() {
		format = fmt.Sprint(base.ANSI_UNDERLINE, base.ANSI_FG1_GREEN, x.Name, base.ANSI_RESET)
	} else {
		format = x.Name
	}

	for _, a := range x.arguments {
		format = fmt.Sprint(format, " ", a.Format())
	}
	return format
}
func (x *commandItem) Help(w io.Writer) {
	fmt.Fprintf(w, "  %s\n", x.Usage())
	fmt.Fprintf(w, "    %s\n", x.Description)
	if len(x.Notes) > 0 {
		fmt.Fprintf(w, "    %v%s%v\n", base.ANSI_FAINT, x.Notes, base.ANSI_RESET)
	}
	for _, a := range x.arguments {
		a.Help(w)
	}
	fmt.Fprintln(w)
}

/***************************************
 * NewCommand
 ***************************************/

type CommandOptionFunc func(*commandItem)

func optionCommandArg(arg CommandArgument) CommandOptionFunc {
	return func(ci *commandItem) {
		ci.arguments = append(ci.arguments, arg)
	}
}
func OptionCommandRun(e func(CommandContext) error) CommandOptionFunc {
	return func(ci *commandItem) {
		ci.run = append(ci.run, e)
	}
}
func OptionCommandNotes(format string, args ...interface{}) CommandOptionFunc {
	return func(ci *commandItem) {
		ci.Notes += fmt.Sprintf(format, args...)
	}
}

func NewCommand(
	category, name, description string,
	options ...CommandOptionFunc,
) func() CommandItem {
	factory := base.Memoize(func() *commandItem {
		result := &commandItem{
			CommandDetails: CommandDetails{
				Category:    category,
				Name:        name,
				Description: description,
			},
		}
		result.Options(options...)
		return result
	})

	key := strings.ToUpper(name)
	allCommands.barrier.Lock()
	if _, ok := allCommands.items[key]; ok {
		base.LogPanic(LogCommand, "command %q already registered", name)
	}
	allCommands.items[key] = factory
	allCommands.barrier.Unlock()

	return func() CommandItem {
		return factory()
	}
}

/***************************************
 * Commandable
 ***************************************/

type Commandable interface {
	Init(CommandContext) error
	Run(CommandContext) error
}

func NewCommandable[T any, P interface {
	*T
	Commandable
}](category, name, description string, cmd *T) func() CommandItem {
	return NewCommand(category, name, description,
		func(ci *commandItem) {
			base.LogPanicIfFailed(LogCommand, P(cmd).Init(ci))
		},
		OptionCommandRun(P(cmd).Run))
}

/***************************************
 * AllCommands
 ***************************************/

func GetAllCommands() []CommandItem {
	allCommands.barrier.Lock()
	cmds := make([]*commandItem, 0, len(allCommands.items))
	for _, factory := range allCommands.items {
		cmds = append(cmds, factory())
	}
	allCommands.barrier.Unlock()

	sort.Slice(cmds, func(i, j int) bool {
		if c := strings.Compare(cmds[i].Category, cmds[j].Category); c == 0 {
			return strings.Compare(cmds[i].Name, cmds[j].Name) < 0
		} else {
			return c < 0
		}
	})

	result := make([]CommandItem, len(cmds))
	for i, it := range cmds {
		result[i] = it
	}
	return result
}

func FindCommand(name string) (CommandItem, error) {
	allCommands.barrier.Lock()
	factory, found := allCommands.items[strings.ToUpper(name)]
	allCommands.barrier.Unlock()

	if found {
		return factory(), nil
	}

	suggest := base.NewPrefixAutoComplete(name)
	CommandName{}.AutoComplete(suggest)
	if best := suggest.Best(1); len(best) > 0 {
		return nil, fmt.Errorf("unknown command %q, did you mean %q?", name, best[0].Text)
	}
	return nil, fmt.Errorf("unknown command %q", name)
}

func PrintCommandHelp(w io.Writer, detailed bool) {
	fmt.Fprintf(w, "%v  v.%v\nbootstrap build orchestrator for LLVM/Clang\n\n", PROCESS_INFO.Path, PROCESS_INFO.Version)

	header := func(title string) {
		fmt.Fprintf(w, "%v%v---------- %s ----------%v\n", base.ANSI_FG1_MAGENTA, base.ANSI_FAINT, title, base.ANSI_RESET)
	}

	lastCategory := ""
	for _, cmd := range GetAllCommands() {
		details := cmd.Details()
		if lastCategory != details.Category {
			lastCategory = details.Category
			header(details.Category)
		}

		if detailed {
			cmd.Help(w)
		} else {
			fmt.Fprintf(w, " %v%-12s%v %s\n", base.ANSI_FG1_GREEN, details.Name, base.ANSI_RESET, details.Description)
		}
	}

	if len(GlobalParsableFlags.arguments) > 0 {
		fmt.Fprintln(w)
		header("Global")
		for _, a := range GlobalParsableFlags.arguments {
			a.Help(w)
		}
	}
}

/***************************************
 * HelpCommand
 ***************************************/

type HelpCommand struct {
	Command CommandName
}

func (x *HelpCommand) Init(cc CommandContext) error {
	cc.Options(OptionCommandConsumeArg("command_name", "print specific informations if a command name is provided", &x.Command.StringVar, COMMANDARG_OPTIONAL))
	return nil
}
func (x *HelpCommand) Run(cc CommandContext) error {
	var w io.Writer = os.Stdout
	if x.Command.IsInheritable() {
		PrintCommandHelp(w, base.IsLogLevelActive(base.LOG_VERBOSE))
		return nil
	}

	cmd, err := FindCommand(x.Command.Get())
	if err != nil {
		return err
	}
	cmd.Help(w)
	return nil
}

var CommandHelp = NewCommandable("Misc", "help", "print help about command usage", &HelpCommand{})
