package io

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/utils"
)

var LogProcess = base.NewLogCategory("Process")

/***************************************
 * Process Options
 ***************************************/

type ProcessOutputFunc = func(line string) error

type ProcessOptions struct {
	Environment     ProcessEnvironment
	OnOutput        ProcessOutputFunc
	WorkingDir      utils.Directory
	CaptureOutput   bool
	NewProcessGroup bool
	ExitCodeRef     *int32
}

type ProcessOptionFunc func(*ProcessOptions)

func (x *ProcessOptions) Init(options ...ProcessOptionFunc) {
	x.Environment = NewProcessEnvironment()
	x.NewProcessGroup = true
	for _, it := range options {
		it(x)
	}
}

func OptionProcessEnvironment(environment ProcessEnvironment) ProcessOptionFunc {
	return func(po *ProcessOptions) {
		po.Environment.Overwrite(environment)
	}
}
func OptionProcessExitCode(exitCodeRef *int32) ProcessOptionFunc {
	return func(po *ProcessOptions) {
		po.ExitCodeRef = exitCodeRef
	}
}
func OptionProcessExport(name string, values ...string) ProcessOptionFunc {
	return func(po *ProcessOptions) {
		po.Environment.Set(name, values...)
	}
}
func OptionProcessOutput(onOutput ProcessOutputFunc) ProcessOptionFunc {
	return func(po *ProcessOptions) {
		po.OnOutput = onOutput
	}
}
func OptionProcessWorkingDir(value utils.Directory) ProcessOptionFunc {
	return func(po *ProcessOptions) {
		po.WorkingDir = value
	}
}
func OptionProcessCaptureOutput(po *ProcessOptions) {
	po.CaptureOutput = true
}
func OptionProcessCaptureOutputIf(enabled bool) ProcessOptionFunc {
	return func(po *ProcessOptions) {
		po.CaptureOutput = enabled
	}
}

/***************************************
 * RunProcess
 ***************************************/

func FindExecutable(name string) (utils.Filename, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return utils.Filename{}, fmt.Errorf("process: %w", err)
	}
	return utils.MakeFilename(path), nil
}

func RunProcess(ctx context.Context, executable utils.Filename, arguments base.StringSet, userOptions ...ProcessOptionFunc) error {
	var options ProcessOptions
	options.Init(userOptions...)

	defer base.LogBenchmark(LogProcess, "run %q %v", executable.Basename, arguments.Join(" ")).Close()

	return runProcessVanilla(ctx, executable, arguments, &options)
}

// RunProcessOutput runs executable and returns its combined output.
func RunProcessOutput(ctx context.Context, executable utils.Filename, arguments base.StringSet, userOptions ...ProcessOptionFunc) (string, error) {
	var output strings.Builder
	err := RunProcess(ctx, executable, arguments, append(userOptions,
		OptionProcessCaptureOutput,
		OptionProcessOutput(func(line string) error {
			output.WriteString(line)
			output.WriteRune('\n')
			return nil
		}))...)
	return output.String(), err
}

func runProcessVanilla(ctx context.Context, executable utils.Filename, arguments base.StringSet, options *ProcessOptions) (err error) {
	cmd := exec.CommandContext(ctx, executable.String(), arguments...)
	if len(options.Environment) > 0 {
		cmd.Env = append(os.Environ(), options.Environment.Export()...)
	}

	if options.WorkingDir.Valid() {
		cmd.Dir = options.WorkingDir.String()
	}

	if options.NewProcessGroup {
		// don't pass parent signal to child processes, the whole group is killed on cancel
		cmd.SysProcAttr = newProcessGroupSysProcAttr()
		cmd.Cancel = func() error {
			return killProcessGroup(cmd.Process)
		}
	}

	base.LogTrace(LogProcess, "run %v (in %q)", cmd, cmd.Dir)

	if options.CaptureOutput {
		var stdout io.ReadCloser
		if stdout, err = cmd.StdoutPipe(); err != nil {
			return err
		}
		defer stdout.Close()

		cmd.Stderr = cmd.Stdout

		if err = cmd.Start(); err != nil {
			return err
		}

		// lines are unbounded, compiler diagnostics can be very long
		reader := bufio.NewReader(stdout)
		for {
			line, er := reader.ReadString('\n')
			if line = strings.TrimRight(line, "\r\n"); len(line) > 0 {
				if options.OnOutput != nil {
					if er := options.OnOutput(line); er != nil {
						_ = cmd.Cancel()
						_, _ = io.Copy(io.Discard, stdout)
						_ = cmd.Wait()
						return er
					}
				} else {
					base.LogForwardln(line)
				}
			}
			if er == io.EOF {
				break
			}
			if er != nil {
				// keep the pipe drained so the child can't block before Wait()
				_, _ = io.Copy(io.Discard, stdout)
				_ = cmd.Wait()
				return er
			}
		}

		err = cmd.Wait()

	} else {
		outputForError := bytes.Buffer{}
		cmd.Stderr = &outputForError
		cmd.Stdout = &outputForError
		if err = cmd.Run(); err != nil {
			// print output if the command failed
			output := base.UnsafeStringFromBytes(outputForError.Bytes())
			if options.OnOutput != nil {
				if er := options.OnOutput(output); er != nil {
					return er
				}
			} else {
				base.LogForward(output)
			}
		}
	}

	var exitCodeErr *exec.ExitError
	if errors.As(err, &exitCodeErr) && options.ExitCodeRef != nil {
		*options.ExitCodeRef = int32(exitCodeErr.ExitCode())
	}
	if err != nil && ctx.Err() != nil {
		err = fmt.Errorf("%v: %w", executable.Basename, ctx.Err())
	}
	return
}

/***************************************
 * Process Environment
 ***************************************/

type EnvironmentDefinition struct {
	Name   string
	Values base.StringSet
}

func (x EnvironmentDefinition) String() string {
	if len(x.Values) > 0 {
		return fmt.Sprint(x.Name, "=", x.Values.Join(string(os.PathListSeparator)))
	} else {
		return x.Name
	}
}

type ProcessEnvironment []EnvironmentDefinition

func NewProcessEnvironment() ProcessEnvironment {
	return ProcessEnvironment([]EnvironmentDefinition{})
}

func (x ProcessEnvironment) Export() []string {
	result := make([]string, len(x))
	for i, it := range x {
		result[i] = it.String()
	}
	return result
}
func (x ProcessEnvironment) IndexOf(name string) (int, bool) {
	base.AssertNotIn(name, "")
	for i, it := range x {
		if it.Name == name {
			return i, true
		}
	}
	return len(x), false
}
func (x ProcessEnvironment) Get(name string) (string, bool) {
	if i, ok := x.IndexOf(name); ok {
		return x[i].Values.Join(string(os.PathListSeparator)), true
	}
	return "", false
}
func (x *ProcessEnvironment) Append(name string, values ...string) {
	if i, ok := x.IndexOf(name); ok {
		(*x)[i].Values.Append(values...)
	} else {
		*x = append(*x, EnvironmentDefinition{
			Name:   name,
			Values: values,
		})
	}
}
func (x *ProcessEnvironment) Set(name string, values ...string) {
	if i, ok := x.IndexOf(name); ok {
		(*x)[i].Values = values
	} else {
		*x = append(*x, EnvironmentDefinition{
			Name:   name,
			Values: values,
		})
	}
}
func (x *ProcessEnvironment) Overwrite(other ProcessEnvironment) {
	for _, it := range other {
		x.Set(it.Name, it.Values...)
	}
}
