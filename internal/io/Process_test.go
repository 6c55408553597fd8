package io

import (
	"context"
	"os"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestProcessEnvironment(t *testing.T) {
	env := NewProcessEnvironment()
	env.Set("SYMBOLIZER", "/opt/llvm/bin/llvm-symbolizer")
	env.Append("LD_LIBRARY_PATH", "/opt/llvm/lib")
	env.Append("LD_LIBRARY_PATH", "/usr/lib")

	if value, ok := env.Get("SYMBOLIZER"); !ok || value != "/opt/llvm/bin/llvm-symbolizer" {
		t.Errorf("ProcessEnvironment.Get: unexpected SYMBOLIZER=%q", value)
	}
	expected := "/opt/llvm/lib" + string(os.PathListSeparator) + "/usr/lib"
	if value, _ := env.Get("LD_LIBRARY_PATH"); value != expected {
		t.Errorf("ProcessEnvironment.Append: expected %q, got %q", expected, value)
	}

	other := NewProcessEnvironment()
	other.Set("SYMBOLIZER", "/tmp/llvm-symbolizer")
	other.Set("LLVM_CONFIG_PATH", "/tmp/llvm-config")
	env.Overwrite(other)

	exported := strings.Join(env.Export(), " ")
	for _, it := range []string{"SYMBOLIZER=/tmp/llvm-symbolizer", "LLVM_CONFIG_PATH=/tmp/llvm-config", "LD_LIBRARY_PATH=" + expected} {
		if !strings.Contains(exported, it) {
			t.Errorf("ProcessEnvironment.Export: missing %q in %q", it, exported)
		}
	}
	if _, ok := env.Get("PATH"); ok {
		t.Errorf("ProcessEnvironment.Get: unexpected PATH")
	}
}

func TestRunProcessOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a POSIX shell")
	}
	sh, err := FindExecutable("sh")
	if err != nil {
		t.Skip(err)
	}

	output, err := RunProcessOutput(context.Background(), sh, []string{"-c", "echo $LLVM_CONFIG_PATH"},
		OptionProcessExport("LLVM_CONFIG_PATH", "/tmp/llvm-config"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(output) != "/tmp/llvm-config" {
		t.Errorf("RunProcessOutput: unexpected output %q", output)
	}

	var exitCode int32
	err = RunProcess(context.Background(), sh, []string{"-c", "exit 3"}, OptionProcessExitCode(&exitCode))
	if err == nil || exitCode != 3 {
		t.Errorf("RunProcess: expected exit code 3, got %d (%v)", exitCode, err)
	}
}

func TestRunProcessOutput_LongLines(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a POSIX shell")
	}
	sh, err := FindExecutable("sh")
	if err != nil {
		t.Skip(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const lineLen = 2 << 20
	script := "for i in 1 2; do head -c 2097152 /dev/zero | tr '\\0' 'a'; echo; done"
	output, err := RunProcessOutput(ctx, sh, []string{"-c", script})
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("RunProcessOutput: expected 2 lines, got %d", len(lines))
	}
	for i, it := range lines {
		if len(it) != lineLen {
			t.Errorf("RunProcessOutput: line %d has %d bytes, expected %d", i, len(it), lineLen)
		}
	}
}
