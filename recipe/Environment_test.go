package recipe

import "testing"

func TestEnvironment(t *testing.T) {
	env := MakeEnvironment(map[string]string{
		"LLVM_ENABLE_LIBCXX":      "",
		"LLVM_BUILD_TOOLS":        "true",
		"LLVM_PARALLEL_LINK_JOBS": "4",
		"LLVM_COMPILER_JOBS":      "four",
	})

	if env.Has("LLVM_ENABLE_LIBCXX") {
		t.Errorf("Environment.Has: an empty variable counts as unset")
	}
	if _, ok := env.Lookup("LLVM_ENABLE_LIBCXX"); !ok {
		t.Errorf("Environment.Lookup: empty variables are still defined")
	}
	if got := env.Flag("LLVM_BUILD_TOOLS", false); got != "ON" {
		t.Errorf("Environment.Flag: expected ON, got %q", got)
	}
	if got := env.Flag("CLANG_ENABLE_FORMAT", true); got != "ON" {
		t.Errorf("Environment.Flag: expected default ON, got %q", got)
	}
	if got := env.Flag("LLVM_ENABLE_LIBCXX", true); got != "OFF" {
		t.Errorf("Environment.Flag: an empty value converts to OFF, got %q", got)
	}
	if n, err := env.Int("LLVM_PARALLEL_LINK_JOBS", 1); err != nil || n != 4 {
		t.Errorf("Environment.Int: expected 4, got %d (%v)", n, err)
	}
	if n, err := env.Int("LLVM_PARALLEL_COMPILE_JOBS", 7); err != nil || n != 7 {
		t.Errorf("Environment.Int: expected default 7, got %d (%v)", n, err)
	}
	if _, err := env.Int("LLVM_COMPILER_JOBS", 1); err == nil {
		t.Errorf("Environment.Int: expected an error for %q", "four")
	}

	var zero Environment
	if zero.Has("PATH") || zero.Get("PATH", "default") != "default" {
		t.Errorf("Environment: zero value should be empty")
	}
}

func TestEnvironment_WithDefaults(t *testing.T) {
	env := MakeEnvironment(map[string]string{"LLVM_BUILD_TOOLS": "OFF"}).WithDefaults(map[string]string{
		"LLVM_BUILD_TOOLS":   "ON",
		"LLVM_ENABLE_LIBCXX": "ON",
	})

	if got := env.Get("LLVM_BUILD_TOOLS", ""); got != "OFF" {
		t.Errorf("Environment.WithDefaults: expected OFF, got %q", got)
	}
	if got := env.Get("LLVM_ENABLE_LIBCXX", ""); got != "ON" {
		t.Errorf("Environment.WithDefaults: expected ON, got %q", got)
	}
	if env.Has("LLVM_USE_NEWPM") {
		t.Errorf("Environment.WithDefaults: unexpected variable")
	}
}

func TestMakeEnvironment_Snapshot(t *testing.T) {
	vars := map[string]string{"LLVM_PACKAGE_NAME": "llvm_9"}
	env := MakeEnvironment(vars)
	vars["LLVM_PACKAGE_NAME"] = "llvm_10"

	if got := env.Get("LLVM_PACKAGE_NAME", ""); got != "llvm_9" {
		t.Errorf("MakeEnvironment: expected a snapshot, got %q", got)
	}
}

func TestGetKnownEnvironmentVariables(t *testing.T) {
	known := GetKnownEnvironmentVariables()
	for _, it := range []string{"LLVM_PARALLEL_COMPILE_JOBS", "llvm_9_BUILD_NUMBER", "LLVM_INCLUDE_TOOLS", "COMPILER_RT_BUILD_CRT"} {
		if !known.Contains(it) {
			t.Errorf("GetKnownEnvironmentVariables: missing %q", it)
		}
	}
	if known.Contains("PYTHON_EXECUTABLE") {
		t.Errorf("GetKnownEnvironmentVariables: inherited llvm_env entries are never read")
	}
}
