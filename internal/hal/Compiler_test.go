package hal

import "testing"

func TestParseClangVersion(t *testing.T) {
	tests := []struct {
		output  string
		name    string
		version string
	}{
		{"clang version 9.0.1 (https://github.com/llvm/llvm-project.git)\nTarget: x86_64-pc-linux-gnu", "clang", "9.0.1"},
		{"Ubuntu clang version 14.0.0-1ubuntu1.1\nTarget: x86_64-pc-linux-gnu", "clang", "14.0.0"},
		{"Apple clang version 9.0.0 (clang-900.0.39.2)\nTarget: x86_64-apple-darwin17.7.0", "apple-clang", "9.0.0"},
	}
	for _, tt := range tests {
		hc, err := ParseClangVersion(tt.output)
		if err != nil {
			t.Fatalf("ParseClangVersion(%q) failed: %v", tt.output, err)
		}
		if hc.Name != tt.name || hc.Version != tt.version {
			t.Errorf("ParseClangVersion(%q) = %v %v, want %v %v", tt.output, hc.Name, hc.Version, tt.name, tt.version)
		}
	}

	if _, err := ParseClangVersion("gcc (GCC) 12.2.0"); err == nil {
		t.Error("expected an error for gcc output")
	}
}

func TestParseGccVersion(t *testing.T) {
	hc, err := ParseGccVersion("12.2.0\n")
	if err != nil {
		t.Fatal(err)
	}
	if hc.Name != "gcc" || hc.Version != "12.2.0" {
		t.Errorf("unexpected compiler %v", hc)
	}

	if _, err := ParseGccVersion("g++: command not found"); err == nil {
		t.Error("expected an error for garbage output")
	}
}
