package io

import (
	"strings"
	"testing"
	"time"
)

func TestParseGitLogLine(t *testing.T) {
	var status GitFolderStatus
	line := `"c13b7485b87909fcf739f62cfa382b55407433c0;1576162315;HEAD -> release/9.x, tag: llvmorg-9.0.1, origin/release/9.x"`
	if err := parseGitLogLine(line, &status); err != nil {
		t.Fatal(err)
	}

	if status.Revision != "c13b7485b87909fcf739f62cfa382b55407433c0" {
		t.Errorf("parseGitLogLine: unexpected revision %q", status.Revision)
	}
	if status.Branch != "release/9.x" {
		t.Errorf("parseGitLogLine: unexpected branch %q", status.Branch)
	}
	if !status.Timestamp.Equal(time.Unix(1576162315, 0)) {
		t.Errorf("parseGitLogLine: unexpected timestamp %v", status.Timestamp)
	}
}

func TestParseGitLogLine_DetachedHead(t *testing.T) {
	var status GitFolderStatus
	if err := parseGitLogLine("abc123;1576162315;tag: llvmorg-9.0.1\n", &status); err != nil {
		t.Fatal(err)
	}
	if status.Branch != "tag: llvmorg-9.0.1" {
		t.Errorf("parseGitLogLine: unexpected branch %q", status.Branch)
	}
}

func TestParseGitLogLine_Invalid(t *testing.T) {
	var status GitFolderStatus
	if err := parseGitLogLine("abc123", &status); err == nil {
		t.Errorf("parseGitLogLine: expected an error for a truncated line")
	}
	if err := parseGitLogLine("abc123;yesterday;HEAD", &status); err == nil {
		t.Errorf("parseGitLogLine: expected an error for an invalid timestamp")
	}
}

func TestGitCloneArguments(t *testing.T) {
	args := GitCloneArguments("https://github.com/llvm/llvm-project.git", "llvmorg-9.0.1", 100, "llvm_project")
	expected := "clone -b llvmorg-9.0.1 --progress --depth 100 --recursive --recurse-submodules https://github.com/llvm/llvm-project.git llvm_project"
	if got := strings.Join(args, " "); got != expected {
		t.Errorf("GitCloneArguments:\n  expected %q\n  got      %q", expected, got)
	}
}
