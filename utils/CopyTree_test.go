package utils

import (
	"os"
	"runtime"
	"testing"
	"time"
)

func TestCopyTree_MirrorsFolders(t *testing.T) {
	src := UFS.Dir(t.TempDir())
	dst := UFS.Dir(t.TempDir()).Folder("package")

	writeTestFile(t, src.File("bin", "clang"), "clang")
	writeTestFile(t, src.File("include", "llvm", "Config.h"), "#define LLVM 1")
	writeTestFile(t, src.File("lib", "CMakeFiles", "rules.make"), "ignored")
	writeTestFile(t, src.File("lib", "test", "unit.cpp"), "ignored")
	writeTestFile(t, src.File("lib", ".marks"), "ignored")

	if err := UFS.CopyTree(src, dst); err != nil {
		t.Fatalf("UFS.CopyTree: %v", err)
	}

	for _, it := range []Filename{dst.File("bin", "clang"), dst.File("include", "llvm", "Config.h")} {
		if !it.Exists() {
			t.Errorf("UFS.CopyTree: expected %v to be copied", it)
		}
	}
	for _, it := range []Directory{dst.Folder("lib", "CMakeFiles"), dst.Folder("lib", "test")} {
		if it.Exists() {
			t.Errorf("UFS.CopyTree: ignored folder %v was copied", it)
		}
	}
	if dst.File("lib", ".marks").Exists() {
		t.Errorf("UFS.CopyTree: ignored file .marks was copied")
	}
	if data, _ := UFS.ReadAll(dst.File("include", "llvm", "Config.h")); string(data) != "#define LLVM 1" {
		t.Errorf("UFS.CopyTree: unexpected content %q", data)
	}
}

func TestCopyTree_SkipsUpToDateFiles(t *testing.T) {
	src := UFS.Dir(t.TempDir())
	dst := UFS.Dir(t.TempDir())

	srcFile := src.File("lib", "libLLVMCore.a")
	dstFile := dst.File("lib", "libLLVMCore.a")
	writeTestFile(t, srcFile, "fresh")

	if err := UFS.CopyTree(src, dst); err != nil {
		t.Fatalf("UFS.CopyTree: %v", err)
	}

	// local modification with the same timestamp survives a second copy
	writeTestFile(t, dstFile, "local")
	srcInfo, err := srcFile.Info()
	if err != nil {
		t.Fatal(err)
	}
	if err := UFS.SetMTime(dstFile, GetModificationTime(srcInfo)); err != nil {
		t.Fatal(err)
	}
	if err := UFS.CopyTree(src, dst); err != nil {
		t.Fatalf("UFS.CopyTree: %v", err)
	}
	if data, _ := UFS.ReadAll(dstFile); string(data) != "local" {
		t.Errorf("UFS.CopyTree: up-to-date file was overwritten with %q", data)
	}

	// an outdated destination gets replaced
	if err := UFS.SetMTime(dstFile, GetModificationTime(srcInfo).Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := UFS.CopyTree(src, dst); err != nil {
		t.Fatalf("UFS.CopyTree: %v", err)
	}
	if data, _ := UFS.ReadAll(dstFile); string(data) != "fresh" {
		t.Errorf("UFS.CopyTree: outdated file was not replaced, got %q", data)
	}
}

func TestCopyTree_PreservesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on windows")
	}
	src := UFS.Dir(t.TempDir())
	dst := UFS.Dir(t.TempDir())

	writeTestFile(t, src.File("bin", "clang"), "clang")
	if err := os.Symlink("clang", src.File("bin", "clang++").String()); err != nil {
		t.Fatal(err)
	}

	if err := UFS.CopyTree(src, dst); err != nil {
		t.Fatalf("UFS.CopyTree: %v", err)
	}
	target, err := os.Readlink(dst.File("bin", "clang++").String())
	if err != nil {
		t.Fatalf("UFS.CopyTree: expected a symlink: %v", err)
	}
	if target != "clang" {
		t.Errorf("UFS.CopyTree: expected relative target clang, got %q", target)
	}
}
