package utils

import (
	"io"
	"os"
	"time"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

/***************************************
 * Copy tree
 ***************************************/

var CopyTreeIgnoredNames = base.StringSet{
	".travis.yml", ".git", ".make", ".o", ".obj", ".marks", ".internal",
	"CMakeFiles", "CMakeCache", "static_test_env", "test",
}

// files within this delta are considered up-to-date, some filesystems truncate mtime
const copyTreeTimeTolerance = time.Second

func isCopyTreeIgnored(name string) bool {
	return CopyTreeIgnoredNames.Contains(name)
}

// CopyTree mirrors src into dst, copying files missing in dst or more than one second older than src.
func (ufs *UFSFrontEnd) CopyTree(src, dst Directory) error {
	if err := ufs.MkdirEx(dst); err != nil {
		return err
	}

	dirs, files, err := ufs.Scan(src)
	if err != nil {
		return err
	}

	for _, it := range dirs {
		name := it.Basename()
		if isCopyTreeIgnored(name) {
			base.LogDebug(LogUFS, "copytree: ignore %q", it)
			continue
		}
		if err := ufs.CopyTree(it, dst.Folder(name)); err != nil {
			return err
		}
	}

	for _, it := range files {
		if isCopyTreeIgnored(it.Basename) {
			base.LogDebug(LogUFS, "copytree: ignore %q", it)
			continue
		}
		if err := ufs.copyFileIfNewer(it, dst.File(it.Basename)); err != nil {
			return err
		}
	}
	return nil
}

func (ufs *UFSFrontEnd) copyFileIfNewer(src, dst Filename) error {
	srcInfo, err := os.Lstat(src.String())
	if err != nil {
		return err
	}
	srcTime := GetModificationTime(srcInfo)

	if dstInfo, err := dst.Info(); err == nil {
		if srcTime.Sub(GetModificationTime(dstInfo)) <= copyTreeTimeTolerance {
			base.LogDebug(LogUFS, "copytree: %q is up-to-date", dst)
			return nil
		}
	}

	if srcInfo.Mode()&os.ModeSymlink != 0 {
		return ufs.copySymlink(src, dst)
	}

	base.LogVeryVerbose(LogUFS, "copytree: %q -> %q", src, dst)
	err = ufs.CreateFile(dst, func(w *os.File) error {
		return ufs.Open(src, func(r io.Reader) error {
			_, err := io.Copy(w, r)
			return err
		})
	})
	if err != nil {
		return err
	}

	if err := os.Chmod(dst.String(), srcInfo.Mode().Perm()); err != nil {
		return err
	}
	return ufs.SetMTime(dst, srcTime)
}

// copySymlink keeps relative links relative, toolchain folders rely on clang++ -> clang.
func (ufs *UFSFrontEnd) copySymlink(src, dst Filename) error {
	target, err := os.Readlink(src.String())
	if err != nil {
		return err
	}
	if err := ufs.MkdirEx(dst.Dirname); err != nil {
		return err
	}
	if _, err := os.Lstat(dst.String()); err == nil {
		if err := os.Remove(dst.String()); err != nil {
			return err
		}
	}
	base.LogVeryVerbose(LogUFS, "copytree: symlink %q -> %q", dst, target)
	return os.Symlink(target, dst.String())
}
