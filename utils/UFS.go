package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/djherbis/times"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

var LogUFS = base.NewLogCategory("UFS")

/***************************************
 * Path to string
 ***************************************/

const OSPathSeparator = os.PathSeparator

func JoinPath(root string, rel ...string) string {
	if len(rel) == 0 {
		return root
	}
	return filepath.Join(append([]string{root}, rel...)...)
}

func lastIndexOfPathSeparator(in string) (int, bool) {
	if i := strings.LastIndexAny(in, `/\`); i >= 0 {
		return i, true
	}
	return -1, false
}

/***************************************
 * Directory
 ***************************************/

type Directory struct {
	Path string
}

func MakeDirectory(str string) Directory {
	return Directory{Path: CleanPath(str)}
}
func (d Directory) Len() int    { return len(d.Path) }
func (d Directory) Valid() bool { return len(d.Path) > 0 }
func (d Directory) Basename() string {
	if i, ok := lastIndexOfPathSeparator(d.Path); ok {
		return d.Path[i+1:]
	}
	return d.Path
}
func (d Directory) Parent() Directory {
	if i, ok := lastIndexOfPathSeparator(d.Path); ok {
		if i == 0 {
			return Directory{Path: d.Path[:1]}
		}
		return Directory{Path: d.Path[:i]}
	}
	base.UnexpectedValue(d)
	return Directory{}
}
func (d Directory) Folder(name ...string) Directory {
	return Directory{Path: JoinPath(d.Path, name...)}
}
func (d Directory) File(name ...string) Filename {
	return Filename{
		Dirname:  d.Folder(name[:len(name)-1]...),
		Basename: name[len(name)-1]}
}
func (d Directory) IsParentOf(o Directory) bool {
	if len(d.Path) > len(o.Path) {
		return false
	}
	return o.Path[:len(d.Path)] == d.Path
}
func (d Directory) Relative(to Directory) string {
	if rel, err := filepath.Rel(to.Path, d.Path); err == nil {
		return rel
	}
	return d.Path
}
func (d Directory) Exists() bool {
	st, err := os.Stat(d.Path)
	return err == nil && st.IsDir()
}
func (d Directory) Equals(o Directory) bool {
	return d == o
}
func (d Directory) Compare(o Directory) int {
	return strings.Compare(d.Path, o.Path)
}
func (d Directory) String() string {
	return d.Path
}

/***************************************
 * Filename
 ***************************************/

type Filename struct {
	Dirname  Directory
	Basename string
}

func MakeFilename(str string) Filename {
	str = CleanPath(str)
	dirname, basename := filepath.Split(str)
	if len(dirname) > 1 {
		// trim ending path separator
		dirname = dirname[:len(dirname)-1]
	}
	return Filename{
		Basename: basename,
		Dirname:  Directory{Path: dirname},
	}
}

func (f Filename) Valid() bool { return len(f.Basename) > 0 }
func (f Filename) Ext() string {
	return path.Ext(f.Basename)
}
func (f Filename) TrimExt() string {
	return strings.TrimSuffix(f.Basename, f.Ext())
}
func (f Filename) ReplaceExt(ext string) Filename {
	return Filename{
		Basename: f.TrimExt() + ext,
		Dirname:  f.Dirname,
	}
}
func (f Filename) Relative(to Directory) string {
	if rel, err := filepath.Rel(to.Path, f.Dirname.Path); err == nil {
		return filepath.Join(rel, f.Basename)
	}
	return f.String()
}
func (f Filename) Exists() bool {
	st, err := os.Stat(f.String())
	return err == nil && !st.IsDir()
}
func (f Filename) Info() (os.FileInfo, error) {
	return os.Stat(f.String())
}
func (f Filename) Equals(o Filename) bool {
	return (f.Basename == o.Basename && f.Dirname.Equals(o.Dirname))
}
func (f Filename) Compare(o Filename) int {
	if c := f.Dirname.Compare(o.Dirname); c != 0 {
		return c
	}
	return strings.Compare(f.Basename, o.Basename)
}
func (f Filename) String() string {
	if len(f.Dirname.Path) > 0 {
		return JoinPath(f.Dirname.Path, f.Basename)
	}
	return f.Basename
}

/***************************************
 * fmt.Value interface
 ***************************************/

func (d *Directory) Set(str string) error {
	if str != "" {
		if !filepath.IsAbs(str) {
			str = filepath.Join(UFS.Root.String(), str)
		}
		*d = MakeDirectory(str)
	} else {
		*d = Directory{}
	}
	return nil
}
func (d Directory) MarshalText() ([]byte, error) {
	return base.UnsafeBytesFromString(d.Path), nil
}
func (d *Directory) UnmarshalText(data []byte) error {
	return d.Set(base.UnsafeStringFromBytes(data))
}

func (f *Filename) Set(str string) error {
	if str != "" {
		if !filepath.IsAbs(str) {
			str = filepath.Join(UFS.Root.String(), str)
		}
		*f = MakeFilename(str)
	} else {
		*f = Filename{}
	}
	return nil
}
func (f Filename) MarshalText() ([]byte, error) {
	return base.UnsafeBytesFromString(f.String()), nil
}
func (f *Filename) UnmarshalText(data []byte) error {
	return f.Set(base.UnsafeStringFromBytes(data))
}

/***************************************
 * File times
 ***************************************/

func GetModificationTime(stat os.FileInfo) time.Time {
	return times.Get(stat).ModTime()
}

/***************************************
 * Frontend
 ***************************************/

var UFS UFSFrontEnd = make_ufs_frontend()

type UFSFrontEnd struct {
	Executable Filename

	Root   Directory
	Output Directory

	Sources  Directory
	Build    Directory
	Package  Directory
	Patches  Directory
	Exports  Directory
	Saved    Directory
	Consumer Directory
}

func (ufs *UFSFrontEnd) File(str string) Filename {
	return MakeFilename(str)
}
func (ufs *UFSFrontEnd) Dir(str string) Directory {
	return MakeDirectory(str)
}
func (ufs *UFSFrontEnd) SetMTime(dst Filename, mtime time.Time) error {
	base.LogDebug(LogUFS, "chtimes %v", dst)
	return os.Chtimes(dst.String(), mtime, mtime)
}
func (ufs *UFSFrontEnd) Remove(dst Filename) error {
	base.LogDebug(LogUFS, "remove %v", dst)
	if err := os.Remove(dst.String()); err != nil {
		base.LogError(LogUFS, "%v", err)
		return err
	}
	return nil
}
func (ufs *UFSFrontEnd) RemoveAll(dst Directory) error {
	base.LogDebug(LogUFS, "remove all %v", dst)
	return os.RemoveAll(dst.String())
}
func (ufs *UFSFrontEnd) Mkdir(dst Directory) {
	if err := ufs.MkdirEx(dst); err != nil {
		base.LogPanicErr(LogUFS, err)
	}
}
func (ufs *UFSFrontEnd) MkdirEx(dst Directory) error {
	path := dst.String()
	if st, err := os.Stat(path); st != nil && (err == nil || os.IsExist(err)) {
		if !st.IsDir() {
			return fmt.Errorf("ufs: %q already exist, but is not a directory", dst)
		}
	} else {
		base.LogDebug(LogUFS, "mkdir %v", dst)
		if err := os.MkdirAll(path, os.ModePerm); err != nil {
			return fmt.Errorf("ufs: mkdir %q got error %v", dst, err)
		}
	}
	return nil
}
func (ufs *UFSFrontEnd) CreateWriter(dst Filename) (*os.File, error) {
	if err := ufs.MkdirEx(dst.Dirname); err != nil {
		return nil, err
	}
	base.LogDebug(LogUFS, "create '%v'", dst)
	return os.Create(dst.String())
}
func (ufs *UFSFrontEnd) CreateFile(dst Filename, write func(*os.File) error) (err error) {
	var outp *os.File
	if outp, err = ufs.CreateWriter(dst); err == nil {
		defer func() {
			if closeErr := outp.Close(); err == nil {
				err = closeErr
			}
		}()
		err = write(outp)
	}
	if err != nil {
		base.LogWarning(LogUFS, "CreateFile: caught %v while trying to create %v", err, dst)
	}
	return err
}
func (ufs *UFSFrontEnd) Create(dst Filename, write func(io.Writer) error) error {
	return ufs.CreateFile(dst, func(f *os.File) error {
		return write(f)
	})
}
func (ufs *UFSFrontEnd) CreateBuffered(dst Filename, write func(io.Writer) error) error {
	return ufs.Create(dst, func(w io.Writer) error {
		buffered := bufio.NewWriter(w)
		if err := write(buffered); err != nil {
			return err
		}
		return buffered.Flush()
	})
}

// SafeCreate writes to a temporary sibling, then renames it over dst.
func (ufs *UFSFrontEnd) SafeCreate(dst Filename, write func(io.Writer) error) error {
	tmpFilename := dst.ReplaceExt(dst.Ext() + ".tmp")
	defer os.Remove(tmpFilename.String())

	err := ufs.CreateBuffered(tmpFilename, write)
	if err == nil {
		if err = os.Rename(tmpFilename.String(), dst.String()); err != nil {
			base.LogWarning(LogUFS, "SafeCreate: %v", err)
		}
	}
	return err
}
func (ufs *UFSFrontEnd) Open(src Filename, read func(io.Reader) error) error {
	input, err := os.Open(src.String())
	if err != nil {
		return err
	}
	defer input.Close()
	base.LogDebug(LogUFS, "open '%v'", src)
	return read(input)
}
func (ufs *UFSFrontEnd) OpenBuffered(src Filename, read func(io.Reader) error) error {
	return ufs.Open(src, func(r io.Reader) error {
		return read(bufio.NewReader(r))
	})
}
func (ufs *UFSFrontEnd) ReadAll(src Filename) (result []byte, err error) {
	err = ufs.Open(src, func(r io.Reader) (err error) {
		result, err = io.ReadAll(r)
		return
	})
	return
}

// Scan lists the immediate children of src, sorted by name.
func (ufs *UFSFrontEnd) Scan(src Directory) (dirs []Directory, files []Filename, err error) {
	var entries []os.DirEntry
	if entries, err = os.ReadDir(src.String()); err != nil {
		return
	}
	for _, it := range entries {
		if it.IsDir() {
			dirs = append(dirs, src.Folder(it.Name()))
		} else {
			files = append(files, src.File(it.Name()))
		}
	}
	return
}

// Glob matches basenames under src against patterns, descending into subfolders when recursive.
func (ufs *UFSFrontEnd) Glob(src Directory, recursive bool, patterns ...string) (results []Filename, err error) {
	re := MakeGlobRegexp(patterns...)
	err = filepath.WalkDir(src.String(), func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && p != src.String() {
				return filepath.SkipDir
			}
			return nil
		}
		if re == nil || re.MatchString(d.Name()) {
			results = append(results, MakeFilename(p))
		}
		return nil
	})
	sort.Slice(results, func(i, j int) bool {
		return results[i].Compare(results[j]) < 0
	})
	return
}

func (ufs *UFSFrontEnd) Rename(src, dst Filename) error {
	if err := ufs.MkdirEx(dst.Dirname); err != nil {
		return err
	}
	base.LogDebug(LogUFS, "rename file '%v' to '%v'", src, dst)
	return os.Rename(src.String(), dst.String())
}

func (ufs *UFSFrontEnd) MountOutputDir(output Directory) error {
	base.LogVerbose(LogUFS, "mount output directory %q", output)
	ufs.Output = output
	ufs.Build = ufs.Output.Folder("build")
	ufs.Package = ufs.Output.Folder("package")
	ufs.Exports = ufs.Output.Folder("exports")
	ufs.Saved = ufs.Output.Folder("saved")
	ufs.Consumer = ufs.Output.Folder("test_package")
	return nil
}
func (ufs *UFSFrontEnd) MountRootDirectory(root Directory) error {
	base.LogVerbose(LogUFS, "mount root directory %q", root)
	if err := os.Chdir(root.String()); err != nil {
		return err
	}

	ufs.Root = root
	ufs.Sources = ufs.Root
	ufs.Patches = ufs.Root.Folder("patches")

	return ufs.MountOutputDir(ufs.Root.Folder("out"))
}

func (ufs *UFSFrontEnd) GetWorkingDir() (Directory, error) {
	if wd, err := os.Getwd(); err == nil {
		return MakeDirectory(wd), nil
	} else {
		return Directory{}, err
	}
}

func make_ufs_frontend() (ufs UFSFrontEnd) {
	if executable, err := os.Executable(); err == nil {
		ufs.Executable = MakeFilename(executable)
		base.LogVeryVerbose(LogUFS, "mount executable file %q", ufs.Executable)
	} else {
		base.LogPanicErr(LogUFS, err)
	}

	root, err := ufs.GetWorkingDir()
	base.LogPanicIfFailed(LogUFS, err)

	ufs.Root = root
	ufs.Sources = root
	ufs.Patches = root.Folder("patches")
	base.LogPanicIfFailed(LogUFS, ufs.MountOutputDir(root.Folder("out")))
	return ufs
}

func MakeGlobRegexp(glob ...string) *regexp.Regexp {
	if len(glob) == 0 {
		return nil
	}
	expr := "(?i)^("
	for i, x := range glob {
		x = regexp.QuoteMeta(x)
		x = strings.ReplaceAll(x, "\\?", ".")
		x = strings.ReplaceAll(x, "\\*", ".*?")
		x = strings.ReplaceAll(x, "/", "[\\\\/]")
		x = "(" + x + ")"
		if i == 0 {
			expr += x
		} else {
			expr += "|" + x
		}
	}
	return regexp.MustCompile(expr + ")$")
}
