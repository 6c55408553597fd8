package io

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/mholt/archiver/v3"

	"github.com/poppolopoppo/llvmboot/internal/base"
	"github.com/poppolopoppo/llvmboot/utils"
)

var LogArchive = base.NewLogCategory("Archive")

/***************************************
 * ArchiveFormat
 ***************************************/

type ArchiveFormat int32

const (
	ARCHIVE_INHERIT ArchiveFormat = iota
	ARCHIVE_ZIP
	ARCHIVE_TAR_LZ4
	ARCHIVE_TAR_ZSTD
)

func ArchiveFormats() []ArchiveFormat {
	return []ArchiveFormat{
		ARCHIVE_INHERIT,
		ARCHIVE_ZIP,
		ARCHIVE_TAR_LZ4,
		ARCHIVE_TAR_ZSTD,
	}
}
func (x ArchiveFormat) Description() string {
	switch x {
	case ARCHIVE_INHERIT:
		return "inherit default value from configuration"
	case ARCHIVE_ZIP:
		return "deflate compressed zip archive"
	case ARCHIVE_TAR_LZ4:
		return "tarball compressed with LZ4"
	case ARCHIVE_TAR_ZSTD:
		return "tarball compressed with Zstandard"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}
func (x ArchiveFormat) String() string {
	switch x {
	case ARCHIVE_INHERIT:
		return base.INHERIT_STRING
	case ARCHIVE_ZIP:
		return "ZIP"
	case ARCHIVE_TAR_LZ4:
		return "TAR_LZ4"
	case ARCHIVE_TAR_ZSTD:
		return "TAR_ZSTD"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}
func (x ArchiveFormat) Extname() string {
	switch x {
	case ARCHIVE_ZIP:
		return ".zip"
	case ARCHIVE_TAR_LZ4:
		return ".tar.lz4"
	case ARCHIVE_TAR_ZSTD:
		return ".tar.zst"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}
func (x ArchiveFormat) IsInheritable() bool {
	return x == ARCHIVE_INHERIT
}
func (x *ArchiveFormat) Set(in string) error {
	return base.ParseEnum(x, strings.TrimSpace(in), ArchiveFormats()...)
}
func (x ArchiveFormat) MarshalText() ([]byte, error) {
	return base.UnsafeBytesFromString(x.String()), nil
}
func (x *ArchiveFormat) UnmarshalText(data []byte) error {
	return x.Set(base.UnsafeStringFromBytes(data))
}
func (x *ArchiveFormat) AutoComplete(in base.AutoComplete) {
	for _, it := range ArchiveFormats() {
		in.Add(it.String(), it.Description())
	}
}

func GetArchiveFormatFromFilename(f utils.Filename) (ArchiveFormat, error) {
	name := strings.ToLower(f.Basename)
	for _, it := range ArchiveFormats()[1:] {
		if strings.HasSuffix(name, it.Extname()) {
			return it, nil
		}
	}
	return ARCHIVE_INHERIT, fmt.Errorf("archive: unsupported archive format for %q", f)
}

/***************************************
 * Export
 ***************************************/

// ExportArchive writes every file under src in dst, rooted at src basename.
func ExportArchive(src utils.Directory, dst utils.Filename, level base.CompressionLevel) error {
	format, err := GetArchiveFormatFromFilename(dst)
	if err != nil {
		return err
	}

	defer base.LogBenchmark(LogArchive, "export %q to %q", src, dst).Close()

	if err := utils.UFS.MkdirEx(dst.Dirname); err != nil {
		return err
	}

	switch format {
	case ARCHIVE_ZIP:
		z := archiver.NewZip()
		z.OverwriteExisting = true
		z.ImplicitTopLevelFolder = false
		if level == base.COMPRESSION_LEVEL_FAST {
			z.CompressionLevel = 1
		} else if level == base.COMPRESSION_LEVEL_BEST {
			z.CompressionLevel = 9
		}
		return z.Archive([]string{src.String()}, dst.String())

	case ARCHIVE_TAR_LZ4:
		return utils.UFS.SafeCreate(dst, func(w io.Writer) error {
			return writeCompressedTarball(src, w, base.CompressionOptionFormat(base.COMPRESSION_FORMAT_LZ4), base.CompressionOptionLevel(level))
		})
	case ARCHIVE_TAR_ZSTD:
		return utils.UFS.SafeCreate(dst, func(w io.Writer) error {
			return writeCompressedTarball(src, w, base.CompressionOptionFormat(base.COMPRESSION_FORMAT_ZSTD), base.CompressionOptionLevel(level))
		})
	default:
		return base.MakeUnexpectedValueError(format, format)
	}
}

func writeCompressedTarball(src utils.Directory, w io.Writer, options ...base.CompressionOptionFunc) error {
	compressed, err := base.NewCompressedWriter(w, options...)
	if err != nil {
		return err
	}

	tw := tar.NewWriter(compressed)
	root := src.Basename()

	err = filepath.WalkDir(src.String(), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src.String(), p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(filepath.Join(root, rel))

		var link string
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(p); err != nil {
				return err
			}
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		header.Name = name
		if info.IsDir() {
			header.Name += "/"
		}

		base.LogDebug(LogArchive, "tar %q", header.Name)
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		return utils.UFS.Open(utils.MakeFilename(p), func(r io.Reader) error {
			_, err := io.Copy(tw, r)
			return err
		})
	})

	if er := tw.Close(); er != nil && err == nil {
		err = er
	}
	if er := compressed.Close(); er != nil && err == nil {
		err = er
	}
	return err
}

/***************************************
 * Inspect
 ***************************************/

type ArchiveEntry struct {
	Name    string
	Size    int64
	Mode    os.FileMode
	ModTime time.Time
}

func (x ArchiveEntry) String() string {
	return fmt.Sprintf("%v %12d %v %s", x.Mode, x.Size, x.ModTime.Format(time.DateTime), x.Name)
}

func InspectArchive(src utils.Filename, each func(ArchiveEntry) error) error {
	format, err := GetArchiveFormatFromFilename(src)
	if err != nil {
		return err
	}

	switch format {
	case ARCHIVE_TAR_LZ4:
		return inspectCompressedTarball(src, each, base.CompressionOptionFormat(base.COMPRESSION_FORMAT_LZ4))
	case ARCHIVE_TAR_ZSTD:
		return inspectCompressedTarball(src, each, base.CompressionOptionFormat(base.COMPRESSION_FORMAT_ZSTD))
	}

	return archiver.Walk(src.String(), func(f archiver.File) error {
		defer f.Close()

		// /!\ f.Name() only returns the basename, the full path lives in the concrete header
		var relativePath string
		switch header := f.Header.(type) {
		case zip.FileHeader:
			relativePath = header.Name
		default:
			return base.MakeUnexpectedValueError(f.Header, header)
		}

		return each(ArchiveEntry{
			Name:    relativePath,
			Size:    f.Size(),
			Mode:    f.Mode(),
			ModTime: f.ModTime(),
		})
	})
}

func inspectCompressedTarball(src utils.Filename, each func(ArchiveEntry) error, options ...base.CompressionOptionFunc) error {
	return utils.UFS.Open(src, func(r io.Reader) error {
		compressed, err := base.NewCompressedReader(r, options...)
		if err != nil {
			return err
		}
		defer compressed.Close()

		tr := tar.NewReader(compressed)
		for {
			header, err := tr.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}

			info := header.FileInfo()
			if err := each(ArchiveEntry{
				Name:    header.Name,
				Size:    info.Size(),
				Mode:    info.Mode(),
				ModTime: info.ModTime(),
			}); err != nil {
				return err
			}
		}
	})
}
