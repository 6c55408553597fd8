package cmd

import (
	"fmt"

	"github.com/poppolopoppo/llvmboot/internal/base"
	internal_io "github.com/poppolopoppo/llvmboot/internal/io"
	"github.com/poppolopoppo/llvmboot/recipe"

	//lint:ignore ST1001 ignore dot imports warning
	. "github.com/poppolopoppo/llvmboot/utils"
)

type ExportArgs struct {
	Output      Filename
	Format      internal_io.ArchiveFormat
	Compression base.CompressionLevel
}

func (x *ExportArgs) Flags(cfv CommandFlagsVisitor) {
	cfv.Variable("Output", "override exported archive path", &x.Output)
	cfv.Persistent("Format", "archive format used when -Output is not given", &x.Format)
	cfv.Persistent("Compression", "archive compression level", &x.Compression)
}

var exportArgs = &ExportArgs{
	Format:      internal_io.ARCHIVE_TAR_ZSTD,
	Compression: base.COMPRESSION_LEVEL_BALANCED,
}

func getExportFilename(r *recipe.Recipe) Filename {
	if exportArgs.Output.Valid() {
		return exportArgs.Output
	}
	return UFS.Exports.File(fmt.Sprintf("%s-%s-%s%s",
		recipe.PACKAGE_NAME,
		recipe.GetPackageVersion(r.Env),
		r.PackageId().ShortString(),
		exportArgs.Format.Extname()))
}

var CommandExport = NewCommand(
	"Package",
	"export",
	"archive the package folder (.zip, .tar.lz4, .tar.zst)",
	OptionCommandRecipe(),
	OptionCommandParsableFlags("ExportArgs", "package export options", exportArgs),
	OptionCommandRun(func(cc CommandContext) error {
		r, err := resolveRecipe(nil)
		if err != nil {
			return err
		}
		if err := r.CheckPackage(); err != nil {
			return err
		}

		dst := getExportFilename(r)
		base.LogClaim(LogCmd, "export %q to %q", r.Paths.Package, dst)
		return internal_io.ExportArchive(r.Paths.Package, dst, exportArgs.Compression)
	}),
)

var inspectArchive Filename

var CommandInspect = NewCommand(
	"Package",
	"inspect",
	"list the content of an exported archive",
	OptionCommandConsumeArg("archive", "path to the archive to inspect", &inspectArchive),
	OptionCommandRun(func(cc CommandContext) error {
		var numFiles int
		var totalSize int64
		err := internal_io.InspectArchive(inspectArchive, func(entry internal_io.ArchiveEntry) error {
			numFiles++
			totalSize += entry.Size
			base.LogForwardln(entry.String())
			return nil
		})
		if err == nil {
			base.LogInfo(LogCmd, "%q: %d entries, %.2f MiB", inspectArchive, numFiles, float64(totalSize)/(1<<20))
		}
		return err
	}),
)
