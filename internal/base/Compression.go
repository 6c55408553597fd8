package base

import (
	"io"
	"strings"

	"github.com/DataDog/zstd"
	"github.com/pierrec/lz4/v4"
)

var LogCompression = NewLogCategory("Compression")

type CompressedReader interface {
	io.ReadCloser
}
type CompressedWriter interface {
	Flush() error
	io.WriteCloser
}

type CompressionOptions struct {
	Format CompressionFormat
	Level  CompressionLevel
}

type CompressionOptionFunc func(*CompressionOptions)

func CompressionOptionFormat(fmt CompressionFormat) CompressionOptionFunc {
	return func(co *CompressionOptions) {
		Overwrite(&co.Format, fmt)
	}
}
func CompressionOptionLevel(lvl CompressionLevel) CompressionOptionFunc {
	return func(co *CompressionOptions) {
		Overwrite(&co.Level, lvl)
	}
}

func NewCompressionOptions(options ...CompressionOptionFunc) (result CompressionOptions) {
	result.Format = COMPRESSION_FORMAT_LZ4
	result.Level = COMPRESSION_LEVEL_BALANCED

	for _, opt := range options {
		opt(&result)
	}
	return
}

func NewCompressedReader(reader io.Reader, options ...CompressionOptionFunc) (CompressedReader, error) {
	co := NewCompressionOptions(options...)
	switch co.Format {
	case COMPRESSION_FORMAT_LZ4:
		return io.NopCloser(lz4.NewReader(reader)), nil
	case COMPRESSION_FORMAT_ZSTD:
		return zstd.NewReader(reader), nil
	default:
		return nil, MakeUnexpectedValueError(co.Format, co.Format)
	}
}

func NewCompressedWriter(writer io.Writer, options ...CompressionOptionFunc) (CompressedWriter, error) {
	co := NewCompressionOptions(options...)
	switch co.Format {
	case COMPRESSION_FORMAT_LZ4:
		return NewLz4Writer(writer, co.Level)
	case COMPRESSION_FORMAT_ZSTD:
		return NewZStdWriter(writer, co.Level), nil
	default:
		return nil, MakeUnexpectedValueError(co.Format, co.Format)
	}
}

/***************************************
 * LZ4
 ***************************************/

func NewLz4Writer(writer io.Writer, lvl CompressionLevel) (CompressedWriter, error) {
	result := lz4.NewWriter(writer)
	level := lz4.Level3
	switch lvl {
	case COMPRESSION_LEVEL_FAST:
		level = lz4.Fast
	case COMPRESSION_LEVEL_BEST:
		level = lz4.Level7
	}
	err := result.Apply(
		lz4.CompressionLevelOption(level),
		lz4.ChecksumOption(false))
	return result, err
}

/***************************************
 * ZSTD
 ***************************************/

func NewZStdWriter(writer io.Writer, lvl CompressionLevel) CompressedWriter {
	level := zstd.DefaultCompression
	switch lvl {
	case COMPRESSION_LEVEL_FAST:
		level = zstd.BestSpeed
	case COMPRESSION_LEVEL_BEST:
		level = zstd.BestCompression
	}
	return zstd.NewWriterLevel(writer, level)
}

/***************************************
 * CompressionLevel
 ***************************************/

type CompressionLevel int32

const (
	COMPRESSION_LEVEL_INHERIT CompressionLevel = iota
	COMPRESSION_LEVEL_FAST
	COMPRESSION_LEVEL_BALANCED
	COMPRESSION_LEVEL_BEST
)

func CompressionLevels() []CompressionLevel {
	return []CompressionLevel{
		COMPRESSION_LEVEL_INHERIT,
		COMPRESSION_LEVEL_FAST,
		COMPRESSION_LEVEL_BALANCED,
		COMPRESSION_LEVEL_BEST,
	}
}
func (x CompressionLevel) Description() string {
	switch x {
	case COMPRESSION_LEVEL_INHERIT:
		return "inherit default value from configuration"
	case COMPRESSION_LEVEL_FAST:
		return "faster compression times with lower compression ratio"
	case COMPRESSION_LEVEL_BALANCED:
		return "balance between times ratio and compression ratio"
	case COMPRESSION_LEVEL_BEST:
		return "best compression ratio possible, but much slower compression times"
	default:
		UnexpectedValue(x)
		return ""
	}
}
func (x CompressionLevel) String() string {
	switch x {
	case COMPRESSION_LEVEL_INHERIT:
		return INHERIT_STRING
	case COMPRESSION_LEVEL_FAST:
		return "FAST"
	case COMPRESSION_LEVEL_BALANCED:
		return "BALANCED"
	case COMPRESSION_LEVEL_BEST:
		return "BEST"
	default:
		UnexpectedValue(x)
		return ""
	}
}
func (x CompressionLevel) IsInheritable() bool {
	return x == COMPRESSION_LEVEL_INHERIT
}
func (x *CompressionLevel) Set(in string) error {
	return ParseEnum(x, strings.TrimSpace(in), CompressionLevels()...)
}
func (x CompressionLevel) MarshalText() ([]byte, error) {
	return UnsafeBytesFromString(x.String()), nil
}
func (x *CompressionLevel) UnmarshalText(data []byte) error {
	return x.Set(UnsafeStringFromBytes(data))
}
func (x *CompressionLevel) AutoComplete(in AutoComplete) {
	for _, it := range CompressionLevels() {
		in.Add(it.String(), it.Description())
	}
}

/***************************************
 * CompressionFormat
 ***************************************/

type CompressionFormat int32

const (
	COMPRESSION_FORMAT_INHERIT CompressionFormat = iota
	COMPRESSION_FORMAT_LZ4
	COMPRESSION_FORMAT_ZSTD
)

func CompressionFormats() []CompressionFormat {
	return []CompressionFormat{
		COMPRESSION_FORMAT_INHERIT,
		COMPRESSION_FORMAT_LZ4,
		COMPRESSION_FORMAT_ZSTD,
	}
}
func (x CompressionFormat) Description() string {
	switch x {
	case COMPRESSION_FORMAT_INHERIT:
		return "inherit default value from configuration"
	case COMPRESSION_FORMAT_LZ4:
		return "use extremely fast LZ4 compression from https://github.com/lz4/lz4"
	case COMPRESSION_FORMAT_ZSTD:
		return "use facebook ZStandard compression from https://github.com/facebook/zstd"
	default:
		UnexpectedValue(x)
		return ""
	}
}
func (x CompressionFormat) String() string {
	switch x {
	case COMPRESSION_FORMAT_INHERIT:
		return INHERIT_STRING
	case COMPRESSION_FORMAT_LZ4:
		return "LZ4"
	case COMPRESSION_FORMAT_ZSTD:
		return "ZSTD"
	default:
		UnexpectedValue(x)
		return ""
	}
}
func (x CompressionFormat) Extname() string {
	switch x {
	case COMPRESSION_FORMAT_LZ4:
		return ".lz4"
	case COMPRESSION_FORMAT_ZSTD:
		return ".zst"
	default:
		return ""
	}
}
func (x CompressionFormat) IsInheritable() bool {
	return x == COMPRESSION_FORMAT_INHERIT
}
func (x *CompressionFormat) Set(in string) error {
	return ParseEnum(x, strings.TrimSpace(in), CompressionFormats()...)
}
func (x CompressionFormat) MarshalText() ([]byte, error) {
	return UnsafeBytesFromString(x.String()), nil
}
func (x *CompressionFormat) UnmarshalText(data []byte) error {
	return x.Set(UnsafeStringFromBytes(data))
}
func (x *CompressionFormat) AutoComplete(in AutoComplete) {
	for _, it := range CompressionFormats() {
		in.Add(it.String(), it.Description())
	}
}
