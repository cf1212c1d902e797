package pointsource

import (
	"path/filepath"
	"strings"
)

// Format identifies a point file encoding.
type Format string

const (
	// FormatAuto detects the format from the file extension.
	FormatAuto   Format = ""
	FormatCSV    Format = "csv"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
	FormatBinary Format = "bin"
)

// Compression identifies a stream compression wrapper.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// Options configures Load.
type Options struct {
	// Format overrides extension-based detection.
	Format Format
	// BlockSize is the number of cells per record. Text and SQLite sources
	// generate records of this size; binary files must be made of them.
	BlockSize int
	// Offset is the byte offset at which text and SQLite sources store the
	// coordinate triple.
	Offset int
	// HeaderBytes is skipped at the start of binary files.
	HeaderBytes int
	// Table is the SQLite table to read.
	Table string
	// Columns names the x, y and z columns of CSV headers, YAML mappings and
	// SQLite tables.
	Columns [3]string
}

// DefaultOptions are the options Load starts from.
var DefaultOptions = Options{
	BlockSize: 3,
	Table:     "points",
	Columns:   [3]string{"x", "y", "z"},
}

// Detect derives the format and compression of path from its extensions,
// e.g. "cloud.csv.zst" is zstd-compressed CSV.
func Detect(path string) (Format, Compression) {
	name := strings.ToLower(filepath.Base(path))

	comp := CompressionNone
	switch ext := filepath.Ext(name); ext {
	case ".zst", ".zstd":
		comp = CompressionZstd
		name = strings.TrimSuffix(name, ext)
	case ".lz4":
		comp = CompressionLZ4
		name = strings.TrimSuffix(name, ext)
	}

	switch filepath.Ext(name) {
	case ".csv", ".txt":
		return FormatCSV, comp
	case ".yaml", ".yml":
		return FormatYAML, comp
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, comp
	case ".bin", ".pts":
		return FormatBinary, comp
	}
	return FormatAuto, comp
}
