package pointsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/closestpos/cellarray"
	"github.com/hupe1980/closestpos/extract"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var (
	// ErrUnknownFormat is returned when no format is given and the extension
	// does not name one.
	ErrUnknownFormat = errors.New("pointsource: unknown format")
	// ErrUnsupported is returned for format and compression combinations that
	// cannot be read.
	ErrUnsupported = errors.New("pointsource: unsupported input")
)

// checkEvery is the number of rows read between context checks.
const checkEvery = 4096

// Source is a loaded record array. Close releases files held by it.
type Source interface {
	extract.ArrayView
	Close() error
}

// Load reads the point file at path.
func Load(ctx context.Context, path string, optFns ...func(o *Options)) (Source, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	format, comp := Detect(path)
	if opts.Format != FormatAuto {
		format = opts.Format
	}

	switch format {
	case FormatSQLite:
		if comp != CompressionNone {
			return nil, fmt.Errorf("%w: compressed SQLite database %s", ErrUnsupported, path)
		}
		return loadSQLite(ctx, path, opts)
	case FormatBinary:
		if comp == CompressionNone {
			m, err := cellarray.Map(path, opts.BlockSize, func(o *cellarray.MapOptions) {
				o.HeaderBytes = opts.HeaderBytes
			})
			if err != nil {
				return nil, err
			}
			return m, nil
		}
		return loadStream(ctx, path, comp, opts, readBinary)
	case FormatCSV:
		return loadStream(ctx, path, comp, opts, readCSV)
	case FormatYAML:
		return loadStream(ctx, path, comp, opts, readYAML)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

type arraySource struct {
	*cellarray.Array
}

func (arraySource) Close() error { return nil }

type readFunc func(ctx context.Context, r io.Reader, dst *records) error

func loadStream(ctx context.Context, path string, comp Compression, opts Options, read readFunc) (Source, error) {
	dst, err := newRecords(opts)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path) //nolint:gosec // caller-selected input file
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := decompress(f, comp)
	if err != nil {
		return nil, fmt.Errorf("pointsource: %s: %w", path, err)
	}
	defer r.Close()

	if err := read(ctx, r, dst); err != nil {
		return nil, fmt.Errorf("pointsource: %s: %w", path, err)
	}
	return arraySource{dst.arr}, nil
}

type readCloser struct {
	io.Reader
	close func()
}

func (r readCloser) Close() error {
	r.close()
	return nil
}

func decompress(r io.Reader, comp Compression) (io.ReadCloser, error) {
	switch comp {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return readCloser{Reader: dec, close: dec.Close}, nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w: compression %q", ErrUnsupported, comp)
	}
}

func readBinary(ctx context.Context, r io.Reader, dst *records) error {
	if dst.opts.HeaderBytes > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(dst.opts.HeaderBytes)); err != nil {
			return fmt.Errorf("header of %d bytes: %w", dst.opts.HeaderBytes, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := dst.arr.ReadFrom(r)
	return err
}

// records appends coordinate triples to a generated array.
type records struct {
	arr   *cellarray.Array
	block int
	opts  Options
}

func newRecords(opts Options) (*records, error) {
	arr, err := cellarray.New(opts.BlockSize)
	if err != nil {
		return nil, err
	}
	if opts.Offset < 0 || opts.Offset%cellarray.CellSize != 0 || opts.Offset+extract.CoordBytes > arr.Stride() {
		return nil, fmt.Errorf("%w: offset %d does not address three cells of a %d byte record",
			ErrUnsupported, opts.Offset, arr.Stride())
	}
	return &records{arr: arr, block: opts.Offset / cellarray.CellSize, opts: opts}, nil
}

func (r *records) add(ctx context.Context, v [3]float32) error {
	i := r.arr.Push()
	if i%checkEvery == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return r.arr.SetVec3(i, r.block, v)
}
