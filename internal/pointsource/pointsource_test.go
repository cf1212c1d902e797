package pointsource

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/closestpos/cellarray"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var want = [][3]float32{
	{1, 2, 3},
	{-4.5, 0, 6},
	{7, 8, -9.25},
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write(data)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	return buf.Bytes()
}

func lz4Bytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func binaryRecords(t *testing.T, blockSize int) []byte {
	t.Helper()
	arr, err := cellarray.New(blockSize)
	require.NoError(t, err)
	for _, v := range want {
		_, err := arr.PushFloats(v[0], v[1], v[2])
		require.NoError(t, err)
	}
	var out []byte
	for i := range arr.Len() {
		out = append(out, arr.Record(i)...)
	}
	return out
}

func load(t *testing.T, path string, optFns ...func(o *Options)) Source {
	t.Helper()
	src, err := Load(context.Background(), path, optFns...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func vecAt(src Source, i, offset int) [3]float32 {
	rec := src.Record(i)
	var v [3]float32
	for c := range v {
		v[c] = math.Float32frombits(binary.NativeEndian.Uint32(rec[offset+c*4:]))
	}
	return v
}

func assertPoints(t *testing.T, src Source, offset int) {
	t.Helper()
	require.Equal(t, len(want), src.Len())
	for i, v := range want {
		assert.Equal(t, v, vecAt(src, i, offset), "record %d", i)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path   string
		format Format
		comp   Compression
	}{
		{"a.csv", FormatCSV, CompressionNone},
		{"dir/A.CSV.ZST", FormatCSV, CompressionZstd},
		{"a.yml.lz4", FormatYAML, CompressionLZ4},
		{"a.sqlite3", FormatSQLite, CompressionNone},
		{"a.pts", FormatBinary, CompressionNone},
		{"a.dat", FormatAuto, CompressionNone},
	}
	for _, tt := range tests {
		format, comp := Detect(tt.path)
		assert.Equal(t, tt.format, format, tt.path)
		assert.Equal(t, tt.comp, comp, tt.path)
	}
}

func TestLoad_CSV(t *testing.T) {
	const plain = "1,2,3\n# comment\n-4.5, 0, 6\n7,8,-9.25\n"

	t.Run("Plain", func(t *testing.T) {
		assertPoints(t, load(t, writeFile(t, "p.csv", []byte(plain))), 0)
	})

	t.Run("Header", func(t *testing.T) {
		body := "id,z,x,y\na,3,1,2\nb,6,-4.5,0\nc,-9.25,7,8\n"
		assertPoints(t, load(t, writeFile(t, "p.csv", []byte(body))), 0)
	})

	t.Run("Zstd", func(t *testing.T) {
		assertPoints(t, load(t, writeFile(t, "p.csv.zst", zstdBytes(t, []byte(plain)))), 0)
	})

	t.Run("LZ4", func(t *testing.T) {
		assertPoints(t, load(t, writeFile(t, "p.csv.lz4", lz4Bytes(t, []byte(plain)))), 0)
	})

	t.Run("Offset", func(t *testing.T) {
		src := load(t, writeFile(t, "p.csv", []byte(plain)), func(o *Options) {
			o.BlockSize = 5
			o.Offset = 8
		})
		assert.Equal(t, 20, src.Stride())
		assertPoints(t, src, 8)
	})

	t.Run("BadNumber", func(t *testing.T) {
		_, err := Load(context.Background(), writeFile(t, "p.csv", []byte("1,2,3\n4,x,6\n")))
		assert.ErrorContains(t, err, "line 2")
	})

	t.Run("ShortRow", func(t *testing.T) {
		_, err := Load(context.Background(), writeFile(t, "p.csv", []byte("1,2\n")))
		assert.Error(t, err)
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Load(ctx, writeFile(t, "p.csv", []byte(plain)))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoad_YAML(t *testing.T) {
	t.Run("Sequences", func(t *testing.T) {
		body := "- [1, 2, 3]\n- [-4.5, 0, 6]\n- [7, 8, -9.25]\n"
		assertPoints(t, load(t, writeFile(t, "p.yaml", []byte(body))), 0)
	})

	t.Run("Mappings", func(t *testing.T) {
		body := `
points:
  - {x: 1, y: 2, z: 3}
  - {x: -4.5, y: 0, z: 6}
  - {z: -9.25, y: 8, x: 7}
`
		assertPoints(t, load(t, writeFile(t, "p.yml.zst", zstdBytes(t, []byte(body)))), 0)
	})

	t.Run("Empty", func(t *testing.T) {
		src := load(t, writeFile(t, "p.yaml", nil))
		assert.Equal(t, 0, src.Len())
	})

	t.Run("MissingKey", func(t *testing.T) {
		_, err := Load(context.Background(), writeFile(t, "p.yaml", []byte("- {x: 1, y: 2}\n")))
		assert.ErrorContains(t, err, `no "z" key`)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := Load(context.Background(), writeFile(t, "p.yaml", []byte("- [1, 2, 1e300]\n")))
		assert.Error(t, err)
	})

	t.Run("NotAList", func(t *testing.T) {
		_, err := Load(context.Background(), writeFile(t, "p.yaml", []byte("name: cloud\n")))
		assert.ErrorContains(t, err, "sequence of points")
	})
}

func TestLoad_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE cloud (px REAL, py REAL, pz REAL)`)
	require.NoError(t, err)
	for _, v := range want {
		_, err = db.Exec(`INSERT INTO cloud VALUES (?, ?, ?)`, v[0], v[1], v[2])
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	t.Run("Columns", func(t *testing.T) {
		src := load(t, path, func(o *Options) {
			o.Table = "cloud"
			o.Columns = [3]string{"px", "py", "pz"}
		})
		assertPoints(t, src, 0)
	})

	t.Run("MissingTable", func(t *testing.T) {
		_, err := Load(context.Background(), path)
		assert.Error(t, err)
	})

	t.Run("Compressed", func(t *testing.T) {
		_, err := Load(context.Background(), path+".zst")
		assert.ErrorIs(t, err, ErrUnsupported)
	})
}

func TestLoad_Binary(t *testing.T) {
	raw := binaryRecords(t, 4)

	t.Run("Mapped", func(t *testing.T) {
		data := append([]byte("HDR!"), raw...)
		src := load(t, writeFile(t, "p.bin", data), func(o *Options) {
			o.BlockSize = 4
			o.HeaderBytes = 4
		})
		assert.IsType(t, &cellarray.Mapped{}, src)
		assertPoints(t, src, 0)
	})

	t.Run("Zstd", func(t *testing.T) {
		data := append([]byte("HDR!"), raw...)
		src := load(t, writeFile(t, "p.bin.zst", zstdBytes(t, data)), func(o *Options) {
			o.BlockSize = 4
			o.HeaderBytes = 4
		})
		assertPoints(t, src, 0)
	})

	t.Run("LZ4PartialRecord", func(t *testing.T) {
		path := writeFile(t, "p.bin.lz4", lz4Bytes(t, raw[:len(raw)-3]))
		_, err := Load(context.Background(), path, func(o *Options) { o.BlockSize = 4 })
		assert.ErrorContains(t, err, "trailing")
	})

	t.Run("ForcedFormat", func(t *testing.T) {
		src := load(t, writeFile(t, "p.dat", raw), func(o *Options) {
			o.Format = FormatBinary
			o.BlockSize = 4
		})
		assertPoints(t, src, 0)
	})
}

func TestLoad_Errors(t *testing.T) {
	t.Run("UnknownFormat", func(t *testing.T) {
		_, err := Load(context.Background(), writeFile(t, "p.dat", nil))
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("OffsetOutsideRecord", func(t *testing.T) {
		_, err := Load(context.Background(), writeFile(t, "p.csv", []byte("1,2,3\n")), func(o *Options) {
			o.Offset = 4
		})
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
