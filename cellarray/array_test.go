package cellarray

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/closestpos/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ extract.ArrayView = (*Array)(nil)
	_ extract.ArrayView = (*Mapped)(nil)
)

func TestArray(t *testing.T) {
	_, err := New(0)
	require.ErrorIs(t, err, ErrInvalidBlockSize)

	a, err := New(4)
	require.NoError(t, err)
	assert.Equal(t, 16, a.Stride())
	assert.Equal(t, 0, a.Len())

	i, err := a.PushFloats(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	require.NoError(t, a.SetCell(0, 3, -7))
	v, err := a.Cell(0, 3)
	require.NoError(t, err)
	assert.Equal(t, int32(-7), v)

	f, err := a.Float(0, 1)
	require.NoError(t, err)
	assert.Equal(t, float32(2), f)

	j := a.Push()
	require.NoError(t, a.SetVec3(j, 1, [3]float32{4, 5, 6}))
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, math.Float32bits(5), binary.NativeEndian.Uint32(a.Record(1)[8:]))

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := a.Cell(2, 0)
		assert.ErrorIs(t, err, ErrOutOfRange)
		assert.ErrorIs(t, a.SetFloat(0, 4, 1), ErrOutOfRange)
		assert.ErrorIs(t, a.SetVec3(0, 2, [3]float32{}), ErrOutOfRange)
		_, err = a.PushFloats(1, 2, 3, 4, 5)
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("Resize", func(t *testing.T) {
		a.Resize(5)
		assert.Equal(t, 5, a.Len())
		v, err := a.Cell(4, 0)
		require.NoError(t, err)
		assert.Zero(t, v)

		a.Resize(1)
		assert.Equal(t, 1, a.Len())

		a.Clear()
		assert.Equal(t, 0, a.Len())
	})
}

func TestMap(t *testing.T) {
	a, err := New(3)
	require.NoError(t, err)
	for k := range 4 {
		_, err := a.PushFloats(float32(k), float32(k)*2, float32(k)*3)
		require.NoError(t, err)
	}

	header := []byte("PTS1")
	content := append(append([]byte{}, header...), a.data...)
	path := filepath.Join(t.TempDir(), "points.bin")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	m, err := Map(path, 3, func(o *MapOptions) {
		o.HeaderBytes = len(header)
	})
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 4, m.Len())
	assert.Equal(t, 12, m.Stride())
	assert.Equal(t, 3, m.BlockSize())
	for k := range 4 {
		assert.Equal(t, a.Record(k), m.Record(k))
	}

	t.Run("PartialRecord", func(t *testing.T) {
		_, err := Map(path, 5)
		assert.Error(t, err)
	})

	t.Run("HeaderTooLarge", func(t *testing.T) {
		_, err := Map(path, 3, func(o *MapOptions) { o.HeaderBytes = 1000 })
		assert.Error(t, err)
	})

	t.Run("InvalidBlockSize", func(t *testing.T) {
		_, err := Map(path, 0)
		assert.ErrorIs(t, err, ErrInvalidBlockSize)
	})
}

func TestArray_ReadFrom(t *testing.T) {
	src, err := New(3)
	require.NoError(t, err)
	for k := range 5 {
		_, err := src.PushFloats(float32(k), 0, -float32(k))
		require.NoError(t, err)
	}

	t.Run("WholeRecords", func(t *testing.T) {
		a, err := New(3)
		require.NoError(t, err)

		n, err := a.ReadFrom(bytes.NewReader(src.data))
		require.NoError(t, err)
		assert.Equal(t, int64(len(src.data)), n)
		assert.Equal(t, 5, a.Len())
		assert.Equal(t, src.Record(4), a.Record(4))
	})

	t.Run("PartialRecord", func(t *testing.T) {
		a, err := New(3)
		require.NoError(t, err)

		_, err = a.ReadFrom(bytes.NewReader(src.data[:len(src.data)-2]))
		assert.ErrorContains(t, err, "trailing 10 bytes")
		assert.Equal(t, 4, a.Len())
	})
}
