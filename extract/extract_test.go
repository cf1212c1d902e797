package extract

import (
	"encoding/binary"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/hupe1980/closestpos/kdtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordView is a flat byte slice of fixed-size records. It counts accesses.
type recordView struct {
	data   []byte
	stride int
	calls  int
}

func newRecordView(stride int, offset int, coords ...[3]float32) *recordView {
	v := &recordView{data: make([]byte, stride*len(coords)), stride: stride}
	for i, c := range coords {
		rec := v.data[i*stride+offset:]
		for d, f := range c {
			binary.NativeEndian.PutUint32(rec[d*4:], math.Float32bits(f))
		}
	}
	return v
}

func (v *recordView) Len() int    { v.calls++; return len(v.data) / v.stride }
func (v *recordView) Stride() int { v.calls++; return v.stride }
func (v *recordView) Record(i int) []byte {
	v.calls++
	return v.data[i*v.stride : (i+1)*v.stride]
}

func fivePoints() *recordView {
	return newRecordView(16, 4,
		[3]float32{0, 0, 0},
		[3]float32{1, 1, 1},
		[3]float32{2, 2, 2},
		[3]float32{3, 3, 3},
		[3]float32{4, 4, 4},
	)
}

func payloads(c *Cursor) []int32 {
	var out []int32
	for p := range c.All() {
		out = append(out, p.Payload)
	}
	return out
}

func TestResolve(t *testing.T) {
	t.Run("DefaultCount", func(t *testing.T) {
		r, err := All(4).Resolve(fivePoints())
		require.NoError(t, err)
		assert.Equal(t, Range{Offset: 4, Start: 0, Count: 5}, r)
	})

	t.Run("Clamp", func(t *testing.T) {
		r, err := Range{Offset: 4, Start: 3, Count: 1000}.Resolve(fivePoints())
		require.NoError(t, err)
		assert.Equal(t, 2, r.Count)
		assert.Equal(t, 5, r.End())
	})

	t.Run("StartPastEnd", func(t *testing.T) {
		_, err := Range{Offset: 4, Start: 5, Count: CountAll}.Resolve(fivePoints())
		require.ErrorIs(t, err, ErrInvalidArgument)

		var se *ErrInvalidStart
		require.ErrorAs(t, err, &se)
		assert.Equal(t, 5, se.Start)
		assert.Equal(t, 5, se.Size)
		assert.Equal(t, "startidx (5) must be >=0 and less than the array size (5)", err.Error())
	})

	t.Run("NegativeStart", func(t *testing.T) {
		_, err := Range{Start: -1, Count: 1}.Resolve(fivePoints())
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("EmptyArray", func(t *testing.T) {
		_, err := All(0).Resolve(newRecordView(12, 0))
		var se *ErrInvalidStart
		require.ErrorAs(t, err, &se)
		assert.Equal(t, 0, se.Size)
	})

	t.Run("CountBelowOne", func(t *testing.T) {
		for _, n := range []int{0, -3} {
			_, err := Range{Offset: 4, Count: n}.Resolve(fivePoints())
			var ce *ErrInvalidCount
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, n, ce.Count)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		}
	})

	t.Run("OffsetPastRecord", func(t *testing.T) {
		_, err := Range{Offset: 5, Count: 1}.Resolve(fivePoints())
		var oe *ErrInvalidOffset
		require.ErrorAs(t, err, &oe)
		assert.Equal(t, 16, oe.Stride)

		_, err = Range{Offset: 0, Count: 1}.Resolve(&recordView{data: make([]byte, 8), stride: 8})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("NegativeOffsetTouchesNothing", func(t *testing.T) {
		v := fivePoints()
		err := Range{Offset: -1, Count: 1}.CheckOffset()
		require.ErrorIs(t, err, ErrInvalidArgument)
		assert.Equal(t, "offset must be 0 or greater (given -1)", err.Error())

		_, err = Range{Offset: -1, Count: 1}.Resolve(v)
		require.ErrorIs(t, err, ErrInvalidArgument)
		assert.Zero(t, v.calls)
	})
}

func TestCursor(t *testing.T) {
	t.Run("AbsolutePayloads", func(t *testing.T) {
		v := fivePoints()
		c, err := NewCursor(v, Range{Offset: 4, Start: 3, Count: 1000})
		require.NoError(t, err)
		assert.Equal(t, 2, c.Len())

		require.True(t, c.Next())
		assert.Equal(t, kdtree.Point{Coords: [3]float32{3, 3, 3}, Payload: 3}, c.Point())
		require.True(t, c.Next())
		assert.Equal(t, kdtree.Point{Coords: [3]float32{4, 4, 4}, Payload: 4}, c.Point())
		assert.False(t, c.Next())
		assert.Equal(t, 0, c.Len())
	})

	t.Run("SingleUse", func(t *testing.T) {
		c, err := NewCursor(fivePoints(), All(4))
		require.NoError(t, err)
		assert.Equal(t, []int32{0, 1, 2, 3, 4}, payloads(c))
		assert.Empty(t, payloads(c))
	})

	t.Run("EarlyStop", func(t *testing.T) {
		c, err := NewCursor(fivePoints(), All(4))
		require.NoError(t, err)
		for range c.All() {
			break
		}
		assert.Equal(t, 4, c.Len())
	})

	t.Run("ValuesPassThrough", func(t *testing.T) {
		nan := float32(math.NaN())
		inf := float32(math.Inf(-1))
		c, err := NewCursor(newRecordView(12, 0, [3]float32{nan, inf, 1}), All(0))
		require.NoError(t, err)
		require.True(t, c.Next())

		p := c.Point()
		assert.True(t, math.IsNaN(float64(p.Coords[0])))
		assert.Equal(t, inf, p.Coords[1])
	})

	t.Run("BuildsTree", func(t *testing.T) {
		c, err := NewCursor(fivePoints(), Range{Offset: 4, Start: 1, Count: 3})
		require.NoError(t, err)

		tree, err := kdtree.Build(c.All(), c.Len())
		require.NoError(t, err)
		got := slices.Collect(tree.Points())
		assert.Len(t, got, 3)

		n, ok := tree.Nearest([3]float32{0, 0, 0})
		require.True(t, ok)
		assert.Equal(t, int32(1), n.Payload)
	})

	t.Run("InvalidRange", func(t *testing.T) {
		_, err := NewCursor(fivePoints(), Range{Offset: 4, Start: 9, Count: 1})
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})
}
