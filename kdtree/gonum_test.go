package kdtree

import (
	"slices"
	"testing"

	"github.com/hupe1980/closestpos/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gonumkd "gonum.org/v1/gonum/spatial/kdtree"
)

// TestNearest_AgreesWithGonum cross-checks distances against gonum's k-d tree.
// gonum works in float64, so only the distance is compared.
func TestNearest_AgreesWithGonum(t *testing.T) {
	rng := testutil.NewRNG(2024)
	pos := rng.ClusteredPositions(3000, 10, 4)

	ref := make(gonumkd.Points, len(pos))
	for i, p := range pos {
		ref[i] = gonumkd.Point{float64(p[0]), float64(p[1]), float64(p[2])}
	}
	gt := gonumkd.New(slices.Clone(ref), false)

	tree, err := New(pointsOf(pos))
	require.NoError(t, err)

	for range 300 {
		q := rng.UniformPosition(-110, 110)

		_, wantDist := gt.Nearest(gonumkd.Point{float64(q[0]), float64(q[1]), float64(q[2])})
		got, ok := tree.Nearest(q)
		require.True(t, ok)

		assert.InEpsilon(t, wantDist, float64(got.Distance), 1e-4, "query %v", q)

		// The match must be one of the points at the reported distance.
		assert.Equal(t, pos[got.Payload], got.Coords)
	}
}
