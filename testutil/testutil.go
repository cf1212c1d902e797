package testutil

import (
	"math/rand"
	"sync"
)

// Position is a 3-D coordinate triple.
type Position = [3]float32

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// Shuffle pseudo-randomizes the order of n elements using swap.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(n, swap)
}

// UniformPosition returns a single position with coordinates in [minVal, maxVal).
func (r *RNG) UniformPosition(minVal, maxVal float32) Position {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uniformLocked(minVal, maxVal)
}

// UniformPositions generates num positions with coordinates in [minVal, maxVal).
func (r *RNG) UniformPositions(num int, minVal, maxVal float32) []Position {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Position, num)
	for i := range out {
		out[i] = r.uniformLocked(minVal, maxVal)
	}
	return out
}

func (r *RNG) uniformLocked(minVal, maxVal float32) Position {
	span := maxVal - minVal
	return Position{
		minVal + r.rand.Float32()*span,
		minVal + r.rand.Float32()*span,
		minVal + r.rand.Float32()*span,
	}
}

// ClusteredPositions generates positions clustered around random centroids in
// [-100, 100). Useful for testing pruning on non-uniform data.
func (r *RNG) ClusteredPositions(num, clusters int, spread float32) []Position {
	centroids := r.UniformPositions(clusters, -100, 100)

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Position, num)
	for i := range out {
		c := centroids[i%clusters]
		for j := range c {
			out[i][j] = c[j] + float32(r.rand.NormFloat64())*spread
		}
	}
	return out
}

// GridPositions returns side³ positions on an integer lattice. Lattice queries
// at cell centers are equidistant to several points, which exercises
// tie-breaking.
func GridPositions(side int) []Position {
	out := make([]Position, 0, side*side*side)
	for x := range side {
		for y := range side {
			for z := range side {
				out = append(out, Position{float32(x), float32(y), float32(z)})
			}
		}
	}
	return out
}
