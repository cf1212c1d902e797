package resource

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	// Test with limit
	c := NewController(Config{MemoryLimitBytes: 100})
	assert.Equal(t, int64(100), c.MemoryLimit())

	require.NoError(t, c.AcquireMemory(50))
	require.NoError(t, c.AcquireMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Limit exceeded; usage is unchanged.
	err := c.AcquireMemory(20)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(20))
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireMemory(1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())

	// Non-positive amounts are ignored.
	require.NoError(t, c.AcquireMemory(-1))
	c.ReleaseMemory(0)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Reserve(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 64})

	r, err := c.Reserve(64)
	require.NoError(t, err)
	assert.Equal(t, int64(64), r.Bytes())

	_, err = c.Reserve(1)
	require.ErrorIs(t, err, ErrMemoryLimitExceeded)

	r.Release()
	r.Release()
	assert.Equal(t, int64(0), c.MemoryUsage())

	_, err = c.Reserve(64)
	assert.NoError(t, err)

	var nilRes *Reservation
	assert.NotPanics(t, nilRes.Release)
}

func TestController_Builds(t *testing.T) {
	c := NewController(Config{})

	require.True(t, c.TryAcquireBuild())
	assert.Equal(t, int64(1), c.ActiveBuilds())
	assert.False(t, c.TryAcquireBuild())

	c.ReleaseBuild()
	assert.Equal(t, int64(0), c.ActiveBuilds())
	assert.True(t, c.TryAcquireBuild())
}

func TestController_ConcurrentReserve(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 1000})

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Reserve(100); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, int64(1000), c.MemoryUsage())
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	require.NoError(t, c.AcquireMemory(10))
	assert.True(t, c.TryAcquireBuild())
	c.ReleaseBuild()
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.Equal(t, int64(0), c.MemoryLimit())
}
