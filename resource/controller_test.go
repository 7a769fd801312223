package resource

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilControllerIsUnlimited(t *testing.T) {
	var c *Controller
	require.NoError(t, c.AcquireRetrain(context.Background()))
	c.ReleaseRetrain()
}

func TestConcurrencyBound(t *testing.T) {
	c := NewController(Config{MaxConcurrentRetrains: 2})
	ctx := context.Background()

	var inFlight, maxInFlight atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, c.AcquireRetrain(ctx))
			defer c.ReleaseRetrain()

			cur := inFlight.Add(1)
			for {
				prev := maxInFlight.Load()
				if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
					break
				}
			}
			inFlight.Add(-1)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, maxInFlight.Load(), int32(2))
}

func TestAcquireHonorsContext(t *testing.T) {
	c := NewController(Config{MaxConcurrentRetrains: 1})

	require.NoError(t, c.AcquireRetrain(context.Background()))
	defer c.ReleaseRetrain()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, c.AcquireRetrain(ctx))
}

func TestZeroConfigDefaults(t *testing.T) {
	c := NewController(Config{})
	require.NoError(t, c.AcquireRetrain(context.Background()))
	c.ReleaseRetrain()
}
