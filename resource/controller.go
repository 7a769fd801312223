// Package resource bounds the concurrency and rate of shard retraining.
package resource

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds retraining limits.
type Config struct {
	// MaxConcurrentRetrains is the maximum number of shard retrains
	// running at the same time. If 0, defaults to 1.
	MaxConcurrentRetrains int64

	// RetrainsPerSec limits how many retrains may start per second.
	// If 0, unlimited. Guards against retrain storms under bursts of
	// unlearning requests.
	RetrainsPerSec float64
}

// Controller manages retraining resources. A nil *Controller is valid
// and enforces no limits.
type Controller struct {
	cfg     Config
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentRetrains <= 0 {
		cfg.MaxConcurrentRetrains = 1
	}

	c := &Controller{
		cfg: cfg,
		sem: semaphore.NewWeighted(cfg.MaxConcurrentRetrains),
	}

	if cfg.RetrainsPerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RetrainsPerSec), 1)
	}

	return c
}

// AcquireRetrain reserves a retrain slot, blocking until one is
// available (and the rate limiter permits) or ctx is canceled.
func (c *Controller) AcquireRetrain(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return c.sem.Acquire(ctx, 1)
}

// ReleaseRetrain returns a previously acquired retrain slot.
func (c *Controller) ReleaseRetrain() {
	if c == nil {
		return
	}
	c.sem.Release(1)
}
