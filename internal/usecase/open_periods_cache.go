package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/contaledger/contaledger/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// OpenPeriodsCache serves the open-period list through an optional Cache.
// Concurrent misses are collapsed into a single load. A load that overlaps an
// Invalidate is returned to its callers but never written back.
type OpenPeriodsCache struct {
	cache      Cache
	ttl        time.Duration
	group      singleflight.Group
	generation atomic.Uint64
	logger     zerolog.Logger
}

// NewOpenPeriodsCache creates an OpenPeriodsCache. A nil cache disables caching.
func NewOpenPeriodsCache(cache Cache, ttl time.Duration) *OpenPeriodsCache {
	if ttl <= 0 {
		ttl = DefaultOpenPeriodsTTL
	}
	return &OpenPeriodsCache{
		cache:  cache,
		ttl:    ttl,
		logger: log.Logger,
	}
}

// Load returns the cached list or fills it from loader.
func (c *OpenPeriodsCache) Load(
	ctx context.Context,
	loader func(ctx context.Context) ([]*domain.Period, error),
) ([]*domain.Period, error) {
	if c == nil {
		return loader(ctx)
	}

	if c.cache != nil {
		if data, err := c.cache.Get(ctx, OpenPeriodsCacheKey); err == nil {
			var periods []*domain.Period
			if err := json.Unmarshal(data, &periods); err == nil {
				return periods, nil
			}
		} else if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn().Err(err).Msg("open periods cache read failed")
		}
	}

	// The shared load outlives any single caller.
	loadCtx := context.WithoutCancel(ctx)
	resultChan := c.group.DoChan(OpenPeriodsCacheKey, func() (any, error) {
		gen := c.generation.Load()
		periods, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}
		c.store(loadCtx, gen, periods)
		return periods, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*domain.Period), nil
	}
}

// Invalidate drops the cached list. Errors are logged only.
func (c *OpenPeriodsCache) Invalidate(ctx context.Context) {
	if c == nil || c.cache == nil {
		return
	}
	c.generation.Add(1)
	c.group.Forget(OpenPeriodsCacheKey)
	if err := c.cache.Delete(ctx, OpenPeriodsCacheKey); err != nil {
		c.logger.Warn().Err(err).Msg("open periods cache invalidation failed")
	}
}

// store writes periods unless an Invalidate happened since generation gen was read.
func (c *OpenPeriodsCache) store(ctx context.Context, gen uint64, periods []*domain.Period) {
	if c.cache == nil || c.generation.Load() != gen {
		return
	}
	data, err := json.Marshal(periods)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, OpenPeriodsCacheKey, data, c.ttl); err != nil {
		c.logger.Warn().Err(err).Msg("open periods cache write failed")
		return
	}
	// An Invalidate that raced the write above must still win.
	if c.generation.Load() != gen {
		if err := c.cache.Delete(ctx, OpenPeriodsCacheKey); err != nil {
			c.logger.Warn().Err(err).Msg("open periods cache invalidation failed")
		}
	}
}
