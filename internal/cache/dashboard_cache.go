package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pdvlite/pos-engine/internal/domain"
	"github.com/pdvlite/pos-engine/internal/service"
	"github.com/pdvlite/pos-engine/pkg/utils"
)

// DashboardCache is a thin adapter in front of the dashboard aggregator.
// Caching is an adapter concern: the aggregator itself always recomputes
// from a fresh snapshot, and cache failures degrade to a direct compute.
type DashboardCache struct {
	dashboard *service.DashboardService
	redis     *redis.Client
	ttl       time.Duration
}

func NewDashboardCache(dashboard *service.DashboardService, redisClient *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{
		dashboard: dashboard,
		redis:     redisClient,
		ttl:       ttl,
	}
}

// Snapshot returns the cached snapshot for the reference date when one is
// fresh, recomputing and re-caching otherwise.
func (c *DashboardCache) Snapshot(ctx context.Context, date *time.Time) (*domain.DashboardSnapshot, error) {
	key := c.key(date)

	if c.redis != nil {
		raw, err := c.redis.Get(ctx, key).Result()
		if err == nil {
			var snapshot domain.DashboardSnapshot
			if err := json.Unmarshal([]byte(raw), &snapshot); err == nil {
				return &snapshot, nil
			}
		}
	}

	snapshot, err := c.dashboard.Snapshot(ctx, date)
	if err != nil {
		return nil, err
	}

	if c.redis != nil {
		if data, err := json.Marshal(snapshot); err == nil {
			if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
				log.Printf("dashboard cache write failed: %v", err)
			}
		}
	}

	return snapshot, nil
}

// Invalidate drops the cached snapshot for the reference date, called after
// a payment mutation so the next dashboard read recomputes.
func (c *DashboardCache) Invalidate(ctx context.Context, date *time.Time) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, c.key(date)).Err(); err != nil {
		log.Printf("dashboard cache invalidation failed: %v", err)
	}
}

func (c *DashboardCache) key(date *time.Time) string {
	if date == nil {
		return "dashboard:today"
	}
	return "dashboard:" + utils.FormatDate(*date)
}
