package cache

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arjunks/vendora/internal/domain"
)

const couponKeyPrefix = "coupon:"

// CouponCache is a redis-backed read-through cache of coupon definitions.
// Entries expire after the TTL and are invalidated on coupon mutation, so a
// cached row can be at most TTL stale; authoritative usage accounting
// happens in the store regardless.
type CouponCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCouponCache(rdb *redis.Client, ttl time.Duration) *CouponCache {
	return &CouponCache{rdb: rdb, ttl: ttl}
}

func (c *CouponCache) Get(ctx context.Context, code string) (*domain.Coupon, bool) {
	raw, err := c.rdb.Get(ctx, couponKeyPrefix+strings.ToUpper(code)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("coupon cache get %s: %v", code, err)
		}
		return nil, false
	}

	var coupon domain.Coupon
	if err := json.Unmarshal(raw, &coupon); err != nil {
		log.Printf("coupon cache decode %s: %v", code, err)
		return nil, false
	}
	return &coupon, true
}

func (c *CouponCache) Set(ctx context.Context, coupon *domain.Coupon) {
	raw, err := json.Marshal(coupon)
	if err != nil {
		log.Printf("coupon cache encode %s: %v", coupon.Code, err)
		return
	}
	if err := c.rdb.Set(ctx, couponKeyPrefix+coupon.Code, raw, c.ttl).Err(); err != nil {
		log.Printf("coupon cache set %s: %v", coupon.Code, err)
	}
}

func (c *CouponCache) Invalidate(ctx context.Context, code string) {
	if err := c.rdb.Del(ctx, couponKeyPrefix+strings.ToUpper(code)).Err(); err != nil {
		log.Printf("coupon cache invalidate %s: %v", code, err)
	}
}
