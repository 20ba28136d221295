package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arjunks/vendora/internal/domain"
)

func (q *Queries) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var c domain.Coupon
	err := q.db.QueryRow(ctx, `
		SELECT id, code, discount, min_purchase_amount, starting_date, expiry_date,
		       usage_limit, usage_count, usage_limit_per_user, categories, is_active
		FROM coupons
		WHERE code = $1
	`, code).Scan(
		&c.ID, &c.Code, &c.Discount, &c.MinPurchaseAmount, &c.StartingDate, &c.ExpiryDate,
		&c.UsageLimit, &c.UsageCount, &c.UsageLimitPerUser, &c.Categories, &c.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetUserUsage returns how many times the user has redeemed the coupon;
// zero when there is no ledger entry yet.
func (q *Queries) GetUserUsage(ctx context.Context, couponID, userID string) (int, error) {
	var count int
	err := q.db.QueryRow(ctx, `
		SELECT usage_count FROM coupon_usages WHERE coupon_id = $1 AND user_id = $2
	`, couponID, userID).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return count, err
}

func (q *Queries) CreateCoupon(ctx context.Context, c *domain.Coupon) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO coupons (id, code, discount, min_purchase_amount, starting_date,
		                     expiry_date, usage_limit, usage_count, usage_limit_per_user,
		                     categories, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10)
	`, c.ID, c.Code, c.Discount, c.MinPurchaseAmount, c.StartingDate,
		c.ExpiryDate, c.UsageLimit, c.UsageLimitPerUser, c.Categories, c.IsActive)
	return err
}

// IncrementCouponUsage consumes one use of the coupon. Both counters are
// guarded conditional statements: the global counter advances only while
// under usage_limit (pgx.ErrNoRows otherwise) and the per-user upsert only
// while under usage_limit_per_user (ErrCouponPerUserLimit otherwise), so
// concurrent checkouts cannot overshoot either limit. is_active is
// recomputed in the same statement so it stays a pure function of expiry
// and usage state.
func (q *Queries) IncrementCouponUsage(ctx context.Context, code, userID string) error {
	var (
		couponID     string
		perUserLimit int
	)
	err := q.db.QueryRow(ctx, `
		UPDATE coupons
		SET usage_count = usage_count + 1,
		    is_active = expiry_date > NOW()
		        AND (usage_limit IS NULL OR usage_count + 1 < usage_limit)
		WHERE code = $1
		  AND (usage_limit IS NULL OR usage_count < usage_limit)
		RETURNING id, usage_limit_per_user
	`, code).Scan(&couponID, &perUserLimit)
	if err != nil {
		return err
	}

	var userCount int
	err = q.db.QueryRow(ctx, `
		INSERT INTO coupon_usages (coupon_id, user_id, usage_count, last_used)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (coupon_id, user_id)
		DO UPDATE SET usage_count = coupon_usages.usage_count + 1, last_used = NOW()
		WHERE coupon_usages.usage_count < $3
		RETURNING usage_count
	`, couponID, userID, perUserLimit).Scan(&userCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrCouponPerUserLimit
	}
	if err != nil {
		return fmt.Errorf("increment user coupon usage: %w", err)
	}
	return nil
}
