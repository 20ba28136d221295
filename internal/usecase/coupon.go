package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/arjunks/vendora/internal/domain"
	"github.com/arjunks/vendora/internal/repository"
)

// CouponResult is a successful coupon application against a cart total.
type CouponResult struct {
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discountAmount"`
	NewTotal       float64 `json:"newTotal"`
}

// CouponService validates coupons against carts and manages their
// definitions. Validation never mutates usage counters; consuming a use
// happens at checkout commit.
type CouponService struct {
	coupons repository.Coupons
	cache   CouponCache
}

func NewCouponService(coupons repository.Coupons, cache CouponCache) *CouponService {
	return &CouponService{coupons: coupons, cache: cache}
}

func (s *CouponService) lookup(ctx context.Context, code string) (*domain.Coupon, error) {
	if s.cache != nil {
		if c, ok := s.cache.Get(ctx, code); ok {
			return c, nil
		}
	}

	c, err := s.coupons.GetCouponByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, c)
	}
	return c, nil
}

// Validate checks the coupon against expiry, usage limits, minimum purchase
// and category eligibility, and computes the discounted total.
func (s *CouponService) Validate(ctx context.Context, code string, cartTotal float64, lines []domain.CartLine, userID string) (*CouponResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	coupon, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if coupon.ExpiryDate.Before(now) {
		return nil, domain.ErrCouponExpired
	}
	if coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit {
		return nil, domain.ErrCouponUsageLimit
	}

	used, err := s.coupons.GetUserUsage(ctx, coupon.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("get user coupon usage: %w", err)
	}
	if used >= coupon.UsageLimitPerUser {
		return nil, domain.ErrCouponPerUserLimit
	}

	if cartTotal < coupon.MinPurchaseAmount {
		return nil, domain.ErrBelowMinPurchase
	}

	eligible := false
	for _, line := range lines {
		if coupon.EligibleFor(line.Product.CategoryName) {
			eligible = true
			break
		}
	}
	if !eligible {
		return nil, domain.ErrCouponNotEligible
	}

	discount := cartTotal * coupon.Discount / 100
	return &CouponResult{
		Code:           code,
		DiscountAmount: discount,
		NewTotal:       cartTotal - discount,
	}, nil
}

// IsCouponRejection reports whether the error is one of the coupon
// validation outcomes, as opposed to an infrastructure failure.
func IsCouponRejection(err error) bool {
	return errors.Is(err, domain.ErrCouponNotFound) ||
		errors.Is(err, domain.ErrCouponExpired) ||
		errors.Is(err, domain.ErrCouponUsageLimit) ||
		errors.Is(err, domain.ErrCouponPerUserLimit) ||
		errors.Is(err, domain.ErrBelowMinPurchase) ||
		errors.Is(err, domain.ErrCouponNotEligible)
}

// CreateCoupon is the admin entry point. IsActive is derived, never taken
// from the input.
func (s *CouponService) CreateCoupon(ctx context.Context, c *domain.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Code == "" {
		return fmt.Errorf("%w: code is required", domain.ErrInvalidCoupon)
	}
	if c.Discount < 1 || c.Discount > 90 {
		return fmt.Errorf("%w: discount must be in [1,90]", domain.ErrInvalidCoupon)
	}
	if c.MinPurchaseAmount < 0 {
		return fmt.Errorf("%w: minimum purchase amount must be non-negative", domain.ErrInvalidCoupon)
	}
	if c.UsageLimitPerUser < 1 {
		return fmt.Errorf("%w: per-user usage limit must be at least 1", domain.ErrInvalidCoupon)
	}
	if c.UsageLimit != nil && *c.UsageLimit < 1 {
		return fmt.Errorf("%w: usage limit must be at least 1 when set", domain.ErrInvalidCoupon)
	}
	if !c.ExpiryDate.After(c.StartingDate) {
		return fmt.Errorf("%w: expiry must be after the starting date", domain.ErrInvalidCoupon)
	}

	c.ID = uuid.New().String()
	c.UsageCount = 0
	c.IsActive = c.Active(time.Now())

	err := s.coupons.CreateCoupon(ctx, c)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique constraint") {
			return domain.ErrDuplicateCoupon
		}
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, c.Code)
	}
	return nil
}
