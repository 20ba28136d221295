package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrCartNotFound    = errors.New("cart not found")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrOrderNotFound   = errors.New("order not found")

	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrPerProductCap        = errors.New("per-product quantity cap exceeded")
	ErrInsufficientBalance  = errors.New("insufficient wallet balance")
	ErrNoProductsInOrder    = errors.New("no products in order")
	ErrUnauthorized         = errors.New("missing user context")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")

	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponExpired      = errors.New("coupon expired")
	ErrCouponUsageLimit   = errors.New("coupon usage limit exceeded")
	ErrCouponPerUserLimit = errors.New("coupon per-user limit exceeded")
	ErrBelowMinPurchase   = errors.New("cart total below coupon minimum purchase amount")
	ErrCouponNotEligible  = errors.New("coupon not eligible for any cart category")
	ErrDuplicateCoupon    = errors.New("coupon already exists")
	ErrInvalidCoupon      = errors.New("invalid coupon definition")

	ErrOfferNotFound = errors.New("offer not found")
	ErrInvalidOffer  = errors.New("invalid offer definition")
)
