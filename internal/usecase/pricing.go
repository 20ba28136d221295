package usecase

import (
	"context"
	"fmt"

	"github.com/arjunks/vendora/internal/domain"
)

// PricedLine is one cart line with its authoritative effective price.
// Out-of-stock lines carry a flag and contribute nothing to the subtotal.
type PricedLine struct {
	ProductID      string  `json:"productId"`
	Name           string  `json:"name"`
	CategoryName   string  `json:"categoryName"`
	BrandName      string  `json:"brandName"`
	Quantity       int     `json:"quantity"`
	OriginalPrice  float64 `json:"originalPrice"`
	EffectivePrice float64 `json:"effectivePrice"`
	HasOffer       bool    `json:"hasOffer"`
	OutOfStock     bool    `json:"outOfStock"`
}

// PricedCart is the priced view of a cart. Monetary values stay unrounded;
// rounding belongs to presentation boundaries only.
type PricedCart struct {
	Lines      []PricedLine `json:"lines"`
	Subtotal   float64      `json:"subtotal"`
	CouponCode string       `json:"couponCode,omitempty"`
	Discount   float64      `json:"discount"`
	Total      float64      `json:"total"`
}

// PricingEngine computes per-line and aggregate amounts for a cart.
type PricingEngine struct {
	resolver *OfferResolver
	coupons  *CouponService
}

func NewPricingEngine(resolver *OfferResolver, coupons *CouponService) *PricingEngine {
	return &PricingEngine{resolver: resolver, coupons: coupons}
}

// Price resolves every line's offer and sums the effective prices.
func (e *PricingEngine) Price(ctx context.Context, lines []domain.CartLine) (*PricedCart, error) {
	cart := &PricedCart{}
	for _, line := range lines {
		priced, err := e.resolver.Resolve(ctx, &line.Product)
		if err != nil {
			return nil, fmt.Errorf("price product %s: %w", line.ProductID, err)
		}

		effective := priced.OriginalPrice
		if priced.HasOffer {
			effective = priced.DiscountedPrice
		}

		out := PricedLine{
			ProductID:      line.ProductID,
			Name:           line.Product.Name,
			CategoryName:   line.Product.CategoryName,
			BrandName:      line.Product.BrandName,
			Quantity:       line.Quantity,
			OriginalPrice:  priced.OriginalPrice,
			EffectivePrice: effective,
			HasOffer:       priced.HasOffer,
			OutOfStock:     line.Product.Stock <= 0,
		}
		cart.Lines = append(cart.Lines, out)

		if !out.OutOfStock {
			cart.Subtotal += effective * float64(line.Quantity)
		}
	}
	cart.Total = cart.Subtotal
	return cart, nil
}

// PriceWithCoupon prices the lines and applies the coupon to the aggregate.
// On a coupon validation failure the priced, uncouponed cart is returned
// together with the coupon error so the caller can surface both.
func (e *PricingEngine) PriceWithCoupon(ctx context.Context, lines []domain.CartLine, code, userID string) (*PricedCart, error) {
	cart, err := e.Price(ctx, lines)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return cart, nil
	}

	result, err := e.coupons.Validate(ctx, code, cart.Subtotal, lines, userID)
	if err != nil {
		return cart, err
	}

	cart.CouponCode = result.Code
	cart.Discount = result.DiscountAmount
	cart.Total = result.NewTotal
	return cart, nil
}
