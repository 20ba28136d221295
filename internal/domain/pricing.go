package domain

import "time"

// PricedProduct is the outcome of resolving the best offer for a product.
type PricedProduct struct {
	OriginalPrice   float64 `json:"originalPrice"`
	DiscountedPrice float64 `json:"discountedPrice"`
	HasOffer        bool    `json:"hasOffer"`
	AppliedOffer    *Offer  `json:"appliedOffer,omitempty"`
}

// ResolveOffer picks the single best discount between the product-level and
// category-level offers. The category offer wins ties; the product offer
// applies only when its price is strictly lower. Pure function: both offers
// may be nil or stale, price is always the canonical list price.
func ResolveOffer(price float64, productOffer, categoryOffer *Offer, now time.Time) PricedProduct {
	out := PricedProduct{OriginalPrice: price, DiscountedPrice: price}

	if categoryOffer.Valid(now) {
		out.DiscountedPrice = price * (1 - categoryOffer.Discount/100)
		out.HasOffer = true
		out.AppliedOffer = categoryOffer
	}
	if productOffer.Valid(now) {
		discounted := price * (1 - productOffer.Discount/100)
		if discounted < out.DiscountedPrice {
			out.DiscountedPrice = discounted
			out.HasOffer = true
			out.AppliedOffer = productOffer
		}
	}
	return out
}
