package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/arjunks/vendora/internal/domain"
	"github.com/arjunks/vendora/internal/repository"
)

// CartService mutates a user's in-progress cart and produces its priced view.
type CartService struct {
	catalog repository.Catalog
	carts   repository.Carts
	pricing *PricingEngine
	coupons *CouponService
}

func NewCartService(catalog repository.Catalog, carts repository.Carts, pricing *PricingEngine, coupons *CouponService) *CartService {
	return &CartService{catalog: catalog, carts: carts, pricing: pricing, coupons: coupons}
}

// AddToCart adds quantity units of a product, enforcing stock availability
// and the per-product cap cumulatively across repeated adds.
func (s *CartService) AddToCart(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("get product: %w", err)
	}
	if quantity > product.Stock {
		return fmt.Errorf("%w for %s", domain.ErrInsufficientStock, product.Name)
	}

	existing, err := s.carts.GetLineQuantity(ctx, userID, productID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("get cart line: %w", err)
	}
	if existing+quantity > domain.MaxUnitsPerProduct {
		return fmt.Errorf("%w: at most %d units of %s", domain.ErrPerProductCap, domain.MaxUnitsPerProduct, product.Name)
	}

	if err := s.carts.SetLine(ctx, userID, productID, existing+quantity); err != nil {
		return err
	}
	return s.recomputeTotal(ctx, userID)
}

// UpdateCartLine overwrites a line's quantity. The per-product cap applies
// here as well as on add.
func (s *CartService) UpdateCartLine(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	if quantity > domain.MaxUnitsPerProduct {
		return fmt.Errorf("%w: at most %d units per product", domain.ErrPerProductCap, domain.MaxUnitsPerProduct)
	}

	if _, err := s.carts.GetCart(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCartNotFound
		}
		return fmt.Errorf("get cart: %w", err)
	}
	if _, err := s.carts.GetLineQuantity(ctx, userID, productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrLineNotFound
		}
		return fmt.Errorf("get cart line: %w", err)
	}

	if err := s.carts.SetLine(ctx, userID, productID, quantity); err != nil {
		return err
	}
	return s.recomputeTotal(ctx, userID)
}

// RemoveFromCart drops a line. The cached total is left stale; it is
// recomputed on the next priced read.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID string) error {
	if _, err := s.carts.GetCart(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCartNotFound
		}
		return fmt.Errorf("get cart: %w", err)
	}

	removed, err := s.carts.DeleteLine(ctx, userID, productID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return domain.ErrLineNotFound
	}
	return nil
}

// GetCartPriced returns the cart priced with current offers and the cart's
// applied coupon. A user with no cart yet sees an empty cart.
func (s *CartService) GetCartPriced(ctx context.Context, userID string) (*PricedCart, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &PricedCart{}, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	priced, err := s.pricing.PriceWithCoupon(ctx, cart.Lines, cart.CouponCode, userID)
	if err != nil {
		if priced == nil || !IsCouponRejection(err) {
			return nil, err
		}
		// The applied coupon no longer validates; surface the uncouponed view.
		slog.Info("cart coupon no longer valid", "user_id", userID, "coupon", cart.CouponCode, "err", err)
	}

	s.persistPrices(ctx, userID, priced)
	return priced, nil
}

// ApplyCoupon validates the code against the user's current cart and, when
// valid, records it on the cart for checkout to consume.
func (s *CartService) ApplyCoupon(ctx context.Context, userID, code string) (*CouponResult, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	priced, err := s.pricing.Price(ctx, cart.Lines)
	if err != nil {
		return nil, err
	}

	result, err := s.coupons.Validate(ctx, code, priced.Subtotal, cart.Lines, userID)
	if err != nil {
		return nil, err
	}

	if err := s.carts.SetCartCoupon(ctx, userID, result.Code); err != nil {
		return nil, err
	}
	return result, nil
}

// recomputeTotal refreshes the cached cart total from current prices.
func (s *CartService) recomputeTotal(ctx context.Context, userID string) error {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}
	priced, err := s.pricing.Price(ctx, cart.Lines)
	if err != nil {
		return err
	}
	return s.carts.UpdateCartTotal(ctx, userID, priced.Subtotal)
}

// persistPrices writes resolved discounted prices and the recomputed total
// back onto the records; failures only log, the priced view stands.
func (s *CartService) persistPrices(ctx context.Context, userID string, priced *PricedCart) {
	for _, line := range priced.Lines {
		if err := s.catalog.UpdateDiscountedPrice(ctx, line.ProductID, line.EffectivePrice, line.HasOffer); err != nil {
			slog.Error("persist discounted price", "product_id", line.ProductID, "err", err)
		}
	}
	if err := s.carts.UpdateCartTotal(ctx, userID, priced.Subtotal); err != nil {
		slog.Error("persist cart total", "user_id", userID, "err", err)
	}
}
