package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/arjunks/vendora/internal/domain"
	"github.com/arjunks/vendora/internal/repository"
)

// OfferResolver determines the single best active discount for a product.
type OfferResolver struct {
	catalog repository.Catalog
}

func NewOfferResolver(catalog repository.Catalog) *OfferResolver {
	return &OfferResolver{catalog: catalog}
}

// Resolve looks up the currently valid product-level and category-level
// offers independently and picks the better price. Both lookups may hit even
// though creation tries to keep a product under a single offer.
func (r *OfferResolver) Resolve(ctx context.Context, product *domain.Product) (domain.PricedProduct, error) {
	productOffer, err := r.catalog.FindOfferForProduct(ctx, product.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.PricedProduct{}, fmt.Errorf("find product offer: %w", err)
	}
	categoryOffer, err := r.catalog.FindOfferForCategory(ctx, product.CategoryID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.PricedProduct{}, fmt.Errorf("find category offer: %w", err)
	}

	return domain.ResolveOffer(product.Price, productOffer, categoryOffer, time.Now()), nil
}

// OfferService is the admin surface for offer lifecycle.
type OfferService struct {
	store repository.Offers
}

func NewOfferService(store repository.Offers) *OfferService {
	return &OfferService{store: store}
}

func (s *OfferService) CreateOffer(ctx context.Context, o *domain.Offer) error {
	if o.Discount <= 0 || o.Discount > domain.MaxOfferDiscount {
		return fmt.Errorf("%w: discount must be in (0,%v]", domain.ErrInvalidOffer, domain.MaxOfferDiscount)
	}
	if !o.EndDate.After(time.Now()) {
		return fmt.Errorf("%w: end date must be in the future", domain.ErrInvalidOffer)
	}
	switch o.OfferType {
	case domain.OfferTypeProduct:
		if o.ProductID == "" || o.CategoryID != "" {
			return fmt.Errorf("%w: product offer requires exactly a product reference", domain.ErrInvalidOffer)
		}
	case domain.OfferTypeCategory:
		if o.CategoryID == "" || o.ProductID != "" {
			return fmt.Errorf("%w: category offer requires exactly a category reference", domain.ErrInvalidOffer)
		}
	default:
		return fmt.Errorf("%w: unknown offer type %q", domain.ErrInvalidOffer, o.OfferType)
	}

	o.ID = uuid.New().String()
	o.IsActive = true
	return s.store.CreateOffer(ctx, o)
}

func (s *OfferService) DeleteOffer(ctx context.Context, id string) error {
	err := s.store.DeactivateOffer(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrOfferNotFound
	}
	return err
}
