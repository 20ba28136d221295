package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/arjunks/vendora/internal/domain"
)

func testProduct(price float64) *domain.Product {
	return &domain.Product{
		ID:           "p1",
		Name:         "Keyboard",
		Price:        price,
		Stock:        10,
		CategoryID:   "c1",
		CategoryName: "Electronics",
	}
}

func TestResolve_CategoryWinsTie(t *testing.T) {
	end := time.Now().Add(24 * time.Hour)
	store := &mockStore{
		findOfferForProductFn: func(ctx context.Context, productID string) (*domain.Offer, error) {
			return &domain.Offer{OfferType: domain.OfferTypeProduct, ProductID: "p1", Discount: 15, EndDate: end, IsActive: true}, nil
		},
		findOfferForCategoryFn: func(ctx context.Context, categoryID string) (*domain.Offer, error) {
			return &domain.Offer{OfferType: domain.OfferTypeCategory, CategoryID: "c1", Discount: 20, EndDate: end, IsActive: true}, nil
		},
	}

	priced, err := NewOfferResolver(store).Resolve(context.Background(), testProduct(100))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !priced.HasOffer || priced.DiscountedPrice != 80 {
		t.Fatalf("expected discounted price 80, got %+v", priced)
	}
	if priced.AppliedOffer.OfferType != domain.OfferTypeCategory {
		t.Fatalf("expected category offer to win, got %v", priced.AppliedOffer.OfferType)
	}
}

func TestResolve_ProductWinsWhenStrictlyLower(t *testing.T) {
	end := time.Now().Add(24 * time.Hour)
	store := &mockStore{
		findOfferForProductFn: func(ctx context.Context, productID string) (*domain.Offer, error) {
			return &domain.Offer{OfferType: domain.OfferTypeProduct, ProductID: "p1", Discount: 30, EndDate: end, IsActive: true}, nil
		},
		findOfferForCategoryFn: func(ctx context.Context, categoryID string) (*domain.Offer, error) {
			return &domain.Offer{OfferType: domain.OfferTypeCategory, CategoryID: "c1", Discount: 10, EndDate: end, IsActive: true}, nil
		},
	}

	priced, err := NewOfferResolver(store).Resolve(context.Background(), testProduct(100))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if priced.DiscountedPrice != 70 {
		t.Fatalf("expected discounted price 70, got %v", priced.DiscountedPrice)
	}
	if priced.AppliedOffer.OfferType != domain.OfferTypeProduct {
		t.Fatalf("expected product offer to win, got %v", priced.AppliedOffer.OfferType)
	}
}

func TestResolve_NoOffers(t *testing.T) {
	priced, err := NewOfferResolver(&mockStore{}).Resolve(context.Background(), testProduct(100))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if priced.HasOffer || priced.DiscountedPrice != 100 {
		t.Fatalf("expected full price without offers, got %+v", priced)
	}
}

func TestResolve_ExpiredOfferIgnored(t *testing.T) {
	store := &mockStore{
		findOfferForProductFn: func(ctx context.Context, productID string) (*domain.Offer, error) {
			return &domain.Offer{OfferType: domain.OfferTypeProduct, ProductID: "p1", Discount: 50, EndDate: time.Now().Add(-time.Hour), IsActive: true}, nil
		},
	}

	priced, err := NewOfferResolver(store).Resolve(context.Background(), testProduct(100))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if priced.HasOffer {
		t.Fatalf("expected expired offer to be ignored, got %+v", priced)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	end := time.Now().Add(24 * time.Hour)
	store := &mockStore{
		findOfferForCategoryFn: func(ctx context.Context, categoryID string) (*domain.Offer, error) {
			return &domain.Offer{OfferType: domain.OfferTypeCategory, CategoryID: "c1", Discount: 25, EndDate: end, IsActive: true}, nil
		},
	}

	resolver := NewOfferResolver(store)
	product := testProduct(200)
	first, err := resolver.Resolve(context.Background(), product)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := resolver.Resolve(context.Background(), product)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.DiscountedPrice != second.DiscountedPrice {
		t.Fatalf("expected stable result, got %v then %v", first.DiscountedPrice, second.DiscountedPrice)
	}
}

func TestCreateOffer_Validation(t *testing.T) {
	svc := NewOfferService(&mockStore{})
	end := time.Now().Add(24 * time.Hour)

	cases := []struct {
		name  string
		offer domain.Offer
	}{
		{"discount too high", domain.Offer{OfferType: domain.OfferTypeProduct, ProductID: "p1", Discount: 81, EndDate: end}},
		{"zero discount", domain.Offer{OfferType: domain.OfferTypeProduct, ProductID: "p1", Discount: 0, EndDate: end}},
		{"past end date", domain.Offer{OfferType: domain.OfferTypeProduct, ProductID: "p1", Discount: 10, EndDate: time.Now().Add(-time.Hour)}},
		{"product offer without product", domain.Offer{OfferType: domain.OfferTypeProduct, Discount: 10, EndDate: end}},
		{"category offer with product", domain.Offer{OfferType: domain.OfferTypeCategory, CategoryID: "c1", ProductID: "p1", Discount: 10, EndDate: end}},
		{"unknown type", domain.Offer{OfferType: "brand", ProductID: "p1", Discount: 10, EndDate: end}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			offer := tc.offer
			if err := svc.CreateOffer(context.Background(), &offer); !errors.Is(err, domain.ErrInvalidOffer) {
				t.Fatalf("expected ErrInvalidOffer, got %v", err)
			}
		})
	}
}

func TestCreateOffer_Success(t *testing.T) {
	var created *domain.Offer
	store := &mockStore{
		createOfferFn: func(ctx context.Context, o *domain.Offer) error {
			created = o
			return nil
		},
	}

	svc := NewOfferService(store)
	offer := &domain.Offer{
		OfferType:  domain.OfferTypeCategory,
		CategoryID: "c1",
		Discount:   25,
		EndDate:    time.Now().Add(24 * time.Hour),
	}
	if err := svc.CreateOffer(context.Background(), offer); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created == nil || created.ID == "" || !created.IsActive {
		t.Fatalf("expected persisted active offer with id, got %+v", created)
	}
}

func TestDeleteOffer_NotFound(t *testing.T) {
	store := &mockStore{
		deactivateOfferFn: func(ctx context.Context, id string) error {
			return pgx.ErrNoRows
		},
	}

	err := NewOfferService(store).DeleteOffer(context.Background(), "missing")
	if !errors.Is(err, domain.ErrOfferNotFound) {
		t.Fatalf("expected ErrOfferNotFound, got %v", err)
	}
}
