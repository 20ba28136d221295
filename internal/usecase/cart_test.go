package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arjunks/vendora/internal/domain"
)

func cartService(store *mockStore) *CartService {
	coupons := NewCouponService(store, nil)
	pricing := NewPricingEngine(NewOfferResolver(store), coupons)
	return NewCartService(store, store, pricing, coupons)
}

func TestAddToCart_Success(t *testing.T) {
	var setQty int
	store := &mockStore{
		getProductFn: func(ctx context.Context, id string) (*domain.Product, error) {
			return &domain.Product{ID: id, Name: "Keyboard", Price: 100, Stock: 10}, nil
		},
		setLineFn: func(ctx context.Context, userID, productID string, quantity int) error {
			setQty = quantity
			return nil
		},
		getCartFn: func(ctx context.Context, userID string) (*domain.Cart, error) {
			return &domain.Cart{UserID: userID}, nil
		},
	}

	if err := cartService(store).AddToCart(context.Background(), "u1", "p1", 2); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if setQty != 2 {
		t.Fatalf("expected line quantity 2, got %d", setQty)
	}
}

func TestAddToCart_InvalidQuantity(t *testing.T) {
	err := cartService(&mockStore{}).AddToCart(context.Background(), "u1", "p1", 0)
	if !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestAddToCart_ProductNotFound(t *testing.T) {
	err := cartService(&mockStore{}).AddToCart(context.Background(), "u1", "missing", 1)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestAddToCart_InsufficientStock(t *testing.T) {
	store := &mockStore{
		getProductFn: func(ctx context.Context, id string) (*domain.Product, error) {
			return &domain.Product{ID: id, Name: "Keyboard", Price: 100, Stock: 1}, nil
		},
	}

	err := cartService(store).AddToCart(context.Background(), "u1", "p1", 3)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestAddToCart_CapIsCumulative(t *testing.T) {
	setLineCalled := false
	store := &mockStore{
		getProductFn: func(ctx context.Context, id string) (*domain.Product, error) {
			return &domain.Product{ID: id, Name: "Keyboard", Price: 100, Stock: 10}, nil
		},
		getLineQuantityFn: func(ctx context.Context, userID, productID string) (int, error) {
			return 3, nil
		},
		setLineFn: func(ctx context.Context, userID, productID string, quantity int) error {
			setLineCalled = true
			return nil
		},
	}

	err := cartService(store).AddToCart(context.Background(), "u1", "p1", 3)
	if !errors.Is(err, domain.ErrPerProductCap) {
		t.Fatalf("expected ErrPerProductCap, got %v", err)
	}
	if setLineCalled {
		t.Fatal("expected the existing line to be left untouched")
	}
}

func TestUpdateCartLine_CapApplies(t *testing.T) {
	store := &mockStore{
		getCartFn: func(ctx context.Context, userID string) (*domain.Cart, error) {
			return &domain.Cart{UserID: userID}, nil
		},
		getLineQuantityFn: func(ctx context.Context, userID, productID string) (int, error) {
			return 2, nil
		},
	}

	err := cartService(store).UpdateCartLine(context.Background(), "u1", "p1", domain.MaxUnitsPerProduct+1)
	if !errors.Is(err, domain.ErrPerProductCap) {
		t.Fatalf("expected ErrPerProductCap, got %v", err)
	}
}

func TestUpdateCartLine_LineNotFound(t *testing.T) {
	store := &mockStore{
		getCartFn: func(ctx context.Context, userID string) (*domain.Cart, error) {
			return &domain.Cart{UserID: userID}, nil
		},
	}

	err := cartService(store).UpdateCartLine(context.Background(), "u1", "p1", 2)
	if !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestRemoveFromCart_CartNotFound(t *testing.T) {
	err := cartService(&mockStore{}).RemoveFromCart(context.Background(), "u1", "p1")
	if !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestRemoveFromCart_LineNotFound(t *testing.T) {
	store := &mockStore{
		getCartFn: func(ctx context.Context, userID string) (*domain.Cart, error) {
			return &domain.Cart{UserID: userID}, nil
		},
		deleteLineFn: func(ctx context.Context, userID, productID string) (int64, error) {
			return 0, nil
		},
	}

	err := cartService(store).RemoveFromCart(context.Background(), "u1", "p1")
	if !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestGetCartPriced_NoCartIsEmpty(t *testing.T) {
	cart, err := cartService(&mockStore{}).GetCartPriced(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(cart.Lines) != 0 || cart.Subtotal != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestGetCartPriced_StaleCouponFallsBack(t *testing.T) {
	store := &mockStore{
		getCartFn: func(ctx context.Context, userID string) (*domain.Cart, error) {
			return &domain.Cart{
				UserID:     userID,
				CouponCode: "SAVE10",
				Lines: []domain.CartLine{
					{ProductID: "p1", Quantity: 1, Product: domain.Product{ID: "p1", CategoryName: "Electronics", Price: 100, Stock: 5}},
				},
			}, nil
		},
		getCouponByCodeFn: func(ctx context.Context, code string) (*domain.Coupon, error) {
			c := validCoupon()
			c.ExpiryDate = time.Now().Add(-time.Hour)
			return c, nil
		},
	}

	cart, err := cartService(store).GetCartPriced(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected stale coupon to degrade, got %v", err)
	}
	if cart.Discount != 0 || cart.Total != 100 {
		t.Fatalf("expected uncouponed view, got %+v", cart)
	}
}

func TestGetCartPriced_StoreFailurePropagates(t *testing.T) {
	store := &mockStore{
		getCartFn: func(ctx context.Context, userID string) (*domain.Cart, error) {
			return &domain.Cart{
				UserID:     userID,
				CouponCode: "SAVE10",
				Lines: []domain.CartLine{
					{ProductID: "p1", Quantity: 1, Product: domain.Product{ID: "p1", CategoryName: "Electronics", Price: 100, Stock: 5}},
				},
			}, nil
		},
		getCouponByCodeFn: func(ctx context.Context, code string) (*domain.Coupon, error) {
			return validCoupon(), nil
		},
		getUserUsageFn: func(ctx context.Context, couponID, userID string) (int, error) {
			return 0, errors.New("connection reset by peer")
		},
	}

	_, err := cartService(store).GetCartPriced(context.Background(), "u1")
	if err == nil {
		t.Fatal("expected a store failure to propagate, not degrade the coupon")
	}
}

func TestApplyCoupon_PersistsOnCart(t *testing.T) {
	persisted := ""
	store := &mockStore{
		getCartFn: func(ctx context.Context, userID string) (*domain.Cart, error) {
			return &domain.Cart{
				UserID: userID,
				Lines: []domain.CartLine{
					{ProductID: "p1", Quantity: 1, Product: domain.Product{ID: "p1", CategoryName: "Electronics", Price: 100, Stock: 5}},
				},
			}, nil
		},
		getCouponByCodeFn: func(ctx context.Context, code string) (*domain.Coupon, error) {
			return validCoupon(), nil
		},
		setCartCouponFn: func(ctx context.Context, userID, code string) error {
			persisted = code
			return nil
		},
	}

	result, err := cartService(store).ApplyCoupon(context.Background(), "u1", "save10")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if persisted != "SAVE10" {
		t.Fatalf("expected coupon persisted on cart, got %q", persisted)
	}
	if result.NewTotal != 90 {
		t.Fatalf("expected new total 90, got %v", result.NewTotal)
	}
}

func TestApplyCoupon_InvalidNotPersisted(t *testing.T) {
	persisted := false
	store := &mockStore{
		getCartFn: func(ctx context.Context, userID string) (*domain.Cart, error) {
			return &domain.Cart{
				UserID: userID,
				Lines: []domain.CartLine{
					{ProductID: "p1", Quantity: 1, Product: domain.Product{ID: "p1", CategoryName: "Electronics", Price: 30, Stock: 5}},
				},
			}, nil
		},
		getCouponByCodeFn: func(ctx context.Context, code string) (*domain.Coupon, error) {
			return validCoupon(), nil
		},
		setCartCouponFn: func(ctx context.Context, userID, code string) error {
			persisted = true
			return nil
		},
	}

	_, err := cartService(store).ApplyCoupon(context.Background(), "u1", "SAVE10")
	if !errors.Is(err, domain.ErrBelowMinPurchase) {
		t.Fatalf("expected ErrBelowMinPurchase, got %v", err)
	}
	if persisted {
		t.Fatal("expected invalid coupon not to be recorded on the cart")
	}
}
