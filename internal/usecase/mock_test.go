package usecase

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/arjunks/vendora/internal/domain"
	"github.com/arjunks/vendora/internal/repository"
)

// mockStore implements repository.Store and repository.Tx with overridable
// func fields. Lookup defaults mirror the real store: absence is
// pgx.ErrNoRows, mutations succeed.
type mockStore struct {
	getProductFn            func(ctx context.Context, id string) (*domain.Product, error)
	findOfferForProductFn   func(ctx context.Context, productID string) (*domain.Offer, error)
	findOfferForCategoryFn  func(ctx context.Context, categoryID string) (*domain.Offer, error)
	updateDiscountedPriceFn func(ctx context.Context, productID string, price float64, hasOffer bool) error

	getCartFn         func(ctx context.Context, userID string) (*domain.Cart, error)
	getLineQuantityFn func(ctx context.Context, userID, productID string) (int, error)
	setLineFn         func(ctx context.Context, userID, productID string, quantity int) error
	deleteLineFn      func(ctx context.Context, userID, productID string) (int64, error)
	updateCartTotalFn func(ctx context.Context, userID string, total float64) error
	setCartCouponFn   func(ctx context.Context, userID, code string) error

	getCouponByCodeFn func(ctx context.Context, code string) (*domain.Coupon, error)
	getUserUsageFn    func(ctx context.Context, couponID, userID string) (int, error)
	createCouponFn    func(ctx context.Context, c *domain.Coupon) error

	getOrCreateWalletFn func(ctx context.Context, userID string) (*domain.Wallet, error)
	applyTransactionFn  func(ctx context.Context, userID string, amount float64, txType domain.TransactionType, status domain.TransactionStatus, description string) error

	getOrderFn                func(ctx context.Context, id string) (*domain.Order, error)
	updateOrderStatusFn       func(ctx context.Context, orderID string, status domain.OrderStatus) error
	appendSalesReportFn       func(ctx context.Context, entries []domain.SalesReportEntry) error
	updateSalesReportStatusFn func(ctx context.Context, orderID string, status domain.OrderStatus) error

	createOfferFn     func(ctx context.Context, o *domain.Offer) error
	deactivateOfferFn func(ctx context.Context, id string) error

	debitWalletFn          func(ctx context.Context, userID string, amount float64, description string) error
	decrementStockFn       func(ctx context.Context, productID string, quantity int) error
	insertOrderFn          func(ctx context.Context, o *domain.Order) error
	clearCartFn            func(ctx context.Context, userID string) error
	incrementCouponUsageFn func(ctx context.Context, code, userID string) error

	execTxFn func(ctx context.Context, fn func(repository.Tx) error) error
}

func (m *mockStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if m.getProductFn != nil {
		return m.getProductFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockStore) FindOfferForProduct(ctx context.Context, productID string) (*domain.Offer, error) {
	if m.findOfferForProductFn != nil {
		return m.findOfferForProductFn(ctx, productID)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockStore) FindOfferForCategory(ctx context.Context, categoryID string) (*domain.Offer, error) {
	if m.findOfferForCategoryFn != nil {
		return m.findOfferForCategoryFn(ctx, categoryID)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockStore) UpdateDiscountedPrice(ctx context.Context, productID string, price float64, hasOffer bool) error {
	if m.updateDiscountedPriceFn != nil {
		return m.updateDiscountedPriceFn(ctx, productID, price, hasOffer)
	}
	return nil
}

func (m *mockStore) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if m.getCartFn != nil {
		return m.getCartFn(ctx, userID)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockStore) GetLineQuantity(ctx context.Context, userID, productID string) (int, error) {
	if m.getLineQuantityFn != nil {
		return m.getLineQuantityFn(ctx, userID, productID)
	}
	return 0, pgx.ErrNoRows
}

func (m *mockStore) SetLine(ctx context.Context, userID, productID string, quantity int) error {
	if m.setLineFn != nil {
		return m.setLineFn(ctx, userID, productID, quantity)
	}
	return nil
}

func (m *mockStore) DeleteLine(ctx context.Context, userID, productID string) (int64, error) {
	if m.deleteLineFn != nil {
		return m.deleteLineFn(ctx, userID, productID)
	}
	return 1, nil
}

func (m *mockStore) UpdateCartTotal(ctx context.Context, userID string, total float64) error {
	if m.updateCartTotalFn != nil {
		return m.updateCartTotalFn(ctx, userID, total)
	}
	return nil
}

func (m *mockStore) SetCartCoupon(ctx context.Context, userID, code string) error {
	if m.setCartCouponFn != nil {
		return m.setCartCouponFn(ctx, userID, code)
	}
	return nil
}

func (m *mockStore) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	if m.getCouponByCodeFn != nil {
		return m.getCouponByCodeFn(ctx, code)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockStore) GetUserUsage(ctx context.Context, couponID, userID string) (int, error) {
	if m.getUserUsageFn != nil {
		return m.getUserUsageFn(ctx, couponID, userID)
	}
	return 0, nil
}

func (m *mockStore) CreateCoupon(ctx context.Context, c *domain.Coupon) error {
	if m.createCouponFn != nil {
		return m.createCouponFn(ctx, c)
	}
	return nil
}

func (m *mockStore) GetOrCreateWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	if m.getOrCreateWalletFn != nil {
		return m.getOrCreateWalletFn(ctx, userID)
	}
	return &domain.Wallet{UserID: userID}, nil
}

func (m *mockStore) ApplyTransaction(ctx context.Context, userID string, amount float64, txType domain.TransactionType, status domain.TransactionStatus, description string) error {
	if m.applyTransactionFn != nil {
		return m.applyTransactionFn(ctx, userID, amount, txType, status, description)
	}
	return nil
}

func (m *mockStore) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if m.getOrderFn != nil {
		return m.getOrderFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockStore) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if m.updateOrderStatusFn != nil {
		return m.updateOrderStatusFn(ctx, orderID, status)
	}
	return nil
}

func (m *mockStore) AppendSalesReport(ctx context.Context, entries []domain.SalesReportEntry) error {
	if m.appendSalesReportFn != nil {
		return m.appendSalesReportFn(ctx, entries)
	}
	return nil
}

func (m *mockStore) UpdateSalesReportStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if m.updateSalesReportStatusFn != nil {
		return m.updateSalesReportStatusFn(ctx, orderID, status)
	}
	return nil
}

func (m *mockStore) CreateOffer(ctx context.Context, o *domain.Offer) error {
	if m.createOfferFn != nil {
		return m.createOfferFn(ctx, o)
	}
	return nil
}

func (m *mockStore) DeactivateOffer(ctx context.Context, id string) error {
	if m.deactivateOfferFn != nil {
		return m.deactivateOfferFn(ctx, id)
	}
	return nil
}

func (m *mockStore) DebitWallet(ctx context.Context, userID string, amount float64, description string) error {
	if m.debitWalletFn != nil {
		return m.debitWalletFn(ctx, userID, amount, description)
	}
	return nil
}

func (m *mockStore) DecrementStock(ctx context.Context, productID string, quantity int) error {
	if m.decrementStockFn != nil {
		return m.decrementStockFn(ctx, productID, quantity)
	}
	return nil
}

func (m *mockStore) InsertOrder(ctx context.Context, o *domain.Order) error {
	if m.insertOrderFn != nil {
		return m.insertOrderFn(ctx, o)
	}
	return nil
}

func (m *mockStore) ClearCart(ctx context.Context, userID string) error {
	if m.clearCartFn != nil {
		return m.clearCartFn(ctx, userID)
	}
	return nil
}

func (m *mockStore) IncrementCouponUsage(ctx context.Context, code, userID string) error {
	if m.incrementCouponUsageFn != nil {
		return m.incrementCouponUsageFn(ctx, code, userID)
	}
	return nil
}

func (m *mockStore) ExecTx(ctx context.Context, fn func(repository.Tx) error) error {
	if m.execTxFn != nil {
		return m.execTxFn(ctx, fn)
	}
	return fn(m)
}

type mockSink struct {
	orderPlacedFn        func(ctx context.Context, order *domain.Order, entries []domain.SalesReportEntry) error
	orderStatusChangedFn func(ctx context.Context, orderID string, status domain.OrderStatus) error
}

func (m *mockSink) OrderPlaced(ctx context.Context, order *domain.Order, entries []domain.SalesReportEntry) error {
	if m.orderPlacedFn != nil {
		return m.orderPlacedFn(ctx, order, entries)
	}
	return nil
}

func (m *mockSink) OrderStatusChanged(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if m.orderStatusChangedFn != nil {
		return m.orderStatusChangedFn(ctx, orderID, status)
	}
	return nil
}
