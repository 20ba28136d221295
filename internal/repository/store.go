package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arjunks/vendora/internal/domain"
)

// Catalog is the read/write surface of the product catalog.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	FindOfferForProduct(ctx context.Context, productID string) (*domain.Offer, error)
	FindOfferForCategory(ctx context.Context, categoryID string) (*domain.Offer, error)
	UpdateDiscountedPrice(ctx context.Context, productID string, price float64, hasOffer bool) error
}

// Carts persists per-user cart documents.
type Carts interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	GetLineQuantity(ctx context.Context, userID, productID string) (int, error)
	SetLine(ctx context.Context, userID, productID string, quantity int) error
	DeleteLine(ctx context.Context, userID, productID string) (int64, error)
	UpdateCartTotal(ctx context.Context, userID string, total float64) error
	SetCartCoupon(ctx context.Context, userID, code string) error
}

// Coupons reads and creates coupon definitions and per-user usage.
type Coupons interface {
	GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error)
	GetUserUsage(ctx context.Context, couponID, userID string) (int, error)
	CreateCoupon(ctx context.Context, c *domain.Coupon) error
}

// Wallets is the wallet ledger surface.
type Wallets interface {
	GetOrCreateWallet(ctx context.Context, userID string) (*domain.Wallet, error)
	ApplyTransaction(ctx context.Context, userID string, amount float64, txType domain.TransactionType, status domain.TransactionStatus, description string) error
}

// Orders is the order/sales-report sink.
type Orders interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
	AppendSalesReport(ctx context.Context, entries []domain.SalesReportEntry) error
	UpdateSalesReportStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
}

// Offers manages offer lifecycle together with the denormalized
// discounted-price columns on the affected products.
type Offers interface {
	CreateOffer(ctx context.Context, o *domain.Offer) error
	DeactivateOffer(ctx context.Context, id string) error
}

// Tx is the slice of the store available inside a checkout transaction.
// DebitWallet, DecrementStock and IncrementCouponUsage are conditional
// single-statement updates: they return pgx.ErrNoRows when the guard
// (balance, stock, usage limit) does not hold.
type Tx interface {
	DebitWallet(ctx context.Context, userID string, amount float64, description string) error
	DecrementStock(ctx context.Context, productID string, quantity int) error
	InsertOrder(ctx context.Context, o *domain.Order) error
	ClearCart(ctx context.Context, userID string) error
	IncrementCouponUsage(ctx context.Context, code, userID string) error
}

type Store interface {
	Catalog
	Carts
	Coupons
	Wallets
	Orders
	Offers
	ExecTx(ctx context.Context, fn func(Tx) error) error
}

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// db adds transaction start to dbtx; *pgxpool.Pool satisfies it.
type db interface {
	dbtx
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Queries holds every SQL operation; it runs against the pool directly or
// against a transaction when obtained through ExecTx.
type Queries struct {
	db dbtx
}

type store struct {
	pool db
	*Queries
}

func New(pool *pgxpool.Pool) Store {
	return &store{
		pool:    pool,
		Queries: &Queries{db: pool},
	}
}

func (s *store) ExecTx(ctx context.Context, fn func(Tx) error) error {
	return s.execTx(ctx, func(q *Queries) error { return fn(q) })
}

func (s *store) execTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	q := &Queries{db: tx}
	if err := fn(q); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rollback err: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
