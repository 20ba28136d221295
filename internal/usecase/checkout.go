package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/arjunks/vendora/internal/domain"
	"github.com/arjunks/vendora/internal/repository"
)

// CheckoutItem is a client-declared order line. Any price the client sends
// is ignored; lines are repriced server-side at commit time.
type CheckoutItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price,omitempty"`
}

// CheckoutService commits a priced cart into an immutable order. The whole
// commit runs in one store transaction: wallet settlement, stock decrements,
// order creation, cart clear and coupon consumption all persist or none do.
type CheckoutService struct {
	store    repository.Store
	resolver *OfferResolver
	coupons  *CouponService
	sink     ReportSink
}

func NewCheckoutService(store repository.Store, resolver *OfferResolver, coupons *CouponService, sink ReportSink) *CheckoutService {
	return &CheckoutService{store: store, resolver: resolver, coupons: coupons, sink: sink}
}

func (s *CheckoutService) Checkout(ctx context.Context, userID string, items []CheckoutItem, method domain.PaymentMethod, addressID string) (*domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if len(items) == 0 {
		return nil, domain.ErrNoProductsInOrder
	}
	switch method {
	case domain.PaymentCashOnDelivery, domain.PaymentOnline, domain.PaymentWallet:
	default:
		return nil, domain.ErrInvalidPaymentMethod
	}

	// Reprice authoritatively; client-sent prices are never trusted.
	var (
		orderItems []domain.OrderItem
		cartLines  []domain.CartLine
		total      float64
	)
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, domain.ErrInvalidQuantity
		}

		product, err := s.store.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, item.ProductID)
			}
			return nil, fmt.Errorf("get product %s: %w", item.ProductID, err)
		}

		priced, err := s.resolver.Resolve(ctx, product)
		if err != nil {
			return nil, err
		}
		price := priced.OriginalPrice
		if priced.HasOffer {
			price = priced.DiscountedPrice
		}

		orderItems = append(orderItems, domain.OrderItem{
			ProductID:     product.ID,
			Name:          product.Name,
			CategoryName:  product.CategoryName,
			BrandName:     product.BrandName,
			Quantity:      item.Quantity,
			Price:         price,
			OriginalPrice: priced.OriginalPrice,
			Status:        domain.OrderStatusPending,
		})
		cartLines = append(cartLines, domain.CartLine{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Product:   *product,
		})
		total += price * float64(item.Quantity)
	}

	couponCode, couponDeduction, err := s.applyCartCoupon(ctx, userID, total, cartLines)
	if err != nil {
		return nil, err
	}
	total -= couponDeduction

	order := &domain.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		AddressID:       addressID,
		PaymentMethod:   method,
		Items:           orderItems,
		Status:          domain.OrderStatusPending,
		TotalAmount:     total,
		CouponCode:      couponCode,
		CouponDeduction: couponDeduction,
		CreatedAt:       time.Now(),
	}

	err = s.store.ExecTx(ctx, func(tx repository.Tx) error {
		if method == domain.PaymentWallet {
			err := tx.DebitWallet(ctx, userID, total, "payment for order "+order.ID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return domain.ErrInsufficientBalance
				}
				return fmt.Errorf("debit wallet: %w", err)
			}
		}

		for _, item := range order.Items {
			if err := tx.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return fmt.Errorf("%w for %s", domain.ErrInsufficientStock, item.Name)
				}
				return fmt.Errorf("decrement stock for %s: %w", item.ProductID, err)
			}
		}

		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		if err := tx.ClearCart(ctx, userID); err != nil {
			return err
		}

		if couponCode != "" {
			if err := tx.IncrementCouponUsage(ctx, couponCode, userID); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return domain.ErrCouponUsageLimit
				}
				return fmt.Errorf("consume coupon %s: %w", couponCode, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.sink.OrderPlaced(ctx, order, salesReportEntries(order)); err != nil {
		// The order is committed; the projection catches up separately.
		slog.Error("emit sales report", "order_id", order.ID, "err", err)
	}
	return order, nil
}

// applyCartCoupon validates the coupon recorded on the user's cart, if any,
// against the repriced total.
func (s *CheckoutService) applyCartCoupon(ctx context.Context, userID string, total float64, lines []domain.CartLine) (string, float64, error) {
	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, nil
		}
		return "", 0, fmt.Errorf("get cart: %w", err)
	}
	if cart.CouponCode == "" {
		return "", 0, nil
	}

	result, err := s.coupons.Validate(ctx, cart.CouponCode, total, lines, userID)
	if err != nil {
		return "", 0, err
	}
	return result.Code, result.DiscountAmount, nil
}

// salesReportEntries denormalizes an order into report rows, prorating the
// coupon deduction over the lines by their share of the pre-coupon total.
func salesReportEntries(order *domain.Order) []domain.SalesReportEntry {
	var preCoupon float64
	for _, item := range order.Items {
		preCoupon += item.Price * float64(item.Quantity)
	}

	entries := make([]domain.SalesReportEntry, 0, len(order.Items))
	for _, item := range order.Items {
		lineTotal := item.Price * float64(item.Quantity)
		var deduction float64
		if preCoupon > 0 {
			deduction = order.CouponDeduction * lineTotal / preCoupon
		}
		entries = append(entries, domain.SalesReportEntry{
			ID:              uuid.New().String(),
			OrderID:         order.ID,
			UserID:          order.UserID,
			ProductName:     item.Name,
			CategoryName:    item.CategoryName,
			BrandName:       item.BrandName,
			Quantity:        item.Quantity,
			UnitPrice:       item.Price,
			TotalPrice:      lineTotal,
			Discount:        (item.OriginalPrice - item.Price) * float64(item.Quantity),
			CouponDeduction: deduction,
			OrderStatus:     order.Status,
			Date:            order.CreatedAt,
		})
	}
	return entries
}

// OrderService exposes the status transitions the reporting projection
// follows.
type OrderService struct {
	store repository.Orders
	sink  ReportSink
}

func NewOrderService(store repository.Orders, sink ReportSink) *OrderService {
	return &OrderService{store: store, sink: sink}
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	switch status {
	case domain.OrderStatusPending, domain.OrderStatusShipped, domain.OrderStatusDelivered,
		domain.OrderStatusCancelled, domain.OrderStatusReturnPending,
		domain.OrderStatusReturnApproved, domain.OrderStatusReturnRejected:
	default:
		return fmt.Errorf("unknown order status %q", status)
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		return err
	}

	if err := s.sink.OrderStatusChanged(ctx, orderID, status); err != nil {
		slog.Error("emit order status change", "order_id", orderID, "err", err)
	}
	return nil
}
