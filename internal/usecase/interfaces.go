package usecase

import (
	"context"

	"github.com/arjunks/vendora/internal/domain"
)

// ReportSink receives committed orders and later status transitions for the
// sales-report projection. Implemented by the kafka publisher and by a
// direct store-backed sink when event delivery is disabled.
type ReportSink interface {
	OrderPlaced(ctx context.Context, order *domain.Order, entries []domain.SalesReportEntry) error
	OrderStatusChanged(ctx context.Context, orderID string, status domain.OrderStatus) error
}

// CouponCache is a read-through cache of coupon definitions. Usage counters
// are never trusted from the cache: redemption is guarded by the store's
// conditional increment at commit time.
type CouponCache interface {
	Get(ctx context.Context, code string) (*domain.Coupon, bool)
	Set(ctx context.Context, c *domain.Coupon)
	Invalidate(ctx context.Context, code string)
}
