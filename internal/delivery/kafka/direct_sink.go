package kafka

import (
	"context"

	"github.com/arjunks/vendora/internal/domain"
	"github.com/arjunks/vendora/internal/repository"
	"github.com/arjunks/vendora/internal/usecase"
)

// DirectSink writes the sales-report projection synchronously, used when
// event-driven delivery is disabled.
type DirectSink struct {
	store repository.Orders
}

func NewDirectSink(store repository.Orders) usecase.ReportSink {
	return &DirectSink{store: store}
}

func (s *DirectSink) OrderPlaced(ctx context.Context, order *domain.Order, entries []domain.SalesReportEntry) error {
	return s.store.AppendSalesReport(ctx, entries)
}

func (s *DirectSink) OrderStatusChanged(ctx context.Context, orderID string, status domain.OrderStatus) error {
	return s.store.UpdateSalesReportStatus(ctx, orderID, status)
}
