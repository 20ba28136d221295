package kafka

import "github.com/arjunks/vendora/internal/domain"

// OrderPlacedEvent carries the committed order snapshot plus the
// denormalized rows the reporting projector writes.
type OrderPlacedEvent struct {
	SchemaVersion int                       `json:"schema_version"`
	Order         domain.Order              `json:"order"`
	ReportEntries []domain.SalesReportEntry `json:"report_entries"`
}

// OrderStatusEvent propagates an order status transition one-way into the
// sales report.
type OrderStatusEvent struct {
	SchemaVersion int                `json:"schema_version"`
	OrderID       string             `json:"order_id"`
	Status        domain.OrderStatus `json:"status"`
}
