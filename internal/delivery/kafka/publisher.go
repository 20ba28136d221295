package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/arjunks/vendora/internal/domain"
	"github.com/arjunks/vendora/internal/usecase"
)

// Publisher emits order events for the reporting projector.
type Publisher struct {
	client *kgo.Client
}

func NewPublisher(client *kgo.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) OrderPlaced(ctx context.Context, order *domain.Order, entries []domain.SalesReportEntry) error {
	event := OrderPlacedEvent{
		SchemaVersion: SchemaVersion,
		Order:         *order,
		ReportEntries: entries,
	}
	return p.produce(ctx, TopicOrderPlaced, order.ID, event)
}

func (p *Publisher) OrderStatusChanged(ctx context.Context, orderID string, status domain.OrderStatus) error {
	event := OrderStatusEvent{
		SchemaVersion: SchemaVersion,
		OrderID:       orderID,
		Status:        status,
	}
	return p.produce(ctx, TopicOrderStatus, orderID, event)
}

func (p *Publisher) produce(ctx context.Context, topic, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return nil
}

var _ usecase.ReportSink = (*Publisher)(nil)
