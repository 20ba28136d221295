package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/arjunks/vendora/internal/repository"
)

// Consumer projects order events into the sales_reports table.
type Consumer struct {
	client *kgo.Client
	store  repository.Orders
	ready  chan struct{}
}

func NewConsumer(client *kgo.Client, store repository.Orders) *Consumer {
	return &Consumer{
		client: client,
		store:  store,
		ready:  make(chan struct{}),
	}
}

func (c *Consumer) Start(ctx context.Context) {
	close(c.ready)
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			log.Printf("Consumer poll errors: %v", errs)
		}

		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()
			c.processRecord(ctx, record)
		}

		if err := c.client.CommitRecords(ctx, fetches.Records()...); err != nil {
			log.Printf("Failed to commit records: %v", err)
		}
	}
}

func (c *Consumer) Ready() <-chan struct{} {
	return c.ready
}

func (c *Consumer) processRecord(ctx context.Context, record *kgo.Record) {
	switch record.Topic {
	case TopicOrderPlaced:
		c.handleOrderPlaced(ctx, record)
	case TopicOrderStatus:
		c.handleOrderStatus(ctx, record)
	}
}

func (c *Consumer) handleOrderPlaced(ctx context.Context, record *kgo.Record) {
	var event OrderPlacedEvent
	if err := json.Unmarshal(record.Value, &event); err != nil {
		log.Printf("Invalid order placed payload: %v", err)
		return
	}

	if err := c.store.AppendSalesReport(ctx, event.ReportEntries); err != nil {
		log.Printf("Failed to project sales report for order %s: %v", event.Order.ID, err)
	}
}

func (c *Consumer) handleOrderStatus(ctx context.Context, record *kgo.Record) {
	var event OrderStatusEvent
	if err := json.Unmarshal(record.Value, &event); err != nil {
		log.Printf("Invalid order status payload: %v", err)
		return
	}

	if err := c.store.UpdateSalesReportStatus(ctx, event.OrderID, event.Status); err != nil {
		log.Printf("Failed to propagate status for order %s: %v", event.OrderID, err)
	}
}
