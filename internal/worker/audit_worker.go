package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"hearth/internal/amqp"
	"hearth/internal/log"
)

// LedgerEventConsumer delivers ledger events until the context ends.
type LedgerEventConsumer interface {
	ConsumeLedgerEvents(ctx context.Context, handler func(*amqp.LedgerEventMessage) error) error
}

// AuditWorker consumes ledger events and writes them to the audit log
// stream. It is the operational record of who changed what; the API
// never waits on it.
type AuditWorker struct {
	consumer LedgerEventConsumer
	handled  atomic.Int64
}

func NewAuditWorker(consumer LedgerEventConsumer) *AuditWorker {
	return &AuditWorker{consumer: consumer}
}

// HandleEvent processes a single ledger event.
func (w *AuditWorker) HandleEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	if msg.EntityType == "" || msg.Operation == "" {
		return fmt.Errorf("malformed ledger event %s", msg.EventID)
	}

	w.handled.Add(1)
	slog.InfoContext(ctx, "Ledger event",
		log.FieldEventID, msg.EventID,
		"entity_type", msg.EntityType,
		log.FieldOperation, msg.Operation,
		"entity_id", msg.EntityID,
		log.FieldHouseholdID, msg.HouseholdID,
		"occurred_at", msg.Timestamp)
	return nil
}

// Handled reports how many events this worker has processed.
func (w *AuditWorker) Handled() int64 {
	return w.handled.Load()
}

// Run consumes ledger events until ctx is cancelled.
func (w *AuditWorker) Run(ctx context.Context) error {
	return w.consumer.ConsumeLedgerEvents(ctx, func(msg *amqp.LedgerEventMessage) error {
		return w.HandleEvent(ctx, msg)
	})
}
