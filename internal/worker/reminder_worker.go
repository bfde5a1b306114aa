package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hearth/internal/amqp"
	"hearth/internal/core"
)

// ReminderStore is the read surface the reminder worker needs.
type ReminderStore interface {
	ListHouseholdsWithActiveBills(ctx context.Context) ([]int64, error)
	ListActiveRecurringBills(ctx context.Context, householdID int64) ([]core.RecurringBill, error)
	ListBillPayments(ctx context.Context, householdID int64) ([]core.BillPayment, error)
	ListCategories(ctx context.Context, householdID int64) ([]core.Category, error)
}

type ReminderPublisher interface {
	PublishBillReminder(ctx context.Context, msg *amqp.BillReminderMessage) error
}

// ReminderWorker periodically projects upcoming bills and publishes a
// reminder for each bill inside its reminder window.
type ReminderWorker struct {
	store     ReminderStore
	publisher ReminderPublisher
	interval  time.Duration
	lookahead int
	now       func() time.Time
}

func NewReminderWorker(store ReminderStore, publisher ReminderPublisher, interval time.Duration, lookaheadDays int) *ReminderWorker {
	if lookaheadDays <= 0 {
		lookaheadDays = core.DefaultLookaheadDays
	}
	return &ReminderWorker{
		store:     store,
		publisher: publisher,
		interval:  interval,
		lookahead: lookaheadDays,
		now:       time.Now,
	}
}

// Run ticks until the context is cancelled. The first sweep happens
// immediately.
func (w *ReminderWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Reminder worker started",
		"interval", w.interval.String(), "lookahead_days", w.lookahead)

	for {
		if published, err := w.Sweep(ctx); err != nil {
			slog.ErrorContext(ctx, "Reminder sweep failed", "error", err)
		} else if published > 0 {
			slog.InfoContext(ctx, "Reminder sweep completed", "published", published)
		}

		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Reminder worker stopping")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Sweep projects every household's upcoming bills once and publishes
// reminders for those within their reminder window. A failing
// household is logged and skipped so the others still get theirs.
func (w *ReminderWorker) Sweep(ctx context.Context) (int, error) {
	households, err := w.store.ListHouseholdsWithActiveBills(ctx)
	if err != nil {
		return 0, fmt.Errorf("list households: %w", err)
	}

	published := 0
	for _, householdID := range households {
		n, err := w.sweepHousehold(ctx, householdID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to sweep household",
				"error", err, "household_id", householdID)
			continue
		}
		published += n
	}
	return published, nil
}

func (w *ReminderWorker) sweepHousehold(ctx context.Context, householdID int64) (int, error) {
	bills, err := w.store.ListActiveRecurringBills(ctx, householdID)
	if err != nil {
		return 0, fmt.Errorf("list bills: %w", err)
	}
	payments, err := w.store.ListBillPayments(ctx, householdID)
	if err != nil {
		return 0, fmt.Errorf("list payments: %w", err)
	}
	categories, err := w.store.ListCategories(ctx, householdID)
	if err != nil {
		return 0, fmt.Errorf("list categories: %w", err)
	}

	reminderDays := make(map[int64]int, len(bills))
	for _, b := range bills {
		reminderDays[b.ID] = b.ReminderDaysBefore
	}

	upcoming := core.ProjectUpcomingBills(bills, payments, categories, w.now(), w.lookahead)

	published := 0
	for _, bill := range upcoming {
		if bill.DaysUntilDue > reminderDays[bill.BillID] {
			continue
		}

		msg := amqp.NewBillReminderMessage(bill.BillID, householdID, bill.Description, bill.DueDate, bill.DaysUntilDue)
		if err := w.publisher.PublishBillReminder(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish bill reminder",
				"error", err, "bill_id", bill.BillID, "household_id", householdID)
			continue
		}
		published++
	}
	return published, nil
}
