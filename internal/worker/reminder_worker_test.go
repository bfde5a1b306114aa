package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"hearth/internal/amqp"
	"hearth/internal/core"
)

type fakeReminderStore struct {
	households []int64
	bills      map[int64][]core.RecurringBill
	payments   map[int64][]core.BillPayment
	err        error
}

func (f *fakeReminderStore) ListHouseholdsWithActiveBills(_ context.Context) ([]int64, error) {
	return f.households, f.err
}

func (f *fakeReminderStore) ListActiveRecurringBills(_ context.Context, householdID int64) ([]core.RecurringBill, error) {
	return f.bills[householdID], nil
}

func (f *fakeReminderStore) ListBillPayments(_ context.Context, householdID int64) ([]core.BillPayment, error) {
	return f.payments[householdID], nil
}

func (f *fakeReminderStore) ListCategories(_ context.Context, _ int64) ([]core.Category, error) {
	return nil, nil
}

type fakeReminderPublisher struct {
	err       error
	published []*amqp.BillReminderMessage
}

func (f *fakeReminderPublisher) PublishBillReminder(_ context.Context, msg *amqp.BillReminderMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func billWithDay(id int64, day, reminderDays int) core.RecurringBill {
	amount := core.Money{Cents: 10000}
	return core.RecurringBill{
		ID: id, HouseholdID: 1, CategoryID: 1,
		Description: "Bill", Amount: &amount,
		DayOfMonth: &day, ReminderDaysBefore: reminderDays, IsActive: true,
	}
}

func TestReminderWorker_Sweep(t *testing.T) {
	// June 10th: a bill due the 12th with a 3-day window reminds, a
	// bill due the 25th with the same window does not.
	store := &fakeReminderStore{
		households: []int64{1},
		bills: map[int64][]core.RecurringBill{
			1: {billWithDay(1, 12, 3), billWithDay(2, 25, 3)},
		},
	}
	pub := &fakeReminderPublisher{}
	w := NewReminderWorker(store, pub, time.Hour, 30)
	w.now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }

	published, err := w.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if published != 1 {
		t.Fatalf("published = %d, want 1", published)
	}

	msg := pub.published[0]
	if msg.BillID != 1 || msg.HouseholdID != 1 {
		t.Errorf("reminder ids = %d/%d, want 1/1", msg.BillID, msg.HouseholdID)
	}
	if msg.DaysUntilDue != 2 {
		t.Errorf("DaysUntilDue = %d, want 2", msg.DaysUntilDue)
	}
}

func TestReminderWorker_SkipsPaidBills(t *testing.T) {
	store := &fakeReminderStore{
		households: []int64{1},
		bills: map[int64][]core.RecurringBill{
			1: {billWithDay(1, 12, 3)},
		},
		payments: map[int64][]core.BillPayment{
			1: {{RecurringBillID: 1, Month: 6, Year: 2025, Amount: core.Money{Cents: 10000},
				PaidDate: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)}},
		},
	}
	pub := &fakeReminderPublisher{}
	w := NewReminderWorker(store, pub, time.Hour, 30)
	w.now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }

	published, err := w.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if published != 0 {
		t.Errorf("published = %d, want 0 for a paid bill", published)
	}
}

func TestReminderWorker_PublishFailureContinues(t *testing.T) {
	store := &fakeReminderStore{
		households: []int64{1},
		bills: map[int64][]core.RecurringBill{
			1: {billWithDay(1, 12, 3)},
		},
	}
	pub := &fakeReminderPublisher{err: errors.New("broker gone")}
	w := NewReminderWorker(store, pub, time.Hour, 30)
	w.now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }

	published, err := w.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v, publish failures should not fail the sweep", err)
	}
	if published != 0 {
		t.Errorf("published = %d, want 0", published)
	}
}

func TestReminderWorker_StoreError(t *testing.T) {
	storeErr := errors.New("db is down")
	w := NewReminderWorker(&fakeReminderStore{err: storeErr}, &fakeReminderPublisher{}, time.Hour, 30)

	if _, err := w.Sweep(context.Background()); !errors.Is(err, storeErr) {
		t.Errorf("Sweep() error = %v, want wrapped %v", err, storeErr)
	}
}
