package core

import (
	"reflect"
	"testing"
	"time"
)

func ptrInt(v int) *int { return &v }

func TestProjectUpcomingBills(t *testing.T) {
	categories := []Category{{ID: 1, Name: "Utilities"}}
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	rent := Money{Cents: 120000}

	t.Run("includes bills inside the window", func(t *testing.T) {
		bills := []RecurringBill{
			{ID: 1, CategoryID: 1, Description: "Electricity", Amount: &rent, DayOfMonth: ptrInt(20)},
		}

		got := ProjectUpcomingBills(bills, nil, categories, today, 30)
		if len(got) != 1 {
			t.Fatalf("expected 1 bill, got %d", len(got))
		}
		b := got[0]
		if !b.DueDate.Equal(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("dueDate = %v", b.DueDate)
		}
		if b.DaysUntilDue != 10 {
			t.Errorf("daysUntilDue = %d, want 10", b.DaysUntilDue)
		}
		if b.CategoryName != "Utilities" {
			t.Errorf("categoryName = %q, want Utilities", b.CategoryName)
		}
		if b.IsOverdue {
			t.Error("bill should not be overdue")
		}
	})

	t.Run("excludes bills beyond the window", func(t *testing.T) {
		bills := []RecurringBill{
			{ID: 1, CategoryID: 1, DayOfMonth: ptrInt(20)},
		}

		got := ProjectUpcomingBills(bills, nil, categories, today, 5)
		if len(got) != 0 {
			t.Fatalf("expected no bills, got %d", len(got))
		}
	})

	t.Run("skips bills paid for the due period", func(t *testing.T) {
		bills := []RecurringBill{
			{ID: 1, CategoryID: 1, DayOfMonth: ptrInt(5)},
		}
		payments := []BillPayment{
			{RecurringBillID: 1, Month: 7, Year: 2025},
		}

		got := ProjectUpcomingBills(bills, payments, categories, today, 30)
		if len(got) != 0 {
			t.Fatalf("bill due July 5 is already paid for July, got %d bills", len(got))
		}
	})

	t.Run("a payment for another period does not skip", func(t *testing.T) {
		bills := []RecurringBill{
			{ID: 1, CategoryID: 1, DayOfMonth: ptrInt(5)},
		}
		payments := []BillPayment{
			{RecurringBillID: 1, Month: 6, Year: 2025},
		}

		got := ProjectUpcomingBills(bills, payments, categories, today, 30)
		if len(got) != 1 {
			t.Fatalf("June payment must not cover the July due date, got %d bills", len(got))
		}
	})

	t.Run("skips bills without a day of month", func(t *testing.T) {
		bills := []RecurringBill{
			{ID: 1, CategoryID: 1, DayOfMonth: nil},
			{ID: 2, CategoryID: 1, DayOfMonth: ptrInt(0)},
		}

		got := ProjectUpcomingBills(bills, nil, categories, today, 30)
		if len(got) != 0 {
			t.Fatalf("expected no bills, got %d", len(got))
		}
	})

	t.Run("clamps day 31 in a 30 day month", func(t *testing.T) {
		bills := []RecurringBill{
			{ID: 1, CategoryID: 1, DayOfMonth: ptrInt(31)},
		}

		got := ProjectUpcomingBills(bills, nil, categories, today, 30)
		if len(got) != 1 {
			t.Fatalf("expected 1 bill, got %d", len(got))
		}
		if got[0].DueDate.Day() != 30 {
			t.Errorf("dueDate day = %d, want 30", got[0].DueDate.Day())
		}
	})

	t.Run("december rolls into january", func(t *testing.T) {
		dec := time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC)
		bills := []RecurringBill{
			{ID: 1, CategoryID: 1, DayOfMonth: ptrInt(3)},
		}

		got := ProjectUpcomingBills(bills, nil, categories, dec, 30)
		if len(got) != 1 {
			t.Fatalf("expected 1 bill, got %d", len(got))
		}
		if !got[0].DueDate.Equal(time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("dueDate = %v, want 2026-01-03", got[0].DueDate)
		}
	})

	t.Run("ordered ascending by days until due", func(t *testing.T) {
		bills := []RecurringBill{
			{ID: 1, CategoryID: 1, DayOfMonth: ptrInt(25)},
			{ID: 2, CategoryID: 1, DayOfMonth: ptrInt(12)},
			{ID: 3, CategoryID: 1, DayOfMonth: ptrInt(18)},
		}

		got := ProjectUpcomingBills(bills, nil, categories, today, 30)
		want := []int64{2, 3, 1}
		for i, id := range want {
			if got[i].BillID != id {
				t.Fatalf("position %d: got bill %d, want %d", i, got[i].BillID, id)
			}
		}
	})

	t.Run("projection is idempotent", func(t *testing.T) {
		bills := []RecurringBill{
			{ID: 1, CategoryID: 1, DayOfMonth: ptrInt(12)},
			{ID: 2, CategoryID: 1, DayOfMonth: ptrInt(12)},
			{ID: 3, CategoryID: 1, DayOfMonth: ptrInt(25)},
		}

		first := ProjectUpcomingBills(bills, nil, categories, today, 30)
		second := ProjectUpcomingBills(bills, nil, categories, today, 30)
		if !reflect.DeepEqual(first, second) {
			t.Error("repeated projections with unchanged data differ")
		}
	})

	t.Run("non positive window falls back to default", func(t *testing.T) {
		bills := []RecurringBill{
			{ID: 1, CategoryID: 1, DayOfMonth: ptrInt(20)},
		}

		got := ProjectUpcomingBills(bills, nil, categories, today, 0)
		if len(got) != 1 {
			t.Fatalf("expected default 30 day window to include the bill, got %d", len(got))
		}
	})
}
