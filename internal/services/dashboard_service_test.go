package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hearth/internal/core"
)

// fakeReadStore serves canned collections and records requested periods.
type fakeReadStore struct {
	budgets      []core.Budget
	expenses     []core.Expense
	recent       []core.Expense
	incomes      []core.Income
	bills        []core.RecurringBill
	billPayments []core.BillPayment
	debts        []core.Debt
	goals        []core.SavingsGoal
	settlements  []core.Settlement
	categories   []core.Category
	users        []core.User

	expensePeriods []core.Period
	err            error
}

func (f *fakeReadStore) ListBudgets(_ context.Context, _ int64, _ core.Period) ([]core.Budget, error) {
	return f.budgets, f.err
}

func (f *fakeReadStore) ListExpenses(_ context.Context, _ int64, period core.Period) ([]core.Expense, error) {
	f.expensePeriods = append(f.expensePeriods, period)
	return f.expenses, f.err
}

func (f *fakeReadStore) ListIncome(_ context.Context, _ int64, _ core.Period) ([]core.Income, error) {
	return f.incomes, f.err
}

func (f *fakeReadStore) ListRecentExpenses(_ context.Context, _ int64, _ int) ([]core.Expense, error) {
	return f.recent, f.err
}

func (f *fakeReadStore) ListActiveRecurringBills(_ context.Context, _ int64) ([]core.RecurringBill, error) {
	return f.bills, f.err
}

func (f *fakeReadStore) ListBillPayments(_ context.Context, _ int64) ([]core.BillPayment, error) {
	return f.billPayments, f.err
}

func (f *fakeReadStore) ListActiveDebts(_ context.Context, _ int64) ([]core.Debt, error) {
	return f.debts, f.err
}

func (f *fakeReadStore) ListActiveSavingsGoals(_ context.Context, _ int64) ([]core.SavingsGoal, error) {
	return f.goals, f.err
}

func (f *fakeReadStore) ListSettlements(_ context.Context, _ int64) ([]core.Settlement, error) {
	return f.settlements, f.err
}

func (f *fakeReadStore) ListCategories(_ context.Context, _ int64) ([]core.Category, error) {
	return f.categories, f.err
}

func (f *fakeReadStore) ListHouseholdUsers(_ context.Context, _ int64) ([]core.User, error) {
	return f.users, f.err
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
}

func TestDashboardService_ComputeDashboard(t *testing.T) {
	store := &fakeReadStore{
		expenses: []core.Expense{
			{ID: 1, CategoryID: 1, Description: "Rent", Amount: core.Money{Cents: 80000}, Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
			{ID: 2, CategoryID: 2, Description: "Groceries", Amount: core.Money{Cents: 20000}, Date: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)},
		},
		recent: []core.Expense{
			{ID: 2, CategoryID: 2, Description: "Groceries", Amount: core.Money{Cents: 20000}, Date: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)},
			{ID: 1, CategoryID: 1, Description: "Rent", Amount: core.Money{Cents: 80000}, Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		},
		incomes: []core.Income{
			{ID: 1, UserID: 1, Month: 6, Year: 2025, Amount: core.Money{Cents: 250000}},
		},
		settlements: []core.Settlement{
			{ID: 1, FromUserID: 2, ToUserID: 1, Amount: core.Money{Cents: 5000}},
		},
		categories: []core.Category{
			{ID: 1, Name: "Housing"},
			{ID: 2, Name: "Food"},
		},
	}
	svc := NewDashboardService(store)
	svc.now = fixedNow

	got, err := svc.ComputeDashboard(context.Background(), 1, 1, core.Period{Month: 6, Year: 2025})
	if err != nil {
		t.Fatalf("ComputeDashboard() error = %v", err)
	}

	if got.TotalIncome.Cents != 250000 {
		t.Errorf("TotalIncome = %d, want 250000", got.TotalIncome.Cents)
	}
	if got.TotalExpenses.Cents != 100000 {
		t.Errorf("TotalExpenses = %d, want 100000", got.TotalExpenses.Cents)
	}
	if got.NetRemaining.Cents != 150000 {
		t.Errorf("NetRemaining = %d, want 150000", got.NetRemaining.Cents)
	}
	if got.Settlements.Status != core.StatusOwed {
		t.Errorf("Settlements.Status = %q, want %q", got.Settlements.Status, core.StatusOwed)
	}
	if len(got.Categories) != 2 {
		t.Errorf("got %d category groups, want 2", len(got.Categories))
	}
	if len(got.RecentExpenses) != 2 {
		t.Fatalf("got %d recent expenses, want 2", len(got.RecentExpenses))
	}
	if got.RecentExpenses[0].Description != "Groceries" {
		t.Errorf("most recent expense = %q, want Groceries", got.RecentExpenses[0].Description)
	}
}

func TestDashboardService_RecentActivitySpansPeriods(t *testing.T) {
	// Viewing a month with no expenses still shows the household's
	// latest activity.
	store := &fakeReadStore{
		recent: []core.Expense{
			{ID: 9, CategoryID: 2, Description: "Coffee", Amount: core.Money{Cents: 450}, Date: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)},
		},
		categories: []core.Category{{ID: 2, Name: "Food"}},
	}
	svc := NewDashboardService(store)
	svc.now = fixedNow

	got, err := svc.ComputeDashboard(context.Background(), 1, 1, core.Period{Month: 1, Year: 2024})
	if err != nil {
		t.Fatalf("ComputeDashboard() error = %v", err)
	}

	if got.TotalExpenses.Cents != 0 {
		t.Errorf("TotalExpenses = %d, want 0 for an empty month", got.TotalExpenses.Cents)
	}
	if len(got.RecentExpenses) != 1 || got.RecentExpenses[0].Description != "Coffee" {
		t.Errorf("RecentExpenses = %+v, want the household-wide latest expense", got.RecentExpenses)
	}
}

func TestDashboardService_EmptyHousehold(t *testing.T) {
	svc := NewDashboardService(&fakeReadStore{})
	svc.now = fixedNow

	got, err := svc.ComputeDashboard(context.Background(), 1, 1, core.Period{Month: 6, Year: 2025})
	if err != nil {
		t.Fatalf("ComputeDashboard() error = %v", err)
	}

	if got.TotalIncome.Cents != 0 || got.TotalExpenses.Cents != 0 || got.NetRemaining.Cents != 0 {
		t.Error("empty household should report zero totals")
	}
	if got.Settlements.Status != core.StatusSettled {
		t.Errorf("Settlements.Status = %q, want %q", got.Settlements.Status, core.StatusSettled)
	}
	if len(got.Budgets) != 0 || len(got.UpcomingBills) != 0 || len(got.RecentExpenses) != 0 {
		t.Error("empty household should report empty lists")
	}
	if got.Debts.PercentPaid != 0 || got.Savings.PercentComplete != 0 {
		t.Error("empty household should report zero percentages")
	}
}

func TestDashboardService_DefaultsToCurrentPeriod(t *testing.T) {
	store := &fakeReadStore{}
	svc := NewDashboardService(store)
	svc.now = fixedNow

	got, err := svc.ComputeDashboard(context.Background(), 1, 1, core.Period{})
	if err != nil {
		t.Fatalf("ComputeDashboard() error = %v", err)
	}

	want := core.Period{Month: 6, Year: 2025}
	if got.Period != want {
		t.Errorf("Period = %+v, want %+v", got.Period, want)
	}
	if len(store.expensePeriods) != 1 || store.expensePeriods[0] != want {
		t.Errorf("store queried with %+v, want %+v", store.expensePeriods, want)
	}
}

func TestDashboardService_InvalidPeriod(t *testing.T) {
	svc := NewDashboardService(&fakeReadStore{})
	svc.now = fixedNow

	_, err := svc.ComputeDashboard(context.Background(), 1, 1, core.Period{Month: 13, Year: 2025})
	if !errors.Is(err, core.ErrInvalidMonth) {
		t.Errorf("error = %v, want ErrInvalidMonth", err)
	}
}

func TestDashboardService_LoadError(t *testing.T) {
	loadErr := errors.New("db is down")
	svc := NewDashboardService(&fakeReadStore{err: loadErr})
	svc.now = fixedNow

	_, err := svc.ComputeDashboard(context.Background(), 1, 1, core.Period{Month: 6, Year: 2025})
	if !errors.Is(err, loadErr) {
		t.Errorf("error = %v, want wrapped %v", err, loadErr)
	}
}
