package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"hearth/internal/core"
)

// DashboardStore is the read surface the dashboard composer needs.
type DashboardStore interface {
	ListBudgets(ctx context.Context, householdID int64, period core.Period) ([]core.Budget, error)
	ListExpenses(ctx context.Context, householdID int64, period core.Period) ([]core.Expense, error)
	ListIncome(ctx context.Context, householdID int64, period core.Period) ([]core.Income, error)
	ListRecentExpenses(ctx context.Context, householdID int64, limit int) ([]core.Expense, error)
	ListActiveRecurringBills(ctx context.Context, householdID int64) ([]core.RecurringBill, error)
	ListBillPayments(ctx context.Context, householdID int64) ([]core.BillPayment, error)
	ListActiveDebts(ctx context.Context, householdID int64) ([]core.Debt, error)
	ListActiveSavingsGoals(ctx context.Context, householdID int64) ([]core.SavingsGoal, error)
	ListSettlements(ctx context.Context, householdID int64) ([]core.Settlement, error)
	ListCategories(ctx context.Context, householdID int64) ([]core.Category, error)
	ListHouseholdUsers(ctx context.Context, householdID int64) ([]core.User, error)
}

// Dashboard is the composed per-period view of a household's finances.
type Dashboard struct {
	Period         core.Period              `json:"period"`
	TotalIncome    core.Money               `json:"totalIncome"`
	TotalExpenses  core.Money               `json:"totalExpenses"`
	NetRemaining   core.Money               `json:"netRemaining"`
	Budgets        []core.BudgetProgress    `json:"budgets"`
	Debts          core.DebtSummary         `json:"debts"`
	Savings        core.SavingsSummary      `json:"savings"`
	UpcomingBills  []core.UpcomingBill      `json:"upcomingBills"`
	Settlements    core.SettlementBalance   `json:"settlements"`
	Categories     []core.CategoryBreakdown `json:"categories"`
	RecentExpenses []core.RecentExpenseItem `json:"recentExpenses"`
}

const recentExpenseCount = 5

// DashboardService loads a household's collections and composes the
// dashboard through the aggregation functions.
type DashboardService struct {
	store DashboardStore
	now   func() time.Time
}

func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{store: store, now: time.Now}
}

// ComputeDashboard builds the dashboard for one household and period,
// netted from the requesting user's point of view. A zero period means
// the current month. Collections are loaded concurrently; aggregation
// runs sequentially once all loads finish. Empty collections produce a
// valid dashboard with zero totals and empty lists. The recent-activity
// feed is household-wide, not scoped to the requested period.
func (s *DashboardService) ComputeDashboard(ctx context.Context, householdID, userID int64, period core.Period) (Dashboard, error) {
	if period == (core.Period{}) {
		period = core.CurrentPeriod(s.now())
	}
	if err := period.Validate(); err != nil {
		return Dashboard{}, err
	}

	var (
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
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		budgets, err = s.store.ListBudgets(gctx, householdID, period)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.store.ListExpenses(gctx, householdID, period)
		return err
	})
	g.Go(func() (err error) {
		incomes, err = s.store.ListIncome(gctx, householdID, period)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.store.ListRecentExpenses(gctx, householdID, recentExpenseCount)
		return err
	})
	g.Go(func() (err error) {
		bills, err = s.store.ListActiveRecurringBills(gctx, householdID)
		return err
	})
	g.Go(func() (err error) {
		billPayments, err = s.store.ListBillPayments(gctx, householdID)
		return err
	})
	g.Go(func() (err error) {
		debts, err = s.store.ListActiveDebts(gctx, householdID)
		return err
	})
	g.Go(func() (err error) {
		goals, err = s.store.ListActiveSavingsGoals(gctx, householdID)
		return err
	})
	g.Go(func() (err error) {
		settlements, err = s.store.ListSettlements(gctx, householdID)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.store.ListCategories(gctx, householdID)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.store.ListHouseholdUsers(gctx, householdID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("load dashboard data: %w", err)
	}

	income := core.SumIncome(incomes)
	spent := core.SumExpenses(expenses)

	return Dashboard{
		Period:         period,
		TotalIncome:    income,
		TotalExpenses:  spent,
		NetRemaining:   income.Sub(spent),
		Budgets:        core.ComputeBudgetProgress(budgets, expenses, categories),
		Debts:          core.SummarizeDebts(debts),
		Savings:        core.SummarizeSavings(goals),
		UpcomingBills:  core.ProjectUpcomingBills(bills, billPayments, categories, s.now(), core.DefaultLookaheadDays),
		Settlements:    core.NetSettlements(settlements, userID),
		Categories:     core.BreakdownByCategory(expenses, categories),
		RecentExpenses: core.LatestExpenses(recent, categories, users, recentExpenseCount),
	}, nil
}
