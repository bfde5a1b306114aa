package services

import (
	"context"
	"fmt"
	"time"

	"hearth/internal/core"
)

// ReportStore is the read surface the report composer needs.
type ReportStore interface {
	ListBudgets(ctx context.Context, householdID int64, period core.Period) ([]core.Budget, error)
	ListExpenses(ctx context.Context, householdID int64, period core.Period) ([]core.Expense, error)
	ListIncome(ctx context.Context, householdID int64, period core.Period) ([]core.Income, error)
	ListActiveRecurringBills(ctx context.Context, householdID int64) ([]core.RecurringBill, error)
	ListBillPayments(ctx context.Context, householdID int64) ([]core.BillPayment, error)
	ListSettlements(ctx context.Context, householdID int64) ([]core.Settlement, error)
	ListCategories(ctx context.Context, householdID int64) ([]core.Category, error)
}

// MonthlySummary is the report view of one period's totals.
type MonthlySummary struct {
	Period           core.Period              `json:"period"`
	TotalIncome      core.Money               `json:"totalIncome"`
	TotalExpenses    core.Money               `json:"totalExpenses"`
	NetIncome        core.Money               `json:"netIncome"`
	TransactionCount int                      `json:"transactionCount"`
	Categories       []core.CategoryBreakdown `json:"categories"`
	BudgetComparison []core.BudgetProgress    `json:"budgetComparison"`
}

// ReportService computes the standalone report views. Each method loads
// only what its view needs.
type ReportService struct {
	store ReportStore
	now   func() time.Time
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store, now: time.Now}
}

func (s *ReportService) ComputeMonthlySummary(ctx context.Context, householdID int64, period core.Period) (MonthlySummary, error) {
	if err := period.Validate(); err != nil {
		return MonthlySummary{}, err
	}

	expenses, err := s.store.ListExpenses(ctx, householdID, period)
	if err != nil {
		return MonthlySummary{}, fmt.Errorf("load expenses: %w", err)
	}
	incomes, err := s.store.ListIncome(ctx, householdID, period)
	if err != nil {
		return MonthlySummary{}, fmt.Errorf("load income: %w", err)
	}
	categories, err := s.store.ListCategories(ctx, householdID)
	if err != nil {
		return MonthlySummary{}, fmt.Errorf("load categories: %w", err)
	}
	budgets, err := s.store.ListBudgets(ctx, householdID, period)
	if err != nil {
		return MonthlySummary{}, fmt.Errorf("load budgets: %w", err)
	}

	income := core.SumIncome(incomes)
	spent := core.SumExpenses(expenses)
	return MonthlySummary{
		Period:           period,
		TotalIncome:      income,
		TotalExpenses:    spent,
		NetIncome:        income.Sub(spent),
		TransactionCount: len(expenses),
		Categories:       core.BreakdownByCategory(expenses, categories),
		BudgetComparison: core.ComputeBudgetProgress(budgets, expenses, categories),
	}, nil
}

func (s *ReportService) ComputeCategoryBreakdown(ctx context.Context, householdID int64, period core.Period) ([]core.CategoryBreakdown, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, householdID, period)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	categories, err := s.store.ListCategories(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return core.BreakdownByCategory(expenses, categories), nil
}

func (s *ReportService) ComputeBudgetComparison(ctx context.Context, householdID int64, period core.Period) ([]core.BudgetProgress, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	budgets, err := s.store.ListBudgets(ctx, householdID, period)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	expenses, err := s.store.ListExpenses(ctx, householdID, period)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	categories, err := s.store.ListCategories(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return core.ComputeBudgetProgress(budgets, expenses, categories), nil
}

func (s *ReportService) ComputeMonthComparison(ctx context.Context, householdID int64, first, second core.Period) (core.MonthComparison, error) {
	if err := first.Validate(); err != nil {
		return core.MonthComparison{}, err
	}
	if err := second.Validate(); err != nil {
		return core.MonthComparison{}, err
	}

	data := make([]core.MonthData, 2)
	for i, period := range []core.Period{first, second} {
		expenses, err := s.store.ListExpenses(ctx, householdID, period)
		if err != nil {
			return core.MonthComparison{}, fmt.Errorf("load expenses: %w", err)
		}
		incomes, err := s.store.ListIncome(ctx, householdID, period)
		if err != nil {
			return core.MonthComparison{}, fmt.Errorf("load income: %w", err)
		}
		data[i] = core.BuildMonthData(period, incomes, expenses)
	}
	return core.CompareMonths(data[0], data[1]), nil
}

func (s *ReportService) ComputeUpcomingBills(ctx context.Context, householdID int64, lookaheadDays int) ([]core.UpcomingBill, error) {
	bills, err := s.store.ListActiveRecurringBills(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("load recurring bills: %w", err)
	}
	payments, err := s.store.ListBillPayments(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("load bill payments: %w", err)
	}
	categories, err := s.store.ListCategories(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return core.ProjectUpcomingBills(bills, payments, categories, s.now(), lookaheadDays), nil
}

func (s *ReportService) ComputeSettlementBalance(ctx context.Context, householdID, userID int64) (core.SettlementBalance, error) {
	settlements, err := s.store.ListSettlements(ctx, householdID)
	if err != nil {
		return core.SettlementBalance{}, fmt.Errorf("load settlements: %w", err)
	}
	return core.NetSettlements(settlements, userID), nil
}
