package core

import (
	"testing"
	"time"
)

func ptrInt64(v int64) *int64 { return &v }

func TestComputeBudgetProgress(t *testing.T) {
	groceries := Category{ID: 1, Name: "Groceries"}
	transport := Category{ID: 2, Name: "Transport"}
	categories := []Category{groceries, transport}

	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	t.Run("partial spending", func(t *testing.T) {
		budgets := []Budget{
			{ID: 10, CategoryID: ptrInt64(1), Amount: Money{Cents: 10000}},
		}
		expenses := []Expense{
			{CategoryID: 1, Amount: Money{Cents: 2000}, Date: date},
			{CategoryID: 1, Amount: Money{Cents: 2560}, Date: date},
		}

		got := ComputeBudgetProgress(budgets, expenses, categories)
		if len(got) != 1 {
			t.Fatalf("expected 1 row, got %d", len(got))
		}
		row := got[0]
		if row.SpentAmount.Cents != 4560 {
			t.Errorf("spent = %d cents, want 4560", row.SpentAmount.Cents)
		}
		if row.PercentUsed != 45.6 {
			t.Errorf("percentUsed = %v, want 45.6", row.PercentUsed)
		}
		if row.IsOverBudget {
			t.Error("budget should not be over")
		}
		if row.RemainingAmount.Cents != 5440 {
			t.Errorf("remaining = %d cents, want 5440", row.RemainingAmount.Cents)
		}
		if row.CategoryName != "Groceries" {
			t.Errorf("categoryName = %q, want Groceries", row.CategoryName)
		}
	})

	t.Run("over budget", func(t *testing.T) {
		budgets := []Budget{
			{ID: 10, CategoryID: ptrInt64(1), Amount: Money{Cents: 5000}},
		}
		expenses := []Expense{
			{CategoryID: 1, Amount: Money{Cents: 7500}, Date: date},
		}

		row := ComputeBudgetProgress(budgets, expenses, categories)[0]
		if !row.IsOverBudget {
			t.Error("expected over budget")
		}
		if row.PercentUsed != 150 {
			t.Errorf("percentUsed = %v, want 150", row.PercentUsed)
		}
		if row.RemainingAmount.Cents != -2500 {
			t.Errorf("remaining = %d cents, want -2500", row.RemainingAmount.Cents)
		}
	})

	t.Run("zero amount budget guards percent", func(t *testing.T) {
		budgets := []Budget{
			{ID: 10, CategoryID: ptrInt64(1), Amount: Money{}},
		}
		expenses := []Expense{
			{CategoryID: 1, Amount: Money{Cents: 100}, Date: date},
		}

		row := ComputeBudgetProgress(budgets, expenses, categories)[0]
		if row.PercentUsed != 0 {
			t.Errorf("percentUsed = %v, want 0", row.PercentUsed)
		}
		if !row.IsOverBudget {
			t.Error("any spending against a zero budget is over budget")
		}
	})

	t.Run("whole household budget counts every expense", func(t *testing.T) {
		budgets := []Budget{
			{ID: 10, CategoryID: nil, Amount: Money{Cents: 100000}},
		}
		expenses := []Expense{
			{CategoryID: 1, Amount: Money{Cents: 3000}, Date: date},
			{CategoryID: 2, Amount: Money{Cents: 2000}, Date: date},
		}

		row := ComputeBudgetProgress(budgets, expenses, categories)[0]
		if row.SpentAmount.Cents != 5000 {
			t.Errorf("spent = %d cents, want 5000", row.SpentAmount.Cents)
		}
		if row.CategoryName != "Total Budget" {
			t.Errorf("categoryName = %q, want Total Budget", row.CategoryName)
		}
		if row.CategoryID != nil {
			t.Error("whole-household row should keep a nil category id")
		}
	})

	t.Run("budget with no matching expenses reports zero spent", func(t *testing.T) {
		budgets := []Budget{
			{ID: 10, CategoryID: ptrInt64(2), Amount: Money{Cents: 8000}},
		}
		expenses := []Expense{
			{CategoryID: 1, Amount: Money{Cents: 3000}, Date: date},
		}

		got := ComputeBudgetProgress(budgets, expenses, categories)
		if len(got) != 1 {
			t.Fatalf("budget without expenses must not be omitted, got %d rows", len(got))
		}
		if got[0].SpentAmount.Cents != 0 {
			t.Errorf("spent = %d cents, want 0", got[0].SpentAmount.Cents)
		}
	})

	t.Run("unknown category falls back to Uncategorized", func(t *testing.T) {
		budgets := []Budget{
			{ID: 10, CategoryID: ptrInt64(99), Amount: Money{Cents: 8000}},
		}

		row := ComputeBudgetProgress(budgets, nil, categories)[0]
		if row.CategoryName != "Uncategorized" {
			t.Errorf("categoryName = %q, want Uncategorized", row.CategoryName)
		}
	})

	t.Run("ordered by percent used descending", func(t *testing.T) {
		budgets := []Budget{
			{ID: 1, CategoryID: ptrInt64(1), Amount: Money{Cents: 10000}},
			{ID: 2, CategoryID: ptrInt64(2), Amount: Money{Cents: 10000}},
		}
		expenses := []Expense{
			{CategoryID: 1, Amount: Money{Cents: 1000}, Date: date},
			{CategoryID: 2, Amount: Money{Cents: 9000}, Date: date},
		}

		got := ComputeBudgetProgress(budgets, expenses, categories)
		if got[0].BudgetID != 2 || got[1].BudgetID != 1 {
			t.Errorf("expected budget 2 first, got order %d, %d", got[0].BudgetID, got[1].BudgetID)
		}
	})
}
