package core

import "sort"

// BudgetProgress is the derived view of one budget row against the
// period's actual spending. It serves both the dashboard progress list
// and the report budget-vs-actual comparison; the two upstream variants
// of this computation were unified on these semantics.
type BudgetProgress struct {
	BudgetID        int64   `json:"budgetId"`
	CategoryID      *int64  `json:"categoryId"`
	CategoryName    string  `json:"categoryName"`
	BudgetAmount    Money   `json:"budgetAmount"`
	SpentAmount     Money   `json:"spentAmount"`
	RemainingAmount Money   `json:"remainingAmount"`
	PercentUsed     float64 `json:"percentUsed"`
	IsOverBudget    bool    `json:"isOverBudget"`
}

// ComputeBudgetProgress derives spending progress for every budget in
// the period. A budget with a nil category is a whole-household budget
// and counts every expense; budgets whose category has no expenses
// report a spent amount of 0 rather than being omitted. Zero-amount
// budgets report 0% used. Results are ordered by percent used,
// descending.
func ComputeBudgetProgress(budgets []Budget, expenses []Expense, categories []Category) []BudgetProgress {
	byCategory := make(map[int64]Money)
	var total Money
	for _, e := range expenses {
		byCategory[e.CategoryID] = byCategory[e.CategoryID].Add(e.Amount)
		total = total.Add(e.Amount)
	}

	catIdx := CategoriesByID(categories)

	progress := make([]BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		var spent Money
		name := "Total Budget"
		if b.CategoryID != nil {
			spent = byCategory[*b.CategoryID]
			name = "Uncategorized"
			if c, ok := catIdx[*b.CategoryID]; ok {
				name = c.Name
			}
		} else {
			spent = total
		}

		progress = append(progress, BudgetProgress{
			BudgetID:        b.ID,
			CategoryID:      b.CategoryID,
			CategoryName:    name,
			BudgetAmount:    b.Amount,
			SpentAmount:     spent,
			RemainingAmount: b.Amount.Sub(spent),
			PercentUsed:     PercentOf(spent, b.Amount),
			IsOverBudget:    spent.GreaterThan(b.Amount),
		})
	}

	sort.SliceStable(progress, func(i, j int) bool {
		return progress[i].PercentUsed > progress[j].PercentUsed
	})
	return progress
}
