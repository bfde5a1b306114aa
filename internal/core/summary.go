package core

import (
	"math"
	"sort"
	"time"
)

type CategoryBreakdown struct {
	CategoryID       int64  `json:"categoryId"`
	CategoryName     string `json:"categoryName"`
	CategoryColor    string `json:"categoryColor"`
	TotalAmount      Money  `json:"totalAmount"`
	TransactionCount int    `json:"transactionCount"`
	AverageAmount    Money  `json:"averageAmount"`
}

type RecentExpenseItem struct {
	ID            int64     `json:"id"`
	Amount        Money     `json:"amount"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	CategoryName  string    `json:"categoryName"`
	CategoryColor string    `json:"categoryColor"`
	PaidByName    string    `json:"paidByName"`
}

// SumIncome totals a period's income rows.
func SumIncome(incomes []Income) Money {
	var total Money
	for _, i := range incomes {
		total = total.Add(i.Amount)
	}
	return total
}

// SumExpenses totals a period's expenses.
func SumExpenses(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// BreakdownByCategory groups a period's expenses by category, computing
// totals, counts, and mean transaction size per group. Groups are
// ordered by total amount, descending.
func BreakdownByCategory(expenses []Expense, categories []Category) []CategoryBreakdown {
	type group struct {
		total Money
		count int
	}
	groups := make(map[int64]*group)
	order := make([]int64, 0)
	for _, e := range expenses {
		g, ok := groups[e.CategoryID]
		if !ok {
			g = &group{}
			groups[e.CategoryID] = g
			order = append(order, e.CategoryID)
		}
		g.total = g.total.Add(e.Amount)
		g.count++
	}

	catIdx := CategoriesByID(categories)

	breakdown := make([]CategoryBreakdown, 0, len(groups))
	for _, id := range order {
		g := groups[id]
		avg := Money{Cents: int64(math.Round(float64(g.total.Cents) / float64(g.count)))}
		row := CategoryBreakdown{
			CategoryID:       id,
			TotalAmount:      g.total,
			TransactionCount: g.count,
			AverageAmount:    avg,
		}
		if c, ok := catIdx[id]; ok {
			row.CategoryName = c.Name
			row.CategoryColor = c.Color
		}
		breakdown = append(breakdown, row)
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].TotalAmount.Cents > breakdown[j].TotalAmount.Cents
	})
	return breakdown
}

// LatestExpenses returns the n most recent expenses by date, enriched
// with category and payer display names via explicit lookups.
func LatestExpenses(expenses []Expense, categories []Category, users []User, n int) []RecentExpenseItem {
	if n <= 0 {
		n = 5
	}

	sorted := make([]Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	catIdx := CategoriesByID(categories)
	userIdx := UsersByID(users)

	items := make([]RecentExpenseItem, 0, len(sorted))
	for _, e := range sorted {
		item := RecentExpenseItem{
			ID:          e.ID,
			Amount:      e.Amount,
			Description: e.Description,
			Date:        e.Date,
		}
		if c, ok := catIdx[e.CategoryID]; ok {
			item.CategoryName = c.Name
			item.CategoryColor = c.Color
		}
		if e.PaidByUserID != nil {
			if u, ok := userIdx[*e.PaidByUserID]; ok {
				item.PaidByName = u.DisplayName
			}
		}
		items = append(items, item)
	}
	return items
}
