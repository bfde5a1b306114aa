package core

import "sort"

// DebtItem is the per-debt row inside a summary. Balances come straight
// from the stored running value; the summary never recomputes them from
// payment history.
type DebtItem struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	DebtType       string   `json:"debtType"`
	CurrentBalance Money    `json:"currentBalance"`
	InterestRate   *float64 `json:"interestRate"`
	MinimumPayment *Money   `json:"minimumPayment,omitempty"`
}

type DebtSummary struct {
	TotalDebt   Money      `json:"totalDebt"`
	TotalPaid   Money      `json:"totalPaid"`
	PercentPaid float64    `json:"percentPaid"`
	Debts       []DebtItem `json:"debts"`
}

// SummarizeDebts aggregates the household's active debts. TotalPaid is
// the gap between original amounts and stored balances; a balance driven
// negative by overpayment widens it rather than clamping. Items are
// ordered by current balance, descending.
func SummarizeDebts(debts []Debt) DebtSummary {
	var totalOriginal, totalCurrent Money
	items := make([]DebtItem, 0, len(debts))

	for _, d := range debts {
		totalOriginal = totalOriginal.Add(d.OriginalAmount)
		totalCurrent = totalCurrent.Add(d.CurrentBalance)
		items = append(items, DebtItem{
			ID:             d.ID,
			Name:           d.Name,
			DebtType:       d.DebtType,
			CurrentBalance: d.CurrentBalance,
			InterestRate:   d.InterestRate,
			MinimumPayment: d.MinimumPayment,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CurrentBalance.Cents > items[j].CurrentBalance.Cents
	})

	totalPaid := totalOriginal.Sub(totalCurrent)
	return DebtSummary{
		TotalDebt:   totalCurrent,
		TotalPaid:   totalPaid,
		PercentPaid: PercentOf(totalPaid, totalOriginal),
		Debts:       items,
	}
}
