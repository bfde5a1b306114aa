package core

import "math"

// StableTrendThreshold is the fixed policy bound, in percent, below
// which a month-over-month expense change is reported as stable.
const StableTrendThreshold = 5.0

// Trend classifications for month-over-month comparisons.
const (
	TrendStable       = "Stable"
	TrendSpendingUp   = "Spending Up"
	TrendSpendingDown = "Spending Down"
)

// MonthData is one period's totals, the input half of a comparison.
type MonthData struct {
	Month            int   `json:"month"`
	Year             int   `json:"year"`
	TotalIncome      Money `json:"totalIncome"`
	TotalExpenses    Money `json:"totalExpenses"`
	NetIncome        Money `json:"netIncome"`
	TransactionCount int   `json:"transactionCount"`
}

type ComparisonMetrics struct {
	IncomeDifference     Money   `json:"incomeDifference"`
	ExpenseDifference    Money   `json:"expenseDifference"`
	IncomeChangePercent  float64 `json:"incomeChangePercent"`
	ExpenseChangePercent float64 `json:"expenseChangePercent"`
	Trend                string  `json:"trend"`
}

type MonthComparison struct {
	Month1     MonthData         `json:"month1"`
	Month2     MonthData         `json:"month2"`
	Comparison ComparisonMetrics `json:"comparison"`
}

// BuildMonthData derives one period's totals from its income and
// expense rows. Callers pass collections already filtered to the period.
func BuildMonthData(period Period, incomes []Income, expenses []Expense) MonthData {
	income := SumIncome(incomes)
	spent := SumExpenses(expenses)
	return MonthData{
		Month:            period.Month,
		Year:             period.Year,
		TotalIncome:      income,
		TotalExpenses:    spent,
		NetIncome:        income.Sub(spent),
		TransactionCount: len(expenses),
	}
}

// CompareMonths diffs the second period against the first. Percent
// changes are guarded to 0 when the baseline period's value is zero,
// and the trend is classified from the guarded expense change: inside
// the stable threshold it is "Stable", otherwise the sign decides.
// Swapping the periods negates both differences and inverts the sign of
// both percent changes, baseline guard permitting.
func CompareMonths(first, second MonthData) MonthComparison {
	incomeDiff := second.TotalIncome.Sub(first.TotalIncome)
	expenseDiff := second.TotalExpenses.Sub(first.TotalExpenses)

	incomePct := changePercent(incomeDiff, first.TotalIncome)
	expensePct := changePercent(expenseDiff, first.TotalExpenses)

	trend := TrendStable
	if math.Abs(expensePct) >= StableTrendThreshold {
		if expensePct > 0 {
			trend = TrendSpendingUp
		} else {
			trend = TrendSpendingDown
		}
	}

	return MonthComparison{
		Month1: first,
		Month2: second,
		Comparison: ComparisonMetrics{
			IncomeDifference:     incomeDiff,
			ExpenseDifference:    expenseDiff,
			IncomeChangePercent:  incomePct,
			ExpenseChangePercent: expensePct,
			Trend:                trend,
		},
	}
}

func changePercent(diff, baseline Money) float64 {
	if baseline.Cents <= 0 {
		return 0
	}
	return float64(diff.Cents) / float64(baseline.Cents) * 100
}
