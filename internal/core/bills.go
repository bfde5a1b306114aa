package core

import (
	"sort"
	"time"
)

// DefaultLookaheadDays is the projection window used when a caller does
// not supply one.
const DefaultLookaheadDays = 30

type UpcomingBill struct {
	BillID           int64     `json:"billId"`
	Description      string    `json:"description"`
	Amount           *Money    `json:"amount"`
	IsVariableAmount bool      `json:"isVariableAmount"`
	DueDate          time.Time `json:"dueDate"`
	DaysUntilDue     int       `json:"daysUntilDue"`
	CategoryName     string    `json:"categoryName"`
	IsOverdue        bool      `json:"isOverdue"`
}

// ProjectUpcomingBills projects active recurring bills onto their next
// due dates, anchored to today's real date. Bills without a usable
// day-of-month are skipped silently, as are bills already covered by a
// payment for the due date's period. A bill appears only when its due
// date falls within lookaheadDays calendar days of today. IsOverdue
// stays false here: NextOccurrence never yields a date behind today.
// The flag is reserved for callers that set DaysUntilDue from a stored
// due date instead of projecting one. The projection is a pure function
// of its inputs, so repeated calls with unchanged data return identical
// results in identical order (most urgent first).
func ProjectUpcomingBills(bills []RecurringBill, payments []BillPayment, categories []Category, today time.Time, lookaheadDays int) []UpcomingBill {
	if lookaheadDays <= 0 {
		lookaheadDays = DefaultLookaheadDays
	}

	type periodKey struct {
		billID int64
		month  int
		year   int
	}
	paid := make(map[periodKey]bool, len(payments))
	for _, p := range payments {
		paid[periodKey{p.RecurringBillID, p.Month, p.Year}] = true
	}

	catIdx := CategoriesByID(categories)

	upcoming := make([]UpcomingBill, 0, len(bills))
	for _, bill := range bills {
		if bill.DayOfMonth == nil || !ValidDayOfMonth(*bill.DayOfMonth) {
			continue
		}

		due, daysUntil := NextOccurrence(today, *bill.DayOfMonth)
		if paid[periodKey{bill.ID, int(due.Month()), due.Year()}] {
			continue
		}
		if daysUntil > lookaheadDays {
			continue
		}

		var categoryName string
		if c, ok := catIdx[bill.CategoryID]; ok {
			categoryName = c.Name
		}

		upcoming = append(upcoming, UpcomingBill{
			BillID:           bill.ID,
			Description:      bill.Description,
			Amount:           bill.Amount,
			IsVariableAmount: bill.IsVariableAmount,
			DueDate:          due,
			DaysUntilDue:     daysUntil,
			CategoryName:     categoryName,
			IsOverdue:        daysUntil < 0,
		})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DaysUntilDue < upcoming[j].DaysUntilDue
	})
	return upcoming
}
