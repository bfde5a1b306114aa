package core

import "time"

// Period is the (month, year) grain used for budgets, income, and
// summaries.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ErrInvalidMonth
	}
	if p.Year < 1 {
		return ErrInvalidYear
	}
	return nil
}

// Contains reports whether t falls inside the period's calendar month.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && int(t.Month()) == p.Month
}

// CurrentPeriod returns the period for the given wall-clock time.
func CurrentPeriod(now time.Time) Period {
	return Period{Month: int(now.Month()), Year: now.Year()}
}

// DaysIn returns the number of days in the given month.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ValidDayOfMonth reports whether d is a usable recurrence day. Values
// outside [1,31] mean "no recurrence configured" and are skipped by
// projections, never treated as errors.
func ValidDayOfMonth(d int) bool {
	return d >= 1 && d <= 31
}

// ResolveDueDate resolves a day-of-month within (year, month), clamping
// to the last valid day: day 31 in a 30-day month yields day 30.
func ResolveDueDate(year, month, dayOfMonth int) time.Time {
	if last := DaysIn(year, month); dayOfMonth > last {
		dayOfMonth = last
	}
	return time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// NextOccurrence returns the next due date for a monthly recurrence
// anchored to today's real date, and the number of calendar days until
// it. If dayOfMonth has not yet passed this month the due date stays in
// the current month, otherwise it rolls over (December rolls into
// January of the next year). The day count goes negative only when
// clamping pulls the due date behind today, which is how overdue bills
// are detected.
func NextOccurrence(today time.Time, dayOfMonth int) (time.Time, int) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	var due time.Time
	if dayOfMonth >= day.Day() {
		due = ResolveDueDate(day.Year(), int(day.Month()), dayOfMonth)
	} else {
		month := int(day.Month()) + 1
		year := day.Year()
		if month > 12 {
			month = 1
			year++
		}
		due = ResolveDueDate(year, month, dayOfMonth)
	}

	daysUntil := int(due.Sub(day).Hours() / 24)
	return due, daysUntil
}
