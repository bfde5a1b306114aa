package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hearth/internal/core"
)

// periodBounds returns the [start, end) date strings covering a period.
// YYYY-MM-DD strings compare lexicographically, so range scans work on
// the text column directly.
func periodBounds(p core.Period) (string, string) {
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return formatDate(start), formatDate(start.AddDate(0, 1, 0))
}

// -------- expenses --------

func (s *Store) CreateExpense(ctx context.Context, e *core.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (household_id, category_id, description, amount_cents, date, paid_by_user_id, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.HouseholdID, e.CategoryID, e.Description, e.Amount.Cents, formatDate(e.Date), nullableInt64(e.PaidByUserID), e.Notes)
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("expense id: %w", err)
	}
	return nil
}

func (s *Store) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET category_id = ?, description = ?, amount_cents = ?, date = ?, paid_by_user_id = ?, notes = ?
		 WHERE id = ? AND household_id = ?`,
		e.CategoryID, e.Description, e.Amount.Cents, formatDate(e.Date), nullableInt64(e.PaidByUserID), e.Notes,
		e.ID, e.HouseholdID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, householdID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListExpenses(ctx context.Context, householdID int64, period core.Period) ([]core.Expense, error) {
	start, end := periodBounds(period)
	return s.queryExpenses(ctx,
		`SELECT id, household_id, category_id, description, amount_cents, date, paid_by_user_id, notes
		 FROM expenses WHERE household_id = ? AND date >= ? AND date < ? ORDER BY date DESC, id DESC`,
		householdID, start, end)
}

// ListRecentExpenses returns the latest rows by date without a period
// filter, for the dashboard's recent-activity feed.
func (s *Store) ListRecentExpenses(ctx context.Context, householdID int64, limit int) ([]core.Expense, error) {
	return s.queryExpenses(ctx,
		`SELECT id, household_id, category_id, description, amount_cents, date, paid_by_user_id, notes
		 FROM expenses WHERE household_id = ? ORDER BY date DESC, id DESC LIMIT ?`,
		householdID, limit)
}

func (s *Store) queryExpenses(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		var date string
		var paidBy sql.NullInt64
		if err := rows.Scan(&e.ID, &e.HouseholdID, &e.CategoryID, &e.Description, &e.Amount.Cents, &date, &paidBy, &e.Notes); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("parse expense date: %w", err)
		}
		if paidBy.Valid {
			e.PaidByUserID = &paidBy.Int64
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// -------- income --------

func (s *Store) CreateIncome(ctx context.Context, in *core.Income) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO income (household_id, user_id, month, year, amount_cents, source, received_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.HouseholdID, in.UserID, in.Month, in.Year, in.Amount.Cents, in.Source, nullableDate(in.ReceivedDate))
	if err != nil {
		return fmt.Errorf("create income: %w", err)
	}
	in.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("income id: %w", err)
	}
	return nil
}

func (s *Store) UpdateIncome(ctx context.Context, in core.Income) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE income SET user_id = ?, month = ?, year = ?, amount_cents = ?, source = ?, received_date = ?
		 WHERE id = ? AND household_id = ?`,
		in.UserID, in.Month, in.Year, in.Amount.Cents, in.Source, nullableDate(in.ReceivedDate),
		in.ID, in.HouseholdID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteIncome(ctx context.Context, householdID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM income WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListIncome(ctx context.Context, householdID int64, period core.Period) ([]core.Income, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, user_id, month, year, amount_cents, source, received_date
		 FROM income WHERE household_id = ? AND month = ? AND year = ? ORDER BY id`,
		householdID, period.Month, period.Year)
	if err != nil {
		return nil, fmt.Errorf("list income: %w", err)
	}
	defer rows.Close()

	var incomes []core.Income
	for rows.Next() {
		var in core.Income
		var received sql.NullString
		if err := rows.Scan(&in.ID, &in.HouseholdID, &in.UserID, &in.Month, &in.Year, &in.Amount.Cents, &in.Source, &received); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		if received.Valid {
			t, err := parseDate(received.String)
			if err != nil {
				return nil, fmt.Errorf("parse income received_date: %w", err)
			}
			in.ReceivedDate = &t
		}
		incomes = append(incomes, in)
	}
	return incomes, rows.Err()
}

// -------- budgets --------

func (s *Store) CreateBudget(ctx context.Context, b *core.Budget) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (household_id, month, year, category_id, amount_cents) VALUES (?, ?, ?, ?, ?)`,
		b.HouseholdID, b.Month, b.Year, nullableInt64(b.CategoryID), b.Amount.Cents)
	if err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("budget id: %w", err)
	}
	return nil
}

func (s *Store) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET month = ?, year = ?, category_id = ?, amount_cents = ?
		 WHERE id = ? AND household_id = ?`,
		b.Month, b.Year, nullableInt64(b.CategoryID), b.Amount.Cents, b.ID, b.HouseholdID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBudget(ctx context.Context, householdID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListBudgets(ctx context.Context, householdID int64, period core.Period) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, month, year, category_id, amount_cents
		 FROM budgets WHERE household_id = ? AND month = ? AND year = ? ORDER BY id`,
		householdID, period.Month, period.Year)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		var categoryID sql.NullInt64
		if err := rows.Scan(&b.ID, &b.HouseholdID, &b.Month, &b.Year, &categoryID, &b.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if categoryID.Valid {
			b.CategoryID = &categoryID.Int64
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}
