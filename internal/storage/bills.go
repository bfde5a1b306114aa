package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hearth/internal/core"
)

func (s *Store) CreateRecurringBill(ctx context.Context, b *core.RecurringBill) error {
	var amount any
	if b.Amount != nil {
		amount = b.Amount.Cents
	}
	var dayOfMonth any
	if b.DayOfMonth != nil {
		dayOfMonth = *b.DayOfMonth
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO recurring_bills (household_id, category_id, description, amount_cents, is_variable_amount,
		 day_of_month, reminder_days_before, is_active, paid_by_user_id, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.HouseholdID, b.CategoryID, b.Description, amount, b.IsVariableAmount,
		dayOfMonth, b.ReminderDaysBefore, b.IsActive, nullableInt64(b.PaidByUserID), b.Notes)
	if err != nil {
		return fmt.Errorf("create recurring bill: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("recurring bill id: %w", err)
	}
	return nil
}

func (s *Store) UpdateRecurringBill(ctx context.Context, b core.RecurringBill) error {
	var amount any
	if b.Amount != nil {
		amount = b.Amount.Cents
	}
	var dayOfMonth any
	if b.DayOfMonth != nil {
		dayOfMonth = *b.DayOfMonth
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE recurring_bills SET category_id = ?, description = ?, amount_cents = ?, is_variable_amount = ?,
		 day_of_month = ?, reminder_days_before = ?, is_active = ?, paid_by_user_id = ?, notes = ?
		 WHERE id = ? AND household_id = ?`,
		b.CategoryID, b.Description, amount, b.IsVariableAmount,
		dayOfMonth, b.ReminderDaysBefore, b.IsActive, nullableInt64(b.PaidByUserID), b.Notes,
		b.ID, b.HouseholdID)
	if err != nil {
		return fmt.Errorf("update recurring bill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteRecurringBill(ctx context.Context, householdID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM recurring_bills WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete recurring bill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListActiveRecurringBills(ctx context.Context, householdID int64) ([]core.RecurringBill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, category_id, description, amount_cents, is_variable_amount,
		 day_of_month, reminder_days_before, is_active, paid_by_user_id, notes
		 FROM recurring_bills WHERE household_id = ? AND is_active = 1 ORDER BY id`, householdID)
	if err != nil {
		return nil, fmt.Errorf("list recurring bills: %w", err)
	}
	defer rows.Close()

	var bills []core.RecurringBill
	for rows.Next() {
		var b core.RecurringBill
		var amount, dayOfMonth, paidBy sql.NullInt64
		if err := rows.Scan(&b.ID, &b.HouseholdID, &b.CategoryID, &b.Description, &amount, &b.IsVariableAmount,
			&dayOfMonth, &b.ReminderDaysBefore, &b.IsActive, &paidBy, &b.Notes); err != nil {
			return nil, fmt.Errorf("scan recurring bill: %w", err)
		}
		if amount.Valid {
			b.Amount = &core.Money{Cents: amount.Int64}
		}
		if dayOfMonth.Valid {
			day := int(dayOfMonth.Int64)
			b.DayOfMonth = &day
		}
		if paidBy.Valid {
			b.PaidByUserID = &paidBy.Int64
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// ListHouseholdsWithActiveBills returns household ids that have at
// least one active recurring bill. The reminder worker iterates these.
func (s *Store) ListHouseholdsWithActiveBills(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT household_id FROM recurring_bills WHERE is_active = 1 ORDER BY household_id`)
	if err != nil {
		return nil, fmt.Errorf("list households with bills: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan household id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) CreateBillPayment(ctx context.Context, householdID int64, p *core.BillPayment) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM recurring_bills WHERE id = ? AND household_id = ?`,
		p.RecurringBillID, householdID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check recurring bill: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bill_payments (recurring_bill_id, month, year, amount_cents, paid_date, paid_by_user_id, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.RecurringBillID, p.Month, p.Year, p.Amount.Cents, formatDate(p.PaidDate), nullableInt64(p.PaidByUserID), p.Notes)
	if err != nil {
		return fmt.Errorf("create bill payment: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("bill payment id: %w", err)
	}
	return nil
}

func (s *Store) ListBillPayments(ctx context.Context, householdID int64) ([]core.BillPayment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.recurring_bill_id, p.month, p.year, p.amount_cents, p.paid_date, p.paid_by_user_id, p.notes
		 FROM bill_payments p
		 JOIN recurring_bills b ON b.id = p.recurring_bill_id
		 WHERE b.household_id = ? ORDER BY p.id`, householdID)
	if err != nil {
		return nil, fmt.Errorf("list bill payments: %w", err)
	}
	defer rows.Close()

	var payments []core.BillPayment
	for rows.Next() {
		var p core.BillPayment
		var paidDate string
		var paidBy sql.NullInt64
		if err := rows.Scan(&p.ID, &p.RecurringBillID, &p.Month, &p.Year, &p.Amount.Cents, &paidDate, &paidBy, &p.Notes); err != nil {
			return nil, fmt.Errorf("scan bill payment: %w", err)
		}
		if p.PaidDate, err = parseDate(paidDate); err != nil {
			return nil, fmt.Errorf("parse bill payment date: %w", err)
		}
		if paidBy.Valid {
			p.PaidByUserID = &paidBy.Int64
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
