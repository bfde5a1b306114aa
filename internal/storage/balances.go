package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hearth/internal/core"
)

// Debt payments and savings contributions keep the parent's stored
// running balance in sync: each child write and its balance delta are a
// single transaction, never a recomputation from history.

// -------- debts --------

func (s *Store) CreateDebt(ctx context.Context, d *core.Debt) error {
	var rate any
	if d.InterestRate != nil {
		rate = *d.InterestRate
	}
	var minPayment any
	if d.MinimumPayment != nil {
		minPayment = d.MinimumPayment.Cents
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO debts (household_id, name, debt_type, original_amount_cents, current_balance_cents,
		 interest_rate, minimum_payment_cents, creditor, is_active, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.HouseholdID, d.Name, d.DebtType, d.OriginalAmount.Cents, d.CurrentBalance.Cents,
		rate, minPayment, d.Creditor, d.IsActive, d.Notes)
	if err != nil {
		return fmt.Errorf("create debt: %w", err)
	}
	d.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("debt id: %w", err)
	}
	return nil
}

// UpdateDebt edits a debt's descriptive fields. The balance columns are
// untouched; they move only through payment deltas.
func (s *Store) UpdateDebt(ctx context.Context, d core.Debt) error {
	var rate any
	if d.InterestRate != nil {
		rate = *d.InterestRate
	}
	var minPayment any
	if d.MinimumPayment != nil {
		minPayment = d.MinimumPayment.Cents
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE debts SET name = ?, debt_type = ?, interest_rate = ?, minimum_payment_cents = ?,
		 creditor = ?, is_active = ?, notes = ?
		 WHERE id = ? AND household_id = ?`,
		d.Name, d.DebtType, rate, minPayment, d.Creditor, d.IsActive, d.Notes,
		d.ID, d.HouseholdID)
	if err != nil {
		return fmt.Errorf("update debt: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteDebt(ctx context.Context, householdID, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM debt_payments WHERE debt_id = ?`, id); err != nil {
			return fmt.Errorf("delete debt payments: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM debts WHERE id = ? AND household_id = ?`, id, householdID)
		if err != nil {
			return fmt.Errorf("delete debt: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Store) GetDebt(ctx context.Context, householdID, id int64) (core.Debt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, household_id, name, debt_type, original_amount_cents, current_balance_cents,
		 interest_rate, minimum_payment_cents, creditor, is_active, notes
		 FROM debts WHERE id = ? AND household_id = ?`, id, householdID)
	return scanDebt(row.Scan)
}

func (s *Store) ListActiveDebts(ctx context.Context, householdID int64) ([]core.Debt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, name, debt_type, original_amount_cents, current_balance_cents,
		 interest_rate, minimum_payment_cents, creditor, is_active, notes
		 FROM debts WHERE household_id = ? AND is_active = 1 ORDER BY id`, householdID)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	var debts []core.Debt
	for rows.Next() {
		d, err := scanDebt(rows.Scan)
		if err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func scanDebt(scan func(...any) error) (core.Debt, error) {
	var d core.Debt
	var rate sql.NullFloat64
	var minPayment sql.NullInt64
	err := scan(&d.ID, &d.HouseholdID, &d.Name, &d.DebtType, &d.OriginalAmount.Cents, &d.CurrentBalance.Cents,
		&rate, &minPayment, &d.Creditor, &d.IsActive, &d.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	if err != nil {
		return d, fmt.Errorf("scan debt: %w", err)
	}
	if rate.Valid {
		d.InterestRate = &rate.Float64
	}
	if minPayment.Valid {
		d.MinimumPayment = &core.Money{Cents: minPayment.Int64}
	}
	return d, nil
}

// CreateDebtPayment records a payment and decreases the debt's balance
// atomically. Overpayment drives the balance negative; it is not
// clamped.
func (s *Store) CreateDebtPayment(ctx context.Context, householdID int64, p *core.DebtPayment) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := debtInHousehold(ctx, tx, householdID, p.DebtID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO debt_payments (debt_id, amount_cents, payment_date, paid_by_user_id, notes)
			 VALUES (?, ?, ?, ?, ?)`,
			p.DebtID, p.Amount.Cents, formatDate(p.PaymentDate), nullableInt64(p.PaidByUserID), p.Notes)
		if err != nil {
			return fmt.Errorf("create debt payment: %w", err)
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("debt payment id: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE debts SET current_balance_cents = current_balance_cents - ? WHERE id = ?`,
			p.Amount.Cents, p.DebtID)
		if err != nil {
			return fmt.Errorf("apply debt balance delta: %w", err)
		}
		return nil
	})
}

// UpdateDebtPayment changes a payment's amount and re-applies the
// difference to the debt's balance in the same transaction.
func (s *Store) UpdateDebtPayment(ctx context.Context, householdID int64, p core.DebtPayment) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := debtInHousehold(ctx, tx, householdID, p.DebtID); err != nil {
			return err
		}

		var oldAmount int64
		err := tx.QueryRowContext(ctx,
			`SELECT amount_cents FROM debt_payments WHERE id = ? AND debt_id = ?`, p.ID, p.DebtID).
			Scan(&oldAmount)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get debt payment: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE debt_payments SET amount_cents = ?, payment_date = ?, paid_by_user_id = ?, notes = ?
			 WHERE id = ?`,
			p.Amount.Cents, formatDate(p.PaymentDate), nullableInt64(p.PaidByUserID), p.Notes, p.ID)
		if err != nil {
			return fmt.Errorf("update debt payment: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE debts SET current_balance_cents = current_balance_cents + ? - ? WHERE id = ?`,
			oldAmount, p.Amount.Cents, p.DebtID)
		if err != nil {
			return fmt.Errorf("apply debt balance delta: %w", err)
		}
		return nil
	})
}

// DeleteDebtPayment removes a payment and restores its amount to the
// debt's balance.
func (s *Store) DeleteDebtPayment(ctx context.Context, householdID, debtID, paymentID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := debtInHousehold(ctx, tx, householdID, debtID); err != nil {
			return err
		}

		var amount int64
		err := tx.QueryRowContext(ctx,
			`SELECT amount_cents FROM debt_payments WHERE id = ? AND debt_id = ?`, paymentID, debtID).
			Scan(&amount)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get debt payment: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM debt_payments WHERE id = ?`, paymentID); err != nil {
			return fmt.Errorf("delete debt payment: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE debts SET current_balance_cents = current_balance_cents + ? WHERE id = ?`,
			amount, debtID)
		if err != nil {
			return fmt.Errorf("apply debt balance delta: %w", err)
		}
		return nil
	})
}

func debtInHousehold(ctx context.Context, tx *sql.Tx, householdID, debtID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM debts WHERE id = ? AND household_id = ?`, debtID, householdID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check debt household: %w", err)
	}
	return nil
}

// -------- savings goals --------

func (s *Store) CreateSavingsGoal(ctx context.Context, g *core.SavingsGoal) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO savings_goals (household_id, name, target_amount_cents, current_amount_cents,
		 target_date, priority, is_active, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.HouseholdID, g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents,
		nullableDate(g.TargetDate), g.Priority, g.IsActive, g.Notes)
	if err != nil {
		return fmt.Errorf("create savings goal: %w", err)
	}
	g.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("savings goal id: %w", err)
	}
	return nil
}

func (s *Store) DeleteSavingsGoal(ctx context.Context, householdID, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM savings_contributions WHERE savings_goal_id = ?`, id); err != nil {
			return fmt.Errorf("delete savings contributions: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ? AND household_id = ?`, id, householdID)
		if err != nil {
			return fmt.Errorf("delete savings goal: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Store) GetSavingsGoal(ctx context.Context, householdID, id int64) (core.SavingsGoal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, household_id, name, target_amount_cents, current_amount_cents, target_date, priority, is_active, notes
		 FROM savings_goals WHERE id = ? AND household_id = ?`, id, householdID)
	return scanSavingsGoal(row.Scan)
}

func (s *Store) ListActiveSavingsGoals(ctx context.Context, householdID int64) ([]core.SavingsGoal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, name, target_amount_cents, current_amount_cents, target_date, priority, is_active, notes
		 FROM savings_goals WHERE household_id = ? AND is_active = 1 ORDER BY id`, householdID)
	if err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	defer rows.Close()

	var goals []core.SavingsGoal
	for rows.Next() {
		g, err := scanSavingsGoal(rows.Scan)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func scanSavingsGoal(scan func(...any) error) (core.SavingsGoal, error) {
	var g core.SavingsGoal
	var targetDate sql.NullString
	err := scan(&g.ID, &g.HouseholdID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents,
		&targetDate, &g.Priority, &g.IsActive, &g.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return g, ErrNotFound
	}
	if err != nil {
		return g, fmt.Errorf("scan savings goal: %w", err)
	}
	if targetDate.Valid {
		t, err := parseDate(targetDate.String)
		if err != nil {
			return g, fmt.Errorf("parse savings goal target_date: %w", err)
		}
		g.TargetDate = &t
	}
	return g, nil
}

// CreateSavingsContribution records a contribution and increases the
// goal's balance atomically.
func (s *Store) CreateSavingsContribution(ctx context.Context, householdID int64, c *core.SavingsContribution) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := goalInHousehold(ctx, tx, householdID, c.SavingsGoalID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO savings_contributions (savings_goal_id, amount_cents, contribution_date, user_id, notes)
			 VALUES (?, ?, ?, ?, ?)`,
			c.SavingsGoalID, c.Amount.Cents, formatDate(c.ContributionDate), nullableInt64(c.UserID), c.Notes)
		if err != nil {
			return fmt.Errorf("create savings contribution: %w", err)
		}
		if c.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("savings contribution id: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE savings_goals SET current_amount_cents = current_amount_cents + ? WHERE id = ?`,
			c.Amount.Cents, c.SavingsGoalID)
		if err != nil {
			return fmt.Errorf("apply savings balance delta: %w", err)
		}
		return nil
	})
}

// DeleteSavingsContribution removes a contribution and subtracts its
// amount from the goal's balance.
func (s *Store) DeleteSavingsContribution(ctx context.Context, householdID, goalID, contributionID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := goalInHousehold(ctx, tx, householdID, goalID); err != nil {
			return err
		}

		var amount int64
		err := tx.QueryRowContext(ctx,
			`SELECT amount_cents FROM savings_contributions WHERE id = ? AND savings_goal_id = ?`,
			contributionID, goalID).Scan(&amount)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get savings contribution: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM savings_contributions WHERE id = ?`, contributionID); err != nil {
			return fmt.Errorf("delete savings contribution: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE savings_goals SET current_amount_cents = current_amount_cents - ? WHERE id = ?`,
			amount, goalID)
		if err != nil {
			return fmt.Errorf("apply savings balance delta: %w", err)
		}
		return nil
	})
}

func goalInHousehold(ctx context.Context, tx *sql.Tx, householdID, goalID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM savings_goals WHERE id = ? AND household_id = ?`, goalID, householdID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check savings goal household: %w", err)
	}
	return nil
}
