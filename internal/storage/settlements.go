package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hearth/internal/core"
)

// CreateSettlement inserts a settlement after verifying both parties
// belong to the settlement's household.
func (s *Store) CreateSettlement(ctx context.Context, st *core.Settlement) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, userID := range []int64{st.FromUserID, st.ToUserID} {
			var hid sql.NullInt64
			err := tx.QueryRowContext(ctx,
				`SELECT household_id FROM users WHERE id = ?`, userID).Scan(&hid)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("check settlement user: %w", err)
			}
			if !hid.Valid || hid.Int64 != st.HouseholdID {
				return core.ErrCrossHouseholdUser
			}
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO settlements (household_id, from_user_id, to_user_id, amount_cents, settlement_date, notes)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			st.HouseholdID, st.FromUserID, st.ToUserID, st.Amount.Cents, formatDate(st.SettlementDate), st.Notes)
		if err != nil {
			return fmt.Errorf("create settlement: %w", err)
		}
		if st.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("settlement id: %w", err)
		}
		return nil
	})
}

func (s *Store) DeleteSettlement(ctx context.Context, householdID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM settlements WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete settlement: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListSettlements(ctx context.Context, householdID int64) ([]core.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, from_user_id, to_user_id, amount_cents, settlement_date, notes
		 FROM settlements WHERE household_id = ? ORDER BY id`, householdID)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []core.Settlement
	for rows.Next() {
		var st core.Settlement
		var date string
		if err := rows.Scan(&st.ID, &st.HouseholdID, &st.FromUserID, &st.ToUserID, &st.Amount.Cents, &date, &st.Notes); err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		if st.SettlementDate, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("parse settlement date: %w", err)
		}
		settlements = append(settlements, st)
	}
	return settlements, rows.Err()
}
