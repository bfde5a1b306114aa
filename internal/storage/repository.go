package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hearth/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist or does
// not belong to the caller's household.
var ErrNotFound = errors.New("not found")

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	// Dates written by older rows may carry a time component.
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(timeLayout, s)
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatDate(*t)
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

// -------- households --------

func (s *Store) CreateHousehold(ctx context.Context, h *core.Household) error {
	h.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO households (name, use_joint_account, currency, created_at) VALUES (?, ?, ?, ?)`,
		h.Name, h.UseJointAccount, h.Currency, h.CreatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("create household: %w", err)
	}
	h.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("household id: %w", err)
	}
	return nil
}

func (s *Store) GetHousehold(ctx context.Context, id int64) (core.Household, error) {
	var h core.Household
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, use_joint_account, currency, created_at FROM households WHERE id = ?`, id).
		Scan(&h.ID, &h.Name, &h.UseJointAccount, &h.Currency, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return h, ErrNotFound
	}
	if err != nil {
		return h, fmt.Errorf("get household: %w", err)
	}
	if h.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return h, fmt.Errorf("parse household created_at: %w", err)
	}
	return h, nil
}

// -------- users --------

// UserRecord is a user row including the credential hash. Only the auth
// path sees it; everything else works with core.User.
type UserRecord struct {
	core.User
	PasswordHash string
}

func (s *Store) CreateUser(ctx context.Context, u *core.User, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, display_name, password_hash, household_id) VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.DisplayName, passwordHash, nullableInt64(u.HouseholdID))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (core.User, error) {
	rec, err := s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, email, display_name, password_hash, household_id FROM users WHERE id = ?`, id))
	return rec.User, err
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (UserRecord, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, email, display_name, password_hash, household_id FROM users WHERE username = ?`, username))
}

func (s *Store) scanUser(row *sql.Row) (UserRecord, error) {
	var rec UserRecord
	var householdID sql.NullInt64
	err := row.Scan(&rec.ID, &rec.Username, &rec.Email, &rec.DisplayName, &rec.PasswordHash, &householdID)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("get user: %w", err)
	}
	if householdID.Valid {
		rec.HouseholdID = &householdID.Int64
	}
	return rec, nil
}

func (s *Store) SetUserHousehold(ctx context.Context, userID, householdID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET household_id = ? WHERE id = ?`, householdID, userID)
	if err != nil {
		return fmt.Errorf("set user household: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListHouseholdUsers(ctx context.Context, householdID int64) ([]core.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, email, display_name, household_id FROM users WHERE household_id = ? ORDER BY id`, householdID)
	if err != nil {
		return nil, fmt.Errorf("list household users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		var u core.User
		var hid sql.NullInt64
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName, &hid); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if hid.Valid {
			u.HouseholdID = &hid.Int64
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// -------- categories --------

func (s *Store) CreateCategory(ctx context.Context, c *core.Category) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (household_id, name, parent_id, priority, icon, color, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.HouseholdID, c.Name, nullableInt64(c.ParentID), c.Priority, c.Icon, c.Color, c.IsActive)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("category id: %w", err)
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context, householdID int64) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, name, parent_id, priority, icon, color, is_active
		 FROM categories WHERE household_id = ? ORDER BY name`, householdID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		var parentID sql.NullInt64
		if err := rows.Scan(&c.ID, &c.HouseholdID, &c.Name, &parentID, &c.Priority, &c.Icon, &c.Color, &c.IsActive); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if parentID.Valid {
			c.ParentID = &parentID.Int64
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
