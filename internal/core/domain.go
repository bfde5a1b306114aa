package core

import (
	"errors"
	"strings"
	"time"
)

// Priority levels shared by categories and savings goals.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidYear        = errors.New("invalid year")
	ErrInvalidDayOfMonth  = errors.New("invalid day of month")
	ErrEmptyName          = errors.New("empty name")
	ErrEmptyDescription   = errors.New("empty description")
	ErrZeroDate           = errors.New("date cannot be zero")
	ErrSelfSettlement     = errors.New("cannot settle with yourself")
	ErrMissingHousehold   = errors.New("user must be part of a household")
	ErrCrossHouseholdUser = errors.New("both users must be in the same household")
)

type (
	// Household is the tenancy boundary. Every ledger entity belongs to
	// exactly one household and aggregation never crosses it.
	Household struct {
		ID              int64     `json:"id"`
		Name            string    `json:"name"`
		UseJointAccount bool      `json:"useJointAccount"`
		Currency        string    `json:"currency"`
		CreatedAt       time.Time `json:"createdAt"`
	}

	User struct {
		ID          int64  `json:"id"`
		Username    string `json:"username"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		HouseholdID *int64 `json:"householdId"`
	}

	Category struct {
		ID          int64  `json:"id"`
		HouseholdID int64  `json:"householdId"`
		Name        string `json:"name"`
		ParentID    *int64 `json:"parentId,omitempty"`
		Priority    string `json:"priority"`
		Icon        string `json:"icon"`
		Color       string `json:"color"`
		IsActive    bool   `json:"isActive"`
	}

	Expense struct {
		ID           int64     `json:"id"`
		HouseholdID  int64     `json:"householdId"`
		CategoryID   int64     `json:"categoryId"`
		Description  string    `json:"description"`
		Amount       Money     `json:"amount"`
		Date         time.Time `json:"date"`
		PaidByUserID *int64    `json:"paidByUserId"`
		Notes        string    `json:"notes,omitempty"`
	}

	// Income is period-keyed rather than date-keyed: one row per
	// (user, month, year, source).
	Income struct {
		ID           int64      `json:"id"`
		HouseholdID  int64      `json:"householdId"`
		UserID       int64      `json:"userId"`
		Month        int        `json:"month"`
		Year         int        `json:"year"`
		Amount       Money      `json:"amount"`
		Source       string     `json:"source"`
		ReceivedDate *time.Time `json:"receivedDate,omitempty"`
	}

	// Budget with a nil CategoryID is a whole-household budget for the
	// period.
	Budget struct {
		ID          int64  `json:"id"`
		HouseholdID int64  `json:"householdId"`
		Month       int    `json:"month"`
		Year        int    `json:"year"`
		CategoryID  *int64 `json:"categoryId"`
		Amount      Money  `json:"amount"`
	}

	// RecurringBill is a template for a monthly obligation, not a ledger
	// of payments. Amount is nil when the bill is variable.
	RecurringBill struct {
		ID                 int64  `json:"id"`
		HouseholdID        int64  `json:"householdId"`
		CategoryID         int64  `json:"categoryId"`
		Description        string `json:"description"`
		Amount             *Money `json:"amount"`
		IsVariableAmount   bool   `json:"isVariableAmount"`
		DayOfMonth         *int   `json:"dayOfMonth"`
		ReminderDaysBefore int    `json:"reminderDaysBefore"`
		IsActive           bool   `json:"isActive"`
		PaidByUserID       *int64 `json:"paidByUserId,omitempty"`
		Notes              string `json:"notes,omitempty"`
	}

	// BillPayment proves a recurring bill was settled for a given period.
	BillPayment struct {
		ID              int64     `json:"id"`
		RecurringBillID int64     `json:"recurringBillId"`
		Month           int       `json:"month"`
		Year            int       `json:"year"`
		Amount          Money     `json:"amount"`
		PaidDate        time.Time `json:"paidDate"`
		PaidByUserID    *int64    `json:"paidByUserId,omitempty"`
		Notes           string    `json:"notes,omitempty"`
	}

	// Debt carries a stored running balance. The write path keeps
	// CurrentBalance = OriginalAmount - sum of payments; readers trust it.
	Debt struct {
		ID             int64    `json:"id"`
		HouseholdID    int64    `json:"householdId"`
		Name           string   `json:"name"`
		DebtType       string   `json:"debtType"`
		OriginalAmount Money    `json:"originalAmount"`
		CurrentBalance Money    `json:"currentBalance"`
		InterestRate   *float64 `json:"interestRate"`
		MinimumPayment *Money   `json:"minimumPayment,omitempty"`
		Creditor       string   `json:"creditor,omitempty"`
		IsActive       bool     `json:"isActive"`
		Notes          string   `json:"notes,omitempty"`
	}

	DebtPayment struct {
		ID           int64     `json:"id"`
		DebtID       int64     `json:"debtId"`
		Amount       Money     `json:"amount"`
		PaymentDate  time.Time `json:"paymentDate"`
		PaidByUserID *int64    `json:"paidByUserId,omitempty"`
		Notes        string    `json:"notes,omitempty"`
	}

	// SavingsGoal mirrors Debt: CurrentAmount is the stored sum of
	// contributions, maintained by the write path.
	SavingsGoal struct {
		ID            int64      `json:"id"`
		HouseholdID   int64      `json:"householdId"`
		Name          string     `json:"name"`
		TargetAmount  Money      `json:"targetAmount"`
		CurrentAmount Money      `json:"currentAmount"`
		TargetDate    *time.Time `json:"targetDate,omitempty"`
		Priority      string     `json:"priority"`
		IsActive      bool       `json:"isActive"`
		Notes         string     `json:"notes,omitempty"`
	}

	SavingsContribution struct {
		ID               int64     `json:"id"`
		SavingsGoalID    int64     `json:"savingsGoalId"`
		Amount           Money     `json:"amount"`
		ContributionDate time.Time `json:"contributionDate"`
		UserID           *int64    `json:"userId,omitempty"`
		Notes            string    `json:"notes,omitempty"`
	}

	// Settlement is a directed inter-user payment used to net out
	// shared-expense imbalances.
	Settlement struct {
		ID             int64     `json:"id"`
		HouseholdID    int64     `json:"householdId"`
		FromUserID     int64     `json:"fromUserId"`
		ToUserID       int64     `json:"toUserId"`
		Amount         Money     `json:"amount"`
		SettlementDate time.Time `json:"settlementDate"`
		Notes          string    `json:"notes,omitempty"`
	}
)

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if e.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (i Income) Validate() error {
	if i.Month < 1 || i.Month > 12 {
		return ErrInvalidMonth
	}
	if i.Year < 1 {
		return ErrInvalidYear
	}
	if i.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (b Budget) Validate() error {
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Year < 1 {
		return ErrInvalidYear
	}
	if b.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (rb RecurringBill) Validate() error {
	if len(strings.TrimSpace(rb.Description)) == 0 {
		return ErrEmptyDescription
	}
	if !rb.IsVariableAmount {
		if rb.Amount == nil || rb.Amount.Cents <= 0 {
			return ErrInvalidAmount
		}
	}
	if rb.DayOfMonth != nil && (*rb.DayOfMonth < 1 || *rb.DayOfMonth > 31) {
		return ErrInvalidDayOfMonth
	}
	return nil
}

func (bp BillPayment) Validate() error {
	if bp.Month < 1 || bp.Month > 12 {
		return ErrInvalidMonth
	}
	if bp.Year < 1 {
		return ErrInvalidYear
	}
	if bp.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if bp.PaidDate.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (d Debt) Validate() error {
	if len(strings.TrimSpace(d.Name)) == 0 {
		return ErrEmptyName
	}
	if d.OriginalAmount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (dp DebtPayment) Validate() error {
	if dp.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if dp.PaymentDate.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (sg SavingsGoal) Validate() error {
	if len(strings.TrimSpace(sg.Name)) == 0 {
		return ErrEmptyName
	}
	if sg.TargetAmount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (sc SavingsContribution) Validate() error {
	if sc.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if sc.ContributionDate.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// Validate checks amount and direction. Household membership of both
// parties is the store's concern and checked by the write path.
func (s Settlement) Validate() error {
	if s.FromUserID == s.ToUserID {
		return ErrSelfSettlement
	}
	if s.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if s.SettlementDate.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// CategoriesByID builds a lookup index for the explicit joins aggregation
// functions perform instead of entity back-references.
func CategoriesByID(categories []Category) map[int64]Category {
	idx := make(map[int64]Category, len(categories))
	for _, c := range categories {
		idx[c.ID] = c
	}
	return idx
}

// UsersByID builds a lookup index over household members.
func UsersByID(users []User) map[int64]User {
	idx := make(map[int64]User, len(users))
	for _, u := range users {
		idx[u.ID] = u
	}
	return idx
}
