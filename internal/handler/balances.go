package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hearth/internal/core"
	"hearth/internal/services"
	"hearth/internal/storage"
)

// BalanceHandler serves debts with their payments and savings goals
// with their contributions. Child writes go through the ledger service
// so the parent balance moves in the same transaction.
type BalanceHandler struct {
	store  *storage.Store
	ledger *services.LedgerService
	cache  *ResponseCache
}

func NewBalanceHandler(store *storage.Store, ledger *services.LedgerService, responseCache *ResponseCache) *BalanceHandler {
	return &BalanceHandler{store: store, ledger: ledger, cache: responseCache}
}

func (h *BalanceHandler) invalidate(householdID int64) {
	if h.cache != nil {
		h.cache.InvalidateHousehold(householdID)
	}
}

// --- debts ---

type DebtRequest struct {
	Name           string      `json:"name" validate:"required,max=100"`
	DebtType       string      `json:"debtType" validate:"max=50"`
	OriginalAmount core.Money  `json:"originalAmount"`
	InterestRate   *float64    `json:"interestRate" validate:"omitempty,gte=0,lte=100"`
	MinimumPayment *core.Money `json:"minimumPayment"`
	Creditor       string      `json:"creditor" validate:"max=100"`
	IsActive       *bool       `json:"isActive"`
	Notes          string      `json:"notes" validate:"max=500"`
}

func (h *BalanceHandler) ListDebts(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	debts, err := h.store.ListActiveDebts(ctx, *user.HouseholdID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list debts", "error", err, "household_id", *user.HouseholdID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, core.SummarizeDebts(debts))
}

func (h *BalanceHandler) CreateDebt(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	var req DebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A new debt starts with its full balance outstanding.
	debt := core.Debt{
		HouseholdID:    *user.HouseholdID,
		Name:           req.Name,
		DebtType:       req.DebtType,
		OriginalAmount: req.OriginalAmount,
		CurrentBalance: req.OriginalAmount,
		InterestRate:   req.InterestRate,
		MinimumPayment: req.MinimumPayment,
		Creditor:       req.Creditor,
		IsActive:       true,
		Notes:          req.Notes,
	}
	if err := debt.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.store.CreateDebt(ctx, &debt); err != nil {
		slog.ErrorContext(ctx, "Failed to create debt", "error", err, "household_id", *user.HouseholdID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	h.invalidate(debt.HouseholdID)
	c.JSON(http.StatusCreated, debt)
}

// UpdateDebt edits a debt's descriptive fields. Balances stay where
// the payment history left them.
func (h *BalanceHandler) UpdateDebt(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req DebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	debt, err := h.store.GetDebt(ctx, *user.HouseholdID, id)
	if err != nil {
		respondWriteError(c, err)
		return
	}

	debt.Name = req.Name
	debt.DebtType = req.DebtType
	debt.InterestRate = req.InterestRate
	debt.MinimumPayment = req.MinimumPayment
	debt.Creditor = req.Creditor
	debt.Notes = req.Notes
	if req.IsActive != nil {
		debt.IsActive = *req.IsActive
	}
	if err := debt.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.UpdateDebt(ctx, debt); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(debt.HouseholdID)
	c.JSON(http.StatusOK, debt)
}

func (h *BalanceHandler) DeleteDebt(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteDebt(c.Request.Context(), *user.HouseholdID, id); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(*user.HouseholdID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type DebtPaymentRequest struct {
	Amount      core.Money `json:"amount"`
	PaymentDate string     `json:"paymentDate" validate:"required"`
	Notes       string     `json:"notes" validate:"max=500"`
}

func (h *BalanceHandler) CreateDebtPayment(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	debtID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req DebtPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paymentDate, err := time.Parse(dateLayout, req.PaymentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paymentDate must be in YYYY-MM-DD format"})
		return
	}

	payment := core.DebtPayment{
		DebtID:       debtID,
		Amount:       req.Amount,
		PaymentDate:  paymentDate,
		PaidByUserID: &user.ID,
		Notes:        req.Notes,
	}

	ctx := c.Request.Context()
	if err := h.ledger.CreateDebtPayment(ctx, *user.HouseholdID, &payment); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(*user.HouseholdID)
	c.JSON(http.StatusCreated, payment)
}

func (h *BalanceHandler) UpdateDebtPayment(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	debtID, ok := pathID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := pathID(c, "paymentId")
	if !ok {
		return
	}

	var req DebtPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paymentDate, err := time.Parse(dateLayout, req.PaymentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paymentDate must be in YYYY-MM-DD format"})
		return
	}

	payment := core.DebtPayment{
		ID:          paymentID,
		DebtID:      debtID,
		Amount:      req.Amount,
		PaymentDate: paymentDate,
		Notes:       req.Notes,
	}

	ctx := c.Request.Context()
	if err := h.ledger.UpdateDebtPayment(ctx, *user.HouseholdID, payment); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(*user.HouseholdID)
	c.JSON(http.StatusOK, payment)
}

func (h *BalanceHandler) DeleteDebtPayment(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	debtID, ok := pathID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := pathID(c, "paymentId")
	if !ok {
		return
	}

	if err := h.ledger.DeleteDebtPayment(c.Request.Context(), *user.HouseholdID, debtID, paymentID); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(*user.HouseholdID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- savings goals ---

type SavingsGoalRequest struct {
	Name         string     `json:"name" validate:"required,max=100"`
	TargetAmount core.Money `json:"targetAmount"`
	TargetDate   *string    `json:"targetDate"`
	Priority     string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	Notes        string     `json:"notes" validate:"max=500"`
}

func (h *BalanceHandler) ListSavingsGoals(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	goals, err := h.store.ListActiveSavingsGoals(ctx, *user.HouseholdID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list savings goals", "error", err, "household_id", *user.HouseholdID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, core.SummarizeSavings(goals))
}

func (h *BalanceHandler) CreateSavingsGoal(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	var req SavingsGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = core.PriorityMedium
	}

	goal := core.SavingsGoal{
		HouseholdID:  *user.HouseholdID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Priority:     priority,
		IsActive:     true,
		Notes:        req.Notes,
	}
	if req.TargetDate != nil {
		targetDate, err := time.Parse(dateLayout, *req.TargetDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "targetDate must be in YYYY-MM-DD format"})
			return
		}
		goal.TargetDate = &targetDate
	}
	if err := goal.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.store.CreateSavingsGoal(ctx, &goal); err != nil {
		slog.ErrorContext(ctx, "Failed to create savings goal", "error", err, "household_id", *user.HouseholdID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	h.invalidate(goal.HouseholdID)
	c.JSON(http.StatusCreated, goal)
}

func (h *BalanceHandler) DeleteSavingsGoal(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteSavingsGoal(c.Request.Context(), *user.HouseholdID, id); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(*user.HouseholdID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type SavingsContributionRequest struct {
	Amount           core.Money `json:"amount"`
	ContributionDate string     `json:"contributionDate" validate:"required"`
	Notes            string     `json:"notes" validate:"max=500"`
}

func (h *BalanceHandler) CreateSavingsContribution(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	goalID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req SavingsContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contributionDate, err := time.Parse(dateLayout, req.ContributionDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contributionDate must be in YYYY-MM-DD format"})
		return
	}

	contribution := core.SavingsContribution{
		SavingsGoalID:    goalID,
		Amount:           req.Amount,
		ContributionDate: contributionDate,
		UserID:           &user.ID,
		Notes:            req.Notes,
	}

	ctx := c.Request.Context()
	if err := h.ledger.CreateSavingsContribution(ctx, *user.HouseholdID, &contribution); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(*user.HouseholdID)
	c.JSON(http.StatusCreated, contribution)
}

func (h *BalanceHandler) DeleteSavingsContribution(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	goalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	contributionID, ok := pathID(c, "contributionId")
	if !ok {
		return
	}

	if err := h.ledger.DeleteSavingsContribution(c.Request.Context(), *user.HouseholdID, goalID, contributionID); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(*user.HouseholdID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
