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

const dateLayout = "2006-01-02"

// LedgerHandler serves the expense, income, budget, and category
// endpoints. Reads go straight to the store; writes go through the
// ledger service and drop the household's cached views.
type LedgerHandler struct {
	store  *storage.Store
	ledger *services.LedgerService
	cache  *ResponseCache
	now    func() time.Time
}

func NewLedgerHandler(store *storage.Store, ledger *services.LedgerService, responseCache *ResponseCache) *LedgerHandler {
	return &LedgerHandler{store: store, ledger: ledger, cache: responseCache, now: time.Now}
}

func (h *LedgerHandler) invalidate(householdID int64) {
	if h.cache != nil {
		h.cache.InvalidateHousehold(householdID)
	}
}

func (h *LedgerHandler) requirePeriod(c *gin.Context) (core.Period, bool) {
	period, err := periodFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return core.Period{}, false
	}
	if period == (core.Period{}) {
		period = core.CurrentPeriod(h.now())
	}
	return period, true
}

// --- expenses ---

type ExpenseRequest struct {
	CategoryID   int64      `json:"categoryId" validate:"required,gt=0"`
	Description  string     `json:"description" validate:"required,max=200"`
	Amount       core.Money `json:"amount"`
	Date         string     `json:"date" validate:"required"`
	PaidByUserID *int64     `json:"paidByUserId"`
	Notes        string     `json:"notes" validate:"max=500"`
}

func (h *LedgerHandler) ListExpenses(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	period, ok := h.requirePeriod(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	expenses, err := h.store.ListExpenses(ctx, *user.HouseholdID, period)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list expenses", "error", err, "household_id", *user.HouseholdID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *LedgerHandler) CreateExpense(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in YYYY-MM-DD format"})
		return
	}

	payer := req.PaidByUserID
	if payer == nil {
		payer = &user.ID
	}

	expense := core.Expense{
		HouseholdID:  *user.HouseholdID,
		CategoryID:   req.CategoryID,
		Description:  req.Description,
		Amount:       req.Amount,
		Date:         date,
		PaidByUserID: payer,
		Notes:        req.Notes,
	}

	ctx := c.Request.Context()
	if err := h.ledger.CreateExpense(ctx, &expense); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(expense.HouseholdID)
	c.JSON(http.StatusCreated, expense)
}

func (h *LedgerHandler) UpdateExpense(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in YYYY-MM-DD format"})
		return
	}

	expense := core.Expense{
		ID:           id,
		HouseholdID:  *user.HouseholdID,
		CategoryID:   req.CategoryID,
		Description:  req.Description,
		Amount:       req.Amount,
		Date:         date,
		PaidByUserID: req.PaidByUserID,
		Notes:        req.Notes,
	}

	ctx := c.Request.Context()
	if err := h.ledger.UpdateExpense(ctx, expense); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(expense.HouseholdID)
	c.JSON(http.StatusOK, expense)
}

func (h *LedgerHandler) DeleteExpense(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.ledger.DeleteExpense(c.Request.Context(), *user.HouseholdID, id); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(*user.HouseholdID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- income ---

type IncomeRequest struct {
	UserID       *int64     `json:"userId"`
	Month        int        `json:"month" validate:"required,gte=1,lte=12"`
	Year         int        `json:"year" validate:"required,gte=1"`
	Amount       core.Money `json:"amount"`
	Source       string     `json:"source" validate:"required,max=100"`
	ReceivedDate *string    `json:"receivedDate"`
}

func (h *LedgerHandler) ListIncome(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	period, ok := h.requirePeriod(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	incomes, err := h.store.ListIncome(ctx, *user.HouseholdID, period)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list income", "error", err, "household_id", *user.HouseholdID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, incomes)
}

func (h *LedgerHandler) CreateIncome(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	var req IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := user.ID
	if req.UserID != nil {
		userID = *req.UserID
	}

	income := core.Income{
		HouseholdID: *user.HouseholdID,
		UserID:      userID,
		Month:       req.Month,
		Year:        req.Year,
		Amount:      req.Amount,
		Source:      req.Source,
	}
	if req.ReceivedDate != nil {
		received, err := time.Parse(dateLayout, *req.ReceivedDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "receivedDate must be in YYYY-MM-DD format"})
			return
		}
		income.ReceivedDate = &received
	}

	ctx := c.Request.Context()
	if err := h.ledger.CreateIncome(ctx, &income); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(income.HouseholdID)
	c.JSON(http.StatusCreated, income)
}

func (h *LedgerHandler) UpdateIncome(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := user.ID
	if req.UserID != nil {
		userID = *req.UserID
	}

	income := core.Income{
		ID:          id,
		HouseholdID: *user.HouseholdID,
		UserID:      userID,
		Month:       req.Month,
		Year:        req.Year,
		Amount:      req.Amount,
		Source:      req.Source,
	}
	if req.ReceivedDate != nil {
		received, err := time.Parse(dateLayout, *req.ReceivedDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "receivedDate must be in YYYY-MM-DD format"})
			return
		}
		income.ReceivedDate = &received
	}

	if err := h.ledger.UpdateIncome(c.Request.Context(), income); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(income.HouseholdID)
	c.JSON(http.StatusOK, income)
}

func (h *LedgerHandler) DeleteIncome(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.ledger.DeleteIncome(c.Request.Context(), *user.HouseholdID, id); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(*user.HouseholdID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- budgets ---

type BudgetRequest struct {
	Month      int        `json:"month" validate:"required,gte=1,lte=12"`
	Year       int        `json:"year" validate:"required,gte=1"`
	CategoryID *int64     `json:"categoryId"`
	Amount     core.Money `json:"amount"`
}

func (h *LedgerHandler) ListBudgets(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	period, ok := h.requirePeriod(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	budgets, err := h.store.ListBudgets(ctx, *user.HouseholdID, period)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list budgets", "error", err, "household_id", *user.HouseholdID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, budgets)
}

func (h *LedgerHandler) CreateBudget(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	budget := core.Budget{
		HouseholdID: *user.HouseholdID,
		Month:       req.Month,
		Year:        req.Year,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
	}

	ctx := c.Request.Context()
	if err := h.ledger.CreateBudget(ctx, &budget); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(budget.HouseholdID)
	c.JSON(http.StatusCreated, budget)
}

func (h *LedgerHandler) UpdateBudget(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	budget := core.Budget{
		ID:          id,
		HouseholdID: *user.HouseholdID,
		Month:       req.Month,
		Year:        req.Year,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
	}

	ctx := c.Request.Context()
	if err := h.ledger.UpdateBudget(ctx, budget); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(budget.HouseholdID)
	c.JSON(http.StatusOK, budget)
}

func (h *LedgerHandler) DeleteBudget(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.ledger.DeleteBudget(c.Request.Context(), *user.HouseholdID, id); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(*user.HouseholdID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- categories ---

type CategoryRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	ParentID *int64 `json:"parentId"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Icon     string `json:"icon" validate:"max=50"`
	Color    string `json:"color" validate:"max=20"`
}

func (h *LedgerHandler) ListCategories(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	categories, err := h.store.ListCategories(ctx, *user.HouseholdID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list categories", "error", err, "household_id", *user.HouseholdID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *LedgerHandler) CreateCategory(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	var req CategoryRequest
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

	category := core.Category{
		HouseholdID: *user.HouseholdID,
		Name:        req.Name,
		ParentID:    req.ParentID,
		Priority:    priority,
		Icon:        req.Icon,
		Color:       req.Color,
		IsActive:    true,
	}

	ctx := c.Request.Context()
	if err := h.store.CreateCategory(ctx, &category); err != nil {
		slog.ErrorContext(ctx, "Failed to create category", "error", err, "household_id", *user.HouseholdID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	h.invalidate(category.HouseholdID)
	c.JSON(http.StatusCreated, category)
}
