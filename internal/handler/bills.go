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

// BillHandler serves recurring bill templates and their payments.
type BillHandler struct {
	store  *storage.Store
	ledger *services.LedgerService
	cache  *ResponseCache
}

func NewBillHandler(store *storage.Store, ledger *services.LedgerService, responseCache *ResponseCache) *BillHandler {
	return &BillHandler{store: store, ledger: ledger, cache: responseCache}
}

func (h *BillHandler) invalidate(householdID int64) {
	if h.cache != nil {
		h.cache.InvalidateHousehold(householdID)
	}
}

type RecurringBillRequest struct {
	CategoryID         int64       `json:"categoryId" validate:"required,gt=0"`
	Description        string      `json:"description" validate:"required,max=200"`
	Amount             *core.Money `json:"amount"`
	IsVariableAmount   bool        `json:"isVariableAmount"`
	DayOfMonth         *int        `json:"dayOfMonth" validate:"omitempty,gte=1,lte=31"`
	ReminderDaysBefore int         `json:"reminderDaysBefore" validate:"gte=0,lte=31"`
	PaidByUserID       *int64      `json:"paidByUserId"`
	Notes              string      `json:"notes" validate:"max=500"`
}

func (req RecurringBillRequest) toBill(householdID int64) core.RecurringBill {
	return core.RecurringBill{
		HouseholdID:        householdID,
		CategoryID:         req.CategoryID,
		Description:        req.Description,
		Amount:             req.Amount,
		IsVariableAmount:   req.IsVariableAmount,
		DayOfMonth:         req.DayOfMonth,
		ReminderDaysBefore: req.ReminderDaysBefore,
		IsActive:           true,
		PaidByUserID:       req.PaidByUserID,
		Notes:              req.Notes,
	}
}

func (h *BillHandler) List(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	bills, err := h.store.ListActiveRecurringBills(ctx, *user.HouseholdID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list recurring bills", "error", err, "household_id", *user.HouseholdID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (h *BillHandler) Create(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	var req RecurringBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill := req.toBill(*user.HouseholdID)
	if err := bill.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.store.CreateRecurringBill(ctx, &bill); err != nil {
		slog.ErrorContext(ctx, "Failed to create recurring bill", "error", err, "household_id", *user.HouseholdID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	h.invalidate(bill.HouseholdID)
	c.JSON(http.StatusCreated, bill)
}

func (h *BillHandler) Update(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req RecurringBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill := req.toBill(*user.HouseholdID)
	bill.ID = id
	if err := bill.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.store.UpdateRecurringBill(ctx, bill); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(bill.HouseholdID)
	c.JSON(http.StatusOK, bill)
}

func (h *BillHandler) Delete(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteRecurringBill(c.Request.Context(), *user.HouseholdID, id); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(*user.HouseholdID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type BillPaymentRequest struct {
	RecurringBillID int64      `json:"recurringBillId" validate:"required,gt=0"`
	Month           int        `json:"month" validate:"required,gte=1,lte=12"`
	Year            int        `json:"year" validate:"required,gte=1"`
	Amount          core.Money `json:"amount"`
	PaidDate        string     `json:"paidDate" validate:"required"`
	Notes           string     `json:"notes" validate:"max=500"`
}

func (h *BillHandler) ListPayments(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	payments, err := h.store.ListBillPayments(ctx, *user.HouseholdID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list bill payments", "error", err, "household_id", *user.HouseholdID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// CreatePayment records a bill as paid for a period, which removes it
// from that period's upcoming projection.
func (h *BillHandler) CreatePayment(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	var req BillPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paidDate, err := time.Parse(dateLayout, req.PaidDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paidDate must be in YYYY-MM-DD format"})
		return
	}

	payment := core.BillPayment{
		RecurringBillID: req.RecurringBillID,
		Month:           req.Month,
		Year:            req.Year,
		Amount:          req.Amount,
		PaidDate:        paidDate,
		PaidByUserID:    &user.ID,
		Notes:           req.Notes,
	}

	ctx := c.Request.Context()
	if err := h.ledger.CreateBillPayment(ctx, *user.HouseholdID, &payment); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(*user.HouseholdID)
	c.JSON(http.StatusCreated, payment)
}
