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

type SettlementHandler struct {
	store  *storage.Store
	ledger *services.LedgerService
	cache  *ResponseCache
}

func NewSettlementHandler(store *storage.Store, ledger *services.LedgerService, responseCache *ResponseCache) *SettlementHandler {
	return &SettlementHandler{store: store, ledger: ledger, cache: responseCache}
}

func (h *SettlementHandler) invalidate(householdID int64) {
	if h.cache != nil {
		h.cache.InvalidateHousehold(householdID)
	}
}

type SettlementRequest struct {
	ToUserID       int64      `json:"toUserId" validate:"required,gt=0"`
	Amount         core.Money `json:"amount"`
	SettlementDate string     `json:"settlementDate" validate:"required"`
	Notes          string     `json:"notes" validate:"max=500"`
}

func (h *SettlementHandler) List(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	settlements, err := h.store.ListSettlements(ctx, *user.HouseholdID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list settlements", "error", err, "household_id", *user.HouseholdID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, settlements)
}

// Create records a payment from the caller to another household
// member. Settling with yourself or someone outside the household is
// rejected.
func (h *SettlementHandler) Create(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	var req SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settlementDate, err := time.Parse(dateLayout, req.SettlementDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "settlementDate must be in YYYY-MM-DD format"})
		return
	}

	settlement := core.Settlement{
		HouseholdID:    *user.HouseholdID,
		FromUserID:     user.ID,
		ToUserID:       req.ToUserID,
		Amount:         req.Amount,
		SettlementDate: settlementDate,
		Notes:          req.Notes,
	}

	ctx := c.Request.Context()
	if err := h.ledger.CreateSettlement(ctx, &settlement); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(settlement.HouseholdID)
	c.JSON(http.StatusCreated, settlement)
}

func (h *SettlementHandler) Delete(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.ledger.DeleteSettlement(c.Request.Context(), *user.HouseholdID, id); err != nil {
		respondWriteError(c, err)
		return
	}

	h.invalidate(*user.HouseholdID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
