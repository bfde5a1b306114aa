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

type DashboardHandler struct {
	store   *storage.Store
	service *services.DashboardService
	cache   *ResponseCache
	now     func() time.Time
}

func NewDashboardHandler(store *storage.Store, service *services.DashboardService, responseCache *ResponseCache) *DashboardHandler {
	return &DashboardHandler{store: store, service: service, cache: responseCache, now: time.Now}
}

// Get serves the composed dashboard for the caller's household,
// defaulting to the current month. Results are cached per (household,
// user, period) until a write invalidates them.
func (h *DashboardHandler) Get(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	period, err := periodFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if period == (core.Period{}) {
		period = core.CurrentPeriod(h.now())
	}

	householdID := *user.HouseholdID
	if h.cache != nil {
		if cached, ok := h.cache.GetDashboard(householdID, user.ID, period); ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	ctx := c.Request.Context()
	dashboard, err := h.service.ComputeDashboard(ctx, householdID, user.ID, period)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to compute dashboard",
			"error", err, "household_id", householdID, "month", period.Month, "year", period.Year)
		respondWriteError(c, err)
		return
	}

	if h.cache != nil {
		h.cache.SetDashboard(householdID, user.ID, period, dashboard)
	}
	c.JSON(http.StatusOK, dashboard)
}
