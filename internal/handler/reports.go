package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hearth/internal/core"
	"hearth/internal/services"
	"hearth/internal/storage"
)

type ReportHandler struct {
	store   *storage.Store
	service *services.ReportService
	now     func() time.Time
}

func NewReportHandler(store *storage.Store, service *services.ReportService) *ReportHandler {
	return &ReportHandler{store: store, service: service, now: time.Now}
}

// requirePeriod reads month/year query params, defaulting to the
// current month when both are absent.
func (h *ReportHandler) requirePeriod(c *gin.Context) (core.Period, bool) {
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

func (h *ReportHandler) MonthlySummary(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	period, ok := h.requirePeriod(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	summary, err := h.service.ComputeMonthlySummary(ctx, *user.HouseholdID, period)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to compute monthly summary", "error", err, "household_id", *user.HouseholdID)
		respondWriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) CategoryBreakdown(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	period, ok := h.requirePeriod(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	breakdown, err := h.service.ComputeCategoryBreakdown(ctx, *user.HouseholdID, period)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to compute category breakdown", "error", err, "household_id", *user.HouseholdID)
		respondWriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

func (h *ReportHandler) BudgetComparison(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}
	period, ok := h.requirePeriod(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	comparison, err := h.service.ComputeBudgetComparison(ctx, *user.HouseholdID, period)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to compute budget comparison", "error", err, "household_id", *user.HouseholdID)
		respondWriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

// MonthComparison diffs two explicit periods given as month1/year1 and
// month2/year2 query params.
func (h *ReportHandler) MonthComparison(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	first, ok := comparisonPeriod(c, "month1", "year1")
	if !ok {
		return
	}
	second, ok := comparisonPeriod(c, "month2", "year2")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	comparison, err := h.service.ComputeMonthComparison(ctx, *user.HouseholdID, first, second)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to compute month comparison", "error", err, "household_id", *user.HouseholdID)
		respondWriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

func comparisonPeriod(c *gin.Context, monthParam, yearParam string) (core.Period, bool) {
	month, err := strconv.Atoi(c.Query(monthParam))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": monthParam + " query param required"})
		return core.Period{}, false
	}
	year, err := strconv.Atoi(c.Query(yearParam))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": yearParam + " query param required"})
		return core.Period{}, false
	}
	period := core.Period{Month: month, Year: year}
	if err := period.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return core.Period{}, false
	}
	return period, true
}

func (h *ReportHandler) UpcomingBills(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	lookahead := core.DefaultLookaheadDays
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 365 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
			return
		}
		lookahead = parsed
	}

	ctx := c.Request.Context()
	bills, err := h.service.ComputeUpcomingBills(ctx, *user.HouseholdID, lookahead)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to compute upcoming bills", "error", err, "household_id", *user.HouseholdID)
		respondWriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (h *ReportHandler) SettlementBalance(c *gin.Context) {
	user, ok := authedUser(c, h.store)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	balance, err := h.service.ComputeSettlementBalance(ctx, *user.HouseholdID, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to compute settlement balance", "error", err, "household_id", *user.HouseholdID)
		respondWriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}
