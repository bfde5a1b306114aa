package handler

import (
	"fmt"
	"time"

	"hearth/internal/cache"
	"hearth/internal/core"
	"hearth/internal/services"
)

// ResponseCache holds computed dashboards per (household, user,
// period). The settlement section is the requesting user's view, so
// members of one household never share an entry. Writes to a
// household's ledger drop all of that household's entries; other
// households keep theirs.
type ResponseCache struct {
	dashboards *cache.LRUCache[services.Dashboard]
}

func NewResponseCache(size int, ttl time.Duration) *ResponseCache {
	return &ResponseCache{dashboards: cache.NewLRUCache[services.Dashboard](size, ttl)}
}

func dashboardKey(householdID, userID int64, period core.Period) string {
	return fmt.Sprintf("dashboard:%d:%d:%04d-%02d", householdID, userID, period.Year, period.Month)
}

func householdPrefix(householdID int64) string {
	return fmt.Sprintf("dashboard:%d:", householdID)
}

func (rc *ResponseCache) GetDashboard(householdID, userID int64, period core.Period) (services.Dashboard, bool) {
	return rc.dashboards.Get(dashboardKey(householdID, userID, period))
}

func (rc *ResponseCache) SetDashboard(householdID, userID int64, period core.Period, d services.Dashboard) {
	rc.dashboards.Set(dashboardKey(householdID, userID, period), d)
}

// InvalidateHousehold drops every cached view for one household.
func (rc *ResponseCache) InvalidateHousehold(householdID int64) int {
	return rc.dashboards.DeletePrefix(householdPrefix(householdID))
}

// Cleaner exposes the underlying cache for the cleanup manager.
func (rc *ResponseCache) Cleaner() cache.Cleaner {
	return rc.dashboards
}
