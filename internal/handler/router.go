package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hearth/internal/auth"
	"hearth/internal/middleware"
	"hearth/internal/services"
	"hearth/internal/storage"
)

// Deps carries everything the router needs to stand up the API.
type Deps struct {
	Store     *storage.Store
	Tokens    *auth.TokenService
	Ledger    *services.LedgerService
	Dashboard *services.DashboardService
	Reports   *services.ReportService
	Cache     *ResponseCache
	Limiter   *middleware.Limiter
}

// NewRouter builds the gin engine with all routes registered. Every
// route under /api/v1 except register and login requires a bearer
// token.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Trace(), middleware.SecurityHeaders(middleware.DefaultSecurityConfig()))
	if deps.Limiter != nil {
		router.Use(deps.Limiter.Middleware())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := NewAuthHandler(deps.Store, deps.Tokens)
	dashboardHandler := NewDashboardHandler(deps.Store, deps.Dashboard, deps.Cache)
	reportHandler := NewReportHandler(deps.Store, deps.Reports)
	ledgerHandler := NewLedgerHandler(deps.Store, deps.Ledger, deps.Cache)
	billHandler := NewBillHandler(deps.Store, deps.Ledger, deps.Cache)
	balanceHandler := NewBalanceHandler(deps.Store, deps.Ledger, deps.Cache)
	settlementHandler := NewSettlementHandler(deps.Store, deps.Ledger, deps.Cache)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	authMiddleware := middleware.NewAuthMiddleware(deps.Tokens)
	authed := v1.Group("")
	authed.Use(authMiddleware.RequireAuth())

	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/households", authHandler.CreateHousehold)
	authed.POST("/households/join", authHandler.JoinHousehold)

	authed.GET("/dashboard", dashboardHandler.Get)

	authed.GET("/reports/monthly-summary", reportHandler.MonthlySummary)
	authed.GET("/reports/category-breakdown", reportHandler.CategoryBreakdown)
	authed.GET("/reports/budget-comparison", reportHandler.BudgetComparison)
	authed.GET("/reports/month-comparison", reportHandler.MonthComparison)
	authed.GET("/reports/upcoming-bills", reportHandler.UpcomingBills)
	authed.GET("/reports/settlement-balance", reportHandler.SettlementBalance)

	authed.GET("/expenses", ledgerHandler.ListExpenses)
	authed.POST("/expenses", ledgerHandler.CreateExpense)
	authed.PUT("/expenses/:id", ledgerHandler.UpdateExpense)
	authed.DELETE("/expenses/:id", ledgerHandler.DeleteExpense)

	authed.GET("/income", ledgerHandler.ListIncome)
	authed.POST("/income", ledgerHandler.CreateIncome)
	authed.PUT("/income/:id", ledgerHandler.UpdateIncome)
	authed.DELETE("/income/:id", ledgerHandler.DeleteIncome)

	authed.GET("/budgets", ledgerHandler.ListBudgets)
	authed.POST("/budgets", ledgerHandler.CreateBudget)
	authed.PUT("/budgets/:id", ledgerHandler.UpdateBudget)
	authed.DELETE("/budgets/:id", ledgerHandler.DeleteBudget)

	authed.GET("/categories", ledgerHandler.ListCategories)
	authed.POST("/categories", ledgerHandler.CreateCategory)

	authed.GET("/bills", billHandler.List)
	authed.POST("/bills", billHandler.Create)
	authed.PUT("/bills/:id", billHandler.Update)
	authed.DELETE("/bills/:id", billHandler.Delete)
	authed.GET("/bills/payments", billHandler.ListPayments)
	authed.POST("/bills/payments", billHandler.CreatePayment)

	authed.GET("/debts", balanceHandler.ListDebts)
	authed.POST("/debts", balanceHandler.CreateDebt)
	authed.PUT("/debts/:id", balanceHandler.UpdateDebt)
	authed.DELETE("/debts/:id", balanceHandler.DeleteDebt)
	authed.POST("/debts/:id/payments", balanceHandler.CreateDebtPayment)
	authed.PUT("/debts/:id/payments/:paymentId", balanceHandler.UpdateDebtPayment)
	authed.DELETE("/debts/:id/payments/:paymentId", balanceHandler.DeleteDebtPayment)

	authed.GET("/savings-goals", balanceHandler.ListSavingsGoals)
	authed.POST("/savings-goals", balanceHandler.CreateSavingsGoal)
	authed.DELETE("/savings-goals/:id", balanceHandler.DeleteSavingsGoal)
	authed.POST("/savings-goals/:id/contributions", balanceHandler.CreateSavingsContribution)
	authed.DELETE("/savings-goals/:id/contributions/:contributionId", balanceHandler.DeleteSavingsContribution)

	authed.GET("/settlements", settlementHandler.List)
	authed.POST("/settlements", settlementHandler.Create)
	authed.DELETE("/settlements/:id", settlementHandler.Delete)

	return router
}
