package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hearth/internal/auth"
	"hearth/internal/services"
	"hearth/internal/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, *storage.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	tokens := auth.NewTokenService("0123456789abcdef0123456789abcdef", time.Hour)
	router := NewRouter(Deps{
		Store:     store,
		Tokens:    tokens,
		Ledger:    services.NewLedgerService(store, nil),
		Dashboard: services.NewDashboardService(store),
		Reports:   services.NewReportService(store),
		Cache:     NewResponseCache(16, time.Minute),
	})
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func registerUser(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username":    username,
		"email":       username + "@example.com",
		"password":    "correct-horse-battery",
		"displayName": username,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	return resp.Token
}

func setupHousehold(t *testing.T, router *gin.Engine, token string) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/households", token, map[string]any{
		"name":     "Test Household",
		"currency": "EUR",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create household = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_AuthFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	token := registerUser(t, router, "ada")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "ada",
		"password": "correct-horse-battery",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "ada",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("login with wrong password = %d, want 401", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("me = %d, want 200", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("me without token = %d, want 401", rec.Code)
	}
}

func TestRouter_RegisterDuplicateUsername(t *testing.T) {
	router, _ := newTestRouter(t)
	registerUser(t, router, "ada")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username":    "ada",
		"email":       "other@example.com",
		"password":    "correct-horse-battery",
		"displayName": "Other",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register = %d, want 409", rec.Code)
	}
}

func TestRouter_HouseholdRequired(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerUser(t, router, "ada")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/dashboard", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("dashboard without household = %d, want 400", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/expenses", token, map[string]any{
		"categoryId":  1,
		"description": "Milk",
		"amount":      1.50,
		"date":        "2025-06-10",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expense without household = %d, want 400", rec.Code)
	}
}

func TestRouter_ExpenseLifecycleAndDashboard(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerUser(t, router, "ada")
	setupHousehold(t, router, token)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/categories", token, map[string]any{
		"name": "Groceries",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category = %d: %s", rec.Code, rec.Body.String())
	}
	var category struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &category)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/expenses", token, map[string]any{
		"categoryId":  category.ID,
		"description": "Weekly shop",
		"amount":      45.50,
		"date":        "2025-06-10",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense = %d: %s", rec.Code, rec.Body.String())
	}
	var expense struct {
		ID     int64   `json:"id"`
		Amount float64 `json:"amount"`
	}
	decode(t, rec, &expense)
	if expense.Amount != 45.5 {
		t.Errorf("expense amount = %v, want 45.5", expense.Amount)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/dashboard?month=6&year=2025", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard = %d: %s", rec.Code, rec.Body.String())
	}
	var dashboard struct {
		TotalExpenses float64 `json:"totalExpenses"`
		Categories    []struct {
			CategoryName string `json:"categoryName"`
		} `json:"categories"`
	}
	decode(t, rec, &dashboard)
	if dashboard.TotalExpenses != 45.5 {
		t.Errorf("TotalExpenses = %v, want 45.5", dashboard.TotalExpenses)
	}
	if len(dashboard.Categories) != 1 || dashboard.Categories[0].CategoryName != "Groceries" {
		t.Errorf("dashboard categories = %+v", dashboard.Categories)
	}

	// A second expense must show up even though the first response was
	// cached.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/expenses", token, map[string]any{
		"categoryId":  category.ID,
		"description": "Top-up shop",
		"amount":      10.00,
		"date":        "2025-06-12",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create second expense = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/dashboard?month=6&year=2025", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard after write = %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &dashboard)
	if dashboard.TotalExpenses != 55.5 {
		t.Errorf("TotalExpenses after write = %v, want 55.5 (stale cache?)", dashboard.TotalExpenses)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/expenses/9999", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete missing expense = %d, want 404", rec.Code)
	}
}

func TestRouter_InvalidExpensePayload(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerUser(t, router, "ada")
	setupHousehold(t, router, token)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/expenses", token, map[string]any{
		"categoryId": 1,
		"amount":     10.0,
		"date":       "2025-06-10",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expense without description = %d, want 400", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/expenses", token, map[string]any{
		"categoryId":  1,
		"description": "Milk",
		"amount":      10.0,
		"date":        "10/06/2025",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expense with bad date = %d, want 400", rec.Code)
	}
}

func TestRouter_SettlementValidation(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerUser(t, router, "ada")
	setupHousehold(t, router, token)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	var me struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &me)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/settlements", token, map[string]any{
		"toUserId":       me.ID,
		"amount":         10.0,
		"settlementDate": "2025-06-10",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("self settlement = %d, want 400", rec.Code)
	}

	stranger := registerUser(t, router, "bob")
	_ = stranger

	rec = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", stranger, nil)
	var bob struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &bob)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/settlements", token, map[string]any{
		"toUserId":       bob.ID,
		"amount":         10.0,
		"settlementDate": "2025-06-10",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("settlement with user outside household = %d, want 400", rec.Code)
	}
}

func TestRouter_DebtPaymentMovesBalance(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerUser(t, router, "ada")
	setupHousehold(t, router, token)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/debts", token, map[string]any{
		"name":           "Car Loan",
		"originalAmount": 1000.0,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create debt = %d: %s", rec.Code, rec.Body.String())
	}
	var debt struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &debt)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/debts/1/payments", token, map[string]any{
		"amount":      250.0,
		"paymentDate": "2025-06-10",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create debt payment = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/debts", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list debts = %d: %s", rec.Code, rec.Body.String())
	}
	var summary struct {
		TotalDebt   float64 `json:"totalDebt"`
		TotalPaid   float64 `json:"totalPaid"`
		PercentPaid float64 `json:"percentPaid"`
	}
	decode(t, rec, &summary)
	if summary.TotalDebt != 750 {
		t.Errorf("TotalDebt = %v, want 750", summary.TotalDebt)
	}
	if summary.TotalPaid != 250 {
		t.Errorf("TotalPaid = %v, want 250", summary.TotalPaid)
	}
	if summary.PercentPaid != 25 {
		t.Errorf("PercentPaid = %v, want 25", summary.PercentPaid)
	}
}

func TestRouter_DashboardSettlementsPerUser(t *testing.T) {
	router, _ := newTestRouter(t)
	ada := registerUser(t, router, "ada")
	setupHousehold(t, router, ada)

	bob := registerUser(t, router, "bob")
	rec := doJSON(t, router, http.MethodPost, "/api/v1/households/join", bob, map[string]any{
		"householdId": 1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("join household = %d: %s", rec.Code, rec.Body.String())
	}

	var bobMe struct {
		ID int64 `json:"id"`
	}
	decode(t, doJSON(t, router, http.MethodGet, "/api/v1/auth/me", bob, nil), &bobMe)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/settlements", ada, map[string]any{
		"toUserId":       bobMe.ID,
		"amount":         50.0,
		"settlementDate": "2025-06-10",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create settlement = %d: %s", rec.Code, rec.Body.String())
	}

	type settlementView struct {
		Settlements struct {
			UserID     int64   `json:"userId"`
			NetBalance float64 `json:"netBalance"`
		} `json:"settlements"`
	}

	// Warm the cache as ada, then make sure bob still gets his own view.
	var adaView settlementView
	decode(t, doJSON(t, router, http.MethodGet, "/api/v1/dashboard", ada, nil), &adaView)
	if adaView.Settlements.NetBalance != -50 {
		t.Errorf("ada netBalance = %v, want -50", adaView.Settlements.NetBalance)
	}

	var bobView settlementView
	decode(t, doJSON(t, router, http.MethodGet, "/api/v1/dashboard", bob, nil), &bobView)
	if bobView.Settlements.UserID != bobMe.ID {
		t.Errorf("bob settlements.userId = %d, want %d", bobView.Settlements.UserID, bobMe.ID)
	}
	if bobView.Settlements.NetBalance != 50 {
		t.Errorf("bob netBalance = %v, want 50", bobView.Settlements.NetBalance)
	}
}

func TestRouter_IncomeUpdate(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerUser(t, router, "ada")
	setupHousehold(t, router, token)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/income", token, map[string]any{
		"month":  6,
		"year":   2025,
		"amount": 2000.0,
		"source": "Salary",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create income = %d: %s", rec.Code, rec.Body.String())
	}
	var income struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &income)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/income/1", token, map[string]any{
		"month":  6,
		"year":   2025,
		"amount": 2500.0,
		"source": "Salary + bonus",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update income = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/income?month=6&year=2025", token, nil)
	var incomes []struct {
		Amount float64 `json:"amount"`
		Source string  `json:"source"`
	}
	decode(t, rec, &incomes)
	if len(incomes) != 1 || incomes[0].Amount != 2500 || incomes[0].Source != "Salary + bonus" {
		t.Errorf("incomes after update = %+v, want one row at 2500 from Salary + bonus", incomes)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/v1/income/99", token, map[string]any{
		"month":  6,
		"year":   2025,
		"amount": 1.0,
		"source": "Ghost",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("update missing income = %d, want 404", rec.Code)
	}
}

func TestRouter_DebtUpdate(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerUser(t, router, "ada")
	setupHousehold(t, router, token)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/debts", token, map[string]any{
		"name":           "Car Loan",
		"originalAmount": 1000.0,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create debt = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPut, "/api/v1/debts/1", token, map[string]any{
		"name":     "Car Loan (refinanced)",
		"creditor": "Credit Union",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update debt = %d: %s", rec.Code, rec.Body.String())
	}
	var updated struct {
		Name           string  `json:"name"`
		Creditor       string  `json:"creditor"`
		CurrentBalance float64 `json:"currentBalance"`
	}
	decode(t, rec, &updated)
	if updated.Name != "Car Loan (refinanced)" || updated.Creditor != "Credit Union" {
		t.Errorf("updated debt = %+v", updated)
	}
	if updated.CurrentBalance != 1000 {
		t.Errorf("CurrentBalance = %v, want 1000 (edits must not move balances)", updated.CurrentBalance)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/v1/debts/1", token, map[string]any{
		"name":     "Car Loan (refinanced)",
		"isActive": false,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate debt = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/debts", token, nil)
	var summary struct {
		TotalDebt float64 `json:"totalDebt"`
	}
	decode(t, rec, &summary)
	if summary.TotalDebt != 0 {
		t.Errorf("TotalDebt = %v, want 0 after deactivation", summary.TotalDebt)
	}
}
