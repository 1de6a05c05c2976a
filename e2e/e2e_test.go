//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"finance-tracker-go/internal/config"
	"finance-tracker-go/internal/db"
	identitydomain "finance-tracker-go/internal/domain/identity"
	ledgerdomain "finance-tracker-go/internal/domain/ledger"
	reportdomain "finance-tracker-go/internal/domain/report"
	identityrepo "finance-tracker-go/internal/repository/postgres/identity"
	ledgerrepo "finance-tracker-go/internal/repository/postgres/ledger"
	"finance-tracker-go/internal/transport/httpserver"
	"finance-tracker-go/internal/transport/httpserver/handler"
	"finance-tracker-go/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.New(io.Discard, slog.LevelError, "text")

	cfg := config.Config{
		DB: config.DBConfig{DSN: dsn},
		Auth: config.AuthConfig{
			JWTSecret:  "e2e-secret",
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	identityService := identitydomain.NewService(identityrepo.NewPostgres(dbConn), identitydomain.Config{
		JWTSecret:  cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	ledgerService := ledgerdomain.NewService(ledgerrepo.NewPostgres(dbConn))
	reportService := reportdomain.NewService(ledgerService)

	handlers := handler.New(identityService, ledgerService, reportService, log)
	router := httpserver.NewRouter(cfg, handlers, identityService, log)
	server := httptest.NewServer(router)

	return &testEnv{server: server, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE transactions, categories, users RESTART IDENTITY CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type categoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type transactionResponse struct {
	ID          string      `json:"id"`
	Amount      string      `json:"amount"`
	Description *string     `json:"description"`
	OccurredOn  string      `json:"occurred_on"`
	Category    categoryRef `json:"category"`
	CreatedAt   time.Time   `json:"created_at"`
}

type totalResponse struct {
	Kind  string `json:"kind"`
	Total string `json:"total"`
}

type summaryRowResponse struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Total      string `json:"total"`
}

func registerUser(t *testing.T, client *http.Client, baseURL, name, email string) authResponse {
	t.Helper()

	resp, body := requestJSON(t, client, http.MethodPost, baseURL+"/api/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "supersecret",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		t.Fatalf("decode auth: %v", err)
	}
	if auth.Token == "" || auth.User.ID == "" {
		t.Fatalf("expected user and token, got %s", string(body))
	}
	return auth
}

func createCategory(t *testing.T, client *http.Client, baseURL, token, name, kind string) categoryResponse {
	t.Helper()

	resp, body := requestJSON(t, client, http.MethodPost, baseURL+"/api/categories", token, map[string]string{
		"name": name,
		"kind": kind,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var category categoryResponse
	if err := json.Unmarshal(body, &category); err != nil {
		t.Fatalf("decode category: %v", err)
	}
	return category
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/categories", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.StatusCode, string(body))
	}
	var errResp errorEnvelope
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Error.Code != "invalid_token" {
		t.Fatalf("expected invalid_token, got %q", errResp.Error.Code)
	}

	auth := registerUser(t, client, env.server.URL, "Alice", "alice@example.com")
	if auth.User.Role != "member" {
		t.Fatalf("expected member role, got %q", auth.User.Role)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/register", "", map[string]string{
		"name":     "Alice Again",
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrongpassword",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var login authResponse
	if err := json.Unmarshal(body, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.User.ID != auth.User.ID {
		t.Fatalf("expected same user id")
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/categories", login.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2ECategoryFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	alice := registerUser(t, client, env.server.URL, "Alice", "alice@example.com")
	bob := registerUser(t, client, env.server.URL, "Bob", "bob@example.com")

	category := createCategory(t, client, env.server.URL, alice.Token, "Groceries", "expense")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/categories", alice.Token, map[string]string{
		"name": "Broken",
		"kind": "invalid",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/categories/"+category.ID, bob.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for other user, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPut, env.server.URL+"/api/categories/"+category.ID, alice.Token, map[string]string{
		"name": "Food",
		"kind": "expense",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var updated categoryResponse
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("decode category: %v", err)
	}
	if updated.Name != "Food" {
		t.Fatalf("expected renamed category, got %q", updated.Name)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/categories", bob.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var bobCategories []categoryResponse
	if err := json.Unmarshal(body, &bobCategories); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(bobCategories) != 0 {
		t.Fatalf("expected no categories for bob, got %d", len(bobCategories))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/categories/"+category.ID, alice.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/categories/"+category.ID, alice.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2ETransactionsAndReportsFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	alice := registerUser(t, client, env.server.URL, "Alice", "alice@example.com")
	bob := registerUser(t, client, env.server.URL, "Bob", "bob@example.com")

	salary := createCategory(t, client, env.server.URL, alice.Token, "Salary", "income")
	groceries := createCategory(t, client, env.server.URL, alice.Token, "Groceries", "expense")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/transactions", alice.Token, map[string]interface{}{
		"amount":      "12.50",
		"occurred_on": "2025-02-05",
		"category_id": "00000000-0000-0000-0000-000000000000",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing category, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/transactions", alice.Token, map[string]interface{}{
		"amount":      "2000.00",
		"description": "February salary",
		"occurred_on": "2025-02-01",
		"category_id": salary.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var salaryTx transactionResponse
	if err := json.Unmarshal(body, &salaryTx); err != nil {
		t.Fatalf("decode transaction: %v", err)
	}
	if salaryTx.Category.Name != "Salary" || salaryTx.Category.Kind != "income" {
		t.Fatalf("expected resolved category, got %+v", salaryTx.Category)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/transactions", alice.Token, map[string]interface{}{
		"amount":      "55.40",
		"occurred_on": "2025-02-07",
		"category_id": groceries.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var groceriesTx transactionResponse
	if err := json.Unmarshal(body, &groceriesTx); err != nil {
		t.Fatalf("decode transaction: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/transactions?kind=income", alice.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var incomeList []transactionResponse
	if err := json.Unmarshal(body, &incomeList); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(incomeList) != 1 || incomeList[0].ID != salaryTx.ID {
		t.Fatalf("expected only the salary transaction, got %s", string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/transactions/"+salaryTx.ID, bob.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for other user, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPut, env.server.URL+"/api/transactions/"+groceriesTx.ID, alice.Token, map[string]interface{}{
		"amount":      "60.00",
		"description": "weekly shop",
		"occurred_on": "2025-02-08",
		"category_id": groceries.ID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/reports/total?kind=income", alice.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var total totalResponse
	if err := json.Unmarshal(body, &total); err != nil {
		t.Fatalf("decode total: %v", err)
	}
	if total.Total != "2000.00" {
		t.Fatalf("expected income total 2000.00, got %q", total.Total)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/reports/summary", alice.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var summary []summaryRowResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("expected 2 summary rows, got %d", len(summary))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/reports/summary", bob.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var bobSummary []summaryRowResponse
	if err := json.Unmarshal(body, &bobSummary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(bobSummary) != 0 {
		t.Fatalf("expected empty summary for bob, got %d rows", len(bobSummary))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/categories/"+groceries.ID, alice.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/transactions", alice.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var remaining []transactionResponse
	if err := json.Unmarshal(body, &remaining); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != salaryTx.ID {
		t.Fatalf("expected only the salary transaction to survive, got %s", string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/transactions/"+salaryTx.ID, alice.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/transactions/"+salaryTx.ID, alice.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.StatusCode, string(body))
	}
}
