package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivaworkplace/money-expense-tracker/internal/backup"
	"github.com/sivaworkplace/money-expense-tracker/internal/domain"
	"github.com/sivaworkplace/money-expense-tracker/internal/photos"
	"github.com/sivaworkplace/money-expense-tracker/internal/storage"
	"github.com/sivaworkplace/money-expense-tracker/internal/storage/sqlitestore"
)

func setupServer(t *testing.T) *Server {
	t.Helper()

	store := storage.NewWithBackend(sqlitestore.New(sqlitestore.Config{Path: ":memory:"}, zerolog.Nop()), zerolog.Nop())
	require.NoError(t, store.Initialize())
	t.Cleanup(func() { store.Close() })

	return New(Config{
		Log:     zerolog.Nop(),
		Store:   store,
		Photos:  photos.New(t.TempDir(), zerolog.Nop()),
		Backups: backup.NewManager(store, t.TempDir(), 5, zerolog.Nop()),
		Port:    0,
		DevMode: true,
	})
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv := setupServer(t)
	w := doJSON(t, srv, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestExpenseEndpoints(t *testing.T) {
	srv := setupServer(t)

	today := time.Now().UTC().Format(time.RFC3339)
	w := doJSON(t, srv, "POST", "/api/expenses/", domain.Expense{
		Amount:        50,
		Category:      "food",
		Description:   "lunch",
		Date:          today,
		PaymentMethod: domain.PaymentCash,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created domain.Expense
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.NotEmpty(t, created.ID, "server assigns ids")
	assert.NotEmpty(t, created.CreatedAt)

	w = doJSON(t, srv, "GET", "/api/expenses/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var expenses []domain.Expense
	require.NoError(t, json.NewDecoder(w.Body).Decode(&expenses))
	require.Len(t, expenses, 1)
	assert.Equal(t, 50.0, expenses[0].Amount)

	created.Amount = 75
	w = doJSON(t, srv, "PUT", "/api/expenses/"+created.ID, created)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, srv, "DELETE", "/api/expenses/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAddExpense_ValidationRejected(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, "POST", "/api/expenses/", domain.Expense{
		Amount:      0, // invalid
		Category:    "food",
		Description: "lunch",
		Date:        "2025-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddExpense_MalformedBody(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest("POST", "/api/expenses/", bytes.NewBufferString("{oops"))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvestmentEndpoint_RecomputesDerivedFields(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, "POST", "/api/investments/", domain.Investment{
		Name:         "Fund",
		Type:         domain.InvestmentMutualFunds,
		Amount:       1000,
		CurrentValue: 1200,
		PurchaseDate: "2024-01-01",
		// Client-supplied garbage must be overwritten
		Returns:           -1,
		ReturnsPercentage: -1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created domain.Investment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, 200.0, created.Returns)
	assert.Equal(t, 20.0, created.ReturnsPercentage)
}

func TestCategoryEndpoints(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, "GET", "/api/categories/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []domain.Category
	require.NoError(t, json.NewDecoder(w.Body).Decode(&categories))
	assert.Len(t, categories, 15)

	w = doJSON(t, srv, "POST", "/api/categories/", domain.Category{Name: "Pets", Icon: "🐕", Color: "#123456"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.Category
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.True(t, created.IsCustom)
	assert.Equal(t, domain.CategoryBoth, created.Type)

	w = doJSON(t, srv, "POST", "/api/categories/", domain.Category{Name: "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, "POST", "/api/categories/", domain.Category{Name: strings.Repeat("a", 51)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBudgetEndpoints(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, "PUT", "/api/budget/", domain.Budget{
		Monthly:    5000,
		Categories: map[string]float64{"food": 1500},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, srv, "GET", "/api/budget/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var budget domain.Budget
	require.NoError(t, json.NewDecoder(w.Body).Decode(&budget))
	assert.Equal(t, 5000.0, budget.Monthly)

	w = doJSON(t, srv, "PUT", "/api/budget/", domain.Budget{Monthly: -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, "GET", "/api/settings/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var settings domain.Settings
	require.NoError(t, json.NewDecoder(w.Body).Decode(&settings))
	assert.Equal(t, "INR", settings.Currency)

	settings.Theme = "dark"
	w = doJSON(t, srv, "PUT", "/api/settings/", settings)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, "GET", "/api/settings/", nil)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&settings))
	assert.Equal(t, "dark", settings.Theme)
}

func TestDataEndpoints(t *testing.T) {
	srv := setupServer(t)

	today := time.Now().UTC().Format(time.RFC3339)
	w := doJSON(t, srv, "POST", "/api/expenses/", domain.Expense{
		Amount: 50, Category: "food", Description: "lunch", Date: today, PaymentMethod: domain.PaymentCash,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Export carries the expense
	w = doJSON(t, srv, "GET", "/api/data/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	var snapshot domain.AppData
	require.NoError(t, json.NewDecoder(w.Body).Decode(&snapshot))
	assert.Len(t, snapshot.Expenses, 1)

	// Clear resets to defaults
	w = doJSON(t, srv, "POST", "/api/data/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, "GET", "/api/expenses/", nil)
	var expenses []domain.Expense
	require.NoError(t, json.NewDecoder(w.Body).Decode(&expenses))
	assert.Empty(t, expenses)

	// Import brings the snapshot back
	w = doJSON(t, srv, "POST", "/api/data/import", snapshot)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, "GET", "/api/expenses/", nil)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&expenses))
	assert.Len(t, expenses, 1)
}

func TestExpensesXLSXEndpoint(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, "GET", "/api/data/export/expenses.xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())
}

func TestPhotoEndpoints(t *testing.T) {
	srv := setupServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photo", "receipt.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/photos/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var uploaded map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&uploaded))
	id := uploaded["id"]
	require.NotEmpty(t, id)

	w = doJSON(t, srv, "GET", "/api/photos/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png bytes", w.Body.String())

	w = doJSON(t, srv, "DELETE", "/api/photos/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, srv, "GET", "/api/photos/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBackupEndpoints(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, "POST", "/api/backups/", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var triggered map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&triggered))
	archive := triggered["archive"]
	require.NotEmpty(t, archive)

	w = doJSON(t, srv, "GET", "/api/backups/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var archives []string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&archives))
	assert.Len(t, archives, 1)

	w = doJSON(t, srv, "POST", "/api/backups/restore", map[string]string{"archive": archive})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestUpdateExpense_NotFoundOnFileBackend(t *testing.T) {
	// The embedded backend upserts on miss, so the 404 path needs the file
	// backend. Covered in the storage package; here we only pin the status
	// mapping for a storage error.
	srv := setupServer(t)

	w := doJSON(t, srv, "DELETE", fmt.Sprintf("/api/expenses/%s", "never-existed"), nil)
	assert.Equal(t, http.StatusNoContent, w.Code, "idempotent delete maps to 204")
}
