package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sivaworkplace/money-expense-tracker/internal/backup"
	"github.com/sivaworkplace/money-expense-tracker/internal/domain"
	"github.com/sivaworkplace/money-expense-tracker/internal/export"
	"github.com/sivaworkplace/money-expense-tracker/internal/photos"
	"github.com/sivaworkplace/money-expense-tracker/internal/storage"
)

// Handler handles all persistence HTTP requests
type Handler struct {
	store   storage.Store
	photos  *photos.Store
	backups *backup.Manager
	log     zerolog.Logger
}

// NewHandler creates the API handler. photos and backups may be nil when the
// corresponding features are disabled.
func NewHandler(store storage.Store, photoStore *photos.Store, backups *backup.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		store:   store,
		photos:  photoStore,
		backups: backups,
		log:     log.With().Str("handler", "api").Logger(),
	}
}

// stamp fills generated fields on create: id when absent, timestamps always
func stamp(id *string, createdAt, updatedAt *string) {
	if *id == "" {
		*id = domain.NewID()
	}
	now := domain.NowISO()
	if *createdAt == "" {
		*createdAt = now
	}
	*updatedAt = now
}

// Expense handlers

func (h *Handler) HandleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.store.GetAllExpenses()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, expenses)
}

func (h *Handler) HandleAddExpense(w http.ResponseWriter, r *http.Request) {
	var e domain.Expense
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	stamp(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err := domain.ValidateExpense(e); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.AddExpense(e); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, e)
}

func (h *Handler) HandleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var e domain.Expense
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	e.ID = chi.URLParam(r, "id")
	e.UpdatedAt = domain.NowISO()
	if err := domain.ValidateExpense(e); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.UpdateExpense(e); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, e)
}

func (h *Handler) HandleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteExpense(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Income handlers

func (h *Handler) HandleListIncomes(w http.ResponseWriter, r *http.Request) {
	incomes, err := h.store.GetAllIncomes()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, incomes)
}

func (h *Handler) HandleAddIncome(w http.ResponseWriter, r *http.Request) {
	var in domain.Income
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	stamp(&in.ID, &in.CreatedAt, &in.UpdatedAt)
	if err := domain.ValidateIncome(in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.AddIncome(in); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, in)
}

func (h *Handler) HandleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	var in domain.Income
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	in.ID = chi.URLParam(r, "id")
	in.UpdatedAt = domain.NowISO()
	if err := domain.ValidateIncome(in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.UpdateIncome(in); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, in)
}

func (h *Handler) HandleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteIncome(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Investment handlers

func (h *Handler) HandleListInvestments(w http.ResponseWriter, r *http.Request) {
	investments, err := h.store.GetAllInvestments()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, investments)
}

func (h *Handler) HandleAddInvestment(w http.ResponseWriter, r *http.Request) {
	var inv domain.Investment
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	stamp(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	inv.Recalculate()
	if err := domain.ValidateInvestment(inv); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.AddInvestment(inv); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, inv)
}

func (h *Handler) HandleUpdateInvestment(w http.ResponseWriter, r *http.Request) {
	var inv domain.Investment
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	inv.ID = chi.URLParam(r, "id")
	inv.UpdatedAt = domain.NowISO()
	inv.Recalculate()
	if err := domain.ValidateInvestment(inv); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.UpdateInvestment(inv); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, inv)
}

func (h *Handler) HandleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteInvestment(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Category handlers

func (h *Handler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.GetAllCategories()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) HandleAddCategory(w http.ResponseWriter, r *http.Request) {
	var c domain.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if c.ID == "" {
		c.ID = domain.NewID()
	}
	c.IsCustom = true
	if c.Type == "" {
		c.Type = domain.CategoryBoth
	}
	if err := domain.ValidateCategoryName(c.Name); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.AddCategory(c); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var c domain.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	c.ID = chi.URLParam(r, "id")
	if err := domain.ValidateCategoryName(c.Name); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.UpdateCategory(c); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCategory(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Account handlers

func (h *Handler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.GetAllAccounts()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, accounts)
}

func (h *Handler) HandleAddAccount(w http.ResponseWriter, r *http.Request) {
	var acc domain.BankAccount
	if err := json.NewDecoder(r.Body).Decode(&acc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	stamp(&acc.ID, &acc.CreatedAt, &acc.UpdatedAt)
	if err := h.store.AddAccount(acc); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, acc)
}

func (h *Handler) HandleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var acc domain.BankAccount
	if err := json.NewDecoder(r.Body).Decode(&acc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	acc.ID = chi.URLParam(r, "id")
	acc.UpdatedAt = domain.NowISO()
	if err := h.store.UpdateAccount(acc); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, acc)
}

func (h *Handler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAccount(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Savings goal handlers

func (h *Handler) HandleListSavingsGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.store.GetAllSavingsGoals()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, goals)
}

func (h *Handler) HandleAddSavingsGoal(w http.ResponseWriter, r *http.Request) {
	var g domain.SavingsGoal
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	stamp(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err := h.store.AddSavingsGoal(g); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, g)
}

func (h *Handler) HandleUpdateSavingsGoal(w http.ResponseWriter, r *http.Request) {
	var g domain.SavingsGoal
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	g.ID = chi.URLParam(r, "id")
	g.UpdatedAt = domain.NowISO()
	if err := h.store.UpdateSavingsGoal(g); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, g)
}

func (h *Handler) HandleDeleteSavingsGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteSavingsGoal(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Tag handlers

func (h *Handler) HandleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.GetAllTags()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tags)
}

func (h *Handler) HandleAddTag(w http.ResponseWriter, r *http.Request) {
	var t domain.Tag
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if t.ID == "" {
		t.ID = domain.NewID()
	}
	if t.CreatedAt == "" {
		t.CreatedAt = domain.NowISO()
	}
	if err := h.store.AddTag(t); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) HandleDeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTag(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Singleton handlers

func (h *Handler) HandleGetBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := h.store.GetBudget()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, budget)
}

func (h *Handler) HandleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var b domain.Budget
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := domain.ValidateBudget(b); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.UpdateBudget(b); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, b)
}

func (h *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var s domain.Settings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.store.UpdateSettings(s); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

// Data handlers

func (h *Handler) HandleExportData(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.ExportData()
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=expenses_export.json")
	if err := export.WriteJSON(w, data); err != nil {
		h.log.Error().Err(err).Msg("Failed to write export")
	}
}

func (h *Handler) HandleExportExpensesXLSX(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.store.GetAllExpenses()
	if err != nil {
		h.writeError(w, err)
		return
	}
	categories, err := h.store.GetAllCategories()
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=expenses.xlsx")
	if err := export.WriteExpensesXLSX(w, expenses, categories); err != nil {
		h.log.Error().Err(err).Msg("Failed to write spreadsheet")
	}
}

func (h *Handler) HandleImportData(w http.ResponseWriter, r *http.Request) {
	data, err := export.ParseJSON(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.ImportData(data); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

func (h *Handler) HandleClearData(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearAllData(); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Photo handlers

func (h *Handler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "Missing photo field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	id, err := h.photos.Save(file, header.Filename)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) HandleGetPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rc, err := h.photos.Open(id)
	if err != nil {
		http.Error(w, "Photo not found", http.StatusNotFound)
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(filepath.Ext(id)); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	if _, err := io.Copy(w, rc); err != nil {
		h.log.Error().Err(err).Str("photo", id).Msg("Failed to stream photo")
	}
}

func (h *Handler) HandleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.photos.Delete(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Backup handlers

func (h *Handler) HandleTriggerBackup(w http.ResponseWriter, r *http.Request) {
	path, err := h.backups.Backup()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"archive": path})
}

func (h *Handler) HandleListBackups(w http.ResponseWriter, r *http.Request) {
	paths, err := h.backups.List()
	if err != nil {
		h.writeError(w, err)
		return
	}
	if paths == nil {
		paths = []string{}
	}
	h.writeJSON(w, http.StatusOK, paths)
}

func (h *Handler) HandleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Archive string `json:"archive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Archive == "" {
		http.Error(w, "Missing archive path", http.StatusBadRequest)
		return
	}
	if err := h.backups.Restore(req.Archive); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

// writeJSON encodes a response body
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError maps storage errors to HTTP statuses
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, storage.ErrNotInitialized):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		h.log.Error().Err(err).Msg("Request failed")
		http.Error(w, fmt.Sprintf("Internal error: %v", err), http.StatusInternalServerError)
	}
}
