package server

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", h.HandleListExpenses)
		r.Post("/", h.HandleAddExpense)
		r.Put("/{id}", h.HandleUpdateExpense)
		r.Delete("/{id}", h.HandleDeleteExpense)
	})

	r.Route("/incomes", func(r chi.Router) {
		r.Get("/", h.HandleListIncomes)
		r.Post("/", h.HandleAddIncome)
		r.Put("/{id}", h.HandleUpdateIncome)
		r.Delete("/{id}", h.HandleDeleteIncome)
	})

	r.Route("/investments", func(r chi.Router) {
		r.Get("/", h.HandleListInvestments)
		r.Post("/", h.HandleAddInvestment)
		r.Put("/{id}", h.HandleUpdateInvestment)
		r.Delete("/{id}", h.HandleDeleteInvestment)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.HandleListCategories)
		r.Post("/", h.HandleAddCategory)
		r.Put("/{id}", h.HandleUpdateCategory)
		r.Delete("/{id}", h.HandleDeleteCategory)
	})

	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", h.HandleListAccounts)
		r.Post("/", h.HandleAddAccount)
		r.Put("/{id}", h.HandleUpdateAccount)
		r.Delete("/{id}", h.HandleDeleteAccount)
	})

	r.Route("/savings-goals", func(r chi.Router) {
		r.Get("/", h.HandleListSavingsGoals)
		r.Post("/", h.HandleAddSavingsGoal)
		r.Put("/{id}", h.HandleUpdateSavingsGoal)
		r.Delete("/{id}", h.HandleDeleteSavingsGoal)
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", h.HandleListTags)
		r.Post("/", h.HandleAddTag)
		r.Delete("/{id}", h.HandleDeleteTag)
	})

	r.Route("/budget", func(r chi.Router) {
		r.Get("/", h.HandleGetBudget)
		r.Put("/", h.HandleUpdateBudget)
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.HandleGetSettings)
		r.Put("/", h.HandleUpdateSettings)
	})

	r.Route("/data", func(r chi.Router) {
		r.Get("/export", h.HandleExportData)
		r.Get("/export/expenses.xlsx", h.HandleExportExpensesXLSX)
		r.Post("/import", h.HandleImportData)
		r.Post("/clear", h.HandleClearData)
	})

	if h.photos != nil {
		r.Route("/photos", func(r chi.Router) {
			r.Post("/", h.HandleUploadPhoto)
			r.Get("/{id}", h.HandleGetPhoto)
			r.Delete("/{id}", h.HandleDeletePhoto)
		})
	}

	if h.backups != nil {
		r.Route("/backups", func(r chi.Router) {
			r.Get("/", h.HandleListBackups)
			r.Post("/", h.HandleTriggerBackup)
			r.Post("/restore", h.HandleRestoreBackup)
		})
	}
}
