// Package storage provides the persistence layer for the expense tracker.
//
// Exactly one backend is bound at Initialize time based on the platform flag:
// the embedded SQLite store or the whole-document JSON file store. Both sit
// behind the same Store contract; the consistency guard runs over reads and
// deletes so schema drift is repaired and the default category/account floor
// always holds, regardless of which backend is active.
package storage

import "github.com/sivaworkplace/money-expense-tracker/internal/domain"

// Store is the uniform contract the rest of the application programs against.
// Every mutating call durably persists before returning; nothing is buffered
// in memory only. Operations other than Initialize return ErrNotInitialized
// until Initialize has completed.
//
// Mutating calls are not safe to issue concurrently against the same entity
// kind under the file-backed adapter: the whole document is rewritten per call,
// so overlapping writers are last-write-wins. Callers are expected to finish
// one mutation before starting the next.
type Store interface {
	// Initialize binds the backend and seeds defaults. Idempotent.
	Initialize() error
	// Close releases the underlying backend
	Close() error

	GetAllExpenses() ([]domain.Expense, error)
	AddExpense(e domain.Expense) error
	UpdateExpense(e domain.Expense) error
	DeleteExpense(id string) error

	GetAllIncomes() ([]domain.Income, error)
	AddIncome(i domain.Income) error
	UpdateIncome(i domain.Income) error
	DeleteIncome(id string) error

	GetAllInvestments() ([]domain.Investment, error)
	AddInvestment(inv domain.Investment) error
	UpdateInvestment(inv domain.Investment) error
	DeleteInvestment(id string) error

	GetAllCategories() ([]domain.Category, error)
	AddCategory(c domain.Category) error
	UpdateCategory(c domain.Category) error
	DeleteCategory(id string) error

	GetAllAccounts() ([]domain.BankAccount, error)
	AddAccount(a domain.BankAccount) error
	UpdateAccount(a domain.BankAccount) error
	DeleteAccount(id string) error

	GetAllSavingsGoals() ([]domain.SavingsGoal, error)
	AddSavingsGoal(g domain.SavingsGoal) error
	UpdateSavingsGoal(g domain.SavingsGoal) error
	DeleteSavingsGoal(id string) error

	GetAllTags() ([]domain.Tag, error)
	AddTag(t domain.Tag) error
	DeleteTag(id string) error

	GetBudget() (domain.Budget, error)
	UpdateBudget(b domain.Budget) error

	GetSettings() (domain.Settings, error)
	UpdateSettings(s domain.Settings) error

	// ExportData returns one consolidated snapshot of every entity kind plus
	// singletons. ImportData wholesale replaces the store's contents from a
	// snapshot; partial or merge imports are not supported.
	ExportData() (domain.AppData, error)
	ImportData(data domain.AppData) error

	// ClearAllData resets every entity store and re-seeds the default
	// categories and account, so neither collection is ever left empty.
	ClearAllData() error
}
