// Package backend defines the contract shared by the two storage adapters.
// The facade in the parent package selects exactly one implementation at
// initialization and never switches.
package backend

import (
	"errors"

	"github.com/sivaworkplace/money-expense-tracker/internal/domain"
)

// ErrNotFound is returned by Update* when no record with the given id exists
// in the file-backed store. The embedded store treats an update miss as an
// insert and never returns it from Update*.
var ErrNotFound = errors.New("record not found")

// Backend is implemented by the two storage adapters: the embedded SQLite
// store and the whole-document JSON file store. Initialization checks and
// consistency-guard behavior belong to the facade, not to implementations.
type Backend interface {
	// Open prepares the backend: opens connections or files, applies schema
	// upgrades, and seeds defaults into an empty store.
	Open() error
	Close() error

	// Name identifies the backend for logging
	Name() string

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

	ExportData() (domain.AppData, error)
	ImportData(data domain.AppData) error
	ClearAllData() error
}
