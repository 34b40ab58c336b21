package storage

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sivaworkplace/money-expense-tracker/internal/config"
	"github.com/sivaworkplace/money-expense-tracker/internal/domain"
	"github.com/sivaworkplace/money-expense-tracker/internal/storage/backend"
	"github.com/sivaworkplace/money-expense-tracker/internal/storage/filestore"
	"github.com/sivaworkplace/money-expense-tracker/internal/storage/sqlitestore"
)

// Facade implements Store over exactly one backend adapter, selected once at
// construction from the platform flag and never switched. The consistency
// guard runs over category and settings reads and after category/account
// deletions.
type Facade struct {
	mu          sync.Mutex
	backend     backend.Backend
	guard       *Guard
	initialized bool
	log         zerolog.Logger
}

// New creates a storage facade bound to the backend matching the platform:
// native platforms get the file-backed document store, everything else gets
// the embedded SQLite store. The binding is fixed for the process lifetime.
func New(cfg *config.Config, log zerolog.Logger) *Facade {
	var b backend.Backend
	if cfg.Platform == config.PlatformNative {
		b = filestore.New(filestore.Config{
			Filename: filestore.DefaultFilename,
			Locations: []filestore.Location{
				{Name: "data", Dir: cfg.DataDir},
				{Name: "documents", Dir: cfg.DocumentsDir},
				{Name: "cache", Dir: cfg.CacheDir},
			},
		}, log)
	} else {
		b = sqlitestore.New(sqlitestore.Config{Path: cfg.DatabasePath}, log)
	}
	return NewWithBackend(b, log)
}

// NewWithBackend creates a facade over an explicit backend. Used by tests and
// by callers that already constructed an adapter.
func NewWithBackend(b backend.Backend, log zerolog.Logger) *Facade {
	return &Facade{
		backend: b,
		guard:   NewGuard(log),
		log:     log.With().Str("component", "storage").Str("backend", b.Name()).Logger(),
	}
}

// Initialize opens the backend. Idempotent: a second call is a no-op.
func (f *Facade) Initialize() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.initialized {
		return nil
	}
	if err := f.backend.Open(); err != nil {
		return fmt.Errorf("failed to initialize %s backend: %w", f.backend.Name(), err)
	}
	f.initialized = true
	f.log.Info().Msg("Storage initialized")
	return nil
}

// Close releases the backend. Subsequent operations return ErrNotInitialized.
func (f *Facade) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.initialized {
		return nil
	}
	f.initialized = false
	return f.backend.Close()
}

// ready reports whether Initialize has completed
func (f *Facade) ready() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.initialized {
		return ErrNotInitialized
	}
	return nil
}

// Expense operations

func (f *Facade) GetAllExpenses() ([]domain.Expense, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	expenses, err := f.backend.GetAllExpenses()
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return expenses, nil
}

func (f *Facade) AddExpense(e domain.Expense) error {
	if err := f.ready(); err != nil {
		return err
	}
	if err := f.backend.AddExpense(e); err != nil {
		return fmt.Errorf("failed to save expense %s: %w", e.ID, err)
	}
	return nil
}

func (f *Facade) UpdateExpense(e domain.Expense) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.UpdateExpense(e)
}

func (f *Facade) DeleteExpense(id string) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.DeleteExpense(id)
}

// Income operations

func (f *Facade) GetAllIncomes() ([]domain.Income, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	incomes, err := f.backend.GetAllIncomes()
	if err != nil {
		return nil, err
	}
	if incomes == nil {
		incomes = []domain.Income{}
	}
	return incomes, nil
}

func (f *Facade) AddIncome(i domain.Income) error {
	if err := f.ready(); err != nil {
		return err
	}
	if err := f.backend.AddIncome(i); err != nil {
		return fmt.Errorf("failed to save income %s: %w", i.ID, err)
	}
	return nil
}

func (f *Facade) UpdateIncome(i domain.Income) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.UpdateIncome(i)
}

func (f *Facade) DeleteIncome(id string) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.DeleteIncome(id)
}

// Investment operations

func (f *Facade) GetAllInvestments() ([]domain.Investment, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	investments, err := f.backend.GetAllInvestments()
	if err != nil {
		return nil, err
	}
	if investments == nil {
		investments = []domain.Investment{}
	}
	return investments, nil
}

func (f *Facade) AddInvestment(inv domain.Investment) error {
	if err := f.ready(); err != nil {
		return err
	}
	if err := f.backend.AddInvestment(inv); err != nil {
		return fmt.Errorf("failed to save investment %s: %w", inv.ID, err)
	}
	return nil
}

func (f *Facade) UpdateInvestment(inv domain.Investment) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.UpdateInvestment(inv)
}

func (f *Facade) DeleteInvestment(id string) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.DeleteInvestment(id)
}

// Category operations

func (f *Facade) GetAllCategories() ([]domain.Category, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	categories, err := f.backend.GetAllCategories()
	if err != nil {
		return nil, err
	}
	return f.guard.RepairCategories(f.backend, categories)
}

func (f *Facade) AddCategory(c domain.Category) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.AddCategory(c)
}

func (f *Facade) UpdateCategory(c domain.Category) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.UpdateCategory(c)
}

// DeleteCategory removes a category, then restores the default set if the
// collection would otherwise be empty. Transactions referencing the deleted
// category keep their id; orphaned references are a documented caller concern.
func (f *Facade) DeleteCategory(id string) error {
	if err := f.ready(); err != nil {
		return err
	}
	if err := f.backend.DeleteCategory(id); err != nil {
		return err
	}
	return f.guard.EnsureCategoryFloor(f.backend)
}

// Account operations

func (f *Facade) GetAllAccounts() ([]domain.BankAccount, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	accounts, err := f.backend.GetAllAccounts()
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		if err := f.guard.EnsureAccountFloor(f.backend); err != nil {
			return nil, err
		}
		return f.backend.GetAllAccounts()
	}
	return accounts, nil
}

func (f *Facade) AddAccount(a domain.BankAccount) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.AddAccount(a)
}

func (f *Facade) UpdateAccount(a domain.BankAccount) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.UpdateAccount(a)
}

// DeleteAccount removes an account, then restores the seeded default account
// if the collection would otherwise be empty.
func (f *Facade) DeleteAccount(id string) error {
	if err := f.ready(); err != nil {
		return err
	}
	if err := f.backend.DeleteAccount(id); err != nil {
		return err
	}
	return f.guard.EnsureAccountFloor(f.backend)
}

// Savings goal operations

func (f *Facade) GetAllSavingsGoals() ([]domain.SavingsGoal, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	goals, err := f.backend.GetAllSavingsGoals()
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []domain.SavingsGoal{}
	}
	return goals, nil
}

func (f *Facade) AddSavingsGoal(g domain.SavingsGoal) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.AddSavingsGoal(g)
}

func (f *Facade) UpdateSavingsGoal(g domain.SavingsGoal) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.UpdateSavingsGoal(g)
}

func (f *Facade) DeleteSavingsGoal(id string) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.DeleteSavingsGoal(id)
}

// Tag operations

func (f *Facade) GetAllTags() ([]domain.Tag, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	tags, err := f.backend.GetAllTags()
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	return tags, nil
}

func (f *Facade) AddTag(t domain.Tag) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.AddTag(t)
}

func (f *Facade) DeleteTag(id string) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.DeleteTag(id)
}

// Singleton operations

func (f *Facade) GetBudget() (domain.Budget, error) {
	if err := f.ready(); err != nil {
		return domain.Budget{}, err
	}
	return f.backend.GetBudget()
}

func (f *Facade) UpdateBudget(b domain.Budget) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.UpdateBudget(b)
}

// GetSettings returns the settings record with every field introduced in later
// schema revisions present, persisting any backfill on first read.
func (f *Facade) GetSettings() (domain.Settings, error) {
	if err := f.ready(); err != nil {
		return domain.Settings{}, err
	}
	settings, err := f.backend.GetSettings()
	if err != nil {
		return domain.Settings{}, err
	}
	return f.guard.RepairSettings(f.backend, settings)
}

func (f *Facade) UpdateSettings(s domain.Settings) error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.UpdateSettings(s)
}

// Snapshot operations

func (f *Facade) ExportData() (domain.AppData, error) {
	if err := f.ready(); err != nil {
		return domain.AppData{}, err
	}
	data, err := f.backend.ExportData()
	if err != nil {
		return domain.AppData{}, err
	}
	data.Normalize()
	return data, nil
}

func (f *Facade) ImportData(data domain.AppData) error {
	if err := f.ready(); err != nil {
		return err
	}
	data.Normalize()
	return f.backend.ImportData(data)
}

func (f *Facade) ClearAllData() error {
	if err := f.ready(); err != nil {
		return err
	}
	return f.backend.ClearAllData()
}

// compile-time interface check
var _ Store = (*Facade)(nil)
