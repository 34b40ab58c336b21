// Package filestore implements the storage contract as a single JSON document
// on the device filesystem. There are no secondary indexes: lookups are linear
// scans over the parsed document, and every mutation rewrites the whole file.
//
// The adapter probes an ordered list of storage locations. Once a location has
// yielded a successful read or write it becomes preferred and is used
// exclusively for the rest of the process lifetime; alternates are not
// re-probed on every call.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sivaworkplace/money-expense-tracker/internal/domain"
	"github.com/sivaworkplace/money-expense-tracker/internal/storage/backend"
)

// DefaultFilename is the name of the data document inside each location
const DefaultFilename = "expenses_data.json"

// Location is one candidate directory for the data document, in fallback
// priority order.
type Location struct {
	Name string // Friendly name for logging ("data", "documents", "cache")
	Dir  string
}

// Config holds adapter configuration
type Config struct {
	Filename  string
	Locations []Location
}

// Adapter is the file-backed document store.
//
// Mutations follow read-modify-write-whole-document semantics with no internal
// lock: two mutations prepared from the same loaded document are last-write-
// wins. Callers must not issue overlapping mutating calls; see the package
// tests for a demonstration of the lost-update hazard.
type Adapter struct {
	cfg       Config
	preferred int  // index into cfg.Locations, -1 until a location succeeds
	recovered bool // a corrupt document was found and replaced with defaults
	log       zerolog.Logger
}

// New creates a file-backed adapter. The document is not touched until Open.
func New(cfg Config, log zerolog.Logger) *Adapter {
	if cfg.Filename == "" {
		cfg.Filename = DefaultFilename
	}
	return &Adapter{
		cfg:       cfg,
		preferred: -1,
		log:       log.With().Str("adapter", "file").Logger(),
	}
}

// Name identifies the backend for logging
func (a *Adapter) Name() string { return "file" }

// Open loads the document, synthesizing and persisting a full default
// document on first run. A document that exists but fails to parse is treated
// like a first run, except that Recovered reports true so callers can
// distinguish recovery from a genuinely fresh store.
func (a *Adapter) Open() error {
	doc, err := a.LoadDocument()
	if err != nil {
		return err
	}
	if doc == nil {
		defaults := domain.DefaultAppData()
		if err := a.SaveDocument(&defaults); err != nil {
			return fmt.Errorf("failed to write initial document: %w", err)
		}
		if a.recovered {
			a.log.Warn().Msg("Corrupt data document replaced with defaults")
		} else {
			a.log.Info().Msg("No data document found, defaults written")
		}
		return nil
	}

	// A present document may still be missing its seeded collections
	changed := false
	if len(doc.Categories) == 0 {
		doc.Categories = domain.DefaultCategories()
		changed = true
	}
	if len(doc.Accounts) == 0 {
		doc.Accounts = domain.DefaultAccounts()
		changed = true
	}
	if changed {
		if err := a.SaveDocument(doc); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op: the document is re-read and rewritten per call
func (a *Adapter) Close() error { return nil }

// Recovered reports whether Open found a corrupt document and fell back to
// defaults. Distinct from a first run, where no document existed at all.
func (a *Adapter) Recovered() bool { return a.recovered }

// LoadDocument reads and parses the data document, probing locations in
// priority order. The first location that yields a parseable document wins and
// becomes preferred. Returns (nil, nil) when no document exists yet.
func (a *Adapter) LoadDocument() (*domain.AppData, error) {
	locations := a.cfg.Locations
	if a.preferred >= 0 {
		locations = a.cfg.Locations[a.preferred : a.preferred+1]
	}

	sawCorrupt := false
	for i, loc := range locations {
		path := filepath.Join(loc.Dir, a.cfg.Filename)
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				a.log.Debug().Err(err).Str("location", loc.Name).Msg("Location unreadable")
			}
			continue
		}

		var doc domain.AppData
		if err := json.Unmarshal(raw, &doc); err != nil {
			// Unparseable is treated like missing, but remembered
			a.log.Warn().Err(err).Str("location", loc.Name).Msg("Data document failed to parse")
			sawCorrupt = true
			continue
		}

		if a.preferred < 0 {
			a.preferred = i
			a.log.Debug().Str("location", loc.Name).Msg("Preferred storage location set from load")
		}
		doc.Normalize()
		return &doc, nil
	}

	if sawCorrupt {
		a.recovered = true
	}
	return nil, nil
}

// SaveDocument serializes the whole document and writes it to the preferred
// location, or probes the fallback list in order until a write succeeds. The
// succeeding location becomes preferred.
func (a *Adapter) SaveDocument(doc *domain.AppData) error {
	doc.Normalize()
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data document: %w", err)
	}

	start, end := 0, len(a.cfg.Locations)
	if a.preferred >= 0 {
		start, end = a.preferred, a.preferred+1
	}

	var lastErr error
	tried := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		loc := a.cfg.Locations[i]
		tried = append(tried, loc.Name)
		if err := writeLocation(loc.Dir, a.cfg.Filename, raw); err != nil {
			a.log.Debug().Err(err).Str("location", loc.Name).Msg("Location rejected write")
			lastErr = err
			continue
		}
		if a.preferred != i {
			a.preferred = i
			a.log.Info().Str("location", loc.Name).Msg("Preferred storage location set")
		}
		return nil
	}

	return fmt.Errorf("failed to save data document (tried: %s): %w", strings.Join(tried, ", "), lastErr)
}

func writeLocation(dir, filename string, raw []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, filename), raw, 0644)
}

// load returns the current document, synthesizing defaults when none exists
func (a *Adapter) load() (*domain.AppData, error) {
	doc, err := a.LoadDocument()
	if err != nil {
		return nil, err
	}
	if doc == nil {
		defaults := domain.DefaultAppData()
		return &defaults, nil
	}
	return doc, nil
}

// Expense operations

func (a *Adapter) GetAllExpenses() ([]domain.Expense, error) {
	doc, err := a.load()
	if err != nil {
		return nil, err
	}
	return doc.Expenses, nil
}

func (a *Adapter) AddExpense(e domain.Expense) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.Expenses = append(doc.Expenses, e)
	return a.SaveDocument(doc)
}

func (a *Adapter) UpdateExpense(e domain.Expense) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	for i := range doc.Expenses {
		if doc.Expenses[i].ID == e.ID {
			doc.Expenses[i] = e
			return a.SaveDocument(doc)
		}
	}
	return fmt.Errorf("expense %s: %w", e.ID, backend.ErrNotFound)
}

func (a *Adapter) DeleteExpense(id string) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.Expenses = removeByID(doc.Expenses, id, func(e domain.Expense) string { return e.ID })
	return a.SaveDocument(doc)
}

// Income operations

func (a *Adapter) GetAllIncomes() ([]domain.Income, error) {
	doc, err := a.load()
	if err != nil {
		return nil, err
	}
	return doc.Incomes, nil
}

func (a *Adapter) AddIncome(i domain.Income) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.Incomes = append(doc.Incomes, i)
	return a.SaveDocument(doc)
}

func (a *Adapter) UpdateIncome(in domain.Income) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	for i := range doc.Incomes {
		if doc.Incomes[i].ID == in.ID {
			doc.Incomes[i] = in
			return a.SaveDocument(doc)
		}
	}
	return fmt.Errorf("income %s: %w", in.ID, backend.ErrNotFound)
}

func (a *Adapter) DeleteIncome(id string) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.Incomes = removeByID(doc.Incomes, id, func(i domain.Income) string { return i.ID })
	return a.SaveDocument(doc)
}

// Investment operations

func (a *Adapter) GetAllInvestments() ([]domain.Investment, error) {
	doc, err := a.load()
	if err != nil {
		return nil, err
	}
	return doc.Investments, nil
}

func (a *Adapter) AddInvestment(inv domain.Investment) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.Investments = append(doc.Investments, inv)
	return a.SaveDocument(doc)
}

func (a *Adapter) UpdateInvestment(inv domain.Investment) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	for i := range doc.Investments {
		if doc.Investments[i].ID == inv.ID {
			doc.Investments[i] = inv
			return a.SaveDocument(doc)
		}
	}
	return fmt.Errorf("investment %s: %w", inv.ID, backend.ErrNotFound)
}

func (a *Adapter) DeleteInvestment(id string) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.Investments = removeByID(doc.Investments, id, func(i domain.Investment) string { return i.ID })
	return a.SaveDocument(doc)
}

// Category operations

func (a *Adapter) GetAllCategories() ([]domain.Category, error) {
	doc, err := a.load()
	if err != nil {
		return nil, err
	}
	return doc.Categories, nil
}

func (a *Adapter) AddCategory(c domain.Category) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.Categories = append(doc.Categories, c)
	return a.SaveDocument(doc)
}

func (a *Adapter) UpdateCategory(c domain.Category) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	for i := range doc.Categories {
		if doc.Categories[i].ID == c.ID {
			doc.Categories[i] = c
			return a.SaveDocument(doc)
		}
	}
	return fmt.Errorf("category %s: %w", c.ID, backend.ErrNotFound)
}

func (a *Adapter) DeleteCategory(id string) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.Categories = removeByID(doc.Categories, id, func(c domain.Category) string { return c.ID })
	return a.SaveDocument(doc)
}

// Account operations

func (a *Adapter) GetAllAccounts() ([]domain.BankAccount, error) {
	doc, err := a.load()
	if err != nil {
		return nil, err
	}
	return doc.Accounts, nil
}

func (a *Adapter) AddAccount(acc domain.BankAccount) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.Accounts = append(doc.Accounts, acc)
	return a.SaveDocument(doc)
}

func (a *Adapter) UpdateAccount(acc domain.BankAccount) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	for i := range doc.Accounts {
		if doc.Accounts[i].ID == acc.ID {
			doc.Accounts[i] = acc
			return a.SaveDocument(doc)
		}
	}
	return fmt.Errorf("account %s: %w", acc.ID, backend.ErrNotFound)
}

func (a *Adapter) DeleteAccount(id string) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.Accounts = removeByID(doc.Accounts, id, func(acc domain.BankAccount) string { return acc.ID })
	return a.SaveDocument(doc)
}

// Savings goal operations

func (a *Adapter) GetAllSavingsGoals() ([]domain.SavingsGoal, error) {
	doc, err := a.load()
	if err != nil {
		return nil, err
	}
	return doc.SavingsGoals, nil
}

func (a *Adapter) AddSavingsGoal(g domain.SavingsGoal) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.SavingsGoals = append(doc.SavingsGoals, g)
	return a.SaveDocument(doc)
}

func (a *Adapter) UpdateSavingsGoal(g domain.SavingsGoal) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	for i := range doc.SavingsGoals {
		if doc.SavingsGoals[i].ID == g.ID {
			doc.SavingsGoals[i] = g
			return a.SaveDocument(doc)
		}
	}
	return fmt.Errorf("savings goal %s: %w", g.ID, backend.ErrNotFound)
}

func (a *Adapter) DeleteSavingsGoal(id string) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.SavingsGoals = removeByID(doc.SavingsGoals, id, func(g domain.SavingsGoal) string { return g.ID })
	return a.SaveDocument(doc)
}

// Tag operations

func (a *Adapter) GetAllTags() ([]domain.Tag, error) {
	doc, err := a.load()
	if err != nil {
		return nil, err
	}
	return doc.Tags, nil
}

func (a *Adapter) AddTag(t domain.Tag) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.Tags = append(doc.Tags, t)
	return a.SaveDocument(doc)
}

func (a *Adapter) DeleteTag(id string) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.Tags = removeByID(doc.Tags, id, func(t domain.Tag) string { return t.ID })
	return a.SaveDocument(doc)
}

// Singleton operations

func (a *Adapter) GetBudget() (domain.Budget, error) {
	doc, err := a.load()
	if err != nil {
		return domain.Budget{}, err
	}
	return doc.Budgets, nil
}

func (a *Adapter) UpdateBudget(b domain.Budget) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.Budgets = b
	return a.SaveDocument(doc)
}

func (a *Adapter) GetSettings() (domain.Settings, error) {
	doc, err := a.load()
	if err != nil {
		return domain.Settings{}, err
	}
	return doc.Settings, nil
}

func (a *Adapter) UpdateSettings(s domain.Settings) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.Settings = s
	return a.SaveDocument(doc)
}

// Snapshot operations

func (a *Adapter) ExportData() (domain.AppData, error) {
	doc, err := a.load()
	if err != nil {
		return domain.AppData{}, err
	}
	return *doc, nil
}

func (a *Adapter) ImportData(data domain.AppData) error {
	return a.SaveDocument(&data)
}

func (a *Adapter) ClearAllData() error {
	defaults := domain.DefaultAppData()
	if err := a.SaveDocument(&defaults); err != nil {
		return err
	}
	a.log.Info().Msg("All data cleared, defaults re-seeded")
	return nil
}

// removeByID filters one record out of a slice. A miss leaves the slice
// unchanged, which is what makes deletes idempotent.
func removeByID[T any](records []T, id string, idOf func(T) string) []T {
	result := records[:0]
	for _, r := range records {
		if idOf(r) != id {
			result = append(result, r)
		}
	}
	return result
}

// compile-time interface check
var _ backend.Backend = (*Adapter)(nil)
