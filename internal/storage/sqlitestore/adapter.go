// Package sqlitestore implements the storage contract over an embedded SQLite
// database. Each entity kind is an independent table keyed by id with the
// record stored as a JSON document; date and type columns are duplicated out
// of the document to back secondary orderings without scanning every row.
package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sivaworkplace/money-expense-tracker/internal/database"
	"github.com/sivaworkplace/money-expense-tracker/internal/domain"
)

const (
	settingsKey = "settings"
	budgetKey   = "budget"
)

// Config holds adapter configuration
type Config struct {
	Path string // Database file path, or ":memory:" for tests
}

// Adapter is the embedded-store backend. Writes use upsert semantics, so an
// update targeting a missing id becomes an insert, matching keyed-store put
// behavior. Deletes are idempotent.
type Adapter struct {
	cfg Config
	db  *database.DB
	log zerolog.Logger
}

// New creates an embedded-store adapter. The store is not opened until Open.
func New(cfg Config, log zerolog.Logger) *Adapter {
	return &Adapter{
		cfg: cfg,
		log: log.With().Str("adapter", "sqlite").Logger(),
	}
}

// Name identifies the backend for logging
func (a *Adapter) Name() string { return "sqlite" }

// Open connects to the database, applies pending schema upgrades and seeds
// defaults into empty collections.
func (a *Adapter) Open() error {
	db, err := database.New(a.cfg.Path)
	if err != nil {
		return err
	}
	a.db = db

	if err := migrate(db.Conn()); err != nil {
		_ = db.Close()
		a.db = nil
		return err
	}
	if err := a.seedDefaults(); err != nil {
		_ = db.Close()
		a.db = nil
		return err
	}

	a.log.Debug().Str("path", a.cfg.Path).Int("version", schemaVersion).Msg("Embedded store opened")
	return nil
}

// Close closes the database connection
func (a *Adapter) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// seedDefaults populates empty singleton and default collections. Safe to run
// on every open: existing rows are left untouched.
func (a *Adapter) seedDefaults() error {
	conn := a.db.Conn()

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM settings WHERE key = ?", settingsKey).Scan(&count); err != nil {
		return fmt.Errorf("failed to check settings: %w", err)
	}
	if count == 0 {
		if err := a.UpdateSettings(domain.DefaultSettings()); err != nil {
			return err
		}
	}

	if err := conn.QueryRow("SELECT COUNT(*) FROM budgets WHERE key = ?", budgetKey).Scan(&count); err != nil {
		return fmt.Errorf("failed to check budget: %w", err)
	}
	if count == 0 {
		if err := a.UpdateBudget(domain.DefaultBudget()); err != nil {
			return err
		}
	}

	if err := conn.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("failed to check categories: %w", err)
	}
	if count == 0 {
		for _, c := range domain.DefaultCategories() {
			if err := a.AddCategory(c); err != nil {
				return err
			}
		}
	}

	if err := conn.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&count); err != nil {
		return fmt.Errorf("failed to check accounts: %w", err)
	}
	if count == 0 {
		for _, acc := range domain.DefaultAccounts() {
			if err := a.AddAccount(acc); err != nil {
				return err
			}
		}
	}

	return nil
}

// getAll scans every JSON document in a table into out, which must be a
// pointer to a slice.
func getAll[T any](a *Adapter, table, orderBy string) ([]T, error) {
	query := fmt.Sprintf("SELECT data FROM %s", table)
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}
	rows, err := a.db.Conn().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	result := []T{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s record: %w", table, err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}
	return result, nil
}

// deleteByID removes a row by primary key. Idempotent.
func (a *Adapter) deleteByID(table, id string) error {
	if _, err := a.db.Conn().Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}

// Expense operations

func (a *Adapter) GetAllExpenses() ([]domain.Expense, error) {
	return getAll[domain.Expense](a, "expenses", "date")
}

func (a *Adapter) putExpense(tx *sql.Tx, e domain.Expense) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode expense: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO expenses (id, date, category, data) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			category = excluded.category,
			data = excluded.data
	`, e.ID, e.Date, e.Category, string(data))
	return err
}

func (a *Adapter) AddExpense(e domain.Expense) error {
	return database.WithTransaction(a.db.Conn(), func(tx *sql.Tx) error {
		return a.putExpense(tx, e)
	})
}

// UpdateExpense upserts: an index miss is a natural insert in a keyed store
func (a *Adapter) UpdateExpense(e domain.Expense) error {
	return a.AddExpense(e)
}

func (a *Adapter) DeleteExpense(id string) error {
	return a.deleteByID("expenses", id)
}

// Income operations

func (a *Adapter) GetAllIncomes() ([]domain.Income, error) {
	return getAll[domain.Income](a, "incomes", "date")
}

func (a *Adapter) putIncome(tx *sql.Tx, i domain.Income) error {
	data, err := json.Marshal(i)
	if err != nil {
		return fmt.Errorf("failed to encode income: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO incomes (id, date, category, data) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			category = excluded.category,
			data = excluded.data
	`, i.ID, i.Date, i.Category, string(data))
	return err
}

func (a *Adapter) AddIncome(i domain.Income) error {
	return database.WithTransaction(a.db.Conn(), func(tx *sql.Tx) error {
		return a.putIncome(tx, i)
	})
}

func (a *Adapter) UpdateIncome(i domain.Income) error {
	return a.AddIncome(i)
}

func (a *Adapter) DeleteIncome(id string) error {
	return a.deleteByID("incomes", id)
}

// Investment operations

func (a *Adapter) GetAllInvestments() ([]domain.Investment, error) {
	return getAll[domain.Investment](a, "investments", "purchase_date")
}

func (a *Adapter) putInvestment(tx *sql.Tx, inv domain.Investment) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("failed to encode investment: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO investments (id, purchase_date, type, data) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			purchase_date = excluded.purchase_date,
			type = excluded.type,
			data = excluded.data
	`, inv.ID, inv.PurchaseDate, string(inv.Type), string(data))
	return err
}

func (a *Adapter) AddInvestment(inv domain.Investment) error {
	return database.WithTransaction(a.db.Conn(), func(tx *sql.Tx) error {
		return a.putInvestment(tx, inv)
	})
}

func (a *Adapter) UpdateInvestment(inv domain.Investment) error {
	return a.AddInvestment(inv)
}

func (a *Adapter) DeleteInvestment(id string) error {
	return a.deleteByID("investments", id)
}

// Keyed collections without secondary orderings

func (a *Adapter) putKeyed(tx *sql.Tx, table, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", table, err)
	}
	_, err = tx.Exec(fmt.Sprintf(`
		INSERT INTO %s (id, data) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data
	`, table), id, string(data))
	return err
}

func (a *Adapter) addKeyed(table, id string, v any) error {
	return database.WithTransaction(a.db.Conn(), func(tx *sql.Tx) error {
		return a.putKeyed(tx, table, id, v)
	})
}

// Category operations

func (a *Adapter) GetAllCategories() ([]domain.Category, error) {
	return getAll[domain.Category](a, "categories", "")
}

func (a *Adapter) AddCategory(c domain.Category) error {
	return a.addKeyed("categories", c.ID, c)
}

func (a *Adapter) UpdateCategory(c domain.Category) error {
	return a.addKeyed("categories", c.ID, c)
}

func (a *Adapter) DeleteCategory(id string) error {
	return a.deleteByID("categories", id)
}

// Account operations

func (a *Adapter) GetAllAccounts() ([]domain.BankAccount, error) {
	return getAll[domain.BankAccount](a, "accounts", "")
}

func (a *Adapter) AddAccount(acc domain.BankAccount) error {
	return a.addKeyed("accounts", acc.ID, acc)
}

func (a *Adapter) UpdateAccount(acc domain.BankAccount) error {
	return a.addKeyed("accounts", acc.ID, acc)
}

func (a *Adapter) DeleteAccount(id string) error {
	return a.deleteByID("accounts", id)
}

// Savings goal operations

func (a *Adapter) GetAllSavingsGoals() ([]domain.SavingsGoal, error) {
	return getAll[domain.SavingsGoal](a, "savings_goals", "")
}

func (a *Adapter) AddSavingsGoal(g domain.SavingsGoal) error {
	return a.addKeyed("savings_goals", g.ID, g)
}

func (a *Adapter) UpdateSavingsGoal(g domain.SavingsGoal) error {
	return a.addKeyed("savings_goals", g.ID, g)
}

func (a *Adapter) DeleteSavingsGoal(id string) error {
	return a.deleteByID("savings_goals", id)
}

// Tag operations

func (a *Adapter) GetAllTags() ([]domain.Tag, error) {
	return getAll[domain.Tag](a, "tags", "")
}

func (a *Adapter) AddTag(t domain.Tag) error {
	return a.addKeyed("tags", t.ID, t)
}

func (a *Adapter) DeleteTag(id string) error {
	return a.deleteByID("tags", id)
}

// Singleton operations

func (a *Adapter) getSingleton(table, key string, out any) (bool, error) {
	var raw string
	err := a.db.Conn().QueryRow(fmt.Sprintf("SELECT data FROM %s WHERE key = ?", table), key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s: %w", table, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("failed to decode %s record: %w", table, err)
	}
	return true, nil
}

func (a *Adapter) putSingleton(tx *sql.Tx, table, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", table, err)
	}
	_, err = tx.Exec(fmt.Sprintf(`
		INSERT INTO %s (key, data) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data
	`, table), key, string(data))
	return err
}

func (a *Adapter) GetBudget() (domain.Budget, error) {
	var b domain.Budget
	found, err := a.getSingleton("budgets", budgetKey, &b)
	if err != nil {
		return domain.Budget{}, err
	}
	if !found {
		return domain.DefaultBudget(), nil
	}
	if b.Categories == nil {
		b.Categories = map[string]float64{}
	}
	return b, nil
}

func (a *Adapter) UpdateBudget(b domain.Budget) error {
	return database.WithTransaction(a.db.Conn(), func(tx *sql.Tx) error {
		return a.putSingleton(tx, "budgets", budgetKey, b)
	})
}

func (a *Adapter) GetSettings() (domain.Settings, error) {
	var s domain.Settings
	found, err := a.getSingleton("settings", settingsKey, &s)
	if err != nil {
		return domain.Settings{}, err
	}
	if !found {
		return domain.DefaultSettings(), nil
	}
	return s, nil
}

func (a *Adapter) UpdateSettings(s domain.Settings) error {
	return database.WithTransaction(a.db.Conn(), func(tx *sql.Tx) error {
		return a.putSingleton(tx, "settings", settingsKey, s)
	})
}

// Snapshot operations

// ExportData assembles the consolidated snapshot from every table
func (a *Adapter) ExportData() (domain.AppData, error) {
	var data domain.AppData
	var err error

	if data.Expenses, err = a.GetAllExpenses(); err != nil {
		return domain.AppData{}, err
	}
	if data.Incomes, err = a.GetAllIncomes(); err != nil {
		return domain.AppData{}, err
	}
	if data.Investments, err = a.GetAllInvestments(); err != nil {
		return domain.AppData{}, err
	}
	if data.Categories, err = a.GetAllCategories(); err != nil {
		return domain.AppData{}, err
	}
	if data.Accounts, err = a.GetAllAccounts(); err != nil {
		return domain.AppData{}, err
	}
	if data.SavingsGoals, err = a.GetAllSavingsGoals(); err != nil {
		return domain.AppData{}, err
	}
	if data.Tags, err = a.GetAllTags(); err != nil {
		return domain.AppData{}, err
	}
	if data.Budgets, err = a.GetBudget(); err != nil {
		return domain.AppData{}, err
	}
	if data.Settings, err = a.GetSettings(); err != nil {
		return domain.AppData{}, err
	}
	data.Transactions = []domain.Transaction{}
	return data, nil
}

// ImportData wholesale replaces the store contents from a snapshot, within a
// single transaction.
func (a *Adapter) ImportData(data domain.AppData) error {
	return database.WithTransaction(a.db.Conn(), func(tx *sql.Tx) error {
		for _, table := range []string{"expenses", "incomes", "investments", "categories", "accounts", "savings_goals", "tags"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		for _, e := range data.Expenses {
			if err := a.putExpense(tx, e); err != nil {
				return err
			}
		}
		for _, i := range data.Incomes {
			if err := a.putIncome(tx, i); err != nil {
				return err
			}
		}
		for _, inv := range data.Investments {
			if err := a.putInvestment(tx, inv); err != nil {
				return err
			}
		}
		for _, c := range data.Categories {
			if err := a.putKeyed(tx, "categories", c.ID, c); err != nil {
				return err
			}
		}
		for _, acc := range data.Accounts {
			if err := a.putKeyed(tx, "accounts", acc.ID, acc); err != nil {
				return err
			}
		}
		for _, g := range data.SavingsGoals {
			if err := a.putKeyed(tx, "savings_goals", g.ID, g); err != nil {
				return err
			}
		}
		for _, t := range data.Tags {
			if err := a.putKeyed(tx, "tags", t.ID, t); err != nil {
				return err
			}
		}
		if err := a.putSingleton(tx, "budgets", budgetKey, data.Budgets); err != nil {
			return err
		}
		return a.putSingleton(tx, "settings", settingsKey, data.Settings)
	})
}

// ClearAllData empties every table, resets singletons to factory defaults and
// re-seeds the default categories and account.
func (a *Adapter) ClearAllData() error {
	err := database.WithTransaction(a.db.Conn(), func(tx *sql.Tx) error {
		for _, table := range []string{"expenses", "incomes", "investments", "categories", "accounts", "savings_goals", "tags"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		for _, c := range domain.DefaultCategories() {
			if err := a.putKeyed(tx, "categories", c.ID, c); err != nil {
				return err
			}
		}
		for _, acc := range domain.DefaultAccounts() {
			if err := a.putKeyed(tx, "accounts", acc.ID, acc); err != nil {
				return err
			}
		}
		if err := a.putSingleton(tx, "budgets", budgetKey, domain.DefaultBudget()); err != nil {
			return err
		}
		return a.putSingleton(tx, "settings", settingsKey, domain.DefaultSettings())
	})
	if err != nil {
		return err
	}
	a.log.Info().Msg("All data cleared, defaults re-seeded")
	return nil
}
