package sqlitestore

import (
	"database/sql"
	"fmt"

	"github.com/sivaworkplace/money-expense-tracker/internal/database"
)

// schemaVersion is the current schema version, recorded in PRAGMA user_version.
// Version history:
//
//	v1 - expenses, categories, settings, budgets
//	v2 - accounts, savings_goals, incomes, tags
//	v3 - investments
const schemaVersion = 3

// migration declares which collections and secondary orderings must exist as
// of a given version. Statements are additive only: they create missing
// tables and indexes, never drop or transform existing ones.
type migration struct {
	version int
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS expenses (
				id TEXT PRIMARY KEY,
				date TEXT NOT NULL,
				category TEXT NOT NULL,
				data TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date)`,
			`CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category)`,
			`CREATE TABLE IF NOT EXISTS categories (
				id TEXT PRIMARY KEY,
				data TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS settings (
				key TEXT PRIMARY KEY,
				data TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS budgets (
				key TEXT PRIMARY KEY,
				data TEXT NOT NULL
			)`,
		},
	},
	{
		version: 2,
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS accounts (
				id TEXT PRIMARY KEY,
				data TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS savings_goals (
				id TEXT PRIMARY KEY,
				data TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS incomes (
				id TEXT PRIMARY KEY,
				date TEXT NOT NULL,
				category TEXT NOT NULL,
				data TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_incomes_date ON incomes(date)`,
			`CREATE INDEX IF NOT EXISTS idx_incomes_category ON incomes(category)`,
			`CREATE TABLE IF NOT EXISTS tags (
				id TEXT PRIMARY KEY,
				data TEXT NOT NULL
			)`,
		},
	},
	{
		version: 3,
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS investments (
				id TEXT PRIMARY KEY,
				purchase_date TEXT NOT NULL,
				type TEXT NOT NULL,
				data TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_investments_purchase_date ON investments(purchase_date)`,
			`CREATE INDEX IF NOT EXISTS idx_investments_type ON investments(type)`,
		},
	},
}

// migrate applies pending schema versions in order, exactly once. The recorded
// user_version gates each step, so a store opened at a higher version than
// previously seen upgrades itself; one opened at the current version does
// nothing. A concurrent upgrade from another connection is waited out via the
// connection's busy timeout rather than forced closed.
func migrate(conn *sql.DB) error {
	var current int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := database.WithTransaction(conn, func(tx *sql.Tx) error {
			for _, stmt := range m.stmts {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("schema v%d: %w", m.version, err)
				}
			}
			// PRAGMA cannot be parameterized
			if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
				return fmt.Errorf("failed to record schema version %d: %w", m.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		current = m.version
	}
	return nil
}
