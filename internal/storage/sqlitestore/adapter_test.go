package sqlitestore

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivaworkplace/money-expense-tracker/internal/domain"
)

func setupAdapter(t *testing.T) *Adapter {
	t.Helper()
	a := New(Config{Path: ":memory:"}, zerolog.Nop())
	require.NoError(t, a.Open())
	t.Cleanup(func() { a.Close() })
	return a
}

func TestOpen_AppliesFullSchema(t *testing.T) {
	a := setupAdapter(t)

	var version int
	require.NoError(t, a.db.Conn().QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, schemaVersion, version)

	for _, table := range []string{
		"expenses", "categories", "settings", "budgets",
		"accounts", "savings_goals", "incomes", "tags", "investments",
	} {
		var name string
		err := a.db.Conn().
			QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).
			Scan(&name)
		assert.NoError(t, err, "missing table %s", table)
	}
}

func TestOpen_UpgradesFromVersion1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.db")

	// First open at v1 only: run just the first migration by truncating the
	// migration list through a worst-case simulation — open fully, then roll
	// the recorded version back and drop the later tables.
	a := New(Config{Path: path}, zerolog.Nop())
	require.NoError(t, a.Open())
	conn := a.db.Conn()
	for _, stmt := range []string{
		"DROP TABLE investments",
		"DROP TABLE accounts",
		"DROP TABLE savings_goals",
		"DROP TABLE incomes",
		"DROP TABLE tags",
		"PRAGMA user_version = 1",
	} {
		_, err := conn.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, a.Close())

	// Reopen: pending versions 2 and 3 apply, v1 data survives
	a2 := New(Config{Path: path}, zerolog.Nop())
	require.NoError(t, a2.Open())
	defer a2.Close()

	var version int
	require.NoError(t, a2.db.Conn().QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, 3, version)

	categories, err := a2.GetAllCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 15, "v1 category data must survive the upgrade")

	_, err = a2.GetAllInvestments()
	assert.NoError(t, err)
}

func TestOpen_SeedsDefaults(t *testing.T) {
	a := setupAdapter(t)

	categories, err := a.GetAllCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 15)

	accounts, err := a.GetAllAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, domain.DefaultAccountID, accounts[0].ID)

	settings, err := a.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)

	budget, err := a.GetBudget()
	require.NoError(t, err)
	assert.Equal(t, 0.0, budget.Monthly)
	assert.NotNil(t, budget.Categories)
}

func TestOpen_DoesNotReseedExistingData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.db")

	a := New(Config{Path: path}, zerolog.Nop())
	require.NoError(t, a.Open())
	require.NoError(t, a.DeleteCategory("food"))
	custom := domain.Settings{Currency: "USD", DateFormat: "MM/DD/YYYY", Theme: "dark", ColorTheme: "blue"}
	require.NoError(t, a.UpdateSettings(custom))
	require.NoError(t, a.Close())

	a2 := New(Config{Path: path}, zerolog.Nop())
	require.NoError(t, a2.Open())
	defer a2.Close()

	categories, err := a2.GetAllCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 14, "seeding must not run on a non-empty store")

	settings, err := a2.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, custom, settings)
}

func TestExpenseCRUD(t *testing.T) {
	a := setupAdapter(t)

	e := domain.Expense{
		ID:            "e1",
		Amount:        50,
		Category:      "food",
		Description:   "lunch",
		Date:          "2025-03-01",
		PaymentMethod: domain.PaymentCash,
		CreatedAt:     domain.NowISO(),
		UpdatedAt:     domain.NowISO(),
	}
	require.NoError(t, a.AddExpense(e))

	expenses, err := a.GetAllExpenses()
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, e, expenses[0])

	e.Amount = 75
	require.NoError(t, a.UpdateExpense(e))
	expenses, err = a.GetAllExpenses()
	require.NoError(t, err)
	assert.Equal(t, 75.0, expenses[0].Amount)

	require.NoError(t, a.DeleteExpense("e1"))
	expenses, err = a.GetAllExpenses()
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestUpdateExpense_MissBehavesAsInsert(t *testing.T) {
	a := setupAdapter(t)

	e := domain.Expense{ID: "ghost", Amount: 10, Category: "food", Date: "2025-01-01"}
	require.NoError(t, a.UpdateExpense(e))

	expenses, err := a.GetAllExpenses()
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "ghost", expenses[0].ID)
}

func TestDeleteExpense_Idempotent(t *testing.T) {
	a := setupAdapter(t)

	e := domain.Expense{ID: "e1", Amount: 10, Category: "food", Date: "2025-01-01"}
	require.NoError(t, a.AddExpense(e))
	require.NoError(t, a.DeleteExpense("e1"))
	require.NoError(t, a.DeleteExpense("e1"))

	expenses, err := a.GetAllExpenses()
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestGetAllExpenses_OrderedByDate(t *testing.T) {
	a := setupAdapter(t)

	require.NoError(t, a.AddExpense(domain.Expense{ID: "new", Amount: 2, Category: "food", Date: "2025-06-01"}))
	require.NoError(t, a.AddExpense(domain.Expense{ID: "old", Amount: 1, Category: "food", Date: "2025-01-01"}))

	expenses, err := a.GetAllExpenses()
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, "old", expenses[0].ID)
	assert.Equal(t, "new", expenses[1].ID)
}

func TestInvestmentRoundTrip(t *testing.T) {
	a := setupAdapter(t)

	inv := domain.Investment{
		ID:           "i1",
		Name:         "Index fund",
		Type:         domain.InvestmentMutualFunds,
		Amount:       1000,
		CurrentValue: 1200,
		PurchaseDate: "2024-06-01",
	}
	inv.Recalculate()
	require.NoError(t, a.AddInvestment(inv))

	investments, err := a.GetAllInvestments()
	require.NoError(t, err)
	require.Len(t, investments, 1)
	assert.Equal(t, 200.0, investments[0].Returns)
	assert.Equal(t, 20.0, investments[0].ReturnsPercentage)
}

func TestExportImport_RoundTrip(t *testing.T) {
	a := setupAdapter(t)

	require.NoError(t, a.AddExpense(domain.Expense{ID: "e1", Amount: 50, Category: "food", Date: "2025-03-01"}))
	require.NoError(t, a.AddIncome(domain.Income{ID: "in1", Amount: 900, Category: "salary", Date: "2025-03-01"}))
	require.NoError(t, a.AddTag(domain.Tag{ID: "t1", Name: "work"}))
	require.NoError(t, a.UpdateBudget(domain.Budget{Monthly: 2000, Categories: map[string]float64{"food": 400}}))

	snapshot, err := a.ExportData()
	require.NoError(t, err)
	assert.NotNil(t, snapshot.Transactions, "reserved collection always present")

	// Wipe, then import the snapshot back
	require.NoError(t, a.ClearAllData())
	require.NoError(t, a.ImportData(snapshot))

	restored, err := a.ExportData()
	require.NoError(t, err)
	assert.ElementsMatch(t, snapshot.Expenses, restored.Expenses)
	assert.ElementsMatch(t, snapshot.Incomes, restored.Incomes)
	assert.ElementsMatch(t, snapshot.Categories, restored.Categories)
	assert.ElementsMatch(t, snapshot.Tags, restored.Tags)
	assert.Equal(t, snapshot.Budgets, restored.Budgets)
	assert.Equal(t, snapshot.Settings, restored.Settings)
}

func TestImportData_ReplacesNotMerges(t *testing.T) {
	a := setupAdapter(t)

	require.NoError(t, a.AddExpense(domain.Expense{ID: "before", Amount: 5, Category: "food", Date: "2025-01-01"}))

	incoming := domain.AppData{
		Expenses: []domain.Expense{{ID: "after", Amount: 9, Category: "food", Date: "2025-02-01"}},
		Settings: domain.DefaultSettings(),
		Budgets:  domain.DefaultBudget(),
	}
	incoming.Normalize()
	require.NoError(t, a.ImportData(incoming))

	expenses, err := a.GetAllExpenses()
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "after", expenses[0].ID)
}

func TestClearAllData_ReseedsDefaults(t *testing.T) {
	a := setupAdapter(t)

	require.NoError(t, a.AddExpense(domain.Expense{ID: "e1", Amount: 5, Category: "food", Date: "2025-01-01"}))
	require.NoError(t, a.ClearAllData())

	expenses, err := a.GetAllExpenses()
	require.NoError(t, err)
	assert.Empty(t, expenses)

	categories, err := a.GetAllCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 15)

	settings, err := a.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}
