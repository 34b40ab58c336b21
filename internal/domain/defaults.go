package domain

import "time"

// DefaultAccountID is the id of the seeded cash account. The account list is
// never allowed to drop below this one entry.
const DefaultAccountID = "default_cash"

// DefaultColorTheme is the value backfilled into settings documents persisted
// before the colorTheme field existed.
const DefaultColorTheme = "purple"

// DefaultCategories returns fresh copies of the seed category set: nine usable
// for expenses (eight typed "expense" plus "others" typed "both") and six typed
// "income".
func DefaultCategories() []Category {
	return []Category{
		// Expense categories
		{ID: "food", Name: "Food & Dining", Icon: "🍔", Color: "#FF6B6B", IsCustom: false, Type: CategoryExpense},
		{ID: "transport", Name: "Transport", Icon: "🚗", Color: "#4ECDC4", IsCustom: false, Type: CategoryExpense},
		{ID: "shopping", Name: "Shopping", Icon: "🛍️", Color: "#95E1D3", IsCustom: false, Type: CategoryExpense},
		{ID: "bills", Name: "Bills & Utilities", Icon: "💡", Color: "#F38181", IsCustom: false, Type: CategoryExpense},
		{ID: "health", Name: "Health & Fitness", Icon: "💊", Color: "#AA96DA", IsCustom: false, Type: CategoryExpense},
		{ID: "entertainment", Name: "Entertainment", Icon: "🎬", Color: "#FCBAD3", IsCustom: false, Type: CategoryExpense},
		{ID: "education", Name: "Education", Icon: "📚", Color: "#A8D8EA", IsCustom: false, Type: CategoryExpense},
		{ID: "personal", Name: "Personal Care", Icon: "💄", Color: "#FFD93D", IsCustom: false, Type: CategoryExpense},
		{ID: "others", Name: "Others", Icon: "📦", Color: "#A0A0A0", IsCustom: false, Type: CategoryBoth},
		// Income categories
		{ID: "salary", Name: "Salary", Icon: "💰", Color: "#10B981", IsCustom: false, Type: CategoryIncome},
		{ID: "freelance", Name: "Freelance", Icon: "💼", Color: "#3B82F6", IsCustom: false, Type: CategoryIncome},
		{ID: "business", Name: "Business", Icon: "🏢", Color: "#8B5CF6", IsCustom: false, Type: CategoryIncome},
		{ID: "investment", Name: "Investment Returns", Icon: "📈", Color: "#F59E0B", IsCustom: false, Type: CategoryIncome},
		{ID: "rental", Name: "Rental Income", Icon: "🏠", Color: "#EC4899", IsCustom: false, Type: CategoryIncome},
		{ID: "gift", Name: "Gift/Bonus", Icon: "🎁", Color: "#14B8A6", IsCustom: false, Type: CategoryIncome},
	}
}

// DefaultAccounts returns the seed account list: exactly one cash account
// marked as default, so transactions always have a valid account to attach to.
func DefaultAccounts() []BankAccount {
	now := NowISO()
	return []BankAccount{
		{
			ID:        DefaultAccountID,
			Name:      "Cash",
			Type:      AccountCash,
			Balance:   0,
			Currency:  "INR",
			Icon:      "💵",
			Color:     "#10B981",
			IsDefault: true,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// DefaultSettings returns the factory settings record
func DefaultSettings() Settings {
	return Settings{
		Currency:   "INR",
		DateFormat: "DD/MM/YYYY",
		Theme:      "light",
		ColorTheme: DefaultColorTheme,
	}
}

// DefaultBudget returns the factory budget record
func DefaultBudget() Budget {
	return Budget{
		Monthly:    0,
		Categories: map[string]float64{},
	}
}

// DefaultAppData synthesizes a full default document: every entity kind empty
// or seeded, singletons at factory values.
func DefaultAppData() AppData {
	return AppData{
		Expenses:     []Expense{},
		Incomes:      []Income{},
		Investments:  []Investment{},
		Categories:   DefaultCategories(),
		Budgets:      DefaultBudget(),
		Settings:     DefaultSettings(),
		Accounts:     DefaultAccounts(),
		SavingsGoals: []SavingsGoal{},
		Tags:         []Tag{},
		Transactions: []Transaction{},
	}
}

// NowISO returns the current UTC time as an ISO 8601 string, the timestamp
// format used by every record.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
