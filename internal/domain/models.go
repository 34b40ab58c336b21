// Package domain defines the typed shape of every persisted record and the
// default seed data used whenever a store is empty or corrupted.
//
// Records are flat: they carry category and account ids but no enforced foreign
// keys. Referential integrity is advisory and maintained by the storage layer's
// consistency guard, not by the storage engine.
package domain

// PaymentMethod identifies how an expense was paid
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentUPI          PaymentMethod = "upi"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentOther        PaymentMethod = "other"
)

// AccountType identifies the kind of a bank account
type AccountType string

const (
	AccountSavings    AccountType = "savings"
	AccountChecking   AccountType = "checking"
	AccountCreditCard AccountType = "credit_card"
	AccountCash       AccountType = "cash"
	AccountInvestment AccountType = "investment"
	AccountOther      AccountType = "other"
)

// InvestmentType identifies the asset class of an investment
type InvestmentType string

const (
	InvestmentStocks      InvestmentType = "stocks"
	InvestmentMutualFunds InvestmentType = "mutual_funds"
	InvestmentBonds       InvestmentType = "bonds"
	InvestmentRealEstate  InvestmentType = "real_estate"
	InvestmentCrypto      InvestmentType = "crypto"
	InvestmentGold        InvestmentType = "gold"
	InvestmentFD          InvestmentType = "fd"
	InvestmentOther       InvestmentType = "other"
)

// CategoryType restricts which transaction kinds a category applies to
type CategoryType string

const (
	CategoryExpense CategoryType = "expense"
	CategoryIncome  CategoryType = "income"
	CategoryBoth    CategoryType = "both"
)

// Expense is a single spending record.
// AccountID, Tags and ImagePath are optional. ImagePath is an opaque reference
// understood only by the photo store; the persistence layer never inspects it.
type Expense struct {
	ID            string        `json:"id"`
	Amount        float64       `json:"amount"`
	Category      string        `json:"category"`
	Description   string        `json:"description"`
	Date          string        `json:"date"` // ISO 8601
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	AccountID     string        `json:"accountId,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
	ImagePath     string        `json:"imagePath,omitempty"`
	CreatedAt     string        `json:"createdAt"`
	UpdatedAt     string        `json:"updatedAt"`
}

// Income is a single earning record
type Income struct {
	ID          string   `json:"id"`
	Amount      float64  `json:"amount"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Date        string   `json:"date"` // ISO 8601
	Source      string   `json:"source"`
	AccountID   string   `json:"accountId,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ImagePath   string   `json:"imagePath,omitempty"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// Investment is a holding with precomputed performance fields.
// Returns and ReturnsPercentage are derived from Amount and CurrentValue by the
// caller (see Recalculate); storage persists them verbatim and never recomputes.
type Investment struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Type              InvestmentType `json:"type"`
	Amount            float64        `json:"amount"`       // Invested amount
	CurrentValue      float64        `json:"currentValue"` // Current market value
	Quantity          float64        `json:"quantity,omitempty"`
	PurchaseDate      string         `json:"purchaseDate"`
	Platform          string         `json:"platform,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	Tags              []string       `json:"tags,omitempty"`
	ImagePath         string         `json:"imagePath,omitempty"`
	Returns           float64        `json:"returns"`           // CurrentValue - Amount
	ReturnsPercentage float64        `json:"returnsPercentage"` // Returns / Amount * 100
	CreatedAt         string         `json:"createdAt"`
	UpdatedAt         string         `json:"updatedAt"`
}

// Category groups transactions. Default categories carry stable ids ("food",
// "salary", ...); custom ones carry generated ids. A missing Type means the
// record predates the field and is backfilled to "both" on read.
type Category struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Icon     string       `json:"icon"`
	Color    string       `json:"color"`
	IsCustom bool         `json:"isCustom"`
	Type     CategoryType `json:"type,omitempty"`
}

// BankAccount is a money container transactions can reference
type BankAccount struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	Balance   float64     `json:"balance"`
	Currency  string      `json:"currency"`
	Icon      string      `json:"icon"`
	Color     string      `json:"color"`
	IsDefault bool        `json:"isDefault"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
}

// SavingsGoal is a saving target with optional deadline
type SavingsGoal struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	Deadline      string  `json:"deadline,omitempty"`
	Icon          string  `json:"icon"`
	Color         string  `json:"color"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// Tag is a free-form label. Name deduplication is a caller responsibility.
type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt string `json:"createdAt"`
}

// Transaction is a reserved record kind carried in the snapshot for forward
// compatibility. The current storage layer persists it but has no operations
// over it.
type Transaction struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"` // income, expense or transfer
	Amount        float64 `json:"amount"`
	FromAccountID string  `json:"fromAccountId,omitempty"`
	ToAccountID   string  `json:"toAccountId,omitempty"`
	Category      string  `json:"category,omitempty"`
	Description   string  `json:"description"`
	Date          string  `json:"date"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// Budget is a singleton record holding the monthly limit and per-category limits
type Budget struct {
	Monthly    float64            `json:"monthly"`
	Categories map[string]float64 `json:"categories"`
}

// Settings is a singleton record. ColorTheme was added after the first schema
// revision; documents persisted before it exist are backfilled on read.
type Settings struct {
	Currency   string `json:"currency"`
	DateFormat string `json:"dateFormat"`
	Theme      string `json:"theme"`
	ColorTheme string `json:"colorTheme,omitempty"`
}

// AppData is the consolidated snapshot covering every entity kind plus the
// singletons. It is both the persisted layout of the file-backed store and the
// unit exchanged with the export/import adapters.
type AppData struct {
	Expenses     []Expense     `json:"expenses"`
	Incomes      []Income      `json:"incomes"`
	Investments  []Investment  `json:"investments"`
	Categories   []Category    `json:"categories"`
	Budgets      Budget        `json:"budgets"`
	Settings     Settings      `json:"settings"`
	Accounts     []BankAccount `json:"accounts"`
	SavingsGoals []SavingsGoal `json:"savingsGoals"`
	Tags         []Tag         `json:"tags"`
	Transactions []Transaction `json:"transactions"`
}

// Normalize replaces nil collections with empty ones so the snapshot always
// marshals arrays (never null) for every top-level key.
func (d *AppData) Normalize() {
	if d.Expenses == nil {
		d.Expenses = []Expense{}
	}
	if d.Incomes == nil {
		d.Incomes = []Income{}
	}
	if d.Investments == nil {
		d.Investments = []Investment{}
	}
	if d.Categories == nil {
		d.Categories = []Category{}
	}
	if d.Accounts == nil {
		d.Accounts = []BankAccount{}
	}
	if d.SavingsGoals == nil {
		d.SavingsGoals = []SavingsGoal{}
	}
	if d.Tags == nil {
		d.Tags = []Tag{}
	}
	if d.Transactions == nil {
		d.Transactions = []Transaction{}
	}
	if d.Budgets.Categories == nil {
		d.Budgets.Categories = map[string]float64{}
	}
}
