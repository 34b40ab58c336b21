package domain

import "github.com/shopspring/decimal"

// Recalculate refreshes the derived performance fields from Amount and
// CurrentValue. Callers must invoke this before every add or update; storage
// persists whatever is in the struct.
func (i *Investment) Recalculate() {
	amount := decimal.NewFromFloat(i.Amount)
	current := decimal.NewFromFloat(i.CurrentValue)
	returns := current.Sub(amount)

	i.Returns, _ = returns.Float64()
	if amount.IsZero() {
		i.ReturnsPercentage = 0
		return
	}
	i.ReturnsPercentage, _ = returns.Div(amount).Mul(decimal.NewFromInt(100)).Float64()
}

// TotalExpenses sums expense amounts with exact decimal arithmetic
func TotalExpenses(expenses []Expense) float64 {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	f, _ := total.Float64()
	return f
}

// TotalIncomes sums income amounts with exact decimal arithmetic
func TotalIncomes(incomes []Income) float64 {
	total := decimal.Zero
	for _, i := range incomes {
		total = total.Add(decimal.NewFromFloat(i.Amount))
	}
	f, _ := total.Float64()
	return f
}

// SpendingByCategory groups expense totals by category id
func SpendingByCategory(expenses []Expense) map[string]float64 {
	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(decimal.NewFromFloat(e.Amount))
	}
	result := make(map[string]float64, len(totals))
	for cat, total := range totals {
		result[cat], _ = total.Float64()
	}
	return result
}

// BudgetUsage reports spending against a limit as a percentage.
// Returns 0 when no limit is set.
func BudgetUsage(spent, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	usage, _ := decimal.NewFromFloat(spent).
		Div(decimal.NewFromFloat(limit)).
		Mul(decimal.NewFromInt(100)).
		Float64()
	return usage
}
