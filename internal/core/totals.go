package core

// Totals is the income/expense/net rollup of a transaction set.
type Totals struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// CalculateTotals partitions transactions by the sign of their amount.
// A zero amount lands in the expense bucket (contributing 0), keeping parity
// with the strict "positive means income" convention.
func CalculateTotals(transactions []Transaction) Totals {
	var t Totals
	for _, tx := range transactions {
		amount := float64(tx.Amount)
		if amount > 0 {
			t.Income += amount
		} else {
			t.Expenses += -amount
		}
	}
	t.Net = t.Income - t.Expenses
	return t
}
