package core

// CategoryRollup is the per-category income/expense breakdown produced by
// AggregateByCategory.
type CategoryRollup struct {
	Category     string        `json:"category"`
	Income       float64       `json:"income"`
	Expenses     float64       `json:"expenses"`
	Net          float64       `json:"net"`
	Count        int           `json:"count"`
	Transactions []Transaction `json:"transactions"`
}

// AggregateByCategory groups transactions by category in a single pass,
// splitting amounts by sign the same way CalculateTotals does (zero counts
// as an expense of 0). Groups keep first-appearance order.
func AggregateByCategory(transactions []Transaction) []CategoryRollup {
	idx := make(map[string]int)
	out := []CategoryRollup{}

	for _, tx := range transactions {
		category := tx.CategoryOrDefault()
		i, ok := idx[category]
		if !ok {
			i = len(out)
			idx[category] = i
			out = append(out, CategoryRollup{Category: category})
		}

		amount := float64(tx.Amount)
		if amount > 0 {
			out[i].Income += amount
		} else {
			out[i].Expenses += -amount
		}
		out[i].Net = out[i].Income - out[i].Expenses
		out[i].Count++
		out[i].Transactions = append(out[i].Transactions, tx)
	}
	return out
}
