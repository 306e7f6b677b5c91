package core

import "math"

// Budget status classifications.
const (
	BudgetOK      = "ok"
	BudgetWarning = "warning"
	BudgetOver    = "over"
)

// BudgetStatus is a budget enriched with its spending position.
type BudgetStatus struct {
	Budget
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
}

// CalculateBudgetStatus reports, per budget and in input order, how much of
// the allocation has been consumed by transactions in the same category.
// Spending counts absolute amounts regardless of sign. A zero allocation
// always reports 0% and status "ok".
func CalculateBudgetStatus(budgets []Budget, transactions []Transaction) []BudgetStatus {
	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		var spent float64
		for _, tx := range transactions {
			if tx.Category == b.Category {
				spent += math.Abs(float64(tx.Amount))
			}
		}

		allocated := float64(b.Amount)
		percentage := 0.0
		if allocated > 0 {
			percentage = spent / allocated * 100
		}

		status := BudgetOK
		switch {
		case percentage > 100:
			status = BudgetOver
		case percentage > 90:
			status = BudgetWarning
		}

		out = append(out, BudgetStatus{
			Budget:     b,
			Spent:      spent,
			Remaining:  allocated - spent,
			Percentage: percentage,
			Status:     status,
		})
	}
	return out
}
