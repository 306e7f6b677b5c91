package core

import (
	"math"
	"strings"
)

// FilterTransactions returns the transactions passing every active filter
// field; absent fields impose no constraint. The input slice is never
// mutated. Filters short-circuit in order: date range, absolute amount
// range, category allow-list, sign filter, substring search.
func FilterTransactions(transactions []Transaction, f Filter) []Transaction {
	var allowed map[string]struct{}
	if len(f.Categories) > 0 {
		allowed = make(map[string]struct{}, len(f.Categories))
		for _, c := range f.Categories {
			allowed[c] = struct{}{}
		}
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]Transaction, 0, len(transactions))
	for _, tx := range transactions {
		// An active date bound rejects transactions without a parseable date.
		if (!f.StartDate.IsZero() || !f.EndDate.IsZero()) && tx.Date.IsZero() {
			continue
		}
		if !f.StartDate.IsZero() && tx.Date.Before(f.StartDate.Time) {
			continue
		}
		if !f.EndDate.IsZero() && tx.Date.After(f.EndDate.Time) {
			continue
		}

		abs := math.Abs(float64(tx.Amount))
		if f.MinAmount != nil && abs < float64(*f.MinAmount) {
			continue
		}
		if f.MaxAmount != nil && abs > float64(*f.MaxAmount) {
			continue
		}

		if allowed != nil {
			if _, ok := allowed[tx.Category]; !ok {
				continue
			}
		}

		if f.Type == "income" && float64(tx.Amount) <= 0 {
			continue
		}
		if f.Type == "expense" && float64(tx.Amount) > 0 {
			continue
		}

		if search != "" && !matchesSearch(tx, search) {
			continue
		}

		out = append(out, tx)
	}
	return out
}

func matchesSearch(tx Transaction, search string) bool {
	for _, field := range []string{tx.Description, tx.Category, tx.Merchant} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
