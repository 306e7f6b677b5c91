package core

import "sort"

// CategoryBreakdown aggregates the transactions of one category by absolute
// amount.
type CategoryBreakdown struct {
	Category     string        `json:"category"`
	Total        float64       `json:"total"`
	Count        int           `json:"count"`
	Transactions []Transaction `json:"transactions"`
}

// MonthBreakdown splits one month's activity by the sign of the raw amounts.
type MonthBreakdown struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// Analytics is the combined by-category and by-month view of a transaction
// set.
type Analytics struct {
	ByCategory    []CategoryBreakdown `json:"byCategory"`
	ByMonth       []MonthBreakdown    `json:"byMonth"`
	TopCategories []CategoryBreakdown `json:"topCategories"`
}

// topCategoryLimit bounds the TopCategories result.
const topCategoryLimit = 5

// CalculateAnalytics builds both groupings in a single pass. Groups keep
// first-appearance order; TopCategories is the top five categories by total,
// descending, ties keeping appearance order. Transactions with no parseable
// date group under the zero month key.
func CalculateAnalytics(transactions []Transaction) Analytics {
	categoryIdx := make(map[string]int)
	monthIdx := make(map[string]int)
	byCategory := []CategoryBreakdown{}
	byMonth := []MonthBreakdown{}

	for _, tx := range transactions {
		amount := float64(tx.Amount)
		abs := amount
		if abs < 0 {
			abs = -abs
		}

		category := tx.CategoryOrDefault()
		ci, ok := categoryIdx[category]
		if !ok {
			ci = len(byCategory)
			categoryIdx[category] = ci
			byCategory = append(byCategory, CategoryBreakdown{Category: category})
		}
		byCategory[ci].Total += abs
		byCategory[ci].Count++
		byCategory[ci].Transactions = append(byCategory[ci].Transactions, tx)

		month := tx.Date.MonthKey()
		mi, ok := monthIdx[month]
		if !ok {
			mi = len(byMonth)
			monthIdx[month] = mi
			byMonth = append(byMonth, MonthBreakdown{Month: month})
		}
		if amount > 0 {
			byMonth[mi].Income += amount
		} else {
			byMonth[mi].Expenses += -amount
		}
		byMonth[mi].Net = byMonth[mi].Income - byMonth[mi].Expenses
	}

	top := make([]CategoryBreakdown, len(byCategory))
	copy(top, byCategory)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Total > top[j].Total
	})
	if len(top) > topCategoryLimit {
		top = top[:topCategoryLimit]
	}

	return Analytics{ByCategory: byCategory, ByMonth: byMonth, TopCategories: top}
}
