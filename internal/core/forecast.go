package core

import "time"

// forecastHorizon is the number of calendar months projected forward.
const forecastHorizon = 12

// ForecastMonth is one projected month of cashflow.
type ForecastMonth struct {
	Month        string  `json:"month"`
	Income       float64 `json:"income"`
	Expenses     float64 `json:"expenses"`
	Net          float64 `json:"net"`
	StartBalance float64 `json:"startBalance"`
	EndBalance   float64 `json:"endBalance"`
}

// CalculateCashflowForecast projects twelve calendar months forward from now.
// Shift earnings count toward the exact year+month they fall in; bills match
// on month-of-year only, so the same bill recurs in every forecast month that
// shares its due month. Balances thread through: each month starts where the
// previous one ended, seeded by startingBalance.
func CalculateCashflowForecast(shifts []Shift, bills []Bill, startingBalance float64, now time.Time) []ForecastMonth {
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	balance := startingBalance

	out := make([]ForecastMonth, 0, forecastHorizon)
	for i := 0; i < forecastHorizon; i++ {
		month := base.AddDate(0, i, 0)

		var income float64
		for _, s := range shifts {
			if !s.Date.IsZero() && s.Date.Year() == month.Year() && s.Date.Month() == month.Month() {
				income += float64(s.Earnings)
			}
		}

		var expenses float64
		for _, b := range bills {
			if !b.DueDate.IsZero() && b.DueDate.Month() == month.Month() {
				expenses += float64(b.Amount)
			}
		}

		net := income - expenses
		out = append(out, ForecastMonth{
			Month:        month.Format("2006-01"),
			Income:       income,
			Expenses:     expenses,
			Net:          net,
			StartBalance: balance,
			EndBalance:   balance + net,
		})
		balance += net
	}
	return out
}
