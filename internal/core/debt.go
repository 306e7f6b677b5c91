package core

import "strconv"

// maxPayoffMonths caps the amortization loop at 30 years.
const maxPayoffMonths = 360

// DebtBalance is one debt's remaining balance at the end of a simulated month.
type DebtBalance struct {
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// PayoffMonth is a single simulated month of the payoff schedule.
type PayoffMonth struct {
	Month           int           `json:"month"`
	Debts           []DebtBalance `json:"debts"`
	TotalBalance    float64       `json:"totalBalance"`
	InterestAccrued float64       `json:"interestAccrued"`
}

// PayoffPlan is the result of a debt payoff simulation.
type PayoffPlan struct {
	Schedule          []PayoffMonth  `json:"schedule"`
	MonthsToPayoff    int            `json:"monthsToPayoff"`
	YearsToPayoff     string         `json:"yearsToPayoff"`
	TotalInterestPaid float64        `json:"totalInterestPaid"`
	PayoffMonths      map[string]int `json:"payoffMonths"`
}

// CalculateDebtPayoff simulates month-by-month amortization using the
// avalanche method. Each month every open debt accrues balance*(rate/100)/12
// interest and pays its minimum (capped at balance, so a debt never goes
// negative); whatever remains of the monthly budget goes to the open debt
// with the highest interest rate, ties resolved by input order. The loop
// stops when all balances hit zero or after maxPayoffMonths.
//
// Total interest is accumulated live as it accrues each month, and
// PayoffMonths records the month each debt reached zero.
func CalculateDebtPayoff(debts []Debt, monthlyPayment float64) PayoffPlan {
	balances := make([]float64, len(debts))
	for i, d := range debts {
		balances[i] = float64(d.Balance)
	}

	plan := PayoffPlan{
		Schedule:     []PayoffMonth{},
		PayoffMonths: make(map[string]int),
	}

	month := 0
	for outstanding(balances) > 0 && month < maxPayoffMonths {
		month++
		remaining := monthlyPayment
		var monthInterest float64

		// Interest accrual and minimum payments.
		for i, d := range debts {
			if balances[i] <= 0 {
				continue
			}
			interest := balances[i] * (float64(d.InterestRate) / 100) / 12
			monthInterest += interest
			balances[i] += interest

			payment := float64(d.MinPayment)
			if payment > balances[i] {
				payment = balances[i]
			}
			balances[i] -= payment
			remaining -= payment
		}

		// Avalanche: surplus goes to the open debt with the highest rate.
		if remaining > 0 {
			target := -1
			for i, d := range debts {
				if balances[i] <= 0 {
					continue
				}
				if target < 0 || float64(d.InterestRate) > float64(debts[target].InterestRate) {
					target = i
				}
			}
			if target >= 0 {
				payment := remaining
				if payment > balances[target] {
					payment = balances[target]
				}
				balances[target] -= payment
			}
		}

		snapshot := PayoffMonth{Month: month, InterestAccrued: monthInterest}
		for i, d := range debts {
			snapshot.Debts = append(snapshot.Debts, DebtBalance{Name: d.Name, Balance: balances[i]})
			snapshot.TotalBalance += balances[i]
			if balances[i] <= 0 {
				if _, done := plan.PayoffMonths[d.Name]; !done {
					plan.PayoffMonths[d.Name] = month
				}
			}
		}
		plan.Schedule = append(plan.Schedule, snapshot)
		plan.TotalInterestPaid += monthInterest
	}

	plan.MonthsToPayoff = month
	plan.YearsToPayoff = strconv.FormatFloat(float64(month)/12, 'f', 1, 64)
	return plan
}

func outstanding(balances []float64) float64 {
	var total float64
	for _, b := range balances {
		if b > 0 {
			total += b
		}
	}
	return total
}
