// Package core implements the pure calculation routines of the engine.
//
// Every function in this package consumes caller-supplied snapshots and
// derives new values; inputs are never mutated and no I/O happens here.
package core

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Amount is a monetary value with defensive JSON decoding: numbers and
// numeric strings parse normally, anything else (null, booleans, objects,
// garbage strings, missing fields) becomes zero. Decoding never fails.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Amount(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*a = Amount(v)
			return nil
		}
	}
	*a = 0
	return nil
}

// Date wraps time.Time and keeps the caller's original string so snapshots
// round-trip unchanged. Unparseable input yields the zero time, which fails
// any active date-range filter and sorts before all valid dates.
type Date struct {
	time.Time
	raw string
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
}

// ParseDate parses an ISO-style date string, returning the zero time when no
// layout matches.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return Date{Time: t, raw: t.Format("2006-01-02")}
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		d.Time = time.Time{}
		d.raw = ""
		return nil
	}
	d.raw = s
	d.Time = ParseDate(s)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.raw != "" {
		return json.Marshal(d.raw)
	}
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// MonthKey returns the YYYY-MM grouping key for the date.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// Transaction is a single ledger entry. Sign of Amount carries the semantics:
// positive is income, zero or negative is expense.
type Transaction struct {
	Amount      Amount `json:"amount"`
	Category    string `json:"category"`
	Date        Date   `json:"date"`
	Description string `json:"description,omitempty"`
	Merchant    string `json:"merchant,omitempty"`
}

// CategoryOrDefault returns the category, substituting "Uncategorized" when
// the field is empty.
func (t Transaction) CategoryOrDefault() string {
	if t.Category == "" {
		return "Uncategorized"
	}
	return t.Category
}

// Budget allocates an amount to a spending category.
type Budget struct {
	Category string `json:"category"`
	Amount   Amount `json:"amount"`
}

// Debt is an outstanding balance with an annual interest rate and a monthly
// minimum payment.
type Debt struct {
	Name         string `json:"name"`
	Balance      Amount `json:"balance"`
	InterestRate Amount `json:"interestRate"`
	MinPayment   Amount `json:"minPayment"`
}

// Shift is an income-generating work event.
type Shift struct {
	Date     Date   `json:"date"`
	Earnings Amount `json:"earnings"`
}

// Bill is a recurring obligation; the forecaster matches it by the month of
// its due date, ignoring the year.
type Bill struct {
	DueDate Date   `json:"dueDate"`
	Amount  Amount `json:"amount"`
}

// Filter describes the optional constraints applied by FilterTransactions.
// Nil/zero fields impose no constraint.
type Filter struct {
	StartDate  Date     `json:"startDate"`
	EndDate    Date     `json:"endDate"`
	MinAmount  *Amount  `json:"minAmount"`
	MaxAmount  *Amount  `json:"maxAmount"`
	Categories []string `json:"categories"`
	Type       string   `json:"type"`
	Search     string   `json:"search"`
}
