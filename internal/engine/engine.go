// Package engine dispatches calculation request envelopes to the pure
// functions in internal/core and wraps their outcomes in response envelopes.
// Failures never cross the boundary as anything but an error field: unknown
// operation tags, handler errors, and panics all become error responses tied
// to the request id.
package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"fincalc/internal/core"
)

// Operation tags accepted by the engine.
const (
	TypeCalculateTotals           = "CALCULATE_TOTALS"
	TypeCalculateBudgetStatus     = "CALCULATE_BUDGET_STATUS"
	TypeCalculateDebtPayoff       = "CALCULATE_DEBT_PAYOFF"
	TypeCalculateCashflowForecast = "CALCULATE_CASHFLOW_FORECAST"
	TypeCalculateAnalytics        = "CALCULATE_ANALYTICS"
	TypeFilterTransactions        = "FILTER_TRANSACTIONS"
	TypeSortLargeDataset          = "SORT_LARGE_DATASET"
	TypeAggregateByCategory       = "AGGREGATE_BY_CATEGORY"

	// TypeWorkerReady is the unsolicited readiness signal emitted once by a
	// worker before it serves requests.
	TypeWorkerReady = "WORKER_READY"
)

// Request is the envelope a caller posts to the engine. ID is kept as raw
// JSON so string and numeric correlation tokens round-trip verbatim.
type Request struct {
	ID   json.RawMessage `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Response is the envelope emitted for every request: exactly one of Result
// and Error is non-nil.
type Response struct {
	ID     json.RawMessage `json:"id"`
	Type   string          `json:"type"`
	Result any             `json:"result"`
	Error  *string         `json:"error"`
}

type handlerFunc func(data json.RawMessage) (any, error)

// Engine maps operation tags to handlers. It holds no mutable state between
// requests; concurrent Handle calls are safe.
type Engine struct {
	now      func() time.Time
	handlers map[string]handlerFunc
}

// New returns an engine using the wall clock.
func New() *Engine {
	return NewWithClock(time.Now)
}

// NewWithClock returns an engine whose forecaster derives "today" from the
// given clock.
func NewWithClock(now func() time.Time) *Engine {
	e := &Engine{now: now}
	e.handlers = map[string]handlerFunc{
		TypeCalculateTotals:           e.handleTotals,
		TypeCalculateBudgetStatus:     e.handleBudgetStatus,
		TypeCalculateDebtPayoff:       e.handleDebtPayoff,
		TypeCalculateCashflowForecast: e.handleCashflowForecast,
		TypeCalculateAnalytics:        e.handleAnalytics,
		TypeFilterTransactions:        e.handleFilterTransactions,
		TypeSortLargeDataset:          e.handleSortDataset,
		TypeAggregateByCategory:       e.handleAggregateByCategory,
	}
	return e
}

// Operations returns the known operation tags, sorted for stable output.
func (e *Engine) Operations() []string {
	return []string{
		TypeAggregateByCategory,
		TypeCalculateAnalytics,
		TypeCalculateBudgetStatus,
		TypeCalculateCashflowForecast,
		TypeCalculateDebtPayoff,
		TypeCalculateTotals,
		TypeFilterTransactions,
		TypeSortLargeDataset,
	}
}

// Handle runs one request to completion and always produces a response with
// the same id and type.
func (e *Engine) Handle(req Request) Response {
	resp := Response{ID: req.ID, Type: req.Type}
	result, err := e.invoke(req)
	if err != nil {
		msg := err.Error()
		resp.Error = &msg
		return resp
	}
	resp.Result = result
	return resp
}

func (e *Engine) invoke(req Request) (result any, err error) {
	handler, ok := e.handlers[req.Type]
	if !ok {
		return nil, fmt.Errorf("Unknown calculation type: %s", req.Type)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("calculation %s panicked: %v", req.Type, r)
		}
	}()
	return handler(req.Data)
}

// decode unmarshals an operation payload; an absent payload decodes to the
// zero value so handlers see empty inputs rather than errors.
func decode[T any](data json.RawMessage) (T, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode payload: %w", err)
	}
	return v, nil
}

func (e *Engine) handleTotals(data json.RawMessage) (any, error) {
	txs, err := decode[[]core.Transaction](data)
	if err != nil {
		return nil, err
	}
	return core.CalculateTotals(txs), nil
}

type budgetStatusPayload struct {
	Budgets      []core.Budget      `json:"budgets"`
	Transactions []core.Transaction `json:"transactions"`
}

func (e *Engine) handleBudgetStatus(data json.RawMessage) (any, error) {
	p, err := decode[budgetStatusPayload](data)
	if err != nil {
		return nil, err
	}
	return core.CalculateBudgetStatus(p.Budgets, p.Transactions), nil
}

type debtPayoffPayload struct {
	Debts          []core.Debt `json:"debts"`
	MonthlyPayment core.Amount `json:"monthlyPayment"`
}

func (e *Engine) handleDebtPayoff(data json.RawMessage) (any, error) {
	p, err := decode[debtPayoffPayload](data)
	if err != nil {
		return nil, err
	}
	return core.CalculateDebtPayoff(p.Debts, float64(p.MonthlyPayment)), nil
}

// cashflowPayload also arrives with a "transactions" field from callers; the
// forecaster does not consume it, so it is not decoded.
type cashflowPayload struct {
	Shifts          []core.Shift `json:"shifts"`
	Bills           []core.Bill  `json:"bills"`
	StartingBalance core.Amount  `json:"startingBalance"`
}

func (e *Engine) handleCashflowForecast(data json.RawMessage) (any, error) {
	p, err := decode[cashflowPayload](data)
	if err != nil {
		return nil, err
	}
	return core.CalculateCashflowForecast(p.Shifts, p.Bills, float64(p.StartingBalance), e.now()), nil
}

func (e *Engine) handleAnalytics(data json.RawMessage) (any, error) {
	txs, err := decode[[]core.Transaction](data)
	if err != nil {
		return nil, err
	}
	return core.CalculateAnalytics(txs), nil
}

type filterPayload struct {
	Transactions []core.Transaction `json:"transactions"`
	Filters      core.Filter        `json:"filters"`
}

func (e *Engine) handleFilterTransactions(data json.RawMessage) (any, error) {
	p, err := decode[filterPayload](data)
	if err != nil {
		return nil, err
	}
	return core.FilterTransactions(p.Transactions, p.Filters), nil
}

type sortPayload struct {
	Items     []map[string]any `json:"items"`
	SortBy    string           `json:"sortBy"`
	Direction string           `json:"direction"`
}

func (e *Engine) handleSortDataset(data json.RawMessage) (any, error) {
	p, err := decode[sortPayload](data)
	if err != nil {
		return nil, err
	}
	return core.SortDataset(p.Items, p.SortBy, p.Direction), nil
}

func (e *Engine) handleAggregateByCategory(data json.RawMessage) (any, error) {
	txs, err := decode[[]core.Transaction](data)
	if err != nil {
		return nil, err
	}
	return core.AggregateByCategory(txs), nil
}
