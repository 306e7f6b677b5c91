package engine

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"fincalc/internal/core"
)

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestHandleUnknownType(t *testing.T) {
	e := New()
	resp := e.Handle(Request{ID: json.RawMessage(`"req-1"`), Type: "BOGUS"})

	if resp.Result != nil {
		t.Errorf("result must be nil, got %v", resp.Result)
	}
	if resp.Error == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(*resp.Error, "BOGUS") {
		t.Errorf("error should name the tag: %q", *resp.Error)
	}
	if string(resp.ID) != `"req-1"` {
		t.Errorf("id not echoed: %s", resp.ID)
	}
}

func TestHandleNumericIDRoundTrips(t *testing.T) {
	e := New()
	resp := e.Handle(Request{ID: json.RawMessage(`42`), Type: TypeCalculateTotals, Data: json.RawMessage(`[]`)})
	if string(resp.ID) != `42` {
		t.Errorf("numeric id not echoed: %s", resp.ID)
	}
	if resp.Error != nil {
		t.Errorf("unexpected error: %s", *resp.Error)
	}
}

func TestHandleMalformedPayload(t *testing.T) {
	e := New()
	resp := e.Handle(Request{Type: TypeCalculateTotals, Data: json.RawMessage(`{"not":"an array"}`)})
	if resp.Error == nil {
		t.Fatal("expected a decode error")
	}
	if resp.Result != nil {
		t.Errorf("result must be nil on error, got %v", resp.Result)
	}
}

func TestHandleTotals(t *testing.T) {
	e := New()
	resp := e.Handle(Request{
		Type: TypeCalculateTotals,
		Data: json.RawMessage(`[{"amount":100},{"amount":-40},{"amount":-10}]`),
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %s", *resp.Error)
	}
	got, ok := resp.Result.(core.Totals)
	if !ok {
		t.Fatalf("unexpected result type %T", resp.Result)
	}
	if got.Income != 100 || got.Expenses != 50 || got.Net != 50 {
		t.Errorf("totals wrong: %+v", got)
	}
}

func TestHandleTotalsCoercesBadAmounts(t *testing.T) {
	e := New()
	resp := e.Handle(Request{
		Type: TypeCalculateTotals,
		Data: json.RawMessage(`[{"amount":"garbage"},{"amount":"25"}]`),
	})
	if resp.Error != nil {
		t.Fatalf("bad field values must coerce, not error: %s", *resp.Error)
	}
	got := resp.Result.(core.Totals)
	if got.Income != 25 || got.Expenses != 0 {
		t.Errorf("totals wrong: %+v", got)
	}
}

func TestHandleBudgetStatus(t *testing.T) {
	e := New()
	resp := e.Handle(Request{
		Type: TypeCalculateBudgetStatus,
		Data: json.RawMessage(`{"budgets":[{"category":"food","amount":200}],"transactions":[{"category":"food","amount":-250}]}`),
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %s", *resp.Error)
	}
	got := resp.Result.([]core.BudgetStatus)
	if len(got) != 1 || got[0].Percentage != 125 || got[0].Status != core.BudgetOver {
		t.Errorf("budget status wrong: %+v", got)
	}
}

func TestHandleDebtPayoff(t *testing.T) {
	e := New()
	resp := e.Handle(Request{
		Type: TypeCalculateDebtPayoff,
		Data: json.RawMessage(`{"debts":[{"name":"card","balance":500,"interestRate":0,"minPayment":500}],"monthlyPayment":500}`),
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %s", *resp.Error)
	}
	got := resp.Result.(core.PayoffPlan)
	if got.MonthsToPayoff != 1 {
		t.Errorf("months = %d, want 1", got.MonthsToPayoff)
	}
}

func TestHandleCashflowForecastUsesClock(t *testing.T) {
	e := NewWithClock(fixedClock)
	resp := e.Handle(Request{
		Type: TypeCalculateCashflowForecast,
		Data: json.RawMessage(`{"shifts":[{"date":"2024-06-10","earnings":800}],"bills":[],"startingBalance":100}`),
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %s", *resp.Error)
	}
	got := resp.Result.([]core.ForecastMonth)
	if len(got) != 12 || got[0].Month != "2024-06" {
		t.Fatalf("forecast wrong: %+v", got[0])
	}
	if got[0].Income != 800 || got[0].EndBalance != 900 {
		t.Errorf("first month wrong: %+v", got[0])
	}
}

func TestHandleFilterTransactions(t *testing.T) {
	e := New()
	resp := e.Handle(Request{
		Type: TypeFilterTransactions,
		Data: json.RawMessage(`{"transactions":[{"description":"a","amount":5},{"description":"b","amount":-5}],"filters":{"type":"expense"}}`),
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %s", *resp.Error)
	}
	got := resp.Result.([]core.Transaction)
	if len(got) != 1 || got[0].Description != "b" {
		t.Errorf("filter wrong: %+v", got)
	}
}

func TestHandleSortLargeDataset(t *testing.T) {
	e := New()
	resp := e.Handle(Request{
		Type: TypeSortLargeDataset,
		Data: json.RawMessage(`{"items":[{"date":"2024-03-01"},{"date":"2024-01-01"},{"date":"2024-02-01"}],"sortBy":"date","direction":"asc"}`),
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %s", *resp.Error)
	}
	got := resp.Result.([]map[string]any)
	if got[0]["date"] != "2024-01-01" || got[2]["date"] != "2024-03-01" {
		t.Errorf("sort wrong: %v", got)
	}
}

func TestHandleAggregateByCategory(t *testing.T) {
	e := New()
	resp := e.Handle(Request{
		Type: TypeAggregateByCategory,
		Data: json.RawMessage(`[{"category":"food","amount":30},{"category":"food","amount":-10}]`),
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %s", *resp.Error)
	}
	got := resp.Result.([]core.CategoryRollup)
	if len(got) != 1 || got[0].Income != 30 || got[0].Expenses != 10 || got[0].Net != 20 || got[0].Count != 2 {
		t.Errorf("rollup wrong: %+v", got)
	}
}

func TestHandleEmptyPayload(t *testing.T) {
	e := New()
	for _, op := range e.Operations() {
		resp := e.Handle(Request{Type: op})
		if resp.Error != nil {
			t.Errorf("%s: absent payload must decode to empty input, got error %q", op, *resp.Error)
		}
	}
}

func TestResponseEnvelopeJSON(t *testing.T) {
	e := New()
	resp := e.Handle(Request{ID: json.RawMessage(`"x"`), Type: "NOPE"})
	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["result"] != nil {
		t.Errorf("result must serialize as null: %s", body)
	}
	if decoded["error"] == nil {
		t.Errorf("error must be non-null: %s", body)
	}
}

func TestOperationsLists8(t *testing.T) {
	if got := len(New().Operations()); got != 8 {
		t.Errorf("expected 8 operations, got %d", got)
	}
}
