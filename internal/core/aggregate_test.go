package core

import "testing"

func TestAggregateByCategory(t *testing.T) {
	got := AggregateByCategory([]Transaction{
		{Category: "food", Amount: 30},
		{Category: "food", Amount: -10},
	})

	if len(got) != 1 {
		t.Fatalf("expected one group, got %d", len(got))
	}
	food := got[0]
	if food.Category != "food" {
		t.Errorf("category = %q", food.Category)
	}
	if food.Income != 30 || food.Expenses != 10 || food.Net != 20 {
		t.Errorf("rollup wrong: %+v", food)
	}
	if food.Count != 2 || len(food.Transactions) != 2 {
		t.Errorf("count wrong: %+v", food)
	}
}

func TestAggregateByCategoryZeroAmountIsExpense(t *testing.T) {
	got := AggregateByCategory([]Transaction{{Category: "misc", Amount: 0}})
	if got[0].Income != 0 || got[0].Expenses != 0 || got[0].Count != 1 {
		t.Errorf("zero amount should count as a 0 expense: %+v", got[0])
	}
}

func TestAggregateByCategoryOrderAndDefault(t *testing.T) {
	got := AggregateByCategory([]Transaction{
		{Category: "b", Amount: 1},
		{Amount: 2},
		{Category: "a", Amount: 3},
		{Category: "b", Amount: 4},
	})
	wantOrder := []string{"b", "Uncategorized", "a"}
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d groups, got %d", len(wantOrder), len(got))
	}
	for i, want := range wantOrder {
		if got[i].Category != want {
			t.Errorf("group %d = %q, want %q", i, got[i].Category, want)
		}
	}
	if got[0].Income != 5 {
		t.Errorf("group b income = %v, want 5", got[0].Income)
	}
}
