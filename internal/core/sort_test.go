package core

import "testing"

func TestSortDatasetByDate(t *testing.T) {
	items := []map[string]any{
		{"date": "2024-03-01", "id": "c"},
		{"date": "2024-01-01", "id": "a"},
		{"date": "2024-02-01", "id": "b"},
	}

	asc := SortDataset(items, "date", "asc")
	if asc[0]["id"] != "a" || asc[1]["id"] != "b" || asc[2]["id"] != "c" {
		t.Errorf("ascending date order wrong: %v", asc)
	}

	desc := SortDataset(items, "date", "desc")
	if desc[0]["id"] != "c" || desc[1]["id"] != "b" || desc[2]["id"] != "a" {
		t.Errorf("descending date order wrong: %v", desc)
	}

	// Input slice untouched.
	if items[0]["id"] != "c" {
		t.Errorf("input mutated: %v", items)
	}
}

func TestSortDatasetNumeric(t *testing.T) {
	items := []map[string]any{
		{"amount": 10.5},
		{"amount": "2"}, // numeric string compares numerically
		{"amount": 7.0},
	}
	got := SortDataset(items, "amount", "asc")
	if got[0]["amount"] != "2" || got[1]["amount"] != 7.0 || got[2]["amount"] != 10.5 {
		t.Errorf("numeric order wrong: %v", got)
	}
}

func TestSortDatasetStringFallback(t *testing.T) {
	items := []map[string]any{
		{"name": "banana"},
		{"name": "Apple"},
		{"name": "cherry"},
	}
	got := SortDataset(items, "name", "asc")
	if got[0]["name"] != "Apple" || got[1]["name"] != "banana" || got[2]["name"] != "cherry" {
		t.Errorf("case-insensitive string order wrong: %v", got)
	}
}

func TestSortDatasetStableOnTies(t *testing.T) {
	items := []map[string]any{
		{"amount": 5.0, "id": 1.0},
		{"amount": 5.0, "id": 2.0},
		{"amount": 5.0, "id": 3.0},
	}
	for _, direction := range []string{"asc", "desc"} {
		got := SortDataset(items, "amount", direction)
		for i := range got {
			if got[i]["id"] != float64(i+1) {
				t.Errorf("%s: ties must keep input order, got %v", direction, got)
				break
			}
		}
	}
}

func TestSortDatasetInvalidDatesSortFirst(t *testing.T) {
	items := []map[string]any{
		{"dueDate": "2024-05-01", "id": "valid"},
		{"dueDate": "not a date", "id": "invalid"},
	}
	got := SortDataset(items, "dueDate", "asc")
	if got[0]["id"] != "invalid" {
		t.Errorf("invalid dates should sort as the zero time: %v", got)
	}
}

func TestSortDatasetMissingField(t *testing.T) {
	items := []map[string]any{
		{"name": "b"},
		{"other": 1.0},
	}
	// Must not panic; missing values compare as empty strings.
	got := SortDataset(items, "name", "asc")
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if _, ok := got[0]["other"]; !ok {
		t.Errorf("missing field should sort first: %v", got)
	}
}
