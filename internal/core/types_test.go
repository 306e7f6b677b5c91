package core

import (
	"encoding/json"
	"testing"
)

func TestAmountUnmarshalCoercion(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{`12.5`, 12.5},
		{`-40`, -40},
		{`0`, 0},
		{`"99.95"`, 99.95},
		{`" 7 "`, 7},
		{`"not a number"`, 0},
		{`null`, 0},
		{`true`, 0},
		{`{"nested":1}`, 0},
		{`["1"]`, 0},
	}
	for _, tc := range cases {
		var a Amount
		if err := json.Unmarshal([]byte(tc.in), &a); err != nil {
			t.Fatalf("%s: unexpected error %v", tc.in, err)
		}
		if float64(a) != tc.want {
			t.Errorf("%s: got %v, want %v", tc.in, float64(a), tc.want)
		}
	}
}

func TestDateUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		zero bool
	}{
		{`"2024-03-01"`, false},
		{`"2024-03-01T10:30:00Z"`, false},
		{`"2024-03"`, false},
		{`"garbage"`, true},
		{`""`, true},
		{`12345`, true},
		{`null`, true},
	}
	for _, tc := range cases {
		var d Date
		if err := json.Unmarshal([]byte(tc.in), &d); err != nil {
			t.Fatalf("%s: unexpected error %v", tc.in, err)
		}
		if d.IsZero() != tc.zero {
			t.Errorf("%s: IsZero() = %v, want %v", tc.in, d.IsZero(), tc.zero)
		}
	}
}

func TestDateRoundTrip(t *testing.T) {
	var tx Transaction
	in := []byte(`{"amount":10,"category":"food","date":"2024-03-01"}`)
	if err := json.Unmarshal(in, &tx); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out, err := json.Marshal(tx.Date)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2024-03-01"` {
		t.Errorf("date did not round-trip, got %s", out)
	}
}

func TestCategoryOrDefault(t *testing.T) {
	if got := (Transaction{}).CategoryOrDefault(); got != "Uncategorized" {
		t.Errorf("empty category: got %q", got)
	}
	if got := (Transaction{Category: "food"}).CategoryOrDefault(); got != "food" {
		t.Errorf("set category: got %q", got)
	}
}
