package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SortDataset orders arbitrary records by the named field without mutating
// the input. Fields whose name contains "date" compare as timestamps
// (unparseable values sort as the zero time); other fields compare
// numerically when both sides parse as numbers and otherwise as
// case-insensitive strings. The sort is stable, so equal keys keep input
// order.
func SortDataset(items []map[string]any, sortBy, direction string) []map[string]any {
	out := make([]map[string]any, len(items))
	copy(out, items)

	asc := direction == "asc"
	sort.SliceStable(out, func(i, j int) bool {
		c := compareField(out[i][sortBy], out[j][sortBy], sortBy)
		if asc {
			return c < 0
		}
		return c > 0
	})
	return out
}

func compareField(a, b any, field string) int {
	if strings.Contains(strings.ToLower(field), "date") {
		ta, tb := toTime(a), toTime(b)
		switch {
		case ta.Before(tb):
			return -1
		case ta.After(tb):
			return 1
		default:
			return 0
		}
	}

	fa, aok := toNumber(a)
	fb, bok := toNumber(b)
	if aok && bok {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(strings.ToLower(toString(a)), strings.ToLower(toString(b)))
}

func toTime(v any) time.Time {
	switch x := v.(type) {
	case string:
		return ParseDate(x)
	case float64:
		// Epoch milliseconds, the convention of the calling clients.
		return time.UnixMilli(int64(x)).UTC()
	default:
		return time.Time{}
	}
}

func toNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
