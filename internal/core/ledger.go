package core

import "sort"

// Totals holds independent inflow and outflow sums for one currency.
type Totals struct {
	Inflow  Money
	Outflow Money
}

// Net is inflow minus outflow.
func (t Totals) Net() Money {
	return Money{Paisa: t.Inflow.Paisa - t.Outflow.Paisa}
}

// GroupByDay groups records by their YYYY-MM-DD day-key. Only days
// present in the input appear in the result; records within a day are
// ordered ascending by ID. Empty input yields an empty map.
func GroupByDay(records []FinancialRecord) map[string][]FinancialRecord {
	groups := make(map[string][]FinancialRecord, len(records))
	for _, r := range records {
		key := r.OccurredOn.Key()
		groups[key] = append(groups[key], r)
	}
	for _, day := range groups {
		sort.Slice(day, func(i, j int) bool { return day[i].ID < day[j].ID })
	}
	return groups
}

// SortDayKeys orders day-keys most recent first. Day-keys sort
// lexically the same as chronologically, so no date parsing happens
// here and the ordering is fully deterministic.
func SortDayKeys(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

// TotalsFor sums inflows and outflows for records in the given
// currency. Records in other currencies are excluded, never converted.
func TotalsFor(records []FinancialRecord, currency Currency) Totals {
	var t Totals
	for _, r := range records {
		if r.Currency != currency {
			continue
		}
		switch r.Kind {
		case Income:
			t.Inflow.Paisa += r.Amount.Paisa
		case Expense:
			t.Outflow.Paisa += r.Amount.Paisa
		}
	}
	return t
}
