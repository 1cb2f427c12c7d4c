package expense

import "sort"

// CurrencySummary is the aggregate for one currency group. Amounts stay in
// integer minor units; display rounding is the caller's concern.
type CurrencySummary struct {
	Currency          string `json:"currency"`
	TotalMinorUnits   int64  `json:"total_minor_units"`
	Count             int64  `json:"count"`
	AverageMinorUnits int64  `json:"average_minor_units"`
}

// SummarizeByCurrency groups a result set by currency code and computes
// per-currency totals, counts, and integer averages. Amounts of different
// currencies are never combined into one sum. The result is ordered by
// currency code so a fixed input always yields the same output.
func SummarizeByCurrency(items []*Expense) []CurrencySummary {
	groups := make(map[string]*CurrencySummary)
	for _, e := range items {
		g, ok := groups[e.Amount.Currency]
		if !ok {
			g = &CurrencySummary{Currency: e.Amount.Currency}
			groups[e.Amount.Currency] = g
		}
		g.TotalMinorUnits += e.Amount.Amount
		g.Count++
	}

	out := make([]CurrencySummary, 0, len(groups))
	for _, g := range groups {
		g.AverageMinorUnits = g.TotalMinorUnits / g.Count
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })

	return out
}
