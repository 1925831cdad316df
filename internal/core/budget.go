package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Alert flags a budget whose actual spend exceeded its limit for the
// period. Percentage is spent/amount*100 rendered to one decimal place.
type Alert struct {
	Category   string
	Budget     decimal.Decimal
	Spent      decimal.Decimal
	Overspent  decimal.Decimal
	Percentage string
}

// ApplySpend enriches each budget with the summed amounts of the
// expense transactions matching its category, in a single pass over the
// transaction set. The transactions are expected to already be filtered
// to the budgets' user and calendar month. The result is ordered by
// budget amount descending.
func ApplySpend(budgets []Budget, txs []Transaction) []Budget {
	spent := make(map[int64]decimal.Decimal, len(budgets))
	for _, t := range txs {
		if t.Type != Expense || t.CategoryID == nil {
			continue
		}
		cur, ok := spent[*t.CategoryID]
		if !ok {
			cur = decimal.Zero
		}
		spent[*t.CategoryID] = cur.Add(t.Amount)
	}

	out := make([]Budget, len(budgets))
	copy(out, budgets)
	for i := range out {
		s, ok := spent[out[i].CategoryID]
		if !ok {
			s = decimal.Zero
		}
		out[i].Spent = s
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

// Alerts derives the overspend alerts from spend-enriched budgets: the
// exact subset with spent > amount, in the same order as the input (it
// is not re-sorted by severity).
func Alerts(budgets []Budget) []Alert {
	var alerts []Alert
	for _, b := range budgets {
		if !b.Spent.GreaterThan(b.Amount) {
			continue
		}
		alerts = append(alerts, Alert{
			Category:   b.CategoryName,
			Budget:     b.Amount,
			Spent:      b.Spent,
			Overspent:  b.Spent.Sub(b.Amount),
			Percentage: b.Spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).StringFixed(1),
		})
	}
	return alerts
}
