package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SummaryRow is one (type, category) group of a monthly summary.
type SummaryRow struct {
	Type         TransactionType
	CategoryName string // empty when the group is uncategorized
	CategoryIcon string
	Total        decimal.Decimal
	Count        int
}

// MonthlySummary is the grouped view of one calendar month.
type MonthlySummary struct {
	Rows         []SummaryRow
	TotalExpense decimal.Decimal
	TotalIncome  decimal.Decimal
	Balance      decimal.Decimal
}

// CategoryBreakdown is one (category, type) group of a range analytics
// result. Uncategorized transactions group under the literal
// "Uncategorized" name with no icon.
type CategoryBreakdown struct {
	Name    string
	Icon    string
	Type    TransactionType
	Total   decimal.Decimal
	Count   int
	Average decimal.Decimal
}

// TrendPoint carries the expense and income subtotals of one calendar
// date, keyed by its ISO string.
type TrendPoint struct {
	Date    string
	Expense decimal.Decimal
	Income  decimal.Decimal
}

// Analytics is the derived aggregate view over a date range. It is
// computed fresh per query and never cached.
type Analytics struct {
	TotalExpense     decimal.Decimal
	TotalIncome      decimal.Decimal
	Balance          decimal.Decimal
	TransactionCount int
	ByCategory       []CategoryBreakdown
	Trend            []TrendPoint
}

// Summarize groups the transactions of one month by (type, category)
// and orders the groups by summed amount descending. An empty input
// yields zero totals and no rows.
func Summarize(txs []Transaction) MonthlySummary {
	type key struct {
		typ  TransactionType
		name string
	}

	idx := make(map[key]int)
	summary := MonthlySummary{
		TotalExpense: decimal.Zero,
		TotalIncome:  decimal.Zero,
	}

	for _, t := range txs {
		k := key{typ: t.Type, name: t.CategoryName}
		i, ok := idx[k]
		if !ok {
			i = len(summary.Rows)
			idx[k] = i
			summary.Rows = append(summary.Rows, SummaryRow{
				Type:         t.Type,
				CategoryName: t.CategoryName,
				CategoryIcon: t.CategoryIcon,
				Total:        decimal.Zero,
			})
		}
		summary.Rows[i].Total = summary.Rows[i].Total.Add(t.Amount)
		summary.Rows[i].Count++

		switch t.Type {
		case Expense:
			summary.TotalExpense = summary.TotalExpense.Add(t.Amount)
		case Income:
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
		}
	}

	sort.SliceStable(summary.Rows, func(i, j int) bool {
		return summary.Rows[i].Total.GreaterThan(summary.Rows[j].Total)
	})

	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary
}

// Analyze computes range analytics over an already-filtered transaction
// set: overall totals, the per-category breakdown sorted by total
// descending, and the daily trend sorted by date ascending.
//
// Groups are keyed by (category name, type) rather than name alone, so
// a category observed with both transaction types yields two groups.
func Analyze(txs []Transaction) Analytics {
	type catKey struct {
		name string
		typ  TransactionType
	}

	a := Analytics{
		TotalExpense:     decimal.Zero,
		TotalIncome:      decimal.Zero,
		TransactionCount: len(txs),
	}

	catIdx := make(map[catKey]int)
	dayIdx := make(map[string]int)

	for _, t := range txs {
		name := t.CategoryName
		icon := t.CategoryIcon
		if name == "" {
			name = "Uncategorized"
			icon = ""
		}

		ck := catKey{name: name, typ: t.Type}
		ci, ok := catIdx[ck]
		if !ok {
			ci = len(a.ByCategory)
			catIdx[ck] = ci
			a.ByCategory = append(a.ByCategory, CategoryBreakdown{
				Name:  name,
				Icon:  icon,
				Type:  t.Type,
				Total: decimal.Zero,
			})
		}
		a.ByCategory[ci].Total = a.ByCategory[ci].Total.Add(t.Amount)
		a.ByCategory[ci].Count++

		day := t.Date.ISO()
		di, ok := dayIdx[day]
		if !ok {
			di = len(a.Trend)
			dayIdx[day] = di
			a.Trend = append(a.Trend, TrendPoint{
				Date:    day,
				Expense: decimal.Zero,
				Income:  decimal.Zero,
			})
		}

		switch t.Type {
		case Expense:
			a.TotalExpense = a.TotalExpense.Add(t.Amount)
			a.Trend[di].Expense = a.Trend[di].Expense.Add(t.Amount)
		case Income:
			a.TotalIncome = a.TotalIncome.Add(t.Amount)
			a.Trend[di].Income = a.Trend[di].Income.Add(t.Amount)
		}
	}

	// Count is at least 1 for every emitted group, so the division is
	// always defined.
	for i := range a.ByCategory {
		a.ByCategory[i].Average = a.ByCategory[i].Total.Div(decimal.NewFromInt(int64(a.ByCategory[i].Count)))
	}

	sort.SliceStable(a.ByCategory, func(i, j int) bool {
		return a.ByCategory[i].Total.GreaterThan(a.ByCategory[j].Total)
	})
	sort.Slice(a.Trend, func(i, j int) bool {
		return a.Trend[i].Date < a.Trend[j].Date
	})

	a.Balance = a.TotalIncome.Sub(a.TotalExpense)
	return a
}

// ExpenseRows returns the expense-typed groups of the summary,
// preserving the total-descending order.
func (s MonthlySummary) ExpenseRows() []SummaryRow {
	rows := make([]SummaryRow, 0, len(s.Rows))
	for _, r := range s.Rows {
		if r.Type == Expense {
			rows = append(rows, r)
		}
	}
	return rows
}

// TopExpense returns the expense-only groups truncated to the n largest
// by total. Used for insight generation.
func (s MonthlySummary) TopExpense(n int) []SummaryRow {
	rows := s.ExpenseRows()
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
