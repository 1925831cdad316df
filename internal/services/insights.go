package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Bagiswari/finance-tracker/internal/ai"
	"github.com/Bagiswari/finance-tracker/internal/core"
	applog "github.com/Bagiswari/finance-tracker/internal/log"
	"github.com/Bagiswari/finance-tracker/internal/storage"
)

const maxInsights = 3

// CategoryAmount pairs a category label with a money amount for
// prompts and API responses.
type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthlyOverview is the condensed month view fed to the model and
// echoed back to the caller alongside the generated text.
type MonthlyOverview struct {
	TotalExpense  decimal.Decimal  `json:"totalExpense"`
	TotalIncome   decimal.Decimal  `json:"totalIncome"`
	Balance       decimal.Decimal  `json:"balance"`
	TopCategories []CategoryAmount `json:"topCategories,omitempty"`
	Categories    []CategoryAmount `json:"categories,omitempty"`
}

// InsightsResult carries the generated insight lines plus the summary
// they were derived from.
type InsightsResult struct {
	Insights []string        `json:"insights"`
	Summary  MonthlyOverview `json:"summary"`
}

// BudgetSuggestionResult carries the model's budget text verbatim plus
// the spending it was based on.
type BudgetSuggestionResult struct {
	Suggestions     string          `json:"suggestions"`
	CurrentSpending MonthlyOverview `json:"currentSpending"`
}

// InsightsService builds bounded prompts from a month of data and asks
// the model for spending insights and budget suggestions. Model
// failures propagate to the caller; there is no deterministic fallback
// for free-form text.
type InsightsService struct {
	storage *storage.SQLiteRepository
	ai      ai.Client
	log     *applog.Logger
}

func NewInsightsService(storage *storage.SQLiteRepository, aiClient ai.Client) *InsightsService {
	return &InsightsService{
		storage: storage,
		ai:      aiClient,
		log:     applog.ForComponent("insights"),
	}
}

// Insights generates up to three one-line insights for the month.
func (s *InsightsService) Insights(ctx context.Context, userID int64, month, year int) (InsightsResult, error) {
	if err := core.ValidateMonthYear(month, year); err != nil {
		return InsightsResult{}, err
	}
	if s.ai == nil {
		return InsightsResult{}, fmt.Errorf("AI client not configured")
	}

	txs, err := s.storage.ListTransactionsForMonth(ctx, userID, month, year)
	if err != nil {
		return InsightsResult{}, fmt.Errorf("load transactions: %w", err)
	}

	summary := core.Summarize(txs)
	overview := MonthlyOverview{
		TotalExpense:  summary.TotalExpense,
		TotalIncome:   summary.TotalIncome,
		Balance:       summary.Balance,
		TopCategories: toCategoryAmounts(summary.TopExpense(5)),
	}

	text, err := s.ai.Generate(ctx, insightsPrompt(overview, txs))
	if err != nil {
		return InsightsResult{}, fmt.Errorf("generate insights: %w", err)
	}

	insights := extractInsights(text)
	s.log.InfoContext(ctx, "Generated insights",
		"user_id", userID, "count", len(insights))

	return InsightsResult{Insights: insights, Summary: overview}, nil
}

// BudgetSuggestions asks the model for per-category budget amounts and
// returns its answer verbatim.
func (s *InsightsService) BudgetSuggestions(ctx context.Context, userID int64, month, year int) (BudgetSuggestionResult, error) {
	if err := core.ValidateMonthYear(month, year); err != nil {
		return BudgetSuggestionResult{}, err
	}
	if s.ai == nil {
		return BudgetSuggestionResult{}, fmt.Errorf("AI client not configured")
	}

	txs, err := s.storage.ListTransactionsForMonth(ctx, userID, month, year)
	if err != nil {
		return BudgetSuggestionResult{}, fmt.Errorf("load transactions: %w", err)
	}

	summary := core.Summarize(txs)
	overview := MonthlyOverview{
		TotalExpense: summary.TotalExpense,
		TotalIncome:  summary.TotalIncome,
		Categories:   toCategoryAmounts(summary.ExpenseRows()),
	}

	text, err := s.ai.Generate(ctx, budgetPrompt(overview))
	if err != nil {
		return BudgetSuggestionResult{}, fmt.Errorf("generate budget suggestions: %w", err)
	}

	return BudgetSuggestionResult{
		Suggestions:     strings.TrimSpace(text),
		CurrentSpending: overview,
	}, nil
}

// extractInsights keeps non-empty sentence lines, at most maxInsights.
func extractInsights(text string) []string {
	insights := make([]string, 0, maxInsights)
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if strings.TrimSpace(line) == "" || !strings.Contains(line, ".") {
			continue
		}
		insights = append(insights, line)
		if len(insights) == maxInsights {
			break
		}
	}
	return insights
}

func toCategoryAmounts(rows []core.SummaryRow) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(rows))
	for _, row := range rows {
		out = append(out, CategoryAmount{Name: row.CategoryName, Amount: row.Total})
	}
	return out
}

func insightsPrompt(overview MonthlyOverview, txs []core.Transaction) string {
	var categories strings.Builder
	for _, c := range overview.TopCategories {
		fmt.Fprintf(&categories, "- %s: $%s\n", c.Name, c.Amount)
	}

	var recent strings.Builder
	for i, t := range txs {
		if i == 5 {
			break
		}
		name := t.CategoryName
		if name == "" {
			name = "Uncategorized"
		}
		fmt.Fprintf(&recent, "- %s: $%s (%s)\n", t.Description, t.Amount, name)
	}

	return fmt.Sprintf(`Analyze this spending data and provide 3 actionable insights:

Monthly Summary:
- Total Expenses: $%s
- Total Income: $%s
- Balance: $%s

Top Spending Categories:
%s
Recent Transactions (last 5):
%s
Provide exactly 3 short insights (one sentence each) to help improve their finances.`,
		overview.TotalExpense, overview.TotalIncome, overview.Balance,
		strings.TrimRight(categories.String(), "\n"),
		strings.TrimRight(recent.String(), "\n"))
}

func budgetPrompt(overview MonthlyOverview) string {
	var categories strings.Builder
	for _, c := range overview.Categories {
		fmt.Fprintf(&categories, "- %s: $%s\n", c.Name, c.Amount)
	}

	return fmt.Sprintf(`Based on this spending data, suggest a realistic monthly budget:

Current Month:
- Total Expenses: $%s
- Total Income: $%s

Category Breakdown:
%s
Suggest budget amounts for each category. Be realistic and slightly lower than current spending to encourage saving.
Format: Category: $Amount`,
		overview.TotalExpense, overview.TotalIncome,
		strings.TrimRight(categories.String(), "\n"))
}
