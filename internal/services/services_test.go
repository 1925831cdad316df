package services

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Bagiswari/finance-tracker/internal/core"
	"github.com/Bagiswari/finance-tracker/internal/storage"
)

// fakeAI is a scripted model: it records every prompt and returns a
// fixed reply or error.
type fakeAI struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeAI) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestStorage(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newTestUser(t *testing.T, repo *storage.SQLiteRepository) core.User {
	t.Helper()
	user, err := repo.CreateUser(context.Background(), "test@example.com", "hash", "Test User")
	require.NoError(t, err)
	return user
}

func categoryID(t *testing.T, repo *storage.SQLiteRepository, name string) int64 {
	t.Helper()
	c, err := repo.FindCategoryByName(context.Background(), name)
	require.NoError(t, err)
	return c.ID
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newTransactionService(repo *storage.SQLiteRepository) *TransactionService {
	resolver := NewResolver(nil, repo, false)
	return NewTransactionService(repo, resolver, nil)
}

func TestCreateAndMonthlySummary(t *testing.T) {
	repo := newTestStorage(t)
	user := newTestUser(t, repo)
	svc := newTransactionService(repo)
	ctx := context.Background()
	foodID := categoryID(t, repo, "Food & Dining")

	for _, in := range []CreateTransactionInput{
		{CategoryID: &foodID, Amount: decimal.NewFromInt(50), Type: core.Expense, Description: "groceries", Date: mustDate(t, "2025-03-01")},
		{CategoryID: &foodID, Amount: decimal.NewFromInt(30), Type: core.Expense, Description: "lunch", Date: mustDate(t, "2025-03-10")},
		{Amount: decimal.NewFromInt(1000), Type: core.Income, Description: "paycheck", Date: mustDate(t, "2025-03-25")},
		{Amount: decimal.NewFromInt(999), Type: core.Expense, Description: "other month", Date: mustDate(t, "2025-04-01")},
	} {
		_, err := svc.Create(ctx, user.ID, in)
		require.NoError(t, err)
	}

	summary, err := svc.MonthlySummary(ctx, user.ID, 3, 2025)
	require.NoError(t, err)
	require.Equal(t, "80", summary.TotalExpense.String())
	require.Equal(t, "1000", summary.TotalIncome.String())
	require.Equal(t, "920", summary.Balance.String())
	require.Len(t, summary.Rows, 2)
	require.Equal(t, "Food & Dining", summary.Rows[1].CategoryName)
	require.Equal(t, 2, summary.Rows[1].Count)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	repo := newTestStorage(t)
	user := newTestUser(t, repo)
	svc := newTransactionService(repo)

	_, err := svc.Create(context.Background(), user.ID, CreateTransactionInput{
		Amount: decimal.NewFromInt(-5),
		Type:   core.Expense,
		Date:   mustDate(t, "2025-03-01"),
	})
	require.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = svc.Create(context.Background(), user.ID, CreateTransactionInput{
		Amount: decimal.NewFromInt(5),
		Type:   "transfer",
		Date:   mustDate(t, "2025-03-01"),
	})
	require.ErrorIs(t, err, core.ErrInvalidType)
}

func TestDeleteForeignTransactionNotFound(t *testing.T) {
	repo := newTestStorage(t)
	user := newTestUser(t, repo)
	other, err := repo.CreateUser(context.Background(), "other@example.com", "hash", "Other")
	require.NoError(t, err)
	svc := newTransactionService(repo)

	created, err := svc.Create(context.Background(), user.ID, CreateTransactionInput{
		Amount: decimal.NewFromInt(10), Type: core.Expense, Date: mustDate(t, "2025-03-01"),
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), created.ID, other.ID)
	require.ErrorIs(t, err, core.ErrNotFound)

	// Still visible to the owner.
	_, err = svc.Get(context.Background(), created.ID, user.ID)
	require.NoError(t, err)
}

func TestBudgetSetListAlerts(t *testing.T) {
	repo := newTestStorage(t)
	user := newTestUser(t, repo)
	txSvc := newTransactionService(repo)
	budgetSvc := NewBudgetService(repo, nil)
	ctx := context.Background()
	foodID := categoryID(t, repo, "Food & Dining")

	_, err := budgetSvc.Set(ctx, user.ID, foodID, decimal.NewFromInt(50), 3, 2025)
	require.NoError(t, err)

	_, err = txSvc.Create(ctx, user.ID, CreateTransactionInput{
		CategoryID: &foodID, Amount: decimal.NewFromInt(80), Type: core.Expense,
		Description: "dinner", Date: mustDate(t, "2025-03-15"),
	})
	require.NoError(t, err)

	budgets, err := budgetSvc.List(ctx, user.ID, 3, 2025)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	require.Equal(t, "80", budgets[0].Spent.String())

	alerts, err := budgetSvc.Alerts(ctx, user.ID, 3, 2025)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.Equal(t, "Food & Dining", alerts[0].Category)
	require.Equal(t, "30", alerts[0].Overspent.String())
	require.Equal(t, "160.0", alerts[0].Percentage)

	// The adjacent month is untouched.
	alerts, err = budgetSvc.Alerts(ctx, user.ID, 4, 2025)
	require.NoError(t, err)
	require.Empty(t, alerts)
}

func TestBudgetUpsertOverwrites(t *testing.T) {
	repo := newTestStorage(t)
	user := newTestUser(t, repo)
	svc := NewBudgetService(repo, nil)
	ctx := context.Background()
	foodID := categoryID(t, repo, "Food & Dining")

	first, err := svc.Set(ctx, user.ID, foodID, decimal.NewFromInt(100), 3, 2025)
	require.NoError(t, err)
	second, err := svc.Set(ctx, user.ID, foodID, decimal.NewFromInt(150), 3, 2025)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	budgets, err := svc.List(ctx, user.ID, 3, 2025)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	require.Equal(t, "150", budgets[0].Amount.String())
}

func TestBudgetDeleteForeignNotFound(t *testing.T) {
	repo := newTestStorage(t)
	user := newTestUser(t, repo)
	other, err := repo.CreateUser(context.Background(), "other@example.com", "hash", "Other")
	require.NoError(t, err)
	svc := NewBudgetService(repo, nil)

	b, err := svc.Set(context.Background(), user.ID, categoryID(t, repo, "Shopping"), decimal.NewFromInt(40), 3, 2025)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), b.ID, other.ID), core.ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), b.ID, user.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), b.ID, user.ID), core.ErrNotFound)
}

func TestAnalyticsRange(t *testing.T) {
	repo := newTestStorage(t)
	user := newTestUser(t, repo)
	svc := newTransactionService(repo)
	ctx := context.Background()
	foodID := categoryID(t, repo, "Food & Dining")

	for _, in := range []CreateTransactionInput{
		{CategoryID: &foodID, Amount: decimal.NewFromInt(20), Type: core.Expense, Description: "a", Date: mustDate(t, "2025-03-01")},
		{Amount: decimal.NewFromInt(15), Type: core.Expense, Description: "b", Date: mustDate(t, "2025-03-02")},
	} {
		_, err := svc.Create(ctx, user.ID, in)
		require.NoError(t, err)
	}

	start := mustDate(t, "2025-03-01")
	end := mustDate(t, "2025-03-31")
	analytics, err := svc.Analytics(ctx, user.ID, &start, &end)
	require.NoError(t, err)
	require.Equal(t, "35", analytics.TotalExpense.String())
	require.Len(t, analytics.ByCategory, 2)
	require.Len(t, analytics.Trend, 2)

	names := []string{analytics.ByCategory[0].Name, analytics.ByCategory[1].Name}
	require.Contains(t, names, "Uncategorized")
	require.True(t, strings.Compare(analytics.Trend[0].Date, analytics.Trend[1].Date) < 0)
}
