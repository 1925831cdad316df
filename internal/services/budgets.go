package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Bagiswari/finance-tracker/internal/core"
	"github.com/Bagiswari/finance-tracker/internal/events"
	applog "github.com/Bagiswari/finance-tracker/internal/log"
	"github.com/Bagiswari/finance-tracker/internal/storage"
)

// BudgetService manages per-category monthly budgets and derives
// overspend alerts from actual spending.
type BudgetService struct {
	storage *storage.SQLiteRepository
	events  *events.Client
	log     *applog.Logger
}

func NewBudgetService(storage *storage.SQLiteRepository, eventsClient *events.Client) *BudgetService {
	return &BudgetService{
		storage: storage,
		events:  eventsClient,
		log:     applog.ForComponent("budgets"),
	}
}

// Set creates or replaces the budget for a category and period. Setting
// the same period twice overwrites the amount, it never duplicates.
func (s *BudgetService) Set(ctx context.Context, userID, categoryID int64, amount decimal.Decimal, month, year int) (core.Budget, error) {
	b := core.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Month:      month,
		Year:       year,
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	saved, err := s.storage.UpsertBudget(ctx, userID, categoryID, amount, month, year)
	if err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}

	s.publishChanged(ctx, saved, false)
	return saved, nil
}

// List returns the user's budgets for the period, each enriched with
// the amount actually spent.
func (s *BudgetService) List(ctx context.Context, userID int64, month, year int) ([]core.Budget, error) {
	if err := core.ValidateMonthYear(month, year); err != nil {
		return nil, err
	}

	budgets, err := s.storage.ListBudgets(ctx, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	if len(budgets) == 0 {
		return budgets, nil
	}

	txs, err := s.storage.ListTransactionsForMonth(ctx, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return core.ApplySpend(budgets, txs), nil
}

// Alerts returns the budgets whose spending exceeds the limit.
func (s *BudgetService) Alerts(ctx context.Context, userID int64, month, year int) ([]core.Alert, error) {
	budgets, err := s.List(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}
	return core.Alerts(budgets), nil
}

// Delete removes an owned budget.
func (s *BudgetService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.storage.DeleteBudget(ctx, id, userID); err != nil {
		return err
	}
	s.publishChanged(ctx, core.Budget{ID: id, UserID: userID}, true)
	return nil
}

func (s *BudgetService) publishChanged(ctx context.Context, b core.Budget, deleted bool) {
	if s.events == nil {
		return
	}
	msg := &events.BudgetChangedMessage{
		ID:        b.ID,
		UserID:    b.UserID,
		Month:     b.Month,
		Year:      b.Year,
		Deleted:   deleted,
		Timestamp: time.Now(),
	}
	if err := s.events.PublishBudgetChanged(ctx, msg); err != nil {
		s.log.ErrorContext(ctx, "Failed to publish budget changed event",
			"id", b.ID, "error", err)
	}
}
