// Package services orchestrates the domain operations: it ties the
// SQLite repository, the AI client, and the event publisher together
// behind the API handlers.
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

// CreateTransactionInput is the validated payload for a new
// transaction. AutoCategorize lets callers opt out of the AI pass.
type CreateTransactionInput struct {
	CategoryID     *int64
	Amount         decimal.Decimal
	Type           core.TransactionType
	Description    string
	Date           core.Date
	AutoCategorize bool
}

// UpdateTransactionInput carries only the fields to change.
type UpdateTransactionInput struct {
	CategoryID  *int64
	Amount      *decimal.Decimal
	Type        *core.TransactionType
	Description *string
	Date        *core.Date
}

// TransactionService manages the transaction lifecycle and the derived
// monthly and range views.
type TransactionService struct {
	storage  *storage.SQLiteRepository
	resolver *Resolver
	events   *events.Client
	log      *applog.Logger
}

func NewTransactionService(storage *storage.SQLiteRepository, resolver *Resolver, eventsClient *events.Client) *TransactionService {
	return &TransactionService{
		storage:  storage,
		resolver: resolver,
		events:   eventsClient,
		log:      applog.ForComponent("transactions"),
	}
}

// Create validates, categorizes, and persists a transaction, then
// publishes a created event. A failed publish never fails the request.
func (s *TransactionService) Create(ctx context.Context, userID int64, in CreateTransactionInput) (core.Transaction, error) {
	t := core.Transaction{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Amount:      in.Amount,
		Type:        in.Type,
		Description: in.Description,
		Date:        in.Date,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t.CategoryID, t.AICategorized = s.resolver.Resolve(
		ctx, in.CategoryID, in.Description, in.Amount, in.Type, in.AutoCategorize)

	created, err := s.storage.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishCreated(ctx, created)
	return created, nil
}

// Get returns one transaction owned by the user.
func (s *TransactionService) Get(ctx context.Context, id, userID int64) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, id, userID)
}

// List returns the user's transactions matching the filter, newest
// first.
func (s *TransactionService) List(ctx context.Context, userID int64, f storage.TransactionFilter) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx, userID, f)
}

// Update changes the provided fields of an owned transaction.
func (s *TransactionService) Update(ctx context.Context, id, userID int64, in UpdateTransactionInput) (core.Transaction, error) {
	if in.Amount != nil && !in.Amount.IsPositive() {
		return core.Transaction{}, core.ErrInvalidAmount
	}
	if in.Type != nil && !in.Type.Valid() {
		return core.Transaction{}, core.ErrInvalidType
	}
	return s.storage.UpdateTransaction(ctx, id, userID, in.CategoryID, in.Amount, in.Type, in.Description, in.Date)
}

// Delete removes an owned transaction.
func (s *TransactionService) Delete(ctx context.Context, id, userID int64) error {
	return s.storage.DeleteTransaction(ctx, id, userID)
}

// MonthlySummary aggregates one calendar month per category and type.
func (s *TransactionService) MonthlySummary(ctx context.Context, userID int64, month, year int) (core.MonthlySummary, error) {
	if err := core.ValidateMonthYear(month, year); err != nil {
		return core.MonthlySummary{}, err
	}
	txs, err := s.storage.ListTransactionsForMonth(ctx, userID, month, year)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("load transactions: %w", err)
	}
	return core.Summarize(txs), nil
}

// Analytics aggregates an arbitrary date range: totals, category
// breakdown, and daily trend.
func (s *TransactionService) Analytics(ctx context.Context, userID int64, start, end *core.Date) (core.Analytics, error) {
	txs, err := s.storage.ListTransactions(ctx, userID, storage.TransactionFilter{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return core.Analytics{}, fmt.Errorf("load transactions: %w", err)
	}
	return core.Analyze(txs), nil
}

func (s *TransactionService) publishCreated(ctx context.Context, t core.Transaction) {
	if s.events == nil {
		return
	}
	msg := &events.TransactionCreatedMessage{
		ID:            t.ID,
		UserID:        t.UserID,
		Type:          string(t.Type),
		AICategorized: t.AICategorized,
		Timestamp:     time.Now(),
	}
	if err := s.events.PublishTransactionCreated(ctx, msg); err != nil {
		s.log.ErrorContext(ctx, "Failed to publish transaction created event",
			"id", t.ID, "error", err)
	}
}
