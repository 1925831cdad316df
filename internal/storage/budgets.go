package storage

import (
	"context"
	"fmt"

	"github.com/Bagiswari/finance-tracker/internal/core"
	"github.com/shopspring/decimal"
)

// UpsertBudget inserts or replaces the budget for the
// (user, category, month, year) key. A conflicting row has its amount
// replaced and its update timestamp refreshed; amounts never
// accumulate. The uniqueness constraint makes concurrent upserts for
// the same key last-writer-wins without application locking.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, userID, categoryID int64, amount decimal.Decimal, month, year int) (core.Budget, error) {
	ts := now()
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO budgets (user_id, category_id, amount, month, year, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, category_id, month, year)
		 DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at
		 RETURNING id, created_at, updated_at`,
		userID, categoryID, amount.String(), month, year, ts, ts)

	var id int64
	var createdAt, updatedAt string
	if err := row.Scan(&id, &createdAt, &updatedAt); err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}

	r.log.InfoContext(ctx, "Budget set",
		"id", id,
		"user_id", userID,
		"category_id", categoryID,
		"amount", amount.String(),
		"month", month,
		"year", year)

	return core.Budget{
		ID:         id,
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Month:      month,
		Year:       year,
		Spent:      decimal.Zero,
		CreatedAt:  parseTime(createdAt),
		UpdatedAt:  parseTime(updatedAt),
	}, nil
}

// ListBudgets returns the user's budgets for the month, joined with
// their category names and icons. Spend enrichment happens in core, in
// the same request pass.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64, month, year int) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.user_id, b.category_id, b.amount, b.month, b.year, b.created_at, b.updated_at,
		        c.name, c.icon
		 FROM budgets b
		 LEFT JOIN categories c ON b.category_id = c.id
		 WHERE b.user_id = ? AND b.month = ? AND b.year = ?`,
		userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		var amount, createdAt, updatedAt string
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &amount, &b.Month, &b.Year,
			&createdAt, &updatedAt, &b.CategoryName, &b.CategoryIcon); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse budget amount %q: %w", amount, err)
		}
		b.Spent = decimal.Zero
		b.CreatedAt = parseTime(createdAt)
		b.UpdatedAt = parseTime(updatedAt)
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// DeleteBudget removes the user's budget. A budget that does not exist
// or belongs to another user reports core.ErrNotFound either way, so
// foreign budgets are never revealed.
func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	r.log.InfoContext(ctx, "Budget deleted", "id", id, "user_id", userID)
	return nil
}
