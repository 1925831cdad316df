package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Bagiswari/finance-tracker/internal/core"
	"github.com/shopspring/decimal"
)

const transactionColumns = `t.id, t.user_id, t.category_id, t.amount, t.type, t.description, t.date,
	t.ai_categorized, t.created_at, t.updated_at, c.name, c.icon`

// TransactionFilter narrows ListTransactions. Zero-valued fields are
// ignored.
type TransactionFilter struct {
	StartDate  *core.Date
	EndDate    *core.Date
	Type       core.TransactionType
	CategoryID *int64
	Limit      int
}

// CreateTransaction persists a transaction and returns it with the
// category columns joined in.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	ts := now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, category_id, amount, type, description, date, ai_categorized, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, nullableID(t.CategoryID), t.Amount.String(), string(t.Type), t.Description,
		t.Date.ISO(), boolToInt(t.AICategorized), ts, ts)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction id: %w", err)
	}

	r.log.InfoContext(ctx, "Transaction saved",
		"id", id,
		"user_id", t.UserID,
		"type", t.Type,
		"amount", t.Amount.String(),
		"ai_categorized", t.AICategorized)

	return r.GetTransaction(ctx, id, t.UserID)
}

// GetTransaction fetches one transaction owned by the user, joined with
// its category. Returns core.ErrNotFound when it does not exist or
// belongs to another user.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id, userID int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions t
		 LEFT JOIN categories c ON t.category_id = c.id
		 WHERE t.id = ? AND t.user_id = ?`, id, userID)
	return scanTransaction(row)
}

// ListTransactions returns the user's transactions matching the filter,
// ordered by date descending then creation time descending.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, f TransactionFilter) ([]core.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + `
		 FROM transactions t
		 LEFT JOIN categories c ON t.category_id = c.id
		 WHERE t.user_id = ?`)
	args := []any{userID}

	if f.StartDate != nil {
		sb.WriteString(` AND t.date >= ?`)
		args = append(args, f.StartDate.ISO())
	}
	if f.EndDate != nil {
		sb.WriteString(` AND t.date <= ?`)
		args = append(args, f.EndDate.ISO())
	}
	if f.Type != "" {
		sb.WriteString(` AND t.type = ?`)
		args = append(args, string(f.Type))
	}
	if f.CategoryID != nil {
		sb.WriteString(` AND t.category_id = ?`)
		args = append(args, *f.CategoryID)
	}

	sb.WriteString(` ORDER BY t.date DESC, t.created_at DESC`)

	if f.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	return r.queryTransactions(ctx, sb.String(), args...)
}

// ListTransactionsForMonth returns the user's transactions for one
// calendar month, using the YYYY-MM prefix of the stored ISO date.
func (r *SQLiteRepository) ListTransactionsForMonth(ctx context.Context, userID int64, month, year int) ([]core.Transaction, error) {
	prefix := fmt.Sprintf("%04d-%02d", year, month)
	return r.queryTransactions(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions t
		 LEFT JOIN categories c ON t.category_id = c.id
		 WHERE t.user_id = ? AND substr(t.date, 1, 7) = ?
		 ORDER BY t.date DESC, t.created_at DESC`, userID, prefix)
}

// UpdateTransaction applies the non-nil fields, leaving the rest
// unchanged. Returns core.ErrNotFound when the transaction does not
// exist or belongs to another user.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id, userID int64, categoryID *int64, amount *decimal.Decimal, typ *core.TransactionType, description *string, date *core.Date) (core.Transaction, error) {
	var amountStr, typStr, dateStr *string
	if amount != nil {
		s := amount.String()
		amountStr = &s
	}
	if typ != nil {
		s := string(*typ)
		typStr = &s
	}
	if date != nil {
		s := date.ISO()
		dateStr = &s
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET category_id = COALESCE(?, category_id),
		     amount = COALESCE(?, amount),
		     type = COALESCE(?, type),
		     description = COALESCE(?, description),
		     date = COALESCE(?, date),
		     updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		nullableID(categoryID), amountStr, typStr, description, dateStr, now(), id, userID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction rows: %w", err)
	}
	if n == 0 {
		return core.Transaction{}, core.ErrNotFound
	}

	return r.GetTransaction(ctx, id, userID)
}

// DeleteTransaction removes the user's transaction. Returns
// core.ErrNotFound when it does not exist or belongs to another user;
// the two cases are indistinguishable to the caller.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	r.log.InfoContext(ctx, "Transaction deleted", "id", id, "user_id", userID)
	return nil
}

func (r *SQLiteRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var categoryID sql.NullInt64
	var amount, typ, date, createdAt, updatedAt string
	var aiCategorized int
	var catName, catIcon sql.NullString

	err := row.Scan(&t.ID, &t.UserID, &categoryID, &amount, &typ, &t.Description, &date,
		&aiCategorized, &createdAt, &updatedAt, &catName, &catIcon)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}

	if categoryID.Valid {
		v := categoryID.Int64
		t.CategoryID = &v
	}
	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	t.Type = core.TransactionType(typ)
	t.Date, err = core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	t.AICategorized = aiCategorized == 1
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	t.CategoryName = catName.String
	t.CategoryIcon = catIcon.String
	return t, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
