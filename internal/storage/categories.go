package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Bagiswari/finance-tracker/internal/core"
)

// FindCategoryByName looks a category up by case-insensitive exact name
// match across default and custom categories. Returns core.ErrNotFound
// when no category carries the name.
func (r *SQLiteRepository) FindCategoryByName(ctx context.Context, name string) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, icon, is_default, created_at
		 FROM categories
		 WHERE LOWER(name) = LOWER(?)
		 LIMIT 1`, name)
	return scanCategory(row)
}

// ListCategories returns system defaults plus the user's own
// categories, defaults first then name ascending.
func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, type, icon, is_default, created_at
		 FROM categories
		 WHERE is_default = 1 OR user_id = ?
		 ORDER BY is_default DESC, name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CreateCategory inserts a custom category owned by the user.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, userID int64, name string, typ core.TransactionType, icon string) (core.Category, error) {
	if icon == "" {
		icon = "📦"
	}
	ts := now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, type, icon, is_default, created_at)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		userID, name, string(typ), icon, ts)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("create category id: %w", err)
	}

	return core.Category{
		ID:        id,
		UserID:    &userID,
		Name:      name,
		Type:      typ,
		Icon:      icon,
		CreatedAt: parseTime(ts),
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (core.Category, error) {
	var c core.Category
	var userID sql.NullInt64
	var typ string
	var isDefault int
	var createdAt string

	err := row.Scan(&c.ID, &userID, &c.Name, &typ, &c.Icon, &isDefault, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("scan category: %w", err)
	}

	if userID.Valid {
		v := userID.Int64
		c.UserID = &v
	}
	c.Type = core.TransactionType(typ)
	c.IsDefault = isDefault == 1
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}
