package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Bagiswari/finance-tracker/internal/core"
	applog "github.com/Bagiswari/finance-tracker/internal/log"

	_ "modernc.org/sqlite"
)

// timeLayout is the storage format for all timestamps. Calendar dates
// use the YYYY-MM-DD prefix of the same ordering.
const timeLayout = time.RFC3339

type SQLiteRepository struct {
	db  *sql.DB
	log *applog.Logger
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, log: applog.ForComponent("storage")}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CreateUser inserts a user with an already-hashed password.
func (r *SQLiteRepository) CreateUser(ctx context.Context, email, passwordHash, fullName string) (core.User, error) {
	ts := now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, full_name, created_at) VALUES (?, ?, ?, ?)`,
		email, passwordHash, fullName, ts)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("create user id: %w", err)
	}

	r.log.InfoContext(ctx, "User created", "id", id, "email", email)

	return core.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		CreatedAt:    parseTime(ts),
	}, nil
}

func (r *SQLiteRepository) FindUserByEmail(ctx context.Context, email string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, full_name, created_at FROM users WHERE email = ?`, email))
}

func (r *SQLiteRepository) FindUserByID(ctx context.Context, id int64) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, full_name, created_at FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	var createdAt string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}
