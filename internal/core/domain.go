package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

type (
	TransactionType string

	// Date is a calendar date; the time component is ignored for all
	// reporting purposes.
	Date struct {
		time.Time
	}

	// Category classifies transactions. System defaults carry no owner
	// and are readable by every user; custom categories belong to
	// exactly one user.
	Category struct {
		ID        int64
		UserID    *int64
		Name      string
		Type      TransactionType
		Icon      string
		IsDefault bool
		CreatedAt time.Time
	}

	Transaction struct {
		ID            int64
		UserID        int64
		CategoryID    *int64
		CategoryName  string // joined from categories, empty when uncategorized
		CategoryIcon  string
		Amount        decimal.Decimal
		Type          TransactionType
		Description   string
		Date          Date
		AICategorized bool
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	User struct {
		ID           int64
		Email        string
		PasswordHash string
		FullName     string
		CreatedAt    time.Time
	}

	// Budget is a per-user, per-category spending limit for one
	// calendar month. Spent is derived, never persisted.
	Budget struct {
		ID           int64
		UserID       int64
		CategoryID   int64
		CategoryName string
		CategoryIcon string
		Amount       decimal.Decimal
		Month        int
		Year         int
		Spent        decimal.Decimal
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidType      = errors.New(`type must be either "expense" or "income"`)
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidMonth     = errors.New("month must be between 1 and 12")
	ErrInvalidYear      = errors.New("invalid year")
	ErrEmptyName        = errors.New("empty name")
	ErrMissingCategory  = errors.New("missing category")
	ErrNotFound         = errors.New("not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrInvalidLogin     = errors.New("invalid email or password")
	ErrDescriptionLimit = errors.New("description too long (max 200 characters)")
)

func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// ISO renders the date as YYYY-MM-DD, which sorts lexicographically in
// date order.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// Month returns the calendar month (1-12).
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the calendar year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func ValidateMonthYear(month, year int) error {
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	if year < 1 {
		return ErrInvalidYear
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 200 {
		return ErrDescriptionLimit
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (b Budget) Validate() error {
	if b.CategoryID == 0 {
		return ErrMissingCategory
	}
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return ValidateMonthYear(b.Month, b.Year)
}
