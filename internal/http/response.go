package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Bagiswari/finance-tracker/internal/core"
)

// envelope is the uniform response body: success flag, optional
// human-readable message, optional payload.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) respondData(w http.ResponseWriter, status int, data any) {
	s.writeJSON(w, status, envelope{Success: true, Data: data})
}

func (s *Server) respondMessage(w http.ResponseWriter, status int, message string, data any) {
	s.writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, message := errorStatus(err, fallback)
	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "Request failed",
			"url", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, envelope{Success: false, Message: message})
}

// errorStatus maps domain errors to HTTP statuses. Unknown errors keep
// the handler's fallback message so internals never leak to clients.
func errorStatus(err error, fallback string) (int, string) {
	if msg, ok := asBadRequest(err); ok {
		return http.StatusBadRequest, msg
	}
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, fallback
	case errors.Is(err, core.ErrEmailTaken):
		return http.StatusConflict, "Email is already registered."
	case errors.Is(err, core.ErrInvalidLogin):
		return http.StatusUnauthorized, "Invalid email or password."
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, core.ErrInvalidYear),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrMissingCategory),
		errors.Is(err, core.ErrDescriptionLimit):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, fallback
	}
}

type userJSON struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserJSON(u core.User) userJSON {
	return userJSON{ID: u.ID, Email: u.Email, FullName: u.FullName, CreatedAt: u.CreatedAt}
}

type categoryJSON struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Icon      string `json:"icon"`
	IsDefault bool   `json:"isDefault"`
}

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{ID: c.ID, Name: c.Name, Type: string(c.Type), Icon: c.Icon, IsDefault: c.IsDefault}
}

func toCategoriesJSON(cs []core.Category) []categoryJSON {
	out := make([]categoryJSON, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCategoryJSON(c))
	}
	return out
}

type transactionJSON struct {
	ID            int64           `json:"id"`
	CategoryID    *int64          `json:"categoryId"`
	CategoryName  string          `json:"categoryName,omitempty"`
	CategoryIcon  string          `json:"categoryIcon,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Description   string          `json:"description"`
	Date          string          `json:"date"`
	AICategorized bool            `json:"aiCategorized"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:            t.ID,
		CategoryID:    t.CategoryID,
		CategoryName:  t.CategoryName,
		CategoryIcon:  t.CategoryIcon,
		Amount:        t.Amount,
		Type:          string(t.Type),
		Description:   t.Description,
		Date:          t.Date.ISO(),
		AICategorized: t.AICategorized,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toTransactionsJSON(ts []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransactionJSON(t))
	}
	return out
}

type summaryRowJSON struct {
	Type         string          `json:"type"`
	CategoryName string          `json:"categoryName"`
	CategoryIcon string          `json:"categoryIcon,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Count        int             `json:"count"`
}

type totalsJSON struct {
	Expense decimal.Decimal `json:"expense"`
	Income  decimal.Decimal `json:"income"`
	Balance decimal.Decimal `json:"balance"`
}

func toSummaryJSON(s core.MonthlySummary) (rows []summaryRowJSON, totals totalsJSON) {
	rows = make([]summaryRowJSON, 0, len(s.Rows))
	for _, row := range s.Rows {
		rows = append(rows, summaryRowJSON{
			Type:         string(row.Type),
			CategoryName: row.CategoryName,
			CategoryIcon: row.CategoryIcon,
			Total:        row.Total,
			Count:        row.Count,
		})
	}
	return rows, totalsJSON{Expense: s.TotalExpense, Income: s.TotalIncome, Balance: s.Balance}
}

type analyticsSummaryJSON struct {
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transactionCount"`
}

type categoryBreakdownJSON struct {
	Name    string          `json:"name"`
	Icon    string          `json:"icon,omitempty"`
	Type    string          `json:"type"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
	Average decimal.Decimal `json:"average"`
}

type trendPointJSON struct {
	Date    string          `json:"date"`
	Expense decimal.Decimal `json:"expense"`
	Income  decimal.Decimal `json:"income"`
}

func toAnalyticsJSON(a core.Analytics) map[string]any {
	byCategory := make([]categoryBreakdownJSON, 0, len(a.ByCategory))
	for _, c := range a.ByCategory {
		byCategory = append(byCategory, categoryBreakdownJSON{
			Name:    c.Name,
			Icon:    c.Icon,
			Type:    string(c.Type),
			Total:   c.Total,
			Count:   c.Count,
			Average: c.Average,
		})
	}
	trend := make([]trendPointJSON, 0, len(a.Trend))
	for _, p := range a.Trend {
		trend = append(trend, trendPointJSON{Date: p.Date, Expense: p.Expense, Income: p.Income})
	}
	return map[string]any{
		"summary": analyticsSummaryJSON{
			TotalExpense:     a.TotalExpense,
			TotalIncome:      a.TotalIncome,
			Balance:          a.Balance,
			TransactionCount: a.TransactionCount,
		},
		"byCategory": byCategory,
		"trend":      trend,
	}
}

type budgetJSON struct {
	ID           int64           `json:"id"`
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	CategoryIcon string          `json:"categoryIcon,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Spent        decimal.Decimal `json:"spent"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
}

func toBudgetJSON(b core.Budget) budgetJSON {
	return budgetJSON{
		ID:           b.ID,
		CategoryID:   b.CategoryID,
		CategoryName: b.CategoryName,
		CategoryIcon: b.CategoryIcon,
		Amount:       b.Amount,
		Spent:        b.Spent,
		Month:        b.Month,
		Year:         b.Year,
	}
}

func toBudgetsJSON(bs []core.Budget) []budgetJSON {
	out := make([]budgetJSON, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBudgetJSON(b))
	}
	return out
}

type alertJSON struct {
	Category   string          `json:"category"`
	Budget     decimal.Decimal `json:"budget"`
	Spent      decimal.Decimal `json:"spent"`
	Overspent  decimal.Decimal `json:"overspent"`
	Percentage string          `json:"percentage"`
}

func toAlertsJSON(alerts []core.Alert) []alertJSON {
	out := make([]alertJSON, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, alertJSON{
			Category:   a.Category,
			Budget:     a.Budget,
			Spent:      a.Spent,
			Overspent:  a.Overspent,
			Percentage: a.Percentage,
		})
	}
	return out
}
