package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Bagiswari/finance-tracker/internal/core"
)

// errBadRequest wraps client mistakes whose message is safe to echo.
type errBadRequest struct{ msg string }

func (e errBadRequest) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return errBadRequest{msg: fmt.Sprintf(format, args...)}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("Invalid JSON body.")
	}
	return nil
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

func (r registerRequest) validate() error {
	if strings.TrimSpace(r.Email) == "" || !strings.Contains(r.Email, "@") {
		return badRequest("Please provide a valid email address.")
	}
	if len(r.Password) < 6 {
		return badRequest("Password must be at least 6 characters.")
	}
	if strings.TrimSpace(r.FullName) == "" {
		return badRequest("Please provide your full name.")
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) validate() error {
	if r.Email == "" || r.Password == "" {
		return badRequest("Please provide email and password.")
	}
	return nil
}

type createTransactionRequest struct {
	CategoryID     *int64           `json:"categoryId"`
	Amount         *decimal.Decimal `json:"amount"`
	Type           string           `json:"type"`
	Description    string           `json:"description"`
	Date           string           `json:"date"`
	AutoCategorize *bool            `json:"autoCategorize"`
}

func (r createTransactionRequest) validate() error {
	if r.Amount == nil || r.Type == "" || r.Date == "" {
		return badRequest("Please provide amount, type, and date.")
	}
	return nil
}

type updateTransactionRequest struct {
	CategoryID  *int64                `json:"categoryId"`
	Amount      *decimal.Decimal      `json:"amount"`
	Type        *core.TransactionType `json:"type"`
	Description *string               `json:"description"`
	Date        *string               `json:"date"`
}

type createCategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Icon string `json:"icon"`
}

type setBudgetRequest struct {
	CategoryID int64            `json:"categoryId"`
	Amount     *decimal.Decimal `json:"amount"`
	Month      int              `json:"month"`
	Year       int              `json:"year"`
}

func (r setBudgetRequest) validate() error {
	if r.CategoryID == 0 || r.Amount == nil || r.Month == 0 || r.Year == 0 {
		return badRequest("Please provide categoryId, amount, month, and year.")
	}
	return nil
}

type categorizeRequest struct {
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Type        string           `json:"type"`
}

func (r categorizeRequest) validate() error {
	if r.Description == "" || r.Type == "" {
		return badRequest("Please provide description and type.")
	}
	return nil
}

// pathID extracts the numeric {id} segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, badRequest("Invalid id.")
	}
	return id, nil
}

// queryMonthYear parses the required month and year parameters.
func queryMonthYear(r *http.Request) (month, year int, err error) {
	monthStr := r.URL.Query().Get("month")
	yearStr := r.URL.Query().Get("year")
	if monthStr == "" || yearStr == "" {
		return 0, 0, badRequest("Please provide month and year.")
	}
	month, err = strconv.Atoi(monthStr)
	if err != nil {
		return 0, 0, core.ErrInvalidMonth
	}
	year, err = strconv.Atoi(yearStr)
	if err != nil {
		return 0, 0, core.ErrInvalidYear
	}
	return month, year, nil
}

func queryDate(r *http.Request, name string) (*core.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return nil, badRequest("Invalid %s, expected YYYY-MM-DD.", name)
	}
	return &d, nil
}

// asBadRequest reports whether err carries a client-facing message.
func asBadRequest(err error) (string, bool) {
	var br errBadRequest
	if errors.As(err, &br) {
		return br.msg, true
	}
	return "", false
}
