package http

import (
	"net/http"
	"strconv"

	"github.com/Bagiswari/finance-tracker/internal/auth"
	"github.com/Bagiswari/finance-tracker/internal/core"
	"github.com/Bagiswari/finance-tracker/internal/services"
	"github.com/Bagiswari/finance-tracker/internal/storage"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	// Categorization runs unless the caller opts out.
	autoCategorize := true
	if req.AutoCategorize != nil {
		autoCategorize = *req.AutoCategorize
	}

	created, err := s.deps.Transactions.Create(r.Context(), userID, services.CreateTransactionInput{
		CategoryID:     req.CategoryID,
		Amount:         *req.Amount,
		Type:           core.TransactionType(req.Type),
		Description:    req.Description,
		Date:           date,
		AutoCategorize: autoCategorize,
	})
	if err != nil {
		s.respondError(w, r, err, "Server error creating transaction.")
		return
	}

	s.respondMessage(w, http.StatusCreated, "Transaction created successfully.", map[string]any{
		"transaction":   toTransactionJSON(created),
		"aiCategorized": created.AICategorized,
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	filter, err := transactionFilterFromQuery(r)
	if err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	txs, err := s.deps.Transactions.List(r.Context(), userID, filter)
	if err != nil {
		s.respondError(w, r, err, "Server error fetching transactions.")
		return
	}

	s.respondData(w, http.StatusOK, map[string]any{
		"transactions": toTransactionsJSON(txs),
		"count":        len(txs),
	})
}

func transactionFilterFromQuery(r *http.Request) (storage.TransactionFilter, error) {
	var f storage.TransactionFilter
	var err error

	if f.StartDate, err = queryDate(r, "startDate"); err != nil {
		return f, err
	}
	if f.EndDate, err = queryDate(r, "endDate"); err != nil {
		return f, err
	}

	if typ := r.URL.Query().Get("type"); typ != "" {
		t := core.TransactionType(typ)
		if !t.Valid() {
			return f, core.ErrInvalidType
		}
		f.Type = t
	}
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, badRequest("Invalid categoryId.")
		}
		f.CategoryID = &id
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return f, badRequest("Invalid limit.")
		}
		f.Limit = limit
	}
	return f, nil
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	t, err := s.deps.Transactions.Get(r.Context(), id, userID)
	if err != nil {
		s.respondError(w, r, err, "Transaction not found.")
		return
	}

	s.respondData(w, http.StatusOK, map[string]any{"transaction": toTransactionJSON(t)})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	in := services.UpdateTransactionInput{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
	}
	if req.Date != nil {
		date, err := core.ParseDate(*req.Date)
		if err != nil {
			s.respondError(w, r, err, "Invalid request.")
			return
		}
		in.Date = &date
	}

	updated, err := s.deps.Transactions.Update(r.Context(), id, userID, in)
	if err != nil {
		s.respondError(w, r, err, "Transaction not found.")
		return
	}

	s.respondMessage(w, http.StatusOK, "Transaction updated successfully.", map[string]any{
		"transaction": toTransactionJSON(updated),
	})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	if err := s.deps.Transactions.Delete(r.Context(), id, userID); err != nil {
		s.respondError(w, r, err, "Transaction not found.")
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Transaction deleted successfully."})
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	month, year, err := queryMonthYear(r)
	if err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	summary, err := s.deps.Transactions.MonthlySummary(r.Context(), userID, month, year)
	if err != nil {
		s.respondError(w, r, err, "Server error fetching summary.")
		return
	}

	rows, totals := toSummaryJSON(summary)
	s.respondData(w, http.StatusOK, map[string]any{
		"summary": rows,
		"totals":  totals,
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	start, err := queryDate(r, "startDate")
	if err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}
	end, err := queryDate(r, "endDate")
	if err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}
	if start == nil || end == nil {
		s.respondError(w, r, badRequest("Please provide startDate and endDate."), "Invalid request.")
		return
	}

	analytics, err := s.deps.Transactions.Analytics(r.Context(), userID, start, end)
	if err != nil {
		s.respondError(w, r, err, "Server error fetching analytics.")
		return
	}

	s.respondData(w, http.StatusOK, toAnalyticsJSON(analytics))
}
