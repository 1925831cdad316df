package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Bagiswari/finance-tracker/internal/auth"
	"github.com/Bagiswari/finance-tracker/internal/core"
)

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	amount := decimal.Zero
	if req.Amount != nil {
		amount = *req.Amount
	}

	suggestion, err := s.deps.Categorizer.Suggest(r.Context(), req.Description, amount, core.TransactionType(req.Type))
	if err != nil {
		s.respondError(w, r, err, "AI categorization failed.")
		return
	}

	s.respondData(w, http.StatusOK, map[string]any{
		"suggestedCategory": suggestion.Category,
		"categoryId":        suggestion.CategoryID,
		"confidence":        suggestion.Confidence,
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	month, year, err := queryMonthYear(r)
	if err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	result, err := s.deps.Insights.Insights(r.Context(), userID, month, year)
	if err != nil {
		s.respondError(w, r, err, "Failed to generate insights.")
		return
	}

	s.respondData(w, http.StatusOK, map[string]any{
		"insights": result.Insights,
		"summary":  result.Summary,
	})
}

func (s *Server) handleBudgetSuggestions(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	month, year, err := queryMonthYear(r)
	if err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	result, err := s.deps.Insights.BudgetSuggestions(r.Context(), userID, month, year)
	if err != nil {
		s.respondError(w, r, err, "Failed to generate budget suggestions.")
		return
	}

	s.respondData(w, http.StatusOK, map[string]any{
		"suggestions":     result.Suggestions,
		"currentSpending": result.CurrentSpending,
	})
}
