package http

import (
	"net/http"

	"github.com/Bagiswari/finance-tracker/internal/auth"
)

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req setBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	budget, err := s.deps.Budgets.Set(r.Context(), userID, req.CategoryID, *req.Amount, req.Month, req.Year)
	if err != nil {
		s.respondError(w, r, err, "Server error setting budget.")
		return
	}

	s.respondMessage(w, http.StatusCreated, "Budget set successfully.", map[string]any{
		"budget": toBudgetJSON(budget),
	})
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	month, year, err := queryMonthYear(r)
	if err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	budgets, err := s.deps.Budgets.List(r.Context(), userID, month, year)
	if err != nil {
		s.respondError(w, r, err, "Server error fetching budgets.")
		return
	}

	s.respondData(w, http.StatusOK, map[string]any{
		"budgets": toBudgetsJSON(budgets),
	})
}

func (s *Server) handleBudgetAlerts(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	month, year, err := queryMonthYear(r)
	if err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	alerts, err := s.deps.Budgets.Alerts(r.Context(), userID, month, year)
	if err != nil {
		s.respondError(w, r, err, "Server error fetching alerts.")
		return
	}

	s.respondData(w, http.StatusOK, map[string]any{
		"alerts":    toAlertsJSON(alerts),
		"hasAlerts": len(alerts) > 0,
		"count":     len(alerts),
	})
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	if err := s.deps.Budgets.Delete(r.Context(), id, userID); err != nil {
		s.respondError(w, r, err, "Budget not found.")
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Budget deleted successfully."})
}
