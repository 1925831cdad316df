package http

import (
	"net/http"

	"github.com/Bagiswari/finance-tracker/internal/auth"
	"github.com/Bagiswari/finance-tracker/internal/core"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	categories, err := s.deps.Categories.List(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err, "Server error fetching categories.")
		return
	}

	s.respondData(w, http.StatusOK, map[string]any{
		"categories": toCategoriesJSON(categories),
	})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	created, err := s.deps.Categories.Create(r.Context(), userID, req.Name, core.TransactionType(req.Type), req.Icon)
	if err != nil {
		s.respondError(w, r, err, "Server error creating category.")
		return
	}

	s.respondMessage(w, http.StatusCreated, "Category created successfully.", map[string]any{
		"category": toCategoryJSON(created),
	})
}
