package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/benjamonnguyen/focusflow"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type categoryResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func newCategoryResponse(rec focusflow.ExistingCategoryRecord) categoryResponse {
	return categoryResponse{
		ID:        string(rec.ID),
		OwnerID:   string(rec.OwnerID),
		Name:      rec.Name,
		Color:     rec.Color,
		CreatedAt: rec.CreatedAt,
	}
}

func (s *server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !s.decode(w, r, &req) {
		return
	}

	rec := focusflow.CategoryRecord{
		OwnerID: ownerFromContext(r.Context()),
		Name:    req.Name,
		Color:   req.Color,
	}
	if err := rec.Validate(); err != nil {
		s.respondError(w, err)
		return
	}

	category, err := s.categories.InsertCategory(r.Context(), rec)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, newCategoryResponse(category))
}

func (s *server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.GetCategoriesByOwner(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		resp = append(resp, newCategoryResponse(category))
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := s.loadOwnedCategory(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name != "" {
		category.Name = req.Name
	}
	category.Color = req.Color
	if err := category.CategoryRecord.Validate(); err != nil {
		s.respondError(w, err)
		return
	}

	updated, err := s.categories.UpdateCategory(r.Context(), category.ID, category.CategoryRecord)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newCategoryResponse(updated))
}

func (s *server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := s.loadOwnedCategory(w, r)
	if !ok {
		return
	}

	if _, err := s.categories.DeleteCategory(r.Context(), category.ID); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *server) loadOwnedCategory(w http.ResponseWriter, r *http.Request) (focusflow.ExistingCategoryRecord, bool) {
	id := focusflow.CategoryID(chi.URLParam(r, "id"))
	category, err := s.categories.GetCategory(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return focusflow.ExistingCategoryRecord{}, false
	}
	if category.OwnerID != ownerFromContext(r.Context()) {
		s.respondError(w, focusflow.ErrNotFound)
		return focusflow.ExistingCategoryRecord{}, false
	}
	return category, true
}
