package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/benjamonnguyen/focusflow"
)

type goalRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	CategoryID    string `json:"categoryId"`
	TargetMinutes int    `json:"targetMinutes"`
	DueDate       string `json:"dueDate"` // RFC 3339, optional
	Status        string `json:"status"`  // update only
}

type goalResponse struct {
	ID                 string     `json:"id"`
	OwnerID            string     `json:"ownerId"`
	CategoryID         string     `json:"categoryId,omitempty"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Status             string     `json:"status"`
	TargetMinutes      int        `json:"targetMinutes"`
	AccumulatedMinutes int        `json:"accumulatedMinutes"`
	DueDate            *time.Time `json:"dueDate,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

func newGoalResponse(rec focusflow.ExistingGoalRecord) goalResponse {
	resp := goalResponse{
		ID:                 string(rec.ID),
		OwnerID:            string(rec.OwnerID),
		CategoryID:         string(rec.CategoryID),
		Title:              rec.Title,
		Description:        rec.Description,
		Status:             rec.Status.String(),
		TargetMinutes:      rec.TargetMinutes,
		AccumulatedMinutes: rec.AccumulatedMinutes,
		CreatedAt:          rec.CreatedAt,
	}
	if !rec.DueDate.IsZero() {
		dueDate := rec.DueDate
		resp.DueDate = &dueDate
	}
	return resp
}

func parseGoalStatus(s string) (focusflow.GoalStatus, bool) {
	switch s {
	case "active":
		return focusflow.GoalActive, true
	case "achieved":
		return focusflow.GoalAchieved, true
	case "archived":
		return focusflow.GoalArchived, true
	default:
		return 0, false
	}
}

func (s *server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !s.decode(w, r, &req) {
		return
	}

	rec := focusflow.GoalRecord{
		OwnerID:       ownerFromContext(r.Context()),
		CategoryID:    focusflow.CategoryID(req.CategoryID),
		Title:         req.Title,
		Description:   req.Description,
		Status:        focusflow.GoalActive,
		TargetMinutes: req.TargetMinutes,
	}
	if req.DueDate != "" {
		dueDate, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			s.respondError(w, focusflow.ValidationErrors{{Field: "dueDate", Message: "must be RFC 3339"}})
			return
		}
		rec.DueDate = dueDate
	}
	if err := rec.Validate(); err != nil {
		s.respondError(w, err)
		return
	}

	goal, err := s.goals.InsertGoal(r.Context(), rec)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, newGoalResponse(goal))
}

func (s *server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.GetGoalsByOwner(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := make([]goalResponse, 0, len(goals))
	for _, goal := range goals {
		resp = append(resp, newGoalResponse(goal))
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, ok := s.loadOwnedGoal(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, newGoalResponse(goal))
}

func (s *server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	goal, ok := s.loadOwnedGoal(w, r)
	if !ok {
		return
	}

	var req goalRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.Title != "" {
		goal.Title = req.Title
	}
	goal.Description = req.Description
	goal.CategoryID = focusflow.CategoryID(req.CategoryID)
	if req.TargetMinutes > 0 {
		goal.TargetMinutes = req.TargetMinutes
	}
	if req.Status != "" {
		status, ok := parseGoalStatus(req.Status)
		if !ok {
			s.respondError(w, focusflow.ValidationErrors{{Field: "status", Message: "must be one of active, achieved, archived"}})
			return
		}
		goal.Status = status
	}
	if req.DueDate != "" {
		dueDate, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			s.respondError(w, focusflow.ValidationErrors{{Field: "dueDate", Message: "must be RFC 3339"}})
			return
		}
		goal.DueDate = dueDate
	}
	if err := goal.GoalRecord.Validate(); err != nil {
		s.respondError(w, err)
		return
	}

	updated, err := s.goals.UpdateGoal(r.Context(), goal.ID, goal.GoalRecord)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newGoalResponse(updated))
}

func (s *server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	goal, ok := s.loadOwnedGoal(w, r)
	if !ok {
		return
	}

	if _, err := s.goals.DeleteGoal(r.Context(), goal.ID); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *server) loadOwnedGoal(w http.ResponseWriter, r *http.Request) (focusflow.ExistingGoalRecord, bool) {
	id := focusflow.GoalID(chi.URLParam(r, "id"))
	goal, err := s.goals.GetGoal(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return focusflow.ExistingGoalRecord{}, false
	}
	if goal.OwnerID != ownerFromContext(r.Context()) {
		s.respondError(w, focusflow.ErrNotFound)
		return focusflow.ExistingGoalRecord{}, false
	}
	return goal, true
}
