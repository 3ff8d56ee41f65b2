package main

import (
	"net/http"
	"time"

	"github.com/benjamonnguyen/focusflow"
)

type updateUserRequest struct {
	DisplayName           string `json:"displayName"`
	DefaultPlannedMinutes int    `json:"defaultPlannedMinutes"`
	DefaultKind           string `json:"defaultKind"`
}

type userResponse struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	DisplayName           string    `json:"displayName"`
	DefaultPlannedMinutes int       `json:"defaultPlannedMinutes"`
	DefaultKind           string    `json:"defaultKind"`
	CreatedAt             time.Time `json:"createdAt"`
}

func newUserResponse(rec focusflow.ExistingUserRecord) userResponse {
	return userResponse{
		ID:                    string(rec.ID),
		Email:                 rec.Email,
		DisplayName:           rec.DisplayName,
		DefaultPlannedMinutes: rec.DefaultPlannedMinutes,
		DefaultKind:           rec.DefaultKind.String(),
		CreatedAt:             rec.CreatedAt,
	}
}

func (s *server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetUser(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newUserResponse(user))
}

func (s *server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetUser(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		s.respondError(w, err)
		return
	}

	var req updateUserRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}
	if req.DefaultPlannedMinutes != 0 {
		user.DefaultPlannedMinutes = req.DefaultPlannedMinutes
	}
	if req.DefaultKind != "" {
		kind, ok := focusflow.ParseTimerKind(req.DefaultKind)
		if !ok {
			s.respondError(w, focusflow.ValidationErrors{{Field: "defaultKind", Message: "must be one of pomodoro, focus, break, custom"}})
			return
		}
		user.DefaultKind = kind
	}
	if err := user.UserRecord.Validate(); err != nil {
		s.respondError(w, err)
		return
	}

	updated, err := s.users.UpdateUser(r.Context(), user.ID, user.UserRecord)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newUserResponse(updated))
}
