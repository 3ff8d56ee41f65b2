package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/benjamonnguyen/focusflow"
	"github.com/benjamonnguyen/focusflow/timer"
)

type startTimerRequest struct {
	GoalID                 string `json:"goalId"`
	Kind                   string `json:"kind"`
	PlannedDurationMinutes int    `json:"plannedDurationMinutes"`
}

type timerSessionResponse struct {
	ID                     string     `json:"id"`
	OwnerID                string     `json:"ownerId"`
	GoalID                 string     `json:"goalId,omitempty"`
	Kind                   string     `json:"kind"`
	Status                 string     `json:"status"`
	PlannedDurationMinutes int        `json:"plannedDurationMinutes"`
	ActualDurationMinutes  int        `json:"actualDurationMinutes"`
	CompletionPercentage   int        `json:"completionPercentage"`
	StartedAt              time.Time  `json:"startedAt"`
	EndedAt                *time.Time `json:"endedAt,omitempty"`
	PausedAt               *time.Time `json:"pausedAt,omitempty"`
	TotalPausedMillis      int64      `json:"totalPausedMillis"`
	PauseCount             int        `json:"pauseCount"`
	ElapsedMillis          int64      `json:"elapsedMillis"`
	RemainingMillis        int64      `json:"remainingMillis"`
	IsOverdue              bool       `json:"isOverdue"`
}

func newTimerSessionResponse(rec focusflow.ExistingTimerSessionRecord, now time.Time) timerSessionResponse {
	resp := timerSessionResponse{
		ID:                     string(rec.ID),
		OwnerID:                string(rec.OwnerID),
		GoalID:                 string(rec.GoalID),
		Kind:                   rec.Kind.String(),
		Status:                 rec.Status.String(),
		PlannedDurationMinutes: rec.PlannedMinutes,
		ActualDurationMinutes:  rec.ActualMinutes,
		CompletionPercentage:   rec.CompletionPct,
		StartedAt:              rec.StartedAt,
		TotalPausedMillis:      rec.TotalPaused.Milliseconds(),
		PauseCount:             rec.PauseCount,
		ElapsedMillis:          rec.Elapsed(now).Milliseconds(),
		RemainingMillis:        rec.Remaining(now).Milliseconds(),
		IsOverdue:              rec.IsOverdue(now),
	}
	if !rec.EndedAt.IsZero() {
		endedAt := rec.EndedAt
		resp.EndedAt = &endedAt
	}
	if !rec.PausedAt.IsZero() {
		pausedAt := rec.PausedAt
		resp.PausedAt = &pausedAt
	}
	return resp
}

func (s *server) handleStartTimer(w http.ResponseWriter, r *http.Request) {
	var req startTimerRequest
	if !s.decode(w, r, &req) {
		return
	}

	owner := ownerFromContext(r.Context())

	// fall back to the owner's preferences
	kind, planned := req.Kind, req.PlannedDurationMinutes
	if kind == "" || planned == 0 {
		if user, err := s.users.GetUser(r.Context(), owner); err == nil {
			if kind == "" {
				kind = user.DefaultKind.String()
			}
			if planned == 0 {
				planned = user.DefaultPlannedMinutes
			}
		}
	}

	parsedKind, ok := focusflow.ParseTimerKind(kind)
	if !ok {
		s.respondError(w, focusflow.ValidationErrors{{Field: "kind", Message: "must be one of pomodoro, focus, break, custom"}})
		return
	}

	session, err := s.machine.Start(r.Context(), timer.StartRequest{
		OwnerID:        owner,
		GoalID:         focusflow.GoalID(req.GoalID),
		Kind:           parsedKind,
		PlannedMinutes: planned,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, newTimerSessionResponse(session, time.Now()))
}

func (s *server) handleGetTimer(w http.ResponseWriter, r *http.Request) {
	session, ok := s.loadOwnedSession(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, newTimerSessionResponse(session, time.Now()))
}

func (s *server) handleActiveTimer(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())
	active, err := s.sessions.GetActiveSessionForOwner(r.Context(), owner)
	if err != nil {
		s.respondError(w, err)
		return
	}

	// expire lazily - an overdue session is no longer active
	session, expired, err := s.machine.ExpireIfOverdue(r.Context(), active.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if expired {
		s.respondError(w, focusflow.ErrNotFound)
		return
	}
	s.respondJSON(w, http.StatusOK, newTimerSessionResponse(session, time.Now()))
}

func (s *server) handleListTimers(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	sessions, err := s.sessions.GetSessionsByOwner(r.Context(), owner, limit, offset)
	if err != nil {
		s.respondError(w, err)
		return
	}

	now := time.Now()
	resp := make([]timerSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, newTimerSessionResponse(session, now))
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *server) handlePauseTimer(w http.ResponseWriter, r *http.Request) {
	s.transitionTimer(w, r, s.machine.Pause)
}

func (s *server) handleResumeTimer(w http.ResponseWriter, r *http.Request) {
	s.transitionTimer(w, r, s.machine.Resume)
}

func (s *server) handleCompleteTimer(w http.ResponseWriter, r *http.Request) {
	s.transitionTimer(w, r, s.machine.Complete)
}

func (s *server) handleCancelTimer(w http.ResponseWriter, r *http.Request) {
	s.transitionTimer(w, r, s.machine.Cancel)
}

func (s *server) transitionTimer(
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, focusflow.TimerSessionID) (focusflow.ExistingTimerSessionRecord, error),
) {
	session, ok := s.loadOwnedSession(w, r)
	if !ok {
		return
	}

	updated, err := op(r.Context(), session.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newTimerSessionResponse(updated, time.Now()))
}

// loadOwnedSession resolves {id}, applies lazy expiry, and hides other
// owners' sessions behind a 404.
func (s *server) loadOwnedSession(w http.ResponseWriter, r *http.Request) (focusflow.ExistingTimerSessionRecord, bool) {
	id := focusflow.TimerSessionID(chi.URLParam(r, "id"))
	session, _, err := s.machine.ExpireIfOverdue(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return focusflow.ExistingTimerSessionRecord{}, false
	}
	if session.OwnerID != ownerFromContext(r.Context()) {
		s.respondError(w, focusflow.ErrNotFound)
		return focusflow.ExistingTimerSessionRecord{}, false
	}
	return session, true
}
