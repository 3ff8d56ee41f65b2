package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/benjamonnguyen/focusflow"
	"github.com/benjamonnguyen/focusflow/timer"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.Error("failed to encode response", "err", err)
	}
}

func (s *server) respondError(w http.ResponseWriter, err error) {
	var verrs focusflow.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field] = fe.Message
		}
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
		return
	}

	var ite *timer.InvalidTransitionError
	switch {
	case errors.Is(err, focusflow.ErrNotFound):
		s.respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.As(err, &ite):
		s.respondJSON(w, http.StatusConflict, errorResponse{Error: ite.Error()})
	case errors.Is(err, timer.ErrActiveSessionExists):
		s.respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, errBadCredentials):
		s.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	case errors.Is(err, errEmailTaken):
		s.respondJSON(w, http.StatusConflict, errorResponse{Error: "email already registered"})
	default:
		s.l.Error("request failed", "err", err)
		s.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
