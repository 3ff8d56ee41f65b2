package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/benjamonnguyen/focusflow"
)

type notificationResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func newNotificationResponse(rec focusflow.ExistingNotificationRecord) notificationResponse {
	return notificationResponse{
		ID:        string(rec.ID),
		Kind:      string(rec.Kind),
		Body:      rec.Body,
		Read:      rec.Read,
		CreatedAt: rec.CreatedAt,
	}
}

func (s *server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := s.notifications.GetNotificationsByOwner(r.Context(), ownerFromContext(r.Context()), unreadOnly)
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := make([]notificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		resp = append(resp, newNotificationResponse(notification))
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	notification, ok := s.loadOwnedNotification(w, r)
	if !ok {
		return
	}

	updated, err := s.notifications.MarkNotificationRead(r.Context(), notification.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newNotificationResponse(updated))
}

func (s *server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	notification, ok := s.loadOwnedNotification(w, r)
	if !ok {
		return
	}

	if _, err := s.notifications.DeleteNotification(r.Context(), notification.ID); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

// Notifications have no single-record getter on the repo; list and filter.
func (s *server) loadOwnedNotification(w http.ResponseWriter, r *http.Request) (focusflow.ExistingNotificationRecord, bool) {
	id := focusflow.NotificationID(chi.URLParam(r, "id"))
	notifications, err := s.notifications.GetNotificationsByOwner(r.Context(), ownerFromContext(r.Context()), false)
	if err != nil {
		s.respondError(w, err)
		return focusflow.ExistingNotificationRecord{}, false
	}
	for _, notification := range notifications {
		if notification.ID == id {
			return notification, true
		}
	}
	s.respondError(w, focusflow.ErrNotFound)
	return focusflow.ExistingNotificationRecord{}, false
}
