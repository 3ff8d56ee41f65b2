package main

import (
	"net/http"
	"time"

	"github.com/benjamonnguyen/focusflow"
)

type statsSummaryResponse struct {
	TotalSessions     int     `json:"totalSessions"`
	Completed         int     `json:"completed"`
	Cancelled         int     `json:"cancelled"`
	Expired           int     `json:"expired"`
	TotalFocusMinutes int     `json:"totalFocusMinutes"`
	AvgSessionMinutes float64 `json:"avgSessionMinutes"`
	CompletionRate    float64 `json:"completionRate"`
}

type dailyBucketResponse struct {
	Day          string `json:"day"`
	Sessions     int    `json:"sessions"`
	FocusMinutes int    `json:"focusMinutes"`
}

type kindBreakdownResponse struct {
	Kind         string `json:"kind"`
	Sessions     int    `json:"sessions"`
	FocusMinutes int    `json:"focusMinutes"`
}

// statsRange parses ?from=&to= (RFC 3339), defaulting to the last 30 days.
func statsRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, focusflow.ValidationErrors{{Field: "from", Message: "must be RFC 3339"}}
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, focusflow.ValidationErrors{{Field: "to", Message: "must be RFC 3339"}}
		}
		to = parsed
	}
	return from, to, nil
}

func (s *server) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	from, to, err := statsRange(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	stats, err := s.stats.GetTimerStats(r.Context(), ownerFromContext(r.Context()), from, to)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, statsSummaryResponse{
		TotalSessions:     stats.TotalSessions,
		Completed:         stats.Completed,
		Cancelled:         stats.Cancelled,
		Expired:           stats.Expired,
		TotalFocusMinutes: stats.TotalFocusMinutes,
		AvgSessionMinutes: stats.AvgSessionMinutes,
		CompletionRate:    stats.CompletionRate,
	})
}

func (s *server) handleStatsDaily(w http.ResponseWriter, r *http.Request) {
	from, to, err := statsRange(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	buckets, err := s.stats.GetDailyBuckets(r.Context(), ownerFromContext(r.Context()), from, to)
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := make([]dailyBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		resp = append(resp, dailyBucketResponse{
			Day:          b.Day,
			Sessions:     b.Sessions,
			FocusMinutes: b.FocusMinutes,
		})
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *server) handleStatsKinds(w http.ResponseWriter, r *http.Request) {
	from, to, err := statsRange(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	breakdown, err := s.stats.GetKindBreakdown(r.Context(), ownerFromContext(r.Context()), from, to)
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := make([]kindBreakdownResponse, 0, len(breakdown))
	for _, b := range breakdown {
		resp = append(resp, kindBreakdownResponse{
			Kind:         b.Kind.String(),
			Sessions:     b.Sessions,
			FocusMinutes: b.FocusMinutes,
		})
	}
	s.respondJSON(w, http.StatusOK, resp)
}
