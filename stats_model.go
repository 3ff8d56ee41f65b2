package focusflow

import (
	"context"
	"time"
)

// Read-side projections over persisted sessions. No invariants of their own
// beyond reflecting the current persisted state.

type TimerStats struct {
	TotalSessions     int
	Completed         int
	Cancelled         int
	Expired           int
	TotalFocusMinutes int
	AvgSessionMinutes float64
	CompletionRate    float64 // completed / total, 0 when no sessions
}

type DailyBucket struct {
	Day          string // YYYY-MM-DD
	Sessions     int
	FocusMinutes int
}

type KindBreakdown struct {
	Kind         TimerKind
	Sessions     int
	FocusMinutes int
}

type StatsRepo interface {
	GetTimerStats(ctx context.Context, ownerID UserID, from, to time.Time) (TimerStats, error)
	GetDailyBuckets(ctx context.Context, ownerID UserID, from, to time.Time) ([]DailyBucket, error)
	GetKindBreakdown(ctx context.Context, ownerID UserID, from, to time.Time) ([]KindBreakdown, error)
}
