package focusflow

import (
	"context"
	"time"
)

type TimerStatus uint8

const (
	_ TimerStatus = iota
	TimerRunning
	TimerPaused
	TimerCompleted
	TimerCancelled
	TimerExpired
)

func (s TimerStatus) String() string {
	switch s {
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	case TimerCompleted:
		return "completed"
	case TimerCancelled:
		return "cancelled"
	case TimerExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transition is possible.
func (s TimerStatus) IsTerminal() bool {
	switch s {
	case TimerCompleted, TimerCancelled, TimerExpired:
		return true
	}
	return false
}

type TimerKind uint8

const (
	_ TimerKind = iota
	PomodoroTimer
	FocusTimer
	BreakTimer
	CustomTimer
)

func (k TimerKind) String() string {
	switch k {
	case PomodoroTimer:
		return "pomodoro"
	case FocusTimer:
		return "focus"
	case BreakTimer:
		return "break"
	case CustomTimer:
		return "custom"
	default:
		return "unknown"
	}
}

func ParseTimerKind(s string) (TimerKind, bool) {
	switch s {
	case "pomodoro":
		return PomodoroTimer, true
	case "focus":
		return FocusTimer, true
	case "break":
		return BreakTimer, true
	case "custom":
		return CustomTimer, true
	default:
		return 0, false
	}
}

type (
	TimerSessionID string
	GoalID         string
	UserID         string
	CategoryID     string
	NotificationID string
)

const (
	MinPlannedMinutes = 1
	MaxPlannedMinutes = 480
)

type TimerSessionRecord struct {
	OwnerID UserID
	GoalID  GoalID // optional

	//
	Kind           TimerKind
	PlannedMinutes int
	ActualMinutes  int // written once, on the terminal transition
	CompletionPct  int // written once, on the terminal transition
	Status         TimerStatus

	//
	StartedAt   time.Time
	EndedAt     time.Time // zero until terminal
	PausedAt    time.Time // zero unless paused
	TotalPaused time.Duration
	PauseCount  int
}

type ExistingTimerSessionRecord struct {
	ExistingRecord[TimerSessionID]
	TimerSessionRecord
}

func (r TimerSessionRecord) Planned() time.Duration {
	return time.Duration(r.PlannedMinutes) * time.Minute
}

// Elapsed is the focused time excluding pause intervals. Terminal sessions
// report the frozen ActualMinutes value.
func (r TimerSessionRecord) Elapsed(now time.Time) time.Duration {
	switch {
	case r.Status.IsTerminal():
		return time.Duration(r.ActualMinutes) * time.Minute
	case r.Status == TimerPaused:
		return r.PausedAt.Sub(r.StartedAt) - r.TotalPaused
	default:
		return now.Sub(r.StartedAt) - r.TotalPaused
	}
}

func (r TimerSessionRecord) Remaining(now time.Time) time.Duration {
	remaining := r.Planned() - r.Elapsed(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (r TimerSessionRecord) IsOverdue(now time.Time) bool {
	return r.Status == TimerRunning && r.Remaining(now) == 0
}

type TimerSessionRepo interface {
	InsertSession(context.Context, TimerSessionRecord) (ExistingTimerSessionRecord, error)
	UpdateSession(ctx context.Context, id TimerSessionID, r TimerSessionRecord) (ExistingTimerSessionRecord, error)
	DeleteSession(ctx context.Context, id TimerSessionID) (ExistingTimerSessionRecord, error)
	GetSession(ctx context.Context, id TimerSessionID) (ExistingTimerSessionRecord, error)
	// GetActiveSessionForOwner returns the owner's running or paused session,
	// or ErrNotFound when there is none.
	GetActiveSessionForOwner(ctx context.Context, ownerID UserID) (ExistingTimerSessionRecord, error)
	GetSessionsByOwner(ctx context.Context, ownerID UserID, limit, offset int) ([]ExistingTimerSessionRecord, error)
	GetSessionsByStatus(ctx context.Context, statuses ...TimerStatus) ([]ExistingTimerSessionRecord, error)
}
