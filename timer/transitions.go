// Package timer implements the session lifecycle state machine:
// running -> paused -> running, with completed/cancelled/expired terminal
// states and pause-duration accounting.
package timer

import (
	"fmt"
	"math"
	"time"

	"github.com/benjamonnguyen/focusflow"
)

type InvalidTransitionError struct {
	Op     string
	Status focusflow.TimerStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s session with status %q", e.Op, e.Status)
}

// Pause moves a running session to paused and opens a pause interval.
func Pause(rec focusflow.TimerSessionRecord, now time.Time) (focusflow.TimerSessionRecord, error) {
	if rec.Status != focusflow.TimerRunning {
		return rec, &InvalidTransitionError{Op: "pause", Status: rec.Status}
	}
	rec.Status = focusflow.TimerPaused
	rec.PausedAt = now
	rec.PauseCount++
	return rec, nil
}

// Resume closes the open pause interval and moves the session back to running.
func Resume(rec focusflow.TimerSessionRecord, now time.Time) (focusflow.TimerSessionRecord, error) {
	if rec.Status != focusflow.TimerPaused {
		return rec, &InvalidTransitionError{Op: "resume", Status: rec.Status}
	}
	rec = closePause(rec, now)
	rec.Status = focusflow.TimerRunning
	return rec, nil
}

// Complete ends a running or paused session, freezing ActualMinutes and
// CompletionPct.
func Complete(rec focusflow.TimerSessionRecord, now time.Time) (focusflow.TimerSessionRecord, error) {
	if rec.Status != focusflow.TimerRunning && rec.Status != focusflow.TimerPaused {
		return rec, &InvalidTransitionError{Op: "complete", Status: rec.Status}
	}
	return finish(rec, now, focusflow.TimerCompleted), nil
}

// Cancel ends a running or paused session early. ActualMinutes is capped at
// the planned duration.
func Cancel(rec focusflow.TimerSessionRecord, now time.Time) (focusflow.TimerSessionRecord, error) {
	if rec.Status != focusflow.TimerRunning && rec.Status != focusflow.TimerPaused {
		return rec, &InvalidTransitionError{Op: "cancel", Status: rec.Status}
	}
	return finish(rec, now, focusflow.TimerCancelled), nil
}

// Expire ends a running session whose non-paused elapsed time exceeded the
// planned duration. It reports false, leaving the record unchanged, in every
// other case.
func Expire(rec focusflow.TimerSessionRecord, now time.Time) (focusflow.TimerSessionRecord, bool) {
	if !rec.IsOverdue(now) {
		return rec, false
	}
	return finish(rec, now, focusflow.TimerExpired), true
}

func closePause(rec focusflow.TimerSessionRecord, now time.Time) focusflow.TimerSessionRecord {
	rec.TotalPaused += now.Sub(rec.PausedAt)
	rec.PausedAt = time.Time{}
	return rec
}

func finish(rec focusflow.TimerSessionRecord, now time.Time, status focusflow.TimerStatus) focusflow.TimerSessionRecord {
	if rec.Status == focusflow.TimerPaused {
		rec = closePause(rec, now)
	}
	rec.Status = status
	rec.EndedAt = now

	focused := now.Sub(rec.StartedAt) - rec.TotalPaused
	minutes := int(math.Round(focused.Minutes()))
	if minutes < 0 {
		minutes = 0
	}
	if status == focusflow.TimerCancelled && minutes > rec.PlannedMinutes {
		minutes = rec.PlannedMinutes
	}
	rec.ActualMinutes = minutes

	pct := int(math.Round(float64(minutes) / float64(rec.PlannedMinutes) * 100))
	if pct > 100 {
		pct = 100
	}
	rec.CompletionPct = pct
	return rec
}
