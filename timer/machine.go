package timer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Thiht/transactor"
	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/focusflow"
)

// ErrActiveSessionExists enforces the one-active-session-per-owner policy.
var ErrActiveSessionExists = errors.New("owner already has an active session")

// Machine applies lifecycle transitions to persisted sessions. Each
// transition runs inside one transaction and under a per-session lock.
type Machine struct {
	sessions focusflow.TimerSessionRepo
	goals    focusflow.GoalRepo
	notifs   focusflow.NotificationRepo
	tx       transactor.Transactor
	clock    Clock
	locks    *lockTable
	l        log.Logger
}

func NewMachine(
	sessions focusflow.TimerSessionRepo,
	goals focusflow.GoalRepo,
	notifs focusflow.NotificationRepo,
	tx transactor.Transactor,
	clock Clock,
	logger log.Logger,
) *Machine {
	return &Machine{
		sessions: sessions,
		goals:    goals,
		notifs:   notifs,
		tx:       tx,
		clock:    clock,
		locks:    newLockTable(),
		l:        logger,
	}
}

type StartRequest struct {
	OwnerID        focusflow.UserID
	GoalID         focusflow.GoalID
	Kind           focusflow.TimerKind
	PlannedMinutes int
}

func (m *Machine) Start(ctx context.Context, req StartRequest) (focusflow.ExistingTimerSessionRecord, error) {
	rec := focusflow.TimerSessionRecord{
		OwnerID:        req.OwnerID,
		GoalID:         req.GoalID,
		Kind:           req.Kind,
		PlannedMinutes: req.PlannedMinutes,
		Status:         focusflow.TimerRunning,
		StartedAt:      m.clock.Now(),
	}
	if err := rec.Validate(); err != nil {
		return focusflow.ExistingTimerSessionRecord{}, err
	}

	var inserted focusflow.ExistingTimerSessionRecord
	err := m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := m.sessions.GetActiveSessionForOwner(ctx, req.OwnerID)
		if err == nil {
			return ErrActiveSessionExists
		}
		if !errors.Is(err, focusflow.ErrNotFound) {
			return err
		}

		inserted, err = m.sessions.InsertSession(ctx, rec)
		return err
	})
	if err != nil {
		return focusflow.ExistingTimerSessionRecord{}, err
	}
	m.l.Debug("started session", "id", inserted.ID, "ownerID", req.OwnerID, "kind", req.Kind)
	return inserted, nil
}

func (m *Machine) Pause(ctx context.Context, id focusflow.TimerSessionID) (focusflow.ExistingTimerSessionRecord, error) {
	return m.transition(ctx, id, Pause)
}

func (m *Machine) Resume(ctx context.Context, id focusflow.TimerSessionID) (focusflow.ExistingTimerSessionRecord, error) {
	return m.transition(ctx, id, Resume)
}

func (m *Machine) Complete(ctx context.Context, id focusflow.TimerSessionID) (focusflow.ExistingTimerSessionRecord, error) {
	return m.transition(ctx, id, Complete)
}

func (m *Machine) Cancel(ctx context.Context, id focusflow.TimerSessionID) (focusflow.ExistingTimerSessionRecord, error) {
	return m.transition(ctx, id, Cancel)
}

func (m *Machine) transition(
	ctx context.Context,
	id focusflow.TimerSessionID,
	apply func(focusflow.TimerSessionRecord, time.Time) (focusflow.TimerSessionRecord, error),
) (focusflow.ExistingTimerSessionRecord, error) {
	unlock := m.locks.Acquire(id)
	defer unlock()

	var updated focusflow.ExistingTimerSessionRecord
	err := m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := m.sessions.GetSession(ctx, id)
		if err != nil {
			return err
		}

		next, err := apply(existing.TimerSessionRecord, m.clock.Now())
		if err != nil {
			return err
		}

		updated, err = m.sessions.UpdateSession(ctx, id, next)
		if err != nil {
			return err
		}
		return m.afterTransition(ctx, existing.TimerSessionRecord, updated)
	})
	if err != nil {
		return focusflow.ExistingTimerSessionRecord{}, err
	}
	return updated, nil
}

// ExpireIfOverdue loads the session and, when it is running past its planned
// duration, applies the expired transition. It reports whether the session
// expired; otherwise the session is returned unchanged.
func (m *Machine) ExpireIfOverdue(ctx context.Context, id focusflow.TimerSessionID) (focusflow.ExistingTimerSessionRecord, bool, error) {
	unlock := m.locks.Acquire(id)
	defer unlock()

	var (
		result  focusflow.ExistingTimerSessionRecord
		expired bool
	)
	err := m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := m.sessions.GetSession(ctx, id)
		if err != nil {
			return err
		}

		next, ok := Expire(existing.TimerSessionRecord, m.clock.Now())
		if !ok {
			result = existing
			return nil
		}

		result, err = m.sessions.UpdateSession(ctx, id, next)
		if err != nil {
			return err
		}
		expired = true
		return m.afterTransition(ctx, existing.TimerSessionRecord, result)
	})
	if err != nil {
		return focusflow.ExistingTimerSessionRecord{}, false, err
	}
	if expired {
		m.l.Debug("expired session", "id", id)
	}
	return result, expired, nil
}

// ExpireOverdue sweeps all running sessions and expires the overdue ones.
func (m *Machine) ExpireOverdue(ctx context.Context) (int, error) {
	running, err := m.sessions.GetSessionsByStatus(ctx, focusflow.TimerRunning)
	if err != nil {
		return 0, err
	}

	var count int
	for _, s := range running {
		if !s.IsOverdue(m.clock.Now()) {
			continue
		}
		_, expired, err := m.ExpireIfOverdue(ctx, s.ID)
		if err != nil {
			m.l.Error("failed to expire overdue session", "id", s.ID, "err", err)
			continue
		}
		if expired {
			count++
		}
	}
	return count, nil
}

// afterTransition records side effects of entering a terminal state:
// a notification for the owner and, for completed sessions linked to a goal,
// goal progress.
func (m *Machine) afterTransition(ctx context.Context, before focusflow.TimerSessionRecord, after focusflow.ExistingTimerSessionRecord) error {
	if before.Status.IsTerminal() || !after.Status.IsTerminal() {
		return nil
	}

	switch after.Status {
	case focusflow.TimerCompleted:
		_, err := m.notifs.InsertNotification(ctx, focusflow.NotificationRecord{
			OwnerID: after.OwnerID,
			Kind:    focusflow.SessionCompletedNotification,
			Body:    fmt.Sprintf("%s session completed: %d of %d planned minutes", after.Kind, after.ActualMinutes, after.PlannedMinutes),
		})
		if err != nil {
			return err
		}
		if after.GoalID != "" {
			return m.recordGoalProgress(ctx, after)
		}
	case focusflow.TimerExpired:
		_, err := m.notifs.InsertNotification(ctx, focusflow.NotificationRecord{
			OwnerID: after.OwnerID,
			Kind:    focusflow.SessionExpiredNotification,
			Body:    fmt.Sprintf("%s session ran past its planned %d minutes", after.Kind, after.PlannedMinutes),
		})
		return err
	}
	return nil
}

func (m *Machine) recordGoalProgress(ctx context.Context, session focusflow.ExistingTimerSessionRecord) error {
	goal, err := m.goals.GetGoal(ctx, session.GoalID)
	if err != nil {
		// weak reference - the goal may have been deleted since the session started
		if errors.Is(err, focusflow.ErrNotFound) {
			m.l.Debug("session references missing goal", "sessionID", session.ID, "goalID", session.GoalID)
			return nil
		}
		return err
	}

	goal.AccumulatedMinutes += session.ActualMinutes
	achieved := goal.Status == focusflow.GoalActive &&
		goal.TargetMinutes > 0 &&
		goal.AccumulatedMinutes >= goal.TargetMinutes
	if achieved {
		goal.Status = focusflow.GoalAchieved
	}

	if _, err := m.goals.UpdateGoal(ctx, goal.ID, goal.GoalRecord); err != nil {
		return err
	}
	if achieved {
		_, err := m.notifs.InsertNotification(ctx, focusflow.NotificationRecord{
			OwnerID: goal.OwnerID,
			Kind:    focusflow.GoalAchievedNotification,
			Body:    fmt.Sprintf("goal %q achieved: %d of %d minutes", goal.Title, goal.AccumulatedMinutes, goal.TargetMinutes),
		})
		return err
	}
	return nil
}
