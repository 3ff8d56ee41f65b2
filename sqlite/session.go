package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/benjamonnguyen/focusflow"
)

const SelectAllSessions = "SELECT id, owner_id, goal_id, kind, planned_minutes, actual_minutes, completion_pct, status, started_at, ended_at, paused_at, total_paused_ms, pause_count, created_at, updated_at FROM timer_sessions"

type timerSessionEntity struct {
	ID             string
	OwnerID        string
	GoalID         string
	Kind           uint8
	PlannedMinutes int
	ActualMinutes  int
	CompletionPct  int
	Status         uint8
	StartedAt      int64
	EndedAt        int64
	PausedAt       int64
	TotalPausedMS  int64
	PauseCount     int
	CreatedAt      int64
	UpdatedAt      int64
}

type timerSessionRepo struct {
	dbGetter txStdLib.DBGetter
	l        log.Logger
}

func NewTimerSessionRepo(dbGetter txStdLib.DBGetter, logger log.Logger) *timerSessionRepo {
	return &timerSessionRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *timerSessionRepo) InsertSession(ctx context.Context, session focusflow.TimerSessionRecord) (focusflow.ExistingTimerSessionRecord, error) {
	db := r.dbGetter(ctx)
	existingRecord := focusflow.ExistingTimerSessionRecord{
		TimerSessionRecord: session,
		ExistingRecord:     focusflow.NewExistingRecord[focusflow.TimerSessionID](uuid.NewString()),
	}
	e := mapToTimerSessionEntity(existingRecord)

	args := []any{
		e.ID,
		e.OwnerID,
		e.GoalID,
		e.Kind,
		e.PlannedMinutes,
		e.ActualMinutes,
		e.CompletionPct,
		e.Status,
		e.StartedAt,
		e.EndedAt,
		e.PausedAt,
		e.TotalPausedMS,
		e.PauseCount,
		e.CreatedAt,
		e.UpdatedAt,
	}
	query := "INSERT INTO timer_sessions (id, owner_id, goal_id, kind, planned_minutes, actual_minutes, completion_pct, status, started_at, ended_at, paused_at, total_paused_ms, pause_count, created_at, updated_at) VALUES " + generateParameters(len(args))
	r.l.Debug("creating session", "query", query, "args", args)
	_, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return focusflow.ExistingTimerSessionRecord{}, err
	}

	return existingRecord, nil
}

func (r *timerSessionRepo) UpdateSession(ctx context.Context, id focusflow.TimerSessionID, s focusflow.TimerSessionRecord) (focusflow.ExistingTimerSessionRecord, error) {
	existing, err := r.GetSession(ctx, id)
	if err != nil {
		return existing, err
	}

	existing.TimerSessionRecord = s
	existing.UpdatedAt = time.Now()
	e := mapToTimerSessionEntity(existing)

	query := "UPDATE timer_sessions SET owner_id = ?, goal_id = ?, kind = ?, planned_minutes = ?, actual_minutes = ?, completion_pct = ?, status = ?, started_at = ?, ended_at = ?, paused_at = ?, total_paused_ms = ?, pause_count = ?, updated_at = ? WHERE id = ?"
	args := []any{
		e.OwnerID,
		e.GoalID,
		e.Kind,
		e.PlannedMinutes,
		e.ActualMinutes,
		e.CompletionPct,
		e.Status,
		e.StartedAt,
		e.EndedAt,
		e.PausedAt,
		e.TotalPausedMS,
		e.PauseCount,
		e.UpdatedAt,
		e.ID,
	}
	r.l.Debug("updating session", "query", query, "args", args)
	_, err = r.dbGetter(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return focusflow.ExistingTimerSessionRecord{}, err
	}

	return existing, nil
}

func (r *timerSessionRepo) DeleteSession(ctx context.Context, id focusflow.TimerSessionID) (focusflow.ExistingTimerSessionRecord, error) {
	existing, err := r.GetSession(ctx, id)
	if err != nil {
		return focusflow.ExistingTimerSessionRecord{}, err
	}

	db := r.dbGetter(ctx)
	query := "DELETE FROM timer_sessions WHERE id = ?"
	r.l.Debug("deleting session", "query", query, "id", id)
	if _, err := db.ExecContext(ctx, query, id); err != nil {
		return focusflow.ExistingTimerSessionRecord{}, err
	}

	return existing, nil
}

func (r *timerSessionRepo) GetSession(ctx context.Context, id focusflow.TimerSessionID) (focusflow.ExistingTimerSessionRecord, error) {
	if id == "" {
		return focusflow.ExistingTimerSessionRecord{}, fmt.Errorf("provide id")
	}

	db := r.dbGetter(ctx)
	row := db.QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE id=?", SelectAllSessions), id,
	)

	return extractSession(row)
}

func (r *timerSessionRepo) GetActiveSessionForOwner(ctx context.Context, ownerID focusflow.UserID) (focusflow.ExistingTimerSessionRecord, error) {
	if ownerID == "" {
		return focusflow.ExistingTimerSessionRecord{}, fmt.Errorf("provide ownerID")
	}

	db := r.dbGetter(ctx)
	query := fmt.Sprintf("%s WHERE owner_id=? AND status IN (?, ?) LIMIT 1", SelectAllSessions)
	row := db.QueryRowContext(ctx, query, ownerID, uint8(focusflow.TimerRunning), uint8(focusflow.TimerPaused))

	return extractSession(row)
}

func (r *timerSessionRepo) GetSessionsByOwner(ctx context.Context, ownerID focusflow.UserID, limit, offset int) ([]focusflow.ExistingTimerSessionRecord, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("provide ownerID")
	}
	if limit <= 0 {
		limit = 50
	}

	db := r.dbGetter(ctx)
	query := fmt.Sprintf("%s WHERE owner_id=? ORDER BY started_at DESC LIMIT ? OFFSET ?", SelectAllSessions)
	rows, err := db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	return collectSessions(rows)
}

func (r *timerSessionRepo) GetSessionsByStatus(ctx context.Context, statuses ...focusflow.TimerStatus) ([]focusflow.ExistingTimerSessionRecord, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	db := r.dbGetter(ctx)
	query := fmt.Sprintf("%s WHERE status IN %s", SelectAllSessions, generateParameters(len(statuses)))
	r.l.Debug("getting sessions by status", "query", query, "statuses", statuses)
	var statusInts []any
	for _, s := range statuses {
		statusInts = append(statusInts, uint8(s))
	}
	rows, err := db.QueryContext(ctx, query, statusInts...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	return collectSessions(rows)
}

func collectSessions(rows *sql.Rows) ([]focusflow.ExistingTimerSessionRecord, error) {
	var sessions []focusflow.ExistingTimerSessionRecord
	for rows.Next() {
		session, err := extractSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func extractSession(s Scannable) (focusflow.ExistingTimerSessionRecord, error) {
	var e timerSessionEntity
	if err := s.Scan(&e.ID, &e.OwnerID, &e.GoalID, &e.Kind, &e.PlannedMinutes, &e.ActualMinutes, &e.CompletionPct, &e.Status, &e.StartedAt, &e.EndedAt, &e.PausedAt, &e.TotalPausedMS, &e.PauseCount, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return focusflow.ExistingTimerSessionRecord{}, focusflow.ErrNotFound
		}
		return focusflow.ExistingTimerSessionRecord{}, err
	}

	return mapToExistingTimerSessionRecord(e), nil
}

func mapToTimerSessionEntity(session focusflow.ExistingTimerSessionRecord) timerSessionEntity {
	return timerSessionEntity{
		ID:             string(session.ID),
		OwnerID:        string(session.OwnerID),
		GoalID:         string(session.GoalID),
		Kind:           uint8(session.Kind),
		PlannedMinutes: session.PlannedMinutes,
		ActualMinutes:  session.ActualMinutes,
		CompletionPct:  session.CompletionPct,
		Status:         uint8(session.Status),
		StartedAt:      toMillis(session.StartedAt),
		EndedAt:        toMillis(session.EndedAt),
		PausedAt:       toMillis(session.PausedAt),
		TotalPausedMS:  session.TotalPaused.Milliseconds(),
		PauseCount:     session.PauseCount,
		CreatedAt:      session.CreatedAt.UnixMilli(),
		UpdatedAt:      session.UpdatedAt.UnixMilli(),
	}
}

func mapToExistingTimerSessionRecord(e timerSessionEntity) focusflow.ExistingTimerSessionRecord {
	return focusflow.ExistingTimerSessionRecord{
		ExistingRecord: focusflow.ExistingRecord[focusflow.TimerSessionID]{
			ID:        focusflow.TimerSessionID(e.ID),
			CreatedAt: time.UnixMilli(e.CreatedAt),
			UpdatedAt: time.UnixMilli(e.UpdatedAt),
		},
		TimerSessionRecord: focusflow.TimerSessionRecord{
			OwnerID:        focusflow.UserID(e.OwnerID),
			GoalID:         focusflow.GoalID(e.GoalID),
			Kind:           focusflow.TimerKind(e.Kind),
			PlannedMinutes: e.PlannedMinutes,
			ActualMinutes:  e.ActualMinutes,
			CompletionPct:  e.CompletionPct,
			Status:         focusflow.TimerStatus(e.Status),
			StartedAt:      fromMillis(e.StartedAt),
			EndedAt:        fromMillis(e.EndedAt),
			PausedAt:       fromMillis(e.PausedAt),
			TotalPaused:    time.Duration(e.TotalPausedMS) * time.Millisecond,
			PauseCount:     e.PauseCount,
		},
	}
}
