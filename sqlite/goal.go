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

const SelectAllGoals = "SELECT id, owner_id, category_id, title, description, status, target_minutes, accumulated_minutes, due_date, created_at, updated_at FROM goals"

type goalEntity struct {
	ID                 string
	OwnerID            string
	CategoryID         string
	Title              string
	Description        string
	Status             uint8
	TargetMinutes      int
	AccumulatedMinutes int
	DueDate            int64
	CreatedAt          int64
	UpdatedAt          int64
}

type goalRepo struct {
	dbGetter txStdLib.DBGetter
	l        log.Logger
}

func NewGoalRepo(dbGetter txStdLib.DBGetter, logger log.Logger) *goalRepo {
	return &goalRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *goalRepo) InsertGoal(ctx context.Context, goal focusflow.GoalRecord) (focusflow.ExistingGoalRecord, error) {
	db := r.dbGetter(ctx)
	existingRecord := focusflow.ExistingGoalRecord{
		GoalRecord:     goal,
		ExistingRecord: focusflow.NewExistingRecord[focusflow.GoalID](uuid.NewString()),
	}
	e := mapToGoalEntity(existingRecord)

	args := []any{
		e.ID,
		e.OwnerID,
		e.CategoryID,
		e.Title,
		e.Description,
		e.Status,
		e.TargetMinutes,
		e.AccumulatedMinutes,
		e.DueDate,
		e.CreatedAt,
		e.UpdatedAt,
	}
	query := "INSERT INTO goals (id, owner_id, category_id, title, description, status, target_minutes, accumulated_minutes, due_date, created_at, updated_at) VALUES " + generateParameters(len(args))
	r.l.Debug("creating goal", "query", query, "args", args)
	_, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return focusflow.ExistingGoalRecord{}, err
	}

	return existingRecord, nil
}

func (r *goalRepo) UpdateGoal(ctx context.Context, id focusflow.GoalID, g focusflow.GoalRecord) (focusflow.ExistingGoalRecord, error) {
	existing, err := r.GetGoal(ctx, id)
	if err != nil {
		return existing, err
	}

	existing.GoalRecord = g
	existing.UpdatedAt = time.Now()
	e := mapToGoalEntity(existing)

	query := "UPDATE goals SET owner_id = ?, category_id = ?, title = ?, description = ?, status = ?, target_minutes = ?, accumulated_minutes = ?, due_date = ?, updated_at = ? WHERE id = ?"
	args := []any{
		e.OwnerID,
		e.CategoryID,
		e.Title,
		e.Description,
		e.Status,
		e.TargetMinutes,
		e.AccumulatedMinutes,
		e.DueDate,
		e.UpdatedAt,
		e.ID,
	}
	r.l.Debug("updating goal", "query", query, "args", args)
	_, err = r.dbGetter(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return focusflow.ExistingGoalRecord{}, err
	}

	return existing, nil
}

func (r *goalRepo) DeleteGoal(ctx context.Context, id focusflow.GoalID) (focusflow.ExistingGoalRecord, error) {
	existing, err := r.GetGoal(ctx, id)
	if err != nil {
		return focusflow.ExistingGoalRecord{}, err
	}

	db := r.dbGetter(ctx)
	query := "DELETE FROM goals WHERE id = ?"
	r.l.Debug("deleting goal", "query", query, "id", id)
	if _, err := db.ExecContext(ctx, query, id); err != nil {
		return focusflow.ExistingGoalRecord{}, err
	}

	return existing, nil
}

func (r *goalRepo) GetGoal(ctx context.Context, id focusflow.GoalID) (focusflow.ExistingGoalRecord, error) {
	if id == "" {
		return focusflow.ExistingGoalRecord{}, fmt.Errorf("provide id")
	}

	db := r.dbGetter(ctx)
	row := db.QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE id=?", SelectAllGoals), id,
	)

	return extractGoal(row)
}

func (r *goalRepo) GetGoalsByOwner(ctx context.Context, ownerID focusflow.UserID) ([]focusflow.ExistingGoalRecord, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("provide ownerID")
	}

	db := r.dbGetter(ctx)
	query := fmt.Sprintf("%s WHERE owner_id=? ORDER BY created_at DESC", SelectAllGoals)
	rows, err := db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var goals []focusflow.ExistingGoalRecord
	for rows.Next() {
		goal, err := extractGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return goals, nil
}

func extractGoal(s Scannable) (focusflow.ExistingGoalRecord, error) {
	var e goalEntity
	if err := s.Scan(&e.ID, &e.OwnerID, &e.CategoryID, &e.Title, &e.Description, &e.Status, &e.TargetMinutes, &e.AccumulatedMinutes, &e.DueDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return focusflow.ExistingGoalRecord{}, focusflow.ErrNotFound
		}
		return focusflow.ExistingGoalRecord{}, err
	}

	return mapToExistingGoalRecord(e), nil
}

func mapToGoalEntity(goal focusflow.ExistingGoalRecord) goalEntity {
	return goalEntity{
		ID:                 string(goal.ID),
		OwnerID:            string(goal.OwnerID),
		CategoryID:         string(goal.CategoryID),
		Title:              goal.Title,
		Description:        goal.Description,
		Status:             uint8(goal.Status),
		TargetMinutes:      goal.TargetMinutes,
		AccumulatedMinutes: goal.AccumulatedMinutes,
		DueDate:            toMillis(goal.DueDate),
		CreatedAt:          goal.CreatedAt.UnixMilli(),
		UpdatedAt:          goal.UpdatedAt.UnixMilli(),
	}
}

func mapToExistingGoalRecord(e goalEntity) focusflow.ExistingGoalRecord {
	return focusflow.ExistingGoalRecord{
		ExistingRecord: focusflow.ExistingRecord[focusflow.GoalID]{
			ID:        focusflow.GoalID(e.ID),
			CreatedAt: time.UnixMilli(e.CreatedAt),
			UpdatedAt: time.UnixMilli(e.UpdatedAt),
		},
		GoalRecord: focusflow.GoalRecord{
			OwnerID:            focusflow.UserID(e.OwnerID),
			CategoryID:         focusflow.CategoryID(e.CategoryID),
			Title:              e.Title,
			Description:        e.Description,
			Status:             focusflow.GoalStatus(e.Status),
			TargetMinutes:      e.TargetMinutes,
			AccumulatedMinutes: e.AccumulatedMinutes,
			DueDate:            fromMillis(e.DueDate),
		},
	}
}
