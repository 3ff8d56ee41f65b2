package focusflow

import (
	"context"
	"time"
)

type GoalStatus uint8

const (
	_ GoalStatus = iota
	GoalActive
	GoalAchieved
	GoalArchived
)

func (s GoalStatus) String() string {
	switch s {
	case GoalActive:
		return "active"
	case GoalAchieved:
		return "achieved"
	case GoalArchived:
		return "archived"
	default:
		return "unknown"
	}
}

type GoalRecord struct {
	OwnerID    UserID
	CategoryID CategoryID // optional

	//
	Title       string
	Description string
	Status      GoalStatus

	//
	TargetMinutes      int
	AccumulatedMinutes int       // bumped by completed sessions
	DueDate            time.Time // zero when open-ended
}

type ExistingGoalRecord struct {
	ExistingRecord[GoalID]
	GoalRecord
}

type GoalRepo interface {
	InsertGoal(context.Context, GoalRecord) (ExistingGoalRecord, error)
	UpdateGoal(ctx context.Context, id GoalID, r GoalRecord) (ExistingGoalRecord, error)
	DeleteGoal(ctx context.Context, id GoalID) (ExistingGoalRecord, error)
	GetGoal(ctx context.Context, id GoalID) (ExistingGoalRecord, error)
	GetGoalsByOwner(ctx context.Context, ownerID UserID) ([]ExistingGoalRecord, error)
}
