package focusflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validSession() TimerSessionRecord {
	return TimerSessionRecord{
		OwnerID:        "owner-1",
		Kind:           PomodoroTimer,
		PlannedMinutes: 25,
		Status:         TimerRunning,
		StartedAt:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestTimerSessionRecordValidate(t *testing.T) {
	assert.NoError(t, validSession().Validate())

	rec := validSession()
	rec.OwnerID = ""
	rec.PlannedMinutes = 0
	err := rec.Validate()
	assert.Error(t, err)

	verrs, ok := err.(ValidationErrors)
	assert.True(t, ok)
	assert.Len(t, verrs, 2)
	fields := []string{verrs[0].Field, verrs[1].Field}
	assert.Contains(t, fields, "ownerId")
	assert.Contains(t, fields, "plannedDurationMinutes")
}

func TestTimerSessionRecordValidate_PlannedBounds(t *testing.T) {
	rec := validSession()

	rec.PlannedMinutes = MinPlannedMinutes
	assert.NoError(t, rec.Validate())

	rec.PlannedMinutes = MaxPlannedMinutes
	assert.NoError(t, rec.Validate())

	rec.PlannedMinutes = MaxPlannedMinutes + 1
	assert.Error(t, rec.Validate())
}

func TestGoalRecordValidate(t *testing.T) {
	rec := GoalRecord{OwnerID: "owner-1", Title: "Read more", TargetMinutes: 120}
	assert.NoError(t, rec.Validate())

	rec.Title = "   "
	assert.Error(t, rec.Validate())

	rec.Title = "Read more"
	rec.TargetMinutes = -1
	assert.Error(t, rec.Validate())
}

func TestUserRecordValidate(t *testing.T) {
	rec := UserRecord{Email: "a@b.com", DisplayName: "A", DefaultPlannedMinutes: 25}
	assert.NoError(t, rec.Validate())

	rec.Email = "not-an-email"
	assert.Error(t, rec.Validate())

	rec.Email = "a@b.com"
	rec.DefaultPlannedMinutes = 9999
	assert.Error(t, rec.Validate())
}

func TestCategoryRecordValidate(t *testing.T) {
	rec := CategoryRecord{OwnerID: "owner-1", Name: "Deep Work", Color: "#ff8800"}
	assert.NoError(t, rec.Validate())

	rec.Color = "ff8800"
	assert.Error(t, rec.Validate())

	rec.Color = "#ff880"
	assert.Error(t, rec.Validate())

	rec.Color = ""
	assert.NoError(t, rec.Validate())
}

func TestValidationErrorsMessage(t *testing.T) {
	err := ValidationErrors{
		{Field: "title", Message: "required"},
		{Field: "targetMinutes", Message: "must be non-negative"},
	}
	assert.Equal(t, "validation failed: title: required; targetMinutes: must be non-negative", err.Error())
}
