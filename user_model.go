package focusflow

import "context"

type UserRecord struct {
	Email        string
	DisplayName  string
	PasswordHash string

	// preferences
	DefaultPlannedMinutes int
	DefaultKind           TimerKind
}

type ExistingUserRecord struct {
	ExistingRecord[UserID]
	UserRecord
}

type UserRepo interface {
	InsertUser(context.Context, UserRecord) (ExistingUserRecord, error)
	UpdateUser(ctx context.Context, id UserID, r UserRecord) (ExistingUserRecord, error)
	DeleteUser(ctx context.Context, id UserID) (ExistingUserRecord, error)
	GetUser(ctx context.Context, id UserID) (ExistingUserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (ExistingUserRecord, error)
}
