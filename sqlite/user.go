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

const SelectAllUsers = "SELECT id, email, display_name, password_hash, default_planned_minutes, default_kind, created_at, updated_at FROM users"

type userEntity struct {
	ID                    string
	Email                 string
	DisplayName           string
	PasswordHash          string
	DefaultPlannedMinutes int
	DefaultKind           uint8
	CreatedAt             int64
	UpdatedAt             int64
}

type userRepo struct {
	dbGetter txStdLib.DBGetter
	l        log.Logger
}

func NewUserRepo(dbGetter txStdLib.DBGetter, logger log.Logger) *userRepo {
	return &userRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *userRepo) InsertUser(ctx context.Context, user focusflow.UserRecord) (focusflow.ExistingUserRecord, error) {
	db := r.dbGetter(ctx)
	existingRecord := focusflow.ExistingUserRecord{
		UserRecord:     user,
		ExistingRecord: focusflow.NewExistingRecord[focusflow.UserID](uuid.NewString()),
	}
	e := mapToUserEntity(existingRecord)

	args := []any{
		e.ID,
		e.Email,
		e.DisplayName,
		e.PasswordHash,
		e.DefaultPlannedMinutes,
		e.DefaultKind,
		e.CreatedAt,
		e.UpdatedAt,
	}
	query := "INSERT INTO users (id, email, display_name, password_hash, default_planned_minutes, default_kind, created_at, updated_at) VALUES " + generateParameters(len(args))
	r.l.Debug("creating user", "query", query, "email", e.Email)
	_, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return focusflow.ExistingUserRecord{}, err
	}

	return existingRecord, nil
}

func (r *userRepo) UpdateUser(ctx context.Context, id focusflow.UserID, u focusflow.UserRecord) (focusflow.ExistingUserRecord, error) {
	existing, err := r.GetUser(ctx, id)
	if err != nil {
		return existing, err
	}

	existing.UserRecord = u
	existing.UpdatedAt = time.Now()
	e := mapToUserEntity(existing)

	query := "UPDATE users SET email = ?, display_name = ?, password_hash = ?, default_planned_minutes = ?, default_kind = ?, updated_at = ? WHERE id = ?"
	args := []any{
		e.Email,
		e.DisplayName,
		e.PasswordHash,
		e.DefaultPlannedMinutes,
		e.DefaultKind,
		e.UpdatedAt,
		e.ID,
	}
	r.l.Debug("updating user", "query", query, "id", id)
	_, err = r.dbGetter(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return focusflow.ExistingUserRecord{}, err
	}

	return existing, nil
}

func (r *userRepo) DeleteUser(ctx context.Context, id focusflow.UserID) (focusflow.ExistingUserRecord, error) {
	existing, err := r.GetUser(ctx, id)
	if err != nil {
		return focusflow.ExistingUserRecord{}, err
	}

	db := r.dbGetter(ctx)
	query := "DELETE FROM users WHERE id = ?"
	r.l.Debug("deleting user", "query", query, "id", id)
	if _, err := db.ExecContext(ctx, query, id); err != nil {
		return focusflow.ExistingUserRecord{}, err
	}

	return existing, nil
}

func (r *userRepo) GetUser(ctx context.Context, id focusflow.UserID) (focusflow.ExistingUserRecord, error) {
	if id == "" {
		return focusflow.ExistingUserRecord{}, fmt.Errorf("provide id")
	}

	db := r.dbGetter(ctx)
	row := db.QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE id=?", SelectAllUsers), id,
	)

	return extractUser(row)
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (focusflow.ExistingUserRecord, error) {
	if email == "" {
		return focusflow.ExistingUserRecord{}, fmt.Errorf("provide email")
	}

	db := r.dbGetter(ctx)
	row := db.QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE email=?", SelectAllUsers), email,
	)

	return extractUser(row)
}

func extractUser(s Scannable) (focusflow.ExistingUserRecord, error) {
	var e userEntity
	if err := s.Scan(&e.ID, &e.Email, &e.DisplayName, &e.PasswordHash, &e.DefaultPlannedMinutes, &e.DefaultKind, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return focusflow.ExistingUserRecord{}, focusflow.ErrNotFound
		}
		return focusflow.ExistingUserRecord{}, err
	}

	return mapToExistingUserRecord(e), nil
}

func mapToUserEntity(user focusflow.ExistingUserRecord) userEntity {
	return userEntity{
		ID:                    string(user.ID),
		Email:                 user.Email,
		DisplayName:           user.DisplayName,
		PasswordHash:          user.PasswordHash,
		DefaultPlannedMinutes: user.DefaultPlannedMinutes,
		DefaultKind:           uint8(user.DefaultKind),
		CreatedAt:             user.CreatedAt.UnixMilli(),
		UpdatedAt:             user.UpdatedAt.UnixMilli(),
	}
}

func mapToExistingUserRecord(e userEntity) focusflow.ExistingUserRecord {
	return focusflow.ExistingUserRecord{
		ExistingRecord: focusflow.ExistingRecord[focusflow.UserID]{
			ID:        focusflow.UserID(e.ID),
			CreatedAt: time.UnixMilli(e.CreatedAt),
			UpdatedAt: time.UnixMilli(e.UpdatedAt),
		},
		UserRecord: focusflow.UserRecord{
			Email:                 e.Email,
			DisplayName:           e.DisplayName,
			PasswordHash:          e.PasswordHash,
			DefaultPlannedMinutes: e.DefaultPlannedMinutes,
			DefaultKind:           focusflow.TimerKind(e.DefaultKind),
		},
	}
}
