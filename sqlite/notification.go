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

const SelectAllNotifications = "SELECT id, owner_id, kind, body, is_read, created_at, updated_at FROM notifications"

type notificationEntity struct {
	ID        string
	OwnerID   string
	Kind      string
	Body      string
	Read      bool
	CreatedAt int64
	UpdatedAt int64
}

type notificationRepo struct {
	dbGetter txStdLib.DBGetter
	l        log.Logger
}

func NewNotificationRepo(dbGetter txStdLib.DBGetter, logger log.Logger) *notificationRepo {
	return &notificationRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *notificationRepo) InsertNotification(ctx context.Context, notification focusflow.NotificationRecord) (focusflow.ExistingNotificationRecord, error) {
	db := r.dbGetter(ctx)
	existingRecord := focusflow.ExistingNotificationRecord{
		NotificationRecord: notification,
		ExistingRecord:     focusflow.NewExistingRecord[focusflow.NotificationID](uuid.NewString()),
	}
	e := mapToNotificationEntity(existingRecord)

	args := []any{
		e.ID,
		e.OwnerID,
		e.Kind,
		e.Body,
		e.Read,
		e.CreatedAt,
		e.UpdatedAt,
	}
	query := "INSERT INTO notifications (id, owner_id, kind, body, is_read, created_at, updated_at) VALUES " + generateParameters(len(args))
	r.l.Debug("creating notification", "query", query, "args", args)
	_, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return focusflow.ExistingNotificationRecord{}, err
	}

	return existingRecord, nil
}

func (r *notificationRepo) GetNotificationsByOwner(ctx context.Context, ownerID focusflow.UserID, unreadOnly bool) ([]focusflow.ExistingNotificationRecord, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("provide ownerID")
	}

	db := r.dbGetter(ctx)
	query := fmt.Sprintf("%s WHERE owner_id=?", SelectAllNotifications)
	if unreadOnly {
		query += " AND is_read=0"
	}
	query += " ORDER BY created_at DESC"
	rows, err := db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var notifications []focusflow.ExistingNotificationRecord
	for rows.Next() {
		notification, err := extractNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepo) MarkNotificationRead(ctx context.Context, id focusflow.NotificationID) (focusflow.ExistingNotificationRecord, error) {
	existing, err := r.getNotification(ctx, id)
	if err != nil {
		return focusflow.ExistingNotificationRecord{}, err
	}

	existing.Read = true
	existing.UpdatedAt = time.Now()

	query := "UPDATE notifications SET is_read=1, updated_at=? WHERE id=?"
	r.l.Debug("marking notification read", "query", query, "id", id)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, existing.UpdatedAt.UnixMilli(), id); err != nil {
		return focusflow.ExistingNotificationRecord{}, err
	}

	return existing, nil
}

func (r *notificationRepo) DeleteNotification(ctx context.Context, id focusflow.NotificationID) (focusflow.ExistingNotificationRecord, error) {
	existing, err := r.getNotification(ctx, id)
	if err != nil {
		return focusflow.ExistingNotificationRecord{}, err
	}

	db := r.dbGetter(ctx)
	query := "DELETE FROM notifications WHERE id = ?"
	r.l.Debug("deleting notification", "query", query, "id", id)
	if _, err := db.ExecContext(ctx, query, id); err != nil {
		return focusflow.ExistingNotificationRecord{}, err
	}

	return existing, nil
}

func (r *notificationRepo) getNotification(ctx context.Context, id focusflow.NotificationID) (focusflow.ExistingNotificationRecord, error) {
	if id == "" {
		return focusflow.ExistingNotificationRecord{}, fmt.Errorf("provide id")
	}

	db := r.dbGetter(ctx)
	row := db.QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE id=?", SelectAllNotifications), id,
	)

	return extractNotification(row)
}

func extractNotification(s Scannable) (focusflow.ExistingNotificationRecord, error) {
	var e notificationEntity
	if err := s.Scan(&e.ID, &e.OwnerID, &e.Kind, &e.Body, &e.Read, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return focusflow.ExistingNotificationRecord{}, focusflow.ErrNotFound
		}
		return focusflow.ExistingNotificationRecord{}, err
	}

	return mapToExistingNotificationRecord(e), nil
}

func mapToNotificationEntity(notification focusflow.ExistingNotificationRecord) notificationEntity {
	return notificationEntity{
		ID:        string(notification.ID),
		OwnerID:   string(notification.OwnerID),
		Kind:      string(notification.Kind),
		Body:      notification.Body,
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt.UnixMilli(),
		UpdatedAt: notification.UpdatedAt.UnixMilli(),
	}
}

func mapToExistingNotificationRecord(e notificationEntity) focusflow.ExistingNotificationRecord {
	return focusflow.ExistingNotificationRecord{
		ExistingRecord: focusflow.ExistingRecord[focusflow.NotificationID]{
			ID:        focusflow.NotificationID(e.ID),
			CreatedAt: time.UnixMilli(e.CreatedAt),
			UpdatedAt: time.UnixMilli(e.UpdatedAt),
		},
		NotificationRecord: focusflow.NotificationRecord{
			OwnerID: focusflow.UserID(e.OwnerID),
			Kind:    focusflow.NotificationKind(e.Kind),
			Body:    e.Body,
			Read:    e.Read,
		},
	}
}
