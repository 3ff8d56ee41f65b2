package focusflow

import "context"

type NotificationKind string

const (
	SessionCompletedNotification NotificationKind = "session_completed"
	SessionExpiredNotification   NotificationKind = "session_expired"
	GoalAchievedNotification     NotificationKind = "goal_achieved"
)

type NotificationRecord struct {
	OwnerID UserID
	Kind    NotificationKind
	Body    string
	Read    bool
}

type ExistingNotificationRecord struct {
	ExistingRecord[NotificationID]
	NotificationRecord
}

type NotificationRepo interface {
	InsertNotification(context.Context, NotificationRecord) (ExistingNotificationRecord, error)
	GetNotificationsByOwner(ctx context.Context, ownerID UserID, unreadOnly bool) ([]ExistingNotificationRecord, error)
	MarkNotificationRead(ctx context.Context, id NotificationID) (ExistingNotificationRecord, error)
	DeleteNotification(ctx context.Context, id NotificationID) (ExistingNotificationRecord, error)
}
