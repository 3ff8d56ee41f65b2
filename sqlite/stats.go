package sqlite

import (
	"context"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/focusflow"
)

// statsRepo computes read-side projections over terminal sessions.
type statsRepo struct {
	dbGetter txStdLib.DBGetter
	l        log.Logger
}

func NewStatsRepo(dbGetter txStdLib.DBGetter, logger log.Logger) *statsRepo {
	return &statsRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func terminalStatusArgs() []any {
	return []any{
		uint8(focusflow.TimerCompleted),
		uint8(focusflow.TimerCancelled),
		uint8(focusflow.TimerExpired),
	}
}

func (r *statsRepo) GetTimerStats(ctx context.Context, ownerID focusflow.UserID, from, to time.Time) (focusflow.TimerStats, error) {
	db := r.dbGetter(ctx)
	query := `SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(actual_minutes), 0),
		COALESCE(AVG(actual_minutes), 0)
	FROM timer_sessions
	WHERE owner_id = ? AND started_at >= ? AND started_at < ? AND status IN (?, ?, ?)`

	args := []any{
		uint8(focusflow.TimerCompleted),
		uint8(focusflow.TimerCancelled),
		uint8(focusflow.TimerExpired),
		ownerID,
		toMillis(from),
		toMillis(to),
	}
	args = append(args, terminalStatusArgs()...)
	r.l.Debug("computing timer stats", "ownerID", ownerID, "from", from, "to", to)

	var stats focusflow.TimerStats
	row := db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(
		&stats.TotalSessions,
		&stats.Completed,
		&stats.Cancelled,
		&stats.Expired,
		&stats.TotalFocusMinutes,
		&stats.AvgSessionMinutes,
	); err != nil {
		return focusflow.TimerStats{}, err
	}

	if stats.TotalSessions > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.TotalSessions)
	}
	return stats, nil
}

func (r *statsRepo) GetDailyBuckets(ctx context.Context, ownerID focusflow.UserID, from, to time.Time) ([]focusflow.DailyBucket, error) {
	db := r.dbGetter(ctx)
	query := `SELECT
		strftime('%Y-%m-%d', started_at / 1000, 'unixepoch') AS day,
		COUNT(*),
		COALESCE(SUM(actual_minutes), 0)
	FROM timer_sessions
	WHERE owner_id = ? AND started_at >= ? AND started_at < ? AND status IN (?, ?, ?)
	GROUP BY day
	ORDER BY day`

	args := append([]any{ownerID, toMillis(from), toMillis(to)}, terminalStatusArgs()...)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var buckets []focusflow.DailyBucket
	for rows.Next() {
		var b focusflow.DailyBucket
		if err := rows.Scan(&b.Day, &b.Sessions, &b.FocusMinutes); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return buckets, nil
}

func (r *statsRepo) GetKindBreakdown(ctx context.Context, ownerID focusflow.UserID, from, to time.Time) ([]focusflow.KindBreakdown, error) {
	db := r.dbGetter(ctx)
	query := `SELECT
		kind,
		COUNT(*),
		COALESCE(SUM(actual_minutes), 0)
	FROM timer_sessions
	WHERE owner_id = ? AND started_at >= ? AND started_at < ? AND status IN (?, ?, ?)
	GROUP BY kind
	ORDER BY kind`

	args := append([]any{ownerID, toMillis(from), toMillis(to)}, terminalStatusArgs()...)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var breakdown []focusflow.KindBreakdown
	for rows.Next() {
		var (
			kind uint8
			b    focusflow.KindBreakdown
		)
		if err := rows.Scan(&kind, &b.Sessions, &b.FocusMinutes); err != nil {
			return nil, err
		}
		b.Kind = focusflow.TimerKind(kind)
		breakdown = append(breakdown, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return breakdown, nil
}
