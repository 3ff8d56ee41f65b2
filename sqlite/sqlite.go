// Package sqlite implements repo interfaces
package sqlite

import (
	"strings"
	"time"
)

// Scannable is satisfied by both *sql.Row and *sql.Rows.
type Scannable interface {
	Scan(dest ...any) error
}

// generateParameters returns a placeholder list like "(?, ?, ?)".
func generateParameters(n int) string {
	var b strings.Builder
	b.WriteByte('(')
	for i := range n {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('?')
	}
	b.WriteByte(')')
	return b.String()
}

// Timestamps are stored as unix millis; the zero time maps to 0 so
// "absent" survives the round trip.
func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
