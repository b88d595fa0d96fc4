package domain

import "time"

// ─── Activity Log Types ─────────────────────────────────────────────────────
// The activity log is the per-user history of point credits. Entries are
// never rewritten: deleting one reverses exactly the points it recorded.

// EntryKind is the business reason for a log entry.
type EntryKind string

const (
	EntryActivity   EntryKind = "ACTIVITY"
	EntryLevelBonus EntryKind = "LEVEL_BONUS"
)

// LogEntry is a single row in a user's activity log.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      EntryKind `json:"kind"`
	Activity  string    `json:"activity"`
	Points    int64     `json:"points"`
	Level     int       `json:"level,omitempty"`     // LEVEL_BONUS: level reached
	BonusFor  string    `json:"bonus_for,omitempty"` // LEVEL_BONUS: primary entry ID
}

// IsBonus reports whether the entry is a synthetic level-up bonus.
func (e LogEntry) IsBonus() bool { return e.Kind == EntryLevelBonus }
