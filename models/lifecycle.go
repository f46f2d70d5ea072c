package models

import (
	"time"

	"gorm.io/gorm"
)

// Row lifecycle states. Soft deletion is the only deletion mechanism for
// every entity except User; a deleted row keeps its data but is invisible
// to live queries.
const (
	StateLive    = "live"
	StateDeleted = "deleted"
)

// Lifecycle is embedded by every soft-deletable entity. The explicit state
// tag replaces the nullable-timestamp-as-flag pattern: predicates test
// state = 'live' instead of deleted_at IS NULL.
type Lifecycle struct {
	State     string     `gorm:"column:state;size:20;not null;default:'live';index" json:"state"`
	DeletedAt *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
}

func (l *Lifecycle) MarkDeleted(at time.Time) {
	l.State = StateDeleted
	l.DeletedAt = &at
}

func (l Lifecycle) IsLive() bool { return l.State == StateLive }

// LiveNow returns the lifecycle value for a freshly created row.
func LiveNow() Lifecycle { return Lifecycle{State: StateLive} }

// Live scopes a single-table query to rows that have not been soft-deleted.
// Joined queries must qualify the column themselves (e.g. questions.state).
func Live(db *gorm.DB) *gorm.DB {
	return db.Where("state = ?", StateLive)
}
