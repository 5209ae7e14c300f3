package adaptive

import (
	"time"

	"github.com/google/uuid"
)

type ArchiveStatus string

const (
	ArchivePending ArchiveStatus = "pending"
	ArchiveDone    ArchiveStatus = "done"
	ArchiveDead    ArchiveStatus = "dead"
)

// ArchiveOutbox records that a terminated session still needs its transcript materialized.
// Rows are written in the same transaction as the session's terminal status change; rows that
// exhaust their attempts stay as "dead" and form the dead-letter list.
type ArchiveOutbox struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID   uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	Status      ArchiveStatus `gorm:"column:status;not null;index" json:"status"`
	Attempts    int           `gorm:"column:attempts;not null;default:0" json:"attempts"`
	LastError   string        `gorm:"column:last_error;type:text" json:"last_error,omitempty"`
	QuizID      *uuid.UUID    `gorm:"type:uuid;column:quiz_id" json:"quiz_id,omitempty"`
	NextAttempt time.Time     `gorm:"column:next_attempt_at;not null;index" json:"next_attempt_at"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null" json:"updated_at"`
}

func (ArchiveOutbox) TableName() string { return "adaptive_archive_outbox" }
