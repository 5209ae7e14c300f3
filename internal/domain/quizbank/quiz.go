package quizbank

import (
	"time"

	"github.com/google/uuid"
)

const SourceAdaptive = "adaptive"

// Quiz is a reusable quiz owned by a section. Adaptive sessions produce one on termination.
type Quiz struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SectionID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"section_id"`
	Title           string     `gorm:"column:title;not null" json:"title"`
	Source          string     `gorm:"column:source;not null;default:'manual'" json:"source"`
	SourceSessionID *uuid.UUID `gorm:"type:uuid;column:source_session_id;index" json:"source_session_id,omitempty"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

func (Quiz) TableName() string { return "quiz" }
