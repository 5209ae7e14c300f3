package adaptive

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionStopped   SessionStatus = "stopped"
)

// Session is one adaptive-quiz attempt by one user for one section.
// At most one active row may exist per (user_id, section_id); see db.AutoMigrateAll.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SectionID uuid.UUID `gorm:"type:uuid;not null;index" json:"section_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null" json:"course_id"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null" json:"subject_id"`

	MainTopic      string       `gorm:"column:main_topic;not null" json:"main_topic"`
	TopicHierarchy string       `gorm:"column:topic_hierarchy;type:text" json:"topic_hierarchy"`
	FutureTopic    string       `gorm:"column:future_topic;type:text" json:"future_topic"`
	StudentLevel   StudentLevel `gorm:"column:student_level;not null" json:"student_level"`
	TargetLength   int          `gorm:"column:target_length;not null" json:"target_length"`

	CurrentQuestionNumber int                         `gorm:"column:current_question_number;not null;default:1" json:"current_question_number"`
	Status                SessionStatus               `gorm:"column:status;not null;index" json:"status"`
	StopReason            string                      `gorm:"column:stop_reason" json:"stop_reason,omitempty"`
	ConversationHistory   datatypes.JSONSlice[string] `gorm:"column:conversation_history" json:"conversation_history"`
	MaterializedQuizID    *uuid.UUID                  `gorm:"type:uuid;column:materialized_quiz_id" json:"materialized_quiz_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Session) TableName() string { return "adaptive_session" }

func (s *Session) IsActive() bool { return s != nil && s.Status == SessionActive }
