package catalog

import (
	"time"

	"github.com/google/uuid"
)

// CourseModule groups sections inside a subject. Position orders modules within the subject.
type CourseModule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_course_module_subject_position,priority:1" json:"subject_id"`
	Subject   *Subject  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	Position  int       `gorm:"column:position;not null;default:0;index:idx_course_module_subject_position,priority:2" json:"position"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (CourseModule) TableName() string { return "course_module" }
