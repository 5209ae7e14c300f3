package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Section struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID  uuid.UUID     `gorm:"type:uuid;not null;index:idx_section_module_position,priority:1" json:"module_id"`
	Module    *CourseModule `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Title     string        `gorm:"column:title;not null" json:"title"`
	Position  int           `gorm:"column:position;not null;default:0;index:idx_section_module_position,priority:2" json:"position"`
	CreatedAt time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null" json:"updated_at"`
}

func (Section) TableName() string { return "section" }
