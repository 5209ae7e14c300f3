package catalog

import (
	"time"

	"github.com/google/uuid"
)

// SectionTopic holds the pedagogical labels the question generator is prompted with.
// TopicHierarchy and FutureTopic are optional free-text overrides.
type SectionTopic struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SectionID      uuid.UUID `gorm:"type:uuid;not null;index" json:"section_id"`
	Section        *Section  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SectionID;references:ID" json:"section,omitempty"`
	Topic          string    `gorm:"column:topic;not null" json:"topic"`
	TopicHierarchy string    `gorm:"column:topic_hierarchy;type:text" json:"topic_hierarchy,omitempty"`
	FutureTopic    string    `gorm:"column:future_topic;type:text" json:"future_topic,omitempty"`
	Position       int       `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt      time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (SectionTopic) TableName() string { return "section_topic" }
