package quizbank

import (
	"time"

	"github.com/google/uuid"
)

const TypeMultipleChoice = "multiple_choice"

type Question struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID      uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Quiz        *Quiz     `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"-"`
	Type        string    `gorm:"column:type;not null" json:"type"`
	Text        string    `gorm:"column:text;type:text;not null" json:"text"`
	Difficulty  string    `gorm:"column:difficulty" json:"difficulty,omitempty"`
	Explanation string    `gorm:"column:explanation;type:text" json:"explanation,omitempty"`
	Position    int       `gorm:"column:position;not null" json:"position"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Question) TableName() string { return "quiz_question" }
