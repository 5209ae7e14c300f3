package quizbank

import (
	"time"

	"github.com/google/uuid"
)

type Option struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Question   *Question `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"-"`
	Label      string    `gorm:"column:label" json:"label"`
	Text       string    `gorm:"column:text;type:text;not null" json:"text"`
	IsCorrect  bool      `gorm:"column:is_correct;not null;default:false" json:"is_correct"`
	Position   int       `gorm:"column:position;not null" json:"position"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Option) TableName() string { return "quiz_option" }
