package adaptive

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Option is one answer choice. ID is the short label shown to the learner ("A", "B", ...).
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Response is one generated question of a session transcript plus the learner's answer.
// IsCorrect == nil means the question is still pending.
type Response struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID      uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_adaptive_response_session_number,priority:1" json:"session_id"`
	Session        *Session                    `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"-"`
	QuestionNumber int                         `gorm:"column:question_number;not null;uniqueIndex:idx_adaptive_response_session_number,priority:2" json:"question_number"`
	QuestionText   string                      `gorm:"column:question_text;type:text;not null" json:"question_text"`
	Difficulty     Difficulty                  `gorm:"column:difficulty;not null" json:"difficulty"`
	Options        datatypes.JSONSlice[Option] `gorm:"column:options" json:"options"`
	CorrectOption  string                      `gorm:"column:correct_option" json:"correct_option"`
	Explanation    string                      `gorm:"column:explanation;type:text" json:"explanation"`
	SelectedOption *string                     `gorm:"column:selected_option" json:"selected_option,omitempty"`
	IsCorrect      *bool                       `gorm:"column:is_correct" json:"is_correct,omitempty"`
	CreatedAt      time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Response) TableName() string { return "adaptive_response" }

// Answered reports whether correctness has been recorded.
func (r *Response) Answered() bool { return r != nil && r.IsCorrect != nil }

// HasSelection reports whether a non-empty selected option has been recorded.
func (r *Response) HasSelection() bool {
	return r != nil && r.SelectedOption != nil && strings.TrimSpace(*r.SelectedOption) != ""
}
