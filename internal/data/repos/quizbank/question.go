package quizbank

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type QuestionRepo interface {
	Create(dbc dbctx.Context, q *types.QuizQuestion) error
	ListByQuizID(dbc dbctx.Context, quizID uuid.UUID) ([]*types.QuizQuestion, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) Create(dbc dbctx.Context, q *types.QuizQuestion) error {
	if q == nil {
		return fmt.Errorf("nil question")
	}
	if q.QuizID == uuid.Nil {
		return fmt.Errorf("question missing quiz id")
	}
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.Type == "" {
		q.Type = "multiple_choice"
	}
	return dbc.DB(r.db).Create(q).Error
}

func (r *questionRepo) ListByQuizID(dbc dbctx.Context, quizID uuid.UUID) ([]*types.QuizQuestion, error) {
	var rows []*types.QuizQuestion
	if quizID == uuid.Nil {
		return rows, nil
	}
	if err := dbc.DB(r.db).
		Where("quiz_id = ?", quizID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
