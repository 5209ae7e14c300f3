package quizbank

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type QuizRepo interface {
	Create(dbc dbctx.Context, q *types.Quiz) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Quiz, error)
	GetBySourceSessionID(dbc dbctx.Context, sessionID uuid.UUID) (*types.Quiz, error)
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{db: db, log: baseLog.With("repo", "QuizRepo")}
}

func (r *quizRepo) Create(dbc dbctx.Context, q *types.Quiz) error {
	if q == nil {
		return fmt.Errorf("nil quiz")
	}
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.Source == "" {
		q.Source = "manual"
	}
	return dbc.DB(r.db).Create(q).Error
}

func (r *quizRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Quiz, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Quiz
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *quizRepo) GetBySourceSessionID(dbc dbctx.Context, sessionID uuid.UUID) (*types.Quiz, error) {
	if sessionID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Quiz
	if err := dbc.DB(r.db).
		Where("source_session_id = ?", sessionID).
		Order("created_at ASC").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
