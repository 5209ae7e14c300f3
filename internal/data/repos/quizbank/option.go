package quizbank

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type OptionRepo interface {
	CreateBatch(dbc dbctx.Context, opts []*types.QuizOption) error
	// ListByQuestionIDs returns options ordered by question then position.
	ListByQuestionIDs(dbc dbctx.Context, questionIDs []uuid.UUID) ([]*types.QuizOption, error)
}

type optionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOptionRepo(db *gorm.DB, baseLog *logger.Logger) OptionRepo {
	return &optionRepo{db: db, log: baseLog.With("repo", "OptionRepo")}
}

func (r *optionRepo) CreateBatch(dbc dbctx.Context, opts []*types.QuizOption) error {
	if len(opts) == 0 {
		return nil
	}
	for _, o := range opts {
		if o != nil && o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
	}
	return dbc.DB(r.db).Create(&opts).Error
}

func (r *optionRepo) ListByQuestionIDs(dbc dbctx.Context, questionIDs []uuid.UUID) ([]*types.QuizOption, error) {
	var rows []*types.QuizOption
	if len(questionIDs) == 0 {
		return rows, nil
	}
	if err := dbc.DB(r.db).
		Where("question_id IN ?", questionIDs).
		Order("question_id ASC, position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
