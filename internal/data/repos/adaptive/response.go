package adaptive

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type ResponseRepo interface {
	Create(dbc dbctx.Context, r *types.AdaptiveResponse) error
	// ListBySessionID returns the transcript ordered by question number.
	ListBySessionID(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.AdaptiveResponse, error)
	GetBySessionAndNumber(dbc dbctx.Context, sessionID uuid.UUID, questionNumber int) (*types.AdaptiveResponse, error)
	// RecordAnswer stores the learner's choice, overwriting any earlier answer.
	// It reports false when the row does not exist.
	RecordAnswer(dbc dbctx.Context, id uuid.UUID, selected string, isCorrect bool) (bool, error)
}

type responseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	return &responseRepo{db: db, log: baseLog.With("repo", "ResponseRepo")}
}

func (r *responseRepo) Create(dbc dbctx.Context, row *types.AdaptiveResponse) error {
	if row == nil {
		return fmt.Errorf("nil response")
	}
	if row.SessionID == uuid.Nil {
		return fmt.Errorf("response missing session id")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Options == nil {
		row.Options = []types.AdaptiveOption{}
	}
	return dbc.DB(r.db).Create(row).Error
}

func (r *responseRepo) ListBySessionID(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.AdaptiveResponse, error) {
	var rows []*types.AdaptiveResponse
	if sessionID == uuid.Nil {
		return rows, nil
	}
	if err := dbc.DB(r.db).
		Where("session_id = ?", sessionID).
		Order("question_number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *responseRepo) GetBySessionAndNumber(dbc dbctx.Context, sessionID uuid.UUID, questionNumber int) (*types.AdaptiveResponse, error) {
	if sessionID == uuid.Nil || questionNumber <= 0 {
		return nil, nil
	}
	var rows []*types.AdaptiveResponse
	if err := dbc.DB(r.db).
		Where("session_id = ? AND question_number = ?", sessionID, questionNumber).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *responseRepo) RecordAnswer(dbc dbctx.Context, id uuid.UUID, selected string, isCorrect bool) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	res := dbc.DB(r.db).
		Model(&types.AdaptiveResponse{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"selected_option": selected,
			"is_correct":      isCorrect,
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
