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

type SessionRepo interface {
	// Create inserts a new session. A second active session for the same user and
	// section fails with ErrActiveSessionExists.
	Create(dbc dbctx.Context, s *types.AdaptiveSession) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AdaptiveSession, error)
	// GetActiveForUser returns the most recently updated active session, optionally
	// restricted to one section. Returns nil when none exists.
	GetActiveForUser(dbc dbctx.Context, userID uuid.UUID, sectionID *uuid.UUID) (*types.AdaptiveSession, error)
	// GetLatestForUser returns the most recent session of any status for a section.
	GetLatestForUser(dbc dbctx.Context, userID, sectionID uuid.UUID) (*types.AdaptiveSession, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	// Terminate moves an active session to a terminal status. It reports false when the
	// session was no longer active, which callers treat as a lost race.
	Terminate(dbc dbctx.Context, id uuid.UUID, status types.SessionStatus, reason string) (bool, error)
	// SetMaterializedQuiz records the quiz built from the session, once.
	SetMaterializedQuiz(dbc dbctx.Context, id uuid.UUID, quizID uuid.UUID) (bool, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) Create(dbc dbctx.Context, s *types.AdaptiveSession) error {
	if s == nil {
		return fmt.Errorf("nil session")
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = types.SessionActive
	}
	if s.CurrentQuestionNumber <= 0 {
		s.CurrentQuestionNumber = 1
	}
	if s.ConversationHistory == nil {
		s.ConversationHistory = []string{}
	}
	if err := dbc.DB(r.db).Create(s).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrActiveSessionExists
		}
		return err
	}
	return nil
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AdaptiveSession, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.AdaptiveSession
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *sessionRepo) GetActiveForUser(dbc dbctx.Context, userID uuid.UUID, sectionID *uuid.UUID) (*types.AdaptiveSession, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	q := dbc.DB(r.db).Where("user_id = ? AND status = ?", userID, types.SessionActive)
	if sectionID != nil && *sectionID != uuid.Nil {
		q = q.Where("section_id = ?", *sectionID)
	}
	var rows []*types.AdaptiveSession
	if err := q.Order("updated_at DESC").Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *sessionRepo) GetLatestForUser(dbc dbctx.Context, userID, sectionID uuid.UUID) (*types.AdaptiveSession, error) {
	if userID == uuid.Nil || sectionID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.AdaptiveSession
	if err := dbc.DB(r.db).
		Where("user_id = ? AND section_id = ?", userID, sectionID).
		Order("created_at DESC").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *sessionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.DB(r.db).
		Model(&types.AdaptiveSession{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *sessionRepo) Terminate(dbc dbctx.Context, id uuid.UUID, status types.SessionStatus, reason string) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	if status == types.SessionActive {
		return false, fmt.Errorf("terminate: %q is not a terminal status", status)
	}
	res := dbc.DB(r.db).
		Model(&types.AdaptiveSession{}).
		Where("id = ? AND status = ?", id, types.SessionActive).
		Updates(map[string]interface{}{
			"status":      status,
			"stop_reason": reason,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *sessionRepo) SetMaterializedQuiz(dbc dbctx.Context, id uuid.UUID, quizID uuid.UUID) (bool, error) {
	if id == uuid.Nil || quizID == uuid.Nil {
		return false, nil
	}
	res := dbc.DB(r.db).
		Model(&types.AdaptiveSession{}).
		Where("id = ? AND materialized_quiz_id IS NULL", id).
		Updates(map[string]interface{}{
			"materialized_quiz_id": quizID,
			"updated_at":           time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
