package adaptive

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type ArchiveOutboxRepo interface {
	// Enqueue adds a pending row for the session; an existing row is left untouched.
	Enqueue(dbc dbctx.Context, sessionID uuid.UUID) error
	GetBySessionID(dbc dbctx.Context, sessionID uuid.UUID) (*types.ArchiveOutbox, error)
	ListDue(dbc dbctx.Context, now time.Time, limit int) ([]*types.ArchiveOutbox, error)
	// ListDead returns the dead rows whose session belongs to userID.
	ListDead(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ArchiveOutbox, error)
	MarkDone(dbc dbctx.Context, id uuid.UUID, quizID uuid.UUID) error
	// MarkFailed bumps the attempt counter. Rows that reach maxAttempts become dead.
	MarkFailed(dbc dbctx.Context, id uuid.UUID, cause string, nextAttempt time.Time, maxAttempts int) (types.ArchiveStatus, error)
	// Requeue resets a dead row to pending with a fresh attempt budget.
	// Rows whose session is not owned by userID are left alone.
	Requeue(dbc dbctx.Context, userID, sessionID uuid.UUID) (bool, error)
}

type archiveOutboxRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

const ownedSessionClause = "session_id IN (SELECT id FROM adaptive_session WHERE user_id = ?)"

func NewArchiveOutboxRepo(db *gorm.DB, baseLog *logger.Logger) ArchiveOutboxRepo {
	return &archiveOutboxRepo{db: db, log: baseLog.With("repo", "ArchiveOutboxRepo")}
}

func (r *archiveOutboxRepo) Enqueue(dbc dbctx.Context, sessionID uuid.UUID) error {
	if sessionID == uuid.Nil {
		return nil
	}
	now := time.Now().UTC()
	row := &types.ArchiveOutbox{
		ID:          uuid.New(),
		SessionID:   sessionID,
		Status:      types.ArchivePending,
		NextAttempt: now,
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "session_id"}}, DoNothing: true}).
		Create(row).Error
}

func (r *archiveOutboxRepo) GetBySessionID(dbc dbctx.Context, sessionID uuid.UUID) (*types.ArchiveOutbox, error) {
	if sessionID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.ArchiveOutbox
	if err := dbc.DB(r.db).Where("session_id = ?", sessionID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *archiveOutboxRepo) ListDue(dbc dbctx.Context, now time.Time, limit int) ([]*types.ArchiveOutbox, error) {
	if limit <= 0 {
		limit = 25
	}
	var rows []*types.ArchiveOutbox
	if err := dbc.DB(r.db).
		Where("status = ? AND next_attempt_at <= ?", types.ArchivePending, now).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *archiveOutboxRepo) ListDead(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ArchiveOutbox, error) {
	if userID == uuid.Nil {
		return []*types.ArchiveOutbox{}, nil
	}
	if limit <= 0 {
		limit = 100
	}
	var rows []*types.ArchiveOutbox
	if err := dbc.DB(r.db).
		Where("status = ?", types.ArchiveDead).
		Where(ownedSessionClause, userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *archiveOutboxRepo) MarkDone(dbc dbctx.Context, id uuid.UUID, quizID uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	updates := map[string]interface{}{
		"status":     types.ArchiveDone,
		"last_error": "",
		"updated_at": time.Now().UTC(),
	}
	if quizID != uuid.Nil {
		updates["quiz_id"] = quizID
	}
	return dbc.DB(r.db).
		Model(&types.ArchiveOutbox{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *archiveOutboxRepo) MarkFailed(dbc dbctx.Context, id uuid.UUID, cause string, nextAttempt time.Time, maxAttempts int) (types.ArchiveStatus, error) {
	var rows []*types.ArchiveOutbox
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	attempts := rows[0].Attempts + 1
	status := types.ArchivePending
	if maxAttempts > 0 && attempts >= maxAttempts {
		status = types.ArchiveDead
	}
	if len(cause) > 2000 {
		cause = cause[:2000]
	}
	err := dbc.DB(r.db).
		Model(&types.ArchiveOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          status,
			"attempts":        attempts,
			"last_error":      cause,
			"next_attempt_at": nextAttempt.UTC(),
			"updated_at":      time.Now().UTC(),
		}).Error
	if err != nil {
		return "", err
	}
	return status, nil
}

func (r *archiveOutboxRepo) Requeue(dbc dbctx.Context, userID, sessionID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || sessionID == uuid.Nil {
		return false, nil
	}
	now := time.Now().UTC()
	res := dbc.DB(r.db).
		Model(&types.ArchiveOutbox{}).
		Where("session_id = ? AND status = ?", sessionID, types.ArchiveDead).
		Where(ownedSessionClause, userID).
		Updates(map[string]interface{}{
			"status":          types.ArchivePending,
			"attempts":        0,
			"next_attempt_at": now,
			"updated_at":      now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
