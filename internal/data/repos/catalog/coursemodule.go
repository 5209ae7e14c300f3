package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type CourseModuleRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseModule, error)
	// ListBySubjectID returns the subject's modules ordered by position.
	ListBySubjectID(dbc dbctx.Context, subjectID uuid.UUID) ([]*types.CourseModule, error)
}

type courseModuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseModuleRepo(db *gorm.DB, baseLog *logger.Logger) CourseModuleRepo {
	return &courseModuleRepo{db: db, log: baseLog.With("repo", "CourseModuleRepo")}
}

func (r *courseModuleRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseModule, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.CourseModule
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *courseModuleRepo) ListBySubjectID(dbc dbctx.Context, subjectID uuid.UUID) ([]*types.CourseModule, error) {
	var rows []*types.CourseModule
	if subjectID == uuid.Nil {
		return rows, nil
	}
	if err := dbc.DB(r.db).
		Where("subject_id = ?", subjectID).
		Order("position ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
