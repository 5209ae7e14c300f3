package catalog

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

// TopicTiebreak selects which section_topic row wins when a section has several.
type TopicTiebreak string

const (
	TiebreakCreatedAt TopicTiebreak = "created_at"
	TiebreakPosition  TopicTiebreak = "position"
	TiebreakID        TopicTiebreak = "id"
)

// ParseTopicTiebreak falls back to created_at for anything it does not know.
func ParseTopicTiebreak(raw string) TopicTiebreak {
	switch TopicTiebreak(strings.ToLower(strings.TrimSpace(raw))) {
	case TiebreakPosition:
		return TiebreakPosition
	case TiebreakID:
		return TiebreakID
	default:
		return TiebreakCreatedAt
	}
}

func (t TopicTiebreak) orderClause() string {
	switch t {
	case TiebreakPosition:
		return "position ASC, created_at ASC"
	case TiebreakID:
		return "id ASC"
	default:
		return "created_at ASC, id ASC"
	}
}

type SectionTopicRepo interface {
	FirstBySectionID(dbc dbctx.Context, sectionID uuid.UUID, tiebreak TopicTiebreak) (*types.SectionTopic, error)
	// ListBySectionIDs returns topics in position order; callers regroup by section.
	ListBySectionIDs(dbc dbctx.Context, sectionIDs []uuid.UUID) ([]*types.SectionTopic, error)
}

type sectionTopicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionTopicRepo(db *gorm.DB, baseLog *logger.Logger) SectionTopicRepo {
	return &sectionTopicRepo{db: db, log: baseLog.With("repo", "SectionTopicRepo")}
}

func (r *sectionTopicRepo) FirstBySectionID(dbc dbctx.Context, sectionID uuid.UUID, tiebreak TopicTiebreak) (*types.SectionTopic, error) {
	if sectionID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.SectionTopic
	if err := dbc.DB(r.db).
		Where("section_id = ?", sectionID).
		Order(tiebreak.orderClause()).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *sectionTopicRepo) ListBySectionIDs(dbc dbctx.Context, sectionIDs []uuid.UUID) ([]*types.SectionTopic, error) {
	var rows []*types.SectionTopic
	if len(sectionIDs) == 0 {
		return rows, nil
	}
	if err := dbc.DB(r.db).
		Where("section_id IN ?", sectionIDs).
		Order("position ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
