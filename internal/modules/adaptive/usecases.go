package adaptive

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/adaptivequiz-backend/internal/clients/generator"
	"github.com/yungbote/adaptivequiz-backend/internal/clients/rabbitmq"
	"github.com/yungbote/adaptivequiz-backend/internal/clients/redis"
	"github.com/yungbote/adaptivequiz-backend/internal/data/db"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/catalog"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

// TokenDecoder resolves a bearer credential to a user id.
type TokenDecoder interface {
	UserIDFromToken(ctx context.Context, token string) (uuid.UUID, error)
}

type ArchiveMode string

const (
	// ArchiveModeInline materializes right after the terminal status commits; the worker retries failures.
	ArchiveModeInline ArchiveMode = "inline"
	// ArchiveModeWorker leaves materialization entirely to the ArchiveWorker.
	ArchiveModeWorker ArchiveMode = "worker"
)

type Config struct {
	DefaultTargetLength int
	DefaultLevel        types.StudentLevel
	TopicTiebreak       catalog.TopicTiebreak
	Rules               StopRules

	ArchiveMode        ArchiveMode
	ArchiveMaxAttempts int
	ArchiveBackoff     time.Duration
}

func (c Config) withDefaults() Config {
	if c.DefaultTargetLength <= 0 {
		c.DefaultTargetLength = 10
	}
	if c.DefaultLevel == "" {
		c.DefaultLevel = types.LevelBeginner
	}
	if c.TopicTiebreak == "" {
		c.TopicTiebreak = catalog.TiebreakCreatedAt
	}
	c.Rules = c.Rules.withDefaults()
	if c.ArchiveMode != ArchiveModeWorker {
		c.ArchiveMode = ArchiveModeInline
	}
	if c.ArchiveMaxAttempts <= 0 {
		c.ArchiveMaxAttempts = 5
	}
	if c.ArchiveBackoff <= 0 {
		c.ArchiveBackoff = 30 * time.Second
	}
	return c
}

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger
	Tx  db.TxRunner

	Courses  repos.CourseRepo
	Subjects repos.SubjectRepo
	Modules  repos.CourseModuleRepo
	Sections repos.SectionRepo
	Topics   repos.SectionTopicRepo

	Sessions  repos.SessionRepo
	Responses repos.ResponseRepo
	Outbox    repos.ArchiveOutboxRepo

	Quizzes   repos.QuizRepo
	Questions repos.QuizQuestionRepo
	Options   repos.QuizOptionRepo

	Generator generator.Generator
	Tokens    TokenDecoder

	// Optional; nil disables the feature.
	Events     rabbitmq.Publisher
	ArchiveBus redis.ArchiveBus

	Config Config
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	deps.Config = deps.Config.withDefaults()
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Tx == nil && deps.DB != nil {
		deps.Tx = db.NewGormTxRunner(deps.DB)
	}
	if deps.Events == nil {
		deps.Events = rabbitmq.NopPublisher{}
	}
	return Usecases{deps: deps}
}
