package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/adaptivequiz-backend/internal/data/db"
	"github.com/yungbote/adaptivequiz-backend/internal/modules/adaptive"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
	"github.com/yungbote/adaptivequiz-backend/internal/services"
)

type Services struct {
	Auth          services.AuthService
	AdaptiveQuiz  adaptive.Usecases
	ArchiveWorker *adaptive.ArchiveWorker
}

func wireServices(theDB *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, cfg.JWTSecretKey, cfg.JWTIssuer, cfg.AccessTokenTTL)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	quiz := adaptive.New(adaptive.UsecasesDeps{
		DB:  theDB,
		Log: log.With("module", "adaptive"),
		Tx:  db.NewGormTxRunner(theDB),

		Courses:  reposet.Course,
		Subjects: reposet.Subject,
		Modules:  reposet.CourseModule,
		Sections: reposet.Section,
		Topics:   reposet.SectionTopic,

		Sessions:  reposet.Session,
		Responses: reposet.Response,
		Outbox:    reposet.Outbox,

		Quizzes:   reposet.Quiz,
		Questions: reposet.QuizQuestion,
		Options:   reposet.QuizOption,

		Generator: clients.Generator,
		Tokens:    auth,

		Events:     clients.Events,
		ArchiveBus: clients.ArchiveBus,

		Config: cfg.Adaptive,
	})

	return Services{
		Auth:          auth,
		AdaptiveQuiz:  quiz,
		ArchiveWorker: adaptive.NewArchiveWorker(quiz, log, clients.ArchiveBus, cfg.ArchivePollInterval),
	}, nil
}
