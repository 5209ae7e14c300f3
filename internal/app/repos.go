package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type Repos struct {
	Course       repos.CourseRepo
	Subject      repos.SubjectRepo
	CourseModule repos.CourseModuleRepo
	Section      repos.SectionRepo
	SectionTopic repos.SectionTopicRepo

	Session  repos.SessionRepo
	Response repos.ResponseRepo
	Outbox   repos.ArchiveOutboxRepo

	Quiz         repos.QuizRepo
	QuizQuestion repos.QuizQuestionRepo
	QuizOption   repos.QuizOptionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:       repos.NewCourseRepo(db, log),
		Subject:      repos.NewSubjectRepo(db, log),
		CourseModule: repos.NewCourseModuleRepo(db, log),
		Section:      repos.NewSectionRepo(db, log),
		SectionTopic: repos.NewSectionTopicRepo(db, log),

		Session:  repos.NewSessionRepo(db, log),
		Response: repos.NewResponseRepo(db, log),
		Outbox:   repos.NewArchiveOutboxRepo(db, log),

		Quiz:         repos.NewQuizRepo(db, log),
		QuizQuestion: repos.NewQuizQuestionRepo(db, log),
		QuizOption:   repos.NewQuizOptionRepo(db, log),
	}
}
