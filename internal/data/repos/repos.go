package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/adaptive"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/catalog"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/quizbank"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type CourseRepo = catalog.CourseRepo
type SubjectRepo = catalog.SubjectRepo
type CourseModuleRepo = catalog.CourseModuleRepo
type SectionRepo = catalog.SectionRepo
type SectionTopicRepo = catalog.SectionTopicRepo

type SessionRepo = adaptive.SessionRepo
type ResponseRepo = adaptive.ResponseRepo
type ArchiveOutboxRepo = adaptive.ArchiveOutboxRepo

type QuizRepo = quizbank.QuizRepo
type QuizQuestionRepo = quizbank.QuestionRepo
type QuizOptionRepo = quizbank.OptionRepo

var ErrActiveSessionExists = adaptive.ErrActiveSessionExists

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return catalog.NewCourseRepo(db, baseLog)
}
func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return catalog.NewSubjectRepo(db, baseLog)
}
func NewCourseModuleRepo(db *gorm.DB, baseLog *logger.Logger) CourseModuleRepo {
	return catalog.NewCourseModuleRepo(db, baseLog)
}
func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	return catalog.NewSectionRepo(db, baseLog)
}
func NewSectionTopicRepo(db *gorm.DB, baseLog *logger.Logger) SectionTopicRepo {
	return catalog.NewSectionTopicRepo(db, baseLog)
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return adaptive.NewSessionRepo(db, baseLog)
}
func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	return adaptive.NewResponseRepo(db, baseLog)
}
func NewArchiveOutboxRepo(db *gorm.DB, baseLog *logger.Logger) ArchiveOutboxRepo {
	return adaptive.NewArchiveOutboxRepo(db, baseLog)
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return quizbank.NewQuizRepo(db, baseLog)
}
func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return quizbank.NewQuestionRepo(db, baseLog)
}
func NewQuizOptionRepo(db *gorm.DB, baseLog *logger.Logger) QuizOptionRepo {
	return quizbank.NewOptionRepo(db, baseLog)
}
