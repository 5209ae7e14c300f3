package domain

import (
	"github.com/yungbote/adaptivequiz-backend/internal/domain/adaptive"
	"github.com/yungbote/adaptivequiz-backend/internal/domain/catalog"
	"github.com/yungbote/adaptivequiz-backend/internal/domain/quizbank"
)

// Catalog (read-only to the quiz engine)
type (
	Course       = catalog.Course
	Subject      = catalog.Subject
	CourseModule = catalog.CourseModule
	Section      = catalog.Section
	SectionTopic = catalog.SectionTopic
)

// Adaptive sessions
type (
	AdaptiveSession  = adaptive.Session
	AdaptiveResponse = adaptive.Response
	AdaptiveOption   = adaptive.Option
	SessionStatus    = adaptive.SessionStatus
	Difficulty       = adaptive.Difficulty
	StudentLevel     = adaptive.StudentLevel
	ArchiveOutbox    = adaptive.ArchiveOutbox
	ArchiveStatus    = adaptive.ArchiveStatus
)

const (
	SessionActive    = adaptive.SessionActive
	SessionCompleted = adaptive.SessionCompleted
	SessionStopped   = adaptive.SessionStopped

	DifficultyEasy   = adaptive.DifficultyEasy
	DifficultyMedium = adaptive.DifficultyMedium
	DifficultyHard   = adaptive.DifficultyHard

	LevelBeginner     = adaptive.LevelBeginner
	LevelIntermediate = adaptive.LevelIntermediate
	LevelAdvanced     = adaptive.LevelAdvanced

	ArchivePending = adaptive.ArchivePending
	ArchiveDone    = adaptive.ArchiveDone
	ArchiveDead    = adaptive.ArchiveDead
)

var (
	ParseDifficulty     = adaptive.ParseDifficulty
	NormalizeDifficulty = adaptive.NormalizeDifficulty
	ParseStudentLevel   = adaptive.ParseStudentLevel
)

// Materialized quizzes
type (
	Quiz         = quizbank.Quiz
	QuizQuestion = quizbank.Question
	QuizOption   = quizbank.Option
)

const (
	QuizSourceAdaptive     = quizbank.SourceAdaptive
	QuizTypeMultipleChoice = quizbank.TypeMultipleChoice
)

// AllModels lists every table owned or read by the service, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&Course{},
		&Subject{},
		&CourseModule{},
		&Section{},
		&SectionTopic{},

		&AdaptiveSession{},
		&AdaptiveResponse{},
		&ArchiveOutbox{},

		&Quiz{},
		&QuizQuestion{},
		&QuizOption{},
	}
}
