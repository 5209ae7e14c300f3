package adaptive

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/adaptivequiz-backend/internal/clients/generator"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/observability"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
)

type StartInput struct {
	UserID       uuid.UUID
	Token        string
	Course       string // id or slug
	SubjectID    string
	SectionID    string
	SectionTitle string
	Difficulty   string // student level or difficulty synonym
	TargetLength *int
}

type StartOutput struct {
	Session              *types.AdaptiveSession  `json:"session"`
	FirstQuestion        *types.AdaptiveResponse `json:"first_question"`
	CurrentQuestion      *types.AdaptiveResponse `json:"current_question"`
	LastAnsweredQuestion *types.AdaptiveResponse `json:"last_answered_question,omitempty"`
	Resumed              bool                    `json:"resumed"`
	Stop                 bool                    `json:"stop"`
	NeedsAdvance         bool                    `json:"needs_advance"`
}

func startFromResume(v ResumeView) StartOutput {
	return StartOutput{
		Session:              v.Session,
		FirstQuestion:        v.FirstQuestion,
		CurrentQuestion:      v.CurrentQuestion,
		LastAnsweredQuestion: v.LastAnsweredQuestion,
		Resumed:              true,
		Stop:                 v.Stop,
		NeedsAdvance:         v.NeedsAdvance,
	}
}

// Start opens a session for (user, section), or hands back the active one in resume shape.
func (u Usecases) Start(ctx context.Context, in StartInput) (StartOutput, error) {
	ctx, span := otel.Tracer("adaptivequiz/adaptive").Start(ctx, "adaptive.start")
	defer span.End()

	userID, err := u.resolveUser(ctx, in.UserID, in.Token)
	if err != nil {
		return StartOutput{}, err
	}

	course, err := u.resolveCourse(ctx, in.Course)
	if err != nil {
		return StartOutput{}, errStorage("resolve course", err)
	}
	if course == nil {
		return StartOutput{}, errSectionNotFound("course")
	}
	subjectID, ok := parseID(in.SubjectID)
	if !ok {
		return StartOutput{}, errSectionNotFound("subject")
	}
	sectionID, ok := parseID(in.SectionID)
	if !ok {
		return StartOutput{}, errSectionNotFound("section")
	}
	span.SetAttributes(attribute.String("section_id", sectionID.String()))

	dbc := dbctx.Context{Ctx: ctx}
	existing, err := u.deps.Sessions.GetActiveForUser(dbc, userID, &sectionID)
	if err != nil {
		return StartOutput{}, errStorage("load active session", err)
	}
	if existing != nil {
		return u.resumeExisting(ctx, existing)
	}

	tc, err := u.BuildTopicContext(ctx, course.ID, subjectID, sectionID, in.SectionTitle)
	if err != nil {
		return StartOutput{}, errStorage("build topic context", err)
	}
	if tc == nil {
		return StartOutput{}, errSectionNotFound("section")
	}

	cfg := u.deps.Config
	target := cfg.DefaultTargetLength
	if in.TargetLength != nil && *in.TargetLength > 0 {
		target = *in.TargetLength
	}
	session := &types.AdaptiveSession{
		UserID:                userID,
		SectionID:             tc.SectionID,
		CourseID:              tc.CourseID,
		SubjectID:             tc.SubjectID,
		MainTopic:             tc.MainTopic,
		TopicHierarchy:        tc.TopicHierarchy,
		FutureTopic:           tc.FutureTopic,
		StudentLevel:          types.ParseStudentLevel(in.Difficulty, cfg.DefaultLevel),
		TargetLength:          target,
		CurrentQuestionNumber: 1,
		Status:                types.SessionActive,
		ConversationHistory:   []string{},
	}
	if err := u.deps.Sessions.Create(dbc, session); err != nil {
		if errors.Is(err, repos.ErrActiveSessionExists) {
			// lost a concurrent Start; hand back the winner
			winner, gerr := u.deps.Sessions.GetActiveForUser(dbc, userID, &sectionID)
			if gerr != nil {
				return StartOutput{}, errStorage("reload active session", gerr)
			}
			if winner != nil {
				return u.resumeExisting(ctx, winner)
			}
		}
		return StartOutput{}, errStorage("create session", err)
	}
	observability.Current().IncSessionStarted(false)
	log := u.deps.Log.With("session_id", session.ID, "user_id", userID)
	log.Info("adaptive session started", "section_id", sectionID, "target_length", target)

	res, err := u.generate(ctx, u.generatorRequest(session, 1, nil, nil))
	if err != nil {
		log.Warn("first question generation failed", "error", err)
		return StartOutput{}, errGeneration(err)
	}
	if res.Stop {
		if err := u.terminate(ctx, session, types.SessionCompleted, StopGenerator, false); err != nil {
			return StartOutput{}, err
		}
		return StartOutput{Session: session, Stop: true}, nil
	}

	first := u.responseFromQuestion(session.ID, 1, res.Question)
	if err := u.deps.Responses.Create(dbc, first); err != nil {
		return StartOutput{}, errStorage("create response", err)
	}
	return StartOutput{
		Session:         session,
		FirstQuestion:   first,
		CurrentQuestion: first,
	}, nil
}

func (u Usecases) resumeExisting(ctx context.Context, s *types.AdaptiveSession) (StartOutput, error) {
	observability.Current().IncSessionStarted(true)
	responses, err := u.deps.Responses.ListBySessionID(dbctx.Context{Ctx: ctx}, s.ID)
	if err != nil {
		return StartOutput{}, errStorage("load transcript", err)
	}
	return startFromResume(computeResumeView(s, responses)), nil
}

// generate calls the generator and records the outcome.
func (u Usecases) generate(ctx context.Context, req generator.Request) (*generator.Result, error) {
	started := time.Now()
	res, err := u.deps.Generator.Generate(ctx, req)
	if err == nil && (res == nil || (!res.Stop && res.Question == nil)) {
		err = generator.ErrInvalidResult
	}
	outcome := "question"
	switch {
	case errors.Is(err, generator.ErrTimeout):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	case res.Stop:
		outcome = "stop"
	}
	observability.Current().ObserveGenerator(outcome, time.Since(started))
	return res, err
}

func (u Usecases) generatorRequest(s *types.AdaptiveSession, questionNumber int, history []string, verdict *generator.Verdict) generator.Request {
	if history == nil {
		history = []string{}
	}
	return generator.Request{
		MainTopic:           s.MainTopic,
		TopicHierarchy:      s.TopicHierarchy,
		FutureTopic:         s.FutureTopic,
		StudentLevel:        string(s.StudentLevel),
		QuestionNumber:      questionNumber,
		TargetLength:        s.TargetLength,
		ConversationHistory: history,
		PreviousVerdict:     verdict,
	}
}

// responseFromQuestion normalizes a generated question into a transcript row. Unknown
// difficulty labels are stored as Medium and logged.
func (u Usecases) responseFromQuestion(sessionID uuid.UUID, number int, q *generator.Question) *types.AdaptiveResponse {
	d, ok := types.ParseDifficulty(q.Difficulty)
	if !ok {
		u.deps.Log.Warn("unknown question difficulty, defaulting to Medium",
			"session_id", sessionID, "question_number", number, "difficulty", q.Difficulty)
	}
	opts := make([]types.AdaptiveOption, 0, len(q.Options))
	for i, o := range q.Options {
		id := strings.TrimSpace(o.ID)
		if id == "" {
			id = generator.Label(i)
		}
		opts = append(opts, types.AdaptiveOption{ID: id, Text: strings.TrimSpace(o.Text)})
	}
	return &types.AdaptiveResponse{
		ID:             uuid.New(),
		SessionID:      sessionID,
		QuestionNumber: number,
		QuestionText:   strings.TrimSpace(q.Question),
		Difficulty:     d,
		Options:        opts,
		CorrectOption:  strings.TrimSpace(q.CorrectOption),
		Explanation:    strings.TrimSpace(q.Explanation),
	}
}
