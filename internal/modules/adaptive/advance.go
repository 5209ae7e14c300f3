package adaptive

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"

	"github.com/yungbote/adaptivequiz-backend/internal/clients/generator"
	repoadaptive "github.com/yungbote/adaptivequiz-backend/internal/data/repos/adaptive"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
)

const StopGenerator = "generator_stop"

type PreviousAnswer struct {
	QuestionNumber *int   `json:"question_number"`
	SelectedOption string `json:"selected_option"`
	IsCorrect      *bool  `json:"is_correct"`
}

type AdvanceInput struct {
	UserID         uuid.UUID
	Token          string
	SessionID      string
	PreviousAnswer *PreviousAnswer
}

type AdvanceOutput struct {
	Question *types.AdaptiveResponse `json:"question"`
	Stop     bool                    `json:"stop"`
	Summary  map[string]any          `json:"summary,omitempty"`
}

// Advance records the previous answer, applies the stop rules, and otherwise asks the
// generator for the next question.
func (u Usecases) Advance(ctx context.Context, in AdvanceInput) (AdvanceOutput, error) {
	ctx, span := otel.Tracer("adaptivequiz/adaptive").Start(ctx, "adaptive.advance")
	defer span.End()

	userID, err := u.resolveUser(ctx, in.UserID, in.Token)
	if err != nil {
		return AdvanceOutput{}, err
	}
	session, err := u.loadOwnedSession(ctx, userID, in.SessionID)
	if err != nil {
		return AdvanceOutput{}, err
	}
	if !session.IsActive() {
		return AdvanceOutput{}, errInvalidState("session is %s", session.Status)
	}
	span.SetAttributes(attribute.String("session_id", session.ID.String()))
	log := u.deps.Log.With("session_id", session.ID)
	dbc := dbctx.Context{Ctx: ctx}

	var verdict *generator.Verdict
	if pa := in.PreviousAnswer; pa != nil {
		if pa.IsCorrect == nil {
			return AdvanceOutput{}, errInvalidAnswer("is_correct is required")
		}
		selected := strings.TrimSpace(pa.SelectedOption)
		if selected == "" {
			return AdvanceOutput{}, errInvalidAnswer("selected_option is required")
		}
		target, err := u.answerTarget(dbc, session.ID, pa.QuestionNumber)
		if err != nil {
			return AdvanceOutput{}, err
		}
		if _, err := u.deps.Responses.RecordAnswer(dbc, target.ID, selected, *pa.IsCorrect); err != nil {
			return AdvanceOutput{}, errStorage("record answer", err)
		}
		verdict = verdictOf(pa.IsCorrect)
	}

	responses, err := u.deps.Responses.ListBySessionID(dbc, session.ID)
	if err != nil {
		return AdvanceOutput{}, errStorage("load transcript", err)
	}

	decision := Evaluate(u.deps.Config.Rules, responses)
	if len(decision.Anomalies) > 0 {
		log.Warn("transcript has unknown difficulty labels", "values", decision.Anomalies)
	}
	if decision.ShouldStop {
		if err := u.terminate(ctx, session, types.SessionStopped, decision.Reason, len(responses) > 0); err != nil {
			return AdvanceOutput{}, err
		}
		log.Info("adaptive session stopped by rule", "reason", decision.Reason, "total_questions", len(responses))
		return AdvanceOutput{
			Stop: true,
			Summary: map[string]any{
				"reason":           decision.Reason,
				"totalQuestions":   len(responses),
				"performance_stop": true,
			},
		}, nil
	}

	for _, r := range responses {
		if !r.Answered() {
			return AdvanceOutput{}, errInvalidState("question %d is still unanswered", r.QuestionNumber)
		}
	}

	next := 1
	if n := len(responses); n > 0 {
		next = max(session.CurrentQuestionNumber, responses[n-1].QuestionNumber) + 1
	}
	history := buildHistory(responses)

	res, err := u.generate(ctx, u.generatorRequest(session, next, history, verdict))
	if err != nil {
		log.Warn("question generation failed", "question_number", next, "error", err)
		return AdvanceOutput{}, errGeneration(err)
	}
	if res.Stop {
		if err := u.terminate(ctx, session, types.SessionCompleted, StopGenerator, len(responses) > 0); err != nil {
			return AdvanceOutput{}, err
		}
		log.Info("adaptive session completed by generator", "total_questions", len(responses))
		return AdvanceOutput{Stop: true, Summary: res.Summary}, nil
	}

	resp := u.responseFromQuestion(session.ID, next, res.Question)
	err = u.deps.Tx.InTx(ctx, func(tx dbctx.Context) error {
		if err := u.deps.Responses.Create(tx, resp); err != nil {
			return err
		}
		return u.deps.Sessions.UpdateFields(tx, session.ID, map[string]interface{}{
			"current_question_number": next,
			"conversation_history":    datatypes.JSONSlice[string](history),
		})
	})
	if err != nil {
		if repoadaptive.IsUniqueViolation(err) {
			return AdvanceOutput{}, errInvalidState("question %d was already generated", next)
		}
		return AdvanceOutput{}, errStorage("persist question", err)
	}
	return AdvanceOutput{Question: resp}, nil
}

// answerTarget picks the row an answer applies to: the given question number, else the pending
// question, else the latest one.
func (u Usecases) answerTarget(dbc dbctx.Context, sessionID uuid.UUID, questionNumber *int) (*types.AdaptiveResponse, error) {
	if questionNumber != nil {
		r, err := u.deps.Responses.GetBySessionAndNumber(dbc, sessionID, *questionNumber)
		if err != nil {
			return nil, errStorage("load response", err)
		}
		if r == nil {
			return nil, errInvalidAnswer("question %d does not exist", *questionNumber)
		}
		return r, nil
	}
	responses, err := u.deps.Responses.ListBySessionID(dbc, sessionID)
	if err != nil {
		return nil, errStorage("load transcript", err)
	}
	if len(responses) == 0 {
		return nil, errInvalidAnswer("session has no question to answer")
	}
	for _, r := range responses {
		if !r.Answered() {
			return r, nil
		}
	}
	return responses[len(responses)-1], nil
}

func (u Usecases) loadOwnedSession(ctx context.Context, userID uuid.UUID, rawID string) (*types.AdaptiveSession, error) {
	id, ok := parseID(rawID)
	if !ok {
		return nil, errSessionNotFound()
	}
	s, err := u.deps.Sessions.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, errStorage("load session", err)
	}
	if s == nil || s.UserID != userID {
		return nil, errSessionNotFound()
	}
	return s, nil
}
