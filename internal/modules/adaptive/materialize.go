package adaptive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/adaptivequiz-backend/internal/clients/rabbitmq"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
)

var ErrEmptyTranscript = errors.New("session has no transcript to materialize")

// Materialize copies a terminated session's transcript into a standalone quiz owned by the
// section. Calling it again for the same session returns the existing quiz. Individual question
// failures are logged and skipped.
func (u Usecases) Materialize(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	dbc := dbctx.Context{Ctx: ctx}
	session, err := u.deps.Sessions.GetByID(dbc, sessionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return uuid.Nil, fmt.Errorf("session %s not found", sessionID)
	}
	if session.MaterializedQuizID != nil {
		return *session.MaterializedQuizID, nil
	}
	log := u.deps.Log.With("session_id", sessionID)

	responses, err := u.deps.Responses.ListBySessionID(dbc, sessionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load transcript: %w", err)
	}
	if len(responses) == 0 {
		return uuid.Nil, ErrEmptyTranscript
	}

	// a previous attempt may have created the quiz but died before linking it
	quiz, err := u.deps.Quizzes.GetBySourceSessionID(dbc, sessionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load quiz: %w", err)
	}
	if quiz == nil {
		quiz = &types.Quiz{
			ID:              uuid.New(),
			SectionID:       session.SectionID,
			Title:           fmt.Sprintf("Adaptive Quiz: %s (Generated)", session.MainTopic),
			Source:          types.QuizSourceAdaptive,
			SourceSessionID: &session.ID,
		}
		if err := u.deps.Quizzes.Create(dbc, quiz); err != nil {
			return uuid.Nil, fmt.Errorf("create quiz: %w", err)
		}
	} else if existing, err := u.deps.Questions.ListByQuizID(dbc, quiz.ID); err != nil {
		return uuid.Nil, fmt.Errorf("load quiz questions: %w", err)
	} else if len(existing) > 0 {
		responses = skipMaterialized(responses, existing)
	}

	failed := 0
	for _, r := range responses {
		if err := u.materializeResponse(ctx, quiz.ID, r); err != nil {
			failed++
			log.Warn("materialize question failed", "question_number", r.QuestionNumber, "error", err)
		}
	}

	if _, err := u.deps.Sessions.SetMaterializedQuiz(dbc, sessionID, quiz.ID); err != nil {
		return uuid.Nil, fmt.Errorf("link quiz: %w", err)
	}
	log.Info("adaptive transcript materialized", "quiz_id", quiz.ID, "questions", len(responses)-failed, "failed", failed)

	if err := u.deps.Events.Publish(rabbitmq.EventQuizMaterialized, map[string]any{
		"session_id": sessionID,
		"section_id": session.SectionID,
		"quiz_id":    quiz.ID,
	}); err != nil {
		log.Warn("publish materialized event failed", "error", err)
	}
	return quiz.ID, nil
}

// materializeResponse writes one question and its options atomically.
func (u Usecases) materializeResponse(ctx context.Context, quizID uuid.UUID, r *types.AdaptiveResponse) error {
	return u.deps.Tx.InTx(ctx, func(tx dbctx.Context) error {
		q := &types.QuizQuestion{
			ID:          uuid.New(),
			QuizID:      quizID,
			Type:        types.QuizTypeMultipleChoice,
			Text:        r.QuestionText,
			Difficulty:  string(types.NormalizeDifficulty(string(r.Difficulty))),
			Explanation: r.Explanation,
			Position:    r.QuestionNumber,
		}
		if err := u.deps.Questions.Create(tx, q); err != nil {
			return err
		}
		if len(r.Options) == 0 {
			return nil
		}
		correct := correctOptionIndex(r.Options, r.CorrectOption)
		opts := make([]*types.QuizOption, 0, len(r.Options))
		for i, o := range r.Options {
			opts = append(opts, &types.QuizOption{
				ID:         uuid.New(),
				QuestionID: q.ID,
				Label:      o.ID,
				Text:       o.Text,
				IsCorrect:  i == correct,
				Position:   i,
			})
		}
		return u.deps.Options.CreateBatch(tx, opts)
	})
}

// correctOptionIndex matches the recorded correct option by text first, then by label.
// It returns -1 when nothing matches.
func correctOptionIndex(opts []types.AdaptiveOption, recorded string) int {
	want := strings.TrimSpace(recorded)
	if want == "" {
		return -1
	}
	for i, o := range opts {
		if strings.EqualFold(strings.TrimSpace(o.Text), want) {
			return i
		}
	}
	for i, o := range opts {
		if strings.EqualFold(strings.TrimSpace(o.ID), want) {
			return i
		}
	}
	return -1
}

func skipMaterialized(responses []*types.AdaptiveResponse, existing []*types.QuizQuestion) []*types.AdaptiveResponse {
	done := make(map[int]bool, len(existing))
	for _, q := range existing {
		done[q.Position] = true
	}
	out := responses[:0:0]
	for _, r := range responses {
		if !done[r.QuestionNumber] {
			out = append(out, r)
		}
	}
	return out
}
