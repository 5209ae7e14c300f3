package adaptive

import (
	"context"
	"math"

	"github.com/google/uuid"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
)

type SummaryStats struct {
	TotalQuestions    int `json:"totalQuestions"`
	AnsweredQuestions int `json:"answeredQuestions"`
	CorrectAnswers    int `json:"correctAnswers"`
	Score             int `json:"score"`
}

type SummaryInput struct {
	UserID    uuid.UUID
	Token     string
	SessionID string
}

type SummaryOutput struct {
	Session   *types.AdaptiveSession    `json:"session"`
	Responses []*types.AdaptiveResponse `json:"responses"`
	Summary   SummaryStats              `json:"summary"`
}

// Summary is read-only and works for sessions in any status.
func (u Usecases) Summary(ctx context.Context, in SummaryInput) (SummaryOutput, error) {
	userID, err := u.resolveUser(ctx, in.UserID, in.Token)
	if err != nil {
		return SummaryOutput{}, err
	}
	session, err := u.loadOwnedSession(ctx, userID, in.SessionID)
	if err != nil {
		return SummaryOutput{}, err
	}
	responses, err := u.deps.Responses.ListBySessionID(dbctx.Context{Ctx: ctx}, session.ID)
	if err != nil {
		return SummaryOutput{}, errStorage("load transcript", err)
	}
	return SummaryOutput{
		Session:   session,
		Responses: responses,
		Summary:   computeStats(responses),
	}, nil
}

func computeStats(responses []*types.AdaptiveResponse) SummaryStats {
	var s SummaryStats
	for _, r := range responses {
		if r == nil {
			continue
		}
		s.TotalQuestions++
		if r.IsCorrect == nil {
			continue
		}
		s.AnsweredQuestions++
		if *r.IsCorrect {
			s.CorrectAnswers++
		}
	}
	if s.AnsweredQuestions > 0 {
		s.Score = int(math.Round(100 * float64(s.CorrectAnswers) / float64(s.AnsweredQuestions)))
	}
	return s
}
