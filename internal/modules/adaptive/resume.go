package adaptive

import (
	"context"
	"strings"

	"github.com/google/uuid"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
)

type ResumeInput struct {
	UserID    uuid.UUID
	Token     string
	SectionID string // optional filter
}

// Resume hands back the caller's active session, if any. It never mutates state.
func (u Usecases) Resume(ctx context.Context, in ResumeInput) (ResumeView, error) {
	userID, err := u.resolveUser(ctx, in.UserID, in.Token)
	if err != nil {
		return ResumeView{}, err
	}
	var sectionFilter *uuid.UUID
	if strings.TrimSpace(in.SectionID) != "" {
		id, ok := parseID(in.SectionID)
		if !ok {
			return ResumeView{Stop: true}, nil
		}
		sectionFilter = &id
	}

	dbc := dbctx.Context{Ctx: ctx}
	session, err := u.deps.Sessions.GetActiveForUser(dbc, userID, sectionFilter)
	if err != nil {
		return ResumeView{}, errStorage("load active session", err)
	}
	if session == nil {
		return ResumeView{Stop: true}, nil
	}
	responses, err := u.deps.Responses.ListBySessionID(dbc, session.ID)
	if err != nil {
		return ResumeView{}, errStorage("load transcript", err)
	}
	return computeResumeView(session, responses), nil
}

type StatusInput struct {
	UserID    uuid.UUID
	Token     string
	SectionID string
}

type StatusOutput struct {
	HasActiveQuiz bool       `json:"has_active_quiz"`
	SessionID     *uuid.UUID `json:"session_id,omitempty"`
	// LastSession describes the most recent finished attempt when nothing is active.
	LastSession *LastSession `json:"last_session,omitempty"`
}

type LastSession struct {
	ID                 uuid.UUID           `json:"id"`
	Status             types.SessionStatus `json:"status"`
	StopReason         string              `json:"stop_reason,omitempty"`
	MaterializedQuizID *uuid.UUID          `json:"materialized_quiz_id,omitempty"`
}

// CheckStatus never fails; lookup problems are logged and reported as no active quiz.
func (u Usecases) CheckStatus(ctx context.Context, in StatusInput) StatusOutput {
	userID, err := u.resolveUser(ctx, in.UserID, in.Token)
	if err != nil {
		return StatusOutput{}
	}
	sectionID, ok := parseID(in.SectionID)
	if !ok {
		return StatusOutput{}
	}
	dbc := dbctx.Context{Ctx: ctx}
	session, err := u.deps.Sessions.GetActiveForUser(dbc, userID, &sectionID)
	if err != nil {
		u.deps.Log.Warn("status lookup failed", "user_id", userID, "section_id", sectionID, "error", err)
		return StatusOutput{}
	}
	if session != nil {
		id := session.ID
		return StatusOutput{HasActiveQuiz: true, SessionID: &id}
	}
	latest, err := u.deps.Sessions.GetLatestForUser(dbc, userID, sectionID)
	if err != nil {
		u.deps.Log.Warn("latest session lookup failed", "user_id", userID, "section_id", sectionID, "error", err)
		return StatusOutput{}
	}
	if latest == nil {
		return StatusOutput{}
	}
	return StatusOutput{LastSession: &LastSession{
		ID:                 latest.ID,
		Status:             latest.Status,
		StopReason:         latest.StopReason,
		MaterializedQuizID: latest.MaterializedQuizID,
	}}
}
