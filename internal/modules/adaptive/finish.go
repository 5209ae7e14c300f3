package adaptive

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/adaptivequiz-backend/internal/clients/rabbitmq"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/observability"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
)

const (
	StopFinishedByUser = "finished_by_user"
	StopAbandoned      = "abandoned"
)

type FinishInput struct {
	UserID    uuid.UUID
	Token     string
	SessionID string
}

type FinishOutput struct {
	Session *types.AdaptiveSession `json:"session"`
	Summary SummaryStats           `json:"summary"`
}

// Finish completes an active session on the learner's request and archives a non-empty transcript.
func (u Usecases) Finish(ctx context.Context, in FinishInput) (FinishOutput, error) {
	session, responses, err := u.loadActiveForTermination(ctx, in)
	if err != nil {
		return FinishOutput{}, err
	}
	if err := u.terminate(ctx, session, types.SessionCompleted, StopFinishedByUser, len(responses) > 0); err != nil {
		return FinishOutput{}, err
	}
	return FinishOutput{Session: session, Summary: computeStats(responses)}, nil
}

// Abandon stops an active session without archiving it, freeing the section for a new Start.
func (u Usecases) Abandon(ctx context.Context, in FinishInput) (FinishOutput, error) {
	session, responses, err := u.loadActiveForTermination(ctx, in)
	if err != nil {
		return FinishOutput{}, err
	}
	if err := u.terminate(ctx, session, types.SessionStopped, StopAbandoned, false); err != nil {
		return FinishOutput{}, err
	}
	return FinishOutput{Session: session, Summary: computeStats(responses)}, nil
}

func (u Usecases) loadActiveForTermination(ctx context.Context, in FinishInput) (*types.AdaptiveSession, []*types.AdaptiveResponse, error) {
	userID, err := u.resolveUser(ctx, in.UserID, in.Token)
	if err != nil {
		return nil, nil, err
	}
	session, err := u.loadOwnedSession(ctx, userID, in.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if !session.IsActive() {
		return nil, nil, errInvalidState("session is %s", session.Status)
	}
	responses, err := u.deps.Responses.ListBySessionID(dbctx.Context{Ctx: ctx}, session.ID)
	if err != nil {
		return nil, nil, errStorage("load transcript", err)
	}
	return session, responses, nil
}

// terminate moves the session out of active and, when archive is set, queues its transcript in
// the same transaction. Archival and event publishing happen after commit and never fail the caller.
func (u Usecases) terminate(ctx context.Context, s *types.AdaptiveSession, status types.SessionStatus, reason string, archive bool) error {
	err := u.deps.Tx.InTx(ctx, func(tx dbctx.Context) error {
		ok, err := u.deps.Sessions.Terminate(tx, s.ID, status, reason)
		if err != nil {
			return errStorage("terminate session", err)
		}
		if !ok {
			return errInvalidState("session is no longer active")
		}
		if archive {
			if err := u.deps.Outbox.Enqueue(tx, s.ID); err != nil {
				return errStorage("enqueue archive", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Status = status
	s.StopReason = reason
	observability.Current().IncSessionEnded(string(status), reason)

	bg := context.WithoutCancel(ctx)
	if err := u.deps.Events.Publish(rabbitmq.EventQuizFinished, map[string]any{
		"session_id": s.ID,
		"section_id": s.SectionID,
		"status":     status,
		"reason":     reason,
		"archived":   archive,
	}); err != nil {
		u.deps.Log.Warn("publish finished event failed", "session_id", s.ID, "error", err)
	}
	if archive {
		u.kickArchive(bg, s.ID)
	}
	return nil
}
