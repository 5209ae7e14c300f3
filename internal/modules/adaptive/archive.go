package adaptive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/adaptivequiz-backend/internal/clients/redis"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/observability"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
)

// kickArchive runs after a terminal status commits. Inline mode materializes immediately;
// worker mode only nudges the worker. Failures stay in the outbox for the worker to retry.
func (u Usecases) kickArchive(ctx context.Context, sessionID uuid.UUID) {
	if u.deps.Config.ArchiveMode == ArchiveModeWorker {
		if u.deps.ArchiveBus == nil {
			return
		}
		if err := u.deps.ArchiveBus.Publish(ctx, redis.ArchiveSignal{SessionID: sessionID.String()}); err != nil {
			u.deps.Log.Warn("archive signal publish failed", "session_id", sessionID, "error", err)
		}
		return
	}
	if err := u.ArchiveSession(ctx, sessionID); err != nil {
		u.deps.Log.Warn("inline archive failed, left for retry", "session_id", sessionID, "error", err)
	}
}

// ArchiveSession processes the session's outbox row if it is still pending.
func (u Usecases) ArchiveSession(ctx context.Context, sessionID uuid.UUID) error {
	row, err := u.deps.Outbox.GetBySessionID(dbctx.Context{Ctx: ctx}, sessionID)
	if err != nil {
		return fmt.Errorf("load outbox row: %w", err)
	}
	if row == nil {
		return nil
	}
	return u.processOutboxRow(ctx, row)
}

// ProcessDueArchives materializes up to limit due outbox rows and reports how many succeeded.
func (u Usecases) ProcessDueArchives(ctx context.Context, limit int) (int, error) {
	rows, err := u.deps.Outbox.ListDue(dbctx.Context{Ctx: ctx}, time.Now().UTC(), limit)
	if err != nil {
		return 0, fmt.Errorf("list due archives: %w", err)
	}
	done := 0
	for _, row := range rows {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		if err := u.processOutboxRow(ctx, row); err == nil {
			done++
		}
	}
	return done, nil
}

func (u Usecases) processOutboxRow(ctx context.Context, row *types.ArchiveOutbox) error {
	if row == nil || row.Status != types.ArchivePending {
		return nil
	}
	dbc := dbctx.Context{Ctx: ctx}
	log := u.deps.Log.With("session_id", row.SessionID, "attempt", row.Attempts+1)

	quizID, err := u.Materialize(ctx, row.SessionID)
	if err != nil {
		cfg := u.deps.Config
		next := time.Now().UTC().Add(cfg.ArchiveBackoff * time.Duration(1<<min(row.Attempts, 10)))
		status, merr := u.deps.Outbox.MarkFailed(dbc, row.ID, err.Error(), next, cfg.ArchiveMaxAttempts)
		if merr != nil {
			log.Error("could not record archive failure", "error", merr, "cause", err)
			return err
		}
		if status == types.ArchiveDead {
			observability.Current().IncArchive("dead")
			log.Error("archive dead-lettered", "error", err)
		} else {
			observability.Current().IncArchive("retry")
			log.Warn("archive attempt failed", "error", err, "next_attempt_at", next)
		}
		return err
	}
	observability.Current().IncArchive("done")
	if err := u.deps.Outbox.MarkDone(dbc, row.ID, quizID); err != nil {
		log.Warn("mark archive done failed", "quiz_id", quizID, "error", err)
	}
	return nil
}

// ListDeadLetters returns the caller's archive rows that exhausted their attempts, newest first.
func (u Usecases) ListDeadLetters(ctx context.Context, userID uuid.UUID, limit int) ([]*types.ArchiveOutbox, error) {
	if userID == uuid.Nil {
		return nil, errAuthRequired()
	}
	rows, err := u.deps.Outbox.ListDead(dbctx.Context{Ctx: ctx}, userID, limit)
	if err != nil {
		return nil, errStorage("list dead letters", err)
	}
	return rows, nil
}

// RequeueDeadLetter gives one of the caller's dead-lettered sessions a fresh attempt budget
// and archives it now. Sessions owned by someone else are reported as not found.
func (u Usecases) RequeueDeadLetter(ctx context.Context, userID uuid.UUID, rawSessionID string) error {
	if userID == uuid.Nil {
		return errAuthRequired()
	}
	id, ok := parseID(rawSessionID)
	if !ok {
		return errSessionNotFound()
	}
	dbc := dbctx.Context{Ctx: ctx}
	s, err := u.deps.Sessions.GetByID(dbc, id)
	if err != nil {
		return errStorage("load session", err)
	}
	if s == nil || s.UserID != userID {
		return errSessionNotFound()
	}
	requeued, err := u.deps.Outbox.Requeue(dbc, userID, id)
	if err != nil {
		return errStorage("requeue archive", err)
	}
	if !requeued {
		return errInvalidState("session %s is not dead-lettered", id)
	}
	u.kickArchive(context.WithoutCancel(ctx), id)
	return nil
}
