package adaptive

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
)

func TestArchiveOutboxRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewArchiveOutboxRepo(db, testutil.Logger(t))
	sessions := NewSessionRepo(db, testutil.Logger(t))

	owner, stranger := uuid.New(), uuid.New()
	s := newSession(owner, uuid.New())
	if err := sessions.Create(dbc, s); err != nil {
		t.Fatalf("Create session: %v", err)
	}
	sessionID := s.ID
	if err := repo.Enqueue(dbc, sessionID); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := repo.Enqueue(dbc, sessionID); err != nil {
		t.Fatalf("Enqueue twice: %v", err)
	}

	due, err := repo.ListDue(dbc, time.Now().UTC().Add(time.Second), 10)
	if err != nil || len(due) != 1 {
		t.Fatalf("ListDue: len=%d err=%v", len(due), err)
	}
	row := due[0]

	later := time.Now().UTC().Add(time.Hour)
	status, err := repo.MarkFailed(dbc, row.ID, "boom", later, 2)
	if err != nil || status != types.ArchivePending {
		t.Fatalf("MarkFailed(1): status=%s err=%v", status, err)
	}
	if due, err := repo.ListDue(dbc, time.Now().UTC().Add(time.Second), 10); err != nil || len(due) != 0 {
		t.Fatalf("ListDue after backoff: len=%d err=%v", len(due), err)
	}

	status, err = repo.MarkFailed(dbc, row.ID, "boom again", later, 2)
	if err != nil || status != types.ArchiveDead {
		t.Fatalf("MarkFailed(2): status=%s err=%v", status, err)
	}
	dead, err := repo.ListDead(dbc, owner, 10)
	if err != nil || len(dead) != 1 || dead[0].Attempts != 2 || dead[0].LastError != "boom again" {
		t.Fatalf("ListDead: rows=%+v err=%v", dead, err)
	}
	if dead, err := repo.ListDead(dbc, stranger, 10); err != nil || len(dead) != 0 {
		t.Fatalf("ListDead leaked another user's rows: rows=%+v err=%v", dead, err)
	}
	if ok, err := repo.Requeue(dbc, stranger, sessionID); err != nil || ok {
		t.Fatalf("Requeue by non-owner: ok=%v err=%v", ok, err)
	}

	if ok, err := repo.Requeue(dbc, owner, sessionID); err != nil || !ok {
		t.Fatalf("Requeue: ok=%v err=%v", ok, err)
	}
	if due, err := repo.ListDue(dbc, time.Now().UTC().Add(time.Second), 10); err != nil || len(due) != 1 || due[0].Attempts != 0 {
		t.Fatalf("ListDue after requeue: rows=%+v err=%v", due, err)
	}
	if ok, err := repo.Requeue(dbc, owner, sessionID); err != nil || ok {
		t.Fatalf("Requeue of a pending row should be a no-op: ok=%v err=%v", ok, err)
	}

	other := uuid.New()
	if err := repo.Enqueue(dbc, other); err != nil {
		t.Fatalf("Enqueue other: %v", err)
	}
	o, err := repo.GetBySessionID(dbc, other)
	if err != nil || o == nil {
		t.Fatalf("GetBySessionID: got=%v err=%v", o, err)
	}
	quizID := uuid.New()
	if err := repo.MarkDone(dbc, o.ID, quizID); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	o, _ = repo.GetBySessionID(dbc, other)
	if o.Status != types.ArchiveDone || o.QuizID == nil || *o.QuizID != quizID {
		t.Fatalf("MarkDone not persisted: %+v", o)
	}
}
