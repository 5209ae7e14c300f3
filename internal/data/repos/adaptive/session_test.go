package adaptive

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
)

func newSession(userID, sectionID uuid.UUID) *types.AdaptiveSession {
	return &types.AdaptiveSession{
		UserID:       userID,
		SectionID:    sectionID,
		CourseID:     uuid.New(),
		SubjectID:    uuid.New(),
		MainTopic:    "Fractions",
		StudentLevel: "beginner",
		TargetLength: 10,
	}
}

func TestSessionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewSessionRepo(db, testutil.Logger(t))

	userID, sectionID := uuid.New(), uuid.New()
	s1 := newSession(userID, sectionID)
	if err := repo.Create(dbc, s1); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s1.ID == uuid.Nil || s1.Status != types.SessionActive || s1.CurrentQuestionNumber != 1 {
		t.Fatalf("Create defaults not applied: %+v", s1)
	}

	got, err := repo.GetActiveForUser(dbc, userID, &sectionID)
	if err != nil || got == nil || got.ID != s1.ID {
		t.Fatalf("GetActiveForUser: got=%v err=%v", got, err)
	}
	if got, err := repo.GetActiveForUser(dbc, userID, nil); err != nil || got == nil {
		t.Fatalf("GetActiveForUser(any section): got=%v err=%v", got, err)
	}
	other := uuid.New()
	if got, err := repo.GetActiveForUser(dbc, userID, &other); err != nil || got != nil {
		t.Fatalf("GetActiveForUser(other section): got=%v err=%v", got, err)
	}

	if err := repo.UpdateFields(dbc, s1.ID, map[string]interface{}{
		"current_question_number": 3,
		"conversation_history":    datatypes.JSONSlice[string]{"Question 1 (Easy): q - Correct"},
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err = repo.GetByID(dbc, s1.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if got.CurrentQuestionNumber != 3 || len(got.ConversationHistory) != 1 {
		t.Fatalf("UpdateFields not persisted: %+v", got)
	}

	ok, err := repo.Terminate(dbc, s1.ID, types.SessionStopped, "consecutive_easy_failures")
	if err != nil || !ok {
		t.Fatalf("Terminate: ok=%v err=%v", ok, err)
	}
	if ok, err := repo.Terminate(dbc, s1.ID, types.SessionCompleted, "again"); err != nil || ok {
		t.Fatalf("Terminate twice should be a no-op: ok=%v err=%v", ok, err)
	}
	if _, err := repo.Terminate(dbc, s1.ID, types.SessionActive, ""); err == nil {
		t.Fatalf("Terminate to active should fail")
	}

	quizID := uuid.New()
	if ok, err := repo.SetMaterializedQuiz(dbc, s1.ID, quizID); err != nil || !ok {
		t.Fatalf("SetMaterializedQuiz: ok=%v err=%v", ok, err)
	}
	if ok, err := repo.SetMaterializedQuiz(dbc, s1.ID, uuid.New()); err != nil || ok {
		t.Fatalf("SetMaterializedQuiz should only apply once: ok=%v err=%v", ok, err)
	}

	// a terminated session frees the slot
	s2 := newSession(userID, sectionID)
	if err := repo.Create(dbc, s2); err != nil {
		t.Fatalf("Create after terminate: %v", err)
	}
	if latest, err := repo.GetLatestForUser(dbc, userID, sectionID); err != nil || latest == nil {
		t.Fatalf("GetLatestForUser: got=%v err=%v", latest, err)
	}

	// must stay last: a unique violation aborts the surrounding Postgres transaction
	s3 := newSession(userID, sectionID)
	if err := repo.Create(dbc, s3); !errors.Is(err, ErrActiveSessionExists) {
		t.Fatalf("Create duplicate active: want ErrActiveSessionExists, got %v", err)
	}
}

func TestResponseRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	sessions := NewSessionRepo(db, testutil.Logger(t))
	repo := NewResponseRepo(db, testutil.Logger(t))

	s := newSession(uuid.New(), uuid.New())
	if err := sessions.Create(dbc, s); err != nil {
		t.Fatalf("Create session: %v", err)
	}

	for _, n := range []int{2, 1} {
		r := &types.AdaptiveResponse{
			SessionID:      s.ID,
			QuestionNumber: n,
			QuestionText:   "What is 1/2 + 1/4?",
			Difficulty:     types.DifficultyEasy,
			Options:        []types.AdaptiveOption{{ID: "A", Text: "3/4"}, {ID: "B", Text: "2/6"}},
			CorrectOption:  "3/4",
		}
		if err := repo.Create(dbc, r); err != nil {
			t.Fatalf("Create(%d): %v", n, err)
		}
	}

	rows, err := repo.ListBySessionID(dbc, s.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListBySessionID: len=%d err=%v", len(rows), err)
	}
	if rows[0].QuestionNumber != 1 || rows[1].QuestionNumber != 2 {
		t.Fatalf("ListBySessionID order: %d, %d", rows[0].QuestionNumber, rows[1].QuestionNumber)
	}
	if len(rows[0].Options) != 2 || rows[0].Options[0].Text != "3/4" {
		t.Fatalf("options not round-tripped: %+v", rows[0].Options)
	}
	if rows[0].Answered() {
		t.Fatalf("fresh response should be pending")
	}

	ok, err := repo.RecordAnswer(dbc, rows[0].ID, "3/4", true)
	if err != nil || !ok {
		t.Fatalf("RecordAnswer: ok=%v err=%v", ok, err)
	}
	if ok, err := repo.RecordAnswer(dbc, rows[0].ID, "2/6", false); err != nil || !ok {
		t.Fatalf("RecordAnswer overwrite: ok=%v err=%v", ok, err)
	}
	got, err := repo.GetBySessionAndNumber(dbc, s.ID, 1)
	if err != nil || got == nil || !got.Answered() || *got.IsCorrect || *got.SelectedOption != "2/6" {
		t.Fatalf("GetBySessionAndNumber: got=%+v err=%v", got, err)
	}
}
