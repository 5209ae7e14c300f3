package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/testutil"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
)

func TestSectionTopicRepo_FirstBySectionID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewSectionTopicRepo(db, testutil.Logger(t))

	cat := testutil.SeedCatalog(t, ctx, tx, [][]string{{"Intro"}})
	sectionID := cat.Sections[0].ID
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	// seeded topic "Intro" has position 0 and the earliest created_at
	testutil.SeedSectionTopic(t, ctx, tx, sectionID, "Later but first by position", -1, base)

	first, err := repo.FirstBySectionID(dbc, sectionID, TiebreakCreatedAt)
	if err != nil || first == nil || first.Topic != "Intro" {
		t.Fatalf("created_at tiebreak: got=%+v err=%v", first, err)
	}
	first, err = repo.FirstBySectionID(dbc, sectionID, TiebreakPosition)
	if err != nil || first == nil || first.Topic != "Later but first by position" {
		t.Fatalf("position tiebreak: got=%+v err=%v", first, err)
	}
	if none, err := repo.FirstBySectionID(dbc, uuid.New(), TiebreakCreatedAt); err != nil || none != nil {
		t.Fatalf("unknown section: got=%+v err=%v", none, err)
	}
}

func TestParseTopicTiebreak(t *testing.T) {
	cases := map[string]TopicTiebreak{
		"":           TiebreakCreatedAt,
		"created_at": TiebreakCreatedAt,
		"Position":   TiebreakPosition,
		" id ":       TiebreakID,
		"bogus":      TiebreakCreatedAt,
	}
	for in, want := range cases {
		if got := ParseTopicTiebreak(in); got != want {
			t.Fatalf("ParseTopicTiebreak(%q)=%s want %s", in, got, want)
		}
	}
}

func TestSectionRepo_ListByModuleIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	cat := testutil.SeedCatalog(t, ctx, tx, [][]string{{"A", "B"}, {"C"}})
	modules := NewCourseModuleRepo(db, testutil.Logger(t))
	sections := NewSectionRepo(db, testutil.Logger(t))

	mods, err := modules.ListBySubjectID(dbc, cat.Subject.ID)
	if err != nil || len(mods) != 2 || mods[0].ID != cat.Modules[0].ID {
		t.Fatalf("ListBySubjectID: len=%d err=%v", len(mods), err)
	}
	rows, err := sections.ListByModuleIDs(dbc, []uuid.UUID{mods[0].ID})
	if err != nil || len(rows) != 2 || rows[0].Title != "A" || rows[1].Title != "B" {
		t.Fatalf("ListByModuleIDs: rows=%v err=%v", rows, err)
	}
}
