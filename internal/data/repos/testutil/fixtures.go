package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
)

// Catalog is a seeded course → subject → modules → sections chain.
type Catalog struct {
	Course   *types.Course
	Subject  *types.Subject
	Modules  []*types.CourseModule
	Sections []*types.Section
	Topics   []*types.SectionTopic
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Course {
	tb.Helper()
	c := &types.Course{ID: uuid.New(), Title: title, Slug: uuid.NewString()[:8]}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, title string) *types.Subject {
	tb.Helper()
	s := &types.Subject{ID: uuid.New(), CourseID: courseID, Title: title}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subject: %v", err)
	}
	return s
}

func SeedModule(tb testing.TB, ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, title string, position int) *types.CourseModule {
	tb.Helper()
	m := &types.CourseModule{ID: uuid.New(), SubjectID: subjectID, Title: title, Position: position}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

func SeedSection(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, title string, position int) *types.Section {
	tb.Helper()
	s := &types.Section{ID: uuid.New(), ModuleID: moduleID, Title: title, Position: position}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed section: %v", err)
	}
	return s
}

func SeedSectionTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, sectionID uuid.UUID, topic string, position int, createdAt time.Time) *types.SectionTopic {
	tb.Helper()
	t := &types.SectionTopic{
		ID:        uuid.New(),
		SectionID: sectionID,
		Topic:     topic,
		Position:  position,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed section topic: %v", err)
	}
	return t
}

// SeedCatalog builds one course with one subject, len(moduleTopics) modules, and one
// section per topic. Each section gets exactly one topic row.
func SeedCatalog(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleTopics [][]string) *Catalog {
	tb.Helper()
	out := &Catalog{}
	out.Course = SeedCourse(tb, ctx, tx, "Course")
	out.Subject = SeedSubject(tb, ctx, tx, out.Course.ID, "Subject")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	for mi, topics := range moduleTopics {
		m := SeedModule(tb, ctx, tx, out.Subject.ID, "Module", mi+1)
		out.Modules = append(out.Modules, m)
		for si, topic := range topics {
			s := SeedSection(tb, ctx, tx, m.ID, topic, si+1)
			out.Sections = append(out.Sections, s)
			out.Topics = append(out.Topics, SeedSectionTopic(tb, ctx, tx, s.ID, topic, 0, base.Add(time.Duration(n)*time.Minute)))
			n++
		}
	}
	return out
}
