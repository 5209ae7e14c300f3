package adaptive

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
)

// TopicContext is the pedagogical context a session is generated against.
type TopicContext struct {
	CourseID       uuid.UUID
	SubjectID      uuid.UUID
	SectionID      uuid.UUID
	MainTopic      string
	TopicHierarchy string
	FutureTopic    string
}

const topicSeparator = ", "

// BuildTopicContext assembles the context for a section. It returns (nil, nil) when the course,
// subject, section or module cannot be resolved or do not belong together.
func (u Usecases) BuildTopicContext(ctx context.Context, courseID, subjectID, sectionID uuid.UUID, sectionTitle string) (*TopicContext, error) {
	dbc := dbctx.Context{Ctx: ctx}

	var (
		course  *types.Course
		subject *types.Subject
		section *types.Section
		topic   *types.SectionTopic
	)
	g, gctx := errgroup.WithContext(ctx)
	gdbc := dbctx.Context{Ctx: gctx}
	g.Go(func() (err error) { course, err = u.deps.Courses.GetByID(gdbc, courseID); return })
	g.Go(func() (err error) { subject, err = u.deps.Subjects.GetByID(gdbc, subjectID); return })
	g.Go(func() (err error) { section, err = u.deps.Sections.GetByID(gdbc, sectionID); return })
	g.Go(func() (err error) {
		topic, err = u.deps.Topics.FirstBySectionID(gdbc, sectionID, u.deps.Config.TopicTiebreak)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if course == nil || subject == nil || section == nil || subject.CourseID != course.ID {
		return nil, nil
	}

	var (
		module  *types.CourseModule
		modules []*types.CourseModule
	)
	g, gctx = errgroup.WithContext(ctx)
	gdbc = dbctx.Context{Ctx: gctx}
	g.Go(func() (err error) { module, err = u.deps.Modules.GetByID(gdbc, section.ModuleID); return })
	g.Go(func() (err error) { modules, err = u.deps.Modules.ListBySubjectID(gdbc, subject.ID); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if module == nil || module.SubjectID != subject.ID {
		return nil, nil
	}

	sections, err := u.deps.Sections.ListByModuleIDs(dbc, lo.Map(modules, func(m *types.CourseModule, _ int) uuid.UUID { return m.ID }))
	if err != nil {
		return nil, err
	}
	previous, future := splitSections(module, section, modules, sections)

	topicRows, err := u.deps.Topics.ListBySectionIDs(dbc, lo.Map(previous, func(s *types.Section, _ int) uuid.UUID { return s.ID }))
	if err != nil {
		return nil, err
	}
	bySection := lo.GroupBy(topicRows, func(t *types.SectionTopic) uuid.UUID { return t.SectionID })

	var previousTopics []string
	for _, s := range previous {
		for _, t := range bySection[s.ID] {
			previousTopics = append(previousTopics, t.Topic)
		}
	}

	out := &TopicContext{
		CourseID:  course.ID,
		SubjectID: subject.ID,
		SectionID: section.ID,
		MainTopic: firstNonEmpty(sectionTitle, section.Title),
	}
	if topic != nil {
		out.MainTopic = firstNonEmpty(topic.Topic, out.MainTopic)
		out.TopicHierarchy = strings.TrimSpace(topic.TopicHierarchy)
		out.FutureTopic = strings.TrimSpace(topic.FutureTopic)
	}
	if out.TopicHierarchy == "" {
		out.TopicHierarchy = joinTopics(previousTopics)
	}
	if out.FutureTopic == "" {
		ownFuture := lo.Map(bySection[section.ID], func(t *types.SectionTopic, _ int) string { return t.FutureTopic })
		out.FutureTopic = joinTopics(ownFuture)
	}
	if out.FutureTopic == "" {
		out.FutureTopic = joinTopics(lo.Map(future, func(s *types.Section, _ int) string { return s.Title }))
	}
	return out, nil
}

// splitSections partitions the subject's sections around the current one. Modules are walked in
// position order; within the current module, sections after the current one are future sections.
func splitSections(module *types.CourseModule, current *types.Section, modules []*types.CourseModule, sections []*types.Section) (previous, future []*types.Section) {
	byModule := lo.GroupBy(sections, func(s *types.Section) uuid.UUID { return s.ModuleID })
	for _, m := range modules {
		for _, s := range byModule[m.ID] {
			switch {
			case m.ID == module.ID && s.ID != current.ID && s.Position > current.Position:
				future = append(future, s)
			case m.ID == module.ID:
				previous = append(previous, s)
			case m.Position <= module.Position:
				previous = append(previous, s)
			default:
				future = append(future, s)
			}
		}
	}
	return previous, future
}

// joinTopics trims, drops empties, dedupes in first-seen order, and joins with ", ".
func joinTopics(values []string) string {
	trimmed := lo.Map(values, func(v string, _ int) string { return strings.TrimSpace(v) })
	return strings.Join(lo.Uniq(lo.Compact(trimmed)), topicSeparator)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
