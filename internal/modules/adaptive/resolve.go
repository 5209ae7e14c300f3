package adaptive

import (
	"context"
	"strings"

	"github.com/google/uuid"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/textutil"
)

// resolveUser prefers the explicit id and falls back to decoding the bearer token.
func (u Usecases) resolveUser(ctx context.Context, explicit uuid.UUID, token string) (uuid.UUID, error) {
	if explicit != uuid.Nil {
		return explicit, nil
	}
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" || u.deps.Tokens == nil {
		return uuid.Nil, errAuthRequired()
	}
	id, err := u.deps.Tokens.UserIDFromToken(ctx, token)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errAuthRequired()
	}
	return id, nil
}

// resolveCourse accepts a course id or a human slug. Exact id match wins, then the stored slug,
// then the slug of the title.
func (u Usecases) resolveCourse(ctx context.Context, ref string) (*types.Course, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	dbc := dbctx.Context{Ctx: ctx}
	if id, err := uuid.Parse(ref); err == nil {
		c, err := u.deps.Courses.GetByID(dbc, id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	}
	want := textutil.Slugify(ref)
	if want == "" {
		return nil, nil
	}
	all, err := u.deps.Courses.ListAll(dbc)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if strings.EqualFold(strings.TrimSpace(c.Slug), want) {
			return c, nil
		}
	}
	for _, c := range all {
		if textutil.Slugify(c.Title) == want {
			return c, nil
		}
	}
	return nil, nil
}

func parseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
