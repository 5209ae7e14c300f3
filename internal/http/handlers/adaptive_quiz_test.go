package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/http/response"
	"github.com/yungbote/adaptivequiz-backend/internal/modules/adaptive"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/apierr"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/ctxutil"
)

type fakeQuiz struct {
	startIn   adaptive.StartInput
	advanceIn adaptive.AdvanceInput
	deadUser  uuid.UUID
	deadLimit int
	requeued  string
	err       error
}

func (f *fakeQuiz) Start(_ context.Context, in adaptive.StartInput) (adaptive.StartOutput, error) {
	f.startIn = in
	if f.err != nil {
		return adaptive.StartOutput{}, f.err
	}
	return adaptive.StartOutput{Session: &types.AdaptiveSession{ID: uuid.New(), UserID: in.UserID}}, nil
}

func (f *fakeQuiz) Resume(context.Context, adaptive.ResumeInput) (adaptive.ResumeView, error) {
	return adaptive.ResumeView{Stop: true}, f.err
}

func (f *fakeQuiz) CheckStatus(context.Context, adaptive.StatusInput) adaptive.StatusOutput {
	return adaptive.StatusOutput{}
}

func (f *fakeQuiz) Advance(_ context.Context, in adaptive.AdvanceInput) (adaptive.AdvanceOutput, error) {
	f.advanceIn = in
	return adaptive.AdvanceOutput{Stop: true, Summary: map[string]any{"reason": "max_questions_reached"}}, f.err
}

func (f *fakeQuiz) Summary(context.Context, adaptive.SummaryInput) (adaptive.SummaryOutput, error) {
	return adaptive.SummaryOutput{}, f.err
}

func (f *fakeQuiz) Finish(context.Context, adaptive.FinishInput) (adaptive.FinishOutput, error) {
	return adaptive.FinishOutput{}, f.err
}

func (f *fakeQuiz) Abandon(context.Context, adaptive.FinishInput) (adaptive.FinishOutput, error) {
	return adaptive.FinishOutput{}, f.err
}

func (f *fakeQuiz) ListDeadLetters(_ context.Context, userID uuid.UUID, limit int) ([]*types.ArchiveOutbox, error) {
	f.deadUser, f.deadLimit = userID, limit
	return []*types.ArchiveOutbox{}, f.err
}

func (f *fakeQuiz) RequeueDeadLetter(_ context.Context, userID uuid.UUID, sessionID string) error {
	f.deadUser, f.requeued = userID, sessionID
	return f.err
}

func newTestRouter(quiz AdaptiveQuizUsecases, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: userID})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	})
	h := NewAdaptiveQuizHandler(quiz)
	r.POST("/start", h.Start)
	r.GET("/resume", h.Resume)
	r.GET("/status", h.Status)
	r.POST("/sessions/:id/next", h.Next)
	r.GET("/archive/dead-letters", h.DeadLetters)
	r.POST("/archive/dead-letters/:session_id/requeue", h.RequeueDeadLetter)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAdaptiveQuizHandler_Start(t *testing.T) {
	quiz := &fakeQuiz{}
	userID := uuid.New()
	r := newTestRouter(quiz, userID)

	rec := do(r, http.MethodPost, "/start", `{"course":"algebra-1","subject_id":"s","section_id":"x","difficulty":"hard","target_length":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", rec.Code, rec.Body.String())
	}
	in := quiz.startIn
	if in.UserID != userID || in.Course != "algebra-1" || in.Difficulty != "hard" || in.TargetLength == nil || *in.TargetLength != 5 {
		t.Fatalf("start input: %+v", in)
	}

	// course_id wins over course
	do(r, http.MethodPost, "/start", `{"course_id":"c-1","course":"ignored"}`)
	if quiz.startIn.Course != "c-1" {
		t.Fatalf("course_id not preferred: %q", quiz.startIn.Course)
	}

	if rec := do(r, http.MethodPost, "/start", `{`); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: %d", rec.Code)
	}
}

func TestAdaptiveQuizHandler_RequiresUser(t *testing.T) {
	r := newTestRouter(&fakeQuiz{}, uuid.Nil)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/start"},
		{http.MethodGet, "/resume"},
		{http.MethodGet, "/status"},
		{http.MethodPost, "/sessions/abc/next"},
		{http.MethodGet, "/archive/dead-letters"},
	} {
		rec := do(r, tc.method, tc.path, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestAdaptiveQuizHandler_DeadLettersScopedToCaller(t *testing.T) {
	quiz := &fakeQuiz{}
	userID := uuid.New()
	r := newTestRouter(quiz, userID)

	if rec := do(r, http.MethodGet, "/archive/dead-letters?limit=9000", ""); rec.Code != http.StatusOK {
		t.Fatalf("list: %d body=%s", rec.Code, rec.Body.String())
	}
	if quiz.deadUser != userID || quiz.deadLimit != 50 {
		t.Fatalf("list forwarded user=%s limit=%d", quiz.deadUser, quiz.deadLimit)
	}

	quiz.deadUser = uuid.Nil
	if rec := do(r, http.MethodPost, "/archive/dead-letters/abc/requeue", ""); rec.Code != http.StatusOK {
		t.Fatalf("requeue: %d body=%s", rec.Code, rec.Body.String())
	}
	if quiz.deadUser != userID || quiz.requeued != "abc" {
		t.Fatalf("requeue forwarded user=%s session=%q", quiz.deadUser, quiz.requeued)
	}

	anon := newTestRouter(quiz, uuid.Nil)
	if rec := do(anon, http.MethodPost, "/archive/dead-letters/abc/requeue", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous requeue: %d", rec.Code)
	}
}

func TestAdaptiveQuizHandler_MapsAPIErrors(t *testing.T) {
	quiz := &fakeQuiz{err: apierr.NewRetryable(http.StatusGatewayTimeout, adaptive.CodeGenerationTimeout, errors.New("generator timed out"))}
	r := newTestRouter(quiz, uuid.New())

	rec := do(r, http.MethodPost, "/start", `{"course":"c"}`)
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status: %d", rec.Code)
	}
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != adaptive.CodeGenerationTimeout || !env.Error.Retryable || env.Error.Message != "generator timed out" {
		t.Fatalf("envelope: %+v", env)
	}

	quiz.err = errors.New("plain failure")
	if rec := do(r, http.MethodGet, "/resume", ""); rec.Code != http.StatusInternalServerError {
		t.Fatalf("plain error status: %d", rec.Code)
	}
}

func TestAdaptiveQuizHandler_Next(t *testing.T) {
	quiz := &fakeQuiz{}
	r := newTestRouter(quiz, uuid.New())

	rec := do(r, http.MethodPost, "/sessions/s-1/next", `{"previous_answer":{"question_number":2,"selected_option":"B","is_correct":false}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", rec.Code, rec.Body.String())
	}
	pa := quiz.advanceIn.PreviousAnswer
	if quiz.advanceIn.SessionID != "s-1" || pa == nil || pa.QuestionNumber == nil || *pa.QuestionNumber != 2 || pa.IsCorrect == nil || *pa.IsCorrect {
		t.Fatalf("advance input: %+v", quiz.advanceIn)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || out["stop"] != true {
		t.Fatalf("body: %v err=%v", out, err)
	}

	// no body means no previous answer
	if rec := do(r, http.MethodPost, "/sessions/s-1/next", ""); rec.Code != http.StatusOK || quiz.advanceIn.PreviousAnswer != nil {
		t.Fatalf("empty body: code=%d in=%+v", rec.Code, quiz.advanceIn)
	}
}

type failingPinger struct{ err error }

func (p failingPinger) PingContext(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, tc := range []struct {
		db   Pinger
		want int
	}{
		{nil, http.StatusOK},
		{failingPinger{}, http.StatusOK},
		{failingPinger{err: errors.New("down")}, http.StatusServiceUnavailable},
	} {
		r := gin.New()
		r.GET("/healthcheck", NewHealthHandler(tc.db).HealthCheck)
		if rec := do(r, http.MethodGet, "/healthcheck", ""); rec.Code != tc.want {
			t.Fatalf("healthcheck: got %d want %d", rec.Code, tc.want)
		}
	}
}
