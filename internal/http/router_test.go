package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	httpH "github.com/yungbote/adaptivequiz-backend/internal/http/handlers"
	httpMW "github.com/yungbote/adaptivequiz-backend/internal/http/middleware"
	"github.com/yungbote/adaptivequiz-backend/internal/modules/adaptive"
	"github.com/yungbote/adaptivequiz-backend/internal/observability"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
	"github.com/yungbote/adaptivequiz-backend/internal/services"
)

// statusOnly answers CheckStatus; any other call panics.
type statusOnly struct {
	httpH.AdaptiveQuizUsecases
	seen uuid.UUID
}

func (s *statusOnly) CheckStatus(_ context.Context, in adaptive.StatusInput) adaptive.StatusOutput {
	s.seen = in.UserID
	return adaptive.StatusOutput{}
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	auth, err := services.NewAuthService(log, "router-test-secret", "", time.Hour)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	quiz := &statusOnly{}
	r := NewRouter(RouterConfig{
		Log:                 log,
		Metrics:             observability.Init(true),
		AuthMiddleware:      httpMW.NewAuthMiddleware(log, auth),
		AdaptiveQuizHandler: httpH.NewAdaptiveQuizHandler(quiz),
		HealthHandler:       httpH.NewHealthHandler(nil),
	})

	get := func(path, bearer string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	if rec := get("/healthcheck", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthcheck: %d", rec.Code)
	}
	if rec := get("/api/adaptive-quiz/status", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: %d", rec.Code)
	}
	if rec := get("/api/adaptive-quiz/status", "not-a-jwt"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: %d", rec.Code)
	}

	userID := uuid.New()
	token, err := auth.GenerateAccessToken(userID)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	rec := get("/api/adaptive-quiz/status?section_id=x", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("authorized status: %d body=%s", rec.Code, rec.Body.String())
	}
	if quiz.seen != userID {
		t.Fatalf("handler saw user %s, want %s", quiz.seen, userID)
	}

	rec = get("/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "aq_api_requests_total") {
		t.Fatalf("metrics: %d %s", rec.Code, rec.Body.String())
	}
}
