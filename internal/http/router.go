package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/adaptivequiz-backend/internal/http/handlers"
	httpMW "github.com/yungbote/adaptivequiz-backend/internal/http/middleware"
	"github.com/yungbote/adaptivequiz-backend/internal/observability"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware

	AdaptiveQuizHandler *httpH.AdaptiveQuizHandler
	HealthHandler       *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	protected := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Adaptive quiz
	if h := cfg.AdaptiveQuizHandler; h != nil {
		quiz := protected.Group("/adaptive-quiz")
		quiz.POST("/start", h.Start)
		quiz.GET("/resume", h.Resume)
		quiz.GET("/status", h.Status)
		quiz.POST("/sessions/:id/next", h.Next)
		quiz.GET("/sessions/:id/summary", h.Summary)
		quiz.POST("/sessions/:id/finish", h.Finish)
		quiz.POST("/sessions/:id/abandon", h.Abandon)
		quiz.GET("/archive/dead-letters", h.DeadLetters)
		quiz.POST("/archive/dead-letters/:session_id/requeue", h.RequeueDeadLetter)
	}

	return r
}
