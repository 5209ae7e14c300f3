package app

import (
	"gorm.io/gorm"

	apphttp "github.com/yungbote/adaptivequiz-backend/internal/http"
	httpH "github.com/yungbote/adaptivequiz-backend/internal/http/handlers"
	httpMW "github.com/yungbote/adaptivequiz-backend/internal/http/middleware"
	"github.com/yungbote/adaptivequiz-backend/internal/observability"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	AdaptiveQuiz *httpH.AdaptiveQuizHandler
}

func wireHandlers(log *logger.Logger, theDB *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if sqlDB, err := theDB.DB(); err == nil {
		pinger = sqlDB
	}
	return Handlers{
		Health:       httpH.NewHealthHandler(pinger),
		AdaptiveQuiz: httpH.NewAdaptiveQuizHandler(services.AdaptiveQuiz),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *apphttp.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:                 log,
		ServiceName:         serviceName,
		CORSOrigins:         cfg.CORSOrigins,
		Metrics:             metrics,
		AuthMiddleware:      middleware.Auth,
		AdaptiveQuizHandler: handlers.AdaptiveQuiz,
		HealthHandler:       handlers.Health,
	})
}
