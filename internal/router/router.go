package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// SetupRouter builds the engine with the middleware chain and all routes.
func SetupRouter(cfg *config.Config, svc api.Services, log *logger.Logger) *gin.Engine {
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		otelgin.Middleware(cfg.OTelServiceName),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	api.RegisterRoutes(router, svc, log)
	return router
}
