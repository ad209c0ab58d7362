package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"todosvc/internal/adapter/http/handler"
	"todosvc/internal/adapter/http/middleware"
	"todosvc/internal/core/port"
	"todosvc/pkg/config"
	"todosvc/pkg/metrics"
)

type RouterDeps struct {
	TodoHandler *handler.TodoHandler
	Verifier    port.TokenVerifier
	Store       port.SharedStore
	Logger      *otelzap.Logger
	Metrics     *metrics.AppMetrics
	Config      *config.AppConfig
}

// SetupRouter composes the pipeline. Order matters and is load-bearing:
// CORS answers preflights before anything else, then rate limiter, token
// gate, response cache, handler. Every route, the health route included,
// sits behind the limiter and the gate.
func SetupRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware("todosvc"))
	router.Use(middleware.Logging(deps.Logger))

	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}

	rateLimiter := middleware.NewRateLimiter(
		deps.Store,
		deps.Config.RateLimitRequests,
		deps.Config.RateLimitWindow,
		deps.Logger.Logger,
		deps.Metrics,
	)
	router.Use(rateLimiter.Middleware())

	router.Use(middleware.TokenVerify(deps.Verifier, deps.Logger.Logger, deps.Metrics))

	responseCache := middleware.NewResponseCache(
		deps.Store,
		deps.Config.CachePrefix,
		deps.Config.CacheTTL,
		deps.Config.CachePaths,
		deps.Logger.Logger,
		deps.Metrics,
	)
	router.Use(responseCache.Middleware())

	router.GET("/", deps.TodoHandler.Root)
	router.POST("/todos/", deps.TodoHandler.CreateTodo)
	router.GET("/todos/", deps.TodoHandler.ListTodos)
	router.GET("/todos/:id", deps.TodoHandler.GetTodo)

	return router
}
