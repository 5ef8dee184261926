package v1

import (
	"net/http"

	"candidate-service/internal/delivery/http/middleware"
	"candidate-service/internal/delivery/http/response"
	"candidate-service/internal/domain"
	"candidate-service/internal/usecase"
	"candidate-service/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	CandidateUC domain.CandidateUsecase
	AssetUC     domain.AssetUsecase
	HealthUC    usecase.HealthUsecase
	Metrics     *metrics.Metrics
	// MetricsHandler serves /metrics; nil falls back to the default registry.
	MetricsHandler http.Handler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.ErrorHandler())

	metricsHandler := deps.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.GET("/metrics", gin.WrapH(metricsHandler))

	v1 := r.Group("/v1")

	// Health Check
	// @Summary  Service health
	// @Tags     health
	// @Produce  json
	// @Success  200  {object}  response.Response
	// @Failure  503  {object}  response.Response
	// @Router   /health [get]
	v1.GET("/health", func(c *gin.Context) {
		status, healthy := deps.HealthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "Service degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	NewCandidateHandler(v1, deps.CandidateUC)
	NewAssetHandler(v1, deps.AssetUC)

	return r
}
