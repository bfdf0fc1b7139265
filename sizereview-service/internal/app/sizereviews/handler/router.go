package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"codeitmall/pkg/logger"
	"codeitmall/pkg/metrics"
)

func SetupRoutes(sizeReviewHandler *SizeReviewHandler, productHandler *ProductHandler, healthHandler *HealthHandler) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("sizereview-service"))

	// витрина обращается к API напрямую из браузера
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", logger.RequestIDHeader},
		ExposeHeaders: []string{logger.RequestIDHeader, "Retry-After"},
	}))

	router.GET("/health", healthHandler.Liveness)
	router.GET("/health/readiness", healthHandler.Readiness)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// клиент витрины ходит и со слешем на конце, и без него
	router.RedirectTrailingSlash = false

	router.GET("/size_reviews", sizeReviewHandler.GetSizeReviews)
	router.GET("/size_reviews/", sizeReviewHandler.GetSizeReviews)
	router.POST("/size_reviews", sizeReviewHandler.CreateSizeReview)
	router.POST("/size_reviews/", sizeReviewHandler.CreateSizeReview)

	router.GET("/products", productHandler.SearchProducts)
	router.GET("/products/", productHandler.SearchProducts)
	router.GET("/products/:id", productHandler.GetProduct)

	return router
}
