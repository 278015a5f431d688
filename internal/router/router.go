package router

import (
	"github.com/gin-gonic/gin"

	"stmtview/internal/handler"
	"stmtview/internal/metrics"
	"stmtview/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	allowedOrigins []string,
	uploadH *handler.UploadHandler,
	healthH *handler.HealthHandler,
	recorder *metrics.Recorder,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	if recorder != nil {
		r.GET("/metrics", gin.WrapH(recorder.Handler()))
	}

	v1 := r.Group("/api/v1")

	upload := v1.Group("/upload")
	upload.GET("", uploadH.State)
	upload.POST("/file", uploadH.SelectFile)
	upload.POST("/submit", uploadH.Submit)
	upload.POST("/clear", uploadH.Clear)
	upload.GET("/export", uploadH.Export)

	return r
}
