package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"idpportal/internal/handler"
	"idpportal/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware. A nil
// verifier leaves the API unauthenticated.
func Setup(
	log zerolog.Logger,
	corsOrigins []string,
	maxUploadMB int64,
	verifier *middleware.TokenVerifier,
	uploadH *handler.UploadHandler,
	sessionH *handler.SessionHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()
	if maxUploadMB > 0 {
		r.MaxMultipartMemory = (maxUploadMB + 1) << 20
	}

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(verifier))

	uploads := v1.Group("/uploads")
	uploads.POST("", uploadH.Upload)
	uploads.GET("", uploadH.List)
	uploads.GET("/:id", uploadH.Get)
	uploads.DELETE("/:id", uploadH.Delete)
	uploads.POST("/:id/select", uploadH.Select)
	uploads.GET("/:id/confidence", uploadH.Confidence)
	uploads.GET("/:id/validation", uploadH.Validation)
	uploads.GET("/:id/export", uploadH.Export)

	session := v1.Group("/session")
	session.GET("", sessionH.Get)
	session.DELETE("/alert", sessionH.DismissAlert)

	return r
}
