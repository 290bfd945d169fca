package server

import (
	"github.com/gin-gonic/gin"

	"course-graph/internal/logger"
)

type RouterConfig struct {
	CourseHandler *CourseHandler
	Log           *logger.Logger
	CORSOrigins   []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(cfg.Log))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(CORS(cfg.CORSOrigins))
	}

	// Health
	r.GET("/healthcheck", HealthCheck)

	api := r.Group("/api")
	if cfg.CourseHandler != nil {
		api.GET("/courses", cfg.CourseHandler.ListCourses)
		api.POST("/classify", cfg.CourseHandler.Classify)
		api.POST("/graph", cfg.CourseHandler.Graph)
	}
	return r
}
