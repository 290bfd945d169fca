package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"course-graph/internal/config"
	"course-graph/internal/logger"
	"course-graph/internal/server"
	"course-graph/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	catalog, err := store.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal("load catalog failed", "path", cfg.CatalogPath, "error", err)
	}
	groups, err := store.LoadOverlapGroups(cfg.OverlapPath)
	if err != nil {
		log.Fatal("load overlap groups failed", "path", cfg.OverlapPath, "error", err)
	}
	log.Info("data loaded", "courses", len(catalog), "overlap_groups", len(groups))

	svc := server.NewService(catalog, groups)
	router := server.NewRouter(server.RouterConfig{
		CourseHandler: server.NewCourseHandler(svc, log, cfg.RenderFont),
		Log:           log,
		CORSOrigins:   cfg.CORSOrigins,
	})
	srv := server.NewServer(cfg.HTTPAddr, router, cfg.ReadTimeout, cfg.WriteTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("listening", "addr", cfg.HTTPAddr)
	if err := srv.Run(ctx); err != nil {
		log.Fatal("server stopped", "error", err)
	}
	log.Info("server stopped")
}
