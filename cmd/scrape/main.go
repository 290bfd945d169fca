package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"course-graph/internal/config"
	"course-graph/internal/domain"
	"course-graph/internal/httpx"
	"course-graph/internal/logger"
	"course-graph/internal/providers/openu"
	"course-graph/internal/store"
	"course-graph/internal/sync"
)

func main() {
	cfg := config.Load()

	var (
		programURL  = flag.String("program", cfg.OpenUProgramURL, "program page listing the courses")
		outPath     = flag.String("out", cfg.CatalogPath, "output catalog json path")
		fromPath    = flag.String("from", "", "start from an existing catalog instead of the program page")
		fillMissing = flag.Bool("fill-missing", false, "also fetch prerequisites missing from the catalog")
		workers     = flag.Int("workers", cfg.ScrapeWorkers, "concurrent course page fetches")
	)
	flag.Parse()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.ScrapeTimeout)
	defer cancel()

	p := openu.Provider{
		C:          openu.New(cfg.OpenUBaseURL, httpx.New(0)),
		ProgramURL: *programURL,
		Workers:    *workers,
		Log:        log,
	}

	var catalog domain.Catalog
	if *fromPath != "" {
		catalog, err = store.LoadCatalog(*fromPath)
		if err != nil {
			log.Fatal("load catalog failed", "path", *fromPath, "error", err)
		}
		// an existing catalog only makes sense to enrich
		*fillMissing = true
	} else {
		catalog, err = p.FetchCatalog(ctx)
		if err != nil {
			log.Fatal("scrape program failed", "program_url", *programURL, "error", err)
		}
	}

	if *fillMissing {
		catalog, err = p.FillMissing(ctx, catalog)
		if err != nil {
			log.Fatal("fill missing courses failed", "error", err)
		}
		if left := catalog.MissingPrerequisites(); len(left) > 0 {
			log.Info("prerequisites still missing, run again with -from to fetch them", "count", len(left))
		}
	}

	reportChanges(log, *outPath, catalog)

	if err := store.SaveCatalog(*outPath, catalog); err != nil {
		log.Fatal("save catalog failed", "path", *outPath, "error", err)
	}
	log.Info("catalog written", "path", *outPath, "courses", len(catalog))
}

// reportChanges logs how the scrape differs from the catalog already at path.
func reportChanges(log *logger.Logger, path string, next domain.Catalog) {
	prev, err := store.LoadCatalog(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn("previous catalog unreadable, skipping diff", "path", path, "error", err)
		}
		return
	}
	ch := sync.Diff(prev, next)
	if ch.Empty() {
		log.Info("catalog unchanged", "path", path)
		return
	}
	log.Info("catalog changed",
		"added", len(ch.Added),
		"removed", len(ch.Removed),
		"changed", len(ch.Changed),
	)
	log.Debug("catalog change detail", "added", ch.Added, "removed", ch.Removed, "changed", ch.Changed)
}
