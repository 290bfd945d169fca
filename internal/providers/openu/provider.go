package openu

import (
	"context"
	"fmt"
	"sort"

	"course-graph/internal/concurrency"
	"course-graph/internal/domain"
	"course-graph/internal/logger"
	"course-graph/internal/providers"
)

// Provider adapts the Open University client into providers.CatalogProvider.
type Provider struct {
	C          *Client
	ProgramURL string
	Workers    int
	Log        *logger.Logger
}

var _ providers.CatalogProvider = Provider{}

func (p Provider) Name() string { return "openu" }

// FetchCatalog lists the courses of the program page and fetches every course
// page. A page that fails is logged and kept with no prerequisites so one bad
// page never aborts the whole catalog.
func (p Provider) FetchCatalog(ctx context.Context) (domain.Catalog, error) {
	links, err := p.C.ListCourseLinks(ctx, p.ProgramURL)
	if err != nil {
		return nil, err
	}
	p.log().Info("program page parsed", "program_url", p.ProgramURL, "courses", len(links))

	ids := make([]string, 0, len(links))
	for id := range links {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return p.fetchPages(ctx, ids, func(id string) string { return links[id] })
}

// FillMissing fetches every course referenced as a prerequisite but absent
// from catalog and returns the enriched copy. It makes a single pass: ids
// first referenced by the newly fetched pages are left for the next run.
func (p Provider) FillMissing(ctx context.Context, catalog domain.Catalog) (domain.Catalog, error) {
	missing := catalog.MissingPrerequisites()
	if len(missing) == 0 {
		return catalog.Clone(), nil
	}
	p.log().Info("fetching missing courses", "count", len(missing))

	fetched, err := p.fetchPages(ctx, missing, p.C.CourseURL)
	if err != nil {
		return nil, err
	}
	return providers.Merge(catalog, fetched), nil
}

func (p Provider) fetchPages(ctx context.Context, ids []string, pageURL func(id string) string) (domain.Catalog, error) {
	log := p.log()
	opts := concurrency.ParallelOptions{
		MaxWorkers: p.Workers,
		OnProgress: func(done, total int) {
			if done%25 == 0 || done == total {
				log.Debug("course pages fetched", "done", done, "total", total)
			}
		},
	}

	courses, _ := concurrency.ProcessParallel(ctx, ids, opts, func(ctx context.Context, _ int, id string) (domain.Course, error) {
		course, err := p.C.FetchCourse(ctx, id, pageURL(id))
		if err != nil {
			log.Warn("course page failed, recording without prerequisites", "course_id", id, "error", err)
			return domain.Course{ID: id, Name: UnknownCourseName, Prerequisites: []string{}}, nil
		}
		return course, nil
	})
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("openu: fetch canceled: %w", err)
	}

	catalog := make(domain.Catalog, len(courses))
	for _, course := range courses {
		catalog[course.ID] = course
	}
	return catalog, nil
}

func (p Provider) log() *logger.Logger {
	if p.Log == nil {
		return logger.Nop()
	}
	return p.Log.With("provider", p.Name())
}
