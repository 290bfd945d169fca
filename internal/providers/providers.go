package providers

import (
	"context"

	"course-graph/internal/domain"
)

// CatalogProvider supplies a course catalog from some external source.
type CatalogProvider interface {
	Name() string
	FetchCatalog(ctx context.Context) (domain.Catalog, error)
}

// Merge copies src into a clone of dst. Entries already in dst win, so a
// later partial fetch never overwrites a good record.
func Merge(dst, src domain.Catalog) domain.Catalog {
	out := dst.Clone()
	for id, course := range src {
		if _, ok := out[id]; ok {
			continue
		}
		course.Prerequisites = append([]string(nil), course.Prerequisites...)
		out[id] = course
	}
	return out
}
