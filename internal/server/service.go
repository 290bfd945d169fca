package server

import (
	"course-graph/internal/domain"
	"course-graph/internal/prereq"
	"course-graph/internal/render"
)

// Service holds the catalog and overlap index loaded at startup. Both are
// only read after construction, so one Service serves concurrent requests.
type Service struct {
	catalog domain.Catalog
	index   prereq.OverlapIndex
}

func NewService(catalog domain.Catalog, groups []domain.OverlapGroup) *Service {
	return &Service{
		catalog: catalog.Clone(),
		index:   prereq.BuildOverlapIndex(groups),
	}
}

func (s *Service) Catalog() domain.Catalog { return s.catalog }

// Analyze resolves and classifies the catalog for one student.
func (s *Service) Analyze(completed []string) prereq.Result {
	return prereq.Analyze(s.catalog, s.index, domain.NewCompletedSet(completed...))
}

// UnknownIDs returns the completed ids the catalog does not know, sorted.
func (s *Service) UnknownIDs(completed []string) []string {
	var out []string
	for _, id := range domain.NewCompletedSet(completed...).IDs() {
		if _, ok := s.catalog[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func (s *Service) Graph(res prereq.Result) render.Graph {
	return render.Build(s.catalog, res)
}
