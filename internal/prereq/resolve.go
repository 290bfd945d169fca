package prereq

import (
	"sort"

	"course-graph/internal/domain"
)

// ResolvedMap holds, per course id, the prerequisites that still count after
// overlap substitution. Values are sorted and free of duplicates.
type ResolvedMap map[string][]string

// ResolvePrerequisites applies overlap substitution to every course in the
// catalog.
//
// A completed prerequisite is always kept so it can be shown as a met edge.
// A prerequisite that is not completed is dropped when one of its overlap
// partners is completed, and kept otherwise.
func ResolvePrerequisites(catalog domain.Catalog, index OverlapIndex, completed domain.CompletedSet) ResolvedMap {
	resolved := make(ResolvedMap, len(catalog))
	for id, course := range catalog {
		kept := make([]string, 0, len(course.Prerequisites))
		seen := make(map[string]bool, len(course.Prerequisites))
		for _, p := range course.Prerequisites {
			if seen[p] {
				continue
			}
			seen[p] = true

			if !completed.Has(p) && index.anyCompleted(p, completed) {
				continue
			}
			kept = append(kept, p)
		}
		sort.Strings(kept)
		resolved[id] = kept
	}
	return resolved
}
