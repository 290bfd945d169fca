package prereq

import (
	"sort"
	"strings"

	"course-graph/internal/domain"
)

// OverlapIndex maps a course id to the ids it can be substituted with.
//
// The set for an id is the union of the groups the id is a direct member of.
// It is not closed transitively: with groups {A,B} and {B,C}, A overlaps B
// but not C.
type OverlapIndex struct {
	overlaps map[string][]string
}

// BuildOverlapIndex folds the groups into an index. Duplicate groups and
// members merge idempotently; blank ids are ignored.
func BuildOverlapIndex(groups []domain.OverlapGroup) OverlapIndex {
	acc := map[string]map[string]struct{}{}
	for _, group := range groups {
		members := cleanGroup(group)
		for _, id := range members {
			set, ok := acc[id]
			if !ok {
				set = map[string]struct{}{}
				acc[id] = set
			}
			for _, other := range members {
				if other != id {
					set[other] = struct{}{}
				}
			}
		}
	}

	overlaps := make(map[string][]string, len(acc))
	for id, set := range acc {
		if len(set) == 0 {
			continue
		}
		ids := make([]string, 0, len(set))
		for other := range set {
			ids = append(ids, other)
		}
		sort.Strings(ids)
		overlaps[id] = ids
	}
	return OverlapIndex{overlaps: overlaps}
}

// Overlaps returns the ids id can be substituted with, sorted. The returned
// slice must not be modified.
func (x OverlapIndex) Overlaps(id string) []string {
	return x.overlaps[id]
}

// Len reports how many ids have at least one overlap partner.
func (x OverlapIndex) Len() int { return len(x.overlaps) }

// anyCompleted reports whether some overlap partner of id is completed.
func (x OverlapIndex) anyCompleted(id string, completed domain.CompletedSet) bool {
	for _, other := range x.overlaps[id] {
		if completed.Has(other) {
			return true
		}
	}
	return false
}

func cleanGroup(group domain.OverlapGroup) []string {
	seen := make(map[string]bool, len(group))
	out := make([]string, 0, len(group))
	for _, id := range group {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
