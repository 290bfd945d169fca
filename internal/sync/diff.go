package sync

import (
	"sort"
	"strings"

	"course-graph/internal/domain"
)

// Changes lists course ids that differ between two scrapes, each sorted.
type Changes struct {
	Added   []string
	Removed []string
	Changed []string
}

func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Diff compares a previously saved catalog with a fresh scrape.
// Returns:
// - Added: in next but not in prev
// - Removed: in prev but not in next
// - Changed: in both with a different name or prerequisite set
func Diff(prev, next domain.Catalog) Changes {
	var ch Changes
	for id, nc := range next {
		pc, ok := prev[id]
		if !ok {
			ch.Added = append(ch.Added, id)
			continue
		}
		if needsUpdate(pc, nc) {
			ch.Changed = append(ch.Changed, id)
		}
	}
	for id := range prev {
		if _, ok := next[id]; !ok {
			ch.Removed = append(ch.Removed, id)
		}
	}

	sort.Strings(ch.Added)
	sort.Strings(ch.Removed)
	sort.Strings(ch.Changed)
	return ch
}

// needsUpdate ignores prerequisite order and duplicates. An "Unknown Course"
// placeholder in either side is not treated as a rename.
func needsUpdate(p, n domain.Course) bool {
	pName, nName := norm(p.Name), norm(n.Name)
	if pName != nName && !isPlaceholder(pName) && !isPlaceholder(nName) {
		return true
	}
	return !sameSet(p.Prerequisites, n.Prerequisites)
}

func sameSet(a, b []string) bool {
	as, bs := toSet(a), toSet(b)
	if len(as) != len(bs) {
		return false
	}
	for id := range as {
		if _, ok := bs[id]; !ok {
			return false
		}
	}
	return true
}

func toSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out[id] = struct{}{}
		}
	}
	return out
}

func norm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func isPlaceholder(name string) bool {
	return name == "" || name == "unknown course"
}
