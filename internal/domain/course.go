package domain

import (
	"sort"
	"strings"
)

// Course is the canonical representation of a course inside this service.
// Providers map into this model; the resolver, renderers and exports read from it.
type Course struct {
	ID            string   `json:"-"`
	Name          string   `json:"name"`
	Prerequisites []string `json:"prerequisites"` // may reference ids missing from the catalog
}

// Catalog maps course id to course. It is built once per load and treated
// as read-only afterwards, so it can be shared across concurrent requests.
type Catalog map[string]Course

// IDs returns the catalog ids in ascending order.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c Catalog) Get(id string) (Course, bool) {
	course, ok := c[id]
	if ok && course.ID == "" {
		course.ID = id
	}
	return course, ok
}

// Name returns the display name for id. Ids referenced only as prerequisites
// get a "Course <id>" placeholder.
func (c Catalog) Name(id string) string {
	if course, ok := c[id]; ok && strings.TrimSpace(course.Name) != "" {
		return course.Name
	}
	return "Course " + id
}

// MissingPrerequisites lists ids referenced as a prerequisite that have no
// catalog entry of their own.
func (c Catalog) MissingPrerequisites() []string {
	seen := map[string]bool{}
	var out []string
	for _, course := range c {
		for _, p := range course.Prerequisites {
			if _, ok := c[p]; ok || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns a copy that shares no slices with c.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for id, course := range c {
		course.Prerequisites = append([]string(nil), course.Prerequisites...)
		out[id] = course
	}
	return out
}

// OverlapGroup is a set of course ids that substitute for each other when
// satisfying prerequisites.
type OverlapGroup []string

// CompletedSet is the set of course ids a learner has finished.
type CompletedSet map[string]struct{}

func NewCompletedSet(ids ...string) CompletedSet {
	s := make(CompletedSet, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		s[id] = struct{}{}
	}
	return s
}

func (s CompletedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s CompletedSet) Len() int { return len(s) }

// IDs returns the completed ids in ascending order.
func (s CompletedSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
