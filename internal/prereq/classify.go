package prereq

import (
	"sort"

	"course-graph/internal/domain"
)

// NodeState is the availability of a course for one completed set.
type NodeState string

const (
	Completed NodeState = "completed"
	Available NodeState = "available"
	Locked    NodeState = "locked"
)

// EdgeState tags a prerequisite edge as met or unmet.
type EdgeState string

const (
	Met   EdgeState = "met"
	Unmet EdgeState = "unmet"
)

// Edge points from a prerequisite to the course that requires it.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type NodeStates map[string]NodeState

type EdgeStates map[Edge]EdgeState

// Edges returns the edges ordered by target, then source.
func (e EdgeStates) Edges() []Edge {
	out := make([]Edge, 0, len(e))
	for edge := range e {
		out = append(out, edge)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].From < out[j].From
	})
	return out
}

// Classify assigns a state to every catalog course and tags every retained
// edge in resolved. Only direct prerequisites are inspected.
//
// Edges are tagged regardless of the target's state, so a completed course
// still shows which of its prerequisites were met.
func Classify(catalog domain.Catalog, resolved ResolvedMap, completed domain.CompletedSet) (NodeStates, EdgeStates) {
	nodes := make(NodeStates, len(catalog))
	edges := EdgeStates{}

	for id := range catalog {
		prereqs := resolved[id]

		state := Available
		switch {
		case completed.Has(id):
			state = Completed
		default:
			for _, p := range prereqs {
				if !completed.Has(p) {
					state = Locked
					break
				}
			}
		}
		nodes[id] = state

		for _, p := range prereqs {
			tag := Unmet
			if completed.Has(p) {
				tag = Met
			}
			edges[Edge{From: p, To: id}] = tag
		}
	}
	return nodes, edges
}

// NextCourses returns the ids that can be taken now, sorted.
func NextCourses(nodes NodeStates) []string {
	var out []string
	for id, state := range nodes {
		if state == Available {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Result bundles one resolution pass.
type Result struct {
	Resolved ResolvedMap
	Nodes    NodeStates
	Edges    EdgeStates
}

// Analyze resolves and classifies in one call.
func Analyze(catalog domain.Catalog, index OverlapIndex, completed domain.CompletedSet) Result {
	resolved := ResolvePrerequisites(catalog, index, completed)
	nodes, edges := Classify(catalog, resolved, completed)
	return Result{Resolved: resolved, Nodes: nodes, Edges: edges}
}

// Counts tallies the courses per state.
func (r Result) Counts() map[NodeState]int {
	counts := map[NodeState]int{Completed: 0, Available: 0, Locked: 0}
	for _, state := range r.Nodes {
		counts[state]++
	}
	return counts
}

// Unmet returns the unmet prerequisites of id, sorted.
func (r Result) Unmet(id string) []string {
	var out []string
	for _, p := range r.Resolved[id] {
		if r.Edges[Edge{From: p, To: id}] == Unmet {
			out = append(out, p)
		}
	}
	return out
}
