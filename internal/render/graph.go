// Package render turns a classified prerequisite graph into pictures: Graphviz
// DOT text and a self-contained PNG. It only reads states computed by the
// prereq package and never classifies anything itself.
package render

import (
	"sort"

	"course-graph/internal/domain"
	"course-graph/internal/prereq"
)

// Node is one course circle. State is empty for ids that only appear as a
// prerequisite and were never classified.
type Node struct {
	ID    string
	Label string
	State prereq.NodeState
}

type Edge struct {
	From  string
	To    string
	State prereq.EdgeState
}

type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Build assembles the drawable graph from a catalog and one resolution
// result. Prerequisite ids missing from the catalog become nodes labelled
// "Course <id>"; they are drawn completed when one of their edges is met.
func Build(catalog domain.Catalog, res prereq.Result) Graph {
	states := map[string]prereq.NodeState{}
	for id, state := range res.Nodes {
		states[id] = state
	}

	var edges []Edge
	for _, e := range res.Edges.Edges() {
		tag := res.Edges[e]
		edges = append(edges, Edge{From: e.From, To: e.To, State: tag})
		if _, classified := res.Nodes[e.From]; classified {
			continue
		}
		if tag == prereq.Met {
			states[e.From] = prereq.Completed
		} else if _, ok := states[e.From]; !ok {
			states[e.From] = ""
		}
	}

	ids := make([]string, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, Node{ID: id, Label: catalog.Name(id), State: states[id]})
	}
	return Graph{Nodes: nodes, Edges: edges}
}
