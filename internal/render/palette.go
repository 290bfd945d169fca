package render

import (
	"course-graph/internal/prereq"
)

// Fill colors per node state, as hex for both DOT and gg.
var nodeColors = map[prereq.NodeState]string{
	prereq.Completed: "#90EE90", // light green
	prereq.Available: "#FFD700", // gold
	prereq.Locked:    "#D3D3D3", // grey
	"":               "#FFFFFF",
}

var edgeColors = map[prereq.EdgeState]string{
	prereq.Met:   "#000000",
	prereq.Unmet: "#FF0000",
}

// NodeColor returns the fill color for a node state.
func NodeColor(s prereq.NodeState) string {
	if c, ok := nodeColors[s]; ok {
		return c
	}
	return nodeColors[""]
}

// EdgeColor returns the stroke color for an edge state.
func EdgeColor(s prereq.EdgeState) string {
	if c, ok := edgeColors[s]; ok {
		return c
	}
	return edgeColors[prereq.Unmet]
}
