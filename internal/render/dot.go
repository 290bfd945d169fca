package render

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"
)

// WriteDOT writes g as a Graphviz digraph laid out top to bottom, one filled
// circle per course and one colored edge per retained prerequisite.
func WriteDOT(w io.Writer, g Graph) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "strict digraph prerequisites {")
	fmt.Fprintln(bw, "\trankdir=TB;")
	fmt.Fprintln(bw, "\tnode [shape=circle, style=filled, fixedsize=true, width=1.2, height=1.2, fontsize=10];")

	for _, n := range g.Nodes {
		fmt.Fprintf(bw, "\t%s [label=<%s>, fillcolor=%q];\n", quoteID(n.ID), htmlLabel(n.Label), NodeColor(n.State))
	}
	for _, e := range g.Edges {
		fmt.Fprintf(bw, "\t%s -> %s [color=%q];\n", quoteID(e.From), quoteID(e.To), EdgeColor(e.State))
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}

func htmlLabel(label string) string {
	lines := WrapLabel(label, DefaultWrapWidth)
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return strings.Join(lines, "<br/>")
}

func quoteID(id string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(id) + `"`
}
