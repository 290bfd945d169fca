package render

import "sort"

// position is the center of a node on the canvas grid, in row/column units.
type position struct {
	row int
	col float64
}

// layered assigns every node a row (longest path from a root over the graph's
// edges) and a column inside its row. Rows wider than maxPerRow wrap onto
// extra rows. Cycles are tolerated: ranking stops after len(nodes) rounds.
func layered(g Graph, maxPerRow int) (map[string]position, int, int) {
	if maxPerRow <= 0 {
		maxPerRow = 10
	}

	rank := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		rank[n.ID] = 0
	}
	for round := 0; round < len(g.Nodes); round++ {
		changed := false
		for _, e := range g.Edges {
			if _, ok := rank[e.To]; !ok {
				continue
			}
			if r := rank[e.From] + 1; r > rank[e.To] && r < len(g.Nodes) {
				rank[e.To] = r
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	layers := map[int][]string{}
	maxRank := 0
	for _, n := range g.Nodes {
		r := rank[n.ID]
		layers[r] = append(layers[r], n.ID)
		if r > maxRank {
			maxRank = r
		}
	}

	parents := map[string][]string{}
	for _, e := range g.Edges {
		parents[e.To] = append(parents[e.To], e.From)
	}

	pos := make(map[string]position, len(g.Nodes))
	row, widest := 0, 0
	for r := 0; r <= maxRank; r++ {
		ids := layers[r]
		if len(ids) == 0 {
			continue
		}
		// order by the mean column of already placed parents to cut crossings
		key := make(map[string]float64, len(ids))
		for _, id := range ids {
			sum, cnt := 0.0, 0
			for _, p := range parents[id] {
				if pp, ok := pos[p]; ok {
					sum += pp.col
					cnt++
				}
			}
			if cnt > 0 {
				key[id] = sum / float64(cnt)
			} else {
				key[id] = -1
			}
		}
		sort.SliceStable(ids, func(i, j int) bool {
			if key[ids[i]] != key[ids[j]] {
				return key[ids[i]] < key[ids[j]]
			}
			return ids[i] < ids[j]
		})

		for start := 0; start < len(ids); start += maxPerRow {
			end := start + maxPerRow
			if end > len(ids) {
				end = len(ids)
			}
			chunk := ids[start:end]
			if len(chunk) > widest {
				widest = len(chunk)
			}
			for i, id := range chunk {
				pos[id] = position{row: row, col: float64(i)}
			}
			row++
		}
	}

	// center short rows under the widest one
	rowLen := map[int]int{}
	for _, p := range pos {
		rowLen[p.row]++
	}
	for id, p := range pos {
		p.col += float64(widest-rowLen[p.row]) / 2
		pos[id] = p
	}
	return pos, row, widest
}
