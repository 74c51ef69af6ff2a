package serialize

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"androcfg/internal/feature"
	"androcfg/internal/lexicon"
	"androcfg/internal/view"
)

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}

func joinVector(v feature.Vector) string {
	return joinInts([]int(v))
}

func joinVectors(vs []feature.Vector) string {
	rows := make([]string, len(vs))
	for i, v := range vs {
		rows[i] = joinVector(v)
	}
	return strings.Join(rows, ";")
}

// WriteCOO renders g (a CFG or FCG view) as a COO sparse-matrix text file:
// a feature matrix (one Summary vector per node, row-indexed by the node's
// native id) followed by an adjacency matrix of the same edges, optionally
// followed by each node's verbatim instruction text. Mirrors
// output_cfg_coo/output_fcg_coo, except the vectors are written as plain
// delimited integers rather than a Python list literal.
func WriteCOO(w io.Writer, g view.Graph, totalInstr int, verboseNodes bool) error {
	vectors := make([]feature.Vector, len(g.Nodes))
	featureRow := make([]int, len(g.Nodes))
	featureCol := make([]int, len(g.Nodes))
	for i, n := range g.Nodes {
		vectors[i] = feature.Summary(n.Instructions, n.Degree, totalInstr)
		featureRow[i] = n.RawID
		featureCol[i] = 0
	}

	var adjRow, adjCol []int
	for _, e := range g.Edges {
		adjRow = append(adjRow, e.ToRaw)
		adjCol = append(adjCol, e.FromRaw)
	}

	var sb strings.Builder
	width := 0
	if len(vectors) > 0 {
		width = len(vectors[0])
	}
	fmt.Fprintf(&sb, "%d,%d\n\n", len(vectors), width)
	fmt.Fprintf(&sb, "%s\n", joinVectors(vectors))
	fmt.Fprintf(&sb, "%s\n", joinInts(featureRow))
	fmt.Fprintf(&sb, "%s\n\n", joinInts(featureCol))
	fmt.Fprintf(&sb, "%s\n", joinInts(adjRow))
	fmt.Fprintf(&sb, "%s\n", joinInts(adjCol))

	if verboseNodes {
		sb.WriteString("\n")
		for _, n := range g.Nodes {
			lines := make([]string, len(n.Instructions))
			for i, instr := range n.Instructions {
				lines[i] = instr.Text
			}
			fmt.Fprintf(&sb, "%d: %s\n", n.RawID, strings.Join(lines, "|"))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteCFGExplainerCOO renders g with the Extended (12-slot) feature
// layout and an extra adjacency-value row: 2 for an edge whose source
// block's last instruction is an invoke, 1 otherwise. Mirrors
// output_cfgexplainer_coo.
func WriteCFGExplainerCOO(w io.Writer, g view.Graph, totalInstr int) error {
	byRaw := map[int]*view.Node{}
	for i := range g.Nodes {
		byRaw[g.Nodes[i].RawID] = &g.Nodes[i]
	}

	vectors := make([]feature.Vector, len(g.Nodes))
	featureRow := make([]int, len(g.Nodes))
	featureCol := make([]int, len(g.Nodes))
	degreeByRaw := map[int]int{}
	for _, n := range g.Nodes {
		degreeByRaw[n.RawID] = 0
	}
	for _, e := range g.Edges {
		degreeByRaw[e.FromRaw]++
	}
	for i, n := range g.Nodes {
		vectors[i] = feature.Extended(n.Instructions, degreeByRaw[n.RawID], totalInstr)
		featureRow[i] = n.RawID
		featureCol[i] = 0
	}

	var adjVal, adjRow, adjCol []int
	for _, e := range g.Edges {
		adjRow = append(adjRow, e.ToRaw)
		adjCol = append(adjCol, e.FromRaw)

		val := 1
		if src := byRaw[e.FromRaw]; src != nil && len(src.Instructions) > 0 {
			if src.Instructions[len(src.Instructions)-1].Kind == lexicon.KindInvoke {
				val = 2
			}
		}
		adjVal = append(adjVal, val)
	}

	var sb strings.Builder
	width := 0
	if len(vectors) > 0 {
		width = len(vectors[0])
	}
	fmt.Fprintf(&sb, "%d,%d\n\n", len(vectors), width)
	fmt.Fprintf(&sb, "%s\n", joinVectors(vectors))
	fmt.Fprintf(&sb, "%s\n", joinInts(featureRow))
	fmt.Fprintf(&sb, "%s\n\n", joinInts(featureCol))
	fmt.Fprintf(&sb, "%s\n", joinInts(adjVal))
	fmt.Fprintf(&sb, "%s\n", joinInts(adjRow))
	fmt.Fprintf(&sb, "%s\n", joinInts(adjCol))

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteHybridCOO renders a Hybrid view's mixed block/method node set. Since
// block ids and method ids are independent counters and can collide, every
// node is first translated through a dense reindex keyed by its namespaced
// Key ("b12"/"m7"), sorted for determinism, exactly as
// restricted_hybrid_coo's global_id_map/reduction_map pair does.
func WriteHybridCOO(w io.Writer, g view.Graph, totalInstr int) error {
	byKey := map[string]*view.Node{}
	for i := range g.Nodes {
		byKey[g.Nodes[i].Key] = &g.Nodes[i]
	}

	keys := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		keys[i] = n.Key
	}
	sort.Strings(keys)

	dense := map[string]int{}
	for i, k := range keys {
		dense[k] = i
	}

	vectors := make([]feature.Vector, len(keys))
	featureRow := make([]int, len(keys))
	featureCol := make([]int, len(keys))
	for i, k := range keys {
		n := byKey[k]
		vectors[i] = feature.Summary(n.Instructions, n.Degree, totalInstr)
		featureRow[i] = dense[k]
		featureCol[i] = 0
	}

	var adjRow, adjCol []int
	for _, e := range g.Edges {
		from, fromOK := dense[e.FromKey]
		to, toOK := dense[e.ToKey]
		if !fromOK || !toOK {
			continue
		}
		adjRow = append(adjRow, to)
		adjCol = append(adjCol, from)
	}

	var sb strings.Builder
	width := 0
	if len(vectors) > 0 {
		width = len(vectors[0])
	}
	fmt.Fprintf(&sb, "%d,%d\n\n", len(vectors), width)
	fmt.Fprintf(&sb, "%s\n", joinVectors(vectors))
	fmt.Fprintf(&sb, "%s\n", joinInts(featureRow))
	fmt.Fprintf(&sb, "%s\n\n", joinInts(featureCol))
	fmt.Fprintf(&sb, "%s\n", joinInts(adjRow))
	fmt.Fprintf(&sb, "%s\n", joinInts(adjCol))

	_, err := io.WriteString(w, sb.String())
	return err
}
