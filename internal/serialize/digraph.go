// Package serialize renders a view.Graph into the two output forms GNN
// tooling around this project expects: dot-like digraph text for
// visualization, and COO (coordinate-format) sparse matrix text for
// training pipelines. Node coloring by class, label escaping, and the
// feature-vector layouts all mirror output_graph.py's writers.
package serialize

import (
	"fmt"
	"io"
	"math/rand"
	"strings"

	"androcfg/internal/view"
)

var colorAlphabet = "0123456789abcedf" // matches the original's typo'd palette

func randomColor(rng *rand.Rand) string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = colorAlphabet[rng.Intn(len(colorAlphabet))]
	}
	return "#" + string(b)
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "$", "•")
	s = strings.ReplaceAll(s, `"`, "'")
	return s
}

// WriteDigraph renders g as a graphviz digraph. Every node gets its own
// color, a fresh draw from rng; nodes of the same class do not share a
// color.
func WriteDigraph(w io.Writer, g view.Graph, rng *rand.Rand) error {
	var sb strings.Builder
	sb.WriteString("digraph {\n")

	for _, n := range g.Nodes {
		label := n.Label
		if n.IsBlock {
			lines := make([]string, len(n.Instructions))
			for i, instr := range n.Instructions {
				lines[i] = fmt.Sprintf("%d: %s", instr.LineNum, escapeLabel(instr.Text))
			}
			label = strings.Join(lines, `\l`) + `\l`
		} else {
			label = escapeLabel(label)
		}
		fmt.Fprintf(&sb, "%d [shape=box color=\"%s\" label=\"%s\"];\n", n.RawID, randomColor(rng), label)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&sb, "%d -> %d;\n", e.FromRaw, e.ToRaw)
	}
	sb.WriteString("}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteHybridDigraph renders a Hybrid view, prefixing block-level node and
// edge endpoints with "i" the way restricted_hybrid_dot does to keep them
// visually distinct from (and never numerically confusable with) the
// method-level nodes in the same dot file.
func WriteHybridDigraph(w io.Writer, g view.Graph, rng *rand.Rand) error {
	var sb strings.Builder
	sb.WriteString("digraph {\n")

	ref := func(n *view.Node) string {
		if n.IsBlock {
			return fmt.Sprintf("i%d", n.RawID)
		}
		return fmt.Sprintf("%d", n.RawID)
	}
	byRaw := map[string]*view.Node{}
	for i := range g.Nodes {
		byRaw[g.Nodes[i].Key] = &g.Nodes[i]
	}

	for _, n := range g.Nodes {
		n := n
		label := n.Label
		if n.IsBlock {
			lines := make([]string, len(n.Instructions))
			for i, instr := range n.Instructions {
				lines[i] = fmt.Sprintf("%d: %s", instr.LineNum, escapeLabel(instr.Text))
			}
			label = strings.Join(lines, `\l`) + `\l`
		} else {
			label = escapeLabel(label)
		}
		fmt.Fprintf(&sb, "%s [shape=box color=\"%s\" label=\"%s\"];\n", ref(&n), randomColor(rng), label)
	}
	for _, e := range g.Edges {
		from, to := byRaw[e.FromKey], byRaw[e.ToKey]
		if from == nil || to == nil {
			continue
		}
		fmt.Fprintf(&sb, "%s -> %s;\n", ref(from), ref(to))
	}
	sb.WriteString("}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
