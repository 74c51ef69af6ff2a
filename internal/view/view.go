// Package view assembles the three graph projections an ir.Program
// supports: CFG (one node per basic block), FCG (one node per method), and
// Hybrid (an FCG where methods that call a target of interest are expanded
// back into their full CFG). Feature-vector and text-format concerns live
// in package serialize; this package only produces topology.
package view

import (
	"fmt"
	"strings"

	"androcfg/internal/ir"
)

// Node is one graph vertex. RawID is the block or method id it was built
// from, used directly as a sparse-matrix index by the CFG/FCG views. Key
// additionally namespaces that id ("b12" vs "m12") so a Hybrid view, which
// mixes both kinds of node in one graph, can tell them apart without risk
// of collision.
type Node struct {
	RawID        int
	Key          string
	Label        string // set only when IsBlock is false ("Class::method")
	IsBlock      bool
	Instructions []*ir.Instruction
	Degree       int
}

// Edge connects two nodes by the same (RawID, Key) identity their Node
// carries.
type Edge struct {
	FromRaw, ToRaw int
	FromKey, ToKey string
}

// Graph is a topology snapshot ready for serialization.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// CFG builds one node per basic block across every class and method, with
// an edge for every block-level child link.
func CFG(p *ir.Program) Graph {
	var g Graph
	for _, c := range p.Classes {
		for _, m := range c.Methods {
			for _, b := range m.Blocks {
				g.Nodes = append(g.Nodes, Node{
					RawID: b.ID, Key: blockKey(b.ID), IsBlock: true,
					Instructions: b.Instructions, Degree: b.Degree(),
				})
				for _, child := range b.ChildBlockIDs {
					g.Edges = append(g.Edges, Edge{
						FromRaw: b.ID, ToRaw: child,
						FromKey: blockKey(b.ID), ToKey: blockKey(child),
					})
				}
			}
		}
	}
	return g
}

// FCG builds one node per method, with an edge for every call-out.
func FCG(p *ir.Program) Graph {
	var g Graph
	for _, c := range p.Classes {
		for _, m := range c.Methods {
			var instrs []*ir.Instruction
			for _, b := range m.Blocks {
				instrs = append(instrs, b.Instructions...)
			}
			g.Nodes = append(g.Nodes, Node{
				RawID: m.ID, Key: methodKey(m.ID),
				Label: c.Name + "::" + m.Name, Instructions: instrs,
				Degree: len(m.CallsOut) + len(m.CallsIn),
			})
			for _, target := range m.CallsOut {
				g.Edges = append(g.Edges, Edge{
					FromRaw: m.ID, ToRaw: target,
					FromKey: methodKey(m.ID), ToKey: methodKey(target),
				})
			}
		}
	}
	return g
}

// ExpansionTargets parses an expansion-set file's already-split lines into
// the "ClassName::methodName" / "ClassName::*" target list used by Hybrid,
// stripping comments and blank lines. Mirrors extract_target_methods.
func ExpansionTargets(lines []string) []string {
	var out []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" || strings.Contains(l, "#") {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Hybrid builds an FCG where any method that calls one of the expansion
// targets is expanded into its full CFG instead of a single method node;
// everything else stays a single FCG node. An empty target list produces a
// plain FCG. Mirrors restricted_hybrid_dot/restricted_hybrid_coo's two-pass
// shape: first resolve target method ids (with "Class::*" glob support),
// then mark every method that calls one of them for expansion, then emit.
func Hybrid(p *ir.Program, targets []string) Graph {
	methodIDsByName := map[string][]int{}
	blockToMethod := map[int]int{}
	methodEntryBlock := map[int]int{}

	for _, c := range p.Classes {
		for _, m := range c.Methods {
			name := c.Name + "::" + m.Name
			methodIDsByName[name] = append(methodIDsByName[name], m.ID)
			if len(m.Blocks) > 0 {
				methodEntryBlock[m.ID] = m.Blocks[0].ID
			}
			for _, b := range m.Blocks {
				blockToMethod[b.ID] = m.ID
			}
		}
	}

	expMethodIDs := map[int]bool{}
	for _, target := range targets {
		if strings.Contains(target, "*") {
			targetClass := strings.SplitN(target, "::", 2)[0]
			for name, ids := range methodIDsByName {
				if strings.SplitN(name, "::", 2)[0] == targetClass {
					for _, id := range ids {
						expMethodIDs[id] = true
					}
				}
			}
			continue
		}
		for _, id := range methodIDsByName[target] {
			expMethodIDs[id] = true
		}
	}

	expanded := map[int]bool{}
	for _, c := range p.Classes {
		for _, m := range c.Methods {
			for _, target := range m.CallsOut {
				if expMethodIDs[target] {
					expanded[m.ID] = true
					break
				}
			}
		}
	}

	var g Graph
	for _, c := range p.Classes {
		for _, m := range c.Methods {
			if expanded[m.ID] {
				intraMethod := map[int]bool{}
				for _, b := range m.Blocks {
					intraMethod[b.ID] = true
				}
				for _, b := range m.Blocks {
					g.Nodes = append(g.Nodes, Node{
						RawID: b.ID, Key: blockKey(b.ID), IsBlock: true,
						Instructions: b.Instructions, Degree: b.Degree(),
					})
					for _, target := range b.ChildBlockIDs {
						if intraMethod[target] || expanded[blockToMethod[target]] {
							g.Edges = append(g.Edges, Edge{
								FromRaw: b.ID, ToRaw: target,
								FromKey: blockKey(b.ID), ToKey: blockKey(target),
							})
						} else {
							tm := blockToMethod[target]
							g.Edges = append(g.Edges, Edge{
								FromRaw: b.ID, ToRaw: tm,
								FromKey: blockKey(b.ID), ToKey: methodKey(tm),
							})
						}
					}
				}
				continue
			}

			var instrs []*ir.Instruction
			for _, b := range m.Blocks {
				instrs = append(instrs, b.Instructions...)
			}
			g.Nodes = append(g.Nodes, Node{
				RawID: m.ID, Key: methodKey(m.ID),
				Label: c.Name + "::" + m.Name, Instructions: instrs,
				Degree: len(m.CallsOut) + len(m.CallsIn),
			})
			for _, target := range m.CallsOut {
				if expanded[target] {
					g.Edges = append(g.Edges, Edge{
						FromRaw: m.ID, ToRaw: methodEntryBlock[target],
						FromKey: methodKey(m.ID), ToKey: blockKey(methodEntryBlock[target]),
					})
				} else {
					g.Edges = append(g.Edges, Edge{
						FromRaw: m.ID, ToRaw: target,
						FromKey: methodKey(m.ID), ToKey: methodKey(target),
					})
				}
			}
		}
	}

	return g
}

func blockKey(id int) string  { return fmt.Sprintf("b%d", id) }
func methodKey(id int) string { return fmt.Sprintf("m%d", id) }
