package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"androcfg/internal/ir"
	"androcfg/internal/lexicon"
)

func oneBlockMethod(p *ir.Program, c *ir.Class, name string) *ir.Method {
	m := p.NewMethod(".method public " + name + "()V")
	entryID := p.NextBlockID()
	entryLeader := p.NewInstruction(".method public "+name+"()V", lexicon.KindMethodStart, 1, m.ID, c.ID, entryID)
	entry := &ir.BasicBlock{ID: entryID, Instructions: []*ir.Instruction{entryLeader}}
	entry.AddInstruction(p.NewInstruction("return-void", lexicon.KindReturn, 2, m.ID, c.ID, entryID))
	m.AddBasicBlock(entry)
	c.AddMethod(m)
	return m
}

func TestCFGOneNodePerBlock(t *testing.T) {
	p := ir.NewProgram(nil)
	c := p.NewClass(".class public Lcom/example/Foo;")
	oneBlockMethod(p, c, "bar")
	p.AddClass(c)

	g := CFG(p)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, 0, g.Nodes[0].RawID)
}

func TestFCGOneNodePerMethod(t *testing.T) {
	p := ir.NewProgram(nil)
	c := p.NewClass(".class public Lcom/example/Foo;")
	m1 := oneBlockMethod(p, c, "a")
	m2 := oneBlockMethod(p, c, "b")
	m1.AddCallOut(m2.ID)
	p.AddClass(c)

	g := FCG(p)
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, m1.ID, g.Edges[0].FromRaw)
	assert.Equal(t, m2.ID, g.Edges[0].ToRaw)
}

func TestHybridExpandsCallersOfTarget(t *testing.T) {
	p := ir.NewProgram(nil)
	c := p.NewClass(".class public Lcom/example/Foo;")
	caller := oneBlockMethod(p, c, "caller")
	callee := oneBlockMethod(p, c, "callee")
	caller.AddCallOut(callee.ID)
	p.AddClass(c)

	g := Hybrid(p, []string{"Foo::callee"})

	var sawCallerBlock, sawCalleeNode bool
	for _, n := range g.Nodes {
		if n.Key == blockKey(caller.Blocks[0].ID) {
			sawCallerBlock = true
		}
		if n.Key == methodKey(callee.ID) {
			sawCalleeNode = true
		}
	}
	assert.True(t, sawCallerBlock, "caller should be expanded into block-level nodes")
	assert.True(t, sawCalleeNode, "callee should remain a single FCG node")
}

func TestHybridEmptyTargetsIsPlainFCG(t *testing.T) {
	p := ir.NewProgram(nil)
	c := p.NewClass(".class public Lcom/example/Foo;")
	oneBlockMethod(p, c, "solo")
	p.AddClass(c)

	g := Hybrid(p, nil)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, methodKey(0), g.Nodes[0].Key)
}
