package serialize

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"androcfg/internal/ir"
	"androcfg/internal/lexicon"
	"androcfg/internal/view"
)

func buildSmallProgram() *ir.Program {
	p := ir.NewProgram(nil)
	c := p.NewClass(".class public Lcom/example/Foo;")
	m := p.NewMethod(".method public bar()V")

	entryID := p.NextBlockID()
	entryLeader := p.NewInstruction(".method public bar()V", lexicon.KindMethodStart, 1, m.ID, c.ID, entryID)
	entry := &ir.BasicBlock{ID: entryID, Instructions: []*ir.Instruction{entryLeader}}
	entry.AddInstruction(p.NewInstruction("return-void", lexicon.KindReturn, 2, m.ID, c.ID, entryID))
	m.AddBasicBlock(entry)
	c.AddMethod(m)
	p.AddClass(c)
	return p
}

func TestWriteDigraphWellFormed(t *testing.T) {
	p := buildSmallProgram()
	g := view.CFG(p)

	var sb strings.Builder
	require.NoError(t, WriteDigraph(&sb, g, rand.New(rand.NewSource(1))))

	out := sb.String()
	assert.True(t, strings.HasPrefix(out, "digraph {\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, "shape=box")
}

func TestWriteCOOShapeLine(t *testing.T) {
	p := buildSmallProgram()
	g := view.CFG(p)

	var sb strings.Builder
	require.NoError(t, WriteCOO(&sb, g, p.TotalInstructions(), false))

	lines := strings.Split(sb.String(), "\n")
	assert.Equal(t, "1,11", lines[0])
}

func TestWriteCFGExplainerCOOShapeLine(t *testing.T) {
	p := buildSmallProgram()
	g := view.CFG(p)

	var sb strings.Builder
	require.NoError(t, WriteCFGExplainerCOO(&sb, g, p.TotalInstructions()))

	lines := strings.Split(sb.String(), "\n")
	assert.Equal(t, "1,12", lines[0])
}

func TestWriteHybridCOODenseReindex(t *testing.T) {
	p := buildSmallProgram()
	g := view.Hybrid(p, nil)

	var sb strings.Builder
	require.NoError(t, WriteHybridCOO(&sb, g, p.TotalInstructions()))
	assert.True(t, strings.HasPrefix(sb.String(), "1,"))
}
