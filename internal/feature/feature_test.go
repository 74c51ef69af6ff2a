package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"androcfg/internal/ir"
	"androcfg/internal/lexicon"
)

func instr(text string, kind lexicon.Kind) *ir.Instruction {
	return &ir.Instruction{Text: text, Kind: kind}
}

func TestSummaryCounts(t *testing.T) {
	instrs := []*ir.Instruction{
		instr("const/4 v0, 0x1", lexicon.KindConst),
		instr("const-string v1, \"hi\"", lexicon.KindConst),
		instr("invoke-virtual {v0}, Lfoo;->bar()V", lexicon.KindInvoke),
		instr("add-int v0, v0, v1", lexicon.KindAdd),
		instr("return-void", lexicon.KindReturn),
	}

	v := Summary(instrs, 3, 42)
	assert.Equal(t, 2, v[SummaryNumericConst]) // both const forms land in the single summary slot
	assert.Equal(t, 1, v[SummaryCall])
	assert.Equal(t, 1, v[SummaryArithmetic])
	assert.Equal(t, 1, v[SummaryTerminate])
	assert.Equal(t, 42, v[SummaryNumTotalInstr])
	assert.Equal(t, 3, v[SummaryDegree])
	assert.Equal(t, 5, v[SummaryNumInstrInVertex])
}

func TestExtendedSplitsStringConst(t *testing.T) {
	instrs := []*ir.Instruction{
		instr("const/4 v0, 0x1", lexicon.KindConst),
		instr("const-string v1, \"hi\"", lexicon.KindConst),
	}

	v := Extended(instrs, 0, 2)
	assert.Equal(t, 1, v[ExtendedNumericConst])
	assert.Equal(t, 1, v[ExtendedStringConst])
}
