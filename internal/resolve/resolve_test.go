package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"androcfg/internal/ir"
	"androcfg/internal/lexicon"
)

func leaderBlock(p *ir.Program, text string, kind lexicon.Kind, methodID, classID int) *ir.BasicBlock {
	id := p.NextBlockID()
	leader := p.NewInstruction(text, kind, 1, methodID, classID, id)
	return &ir.BasicBlock{ID: id, Instructions: []*ir.Instruction{leader}}
}

func TestResolveMethodLabelsDirect(t *testing.T) {
	p := ir.NewProgram(nil)
	m := p.NewMethod(".method public foo()V")

	entry := leaderBlock(p, ".method public foo()V", lexicon.KindMethodStart, m.ID, 0)
	entry.AddInstruction(p.NewInstruction("goto :target", lexicon.KindGoto, 2, m.ID, 0, entry.ID))
	m.AddLabelCall("goto :target", entry.ID)
	m.AddBasicBlock(entry)

	target := leaderBlock(p, ":target", lexicon.KindLabel, m.ID, 0)
	m.AddBasicBlock(target)

	report := ResolveMethodLabels(m)
	require.Empty(t, report)
	assert.Contains(t, entry.ChildBlockIDs, target.ID)
	assert.Contains(t, target.ParentBlockIDs, entry.ID)
}

func TestResolveMethodLabelsSwitchAlias(t *testing.T) {
	p := ir.NewProgram(nil)
	m := p.NewMethod(".method public bar()V")

	entry := leaderBlock(p, ".method public bar()V", lexicon.KindMethodStart, m.ID, 0)
	entry.AddInstruction(p.NewInstruction("packed-switch v0, :pswitch_data_0", lexicon.KindPackedSwitch, 2, m.ID, 0, entry.ID))
	m.AddLabelCall("goto :pswitch_data_0", entry.ID)
	m.AddBasicBlock(entry)

	m.LabelAliases[":pswitch_data_0"] = []string{":pswitch_0", ":pswitch_1"}

	case0 := leaderBlock(p, ":pswitch_0", lexicon.KindLabel, m.ID, 0)
	m.AddBasicBlock(case0)
	case1 := leaderBlock(p, ":pswitch_1", lexicon.KindLabel, m.ID, 0)
	m.AddBasicBlock(case1)

	report := ResolveMethodLabels(m)
	require.Empty(t, report)
	assert.Contains(t, entry.ChildBlockIDs, case0.ID)
	assert.Contains(t, entry.ChildBlockIDs, case1.ID)
}

func TestResolveMethodLabelsUnresolvable(t *testing.T) {
	p := ir.NewProgram(nil)
	m := p.NewMethod(".method public baz()V")
	entry := leaderBlock(p, ".method public baz()V", lexicon.KindMethodStart, m.ID, 0)
	m.AddLabelCall("goto :missing", entry.ID)
	m.AddBasicBlock(entry)

	report := ResolveMethodLabels(m)
	assert.Len(t, report, 1)
}

func buildLocalInvocationFixture(p *ir.Program, c *ir.Class, nonVoid bool) (*ir.Method, *ir.Method, *ir.BasicBlock) {
	caller := p.NewMethod(".method public caller()V")
	callerEntry := leaderBlock(p, ".method public caller()V", lexicon.KindMethodStart, caller.ID, c.ID)
	caller.AddBasicBlock(callerEntry)
	c.AddMethod(caller)

	ret := "V"
	if nonVoid {
		ret = "I"
	}
	callee := p.NewMethod(".method public callee()" + ret)
	calleeEntry := leaderBlock(p, ".method public callee()"+ret, lexicon.KindMethodStart, callee.ID, c.ID)
	callee.AddBasicBlock(calleeEntry)
	c.AddMethod(callee)

	c.InvocationsLocal = append(c.InvocationsLocal, ir.LocalInvocation{
		SrcMethodID: caller.ID, SrcBlockID: callerEntry.ID, TargetMethod: "callee()" + ret,
	})

	return caller, callee, callerEntry
}

func TestResolveClassInvocationsVoid(t *testing.T) {
	p := ir.NewProgram(nil)
	c := p.NewClass(".class public Lcom/example/Foo;")
	caller, callee, callerEntry := buildLocalInvocationFixture(p, c, false)

	report := ResolveClassInvocations(c)
	require.Empty(t, report)

	assert.Contains(t, callerEntry.ChildBlockIDs, callee.EntryBlock().ID)
	assert.Contains(t, caller.CallsOut, callee.ID)
	assert.Contains(t, callee.CallsIn, caller.ID)
	assert.NotContains(t, caller.CallsIn, callee.ID)
}

func TestResolveClassInvocationsNonVoid(t *testing.T) {
	p := ir.NewProgram(nil)
	c := p.NewClass(".class public Lcom/example/Bar;")
	caller, callee, callerEntry := buildLocalInvocationFixture(p, c, true)

	report := ResolveClassInvocations(c)
	require.Empty(t, report)

	assert.Contains(t, callee.LastBlock().ChildBlockIDs, callerEntry.ID)
	assert.Contains(t, callerEntry.ParentBlockIDs, callee.LastBlock().ID)
	assert.Contains(t, caller.CallsIn, callee.ID)
	assert.Contains(t, callee.CallsOut, caller.ID)
}

func TestResolveLibraryInvocationsSynthesizesStub(t *testing.T) {
	p := ir.NewProgram(nil)
	c := p.NewClass(".class public Lcom/example/Baz;")
	caller := p.NewMethod(".method public run()V")
	entry := leaderBlock(p, ".method public run()V", lexicon.KindMethodStart, caller.ID, c.ID)
	caller.AddBasicBlock(entry)
	c.AddMethod(caller)

	c.InvocationsLib = append(c.InvocationsLib, ir.CrossInvocation{
		SrcMethodID: caller.ID, SrcBlockID: entry.ID,
		TargetClass: "Ljava/lang/StringBuilder", TargetMethod: "toString()Ljava/lang/String;",
	})
	p.AddClass(c)

	report := ResolveLibraryInvocations(p)
	require.Empty(t, report)

	stub, ok := p.ClassByFullPath("Ljava/lang/StringBuilder")
	require.True(t, ok)
	stubMethod, ok := stub.MethodByName("toString")
	require.True(t, ok)
	assert.Contains(t, entry.ChildBlockIDs, stubMethod.EntryBlock().ID)
	assert.Contains(t, stubMethod.LastBlock().ChildBlockIDs, entry.ID)

	// toString returns a value, so both the baseline method-level pair and
	// its non-void reciprocal should be wired, mirroring a resolved
	// intra-class invocation.
	assert.Contains(t, caller.CallsOut, stubMethod.ID)
	assert.Contains(t, stubMethod.CallsIn, caller.ID)
	assert.Contains(t, caller.CallsIn, stubMethod.ID)
	assert.Contains(t, stubMethod.CallsOut, caller.ID)
}

func TestResolveLibraryInvocationsVoidOmitsReciprocal(t *testing.T) {
	p := ir.NewProgram(nil)
	c := p.NewClass(".class public Lcom/example/Qux;")
	caller := p.NewMethod(".method public run()V")
	entry := leaderBlock(p, ".method public run()V", lexicon.KindMethodStart, caller.ID, c.ID)
	caller.AddBasicBlock(entry)
	c.AddMethod(caller)

	c.InvocationsLib = append(c.InvocationsLib, ir.CrossInvocation{
		SrcMethodID: caller.ID, SrcBlockID: entry.ID,
		TargetClass: "Ljava/lang/System", TargetMethod: "gc()V",
	})
	p.AddClass(c)

	report := ResolveLibraryInvocations(p)
	require.Empty(t, report)

	stub, ok := p.ClassByFullPath("Ljava/lang/System")
	require.True(t, ok)
	stubMethod, ok := stub.MethodByName("gc")
	require.True(t, ok)

	assert.Contains(t, caller.CallsOut, stubMethod.ID)
	assert.Contains(t, stubMethod.CallsIn, caller.ID)
	assert.NotContains(t, caller.CallsIn, stubMethod.ID)
	assert.NotContains(t, stubMethod.CallsOut, caller.ID)
}
