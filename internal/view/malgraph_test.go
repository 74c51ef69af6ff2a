package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"androcfg/internal/ir"
)

func TestTallyLibraryCallsCountsByTargetAndSeedsFromExisting(t *testing.T) {
	p := ir.NewProgram(nil)

	lib := p.NewClass(".class public final Ljava/lang/StringBuilder;")
	libMethod := p.NewMethod(".method T T toString()Ljava/lang/String;")
	lib.AddMethod(libMethod)
	p.AddClass(lib)

	c := p.NewClass(".class public Lcom/example/Foo;")
	caller := oneBlockMethod(p, c, "run")
	c.InvocationsLib = append(c.InvocationsLib,
		ir.CrossInvocation{SrcMethodID: caller.ID, TargetClass: "Ljava/lang/StringBuilder", TargetMethod: "toString()Ljava/lang/String;"},
		ir.CrossInvocation{SrcMethodID: caller.ID, TargetClass: "Ljava/lang/StringBuilder", TargetMethod: "toString()Ljava/lang/String;"},
	)
	p.AddClass(c)

	existing := map[string]LibraryCallCount{
		"Ljava/lang/StringBuilder-toString": {Count: 5, MethodID: libMethod.ID},
	}

	tally := TallyLibraryCalls(p, existing)

	identifier := "Ljava/lang/StringBuilder-toString"
	require.Contains(t, tally, identifier)
	assert.Equal(t, 7, tally[identifier].Count)
	assert.Equal(t, libMethod.ID, tally[identifier].MethodID)
}

func TestTallyLibraryCallsNilExistingStartsFresh(t *testing.T) {
	p := ir.NewProgram(nil)

	lib := p.NewClass(".class public final Ljava/lang/System;")
	libMethod := p.NewMethod(".method T T gc()V")
	lib.AddMethod(libMethod)
	p.AddClass(lib)

	c := p.NewClass(".class public Lcom/example/Foo;")
	caller := oneBlockMethod(p, c, "run")
	c.InvocationsLib = append(c.InvocationsLib,
		ir.CrossInvocation{SrcMethodID: caller.ID, TargetClass: "Ljava/lang/System", TargetMethod: "gc()V"},
	)
	p.AddClass(c)

	tally := TallyLibraryCalls(p, nil)

	identifier := "Ljava/lang/System-gc"
	require.Contains(t, tally, identifier)
	assert.Equal(t, 1, tally[identifier].Count)
}
