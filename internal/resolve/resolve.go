// Package resolve wires the id-based references a parser leaves behind
// into real graph edges: intra-method label targets, intra-class
// invocations, then the two interprocedural passes (same-application
// cross-class calls, and library calls against synthesized stub
// classes/methods). Each pass runs once, after the entity it resolves is
// fully parsed, and returns a report of anything it could not resolve
// rather than failing the run.
package resolve

import (
	"fmt"
	"strings"

	"androcfg/internal/ir"
	"androcfg/internal/lexicon"
)

// ResolveMethodLabels connects every recorded goto/if label call to the
// block it targets, expanding switch-table aliases first. Call once per
// method, at its `.end method` line.
func ResolveMethodLabels(m *ir.Method) []string {
	var report []string

	type call struct {
		label  string
		caller int
	}

	var expanded []call
	for _, lc := range m.LabelCalls {
		if aliases, ok := m.LabelAliases[lc.Label]; ok {
			for _, a := range aliases {
				expanded = append(expanded, call{a, lc.CallerBlockID})
			}
			continue
		}
		expanded = append(expanded, call{lc.Label, lc.CallerBlockID})
	}

	for _, c := range expanded {
		var target *ir.BasicBlock
		for _, bb := range m.Blocks {
			if bb.Leader().Text == c.label {
				target = bb
				break
			}
		}
		if target == nil {
			report = append(report, fmt.Sprintf("failed to resolve label %q", c.label))
			continue
		}

		source, ok := m.BlockByID(c.caller)
		if !ok {
			report = append(report, fmt.Sprintf("failed to resolve caller block %d for label %q", c.caller, c.label))
			continue
		}

		source.AddChild(target.ID)
		target.AddParent(source.ID)
	}

	return report
}

// ResolveClassInvocations resolves every invoke-direct local invocation
// recorded against the class, linking the calling block to the target
// method's entry block and, for a non-void return, adding the reciprocal
// edge from the target's last block back to the caller. Call once per
// class, once it is fully parsed.
func ResolveClassInvocations(c *ir.Class) []string {
	var report []string

	for _, inv := range c.InvocationsLocal {
		targetName := strings.SplitN(inv.TargetMethod, "(", 2)[0]

		target, ok := c.MethodByName(targetName)
		if !ok {
			report = append(report, fmt.Sprintf("%s failed to resolve target method %s", c.Name, inv.TargetMethod))
			continue
		}

		src, ok := c.MethodByID(inv.SrcMethodID)
		if !ok {
			report = append(report, fmt.Sprintf("%s failed to resolve source method id %d", c.Name, inv.SrcMethodID))
			continue
		}

		srcBlock, ok := src.BlockByID(inv.SrcBlockID)
		if !ok {
			report = append(report, fmt.Sprintf("%s failed to recover source block %d", c.Name, inv.SrcBlockID))
			continue
		}

		targetEntry := target.EntryBlock()
		srcBlock.AddChild(targetEntry.ID)
		targetEntry.AddParent(srcBlock.ID)

		src.AddCallOut(target.ID)
		target.AddCallIn(src.ID)

		if target.ReturnType != "V" {
			targetLast := target.LastBlock()
			targetLast.AddChild(srcBlock.ID)
			srcBlock.AddParent(targetLast.ID)

			src.AddCallIn(target.ID)
			target.AddCallOut(src.ID)
		}
	}

	return report
}

// ResolveGlobalInvocations resolves same-application cross-class
// invocations once every file in the program's (possibly still-growing)
// queue has been parsed into a class. Call once, after the file queue has
// fully drained.
//
// The baseline method-level edge direction here is reversed relative to
// ResolveClassInvocations (the source method records an inbound edge, the
// target an outbound one); a non-void return then adds the edge in the
// other direction on top, so both directions exist simultaneously for any
// invocation whose target returns a value.
func ResolveGlobalInvocations(p *ir.Program) []string {
	var report []string

	for _, c := range p.Classes {
		for _, inv := range c.InvocationsGlobal {
			srcMethod, ok := c.MethodByID(inv.SrcMethodID)
			if !ok {
				report = append(report, fmt.Sprintf("%s failed to resolve source method %s -> %s", c.Name, inv.TargetClass, inv.TargetMethod))
				continue
			}

			cleanTarget := strings.TrimSuffix(lastSegment(inv.TargetClass, "/"), ";")
			targetClass, ok := p.ClassByName(cleanTarget)
			if !ok {
				report = append(report, fmt.Sprintf("%s failed to resolve target class %s -> %s", c.Name, inv.TargetClass, inv.TargetMethod))
				continue
			}

			srcBlock, ok := srcMethod.BlockByID(inv.SrcBlockID)
			if !ok {
				report = append(report, fmt.Sprintf("%s failed to resolve source block %s -> %s", c.Name, inv.TargetClass, inv.TargetMethod))
				continue
			}

			cleanTargetMethod := strings.SplitN(inv.TargetMethod, "(", 2)[0]
			targetMethod, ok := targetClass.MethodByName(cleanTargetMethod)
			if !ok {
				report = append(report, fmt.Sprintf("%s failed to resolve target method %s -> %s", c.Name, inv.TargetClass, inv.TargetMethod))
				continue
			}

			targetEntry := targetMethod.EntryBlock()
			srcBlock.AddChild(targetEntry.ID)
			targetEntry.AddParent(srcBlock.ID)

			srcMethod.AddCallIn(targetMethod.ID)
			targetMethod.AddCallOut(srcMethod.ID)

			if targetMethod.ReturnType != "V" {
				targetLast := targetMethod.LastBlock()
				targetLast.AddChild(srcBlock.ID)
				srcBlock.AddParent(targetLast.ID)

				srcMethod.AddCallOut(targetMethod.ID)
				targetMethod.AddCallIn(srcMethod.ID)
			}
		}
	}

	return report
}

// ResolveLibraryInvocations resolves calls out to the Android platform and
// other off-application libraries. Since no source for these exists, a
// placeholder class/method is synthesized on first reference (one shared
// per distinct target class across the whole program) with a single dummy
// basic block and instruction standing in for its unknown body; it is
// wired like a resolved intra-class invocation — block-level edges, a
// method-level pair with the caller recording the call-out and the stub
// the call-in (the opposite baseline direction to
// ResolveGlobalInvocations), and the non-void-return back-edge plus its
// reciprocal method-level pair.
func ResolveLibraryInvocations(p *ir.Program) []string {
	var report []string
	generated := map[string]*ir.Class{}

	for _, c := range p.Classes {
		for _, inv := range c.InvocationsLib {
			targetClass, ok := generated[inv.TargetClass]
			if !ok {
				targetClass = p.NewClass(fmt.Sprintf(".class public final %s;", inv.TargetClass))
				generated[inv.TargetClass] = targetClass
			}

			name, params, ret := ir.ParseMethodDirective(fmt.Sprintf(".method T T %s", inv.TargetMethod))

			var targetMethod *ir.Method
			for _, m := range targetClass.Methods {
				if m.Name == name && ir.SameParams(m.ParamTypes, params) && m.ReturnType == ret {
					targetMethod = m
					break
				}
			}
			if targetMethod == nil {
				targetMethod = p.NewMethod(fmt.Sprintf(".method T T %s", inv.TargetMethod))
				targetClass.AddMethod(targetMethod)

				blockID := p.NextBlockID()
				dummy := p.NewInstruction(
					fmt.Sprintf("%s -> %s", inv.TargetClass, inv.TargetMethod),
					lexicon.KindDummy, 0, targetMethod.ID, targetClass.ID, blockID,
				)
				targetMethod.AddBasicBlock(&ir.BasicBlock{ID: blockID, Instructions: []*ir.Instruction{dummy}})
			}

			srcMethod, ok := c.MethodByID(inv.SrcMethodID)
			if !ok {
				report = append(report, fmt.Sprintf("%s failed to resolve source method %d", c.Name, inv.SrcMethodID))
				continue
			}
			srcBlock, ok := srcMethod.BlockByID(inv.SrcBlockID)
			if !ok {
				report = append(report, fmt.Sprintf("%s failed to resolve source block %s -> %s", c.Name, inv.TargetClass, inv.TargetMethod))
				continue
			}

			targetEntry := targetMethod.EntryBlock()
			srcBlock.AddChild(targetEntry.ID)
			targetEntry.AddParent(srcBlock.ID)

			srcMethod.AddCallOut(targetMethod.ID)
			targetMethod.AddCallIn(srcMethod.ID)

			if targetMethod.ReturnType != "V" {
				targetLast := targetMethod.LastBlock()
				targetLast.AddChild(srcBlock.ID)
				srcBlock.AddParent(targetLast.ID)

				srcMethod.AddCallIn(targetMethod.ID)
				targetMethod.AddCallOut(srcMethod.ID)
			}
		}
	}

	for _, gc := range generated {
		p.AddClass(gc)
	}

	return report
}

func lastSegment(s, sep string) string {
	parts := strings.Split(s, sep)
	return parts[len(parts)-1]
}
