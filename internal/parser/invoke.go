package parser

import (
	"regexp"
	"strings"

	"androcfg/internal/ir"
)

// invokeClassPattern isolates the target class token of an invoke
// instruction, e.g. " Lcom/example/Foo;->bar(I)V" -> "Lcom/example/Foo;->".
// Trim and strip ";->" to recover the bare class descriptor.
var invokeClassPattern = regexp.MustCompile(`\sL\w+(/\w+)+(\S)*;->`)

// classifyInvoke extracts the target class descriptor (Lpath/Name; form)
// and the target method signature (name(params)return) from an invoke
// instruction line.
func classifyInvoke(line string) (targetClass, targetMethod string, ok bool) {
	m := invokeClassPattern.FindString(line)
	if m == "" {
		return "", "", false
	}
	targetClass = strings.TrimSuffix(strings.TrimSpace(m), ";->")
	parts := strings.SplitN(line, "->", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	targetMethod = strings.TrimSpace(parts[1])
	return targetClass, targetMethod, true
}

// addInvocation classifies an invoke instruction against the owning
// class's own path/name and appends it to the matching invocation list,
// enqueuing the target's source file when it is a same-application
// (cross-class) call. Mirrors SmaliClass.add_invocation's local /
// cross-app / library partition exactly, including the invoke-direct-only
// restriction on local resolution.
func (p *Parser) addInvocation(line string, methodID, blockID int) {
	targetClass, targetMethod, ok := classifyInvoke(line)
	if !ok {
		p.onWarn("could not classify invocation target: %s", line)
		return
	}

	pathSegments := strings.Split(p.activeClass.Path, "/")
	appTopLevel := ""
	if len(pathSegments) > 1 {
		appTopLevel = pathSegments[1]
	}

	switch {
	case targetClass == p.activeClass.FullPath():
		if strings.Contains(line, "invoke-direct") {
			p.activeClass.InvocationsLocal = append(p.activeClass.InvocationsLocal, ir.LocalInvocation{
				SrcMethodID: methodID, SrcBlockID: blockID, TargetMethod: targetMethod,
			})
		}
	case strings.Contains(targetClass, "Lcom") && appTopLevel != "" && strings.Contains(targetClass, appTopLevel):
		p.activeClass.InvocationsGlobal = append(p.activeClass.InvocationsGlobal, ir.CrossInvocation{
			SrcMethodID: methodID, SrcBlockID: blockID, TargetClass: targetClass, TargetMethod: targetMethod,
		})
		file := "smali/" + strings.TrimPrefix(targetClass, "L") + ".smali"
		p.Program.EnqueueFile(file)
	default:
		p.activeClass.InvocationsLib = append(p.activeClass.InvocationsLib, ir.CrossInvocation{
			SrcMethodID: methodID, SrcBlockID: blockID, TargetClass: targetClass, TargetMethod: targetMethod,
		})
	}
}
