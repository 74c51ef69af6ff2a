// Package parser implements the single-pass, stateful line parser that
// turns a stream of disassembled Dalvik assembly lines into the ir.Program
// graph: it owns the block-boundary discipline, the region flags that
// suspend normal instruction semantics (annotation/field/switch/method),
// and the per-line dispatch that the intra-class and interprocedural
// resolvers build on afterwards.
//
// The shape mirrors a classic fetch/decode/execute cycle: Step reads one
// line, Classify "fetches" its Kind, and the per-Kind dispatch method
// mutates the shared *ir.Program in place, exactly the way a CPU's tick
// reads one opcode byte, decodes its addressing mode, and lets the
// opcode's handler mutate CPU registers in place.
package parser

import (
	"strings"

	"androcfg/internal/ir"
	"androcfg/internal/lexicon"
)

// Parser holds the transient per-file parsing state that rides alongside a
// shared ir.Program: region flags and the "previous instruction terminated
// the block" flag are not part of the persistent graph, so they live here
// rather than on ir.Program.
type Parser struct {
	Program *ir.Program

	activeClass  *ir.Class
	activeMethod *ir.Method
	activeBlock  *ir.BasicBlock

	inAnnotation bool
	inField      bool
	inSwitch     bool
	inMethod     bool

	// pendingTerminator records whether the previous instruction closed
	// the active block; the next instruction then starts a new one.
	pendingTerminator bool

	lineNum int
	onWarn  func(format string, args ...any)
}

// New creates a Parser bound to the given Program. onWarn receives
// malformed-line and other recoverable diagnostics; pass nil to discard
// them.
func New(p *ir.Program, onWarn func(string, ...any)) *Parser {
	if onWarn == nil {
		onWarn = func(string, ...any) {}
	}
	return &Parser{Program: p, pendingTerminator: true, onWarn: onWarn}
}

// ParseFile resets per-file region state and feeds each line through Step.
// It must be called once per file drained from the Program's file queue.
func (p *Parser) ParseFile(contents string) {
	p.inAnnotation, p.inField, p.inSwitch, p.inMethod = false, false, false, false
	p.activeClass, p.activeMethod, p.activeBlock = nil, nil, nil
	p.pendingTerminator = true

	for i, raw := range strings.Split(contents, "\n") {
		p.lineNum = i + 1
		p.Step(raw)
	}
	p.finishFile()
}

// finishFile flushes whatever class/method/block is still active at EOF
// and runs the intra-class resolution step's prerequisite bookkeeping
// (the resolver itself runs in package resolve, once per finished class).
func (p *Parser) finishFile() {
	if p.activeMethod == nil || p.activeClass == nil {
		return
	}
	if p.activeBlock != nil {
		p.activeMethod.AddBasicBlock(p.activeBlock)
		p.activeBlock = nil
	}
	p.activeClass.AddMethod(p.activeMethod)
	p.activeMethod = nil
	p.Program.AddClass(p.activeClass)
	p.activeClass = nil
}

// LastClass returns the class most recently added to the Program, or nil
// if there is none, so a driver can run per-class resolution right after
// ParseFile returns. A file that adds no class (one with no method) leaves
// an earlier file's class as the last one.
func (p *Parser) LastClass() *ir.Class {
	if len(p.Program.Classes) == 0 {
		return nil
	}
	return p.Program.Classes[len(p.Program.Classes)-1]
}

// Step processes a single raw line: blank lines are ignored, inline `#`
// comments are truncated, and the line is classified and dispatched
// according to region-flag precedence (§4.3.1).
func (p *Parser) Step(raw string) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return
	}
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	if line == "" {
		return
	}

	kind := lexicon.Classify(line)

	switch kind {
	case lexicon.KindAnnotationStart:
		p.inAnnotation = true
		p.dispatch(line, kind)
		return
	case lexicon.KindAnnotationEnd:
		p.dispatch(line, kind)
		p.inAnnotation = false
		return
	case lexicon.KindFieldStart:
		p.inField = true
		p.dispatch(line, kind)
		return
	case lexicon.KindFieldEnd:
		p.dispatch(line, kind)
		p.inField = false
		return
	case lexicon.KindPSwitchStart, lexicon.KindSSwitchStart:
		p.inSwitch = true
		p.inField = false
		p.dispatch(line, kind)
		return
	case lexicon.KindPSwitchEnd, lexicon.KindSSwitchEnd:
		p.dispatch(line, kind)
		p.inSwitch = false
		return
	case lexicon.KindMethodStart:
		p.inMethod = true
		p.inField = false
		p.dispatch(line, kind)
		return
	case lexicon.KindMethodEnd:
		p.dispatch(line, kind)
		p.inMethod = false
		return
	}

	p.dispatch(line, kind)
}

// dispatch applies region-flag precedence to a line whose kind has already
// been classified (and whose region-toggling side effect, if any, has
// already been applied by Step).
func (p *Parser) dispatch(line string, kind lexicon.Kind) {
	switch {
	case p.inAnnotation:
		p.annotationLine(line)
	case p.inField:
		p.activeClass.AddField(line)
	case p.inSwitch:
		p.switchLine(line, kind)
	case p.inMethod:
		p.methodLine(line, kind)
	default:
		p.topLevelLine(line, kind)
	}
}

func (p *Parser) annotationLine(line string) {
	switch {
	case p.inMethod && p.activeMethod != nil:
		p.activeMethod.AddAnnotation(line)
	case p.inField && p.activeClass != nil:
		p.activeClass.AddField(line)
	case p.activeClass != nil:
		p.activeClass.AddAnnotation(line)
	}
}

func (p *Parser) topLevelLine(line string, kind lexicon.Kind) {
	switch kind {
	case lexicon.KindClass:
		p.activeClass = p.Program.NewClass(line)
	case lexicon.KindSuper:
		if p.activeClass != nil {
			p.activeClass.AddSuper(line)
		}
	case lexicon.KindSource:
		if p.activeClass != nil {
			p.activeClass.AddSource(line)
		}
	case lexicon.KindComment:
		// ignored
	default:
		p.onWarn("unhandled instruction outside of context: %d: %s", p.lineNum, line)
	}
}
