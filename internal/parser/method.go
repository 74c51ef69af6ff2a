package parser

import (
	"androcfg/internal/ir"
	"androcfg/internal/lexicon"
	"androcfg/internal/resolve"
)

// methodLine dispatches a line encountered inside a `.method` body,
// mirroring §4.3.3's per-kind handler list.
func (p *Parser) methodLine(line string, kind lexicon.Kind) {
	switch kind {
	case lexicon.KindMethodStart:
		p.handleMethodStart(line)
	case lexicon.KindMethodEnd:
		p.handleMethodEnd(line)
	case lexicon.KindLabel:
		p.handleLabel(line)
	case lexicon.KindReturn:
		p.handleReturn(line)
	case lexicon.KindGoto:
		p.handleGoto(line)
	case lexicon.KindIf:
		p.handleIf(line)
	case lexicon.KindInvoke:
		p.handleInvoke(line)
	case lexicon.KindLine:
		// .line is a disassembly artifact; discard.
	default:
		p.appendOrStart(line, kind)
	}
}

func (p *Parser) handleMethodStart(line string) {
	if p.activeMethod != nil {
		if p.activeBlock != nil {
			p.activeMethod.AddBasicBlock(p.activeBlock)
			p.activeBlock = nil
		}
		p.activeClass.AddMethod(p.activeMethod)
	}

	p.activeMethod = p.Program.NewMethod(line)

	newID := p.Program.NextBlockID()
	leader := p.newInstruction(line, lexicon.KindMethodStart, newID)
	p.activeBlock = &ir.BasicBlock{ID: newID, Instructions: []*ir.Instruction{leader}}
	p.pendingTerminator = false
}

func (p *Parser) handleMethodEnd(line string) {
	p.appendOrStart(line, lexicon.KindMethodEnd)
	if p.activeBlock != nil {
		p.activeMethod.AddBasicBlock(p.activeBlock)
		p.activeBlock = nil
	}
	p.pendingTerminator = true

	for _, failure := range resolve.ResolveMethodLabels(p.activeMethod) {
		p.onWarn("%s - method: %s", failure, p.activeMethod.Name)
	}
}

func (p *Parser) handleLabel(line string) {
	p.startBlock(line, lexicon.KindLabel)
	p.pendingTerminator = false
}

func (p *Parser) handleReturn(line string) {
	p.appendOrStart(line, lexicon.KindReturn)
	p.pendingTerminator = true
}

func (p *Parser) handleGoto(line string) {
	i := p.appendOrStart(line, lexicon.KindGoto)
	p.activeMethod.AddLabelCall(line, i.BlockID)
	p.pendingTerminator = true
}

func (p *Parser) handleIf(line string) {
	i := p.appendOrStart(line, lexicon.KindIf)
	p.activeMethod.AddLabelCall(line, i.BlockID)
	p.pendingTerminator = true
}

func (p *Parser) handleInvoke(line string) {
	i := p.appendOrStart(line, lexicon.KindInvoke)
	p.addInvocation(line, p.activeMethod.ID, i.BlockID)
	p.pendingTerminator = true
}

// switchLine accumulates label aliases while a packed-switch/sparse-switch
// data region is open (§4.3.4): the label preceding the data directive
// becomes a key whose aliases are every label line the region contains.
func (p *Parser) switchLine(line string, kind lexicon.Kind) {
	switch kind {
	case lexicon.KindPSwitchStart, lexicon.KindSSwitchStart:
		last := p.activeBlock.Instructions[len(p.activeBlock.Instructions)-1].Text
		p.activeMethod.PreviousLabel = last
		p.activeMethod.LabelAliases[last] = nil
		p.activeBlock = nil // not real control flow
		p.pendingTerminator = true
	case lexicon.KindLabel:
		key := p.activeMethod.PreviousLabel
		p.activeMethod.LabelAliases[key] = append(p.activeMethod.LabelAliases[key], line)
	case lexicon.KindPSwitchEnd, lexicon.KindSSwitchEnd:
		// region closed; nothing to do
	default:
		p.onWarn("unexpected instruction in switch statement: %s", line)
	}
}
