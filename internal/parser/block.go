package parser

import (
	"androcfg/internal/ir"
	"androcfg/internal/lexicon"
)

// startBlock closes whatever block is currently active (if any), wiring a
// parent/child edge from it to the block about to start, then opens a new
// block led by a fresh instruction built from (text, kind). It returns
// that leader instruction so the caller can do kind-specific bookkeeping
// (e.g. recording a label call) against it.
//
// Unlike the Python original, the leader instruction's BlockID is always
// the id of the block it actually leads — the id is reserved before the
// instruction is built, so there is no window where the two disagree.
func (p *Parser) startBlock(text string, kind lexicon.Kind) *ir.Instruction {
	newID := p.Program.NextBlockID()

	if p.activeBlock != nil {
		p.activeBlock.AddChild(newID)
		parentID := p.activeBlock.ID
		p.activeMethod.AddBasicBlock(p.activeBlock)

		leader := p.newInstruction(text, kind, newID)
		block := &ir.BasicBlock{ID: newID, Instructions: []*ir.Instruction{leader}}
		block.AddParent(parentID)
		p.activeBlock = block
		return leader
	}

	leader := p.newInstruction(text, kind, newID)
	p.activeBlock = &ir.BasicBlock{ID: newID, Instructions: []*ir.Instruction{leader}}
	return leader
}

// appendOrStart appends (text, kind) to the active block, unless the
// previous instruction already terminated it — in which case this
// instruction becomes the leader of a new block instead. It returns the
// instruction either way.
func (p *Parser) appendOrStart(text string, kind lexicon.Kind) *ir.Instruction {
	if p.pendingTerminator {
		return p.startBlock(text, kind)
	}
	i := p.newInstruction(text, kind, p.activeBlock.ID)
	p.activeBlock.AddInstruction(i)
	return i
}

func (p *Parser) newInstruction(text string, kind lexicon.Kind, blockID int) *ir.Instruction {
	methodID := -1
	if p.activeMethod != nil {
		methodID = p.activeMethod.ID
	}
	classID := -1
	if p.activeClass != nil {
		classID = p.activeClass.ID
	}
	return p.Program.NewInstruction(text, kind, p.lineNum, methodID, classID, blockID)
}
