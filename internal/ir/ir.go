// Package ir defines the typed, hierarchical intermediate representation
// that the parser builds and the resolvers wire into a graph: Program owns
// Classes, a Class owns Methods, a Method owns BasicBlocks, a BasicBlock
// owns Instructions. Cross-entity references between siblings (block
// parent/child, method call edges, invocation targets) are always by id,
// never by pointer, so the graph can be cyclic without creating ownership
// cycles.
package ir

import (
	"strings"

	"androcfg/internal/lexicon"
)

// Instruction is immutable once appended to a BasicBlock.
type Instruction struct {
	ID       int
	Text     string
	Kind     lexicon.Kind
	LineNum  int
	MethodID int
	ClassID  int
	BlockID  int
}

// BasicBlock is a maximal linear instruction sequence. Instructions[0] is
// the leader; only the last instruction may be a terminator.
type BasicBlock struct {
	ID              int
	Instructions    []*Instruction
	ParentBlockIDs  []int
	ChildBlockIDs   []int
	UnresolvedCalls []int // line numbers of calls not yet resolved
}

func newBasicBlock(id int, leader *Instruction) *BasicBlock {
	return &BasicBlock{ID: id, Instructions: []*Instruction{leader}}
}

func (b *BasicBlock) AddInstruction(i *Instruction) { b.Instructions = append(b.Instructions, i) }
func (b *BasicBlock) AddParent(id int)              { b.ParentBlockIDs = append(b.ParentBlockIDs, id) }
func (b *BasicBlock) AddChild(id int)               { b.ChildBlockIDs = append(b.ChildBlockIDs, id) }
func (b *BasicBlock) AddUnresolved(lineNum int)     { b.UnresolvedCalls = append(b.UnresolvedCalls, lineNum) }

// Leader returns the block's leading instruction.
func (b *BasicBlock) Leader() *Instruction { return b.Instructions[0] }

// Degree is the combined parent+child count, the "degree" term the feature
// projector expects for a CFG node.
func (b *BasicBlock) Degree() int { return len(b.ParentBlockIDs) + len(b.ChildBlockIDs) }

// LabelCall records a goto/if whose target label is resolved against the
// owning method's blocks once the method has been fully parsed.
type LabelCall struct {
	Label         string
	CallerBlockID int
}

// Method stores the blocks belonging to one `.method` directive plus the
// call-graph edges and label-resolution bookkeeping that accumulate while
// its body is parsed.
type Method struct {
	ID         int
	Name       string
	ParamTypes []string
	ReturnType string

	Blocks []*BasicBlock

	CallsOut []int
	CallsIn  []int

	Annotation []string

	LabelCalls []LabelCall

	// PreviousLabel and LabelAliases support switch-table expansion: the
	// label preceding a packed-switch/sparse-switch data directive maps
	// to every label line encountered while the switch region is open.
	PreviousLabel string
	LabelAliases  map[string][]string
}

func newMethod(id int, directive string) *Method {
	name, params, ret := ParseMethodDirective(directive)
	return &Method{
		ID:           id,
		Name:         name,
		ParamTypes:   params,
		ReturnType:   ret,
		LabelAliases: map[string][]string{},
	}
}

func (m *Method) AddBasicBlock(b *BasicBlock) { m.Blocks = append(m.Blocks, b) }
func (m *Method) AddCallOut(targetID int)     { m.CallsOut = append(m.CallsOut, targetID) }
func (m *Method) AddCallIn(sourceID int)      { m.CallsIn = append(m.CallsIn, sourceID) }
func (m *Method) AddAnnotation(line string)   { m.Annotation = append(m.Annotation, line) }

// AddLabelCall records a goto/if target (instr is the full instruction
// text, e.g. "goto :cond_1"); the label name is its last whitespace field.
func (m *Method) AddLabelCall(instr string, callerBlockID int) {
	fields := strings.Fields(instr)
	label := fields[len(fields)-1]
	m.LabelCalls = append(m.LabelCalls, LabelCall{Label: label, CallerBlockID: callerBlockID})
}

// EntryBlock and LastBlock are the method's first and last basic blocks;
// both must exist once a method has been fully parsed.
func (m *Method) EntryBlock() *BasicBlock { return m.Blocks[0] }
func (m *Method) LastBlock() *BasicBlock  { return m.Blocks[len(m.Blocks)-1] }

// Class holds one `.class` file's declarations, including the three
// invocation lists populated during parsing and consumed by the resolvers.
type Class struct {
	ID   int
	Name string
	Path string

	Super  string
	Source string

	Annotations []string
	Fields      []string

	Methods []*Method

	InvocationsLocal  []LocalInvocation
	InvocationsGlobal []CrossInvocation
	InvocationsLib    []CrossInvocation
}

// LocalInvocation is an invoke-direct call whose target is this same
// class. TargetMethod holds the full `name(params)return` signature;
// resolution matches on the bare name before the parenthesis.
type LocalInvocation struct {
	SrcMethodID  int
	SrcBlockID   int
	TargetMethod string
}

// CrossInvocation is a call whose target is another class, either inside
// the application (Global) or outside it (Lib).
type CrossInvocation struct {
	SrcMethodID  int
	SrcBlockID   int
	TargetClass  string
	TargetMethod string
}

func newClass(id int, header string) *Class {
	name, path := ParseClassHeader(header)
	return &Class{ID: id, Name: name, Path: path}
}

func (c *Class) AddAnnotation(line string) { c.Annotations = append(c.Annotations, line) }
func (c *Class) AddField(line string)      { c.Fields = append(c.Fields, line) }
func (c *Class) AddMethod(m *Method)       { c.Methods = append(c.Methods, m) }

// FullPath is the `path/name` form invocation targets are compared against.
func (c *Class) FullPath() string { return c.Path + "/" + c.Name }

func (c *Class) AddSuper(instr string) {
	f := strings.Fields(instr)
	c.Super = strings.ReplaceAll(f[len(f)-1], ";", "")
}

func (c *Class) AddSource(instr string) {
	f := strings.Fields(instr)
	c.Source = strings.ReplaceAll(f[len(f)-1], "\"", "")
}

func (c *Class) MethodByName(name string) (*Method, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

func (c *Class) MethodByID(id int) (*Method, bool) {
	for _, m := range c.Methods {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

func (b *BasicBlock) byID(id int) bool { return b.ID == id }

func (m *Method) BlockByID(id int) (*BasicBlock, bool) {
	for _, b := range m.Blocks {
		if b.byID(id) {
			return b, true
		}
	}
	return nil, false
}

// Program is the single mutable graph state a driver assembles by streaming
// files through a parser; ids are allocated here so every entity created
// anywhere in the run has a globally unique, contiguous-per-kind id.
type Program struct {
	Classes []*Class

	// FileQueue may grow while it is being drained: cross-class
	// invocations append newly discovered class files.
	FileQueue    []string
	queuedFiles  map[string]bool
	Manifest     ManifestInfo

	nextClassID int
	nextMethodID int
	nextBlockID  int
	nextInstrID  int
}

// ManifestInfo is the read-only reporting data lifted from the application
// manifest; it never influences graph construction.
type ManifestInfo struct {
	Permissions []string
}

// NewProgram seeds the file queue with the manifest's entry-point files.
func NewProgram(entryFiles []string) *Program {
	p := &Program{queuedFiles: map[string]bool{}}
	for _, f := range entryFiles {
		p.EnqueueFile(f)
	}
	return p
}

// EnqueueFile appends a file to the queue if it has not been seen before,
// reporting whether it was newly added.
func (p *Program) EnqueueFile(path string) bool {
	if p.queuedFiles[path] {
		return false
	}
	p.queuedFiles[path] = true
	p.FileQueue = append(p.FileQueue, path)
	return true
}

func (p *Program) AddClass(c *Class) { p.Classes = append(p.Classes, c) }

func (p *Program) NewClass(header string) *Class {
	c := newClass(p.nextClassID, header)
	p.nextClassID++
	return c
}

func (p *Program) NewMethod(directive string) *Method {
	m := newMethod(p.nextMethodID, directive)
	p.nextMethodID++
	return m
}

func (p *Program) NewBlock(leader *Instruction) *BasicBlock {
	b := newBasicBlock(p.nextBlockID, leader)
	p.nextBlockID++
	return b
}

// NextBlockID reserves and returns the next block id without constructing a
// block; used when an instruction must record the block id it will belong
// to before that block exists yet.
func (p *Program) NextBlockID() int {
	id := p.nextBlockID
	p.nextBlockID++
	return id
}

func (p *Program) NewInstruction(text string, kind lexicon.Kind, lineNum, methodID, classID, blockID int) *Instruction {
	i := &Instruction{
		ID: p.nextInstrID, Text: text, Kind: kind, LineNum: lineNum,
		MethodID: methodID, ClassID: classID, BlockID: blockID,
	}
	p.nextInstrID++
	return i
}

// TotalInstructions is the running instruction count, used by the feature
// projector as "num_total_instr".
func (p *Program) TotalInstructions() int { return p.nextInstrID }

func (p *Program) ClassByName(name string) (*Class, bool) {
	for _, c := range p.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

func (p *Program) ClassByFullPath(path string) (*Class, bool) {
	for _, c := range p.Classes {
		if c.FullPath() == path {
			return c, true
		}
	}
	return nil, false
}

