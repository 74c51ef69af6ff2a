// Package lexicon classifies a trimmed line of disassembled Dalvik
// assembly into a closed enumeration of instruction kinds.
//
// Matching is by prefix-anchored pattern, longest/most-specific first
// (method_end before method_start, the various *_end directives before
// their *_start counterparts where prefixes would otherwise collide).
package lexicon

import "regexp"

// Kind names one member of the closed set of recognized instruction and
// directive forms. Lines that match nothing become KindOther.
type Kind int

const (
	KindOther Kind = iota

	// Dalvik bytecode.
	KindNop
	KindMove
	KindReturn
	KindConst
	KindMonitor
	KindCheckCast
	KindInstanceOf
	KindArrayLength
	KindNewInstance
	KindNewArray
	KindFilledNewArray
	KindFillArrayData
	KindThrow
	KindGoto
	KindPackedSwitch
	KindSparseSwitch
	KindCmp
	KindIf
	KindAGet
	KindAPut
	KindIGet
	KindIPut
	KindSGet
	KindSPut
	KindInvoke
	KindNeg
	KindNot
	KindIntTo
	KindLongTo
	KindFloatTo
	KindDoubleTo
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindRem
	KindAnd
	KindOr
	KindXor
	KindShl
	KindShr
	KindUshr
	KindRsub

	// Directives.
	KindClass
	KindSuper
	KindSource
	KindMethodStart
	KindMethodEnd
	KindFieldStart
	KindFieldEnd
	KindLabel
	KindComment
	KindLine
	KindLocal
	KindParam
	KindAnnotationStart
	KindAnnotationEnd
	KindPSwitchStart
	KindPSwitchEnd
	KindSSwitchStart
	KindSSwitchEnd

	// KindDummy marks the single placeholder instruction synthesized
	// inside a library stub method; it never comes from classify.
	KindDummy
)

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "other"
}

var names = map[Kind]string{
	KindOther: "other", KindNop: "nop", KindMove: "move", KindReturn: "return",
	KindConst: "const", KindMonitor: "monitor", KindCheckCast: "check-cast",
	KindInstanceOf: "instance-of", KindArrayLength: "array-length",
	KindNewInstance: "new-instance", KindNewArray: "new-array",
	KindFilledNewArray: "filled-new-array", KindFillArrayData: "fill-array-data",
	KindThrow: "throw", KindGoto: "goto", KindPackedSwitch: "packed-switch",
	KindSparseSwitch: "sparse-switch", KindCmp: "cmp", KindIf: "if",
	KindAGet: "aget", KindAPut: "aput", KindIGet: "iget", KindIPut: "iput",
	KindSGet: "sget", KindSPut: "sput", KindInvoke: "invoke", KindNeg: "neg",
	KindNot: "not", KindIntTo: "int-to", KindLongTo: "long-to",
	KindFloatTo: "float-to", KindDoubleTo: "double-to", KindAdd: "add",
	KindSub: "sub", KindMul: "mul", KindDiv: "div", KindRem: "rem",
	KindAnd: "and", KindOr: "or", KindXor: "xor", KindShl: "shl",
	KindShr: "shr", KindUshr: "ushr", KindRsub: "rsub",
	KindClass: "class", KindSuper: "super", KindSource: "source",
	KindMethodStart: "method-start", KindMethodEnd: "method-end",
	KindFieldStart: "field-start", KindFieldEnd: "field-end",
	KindLabel: "label", KindComment: "comment", KindLine: "line",
	KindLocal: "local", KindParam: "param",
	KindAnnotationStart: "annotation-start", KindAnnotationEnd: "annotation-end",
	KindPSwitchStart: "pswitch-start", KindPSwitchEnd: "pswitch-end",
	KindSSwitchStart: "sswitch-start", KindSSwitchEnd: "sswitch-end",
	KindDummy: "dummy",
}

// row pairs a compiled pattern with the Kind it marks. Order matters: the
// table is walked top to bottom and the first match wins, so the *_end
// directives and the hyphenated arithmetic/shift mnemonics (which would
// otherwise be swallowed by a shorter unrelated prefix) are listed before
// anything they could be confused with.
type row struct {
	pattern *regexp.Regexp
	kind    Kind
}

var table = buildTable()

func buildTable() []row {
	mustRow := func(pattern string, kind Kind) row {
		return row{regexp.MustCompile(pattern), kind}
	}
	return []row{
		// Directives that must be tried before a shorter sibling prefix.
		mustRow(`^\.end method`, KindMethodEnd),
		mustRow(`^\.end field`, KindFieldEnd),
		mustRow(`^\.end annotation`, KindAnnotationEnd),
		mustRow(`^\.end packed-switch`, KindPSwitchEnd),
		mustRow(`^\.end sparse-switch`, KindSSwitchEnd),
		mustRow(`^\.packed-switch`, KindPSwitchStart),
		mustRow(`^\.sparse-switch`, KindSSwitchStart),
		mustRow(`^\.method`, KindMethodStart),
		mustRow(`^\.field`, KindFieldStart),
		mustRow(`^\.annotation`, KindAnnotationStart),
		mustRow(`^\.class`, KindClass),
		mustRow(`^\.super`, KindSuper),
		mustRow(`^\.source`, KindSource),
		mustRow(`^\.line`, KindLine),
		mustRow(`^\.local`, KindLocal),
		mustRow(`^\.param`, KindParam),
		mustRow(`^:`, KindLabel),
		mustRow(`^#`, KindComment),

		// Bytecode. Hyphen-qualified mnemonics are anchored with the
		// trailing "-" so "add-int" doesn't also match a bare "addr"
		// style prefix some disassemblers emit.
		mustRow(`^nop`, KindNop),
		mustRow(`^move`, KindMove),
		mustRow(`^return`, KindReturn),
		mustRow(`^const`, KindConst),
		mustRow(`^monitor`, KindMonitor),
		mustRow(`^check-cast`, KindCheckCast),
		mustRow(`^instance-of`, KindInstanceOf),
		mustRow(`^array-length`, KindArrayLength),
		mustRow(`^new-instance`, KindNewInstance),
		mustRow(`^new-array`, KindNewArray),
		mustRow(`^filled-new-array`, KindFilledNewArray),
		mustRow(`^fill-array-data`, KindFillArrayData),
		mustRow(`^throw`, KindThrow),
		mustRow(`^goto`, KindGoto),
		mustRow(`^packed-switch`, KindPackedSwitch),
		mustRow(`^sparse-switch`, KindSparseSwitch),
		mustRow(`^cmp`, KindCmp),
		mustRow(`^if-`, KindIf),
		mustRow(`^aget`, KindAGet),
		mustRow(`^aput`, KindAPut),
		mustRow(`^iget`, KindIGet),
		mustRow(`^iput`, KindIPut),
		mustRow(`^sget`, KindSGet),
		mustRow(`^sput`, KindSPut),
		mustRow(`^invoke`, KindInvoke),
		mustRow(`^neg`, KindNeg),
		mustRow(`^not`, KindNot),
		mustRow(`^int-to`, KindIntTo),
		mustRow(`^long-to`, KindLongTo),
		mustRow(`^float-to`, KindFloatTo),
		mustRow(`^double-to`, KindDoubleTo),
		mustRow(`^add-`, KindAdd),
		mustRow(`^sub-`, KindSub),
		mustRow(`^mul-`, KindMul),
		mustRow(`^div-`, KindDiv),
		mustRow(`^rem-`, KindRem),
		mustRow(`^and-`, KindAnd),
		mustRow(`^or-`, KindOr),
		mustRow(`^xor-`, KindXor),
		mustRow(`^shl-`, KindShl),
		mustRow(`^shr-`, KindShr),
		mustRow(`^ushr-`, KindUshr),
		mustRow(`^rsub-`, KindRsub),
	}
}

// Classify maps a trimmed instruction line to its Kind. Lines matching no
// row are KindOther.
func Classify(line string) Kind {
	for _, r := range table {
		if r.pattern.MatchString(line) {
			return r.kind
		}
	}
	return KindOther
}

// IsTerminator reports whether an instruction of Kind k may close a basic
// block. Only the last instruction of a block may be a terminator.
func IsTerminator(k Kind) bool {
	switch k {
	case KindReturn, KindGoto, KindIf, KindInvoke, KindMethodEnd:
		return true
	default:
		return false
	}
}

// IsConstString reports whether a const-kind instruction's literal token is
// the string-literal form (const-string / const-string/jumbo) rather than a
// numeric constant. Used only by the Extended feature layout, which splits
// the single KindConst family into numeric vs. string slots.
func IsConstString(line string) bool {
	return constStringPattern.MatchString(line)
}

var constStringPattern = regexp.MustCompile(`^const-string`)
