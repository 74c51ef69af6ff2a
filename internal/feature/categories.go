package feature

import (
	"androcfg/internal/ir"
	"androcfg/internal/lexicon"
)

type category int

const (
	catOther category = iota
	catConst
	catTransfer
	catCall
	catArithmetic
	catCompare
	catMove
	catTerminate
	catDataDeclaration
)

// categoryOf buckets a Kind into the coarse groups both feature layouts
// histogram over, mirroring create_summary_feature_vector's itype
// membership lists exactly.
func categoryOf(k lexicon.Kind) category {
	switch k {
	case lexicon.KindConst:
		return catConst
	case lexicon.KindFillArrayData, lexicon.KindAGet, lexicon.KindAPut,
		lexicon.KindIGet, lexicon.KindIPut, lexicon.KindSGet, lexicon.KindSPut,
		lexicon.KindInstanceOf:
		return catTransfer
	case lexicon.KindInvoke:
		return catCall
	case lexicon.KindNeg, lexicon.KindNot, lexicon.KindAdd, lexicon.KindSub,
		lexicon.KindMul, lexicon.KindDiv, lexicon.KindRem, lexicon.KindAnd,
		lexicon.KindOr, lexicon.KindXor, lexicon.KindShl, lexicon.KindShr,
		lexicon.KindUshr, lexicon.KindRsub:
		return catArithmetic
	case lexicon.KindPackedSwitch, lexicon.KindSparseSwitch, lexicon.KindCmp, lexicon.KindIf:
		return catCompare
	case lexicon.KindMove:
		return catMove
	case lexicon.KindReturn:
		return catTerminate
	case lexicon.KindNewInstance, lexicon.KindNewArray, lexicon.KindFilledNewArray:
		return catDataDeclaration
	default:
		return catOther
	}
}

func isStringConst(i *ir.Instruction) bool {
	return i.Kind == lexicon.KindConst && lexicon.IsConstString(i.Text)
}
