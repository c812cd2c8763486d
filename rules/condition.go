package rules

import "math"

// Flag is the optional prefix of a condition, such as "R:" for ResetIf.
type Flag byte

const (
	FlagNone      Flag = 0
	FlagPauseIf   Flag = 'P'
	FlagResetIf   Flag = 'R'
	FlagAddSource Flag = 'A'
	FlagSubSource Flag = 'B'
	FlagAddHits   Flag = 'C'
	FlagSubHits   Flag = 'D'
	FlagAndNext   Flag = 'N'
	FlagOrNext    Flag = 'O'
	FlagTrigger   Flag = 'T'
	FlagMeasured  Flag = 'M'
)

// isModifier reports whether the flag feeds into the next condition instead
// of standing on its own.
func (f Flag) isModifier() bool {
	switch f {
	case FlagAddSource, FlagSubSource, FlagAddHits, FlagSubHits, FlagAndNext, FlagOrNext:
		return true
	}
	return false
}

// Operator is a comparison or, on AddSource/SubSource, an arithmetic operator.
type Operator uint8

const (
	OpNone Operator = iota
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpMul
	OpDiv
	OpAnd
	OpXor
	OpMod
	OpAdd
	OpSub
)

func (op Operator) isComparison() bool {
	return op >= OpEq && op <= OpGe
}

type operandType uint8

const (
	operandConst operandType = iota
	operandValue
	operandDelta
	operandPrior
	operandBCD
	operandInvert
)

type operand struct {
	typ   operandType
	value uint32
	ref   *memref
}

func (o *operand) evaluate() uint32 {
	switch o.typ {
	case operandValue:
		return o.ref.value
	case operandDelta:
		return o.ref.delta
	case operandPrior:
		return o.ref.prior
	case operandBCD:
		return fromBCD(o.ref.value)
	case operandInvert:
		return ^o.ref.value & o.ref.size.mask()
	}
	return o.value
}

func fromBCD(v uint32) uint32 {
	var result, scale uint32 = 0, 1
	for i := 0; i < 8; i++ {
		result += (v & 0x0F) * scale
		v >>= 4
		scale *= 10
	}
	return result
}

type condition struct {
	flag     Flag
	left     operand
	op       Operator
	right    operand
	required uint32 // hit target, 0 for none
	hits     uint32
}

// value is the arithmetic result fed forward by AddSource and SubSource.
func (c *condition) value() uint32 {
	l := c.left.evaluate()
	if c.op == OpNone {
		return l
	}
	r := c.right.evaluate()
	switch c.op {
	case OpMul:
		return l * r
	case OpDiv:
		if r == 0 {
			return 0
		}
		return l / r
	case OpAnd:
		return l & r
	case OpXor:
		return l ^ r
	case OpMod:
		if r == 0 {
			return 0
		}
		return l % r
	case OpAdd:
		return l + r
	case OpSub:
		return l - r
	}
	return l
}

// compare evaluates the comparison with add folded into the left side.
func (c *condition) compare(add uint32) bool {
	l := c.left.evaluate() + add
	r := c.right.evaluate()
	switch c.op {
	case OpEq:
		return l == r
	case OpNe:
		return l != r
	case OpLt:
		return l < r
	case OpLe:
		return l <= r
	case OpGt:
		return l > r
	case OpGe:
		return l >= r
	}
	return false
}

// hit records a true evaluation, stopping at the target.
func (c *condition) hit() {
	if c.required > 0 {
		if c.hits < c.required {
			c.hits++
		}
	} else if c.hits < math.MaxUint32 {
		c.hits++
	}
}

// chain is a run of modifier conditions ending in the condition they feed.
type chain struct {
	start, end int
}

type condset struct {
	conds  []condition
	chains []chain
	paused bool
}

// evalChain evaluates one chain and returns whether its final condition
// holds, plus the value a Measured condition reports.
func (cs *condset) evalChain(ch chain) (bool, uint32) {
	var add uint32
	var hitsAcc int64
	pending, pendingOr, havePending := false, false, false

	for i := ch.start; i <= ch.end; i++ {
		c := &cs.conds[i]
		switch c.flag {
		case FlagAddSource:
			add += c.value()
			continue
		case FlagSubSource:
			add -= c.value()
			continue
		}

		left := c.left.evaluate() + add
		ok := c.compare(add)
		add = 0
		if havePending {
			if pendingOr {
				ok = ok || pending
			} else {
				ok = ok && pending
			}
			havePending = false
		}

		switch c.flag {
		case FlagAndNext, FlagOrNext:
			pending, pendingOr, havePending = ok, c.flag == FlagOrNext, true
			continue
		case FlagAddHits, FlagSubHits:
			if ok {
				c.hit()
			}
			if c.flag == FlagAddHits {
				hitsAcc += int64(c.hits)
			} else {
				hitsAcc -= int64(c.hits)
			}
			continue
		}

		if ok {
			c.hit()
		}
		if c.required == 0 {
			return ok, left
		}
		total := int64(c.hits) + hitsAcc
		if total < 0 {
			total = 0
		}
		return total >= int64(c.required), uint32(min(total, math.MaxUint32))
	}
	return false, 0
}

// evalState collects trigger-wide results while condsets are evaluated.
type evalState struct {
	reset       bool
	measured    uint32
	hasMeasured bool
}

// evaluate runs the condset for one frame. primed is the result with
// Trigger conditions ignored.
func (cs *condset) evaluate(st *evalState) (result, primed, paused bool) {
	for _, ch := range cs.chains {
		if cs.conds[ch.end].flag != FlagPauseIf {
			continue
		}
		if ok, _ := cs.evalChain(ch); ok {
			paused = true
			break
		}
	}
	cs.paused = paused
	if paused {
		return false, false, true
	}

	result, primed = true, true
	for _, ch := range cs.chains {
		flag := cs.conds[ch.end].flag
		if flag == FlagPauseIf {
			continue
		}
		ok, measured := cs.evalChain(ch)
		switch flag {
		case FlagResetIf:
			if ok {
				st.reset = true
			}
		case FlagTrigger:
			result = result && ok
		case FlagMeasured:
			if !st.hasMeasured {
				st.measured, st.hasMeasured = measured, true
			}
			result = result && ok
			primed = primed && ok
		default:
			result = result && ok
			primed = primed && ok
		}
	}
	return result, primed, false
}

func (cs *condset) resetHits() {
	for i := range cs.conds {
		cs.conds[i].hits = 0
	}
}

func (cs *condset) hasHits() bool {
	for i := range cs.conds {
		if cs.conds[i].hits > 0 {
			return true
		}
	}
	return false
}
