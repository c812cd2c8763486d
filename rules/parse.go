package rules

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrEmptyCondition      = errors.New("empty condition")
	ErrInvalidFlag         = errors.New("invalid condition flag")
	ErrUnsupportedFlag     = errors.New("unsupported condition flag")
	ErrInvalidOperand      = errors.New("invalid operand")
	ErrInvalidMemref       = errors.New("invalid memory reference")
	ErrInvalidOperator     = errors.New("invalid operator")
	ErrMissingComparison   = errors.New("condition requires a comparison")
	ErrInvalidHitCount     = errors.New("invalid hit count")
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrDanglingModifier    = errors.New("modifier condition is not followed by a condition")
)

// ParseError reports where in a condition expression parsing failed.
type ParseError struct {
	Pos int
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse condition at offset %d: %v", e.Pos, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Validate reports whether expr is a well-formed condition expression.
func Validate(expr string) error {
	_, err := parse(expr, func(k memrefKey) *memref { return &memref{memrefKey: k} })
	return err
}

type parser struct {
	s      string
	pos    int
	memref func(memrefKey) *memref
}

// parse builds a trigger from expr. Memory references are obtained through
// ref so that conditions reading the same address and size share one.
func parse(expr string, ref func(memrefKey) *memref) (*trigger, error) {
	if expr == "" {
		return nil, &ParseError{Pos: 0, Err: ErrEmptyCondition}
	}
	p := &parser{s: expr, memref: ref}
	t := &trigger{}

	core, err := p.group(true)
	if err != nil {
		return nil, err
	}
	t.core = core

	for !p.done() {
		c := p.peek()
		if c != 'S' && c != 's' {
			return nil, p.fail(ErrUnexpectedCharacter)
		}
		p.pos++
		alt, err := p.group(false)
		if err != nil {
			return nil, err
		}
		t.alts = append(t.alts, alt)
	}

	sets := append([]*condset{t.core}, t.alts...)
	for _, cs := range sets {
		for i := range cs.conds {
			c := &cs.conds[i]
			switch c.flag {
			case FlagTrigger:
				t.hasTrigger = true
			case FlagMeasured:
				if !t.hasMeasured {
					t.hasMeasured = true
					t.measuredTarget = c.required
					if t.measuredTarget == 0 && c.right.typ == operandConst {
						t.measuredTarget = c.right.value
					}
				}
			}
		}
	}
	return t, nil
}

func (p *parser) done() bool { return p.pos >= len(p.s) }

func (p *parser) peek() byte {
	if p.done() {
		return 0
	}
	return p.s[p.pos]
}

func (p *parser) fail(err error) error {
	return &ParseError{Pos: p.pos, Err: err}
}

// group parses conditions up to the next alternate separator or the end of
// input. Only the core group may be empty.
func (p *parser) group(core bool) (*condset, error) {
	cs := &condset{}
	if c := p.peek(); p.done() || c == 'S' || c == 's' {
		if core && !p.done() {
			return cs, nil
		}
		return nil, p.fail(ErrEmptyCondition)
	}

	for {
		cond, err := p.condition()
		if err != nil {
			return nil, err
		}
		cs.conds = append(cs.conds, cond)
		if p.peek() != '_' {
			break
		}
		p.pos++
	}

	start := 0
	for i := range cs.conds {
		if cs.conds[i].flag.isModifier() {
			continue
		}
		cs.chains = append(cs.chains, chain{start: start, end: i})
		start = i + 1
	}
	if start < len(cs.conds) {
		return nil, p.fail(ErrDanglingModifier)
	}
	return cs, nil
}

func (p *parser) condition() (condition, error) {
	var c condition
	if err := p.flag(&c); err != nil {
		return c, err
	}

	left, err := p.operand()
	if err != nil {
		return c, err
	}
	c.left = left

	op := p.operator()
	arith := c.flag == FlagAddSource || c.flag == FlagSubSource
	switch {
	case op == OpNone && arith:
		c.right = operand{typ: operandConst, value: 1}
		return c, nil
	case op == OpNone:
		return c, p.fail(ErrMissingComparison)
	case arith && op.isComparison(), !arith && !op.isComparison():
		return c, p.fail(ErrInvalidOperator)
	}
	c.op = op

	right, err := p.operand()
	if err != nil {
		return c, err
	}
	c.right = right

	if err := p.hits(&c); err != nil {
		return c, err
	}
	return c, nil
}

func (p *parser) flag(c *condition) error {
	if p.pos+1 >= len(p.s) || p.s[p.pos+1] != ':' {
		return nil
	}
	ch := upper(p.s[p.pos])
	if ch < 'A' || ch > 'Z' {
		return p.fail(ErrInvalidFlag)
	}
	f := Flag(ch)
	switch f {
	case FlagPauseIf, FlagResetIf, FlagAddSource, FlagSubSource, FlagAddHits,
		FlagSubHits, FlagAndNext, FlagOrNext, FlagTrigger, FlagMeasured:
		c.flag = f
	case 'I', 'Q', 'Z', 'G', 'K':
		return p.fail(ErrUnsupportedFlag)
	default:
		return p.fail(ErrInvalidFlag)
	}
	p.pos += 2
	return nil
}

func (p *parser) operand() (operand, error) {
	var o operand
	typ := operandValue
	prefixed := true
	switch p.peek() {
	case 'd', 'D':
		typ = operandDelta
	case 'p', 'P':
		typ = operandPrior
	case 'b', 'B':
		typ = operandBCD
	case '~':
		typ = operandInvert
	default:
		prefixed = false
	}
	if prefixed {
		p.pos++
	}

	if p.pos+1 < len(p.s) && p.s[p.pos] == '0' && (p.s[p.pos+1] == 'x' || p.s[p.pos+1] == 'X') {
		p.pos += 2
		ref, err := p.memrefOperand()
		if err != nil {
			return o, err
		}
		o.typ, o.ref = typ, ref
		return o, nil
	}
	if prefixed {
		return o, p.fail(ErrInvalidMemref)
	}

	v, err := p.constant()
	if err != nil {
		return o, err
	}
	o.typ, o.value = operandConst, v
	return o, nil
}

func (p *parser) memrefOperand() (*memref, error) {
	size := Size16Bit
	c := p.peek()
	switch {
	case p.done():
		return nil, p.fail(ErrInvalidMemref)
	case c == ' ':
		p.pos++
	case isHex(c):
	default:
		s, ok := memSizes[upper(c)]
		if !ok {
			return nil, p.fail(ErrInvalidMemref)
		}
		size = s
		p.pos++
	}
	for p.peek() == ' ' {
		p.pos++
	}

	start := p.pos
	for !p.done() && isHex(p.peek()) {
		p.pos++
	}
	if p.pos == start || p.pos-start > 8 {
		return nil, &ParseError{Pos: start, Err: ErrInvalidMemref}
	}
	addr, err := strconv.ParseUint(p.s[start:p.pos], 16, 32)
	if err != nil {
		return nil, &ParseError{Pos: start, Err: ErrInvalidMemref}
	}
	return p.memref(memrefKey{address: uint32(addr), size: size}), nil
}

func (p *parser) constant() (uint32, error) {
	start := p.pos
	switch p.peek() {
	case 'h', 'H':
		p.pos++
		digits := p.pos
		for !p.done() && isHex(p.peek()) {
			p.pos++
		}
		v, err := strconv.ParseUint(p.s[digits:p.pos], 16, 32)
		if err != nil {
			return 0, &ParseError{Pos: start, Err: ErrInvalidOperand}
		}
		return uint32(v), nil
	case 'v', 'V':
		p.pos++
	}

	digits := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	for !p.done() && isDigit(p.peek()) {
		p.pos++
	}
	v, err := strconv.ParseInt(p.s[digits:p.pos], 10, 64)
	if err != nil || v < -1<<31 || v > 1<<32-1 {
		return 0, &ParseError{Pos: start, Err: ErrInvalidOperand}
	}
	return uint32(v), nil
}

var singleOps = map[byte]Operator{
	'=': OpEq, '<': OpLt, '>': OpGt, '*': OpMul, '/': OpDiv,
	'&': OpAnd, '^': OpXor, '%': OpMod, '+': OpAdd, '-': OpSub,
}

func (p *parser) operator() Operator {
	if p.pos+1 < len(p.s) {
		switch p.s[p.pos : p.pos+2] {
		case "==":
			p.pos += 2
			return OpEq
		case "!=":
			p.pos += 2
			return OpNe
		case "<=":
			p.pos += 2
			return OpLe
		case ">=":
			p.pos += 2
			return OpGe
		}
	}
	if op, ok := singleOps[p.peek()]; ok {
		p.pos++
		return op
	}
	return OpNone
}

func (p *parser) hits(c *condition) error {
	var end byte
	switch p.peek() {
	case '(':
		end = ')'
	case '.':
		end = '.'
	default:
		return nil
	}
	p.pos++
	start := p.pos
	for !p.done() && isDigit(p.peek()) {
		p.pos++
	}
	if p.pos == start || p.peek() != end {
		return p.fail(ErrInvalidHitCount)
	}
	n, err := strconv.ParseUint(p.s[start:p.pos], 10, 32)
	if err != nil {
		return &ParseError{Pos: start, Err: ErrInvalidHitCount}
	}
	p.pos++
	c.required = uint32(n)
	return nil
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
