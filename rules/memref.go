package rules

import "math/bits"

// PeekFunc reads numBytes (1, 2 or 4) bytes at address and returns them as
// a little-endian value. Unreadable memory must read as 0.
type PeekFunc func(address, numBytes uint32) uint32

// MemSize is the width and interpretation of a memory reference.
type MemSize uint8

const (
	Size8Bit MemSize = iota
	Size16Bit
	Size24Bit
	Size32Bit
	SizeBit0
	SizeBit1
	SizeBit2
	SizeBit3
	SizeBit4
	SizeBit5
	SizeBit6
	SizeBit7
	SizeLowNibble
	SizeHighNibble
	SizeBitCount
	Size16BitBE
	Size24BitBE
	Size32BitBE
)

// memSizes maps the size character following "0x" to a MemSize.
var memSizes = map[byte]MemSize{
	'H': Size8Bit,
	' ': Size16Bit,
	'W': Size24Bit,
	'X': Size32Bit,
	'M': SizeBit0,
	'N': SizeBit1,
	'O': SizeBit2,
	'P': SizeBit3,
	'Q': SizeBit4,
	'R': SizeBit5,
	'S': SizeBit6,
	'T': SizeBit7,
	'L': SizeLowNibble,
	'U': SizeHighNibble,
	'K': SizeBitCount,
	'I': Size16BitBE,
	'J': Size24BitBE,
	'G': Size32BitBE,
}

// mask returns the largest value a reference of this size can hold.
func (s MemSize) mask() uint32 {
	switch s {
	case Size8Bit:
		return 0xFF
	case Size16Bit, Size16BitBE:
		return 0xFFFF
	case Size24Bit, Size24BitBE:
		return 0xFFFFFF
	case SizeLowNibble, SizeHighNibble:
		return 0xF
	case SizeBitCount:
		return 8
	case Size32Bit, Size32BitBE:
		return 0xFFFFFFFF
	default:
		return 1
	}
}

// read fetches a value of this size through peek.
func (s MemSize) read(peek PeekFunc, address uint32) uint32 {
	switch s {
	case Size8Bit:
		return peek(address, 1)
	case Size16Bit:
		return peek(address, 2)
	case Size24Bit:
		return peek(address, 2) | peek(address+2, 1)<<16
	case Size32Bit:
		return peek(address, 4)
	case SizeBit0, SizeBit1, SizeBit2, SizeBit3, SizeBit4, SizeBit5, SizeBit6, SizeBit7:
		return (peek(address, 1) >> (s - SizeBit0)) & 1
	case SizeLowNibble:
		return peek(address, 1) & 0x0F
	case SizeHighNibble:
		return (peek(address, 1) >> 4) & 0x0F
	case SizeBitCount:
		return uint32(bits.OnesCount8(uint8(peek(address, 1))))
	case Size16BitBE:
		return uint32(bits.ReverseBytes16(uint16(peek(address, 2))))
	case Size24BitBE:
		v := peek(address, 2) | peek(address+2, 1)<<16
		return bits.ReverseBytes32(v) >> 8
	case Size32BitBE:
		return bits.ReverseBytes32(peek(address, 4))
	}
	return 0
}

type memrefKey struct {
	address uint32
	size    MemSize
}

// memref is a memory reference shared by every condition that reads the
// same address and size. Values are refreshed once per frame.
type memref struct {
	memrefKey
	value uint32
	delta uint32 // value on the previous frame
	prior uint32 // last value that differed from the current one
}

func (m *memref) update(peek PeekFunc) {
	v := m.size.read(peek, m.address)
	m.delta = m.value
	m.value = v
	if m.value != m.delta {
		m.prior = m.delta
	}
}

func (m *memref) reset() {
	m.value = 0
	m.delta = 0
	m.prior = 0
}
