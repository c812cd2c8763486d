package harness

import emucore "github.com/user-none/eblitui/cheevos/api"

// DefaultMemorySize is the size of the synthetic RAM used for each case.
const DefaultMemorySize = 0x10000

// Memory is a flat, zero-initialized byte buffer standing in for console
// RAM. Multi-byte values are stored little-endian. Writes that do not fit
// are ignored.
type Memory struct {
	ram []byte
}

// NewMemory returns size bytes of zeroed memory.
func NewMemory(size int) *Memory {
	return &Memory{ram: make([]byte, size)}
}

// Size returns the memory size in bytes.
func (m *Memory) Size() int {
	return len(m.ram)
}

func (m *Memory) fits(address uint32, n int) bool {
	return uint64(address)+uint64(n) <= uint64(len(m.ram))
}

// Write8 stores an 8-bit value.
func (m *Memory) Write8(address uint32, value uint8) {
	if m.fits(address, 1) {
		m.ram[address] = value
	}
}

// Write16 stores a 16-bit value.
func (m *Memory) Write16(address uint32, value uint16) {
	if m.fits(address, 2) {
		m.ram[address] = byte(value)
		m.ram[address+1] = byte(value >> 8)
	}
}

// Write32 stores a 32-bit value.
func (m *Memory) Write32(address uint32, value uint32) {
	if m.fits(address, 4) {
		for i := uint32(0); i < 4; i++ {
			m.ram[address+i] = byte(value >> (8 * i))
		}
	}
}

// Peek reads numBytes at address as a little-endian value. Reads that
// extend past the end of memory return 0.
func (m *Memory) Peek(address, numBytes uint32) uint32 {
	if !m.fits(address, int(numBytes)) {
		return 0
	}
	var v uint32
	for i := uint32(0); i < numBytes; i++ {
		v |= uint32(m.ram[address+i]) << (8 * i)
	}
	return v
}

// MemoryData exposes the buffer as the console's system RAM.
func (m *Memory) MemoryData(regionType int) []byte {
	if regionType == emucore.MemorySystemRAM {
		return m.ram
	}
	return nil
}

// splitMemory presents one Memory as two core regions: system RAM below
// split and save RAM from split on.
type splitMemory struct {
	mem   *Memory
	split int
}

func (s splitMemory) MemoryData(regionType int) []byte {
	switch regionType {
	case emucore.MemorySystemRAM:
		return s.mem.ram[:s.split]
	case emucore.MemorySaveRAM:
		return s.mem.ram[s.split:]
	}
	return nil
}

func (s splitMemory) descriptors() []emucore.RegionDescriptor {
	return []emucore.RegionDescriptor{
		{RegionType: emucore.MemorySaveRAM, Address: uint32(s.split)},
		{RegionType: emucore.MemorySystemRAM, Address: 0},
	}
}
