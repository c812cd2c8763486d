package memory

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	emucore "github.com/user-none/eblitui/cheevos/api"
)

// fakeCore exposes byte slices by region type.
type fakeCore map[int][]byte

func (c fakeCore) MemoryData(regionType int) []byte {
	return c[regionType]
}

func newTestAdapter(core emucore.MemoryAccessor) *Adapter {
	return NewAdapter(core, zerolog.Nop())
}

func TestReadRawLittleEndian(t *testing.T) {
	ram := make([]byte, 0x100)
	ram[0x10] = 0x01
	ram[0x11] = 0x02
	ram[0x20] = 0x78
	ram[0x21] = 0x56
	ram[0x22] = 0x34
	ram[0x23] = 0x12

	a := newTestAdapter(fakeCore{emucore.MemorySystemRAM: ram})

	tests := []struct {
		name     string
		addr     uint32
		size     uint32
		expected uint32
	}{
		{"8-bit", 0x10, 1, 0x01},
		{"16-bit", 0x10, 2, 0x0201},
		{"32-bit", 0x20, 4, 0x12345678},
		{"last byte", 0xFF, 1, 0},
		{"16-bit crossing end", 0xFF, 2, 0},
		{"zero bytes", 0x10, 0, 0},
		{"oversized request clamps to 4", 0x20, 8, 0x12345678},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Read(tt.addr, tt.size)
			if got != tt.expected {
				t.Errorf("Read(%#x, %d) = %#x, want %#x", tt.addr, tt.size, got, tt.expected)
			}
		})
	}
}

func TestReadRawOutOfRange(t *testing.T) {
	a := newTestAdapter(fakeCore{emucore.MemorySystemRAM: make([]byte, 0x10000)})

	if got := a.Read(0x20000, 1); got != 0 {
		t.Errorf("Read(0x20000, 1) = %d, want 0", got)
	}
	if got := a.Read(0xFFFFFFFF, 4); got != 0 {
		t.Errorf("Read(0xFFFFFFFF, 4) = %d, want 0", got)
	}
}

func TestReadWithoutMemory(t *testing.T) {
	tests := []struct {
		name string
		core emucore.MemoryAccessor
	}{
		{"nil accessor", nil},
		{"no system RAM", fakeCore{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(tt.core)
			if got := a.Read(0, 4); got != 0 {
				t.Errorf("Read(0, 4) = %d, want 0", got)
			}
			var buf [4]byte
			if got := a.ReadMemory(0, buf[:]); got != 0 {
				t.Errorf("ReadMemory returned %d, want 0", got)
			}
		})
	}
}

func TestInitRegionsMapped(t *testing.T) {
	sysRAM := make([]byte, 0x2000)
	saveRAM := make([]byte, 0x8000)
	sysRAM[0x0014] = 0x01
	sysRAM[0x0015] = 0x02
	saveRAM[0x0000] = 0xAA
	saveRAM[0x7FFF] = 0x55

	a := newTestAdapter(fakeCore{
		emucore.MemorySystemRAM: sysRAM,
		emucore.MemorySaveRAM:   saveRAM,
	})

	// Inserted out of order on purpose
	err := a.InitRegions(emucore.ConsoleMasterSystem, []emucore.RegionDescriptor{
		{RegionType: emucore.MemorySaveRAM, Address: 0x2000},
		{RegionType: emucore.MemorySystemRAM, Address: 0x0000},
	})
	if err != nil {
		t.Fatalf("InitRegions failed: %v", err)
	}
	if !a.IsMapped() {
		t.Fatal("expected adapter to be mapped")
	}
	if a.ConsoleID() != emucore.ConsoleMasterSystem {
		t.Errorf("expected console %d, got %d", emucore.ConsoleMasterSystem, a.ConsoleID())
	}

	tests := []struct {
		name     string
		addr     uint32
		size     uint32
		expected uint32
	}{
		{"16-bit little-endian", 0x0014, 2, 0x0201},
		{"start of second region", 0x2000, 1, 0xAA},
		{"last byte of second region", 0x9FFF, 1, 0x55},
		{"read clamped at region end", 0x9FFF, 4, 0x55},
		{"past all regions", 0xA000, 1, 0},
		{"far past all regions", 0x20000, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Read(tt.addr, tt.size)
			if got != tt.expected {
				t.Errorf("Read(%#x, %d) = %#x, want %#x", tt.addr, tt.size, got, tt.expected)
			}
		})
	}
}

func TestInitRegionsGap(t *testing.T) {
	sysRAM := make([]byte, 0x800)
	saveRAM := make([]byte, 0x2000)
	saveRAM[0] = 7

	a := newTestAdapter(fakeCore{
		emucore.MemorySystemRAM: sysRAM,
		emucore.MemorySaveRAM:   saveRAM,
	})
	if err := a.InitRegions(emucore.ConsoleNES, nil); err != nil {
		t.Fatalf("InitRegions failed: %v", err)
	}

	if got := a.Read(0x1000, 1); got != 0 {
		t.Errorf("read inside gap = %d, want 0", got)
	}
	if got := a.Read(0x6000, 1); got != 7 {
		t.Errorf("read at save RAM start = %d, want 7", got)
	}
}

func TestInitRegionsOffsetAndSize(t *testing.T) {
	buf := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	a := newTestAdapter(fakeCore{emucore.MemorySystemRAM: buf})

	err := a.InitRegions(0, []emucore.RegionDescriptor{
		{RegionType: emucore.MemorySystemRAM, Address: 0x100, Offset: 2, Size: 4},
	})
	if err != nil {
		t.Fatalf("InitRegions failed: %v", err)
	}

	if got := a.Read(0x100, 1); got != 2 {
		t.Errorf("Read(0x100) = %d, want 2", got)
	}
	if got := a.Read(0x103, 1); got != 5 {
		t.Errorf("Read(0x103) = %d, want 5", got)
	}
	if got := a.Read(0x104, 1); got != 0 {
		t.Errorf("Read(0x104) = %d, want 0 (outside window)", got)
	}

	regions := a.Regions()
	if len(regions) != 1 || regions[0].Size != 4 || regions[0].Address != 0x100 {
		t.Errorf("unexpected regions: %+v", regions)
	}
}

func TestReadSeesLiveMemory(t *testing.T) {
	ram := make([]byte, 0x10)
	a := newTestAdapter(fakeCore{emucore.MemorySystemRAM: ram})
	if err := a.InitRegions(0, []emucore.RegionDescriptor{{RegionType: emucore.MemorySystemRAM}}); err != nil {
		t.Fatalf("InitRegions failed: %v", err)
	}

	if got := a.Read(3, 1); got != 0 {
		t.Fatalf("expected 0 before write, got %d", got)
	}
	ram[3] = 9
	if got := a.Read(3, 1); got != 9 {
		t.Errorf("expected 9 after write, got %d", got)
	}
}

func TestInitRegionsFailureFallsBackToRaw(t *testing.T) {
	ram := make([]byte, 0x100)
	ram[0x40] = 0x42

	tests := []struct {
		name    string
		core    emucore.MemoryAccessor
		console uint32
		descs   []emucore.RegionDescriptor
		wantErr error
	}{
		{
			name:    "nil accessor",
			core:    nil,
			descs:   []emucore.RegionDescriptor{{RegionType: emucore.MemorySystemRAM}},
			wantErr: ErrNoAccessor,
		},
		{
			name:    "unknown console without descriptors",
			core:    fakeCore{emucore.MemorySystemRAM: ram},
			console: 9999,
			wantErr: ErrNoRegions,
		},
		{
			name:    "no region resolves",
			core:    fakeCore{emucore.MemorySystemRAM: ram},
			descs:   []emucore.RegionDescriptor{{RegionType: emucore.MemoryVideoRAM}},
			wantErr: ErrNoRegions,
		},
		{
			name:    "offset past buffer",
			core:    fakeCore{emucore.MemorySystemRAM: ram},
			descs:   []emucore.RegionDescriptor{{RegionType: emucore.MemorySystemRAM, Offset: 0x100}},
			wantErr: ErrNoRegions,
		},
		{
			name: "overlapping regions",
			core: fakeCore{emucore.MemorySystemRAM: ram, emucore.MemorySaveRAM: ram},
			descs: []emucore.RegionDescriptor{
				{RegionType: emucore.MemorySystemRAM, Address: 0},
				{RegionType: emucore.MemorySaveRAM, Address: 0x80},
			},
			wantErr: ErrRegionOverlap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(tt.core)
			err := a.InitRegions(tt.console, tt.descs)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("InitRegions error = %v, want %v", err, tt.wantErr)
			}
			if a.IsMapped() {
				t.Error("adapter should stay in raw mode after a failed init")
			}
			if len(a.Regions()) != 0 {
				t.Errorf("expected no regions, got %d", len(a.Regions()))
			}
		})
	}
}

func TestFailedReinitDropsPreviousMapping(t *testing.T) {
	sysRAM := make([]byte, 0x100)
	sysRAM[0x10] = 0x11
	core := fakeCore{emucore.MemorySystemRAM: sysRAM}
	a := newTestAdapter(core)

	if err := a.InitRegions(0, []emucore.RegionDescriptor{{RegionType: emucore.MemorySystemRAM, Address: 0x1000}}); err != nil {
		t.Fatalf("InitRegions failed: %v", err)
	}
	if got := a.Read(0x1010, 1); got != 0x11 {
		t.Fatalf("mapped read = %#x, want 0x11", got)
	}

	if err := a.InitRegions(0, []emucore.RegionDescriptor{{RegionType: emucore.MemoryVideoRAM}}); err == nil {
		t.Fatal("expected reinit to fail")
	}

	// Raw mode addresses system RAM directly
	if got := a.Read(0x10, 1); got != 0x11 {
		t.Errorf("raw read = %#x, want 0x11", got)
	}
	if got := a.Read(0x1010, 1); got != 0 {
		t.Errorf("old mapped address should read 0, got %#x", got)
	}
}

func TestDestroyReturnsToRaw(t *testing.T) {
	sysRAM := make([]byte, 0x100)
	sysRAM[0x01] = 0x33
	a := newTestAdapter(fakeCore{emucore.MemorySystemRAM: sysRAM})

	if err := a.InitRegions(0, []emucore.RegionDescriptor{{RegionType: emucore.MemorySystemRAM, Address: 0x8000}}); err != nil {
		t.Fatalf("InitRegions failed: %v", err)
	}
	a.Destroy()
	a.Destroy()

	if a.IsMapped() {
		t.Error("expected raw mode after Destroy")
	}
	if a.ConsoleID() != 0 {
		t.Errorf("expected console id reset, got %d", a.ConsoleID())
	}
	if got := a.Read(0x01, 1); got != 0x33 {
		t.Errorf("raw read after Destroy = %#x, want 0x33", got)
	}
}

func TestReadMemory(t *testing.T) {
	sysRAM := []byte{1, 2, 3, 4}
	a := newTestAdapter(fakeCore{emucore.MemorySystemRAM: sysRAM})

	buf := make([]byte, 8)
	if n := a.ReadMemory(2, buf); n != 2 || !bytes.Equal(buf[:2], []byte{3, 4}) {
		t.Errorf("raw ReadMemory = %d %v", n, buf[:n])
	}

	if err := a.InitRegions(0, []emucore.RegionDescriptor{{RegionType: emucore.MemorySystemRAM, Address: 0x10}}); err != nil {
		t.Fatalf("InitRegions failed: %v", err)
	}
	if n := a.ReadMemory(0x11, buf); n != 3 || !bytes.Equal(buf[:3], []byte{2, 3, 4}) {
		t.Errorf("mapped ReadMemory = %d %v", n, buf[:n])
	}
	if n := a.ReadMemory(0x00, buf); n != 0 {
		t.Errorf("unmapped ReadMemory = %d, want 0", n)
	}
}

func TestReadDoesNotAllocate(t *testing.T) {
	sysRAM := make([]byte, 0x100)
	a := newTestAdapter(fakeCore{emucore.MemorySystemRAM: sysRAM})

	raw := testing.AllocsPerRun(100, func() {
		a.Read(0x10, 4)
	})
	if raw != 0 {
		t.Errorf("raw Read allocated %.0f times per call", raw)
	}

	if err := a.InitRegions(0, []emucore.RegionDescriptor{{RegionType: emucore.MemorySystemRAM}}); err != nil {
		t.Fatalf("InitRegions failed: %v", err)
	}
	mapped := testing.AllocsPerRun(100, func() {
		a.Read(0x10, 4)
	})
	if mapped != 0 {
		t.Errorf("mapped Read allocated %.0f times per call", mapped)
	}
}

func TestPeekLoggingIsLimited(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(&out).Level(zerolog.DebugLevel)
	a := NewAdapter(fakeCore{emucore.MemorySystemRAM: make([]byte, 0x10)}, logger)
	if err := a.InitRegions(0, []emucore.RegionDescriptor{{RegionType: emucore.MemorySystemRAM}}); err != nil {
		t.Fatalf("InitRegions failed: %v", err)
	}

	out.Reset()
	for i := 0; i < 20; i++ {
		a.Read(0, 1)
	}
	if got := bytes.Count(out.Bytes(), []byte("Memory peek")); got != peekLogLimit {
		t.Errorf("logged %d peeks, want %d", got, peekLogLimit)
	}

	// Reinitializing re-arms the sampler
	if err := a.InitRegions(0, []emucore.RegionDescriptor{{RegionType: emucore.MemorySystemRAM}}); err != nil {
		t.Fatalf("InitRegions failed: %v", err)
	}
	out.Reset()
	a.Read(0, 1)
	if got := bytes.Count(out.Bytes(), []byte("Memory peek")); got != 1 {
		t.Errorf("logged %d peeks after reinit, want 1", got)
	}
}
