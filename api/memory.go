package emucore

// MemoryInspector enables flat address-based memory reads for RetroAchievements.
type MemoryInspector interface {
	// ReadMemory reads from a flat address into buf and returns the number
	// of bytes read. The adapter maps flat addresses to internal memory.
	ReadMemory(addr uint32, buf []byte) uint32
}

// Memory region type constants. The values match the libretro
// RETRO_MEMORY_* ids so cores can pass them straight through.
const (
	MemorySaveRAM   = iota // Maps to RETRO_MEMORY_SAVE_RAM
	MemoryRTC              // Maps to RETRO_MEMORY_RTC
	MemorySystemRAM        // Maps to RETRO_MEMORY_SYSTEM_RAM
	MemoryVideoRAM         // Maps to RETRO_MEMORY_VIDEO_RAM
)

// MemoryAccessor is the capability a host hands to the achievement code so
// it can see emulated memory. MemoryData returns the live backing slice for
// a region type, or nil when the core does not expose it. The slice must
// stay valid until the next call to MemoryData for the same region.
type MemoryAccessor interface {
	MemoryData(regionType int) []byte
}

// MemoryAccessorFunc adapts a function to MemoryAccessor.
type MemoryAccessorFunc func(regionType int) []byte

// MemoryData calls f(regionType).
func (f MemoryAccessorFunc) MemoryData(regionType int) []byte {
	return f(regionType)
}

// RegionDescriptor places a window of a core memory region into the flat
// address space used by achievement conditions.
type RegionDescriptor struct {
	RegionType int    // Memory region id passed to MemoryAccessor
	Address    uint32 // First flat address covered by the region
	Offset     uint32 // Start offset inside the core buffer
	Size       uint32 // Window size in bytes, 0 means to the end of the buffer
}

// MemoryRegion describes a named memory region and its size.
type MemoryRegion struct {
	Type int
	Size int
}

// MemoryMapper enables libretro-style named memory region access.
type MemoryMapper interface {
	// MemoryMap returns a list of available memory regions with sizes.
	MemoryMap() []MemoryRegion
}

// DescriptorsFromMemoryMap lays the regions reported by a MemoryMapper out
// back to back, in the order given, starting at flat address 0.
func DescriptorsFromMemoryMap(mm MemoryMapper) []RegionDescriptor {
	if mm == nil {
		return nil
	}
	regions := mm.MemoryMap()
	descs := make([]RegionDescriptor, 0, len(regions))
	var addr uint32
	for _, r := range regions {
		if r.Size <= 0 {
			continue
		}
		descs = append(descs, RegionDescriptor{
			RegionType: r.Type,
			Address:    addr,
			Size:       uint32(r.Size),
		})
		addr += uint32(r.Size)
	}
	return descs
}
