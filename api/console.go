package emucore

// RetroAchievements console ids for the systems with a built-in layout.
const (
	ConsoleMegaDrive    uint32 = 1
	ConsoleSNES         uint32 = 3
	ConsoleNES          uint32 = 7
	ConsolePCEngine     uint32 = 8
	ConsoleMasterSystem uint32 = 11
	ConsoleGameGear     uint32 = 15
	ConsoleAtari2600    uint32 = 25
)

// consoleRegions holds the flat achievement address layout for each console.
// Sizes are upper bounds; the adapter clamps them to what the core exposes.
var consoleRegions = map[uint32][]RegionDescriptor{
	ConsoleMegaDrive: {
		{RegionType: MemorySystemRAM, Address: 0x000000, Size: 0x10000},
		{RegionType: MemorySaveRAM, Address: 0x010000, Size: 0x10000},
	},
	ConsoleSNES: {
		{RegionType: MemorySystemRAM, Address: 0x000000, Size: 0x20000},
		{RegionType: MemorySaveRAM, Address: 0x020000, Size: 0x60000},
	},
	ConsoleNES: {
		{RegionType: MemorySystemRAM, Address: 0x0000, Size: 0x0800},
		{RegionType: MemorySaveRAM, Address: 0x6000, Size: 0x2000},
	},
	ConsolePCEngine: {
		{RegionType: MemorySystemRAM, Address: 0x000000, Size: 0x2000},
	},
	ConsoleMasterSystem: {
		{RegionType: MemorySystemRAM, Address: 0x0000, Size: 0x2000},
		{RegionType: MemorySaveRAM, Address: 0x2000, Size: 0x8000},
	},
	ConsoleGameGear: {
		{RegionType: MemorySystemRAM, Address: 0x0000, Size: 0x2000},
		{RegionType: MemorySaveRAM, Address: 0x2000, Size: 0x8000},
	},
	ConsoleAtari2600: {
		{RegionType: MemorySystemRAM, Address: 0x0000, Size: 0x80},
	},
}

// ConsoleRegions returns a copy of the default region layout for a console,
// or nil when the console has no built-in layout.
func ConsoleRegions(consoleID uint32) []RegionDescriptor {
	regions, ok := consoleRegions[consoleID]
	if !ok {
		return nil
	}
	out := make([]RegionDescriptor, len(regions))
	copy(out, regions)
	return out
}
