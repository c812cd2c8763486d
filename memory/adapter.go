// Package memory resolves achievement memory reads against emulated RAM.
//
// An Adapter is either region-mapped, built from a list of region
// descriptors, or raw, reading the core's system RAM directly. Raw mode is
// the permanent fallback: a failed or released mapping always drops back
// to it. Reads never fail; anything outside known memory reads as zero.
package memory

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	emucore "github.com/user-none/eblitui/cheevos/api"
)

// maxReadSize is the widest value a single Read assembles.
const maxReadSize = 4

// peekLogLimit is how many reads are logged after each (re)initialization.
const peekLogLimit = 5

var (
	// ErrNoAccessor is returned when the adapter has no memory accessor.
	ErrNoAccessor = errors.New("no memory accessor")
	// ErrNoRegions is returned when no descriptor resolved to core memory.
	ErrNoRegions = errors.New("no memory regions available")
	// ErrRegionOverlap is returned when two descriptors claim the same addresses.
	ErrRegionOverlap = errors.New("memory regions overlap")
)

type region struct {
	regionType int
	address    uint32
	data       []byte
}

func (r *region) end() uint64 {
	return uint64(r.address) + uint64(len(r.data))
}

// RegionInfo describes one mapped region.
type RegionInfo struct {
	RegionType int
	Address    uint32
	Size       uint32
}

// Adapter translates flat achievement addresses into reads of emulated RAM.
// It is not safe for concurrent use; all calls belong to the emulation thread.
type Adapter struct {
	accessor  emucore.MemoryAccessor
	regions   []region // sorted by address
	mapped    bool
	consoleID uint32

	log         zerolog.Logger
	peekLog     zerolog.Logger
	peekSampler *firstN
}

// NewAdapter creates an adapter in raw mode. accessor may be nil, in which
// case every read returns 0.
func NewAdapter(accessor emucore.MemoryAccessor, logger zerolog.Logger) *Adapter {
	sampler := &firstN{limit: peekLogLimit}
	return &Adapter{
		accessor:    accessor,
		log:         logger,
		peekLog:     logger.Sample(sampler),
		peekSampler: sampler,
	}
}

// InitRegions builds the region table for a console. When descriptors is
// empty the console's built-in layout is used. Any existing table is torn
// down first. On failure the adapter stays in raw mode and the error is
// returned for the caller's information only.
func (a *Adapter) InitRegions(consoleID uint32, descriptors []emucore.RegionDescriptor) error {
	a.Destroy()
	a.consoleID = consoleID

	if len(descriptors) == 0 {
		descriptors = emucore.ConsoleRegions(consoleID)
	}

	regions, err := a.buildRegions(descriptors)
	if err != nil {
		a.log.Warn().Err(err).Uint32("console", consoleID).
			Msg("Failed to initialize achievement memory mapping, falling back to direct RAM")
		return err
	}

	a.regions = regions
	a.mapped = true
	a.log.Info().Uint32("console", consoleID).Int("regions", len(regions)).
		Msg("Achievement memory initialized")
	return nil
}

func (a *Adapter) buildRegions(descriptors []emucore.RegionDescriptor) ([]region, error) {
	if a.accessor == nil {
		return nil, ErrNoAccessor
	}
	if len(descriptors) == 0 {
		return nil, ErrNoRegions
	}

	regions := make([]region, 0, len(descriptors))
	for _, d := range descriptors {
		data := a.accessor.MemoryData(d.RegionType)
		if uint64(d.Offset) >= uint64(len(data)) {
			a.log.Debug().Int("type", d.RegionType).Uint32("offset", d.Offset).Int("available", len(data)).
				Msg("Skipping unavailable memory region")
			continue
		}

		window := data[d.Offset:]
		if d.Size > 0 && uint64(d.Size) < uint64(len(window)) {
			window = window[:d.Size]
		}
		// Clamp to the 32-bit address space
		if limit := uint64(1<<32) - uint64(d.Address); uint64(len(window)) > limit {
			window = window[:limit]
		}

		regions = append(regions, region{
			regionType: d.RegionType,
			address:    d.Address,
			data:       window,
		})
	}

	if len(regions) == 0 {
		return nil, ErrNoRegions
	}

	sort.Slice(regions, func(i, j int) bool {
		return regions[i].address < regions[j].address
	})
	for i := 1; i < len(regions); i++ {
		if regions[i-1].end() > uint64(regions[i].address) {
			return nil, fmt.Errorf("%w: region at %#x overlaps region at %#x",
				ErrRegionOverlap, regions[i].address, regions[i-1].address)
		}
	}

	return regions, nil
}

// Destroy releases the region table and returns the adapter to raw mode.
func (a *Adapter) Destroy() {
	a.regions = nil
	a.mapped = false
	a.consoleID = 0
	a.peekSampler.reset()
}

// IsMapped reports whether reads resolve through the region table.
func (a *Adapter) IsMapped() bool {
	return a.mapped
}

// ConsoleID returns the console the region table was built for.
func (a *Adapter) ConsoleID() uint32 {
	return a.consoleID
}

// Regions returns a description of the current region table.
func (a *Adapter) Regions() []RegionInfo {
	out := make([]RegionInfo, len(a.regions))
	for i, r := range a.regions {
		out[i] = RegionInfo{
			RegionType: r.regionType,
			Address:    r.address,
			Size:       uint32(len(r.data)),
		}
	}
	return out
}

// Read returns the little-endian value of numBytes bytes at address.
// numBytes is normally 1, 2 or 4; larger requests are clamped to 4.
// Out of range reads and reads without backing memory return 0.
func (a *Adapter) Read(address, numBytes uint32) uint32 {
	if numBytes == 0 {
		return 0
	}
	if numBytes > maxReadSize {
		numBytes = maxReadSize
	}

	var buf [maxReadSize]byte
	if a.mapped {
		n := a.readMapped(address, buf[:numBytes])
		a.peekLog.Debug().Uint32("addr", address).Uint32("bytes", numBytes).Uint32("read", n).
			Msg("Memory peek")
		if n == 0 {
			return 0
		}
	} else {
		data := a.systemRAM()
		if data == nil || uint64(address)+uint64(numBytes) > uint64(len(data)) {
			return 0
		}
		copy(buf[:numBytes], data[address:])
	}

	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}

// ReadMemory copies memory starting at address into buf and returns the
// number of bytes copied. Reads stop at the end of the containing region.
func (a *Adapter) ReadMemory(address uint32, buf []byte) uint32 {
	if a.mapped {
		return a.readMapped(address, buf)
	}
	data := a.systemRAM()
	if uint64(address) >= uint64(len(data)) {
		return 0
	}
	return uint32(copy(buf, data[address:]))
}

func (a *Adapter) readMapped(address uint32, buf []byte) uint32 {
	r := a.find(address)
	if r == nil {
		return 0
	}
	return uint32(copy(buf, r.data[address-r.address:]))
}

// find returns the region containing address, or nil.
func (a *Adapter) find(address uint32) *region {
	i := sort.Search(len(a.regions), func(i int) bool {
		return a.regions[i].address > address
	}) - 1
	if i < 0 {
		return nil
	}
	r := &a.regions[i]
	if uint64(address) >= r.end() {
		return nil
	}
	return r
}

func (a *Adapter) systemRAM() []byte {
	if a.accessor == nil {
		return nil
	}
	return a.accessor.MemoryData(emucore.MemorySystemRAM)
}

var _ emucore.MemoryInspector = (*Adapter)(nil)
