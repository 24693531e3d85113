package rsp

// RegisterFile holds the architectural registers of the captured Xtensa
// core. Field order here carries no meaning; the wire projection used by
// the g/G/p/P commands is defined entirely by the register index table in
// regIndex below.
type RegisterFile struct {
	PC      uint32
	PS      uint32
	SAR     uint32
	LitBase uint32
	SR176   uint32
	A       [16]uint32
}

// numRSPRegisters is the size of the flat RSP register image used by the
// g/G commands: 113 slots of 8 hex characters (4 bytes) each.
const numRSPRegisters = 113

// regSlot identifies which RegisterFile field (if any) a given RSP
// register index projects to.
type regSlot int

const (
	regNone regSlot = iota
	regPC
	regSAR
	regLitBase
	regSR176
	regPS
	regA0
)

// regIndex maps an RSP register index (0..112) to the RegisterFile field
// it addresses, per the fixed layout the reference GDB client expects.
// a[0..15] occupy a contiguous run starting at index 97.
func regIndex(idx int) regSlot {
	switch {
	case idx == 0:
		return regPC
	case idx == 36:
		return regSAR
	case idx == 37:
		return regLitBase
	case idx == 40:
		return regSR176
	case idx == 42:
		return regPS
	case idx >= 97 && idx <= 112:
		return regA0 + regSlot(idx-97)
	default:
		return regNone
	}
}

// Get returns the value of the register at the given RSP index, and
// whether that index is mapped at all.
func (f *RegisterFile) Get(idx int) (uint32, bool) {
	slot := regIndex(idx)
	switch {
	case slot == regNone:
		return 0, false
	case slot == regPC:
		return f.PC, true
	case slot == regSAR:
		return f.SAR, true
	case slot == regLitBase:
		return f.LitBase, true
	case slot == regSR176:
		return f.SR176, true
	case slot == regPS:
		return f.PS, true
	case slot >= regA0:
		return f.A[int(slot-regA0)], true
	}
	return 0, false
}

// Set writes v to the register at the given RSP index. Unmapped indices
// are silently ignored, per the register-index mapping contract: it is a
// projection, not a storage layout, and writes outside it are no-ops.
func (f *RegisterFile) Set(idx int, v uint32) {
	slot := regIndex(idx)
	switch {
	case slot == regPC:
		f.PC = v
	case slot == regSAR:
		f.SAR = v
	case slot == regLitBase:
		f.LitBase = v
	case slot == regSR176:
		f.SR176 = v
	case slot == regPS:
		f.PS = v
	case slot >= regA0:
		f.A[int(slot-regA0)] = v
	}
}

// MemoryRegion is a contiguous, non-overlapping span of target memory.
// Its backing bytes are owned for the lifetime of the DebugState and are
// mutated in place, never reallocated.
type MemoryRegion struct {
	Base uint32
	Data []byte
}

// Size returns the number of bytes covered by the region.
func (r *MemoryRegion) Size() uint32 {
	return uint32(len(r.Data))
}

// Contains reports whether addr falls within [Base, Base+Size).
func (r *MemoryRegion) Contains(addr uint32) bool {
	return addr >= r.Base && addr < r.Base+r.Size()
}

// DebugState exclusively owns the register file and the ordered set of
// memory regions for one post-mortem session. There is exactly one
// DebugState per process run.
type DebugState struct {
	Registers RegisterFile
	Regions   []MemoryRegion
}

// AddRegion appends a new region, preserving insertion order. Callers
// (ingest) are responsible for ensuring regions do not overlap.
func (d *DebugState) AddRegion(base uint32, data []byte) {
	d.Regions = append(d.Regions, MemoryRegion{Base: base, Data: data})
}

// find returns the region containing addr, by linear scan in insertion
// order. The region count is expected to stay small (a RAM dump plus a
// handful of ELF segments), so a scan is preferable to an interval tree.
func (d *DebugState) find(addr uint32) *MemoryRegion {
	for i := range d.Regions {
		if d.Regions[i].Contains(addr) {
			return &d.Regions[i]
		}
	}
	return nil
}
