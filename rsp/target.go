package rsp

import "errors"

// ErrNoMapping is returned when an address falls outside every known
// memory region.
var ErrNoMapping = errors.New("rsp: address not mapped")

// ErrUnsupported is returned by TargetBridge operations that this
// post-mortem front-end does not implement against a live target.
var ErrUnsupported = errors.New("rsp: unsupported on a post-mortem target")

// MaxTransfer bounds a single bulk memory read/write. A client requesting
// more than this many bytes in one m/M/X command receives a wire error
// instead of a truncated reply.
const MaxTransfer = 64

// TargetBridge is the capability the core consumes: byte-granular memory
// access, the register file, and placeholder execution control. It is
// implemented here directly over a DebugState; an embedder with a live
// target would substitute another implementation behind the same
// interface.
type TargetBridge interface {
	ReadByte(addr uint32) (byte, error)
	WriteByte(addr uint32, v byte) error
	Registers() *RegisterFile
	Continue() error
	Step() error
}

// StateBridge adapts a DebugState to the TargetBridge interface.
type StateBridge struct {
	State *DebugState
}

var _ TargetBridge = (*StateBridge)(nil)

// NewStateBridge returns a TargetBridge backed by state.
func NewStateBridge(state *DebugState) *StateBridge {
	return &StateBridge{State: state}
}

func (b *StateBridge) ReadByte(addr uint32) (byte, error) {
	r := b.State.find(addr)
	if r == nil {
		return 0, ErrNoMapping
	}
	return r.Data[addr-r.Base], nil
}

func (b *StateBridge) WriteByte(addr uint32, v byte) error {
	r := b.State.find(addr)
	if r == nil {
		return ErrNoMapping
	}
	r.Data[addr-r.Base] = v
	return nil
}

func (b *StateBridge) Registers() *RegisterFile {
	return &b.State.Registers
}

// Continue is a placeholder: the post-mortem target never actually runs.
// Callers (the CommandDispatcher) return control immediately after this
// returns rather than waiting for a stop event.
func (b *StateBridge) Continue() error {
	return nil
}

// Step is a placeholder for the same reason as Continue.
func (b *StateBridge) Step() error {
	return nil
}

// readRange reads n bytes starting at addr, failing with ErrNoMapping if
// any byte in the range is unmapped. Each byte is looked up on its own, so
// a range that runs across two adjacent regions is read without error.
func readRange(b TargetBridge, addr uint32, n int) ([]byte, error) {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		v, err := b.ReadByte(addr + uint32(i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// writeRange writes data starting at addr, failing with ErrNoMapping if
// any destination byte is unmapped.
func writeRange(b TargetBridge, addr uint32, data []byte) error {
	for i, v := range data {
		if err := b.WriteByte(addr+uint32(i), v); err != nil {
			return err
		}
	}
	return nil
}
