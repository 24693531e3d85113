package rsp

import (
	"bytes"
)

// CommandDispatcher turns decoded RSP command packets into replies
// against a TargetBridge. It mirrors the teacher's Mux: a single Handle
// entry point that switches on the command byte and delegates to one
// unexported method per command. Unlike the teacher's Mux, there are no
// pluggable callbacks — the command set is fixed by the protocol this
// target speaks, and every handler closes directly over the bridge.
type CommandDispatcher struct {
	Bridge      TargetBridge
	NoAckOnNext *bool // set to true when QStartNoAckMode is accepted; Serve reads it back
}

// NewCommandDispatcher returns a dispatcher serving bridge.
func NewCommandDispatcher(bridge TargetBridge) *CommandDispatcher {
	ack := false
	return &CommandDispatcher{Bridge: bridge, NoAckOnNext: &ack}
}

// Handle decodes one packet payload and returns the reply payload to
// frame back to the client. A returned detach of true means the caller
// (Serve) should send the reply, if any, and then stop serving.
func (d *CommandDispatcher) Handle(pkt []byte) (reply []byte, detach bool) {
	if len(pkt) == 0 {
		return nil, false
	}
	switch pkt[0] {
	case '?':
		return d.handleStopReason(), false
	case 'q':
		return d.handleQuery(pkt[1:]), false
	case 'Q':
		return d.handleSet(pkt[1:]), false
	case 'g':
		return d.handleReadRegisters(), false
	case 'G':
		return d.handleWriteRegisters(pkt[1:]), false
	case 'p':
		return d.handleReadRegister(pkt[1:]), false
	case 'P':
		return d.handleWriteRegister(pkt[1:]), false
	case 'm':
		return d.handleReadMemory(pkt[1:]), false
	case 'M':
		return d.handleWriteMemory(pkt[1:]), false
	case 'X':
		return d.handleWriteMemoryBinary(pkt[1:]), false
	case 'c':
		_ = d.Bridge.Continue()
		return nil, false
	case 's':
		_ = d.Bridge.Step()
		return nil, false
	case 'D':
		return []byte("OK"), true
	default:
		return nil, false
	}
}

// handleStopReason answers '?': the target is always stopped on the
// trap that produced the crash dump, signal 0 (SIGNULL) — there was no
// live signal delivery, this is a post-mortem reconstruction.
func (d *CommandDispatcher) handleStopReason() []byte {
	return []byte("S00")
}

func (d *CommandDispatcher) handleQuery(rest []byte) []byte {
	switch {
	case bytes.HasPrefix(rest, []byte("Supported")):
		return []byte("swbreak+;hwbreak+;PacketSize=FF;QStartNoAckMode+")
	case bytes.Equal(rest, []byte("Attached")):
		return []byte("1")
	default:
		return nil
	}
}

func (d *CommandDispatcher) handleSet(rest []byte) []byte {
	if bytes.Equal(rest, []byte("StartNoAckMode")) {
		if d.NoAckOnNext != nil {
			*d.NoAckOnNext = true
		}
		return []byte("OK")
	}
	return nil
}

// handleReadRegisters answers 'g': the full register image, numRSPRegisters
// slots of 8 hex chars each, little-endian per register, unmapped slots
// rendered as "xxxxxxxx".
func (d *CommandDispatcher) handleReadRegisters() []byte {
	out := make([]byte, 0, numRSPRegisters*8)
	regs := d.Bridge.Registers()
	var buf [4]byte
	var hex [8]byte
	for i := 0; i < numRSPRegisters; i++ {
		v, ok := regs.Get(i)
		if !ok {
			out = append(out, []byte("xxxxxxxx")...)
			continue
		}
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
		buf[3] = byte(v >> 24)
		_, _ = EncodeHex(hex[:], buf[:])
		out = append(out, hex[:]...)
	}
	return out
}

// handleWriteRegisters answers 'G': the payload must decode to exactly
// numRSPRegisters*8 hex characters. Decoding happens into a scratch array
// first; only once every field decodes cleanly are the registers
// committed, so a malformed payload never partially mutates state.
func (d *CommandDispatcher) handleWriteRegisters(payload []byte) []byte {
	const want = numRSPRegisters * 8
	if len(payload) != want {
		return encodeWireError(EBadArgs)
	}
	var decoded [numRSPRegisters]uint32
	var raw [4]byte
	for i := 0; i < numRSPRegisters; i++ {
		field := payload[i*8 : i*8+8]
		if bytes.Equal(field, []byte("xxxxxxxx")) {
			continue
		}
		if err := DecodeHex(field, raw[:]); err != nil {
			return encodeWireError(EBadArgs)
		}
		decoded[i] = uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24
	}
	regs := d.Bridge.Registers()
	for i := 0; i < numRSPRegisters; i++ {
		field := payload[i*8 : i*8+8]
		if bytes.Equal(field, []byte("xxxxxxxx")) {
			continue
		}
		regs.Set(i, decoded[i])
	}
	return []byte("OK")
}

// handleReadRegister answers 'p<idx-hex>'.
func (d *CommandDispatcher) handleReadRegister(rest []byte) []byte {
	idx, _, err := ParseInt(rest, 16)
	if err != nil {
		return encodeWireError(EBadArgs)
	}
	regs := d.Bridge.Registers()
	v, ok := regs.Get(int(idx))
	if !ok {
		return []byte("xxxxxxxx")
	}
	var raw [4]byte
	raw[0] = byte(v)
	raw[1] = byte(v >> 8)
	raw[2] = byte(v >> 16)
	raw[3] = byte(v >> 24)
	var hex [8]byte
	_, _ = EncodeHex(hex[:], raw[:])
	return hex[:]
}

// handleWriteRegister answers 'P<idx-hex>=<value-hex>'. Unlike 'G', a
// write to an unmapped index is a hard error (E00), not a silent no-op,
// since the client explicitly named this one register.
func (d *CommandDispatcher) handleWriteRegister(rest []byte) []byte {
	eq := bytes.IndexByte(rest, '=')
	if eq < 0 {
		return encodeWireError(EBadArgs)
	}
	idx, _, err := ParseInt(rest[:eq], 16)
	if err != nil {
		return encodeWireError(EBadArgs)
	}
	valField := rest[eq+1:]
	if len(valField) != 8 {
		return encodeWireError(EBadArgs)
	}
	var raw [4]byte
	if err := DecodeHex(valField, raw[:]); err != nil {
		return encodeWireError(EBadArgs)
	}
	regs := d.Bridge.Registers()
	if _, ok := regs.Get(int(idx)); !ok {
		return encodeWireError(EBadRegister)
	}
	v := uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24
	regs.Set(int(idx), v)
	return []byte("OK")
}

// parseAddrLen parses the common "addr,len" argument form shared by
// m/M/X.
func parseAddrLen(rest []byte) (addr uint32, length int, tail []byte, err error) {
	comma := bytes.IndexByte(rest, ',')
	if comma < 0 {
		return 0, 0, nil, ErrBadRequest
	}
	a, _, perr := ParseInt(rest[:comma], 16)
	if perr != nil {
		return 0, 0, nil, perr
	}
	rest = rest[comma+1:]
	end := len(rest)
	for i, b := range rest {
		if b == ':' {
			end = i
			break
		}
	}
	l, n, perr := ParseInt(rest[:end], 16)
	if perr != nil || n == 0 || l < 0 {
		return 0, 0, nil, ErrBadRequest
	}
	tail = rest[end:]
	if len(tail) > 0 && tail[0] == ':' {
		tail = tail[1:]
	}
	return uint32(a), int(l), tail, nil
}

func (d *CommandDispatcher) handleReadMemory(rest []byte) []byte {
	addr, length, _, err := parseAddrLen(rest)
	if err != nil {
		return encodeWireError(EBadArgs)
	}
	if length > MaxTransfer {
		return encodeWireError(ETooLarge)
	}
	data, rerr := readRange(d.Bridge, addr, length)
	if rerr != nil {
		return encodeWireError(EBadAddress)
	}
	hex := make([]byte, length*2)
	_, _ = EncodeHex(hex, data)
	return hex
}

func (d *CommandDispatcher) handleWriteMemory(rest []byte) []byte {
	addr, length, tail, err := parseAddrLen(rest)
	if err != nil {
		return encodeWireError(EBadArgs)
	}
	if length > MaxTransfer {
		return encodeWireError(ETooLarge)
	}
	if len(tail) != length*2 {
		return encodeWireError(EBadArgs)
	}
	data := make([]byte, length)
	if derr := DecodeHex(tail, data); derr != nil {
		return encodeWireError(EBadArgs)
	}
	if werr := writeRange(d.Bridge, addr, data); werr != nil {
		return encodeWireError(EBadAddress)
	}
	return []byte("OK")
}

func (d *CommandDispatcher) handleWriteMemoryBinary(rest []byte) []byte {
	addr, length, tail, err := parseAddrLen(rest)
	if err != nil {
		return encodeWireError(EBadArgs)
	}
	if length > MaxTransfer {
		return encodeWireError(ETooLarge)
	}
	data := make([]byte, length)
	n, derr := DecodeBin(tail, data)
	if derr != nil || n != length {
		return encodeWireError(EBadArgs)
	}
	if werr := writeRange(d.Bridge, addr, data); werr != nil {
		return encodeWireError(EBadAddress)
	}
	return []byte("OK")
}
