package rsp

import "errors"

// Transport is the abstract byte stream the Framer speaks over. Reading
// and writing a single byte may block indefinitely; nothing else may.
// Concrete implementations live in transport_tcp.go and transport_pipe.go.
type Transport interface {
	ReadByte() (byte, error)
	WriteByte(b byte) error
}

// Outcome is the result of a Send: whether the peer acknowledged or
// rejected the packet.
type Outcome int

const (
	Acked Outcome = iota
	Nacked
)

// scratchCap bounds the raw (pre-run-length-expansion) payload a single
// Recv call will accept before the final, possibly larger, expansion into
// the caller's buf. It is generous relative to MaxTransfer because a run
// of run-length markers can compress a large reply into a short wire
// form, and Recv must still be able to hold the compact form.
const scratchCap = 2048

// Framer implements RSP packet framing over a Transport: emitting
// "$payload#cc", reading packets back out, verifying the checksum, and
// driving the ack/nack handshake. Once NoAck is set (after a successful
// QStartNoAckMode negotiation) the handshake byte is skipped entirely.
type Framer struct {
	T     Transport
	NoAck bool

	scratch [scratchCap]byte
}

// NewFramer returns a Framer reading and writing t.
func NewFramer(t Transport) *Framer {
	return &Framer{T: t}
}

// checksum8 returns the 8-bit additive checksum of data, per RSP.
func checksum8(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

var hexNibble = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// Send writes a single framed packet and, unless no-ack mode is active,
// waits for the peer's ack/nack byte.
func (f *Framer) Send(payload []byte) (Outcome, error) {
	if err := f.T.WriteByte('$'); err != nil {
		return 0, ErrTransportClosed
	}
	for _, b := range payload {
		if err := f.T.WriteByte(b); err != nil {
			return 0, ErrTransportClosed
		}
	}
	if err := f.T.WriteByte('#'); err != nil {
		return 0, ErrTransportClosed
	}
	sum := checksum8(payload)
	if err := f.T.WriteByte(hexNibble[sum>>4]); err != nil {
		return 0, ErrTransportClosed
	}
	if err := f.T.WriteByte(hexNibble[sum&0x0f]); err != nil {
		return 0, ErrTransportClosed
	}
	if f.NoAck {
		return Acked, nil
	}
	b, err := f.T.ReadByte()
	if err != nil {
		return 0, ErrTransportClosed
	}
	switch b {
	case '+':
		return Acked, nil
	case '-':
		return Nacked, nil
	default:
		return 0, ErrTransportClosed
	}
}

// Recv reads one framed packet, verifies its checksum, drives the
// ack/nack handshake, expands any run-length sequences, and writes the
// expanded payload into buf. It reports the expanded length.
func (f *Framer) Recv(buf []byte) (int, error) {
	for {
		b, err := f.T.ReadByte()
		if err != nil {
			return 0, ErrTransportClosed
		}
		if b == '$' {
			break
		}
	}

	n := 0
	for {
		b, err := f.T.ReadByte()
		if err != nil {
			return 0, ErrTransportClosed
		}
		if b == '#' {
			break
		}
		if n >= len(f.scratch) {
			return 0, ErrBufferOverflow
		}
		f.scratch[n] = b
		n++
	}
	raw := f.scratch[:n]

	hi, err := f.T.ReadByte()
	if err != nil {
		return 0, ErrTransportClosed
	}
	lo, err := f.T.ReadByte()
	if err != nil {
		return 0, ErrTransportClosed
	}
	hv, ok1 := DigitValue(hi, 16)
	lv, ok2 := DigitValue(lo, 16)
	if !ok1 || !ok2 {
		if !f.NoAck {
			_ = f.T.WriteByte('-')
		}
		return 0, ErrBadChecksum
	}
	want := byte(hv<<4 | lv)

	if checksum8(raw) != want {
		if !f.NoAck {
			_ = f.T.WriteByte('-')
		}
		return 0, ErrBadChecksum
	}
	if !f.NoAck {
		if err := f.T.WriteByte('+'); err != nil {
			return 0, ErrTransportClosed
		}
	}

	return expandRunLength(raw, buf)
}

// errRunLengthUnderflow guards against a run-length marker as the very
// first byte of a packet, which has no preceding byte to repeat.
var errRunLengthUnderflow = errors.New("rsp: run-length marker with no preceding byte")

// expandRunLength expands RSP run-length compression ('*' followed by one
// count byte c, meaning "repeat the previous byte (c-29) more times")
// into out, returning the expanded length.
func expandRunLength(raw, out []byte) (int, error) {
	n := 0
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		if b != '*' {
			if n >= len(out) {
				return 0, ErrBufferOverflow
			}
			out[n] = b
			n++
			continue
		}
		if n == 0 {
			return 0, errRunLengthUnderflow
		}
		i++
		if i >= len(raw) {
			return 0, ErrBadRequest
		}
		repeat := int(raw[i]) - 29
		if repeat < 0 {
			return 0, ErrBadRequest
		}
		prev := out[n-1]
		if n+repeat > len(out) {
			return 0, ErrBufferOverflow
		}
		for j := 0; j < repeat; j++ {
			out[n] = prev
			n++
		}
	}
	return n, nil
}
