package rsp

// pipeTransport is an in-memory Transport backed by two byte slices,
// used by tests and the replay client to drive a Framer without a real
// socket. It is intentionally minimal: a single session, no locking,
// since the core is single-threaded by contract.
type pipeTransport struct {
	in    []byte
	inPos int
	out   []byte
}

var _ Transport = (*pipeTransport)(nil)

// NewPipeTransport returns a Transport that yields the bytes of script
// to ReadByte and accumulates every WriteByte into an internal buffer
// retrievable with Written.
func NewPipeTransport(script []byte) *pipeTransport {
	return &pipeTransport{in: script}
}

func (p *pipeTransport) ReadByte() (byte, error) {
	if p.inPos >= len(p.in) {
		return 0, ErrTransportClosed
	}
	b := p.in[p.inPos]
	p.inPos++
	return b, nil
}

func (p *pipeTransport) WriteByte(b byte) error {
	p.out = append(p.out, b)
	return nil
}

// Written returns every byte handed to WriteByte so far.
func (p *pipeTransport) Written() []byte {
	return p.out
}

// Feed appends more bytes for ReadByte to yield, for tests that need to
// script a multi-round exchange incrementally.
func (p *pipeTransport) Feed(b []byte) {
	p.in = append(p.in, b...)
}
