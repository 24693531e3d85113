package rsp

import (
	"bufio"
	"net"
)

// tcpTransport adapts a net.Conn to the Transport interface. Reads are
// buffered since the Framer consumes the stream one byte at a time;
// writes go straight through, matching the teacher's network.write,
// which never buffers outbound ADUs either.
type tcpTransport struct {
	conn net.Conn
	r    *bufio.Reader
}

var _ Transport = (*tcpTransport)(nil)

// NewTCPTransport wraps conn for use by a Framer.
func NewTCPTransport(conn net.Conn) *tcpTransport {
	return &tcpTransport{conn: conn, r: bufio.NewReader(conn)}
}

func (t *tcpTransport) ReadByte() (byte, error) {
	return t.r.ReadByte()
}

func (t *tcpTransport) WriteByte(b byte) error {
	_, err := t.conn.Write([]byte{b})
	return err
}

// Close closes the underlying connection, unblocking any in-flight
// ReadByte/WriteByte with an error. Session.Serve calls this from the
// cancel.Context watchdog goroutine, the same role the teacher's
// Config.listen watchdog plays for net.Listener.
func (t *tcpTransport) Close() error {
	return t.conn.Close()
}
