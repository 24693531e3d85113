package rsp

// ReplayClient drives a Framer from the client side of an RSP exchange:
// it sends one command packet and returns the single reply packet. It
// is grounded on the shape of the teacher's Client.Request (encode,
// send, wait for the matching reply) but stripped of Request's
// transaction-id matching and goroutine-based wait, since there is
// exactly one outstanding exchange at a time here.
type ReplayClient struct {
	Framer *Framer
	buf    [scratchCap]byte
}

// NewReplayClient returns a client driving t.
func NewReplayClient(t Transport) *ReplayClient {
	return &ReplayClient{Framer: NewFramer(t)}
}

// Exchange sends cmd and returns the stub's reply payload. If the stub
// nacks the command, Exchange retries the send once before giving up.
func (c *ReplayClient) Exchange(cmd []byte) ([]byte, error) {
	outcome, err := c.Framer.Send(cmd)
	if err != nil {
		return nil, err
	}
	if outcome == Nacked {
		if outcome, err = c.Framer.Send(cmd); err != nil {
			return nil, err
		}
		if outcome == Nacked {
			return nil, ErrBadChecksum
		}
	}
	n, err := c.Framer.Recv(c.buf[:])
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.buf[:n])
	return out, nil
}

// NegotiateNoAck sends QStartNoAckMode and, on an "OK" reply, switches
// the client's own Framer into no-ack mode to match the stub.
func (c *ReplayClient) NegotiateNoAck() error {
	reply, err := c.Exchange([]byte("QStartNoAckMode"))
	if err != nil {
		return err
	}
	if string(reply) == "OK" {
		c.Framer.NoAck = true
	}
	return nil
}
