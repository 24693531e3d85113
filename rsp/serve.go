package rsp

import (
	"errors"

	"github.com/GoAethereal/cancel"
)

// Session ties together one Transport, its Framer, and a
// CommandDispatcher, and drives the packet loop to completion. It is
// grounded on the teacher's Server.handle, reduced to a single
// synchronous goroutine: this target never answers two packets at once,
// so there is no per-connection waitgroup or broadcast fan-out, only the
// read-decode-dispatch-reply cycle.
type Session struct {
	Framer     *Framer
	Dispatcher *CommandDispatcher
	Log        *Logger
}

// NewSession wires a Transport and TargetBridge into a ready-to-run
// Session.
func NewSession(t Transport, bridge TargetBridge, lg *Logger) *Session {
	return &Session{
		Framer:     NewFramer(t),
		Dispatcher: NewCommandDispatcher(bridge),
		Log:        lg,
	}
}

// closer is implemented by transports that can be interrupted out of a
// blocking read, such as tcpTransport.
type closer interface {
	Close() error
}

// Serve runs the packet loop until the client detaches, the transport
// fails, or ctx is canceled. A clean detach ('D') returns ErrShutdown; a
// transport failure returns ErrTransportClosed; ctx cancellation closes
// the transport (if it supports Close) to unblock the pending read and
// then returns ctx.Err().
func (s *Session) Serve(ctx cancel.Context) error {
	if c, ok := s.Framer.T.(closer); ok {
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			select {
			case <-ctx.Done():
				c.Close()
			case <-stop:
			}
		}()
	}

	var buf [scratchCap]byte
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := s.Framer.Recv(buf[:])
		if err != nil {
			if errors.Is(err, ErrBadChecksum) {
				s.Log.Warn("rsp: bad checksum, retrying")
				continue
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			s.Log.Error("rsp: recv failed: %v", err)
			return err
		}

		pkt := buf[:n]
		s.Log.Packet("rsp: recv %q", pkt)
		reply, detach := s.Dispatcher.Handle(pkt)

		if reply != nil {
			outcome, err := s.Framer.Send(reply)
			if err != nil {
				s.Log.Error("rsp: send failed: %v", err)
				return err
			}
			if outcome == Nacked {
				s.Log.Warn("rsp: reply nacked by peer")
			}
		}

		// QStartNoAckMode takes effect only after its own OK reply has
		// gone through the normal ack/nack handshake.
		if d := s.Dispatcher.NoAckOnNext; d != nil && *d {
			s.Framer.NoAck = true
		}

		if detach {
			return ErrShutdown
		}
	}
}
