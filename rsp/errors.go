package rsp

import "errors"

var (
	// ErrTransportClosed signals unexpected EOF or an I/O failure on the
	// underlying byte stream. It propagates out of Session.Serve and
	// terminates the session; it is never recovered locally.
	ErrTransportClosed = errors.New("rsp: transport closed")
	// ErrBufferOverflow indicates an inbound packet exceeded the scratch
	// buffer before a terminating '#' was seen. The reference behavior is
	// to log and drop the session; an implementer MAY instead send '-'
	// and continue, at the cost of unbounded buffering.
	ErrBufferOverflow = errors.New("rsp: packet exceeds buffer")
	// ErrBadChecksum is recoverable: Framer.Recv has already written '-'
	// to the transport by the time this is returned, and the caller is
	// expected to loop and let the client retransmit.
	ErrBadChecksum = errors.New("rsp: checksum mismatch")
	// ErrBadRequest marks a structurally invalid command: a missing
	// separator, a zero-digit integer where one was required, or a
	// decode failure partway through a command's argument list.
	ErrBadRequest = errors.New("rsp: malformed command")
	// ErrShutdown is returned by Session.Serve after a clean 'D'
	// (detach) exchange. Callers should check for it with errors.Is and
	// treat it as a successful, not failed, session end.
	ErrShutdown = errors.New("rsp: session detached")
	// ErrInvalidConfig signals a Config with an unsupported Kind or an
	// empty Endpoint.
	ErrInvalidConfig = errors.New("rsp: invalid configuration")
)
