package rsp

import (
	"net"

	"github.com/GoAethereal/cancel"
)

// Config configures how a debug session is served: which network kind to
// listen on, where, and at what verbosity. It mirrors the teacher's
// Config: a flat struct with a Verify method and small constructor
// methods that turn validated fields into the concrete collaborator
// types the rest of the package consumes.
type Config struct {
	// Kind selects the underlying network layer. Only "tcp" is accepted;
	// the in-memory pipe transport is built with NewPipeTransport instead.
	Kind string
	// Endpoint is the address to listen on, e.g. "localhost:3333".
	Endpoint string
	// LogLevel controls verbosity of the session logger; see logging.go.
	LogLevel Level
}

// Verify validates the Config, returning ErrInvalidConfig if Kind or
// Endpoint is unusable.
func (cfg *Config) Verify() error {
	switch cfg.Kind {
	case "tcp":
	default:
		return ErrInvalidConfig
	}
	if cfg.Endpoint == "" {
		return ErrInvalidConfig
	}
	return nil
}

// Listen creates a listener on the configured endpoint and returns an
// accept function. The returned function blocks until a connection
// arrives or ctx is canceled, in which case it returns ErrTransportClosed.
// This is grounded directly on the teacher's Config.listen: a watchdog
// goroutine closes the listener on cancellation, unblocking Accept.
func (cfg Config) Listen(ctx cancel.Context) (accept func() (Transport, error), err error) {
	switch cfg.Kind {
	case "tcp":
		l, err := net.Listen("tcp", cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		go func() {
			<-ctx.Done()
			l.Close()
		}()
		accept = func() (Transport, error) {
			conn, err := l.Accept()
			if err != nil {
				return nil, ErrTransportClosed
			}
			return NewTCPTransport(conn), nil
		}
		return accept, nil
	}
	return nil, ErrInvalidConfig
}
