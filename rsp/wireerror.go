package rsp

import "fmt"

// WireError is a command failure that the dispatcher renders as an RSP
// "Exx" reply rather than an internal Go error. It is a superset of the
// error interface, mirroring how the teacher's Exception type pairs a
// wire code with a human-readable message.
type WireError interface {
	error
	Code() byte
}

var _ WireError = (*wireError)(nil)

type wireError struct {
	code byte
	msg  string
}

// Code returns the two-hex-digit error code sent after 'E' on the wire.
func (e *wireError) Code() byte {
	return e.code
}

func (e *wireError) Error() string {
	if e.msg != "" {
		return "rsp: " + e.msg
	}
	return fmt.Sprintf("rsp: code %02x undefined", e.code)
}

// Every wire error this target sends is E00: RSP carries no semantic
// error-code space beyond "some error occurred" for this command set
// (spec's per-command table and the P-command resolution both specify
// E00 uniformly, never E01/E02/E03). The distinct names below exist for
// readability at dispatch.go's call sites and for the Go-level error
// message logged locally; they all render identically on the wire.
var (
	// EBadAddress - E00: the requested memory address is not covered by
	// any captured region.
	EBadAddress = newWireErrorMsg(0x00, "address not mapped")
	// EBadRegister - E00: a P command targeted a register index this
	// target does not expose for writing.
	EBadRegister = newWireErrorMsg(0x00, "register index not writable")
	// EBadArgs - E00: the command's argument list could not be parsed.
	EBadArgs = newWireErrorMsg(0x00, "malformed command arguments")
	// ETooLarge - E00: an m/M/X request asked for more than MaxTransfer
	// bytes in one call.
	ETooLarge = newWireErrorMsg(0x00, "transfer exceeds maximum size")
)

func newWireErrorMsg(code byte, msg string) WireError {
	return &wireError{code: code, msg: msg}
}

// encodeWireError renders e as the ASCII reply body "Exx".
func encodeWireError(e WireError) []byte {
	out := make([]byte, 3)
	out[0] = 'E'
	out[1] = hexNibble[e.Code()>>4]
	out[2] = hexNibble[e.Code()&0x0f]
	return out
}
