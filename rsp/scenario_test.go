package rsp_test

import (
	"testing"

	"xtstub/rsp"
)

// framePacket builds a well-formed "$payload#cc" wire packet, computing
// its own checksum rather than trusting a hand-copied literal.
func framePacket(payload string) []byte {
	return append([]byte("$"+payload+"#"), checksumHex(payload)...)
}

func checksumHex(payload string) string {
	var sum byte
	for i := 0; i < len(payload); i++ {
		sum += payload[i]
	}
	const hex = "0123456789abcdef"
	return string([]byte{hex[sum>>4], hex[sum&0x0f]})
}

// exchange feeds cmd through a fresh Framer/CommandDispatcher pair (as
// Session.Serve would, minus the loop) and returns the raw bytes written
// to the transport, ack byte included.
func exchange(t *testing.T, bridge rsp.TargetBridge, cmdPayload string) string {
	t.Helper()
	pt := rsp.NewPipeTransport(append(framePacket(cmdPayload), '+'))
	f := rsp.NewFramer(pt)
	buf := make([]byte, 4096)
	n, err := f.Recv(buf)
	if err != nil {
		t.Fatalf("Recv(%q): %v", cmdPayload, err)
	}
	d := rsp.NewCommandDispatcher(bridge)
	reply, _ := d.Handle(buf[:n])
	if reply != nil {
		if _, err := f.Send(reply); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	return string(pt.Written())
}

// TestScenarioS1QSupported locks in spec.md's S1: the mandatory
// swbreak+/hwbreak+/PacketSize=FF feature string (checksums are computed
// here rather than copied from the spec prose, which quotes them only
// as illustrative "<cc>" placeholders for most scenarios).
func TestScenarioS1QSupported(t *testing.T) {
	bridge := newTestBridge()
	got := exchange(t, bridge, "qSupported:multiprocess+")
	wantBody := "swbreak+;hwbreak+;PacketSize=FF;QStartNoAckMode+"
	want := "+$" + wantBody + "#" + checksumHex(wantBody)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestScenarioS2HaltReason locks in spec.md's S2: signal 0, not 5 — this
// is a post-mortem reconstruction, not a live trap.
func TestScenarioS2HaltReason(t *testing.T) {
	bridge := newTestBridge()
	got := exchange(t, bridge, "?")
	want := "+$S00#" + checksumHex("S00")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestScenarioS3ReadMappedByte locks in spec.md's S3.
func TestScenarioS3ReadMappedByte(t *testing.T) {
	state := &rsp.DebugState{}
	data := make([]byte, 0x18000)
	data[0x10] = 0xAB
	state.AddRegion(0x3ffe8000, data)
	bridge := rsp.NewStateBridge(state)

	got := exchange(t, bridge, "m3ffe8010,1")
	want := "+$ab#" + checksumHex("ab")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestScenarioS4ReadUnmappedByte locks in spec.md's S4, confirming the
// uniform E00 wire error contract (not E01/E02/E03).
func TestScenarioS4ReadUnmappedByte(t *testing.T) {
	state := &rsp.DebugState{}
	state.AddRegion(0x3ffe8000, make([]byte, 0x18000))
	bridge := rsp.NewStateBridge(state)

	got := exchange(t, bridge, "m40000000,1")
	want := "+$E00#" + checksumHex("E00")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestScenarioS5ReadPCRegister locks in spec.md's S5: little-endian byte
// order for p0.
func TestScenarioS5ReadPCRegister(t *testing.T) {
	state := &rsp.DebugState{Registers: rsp.RegisterFile{PC: 0x40100ABC}}
	bridge := rsp.NewStateBridge(state)

	got := exchange(t, bridge, "p0")
	want := "+$bc0a1040#" + checksumHex("bc0a1040")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestScenarioS6WriteMemoryAndReadBack locks in spec.md's S6.
func TestScenarioS6WriteMemoryAndReadBack(t *testing.T) {
	state := &rsp.DebugState{}
	state.AddRegion(0x3ffe8000, make([]byte, 0x10))
	bridge := rsp.NewStateBridge(state)

	gotWrite := exchange(t, bridge, "M3ffe8000,2:dead")
	wantWrite := "+$OK#" + checksumHex("OK")
	if gotWrite != wantWrite {
		t.Errorf("write: got %q, want %q", gotWrite, wantWrite)
	}

	gotRead := exchange(t, bridge, "m3ffe8000,2")
	wantRead := "+$dead#" + checksumHex("dead")
	if gotRead != wantRead {
		t.Errorf("read-back: got %q, want %q", gotRead, wantRead)
	}
}
