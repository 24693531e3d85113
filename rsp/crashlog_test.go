package rsp_test

import (
	"errors"
	"strings"
	"testing"

	"xtstub/rsp"
)

func sampleCrashLog() string {
	var b strings.Builder
	b.WriteString("Fatal exception (0):\n")
	b.WriteString("PC: 40201234 PS: 00000030 SAR: 00000014 VPRI: 00000000\n")
	b.WriteString("A0: 00000000 A1: 3ffe8770 A2: 00000003 A3: 3ffe87a0\n")
	b.WriteString("A4: 3ffeedc0 A5: 00000000 A6: 00000000 A7: 00000000\n")
	b.WriteString("A8: 00000000 A9: 00000000 A10: 00000000 A11: 00000000\n")
	b.WriteString("A12: 00000000 A13: 00000000 A14: 00000000 A15: 00000000\n")
	b.WriteString("LITBASE: 00000000 SR176: 00000000 SR208: 00000000\n")
	b.WriteString("\n")
	b.WriteString(">>>stack>>>\n")
	b.WriteString("3ffe8000: 01020304 05060708 090a0b0c 0d0e0f10\n")
	for i := 1; i < 0x18000/16; i++ {
		b.WriteString("3ffe8010: 00000000 00000000 00000000 00000000\n")
	}
	return b.String()
}

func TestParseCrashLogRegisters(t *testing.T) {
	regs, mem, err := rsp.ParseCrashLog(strings.NewReader(sampleCrashLog()))
	if err != nil {
		t.Fatal(err)
	}
	if regs.PC != 0x40201234 {
		t.Errorf("PC = %x, want 40201234", regs.PC)
	}
	if regs.PS != 0x30 {
		t.Errorf("PS = %x, want 30", regs.PS)
	}
	if regs.SAR != 0x14 {
		t.Errorf("SAR = %x, want 14", regs.SAR)
	}
	if regs.A[1] != 0x3ffe8770 {
		t.Errorf("A1 = %x, want 3ffe8770", regs.A[1])
	}
	if mem.Base != 0x3ffe8000 {
		t.Errorf("base = %x, want 3ffe8000", mem.Base)
	}
	if mem.Size() != 0x18000 {
		t.Errorf("size = %x, want 18000", mem.Size())
	}
	if mem.Data[0] != 0x01 || mem.Data[3] != 0x04 {
		t.Errorf("first dump line not decoded correctly: %x", mem.Data[:4])
	}
}

func TestParseCrashLogMissingMarkerFails(t *testing.T) {
	_, _, err := rsp.ParseCrashLog(strings.NewReader("nothing interesting here\n"))
	if !errors.Is(err, rsp.ErrBadCrashLog) {
		t.Errorf("got %v, want wrapped ErrBadCrashLog", err)
	}
}
