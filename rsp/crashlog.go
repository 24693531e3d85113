package rsp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrBadCrashLog wraps every crash-log parse failure, so callers can test
// with errors.Is regardless of which stage failed.
var ErrBadCrashLog = errors.New("rsp: malformed crash log")

// crashLogRAMBase and crashLogRAMSize describe the fixed RAM window this
// post-mortem format always dumps, per the ESP8266/Xtensa crash reporter
// convention this parser targets.
const (
	crashLogRAMBase = 0x3FFE8000
	crashLogRAMSize = 0x18000
)

// ParseCrashLog scans r for the register marker line and the memory
// marker section of a post-mortem crash log, returning the decoded
// register file and the single RAM region the dump covers.
func ParseCrashLog(r io.Reader) (*RegisterFile, *MemoryRegion, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var regs *RegisterFile
	var mem *MemoryRegion

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.Contains(line, "PC"):
			r, err := parseRegisterLine(scanner, line)
			if err != nil {
				return nil, nil, err
			}
			regs = r
		case strings.Contains(line, ">>>stack>>>"), strings.Contains(line, "ctx: cont"):
			// Tolerate the surrounding ESP8266 log noise; only the two
			// markers handled above and below actually matter here.
		case strings.HasPrefix(strings.TrimSpace(line), "3ffe"), strings.HasPrefix(strings.TrimSpace(line), "3FFE"):
			m, err := parseMemoryDump(scanner, line)
			if err != nil {
				return nil, nil, err
			}
			mem = m
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadCrashLog, err)
	}
	if regs == nil {
		return nil, nil, fmt.Errorf("%w: no register marker found", ErrBadCrashLog)
	}
	if mem == nil {
		return nil, nil, fmt.Errorf("%w: no memory dump found", ErrBadCrashLog)
	}
	return regs, mem, nil
}

// parseRegisterLine decodes the register marker block: a header line
// containing "PC" followed immediately by one or more lines of
// whitespace-separated "name: hexvalue" pairs.
func parseRegisterLine(scanner *bufio.Scanner, first string) (*RegisterFile, error) {
	fields := map[string]uint32{}
	if err := scanFieldLine(first, fields); err != nil {
		return nil, err
	}
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		if err := scanFieldLine(line, fields); err != nil {
			return nil, err
		}
		if _, ok := fields["sr208"]; ok {
			break
		}
	}

	regs := &RegisterFile{}
	want := map[string]*uint32{
		"pc":      &regs.PC,
		"ps":      &regs.PS,
		"sar":     &regs.SAR,
		"litbase": &regs.LitBase,
		"sr176":   &regs.SR176,
	}
	for name, dst := range want {
		v, ok := fields[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing register %s", ErrBadCrashLog, name)
		}
		*dst = v
	}
	for i := 0; i < 16; i++ {
		name := fmt.Sprintf("a%d", i)
		v, ok := fields[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing register %s", ErrBadCrashLog, name)
		}
		regs.A[i] = v
	}
	return regs, nil
}

// scanFieldLine decodes "name: hex name: hex ..." tokens, lowercasing
// names so "PC", "A0", "LITBASE" all key consistently.
func scanFieldLine(line string, fields map[string]uint32) error {
	tokens := strings.Fields(line)
	for i := 0; i+1 < len(tokens); i++ {
		name := strings.ToLower(strings.TrimSuffix(tokens[i], ":"))
		if !isFieldName(name) {
			continue
		}
		hex := strings.TrimPrefix(tokens[i+1], "0x")
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			continue
		}
		fields[name] = uint32(v)
		i++
	}
	return nil
}

func isFieldName(s string) bool {
	switch s {
	case "pc", "ps", "sar", "litbase", "sr176", "sr208", "vpri":
		return true
	}
	if len(s) >= 2 && s[0] == 'a' {
		if _, err := strconv.Atoi(s[1:]); err == nil {
			return true
		}
	}
	return false
}

// parseMemoryDump decodes the fixed-size RAM hex dump: each line
// contributes 16 bytes in order, starting at crashLogRAMBase, until
// crashLogRAMSize bytes have been read or a non-hex line ends the
// section.
func parseMemoryDump(scanner *bufio.Scanner, first string) (*MemoryRegion, error) {
	data := make([]byte, 0, crashLogRAMSize)
	line := first
	for {
		fields := strings.Fields(line)
		if len(fields) < 1 {
			break
		}
		for _, tok := range fields[1:] {
			if len(tok) != 8 {
				continue
			}
			var raw [4]byte
			if err := DecodeHex([]byte(tok), raw[:]); err != nil {
				continue
			}
			data = append(data, raw[0], raw[1], raw[2], raw[3])
		}
		if len(data) >= crashLogRAMSize {
			break
		}
		if !scanner.Scan() {
			break
		}
		line = scanner.Text()
		if !strings.HasPrefix(strings.TrimSpace(strings.ToLower(line)), "3ffe") {
			break
		}
	}
	if len(data) > crashLogRAMSize {
		data = data[:crashLogRAMSize]
	} else if len(data) < crashLogRAMSize {
		data = append(data, make([]byte, crashLogRAMSize-len(data))...)
	}
	return &MemoryRegion{Base: crashLogRAMBase, Data: data}, nil
}
