package rsp_test

import (
	"bytes"
	"testing"

	"xtstub/rsp"
)

func TestEncodeBinEscapesReserved(t *testing.T) {
	out := make([]byte, 16)
	n, err := rsp.EncodeBin(out, []byte{'$', '#', '}', '*', 'a'})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{'}', '$' ^ 0x20, '}', '#' ^ 0x20, '}', '}' ^ 0x20, '}', '*' ^ 0x20, 'a'}
	if !bytes.Equal(out[:n], want) {
		t.Errorf("got %x, want %x", out[:n], want)
	}
}

func TestEncodeBinPlainPassthrough(t *testing.T) {
	out := make([]byte, 4)
	n, err := rsp.EncodeBin(out, []byte{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out[:n], []byte{1, 2, 3}) {
		t.Errorf("got %x", out[:n])
	}
}

func TestDecodeBinRoundTrip(t *testing.T) {
	data := []byte{'$', '#', '}', '*', 'a', 0x00, 0xff}
	enc := make([]byte, len(data)*2)
	n, err := rsp.EncodeBin(enc, data)
	if err != nil {
		t.Fatal(err)
	}
	dec := make([]byte, len(data))
	m, err := rsp.DecodeBin(enc[:n], dec)
	if err != nil {
		t.Fatal(err)
	}
	if m != len(data) || !bytes.Equal(dec, data) {
		t.Errorf("round trip mismatch: got %x, want %x", dec[:m], data)
	}
}

func TestDecodeBinDanglingEscape(t *testing.T) {
	dec := make([]byte, 4)
	if _, err := rsp.DecodeBin([]byte{'a', '}'}, dec); err != rsp.ErrBadInput {
		t.Errorf("got %v, want ErrBadInput", err)
	}
}
