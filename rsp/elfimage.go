package rsp

import (
	"debug/elf"
	"io"
)

// LoadELFSegments enumerates the loadable program headers of an ELF
// image, returning one MemoryRegion per PT_LOAD segment with a nonzero
// virtual address. Each region holds Filesz bytes read from the
// segment's file offset, zero-padded out to Memsz — the .bss-like tail a
// real loader would zero-fill, without this package implementing
// relocation or dynamic linking: this is a flat post-mortem memory
// image, not a loader.
//
// There is no third-party ELF reader anywhere in the example corpus this
// package was grounded on, so this one component uses the standard
// library's debug/elf directly rather than following an ecosystem
// pattern.
func LoadELFSegments(r io.ReaderAt) ([]MemoryRegion, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var regions []MemoryRegion
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD || prog.Vaddr == 0 {
			continue
		}
		data := make([]byte, prog.Memsz)
		if prog.Filesz > 0 {
			if _, err := prog.ReadAt(data[:prog.Filesz], 0); err != nil && err != io.EOF {
				return nil, err
			}
		}
		regions = append(regions, MemoryRegion{Base: uint32(prog.Vaddr), Data: data})
	}
	return regions, nil
}
