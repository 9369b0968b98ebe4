// Package ines implements a reader for roms in the iNES file format, used
// for the distribution of NES binary programs. NES 2.0 headers are detected
// and the extended mapper/submapper fields are decoded.
package ines

import (
	"fmt"
	"io"
	"os"
)

type Rom struct {
	header
	Trainer []byte // Trainer, 512 bytes if present, or empty.
	PRG     []byte // PRG is PRG ROM data (length is multiples of 16k)
	CHR     []byte // CHR is CHR ROM data (length is multiples of 8k)
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, err
	}
	return rom, nil
}

// ReadFrom implements the io.ReaderFrom interface.
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	// header
	var off int
	if err := rom.decode(buf); err != nil {
		return 0, fmt.Errorf("failed to decode header: %w", err)
	}
	off += 16

	// trainer
	if rom.HasTrainer() {
		if len(buf) < off+512 {
			return 0, fmt.Errorf("incomplete TRAINER section")
		}
		rom.Trainer = buf[off : off+512]
		off += 512
	}

	// PRG rom data
	if len(buf) < off+rom.prgsz {
		return 0, fmt.Errorf("incomplete PRG section")
	}
	rom.PRG = buf[off : off+rom.prgsz]
	off += rom.prgsz

	// CHR rom data
	if len(buf) < off+rom.chrsz {
		return 0, fmt.Errorf("incomplete CHR section")
	}
	rom.CHR = buf[off : off+rom.chrsz]
	off += rom.chrsz

	return int64(len(buf)), nil
}

const Magic = "NES\x1a"

func (hdr *header) decode(p []byte) error {
	if len(p) < 16 {
		return fmt.Errorf("too small, needs 16 bytes")
	}
	if string(p[:4]) != Magic {
		return fmt.Errorf("invalid magic number")
	}
	copy(hdr.raw[:], p[:16])

	hdr.prgsz = int(hdr.raw[4]) * 16384
	hdr.chrsz = int(hdr.raw[5]) * 8192
	return nil
}

type header struct {
	raw   [16]byte
	prgsz int
	chrsz int
}

// NTMirroring is the hardwired nametable mirroring declared by the header.
type NTMirroring int

const (
	HorzMirroring NTMirroring = iota
	VertMirroring
	OnlyAScreen
	OnlyBScreen
	FourScreenMirroring
)

func (m NTMirroring) String() string {
	switch m {
	case HorzMirroring:
		return "horizontal"
	case VertMirroring:
		return "vertical"
	case OnlyAScreen:
		return "single-screen A"
	case OnlyBScreen:
		return "single-screen B"
	case FourScreenMirroring:
		return "four-screen"
	}
	return fmt.Sprintf("NTMirroring(%d)", int(m))
}

// IsNES2 reports whether the header uses the NES 2.0 extended format.
func (hdr *header) IsNES2() bool {
	return hdr.raw[7]&0x0C == 0x08
}

// HasTrainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// HasPersistent indicates the presence of persistent memory in the rom.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// Mirroring returns the nametable mirroring hardwired on the board. Mappers
// with mapper-controlled mirroring override it at runtime.
func (hdr *header) Mirroring() NTMirroring {
	if hdr.raw[6]&0x08 != 0 {
		return FourScreenMirroring
	}
	if hdr.raw[6]&0x01 != 0 {
		return VertMirroring
	}
	return HorzMirroring
}

// Mapper returns the mapper number. The high nibbles come from flags 7 (and
// flags 8 for NES 2.0 roms).
func (hdr *header) Mapper() uint16 {
	m := uint16(hdr.raw[6]>>4) | uint16(hdr.raw[7]&0xF0)
	if hdr.IsNES2() {
		m |= uint16(hdr.raw[8]&0x0F) << 8
	}
	return m
}

// SubMapper returns the NES 2.0 submapper number, or 0 for iNES roms.
func (hdr *header) SubMapper() uint8 {
	if hdr.IsNES2() {
		return hdr.raw[8] >> 4
	}
	return 0
}

// PRGRAMSize returns the size in bytes of the PRG RAM the board carries.
// iNES roms predating the field get the conventional 8KB.
func (hdr *header) PRGRAMSize() int {
	if hdr.IsNES2() {
		shift := hdr.raw[10] & 0x0F
		if shift == 0 {
			return 0
		}
		return 64 << shift
	}
	if hdr.raw[8] != 0 {
		return int(hdr.raw[8]) * 8192
	}
	return 8192
}

// PrintInfos writes a human readable description of the rom header to w.
func (rom *Rom) PrintInfos(w io.Writer) {
	format := "iNES"
	if rom.IsNES2() {
		format = "NES 2.0"
	}
	fmt.Fprintf(w, "format:      %s\n", format)
	fmt.Fprintf(w, "mapper:      %d", rom.Mapper())
	if sub := rom.SubMapper(); sub != 0 {
		fmt.Fprintf(w, ".%d", sub)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "PRG ROM:     %d KB\n", len(rom.PRG)/1024)
	fmt.Fprintf(w, "CHR ROM:     %d KB\n", len(rom.CHR)/1024)
	fmt.Fprintf(w, "PRG RAM:     %d KB\n", rom.PRGRAMSize()/1024)
	fmt.Fprintf(w, "mirroring:   %s\n", rom.Mirroring())
	fmt.Fprintf(w, "battery:     %t\n", rom.HasPersistent())
	fmt.Fprintf(w, "trainer:     %t\n", rom.HasTrainer())
}
