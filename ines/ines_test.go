package ines

import (
	"bytes"
	"strings"
	"testing"
)

// buildRom assembles a minimal rom image in memory.
func buildRom(flags6, flags7, flags8 uint8, nprg, nchr int) []byte {
	hdr := []byte(Magic)
	hdr = append(hdr, uint8(nprg), uint8(nchr), flags6, flags7, flags8, 0, 0, 0, 0, 0, 0, 0)
	buf := append(hdr, make([]byte, nprg*16384+nchr*8192)...)
	return buf
}

func TestRomDecode(t *testing.T) {
	buf := buildRom(0x10, 0x00, 0, 2, 1)
	rom := new(Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(buf)); err != nil {
		t.Fatal(err)
	}

	if got := rom.Mapper(); got != 1 {
		t.Errorf("Mapper() = %d, want 1", got)
	}
	if got := len(rom.PRG); got != 32768 {
		t.Errorf("len(PRG) = %d, want 32768", got)
	}
	if got := len(rom.CHR); got != 8192 {
		t.Errorf("len(CHR) = %d, want 8192", got)
	}
	if rom.Mirroring() != HorzMirroring {
		t.Errorf("Mirroring() = %s, want horizontal", rom.Mirroring())
	}
}

func TestRomDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", nil},
		{"bad magic", []byte("NOPE0000000000000")},
		{"truncated PRG", buildRom(0, 0, 0, 2, 0)[:16+1000]},
		{"truncated CHR", buildRom(0, 0, 0, 1, 1)[:16+16384+100]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rom := new(Rom)
			if _, err := rom.ReadFrom(bytes.NewReader(tt.buf)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRomNES2(t *testing.T) {
	// flags6 sets four-screen and mapper low nibble; flags7 bits 2-3 == 10
	// marks NES 2.0; flags8 carries mapper high bits and submapper.
	buf := buildRom(0xC9, 0x18, 0x52, 1, 1)
	rom := new(Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(buf)); err != nil {
		t.Fatal(err)
	}

	if !rom.IsNES2() {
		t.Fatal("IsNES2() = false")
	}
	if got := rom.Mapper(); got != 0x21C {
		t.Errorf("Mapper() = %d, want %d", got, 0x21C)
	}
	if got := rom.SubMapper(); got != 5 {
		t.Errorf("SubMapper() = %d, want 5", got)
	}
	if rom.Mirroring() != FourScreenMirroring {
		t.Errorf("Mirroring() = %s, want four-screen", rom.Mirroring())
	}
}

func TestRomTrainer(t *testing.T) {
	hdr := []byte(Magic)
	hdr = append(hdr, 1, 0, 0x04, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	buf := append(hdr, make([]byte, 512+16384)...)

	rom := new(Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(buf)); err != nil {
		t.Fatal(err)
	}
	if len(rom.Trainer) != 512 {
		t.Errorf("len(Trainer) = %d, want 512", len(rom.Trainer))
	}
}

func TestPrintInfos(t *testing.T) {
	rom := new(Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(buildRom(0x01, 0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	rom.PrintInfos(&sb)
	for _, want := range []string{"mapper:      0", "PRG ROM:     16 KB", "mirroring:   vertical"} {
		if !strings.Contains(sb.String(), want) {
			t.Errorf("PrintInfos output missing %q:\n%s", want, sb.String())
		}
	}
}
