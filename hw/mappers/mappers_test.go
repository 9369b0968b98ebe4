package mappers

import (
	"bytes"
	"errors"
	"testing"

	"famicore/hw"
	"famicore/hw/hwio"
	"famicore/ines"
)

// makeROM builds a synthetic iNES rom. Each 16KB PRG bank is filled with
// its bank number plus one, each 8KB CHR bank with 0x80 plus its number,
// so tests can tell which bank is mapped by reading any byte of it.
func makeROM(t *testing.T, mapper int, prgBanks, chrBanks int, flags6low uint8) *ines.Rom {
	t.Helper()

	data := make([]byte, 16)
	copy(data, ines.Magic)
	data[4] = byte(prgBanks)
	data[5] = byte(chrBanks)
	data[6] = uint8(mapper)<<4 | flags6low
	data[7] = uint8(mapper) & 0xF0

	for i := range prgBanks {
		bank := bytes.Repeat([]byte{byte(i + 1)}, 0x4000)
		data = append(data, bank...)
	}
	for i := range chrBanks {
		bank := bytes.Repeat([]byte{byte(0x80 + i)}, 0x2000)
		data = append(data, bank...)
	}

	rom := new(ines.Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(data)); err != nil {
		t.Fatalf("failed to build test rom: %v", err)
	}
	return rom
}

type testConsole struct {
	cpu *hw.CPU
	bus *hwio.Table
	ppu *hw.PPU
}

func newTestConsole(t *testing.T, rom *ines.Rom) *testConsole {
	t.Helper()

	bus := hwio.NewTable("cpu")
	cpu := hw.NewCPU(bus)
	ppu := hw.NewPPU()
	if err := Load(rom, cpu, bus, ppu); err != nil {
		t.Fatalf("failed to load mapper: %v", err)
	}
	return &testConsole{cpu: cpu, bus: bus, ppu: ppu}
}

func TestLoadUnsupportedMapper(t *testing.T) {
	rom := makeROM(t, 4, 1, 1, 0)

	bus := hwio.NewTable("cpu")
	cpu := hw.NewCPU(bus)
	ppu := hw.NewPPU()
	err := Load(rom, cpu, bus, ppu)
	if err == nil {
		t.Fatal("expected an error for an unsupported mapper")
	}
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("error is %T, want *ConfigError", err)
	}
	if cerr.Mapper != 4 {
		t.Errorf("ConfigError.Mapper = %d, want 4", cerr.Mapper)
	}
}

func TestNROM(t *testing.T) {
	c := newTestConsole(t, makeROM(t, 0, 1, 1, 0))

	// A single 16KB bank mirrors at $8000 and $C000.
	if got := c.bus.Peek8(0x8000); got != 1 {
		t.Errorf("$8000 = %02x, want 01", got)
	}
	if got := c.bus.Peek8(0xC000); got != 1 {
		t.Errorf("$C000 = %02x, want 01", got)
	}
	if got := c.ppu.Bus.Peek8(0x1FFF); got != 0x80 {
		t.Errorf("CHR $1FFF = %02x, want 80", got)
	}

	// PRG RAM at $6000.
	c.bus.Write8(0x6000, 0x42)
	if got := c.bus.Peek8(0x6000); got != 0x42 {
		t.Errorf("$6000 = %02x, want 42", got)
	}
}

func TestNROMMirroring(t *testing.T) {
	// Horizontal mirroring: $2000 and $2400 are the same table.
	c := newTestConsole(t, makeROM(t, 0, 1, 1, 0))
	c.ppu.Bus.Write8(0x2005, 0xAA)
	if got := c.ppu.Bus.Peek8(0x2405); got != 0xAA {
		t.Errorf("horizontal: $2405 = %02x, want AA", got)
	}
	if got := c.ppu.Bus.Peek8(0x2805); got == 0xAA {
		t.Error("horizontal: $2805 should be a different table")
	}

	// Vertical mirroring: $2000 and $2800 are the same table.
	c = newTestConsole(t, makeROM(t, 0, 1, 1, 0x01))
	c.ppu.Bus.Write8(0x2005, 0xBB)
	if got := c.ppu.Bus.Peek8(0x2805); got != 0xBB {
		t.Errorf("vertical: $2805 = %02x, want BB", got)
	}
	if got := c.ppu.Bus.Peek8(0x2405); got == 0xBB {
		t.Error("vertical: $2405 should be a different table")
	}
}

func TestCHRRAM(t *testing.T) {
	// A rom without CHR gets 8KB of CHR RAM.
	c := newTestConsole(t, makeROM(t, 0, 1, 0, 0))
	c.ppu.Bus.Write8(0x1234, 0x56)
	if got := c.ppu.Bus.Peek8(0x1234); got != 0x56 {
		t.Errorf("CHR RAM $1234 = %02x, want 56", got)
	}
}

func TestUxROM(t *testing.T) {
	c := newTestConsole(t, makeROM(t, 2, 4, 0, 0))

	// Bank 0 at $8000, last bank fixed at $C000.
	if got := c.bus.Peek8(0x8000); got != 1 {
		t.Errorf("$8000 = %02x, want 01", got)
	}
	if got := c.bus.Peek8(0xC000); got != 4 {
		t.Errorf("$C000 = %02x, want 04", got)
	}

	c.bus.Write8(0x8000, 2)
	if got := c.bus.Peek8(0x8000); got != 3 {
		t.Errorf("$8000 = %02x after switch, want 03", got)
	}
	if got := c.bus.Peek8(0xC000); got != 4 {
		t.Errorf("$C000 = %02x after switch, want 04 (fixed)", got)
	}
}

func TestCNROM(t *testing.T) {
	c := newTestConsole(t, makeROM(t, 3, 2, 4, 0))

	if got := c.ppu.Bus.Peek8(0x0000); got != 0x80 {
		t.Errorf("CHR $0000 = %02x, want 80", got)
	}

	c.bus.Write8(0x8000, 3)
	if got := c.ppu.Bus.Peek8(0x0000); got != 0x83 {
		t.Errorf("CHR $0000 = %02x after switch, want 83", got)
	}
}

func TestAxROM(t *testing.T) {
	c := newTestConsole(t, makeROM(t, 7, 8, 0, 0))

	// 32KB banks: bank 0 holds 16KB banks 1 and 2.
	if got := c.bus.Peek8(0x8000); got != 1 {
		t.Errorf("$8000 = %02x, want 01", got)
	}
	if got := c.bus.Peek8(0xC000); got != 2 {
		t.Errorf("$C000 = %02x, want 02", got)
	}

	c.bus.Write8(0x8000, 1)
	if got := c.bus.Peek8(0x8000); got != 3 {
		t.Errorf("$8000 = %02x after switch, want 03", got)
	}

	// Bit 4 selects the nametable. Single-screen A first.
	c.ppu.Bus.Write8(0x2000, 0x11)
	if got := c.ppu.Bus.Peek8(0x2C00); got != 0x11 {
		t.Errorf("single-screen A: $2C00 = %02x, want 11", got)
	}

	c.bus.Write8(0x8000, 0x11) // same PRG bank, switch to screen B
	c.ppu.Bus.Write8(0x2000, 0x22)
	if got := c.ppu.Bus.Peek8(0x2C00); got != 0x22 {
		t.Errorf("single-screen B: $2C00 = %02x, want 22", got)
	}

	c.bus.Write8(0x8000, 0x01) // back to screen A
	if got := c.ppu.Bus.Peek8(0x2000); got != 0x11 {
		t.Errorf("back to screen A: $2000 = %02x, want 11", got)
	}
}

func TestGxROM(t *testing.T) {
	c := newTestConsole(t, makeROM(t, 66, 4, 2, 0))

	if got := c.bus.Peek8(0x8000); got != 1 {
		t.Errorf("$8000 = %02x, want 01", got)
	}

	// PP=1, CC=1.
	c.bus.Write8(0x8000, 0x11)
	if got := c.bus.Peek8(0x8000); got != 3 {
		t.Errorf("$8000 = %02x after switch, want 03", got)
	}
	if got := c.ppu.Bus.Peek8(0x0000); got != 0x81 {
		t.Errorf("CHR $0000 = %02x after switch, want 81", got)
	}
}

// mmc1Write shifts a 5-bit value into an MMC1 register, one serial write
// per iteration, spacing the writes a few CPU cycles apart.
func (c *testConsole) mmc1Write(addr uint16, val uint8) {
	for range 5 {
		c.cpu.Clock += 3
		c.bus.Write8(addr, val&1)
		val >>= 1
	}
}

func TestMMC1(t *testing.T) {
	c := newTestConsole(t, makeROM(t, 1, 8, 2, 0))

	// Powerup: 16KB mode, bank 0 at $8000, last bank at $C000.
	if got := c.bus.Peek8(0x8000); got != 1 {
		t.Errorf("$8000 = %02x, want 01", got)
	}
	if got := c.bus.Peek8(0xC000); got != 8 {
		t.Errorf("$C000 = %02x, want 08", got)
	}

	// Switch $8000 to bank 5.
	c.mmc1Write(0xE000, 5)
	if got := c.bus.Peek8(0x8000); got != 6 {
		t.Errorf("$8000 = %02x after switch, want 06", got)
	}
	if got := c.bus.Peek8(0xC000); got != 8 {
		t.Errorf("$C000 = %02x after switch, want 08 (fixed)", got)
	}

	// CTRL: vertical mirroring, 32KB PRG mode.
	c.mmc1Write(0x8000, 0x02)
	c.mmc1Write(0xE000, 4)
	if got := c.bus.Peek8(0x8000); got != 5 {
		t.Errorf("32KB mode: $8000 = %02x, want 05", got)
	}
	if got := c.bus.Peek8(0xC000); got != 6 {
		t.Errorf("32KB mode: $C000 = %02x, want 06", got)
	}

	c.ppu.Bus.Write8(0x2000, 0x33)
	if got := c.ppu.Bus.Peek8(0x2800); got != 0x33 {
		t.Errorf("vertical mirroring: $2800 = %02x, want 33", got)
	}

	// 4KB CHR mode with two different banks.
	c.mmc1Write(0x8000, 0x12)
	c.mmc1Write(0xA000, 1)
	c.mmc1Write(0xC000, 2)
	if got := c.ppu.Bus.Peek8(0x0000); got != 0x80 {
		t.Errorf("CHR $0000 = %02x, want 80", got)
	}
	if got := c.ppu.Bus.Peek8(0x1000); got != 0x81 {
		t.Errorf("CHR $1000 = %02x, want 81", got)
	}
}

func TestMMC1WRAMDisable(t *testing.T) {
	c := newTestConsole(t, makeROM(t, 1, 8, 2, 0))

	c.bus.Write8(0x6000, 0xAB)
	if got := c.bus.Peek8(0x6000); got != 0xAB {
		t.Fatalf("$6000 = %02x, want ab", got)
	}

	// $E000 bit 4 disables the RAM chip: reads float to open bus and
	// writes are lost.
	c.mmc1Write(0xE000, 0x10)
	if got := c.bus.Peek8(0x6000); got != 0x60 {
		t.Errorf("$6000 = %02x with RAM disabled, want 60 (open bus)", got)
	}
	c.bus.Write8(0x6000, 0x12)

	c.mmc1Write(0xE000, 0x00)
	if got := c.bus.Peek8(0x6000); got != 0xAB {
		t.Errorf("$6000 = %02x after re-enable, want ab", got)
	}
}

func TestMMC1ResetBit(t *testing.T) {
	c := newTestConsole(t, makeROM(t, 1, 8, 2, 0))

	// Start shifting a value, then abort with bit 7 set: the shift
	// register resets and $C000 snaps back to the last bank.
	c.cpu.Clock += 3
	c.bus.Write8(0x8000, 1)
	c.cpu.Clock += 3
	c.bus.Write8(0x8000, 0x80)

	c.mmc1Write(0xE000, 3)
	if got := c.bus.Peek8(0x8000); got != 4 {
		t.Errorf("$8000 = %02x, want 04 (shift register was reset)", got)
	}
	if got := c.bus.Peek8(0xC000); got != 8 {
		t.Errorf("$C000 = %02x, want 08", got)
	}
}

func TestMMC1IgnoresConsecutiveWrites(t *testing.T) {
	c := newTestConsole(t, makeROM(t, 1, 8, 2, 0))

	// Two writes on back to back cycles: the second is dropped, so after
	// 5 spaced writes plus one dropped one, the register is not full yet.
	c.cpu.Clock += 3
	c.bus.Write8(0xE000, 1)
	c.cpu.Clock += 1
	c.bus.Write8(0xE000, 1) // dropped

	for range 3 {
		c.cpu.Clock += 3
		c.bus.Write8(0xE000, 0)
	}
	if got := c.bus.Peek8(0x8000); got != 1 {
		t.Errorf("$8000 = %02x, want 01 (register not complete)", got)
	}

	// The 5th spaced write completes the value 0b00001 = bank 1.
	c.cpu.Clock += 3
	c.bus.Write8(0xE000, 0)
	if got := c.bus.Peek8(0x8000); got != 2 {
		t.Errorf("$8000 = %02x, want 02", got)
	}
}
