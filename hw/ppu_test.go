package hw

import (
	"testing"
)

// testConsolePPU wires a PPU to a CPU bus the way the console does: CHR
// RAM at $0000, vertically mirrored nametables, registers at $2000.
type testConsolePPU struct {
	ppu *PPU
	cpu *CPU
	bus *testBus
	chr []uint8
}

func newTestPPU(t *testing.T) *testConsolePPU {
	t.Helper()

	bus := newTestBus()
	cpu := NewCPU(bus)
	ppu := NewPPU()
	ppu.CPU = cpu

	chr := make([]uint8, 0x2000)
	ppu.Bus.MapMemorySlice(0x0000, 0x1FFF, chr, false)
	ppu.Bus.MapMemorySlice(0x2000, 0x2FFF, ppu.NameTables[:], false)
	ppu.Bus.MapMemorySlice(0x3000, 0x3EFF, ppu.NameTables[:], false)

	return &testConsolePPU{ppu: ppu, cpu: cpu, bus: bus, chr: chr}
}

func (tc *testConsolePPU) writeReg(addr uint16, val uint8) {
	switch addr & 7 {
	case 0:
		tc.ppu.PPUCTRL.Write8(addr, val)
	case 1:
		tc.ppu.PPUMASK.Write8(addr, val)
	case 3:
		tc.ppu.OAMADDR.Write8(addr, val)
	case 4:
		tc.ppu.OAMDATA.Write8(addr, val)
	case 5:
		tc.ppu.PPUSCROLL.Write8(addr, val)
	case 6:
		tc.ppu.PPUADDR.Write8(addr, val)
	case 7:
		tc.ppu.PPUDATA.Write8(addr, val)
	}
}

func (tc *testConsolePPU) readReg(addr uint16) uint8 {
	switch addr & 7 {
	case 2:
		return tc.ppu.PPUSTATUS.Read8(addr, false)
	case 4:
		return tc.ppu.OAMDATA.Read8(addr, false)
	case 7:
		return tc.ppu.PPUDATA.Read8(addr, false)
	}
	return 0
}

// setAddr performs the two PPUADDR writes forming a full VRAM address.
func (tc *testConsolePPU) setAddr(addr uint16) {
	tc.writeReg(0x2006, uint8(addr>>8))
	tc.writeReg(0x2006, uint8(addr))
}

func TestPPUFrameCadence(t *testing.T) {
	tc := newTestPPU(t)
	p := tc.ppu

	ready := 0
	for i := 0; i < NumScanlines*NumCycles; i++ {
		p.Tick()
		if p.FrameReady() {
			ready++
			if sl, dot := p.Coords(); sl != 241 || dot != 1 {
				t.Errorf("frame ready at %d,%d, want 241,1", sl, dot)
			}
		}
	}
	if ready != 1 {
		t.Errorf("got %d frames in one frame worth of dots, want 1", ready)
	}
	if sl, dot := p.Coords(); sl != 0 || dot != 0 {
		t.Errorf("after a full frame, beam at %d,%d, want 0,0", sl, dot)
	}
	if p.Frame != 1 {
		t.Errorf("Frame = %d, want 1", p.Frame)
	}
}

func TestPPUVblankNMI(t *testing.T) {
	tc := newTestPPU(t)
	p := tc.ppu

	// NMI disabled: the vblank flag is set but no NMI fires.
	for p.Scanline != 241 || p.Cycle != 1 {
		p.Tick()
	}
	if tc.cpu.nmiPending {
		t.Fatal("NMI fired with PPUCTRL.7 clear")
	}
	if got := tc.readReg(0x2002); got&(1<<vblank) == 0 {
		t.Fatalf("PPUSTATUS = %02x, want vblank set", got)
	}
	// Reading PPUSTATUS clears the flag.
	if got := tc.readReg(0x2002); got&(1<<vblank) != 0 {
		t.Fatalf("PPUSTATUS = %02x, want vblank cleared by read", got)
	}

	// Enabling NMI while the flag is down does nothing, but the next
	// vblank fires.
	tc.writeReg(0x2000, 1<<nmi)
	if tc.cpu.nmiPending {
		t.Fatal("NMI fired outside vblank")
	}
	p.Tick() // move off 241,1
	for p.Scanline != 241 || p.Cycle != 1 {
		p.Tick()
	}
	if !tc.cpu.nmiPending {
		t.Fatal("NMI did not fire at vblank start")
	}

	// Toggling PPUCTRL.7 during vblank retriggers the NMI.
	tc.cpu.nmiPending = false
	tc.writeReg(0x2000, 0)
	tc.writeReg(0x2000, 1<<nmi)
	if !tc.cpu.nmiPending {
		t.Fatal("NMI not retriggered by PPUCTRL.7 toggle during vblank")
	}

	// The flag goes down at pre-render dot 1.
	for p.Scanline != 261 || p.Cycle != 1 {
		p.Tick()
	}
	if got := p.PPUSTATUS.Value; got&(1<<vblank) != 0 {
		t.Fatalf("PPUSTATUS = %02x, want vblank cleared on pre-render line", got)
	}
}

func TestPPUScrollTransfers(t *testing.T) {
	tc := newTestPPU(t)
	p := tc.ppu

	// PPUSCROLL first write: coarse X and fine X.
	tc.writeReg(0x2005, 0b01111_101)
	if p.fineX != 0b101 {
		t.Errorf("fineX = %03b, want 101", p.fineX)
	}
	if got := p.vramTmp & 0x1F; got != 0b01111 {
		t.Errorf("t coarse X = %05b, want 01111", got)
	}

	// Second write: coarse Y and fine Y.
	tc.writeReg(0x2005, 0b01011_110)
	if got := p.vramTmp >> 12 & 7; got != 0b110 {
		t.Errorf("t fine Y = %03b, want 110", got)
	}
	if got := p.vramTmp >> 5 & 0x1F; got != 0b01011 {
		t.Errorf("t coarse Y = %05b, want 01011", got)
	}

	// PPUCTRL sets the nametable bits.
	tc.writeReg(0x2000, 0b11)
	if got := p.vramTmp >> 10 & 3; got != 3 {
		t.Errorf("t nametable = %02b, want 11", got)
	}

	// PPUADDR writes overwrite t and load v on the second one.
	tc.setAddr(0x23AB)
	if p.vramAddr != 0x23AB {
		t.Errorf("v = %04x, want 23ab", p.vramAddr)
	}

	// Reading PPUSTATUS resets the write latch: a single PPUADDR write
	// after it is a first write again.
	tc.writeReg(0x2006, 0x21)
	tc.readReg(0x2002)
	tc.setAddr(0x2155)
	if p.vramAddr != 0x2155 {
		t.Errorf("v = %04x, want 2155", p.vramAddr)
	}
}

func TestPPUDataReadBuffer(t *testing.T) {
	tc := newTestPPU(t)

	// Fill some VRAM through PPUDATA.
	tc.setAddr(0x2100)
	tc.writeReg(0x2007, 0xAA)
	tc.writeReg(0x2007, 0xBB)
	tc.writeReg(0x2007, 0xCC)

	// Non-palette reads are delayed by one access.
	tc.setAddr(0x2100)
	tc.readReg(0x2007) // priming read, stale buffer
	if got := tc.readReg(0x2007); got != 0xAA {
		t.Errorf("buffered read = %02x, want aa", got)
	}
	if got := tc.readReg(0x2007); got != 0xBB {
		t.Errorf("buffered read = %02x, want bb", got)
	}

	// +32 increment mode.
	tc.writeReg(0x2000, 1<<vramIncr)
	tc.setAddr(0x2100)
	tc.readReg(0x2007)
	if got := tc.ppu.vramAddr; got != 0x2120 {
		t.Errorf("v = %04x, want 2120", got)
	}
	tc.writeReg(0x2000, 0)

	// Palette reads are immediate.
	tc.setAddr(0x3F01)
	tc.writeReg(0x2007, 0x2A)
	tc.setAddr(0x3F01)
	if got := tc.readReg(0x2007); got != 0x2A {
		t.Errorf("palette read = %02x, want 2a", got)
	}
}

func TestPPUPaletteMirrors(t *testing.T) {
	tc := newTestPPU(t)

	// $3F10/$3F14/$3F18/$3F1C mirror $3F00/$3F04/$3F08/$3F0C.
	tc.setAddr(0x3F10)
	tc.writeReg(0x2007, 0x15)
	tc.setAddr(0x3F00)
	if got := tc.readReg(0x2007); got != 0x15 {
		t.Errorf("$3F00 = %02x after $3F10 write, want 15", got)
	}

	// $3F20-$3FFF mirrors the 32 palette entries.
	tc.setAddr(0x3FE4)
	tc.writeReg(0x2007, 0x27)
	tc.setAddr(0x3F04)
	if got := tc.readReg(0x2007); got != 0x27 {
		t.Errorf("$3F04 = %02x after $3FE4 write, want 27", got)
	}
}

func TestPPUOAM(t *testing.T) {
	tc := newTestPPU(t)

	tc.writeReg(0x2003, 0x10)
	tc.writeReg(0x2004, 0x40)
	tc.writeReg(0x2004, 0x41)

	// Writes increment OAMADDR, reads do not.
	tc.writeReg(0x2003, 0x10)
	if got := tc.readReg(0x2004); got != 0x40 {
		t.Errorf("oam[10] = %02x, want 40", got)
	}
	if got := tc.readReg(0x2004); got != 0x40 {
		t.Errorf("oam read incremented OAMADDR")
	}
	tc.writeReg(0x2003, 0x11)
	if got := tc.readReg(0x2004); got != 0x41 {
		t.Errorf("oam[11] = %02x, want 41", got)
	}
}

func TestPPUSprite0Hit(t *testing.T) {
	tc := newTestPPU(t)
	p := tc.ppu

	// Tile 1: solid 8x8 block in the low plane.
	for i := 0; i < 8; i++ {
		tc.chr[0x10+i] = 0xFF
	}
	// Fill nametable 0 with tile 1 so the background is opaque
	// everywhere.
	for i := 0; i < 0x3C0; i++ {
		p.NameTables[i] = 1
	}
	// Sprite 0 somewhere in the middle of the screen.
	p.oam[0] = 100 // y
	p.oam[1] = 1   // tile
	p.oam[2] = 0   // attributes
	p.oam[3] = 100 // x

	tc.writeReg(0x2001, 1<<showBg|1<<showSprites|1<<leftmostBg|1<<leftmostSprites)

	for i := 0; i < NumScanlines*NumCycles; i++ {
		p.Tick()
		if p.PPUSTATUS.GetBit(sprite0Hit) {
			if p.Scanline < 100 || p.Scanline > 110 {
				t.Errorf("sprite 0 hit at scanline %d, want near 101", p.Scanline)
			}
			return
		}
	}
	t.Fatal("sprite 0 hit not set after a full frame")
}

func TestPPUSpriteOverflow(t *testing.T) {
	tc := newTestPPU(t)
	p := tc.ppu

	// Nine sprites on scanline 50.
	for i := 0; i < 9; i++ {
		p.oam[i*4+0] = 50
		p.oam[i*4+3] = uint8(i * 8)
	}
	tc.writeReg(0x2001, 1<<showSprites)

	for p.Scanline != 51 {
		p.Tick()
	}
	if !p.PPUSTATUS.GetBit(spriteOverflow) {
		t.Error("sprite overflow not set with 9 sprites on a scanline")
	}
	if p.spriteCount != 8 {
		t.Errorf("spriteCount = %d, want 8", p.spriteCount)
	}
}

func TestPPUOddFrameSkip(t *testing.T) {
	tc := newTestPPU(t)
	p := tc.ppu

	// With rendering enabled, the last dot of the pre-render line is
	// skipped on odd frames.
	tc.writeReg(0x2001, 1<<showBg)
	p.oddFrame = true
	p.Scanline = NumScanlines - 1
	p.Cycle = NumCycles - 2
	p.Tick()
	if sl, dot := p.Coords(); sl != 0 || dot != 0 {
		t.Errorf("beam at %d,%d after odd frame skip, want 0,0", sl, dot)
	}

	// Even frames are not shortened.
	p.Scanline = NumScanlines - 1
	p.Cycle = NumCycles - 2
	p.Tick()
	if sl, dot := p.Coords(); sl != NumScanlines-1 || dot != NumCycles-1 {
		t.Errorf("beam at %d,%d, want %d,%d", sl, dot, NumScanlines-1, NumCycles-1)
	}
}
