package hw

import (
	"image"

	"famicore/emu/log"
	"famicore/hw/hwio"
)

const (
	NumScanlines = 262 // Number of scanlines per frame.
	NumCycles    = 341 // Number of PPU cycles per scanline.
)

const (
	// PPUCTRL bits
	// $2000

	// Nametable selection mask
	// (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
	ntselect = 0b11

	// VRAM address increment per CPU read/write of PPUDATA
	// (0: +1 i.e. horizontal; 1: +32 i.e. vertical)
	vramIncr = 2

	// Sprite pattern table address for 8x8 sprites
	// (0: $0000; 1: $1000; ignored in 8x16 mode)
	spriteAddr = 3

	// Background pattern table address (0: $0000; 1: $1000)
	backgroundAddr = 4

	// Sprite size (0: 8x8 pixels; 1: 8x16 pixels)
	spriteSize = 5

	// Generate an NMI at the start of the
	// vertical blanking interval (0: off; 1: on)
	nmi = 7
)

const (
	// PPUMASK bits
	// $2001

	// Greyscale (0: normal color, 1: greyscale display)
	greyscale = 0

	// Show background in leftmost 8 pixels of screen (1: show; 0: hide)
	leftmostBg = 1

	// Show sprites in leftmost 8 pixels of screen (1: show; 0: hide)
	leftmostSprites = 2

	// Show background
	showBg = 3

	// Show sprites
	showSprites = 4
)

const (
	// PPUSTATUS bits
	// $2002

	// Low 5 bits return stale PPU bus contents.
	openbusMask = 0b11111

	// Sprite overflow. Set during sprite evaluation when more than eight
	// sprites fall on a scanline, cleared at dot 1 of the pre-render line.
	spriteOverflow = 5

	// Sprite 0 hit. Set when a nonzero pixel of sprite 0 overlaps a
	// nonzero background pixel, cleared at dot 1 of the pre-render line.
	// Used for raster timing.
	sprite0Hit = 6

	// Vertical blank has started. Set at dot 1 of line 241, cleared after
	// reading $2002 and at dot 1 of the pre-render line.
	vblank = 7
)

type PPU struct {
	Bus *hwio.Table // PPU bus ($0000-$3FFF)
	CPU *CPU

	Cycle    int    // Current cycle/pixel in scanline
	Scanline int    // Current scanline being drawn
	Frame    uint64 // Completed frame count

	// $2000-$23FF	$0400	Nametable 0
	// $2400-$27FF	$0400	Nametable 1
	// $2800-$2BFF	$0400	Nametable 2
	// $2C00-$2FFF	$0400	Nametable 3
	//
	// 2KB of physical VRAM, backing the four logical nametables. The
	// cartridge mapper decides which physical half appears where, by
	// mapping slices of this buffer into the PPU bus.
	NameTables [0x800]uint8

	// CPU-exposed memory-mapped registers,
	// mapped from $2000 to $2007, mirrored up to $3FFF.
	PPUCTRL   hwio.Reg8
	PPUMASK   hwio.Reg8
	PPUSTATUS hwio.Reg8
	OAMADDR   hwio.Reg8
	OAMDATA   hwio.Reg8
	PPUSCROLL hwio.Reg8
	PPUADDR   hwio.Reg8
	PPUDATA   hwio.Reg8

	// $3F00-$3F1F palette RAM indexes, mirrored up to $3FFF.
	palettes hwio.Device
	palmem   [32]uint8

	oam [256]uint8

	// VRAM read/write
	vramAddr    uint16 // v: current VRAM address
	vramTmp     uint16 // t: temporary VRAM address
	fineX       uint8  // x: fine X scroll
	writeLatch  bool   // w: first/second write toggle
	ppuDataRbuf uint8  // PPUDATA read buffer
	regLatch    uint8  // last value seen on the register bus

	nmiPrev  bool
	oddFrame bool

	// Background fetch pipeline. tileData holds 16 pixels worth of
	// 4-bit palette indexes, current tile in the high 32 bits.
	tileData uint64
	ntByte   uint8
	atByte   uint8
	tileLo   uint8
	tileHi   uint8

	// Sprites selected for the current scanline.
	spriteCount      int
	spritePatterns   [8]uint32
	spritePositions  [8]uint8
	spritePriorities [8]uint8
	spriteIndexes    [8]uint8

	front, back *image.RGBA
	frameReady  bool
}

func NewPPU() *PPU {
	p := &PPU{
		Bus:   hwio.NewTable("ppu"),
		front: image.NewRGBA(image.Rect(0, 0, 256, 240)),
		back:  image.NewRGBA(image.Rect(0, 0, 256, 240)),
	}

	p.PPUCTRL = hwio.Reg8{Name: "PPUCTRL", Flags: hwio.WriteOnlyFlag, WriteCb: p.WritePPUCTRL}
	p.PPUMASK = hwio.Reg8{Name: "PPUMASK", Flags: hwio.WriteOnlyFlag, WriteCb: p.WritePPUMASK}
	p.PPUSTATUS = hwio.Reg8{Name: "PPUSTATUS", Flags: hwio.ReadOnlyFlag, ReadCb: p.ReadPPUSTATUS, PeekCb: p.PeekPPUSTATUS}
	p.OAMADDR = hwio.Reg8{Name: "OAMADDR", Flags: hwio.WriteOnlyFlag, WriteCb: p.WriteOAMADDR}
	p.OAMDATA = hwio.Reg8{Name: "OAMDATA", ReadCb: p.ReadOAMDATA, PeekCb: p.PeekOAMDATA, WriteCb: p.WriteOAMDATA}
	p.PPUSCROLL = hwio.Reg8{Name: "PPUSCROLL", Flags: hwio.WriteOnlyFlag, WriteCb: p.WritePPUSCROLL}
	p.PPUADDR = hwio.Reg8{Name: "PPUADDR", Flags: hwio.WriteOnlyFlag, WriteCb: p.WritePPUADDR}
	p.PPUDATA = hwio.Reg8{Name: "PPUDATA", ReadCb: p.ReadPPUDATA, PeekCb: p.PeekPPUDATA, WriteCb: p.WritePPUDATA}

	p.palettes = hwio.Device{
		Name:    "palettes",
		Size:    0x100,
		ReadCb:  p.readPaletteBus,
		PeekCb:  p.readPaletteBus,
		WriteCb: p.writePaletteBus,
	}
	p.Bus.MapDevice(0x3F00, &p.palettes)
	return p
}

// MapCPU maps the CPU-visible registers on the given bus ($2000-$2007,
// mirrored every 8 bytes up to $3FFF).
func (p *PPU) MapCPU(tbl *hwio.Table) {
	tbl.MapMirroredReg8(0x2000, 0x3FFF, 8, &p.PPUCTRL)
	tbl.MapMirroredReg8(0x2001, 0x3FFF, 8, &p.PPUMASK)
	tbl.MapMirroredReg8(0x2002, 0x3FFF, 8, &p.PPUSTATUS)
	tbl.MapMirroredReg8(0x2003, 0x3FFF, 8, &p.OAMADDR)
	tbl.MapMirroredReg8(0x2004, 0x3FFF, 8, &p.OAMDATA)
	tbl.MapMirroredReg8(0x2005, 0x3FFF, 8, &p.PPUSCROLL)
	tbl.MapMirroredReg8(0x2006, 0x3FFF, 8, &p.PPUADDR)
	tbl.MapMirroredReg8(0x2007, 0x3FFF, 8, &p.PPUDATA)
}

// Output returns the last completed frame.
func (p *PPU) Output() *image.RGBA {
	return p.front
}

// FrameReady reports whether a frame has been completed since the last
// call, and clears the flag.
func (p *PPU) FrameReady() bool {
	ready := p.frameReady
	p.frameReady = false
	return ready
}

// Coords returns the current beam position, for tracing.
func (p *PPU) Coords() (scanline, dot int) {
	return p.Scanline, p.Cycle
}

func (p *PPU) Reset() {
	p.Cycle = 0
	p.Scanline = 0
	p.writeLatch = false
	p.vramAddr = 0
	p.vramTmp = 0
	p.fineX = 0
	p.ppuDataRbuf = 0
	p.oddFrame = false
	p.nmiPrev = false
	p.tileData = 0
	p.spriteCount = 0
	p.PPUCTRL.Value = 0
	p.PPUMASK.Value = 0
	p.PPUSTATUS.Value = 0
}

func (p *PPU) renderingEnabled() bool {
	return p.PPUMASK.GetBit(showBg) || p.PPUMASK.GetBit(showSprites)
}

// nmiChange re-evaluates the /nmi line. The line is low while both
// PPUCTRL.7 and the vblank flag are set; the CPU triggers on the falling
// edge, so toggling PPUCTRL.7 during vblank without reading PPUSTATUS
// generates multiple NMIs.
func (p *PPU) nmiChange() {
	cur := p.PPUCTRL.GetBit(nmi) && p.PPUSTATUS.GetBit(vblank)
	if cur && !p.nmiPrev {
		p.CPU.TriggerNMI()
	}
	p.nmiPrev = cur
}

// PPUCTRL: $2000
func (p *PPU) WritePPUCTRL(old, val uint8) {
	log.ModPPU.DebugZ("Write to PPUCTRL").Hex8("val", val).End()

	// Transfer the nametable bits.
	p.vramTmp &^= ntselect << 10
	p.vramTmp |= (uint16(val) & ntselect) << 10

	p.regLatch = val
	p.nmiChange()
}

// PPUMASK: $2001
func (p *PPU) WritePPUMASK(old, val uint8) {
	log.ModPPU.DebugZ("Write to PPUMASK").Hex8("val", val).End()
	p.regLatch = val
}

// PPUSTATUS: $2002
func (p *PPU) ReadPPUSTATUS(val uint8) uint8 {
	ret := val&^uint8(openbusMask) | p.regLatch&openbusMask
	p.writeLatch = false
	p.PPUSTATUS.ClearBit(vblank)
	p.nmiChange()
	return ret
}

func (p *PPU) PeekPPUSTATUS(val uint8) uint8 {
	return val&^uint8(openbusMask) | p.regLatch&openbusMask
}

// OAMADDR: $2003
func (p *PPU) WriteOAMADDR(old, val uint8) {
	p.regLatch = val
}

// OAMDATA: $2004
func (p *PPU) ReadOAMDATA(_ uint8) uint8 {
	val := p.oam[p.OAMADDR.Value]
	p.regLatch = val
	return val
}

func (p *PPU) PeekOAMDATA(_ uint8) uint8 {
	return p.oam[p.OAMADDR.Value]
}

// OAMDATA: $2004. Writes increment OAMADDR, reads do not.
func (p *PPU) WriteOAMDATA(old, val uint8) {
	p.oam[p.OAMADDR.Value] = val
	p.OAMADDR.Value++
	p.regLatch = val
}

// PPUSCROLL: $2005
func (p *PPU) WritePPUSCROLL(old, val uint8) {
	log.ModPPU.DebugZ("Write to PPUSCROLL").Hex8("val", val).End()

	if !p.writeLatch { // first write
		p.fineX = val & 0b111
		p.vramTmp &^= 0b1_1111
		p.vramTmp |= uint16(val >> 3)
	} else { // second write
		p.vramTmp &^= 0b0111_0011_1110_0000
		p.vramTmp |= uint16(val&0b111) << 12
		p.vramTmp |= uint16(val&0b1111_1000) << 2
	}

	p.writeLatch = !p.writeLatch
	p.regLatch = val
}

// To read/write VRAM from the CPU, PPUADDR is set to the address of the
// operation. It's a 16-bit address so 2 writes are necessary.
// PPUADDR: $2006
func (p *PPU) WritePPUADDR(old, val uint8) {
	if !p.writeLatch { // first write
		p.vramTmp &^= 0b0111_1111_0000_0000
		p.vramTmp |= uint16(val&0b11_1111) << 8
	} else { // second write
		p.vramTmp &^= 0xff
		p.vramTmp |= uint16(val)
		p.vramAddr = p.vramTmp
	}

	p.writeLatch = !p.writeLatch
	p.regLatch = val
}

// PPUDATA: $2007
func (p *PPU) ReadPPUDATA(_ uint8) uint8 {
	addr := p.vramAddr & 0x3fff
	var val uint8
	if addr < 0x3f00 {
		// Reading VRAM is too slow so the actual data
		// will be returned at the next read.
		val = p.ppuDataRbuf
		p.ppuDataRbuf = p.Bus.Read8(addr, false)
	} else {
		// Reading palette data is immediate, but the buffer is
		// refilled with the nametable byte underneath.
		val = p.Bus.Read8(addr, false)
		p.ppuDataRbuf = p.Bus.Read8(addr-0x1000, false)
	}

	p.incVRAMaddr()
	log.ModPPU.DebugZ("VRAM read").
		Hex16("addr", addr).
		Hex8("val", val).
		End()
	p.regLatch = val
	return val
}

func (p *PPU) PeekPPUDATA(_ uint8) uint8 {
	addr := p.vramAddr & 0x3fff
	if addr < 0x3f00 {
		return p.ppuDataRbuf
	}
	return p.Bus.Read8(addr, true)
}

// PPUDATA: $2007
func (p *PPU) WritePPUDATA(old, val uint8) {
	// Mirror down address (only the $0000-$3FFF range is valid).
	addr := p.vramAddr & 0x3fff
	p.Bus.Write8(addr, val)
	p.incVRAMaddr()

	log.ModPPU.DebugZ("VRAM write").
		Hex16("addr", addr).
		Hex8("val", val).
		End()
	p.regLatch = val
}

// After each i/o on PPUDATA, the VRAM address is incremented.
func (p *PPU) incVRAMaddr() {
	incr := uint16(1)
	if p.PPUCTRL.GetBit(vramIncr) {
		incr = 32
	}
	p.vramAddr = (p.vramAddr + incr) & 0x7fff
}

// $3F10/$3F14/$3F18/$3F1C are mirrors of $3F00/$3F04/$3F08/$3F0C.
func paletteIndex(addr uint16) uint16 {
	addr &= 0x1f
	if addr >= 0x10 && addr%4 == 0 {
		addr -= 0x10
	}
	return addr
}

func (p *PPU) readPaletteBus(addr uint16) uint8 {
	return p.palmem[paletteIndex(addr)]
}

func (p *PPU) writePaletteBus(addr uint16, val uint8) {
	p.palmem[paletteIndex(addr)] = val
}

func (p *PPU) readPalette(addr uint16) uint8 {
	val := p.palmem[paletteIndex(addr)]
	if p.PPUMASK.GetBit(greyscale) {
		val &= 0x30
	}
	return val
}
