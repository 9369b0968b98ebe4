package mappers

import (
	"fmt"

	"famicore/hw"
	"famicore/hw/hwio"
	"famicore/ines"
)

// base carries what every board needs: the rom, both buses, and helpers
// for PRG/CHR bank selection and nametable mirroring. Boards embed it and
// register a PRG ROM write hook for their banking registers.
type base struct {
	desc MapperDesc

	rom    *ines.Rom
	cpu    *hw.CPU
	cpuBus *hwio.Table
	ppu    *hw.PPU

	PRGROM hwio.Device
	PRGRAM hwio.Mem

	prgramMapped bool

	// 16KB pages currently visible at $8000 and $C000.
	prgpages [2][]byte

	// 4KB pages currently visible at $0000 and $1000 on the PPU bus, or
	// CHR RAM when the cartridge has no CHR ROM.
	chrram []byte

	writePRG        func(addr uint16, val uint8)
	hasBusConflicts bool
}

func ispow2(n int) bool {
	return n&(n-1) == 0
}

func newbase(desc MapperDesc, rom *ines.Rom, cpu *hw.CPU, cpuBus *hwio.Table, ppu *hw.PPU) (*base, error) {
	if len(rom.PRG) == 0 || !ispow2(len(rom.PRG)) {
		return nil, fmt.Errorf("only support PRG ROM with power of 2 size, got %d", len(rom.PRG))
	}
	if len(rom.CHR) != 0 && !ispow2(len(rom.CHR)) {
		return nil, fmt.Errorf("only support CHR ROM with power of 2 size, got %d", len(rom.CHR))
	}

	b := &base{desc: desc, rom: rom, cpu: cpu, cpuBus: cpuBus, ppu: ppu}
	if len(rom.CHR) == 0 {
		b.chrram = make([]byte, 0x2000)
	}
	return b, nil
}

func (b *base) load() error {
	if b.desc.HasBusConflicts != nil {
		b.hasBusConflicts = b.desc.HasBusConflicts(b)
	}

	// $8000-$FFFF is a device so that board registers see the writes.
	b.PRGROM = hwio.Device{
		Name:    "PRGROM",
		Size:    0x8000,
		ReadCb:  b.readPRGROM,
		PeekCb:  b.readPRGROM,
		WriteCb: b.writePRGROM,
	}
	b.cpuBus.MapDevice(0x8000, &b.PRGROM)

	if b.rom.PRGRAMSize() > 0 {
		b.PRGRAM = hwio.Mem{
			Name:  "PRGRAM",
			Data:  make([]byte, 0x2000),
			VSize: 0x2000,
		}
		b.cpuBus.MapMem(0x6000, &b.PRGRAM)
		b.prgramMapped = true
	}

	if b.chrram != nil {
		b.ppu.Bus.MapMemorySlice(0x0000, 0x1FFF, b.chrram, false)
	}

	return b.desc.Load(b)
}

// init registers the board's PRG ROM write hook.
func (b *base) init(writePRG func(addr uint16, val uint8)) {
	b.writePRG = writePRG
}

// setPRGRAMEnabled maps or unmaps PRG RAM at $6000, for boards with a RAM
// chip-enable line. Disabled RAM reads as open bus.
func (b *base) setPRGRAMEnabled(enabled bool) {
	if b.PRGRAM.Data == nil || enabled == b.prgramMapped {
		return
	}
	b.prgramMapped = enabled
	if enabled {
		b.cpuBus.MapMem(0x6000, &b.PRGRAM)
	} else {
		b.cpuBus.Unmap(0x6000, 0x7FFF)
	}
}

func (b *base) readPRGROM(addr uint16) uint8 {
	page := b.prgpages[addr>>14&1]
	return page[addr&0x3FFF]
}

func (b *base) writePRGROM(addr uint16, val uint8) {
	if b.writePRG == nil {
		modMapper.ErrorZ("write to fixed PRG ROM").
			String("mapper", b.desc.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}
	if b.hasBusConflicts {
		// On boards without bus conflict suppression the written value
		// ANDs with the rom byte at the same address.
		val &= b.readPRGROM(addr)
	}
	b.writePRG(addr, val)
}

// selectPRGPage16KB makes the given 16KB PRG ROM page visible in the given
// slot (0 for $8000, 1 for $C000). Negative pages count from the end.
func (b *base) selectPRGPage16KB(slot, page int) {
	npages := len(b.rom.PRG) >> 14
	page = ((page % npages) + npages) % npages
	b.prgpages[slot] = b.rom.PRG[page<<14 : (page+1)<<14]
}

func (b *base) selectPRGPage32KB(page int) {
	b.selectPRGPage16KB(0, page*2)
	b.selectPRGPage16KB(1, page*2+1)
}

// selectCHRPage4KB makes the given 4KB CHR page visible in the given slot
// (0 for $0000, 1 for $1000). On CHR RAM boards this is a no-op, the whole
// 8KB of RAM stays mapped.
func (b *base) selectCHRPage4KB(slot, page int) {
	if b.chrram != nil {
		return
	}
	npages := len(b.rom.CHR) >> 12
	page = ((page % npages) + npages) % npages

	addr := uint16(slot * 0x1000)
	b.ppu.Bus.Unmap(addr, addr+0x0FFF)
	b.ppu.Bus.MapMemorySlice(addr, addr+0x0FFF, b.rom.CHR[page<<12:(page+1)<<12], true)
}

func (b *base) selectCHRPage8KB(page int) {
	b.selectCHRPage4KB(0, page*2)
	b.selectCHRPage4KB(1, page*2+1)
}

func (b *base) setNTMirroring(m ines.NTMirroring) {
	b.ppu.Bus.Unmap(0x2000, 0x3EFF)

	A := b.ppu.NameTables[:0x400]
	B := b.ppu.NameTables[0x400:0x800]

	var nt1, nt2, nt3, nt4 []byte

	switch m {
	case ines.HorzMirroring:
		nt1, nt2 = A, A
		nt3, nt4 = B, B
	case ines.VertMirroring:
		nt1, nt2 = A, B
		nt3, nt4 = A, B
	case ines.OnlyAScreen:
		nt1, nt2 = A, A
		nt3, nt4 = A, A
	case ines.OnlyBScreen:
		nt1, nt2 = B, B
		nt3, nt4 = B, B
	default:
		panic(fmt.Sprintf("unsupported mirroring %d", m))
	}

	b.ppu.Bus.MapMemorySlice(0x2000, 0x23FF, nt1, false)
	b.ppu.Bus.MapMemorySlice(0x2400, 0x27FF, nt2, false)
	b.ppu.Bus.MapMemorySlice(0x2800, 0x2BFF, nt3, false)
	b.ppu.Bus.MapMemorySlice(0x2C00, 0x2FFF, nt4, false)

	// Mirrors
	b.ppu.Bus.MapMemorySlice(0x3000, 0x33FF, nt1, false)
	b.ppu.Bus.MapMemorySlice(0x3400, 0x37FF, nt2, false)
	b.ppu.Bus.MapMemorySlice(0x3800, 0x3BFF, nt3, false)
	b.ppu.Bus.MapMemorySlice(0x3C00, 0x3EFF, nt4, false)
}
