package hwio

import (
	"fmt"

	"famicore/emu/log"
)

// log unmapped accesses (useful for debugging but verbose on NES since many
// games read from open bus)
const logUnmapped = false

// BankIO8 is the interface implemented by everything that can be mapped
// into a Table: plain memory, registers, manually managed devices.
type BankIO8 interface {
	// Read8 reads a byte from the given address. If peek is true, the read
	// must not have any side effects (debugging/tracing).
	Read8(addr uint16, peek bool) uint8
	Write8(addr uint16, val uint8)
}

func Read16(b BankIO8, addr uint16) uint16 {
	lo := b.Read8(addr, false)
	hi := b.Read8(addr+1, false)
	return uint16(hi)<<8 | uint16(lo)
}

func Write16(b BankIO8, addr uint16, val uint16) {
	b.Write8(addr, uint8(val&0xff))
	b.Write8(addr+1, uint8(val>>8))
}

// Table decodes a 16-bit address space into mapped targets. Every address
// resolves to at most one target; the mapping is dense (one slot per
// address) so dispatch is a single index.
type Table struct {
	Name string

	slots [0x10000]BankIO8
}

func NewTable(name string) *Table {
	return &Table{Name: name}
}

func (t *Table) mapRange(begin, end uint16, io BankIO8) {
	for addr := uint32(begin); addr <= uint32(end); addr++ {
		if t.slots[addr] != nil {
			panic(fmt.Sprintf("hwio: %s: overlapping mapping at $%04X", t.Name, addr))
		}
		t.slots[addr] = io
	}
}

// Unmap removes any mapping in [begin, end].
func (t *Table) Unmap(begin, end uint16) {
	for addr := uint32(begin); addr <= uint32(end); addr++ {
		t.slots[addr] = nil
	}
}

// MapReg8 maps a single register at addr and its mirrors every stride bytes
// up to last (a zero stride maps the register once).
func (t *Table) MapReg8(addr uint16, reg *Reg8) {
	t.mapRange(addr, addr, reg)
}

// MapMirroredReg8 maps reg at addr, addr+stride, ... while <= last.
func (t *Table) MapMirroredReg8(addr, last, stride uint16, reg *Reg8) {
	for a := uint32(addr); a <= uint32(last); a += uint32(stride) {
		t.mapRange(uint16(a), uint16(a), reg)
	}
}

// MapMem maps a linear memory area at addr. The area spans mem.VSize bytes
// of address space; accesses wrap on the physical buffer size, which is how
// RAM and nametable mirrors are expressed.
func (t *Table) MapMem(addr uint16, m *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Hex16("size", uint16(m.VSize)).
		String("area", m.Name).
		String("bus", t.Name).
		End()

	if len(m.Data)&(len(m.Data)-1) != 0 {
		panic("memory buffer size is not pow2")
	}

	t.mapRange(addr, addr+uint16(m.VSize)-1, m.bankIO8())
}

// MapMemorySlice maps buf over [addr, end], mirroring it if the range is
// larger than the buffer.
func (t *Table) MapMemorySlice(addr, end uint16, buf []uint8, readonly bool) {
	var flags MemFlags
	if readonly {
		flags |= MemFlagReadOnly
	}
	t.MapMem(addr, &Mem{
		Data:  buf,
		Flags: flags,
		VSize: int(end-addr) + 1,
	})
}

// MapDevice maps a manually managed range of dev.Size bytes at addr.
func (t *Table) MapDevice(addr uint16, dev *Device) {
	t.mapRange(addr, addr+uint16(dev.Size)-1, dev)
}

// Read8 forwards the read to the device mapped at addr. Unmapped reads
// return the open-bus value: the high byte of the address, which is the
// last byte seen on the bus when games read from unmapped space.
func (t *Table) Read8(addr uint16, peek bool) uint8 {
	io := t.slots[addr]
	if io == nil {
		if logUnmapped && !peek {
			log.ModHwIo.ErrorZ("unmapped Read8").
				String("bus", t.Name).
				Hex16("addr", addr).
				End()
		}
		return uint8(addr >> 8)
	}
	return io.Read8(addr, peek)
}

// Peek8 is a convenience for side-effect-free reads.
func (t *Table) Peek8(addr uint16) uint8 {
	return t.Read8(addr, true)
}

func (t *Table) Write8(addr uint16, val uint8) {
	io := t.slots[addr]
	if io == nil {
		if logUnmapped {
			log.ModHwIo.ErrorZ("unmapped Write8").
				String("bus", t.Name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
		return
	}
	io.Write8(addr, val)
}
