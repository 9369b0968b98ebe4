package mappers

import (
	"famicore/ines"
)

var MMC1 = MapperDesc{
	Name: "MMC1",
	Load: loadMMC1,
}

type mmc1 struct {
	*base

	prevCycle int64

	serial  shiftReg
	counter uint8 // count of bits shifted

	// CTRL reg bits
	chrmode uint8
	prgmode uint8
	ntm     uint8

	chrbank0 uint32
	chrbank1 uint32

	disableWRAM bool
	prgbank     uint32
}

type shiftReg uint8

func (sr shiftReg) push(val uint8) shiftReg {
	sr >>= 1
	sr |= shiftReg(val << 4 & 0x10)
	return sr
}

func (m *mmc1) WritePRGROM(addr uint16, val uint8) {
	// Writes on consecutive CPU cycles are ignored (only the first one
	// counts, which matters for RMW instructions).
	curCycle := m.cpu.CurrentCycle()
	resetbit := val&0x80 != 0
	if resetbit || curCycle-m.prevCycle >= 2 {
		if resetbit {
			// Reset the shift register so that the next write is the
			// "first" one, and force 16KB PRG mode with $C000 fixed to
			// the last bank. Other register bits are unchanged.
			m.serial = 0
			m.counter = 0
			m.prgmode = 0b11
			m.remap()
		} else {
			m.serial = m.serial.push(val)
			m.counter++
			if m.counter == 5 {
				m.writeREG(addr, uint8(m.serial))
				m.remap()
				m.serial = 0
				m.counter = 0
			}
		}
	}
	m.prevCycle = curCycle
}

func (m *mmc1) writeREG(addr uint16, val uint8) {
	switch addr & 0x6000 >> 13 {
	case 0:
		m.writeCTRL(val)
	case 1:
		m.writeCHR0(val)
	case 2:
		m.writeCHR1(val)
	case 3:
		m.writePRG(val)
	}
}

func (m *mmc1) writeCTRL(val uint8) {
	m.chrmode = val & 0x10 >> 4
	m.prgmode = val & 0x0C >> 2

	prevNT := m.ntm
	m.ntm = val & 0x03
	if prevNT != m.ntm {
		switch m.ntm {
		case 0:
			m.setNTMirroring(ines.OnlyAScreen)
		case 1:
			m.setNTMirroring(ines.OnlyBScreen)
		case 2:
			m.setNTMirroring(ines.VertMirroring)
		case 3:
			m.setNTMirroring(ines.HorzMirroring)
		}
	}

	modMapper.DebugZ("write CTRL reg").String("mapper", m.desc.Name).
		Uint8("val", val).
		Uint8("prgmode", m.prgmode).
		Uint8("chrmode", m.chrmode).
		End()
}

func (m *mmc1) writeCHR0(val uint8) {
	modMapper.DebugZ("write CHR0 reg").String("mapper", m.desc.Name).Uint8("val", val).End()
	m.chrbank0 = uint32(val & 0b11111)
}

func (m *mmc1) writeCHR1(val uint8) {
	modMapper.DebugZ("write CHR1 reg").String("mapper", m.desc.Name).Uint8("val", val).End()
	m.chrbank1 = uint32(val & 0b11111)
}

func (m *mmc1) writePRG(val uint8) {
	modMapper.DebugZ("write PRG reg").String("mapper", m.desc.Name).Uint8("val", val).End()

	// $E000-FFFF:  [...W PPPP]
	// W = WRAM Disable (0=enabled, 1=disabled)
	// P = PRG Reg
	m.disableWRAM = val&0b1_0000 != 0
	m.prgbank = uint32(val & 0b1111)
}

func (m *mmc1) remap() {
	switch m.prgmode {
	case 0, 1:
		// ignore low bit of bank number
		m.selectPRGPage32KB(int(m.prgbank&0xFE) / 2)
	case 2:
		m.selectPRGPage16KB(0, 0)
		m.selectPRGPage16KB(1, int(m.prgbank))
	case 3:
		m.selectPRGPage16KB(0, int(m.prgbank))
		m.selectPRGPage16KB(1, -1)
	}

	switch m.chrmode {
	case 0:
		m.selectCHRPage8KB(int(m.chrbank0) / 2)
	case 1:
		m.selectCHRPage4KB(0, int(m.chrbank0))
		m.selectCHRPage4KB(1, int(m.chrbank1))
	}

	m.setPRGRAMEnabled(!m.disableWRAM)
}

func loadMMC1(b *base) error {
	mmc1 := &mmc1{base: b}
	b.init(mmc1.WritePRGROM)

	b.setNTMirroring(ines.OnlyAScreen)

	// On powerup bits 2,3 of CTRL are set: $8000 holds bank 0 and $C000
	// the last bank, which boards without banking rely on.
	mmc1.writeREG(0x8000, 0x0C)
	mmc1.writeREG(0xA000, 0)
	mmc1.writeREG(0xC000, 0)
	mmc1.writeREG(0xE000, 0)
	mmc1.remap()
	return nil
}
