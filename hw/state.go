package hw

import (
	"famicore/hw/snapshot"
)

func (c *CPU) State() *snapshot.CPU {
	return &snapshot.CPU{
		PC:         c.PC,
		SP:         c.SP,
		P:          uint8(c.P),
		A:          c.A,
		X:          c.X,
		Y:          c.Y,
		Clock:      c.Clock,
		IRQLines:   c.irqLines,
		NMIPending: c.nmiPending,
	}
}

func (c *CPU) SetState(s *snapshot.CPU) {
	c.PC = s.PC
	c.SP = s.SP
	c.P = P(s.P)
	c.A = s.A
	c.X = s.X
	c.Y = s.Y
	c.Clock = s.Clock
	c.irqLines = s.IRQLines
	c.nmiPending = s.NMIPending
	c.halted = false
	c.haltErr = nil
}

func (p *PPU) State() *snapshot.PPU {
	s := &snapshot.PPU{
		Cycle:      p.Cycle,
		Scanline:   p.Scanline,
		Frame:      p.Frame,
		OddFrame:   p.oddFrame,
		CTRL:       p.PPUCTRL.Value,
		MASK:       p.PPUMASK.Value,
		STATUS:     p.PPUSTATUS.Value,
		OAMADDR:    p.OAMADDR.Value,
		VRAMAddr:   p.vramAddr,
		VRAMTmp:    p.vramTmp,
		FineX:      p.fineX,
		WriteLatch: p.writeLatch,
		DataBuf:    p.ppuDataRbuf,
		RegLatch:   p.regLatch,
		NMIPrev:    p.nmiPrev,
		NameTables: make([]uint8, len(p.NameTables)),
		Palette:    make([]uint8, len(p.palmem)),
		OAM:        make([]uint8, len(p.oam)),
	}
	copy(s.NameTables, p.NameTables[:])
	copy(s.Palette, p.palmem[:])
	copy(s.OAM, p.oam[:])
	return s
}

func (p *PPU) SetState(s *snapshot.PPU) {
	p.Cycle = s.Cycle
	p.Scanline = s.Scanline
	p.Frame = s.Frame
	p.oddFrame = s.OddFrame
	p.PPUCTRL.Value = s.CTRL
	p.PPUMASK.Value = s.MASK
	p.PPUSTATUS.Value = s.STATUS
	p.OAMADDR.Value = s.OAMADDR
	p.vramAddr = s.VRAMAddr
	p.vramTmp = s.VRAMTmp
	p.fineX = s.FineX
	p.writeLatch = s.WriteLatch
	p.ppuDataRbuf = s.DataBuf
	p.regLatch = s.RegLatch
	p.nmiPrev = s.NMIPrev
	copy(p.NameTables[:], s.NameTables)
	copy(p.palmem[:], s.Palette)
	copy(p.oam[:], s.OAM)
	p.frameReady = false
}

func (ip *InputPorts) State() *snapshot.Input {
	return &snapshot.Input{
		Strobe: ip.strobe,
		State:  ip.state,
	}
}

func (ip *InputPorts) SetState(s *snapshot.Input) {
	ip.strobe = s.Strobe
	ip.prevStrobe = s.Strobe
	ip.state = s.State
}
