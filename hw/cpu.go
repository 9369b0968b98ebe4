package hw

import (
	"fmt"
	"io"

	"famicore/hw/hwdefs"
	"famicore/hw/hwio"
)

// Locations reserved for vector pointers.
const (
	NMIvector   = 0xFFFA // Non-Maskable Interrupt
	ResetVector = 0xFFFC // Reset
	IRQvector   = 0xFFFE // Interrupt Request
)

// IllegalOpcodeError is returned by Step when execution reaches an opcode
// with no stable behavior (JAM and the unstable unofficial ones). The CPU
// stays halted afterwards.
type IllegalOpcodeError struct {
	PC     uint16
	Opcode uint8
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode $%02X at $%04X", e.Opcode, e.PC)
}

type CPU struct {
	bus hwio.BankIO8
	A   uint8
	X   uint8
	Y   uint8
	SP  uint8
	PC  uint16
	P   P

	Clock int64 // cycles

	nmiPending bool
	irqLines   uint8
	halted     bool
	haltErr    error

	disasm *disasm
}

// NewCPU creates a new CPU at power-up state.
func NewCPU(bus hwio.BankIO8) *CPU {
	return &CPU{
		bus: bus,
		A:   0x00,
		X:   0x00,
		Y:   0x00,
		SP:  0xFD,
		P:   0x34,
		PC:  0x0000,
	}
}

func (c *CPU) SetDisasm(w io.Writer, nestest bool) {
	c.disasm = &disasm{cpu: c, w: w, isNestest: nestest}
}

// SetDisasmCoords hooks a video beam position reporter into the trace.
func (c *CPU) SetDisasmCoords(fn func() (scanline, dot int)) {
	if c.disasm != nil {
		c.disasm.PPUCoords = fn
	}
}

// PowerUp puts the CPU in its documented power-up state and loads PC from
// the reset vector.
func (c *CPU) PowerUp() {
	c.A, c.X, c.Y = 0x00, 0x00, 0x00
	c.SP = 0xFD
	c.P = 0x34
	c.Clock = 0
	c.nmiPending = false
	c.irqLines = 0
	c.halted = false
	c.haltErr = nil
	c.PC = hwio.Read16(c.bus, ResetVector)
}

// Reset performs a soft reset: registers keep their values, the stack
// pointer drops by 3 without the pushes reaching memory, interrupts are
// disabled and PC reloads from the reset vector.
func (c *CPU) Reset() {
	c.SP -= 3
	c.P.setBit(pbitI)
	c.nmiPending = false
	c.halted = false
	c.haltErr = nil
	c.PC = hwio.Read16(c.bus, ResetVector)
}

// TriggerNMI requests execution of the NMI handler before the next
// instruction. The line is edge-triggered: callers signal the edge.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// SetIRQSource asserts one source of the shared IRQ input.
func (c *CPU) SetIRQSource(source hwdefs.IRQSource) {
	c.irqLines |= uint8(source)
}

// ClearIRQSource releases one source of the shared IRQ input.
func (c *CPU) ClearIRQSource(source hwdefs.IRQSource) {
	c.irqLines &^= uint8(source)
}

// SetIRQLine asserts or releases one source of the shared IRQ input.
func (c *CPU) SetIRQLine(source hwdefs.IRQSource, asserted bool) {
	if asserted {
		c.SetIRQSource(source)
	} else {
		c.ClearIRQSource(source)
	}
}

func (c *CPU) HasIRQSource(source hwdefs.IRQSource) bool {
	return c.irqLines&uint8(source) != 0
}

func (c *CPU) IRQPending() bool {
	return c.irqLines != 0
}

func (c *CPU) CurrentCycle() int64 {
	return c.Clock
}

// FetchDMC reads one DMC sample byte, halting the CPU for the 4 cycles the
// DMA unit steals.
func (c *CPU) FetchDMC(addr uint16) uint8 {
	c.tick()
	c.tick()
	c.tick()
	return c.Read8(addr)
}

// Step services any pending interrupt, then executes a single instruction,
// and returns the number of cycles consumed. Once an illegal opcode has
// been hit the CPU stays halted and Step keeps returning the same error.
func (c *CPU) Step() (int, error) {
	if c.halted {
		return 0, c.haltErr
	}

	start := c.Clock

	if c.nmiPending {
		c.nmiPending = false
		c.interrupt(NMIvector)
		return int(c.Clock - start), nil
	}
	if c.irqLines != 0 && !c.P.I() {
		c.interrupt(IRQvector)
		return int(c.Clock - start), nil
	}

	if c.disasm != nil {
		c.disasm.op()
	}

	opcode := c.Read8(c.PC)
	ops[opcode](c)

	if c.haltErr != nil {
		c.halted = true
		return int(c.Clock - start), c.haltErr
	}
	return int(c.Clock - start), nil
}

// RunUntil executes instructions until Clock reaches at least until.
func (c *CPU) RunUntil(until int64) error {
	for c.Clock < until {
		if _, err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// interrupt runs the 7-cycle interrupt sequence: push PC and P (with B
// clear), set I, load PC from the vector.
func (c *CPU) interrupt(vector uint16) {
	c.tick()
	c.tick()
	push16(c, c.PC)
	p := c.P
	p.clearBit(pbitB)
	p.setBit(pbitU)
	push8(c, uint8(p))
	c.P.setBit(pbitI)
	c.PC = c.Read16(vector)
}

func (c *CPU) tick() {
	c.Clock++
}

func (c *CPU) Read8(addr uint16) uint8 {
	c.tick()
	return c.bus.Read8(addr, false)
}

// Peek8 reads without side effects nor cycle accounting.
func (c *CPU) Peek8(addr uint16) uint8 {
	return c.bus.Read8(addr, true)
}

func (c *CPU) Write8(addr uint16, val uint8) {
	c.tick()
	c.bus.Write8(addr, val)
}

func (c *CPU) Read16(addr uint16) uint16 {
	lo := c.Read8(addr)
	hi := c.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// P is the 6502 Processor Status Register.
type P uint8

const (
	pbitN = 7 - iota // Negative flag
	pbitV            // oVerflow flag
	pbitU            // Unused
	pbitB            // Break flag
	pbitD            // Decimal mode flag
	pbitI            // Interrupt disable flag
	pbitZ            // Zero flag
	pbitC            // Carry flag
)

func (p P) N() bool { return p&(1<<pbitN) != 0 }
func (p P) V() bool { return p&(1<<pbitV) != 0 }
func (p P) B() bool { return p&(1<<pbitB) != 0 }
func (p P) D() bool { return p&(1<<pbitD) != 0 }
func (p P) I() bool { return p&(1<<pbitI) != 0 }
func (p P) Z() bool { return p&(1<<pbitZ) != 0 }
func (p P) C() bool { return p&(1<<pbitC) != 0 }

func (p *P) checkNZ(v uint8) {
	p.writeBit(pbitN, v&0x80 != 0)
	p.writeBit(pbitZ, v == 0)
}

// sets Z flag if v == 0, clears it otherwise.
func (p *P) checkZ(v uint8) {
	p.writeBit(pbitZ, v == 0)
}

func (p *P) checkCV(x, y uint8, sum uint16) {
	// forward carry or unsigned overflow.
	p.writeBit(pbitC, sum > 0xFF)

	// signed overflow, can only happen if the sign of the sum differs
	// from that of both operands.
	v := (uint16(x) ^ sum) & (uint16(y) ^ sum) & 0x80
	p.writeBit(pbitV, v != 0)
}

func (p *P) writeBit(i int, v bool) {
	if v {
		p.setBit(i)
	} else {
		p.clearBit(i)
	}
}

func (p *P) setBit(i int) {
	*p |= P(1 << i)
}

func (p *P) clearBit(i int) {
	*p &= ^P(1 << i)
}

func (p *P) ibit(i int) uint8 {
	return (uint8(*p) & (1 << i)) >> i
}

func (p P) String() string {
	const bits = "nvubdizcNVUBDIZC"

	s := make([]byte, 8)
	for i := 0; i < 8; i++ {
		s[i] = bits[i+int(8*p.ibit(7-i))]
	}
	return string(s)
}

func b2i(b bool) byte {
	if b {
		return 1
	}
	return 0
}
