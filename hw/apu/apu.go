// Package apu emulates the 2A03 audio processing unit: two square wave
// channels, a triangle, a noise channel and a delta modulation channel,
// sequenced by a frame counter and mixed into band-limited samples.
package apu

import (
	"famicore/emu/log"
	"famicore/hw/hwdefs"
	"famicore/hw/hwio"
)

type APU struct {
	cpu   cpu
	mixer *Mixer

	Square1  squareChannel
	Square2  squareChannel
	Triangle triangleChannel
	Noise    noiseChannel
	DMC      dmcChannel

	frameCounter frameCounter

	cycle uint32

	STATUS hwio.Reg8 // $4015
	DAC0   hwio.Reg8 // $4018: instant DAC value of both squares
	DAC1   hwio.Reg8 // $4019: instant DAC value of triangle and noise
	DAC2   hwio.Reg8 // $401A: instant DAC value of the DMC
}

func New(cpu cpu, mixer *Mixer) *APU {
	a := &APU{
		cpu:   cpu,
		mixer: mixer,
	}
	a.Square1.init(a, Square1, true)
	a.Square2.init(a, Square2, false)
	a.Triangle.init(a)
	a.Noise.init(a)
	a.DMC.init(a, cpu)
	a.frameCounter.init(a, cpu)

	a.STATUS = hwio.Reg8{Name: "STATUS", ReadCb: a.ReadSTATUS, PeekCb: a.PeekSTATUS, WriteCb: a.WriteSTATUS}
	a.DAC0 = hwio.Reg8{Name: "DAC0", Flags: hwio.ReadOnlyFlag, ReadCb: a.ReadDAC0, PeekCb: a.ReadDAC0}
	a.DAC1 = hwio.Reg8{Name: "DAC1", Flags: hwio.ReadOnlyFlag, ReadCb: a.ReadDAC1, PeekCb: a.ReadDAC1}
	a.DAC2 = hwio.Reg8{Name: "DAC2", Flags: hwio.ReadOnlyFlag, ReadCb: a.ReadDAC2, PeekCb: a.ReadDAC2}
	return a
}

// MapCPU maps the APU registers on the CPU bus. The frame counter
// register at $4017 is shared with the second input port and is not
// mapped here.
func (a *APU) MapCPU(tbl *hwio.Table) {
	tbl.MapReg8(0x4000, &a.Square1.Duty)
	tbl.MapReg8(0x4001, &a.Square1.Sweep)
	tbl.MapReg8(0x4002, &a.Square1.Timer)
	tbl.MapReg8(0x4003, &a.Square1.Length)

	tbl.MapReg8(0x4004, &a.Square2.Duty)
	tbl.MapReg8(0x4005, &a.Square2.Sweep)
	tbl.MapReg8(0x4006, &a.Square2.Timer)
	tbl.MapReg8(0x4007, &a.Square2.Length)

	tbl.MapReg8(0x4008, &a.Triangle.Linear)
	tbl.MapReg8(0x4009, &a.Triangle.Unused)
	tbl.MapReg8(0x400A, &a.Triangle.Timer)
	tbl.MapReg8(0x400B, &a.Triangle.Length)

	tbl.MapReg8(0x400C, &a.Noise.Volume)
	tbl.MapReg8(0x400D, &a.Noise.Unused)
	tbl.MapReg8(0x400E, &a.Noise.Period)
	tbl.MapReg8(0x400F, &a.Noise.Length)

	tbl.MapReg8(0x4010, &a.DMC.Flags)
	tbl.MapReg8(0x4011, &a.DMC.Load)
	tbl.MapReg8(0x4012, &a.DMC.SampleAddr)
	tbl.MapReg8(0x4013, &a.DMC.SampleLen)

	tbl.MapReg8(0x4015, &a.STATUS)

	tbl.MapReg8(0x4018, &a.DAC0)
	tbl.MapReg8(0x4019, &a.DAC1)
	tbl.MapReg8(0x401A, &a.DAC2)
}

// WriteFrameCounter handles a $4017 write, forwarded by the input ports
// which own that address.
func (a *APU) WriteFrameCounter(val uint8) {
	a.frameCounter.write(val)
}

func (a *APU) Status() uint8 {
	var status uint8

	if a.Square1.status() {
		status |= 0x01
	}
	if a.Square2.status() {
		status |= 0x02
	}
	if a.Triangle.status() {
		status |= 0x04
	}
	if a.Noise.status() {
		status |= 0x08
	}
	if a.DMC.status() {
		status |= 0x10
	}

	if a.cpu.HasIRQSource(hwdefs.FrameCounter) {
		status |= 0x40
	}
	if a.cpu.HasIRQSource(hwdefs.DMC) {
		status |= 0x80
	}

	return status
}

// STATUS: $4015
func (a *APU) PeekSTATUS(val uint8) uint8 {
	return a.Status()
}

func (a *APU) ReadSTATUS(val uint8) uint8 {
	status := a.Status()

	// Reading $4015 clears the frame counter interrupt flag.
	a.cpu.ClearIRQSource(hwdefs.FrameCounter)

	log.ModSound.InfoZ("read status").Uint8("status", status).End()
	return status
}

func (a *APU) WriteSTATUS(old, val uint8) {
	log.ModSound.InfoZ("write status").Uint8("val", val).End()

	// Writing to $4015 clears the DMC interrupt flag. This must happen
	// before the DMC enabled flag is set, since that can raise an IRQ.
	a.cpu.ClearIRQSource(hwdefs.DMC)

	a.Square1.setEnabled(val&0x01 != 0)
	a.Square2.setEnabled(val&0x02 != 0)
	a.Triangle.setEnabled(val&0x04 != 0)
	a.Noise.setEnabled(val&0x08 != 0)
	a.DMC.setEnabled(val&0x10 != 0)
}

func (a *APU) ReadDAC0(val uint8) uint8 {
	return a.Square1.output() | a.Square2.output()<<4
}

func (a *APU) ReadDAC1(val uint8) uint8 {
	return a.Triangle.output() | a.Noise.output()<<4
}

func (a *APU) ReadDAC2(val uint8) uint8 {
	return a.DMC.output()
}

// setOutput forwards a channel output change to the mixer, stamped with
// the current frame cycle.
func (a *APU) setOutput(ch Channel, val uint8) {
	a.mixer.SetOutput(ch, a.cycle, val)
}

func (a *APU) frameCounterTick(ftyp frameType) {
	// Quarter and half frames clock envelopes and the linear counter.
	a.Square1.tickEnvelope()
	a.Square2.tickEnvelope()
	a.Triangle.tickLinearCounter()
	a.Noise.tickEnvelope()

	if ftyp == halfFrame {
		// Half frames also clock length counters and sweeps.
		a.Square1.tickLengthCounter()
		a.Square2.tickLengthCounter()
		a.Triangle.tickLengthCounter()
		a.Noise.tickLengthCounter()

		a.Square1.tickSweep()
		a.Square2.tickSweep()
	}
}

// Tick advances the whole APU by one CPU cycle.
func (a *APU) Tick() {
	a.cycle++
	a.frameCounter.tick()

	a.Square1.tickTimer()
	a.Square2.tickTimer()
	a.Triangle.tickTimer()
	a.Noise.tickTimer()
	a.DMC.tickTimer()
}

// EndFrame closes the current audio frame and returns its samples. The
// returned slice is only valid until the next call.
func (a *APU) EndFrame() []int16 {
	samples := a.mixer.EndFrame(a.cycle)
	a.cycle = 0
	return samples
}

func (a *APU) Reset(soft bool) {
	a.cycle = 0

	a.Square1.reset(soft)
	a.Square2.reset(soft)
	a.Triangle.reset(soft)
	a.Noise.reset(soft)
	a.DMC.reset(soft)
	a.frameCounter.reset(soft)
	a.mixer.Reset()
}
