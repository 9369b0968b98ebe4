package apu

import (
	"famicore/emu/log"
	"famicore/hw/hwdefs"
	"famicore/hw/hwio"
)

// The DMC (Delta Modulation Channel) outputs samples composed of 1-bit
// deltas, and its DAC can be changed directly. It contains the following:
// DMA reader, interrupt flag, sample buffer, Timer, output unit, 7-bit
// counter tied to a 7-bit DAC.
//
//	+----------+    +---------+
//	|DMA Reader|    |  Timer  |
//	+----------+    +---------+
//	     |               |
//	     |               v
//	+----------+    +---------+     +---------+     +---------+
//	|  Buffer  |----| Output  |---->| Counter |---->|   DAC   |
//	+----------+    +---------+     +---------+     +---------+
type dmcChannel struct {
	apu *APU
	cpu cpu

	sampleAddr uint16
	sampleLen  uint16
	outlvl     uint8
	irqEnabled bool
	loop       bool

	curaddr   uint16
	remaining uint16
	readbuf   uint8
	bufEmpty  bool

	shiftReg uint8
	bitsLeft uint8
	silence  bool

	timer  uint16
	period uint16

	Flags      hwio.Reg8 // $4010
	Load       hwio.Reg8 // $4011
	SampleAddr hwio.Reg8 // $4012
	SampleLen  hwio.Reg8 // $4013
}

var dmcPeriodLUT = [16]uint16{428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54}

func (dc *dmcChannel) init(apu *APU, cpu cpu) {
	dc.apu = apu
	dc.cpu = cpu
	dc.silence = true
	dc.bufEmpty = true
	dc.bitsLeft = 8
	dc.period = dmcPeriodLUT[0] - 1

	dc.Flags = hwio.Reg8{Name: "DMCFLAGS", Flags: hwio.WriteOnlyFlag, WriteCb: dc.WriteFLAGS}
	dc.Load = hwio.Reg8{Name: "DMCLOAD", Flags: hwio.WriteOnlyFlag, WriteCb: dc.WriteLOAD}
	dc.SampleAddr = hwio.Reg8{Name: "DMCSAMPLEADDR", Flags: hwio.WriteOnlyFlag, WriteCb: dc.WriteSAMPLEADDR}
	dc.SampleLen = hwio.Reg8{Name: "DMCSAMPLELEN", Flags: hwio.WriteOnlyFlag, WriteCb: dc.WriteSAMPLELEN}
}

// $4010
func (dc *dmcChannel) WriteFLAGS(_, val uint8) {
	dc.irqEnabled = val&0x80 != 0
	dc.loop = val&0x40 != 0
	dc.period = dmcPeriodLUT[val&0x0F] - 1

	if !dc.irqEnabled {
		dc.cpu.ClearIRQSource(hwdefs.DMC)
	}

	log.ModSound.DebugZ("write dmc flags").
		Uint8("reg", val).
		Bool("irq enabled", dc.irqEnabled).
		Bool("loop", dc.loop).
		Uint16("period", dc.period).
		End()
}

// $4011
func (dc *dmcChannel) WriteLOAD(_, val uint8) {
	dc.outlvl = val & 0x7F

	// $4011 applies the new output right away, not on the timer's
	// reload.
	dc.apu.setOutput(DPCM, dc.outlvl)
}

// $4012: start of the DMC sample is at address $C000 + $40*$xx.
func (dc *dmcChannel) WriteSAMPLEADDR(_, val uint8) {
	dc.sampleAddr = 0xC000 | uint16(val)<<6
}

// $4013: length of the DMC waveform is $10*$xx + 1 bytes.
func (dc *dmcChannel) WriteSAMPLELEN(_, val uint8) {
	dc.sampleLen = uint16(val)<<4 | 0x1
}

func (dc *dmcChannel) initSample() {
	dc.curaddr = dc.sampleAddr
	dc.remaining = dc.sampleLen
}

// fillBuffer fetches the next sample byte over DMA, halting the CPU.
func (dc *dmcChannel) fillBuffer() {
	if dc.remaining == 0 {
		return
	}

	dc.readbuf = dc.cpu.FetchDMC(dc.curaddr)
	dc.bufEmpty = false

	// The address wraps around to $8000, not $0000.
	dc.curaddr++
	if dc.curaddr == 0 {
		dc.curaddr = 0x8000
	}

	dc.remaining--
	if dc.remaining == 0 {
		if dc.loop {
			// A looped sample never sets the IRQ flag.
			dc.initSample()
		} else if dc.irqEnabled {
			dc.cpu.SetIRQSource(hwdefs.DMC)
		}
	}
}

func (dc *dmcChannel) tickTimer() {
	if dc.timer > 0 {
		dc.timer--
		return
	}
	dc.timer = dc.period

	if !dc.silence {
		if dc.shiftReg&0x01 != 0 {
			if dc.outlvl <= 125 {
				dc.outlvl += 2
			}
		} else {
			if dc.outlvl >= 2 {
				dc.outlvl -= 2
			}
		}
		dc.shiftReg >>= 1
	}

	dc.bitsLeft--
	if dc.bitsLeft == 0 {
		dc.bitsLeft = 8
		if dc.bufEmpty {
			dc.silence = true
		} else {
			dc.silence = false
			dc.shiftReg = dc.readbuf
			dc.bufEmpty = true
			dc.fillBuffer()
		}
	}

	dc.apu.setOutput(DPCM, dc.outlvl)
}

func (dc *dmcChannel) setEnabled(enabled bool) {
	if !enabled {
		dc.remaining = 0
	} else if dc.remaining == 0 {
		dc.initSample()
		if dc.bufEmpty {
			dc.fillBuffer()
		}
	}
}

func (dc *dmcChannel) status() bool {
	return dc.remaining > 0
}

func (dc *dmcChannel) output() uint8 {
	return dc.outlvl
}

func (dc *dmcChannel) reset(soft bool) {
	if !soft {
		dc.sampleAddr = 0xC000
		dc.sampleLen = 1
	}

	dc.outlvl = 0
	dc.irqEnabled = false
	dc.loop = false

	dc.curaddr = 0
	dc.remaining = 0
	dc.readbuf = 0
	dc.bufEmpty = true

	dc.shiftReg = 0
	dc.bitsLeft = 8
	dc.silence = true

	dc.period = dmcPeriodLUT[0] - 1
	dc.timer = dc.period
}
