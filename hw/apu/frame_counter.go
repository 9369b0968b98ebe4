package apu

import (
	"famicore/emu/log"
	"famicore/hw/hwdefs"
)

type frameType uint8

const (
	noFrame frameType = iota
	quarterFrame
	halfFrame
)

var stepCycles = [2][6]int32{
	{7457, 14913, 22371, 29828, 29829, 29830},
	{7457, 14913, 22371, 29829, 37281, 37282},
}

var stepTypes = [6]frameType{
	quarterFrame, halfFrame, quarterFrame, noFrame, halfFrame, noFrame,
}

// frameCounter is the APU frame sequencer, clocking envelopes, length
// counters and sweeps at quarter and half frame intervals.
type frameCounter struct {
	apu *APU
	cpu cpu

	cycle    int32
	curStep  uint32
	stepMode uint32 // 0: 4-step mode, 1: 5-step mode

	inhibitIRQ bool
	blockTick  uint8

	newval     int16
	writeDelay int8
}

func (fc *frameCounter) init(apu *APU, cpu cpu) {
	fc.apu = apu
	fc.cpu = cpu
	fc.newval = -1
}

func (fc *frameCounter) reset(soft bool) {
	fc.cycle = 0
	fc.curStep = 0

	// $4017 is unchanged by a soft reset, so the step mode is kept.
	if !soft {
		fc.stepMode = 0
	}

	// After reset or power-up the sequencer acts as if $4017 were
	// written a few cycles before the first instruction begins.
	fc.newval = 0
	if fc.stepMode != 0 {
		fc.newval = 0x80
	}
	fc.writeDelay = 3
	fc.inhibitIRQ = false
	fc.blockTick = 0
}

// write handles a $4017 write.
func (fc *frameCounter) write(val uint8) {
	log.ModSound.InfoZ("write framecounter").Uint8("val", val).End()
	fc.newval = int16(val)

	// The write takes effect 3 CPU cycles later if it lands on an APU
	// cycle, 4 if it lands between two.
	if fc.cpu.CurrentCycle()&0x01 != 0 {
		fc.writeDelay = 4
	} else {
		fc.writeDelay = 3
	}

	fc.inhibitIRQ = val&0x40 != 0
	if fc.inhibitIRQ {
		fc.cpu.ClearIRQSource(hwdefs.FrameCounter)
	}
}

// tick advances the sequencer by one CPU cycle.
func (fc *frameCounter) tick() {
	fc.cycle++
	if fc.cycle == stepCycles[fc.stepMode][fc.curStep] {
		if !fc.inhibitIRQ && fc.stepMode == 0 && fc.curStep >= 3 {
			// IRQ is raised on the last 3 cycles of 4-step mode.
			fc.cpu.SetIRQSource(hwdefs.FrameCounter)
		}

		ftyp := stepTypes[fc.curStep]
		if ftyp != noFrame && fc.blockTick == 0 {
			fc.apu.frameCounterTick(ftyp)

			// A $4017 write must not clock the frame counter again on
			// this cycle nor on the following one.
			fc.blockTick = 2
		}

		fc.curStep++
		if fc.curStep == 6 {
			fc.curStep = 0
			fc.cycle = 0
		}
	}

	if fc.newval >= 0 {
		fc.writeDelay--
		if fc.writeDelay == 0 {
			fc.stepMode = 0
			if fc.newval&0x80 != 0 {
				fc.stepMode = 1
			}

			fc.writeDelay = -1
			fc.curStep = 0
			fc.cycle = 0
			fc.newval = -1

			if fc.stepMode != 0 && fc.blockTick == 0 {
				// Writing $4017 with bit 7 set immediately clocks both
				// the quarter and half frame units.
				fc.apu.frameCounterTick(halfFrame)
				fc.blockTick = 2
			}
		}
	}

	if fc.blockTick > 0 {
		fc.blockTick--
	}
}
