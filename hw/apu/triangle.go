package apu

import (
	"famicore/emu/log"
	"famicore/hw/hwio"
)

// The triangle channel contains the following: Timer, 32-step sequencer,
// Length Counter, Linear Counter, 4-bit DAC.
//
//	+---------+    +---------+
//	|LinearCtr|    | Length  |
//	+---------+    +---------+
//	     |              |
//	     v              v
//	+---------+        |\             |\         +---------+    +---------+
//	|  Timer  |------->| >----------->| >------->|Sequencer|--->|   DAC   |
//	+---------+        |/             |/         +---------+    +---------+
type triangleChannel struct {
	apu        *APU
	lenCounter lengthCounter

	timer  uint16
	period uint16

	linearCounter       uint8
	linearCounterReload uint8
	linearReload        bool
	linearCtrl          bool

	pos uint8 // current position on "triangleSequence".

	Linear hwio.Reg8 // $4008
	Unused hwio.Reg8 // $4009
	Timer  hwio.Reg8 // $400A
	Length hwio.Reg8 // $400B
}

func (tc *triangleChannel) init(apu *APU) {
	tc.apu = apu
	tc.lenCounter.channel = Triangle

	tc.Linear = hwio.Reg8{Name: "TRILINEAR", Flags: hwio.WriteOnlyFlag, WriteCb: tc.WriteLINEAR}
	tc.Unused = hwio.Reg8{Name: "TRIUNUSED", Flags: hwio.WriteOnlyFlag}
	tc.Timer = hwio.Reg8{Name: "TRITIMER", Flags: hwio.WriteOnlyFlag, WriteCb: tc.WriteTIMER}
	tc.Length = hwio.Reg8{Name: "TRILENGTH", Flags: hwio.WriteOnlyFlag, WriteCb: tc.WriteLENGTH}
}

var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8,
	7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7,
	8, 9, 10, 11, 12, 13, 14, 15,
}

func (tc *triangleChannel) WriteLINEAR(_, val uint8) {
	tc.linearCtrl = val&0x80 != 0
	tc.linearCounterReload = val & 0x7F
	tc.lenCounter.halt = tc.linearCtrl

	log.ModSound.DebugZ("write triangle linear").
		Uint8("reg", val).
		Bool("ctrl", tc.linearCtrl).
		End()
}

func (tc *triangleChannel) WriteTIMER(_, val uint8) {
	tc.period = tc.period&0xFF00 | uint16(val)
}

func (tc *triangleChannel) WriteLENGTH(_, val uint8) {
	tc.lenCounter.load(val >> 3)
	tc.period = tc.period&0xFF | uint16(val&0x07)<<8

	// Sets the linear counter reload flag (side effect).
	tc.linearReload = true

	log.ModSound.DebugZ("write triangle length").
		Uint8("reg", val).
		Uint16("period", tc.period).
		End()
}

func (tc *triangleChannel) tickTimer() {
	if tc.timer > 0 {
		tc.timer--
		return
	}
	tc.timer = tc.period

	// The sequencer is clocked by the timer as long as both the linear
	// counter and the length counter are nonzero.
	if tc.lenCounter.status() && tc.linearCounter > 0 {
		tc.pos = (tc.pos + 1) & 0x1F

		if tc.period >= 2 {
			// Silencing the sequencer when the period is < 2 removes
			// the pops caused by ultrasonic frequencies.
			tc.apu.setOutput(Triangle, triangleSequence[tc.pos])
		}
	}
}

func (tc *triangleChannel) output() uint8 {
	return triangleSequence[tc.pos]
}

func (tc *triangleChannel) tickLinearCounter() {
	if tc.linearReload {
		tc.linearCounter = tc.linearCounterReload
	} else if tc.linearCounter > 0 {
		tc.linearCounter--
	}

	if !tc.linearCtrl {
		tc.linearReload = false
	}
}

func (tc *triangleChannel) tickLengthCounter() {
	tc.lenCounter.tick()
}

func (tc *triangleChannel) setEnabled(enabled bool) {
	tc.lenCounter.setEnabled(enabled)
}

func (tc *triangleChannel) status() bool {
	return tc.lenCounter.status()
}

func (tc *triangleChannel) reset(soft bool) {
	tc.lenCounter.reset(soft)

	tc.timer = 0
	tc.period = 0
	tc.linearCounter = 0
	tc.linearCounterReload = 0
	tc.linearReload = false
	tc.linearCtrl = false
	tc.pos = 0
}
