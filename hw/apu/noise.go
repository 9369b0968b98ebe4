package apu

import (
	"famicore/emu/log"
	"famicore/hw/hwio"
)

// The noise channel generates pseudo-random 1-bit noise at 16 different
// frequencies.
//
//	      Timer --> Shift Register   Length Counter
//	                    |                |
//	                    v                v
//	Envelope -------> Gate ----------> Gate --> (to mixer)
type noiseChannel struct {
	apu *APU
	env envelope

	shiftReg uint16
	mode     bool // mode flag.

	timer  uint16
	period uint16

	Volume hwio.Reg8 // $400C
	Unused hwio.Reg8 // $400D
	Period hwio.Reg8 // $400E
	Length hwio.Reg8 // $400F
}

var noisePeriodLUT = [16]uint16{4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068}

func (nc *noiseChannel) init(apu *APU) {
	nc.apu = apu
	nc.env.lenCounter.channel = Noise

	nc.Volume = hwio.Reg8{Name: "NOISEVOL", Flags: hwio.WriteOnlyFlag, WriteCb: nc.WriteVOLUME}
	nc.Unused = hwio.Reg8{Name: "NOISEUNUSED", Flags: hwio.WriteOnlyFlag}
	nc.Period = hwio.Reg8{Name: "NOISEPERIOD", Flags: hwio.WriteOnlyFlag, WriteCb: nc.WritePERIOD}
	nc.Length = hwio.Reg8{Name: "NOISELENGTH", Flags: hwio.WriteOnlyFlag, WriteCb: nc.WriteLENGTH}
}

func (nc *noiseChannel) WriteVOLUME(_, val uint8) {
	log.ModSound.DebugZ("write noise volume").Uint8("val", val).End()
	nc.env.init(val)
}

func (nc *noiseChannel) WritePERIOD(_, val uint8) {
	nc.period = noisePeriodLUT[val&0x0F] - 1
	nc.mode = val&0x80 != 0
}

func (nc *noiseChannel) WriteLENGTH(_, val uint8) {
	nc.env.lenCounter.load(val >> 3)
	nc.env.restart()
}

func (nc *noiseChannel) tickTimer() {
	if nc.timer > 0 {
		nc.timer--
		return
	}
	nc.timer = nc.period

	// Feedback is the exclusive-OR of bit 0 and one other bit: bit 6 if
	// the mode flag is set, otherwise bit 1.
	modebit := 1
	if nc.mode {
		modebit = 6
	}

	feedback := nc.shiftReg&0x01 ^ nc.shiftReg>>modebit&0x01
	nc.shiftReg >>= 1
	nc.shiftReg |= feedback << 14

	if nc.isMuted() {
		nc.apu.setOutput(Noise, 0)
	} else {
		nc.apu.setOutput(Noise, nc.env.output())
	}
}

func (nc *noiseChannel) isMuted() bool {
	// The mixer receives the current envelope volume except when bit 0
	// of the shift register is set.
	return nc.shiftReg&0x01 == 0x01
}

func (nc *noiseChannel) output() uint8 {
	if nc.isMuted() {
		return 0
	}
	return nc.env.output()
}

func (nc *noiseChannel) tickEnvelope() {
	nc.env.tick()
}

func (nc *noiseChannel) tickLengthCounter() {
	nc.env.lenCounter.tick()
}

func (nc *noiseChannel) setEnabled(enabled bool) {
	nc.env.lenCounter.setEnabled(enabled)
}

func (nc *noiseChannel) status() bool {
	return nc.env.lenCounter.status()
}

func (nc *noiseChannel) reset(soft bool) {
	nc.env.reset(soft)

	nc.timer = 0
	nc.period = noisePeriodLUT[0] - 1
	nc.shiftReg = 1
	nc.mode = false
}
