package apu

import (
	"famicore/emu/log"
	"famicore/hw/hwio"
)

// There are two square channels beginning at registers $4000 and $4004.
// Each contains the following: Envelope Generator, Sweep Unit, Timer with
// divide-by-two on the output, 8-step sequencer, Length Counter.
//
//	               +---------+    +---------+
//	               |  Sweep  |--->|Timer / 2|
//	               +---------+    +---------+
//	                    |              |
//	                    |              v
//	                    |         +---------+    +---------+
//	                    |         |Sequencer|    | Length  |
//	                    |         +---------+    +---------+
//	                    |              |              |
//	                    v              v              v
//	+---------+        |\             |\             |\          +---------+
//	|Envelope |------->| >----------->| >----------->| >-------->|   DAC   |
//	+---------+        |/             |/             |/          +---------+
type squareChannel struct {
	apu      *APU
	envelope envelope

	channel    Channel
	isChannel1 bool

	duty    uint8
	dutyPos uint8

	timer      uint16 // countdown, in CPU cycles
	realPeriod uint16

	sweepEnabled      bool
	sweepPeriod       uint8
	sweepNegate       bool
	sweepShift        uint8
	reloadSweep       bool
	sweepDivider      uint8
	sweepTargetPeriod uint32

	Duty   hwio.Reg8 // $4000/$4004
	Sweep  hwio.Reg8 // $4001/$4005
	Timer  hwio.Reg8 // $4002/$4006
	Length hwio.Reg8 // $4003/$4007
}

func (sc *squareChannel) init(apu *APU, channel Channel, isChannel1 bool) {
	sc.apu = apu
	sc.channel = channel
	sc.isChannel1 = isChannel1
	sc.envelope.lenCounter.channel = channel

	name := "SQ2"
	if isChannel1 {
		name = "SQ1"
	}
	sc.Duty = hwio.Reg8{Name: name + "DUTY", Flags: hwio.WriteOnlyFlag, WriteCb: sc.WriteDUTY}
	sc.Sweep = hwio.Reg8{Name: name + "SWEEP", Flags: hwio.WriteOnlyFlag, WriteCb: sc.WriteSWEEP}
	sc.Timer = hwio.Reg8{Name: name + "TIMER", Flags: hwio.WriteOnlyFlag, WriteCb: sc.WriteTIMER}
	sc.Length = hwio.Reg8{Name: name + "LENGTH", Flags: hwio.WriteOnlyFlag, WriteCb: sc.WriteLENGTH}
}

func (sc *squareChannel) WriteDUTY(_, val uint8) {
	sc.envelope.init(val)
	sc.duty = (val & 0xC0) >> 6

	log.ModSound.DebugZ("write pulse duty").
		Uint8("reg", val).
		Uint8("duty", sc.duty).
		End()
}

func (sc *squareChannel) WriteSWEEP(_, val uint8) {
	sc.initSweep(val)

	log.ModSound.DebugZ("write pulse sweep").Uint8("reg", val).End()
}

func (sc *squareChannel) WriteTIMER(_, val uint8) {
	sc.setPeriod(sc.realPeriod&0x0700 | uint16(val))
}

func (sc *squareChannel) WriteLENGTH(_, val uint8) {
	sc.envelope.lenCounter.load(val >> 3)
	sc.setPeriod(sc.realPeriod&0xFF | uint16(val&0x07)<<8)

	// The sequencer is restarted at the first value of the current
	// sequence, and so is the envelope.
	sc.dutyPos = 0
	sc.envelope.restart()

	log.ModSound.DebugZ("write pulse length").
		Uint8("reg", val).
		Uint16("period", sc.realPeriod).
		End()
}

func (sc *squareChannel) isMuted() bool {
	// A period of t < 8, either set explicitly or via a sweep period
	// update, silences the corresponding pulse channel.
	return sc.realPeriod < 8 || (!sc.sweepNegate && sc.sweepTargetPeriod > 0x7FF)
}

func (sc *squareChannel) initSweep(val uint8) {
	sc.sweepEnabled = val&0x80 != 0
	sc.sweepNegate = val&0x08 != 0

	// The divider's period is set to P + 1.
	sc.sweepPeriod = (val&0x70)>>4 + 1
	sc.sweepShift = val & 0x07

	sc.updateTargetPeriod()

	// Side effect: sets the reload flag.
	sc.reloadSweep = true
}

func (sc *squareChannel) updateTargetPeriod() {
	shiftResult := sc.realPeriod >> sc.sweepShift
	if sc.sweepNegate {
		sc.sweepTargetPeriod = uint32(sc.realPeriod - shiftResult)
		if sc.isChannel1 {
			// A negative sweep on pulse channel 1 subtracts the
			// shifted period value minus 1.
			sc.sweepTargetPeriod--
		}
	} else {
		sc.sweepTargetPeriod = uint32(sc.realPeriod + shiftResult)
	}
}

func (sc *squareChannel) setPeriod(newPeriod uint16) {
	sc.realPeriod = newPeriod
	sc.updateTargetPeriod()
}

// timerPeriod is the timer length in CPU cycles (the sequencer is clocked
// every realPeriod+1 APU cycles).
func (sc *squareChannel) timerPeriod() uint16 {
	return sc.realPeriod*2 + 1
}

// duty cycle sequences for the square channels.
var squareDuty = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 0, 1},
	{0, 0, 0, 0, 0, 0, 1, 1},
	{0, 0, 0, 0, 1, 1, 1, 1},
	{1, 1, 1, 1, 1, 1, 0, 0},
}

func (sc *squareChannel) updateOutput() {
	if sc.isMuted() {
		sc.apu.setOutput(sc.channel, 0)
		return
	}
	out := squareDuty[sc.duty][sc.dutyPos] * sc.envelope.output()
	sc.apu.setOutput(sc.channel, out)
}

func (sc *squareChannel) output() uint8 {
	if sc.isMuted() {
		return 0
	}
	return squareDuty[sc.duty][sc.dutyPos] * sc.envelope.output()
}

func (sc *squareChannel) tickTimer() {
	if sc.timer == 0 {
		sc.timer = sc.timerPeriod()
		sc.dutyPos = (sc.dutyPos - 1) & 0x07
		sc.updateOutput()
	} else {
		sc.timer--
	}
}

func (sc *squareChannel) tickSweep() {
	sc.sweepDivider--
	if sc.sweepDivider == 0 {
		if sc.sweepShift > 0 && sc.sweepEnabled && sc.realPeriod >= 8 && sc.sweepTargetPeriod <= 0x7FF {
			sc.setPeriod(uint16(sc.sweepTargetPeriod))
		}
		sc.sweepDivider = sc.sweepPeriod
	}

	if sc.reloadSweep {
		sc.sweepDivider = sc.sweepPeriod
		sc.reloadSweep = false
	}
}

func (sc *squareChannel) tickEnvelope() {
	sc.envelope.tick()
}

func (sc *squareChannel) tickLengthCounter() {
	sc.envelope.lenCounter.tick()
}

func (sc *squareChannel) setEnabled(enabled bool) {
	sc.envelope.lenCounter.setEnabled(enabled)
}

func (sc *squareChannel) status() bool {
	return sc.envelope.lenCounter.status()
}

func (sc *squareChannel) reset(soft bool) {
	sc.envelope.reset(soft)

	sc.duty = 0
	sc.dutyPos = 0
	sc.timer = 0
	sc.realPeriod = 0

	sc.sweepEnabled = false
	sc.sweepPeriod = 0
	sc.sweepNegate = false
	sc.sweepShift = 0
	sc.reloadSweep = false
	sc.sweepDivider = 0
	sc.sweepTargetPeriod = 0
	sc.updateTargetPeriod()
}
