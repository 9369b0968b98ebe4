package apu

import (
	"famicore/hw/snapshot"
)

func (a *APU) State() *snapshot.APU {
	var s snapshot.APU
	s.Cycle = a.cycle
	a.Square1.saveState(&s.Square1)
	a.Square2.saveState(&s.Square2)
	a.Triangle.saveState(&s.Triangle)
	a.Noise.saveState(&s.Noise)
	a.DMC.saveState(&s.DMC)
	a.frameCounter.saveState(&s.FrameCounter)
	return &s
}

func (a *APU) SetState(s *snapshot.APU) {
	a.cycle = s.Cycle
	a.Square1.setState(&s.Square1)
	a.Square2.setState(&s.Square2)
	a.Triangle.setState(&s.Triangle)
	a.Noise.setState(&s.Noise)
	a.DMC.setState(&s.DMC)
	a.frameCounter.setState(&s.FrameCounter)
	a.mixer.Reset()
}

func (lc *lengthCounter) saveState(s *snapshot.LengthCounter) {
	s.Enabled = lc.enabled
	s.Halt = lc.halt
	s.Counter = lc.counter
}

func (lc *lengthCounter) setState(s *snapshot.LengthCounter) {
	lc.enabled = s.Enabled
	lc.halt = s.Halt
	lc.counter = s.Counter
}

func (env *envelope) saveState(s *snapshot.Envelope) {
	env.lenCounter.saveState(&s.Length)
	s.ConstantVolume = env.constantVolume
	s.Volume = env.volume
	s.Start = env.start
	s.Divider = env.divider
	s.Counter = env.counter
}

func (env *envelope) setState(s *snapshot.Envelope) {
	env.lenCounter.setState(&s.Length)
	env.constantVolume = s.ConstantVolume
	env.volume = s.Volume
	env.start = s.Start
	env.divider = s.Divider
	env.counter = s.Counter
}

func (sc *squareChannel) saveState(s *snapshot.Square) {
	sc.envelope.saveState(&s.Envelope)
	s.Duty = sc.duty
	s.DutyPos = sc.dutyPos
	s.Timer = sc.timer
	s.RealPeriod = sc.realPeriod
	s.SweepEnabled = sc.sweepEnabled
	s.SweepPeriod = sc.sweepPeriod
	s.SweepNegate = sc.sweepNegate
	s.SweepShift = sc.sweepShift
	s.ReloadSweep = sc.reloadSweep
	s.SweepDivider = sc.sweepDivider
	s.SweepTarget = sc.sweepTargetPeriod
}

func (sc *squareChannel) setState(s *snapshot.Square) {
	sc.envelope.setState(&s.Envelope)
	sc.duty = s.Duty
	sc.dutyPos = s.DutyPos
	sc.timer = s.Timer
	sc.realPeriod = s.RealPeriod
	sc.sweepEnabled = s.SweepEnabled
	sc.sweepPeriod = s.SweepPeriod
	sc.sweepNegate = s.SweepNegate
	sc.sweepShift = s.SweepShift
	sc.reloadSweep = s.ReloadSweep
	sc.sweepDivider = s.SweepDivider
	sc.sweepTargetPeriod = s.SweepTarget
}

func (tc *triangleChannel) saveState(s *snapshot.Triangle) {
	tc.lenCounter.saveState(&s.Length)
	s.Timer = tc.timer
	s.Period = tc.period
	s.LinearCounter = tc.linearCounter
	s.LinearReload = tc.linearCounterReload
	s.ReloadFlag = tc.linearReload
	s.Control = tc.linearCtrl
	s.Pos = tc.pos
}

func (tc *triangleChannel) setState(s *snapshot.Triangle) {
	tc.lenCounter.setState(&s.Length)
	tc.timer = s.Timer
	tc.period = s.Period
	tc.linearCounter = s.LinearCounter
	tc.linearCounterReload = s.LinearReload
	tc.linearReload = s.ReloadFlag
	tc.linearCtrl = s.Control
	tc.pos = s.Pos
}

func (nc *noiseChannel) saveState(s *snapshot.Noise) {
	nc.env.saveState(&s.Envelope)
	s.ShiftReg = nc.shiftReg
	s.Mode = nc.mode
	s.Timer = nc.timer
	s.Period = nc.period
}

func (nc *noiseChannel) setState(s *snapshot.Noise) {
	nc.env.setState(&s.Envelope)
	nc.shiftReg = s.ShiftReg
	nc.mode = s.Mode
	nc.timer = s.Timer
	nc.period = s.Period
}

func (dc *dmcChannel) saveState(s *snapshot.DMC) {
	s.SampleAddr = dc.sampleAddr
	s.SampleLen = dc.sampleLen
	s.OutLvl = dc.outlvl
	s.IRQEnabled = dc.irqEnabled
	s.Loop = dc.loop
	s.CurAddr = dc.curaddr
	s.Remaining = dc.remaining
	s.ReadBuf = dc.readbuf
	s.BufEmpty = dc.bufEmpty
	s.ShiftReg = dc.shiftReg
	s.BitsLeft = dc.bitsLeft
	s.Silence = dc.silence
	s.Timer = dc.timer
	s.Period = dc.period
}

func (dc *dmcChannel) setState(s *snapshot.DMC) {
	dc.sampleAddr = s.SampleAddr
	dc.sampleLen = s.SampleLen
	dc.outlvl = s.OutLvl
	dc.irqEnabled = s.IRQEnabled
	dc.loop = s.Loop
	dc.curaddr = s.CurAddr
	dc.remaining = s.Remaining
	dc.readbuf = s.ReadBuf
	dc.bufEmpty = s.BufEmpty
	dc.shiftReg = s.ShiftReg
	dc.bitsLeft = s.BitsLeft
	dc.silence = s.Silence
	dc.timer = s.Timer
	dc.period = s.Period
}

func (fc *frameCounter) saveState(s *snapshot.FrameCounter) {
	s.Cycle = fc.cycle
	s.CurStep = fc.curStep
	s.StepMode = fc.stepMode
	s.InhibitIRQ = fc.inhibitIRQ
	s.BlockTick = fc.blockTick
	s.NewVal = fc.newval
	s.WriteDelay = fc.writeDelay
}

func (fc *frameCounter) setState(s *snapshot.FrameCounter) {
	fc.cycle = s.Cycle
	fc.curStep = s.CurStep
	fc.stepMode = s.StepMode
	fc.inhibitIRQ = s.InhibitIRQ
	fc.blockTick = s.BlockTick
	fc.newval = s.NewVal
	fc.writeDelay = s.WriteDelay
}
