package apu

import (
	"testing"

	"famicore/hw/hwdefs"
	"famicore/hw/hwio"
)

type testCPU struct {
	irq     hwdefs.IRQSource
	cycle   int64
	mem     [0x10000]uint8
	fetches int
}

func (c *testCPU) SetIRQSource(src hwdefs.IRQSource)      { c.irq |= src }
func (c *testCPU) ClearIRQSource(src hwdefs.IRQSource)    { c.irq &^= src }
func (c *testCPU) HasIRQSource(src hwdefs.IRQSource) bool { return c.irq&src != 0 }
func (c *testCPU) CurrentCycle() int64                    { return c.cycle }

func (c *testCPU) FetchDMC(addr uint16) uint8 {
	c.fetches++
	return c.mem[addr]
}

func newTestAPU() (*APU, *testCPU, *hwio.Table) {
	cpu := &testCPU{}
	a := New(cpu, NewMixer(44100))
	a.Reset(false)

	tbl := hwio.NewTable("aputest")
	a.MapCPU(tbl)

	// Absorb the $4017 write implied by reset.
	for range 3 {
		a.Tick()
	}
	return a, cpu, tbl
}

func advance(a *APU, n int) {
	for range n {
		a.Tick()
	}
}

func TestAPULengthCounter(t *testing.T) {
	a, _, tbl := newTestAPU()

	tbl.Write8(0x4015, 0x01)
	tbl.Write8(0x4003, 3<<3) // length index 3 loads 2

	if tbl.Peek8(0x4015)&0x01 == 0 {
		t.Fatal("square 1 should be active after length load")
	}

	// Half frames of the 4-step sequence fall at 14913 and 29829.
	advance(a, 14913)
	if tbl.Peek8(0x4015)&0x01 == 0 {
		t.Fatal("square 1 should still be active after one half frame")
	}
	advance(a, 29829-14913)
	if tbl.Peek8(0x4015)&0x01 != 0 {
		t.Fatal("square 1 should be silenced after two half frames")
	}
}

func TestAPULengthCounterHalt(t *testing.T) {
	a, _, tbl := newTestAPU()

	tbl.Write8(0x4015, 0x01)
	tbl.Write8(0x4000, 0x20) // halt
	tbl.Write8(0x4003, 3<<3)

	advance(a, 40000)
	if tbl.Peek8(0x4015)&0x01 == 0 {
		t.Fatal("halted length counter should never reach zero")
	}
}

func TestAPUFrameCounterIRQ(t *testing.T) {
	a, cpu, tbl := newTestAPU()

	advance(a, 29828)
	if !cpu.HasIRQSource(hwdefs.FrameCounter) {
		t.Fatal("frame counter IRQ should be raised at the end of the 4-step sequence")
	}
	if tbl.Peek8(0x4015)&0x40 == 0 {
		t.Fatal("status bit 6 should report the frame counter IRQ")
	}

	// Reading $4015 acknowledges the IRQ.
	tbl.Read8(0x4015, false)
	if cpu.HasIRQSource(hwdefs.FrameCounter) {
		t.Fatal("reading status should clear the frame counter IRQ")
	}
}

func TestAPUFrameCounterInhibit(t *testing.T) {
	a, cpu, _ := newTestAPU()

	a.WriteFrameCounter(0x40)
	advance(a, 80000)
	if cpu.HasIRQSource(hwdefs.FrameCounter) {
		t.Fatal("no IRQ should be raised with the inhibit flag set")
	}
}

func TestAPUFrameCounterFiveStep(t *testing.T) {
	a, cpu, tbl := newTestAPU()

	tbl.Write8(0x4015, 0x01)
	tbl.Write8(0x4003, 3<<3) // length 2

	// Writing $4017 with bit 7 set immediately clocks the half frame
	// units, once the write delay has elapsed.
	a.WriteFrameCounter(0x80)
	advance(a, 4)
	if !a.Square1.status() {
		t.Fatal("square 1 should still be active after one half frame clock")
	}

	a.WriteFrameCounter(0x80)
	advance(a, 4)
	if a.Square1.status() {
		t.Fatal("square 1 should be silenced after two half frame clocks")
	}

	// 5-step mode never raises the frame IRQ.
	advance(a, 80000)
	if cpu.HasIRQSource(hwdefs.FrameCounter) {
		t.Fatal("no IRQ should be raised in 5-step mode")
	}
}

func TestAPUSquareOutput(t *testing.T) {
	a, _, tbl := newTestAPU()

	tbl.Write8(0x4015, 0x01)
	tbl.Write8(0x4000, 0x9F)      // duty 2, constant volume 15
	tbl.Write8(0x4002, 0xFF)      // period low
	tbl.Write8(0x4003, 1<<3|0x01) // period high = 1, length 254

	// First sequencer step moves to position 7, which is high for a 50%
	// duty cycle.
	advance(a, 2)
	if got := tbl.Peek8(0x4018) & 0x0F; got != 15 {
		t.Fatalf("square 1 DAC = %d, want 15", got)
	}

	// Position 3 is low.
	advance(a, 4*(2*0x1FF+2))
	if got := tbl.Peek8(0x4018) & 0x0F; got != 0 {
		t.Fatalf("square 1 DAC = %d, want 0", got)
	}
}

func TestAPUSquareMutedBelowPeriod8(t *testing.T) {
	a, _, tbl := newTestAPU()

	tbl.Write8(0x4015, 0x01)
	tbl.Write8(0x4000, 0x9F)
	tbl.Write8(0x4002, 0x04) // period < 8 silences the channel
	tbl.Write8(0x4003, 1<<3)

	advance(a, 100)
	if got := tbl.Peek8(0x4018) & 0x0F; got != 0 {
		t.Fatalf("square 1 DAC = %d, want 0 (muted)", got)
	}
}

func TestAPUNoiseOutput(t *testing.T) {
	a, _, tbl := newTestAPU()

	tbl.Write8(0x4015, 0x08)
	tbl.Write8(0x400C, 0x1F) // constant volume 15
	tbl.Write8(0x400E, 0x00) // fastest rate
	tbl.Write8(0x400F, 1<<3)

	// The shift register starts at 1. The first clock shifts the set bit
	// out, so the channel output becomes the envelope volume.
	a.Tick()
	if got := tbl.Peek8(0x4019) >> 4; got != 15 {
		t.Fatalf("noise DAC = %d, want 15", got)
	}
}

func TestAPUStatusEnables(t *testing.T) {
	a, _, tbl := newTestAPU()

	tbl.Write8(0x4015, 0x0F)
	tbl.Write8(0x4003, 1<<3)
	tbl.Write8(0x4007, 1<<3)
	tbl.Write8(0x400B, 1<<3)
	tbl.Write8(0x400F, 1<<3)

	if got := tbl.Peek8(0x4015) & 0x0F; got != 0x0F {
		t.Fatalf("status = %02x, want 0f", got)
	}

	// Disabling a channel clears its length counter.
	tbl.Write8(0x4015, 0x05)
	if got := tbl.Peek8(0x4015) & 0x0F; got != 0x05 {
		t.Fatalf("status = %02x, want 05", got)
	}
	_ = a
}

func TestAPUDMCPlayback(t *testing.T) {
	a, cpu, tbl := newTestAPU()
	cpu.mem[0xC000] = 0xFF // eight +2 deltas

	tbl.Write8(0x4010, 0x00) // rate 0, no IRQ, no loop
	tbl.Write8(0x4012, 0x00) // sample at $C000
	tbl.Write8(0x4013, 0x00) // 1 byte
	tbl.Write8(0x4015, 0x10)

	if cpu.fetches != 1 {
		t.Fatalf("fetches = %d, want 1 (sample buffered on enable)", cpu.fetches)
	}

	// 8 silent clocks drain the empty shifter, then 8 more play the
	// sample byte, raising the output by 2 per set bit.
	advance(a, 16*428)
	if got := tbl.Peek8(0x401A); got != 16 {
		t.Fatalf("DMC DAC = %d, want 16", got)
	}
}

func TestAPUDMCIRQ(t *testing.T) {
	a, cpu, tbl := newTestAPU()

	tbl.Write8(0x4010, 0x80) // IRQ enabled
	tbl.Write8(0x4012, 0x00)
	tbl.Write8(0x4013, 0x00)
	tbl.Write8(0x4015, 0x10)

	if !cpu.HasIRQSource(hwdefs.DMC) {
		t.Fatal("DMC IRQ should be raised once the last sample byte is read")
	}
	if tbl.Peek8(0x4015)&0x80 == 0 {
		t.Fatal("status bit 7 should report the DMC IRQ")
	}

	// Writing $4015 acknowledges the IRQ.
	tbl.Write8(0x4015, 0x00)
	if cpu.HasIRQSource(hwdefs.DMC) {
		t.Fatal("writing status should clear the DMC IRQ")
	}
	_ = a
}

func TestMixerSampleCount(t *testing.T) {
	m := NewMixer(44100)
	m.SetOutput(Square1, 100, 15)

	const frameCycles = 29780
	samples := m.EndFrame(frameCycles)

	want := frameCycles * 44100 / ntscClockRate
	if len(samples) < want-3 || len(samples) > want+3 {
		t.Fatalf("got %d samples, want about %d", len(samples), want)
	}

	var nonzero bool
	for _, s := range samples {
		if s != 0 {
			nonzero = true
			break
		}
	}
	if !nonzero {
		t.Fatal("expected non silent samples after an output change")
	}
}

func TestEnvelopeDecay(t *testing.T) {
	a, _, tbl := newTestAPU()

	tbl.Write8(0x4015, 0x01)
	tbl.Write8(0x4000, 0x80) // duty 2, decaying envelope, divider period 0
	tbl.Write8(0x4002, 0xFF)
	tbl.Write8(0x4003, 1<<3|0x01)

	// The restart is applied on the first quarter frame, which loads the
	// counter with 15. With a divider period of 0, each quarter frame
	// after that decays it by 1.
	advance(a, 7457)
	if got := a.Square1.envelope.output(); got != 15 {
		t.Fatalf("envelope = %d, want 15 after restart", got)
	}

	// Three more quarter frames in this sequence (14913, 22371, 29829).
	advance(a, 29830-7457)
	if got := a.Square1.envelope.output(); got != 12 {
		t.Fatalf("envelope = %d, want 12 after 3 decay clocks", got)
	}

	// Without the loop flag the counter stays at 0 once exhausted.
	advance(a, 5*29830)
	if got := a.Square1.envelope.output(); got != 0 {
		t.Fatalf("envelope = %d, want 0 after full decay", got)
	}
}
