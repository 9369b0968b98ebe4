// Package emu assembles the hardware components into a console and drives
// them frame by frame.
package emu

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"io"

	"famicore/emu/log"
	"famicore/hw"
	"famicore/hw/apu"
	"famicore/hw/hwio"
	"famicore/hw/mappers"
	"famicore/hw/snapshot"
	"famicore/ines"
)

// Video receives completed frames. BeginFrame hands out the buffer the
// frame is blitted into, EndFrame presents it. The console never keeps a
// reference to the buffer past EndFrame.
type Video interface {
	BeginFrame() *image.RGBA
	EndFrame(*image.RGBA)
}

// Audio receives the block of samples produced during a frame. QueueSamples
// must not block: a sink that can't keep up should drop the block and
// return an error. Sink errors are logged and counted, they never stop the
// emulation.
type Audio interface {
	QueueSamples([]int16) error
}

const DefaultSampleRate = 44100

// Console is a full NES: CPU, PPU, APU, DMA unit, controller ports and 2KB
// of work RAM, wired on the CPU bus together with the cartridge mapper.
type Console struct {
	CPU   *hw.CPU
	PPU   *hw.PPU
	APU   *apu.APU
	DMA   *hw.DMA
	Input *hw.InputPorts
	Bus   *hwio.Table
	Mixer *apu.Mixer
	Rom   *ines.Rom

	ram [0x800]uint8

	// CPU cycles the PPU and APU have been caught up to.
	clock int64

	video Video
	audio Audio

	audioErrs uint64
}

// New builds a console around the given cartridge and puts it in its
// power-up state. It fails if the cartridge mapper is not supported.
func New(rom *ines.Rom) (*Console, error) {
	bus := hwio.NewTable("cpu")
	ppu := hw.NewPPU()
	cpu := hw.NewCPU(bus)
	ppu.CPU = cpu
	mixer := apu.NewMixer(DefaultSampleRate)
	sound := apu.New(cpu, mixer)
	dma := hw.NewDMA(cpu)
	ports := hw.NewInputPorts(nil)

	// $4017 is half controller port, half frame counter.
	ports.WriteOut = sound.WriteFrameCounter

	c := &Console{
		CPU:   cpu,
		PPU:   ppu,
		APU:   sound,
		DMA:   dma,
		Input: ports,
		Bus:   bus,
		Mixer: mixer,
		Rom:   rom,
	}

	// Work RAM, mirrored 4 times over $0000-$1FFF.
	bus.MapMem(0x0000, &hwio.Mem{
		Name:  "ram",
		Data:  c.ram[:],
		VSize: 0x2000,
	})

	ppu.MapCPU(bus)
	sound.MapCPU(bus)
	dma.MapCPU(bus)
	ports.MapCPU(bus)

	if err := mappers.Load(rom, cpu, bus, ppu); err != nil {
		return nil, err
	}

	c.Reset(false)
	return c, nil
}

func (c *Console) SetVideo(v Video) { c.video = v }
func (c *Console) SetAudio(a Audio) { c.audio = a }

// SetTrace writes one line per executed instruction to w, with the beam
// position at the time of the fetch.
func (c *Console) SetTrace(w io.Writer) {
	c.CPU.SetDisasm(w, false)
	c.CPU.SetDisasmCoords(c.PPU.Coords)
}

// Reset performs a soft (reset button) or hard (power cycle) reset.
func (c *Console) Reset(soft bool) {
	c.PPU.Reset()
	c.APU.Reset(soft)
	if soft {
		c.CPU.Reset()
	} else {
		clear(c.ram[:])
		c.CPU.PowerUp()
	}
	c.clock = c.CPU.Clock
}

// RunUntil steps the console one instruction at a time until stop returns
// true. After each instruction the PPU and APU catch up to the CPU clock,
// so interrupt lines raised by either are observed before the next
// instruction.
func (c *Console) RunUntil(stop func() bool) error {
	for {
		if _, err := c.CPU.Step(); err != nil {
			return err
		}
		c.catchUp()
		if stop() {
			return nil
		}
	}
}

// catchUp advances the PPU (3 dots per CPU cycle) and the APU (one tick
// per cycle) up to the CPU clock. The target is absolute, not the cycle
// count of the last instruction: a DMC sample fetch stalls the CPU from
// inside an APU tick, and those cycles must reach the PPU too or the 1:3
// ratio drifts.
func (c *Console) catchUp() {
	for c.clock < c.CPU.Clock {
		c.clock++
		c.PPU.Advance(3)
		c.APU.Tick()
	}
}

// RunFrame emulates until the PPU completes the current frame, then hands
// the frame to the video sink and the frame's samples to the audio sink.
func (c *Console) RunFrame() error {
	if err := c.RunUntil(c.PPU.FrameReady); err != nil {
		return err
	}

	if c.video != nil {
		dst := c.video.BeginFrame()
		draw.Draw(dst, dst.Bounds(), c.PPU.Output(), image.Point{}, draw.Src)
		c.video.EndFrame(dst)
	}

	samples := c.APU.EndFrame()
	if c.audio != nil {
		if err := c.audio.QueueSamples(samples); err != nil {
			c.audioErrs++
			log.ModSound.WarnZ("audio sink error").
				Error("err", err).
				Uint64("total", c.audioErrs).
				End()
		}
	}
	return nil
}

// AudioErrors returns the number of sample blocks the audio sink rejected.
func (c *Console) AudioErrors() uint64 {
	return c.audioErrs
}

// SaveSnapshot serializes the complete console state. Mapper registers are
// not included: a snapshot is only valid for the session's cartridge.
func (c *Console) SaveSnapshot() []byte {
	return snapshot.Encode(&snapshot.Console{
		Version: snapshot.Version,
		CPU:     *c.CPU.State(),
		RAM:     bytes.Clone(c.ram[:]),
		PPU:     *c.PPU.State(),
		APU:     *c.APU.State(),
		Input:   *c.Input.State(),
	})
}

// LoadSnapshot restores a state previously returned by SaveSnapshot.
func (c *Console) LoadSnapshot(buf []byte) error {
	state, err := snapshot.Decode(buf)
	if err != nil {
		return err
	}
	if len(state.RAM) != len(c.ram) {
		return fmt.Errorf("bad snapshot: ram is %d bytes", len(state.RAM))
	}

	c.CPU.SetState(&state.CPU)
	copy(c.ram[:], state.RAM)
	c.PPU.SetState(&state.PPU)
	c.APU.SetState(&state.APU)
	c.Input.SetState(&state.Input)
	c.clock = c.CPU.Clock
	return nil
}
