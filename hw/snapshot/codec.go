package snapshot

import (
	"fmt"

	"github.com/go-faster/jx"
)

// Encode serializes a console state to JSON.
func Encode(c *Console) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("version")
	e.Int(c.Version)
	e.FieldStart("cpu")
	encodeCPU(&e, &c.CPU)
	e.FieldStart("ram")
	e.Base64(c.RAM)
	e.FieldStart("ppu")
	encodePPU(&e, &c.PPU)
	e.FieldStart("apu")
	encodeAPU(&e, &c.APU)
	e.FieldStart("input")
	encodeInput(&e, &c.Input)
	e.ObjEnd()
	return e.Bytes()
}

// Decode deserializes a console state. It fails on malformed JSON or on a
// version this build does not know.
func Decode(data []byte) (*Console, error) {
	c := new(Console)
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			c.Version, err = d.Int()
		case "cpu":
			err = decodeCPU(d, &c.CPU)
		case "ram":
			c.RAM, err = d.Base64()
		case "ppu":
			err = decodePPU(d, &c.PPU)
		case "apu":
			err = decodeAPU(d, &c.APU)
		case "input":
			err = decodeInput(d, &c.Input)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("malformed snapshot: %w", err)
	}
	if c.Version != Version {
		return nil, fmt.Errorf("unsupported snapshot version %d", c.Version)
	}
	return c, nil
}

func encodeCPU(e *jx.Encoder, s *CPU) {
	e.ObjStart()
	e.FieldStart("pc")
	e.UInt16(s.PC)
	e.FieldStart("sp")
	e.UInt8(s.SP)
	e.FieldStart("p")
	e.UInt8(s.P)
	e.FieldStart("a")
	e.UInt8(s.A)
	e.FieldStart("x")
	e.UInt8(s.X)
	e.FieldStart("y")
	e.UInt8(s.Y)
	e.FieldStart("clock")
	e.Int64(s.Clock)
	e.FieldStart("irq_lines")
	e.UInt8(s.IRQLines)
	e.FieldStart("nmi_pending")
	e.Bool(s.NMIPending)
	e.ObjEnd()
}

func decodeCPU(d *jx.Decoder, s *CPU) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "pc":
			s.PC, err = d.UInt16()
		case "sp":
			s.SP, err = d.UInt8()
		case "p":
			s.P, err = d.UInt8()
		case "a":
			s.A, err = d.UInt8()
		case "x":
			s.X, err = d.UInt8()
		case "y":
			s.Y, err = d.UInt8()
		case "clock":
			s.Clock, err = d.Int64()
		case "irq_lines":
			s.IRQLines, err = d.UInt8()
		case "nmi_pending":
			s.NMIPending, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
}

func encodePPU(e *jx.Encoder, s *PPU) {
	e.ObjStart()
	e.FieldStart("cycle")
	e.Int(s.Cycle)
	e.FieldStart("scanline")
	e.Int(s.Scanline)
	e.FieldStart("frame")
	e.UInt64(s.Frame)
	e.FieldStart("odd_frame")
	e.Bool(s.OddFrame)
	e.FieldStart("ctrl")
	e.UInt8(s.CTRL)
	e.FieldStart("mask")
	e.UInt8(s.MASK)
	e.FieldStart("status")
	e.UInt8(s.STATUS)
	e.FieldStart("oamaddr")
	e.UInt8(s.OAMADDR)
	e.FieldStart("vram_addr")
	e.UInt16(s.VRAMAddr)
	e.FieldStart("vram_tmp")
	e.UInt16(s.VRAMTmp)
	e.FieldStart("fine_x")
	e.UInt8(s.FineX)
	e.FieldStart("write_latch")
	e.Bool(s.WriteLatch)
	e.FieldStart("data_buf")
	e.UInt8(s.DataBuf)
	e.FieldStart("reg_latch")
	e.UInt8(s.RegLatch)
	e.FieldStart("nmi_prev")
	e.Bool(s.NMIPrev)
	e.FieldStart("nametables")
	e.Base64(s.NameTables)
	e.FieldStart("palette")
	e.Base64(s.Palette)
	e.FieldStart("oam")
	e.Base64(s.OAM)
	e.ObjEnd()
}

func decodePPU(d *jx.Decoder, s *PPU) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "cycle":
			s.Cycle, err = d.Int()
		case "scanline":
			s.Scanline, err = d.Int()
		case "frame":
			s.Frame, err = d.UInt64()
		case "odd_frame":
			s.OddFrame, err = d.Bool()
		case "ctrl":
			s.CTRL, err = d.UInt8()
		case "mask":
			s.MASK, err = d.UInt8()
		case "status":
			s.STATUS, err = d.UInt8()
		case "oamaddr":
			s.OAMADDR, err = d.UInt8()
		case "vram_addr":
			s.VRAMAddr, err = d.UInt16()
		case "vram_tmp":
			s.VRAMTmp, err = d.UInt16()
		case "fine_x":
			s.FineX, err = d.UInt8()
		case "write_latch":
			s.WriteLatch, err = d.Bool()
		case "data_buf":
			s.DataBuf, err = d.UInt8()
		case "reg_latch":
			s.RegLatch, err = d.UInt8()
		case "nmi_prev":
			s.NMIPrev, err = d.Bool()
		case "nametables":
			s.NameTables, err = d.Base64()
		case "palette":
			s.Palette, err = d.Base64()
		case "oam":
			s.OAM, err = d.Base64()
		default:
			err = d.Skip()
		}
		return err
	})
}

func encodeInput(e *jx.Encoder, s *Input) {
	e.ObjStart()
	e.FieldStart("strobe")
	e.Bool(s.Strobe)
	e.FieldStart("state0")
	e.UInt8(s.State[0])
	e.FieldStart("state1")
	e.UInt8(s.State[1])
	e.ObjEnd()
}

func decodeInput(d *jx.Decoder, s *Input) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "strobe":
			s.Strobe, err = d.Bool()
		case "state0":
			s.State[0], err = d.UInt8()
		case "state1":
			s.State[1], err = d.UInt8()
		default:
			err = d.Skip()
		}
		return err
	})
}

func encodeAPU(e *jx.Encoder, s *APU) {
	e.ObjStart()
	e.FieldStart("cycle")
	e.UInt32(s.Cycle)
	e.FieldStart("square1")
	encodeSquare(e, &s.Square1)
	e.FieldStart("square2")
	encodeSquare(e, &s.Square2)
	e.FieldStart("triangle")
	encodeTriangle(e, &s.Triangle)
	e.FieldStart("noise")
	encodeNoise(e, &s.Noise)
	e.FieldStart("dmc")
	encodeDMC(e, &s.DMC)
	e.FieldStart("frame_counter")
	encodeFrameCounter(e, &s.FrameCounter)
	e.ObjEnd()
}

func decodeAPU(d *jx.Decoder, s *APU) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "cycle":
			s.Cycle, err = d.UInt32()
		case "square1":
			err = decodeSquare(d, &s.Square1)
		case "square2":
			err = decodeSquare(d, &s.Square2)
		case "triangle":
			err = decodeTriangle(d, &s.Triangle)
		case "noise":
			err = decodeNoise(d, &s.Noise)
		case "dmc":
			err = decodeDMC(d, &s.DMC)
		case "frame_counter":
			err = decodeFrameCounter(d, &s.FrameCounter)
		default:
			err = d.Skip()
		}
		return err
	})
}

func encodeLengthCounter(e *jx.Encoder, s *LengthCounter) {
	e.ObjStart()
	e.FieldStart("enabled")
	e.Bool(s.Enabled)
	e.FieldStart("halt")
	e.Bool(s.Halt)
	e.FieldStart("counter")
	e.UInt8(s.Counter)
	e.ObjEnd()
}

func decodeLengthCounter(d *jx.Decoder, s *LengthCounter) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "enabled":
			s.Enabled, err = d.Bool()
		case "halt":
			s.Halt, err = d.Bool()
		case "counter":
			s.Counter, err = d.UInt8()
		default:
			err = d.Skip()
		}
		return err
	})
}

func encodeEnvelope(e *jx.Encoder, s *Envelope) {
	e.ObjStart()
	e.FieldStart("length")
	encodeLengthCounter(e, &s.Length)
	e.FieldStart("constant_volume")
	e.Bool(s.ConstantVolume)
	e.FieldStart("volume")
	e.UInt8(s.Volume)
	e.FieldStart("start")
	e.Bool(s.Start)
	e.FieldStart("divider")
	e.Int32(int32(s.Divider))
	e.FieldStart("counter")
	e.UInt8(s.Counter)
	e.ObjEnd()
}

func decodeEnvelope(d *jx.Decoder, s *Envelope) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "length":
			err = decodeLengthCounter(d, &s.Length)
		case "constant_volume":
			s.ConstantVolume, err = d.Bool()
		case "volume":
			s.Volume, err = d.UInt8()
		case "start":
			s.Start, err = d.Bool()
		case "divider":
			var v int32
			v, err = d.Int32()
			s.Divider = int8(v)
		case "counter":
			s.Counter, err = d.UInt8()
		default:
			err = d.Skip()
		}
		return err
	})
}

func encodeSquare(e *jx.Encoder, s *Square) {
	e.ObjStart()
	e.FieldStart("envelope")
	encodeEnvelope(e, &s.Envelope)
	e.FieldStart("duty")
	e.UInt8(s.Duty)
	e.FieldStart("duty_pos")
	e.UInt8(s.DutyPos)
	e.FieldStart("timer")
	e.UInt16(s.Timer)
	e.FieldStart("real_period")
	e.UInt16(s.RealPeriod)
	e.FieldStart("sweep_enabled")
	e.Bool(s.SweepEnabled)
	e.FieldStart("sweep_period")
	e.UInt8(s.SweepPeriod)
	e.FieldStart("sweep_negate")
	e.Bool(s.SweepNegate)
	e.FieldStart("sweep_shift")
	e.UInt8(s.SweepShift)
	e.FieldStart("reload_sweep")
	e.Bool(s.ReloadSweep)
	e.FieldStart("sweep_divider")
	e.UInt8(s.SweepDivider)
	e.FieldStart("sweep_target")
	e.UInt32(s.SweepTarget)
	e.ObjEnd()
}

func decodeSquare(d *jx.Decoder, s *Square) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "envelope":
			err = decodeEnvelope(d, &s.Envelope)
		case "duty":
			s.Duty, err = d.UInt8()
		case "duty_pos":
			s.DutyPos, err = d.UInt8()
		case "timer":
			s.Timer, err = d.UInt16()
		case "real_period":
			s.RealPeriod, err = d.UInt16()
		case "sweep_enabled":
			s.SweepEnabled, err = d.Bool()
		case "sweep_period":
			s.SweepPeriod, err = d.UInt8()
		case "sweep_negate":
			s.SweepNegate, err = d.Bool()
		case "sweep_shift":
			s.SweepShift, err = d.UInt8()
		case "reload_sweep":
			s.ReloadSweep, err = d.Bool()
		case "sweep_divider":
			s.SweepDivider, err = d.UInt8()
		case "sweep_target":
			s.SweepTarget, err = d.UInt32()
		default:
			err = d.Skip()
		}
		return err
	})
}

func encodeTriangle(e *jx.Encoder, s *Triangle) {
	e.ObjStart()
	e.FieldStart("length")
	encodeLengthCounter(e, &s.Length)
	e.FieldStart("timer")
	e.UInt16(s.Timer)
	e.FieldStart("period")
	e.UInt16(s.Period)
	e.FieldStart("linear_counter")
	e.UInt8(s.LinearCounter)
	e.FieldStart("linear_reload")
	e.UInt8(s.LinearReload)
	e.FieldStart("reload_flag")
	e.Bool(s.ReloadFlag)
	e.FieldStart("control")
	e.Bool(s.Control)
	e.FieldStart("pos")
	e.UInt8(s.Pos)
	e.ObjEnd()
}

func decodeTriangle(d *jx.Decoder, s *Triangle) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "length":
			err = decodeLengthCounter(d, &s.Length)
		case "timer":
			s.Timer, err = d.UInt16()
		case "period":
			s.Period, err = d.UInt16()
		case "linear_counter":
			s.LinearCounter, err = d.UInt8()
		case "linear_reload":
			s.LinearReload, err = d.UInt8()
		case "reload_flag":
			s.ReloadFlag, err = d.Bool()
		case "control":
			s.Control, err = d.Bool()
		case "pos":
			s.Pos, err = d.UInt8()
		default:
			err = d.Skip()
		}
		return err
	})
}

func encodeNoise(e *jx.Encoder, s *Noise) {
	e.ObjStart()
	e.FieldStart("envelope")
	encodeEnvelope(e, &s.Envelope)
	e.FieldStart("shift_reg")
	e.UInt16(s.ShiftReg)
	e.FieldStart("mode")
	e.Bool(s.Mode)
	e.FieldStart("timer")
	e.UInt16(s.Timer)
	e.FieldStart("period")
	e.UInt16(s.Period)
	e.ObjEnd()
}

func decodeNoise(d *jx.Decoder, s *Noise) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "envelope":
			err = decodeEnvelope(d, &s.Envelope)
		case "shift_reg":
			s.ShiftReg, err = d.UInt16()
		case "mode":
			s.Mode, err = d.Bool()
		case "timer":
			s.Timer, err = d.UInt16()
		case "period":
			s.Period, err = d.UInt16()
		default:
			err = d.Skip()
		}
		return err
	})
}

func encodeDMC(e *jx.Encoder, s *DMC) {
	e.ObjStart()
	e.FieldStart("sample_addr")
	e.UInt16(s.SampleAddr)
	e.FieldStart("sample_len")
	e.UInt16(s.SampleLen)
	e.FieldStart("outlvl")
	e.UInt8(s.OutLvl)
	e.FieldStart("irq_enabled")
	e.Bool(s.IRQEnabled)
	e.FieldStart("loop")
	e.Bool(s.Loop)
	e.FieldStart("cur_addr")
	e.UInt16(s.CurAddr)
	e.FieldStart("remaining")
	e.UInt16(s.Remaining)
	e.FieldStart("read_buf")
	e.UInt8(s.ReadBuf)
	e.FieldStart("buf_empty")
	e.Bool(s.BufEmpty)
	e.FieldStart("shift_reg")
	e.UInt8(s.ShiftReg)
	e.FieldStart("bits_left")
	e.UInt8(s.BitsLeft)
	e.FieldStart("silence")
	e.Bool(s.Silence)
	e.FieldStart("timer")
	e.UInt16(s.Timer)
	e.FieldStart("period")
	e.UInt16(s.Period)
	e.ObjEnd()
}

func decodeDMC(d *jx.Decoder, s *DMC) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "sample_addr":
			s.SampleAddr, err = d.UInt16()
		case "sample_len":
			s.SampleLen, err = d.UInt16()
		case "outlvl":
			s.OutLvl, err = d.UInt8()
		case "irq_enabled":
			s.IRQEnabled, err = d.Bool()
		case "loop":
			s.Loop, err = d.Bool()
		case "cur_addr":
			s.CurAddr, err = d.UInt16()
		case "remaining":
			s.Remaining, err = d.UInt16()
		case "read_buf":
			s.ReadBuf, err = d.UInt8()
		case "buf_empty":
			s.BufEmpty, err = d.Bool()
		case "shift_reg":
			s.ShiftReg, err = d.UInt8()
		case "bits_left":
			s.BitsLeft, err = d.UInt8()
		case "silence":
			s.Silence, err = d.Bool()
		case "timer":
			s.Timer, err = d.UInt16()
		case "period":
			s.Period, err = d.UInt16()
		default:
			err = d.Skip()
		}
		return err
	})
}

func encodeFrameCounter(e *jx.Encoder, s *FrameCounter) {
	e.ObjStart()
	e.FieldStart("cycle")
	e.Int32(s.Cycle)
	e.FieldStart("cur_step")
	e.UInt32(s.CurStep)
	e.FieldStart("step_mode")
	e.UInt32(s.StepMode)
	e.FieldStart("inhibit_irq")
	e.Bool(s.InhibitIRQ)
	e.FieldStart("block_tick")
	e.UInt8(s.BlockTick)
	e.FieldStart("newval")
	e.Int32(int32(s.NewVal))
	e.FieldStart("write_delay")
	e.Int32(int32(s.WriteDelay))
	e.ObjEnd()
}

func decodeFrameCounter(d *jx.Decoder, s *FrameCounter) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "cycle":
			s.Cycle, err = d.Int32()
		case "cur_step":
			s.CurStep, err = d.UInt32()
		case "step_mode":
			s.StepMode, err = d.UInt32()
		case "inhibit_irq":
			s.InhibitIRQ, err = d.Bool()
		case "block_tick":
			s.BlockTick, err = d.UInt8()
		case "newval":
			var v int32
			v, err = d.Int32()
			s.NewVal = int16(v)
		case "write_delay":
			var v int32
			v, err = d.Int32()
			s.WriteDelay = int8(v)
		default:
			err = d.Skip()
		}
		return err
	})
}
