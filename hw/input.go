package hw

import (
	"famicore/hw/hwio"
)

// an InputDevice is a generic interface for NES input devices.
type InputDevice interface {
	// LoadState captures the current state of both input devices, one bit
	// per button in shift register reading order (A, B, Select, Start,
	// Up, Down, Left, Right).
	LoadState() (uint8, uint8)
}

// Button bits of a standard controller, in shift register reading order.
type Button uint8

const (
	BtnA Button = iota
	BtnB
	BtnSelect
	BtnStart
	BtnUp
	BtnDown
	BtnLeft
	BtnRight
)

func (b Button) String() string {
	switch b {
	case BtnA:
		return "A"
	case BtnB:
		return "B"
	case BtnSelect:
		return "Select"
	case BtnStart:
		return "Start"
	case BtnUp:
		return "Up"
	case BtnDown:
		return "Down"
	case BtnLeft:
		return "Left"
	case BtnRight:
		return "Right"
	}
	return "unknown"
}

// Buttons packs a set of pressed buttons into a controller state byte.
func Buttons(btns ...Button) uint8 {
	var state uint8
	for _, b := range btns {
		state |= 1 << b
	}
	return state
}

// InputPorts handles I/O with an InputDevice (such as a standard NES
// controller).
type InputPorts struct {
	In  hwio.Reg8 // $4016
	Out hwio.Reg8 // $4017, reads only

	// $4017 writes belong to the APU frame counter, which shares the
	// address with the second controller port.
	WriteOut func(val uint8)

	dev InputDevice

	prevStrobe, strobe bool     // to observe strobe falling edge.
	state              [2]uint8 // state shift registers.
}

func NewInputPorts(dev InputDevice) *InputPorts {
	ip := &InputPorts{dev: dev}
	ip.In = hwio.Reg8{Name: "JOY1", ReadCb: ip.ReadIN, PeekCb: ip.PeekIN, WriteCb: ip.WriteIN}
	ip.Out = hwio.Reg8{Name: "JOY2", ReadCb: ip.ReadOUT, PeekCb: ip.PeekOUT, WriteCb: ip.WriteOUT}
	return ip
}

// MapCPU maps the controller ports on the CPU bus ($4016-$4017).
func (ip *InputPorts) MapCPU(tbl *hwio.Table) {
	tbl.MapReg8(0x4016, &ip.In)
	tbl.MapReg8(0x4017, &ip.Out)
}

func (ip *InputPorts) SetDevice(dev InputDevice) {
	ip.dev = dev
}

func (ip *InputPorts) regval(port uint8) uint8 {
	ret := ip.state[port] & 1
	ip.state[port] >>= 1

	// After 8 bits are read, all subsequent bits report 1 on a standard
	// NES controller (third party controllers may report other values).
	ip.state[port] |= 0x80

	// Emulate open bus behavior.
	return 0x40 | ret
}

// capture state of all connected input devices.
func (ip *InputPorts) loadstate() {
	if ip.dev == nil {
		// No controller is connected.
		ip.state[0] = 0
		ip.state[1] = 0
		return
	}

	ip.state[0], ip.state[1] = ip.dev.LoadState()
}

// In: $4016
func (ip *InputPorts) WriteIN(old, val uint8) {
	ip.prevStrobe = ip.strobe
	ip.strobe = val&1 == 1
	if ip.prevStrobe && !ip.strobe {
		ip.loadstate()
	}
}

func (ip *InputPorts) ReadIN(_ uint8) uint8 {
	if ip.strobe {
		ip.loadstate()
	}
	return ip.regval(0)
}

func (ip *InputPorts) PeekIN(_ uint8) uint8 {
	return 0x40 | ip.state[0]&1
}

// Out: $4017
func (ip *InputPorts) ReadOUT(_ uint8) uint8 {
	if ip.strobe {
		ip.loadstate()
	}
	return ip.regval(1)
}

func (ip *InputPorts) PeekOUT(_ uint8) uint8 {
	return 0x40 | ip.state[1]&1
}

func (ip *InputPorts) WriteOUT(old, val uint8) {
	if ip.WriteOut != nil {
		ip.WriteOut(val)
	}
}
