package hw

import "testing"

type stubDevice struct {
	p1, p2 uint8
}

func (d *stubDevice) LoadState() (uint8, uint8) { return d.p1, d.p2 }

func TestInputPortsSerialRead(t *testing.T) {
	dev := &stubDevice{p1: Buttons(BtnA, BtnStart, BtnLeft)}
	ip := NewInputPorts(dev)

	// Strobe high then low latches the state.
	ip.In.Write8(0x4016, 1)
	ip.In.Write8(0x4016, 0)

	want := []uint8{1, 0, 0, 1, 0, 0, 1, 0} // A, B, Select, Start, Up, Down, Left, Right
	for i, bit := range want {
		got := ip.In.Read8(0x4016, false)
		if got != 0x40|bit {
			t.Errorf("read %d = %02x, want %02x", i, got, 0x40|bit)
		}
	}

	// After 8 reads, a standard controller reports 1.
	for i := 0; i < 3; i++ {
		if got := ip.In.Read8(0x4016, false); got != 0x41 {
			t.Errorf("read past 8 = %02x, want 41", got)
		}
	}
}

func TestInputPortsStrobeHigh(t *testing.T) {
	dev := &stubDevice{p1: Buttons(BtnB)}
	ip := NewInputPorts(dev)

	// While the strobe is high, reads keep reloading the shift register
	// and always return the A button state.
	ip.In.Write8(0x4016, 1)
	for i := 0; i < 4; i++ {
		if got := ip.In.Read8(0x4016, false); got != 0x40 {
			t.Errorf("read %d = %02x, want 40", i, got)
		}
	}

	dev.p1 = Buttons(BtnA)
	if got := ip.In.Read8(0x4016, false); got != 0x41 {
		t.Errorf("read = %02x, want 41", got)
	}
}

func TestInputPortsSecondPort(t *testing.T) {
	dev := &stubDevice{p2: Buttons(BtnUp)}
	ip := NewInputPorts(dev)

	ip.In.Write8(0x4016, 1)
	ip.In.Write8(0x4016, 0)

	want := []uint8{0, 0, 0, 0, 1, 0, 0, 0}
	for i, bit := range want {
		got := ip.Out.Read8(0x4017, false)
		if got != 0x40|bit {
			t.Errorf("read %d = %02x, want %02x", i, got, 0x40|bit)
		}
	}
}

func TestInputPortsFrameCounterWrite(t *testing.T) {
	ip := NewInputPorts(nil)

	var got uint8 = 0xFF
	ip.WriteOut = func(val uint8) { got = val }
	ip.Out.Write8(0x4017, 0x40)
	if got != 0x40 {
		t.Errorf("frame counter write hook got %02x, want 40", got)
	}

	// Reads with no device connected report open bus only.
	ip.In.Write8(0x4016, 1)
	ip.In.Write8(0x4016, 0)
	if got := ip.In.Read8(0x4016, false); got != 0x40 {
		t.Errorf("read with no device = %02x, want 40", got)
	}
}
