package hwio

import "testing"

func TestReg8(t *testing.T) {
	r := Reg8{Value: 0x11, RoMask: 0xF0}

	if got := r.Read8(0, false); got != 0x11 {
		t.Errorf("invalid read: %x", got)
	}
	if got := r.Read8(9999, false); got != 0x11 {
		t.Errorf("invalid read with offset: %x", got)
	}

	r.Write8(0, 0x77)
	if r.Value != 0x17 {
		t.Errorf("writemask not respected: %x", r.Value)
	}
	r.Write8(9999, 0x88)
	if r.Value != 0x18 {
		t.Errorf("writemask with offset not respected: %x", r.Value)
	}
}

func TestReg8Peek(t *testing.T) {
	reads := 0
	r := Reg8{
		Value:  0x42,
		ReadCb: func(val uint8) uint8 { reads++; return val | 0x80 },
	}

	if got := r.Read8(0, true); got != 0x42 {
		t.Errorf("peek = %x, want 42", got)
	}
	if reads != 0 {
		t.Errorf("peek triggered read callback")
	}
	if got := r.Read8(0, false); got != 0xC2 {
		t.Errorf("read = %x, want c2", got)
	}
	if reads != 1 {
		t.Errorf("read callback not called")
	}
}
