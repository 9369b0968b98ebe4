package hwio_test

import (
	"testing"

	"famicore/hw/hwio"
)

type testTable struct {
	t testing.TB
	*hwio.Table
	RAM  hwio.Mem
	Reg1 hwio.Reg8
}

// $2001
func (tbl *testTable) readREG1(val uint8) uint8 {
	tbl.Reg1.Value++
	return tbl.Reg1.Value
}

func newTestTable(tb testing.TB) *testTable {
	tbl := &testTable{t: tb, Table: hwio.NewTable("bus")}
	tbl.RAM = hwio.Mem{Name: "ram", Data: make([]byte, 0x800), VSize: 0x2000}
	tbl.Reg1 = hwio.Reg8{Name: "REG1", Value: 0x99, RoMask: 0xF0, ReadCb: tbl.readREG1}
	tbl.Table.MapMem(0x0000, &tbl.RAM)
	tbl.Table.MapReg8(0x2001, &tbl.Reg1)
	return tbl
}

func (tbl *testTable) wantRead8(addr uint16, want uint8) {
	tbl.t.Helper()
	if got := tbl.Read8(addr, false); got != want {
		tbl.t.Errorf("Read8(%04X) = %02X, want %02X", addr, got, want)
	}
}

func TestTableMapMem(t *testing.T) {
	tbl := newTestTable(t)

	// Mem
	tbl.wantRead8(0x00, 0)
	tbl.Write8(0x00, 0x12)
	tbl.wantRead8(0x00, 0x12)
	tbl.wantRead8(0x800, 0x12)

	// Reg1
	tbl.wantRead8(0x2001, 0x9A)
	tbl.wantRead8(0x2001, 0x9B)
	tbl.Write8(0x2001, 0xFF)
	tbl.wantRead8(0x2001, 0xA0)
}

func TestTableOpenBus(t *testing.T) {
	tbl := hwio.NewTable("bus")

	if got := tbl.Read8(0x5342, false); got != 0x53 {
		t.Errorf("open bus read = %02X, want %02X", got, 0x53)
	}

	// writes to unmapped addresses are dropped
	tbl.Write8(0x5342, 0xAB)
	if got := tbl.Read8(0x5342, false); got != 0x53 {
		t.Errorf("open bus read after write = %02X, want %02X", got, 0x53)
	}
}

func TestTableMirroredReg(t *testing.T) {
	tbl := hwio.NewTable("bus")
	reg := hwio.Reg8{Name: "REG"}
	tbl.MapMirroredReg8(0x2000, 0x3FFF, 8, &reg)

	tbl.Write8(0x2000, 0x42)
	if got := tbl.Read8(0x3FF8, false); got != 0x42 {
		t.Errorf("mirrored read = %02X, want 42", got)
	}
	tbl.Write8(0x2008, 0x24)
	if got := tbl.Read8(0x2000, false); got != 0x24 {
		t.Errorf("mirrored write not visible: %02X", got)
	}
}

func TestTableUnmap(t *testing.T) {
	tbl := hwio.NewTable("bus")
	buf := []uint8{0xAA, 0xBB, 0xCC, 0xDD}
	tbl.MapMemorySlice(0x8000, 0x8003, buf, true)

	if got := tbl.Read8(0x8001, false); got != 0xBB {
		t.Errorf("mapped read = %02X, want BB", got)
	}
	tbl.Unmap(0x8000, 0x8003)
	if got := tbl.Read8(0x8001, false); got != 0x80 {
		t.Errorf("unmapped read = %02X, want open bus 80", got)
	}
}
