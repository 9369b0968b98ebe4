package hw

import (
	"testing"

	"famicore/hw/hwio"
)

func TestOAMDMA(t *testing.T) {
	bus := hwio.NewTable("cpu")
	ram := make([]uint8, 0x800)
	bus.MapMemorySlice(0x0000, 0x1FFF, ram, false)

	cpu := NewCPU(bus)
	ppu := NewPPU()
	ppu.CPU = cpu
	ppu.MapCPU(bus)
	dma := NewDMA(cpu)
	dma.MapCPU(bus)

	for i := 0; i < 256; i++ {
		ram[0x300+i] = uint8(i) ^ 0x5A
	}

	bus.Write8(0x2003, 0x00)
	start := cpu.Clock
	bus.Write8(0x4014, 0x03)
	elapsed := cpu.Clock - start
	if elapsed != 513 && elapsed != 514 {
		t.Errorf("OAM DMA took %d cycles, want 513 or 514", elapsed)
	}

	for i := 0; i < 256; i++ {
		if ppu.oam[i] != uint8(i)^0x5A {
			t.Fatalf("oam[%d] = %02x, want %02x", i, ppu.oam[i], uint8(i)^0x5A)
		}
	}

	// OAMADDR wrapped around to its starting value.
	if got := ppu.OAMADDR.Value; got != 0x00 {
		t.Errorf("OAMADDR = %02x after transfer, want 00", got)
	}
}
