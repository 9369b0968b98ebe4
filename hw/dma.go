package hw

import (
	"famicore/emu/log"
	"famicore/hw/hwio"
)

// DMA handles the transfer of OAM (sprite attributes) to the PPU. A write
// to $4014 suspends the CPU and copies a whole page of CPU memory to OAM,
// going through the OAMDATA register.
type DMA struct {
	OAMDMA hwio.Reg8 // $4014

	cpu *CPU
}

func NewDMA(cpu *CPU) *DMA {
	dma := &DMA{cpu: cpu}
	dma.OAMDMA = hwio.Reg8{Name: "OAMDMA", Flags: hwio.WriteOnlyFlag, WriteCb: dma.WriteOAMDMA}
	return dma
}

func (dma *DMA) MapCPU(tbl *hwio.Table) {
	tbl.MapReg8(0x4014, &dma.OAMDMA)
}

// WriteOAMDMA runs the whole transfer, accounting for the cycles the CPU
// is halted: one halt cycle, one extra cycle to align the transfer with an
// even CPU cycle when needed, then 256 read/write pairs (513 or 514 cycles
// in total).
func (dma *DMA) WriteOAMDMA(_, val uint8) {
	log.ModDMA.DebugZ("start OAM DMA transfer").Hex8("page", val).End()

	cpu := dma.cpu
	cpu.tick()
	if cpu.Clock&1 == 1 {
		cpu.tick()
	}

	base := uint16(val) << 8
	for i := 0; i < 256; i++ {
		v := cpu.Read8(base + uint16(i))
		cpu.Write8(0x2004, v)
	}
}
