package apu

import "famicore/hw/hwdefs"

type Channel uint8

const (
	Square1 Channel = iota
	Square2
	Triangle
	Noise
	DPCM
)

// cpu is the slice of the CPU the audio hardware drives: the shared IRQ
// line and DMC sample fetches.
type cpu interface {
	SetIRQSource(src hwdefs.IRQSource)
	ClearIRQSource(src hwdefs.IRQSource)
	HasIRQSource(src hwdefs.IRQSource) bool
	CurrentCycle() int64
	FetchDMC(addr uint16) uint8
}
