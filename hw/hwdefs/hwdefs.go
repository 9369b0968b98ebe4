// Package hwdefs holds the hardware constants shared between the CPU and
// the peripherals that drive its interrupt lines.
package hwdefs

// IRQSource identifies one source of the shared IRQ input. The line is
// level-triggered: it stays asserted for as long as at least one source
// holds it.
type IRQSource uint8

const (
	FrameCounter IRQSource = 1 << iota
	DMC
	Mapper
)

// NumAudioChannels is the number of audio channels feeding the mixer.
const NumAudioChannels = 5
