package apu

import (
	"github.com/arl/blip"

	"famicore/hw/hwdefs"
)

const MaxSampleRate = 96000

const maxSamplesPerFrame = MaxSampleRate / 60 * 4 // x4 to allow CPU overclocking

const ntscClockRate = 1789773

// Mixer combines the five channel outputs into band-limited 16-bit mono
// samples, using the nonlinear DAC response of the console.
type Mixer struct {
	buf     *blip.Buffer
	outbuf  [maxSamplesPerFrame]int16
	prevOut int16

	volumes   [hwdefs.NumAudioChannels]float64
	curOutput [hwdefs.NumAudioChannels]int16

	clockRate  uint32
	sampleRate uint32
}

func NewMixer(sampleRate uint32) *Mixer {
	am := &Mixer{
		buf:        blip.NewBuffer(maxSamplesPerFrame),
		sampleRate: sampleRate,
	}
	am.Reset()
	return am
}

func (am *Mixer) Reset() {
	am.prevOut = 0
	am.buf.Clear()

	for i := range hwdefs.NumAudioChannels {
		am.volumes[i] = 1.0
	}
	clear(am.curOutput[:])

	am.updateRates(true)
}

func (am *Mixer) SampleRate() uint32 { return am.sampleRate }

// SetSampleRate changes the output sample rate, capped at MaxSampleRate.
func (am *Mixer) SetSampleRate(rate uint32) {
	rate = min(rate, MaxSampleRate)
	if rate == am.sampleRate {
		return
	}
	am.sampleRate = rate
	am.buf.SetRates(float64(am.clockRate), float64(am.sampleRate))
}

func (am *Mixer) updateRates(force bool) {
	if force || am.clockRate != ntscClockRate {
		am.clockRate = ntscClockRate
		am.buf.SetRates(float64(am.clockRate), float64(am.sampleRate))
	}
}

func (am *Mixer) channelOutput(ch Channel) float64 {
	return float64(am.curOutput[ch]) * am.volumes[ch]
}

// outputVolume applies the nonlinear mixing curves of the 2A03 DAC.
func (am *Mixer) outputVolume() int16 {
	squareOutput := am.channelOutput(Square1) + am.channelOutput(Square2)
	tndOutput := am.channelOutput(DPCM) +
		2.7516713261*am.channelOutput(Triangle) +
		1.8493587125*am.channelOutput(Noise)

	squareVolume := uint16((95.88 * 5000.0) / (8128.0/squareOutput + 100.0))
	tndVolume := uint16((159.79 * 5000.0) / (22638.0/tndOutput + 100.0))

	return int16(squareVolume + tndVolume)
}

// SetOutput records a channel output level change at a given CPU cycle
// within the current frame.
func (am *Mixer) SetOutput(ch Channel, cycle uint32, val uint8) {
	if am.curOutput[ch] == int16(val) {
		return
	}
	am.curOutput[ch] = int16(val)

	out := am.outputVolume() * 4
	am.buf.AddDelta(uint64(cycle), int32(out-am.prevOut))
	am.prevOut = out
}

// EndFrame closes the current frame after the given number of CPU cycles
// and returns the mono samples generated for it. The returned slice is
// only valid until the next call.
func (am *Mixer) EndFrame(cycle uint32) []int16 {
	am.buf.EndFrame(int(cycle))
	n := am.buf.ReadSamples(am.outbuf[:], len(am.outbuf), blip.Mono)
	return am.outbuf[:n]
}
