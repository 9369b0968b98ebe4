package apu

type envelope struct {
	lenCounter lengthCounter

	constantVolume bool
	volume         uint8

	start   bool
	divider int8
	counter uint8
}

func (env *envelope) init(val uint8) {
	env.lenCounter.halt = val&0x20 != 0
	env.constantVolume = val&0x10 != 0
	env.volume = val & 0x0F
}

func (env *envelope) restart() {
	env.start = true
}

// output is the current envelope volume, gated by the length counter.
func (env *envelope) output() uint8 {
	if !env.lenCounter.status() {
		return 0
	}
	if env.constantVolume {
		return env.volume
	}
	return env.counter
}

func (env *envelope) tick() {
	if env.start {
		env.start = false
		env.counter = 15
		env.divider = int8(env.volume)
		return
	}

	env.divider--
	if env.divider < 0 {
		env.divider = int8(env.volume)
		if env.counter > 0 {
			env.counter--
		} else if env.lenCounter.halt {
			// Halted length counter doubles as the envelope loop flag.
			env.counter = 15
		}
	}
}

func (env *envelope) reset(soft bool) {
	env.lenCounter.reset(soft)
	env.constantVolume = false
	env.volume = 0
	env.start = false
	env.divider = 0
	env.counter = 0
}
