package synth

// ----- ADSR ----- //

const (
	adsrEnded = iota
	adsrAttack
	adsrDecay
	adsrSustain
	adsrRelease
)

/*
  1 +    x
    |   / \
  s +  /   x------x
    | /            \
    |/              \
  0 +-----+--+------+---
    |a    |d |      |r |
*/
type adsr struct {
	state          int
	pos            float64
	attackSamples  float64
	decaySamples   float64
	sustain        float64
	releaseSamples float64
	// adLevel tracks the amplitude through the attack and decay states so
	// that a release started mid-ramp continues from the current level.
	adLevel float64
	// rLevel tracks the amplitude through the decay and release states so
	// that a retrigger mid-release ramps up from the current level instead
	// of jumping to zero.
	rLevel float64
}

func (a *adsr) reset() {
	*a = adsr{}
}

// on starts (or retriggers) the envelope. A retrigger while already attacking
// keeps the elapsed position so the amplitude does not jump; the durations
// are refreshed from the given envelope either way.
func (a *adsr) on(env Envelope, sampleRate float64) {
	if a.state != adsrAttack {
		a.state = adsrAttack
		a.pos = 0
	}
	a.attackSamples = env.Attack * sampleRate
	a.decaySamples = env.Decay * sampleRate
	a.sustain = env.Sustain
	a.releaseSamples = env.Release * sampleRate
}

func (a *adsr) release() {
	a.state = adsrRelease
	a.pos = 0
}

func (a *adsr) ended() bool {
	return a.state == adsrEnded
}

// phaseRatio is pos/total with a zero-length phase counting as already
// complete, so that an instant attack or decay never divides 0 by 0.
func phaseRatio(pos float64, total float64) float64 {
	if total <= 0 {
		return 1
	}
	return pos / total
}

// process advances the envelope by exactly one sample and returns the
// current amplitude, clamped to [0, 1].
func (a *adsr) process() float64 {
	var value float64
	switch a.state {
	case adsrAttack:
		pos := a.pos
		if pos >= a.attackSamples {
			a.state = adsrDecay
			a.pos = 0
		} else {
			a.pos = pos + 1
		}
		a.adLevel = phaseRatio(pos, a.attackSamples)
		value = a.adLevel + a.rLevel
	case adsrDecay:
		pos := a.pos
		if pos >= a.decaySamples {
			a.state = adsrSustain
		} else {
			a.pos = pos + 1
		}
		a.adLevel = 1 - (1-a.sustain)*phaseRatio(pos, a.decaySamples)
		a.rLevel = a.adLevel
		value = a.adLevel
	case adsrSustain:
		value = a.sustain
	case adsrRelease:
		pos := a.pos
		if pos >= a.releaseSamples {
			a.reset()
			return 0
		}
		a.pos = pos + 1
		a.rLevel = a.adLevel * (1 - pos/a.releaseSamples)
		value = a.rLevel
	case adsrEnded:
		value = 0
	}
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
