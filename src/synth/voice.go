package synth

import (
	"math"
	"math/rand"
)

// ----- Voice ----- //

const (
	// oscCount is the number of oscillators per voice (and per patch).
	oscCount = 3
	// oscMod is the oscillator slot consumed as the modulator in the phase
	// and evil modulation modes.
	oscMod = 2
	// phaseDry is the extra phase slot tracking where oscillator 1 would be
	// without phase modulation, for mixing in the dry signal.
	phaseDry   = 3
	phaseCount = 4
)

// oscModLevelScale scales the phase modulation depth down to 48% of the
// modulator level. Deeper modulation than that aliases badly.
const oscModLevelScale = 100.0 / 48.0

// waveKind is a waveform generator resolved from (Waveform, hq) once at
// note-on, so the per-sample dispatch is a single switch.
type waveKind int

const (
	waveSine waveKind = iota
	waveNoise
	waveTriangle
	waveTriangleHQ
	waveSquare
	waveSquareHQ
	waveSaw
	waveSawHQ
	waveSploinky
	waveSkloinky
)

func resolveWave(w Waveform, hq bool, rng *rand.Rand) waveKind {
	for w == WaveformRandom {
		w = Waveform(rng.Intn(int(WaveformRandom)))
	}
	switch w {
	case WaveformTriangle:
		if hq {
			return waveTriangleHQ
		}
		return waveTriangle
	case WaveformSquare:
		if hq {
			return waveSquareHQ
		}
		return waveSquare
	case WaveformSaw:
		if hq {
			return waveSawHQ
		}
		return waveSaw
	case WaveformNoise:
		return waveNoise
	case WaveformSploinky:
		return waveSploinky
	case WaveformSkloinky:
		return waveSkloinky
	default:
		return waveSine
	}
}

// voice is the synthesis state of exactly one playable note: one ADSR, one
// DC blocker and one phase accumulator per oscillator slot, plus the dry
// phase slot. Voices live in a fixed table and are reset, never recreated.
type voice struct {
	adsr       [oscCount]adsr
	dc         [oscCount]dcBlocker
	phase      [phaseCount]float64
	wave       [oscCount]waveKind
	modulation Modulation
	sampleRate float64
	note       int
	velocity   float64 // 0-1
}

// on initializes the voice as pressed. Velocity 0 is a note-off in disguise.
// The modulation mode is snapshotted for the lifetime of the note; a random
// waveform selection is re-rolled into a concrete waveform here, once.
func (v *voice) on(velocity byte, params *Params, rng *rand.Rand) {
	if velocity == 0 {
		v.end()
		return
	}

	env := params.Envelope()
	waveforms := params.Waveforms()
	hq := params.HQ()
	v.modulation = params.Modulation()
	v.velocity = float64(velocity) / 127

	for osc := 0; osc < oscCount; osc++ {
		v.adsr[osc].on(env, v.sampleRate)
		v.wave[osc] = resolveWave(waveforms[osc], hq[osc], rng)
	}
}

// release moves every oscillator's envelope into its release phase. The
// oscillator state keeps decaying in place.
func (v *voice) release() {
	for osc := range v.adsr {
		v.adsr[osc].release()
	}
}

// end forcibly resets all oscillator state so the next note-on starts clean.
func (v *voice) end() {
	for i := range v.phase {
		v.phase[i] = 0
	}
	for osc := range v.adsr {
		v.adsr[osc].reset()
		v.dc[osc].reset()
	}
}

// isOn reports whether the voice still needs rendering: true iff no
// oscillator's envelope has ended.
func (v *voice) isOn() bool {
	for osc := range v.adsr {
		if v.adsr[osc].ended() {
			return false
		}
	}
	return true
}

// process renders into out, accumulating. The pool only calls this on
// voices that are on. oscs holds the indices of oscillators whose level is
// above zero.
func (v *voice) process(
	out []float64,
	pitch [oscCount]int,
	levels [oscCount]float64,
	rng *rand.Rand,
	oscs []int,
	tuning *tuningTable,
) {
	switch v.modulation {
	case ModulationPhase:
		v.processPhaseMod(out, pitch, levels, rng, oscs, tuning)
	case ModulationEvil:
		v.processEvilMod(out, pitch, levels, rng, oscs, tuning)
	default:
		for _, osc := range oscs {
			v.processSub(out, osc, tuning.at(v.note, pitch[osc]), levels, rng)
		}
	}
}

// processSub renders one oscillator the plain subtractive way.
func (v *voice) processSub(out []float64, osc int, nd noteData, levels [oscCount]float64, rng *rand.Rand) {
	for i := range out {
		out[i] += v.waveSample(rng, osc, nd.transitionWidth) *
			v.velocity * levels[osc] * v.adsr[osc].process()
		v.phase[osc] = math.Mod(v.phase[osc]+nd.increment, 1)
	}
}

// processPhaseMod renders oscillator 1 phase-modulated by oscillator 3,
// crossfading between the modulated and dry signal as oscillator 3's level
// increases, with oscillator 2 rendered independently. Oscillator 3 itself
// produces no direct output in this mode.
func (v *voice) processPhaseMod(
	out []float64,
	pitch [oscCount]int,
	levels [oscCount]float64,
	rng *rand.Rand,
	oscs []int,
	tuning *tuningTable,
) {
	for _, osc := range oscs {
		switch osc {
		case 0:
			oscND := tuning.at(v.note, pitch[0])
			modND := tuning.at(v.note, pitch[oscMod])
			for i := range out {
				// The envelope is used by both the wet and dry terms of
				// this sample; it must advance exactly once.
				oscADSR := v.adsr[0].process()
				wet := v.waveSample(rng, 0, oscND.transitionWidth) *
					v.velocity * levels[0] * oscADSR
				out[i] += v.dc[0].process(wet)

				v.phase[0] = math.Mod(
					(v.phase[0]+v.waveSample(rng, oscMod, modND.transitionWidth))*
						(levels[oscMod]/oscModLevelScale), 1)
				v.phase[oscMod] = math.Mod(v.phase[oscMod]+modND.increment, 1)
				v.phase[phaseDry] = math.Mod(v.phase[phaseDry]+oscND.increment, 1)

				v.phase[0], v.phase[phaseDry] = v.phase[phaseDry], v.phase[0]
				out[i] += v.waveSample(rng, 0, oscND.transitionWidth) *
					v.velocity *
					(levels[0] - levels[0]*levels[oscMod]/oscModLevelScale) *
					oscADSR
				v.phase[0], v.phase[phaseDry] = v.phase[phaseDry], v.phase[0]
			}
		case 1:
			v.processSub(out, osc, tuning.at(v.note, pitch[osc]), levels, rng)
		}
	}
}

// processEvilMod renders oscillator 1 modulated by oscillator 3's envelope-
// and velocity-shaped signal. Oscillator 3's phase never advances by its own
// increment; it is pinned to oscillator 1's increment every sample. No dry
// signal is mixed. This mode grew out of a broken phase modulation
// implementation and is kept as is.
func (v *voice) processEvilMod(
	out []float64,
	pitch [oscCount]int,
	levels [oscCount]float64,
	rng *rand.Rand,
	oscs []int,
	tuning *tuningTable,
) {
	for _, osc := range oscs {
		switch osc {
		case 0:
			oscND := tuning.at(v.note, pitch[0])
			modND := tuning.at(v.note, pitch[oscMod])
			for i := range out {
				s := v.waveSample(rng, 0, oscND.transitionWidth) *
					v.velocity * levels[0] * v.adsr[0].process()
				out[i] += v.dc[0].process(s)

				v.phase[oscMod] = oscND.increment
				v.phase[0] = math.Mod(
					v.phase[0]+v.waveSample(rng, oscMod, modND.transitionWidth)*
						v.velocity*levels[oscMod]*v.adsr[oscMod].process(), 1)
			}
		case 1:
			v.processSub(out, osc, tuning.at(v.note, pitch[osc]), levels, rng)
		}
	}
}

// waveSample evaluates one oscillator's waveform at its current phase.
func (v *voice) waveSample(rng *rand.Rand, osc int, transitionWidth float64) float64 {
	switch v.wave[osc] {
	case waveNoise:
		return rng.Float64()*2 - 1
	case waveTriangleHQ:
		// A band-limited triangle is the integral of a band-limited square.
		return 4*integrateSquareWave(positiveMod(v.phase[osc]+0.25, 1), transitionWidth) - 1
	case waveTriangle:
		p := math.Mod(v.phase[osc], 1)
		if p < 0.25 {
			return 4 * p
		}
		if p < 0.75 {
			return 1 - 4*(p-0.25)
		}
		return -1 + 4*(p-0.75)
	case waveSquareHQ:
		p := math.Mod(v.phase[osc], 1)
		value := 1.0
		if p >= 0.5 {
			value = -1.0
		}
		return value +
			polyblep((math.Mod(v.phase[osc]+0.5, 1)-0.5)/transitionWidth) -
			polyblep((p-0.5)/transitionWidth)
	case waveSquare:
		if math.Mod(v.phase[osc], 1) < 0.5 {
			return 1
		}
		return -1
	case waveSawHQ:
		p := math.Mod(v.phase[osc], 1)
		return 2*p - 1 - polyblep((math.Mod(v.phase[osc]+0.5, 1)-0.5)/transitionWidth)
	case waveSaw:
		return 2*math.Mod(v.phase[osc], 1) - 1
	case waveSploinky:
		// The transition point here is computed at the wrong phase offset,
		// so the result still aliases. That miscomputation is the sound;
		// do not "fix" it. The DC blocker removes the bias it causes.
		p := math.Mod(v.phase[osc], 1)
		value := 1.0
		if p >= 0.5 {
			value = -1.0
		}
		return v.dc[osc].process(
			(value +
				polyblep(math.Mod(v.phase[osc]+0.5, 0.5)-transitionWidth) -
				polyblep((p-0.5)/transitionWidth)) / 2)
	case waveSkloinky:
		// Same wrong transition point as sploinky, saw-shaped.
		p := math.Mod(v.phase[osc], 1)
		return v.dc[osc].process(
			(2*p - 1 - polyblep(math.Mod(v.phase[osc]+0.5, 0.5)-transitionWidth)) / 2)
	default:
		return math.Sin(v.phase[osc] * 2 * math.Pi)
	}
}
