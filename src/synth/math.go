package synth

import "math"

// ----- Band-limiting Math ----- //

// polyblep is the "polynomial bandlimited step" correction. It rounds a hard
// step at a waveform edge into a smooth transition. t is the distance from
// the edge in units of the transition width; outside [-1, 1] there is
// nothing to correct.
func polyblep(t float64) float64 {
	if t <= -1 || t >= 1 {
		return 0
	}
	if t <= 0 {
		return (t + 1) * (t + 1)
	}
	return -(t - 1) * (t - 1)
}

// integrateF1 is the definite integral of the rising polyblep edge
// (1 - (t-1)^2 over 0..p).
func integrateF1(p float64) float64 {
	return -p*p*p/3 + p*p
}

// integrateSquareWave returns the definite integral of a band-limited square
// wave from phase 0 to p, given the transition width of the bandlimiting
// polynomial. The square is split into five regions: rising edge, flat top,
// falling edge, flat bottom, and the wrap into the next cycle. The final
// region recurses on the remaining phase; the recursion depth is bounded by
// the region structure.
func integrateSquareWave(p float64, transitionWidth float64) float64 {
	value := 0.0
	rest := p

	if p <= transitionWidth {
		value += integrateF1(p/transitionWidth) * transitionWidth
	} else {
		value += (2.0 / 3.0) * transitionWidth
		rest -= transitionWidth

		if p <= 0.5-transitionWidth {
			value += rest
		} else {
			value += 0.5 - 2*transitionWidth
			rest -= 0.5 - 2*transitionWidth

			if p <= 0.5 {
				value += ((2.0 / 3.0) - integrateF1(1-rest/transitionWidth)) * transitionWidth
			} else {
				value += (2.0 / 3.0) * transitionWidth
				rest -= transitionWidth
				value -= integrateSquareWave(rest, transitionWidth)
			}
		}
	}

	return value
}

func positiveMod(a float64, b float64) float64 {
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}
