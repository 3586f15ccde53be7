package synth

// ----- DC Blocker ----- //

// dcBlocker is a 1-pole recursive filter that removes DC bias:
//
//	y(n) = x(n) - x(n-1) + R*y(n-1)
//
// Used for the sploinky and skloinky waveforms and for phase and evil
// modulation, all of which introduce bias.
// See https://ccrma.stanford.edu/~jos/filters/DC_Blocker.html
type dcBlocker struct {
	x float64
	y float64
}

const dcBlockerR = 0.995

func (d *dcBlocker) reset() {
	d.x = 0
	d.y = 0
}

func (d *dcBlocker) process(sample float64) float64 {
	d.y = sample - d.x + dcBlockerR*d.y
	d.x = sample
	return d.y
}
