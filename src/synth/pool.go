package synth

import "math/rand"

// ----- Voice Pool ----- //

// keyCount is the number of playable notes; exactly one voice exists per
// note, so it is also the maximum polyphony.
const keyCount = 128

// pool owns the fixed voice table plus a compact list of the note indices
// currently believed live, so rendering only touches sounding voices.
type pool struct {
	voices [keyCount]voice
	live   []int
}

func newPool(sampleRate float64) *pool {
	p := &pool{live: make([]int, 0, keyCount)}
	for note := range p.voices {
		p.voices[note].sampleRate = sampleRate
		p.voices[note].note = note
	}
	return p
}

// noteOn starts (or retriggers) the voice for note. The note must be in
// [0, keyCount); a note appears in the live list at most once, so the list
// never outgrows its fixed capacity.
func (p *pool) noteOn(note int, velocity byte, params *Params, rng *rand.Rand) {
	p.voices[note].on(velocity, params, rng)
	for _, n := range p.live {
		if n == note {
			return
		}
	}
	p.live = append(p.live, note)
}

func (p *pool) noteOff(note int) {
	p.voices[note].release()
}

// forEachLive visits every live voice once. A voice found off is ended and
// dropped from the live list instead of being visited, so its state is clean
// for the next note-on.
func (p *pool) forEachLive(f func(*voice)) {
	i := 0
	for i < len(p.live) {
		v := &p.voices[p.live[i]]
		if v.isOn() {
			f(v)
			i++
		} else {
			v.end()
			p.live = append(p.live[:i], p.live[i+1:]...)
		}
	}
}
