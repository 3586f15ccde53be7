package synth

import (
	"fmt"
	"math/rand"
)

// ----- MIDI Bytes ----- //

const (
	midiNoteOn        = 0x90
	midiNoteOff       = 0x80
	midiControlChange = 0xB0

	midiCCAllSoundsOff = 0x78
	midiCCAllNotesOff  = 0x7B
)

// ----- Block Processor ----- //

// ParamChange carries one parameter value sent on the audio path.
type ParamChange struct {
	ID    ParamID
	Value float64
}

// SubBlock is one slice of a processing block: the events that take effect
// at its start, and the sample range of the output buffer they apply to.
type SubBlock struct {
	Start        int
	End          int
	ParamChanges []ParamChange
	MIDI         [][3]byte
}

// Processor consumes ordered sub-blocks of events and renders all live
// voices into the requested output ranges. It owns the voice pool, the
// tuning table and the rng; it runs on the render thread only and never
// allocates while processing.
type Processor struct {
	params *Params
	pool   *pool
	tuning *tuningTable
	rng    *rand.Rand
}

// Deterministic seed so the random waveform draw is reproducible; only the
// noise waveform makes output nondeterministic across runs.
const rngSeed = 0x5EED

func NewProcessor(sampleRate float64, params *Params) *Processor {
	return &Processor{
		params: params,
		pool:   newPool(sampleRate),
		tuning: newTuningTable(sampleRate, defaultTuningConfig()),
		rng:    rand.New(rand.NewSource(rngSeed)),
	}
}

// Process applies each sub-block's events and renders its sample range,
// zeroing the range first and accumulating across voices. An invalid
// sub-block aborts the current call; there are no retries on the render
// path.
func (pr *Processor) Process(blocks []SubBlock, out []float64) error {
	for _, b := range blocks {
		if b.Start < 0 || b.End < b.Start || b.End > len(out) {
			return fmt.Errorf("sub-block range [%d, %d) outside output of %d samples", b.Start, b.End, len(out))
		}
		for _, c := range b.ParamChanges {
			if c.ID < 0 || c.ID >= ParamCount {
				return fmt.Errorf("unknown parameter id %d", c.ID)
			}
			pr.params.Apply(c.ID, c.Value)
		}
		for _, m := range b.MIDI {
			pr.handleMIDI(m)
		}

		outRange := out[b.Start:b.End]
		for i := range outRange {
			outRange[i] = 0
		}

		levels := pr.params.Levels()
		var oscsBuf [oscCount]int
		oscs := oscsBuf[:0]
		for osc, level := range levels {
			if level > 0 {
				oscs = append(oscs, osc)
			}
		}
		pitchOffsets := pr.params.Pitch()
		var pitch [oscCount]int
		for osc, offset := range pitchOffsets {
			pitch[osc] = int(offset)
		}

		pr.pool.forEachLive(func(v *voice) {
			v.process(outRange, pitch, levels, pr.rng, oscs, pr.tuning)
		})
	}
	return nil
}

func (pr *Processor) handleMIDI(m [3]byte) {
	switch m[0] & 0xF0 {
	case midiNoteOn:
		// Note numbers wrap into range instead of being rejected.
		pr.pool.noteOn(int(m[1])%keyCount, m[2], pr.params, pr.rng)
	case midiNoteOff:
		pr.pool.noteOff(int(m[1]) % keyCount)
	case midiControlChange:
		switch m[1] {
		case midiCCAllSoundsOff:
			pr.pool.forEachLive((*voice).end)
		case midiCCAllNotesOff:
			pr.pool.forEachLive((*voice).release)
		}
	}
}

// Reset ends every voice, as on a transport reset.
func (pr *Processor) Reset() {
	pr.pool.forEachLive((*voice).end)
	pr.pool.live = pr.pool.live[:0]
}
