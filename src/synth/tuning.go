package synth

import "math"

// ----- Tuning Table ----- //

// tuningConfig describes the equal temperament the note table is built from.
type tuningConfig struct {
	steps    float64 // notes per octave
	refFreq  float64 // frequency of the reference note
	refNote  float64 // note number of the reference frequency
	pitchMax int     // per-oscillator pitch offset range (0..pitchMax)
}

func defaultTuningConfig() tuningConfig {
	return tuningConfig{
		steps:    12,
		refFreq:  440,
		refNote:  69,
		pitchMax: pitchOffsetMax,
	}
}

// noteData holds the per-note constants that the render loop needs: the
// phase increment in cycles per sample and the width of the bandlimiting
// transition as a fraction of one cycle.
type noteData struct {
	increment       float64
	transitionWidth float64
}

func newNoteData(sampleRate float64, note float64, cfg tuningConfig) noteData {
	frequency := math.Pow(2, (note-cfg.refNote)/cfg.steps) * cfg.refFreq
	return noteData{
		increment:       frequency / sampleRate,
		transitionWidth: 2 / (sampleRate / frequency),
	}
}

// tuningTable maps note+pitchOffset indices to noteData. Index i carries the
// pitch of note i - pitchMax/2, so a centered pitch offset leaves the note
// unshifted. The table is immutable once built; a sample rate change means
// building a new one.
type tuningTable struct {
	cfg   tuningConfig
	notes []noteData
}

func newTuningTable(sampleRate float64, cfg tuningConfig) *tuningTable {
	notes := make([]noteData, keyCount+cfg.pitchMax)
	for i := range notes {
		notes[i] = newNoteData(sampleRate, float64(i-cfg.pitchMax/2), cfg)
	}
	return &tuningTable{cfg: cfg, notes: notes}
}

func (t *tuningTable) at(note int, pitchOffset int) noteData {
	return t.notes[note+pitchOffset]
}
