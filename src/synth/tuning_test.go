package synth

import (
	"math"
	"testing"
)

func TestTuningTableReferencePitch(t *testing.T) {
	table := newTuningTable(testSampleRate, defaultTuningConfig())
	// A centered pitch offset leaves the note unshifted: note 69 is 440 Hz.
	freq := table.at(69, pitchOffsetCenter).increment * testSampleRate
	if math.Abs(freq-440) > 1e-9 {
		t.Fatalf("note 69 frequency = %v, want 440", freq)
	}
	// MIDI note 60 is middle C.
	freq = table.at(60, pitchOffsetCenter).increment * testSampleRate
	if math.Abs(freq-261.6256) > 0.001 {
		t.Fatalf("note 60 frequency = %v, want 261.6256", freq)
	}
}

func TestTuningTableMonotoneIncrement(t *testing.T) {
	table := newTuningTable(testSampleRate, defaultTuningConfig())
	for i := 1; i < len(table.notes); i++ {
		if table.notes[i].increment <= table.notes[i-1].increment {
			t.Fatalf("increment not monotone at index %d", i)
		}
	}
}

func TestTuningTableCoversPitchRange(t *testing.T) {
	table := newTuningTable(testSampleRate, defaultTuningConfig())
	if len(table.notes) != keyCount+pitchOffsetMax {
		t.Fatalf("table has %d entries, want %d", len(table.notes), keyCount+pitchOffsetMax)
	}
	// Highest note with maximum pitch offset must be addressable.
	_ = table.at(keyCount-1, pitchOffsetMax)
}

func TestTuningTableTransitionWidth(t *testing.T) {
	table := newTuningTable(testSampleRate, defaultTuningConfig())
	nd := table.at(69, pitchOffsetCenter)
	want := 2 / (testSampleRate / 440)
	if math.Abs(nd.transitionWidth-want) > 1e-12 {
		t.Fatalf("transition width = %v, want %v", nd.transitionWidth, want)
	}
}

func TestTuningTableOctaveDoubling(t *testing.T) {
	table := newTuningTable(testSampleRate, defaultTuningConfig())
	low := table.at(57, pitchOffsetCenter).increment
	high := table.at(69, pitchOffsetCenter).increment
	if math.Abs(high/low-2) > 1e-9 {
		t.Fatalf("octave ratio = %v, want 2", high/low)
	}
}

func TestTuningTableCustomTemperament(t *testing.T) {
	cfg := defaultTuningConfig()
	cfg.steps = 19
	table := newTuningTable(testSampleRate, cfg)
	low := table.at(50, pitchOffsetCenter).increment
	high := table.at(69, pitchOffsetCenter).increment
	if math.Abs(high/low-2) > 1e-9 {
		t.Fatalf("19-TET octave ratio = %v, want 2", high/low)
	}
}
