package synth

import (
	"bytes"
	"errors"
	"testing"
)

const stateSizeInBytes = 4*4 + 3*8 + 3*4 + 3*4 + 8

func TestStateRoundTrip(t *testing.T) {
	src := NewParams()
	src.SetEnvelope(Envelope{Attack: 0.25, Decay: 0.5, Sustain: 0.75, Release: 1})
	src.SetWaveform(0, WaveformSaw)
	src.SetWaveform(1, WaveformSploinky)
	src.SetWaveform(2, WaveformNoise)
	src.SetLevel(0, 0.5)
	src.SetLevel(1, 0.25)
	src.SetLevel(2, 1)
	src.SetHQ(0, false)
	src.SetHQ(2, false)
	src.SetModulation(ModulationEvil)

	var buf bytes.Buffer
	if err := src.SaveState(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != stateSizeInBytes {
		t.Fatalf("state is %d bytes, want %d", buf.Len(), stateSizeInBytes)
	}

	dst := NewParams()
	if err := dst.LoadState(&buf); err != nil {
		t.Fatal(err)
	}
	if dst.Envelope() != src.Envelope() {
		t.Errorf("envelope = %+v, want %+v", dst.Envelope(), src.Envelope())
	}
	if dst.Waveforms() != src.Waveforms() {
		t.Errorf("waveforms = %v, want %v", dst.Waveforms(), src.Waveforms())
	}
	if dst.Levels() != src.Levels() {
		t.Errorf("levels = %v, want %v", dst.Levels(), src.Levels())
	}
	if dst.HQ() != src.HQ() {
		t.Errorf("hq = %v, want %v", dst.HQ(), src.HQ())
	}
	if dst.Modulation() != src.Modulation() {
		t.Errorf("modulation = %v, want %v", dst.Modulation(), src.Modulation())
	}
}

func TestStateRoundTripDefaults(t *testing.T) {
	src := NewParams()
	var buf bytes.Buffer
	if err := src.SaveState(&buf); err != nil {
		t.Fatal(err)
	}
	dst := NewParams()
	dst.SetModulation(ModulationPhase)
	if err := dst.LoadState(&buf); err != nil {
		t.Fatal(err)
	}
	if dst.Modulation() != ModulationNone {
		t.Fatalf("modulation = %v after loading defaults", dst.Modulation())
	}
	if dst.Envelope() != defaultEnvelope() {
		t.Fatalf("envelope = %+v", dst.Envelope())
	}
}

func TestLoadStateTruncated(t *testing.T) {
	src := NewParams()
	var buf bytes.Buffer
	if err := src.SaveState(&buf); err != nil {
		t.Fatal(err)
	}
	full := buf.Bytes()
	for _, n := range []int{0, 1, 15, 16, 17, 40, stateSizeInBytes - 1} {
		dst := NewParams()
		err := dst.LoadState(bytes.NewReader(full[:n]))
		if err == nil {
			t.Errorf("no error for %d-byte buffer", n)
			continue
		}
		if !errors.Is(err, ErrMalformedState) {
			t.Errorf("%d-byte buffer: error %v is not ErrMalformedState", n, err)
		}
	}
}

func TestLoadStatePartialApply(t *testing.T) {
	src := NewParams()
	src.SetEnvelope(Envelope{Attack: 0.5, Decay: 0.5, Sustain: 0.5, Release: 0.5})
	var buf bytes.Buffer
	if err := src.SaveState(&buf); err != nil {
		t.Fatal(err)
	}
	// Enough bytes for the envelope, nothing past it.
	dst := NewParams()
	dst.SetModulation(ModulationEvil)
	if err := dst.LoadState(bytes.NewReader(buf.Bytes()[:16])); err == nil {
		t.Fatal("expected error")
	}
	if dst.Envelope().Attack != 0.5 {
		t.Errorf("decoded envelope not applied: %+v", dst.Envelope())
	}
	if dst.Modulation() != ModulationEvil {
		t.Errorf("undecoded modulation overwritten: %v", dst.Modulation())
	}
}
