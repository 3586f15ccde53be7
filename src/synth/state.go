package synth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ----- Persisted State ----- //

// ErrMalformedState reports a truncated or otherwise invalid persisted
// parameter buffer. Loading stops at the first bad field; whatever was
// decoded before it has already been applied, and the caller decides whether
// to fall back to defaults.
var ErrMalformedState = errors.New("malformed persisted state")

// SaveState writes the parameter snapshot in its fixed little-endian layout:
// 4 x f32 envelope, 3 x f64 waveform, 3 x f32 level, 3 x u32 hq flag,
// f64 modulation.
func (p *Params) SaveState(w io.Writer) error {
	env := p.Envelope()
	waveforms := p.Waveforms()
	levels := p.Levels()
	hq := p.HQ()
	modulation := p.Modulation()

	for _, f := range [4]float32{
		float32(env.Attack), float32(env.Decay),
		float32(env.Sustain), float32(env.Release),
	} {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}
	for _, waveform := range waveforms {
		if err := binary.Write(w, binary.LittleEndian, float64(waveform)); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}
	for _, level := range levels {
		if err := binary.Write(w, binary.LittleEndian, float32(level)); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}
	for _, flag := range hq {
		var u uint32
		if flag {
			u = 1
		}
		if err := binary.Write(w, binary.LittleEndian, u); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, float64(modulation)); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// LoadState reads the layout written by SaveState, applying each field group
// to the store as it is decoded.
func (p *Params) LoadState(r io.Reader) error {
	var env [4]float32
	for i := range env {
		if err := binary.Read(r, binary.LittleEndian, &env[i]); err != nil {
			return fmt.Errorf("%w: envelope: %v", ErrMalformedState, err)
		}
	}
	p.SetEnvelope(Envelope{
		Attack:  float64(env[0]),
		Decay:   float64(env[1]),
		Sustain: float64(env[2]),
		Release: float64(env[3]),
	})

	for osc := 0; osc < oscCount; osc++ {
		var waveform float64
		if err := binary.Read(r, binary.LittleEndian, &waveform); err != nil {
			return fmt.Errorf("%w: waveform %d: %v", ErrMalformedState, osc, err)
		}
		p.SetWaveform(osc, Waveform(waveform))
	}
	for osc := 0; osc < oscCount; osc++ {
		var level float32
		if err := binary.Read(r, binary.LittleEndian, &level); err != nil {
			return fmt.Errorf("%w: level %d: %v", ErrMalformedState, osc, err)
		}
		p.SetLevel(osc, float64(level))
	}
	for osc := 0; osc < oscCount; osc++ {
		var flag uint32
		if err := binary.Read(r, binary.LittleEndian, &flag); err != nil {
			return fmt.Errorf("%w: hq %d: %v", ErrMalformedState, osc, err)
		}
		p.SetHQ(osc, flag != 0)
	}
	var modulation float64
	if err := binary.Read(r, binary.LittleEndian, &modulation); err != nil {
		return fmt.Errorf("%w: modulation: %v", ErrMalformedState, err)
	}
	p.SetModulation(Modulation(modulation))
	return nil
}
