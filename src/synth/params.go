package synth

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ----- Waveform ----- //

// Waveform enumerates the selectable waveforms. WaveformRandom is a
// selection, not a generator: it resolves to one of the concrete waveforms
// at note-on.
type Waveform int

const (
	WaveformSine Waveform = iota
	WaveformTriangle
	WaveformSquare
	WaveformSaw
	WaveformNoise
	WaveformSploinky
	WaveformSkloinky
	WaveformRandom
)

func (w Waveform) String() string {
	switch w {
	case WaveformSine:
		return "Sine"
	case WaveformTriangle:
		return "Triangle"
	case WaveformSquare:
		return "Square"
	case WaveformSaw:
		return "Saw"
	case WaveformNoise:
		return "Noise"
	case WaveformSploinky:
		return "Sploinky"
	case WaveformSkloinky:
		return "Skloinky"
	case WaveformRandom:
		return "Random"
	}
	return "Unknown"
}

// ----- Modulation ----- //

// Modulation enumerates the algorithms combining the three oscillators.
type Modulation int

const (
	ModulationNone Modulation = iota
	ModulationPhase
	ModulationEvil
)

func (m Modulation) String() string {
	switch m {
	case ModulationNone:
		return "None"
	case ModulationPhase:
		return "Phase"
	case ModulationEvil:
		return "Evil"
	}
	return "Unknown"
}

// ----- Envelope ----- //

// Envelope holds the ADSR timings in seconds and the sustain level in 0-1.
type Envelope struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

func defaultEnvelope() Envelope {
	return Envelope{Attack: 0.01, Decay: 0.1, Sustain: 0.8, Release: 0.1}
}

// ----- Parameter IDs ----- //

// ParamID identifies one host-facing parameter.
type ParamID int

const (
	ParamAttack ParamID = iota
	ParamDecay
	ParamSustain
	ParamRelease
	ParamWaveform1
	ParamWaveform2
	ParamWaveform3
	ParamLevel1
	ParamLevel2
	ParamLevel3
	ParamHQ1
	ParamHQ2
	ParamHQ3
	ParamModulation
	ParamPitch1
	ParamPitch2
	ParamPitch3
	ParamCount
)

// pitchOffsetMax is the range of the per-oscillator pitch offset in tuning
// steps; pitchOffsetCenter is the offset that leaves the note unshifted.
const (
	pitchOffsetMax    = 48
	pitchOffsetCenter = pitchOffsetMax / 2
)

// ParamInfo describes one parameter for host-facing introspection.
type ParamInfo struct {
	ID      ParamID
	Name    string
	Min     float64
	Max     float64
	Default float64
	Stepped bool
}

var paramInfos = [ParamCount]ParamInfo{
	{ParamAttack, "Attack", 0, 1, 0.01, false},
	{ParamDecay, "Decay", 0, 1, 0.1, false},
	{ParamSustain, "Sustain", 0, 1, 0.8, false},
	{ParamRelease, "Release", 0, 1, 0.1, false},
	{ParamWaveform1, "Osc 1 Waveform", 0, float64(WaveformRandom), 0, true},
	{ParamWaveform2, "Osc 2 Waveform", 0, float64(WaveformRandom), 0, true},
	{ParamWaveform3, "Osc 3 Waveform", 0, float64(WaveformRandom), 0, true},
	{ParamLevel1, "Osc 1 Level", 0, 1, 1, false},
	{ParamLevel2, "Osc 2 Level", 0, 1, 0, false},
	{ParamLevel3, "Osc 3 Level", 0, 1, 0, false},
	{ParamHQ1, "Osc 1 HQ", 0, 1, 1, true},
	{ParamHQ2, "Osc 2 HQ", 0, 1, 1, true},
	{ParamHQ3, "Osc 3 HQ", 0, 1, 1, true},
	{ParamModulation, "Osc 3 -> Osc 1 Modulation", 0, float64(ModulationEvil), 0, true},
	{ParamPitch1, "Osc 1 Pitch", 0, pitchOffsetMax, pitchOffsetCenter, false},
	{ParamPitch2, "Osc 2 Pitch", 0, pitchOffsetMax, pitchOffsetCenter, false},
	{ParamPitch3, "Osc 3 Pitch", 0, pitchOffsetMax, pitchOffsetCenter, false},
}

// Info returns the descriptor of a parameter.
func Info(id ParamID) ParamInfo {
	return paramInfos[id]
}

// FormatValue renders a parameter value for display.
func FormatValue(id ParamID, value float64) string {
	switch id {
	case ParamAttack, ParamDecay, ParamRelease:
		return fmt.Sprintf("%.2f s", value)
	case ParamSustain, ParamLevel1, ParamLevel2, ParamLevel3:
		return fmt.Sprintf("%.2f %%", value*100)
	case ParamWaveform1, ParamWaveform2, ParamWaveform3:
		return Waveform(value).String()
	case ParamHQ1, ParamHQ2, ParamHQ3:
		return strconv.FormatBool(value != 0)
	case ParamModulation:
		return Modulation(value).String()
	case ParamPitch1, ParamPitch2, ParamPitch3:
		return fmt.Sprintf("%+.0f", value-pitchOffsetCenter)
	}
	return ""
}

// ParseValue parses display text back into a parameter value.
func ParseValue(id ParamID, text string) (float64, error) {
	text = strings.TrimSpace(text)
	switch id {
	case ParamAttack, ParamDecay, ParamRelease, ParamSustain,
		ParamLevel1, ParamLevel2, ParamLevel3:
		scale := 1.0
		if id == ParamSustain || id == ParamLevel1 || id == ParamLevel2 || id == ParamLevel3 {
			scale = 0.01
		}
		end := len(text)
		for i, c := range text {
			if (c < '0' || c > '9') && c != '.' && c != ',' && c != '-' {
				end = i
				break
			}
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(text[:end]), 64)
		if err != nil {
			return 0, err
		}
		return value * scale, nil
	case ParamHQ1, ParamHQ2, ParamHQ3:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return 0, err
		}
		if b {
			return 1, nil
		}
		return 0, nil
	case ParamPitch1, ParamPitch2, ParamPitch3:
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, err
		}
		return value + pitchOffsetCenter, nil
	case ParamWaveform1, ParamWaveform2, ParamWaveform3:
		for w := WaveformSine; w <= WaveformRandom; w++ {
			if text == w.String() {
				return float64(w), nil
			}
		}
	case ParamModulation:
		for m := ModulationNone; m <= ModulationEvil; m++ {
			if text == m.String() {
				return float64(m), nil
			}
		}
	}
	return 0, fmt.Errorf("cannot parse %q for parameter %d", text, id)
}

// ----- Parameter Store ----- //

// Params is the parameter state shared between the render thread and the
// control thread. Each logical field group has its own lock so a reader
// never observes a group half-written; a control-thread flush may still
// interleave with the render thread at block granularity.
type Params struct {
	envMu sync.RWMutex
	env   Envelope

	waveMu    sync.RWMutex
	waveforms [oscCount]Waveform

	levelMu sync.RWMutex
	levels  [oscCount]float64

	hqMu sync.RWMutex
	hq   [oscCount]bool

	modMu      sync.RWMutex
	modulation Modulation

	pitchMu sync.RWMutex
	pitch   [oscCount]float64
}

// NewParams creates a store with the default patch: a single sine oscillator
// at full level, HQ everywhere, no modulation, centered pitch.
func NewParams() *Params {
	return &Params{
		env:    defaultEnvelope(),
		levels: [oscCount]float64{1, 0, 0},
		hq:     [oscCount]bool{true, true, true},
		pitch:  [oscCount]float64{pitchOffsetCenter, pitchOffsetCenter, pitchOffsetCenter},
	}
}

func (p *Params) Envelope() Envelope {
	p.envMu.RLock()
	defer p.envMu.RUnlock()
	return p.env
}

func (p *Params) SetEnvelope(env Envelope) {
	p.envMu.Lock()
	p.env = env
	p.envMu.Unlock()
}

func (p *Params) Waveforms() [oscCount]Waveform {
	p.waveMu.RLock()
	defer p.waveMu.RUnlock()
	return p.waveforms
}

func (p *Params) SetWaveform(osc int, w Waveform) {
	p.waveMu.Lock()
	p.waveforms[osc] = w
	p.waveMu.Unlock()
}

func (p *Params) Levels() [oscCount]float64 {
	p.levelMu.RLock()
	defer p.levelMu.RUnlock()
	return p.levels
}

func (p *Params) SetLevel(osc int, level float64) {
	p.levelMu.Lock()
	p.levels[osc] = level
	p.levelMu.Unlock()
}

func (p *Params) HQ() [oscCount]bool {
	p.hqMu.RLock()
	defer p.hqMu.RUnlock()
	return p.hq
}

func (p *Params) SetHQ(osc int, hq bool) {
	p.hqMu.Lock()
	p.hq[osc] = hq
	p.hqMu.Unlock()
}

func (p *Params) Modulation() Modulation {
	p.modMu.RLock()
	defer p.modMu.RUnlock()
	return p.modulation
}

func (p *Params) SetModulation(m Modulation) {
	p.modMu.Lock()
	p.modulation = m
	p.modMu.Unlock()
}

func (p *Params) Pitch() [oscCount]float64 {
	p.pitchMu.RLock()
	defer p.pitchMu.RUnlock()
	return p.pitch
}

// SetPitch clamps to the tuning table's offset range so the render loop can
// index the table without a bounds branch.
func (p *Params) SetPitch(osc int, pitch float64) {
	if pitch < 0 {
		pitch = 0
	}
	if pitch > pitchOffsetMax {
		pitch = pitchOffsetMax
	}
	p.pitchMu.Lock()
	p.pitch[osc] = pitch
	p.pitchMu.Unlock()
}

// Apply routes one parameter-change value to its field group.
func (p *Params) Apply(id ParamID, value float64) {
	switch id {
	case ParamAttack, ParamDecay, ParamSustain, ParamRelease:
		p.envMu.Lock()
		switch id {
		case ParamAttack:
			p.env.Attack = value
		case ParamDecay:
			p.env.Decay = value
		case ParamSustain:
			p.env.Sustain = value
		case ParamRelease:
			p.env.Release = value
		}
		p.envMu.Unlock()
	case ParamWaveform1, ParamWaveform2, ParamWaveform3:
		p.SetWaveform(int(id-ParamWaveform1), Waveform(value))
	case ParamLevel1, ParamLevel2, ParamLevel3:
		p.SetLevel(int(id-ParamLevel1), value)
	case ParamHQ1, ParamHQ2, ParamHQ3:
		p.SetHQ(int(id-ParamHQ1), value != 0)
	case ParamModulation:
		p.SetModulation(Modulation(value))
	case ParamPitch1, ParamPitch2, ParamPitch3:
		p.SetPitch(int(id-ParamPitch1), value)
	}
}

// Value reads one parameter back for display.
func (p *Params) Value(id ParamID) float64 {
	switch id {
	case ParamAttack:
		return p.Envelope().Attack
	case ParamDecay:
		return p.Envelope().Decay
	case ParamSustain:
		return p.Envelope().Sustain
	case ParamRelease:
		return p.Envelope().Release
	case ParamWaveform1, ParamWaveform2, ParamWaveform3:
		return float64(p.Waveforms()[id-ParamWaveform1])
	case ParamLevel1, ParamLevel2, ParamLevel3:
		return p.Levels()[id-ParamLevel1]
	case ParamHQ1, ParamHQ2, ParamHQ3:
		if p.HQ()[id-ParamHQ1] {
			return 1
		}
		return 0
	case ParamModulation:
		return float64(p.Modulation())
	case ParamPitch1, ParamPitch2, ParamPitch3:
		return p.Pitch()[id-ParamPitch1]
	}
	return 0
}
