package synth

import (
	"math/rand"
	"testing"
)

func TestPoolNoteOnEveryNoteAndVelocity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	params := NewParams()
	p := newPool(testSampleRate)
	for note := 0; note < keyCount; note++ {
		for velocity := byte(1); velocity <= 127; velocity += 21 {
			p.noteOn(note, velocity, params, rng)
			if !p.voices[note].isOn() {
				t.Fatalf("note %d velocity %d: voice not on", note, velocity)
			}
		}
	}
	if len(p.live) != keyCount {
		t.Fatalf("live list has %d entries, want %d", len(p.live), keyCount)
	}
}

func TestPoolLiveListNoDuplicates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	params := NewParams()
	p := newPool(testSampleRate)
	for i := 0; i < 10; i++ {
		p.noteOn(60, 100, params, rng)
	}
	if len(p.live) != 1 {
		t.Fatalf("retriggering duplicated live entry: %d", len(p.live))
	}
}

func TestPoolForEachLiveVisitsEachOnceAndPrunes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	params := NewParams()
	p := newPool(testSampleRate)
	p.noteOn(10, 100, params, rng)
	p.noteOn(20, 100, params, rng)
	p.noteOn(30, 100, params, rng)

	// End one voice behind the pool's back; the next sweep must prune it.
	p.voices[20].end()

	visited := map[int]int{}
	p.forEachLive(func(v *voice) {
		visited[v.note]++
	})
	if len(visited) != 2 || visited[10] != 1 || visited[30] != 1 {
		t.Fatalf("unexpected visits: %v", visited)
	}
	if len(p.live) != 2 {
		t.Fatalf("pruned list has %d entries, want 2", len(p.live))
	}
	// The pruned voice was force-ended, so its state is clean.
	if p.voices[20].isOn() {
		t.Fatalf("pruned voice still on")
	}
}

func TestPoolNoteOffThenRenderPrunes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	params := NewParams()
	params.SetEnvelope(Envelope{Attack: 0.001, Decay: 0.01, Sustain: 0.5, Release: 0.001})
	table := newTuningTable(testSampleRate, defaultTuningConfig())
	p := newPool(testSampleRate)
	p.noteOn(60, 100, params, rng)
	p.noteOff(60)

	out := make([]float64, 4800)
	levels := params.Levels()
	pitch := centeredPitch()
	p.forEachLive(func(v *voice) {
		v.process(out, pitch, levels, rng, []int{0}, table)
	})
	// 4800 samples is far past the release; the voice has ended and the
	// next sweep removes it.
	count := 0
	p.forEachLive(func(v *voice) {
		count++
	})
	if count != 0 {
		t.Fatalf("expected no live voices, visited %d", count)
	}
	if len(p.live) != 0 {
		t.Fatalf("live list not pruned: %v", p.live)
	}
}

func TestPoolForceEndAll(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	params := NewParams()
	p := newPool(testSampleRate)
	for _, note := range []int{40, 50, 60} {
		p.noteOn(note, 100, params, rng)
	}
	p.forEachLive((*voice).end)
	p.forEachLive(func(v *voice) {
		t.Fatalf("voice %d still live after force end", v.note)
	})
	if len(p.live) != 0 {
		t.Fatalf("live list not emptied: %v", p.live)
	}
}
