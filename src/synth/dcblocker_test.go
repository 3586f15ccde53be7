package synth

import (
	"math"
	"testing"
)

func TestDCBlockerRemovesConstantOffset(t *testing.T) {
	var d dcBlocker
	var y float64
	for i := 0; i < 2000; i++ {
		y = d.process(0.7)
	}
	if math.Abs(y) > 0.001 {
		t.Fatalf("constant input did not converge to 0: %v", y)
	}
}

func TestDCBlockerPassesFirstSample(t *testing.T) {
	var d dcBlocker
	if y := d.process(1); y != 1 {
		t.Fatalf("first sample = %v, want 1", y)
	}
}

func TestDCBlockerReset(t *testing.T) {
	var d dcBlocker
	d.process(0.3)
	d.process(-0.5)
	d.reset()
	if d.x != 0 || d.y != 0 {
		t.Fatalf("reset left state: x=%v y=%v", d.x, d.y)
	}
}
