package strategy

import (
	"math"
	"testing"
)

func thresholds() Thresholds {
	return Thresholds{
		MinBalance:      30_000_000,
		TargetBalance:   80_000_000,
		SweepThreshold:  10_000_000,
		ImbalanceWeight: 0.6,
	}
}

func TestBuyProbabilityEndpoints(t *testing.T) {
	th := thresholds()
	cases := []struct {
		name string
		sol  int64
		want float64
	}{
		{"below minimum", 29_999_999, 0},
		{"at target", 80_000_000, 1},
		{"above target", 200_000_000, 1},
		{"midpoint", 55_000_000, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BuyProbability(tc.sol, false, th, nil)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("p = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestImbalanceCorrectionShiftsProbability(t *testing.T) {
	th := thresholds()

	// Heavy selling should push the probability up.
	w := NewRecentWindow(10)
	w.Add(false, 900)
	w.Add(true, 100)
	base := BuyProbability(55_000_000, false, th, nil)
	adjusted := BuyProbability(55_000_000, false, th, w)
	if adjusted <= base {
		t.Errorf("sell-heavy window: p %v should exceed base %v", adjusted, base)
	}
	want := base + 0.8*0.6
	if math.Abs(adjusted-want) > 1e-9 {
		t.Errorf("p = %v, want %v", adjusted, want)
	}

	// Heavy buying pushes it down and the result stays clamped in [0,1].
	w2 := NewRecentWindow(10)
	w2.Add(true, 1000)
	down := BuyProbability(32_000_000, false, th, w2)
	if down < 0 || down > 1 {
		t.Fatalf("p = %v outside [0,1]", down)
	}
	if down != 0 {
		t.Errorf("p = %v, want clamped to 0", down)
	}
}

func TestEmptyWindowNoCorrection(t *testing.T) {
	th := thresholds()
	w := NewRecentWindow(10)
	if got := w.Imbalance(); got != 0 {
		t.Errorf("empty window imbalance = %v", got)
	}
	base := BuyProbability(55_000_000, false, th, nil)
	withEmpty := BuyProbability(55_000_000, false, th, w)
	if base != withEmpty {
		t.Errorf("empty window changed p: %v != %v", withEmpty, base)
	}
}

func TestWindowEvictsOldest(t *testing.T) {
	w := NewRecentWindow(3)
	w.Add(false, 100) // will be evicted
	w.Add(true, 10)
	w.Add(true, 10)
	w.Add(true, 10)
	if w.Len() != 3 {
		t.Fatalf("len = %d, want 3", w.Len())
	}
	// Only buys remain: imbalance is fully buy-sided.
	if got := w.Imbalance(); got != -1 {
		t.Errorf("imbalance = %v, want -1", got)
	}
}

func TestSweepModeDeterministic(t *testing.T) {
	th := thresholds()
	if got := BuyProbability(10_000_001, true, th, nil); got != 1 {
		t.Errorf("above sweep threshold: p = %v, want 1", got)
	}
	if got := BuyProbability(10_000_000, true, th, nil); got != 0 {
		t.Errorf("at sweep threshold: p = %v, want 0", got)
	}
}
