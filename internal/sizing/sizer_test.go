package sizing

import "testing"

func testParams() Params {
	return Params{
		BuyMin:         1_000_000,
		BuyMax:         5_000_000,
		SellMin:        100_000_000,
		SellMax:        500_000_000,
		MinTrade:       500_000,
		SweepThreshold: 10_000_000,
		Variance:       0.05,
	}
}

func TestBuyAmountBounds(t *testing.T) {
	s := New(testParams())
	const sol = 100_000_000
	avail := int64(sol - 10_000_000)

	for i := 0; i < 1000; i++ {
		got := s.Amount(sol, 0, 1_000_000_000, true, false)
		if got < 500_000 || got > avail {
			t.Fatalf("buy amount %d outside [%d, %d]", got, 500_000, avail)
		}
	}
}

func TestBuyBelowMinReturnsZero(t *testing.T) {
	s := New(testParams())
	// Available balance after the reserve threshold is under MinTrade.
	if got := s.Amount(10_400_000, 0, 1_000_000_000, true, false); got != 0 {
		t.Errorf("amount = %d, want 0 for dust balance", got)
	}
}

func TestGoalMetReturnsZero(t *testing.T) {
	s := New(testParams())
	if got := s.Amount(100_000_000, 1_000_000_000, 0, true, false); got != 0 {
		t.Errorf("amount = %d, want 0 when no volume remains", got)
	}
}

func TestBuyCappedByRemainingVolume(t *testing.T) {
	s := New(testParams())
	// Remaining volume is tiny; jitter can push at most 5% above it, and
	// the minimum-trade clamp then takes over.
	for i := 0; i < 1000; i++ {
		got := s.Amount(100_000_000, 0, 600_000, true, false)
		if got > 630_000 {
			t.Fatalf("amount %d exceeds jittered remaining cap", got)
		}
		if got < 500_000 {
			t.Fatalf("amount %d under min trade", got)
		}
	}
}

func TestSellBounds(t *testing.T) {
	s := New(testParams())
	const token = 300_000_000

	for i := 0; i < 1000; i++ {
		got := s.Amount(0, token, 1_000_000_000, false, false)
		if got < 0 || got > token {
			t.Fatalf("sell amount %d outside [0, %d]", got, token)
		}
	}
}

func TestSellWithNoTokensReturnsZero(t *testing.T) {
	s := New(testParams())
	if got := s.Amount(100_000_000, 0, 1_000_000_000, false, false); got != 0 {
		t.Errorf("amount = %d, want 0 with empty token balance", got)
	}
}

func TestSweepDrainsToThreshold(t *testing.T) {
	s := New(testParams())
	if got := s.Amount(50_000_000, 0, 0, true, true); got != 40_000_000 {
		t.Errorf("sweep amount = %d, want 40000000", got)
	}
	// Below threshold: nothing left to sweep.
	if got := s.Amount(9_000_000, 0, 0, true, true); got != 0 {
		t.Errorf("sweep amount = %d, want 0 below threshold", got)
	}
	// Sweep never sells.
	if got := s.Amount(50_000_000, 1_000_000, 0, false, true); got != 0 {
		t.Errorf("sweep sell amount = %d, want 0", got)
	}
}
