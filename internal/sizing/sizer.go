// Package sizing computes bounded, randomized trade amounts in base units.
package sizing

import (
	"math/rand"
	"time"
)

// Params are the sizing bounds, all in integer base units. Sell bounds must
// already be scaled by the token's decimals.
type Params struct {
	BuyMin         int64
	BuyMax         int64
	SellMin        int64
	SellMax        int64
	MinTrade       int64
	SweepThreshold int64
	Variance       float64
}

// Sizer draws trade amounts within the configured bounds.
type Sizer struct {
	p   Params
	rng *rand.Rand
}

// New creates a Sizer.
func New(p Params) *Sizer {
	return &Sizer{p: p, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Amount computes the trade size for one cycle. A zero return means the
// cycle should be skipped: goal met, balance too low, or nothing to sell.
func (s *Sizer) Amount(sol, token, remaining int64, buy, sweep bool) int64 {
	if sweep {
		if !buy {
			// Sweeping only withdraws SOL; tokens are left alone.
			return 0
		}
		if avail := sol - s.p.SweepThreshold; avail > 0 {
			return avail
		}
		return 0
	}

	if remaining <= 0 {
		return 0
	}
	if buy {
		return s.buyAmount(sol, remaining)
	}
	return s.sellAmount(token)
}

func (s *Sizer) buyAmount(sol, remaining int64) int64 {
	avail := sol - s.p.SweepThreshold
	if avail < 0 {
		avail = 0
	}
	if avail < s.p.MinTrade {
		return 0
	}

	amount := s.uniform(minInt64(s.p.BuyMin, avail), minInt64(s.p.BuyMax, avail))
	if amount > remaining {
		amount = remaining
	}
	amount = s.jitter(amount)

	if amount > avail {
		amount = avail
	}
	if amount < s.p.MinTrade {
		amount = s.p.MinTrade
	}
	return amount
}

func (s *Sizer) sellAmount(token int64) int64 {
	if token <= 0 {
		return 0
	}
	amount := s.uniform(minInt64(s.p.SellMin, token), minInt64(s.p.SellMax, token))
	amount = s.jitter(amount)
	if amount > token {
		amount = token
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}

// uniform draws from [lo, hi). Degenerate ranges collapse to lo.
func (s *Sizer) uniform(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Int63n(hi-lo)
}

// jitter applies a multiplicative +-variance wobble, floored to an integer.
func (s *Sizer) jitter(amount int64) int64 {
	v := s.p.Variance
	factor := 1 - v + s.rng.Float64()*2*v
	return int64(float64(amount) * factor)
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
