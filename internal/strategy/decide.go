// Package strategy decides trade direction: the probability that the next
// trade is a buy, given the account's balance position and the recent
// buy/sell skew.
package strategy

// Thresholds are the balance levels that anchor the buy probability.
type Thresholds struct {
	// MinBalance: below this the bot never buys (lamports).
	MinBalance int64
	// TargetBalance: at or above this the bot always buys (lamports).
	TargetBalance int64
	// SweepThreshold: in sweep mode, buy (withdraw) only above this.
	SweepThreshold int64
	// ImbalanceWeight scales the recent-trade correction term.
	ImbalanceWeight float64
}

// BuyProbability returns the probability in [0, 1] that this cycle buys.
//
// Sweep mode is deterministic: 1 while the balance is above the sweep
// threshold, 0 once drained. Normal mode interpolates linearly between the
// minimum and target balances, then shifts by the recent volume imbalance
// so the bot drifts back toward a balanced buy/sell mix.
func BuyProbability(solBalance int64, sweep bool, th Thresholds, window *RecentWindow) float64 {
	if sweep {
		if solBalance > th.SweepThreshold {
			return 1
		}
		return 0
	}

	if solBalance < th.MinBalance {
		return 0
	}
	if solBalance >= th.TargetBalance {
		return 1
	}

	span := th.TargetBalance - th.MinBalance
	p := float64(solBalance-th.MinBalance) / float64(span)

	if window != nil {
		p += window.Imbalance() * th.ImbalanceWeight
	}

	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
