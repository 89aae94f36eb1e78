package strategy

// recentTrade is one executed trade as remembered for imbalance correction.
type recentTrade struct {
	buy    bool
	volume int64
}

// RecentWindow is a bounded FIFO of the last N executed trades. The oldest
// entry is evicted on overflow.
type RecentWindow struct {
	trades   []recentTrade
	capacity int
}

// NewRecentWindow creates a window holding up to capacity trades.
func NewRecentWindow(capacity int) *RecentWindow {
	return &RecentWindow{capacity: capacity}
}

// Add appends a trade, evicting the oldest when full.
func (w *RecentWindow) Add(buy bool, volume int64) {
	w.trades = append(w.trades, recentTrade{buy: buy, volume: volume})
	if len(w.trades) > w.capacity {
		w.trades = w.trades[1:]
	}
}

// Len returns the number of remembered trades.
func (w *RecentWindow) Len() int { return len(w.trades) }

// Imbalance returns the sell-vs-buy volume skew of the remembered trades,
// in [-1, 1]. Positive means selling has dominated and buys should be
// favored. An empty or zero-volume window reports no skew.
func (w *RecentWindow) Imbalance() float64 {
	var buyVol, sellVol int64
	for _, t := range w.trades {
		if t.buy {
			buyVol += t.volume
		} else {
			sellVol += t.volume
		}
	}
	total := buyVol + sellVol
	if total == 0 {
		return 0
	}
	return float64(sellVol-buyVol) / float64(total)
}
