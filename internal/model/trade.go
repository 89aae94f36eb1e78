package model

import "time"

// LamportsPerSol is the number of lamports in one SOL.
const LamportsPerSol = 1_000_000_000

// TradeSide indicates the direction of a swap.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// Side returns the trade side for a buy flag.
func Side(buy bool) TradeSide {
	if buy {
		return SideBuy
	}
	return SideSell
}

// TradeDecision is the per-cycle output of the decision stage. It is
// consumed immediately by the executor and never persisted.
type TradeDecision struct {
	AccountID      string
	Buy            bool
	Amount         int64
	BuyProbability float64
}

// TradeRecord is one executed swap as written to the journal.
type TradeRecord struct {
	ID          string
	AccountID   string
	Side        TradeSide
	Amount      int64
	PriorityFee int64
	TxID        string
	ExecutedAt  time.Time
}

// VolumeStats holds aggregate counters for executed trades.
type VolumeStats struct {
	BuyVolume  int64
	SellVolume int64
	BuyTrades  int
	SellTrades int
}

// Total returns combined buy and sell volume.
func (v VolumeStats) Total() int64 { return v.BuyVolume + v.SellVolume }

// AccountStats extends VolumeStats with realized balance changes.
type AccountStats struct {
	VolumeStats
	SolChange   int64
	TokenChange int64
}
