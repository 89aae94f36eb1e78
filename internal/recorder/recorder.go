package recorder

import "github.com/dancingmadman2/raydium-bot/internal/model"

// CycleEvent captures something a trading cycle did besides executing a
// trade: a skipped account, a zero-sized order, a failed swap, a swept wallet.
type CycleEvent struct {
	AccountID string
	EventType string // "SKIP", "ZERO_AMOUNT", "SWAP_FAILED", "SWEPT"
	Detail    string
	BaseFee   int64
}

// FinalStats is the end-of-run summary row.
type FinalStats struct {
	Stats       model.VolumeStats
	Target      int64
	Accumulated int64
	SweepMode   bool
}

// Recorder persists the trade journal for later analysis.
type Recorder interface {
	RecordTrade(rec *model.TradeRecord) error
	RecordCycleEvent(evt *CycleEvent) error
	RecordFinalStats(stats *FinalStats) error
	Close() error
}
