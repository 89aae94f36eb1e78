package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/dancingmadman2/raydium-bot/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestTradeRoundtrip(t *testing.T) {
	r := openTestRecorder(t)

	rec := &model.TradeRecord{
		ID:          ulid.Make().String(),
		AccountID:   "acct-1",
		Side:        model.SideBuy,
		Amount:      2_500_000,
		PriorityFee: 10_000_000,
		TxID:        "sig123",
		ExecutedAt:  time.Now(),
	}
	require.NoError(t, r.RecordTrade(rec))

	var side string
	var amount int64
	err := r.db.QueryRow(`SELECT side, amount FROM trades WHERE id = ?`, rec.ID).
		Scan(&side, &amount)
	require.NoError(t, err)
	require.Equal(t, "BUY", side)
	require.Equal(t, int64(2_500_000), amount)
}

func TestCycleEventAndFinalStats(t *testing.T) {
	r := openTestRecorder(t)

	require.NoError(t, r.RecordCycleEvent(&CycleEvent{
		AccountID: "acct-1",
		EventType: "SWAP_FAILED",
		Detail:    "rpc timeout",
		BaseFee:   10_025_000,
	}))
	require.NoError(t, r.RecordFinalStats(&FinalStats{
		Stats:       model.VolumeStats{BuyVolume: 6, SellVolume: 4, BuyTrades: 3, SellTrades: 2},
		Target:      10,
		Accumulated: 10,
		SweepMode:   false,
	}))

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM cycle_events`).Scan(&n))
	require.Equal(t, 1, n)

	var acc int64
	require.NoError(t, r.db.QueryRow(`SELECT accumulated FROM final_stats`).Scan(&acc))
	require.Equal(t, int64(10), acc)
}
