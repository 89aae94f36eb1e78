// Package volume accumulates executed trade volume toward the configured
// target. Pure counter arithmetic; no I/O.
package volume

import (
	"sync"

	"github.com/dancingmadman2/raydium-bot/internal/model"
)

// Tracker holds global and per-account volume counters.
type Tracker struct {
	mu          sync.Mutex
	target      int64
	accumulated int64
	stats       model.VolumeStats
	perAccount  map[string]*model.AccountStats
}

// NewTracker creates a Tracker with the given target in lamports.
func NewTracker(target int64) *Tracker {
	return &Tracker{
		target:     target,
		perAccount: make(map[string]*model.AccountStats),
	}
}

// Add credits executed volume to the global and per-account counters and
// reports whether the cumulative total has now reached the target. The goal
// edge is evaluated after the increment, so the trade that crosses the
// threshold is the one that reports success.
func (t *Tracker) Add(amount int64, buy bool, accountID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.accumulated += amount

	acct := t.account(accountID)
	if buy {
		t.stats.BuyVolume += amount
		t.stats.BuyTrades++
		acct.BuyVolume += amount
		acct.BuyTrades++
	} else {
		t.stats.SellVolume += amount
		t.stats.SellTrades++
		acct.SellVolume += amount
		acct.SellTrades++
	}

	return t.accumulated >= t.target
}

// Remaining returns the distance to the target, never negative.
func (t *Tracker) Remaining() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rem := t.target - t.accumulated; rem > 0 {
		return rem
	}
	return 0
}

// Accumulated returns total credited volume.
func (t *Tracker) Accumulated() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.accumulated
}

// Target returns the configured volume goal.
func (t *Tracker) Target() int64 { return t.target }

// UpdateBalanceChange records an account's realized balance deltas for the
// final report.
func (t *Tracker) UpdateBalanceChange(accountID string, solChange, tokenChange int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	acct := t.account(accountID)
	acct.SolChange = solChange
	acct.TokenChange = tokenChange
}

// Stats returns a copy of the overall counters.
func (t *Tracker) Stats() model.VolumeStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// PerAccount returns a copy of the per-account counters.
func (t *Tracker) PerAccount() map[string]model.AccountStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]model.AccountStats, len(t.perAccount))
	for id, s := range t.perAccount {
		out[id] = *s
	}
	return out
}

// account returns the per-account entry, creating it on first use.
// Callers must hold the lock.
func (t *Tracker) account(id string) *model.AccountStats {
	if s, ok := t.perAccount[id]; ok {
		return s
	}
	s := &model.AccountStats{}
	t.perAccount[id] = s
	return s
}
