// Package balance tracks each account's initial balance snapshot and
// computes realized deltas against fresh chain state.
package balance

import (
	"context"
	"errors"
	"sync"

	"github.com/dancingmadman2/raydium-bot/internal/model"
)

// ErrNoInitialBalance is returned when a delta is requested for an account
// that was never snapshotted. The orchestrator records an initial snapshot
// on first sight, so hitting this indicates a call-ordering bug.
var ErrNoInitialBalance = errors.New("no initial balance recorded for account")

// Oracle fetches live balances from the chain. It must be safe to call
// frequently; the tracker caches nothing beyond the initial snapshot.
type Oracle interface {
	SolBalance(ctx context.Context, pubkey string) (int64, error)
	TokenBalance(ctx context.Context, pubkey string) (int64, error)
}

// Tracker owns one immutable initial snapshot per account.
type Tracker struct {
	mu      sync.Mutex
	oracle  Oracle
	initial map[string]model.BalanceSnapshot
}

// NewTracker creates a Tracker backed by the given oracle.
func NewTracker(oracle Oracle) *Tracker {
	return &Tracker{
		oracle:  oracle,
		initial: make(map[string]model.BalanceSnapshot),
	}
}

// RecordInitial captures the account's balances once. Repeat calls return
// the originally captured snapshot without touching the network.
func (t *Tracker) RecordInitial(ctx context.Context, accountID string) (model.BalanceSnapshot, error) {
	t.mu.Lock()
	if snap, ok := t.initial[accountID]; ok {
		t.mu.Unlock()
		return snap, nil
	}
	t.mu.Unlock()

	snap, err := t.Current(ctx, accountID)
	if err != nil {
		return model.BalanceSnapshot{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Another caller may have won the race; the first capture stands.
	if existing, ok := t.initial[accountID]; ok {
		return existing, nil
	}
	t.initial[accountID] = snap
	return snap, nil
}

// Current fetches a fresh snapshot from the oracle.
func (t *Tracker) Current(ctx context.Context, accountID string) (model.BalanceSnapshot, error) {
	sol, err := t.oracle.SolBalance(ctx, accountID)
	if err != nil {
		return model.BalanceSnapshot{}, err
	}
	token, err := t.oracle.TokenBalance(ctx, accountID)
	if err != nil {
		return model.BalanceSnapshot{}, err
	}
	return model.BalanceSnapshot{Sol: sol, Token: token}, nil
}

// HasInitial reports whether the account has been snapshotted.
func (t *Tracker) HasInitial(accountID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.initial[accountID]
	return ok
}

// Delta returns current minus initial balances for the account.
func (t *Tracker) Delta(ctx context.Context, accountID string) (model.BalanceSnapshot, error) {
	t.mu.Lock()
	start, ok := t.initial[accountID]
	t.mu.Unlock()
	if !ok {
		return model.BalanceSnapshot{}, ErrNoInitialBalance
	}

	current, err := t.Current(ctx, accountID)
	if err != nil {
		return model.BalanceSnapshot{}, err
	}
	return current.Sub(start), nil
}

// AllDeltas computes deltas for every account with a recorded initial
// snapshot. Accounts whose balance fetch fails are omitted; a partial
// report beats no report at shutdown.
func (t *Tracker) AllDeltas(ctx context.Context, accountIDs []string) map[string]model.BalanceSnapshot {
	deltas := make(map[string]model.BalanceSnapshot)
	for _, id := range accountIDs {
		if !t.HasInitial(id) {
			continue
		}
		d, err := t.Delta(ctx, id)
		if err != nil {
			continue
		}
		deltas[id] = d
	}
	return deltas
}
