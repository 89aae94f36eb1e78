package wallet

import (
	"math/rand"
	"sync"
	"time"

	"github.com/dancingmadman2/raydium-bot/internal/model"
)

// maxIdleWeight caps how much extra selection weight a long-idle account
// can accumulate.
const maxIdleWeight = 5.0

// Selector decides which funding account the next cycle trades from.
//
// Normal mode spreads usage with a fairness-weighted random draw: recently
// used accounts sit out a cooldown, an account is never picked more than
// maxConsecutive times back to back, and longer-idle accounts carry more
// weight. Sweep mode is a strict round-robin so every account is revisited
// within one full rotation.
type Selector struct {
	mu             sync.Mutex
	accounts       []model.Account
	cooldown       time.Duration
	maxConsecutive int
	cursor         int
	now            func() time.Time
	rng            *rand.Rand
}

// NewSelector builds a selector over the account IDs in the given order.
func NewSelector(ids []string, cooldown time.Duration, maxConsecutive int) *Selector {
	accounts := make([]model.Account, len(ids))
	for i, id := range ids {
		accounts[i] = model.Account{ID: id}
	}
	return &Selector{
		accounts:       accounts,
		cooldown:       cooldown,
		maxConsecutive: maxConsecutive,
		now:            time.Now,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Count returns the number of managed accounts.
func (s *Selector) Count() int { return len(s.accounts) }

// IDs returns account IDs in their fixed iteration order.
func (s *Selector) IDs() []string {
	ids := make([]string, len(s.accounts))
	for i := range s.accounts {
		ids[i] = s.accounts[i].ID
	}
	return ids
}

// Next selects the account for this cycle and updates its usage state.
func (s *Selector) Next(sweep bool) model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sweep {
		return s.nextRoundRobin()
	}
	return s.nextWeighted()
}

// nextRoundRobin ignores cooldowns: sweeping wants every account visited
// exactly once per rotation.
func (s *Selector) nextRoundRobin() model.Account {
	a := &s.accounts[s.cursor]
	s.cursor = (s.cursor + 1) % len(s.accounts)
	a.LastUsedAt = s.now()
	a.TotalUsage++
	return *a
}

func (s *Selector) nextWeighted() model.Account {
	now := s.now()

	// An account idle past twice the cooldown gets its streak forgiven.
	for i := range s.accounts {
		if now.Sub(s.accounts[i].LastUsedAt) > 2*s.cooldown {
			s.accounts[i].ConsecutiveUse = 0
		}
	}

	var candidates []int
	for i := range s.accounts {
		idle := now.Sub(s.accounts[i].LastUsedAt)
		if idle >= s.cooldown && s.accounts[i].ConsecutiveUse < s.maxConsecutive {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) == 0 {
		// Everything is cooling down or over-used: take the globally
		// least-recently-used account so the loop never starves.
		lru := 0
		for i := range s.accounts {
			if s.accounts[i].LastUsedAt.Before(s.accounts[lru].LastUsedAt) {
				lru = i
			}
		}
		a := &s.accounts[lru]
		a.LastUsedAt = now
		a.ConsecutiveUse = 1
		a.TotalUsage++
		return *a
	}

	weights := make([]float64, len(candidates))
	var total float64
	for j, i := range candidates {
		idle := now.Sub(s.accounts[i].LastUsedAt)
		w := maxIdleWeight
		if s.cooldown > 0 {
			w = float64(idle) / float64(s.cooldown)
			if w > maxIdleWeight {
				w = maxIdleWeight
			}
		}
		weights[j] = w
		total += w
	}

	draw := s.rng.Float64() * total
	chosen := candidates[len(candidates)-1]
	for j, i := range candidates {
		draw -= weights[j]
		if draw <= 0 {
			chosen = i
			break
		}
	}

	for i := range s.accounts {
		if i == chosen {
			continue
		}
		s.accounts[i].ConsecutiveUse = 0
	}
	a := &s.accounts[chosen]
	a.LastUsedAt = now
	a.ConsecutiveUse++
	a.TotalUsage++
	return *a
}
