// Package fees maintains the adaptive priority fee bid. The fee grows on
// failure streaks, decays one step on recovery, and is randomized on every
// read to avoid a predictable bidding pattern.
package fees

import (
	"math/rand"
	"sync"
	"time"
)

const (
	varianceBelow = 0.05
	varianceAbove = 0.10
)

// Controller tracks the base priority fee in micro-lamports.
type Controller struct {
	mu                  sync.Mutex
	baseFee             int64
	step                int64
	minFee              int64
	maxFee              int64 // 0 = uncapped
	consecutiveFailures int
	disabled            bool
	rng                 *rand.Rand
}

// New creates a Controller. A base fee of exactly zero disables priority
// fees entirely: Current always returns 0. maxFee of zero leaves escalation
// uncapped.
func New(baseFee, step, minFee, maxFee int64) *Controller {
	c := &Controller{
		baseFee:  baseFee,
		step:     step,
		minFee:   minFee,
		maxFee:   maxFee,
		disabled: baseFee == 0,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	c.clamp()
	return c
}

// Current returns the fee to bid right now: a uniform draw from
// [base*(1-0.05), base*(1+0.10)], floored to an integer.
func (c *Controller) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		return 0
	}
	lo := float64(c.baseFee) * (1 - varianceBelow)
	hi := float64(c.baseFee) * (1 + varianceAbove)
	return int64(lo + c.rng.Float64()*(hi-lo))
}

// OnError escalates the base fee, scaled by the current failure streak.
func (c *Controller) OnError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		return
	}
	c.consecutiveFailures++
	c.baseFee += c.step * int64(c.consecutiveFailures)
	c.clamp()
}

// OnSuccess ends a failure streak and decays the base fee by a single step.
// A success with no preceding failures leaves the fee untouched, which keeps
// the fee from oscillating around every confirmed trade.
func (c *Controller) OnSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled || c.consecutiveFailures == 0 {
		return
	}
	c.consecutiveFailures = 0
	c.baseFee -= c.step
	c.clamp()
}

// Base returns the current base fee, for reporting.
func (c *Controller) Base() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.baseFee
}

// Failures returns the current consecutive failure count.
func (c *Controller) Failures() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.consecutiveFailures
}

func (c *Controller) clamp() {
	if c.disabled {
		return
	}
	if c.baseFee < c.minFee {
		c.baseFee = c.minFee
	}
	if c.baseFee < 0 {
		c.baseFee = 0
	}
	if c.maxFee > 0 && c.baseFee > c.maxFee {
		c.baseFee = c.maxFee
	}
}
