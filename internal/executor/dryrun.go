package executor

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrSimulatedFailure is returned by DryRunSwapper when FailRate trips.
var ErrSimulatedFailure = errors.New("simulated swap failure")

// DryRunSwapper confirms every swap without touching the chain. Used when
// no swap service is configured, and by tests.
type DryRunSwapper struct {
	// Delay simulates submission plus confirmation latency.
	Delay time.Duration
	// FailRate in [0,1] makes a fraction of swaps fail, for exercising
	// the fee escalation path in development.
	FailRate float64

	rng *rand.Rand
}

// NewDryRun creates a swapper that always succeeds after delay.
func NewDryRun(delay time.Duration) *DryRunSwapper {
	return &DryRunSwapper{
		Delay: delay,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Swap waits out the simulated latency and returns a synthetic tx id.
func (d *DryRunSwapper) Swap(ctx context.Context, req Request) (Result, error) {
	if d.Delay > 0 {
		select {
		case <-time.After(d.Delay):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	if d.FailRate > 0 && d.rng != nil && d.rng.Float64() < d.FailRate {
		return Result{}, ErrSimulatedFailure
	}
	return Result{TxID: "dryrun-" + ulid.Make().String()}, nil
}
