package balance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dancingmadman2/raydium-bot/internal/model"
)

// fakeOracle serves scripted balances and counts fetches.
type fakeOracle struct {
	sol     map[string]int64
	token   map[string]int64
	fetches int
	err     error
}

func (f *fakeOracle) SolBalance(_ context.Context, pubkey string) (int64, error) {
	f.fetches++
	if f.err != nil {
		return 0, f.err
	}
	return f.sol[pubkey], nil
}

func (f *fakeOracle) TokenBalance(_ context.Context, pubkey string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.token[pubkey], nil
}

func TestRecordInitialIsIdempotent(t *testing.T) {
	o := &fakeOracle{sol: map[string]int64{"w": 10}, token: map[string]int64{"w": 5}}
	tr := NewTracker(o)

	first, err := tr.RecordInitial(context.Background(), "w")
	require.NoError(t, err)
	assert.Equal(t, model.BalanceSnapshot{Sol: 10, Token: 5}, first)

	// Balance moves, but the initial snapshot must not.
	o.sol["w"] = 7
	again, err := tr.RecordInitial(context.Background(), "w")
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, o.fetches, "repeat calls must not refetch")
}

func TestDeltaComputesSignedChanges(t *testing.T) {
	o := &fakeOracle{sol: map[string]int64{"w": 10}, token: map[string]int64{"w": 5}}
	tr := NewTracker(o)

	_, err := tr.RecordInitial(context.Background(), "w")
	require.NoError(t, err)

	o.sol["w"] = 7
	o.token["w"] = 8
	delta, err := tr.Delta(context.Background(), "w")
	require.NoError(t, err)
	assert.Equal(t, model.BalanceSnapshot{Sol: -3, Token: 3}, delta)
}

func TestDeltaWithoutInitialFails(t *testing.T) {
	tr := NewTracker(&fakeOracle{})
	_, err := tr.Delta(context.Background(), "unseen")
	require.ErrorIs(t, err, ErrNoInitialBalance)
	assert.False(t, tr.HasInitial("unseen"))
}

func TestAllDeltasSkipsUnseenAndFailing(t *testing.T) {
	o := &fakeOracle{
		sol:   map[string]int64{"a": 100, "b": 200},
		token: map[string]int64{"a": 1, "b": 2},
	}
	tr := NewTracker(o)
	_, err := tr.RecordInitial(context.Background(), "a")
	require.NoError(t, err)

	o.sol["a"] = 150
	deltas := tr.AllDeltas(context.Background(), []string{"a", "b"})
	require.Len(t, deltas, 1)
	assert.Equal(t, int64(50), deltas["a"].Sol)

	// A broken oracle yields a partial (here empty) result, not a crash.
	o.err = errors.New("rpc down")
	deltas = tr.AllDeltas(context.Background(), []string{"a"})
	assert.Empty(t, deltas)
}
