package wallet

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSelector(ids []string, cooldown time.Duration, maxConsecutive int) (*Selector, *time.Time) {
	s := NewSelector(ids, cooldown, maxConsecutive)
	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }
	s.rng = rand.New(rand.NewSource(42))
	return s, &now
}

func TestSweepRoundRobinVisitsAll(t *testing.T) {
	s, _ := testSelector([]string{"w0", "w1", "w2"}, 2*time.Second, 2)

	for cycle := 0; cycle < 3; cycle++ {
		for i, want := range []string{"w0", "w1", "w2"} {
			got := s.Next(true)
			require.Equalf(t, want, got.ID, "rotation %d pick %d", cycle, i)
		}
	}
}

func TestNormalModeNeverExceedsConsecutiveCap(t *testing.T) {
	s, now := testSelector([]string{"w0", "w1"}, 2*time.Second, 2)

	var last string
	streak := 0
	for i := 0; i < 200; i++ {
		// Enough idle time that both accounts stay eligible, but under
		// the 2x cooldown streak-forgiveness window.
		*now = now.Add(3 * time.Second)
		got := s.Next(false)
		if got.ID == last {
			streak++
		} else {
			streak = 1
			last = got.ID
		}
		require.LessOrEqual(t, streak, 2, "pick %d", i)
	}
}

func TestStreakForgivenessAfterLongIdle(t *testing.T) {
	s, now := testSelector([]string{"w0", "w1"}, 2*time.Second, 2)

	s.accounts[0].ConsecutiveUse = 2
	s.accounts[0].LastUsedAt = *now
	s.accounts[1].LastUsedAt = *now

	// Idle past 2x cooldown wipes the streak, so w0 is a candidate again.
	*now = now.Add(5 * time.Second)
	got := s.Next(false)
	assert.Equal(t, 1, got.ConsecutiveUse, "forgiven streak restarts at 1")
}

func TestFallbackToLRUWhenNoneEligible(t *testing.T) {
	s, now := testSelector([]string{"w0", "w1"}, 2*time.Second, 2)

	*now = now.Add(3 * time.Second)
	first := s.Next(false)
	*now = now.Add(100 * time.Millisecond)
	s.Next(false)

	// Both accounts are now inside the cooldown: the selector must fall
	// back to the least-recently-used one, which is the first pick.
	*now = now.Add(100 * time.Millisecond)
	got := s.Next(false)
	require.Equal(t, first.ID, got.ID, "LRU fallback should revisit the oldest account")
	assert.Equal(t, 1, got.ConsecutiveUse)
}

func TestWeightsFavorLongerIdle(t *testing.T) {
	s, now := testSelector([]string{"w0", "w1"}, 2*time.Second, 5)

	// Make w0 recently used and w1 long idle; over many draws w1 should
	// dominate.
	counts := map[string]int{}
	for i := 0; i < 400; i++ {
		s.accounts[0].LastUsedAt = now.Add(-2 * time.Second)
		s.accounts[1].LastUsedAt = now.Add(-20 * time.Second)
		s.accounts[0].ConsecutiveUse = 0
		s.accounts[1].ConsecutiveUse = 0
		counts[s.Next(false).ID]++
	}
	assert.Greater(t, counts["w1"], counts["w0"], "idle account should win more draws: %v", counts)
}

func TestPublicIDRejectsMalformedKeys(t *testing.T) {
	_, err := PublicID("not-base58-!!!")
	require.Error(t, err)

	// A valid base58 string of the wrong byte length is also rejected.
	_, err = PublicID("3yZe7d")
	require.Error(t, err)

	_, err = PublicIDs([]string{"bad key", "also bad"})
	require.Error(t, err, "all-invalid secret set must fail startup")
}

func TestPublicIDFromSeed(t *testing.T) {
	// "11111111111111111111111111111111" decodes to 32 zero bytes, a
	// valid ed25519 seed.
	id, err := PublicID("11111111111111111111111111111111")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}
