package settlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rongbachkim/lottery-bet-platform/internal/lottery"
)

var drawDay = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func northResult() *lottery.DrawResult {
	return &lottery.DrawResult{
		ID:       "res-1",
		DrawDate: drawDay,
		Region:   lottery.RegionNorth,
		Special:  "46935",
		First:    "69268",
		Second:   []string{"12345", "67890"},
		Third:    []string{"11123"},
		Fourth:   []string{"7767"},
		Fifth:    []string{"9901"},
		Sixth:    []string{"410"},
		Seventh:  []string{"07", "42"},
	}
}

func pendingBet(id, userID string, t lottery.BetType, numbers []string, stake int64, mult float64) *lottery.Bet {
	return &lottery.Bet{
		ID:         id,
		UserID:     userID,
		Type:       t,
		Numbers:    numbers,
		Stake:      stake,
		Multiplier: mult,
		Region:     lottery.RegionNorth,
		DrawDate:   drawDay,
		Status:     lottery.StatusPending,
	}
}

func TestSettleFullBatch(t *testing.T) {
	store := NewMemoryStore()
	store.AddResult(northResult())

	// Endings of the draw include 35, 68, 45, 90, 23, 67, 01, 10, 07, 42.
	store.SetBalance("alice", 50000)
	store.SetBalance("bob", 0)
	store.SetBalance("carol", 10000)

	// lo with 2 of 3 picks hitting: pays per match
	store.AddBet(pendingBet("b-lo", "alice", lottery.BetLo, []string{"23", "45", "99"}, 10000, 99.5))
	// de hitting the special's exact ending
	store.AddBet(pendingBet("b-de", "bob", lottery.BetDe, []string{"35"}, 10000, 80))
	// xien2 with only one pick hitting: lost
	store.AddBet(pendingBet("b-xien", "carol", lottery.BetXien2, []string{"23", "99"}, 20000, 17))

	engine := New(zap.NewNop(), store)
	rep, err := engine.Settle(context.Background(), drawDay, lottery.RegionNorth)
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Winners)
	assert.Equal(t, 1, rep.Losers)
	assert.Zero(t, rep.Skipped)
	assert.False(t, rep.NoResult)
	assert.Equal(t, int64(1990000+800000), rep.TotalPayout)

	lo := store.Bet("b-lo")
	assert.Equal(t, lottery.StatusWon, lo.Status)
	assert.Equal(t, int64(1990000), lo.Payout) // 10000 x 99.5 x 2 matches
	require.NotNil(t, lo.SettledAt)
	assert.Equal(t, int64(50000+1990000), store.Balance("alice"))

	de := store.Bet("b-de")
	assert.Equal(t, lottery.StatusWon, de.Status)
	assert.Equal(t, int64(800000), de.Payout)
	assert.Equal(t, int64(800000), store.Balance("bob"))

	xien := store.Bet("b-xien")
	assert.Equal(t, lottery.StatusLost, xien.Status)
	assert.Zero(t, xien.Payout)
	require.NotNil(t, xien.SettledAt)
	assert.Equal(t, int64(10000), store.Balance("carol"), "losses never touch the balance")

	// Every credit left an audit record.
	trail := store.Trail()
	require.Len(t, trail, 2)
	for _, tx := range trail {
		assert.Equal(t, "bet_winning", tx.Type)
	}
}

func TestSettleIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	store.AddResult(northResult())
	store.SetBalance("alice", 0)
	store.AddBet(pendingBet("b-de", "alice", lottery.BetDe, []string{"35"}, 10000, 80))

	engine := New(zap.NewNop(), store)
	ctx := context.Background()

	_, err := engine.Settle(ctx, drawDay, lottery.RegionNorth)
	require.NoError(t, err)
	require.Equal(t, int64(800000), store.Balance("alice"))

	// Duplicate trigger for the same slot: no double credit, no new records.
	rep, err := engine.Settle(ctx, drawDay, lottery.RegionNorth)
	require.NoError(t, err)
	assert.Zero(t, rep.Winners)
	assert.Zero(t, rep.Losers)
	assert.Equal(t, int64(800000), store.Balance("alice"))
	assert.Len(t, store.Trail(), 1)
}

func TestSettleMissingResult(t *testing.T) {
	store := NewMemoryStore()
	store.AddBet(pendingBet("b-1", "alice", lottery.BetDe, []string{"35"}, 10000, 80))

	engine := New(zap.NewNop(), store)
	rep, err := engine.Settle(context.Background(), drawDay, lottery.RegionNorth)

	require.NoError(t, err, "a missing result is reported, not raised")
	assert.True(t, rep.NoResult)
	assert.Equal(t, lottery.StatusPending, store.Bet("b-1").Status)
}

func TestSettleLeavesOtherSlotsAlone(t *testing.T) {
	store := NewMemoryStore()
	store.AddResult(northResult())

	otherDay := pendingBet("b-tomorrow", "alice", lottery.BetDe, []string{"35"}, 10000, 80)
	otherDay.DrawDate = drawDay.AddDate(0, 0, 1)
	store.AddBet(otherDay)

	otherRegion := pendingBet("b-south", "alice", lottery.BetDe, []string{"35"}, 10000, 80)
	otherRegion.Region = lottery.RegionSouth
	store.AddBet(otherRegion)

	engine := New(zap.NewNop(), store)
	rep, err := engine.Settle(context.Background(), drawDay, lottery.RegionNorth)
	require.NoError(t, err)

	assert.Zero(t, rep.Winners+rep.Losers)
	assert.Equal(t, lottery.StatusPending, store.Bet("b-tomorrow").Status)
	assert.Equal(t, lottery.StatusPending, store.Bet("b-south").Status)
}

func TestSettlePartialFailureRetries(t *testing.T) {
	store := NewMemoryStore()
	store.AddResult(northResult())
	store.SetBalance("alice", 0)
	store.SetBalance("bob", 0)

	store.AddBet(pendingBet("b-ok", "alice", lottery.BetDe, []string{"35"}, 10000, 80))
	store.AddBet(pendingBet("b-fail", "bob", lottery.BetLo, []string{"23"}, 10000, 99.5))
	store.FailCredit = map[string]error{"b-fail": errors.New("connection reset")}

	engine := New(zap.NewNop(), store)
	ctx := context.Background()

	rep, err := engine.Settle(ctx, drawDay, lottery.RegionNorth)
	require.NoError(t, err, "wager-level failures never abort the batch")
	assert.Equal(t, 1, rep.Winners)
	assert.Equal(t, 1, rep.Skipped)

	// The failed wager is untouched and still eligible.
	assert.Equal(t, lottery.StatusPending, store.Bet("b-fail").Status)
	assert.Zero(t, store.Balance("bob"))

	// Next run picks it up without re-crediting the first winner.
	store.FailCredit = nil
	rep, err = engine.Settle(ctx, drawDay, lottery.RegionNorth)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Winners)
	assert.Zero(t, rep.Skipped)

	assert.Equal(t, lottery.StatusWon, store.Bet("b-fail").Status)
	assert.Equal(t, int64(995000), store.Balance("bob"))
	assert.Equal(t, int64(800000), store.Balance("alice"))
	assert.Len(t, store.Trail(), 2)
}

func TestSettleUsesSnapshotMultiplier(t *testing.T) {
	// The engine never consults current rates: two bets on the same number
	// with different placement-time multipliers pay differently.
	store := NewMemoryStore()
	store.AddResult(northResult())
	store.SetBalance("alice", 0)
	store.SetBalance("bob", 0)

	store.AddBet(pendingBet("b-old", "alice", lottery.BetDe, []string{"35"}, 10000, 80))
	store.AddBet(pendingBet("b-new", "bob", lottery.BetDe, []string{"35"}, 10000, 99))

	engine := New(zap.NewNop(), store)
	_, err := engine.Settle(context.Background(), drawDay, lottery.RegionNorth)
	require.NoError(t, err)

	assert.Equal(t, int64(800000), store.Bet("b-old").Payout)
	assert.Equal(t, int64(990000), store.Bet("b-new").Payout)
}
