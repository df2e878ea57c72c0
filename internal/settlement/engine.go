package settlement

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rongbachkim/lottery-bet-platform/internal/lottery"
)

// ErrNoResult is returned by a Store when no draw result exists for the
// requested (day, region).
var ErrNoResult = errors.New("no draw result for date/region")

// Store is the storage capability the engine needs. Two implementations
// exist: Postgres for production and an in-memory one for tests; the
// evaluation rules live outside both.
type Store interface {
	// ResultFor loads the draw result for the calendar day and region.
	ResultFor(ctx context.Context, day time.Time, region lottery.Region) (*lottery.DrawResult, error)
	// PendingBets loads every pending wager whose draw date falls on the day.
	PendingBets(ctx context.Context, day time.Time, region lottery.Region) ([]lottery.Bet, error)
	// SettleWon transitions a pending bet to won, credits the payout to the
	// user and records the bet_winning transaction, atomically. A bet that is
	// no longer pending must be left untouched (no double credit).
	SettleWon(ctx context.Context, betID, userID string, payout int64) error
	// SettleLost transitions a pending bet to lost with zero payout.
	SettleLost(ctx context.Context, betID string) error
}

// Report summarizes one settlement run.
type Report struct {
	Winners     int
	Losers      int
	Skipped     int // wagers left pending after storage errors, retried next run
	TotalPayout int64
	NoResult    bool
}

// Engine settles all pending wagers for a draw. Safe to re-run: wagers
// already won or lost are skipped by the store's guarded transitions, and
// wagers whose settlement failed stay pending for the next invocation.
type Engine struct {
	log   *zap.Logger
	store Store
}

func New(log *zap.Logger, store Store) *Engine {
	return &Engine{log: log, store: store}
}

// Settle runs settlement for the (day, region) slot. A missing result aborts
// before any mutation and is reported, not raised: the trigger may have
// outrun the result insert and the slot is simply retried later.
func (e *Engine) Settle(ctx context.Context, day time.Time, region lottery.Region) (Report, error) {
	day = lottery.Day(day)

	result, err := e.store.ResultFor(ctx, day, region)
	if errors.Is(err, ErrNoResult) {
		e.log.Warn("settle: no result recorded, leaving bets pending",
			zap.Time("day", day), zap.String("region", string(region)))
		return Report{NoResult: true}, nil
	}
	if err != nil {
		return Report{}, err
	}

	bets, err := e.store.PendingBets(ctx, day, region)
	if err != nil {
		return Report{}, err
	}

	// Endings are derived once per draw, not per bet.
	endings := lottery.ExtractEndings(result)

	var rep Report
	for i := range bets {
		bet := &bets[i]
		if bet.Status != lottery.StatusPending {
			continue
		}

		out := lottery.Evaluate(bet, endings, result.Special)
		if out.Won {
			if err := e.store.SettleWon(ctx, bet.ID, bet.UserID, out.Payout); err != nil {
				// Leave this wager pending; the rest of the batch continues.
				e.log.Error("settle: credit failed, bet stays pending",
					zap.String("betId", bet.ID), zap.Error(err))
				rep.Skipped++
				continue
			}
			rep.Winners++
			rep.TotalPayout += out.Payout
		} else {
			if err := e.store.SettleLost(ctx, bet.ID); err != nil {
				e.log.Error("settle: loss transition failed, bet stays pending",
					zap.String("betId", bet.ID), zap.Error(err))
				rep.Skipped++
				continue
			}
			rep.Losers++
		}
	}

	e.log.Info("settlement finished",
		zap.Time("day", day),
		zap.String("region", string(region)),
		zap.Int("winners", rep.Winners),
		zap.Int("losers", rep.Losers),
		zap.Int("skipped", rep.Skipped),
		zap.Int64("totalPayout", rep.TotalPayout),
	)
	return rep, nil
}
