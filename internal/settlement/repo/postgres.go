package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rongbachkim/lottery-bet-platform/internal/lottery"
	"github.com/rongbachkim/lottery-bet-platform/internal/settlement"
	walletrepo "github.com/rongbachkim/lottery-bet-platform/internal/wallet/repo"
)

// Postgres implements settlement.Store against the database.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// ResultFor loads the draw result for the day and region.
func (p *Postgres) ResultFor(ctx context.Context, day time.Time, region lottery.Region) (*lottery.DrawResult, error) {
	var r lottery.DrawResult
	var second, third, fourth, fifth, sixth, seventh []byte

	err := p.db.QueryRowContext(ctx, `
		SELECT id, draw_date, region, special, first, second, third, fourth, fifth, sixth, seventh, created_at
		FROM lottery_results WHERE draw_date=$1 AND region=$2`,
		lottery.Day(day), string(region)).Scan(
		&r.ID, &r.DrawDate, &r.Region, &r.Special, &r.First,
		&second, &third, &fourth, &fifth, &sixth, &seventh, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, settlement.ErrNoResult
	} else if err != nil {
		return nil, err
	}

	tiers := []struct {
		raw []byte
		dst *[]string
	}{
		{second, &r.Second}, {third, &r.Third}, {fourth, &r.Fourth},
		{fifth, &r.Fifth}, {sixth, &r.Sixth}, {seventh, &r.Seventh},
	}
	for _, t := range tiers {
		if err := json.Unmarshal(t.raw, t.dst); err != nil {
			return nil, err
		}
	}

	return &r, nil
}

// PendingBets loads pending wagers for the day and region.
func (p *Postgres) PendingBets(ctx context.Context, day time.Time, region lottery.Region) ([]lottery.Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, type, numbers, stake, multiplier, region, draw_date, status, created_at
		FROM bets WHERE draw_date=$1 AND region=$2 AND status='pending'
		ORDER BY created_at`,
		lottery.Day(day), string(region))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []lottery.Bet
	for rows.Next() {
		var b lottery.Bet
		var numbers []byte
		if err := rows.Scan(&b.ID, &b.UserID, &b.Type, &numbers, &b.Stake,
			&b.Multiplier, &b.Region, &b.DrawDate, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(numbers, &b.Numbers); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SettleWon marks the bet won and credits the payout in one transaction.
// The status guard makes a re-run a no-op: zero rows updated means another
// invocation already settled this bet, and no credit happens.
func (p *Postgres) SettleWon(ctx context.Context, betID, userID string, payout int64) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE bets SET status='won', payout=$2, settled_at=NOW()
		WHERE id=$1 AND status='pending'`, betID, payout)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return nil // already settled by an earlier run
	}

	if _, err := walletrepo.ApplyDeltaTx(ctx, tx, userID, payout, walletrepo.TxBetWinning, betID); err != nil {
		return err
	}

	return tx.Commit()
}

// SettleLost flips a pending bet to lost. Guarded the same way as SettleWon.
func (p *Postgres) SettleLost(ctx context.Context, betID string) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE bets SET status='lost', payout=0, settled_at=NOW()
		WHERE id=$1 AND status='pending'`, betID)
	return err
}
