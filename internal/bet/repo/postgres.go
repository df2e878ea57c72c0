package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/rongbachkim/lottery-bet-platform/internal/lottery"
	walletrepo "github.com/rongbachkim/lottery-bet-platform/internal/wallet/repo"
)

// Postgres persists wagers.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Place deducts the stake through the ledger and inserts the pending bet in
// one transaction. Nothing is written when the balance is insufficient
// (walletrepo.ErrInsufficientFunds).
func (p *Postgres) Place(ctx context.Context, b *lottery.Bet) (string, error) {
	numbers, err := json.Marshal(b.Numbers)
	if err != nil {
		return "", err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	id := uuid.NewString()
	if _, err := walletrepo.ApplyDeltaTx(ctx, tx, b.UserID, -b.Stake, walletrepo.TxBetStake, id); err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO bets (id, user_id, type, numbers, stake, multiplier, region, draw_date, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,'pending',NOW())`,
		id, b.UserID, string(b.Type), numbers, b.Stake, b.Multiplier,
		string(b.Region), lottery.Day(b.DrawDate)); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// Get returns one bet by id.
func (p *Postgres) Get(ctx context.Context, betID string) (*lottery.Bet, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, user_id, type, numbers, stake, multiplier, region, draw_date, status,
		       COALESCE(payout, 0), created_at, settled_at
		FROM bets WHERE id=$1`, betID)
	return scanBet(row)
}

// ByUser lists a user's bets, newest first.
func (p *Postgres) ByUser(ctx context.Context, userID string) ([]lottery.Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, type, numbers, stake, multiplier, region, draw_date, status,
		       COALESCE(payout, 0), created_at, settled_at
		FROM bets WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []lottery.Bet
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBet(s scanner) (*lottery.Bet, error) {
	var b lottery.Bet
	var numbers []byte
	var settled sql.NullTime
	if err := s.Scan(&b.ID, &b.UserID, &b.Type, &numbers, &b.Stake, &b.Multiplier,
		&b.Region, &b.DrawDate, &b.Status, &b.Payout, &b.CreatedAt, &settled); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(numbers, &b.Numbers); err != nil {
		return nil, err
	}
	if settled.Valid {
		b.SettledAt = &settled.Time
	}
	return &b, nil
}
