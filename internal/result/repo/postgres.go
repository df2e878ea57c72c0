package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rongbachkim/lottery-bet-platform/internal/lottery"
)

// ErrDuplicate means a result already exists for the (day, region) slot.
// Results are immutable; there is no correction path once settlement may
// have run.
var ErrDuplicate = errors.New("result already recorded for date/region")

// Postgres persists official draw results.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Insert stores a new draw result. The unique (draw_date, region) index
// rejects re-submission of an existing slot.
func (p *Postgres) Insert(ctx context.Context, r *lottery.DrawResult) (string, error) {
	tiers := make([][]byte, 6)
	for i, t := range [][]string{r.Second, r.Third, r.Fourth, r.Fifth, r.Sixth, r.Seventh} {
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		tiers[i] = b
	}

	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO lottery_results (id, draw_date, region, special, first, second, third, fourth, fifth, sixth, seventh, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW())`,
		id, lottery.Day(r.DrawDate), string(r.Region), r.Special, r.First,
		tiers[0], tiers[1], tiers[2], tiers[3], tiers[4], tiers[5])
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return "", ErrDuplicate
		}
		return "", err
	}
	return id, nil
}

// Latest returns the most recent results for a region, newest first.
func (p *Postgres) Latest(ctx context.Context, region lottery.Region, limit int) ([]lottery.DrawResult, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, draw_date, region, special, first, second, third, fourth, fifth, sixth, seventh, created_at
		FROM lottery_results WHERE region=$1 ORDER BY draw_date DESC LIMIT $2`,
		string(region), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResults(rows)
}

// ByDate returns every region's result for a calendar day.
func (p *Postgres) ByDate(ctx context.Context, day time.Time) ([]lottery.DrawResult, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, draw_date, region, special, first, second, third, fourth, fifth, sixth, seventh, created_at
		FROM lottery_results WHERE draw_date=$1 ORDER BY region`,
		lottery.Day(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]lottery.DrawResult, error) {
	var out []lottery.DrawResult
	for rows.Next() {
		var r lottery.DrawResult
		var second, third, fourth, fifth, sixth, seventh []byte
		if err := rows.Scan(&r.ID, &r.DrawDate, &r.Region, &r.Special, &r.First,
			&second, &third, &fourth, &fifth, &sixth, &seventh, &r.CreatedAt); err != nil {
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
		out = append(out, r)
	}
	return out, rows.Err()
}
