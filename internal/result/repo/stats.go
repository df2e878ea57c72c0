package repo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rongbachkim/lottery-bet-platform/internal/lottery"
)

// NumberFrequency is how often a 2-digit ending has hit in a region.
type NumberFrequency struct {
	Number      string `json:"number"`
	Occurrences int    `json:"occurrences"`
}

// NumberAbsence is how many days since a 2-digit ending last hit ("lo gan").
type NumberAbsence struct {
	Number string `json:"number"`
	Days   int    `json:"days"`
}

// neverSeenDays is reported for numbers with no recorded hit at all.
const neverSeenDays = 100

// RecordStats stores the per-draw occurrence count of every 2-digit ending
// in the result. Re-recording the same draw overwrites, keeping the rows in
// step with the immutable result.
func (p *Postgres) RecordStats(ctx context.Context, r *lottery.DrawResult) error {
	counts := make(map[string]int)
	for _, prize := range r.Prizes() {
		if len(prize) < 2 {
			continue
		}
		counts[prize[len(prize)-2:]]++
	}

	day := lottery.Day(r.DrawDate)
	for number, n := range counts {
		if _, err := p.db.ExecContext(ctx, `
			INSERT INTO number_stats (number, draw_date, region, occurrences)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (number, draw_date, region) DO UPDATE SET occurrences = EXCLUDED.occurrences`,
			number, day, string(r.Region), n); err != nil {
			return fmt.Errorf("record stat %s: %w", number, err)
		}
	}
	return nil
}

// MostFrequent returns the endings with the most total hits in a region.
func (p *Postgres) MostFrequent(ctx context.Context, region lottery.Region, limit int) ([]NumberFrequency, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT number, SUM(occurrences) AS total
		FROM number_stats WHERE region=$1
		GROUP BY number ORDER BY total DESC, number LIMIT $2`,
		string(region), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NumberFrequency
	for rows.Next() {
		var f NumberFrequency
		if err := rows.Scan(&f.Number, &f.Occurrences); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Absence returns the endings that have gone the longest without hitting,
// over all 100 possible 2-digit numbers.
func (p *Postgres) Absence(ctx context.Context, region lottery.Region, limit int) ([]NumberAbsence, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT number, MAX(draw_date) FROM number_stats
		WHERE region=$1 GROUP BY number`, string(region))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lastSeen := make(map[string]time.Time, 100)
	for rows.Next() {
		var number string
		var day time.Time
		if err := rows.Scan(&number, &day); err != nil {
			return nil, err
		}
		lastSeen[number] = day
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	today := lottery.Day(time.Now())
	out := make([]NumberAbsence, 0, 100)
	for i := 0; i <= 99; i++ {
		number := fmt.Sprintf("%02d", i)
		days := neverSeenDays
		if day, ok := lastSeen[number]; ok {
			days = int(today.Sub(lottery.Day(day)).Hours() / 24)
		}
		out = append(out, NumberAbsence{Number: number, Days: days})
	}

	// Longest absent first
	sort.Slice(out, func(i, j int) bool {
		if out[i].Days != out[j].Days {
			return out[i].Days > out[j].Days
		}
		return out[i].Number < out[j].Number
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
