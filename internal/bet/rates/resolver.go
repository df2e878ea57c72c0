package rates

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rongbachkim/lottery-bet-platform/internal/lottery"
)

// Settings keys. Admin-writable; bets snapshot their multiplier at placement
// so changes never touch outstanding wagers.
const (
	KeyRates  = "betting_rates"
	KeyMinBet = "min_bet_amount"
	KeyMaxBet = "max_bet_amount"
)

// Defaults applied when a settings row was never written.
var defaultRates = map[lottery.BetType]float64{
	lottery.BetLo:    99.5,
	lottery.BetDe:    99,
	lottery.Bet3Cang: 700,
	lottery.BetXien2: 17,
	lottery.BetXien3: 70,
	lottery.BetXien4: 150,
}

const (
	defaultMinBet int64 = 10000
	defaultMaxBet int64 = 10000000
)

// Limits bounds a single stake, in VND.
type Limits struct {
	Min int64
	Max int64
}

// Resolver reads payout rates and stake bounds: Postgres is the source of
// truth, Redis a read-through cache with a short TTL. A nil Redis client
// disables caching.
type Resolver struct {
	db  *sql.DB
	rdb *redis.Client
	ttl time.Duration
}

func New(db *sql.DB, rdb *redis.Client, ttl time.Duration) *Resolver {
	return &Resolver{db: db, rdb: rdb, ttl: ttl}
}

func cacheKey(key string) string { return "settings:" + key }

// value returns the raw jsonb for a settings key, nil when the row does not
// exist. Cache errors fall through to the database.
func (r *Resolver) value(ctx context.Context, key string) ([]byte, error) {
	if r.rdb != nil {
		if b, err := r.rdb.Get(ctx, cacheKey(key)).Bytes(); err == nil {
			return b, nil
		}
	}

	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key=$1`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	if r.rdb != nil {
		_ = r.rdb.Set(ctx, cacheKey(key), raw, r.ttl).Err()
	}
	return raw, nil
}

// Rates returns the current payout multiplier per bet type.
func (r *Resolver) Rates(ctx context.Context) (map[lottery.BetType]float64, error) {
	raw, err := r.value(ctx, KeyRates)
	if err != nil {
		return nil, err
	}

	out := make(map[lottery.BetType]float64, len(defaultRates))
	for t, v := range defaultRates {
		out[t] = v
	}
	if raw != nil {
		var stored map[lottery.BetType]float64
		if err := json.Unmarshal(raw, &stored); err != nil {
			return nil, err
		}
		for t, v := range stored {
			out[t] = v
		}
	}
	return out, nil
}

// Multiplier returns the current rate for one bet type.
func (r *Resolver) Multiplier(ctx context.Context, t lottery.BetType) (float64, error) {
	all, err := r.Rates(ctx)
	if err != nil {
		return 0, err
	}
	m, ok := all[t]
	if !ok {
		return 0, lottery.ErrInvalidBetType
	}
	return m, nil
}

// CurrentLimits returns the stake bounds.
func (r *Resolver) CurrentLimits(ctx context.Context) (Limits, error) {
	l := Limits{Min: defaultMinBet, Max: defaultMaxBet}

	if raw, err := r.value(ctx, KeyMinBet); err != nil {
		return Limits{}, err
	} else if raw != nil {
		if err := json.Unmarshal(raw, &l.Min); err != nil {
			return Limits{}, err
		}
	}

	if raw, err := r.value(ctx, KeyMaxBet); err != nil {
		return Limits{}, err
	} else if raw != nil {
		if err := json.Unmarshal(raw, &l.Max); err != nil {
			return Limits{}, err
		}
	}

	return l, nil
}
