package rates

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Setting is one admin-configurable row.
type Setting struct {
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	Description string          `json:"description,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Setting loads one settings row uncached (admin reads see fresh values).
func (r *Resolver) Setting(ctx context.Context, key string) (*Setting, error) {
	var s Setting
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT key, value, description, updated_at FROM settings WHERE key=$1`, key).
		Scan(&s.Key, &s.Value, &desc, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Description = desc.String
	return &s, nil
}

// All lists every settings row.
func (r *Resolver) All(ctx context.Context) ([]Setting, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value, description, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var s Setting
		var desc sql.NullString
		if err := rows.Scan(&s.Key, &s.Value, &desc, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Description = desc.String
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update upserts a settings row and drops the cache entry. Applies only to
// bets placed afterwards; outstanding wagers keep their snapshot.
func (r *Resolver) Update(ctx context.Context, key string, value json.RawMessage, description string) (*Setting, error) {
	var s Setting
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO settings (key, value, description, updated_at)
		VALUES ($1,$2,$3,NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			description = COALESCE(NULLIF(EXCLUDED.description, ''), settings.description),
			updated_at = NOW()
		RETURNING key, value, description, updated_at`,
		key, []byte(value), description).
		Scan(&s.Key, &s.Value, &desc, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Description = desc.String

	if r.rdb != nil {
		_ = r.rdb.Del(ctx, cacheKey(key)).Err()
	}
	return &s, nil
}
