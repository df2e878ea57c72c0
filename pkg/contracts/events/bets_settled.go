package events

import "time"

// Event emitted by the settlement worker after processing a draw.
type BetsSettled struct {
	DrawDate    string    `json:"draw_date"`
	Region      string    `json:"region"`
	Winners     int       `json:"winners"`
	Losers      int       `json:"losers"`
	Skipped     int       `json:"skipped,omitempty"` // left pending after storage errors
	TotalPayout int64     `json:"total_payout"`
	Ts          time.Time `json:"ts"`
}
