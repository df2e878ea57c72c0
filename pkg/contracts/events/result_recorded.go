package events

import "time"

// Event published by result-service after a new official draw is stored.
// The settlement worker consumes it to settle that day's pending bets.
type ResultRecorded struct {
	ResultID string    `json:"result_id"`
	DrawDate string    `json:"draw_date"` // "2006-01-02"
	Region   string    `json:"region"`    // "north" | "central" | "south"
	Ts       time.Time `json:"ts"`
}
