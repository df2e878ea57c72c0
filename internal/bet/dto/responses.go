package dto

import "time"

type PlaceBetResponse struct {
	BetID      string  `json:"betId"`
	Status     string  `json:"status"` // pending
	Multiplier float64 `json:"multiplier"`
	Message    string  `json:"message,omitempty"`
}

type BetResponse struct {
	BetID      string     `json:"betId"`
	UserID     string     `json:"userId"`
	Type       string     `json:"type"`
	Numbers    []string   `json:"numbers"`
	Stake      int64      `json:"stake"`
	Multiplier float64    `json:"multiplier"`
	Region     string     `json:"region"`
	DrawDate   string     `json:"draw_date"`
	Status     string     `json:"status"`
	Payout     int64      `json:"payout"`
	CreatedAt  time.Time  `json:"createdAt"`
	SettledAt  *time.Time `json:"settledAt,omitempty"`
}

type PublicSettingsResponse struct {
	BettingRates map[string]float64 `json:"bettingRates"`
	MinBetAmount int64              `json:"minBetAmount"`
	MaxBetAmount int64              `json:"maxBetAmount"`
}
