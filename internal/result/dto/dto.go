package dto

import "time"

// RecordResultRequest is submitted by the crawler/admin tool once the
// official draw is known.
type RecordResultRequest struct {
	DrawDate string   `json:"draw_date"` // "2006-01-02"
	Region   string   `json:"region"`    // "north" | "central" | "south"
	Special  string   `json:"special"`
	First    string   `json:"first"`
	Second   []string `json:"second"`
	Third    []string `json:"third"`
	Fourth   []string `json:"fourth"`
	Fifth    []string `json:"fifth"`
	Sixth    []string `json:"sixth"`
	Seventh  []string `json:"seventh"`
}

type ResultResponse struct {
	ID        string    `json:"id"`
	DrawDate  string    `json:"draw_date"`
	Region    string    `json:"region"`
	Special   string    `json:"special"`
	First     string    `json:"first"`
	Second    []string  `json:"second"`
	Third     []string  `json:"third"`
	Fourth    []string  `json:"fourth"`
	Fifth     []string  `json:"fifth"`
	Sixth     []string  `json:"sixth"`
	Seventh   []string  `json:"seventh"`
	CreatedAt time.Time `json:"createdAt"`
}
