package events

type BetPlaced struct {
	BetID      string   `json:"bet_id"`
	UserID     string   `json:"user_id"`
	Type       string   `json:"type"` // "lo" | "de" | "3cang" | "lo_xien_2/3/4"
	Numbers    []string `json:"numbers"`
	Stake      int64    `json:"stake"`
	Multiplier float64  `json:"multiplier"` // rate snapshotted at placement
	Region     string   `json:"region"`
	DrawDate   string   `json:"draw_date"` // "2006-01-02"
	TsUnixMs   int64    `json:"ts_unix_ms"`
}
