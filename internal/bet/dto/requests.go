package dto

type PlaceBetRequest struct {
	UserID   string   `json:"userId"`
	Type     string   `json:"type"` // "lo" | "de" | "3cang" | "lo_xien_2/3/4"
	Numbers  []string `json:"numbers"`
	Stake    int64    `json:"stake"` // VND
	Region   string   `json:"region"`
	DrawDate string   `json:"draw_date"` // "2006-01-02"
}

type UpdateSettingRequest struct {
	Value       interface{} `json:"value"`
	Description string      `json:"description,omitempty"`
}
