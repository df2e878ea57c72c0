package topics

const (
	// Results
	ResultRecorded = "result_recorded"

	// Bets
	BetPlaced   = "bet_placed"
	BetsSettled = "bets_settled"

	// DLQs
	ResultRecordedDLQ = "result_recorded_dlq"
)
