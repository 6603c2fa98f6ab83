package events

type WagerPlaced struct {
	WagerID         string  `json:"wager_id"`
	ParticipantID   string  `json:"participant_id"`
	FixtureKey      string  `json:"fixture_key"`
	EventLabel      string  `json:"event_label"`
	League          string  `json:"league"`
	SelectedOutcome string  `json:"selected_outcome"`
	StakeAmount     int64   `json:"stake_amount"`
	PriceMultiplier float64 `json:"price_multiplier"`
	TsUnixMs        int64   `json:"ts_unix_ms"`
}
