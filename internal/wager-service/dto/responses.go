package dto

type PlaceWagerResponse struct {
	WagerID    string `json:"wagerId"`
	FixtureKey string `json:"fixtureKey"`
	Status     string `json:"status"` // OPEN
	NewBalance int64  `json:"new_balance"`
}

type WagerStatusResponse struct {
	WagerID string `json:"wagerId"`
	Status  string `json:"status"`
}

type AccountResponse struct {
	ParticipantID string `json:"participantId"`
	Balance       int64  `json:"balance"`
}
