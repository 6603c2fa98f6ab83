package dto

import "time"

type PlaceWagerRequest struct {
	ParticipantID   string     `json:"participantId"`
	EventLabel      string     `json:"eventLabel"` // "<TeamA> vs <TeamB>"
	League          string     `json:"league"`
	SelectedOutcome string     `json:"selectedOutcome"` // label de um time ou "Draw"
	PriceMultiplier float64    `json:"price_multiplier"`
	StakeAmount     int64      `json:"stake_amount"`
	ScheduledStart  *time.Time `json:"scheduledStart,omitempty"`
}
