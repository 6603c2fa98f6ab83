package events

import "time"

// Evento emitido pelo settlement-worker para cada aposta liquidada.
type WagerSettled struct {
	WagerID       string    `json:"wager_id"`
	ParticipantID string    `json:"participant_id"`
	FixtureKey    string    `json:"fixture_key"`
	Status        string    `json:"status"` // "WON" | "LOST" | "REFUNDED"
	Payout        int64     `json:"payout,omitempty"`
	Ts            time.Time `json:"ts"`
}

// Evento emitido uma vez por fixture encerrada com apostas liquidadas.
type FixtureSettled struct {
	FixtureKey    string    `json:"fixture_key"`
	EventLabel    string    `json:"event_label"`
	HomeScore     int       `json:"home_score"`
	AwayScore     int       `json:"away_score"`
	Result        string    `json:"result"` // label vencedor ou "DRAW"
	WagersSettled int       `json:"wagers_settled"`
	Winners       int       `json:"winners"`
	Ts            time.Time `json:"ts"`
}
