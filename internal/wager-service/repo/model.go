package repo

import "time"

// Wager é o modelo de colocação persistido no Postgres.
type Wager struct {
	ID              string
	FixtureKey      string
	ParticipantID   string
	EventLabel      string
	League          string
	SelectedOutcome string
	PriceMultiplier float64
	StakeAmount     int64
	Status          string
	ScheduledStart  *time.Time
}
