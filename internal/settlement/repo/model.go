package repo

import "time"

// Estados de uma aposta. OPEN é o único não-terminal: uma vez fora dele o
// status nunca muda de novo, e só a transição pra fora dele mexe em saldo.
const (
	StatusOpen     = "OPEN"
	StatusWon      = "WON"
	StatusLost     = "LOST"
	StatusRefunded = "REFUNDED"
)

// Wager é o modelo persistido no Postgres.
type Wager struct {
	ID              string
	FixtureKey      string
	ParticipantID   string
	EventLabel      string // forma livre "<TeamA> vs <TeamB>"
	League          string
	SelectedOutcome string // label de um dos times ou o literal "Draw"
	PriceMultiplier float64
	StakeAmount     int64
	Status          string
	ScheduledStart  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
