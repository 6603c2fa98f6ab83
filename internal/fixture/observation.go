package fixture

import "time"

// Status normalizado de uma partida reportada pelo feed externo.
const (
	StatusScheduled  = "SCHEDULED"
	StatusInProgress = "IN_PROGRESS"
	StatusFinished   = "FINISHED"
)

// Observation é o registro efêmero de uma partida vindo do feed de resultados.
// Scores são ponteiros porque o feed pode não ter placar ainda.
type Observation struct {
	League    string
	Home      string
	Away      string
	HomeScore *int
	AwayScore *int
	Status    string
	StartTime time.Time
}

// Finished indica se a observação tem tudo que a liquidação precisa:
// partida encerrada e ambos os placares presentes.
func (o Observation) Finished() bool {
	return o.Status == StatusFinished && o.HomeScore != nil && o.AwayScore != nil
}
