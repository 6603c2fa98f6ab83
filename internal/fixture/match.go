package fixture

import "errors"

var (
	ErrNoMatch        = errors.New("no fixture observation matches the wager teams")
	ErrAmbiguousMatch = errors.New("more than one fixture observation matches the wager teams")
)

// FindFixture localiza a observação do feed correspondente ao par de times de
// um grupo de apostas. O nome livre da aposta não garante a ordem casa/fora do
// feed, então a comparação aceita o par nas duas ordens.
//
// Zero ou mais de um candidato é erro: ambiguidade nunca é chutada, o grupo
// fica pra próxima rodada.
func FindFixture(observations []Observation, home, away string) (Observation, error) {
	homeNorm := Normalize(home)
	awayNorm := Normalize(away)

	var found Observation
	matches := 0
	for _, obs := range observations {
		obsHome := Normalize(obs.Home)
		obsAway := Normalize(obs.Away)
		sameOrder := obsHome == homeNorm && obsAway == awayNorm
		reversed := obsHome == awayNorm && obsAway == homeNorm
		if sameOrder || reversed {
			found = obs
			matches++
		}
	}

	switch matches {
	case 0:
		return Observation{}, ErrNoMatch
	case 1:
		return found, nil
	default:
		return Observation{}, ErrAmbiguousMatch
	}
}
