package fixture

import "errors"

// Marcadores de empate: ResultDraw é o resultado calculado, SelectionDraw é o
// literal gravado na aposta quando o participante apostou no empate.
const (
	ResultDraw    = "DRAW"
	SelectionDraw = "Draw"
)

var ErrNotFinished = errors.New("fixture not finished or scores missing")

// ResolveOutcome calcula o resultado de uma observação já casada com um grupo
// de apostas, devolvendo o label original (pré-normalização) do lado vencedor
// ou ResultDraw.
//
// O feed pode reportar os times na ordem invertida em relação ao label da
// aposta; o lado vencedor é mapeado de volta comparando o home normalizado do
// feed com o home da aposta. Errar esse mapeamento pagaria o lado errado, por
// isso o resolver se recusa a decidir sem partida encerrada e placar completo.
func ResolveOutcome(obs Observation, home, away string) (string, error) {
	if !obs.Finished() {
		return "", ErrNotFinished
	}

	homeScore := *obs.HomeScore
	awayScore := *obs.AwayScore

	if homeScore == awayScore {
		return ResultDraw, nil
	}

	sameOrder := Normalize(obs.Home) == Normalize(home)

	if homeScore > awayScore {
		if sameOrder {
			return home, nil
		}
		return away, nil
	}

	// awayScore > homeScore
	if sameOrder {
		return away, nil
	}
	return home, nil
}

// IsWinningSelection decide se a seleção da aposta ganhou dado o resultado.
func IsWinningSelection(selection, result string) bool {
	return selection == result || (result == ResultDraw && selection == SelectionDraw)
}
