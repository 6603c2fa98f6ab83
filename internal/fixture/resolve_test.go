package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func finished(home, away string, hs, as int) Observation {
	return Observation{
		Home:      home,
		Away:      away,
		HomeScore: intp(hs),
		AwayScore: intp(as),
		Status:    StatusFinished,
	}
}

func TestResolveOutcomeSameOrder(t *testing.T) {
	result, err := ResolveOutcome(finished("Arsenal", "Chelsea", 2, 0), "Arsenal", "Chelsea")
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", result)

	result, err = ResolveOutcome(finished("Arsenal", "Chelsea", 0, 2), "Arsenal", "Chelsea")
	require.NoError(t, err)
	assert.Equal(t, "Chelsea", result)
}

// O caso mais crítico do sistema: feed com os times na ordem trocada em
// relação ao label da aposta. Observação {home:"B", away:"A", 3-1} com labels
// (home="A", away="B") tem que dar "B", nunca "A".
func TestResolveOutcomeReversedOrder(t *testing.T) {
	result, err := ResolveOutcome(finished("B", "A", 3, 1), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, "B", result)

	result, err = ResolveOutcome(finished("B", "A", 1, 3), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, "A", result)
}

func TestResolveOutcomeDraw(t *testing.T) {
	result, err := ResolveOutcome(finished("Arsenal", "Chelsea", 1, 1), "Arsenal", "Chelsea")
	require.NoError(t, err)
	assert.Equal(t, ResultDraw, result)
}

func TestResolveOutcomeDeclinesUnfinished(t *testing.T) {
	o := finished("Arsenal", "Chelsea", 1, 0)
	o.Status = StatusInProgress
	_, err := ResolveOutcome(o, "Arsenal", "Chelsea")
	assert.ErrorIs(t, err, ErrNotFinished)
}

func TestResolveOutcomeDeclinesMissingScores(t *testing.T) {
	o := Observation{Home: "Arsenal", Away: "Chelsea", Status: StatusFinished, HomeScore: intp(1)}
	_, err := ResolveOutcome(o, "Arsenal", "Chelsea")
	assert.ErrorIs(t, err, ErrNotFinished)
}

func TestIsWinningSelection(t *testing.T) {
	assert.True(t, IsWinningSelection("Arsenal", "Arsenal"))
	assert.False(t, IsWinningSelection("Chelsea", "Arsenal"))
	assert.True(t, IsWinningSelection(SelectionDraw, ResultDraw))
	assert.False(t, IsWinningSelection("Arsenal", ResultDraw))
}
