package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obs(home, away string) Observation {
	return Observation{Home: home, Away: away}
}

func TestFindFixtureSameOrder(t *testing.T) {
	feed := []Observation{
		obs("Arsenal", "Chelsea"),
		obs("Liverpool", "Everton"),
	}

	got, err := FindFixture(feed, "Arsenal", "Chelsea")
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", got.Home)
}

func TestFindFixtureReversedOrder(t *testing.T) {
	feed := []Observation{obs("Chelsea", "Arsenal")}

	got, err := FindFixture(feed, "Arsenal", "Chelsea")
	require.NoError(t, err)
	assert.Equal(t, "Chelsea", got.Home)
}

func TestFindFixtureNormalizesNames(t *testing.T) {
	feed := []Observation{obs("Saint Etienne", "Olympique Lyon")}

	got, err := FindFixture(feed, "St. Etienne", "Olympique-Lyon")
	require.NoError(t, err)
	assert.Equal(t, "Saint Etienne", got.Home)
}

func TestFindFixtureNoMatch(t *testing.T) {
	feed := []Observation{obs("Liverpool", "Everton")}

	_, err := FindFixture(feed, "Arsenal", "Chelsea")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestFindFixtureAmbiguous(t *testing.T) {
	// mesmo par duas vezes no feed do dia: recusa, nunca chuta
	feed := []Observation{
		obs("Arsenal", "Chelsea"),
		obs("Chelsea", "Arsenal"),
	}

	_, err := FindFixture(feed, "Arsenal", "Chelsea")
	assert.ErrorIs(t, err, ErrAmbiguousMatch)
}
