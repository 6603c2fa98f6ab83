package topics

const (
	// Wagers
	WagerPlaced  = "wager_placed"
	WagerSettled = "wager_settled"

	// Liquidação por evento (um por fixture encerrada)
	FixtureSettled = "fixture_settled"
)
