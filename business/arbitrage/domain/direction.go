package domain

// Direction names the buy and sell legs of a two-venue route.
type Direction struct {
	Buy  string
	Sell string
}

// String returns a human-readable description of the direction.
func (d Direction) String() string {
	if d.Buy == "" && d.Sell == "" {
		return "Unknown"
	}
	return "Buy on " + d.Buy + ", sell on " + d.Sell
}
