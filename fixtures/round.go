package fixtures

import "fmt"

// Round identifies a knockout round by the number of bracket slots it holds.
// Advancement logic compares slot counts; the display label is derived, never
// the other way around.
type Round int

const (
	RoundFinal         Round = 2
	RoundSemifinals    Round = 4
	RoundQuarterfinals Round = 8
)

// RoundOf returns the round that fits n entrants, i.e. the smallest power of
// two greater than or equal to n.
func RoundOf(n int) Round {
	size := 1
	for size < n {
		size <<= 1
	}
	return Round(size)
}

func (r Round) Slots() int {
	return int(r)
}

// Label yields the display name persisted on match rows.
func (r Round) Label() string {
	switch r {
	case RoundFinal:
		return "Final"
	case RoundSemifinals:
		return "Semifinals"
	case RoundQuarterfinals:
		return "Quarterfinals"
	case 16:
		return "Round of 16"
	default:
		return fmt.Sprintf("Round of %d", int(r))
	}
}

// LabelForWinners names the round that a given number of advancing winners
// will play. Deriving the name from the count alone keeps naming correct even
// when BYEs have shrunk a round unevenly.
func LabelForWinners(count int) string {
	return Round(count).Label()
}
