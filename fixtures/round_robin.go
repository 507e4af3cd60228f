package fixtures

import (
	"context"
	"fmt"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() PairingGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// GeneratePairings schedules every unordered pair of entrants exactly once
// using the circle method: position zero stays fixed while the remaining
// positions rotate by one between rounds. An odd entrant count gets a virtual
// BYE appended, so the rotation always runs over an even wheel.
func (g *RoundRobinGenerator) GeneratePairings(ctx context.Context, params GenerateParams) ([]Pairing, error) {
	n := len(params.EntryIDs)
	if n < 2 {
		return nil, ErrNotEnoughEntrants
	}

	wheel := make([]*int, 0, n+1)
	for i := range params.EntryIDs {
		wheel = append(wheel, &params.EntryIDs[i])
	}
	if len(wheel)%2 != 0 {
		wheel = append(wheel, nil)
	}

	m := len(wheel)
	rounds := m - 1

	pairings := make([]Pairing, 0, rounds*m/2)
	for r := 0; r < rounds; r++ {
		label := fmt.Sprintf("Round %d", r+1)
		for i := 0; i < m/2; i++ {
			a := wheel[i]
			b := wheel[m-1-i]
			if a == nil && b == nil {
				continue
			}
			pairings = append(pairings, Pairing{
				RoundLabel: label,
				Entry1ID:   a,
				Entry2ID:   b,
			})
		}

		// Rotate everything but the fixed first position.
		last := wheel[m-1]
		copy(wheel[2:], wheel[1:m-1])
		wheel[1] = last
	}
	return pairings, nil
}
