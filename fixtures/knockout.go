package fixtures

import (
	"context"
	"math/rand"
	"time"
)

type KnockoutGenerator struct{}

func NewKnockoutGenerator() PairingGenerator {
	return &KnockoutGenerator{}
}

func (g *KnockoutGenerator) Name() string {
	return "Knockout"
}

// GeneratePairings produces the opening round of a single-elimination
// bracket. The bracket size is the smallest power of two that fits the
// entrants; missing slots become BYEs, each paired against a distinct
// entrant so no BYE ever faces another BYE.
func (g *KnockoutGenerator) GeneratePairings(ctx context.Context, params GenerateParams) ([]Pairing, error) {
	n := len(params.EntryIDs)
	if n < 2 {
		return nil, ErrNotEnoughEntrants
	}

	order := make([]int, n)
	copy(order, params.EntryIDs)
	if !params.Seeded {
		rng := params.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		for i := n - 1; i > 0; i-- {
			j := rng.Intn(i + 1)
			order[i], order[j] = order[j], order[i]
		}
	}

	round := RoundOf(n)
	size := round.Slots()

	// The first contestedPairs pairs hold two entrants each; every entrant
	// after that gets a BYE slot of its own.
	contestedPairs := n - size/2

	slots := make([]*int, 0, size)
	for i := 0; i < 2*contestedPairs; i++ {
		slots = append(slots, &order[i])
	}
	for i := 2 * contestedPairs; i < n; i++ {
		slots = append(slots, &order[i], nil)
	}

	label := round.Label()
	pairings := make([]Pairing, 0, size/2)
	for i := 0; i < len(slots); i += 2 {
		pairings = append(pairings, Pairing{
			RoundLabel: label,
			Entry1ID:   slots[i],
			Entry2ID:   slots[i+1],
		})
	}
	return pairings, nil
}
