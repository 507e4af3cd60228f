package fixtures

import "context"

// DoubleEliminationGenerator seeds only the initial winners bracket, which is
// identical to a knockout opening round. A losers bracket and grand-final
// reconciliation are intentionally not implemented; callers surface that as a
// warning rather than failing the run.
type DoubleEliminationGenerator struct {
	winners PairingGenerator
}

func NewDoubleEliminationGenerator() PairingGenerator {
	return &DoubleEliminationGenerator{winners: NewKnockoutGenerator()}
}

func (g *DoubleEliminationGenerator) Name() string {
	return "DoubleElimination"
}

func (g *DoubleEliminationGenerator) GeneratePairings(ctx context.Context, params GenerateParams) ([]Pairing, error) {
	return g.winners.GeneratePairings(ctx, params)
}
