package fixtures

import (
	"context"
	"errors"
	"math/rand"

	"github.com/Dosada05/fixture-engine/models"
)

var (
	ErrNotEnoughEntrants = errors.New("at least two entrants are required to generate pairings")
	ErrNoCourts          = errors.New("no courts available for scheduling")
	ErrNoUmpires         = errors.New("no umpires available for scheduling")
	ErrInvalidDuration   = errors.New("match duration must be positive")
)

// Pairing is one raw entrant-vs-entrant pair produced by a generator, tagged
// with the round it belongs to. A nil side marks a BYE.
type Pairing struct {
	RoundLabel string
	Entry1ID   *int
	Entry2ID   *int
}

func (p Pairing) IsBye() bool {
	return p.Entry1ID == nil || p.Entry2ID == nil
}

type GenerateParams struct {
	EntryIDs []int
	// Seeded keeps the input order for bracket placement. When false the
	// draw is randomized with Rand.
	Seeded bool
	// Rand drives the unseeded draw. A fixed-seed source makes the draw
	// reproducible; nil falls back to an unpredictable draw.
	Rand *rand.Rand
}

type PairingGenerator interface {
	GeneratePairings(ctx context.Context, params GenerateParams) ([]Pairing, error)

	Name() string
}

// NewGenerator returns the pairing generator for a tournament format.
func NewGenerator(format models.TournamentFormat) (PairingGenerator, bool) {
	switch format {
	case models.FormatKnockout:
		return NewKnockoutGenerator(), true
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), true
	case models.FormatDoubleElimination:
		return NewDoubleEliminationGenerator(), true
	}
	return nil, false
}
