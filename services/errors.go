package services

import "errors"

// Expected failure modes, surfaced as sentinel errors so handlers can render
// a precise structured response instead of a generic 500.
var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrUnsupportedFormat  = errors.New("tournament format does not support this operation")

	// Validation failures.
	ErrNotEnoughEntries    = errors.New("not enough entries to generate fixtures")
	ErrTooManyEntries      = errors.New("entry count exceeds tournament capacity")
	ErrNoCourtsConfigured  = errors.New("no courts configured for this tournament")
	ErrNoUmpiresConfigured = errors.New("no umpires configured for this tournament")

	// Round progression failures.
	ErrRoundNotFound      = errors.New("round not found")
	ErrRoundIncomplete    = errors.New("round incomplete: every match needs a recorded winner")
	ErrTournamentComplete = errors.New("tournament already complete")

	// Result submission failures.
	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchAlreadyStarted  = errors.New("match already started")
	ErrMatchAlreadyComplete = errors.New("match already completed")
	ErrMatchCodeInvalid     = errors.New("match code is invalid")
	ErrMatchCodeUsed        = errors.New("match code has already been used")
	ErrWinnerNotInMatch     = errors.New("winner must be one of the match entries")
	ErrMatchIsBye           = errors.New("bye matches are decided automatically")
)
