package models

import "time"

// TournamentFormat mirrors the format ENUM in the database.
type TournamentFormat string

const (
	FormatKnockout          TournamentFormat = "knockout"
	FormatRoundRobin        TournamentFormat = "round_robin"
	FormatDoubleElimination TournamentFormat = "double_elimination"
)

type TournamentStatus string

const (
	TournamentStatusRegistration TournamentStatus = "registration"
	TournamentStatusActive       TournamentStatus = "active"
	TournamentStatusCompleted    TournamentStatus = "completed"
	TournamentStatusCanceled     TournamentStatus = "canceled"
)

// Tournament carries the scheduling parameters of one competition.
// Once fixtures exist these values are treated as immutable by the engine.
type Tournament struct {
	ID                   int              `json:"id" db:"id"`
	Name                 string           `json:"name" db:"name"`
	Format               TournamentFormat `json:"format" db:"format"`
	MatchDurationMinutes int              `json:"match_duration_minutes" db:"match_duration_minutes"`
	RestTimeMinutes      int              `json:"rest_time_minutes" db:"rest_time_minutes"`
	MinEntries           int              `json:"min_entries" db:"min_entries"`
	MaxEntries           int              `json:"max_entries" db:"max_entries"`
	MaxPlayersPerTeam    int              `json:"max_players_per_team" db:"max_players_per_team"`
	StartAt              time.Time        `json:"start_at" db:"start_at"`
	Status               TournamentStatus `json:"status" db:"status"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`
}

func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatKnockout, FormatRoundRobin, FormatDoubleElimination:
		return true
	}
	return false
}
