package models

import "time"

// Entry is one registered slot in a tournament, backed by either a solo
// player or a team. Pairing and scheduling always work with entry IDs, never
// with player/team identity directly.
type Entry struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	PlayerID     *int      `json:"player_id,omitempty" db:"player_id"`
	TeamID       *int      `json:"team_id,omitempty" db:"team_id"`
	Seed         *int      `json:"seed,omitempty" db:"seed"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// ClubID is resolved from the backing player or team when entries are
	// listed for scheduling. Used only for umpire neutrality checks.
	ClubID *int `json:"club_id,omitempty" db:"-"`
}

type Player struct {
	ID        int       `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	ClubID    *int      `json:"club_id,omitempty" db:"club_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ClubID    *int      `json:"club_id,omitempty" db:"club_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Members []Player `json:"members,omitempty" db:"-"`
}
