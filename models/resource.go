package models

import "time"

// Court is a schedulable playing surface. IsIdle, LastAssignedStartTime and
// LastAssignedMatchID are derived cache fields maintained for availability
// display; the authoritative state is always the match record.
type Court struct {
	ID                    int        `json:"id" db:"id"`
	TournamentID          int        `json:"tournament_id" db:"tournament_id"`
	Name                  string     `json:"name" db:"name"`
	IsIdle                bool       `json:"is_idle" db:"is_idle"`
	LastAssignedStartTime *time.Time `json:"last_assigned_start_time,omitempty" db:"last_assigned_start_time"`
	LastAssignedMatchID   *int       `json:"last_assigned_match_id,omitempty" db:"last_assigned_match_id"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
}

// Umpire is a schedulable official. Same cache-field caveat as Court applies.
type Umpire struct {
	ID                    int        `json:"id" db:"id"`
	TournamentID          int        `json:"tournament_id" db:"tournament_id"`
	Name                  string     `json:"name" db:"name"`
	ClubID                *int       `json:"club_id,omitempty" db:"club_id"`
	IsIdle                bool       `json:"is_idle" db:"is_idle"`
	LastAssignedStartTime *time.Time `json:"last_assigned_start_time,omitempty" db:"last_assigned_start_time"`
	LastAssignedMatchID   *int       `json:"last_assigned_match_id,omitempty" db:"last_assigned_match_id"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
}
