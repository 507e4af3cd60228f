package models

import "time"

// Match is one fixture. A match with either entry ID nil is a BYE: it is
// created already completed, the present entry is the winner, and it holds no
// court or umpire.
type Match struct {
	ID              int        `json:"id" db:"id"`
	TournamentID    int        `json:"tournament_id" db:"tournament_id"`
	Round           string     `json:"round" db:"round"`
	MatchOrder      int        `json:"match_order" db:"match_order"`
	Entry1ID        *int       `json:"entry1_id,omitempty" db:"entry1_id"`
	Entry2ID        *int       `json:"entry2_id,omitempty" db:"entry2_id"`
	CourtID         *int       `json:"court_id,omitempty" db:"court_id"`
	UmpireID        *int       `json:"umpire_id,omitempty" db:"umpire_id"`
	ScheduledTime   *time.Time `json:"scheduled_time,omitempty" db:"scheduled_time"`
	DurationMinutes int        `json:"duration_minutes" db:"duration_minutes"`
	MatchCode       string     `json:"match_code" db:"match_code"`
	CodeValid       bool       `json:"code_valid" db:"code_valid"`
	WinnerEntryID   *int       `json:"winner_entry_id,omitempty" db:"winner_entry_id"`
	IsCompleted     bool       `json:"is_completed" db:"is_completed"`
	ActualStartTime *time.Time `json:"actual_start_time,omitempty" db:"actual_start_time"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// IsBye reports whether the match has an empty side.
func (m *Match) IsBye() bool {
	return m.Entry1ID == nil || m.Entry2ID == nil
}
