package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/fixture-engine/models"
)

var ErrUmpireNotFound = errors.New("umpire not found")

type UmpireRepository interface {
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Umpire, error)
	UpdateAssignment(ctx context.Context, exec SQLExecutor, umpireID int, matchID *int, startTime *time.Time, isIdle bool) error
}

type postgresUmpireRepository struct {
	db *sql.DB
}

func NewPostgresUmpireRepository(db *sql.DB) UmpireRepository {
	return &postgresUmpireRepository{db: db}
}

func (r *postgresUmpireRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Umpire, error) {
	query := `
		SELECT id, tournament_id, name, club_id, is_idle, last_assigned_start_time, last_assigned_match_id, created_at
		FROM umpires
		WHERE tournament_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query umpires for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	umpires := make([]*models.Umpire, 0)
	for rows.Next() {
		var u models.Umpire
		if scanErr := rows.Scan(
			&u.ID,
			&u.TournamentID,
			&u.Name,
			&u.ClubID,
			&u.IsIdle,
			&u.LastAssignedStartTime,
			&u.LastAssignedMatchID,
			&u.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan umpire row: %w", scanErr)
		}
		umpires = append(umpires, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during umpire rows iteration: %w", err)
	}
	return umpires, nil
}

func (r *postgresUmpireRepository) UpdateAssignment(ctx context.Context, exec SQLExecutor, umpireID int, matchID *int, startTime *time.Time, isIdle bool) error {
	query := `
		UPDATE umpires
		SET last_assigned_match_id = $1, last_assigned_start_time = $2, is_idle = $3
		WHERE id = $4`

	result, err := exec.ExecContext(ctx, query, matchID, startTime, isIdle, umpireID)
	if err != nil {
		return fmt.Errorf("failed to update umpire %d assignment: %w", umpireID, err)
	}
	return checkAffectedRows(result, ErrUmpireNotFound)
}
