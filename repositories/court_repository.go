package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/fixture-engine/models"
)

var ErrCourtNotFound = errors.New("court not found")

type CourtRepository interface {
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Court, error)
	// UpdateAssignment refreshes the derived availability cache fields.
	UpdateAssignment(ctx context.Context, exec SQLExecutor, courtID int, matchID *int, startTime *time.Time, isIdle bool) error
}

type postgresCourtRepository struct {
	db *sql.DB
}

func NewPostgresCourtRepository(db *sql.DB) CourtRepository {
	return &postgresCourtRepository{db: db}
}

func (r *postgresCourtRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Court, error) {
	query := `
		SELECT id, tournament_id, name, is_idle, last_assigned_start_time, last_assigned_match_id, created_at
		FROM courts
		WHERE tournament_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query courts for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	courts := make([]*models.Court, 0)
	for rows.Next() {
		var c models.Court
		if scanErr := rows.Scan(
			&c.ID,
			&c.TournamentID,
			&c.Name,
			&c.IsIdle,
			&c.LastAssignedStartTime,
			&c.LastAssignedMatchID,
			&c.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan court row: %w", scanErr)
		}
		courts = append(courts, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during court rows iteration: %w", err)
	}
	return courts, nil
}

func (r *postgresCourtRepository) UpdateAssignment(ctx context.Context, exec SQLExecutor, courtID int, matchID *int, startTime *time.Time, isIdle bool) error {
	query := `
		UPDATE courts
		SET last_assigned_match_id = $1, last_assigned_start_time = $2, is_idle = $3
		WHERE id = $4`

	result, err := exec.ExecContext(ctx, query, matchID, startTime, isIdle, courtID)
	if err != nil {
		return fmt.Errorf("failed to update court %d assignment: %w", courtID, err)
	}
	return checkAffectedRows(result, ErrCourtNotFound)
}
