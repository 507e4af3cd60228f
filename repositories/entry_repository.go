package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/fixture-engine/models"
)

var ErrEntryNotFound = errors.New("entry not found")

type EntryRepository interface {
	// ListByTournament returns entries in registration order with the club
	// of the backing player or team resolved onto Entry.ClubID.
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Entry, error)
	GetByID(ctx context.Context, id int) (*models.Entry, error)
}

type postgresEntryRepository struct {
	db *sql.DB
}

func NewPostgresEntryRepository(db *sql.DB) EntryRepository {
	return &postgresEntryRepository{db: db}
}

const entrySelect = `
	SELECT e.id, e.tournament_id, e.player_id, e.team_id, e.seed, e.created_at,
	       COALESCE(p.club_id, t.club_id) AS club_id
	FROM entries e
	LEFT JOIN players p ON p.id = e.player_id
	LEFT JOIN teams t ON t.id = e.team_id`

func (r *postgresEntryRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Entry, error) {
	query := entrySelect + `
	WHERE e.tournament_id = $1
	ORDER BY COALESCE(e.seed, 2147483647) ASC, e.id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	entries := make([]*models.Entry, 0)
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during entry rows iteration: %w", err)
	}
	return entries, nil
}

func (r *postgresEntryRepository) GetByID(ctx context.Context, id int) (*models.Entry, error) {
	query := entrySelect + ` WHERE e.id = $1`

	entry := &models.Entry{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID,
		&entry.TournamentID,
		&entry.PlayerID,
		&entry.TeamID,
		&entry.Seed,
		&entry.CreatedAt,
		&entry.ClubID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to scan entry %d: %w", id, err)
	}
	return entry, nil
}

func scanEntry(rows *sql.Rows) (*models.Entry, error) {
	entry := &models.Entry{}
	if err := rows.Scan(
		&entry.ID,
		&entry.TournamentID,
		&entry.PlayerID,
		&entry.TeamID,
		&entry.Seed,
		&entry.CreatedAt,
		&entry.ClubID,
	); err != nil {
		return nil, fmt.Errorf("failed to scan entry row: %w", err)
	}
	return entry, nil
}
