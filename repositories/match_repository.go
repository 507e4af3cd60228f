package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchEntryInvalid      = errors.New("match entry conflict or invalid")
	ErrMatchResourceInvalid   = errors.New("match court or umpire conflict or invalid")
	ErrMatchCodeConflict      = errors.New("match code already exists for this tournament")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, round *string, completed *bool) ([]*models.Match, error)
	MaxMatchOrder(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
	DeleteByRound(ctx context.Context, exec SQLExecutor, tournamentID int, round string) error
	// SetResult records a winner, completes the match and permanently
	// invalidates its code in one statement.
	SetResult(ctx context.Context, exec SQLExecutor, matchID int, winnerEntryID int) error
	SetActualStart(ctx context.Context, exec SQLExecutor, matchID int, startTime time.Time) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, round, match_order, entry1_id, entry2_id, court_id, umpire_id,
	scheduled_time, duration_minutes, match_code, code_valid, winner_entry_id, is_completed,
	actual_start_time, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, round, match_order, entry1_id, entry2_id, court_id, umpire_id,
			 scheduled_time, duration_minutes, match_code, code_valid, winner_entry_id, is_completed, actual_start_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.TournamentID,
		match.Round,
		match.MatchOrder,
		match.Entry1ID,
		match.Entry2ID,
		match.CourtID,
		match.UmpireID,
		match.ScheduledTime,
		match.DurationMinutes,
		match.MatchCode,
		match.CodeValid,
		match.WinnerEntryID,
		match.IsCompleted,
		match.ActualStartTime,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.TournamentID,
		&match.Round,
		&match.MatchOrder,
		&match.Entry1ID,
		&match.Entry2ID,
		&match.CourtID,
		&match.UmpireID,
		&match.ScheduledTime,
		&match.DurationMinutes,
		&match.MatchCode,
		&match.CodeValid,
		&match.WinnerEntryID,
		&match.IsCompleted,
		&match.ActualStartTime,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, round *string, completed *bool) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholderIndex := 2

	if round != nil {
		queryBuilder.WriteString(" AND round = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *round)
		placeholderIndex++
	}
	if completed != nil {
		queryBuilder.WriteString(" AND is_completed = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *completed)
	}

	queryBuilder.WriteString(" ORDER BY match_order ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := rows.Scan(
			&match.ID,
			&match.TournamentID,
			&match.Round,
			&match.MatchOrder,
			&match.Entry1ID,
			&match.Entry2ID,
			&match.CourtID,
			&match.UmpireID,
			&match.ScheduledTime,
			&match.DurationMinutes,
			&match.MatchCode,
			&match.CodeValid,
			&match.WinnerEntryID,
			&match.IsCompleted,
			&match.ActualStartTime,
			&match.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) MaxMatchOrder(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	query := `SELECT COALESCE(MAX(match_order), 0) FROM matches WHERE tournament_id = $1`

	var maxOrder int
	if err := exec.QueryRowContext(ctx, query, tournamentID).Scan(&maxOrder); err != nil {
		return 0, fmt.Errorf("failed to query max match order for tournament %d: %w", tournamentID, err)
	}
	return maxOrder, nil
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	query := `DELETE FROM matches WHERE tournament_id = $1`
	if _, err := exec.ExecContext(ctx, query, tournamentID); err != nil {
		return fmt.Errorf("failed to delete matches for tournament %d: %w", tournamentID, err)
	}
	return nil
}

func (r *postgresMatchRepository) DeleteByRound(ctx context.Context, exec SQLExecutor, tournamentID int, round string) error {
	query := `DELETE FROM matches WHERE tournament_id = $1 AND round = $2`
	if _, err := exec.ExecContext(ctx, query, tournamentID, round); err != nil {
		return fmt.Errorf("failed to delete round %q matches for tournament %d: %w", round, tournamentID, err)
	}
	return nil
}

func (r *postgresMatchRepository) SetResult(ctx context.Context, exec SQLExecutor, matchID int, winnerEntryID int) error {
	query := `
		UPDATE matches
		SET winner_entry_id = $1, is_completed = TRUE, code_valid = FALSE
		WHERE id = $2`

	result, err := exec.ExecContext(ctx, query, winnerEntryID, matchID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetActualStart(ctx context.Context, exec SQLExecutor, matchID int, startTime time.Time) error {
	query := `UPDATE matches SET actual_start_time = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, startTime, matchID)
	if err != nil {
		return fmt.Errorf("failed to set actual start time for match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_entry1_id_fkey", "matches_entry2_id_fkey", "matches_winner_entry_id_fkey":
			return ErrMatchEntryInvalid
		case "matches_court_id_fkey", "matches_umpire_id_fkey":
			return ErrMatchResourceInvalid
		case "matches_tournament_id_match_code_key":
			return ErrMatchCodeConflict
		}
	}
	return err
}
