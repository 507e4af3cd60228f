package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/fixture-engine/fixtures"
	"github.com/Dosada05/fixture-engine/live"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/repositories"
)

type MatchService interface {
	ListByTournament(ctx context.Context, tournamentID int, round *string) ([]*models.Match, error)
	// StartMatch records the actual start of play and marks the match's
	// court and umpire busy.
	StartMatch(ctx context.Context, matchID int) (*models.Match, error)
	// SubmitResult records a winner, gated by the match's one-time code.
	SubmitResult(ctx context.Context, matchID int, code string, winnerEntryID int) (*models.Match, error)
}

type matchService struct {
	db             *sql.DB
	matchRepo      repositories.MatchRepository
	courtRepo      repositories.CourtRepository
	umpireRepo     repositories.UmpireRepository
	tournamentRepo repositories.TournamentRepository
	hub            *live.Hub
	logger         *slog.Logger

	// runTx wraps the write path in a transaction. A field so tests can run
	// the closure without a database.
	runTx func(ctx context.Context, fn func(tx *sql.Tx) error) error
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	courtRepo repositories.CourtRepository,
	umpireRepo repositories.UmpireRepository,
	tournamentRepo repositories.TournamentRepository,
	hub *live.Hub,
	logger *slog.Logger,
) MatchService {
	s := &matchService{
		db:             db,
		matchRepo:      matchRepo,
		courtRepo:      courtRepo,
		umpireRepo:     umpireRepo,
		tournamentRepo: tournamentRepo,
		hub:            hub,
		logger:         logger,
	}
	s.runTx = s.inTx
	return s
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, round *string) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, round, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

func (s *matchService) StartMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.IsCompleted {
		return nil, ErrMatchAlreadyComplete
	}
	if match.ActualStartTime != nil {
		return nil, ErrMatchAlreadyStarted
	}

	now := time.Now().UTC()
	err = s.runTx(ctx, func(tx *sql.Tx) error {
		if err := s.matchRepo.SetActualStart(ctx, tx, matchID, now); err != nil {
			return err
		}
		// Refresh the derived availability cache on the assigned
		// resources; the match row stays authoritative.
		if match.CourtID != nil {
			if err := s.courtRepo.UpdateAssignment(ctx, tx, *match.CourtID, &matchID, &now, false); err != nil {
				return err
			}
		}
		if match.UmpireID != nil {
			if err := s.umpireRepo.UpdateAssignment(ctx, tx, *match.UmpireID, &matchID, &now, false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	match.ActualStartTime = &now
	s.broadcast(match, live.EventMatchStarted)
	s.logger.Info("match started", slog.Int("match_id", matchID), slog.Int("tournament_id", match.TournamentID))
	return match, nil
}

func (s *matchService) SubmitResult(ctx context.Context, matchID int, code string, winnerEntryID int) (*models.Match, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.IsBye() {
		return nil, ErrMatchIsBye
	}
	if match.IsCompleted {
		return nil, ErrMatchAlreadyComplete
	}
	if !match.CodeValid {
		return nil, ErrMatchCodeUsed
	}
	if code != match.MatchCode {
		return nil, ErrMatchCodeInvalid
	}
	if winnerEntryID != *match.Entry1ID && winnerEntryID != *match.Entry2ID {
		return nil, ErrWinnerNotInMatch
	}

	err = s.runTx(ctx, func(tx *sql.Tx) error {
		if err := s.matchRepo.SetResult(ctx, tx, matchID, winnerEntryID); err != nil {
			return err
		}
		// Free the resources so the next wave can pick them up.
		if match.CourtID != nil {
			if err := s.courtRepo.UpdateAssignment(ctx, tx, *match.CourtID, nil, nil, true); err != nil {
				return err
			}
		}
		if match.UmpireID != nil {
			if err := s.umpireRepo.UpdateAssignment(ctx, tx, *match.UmpireID, nil, nil, true); err != nil {
				return err
			}
		}
		// The Final's winner is the champion; close out the tournament in
		// the same transaction as the result.
		if match.Round == fixtures.RoundFinal.Label() {
			if err := s.tournamentRepo.UpdateStatus(ctx, tx, match.TournamentID, models.TournamentStatusCompleted); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	match.WinnerEntryID = &winnerEntryID
	match.IsCompleted = true
	match.CodeValid = false
	s.broadcast(match, live.EventMatchCompleted)
	s.logger.Info("match completed",
		slog.Int("match_id", matchID),
		slog.Int("tournament_id", match.TournamentID),
		slog.Int("winner_entry_id", winnerEntryID),
	)
	return match, nil
}

func (s *matchService) loadMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	return match, nil
}

func (s *matchService) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *matchService) broadcast(match *models.Match, event string) {
	if s.hub == nil {
		return
	}
	room := live.RoomForTournament(match.TournamentID)
	s.hub.BroadcastToRoom(room, live.Message{Type: event, Payload: match, RoomID: room})
}
