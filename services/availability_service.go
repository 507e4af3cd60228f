package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/fixture-engine/fixtures"
	"github.com/Dosada05/fixture-engine/live"
	"github.com/Dosada05/fixture-engine/metrics"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/repositories"
	"golang.org/x/sync/errgroup"
)

// ResourceAvailability is one court's or umpire's live idle status.
type ResourceAvailability struct {
	ResourceID int                         `json:"resource_id"`
	Name       string                      `json:"name"`
	Status     fixtures.AvailabilityStatus `json:"status"`
}

type AvailabilityReport struct {
	TournamentID int                    `json:"tournament_id"`
	GeneratedAt  time.Time              `json:"generated_at"`
	Courts       []ResourceAvailability `json:"courts"`
	Umpires      []ResourceAvailability `json:"umpires"`
}

type AvailabilityService interface {
	TournamentAvailability(ctx context.Context, tournamentID int) (*AvailabilityReport, error)
}

type availabilityService struct {
	tournamentRepo repositories.TournamentRepository
	courtRepo      repositories.CourtRepository
	umpireRepo     repositories.UmpireRepository
	matchRepo      repositories.MatchRepository
	hub            *live.Hub
	metrics        *metrics.Metrics

	// now is swappable for tests.
	now func() time.Time
}

func NewAvailabilityService(
	tournamentRepo repositories.TournamentRepository,
	courtRepo repositories.CourtRepository,
	umpireRepo repositories.UmpireRepository,
	matchRepo repositories.MatchRepository,
	hub *live.Hub,
	m *metrics.Metrics,
) AvailabilityService {
	return &availabilityService{
		tournamentRepo: tournamentRepo,
		courtRepo:      courtRepo,
		umpireRepo:     umpireRepo,
		matchRepo:      matchRepo,
		hub:            hub,
		metrics:        m,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// TournamentAvailability evaluates the idle status calculator against the
// current match state for every court and umpire of the tournament, and
// pushes the refreshed report to the tournament's live room.
func (s *availabilityService) TournamentAvailability(ctx context.Context, tournamentID int) (*AvailabilityReport, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	var (
		courts  []*models.Court
		umpires []*models.Umpire
		matches []*models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courts, err = s.courtRepo.ListByTournament(gCtx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		umpires, err = s.umpireRepo.ListByTournament(gCtx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gCtx, tournamentID, nil, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load availability inputs for tournament %d: %w", tournamentID, err)
	}

	now := s.now()
	report := &AvailabilityReport{
		TournamentID: tournamentID,
		GeneratedAt:  now,
		Courts:       make([]ResourceAvailability, 0, len(courts)),
		Umpires:      make([]ResourceAvailability, 0, len(umpires)),
	}

	for _, c := range courts {
		report.Courts = append(report.Courts, ResourceAvailability{
			ResourceID: c.ID,
			Name:       c.Name,
			Status: fixtures.Availability(fixtures.ResourceSnapshot{
				IsIdle:                c.IsIdle,
				LastAssignedStartTime: c.LastAssignedStartTime,
				LastAssignedMatchID:   c.LastAssignedMatchID,
			}, matches, now),
		})
	}
	for _, u := range umpires {
		report.Umpires = append(report.Umpires, ResourceAvailability{
			ResourceID: u.ID,
			Name:       u.Name,
			Status: fixtures.Availability(fixtures.ResourceSnapshot{
				IsIdle:                u.IsIdle,
				LastAssignedStartTime: u.LastAssignedStartTime,
				LastAssignedMatchID:   u.LastAssignedMatchID,
			}, matches, now),
		})
	}

	if s.metrics != nil {
		s.metrics.AvailabilityPolls.Add(float64(len(courts) + len(umpires)))
	}
	if s.hub != nil {
		room := live.RoomForTournament(tournamentID)
		s.hub.BroadcastToRoom(room, live.Message{Type: live.EventAvailabilityRefresh, Payload: report, RoomID: room})
	}
	return report, nil
}
