package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/Dosada05/fixture-engine/fixtures"
	"github.com/Dosada05/fixture-engine/live"
	"github.com/Dosada05/fixture-engine/metrics"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/repositories"
	"github.com/Dosada05/fixture-engine/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// GenerateOptions controls one fixture generation run.
type GenerateOptions struct {
	// Seeded keeps registration/seed order for bracket placement instead
	// of a random draw.
	Seeded bool
	// Force regenerates over existing fixtures, deleting them first.
	Force bool
	// DryRun computes the full schedule but persists nothing.
	DryRun bool
	// StartTimeOverride replaces the tournament's configured start instant.
	StartTimeOverride *time.Time
	// MaxParallelOverride caps wave size below the physical court/umpire
	// limit. Zero means no extra cap.
	MaxParallelOverride int
	// RespectClubNeutrality prefers umpires unaffiliated with either
	// entrant's club. Nil defaults to true.
	RespectClubNeutrality *bool
	// DrawSeed makes the unseeded draw reproducible.
	DrawSeed *int64
}

// AdvanceOptions controls one round advancement. Next rounds are never
// seeded and always start one slot after the completed round's last match.
type AdvanceOptions struct {
	DryRun                bool
	MaxParallelOverride   int
	RespectClubNeutrality *bool
	DrawSeed              *int64
}

// FixtureResult is the structured outcome of a generation or advancement.
type FixtureResult struct {
	RunID    string          `json:"run_id"`
	Created  int             `json:"created"`
	Matches  []*models.Match `json:"matches"`
	Warnings []string        `json:"warnings"`
}

type FixtureService interface {
	GenerateFixtures(ctx context.Context, tournamentID int, opts GenerateOptions) (*FixtureResult, error)
	GenerateNextRound(ctx context.Context, tournamentID int, currentRound string, opts AdvanceOptions) (*FixtureResult, error)
}

type fixtureService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	entryRepo      repositories.EntryRepository
	courtRepo      repositories.CourtRepository
	umpireRepo     repositories.UmpireRepository
	matchRepo      repositories.MatchRepository
	uploader       storage.SnapshotUploader
	hub            *live.Hub
	metrics        *metrics.Metrics
	logger         *slog.Logger

	// runLocked serializes fixture writes per tournament. A field so tests
	// can run the locked closure without a database.
	runLocked func(ctx context.Context, tournamentID int, fn func(tx *sql.Tx) error) error
}

func NewFixtureService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	entryRepo repositories.EntryRepository,
	courtRepo repositories.CourtRepository,
	umpireRepo repositories.UmpireRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.SnapshotUploader,
	hub *live.Hub,
	m *metrics.Metrics,
	logger *slog.Logger,
) FixtureService {
	s := &fixtureService{
		db:             db,
		tournamentRepo: tournamentRepo,
		entryRepo:      entryRepo,
		courtRepo:      courtRepo,
		umpireRepo:     umpireRepo,
		matchRepo:      matchRepo,
		uploader:       uploader,
		hub:            hub,
		metrics:        m,
		logger:         logger,
	}
	s.runLocked = s.withTournamentLock
	return s
}

// scheduleInputs are the collaborator reads every run needs, fetched in
// parallel.
type scheduleInputs struct {
	entries []*models.Entry
	courts  []*models.Court
	umpires []*models.Umpire
}

func (s *fixtureService) loadInputs(ctx context.Context, tournamentID int) (*scheduleInputs, error) {
	in := &scheduleInputs{}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		entries, err := s.entryRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		in.entries = entries
		return nil
	})
	g.Go(func() error {
		courts, err := s.courtRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list courts: %w", err)
		}
		in.courts = courts
		return nil
	})
	g.Go(func() error {
		umpires, err := s.umpireRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list umpires: %w", err)
		}
		in.umpires = umpires
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *fixtureService) GenerateFixtures(ctx context.Context, tournamentID int, opts GenerateOptions) (*FixtureResult, error) {
	started := time.Now()
	tournament, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	generator, ok := fixtures.NewGenerator(tournament.Format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, tournament.Format)
	}

	in, err := s.loadInputs(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := validateInputs(tournament, in); err != nil {
		s.recordRun("validation_error")
		return nil, err
	}

	result := &FixtureResult{RunID: uuid.NewString(), Warnings: []string{}}
	logger := s.logger.With(slog.String("run_id", result.RunID), slog.Int("tournament_id", tournamentID))

	existing, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing fixtures: %w", err)
	}
	if len(existing) > 0 && !opts.Force {
		result.Matches = existing
		result.Warnings = append(result.Warnings, "fixtures already exist for this tournament; pass force to regenerate")
		s.recordRun("already_exists")
		return result, nil
	}

	entryIDs := make([]int, 0, len(in.entries))
	clubByEntry := make(map[int]int)
	for _, e := range in.entries {
		entryIDs = append(entryIDs, e.ID)
		if e.ClubID != nil {
			clubByEntry[e.ID] = *e.ClubID
		}
	}

	pairings, err := generator.GeneratePairings(ctx, fixtures.GenerateParams{
		EntryIDs: entryIDs,
		Seeded:   opts.Seeded,
		Rand:     drawRand(opts.DrawSeed),
	})
	if err != nil {
		if errors.Is(err, fixtures.ErrNotEnoughEntrants) {
			return nil, ErrNotEnoughEntries
		}
		return nil, fmt.Errorf("pairing generation failed: %w", err)
	}
	if tournament.Format == models.FormatDoubleElimination {
		result.Warnings = append(result.Warnings, "double elimination: only the initial winners bracket is generated; losers bracket is not implemented")
	}

	start := tournament.StartAt.UTC()
	if opts.StartTimeOverride != nil {
		start = opts.StartTimeOverride.UTC()
	}
	if now := time.Now().UTC(); start.Before(now) {
		start = now.Add(15 * time.Minute)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("requested start time is in the past; matches scheduled from %s", start.Format(time.RFC3339)))
	}

	scheduled, err := s.runScheduler(fixtures.ScheduleParams{
		TournamentID:         tournament.ID,
		Pairings:             pairings,
		Courts:               derefCourts(in.courts),
		Umpires:              derefUmpires(in.umpires),
		ClubByEntry:          clubByEntry,
		Start:                start,
		MatchDurationMinutes: tournament.MatchDurationMinutes,
		RestTimeMinutes:      tournament.RestTimeMinutes,
		MaxParallel:          opts.MaxParallelOverride,
		RespectNeutrality:    respectNeutrality(opts.RespectClubNeutrality),
		CodePrefix:           matchCodePrefix(tournament),
		StartOrder:           0,
	})
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, scheduled.Warnings...)

	if opts.DryRun {
		result.Matches = scheduled.Matches
		result.Created = len(scheduled.Matches)
		result.Warnings = append(result.Warnings, "dry run: no matches were persisted")
		s.recordRun("dry_run")
		return result, nil
	}

	err = s.runLocked(ctx, tournamentID, func(tx *sql.Tx) error {
		if opts.Force {
			if err := s.matchRepo.DeleteByTournament(ctx, tx, tournamentID); err != nil {
				return err
			}
		} else {
			// Re-check under the lock: a concurrent run may have won the
			// race between the first existence check and here.
			maxOrder, err := s.matchRepo.MaxMatchOrder(ctx, tx, tournamentID)
			if err != nil {
				return err
			}
			if maxOrder > 0 {
				return errConcurrentGeneration
			}
		}
		for _, m := range scheduled.Matches {
			if err := s.matchRepo.Create(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errConcurrentGeneration) {
		result.Warnings = append(result.Warnings, "fixtures already exist for this tournament; pass force to regenerate")
		s.recordRun("already_exists")
		return result, nil
	}
	if err != nil {
		s.recordRun("error")
		return nil, err
	}

	result.Matches = scheduled.Matches
	result.Created = len(scheduled.Matches)

	s.recordRun("ok")
	s.recordCreated(len(scheduled.Matches), time.Since(started))
	s.publishSnapshot(ctx, tournament, result)
	s.broadcast(tournament.ID, live.EventFixturesGenerated, result)
	logger.Info("fixtures generated",
		slog.Int("created", result.Created),
		slog.String("format", string(tournament.Format)),
		slog.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

func (s *fixtureService) GenerateNextRound(ctx context.Context, tournamentID int, currentRound string, opts AdvanceOptions) (*FixtureResult, error) {
	started := time.Now()
	tournament, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	// Only the knockout bracket advances round by round. A double
	// elimination tournament would need its losers bracket reconciled
	// first, which is intentionally not implemented.
	if tournament.Format != models.FormatKnockout {
		s.recordAdvance("unsupported_format")
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, tournament.Format)
	}

	current, err := s.matchRepo.ListByTournament(ctx, tournamentID, &currentRound, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load round %q: %w", currentRound, err)
	}
	if len(current) == 0 {
		s.recordAdvance("round_not_found")
		return nil, fmt.Errorf("%w: %q", ErrRoundNotFound, currentRound)
	}

	// Every match must be decided before the bracket can move. Missing
	// winners are a state problem the user has to fix, not a retry case.
	winners := make([]int, 0, len(current))
	lastScheduled := time.Time{}
	for _, m := range current {
		if !m.IsCompleted || m.WinnerEntryID == nil {
			s.recordAdvance("round_incomplete")
			return nil, fmt.Errorf("%w: match %d has no winner", ErrRoundIncomplete, m.ID)
		}
		winners = append(winners, *m.WinnerEntryID)
		if m.ScheduledTime != nil && m.ScheduledTime.After(lastScheduled) {
			lastScheduled = *m.ScheduledTime
		}
	}
	if len(winners) < 2 {
		s.recordAdvance("already_complete")
		return nil, fmt.Errorf("%w: champion already decided", ErrTournamentComplete)
	}

	nextLabel := fixtures.LabelForWinners(len(winners))

	existingNext, err := s.matchRepo.ListByTournament(ctx, tournamentID, &nextLabel, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load round %q: %w", nextLabel, err)
	}
	if len(existingNext) > 0 && roundDecided(existingNext) {
		// Covers the Final guard too: a Final with a declared champion is
		// never regenerated. A winner-less stale round is deleted below.
		s.recordAdvance("already_complete")
		return nil, fmt.Errorf("%w: round %q already has winners", ErrTournamentComplete, nextLabel)
	}

	in, err := s.loadInputs(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(in.courts) == 0 {
		return nil, ErrNoCourtsConfigured
	}
	if len(in.umpires) == 0 {
		return nil, ErrNoUmpiresConfigured
	}

	clubByEntry := make(map[int]int)
	for _, e := range in.entries {
		if e.ClubID != nil {
			clubByEntry[e.ID] = *e.ClubID
		}
	}

	// Re-pairing after the first round is always an open draw.
	pairings, err := fixtures.NewKnockoutGenerator().GeneratePairings(ctx, fixtures.GenerateParams{
		EntryIDs: winners,
		Seeded:   false,
		Rand:     drawRand(opts.DrawSeed),
	})
	if err != nil {
		return nil, fmt.Errorf("pairing generation failed: %w", err)
	}
	// Winners halve round over round, so the label derived from their
	// count matches the pairing generator's bracket-size label.

	slot := time.Duration(tournament.MatchDurationMinutes+tournament.RestTimeMinutes) * time.Minute
	start := lastScheduled.Add(slot)
	if lastScheduled.IsZero() {
		start = time.Now().UTC().Add(15 * time.Minute)
	}

	result := &FixtureResult{RunID: uuid.NewString(), Warnings: []string{}}
	logger := s.logger.With(slog.String("run_id", result.RunID), slog.Int("tournament_id", tournamentID))

	buildParams := func(startOrder int) fixtures.ScheduleParams {
		return fixtures.ScheduleParams{
			TournamentID:         tournament.ID,
			Pairings:             pairings,
			Courts:               derefCourts(in.courts),
			Umpires:              derefUmpires(in.umpires),
			ClubByEntry:          clubByEntry,
			Start:                start,
			MatchDurationMinutes: tournament.MatchDurationMinutes,
			RestTimeMinutes:      tournament.RestTimeMinutes,
			MaxParallel:          opts.MaxParallelOverride,
			RespectNeutrality:    respectNeutrality(opts.RespectClubNeutrality),
			CodePrefix:           matchCodePrefix(tournament),
			StartOrder:           startOrder,
		}
	}

	if opts.DryRun {
		// Preview what a real run would produce: a stale incomplete target
		// round would be deleted first, so its orders must not count.
		all, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list matches: %w", err)
		}
		maxOrder := 0
		for _, m := range all {
			if m.Round != nextLabel && m.MatchOrder > maxOrder {
				maxOrder = m.MatchOrder
			}
		}
		scheduled, err := s.runScheduler(buildParams(maxOrder))
		if err != nil {
			return nil, err
		}
		result.Warnings = append(result.Warnings, scheduled.Warnings...)
		result.Matches = scheduled.Matches
		result.Created = len(scheduled.Matches)
		result.Warnings = append(result.Warnings, "dry run: no matches were persisted")
		s.recordAdvance("dry_run")
		return result, nil
	}

	persist := func(tx *sql.Tx) error {
		// Re-check the target round under the lock: a concurrent advance
		// may have written it after the unlocked look above, and deciding
		// on that stale read would duplicate the round.
		lockedNext, err := s.matchRepo.ListByTournament(ctx, tournamentID, &nextLabel, nil)
		if err != nil {
			return fmt.Errorf("failed to load round %q: %w", nextLabel, err)
		}
		if len(lockedNext) > 0 && roundDecided(lockedNext) {
			return fmt.Errorf("%w: round %q already has winners", ErrTournamentComplete, nextLabel)
		}
		if len(lockedNext) > 0 {
			// Stale, incomplete target round from a partial failure or a
			// lost race: delete and regenerate so the advance is safely
			// repeatable.
			if err := s.matchRepo.DeleteByRound(ctx, tx, tournamentID, nextLabel); err != nil {
				return err
			}
		}
		maxOrder, err := s.matchRepo.MaxMatchOrder(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		scheduled, err := s.runScheduler(buildParams(maxOrder))
		if err != nil {
			return err
		}
		result.Warnings = append(result.Warnings, scheduled.Warnings...)
		for _, m := range scheduled.Matches {
			if err := s.matchRepo.Create(ctx, tx, m); err != nil {
				return err
			}
		}
		result.Matches = scheduled.Matches
		result.Created = len(scheduled.Matches)
		return nil
	}

	if err := s.runLocked(ctx, tournamentID, persist); err != nil {
		if errors.Is(err, ErrTournamentComplete) {
			s.recordAdvance("already_complete")
		} else {
			s.recordAdvance("error")
		}
		return nil, err
	}

	s.recordAdvance("ok")
	s.recordCreated(result.Created, time.Since(started))
	s.publishSnapshot(ctx, tournament, result)
	s.broadcast(tournament.ID, live.EventRoundAdvanced, result)
	logger.Info("round advanced",
		slog.String("from", currentRound),
		slog.String("to", nextLabel),
		slog.Int("created", result.Created),
	)
	return result, nil
}

// errConcurrentGeneration is internal to the lock re-check; callers convert
// it into the same "already exists" warning the unlocked path produces.
var errConcurrentGeneration = errors.New("fixtures created concurrently")

func (s *fixtureService) loadTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", id, err)
	}
	return tournament, nil
}

// withTournamentLock runs fn inside a transaction holding the tournament's
// advisory lock, serializing concurrent generation and advancement for the
// same tournament. The lock releases with the transaction.
func (s *fixtureService) withTournamentLock(ctx context.Context, tournamentID int, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(tournamentID)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to acquire tournament lock: %w", err)
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

func (s *fixtureService) runScheduler(params fixtures.ScheduleParams) (*fixtures.ScheduleResult, error) {
	scheduled, err := fixtures.ScheduleMatches(params)
	if err != nil {
		switch {
		case errors.Is(err, fixtures.ErrNoCourts):
			return nil, ErrNoCourtsConfigured
		case errors.Is(err, fixtures.ErrNoUmpires):
			return nil, ErrNoUmpiresConfigured
		}
		return nil, fmt.Errorf("scheduling failed: %w", err)
	}
	return scheduled, nil
}

// publishSnapshot uploads a JSON schedule snapshot for public dashboards.
// Failures degrade to a warning on the result, never to a failed run.
func (s *fixtureService) publishSnapshot(ctx context.Context, tournament *models.Tournament, result *FixtureResult) {
	if s.uploader == nil {
		return
	}
	snapshot, err := json.Marshal(map[string]interface{}{
		"tournament_id": tournament.ID,
		"generated_at":  time.Now().UTC(),
		"run_id":        result.RunID,
		"matches":       result.Matches,
	})
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("schedule snapshot not published: %v", err))
		return
	}
	key := fmt.Sprintf("schedules/tournament_%d.json", tournament.ID)
	if _, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(snapshot)); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("schedule snapshot not published: %v", err))
	}
}

func (s *fixtureService) broadcast(tournamentID int, event string, payload interface{}) {
	if s.hub == nil {
		return
	}
	room := live.RoomForTournament(tournamentID)
	s.hub.BroadcastToRoom(room, live.Message{Type: event, Payload: payload, RoomID: room})
}

func (s *fixtureService) recordRun(outcome string) {
	if s.metrics != nil {
		s.metrics.FixtureRuns.WithLabelValues(outcome).Inc()
	}
}

func (s *fixtureService) recordAdvance(outcome string) {
	if s.metrics != nil {
		s.metrics.RoundAdvances.WithLabelValues(outcome).Inc()
	}
}

func (s *fixtureService) recordCreated(count int, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.MatchesCreated.Add(float64(count))
		s.metrics.ScheduleDuration.Observe(elapsed.Seconds())
	}
}

func validateInputs(tournament *models.Tournament, in *scheduleInputs) error {
	minEntries := tournament.MinEntries
	if minEntries < 2 {
		minEntries = 2
	}
	if len(in.entries) < minEntries {
		return fmt.Errorf("%w: have %d, need at least %d", ErrNotEnoughEntries, len(in.entries), minEntries)
	}
	if tournament.MaxEntries > 0 && len(in.entries) > tournament.MaxEntries {
		return fmt.Errorf("%w: have %d, capacity %d", ErrTooManyEntries, len(in.entries), tournament.MaxEntries)
	}
	if len(in.courts) == 0 {
		return ErrNoCourtsConfigured
	}
	if len(in.umpires) == 0 {
		return ErrNoUmpiresConfigured
	}
	return nil
}

func roundDecided(matches []*models.Match) bool {
	for _, m := range matches {
		if !m.IsCompleted || m.WinnerEntryID == nil {
			return false
		}
	}
	return true
}

func respectNeutrality(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

func drawRand(seed *int64) *rand.Rand {
	if seed == nil {
		return nil
	}
	return rand.New(rand.NewSource(*seed))
}

func matchCodePrefix(t *models.Tournament) string {
	return fmt.Sprintf("T%d", t.ID)
}

func derefCourts(courts []*models.Court) []models.Court {
	out := make([]models.Court, 0, len(courts))
	for _, c := range courts {
		out = append(out, *c)
	}
	return out
}

func derefUmpires(umpires []*models.Umpire) []models.Umpire {
	out := make([]models.Umpire, 0, len(umpires))
	for _, u := range umpires {
		out = append(out, *u)
	}
	return out
}
