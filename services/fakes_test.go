package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/repositories"
)

// In-memory repository fakes. Write operations that production code only
// reaches through a transaction record the call so guard-path behavior can be
// asserted without a database.

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t, nil
}

func (r *fakeTournamentRepo) ListIDsByStatus(ctx context.Context, status models.TournamentStatus) ([]int, error) {
	var ids []int
	for id, t := range r.tournaments {
		if t.Status == status {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

type fakeEntryRepo struct {
	entries []*models.Entry
}

func (r *fakeEntryRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Entry, error) {
	return r.entries, nil
}

func (r *fakeEntryRepo) GetByID(ctx context.Context, id int) (*models.Entry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, repositories.ErrEntryNotFound
}

type fakeCourtRepo struct {
	courts      []*models.Court
	assignments int
}

func (r *fakeCourtRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Court, error) {
	return r.courts, nil
}

func (r *fakeCourtRepo) UpdateAssignment(ctx context.Context, exec repositories.SQLExecutor, courtID int, matchID *int, startTime *time.Time, isIdle bool) error {
	r.assignments++
	return nil
}

type fakeUmpireRepo struct {
	umpires     []*models.Umpire
	assignments int
}

func (r *fakeUmpireRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Umpire, error) {
	return r.umpires, nil
}

func (r *fakeUmpireRepo) UpdateAssignment(ctx context.Context, exec repositories.SQLExecutor, umpireID int, matchID *int, startTime *time.Time, isIdle bool) error {
	r.assignments++
	return nil
}

type fakeMatchRepo struct {
	matches []*models.Match
	created int
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	r.created++
	match.ID = r.created
	r.matches = append(r.matches, match)
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	for _, m := range r.matches {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID int, round *string, completed *bool) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if round != nil && m.Round != *round {
			continue
		}
		if completed != nil && m.IsCompleted != *completed {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMatchRepo) MaxMatchOrder(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	max := 0
	for _, m := range r.matches {
		if m.TournamentID == tournamentID && m.MatchOrder > max {
			max = m.MatchOrder
		}
	}
	return max, nil
}

func (r *fakeMatchRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	var kept []*models.Match
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			kept = append(kept, m)
		}
	}
	r.matches = kept
	return nil
}

func (r *fakeMatchRepo) DeleteByRound(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, round string) error {
	var kept []*models.Match
	for _, m := range r.matches {
		if m.TournamentID != tournamentID || m.Round != round {
			kept = append(kept, m)
		}
	}
	r.matches = kept
	return nil
}

func (r *fakeMatchRepo) SetResult(ctx context.Context, exec repositories.SQLExecutor, matchID int, winnerEntryID int) error {
	m, err := r.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	m.WinnerEntryID = &winnerEntryID
	m.IsCompleted = true
	m.CodeValid = false
	return nil
}

func (r *fakeMatchRepo) SetActualStart(ctx context.Context, exec repositories.SQLExecutor, matchID int, startTime time.Time) error {
	m, err := r.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	m.ActualStartTime = &startTime
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intRef(v int) *int { return &v }

func timeRef(t time.Time) *time.Time { return &t }
