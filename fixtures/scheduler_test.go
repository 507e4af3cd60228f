package fixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/fixture-engine/models"
)

func courts(n int) []models.Court {
	out := make([]models.Court, n)
	for i := range out {
		out[i] = models.Court{ID: 100 + i, Name: "Court"}
	}
	return out
}

func umpires(n int) []models.Umpire {
	out := make([]models.Umpire, n)
	for i := range out {
		out[i] = models.Umpire{ID: 200 + i, Name: "Umpire"}
	}
	return out
}

func contestedPairings(label string, ids ...int) []Pairing {
	var out []Pairing
	for i := 0; i+1 < len(ids); i += 2 {
		out = append(out, Pairing{RoundLabel: label, Entry1ID: &ids[i], Entry2ID: &ids[i+1]})
	}
	return out
}

func TestScheduleMatches_WaveTimesAndCourtRotation(t *testing.T) {
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	res, err := ScheduleMatches(ScheduleParams{
		TournamentID:         1,
		Pairings:             contestedPairings("Quarterfinals", 1, 2, 3, 4, 5, 6, 7, 8),
		Courts:               courts(2),
		Umpires:              umpires(3),
		Start:                start,
		MatchDurationMinutes: 30,
		RestTimeMinutes:      10,
		CodePrefix:           "T1",
	})
	require.NoError(t, err)
	require.Len(t, res.Matches, 4)

	// Two courts bound the batch: matches 0,1 in the first wave, 2,3 one
	// slot (40 minutes) later.
	assert.Equal(t, start, *res.Matches[0].ScheduledTime)
	assert.Equal(t, start, *res.Matches[1].ScheduledTime)
	second := start.Add(40 * time.Minute)
	assert.Equal(t, second, *res.Matches[2].ScheduledTime)
	assert.Equal(t, second, *res.Matches[3].ScheduledTime)
	assert.Equal(t, second, res.LastScheduled)

	// Courts rotate.
	assert.Equal(t, 100, *res.Matches[0].CourtID)
	assert.Equal(t, 101, *res.Matches[1].CourtID)
	assert.Equal(t, 100, *res.Matches[2].CourtID)
	assert.Equal(t, 101, *res.Matches[3].CourtID)

	// Match order and codes continue the sequence from StartOrder zero.
	for i, m := range res.Matches {
		assert.Equal(t, i+1, m.MatchOrder)
	}
	assert.Equal(t, "T1-001", res.Matches[0].MatchCode)
	assert.Equal(t, "T1-004", res.Matches[3].MatchCode)
}

func TestScheduleMatches_NoUmpireDoubleBookedInWave(t *testing.T) {
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	res, err := ScheduleMatches(ScheduleParams{
		TournamentID:         1,
		Pairings:             contestedPairings("Round 1", 1, 2, 3, 4, 5, 6),
		Courts:               courts(3),
		Umpires:              umpires(3),
		Start:                start,
		MatchDurationMinutes: 45,
		CodePrefix:           "T1",
	})
	require.NoError(t, err)
	require.Len(t, res.Matches, 3)
	assert.Empty(t, res.Warnings)

	// All three matches share the wave; each needs a distinct umpire.
	seen := make(map[int]bool)
	for _, m := range res.Matches {
		require.NotNil(t, m.UmpireID)
		assert.False(t, seen[*m.UmpireID], "umpire %d booked twice at the same time", *m.UmpireID)
		seen[*m.UmpireID] = true
	}
}

func TestScheduleMatches_LeastLoadedUmpirePreferred(t *testing.T) {
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	res, err := ScheduleMatches(ScheduleParams{
		TournamentID:         1,
		Pairings:             contestedPairings("Round 1", 1, 2, 3, 4, 5, 6),
		Courts:               courts(1),
		Umpires:              umpires(2),
		Start:                start,
		MatchDurationMinutes: 30,
		CodePrefix:           "T1",
	})
	require.NoError(t, err)
	require.Len(t, res.Matches, 3)

	// One court forces sequential waves; loads alternate between the two
	// umpires instead of piling onto the first.
	assert.Equal(t, 200, *res.Matches[0].UmpireID)
	assert.Equal(t, 201, *res.Matches[1].UmpireID)
	assert.Equal(t, 200, *res.Matches[2].UmpireID)
}

func TestScheduleMatches_MaxParallelCapsWaveSize(t *testing.T) {
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	res, err := ScheduleMatches(ScheduleParams{
		TournamentID:         1,
		Pairings:             contestedPairings("Round 1", 1, 2, 3, 4),
		Courts:               courts(4),
		Umpires:              umpires(4),
		Start:                start,
		MatchDurationMinutes: 30,
		MaxParallel:          1,
		CodePrefix:           "T1",
	})
	require.NoError(t, err)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, start, *res.Matches[0].ScheduledTime)
	assert.Equal(t, start.Add(30*time.Minute), *res.Matches[1].ScheduledTime)
}

func TestScheduleMatches_ByeConsumesNoResources(t *testing.T) {
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	one, three := 1, 3
	pairings := []Pairing{
		{RoundLabel: "Semifinals", Entry1ID: &one, Entry2ID: nil},
		{RoundLabel: "Semifinals", Entry1ID: &three, Entry2ID: nil},
	}
	res, err := ScheduleMatches(ScheduleParams{
		TournamentID:         1,
		Pairings:             pairings,
		Courts:               courts(1),
		Umpires:              umpires(1),
		Start:                start,
		MatchDurationMinutes: 30,
		CodePrefix:           "T1",
	})
	require.NoError(t, err)
	require.Len(t, res.Matches, 2)

	for _, m := range res.Matches {
		assert.True(t, m.IsCompleted)
		assert.Nil(t, m.CourtID)
		assert.Nil(t, m.UmpireID)
		assert.False(t, m.CodeValid, "no result can ever be entered against a BYE")
		require.NotNil(t, m.WinnerEntryID)
	}
	assert.Equal(t, 1, *res.Matches[0].WinnerEntryID)
	assert.Equal(t, 3, *res.Matches[1].WinnerEntryID)
}

func TestScheduleMatches_NeutralUmpirePreferred(t *testing.T) {
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	clubA, clubB := 10, 20
	ump := []models.Umpire{
		{ID: 201, ClubID: &clubA},
		{ID: 202, ClubID: nil},
	}
	res, err := ScheduleMatches(ScheduleParams{
		TournamentID:         1,
		Pairings:             contestedPairings("Final", 1, 2),
		Courts:               courts(1),
		Umpires:              ump,
		ClubByEntry:          map[int]int{1: clubA, 2: clubB},
		Start:                start,
		MatchDurationMinutes: 30,
		RespectNeutrality:    true,
		CodePrefix:           "T1",
	})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, 202, *res.Matches[0].UmpireID)
	assert.Empty(t, res.Warnings)
}

func TestScheduleMatches_NeutralityFallbackWarns(t *testing.T) {
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	clubA, clubB := 10, 20
	ump := []models.Umpire{
		{ID: 201, ClubID: &clubA},
		{ID: 202, ClubID: &clubB},
	}
	res, err := ScheduleMatches(ScheduleParams{
		TournamentID:         1,
		Pairings:             contestedPairings("Final", 1, 2),
		Courts:               courts(1),
		Umpires:              ump,
		ClubByEntry:          map[int]int{1: clubA, 2: clubB},
		Start:                start,
		MatchDurationMinutes: 30,
		RespectNeutrality:    true,
		CodePrefix:           "T1",
	})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)

	// Every umpire is affiliated with one of the clubs; the match is still
	// scheduled, with a warning instead of a failure.
	require.NotNil(t, res.Matches[0].UmpireID)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "no club-neutral umpire")
}

func TestScheduleMatches_RoundsLaidOutSequentially(t *testing.T) {
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	pairings := append(
		contestedPairings("Round 1", 1, 2, 3, 4),
		contestedPairings("Round 2", 1, 3, 2, 4)...,
	)
	res, err := ScheduleMatches(ScheduleParams{
		TournamentID:         1,
		Pairings:             pairings,
		Courts:               courts(2),
		Umpires:              umpires(2),
		Start:                start,
		MatchDurationMinutes: 20,
		RestTimeMinutes:      10,
		CodePrefix:           "T1",
	})
	require.NoError(t, err)
	require.Len(t, res.Matches, 4)

	// Round 1 fills one wave; Round 2 starts one 30-minute slot later.
	assert.Equal(t, start, *res.Matches[0].ScheduledTime)
	assert.Equal(t, start.Add(30*time.Minute), *res.Matches[2].ScheduledTime)
	assert.Equal(t, start.Add(30*time.Minute), *res.Matches[3].ScheduledTime)
}

func TestScheduleMatches_InputValidation(t *testing.T) {
	start := time.Now()
	base := ScheduleParams{
		Pairings:             contestedPairings("Final", 1, 2),
		Courts:               courts(1),
		Umpires:              umpires(1),
		Start:                start,
		MatchDurationMinutes: 30,
	}

	noCourts := base
	noCourts.Courts = nil
	_, err := ScheduleMatches(noCourts)
	assert.ErrorIs(t, err, ErrNoCourts)

	noUmpires := base
	noUmpires.Umpires = nil
	_, err = ScheduleMatches(noUmpires)
	assert.ErrorIs(t, err, ErrNoUmpires)

	badDuration := base
	badDuration.MatchDurationMinutes = 0
	_, err = ScheduleMatches(badDuration)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}
