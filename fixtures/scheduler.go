package fixtures

import (
	"fmt"
	"time"

	"github.com/Dosada05/fixture-engine/models"
)

// ScheduleParams carries everything one scheduling run needs. The run is
// synchronous and deterministic given its inputs.
type ScheduleParams struct {
	TournamentID int
	Pairings     []Pairing
	Courts       []models.Court
	Umpires      []models.Umpire

	// ClubByEntry resolves an entry to its club for neutrality checks.
	// Entries without a club affiliation are simply absent.
	ClubByEntry map[int]int

	Start                time.Time
	MatchDurationMinutes int
	RestTimeMinutes      int

	// MaxParallel caps the wave size below the physical resource limit.
	// Zero means no extra cap.
	MaxParallel int

	// RespectNeutrality prefers umpires unaffiliated with either entrant's
	// club. Best effort: when no neutral umpire exists the least-loaded
	// available one is assigned and a warning is recorded.
	RespectNeutrality bool

	// CodePrefix and StartOrder make match codes and match_order values
	// continue the tournament-wide sequence across rounds.
	CodePrefix string
	StartOrder int
}

type ScheduleResult struct {
	Matches  []*models.Match
	Warnings []string

	// LastScheduled is the latest wave time of the run; the next round's
	// clock starts one slot after it.
	LastScheduled time.Time
}

// schedulingContext holds the mutable state of one run: the court rotation
// index, per-umpire load counts, per-wave umpire occupancy and the global
// match sequence. It is owned by the single ScheduleMatches call and never
// shared.
type schedulingContext struct {
	courtIdx  int
	load      map[int]int
	busy      map[int64]map[int]bool
	nextOrder int
	warnings  []string
}

// ScheduleMatches turns raw pairings into fully scheduled match records.
// Pairings are partitioned by round label, split into waves bounded by the
// scarcer of courts and umpires, and laid out on a running clock of
// matchDuration+restTime slots. BYE pairings keep a wave time for ordering
// but consume neither a court nor an umpire and are created already decided.
func ScheduleMatches(params ScheduleParams) (*ScheduleResult, error) {
	if len(params.Courts) == 0 {
		return nil, ErrNoCourts
	}
	if len(params.Umpires) == 0 {
		return nil, ErrNoUmpires
	}
	if params.MatchDurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	batch := len(params.Courts)
	if len(params.Umpires) < batch {
		batch = len(params.Umpires)
	}
	if params.MaxParallel > 0 && params.MaxParallel < batch {
		batch = params.MaxParallel
	}

	slot := time.Duration(params.MatchDurationMinutes+params.RestTimeMinutes) * time.Minute

	var roundOrder []string
	byRound := make(map[string][]Pairing)
	for _, p := range params.Pairings {
		if _, seen := byRound[p.RoundLabel]; !seen {
			roundOrder = append(roundOrder, p.RoundLabel)
		}
		byRound[p.RoundLabel] = append(byRound[p.RoundLabel], p)
	}

	sc := &schedulingContext{
		load:      make(map[int]int),
		busy:      make(map[int64]map[int]bool),
		nextOrder: params.StartOrder,
	}

	result := &ScheduleResult{LastScheduled: params.Start}
	clock := params.Start

	for _, label := range roundOrder {
		pairings := byRound[label]
		for i, p := range pairings {
			waveTime := clock.Add(time.Duration(i/batch) * slot)
			if waveTime.After(result.LastScheduled) {
				result.LastScheduled = waveTime
			}

			sc.nextOrder++
			m := &models.Match{
				TournamentID:    params.TournamentID,
				Round:           label,
				MatchOrder:      sc.nextOrder,
				Entry1ID:        p.Entry1ID,
				Entry2ID:        p.Entry2ID,
				ScheduledTime:   timePtr(waveTime),
				DurationMinutes: params.MatchDurationMinutes,
				MatchCode:       fmt.Sprintf("%s-%03d", params.CodePrefix, sc.nextOrder),
			}

			if p.IsBye() {
				// The present entrant advances immediately. The match
				// code never becomes usable since no result can be
				// submitted for a decided match.
				winner := p.Entry1ID
				if winner == nil {
					winner = p.Entry2ID
				}
				m.WinnerEntryID = winner
				m.IsCompleted = true
				result.Matches = append(result.Matches, m)
				continue
			}

			m.CodeValid = true

			court := params.Courts[sc.courtIdx%len(params.Courts)]
			sc.courtIdx++
			m.CourtID = intPtr(court.ID)

			umpire := sc.pickUmpire(params, waveTime, p)
			m.UmpireID = intPtr(umpire.ID)

			result.Matches = append(result.Matches, m)
		}

		waves := (len(pairings) + batch - 1) / batch
		clock = clock.Add(time.Duration(waves) * slot)
	}

	result.Warnings = sc.warnings
	return result, nil
}

// pickUmpire selects the least-loaded umpire free at the wave time,
// preferring a club-neutral one when requested. Ties keep input order so
// selection stays deterministic.
func (sc *schedulingContext) pickUmpire(params ScheduleParams, waveTime time.Time, p Pairing) models.Umpire {
	key := waveTime.Unix()

	available := make([]models.Umpire, 0, len(params.Umpires))
	for _, u := range params.Umpires {
		if !sc.busy[key][u.ID] {
			available = append(available, u)
		}
	}
	if len(available) == 0 {
		// Wave sizing keeps this unreachable; degrade rather than fail.
		sc.warnf("all umpires already booked at %s; double-booking least-loaded one", waveTime.Format(time.RFC3339))
		available = params.Umpires
	}

	candidates := available
	club1, ok1 := params.ClubByEntry[deref(p.Entry1ID)]
	club2, ok2 := params.ClubByEntry[deref(p.Entry2ID)]
	if params.RespectNeutrality && ok1 && ok2 {
		neutral := make([]models.Umpire, 0, len(available))
		for _, u := range available {
			if u.ClubID == nil || (*u.ClubID != club1 && *u.ClubID != club2) {
				neutral = append(neutral, u)
			}
		}
		if len(neutral) > 0 {
			candidates = neutral
		} else {
			sc.warnf("no club-neutral umpire available for entries %d and %d; assigning a non-neutral one", deref(p.Entry1ID), deref(p.Entry2ID))
		}
	}

	best := candidates[0]
	for _, u := range candidates[1:] {
		if sc.load[u.ID] < sc.load[best.ID] {
			best = u
		}
	}

	if sc.busy[key] == nil {
		sc.busy[key] = make(map[int]bool)
	}
	sc.busy[key][best.ID] = true
	sc.load[best.ID]++
	return best
}

func (sc *schedulingContext) warnf(format string, args ...interface{}) {
	sc.warnings = append(sc.warnings, fmt.Sprintf(format, args...))
}

func timePtr(t time.Time) *time.Time { return &t }

func intPtr(v int) *int { return &v }

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
