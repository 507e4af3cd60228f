package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Dosada05/fixture-engine/fixtures"
	"github.com/Dosada05/fixture-engine/services"
)

type FixtureHandler struct {
	fixtureService services.FixtureService
}

func NewFixtureHandler(fs services.FixtureService) *FixtureHandler {
	return &FixtureHandler{fixtureService: fs}
}

type generateFixturesInput struct {
	Seeded                bool   `json:"seeded"`
	Force                 bool   `json:"force"`
	DryRun                bool   `json:"dry_run"`
	StartTimeOverride     string `json:"start_time_override,omitempty"`
	MaxParallelMatches    int    `json:"max_parallel_matches_override,omitempty"`
	RespectClubNeutrality *bool  `json:"respect_club_neutrality,omitempty"`
	DrawSeed              *int64 `json:"draw_seed,omitempty"`
}

type advanceRoundInput struct {
	CurrentRound          string `json:"current_round"`
	DryRun                bool   `json:"dry_run"`
	MaxParallelMatches    int    `json:"max_parallel_matches_override,omitempty"`
	RespectClubNeutrality *bool  `json:"respect_club_neutrality,omitempty"`
	DrawSeed              *int64 `json:"draw_seed,omitempty"`
}

// GenerateHandler handles POST /tournaments/{tournamentID}/fixtures.
func (h *FixtureHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input generateFixturesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	opts := services.GenerateOptions{
		Seeded:                input.Seeded,
		Force:                 input.Force,
		DryRun:                input.DryRun,
		MaxParallelOverride:   input.MaxParallelMatches,
		RespectClubNeutrality: input.RespectClubNeutrality,
		DrawSeed:              input.DrawSeed,
	}
	if input.StartTimeOverride != "" {
		start, err := fixtures.ParseUTC(input.StartTimeOverride)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		opts.StartTimeOverride = &start
	}

	result, err := h.fixtureService.GenerateFixtures(r.Context(), tournamentID, opts)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeFixtureResult(w, r, result)
}

// AdvanceHandler handles POST /tournaments/{tournamentID}/rounds/advance.
func (h *FixtureHandler) AdvanceHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input advanceRoundInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.CurrentRound == "" {
		badRequestResponse(w, r, errors.New("current_round is required"))
		return
	}

	result, err := h.fixtureService.GenerateNextRound(r.Context(), tournamentID, input.CurrentRound, services.AdvanceOptions{
		DryRun:                input.DryRun,
		MaxParallelOverride:   input.MaxParallelMatches,
		RespectClubNeutrality: input.RespectClubNeutrality,
		DrawSeed:              input.DrawSeed,
	})
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeFixtureResult(w, r, result)
}

func writeFixtureResult(w http.ResponseWriter, r *http.Request, result *services.FixtureResult) {
	env := jsonResponse{
		"status":       "ok",
		"run_id":       result.RunID,
		"created":      result.Created,
		"matches":      result.Matches,
		"warnings":     result.Warnings,
		"generated_at": time.Now().UTC(),
	}
	if err := writeJSON(w, http.StatusOK, env, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
