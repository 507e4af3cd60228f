package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/fixture-engine/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// ListHandler handles GET /tournaments/{tournamentID}/matches?round=...
func (h *MatchHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var round *string
	if roundStr := r.URL.Query().Get("round"); roundStr != "" {
		round = &roundStr
	}

	matches, err := h.matchService.ListByTournament(r.Context(), tournamentID, round)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok", "matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartHandler handles POST /matches/{matchID}/start.
func (h *MatchHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.StartMatch(r.Context(), matchID)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok", "match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type submitResultInput struct {
	MatchCode     string `json:"match_code"`
	WinnerEntryID int    `json:"winner_entry_id"`
}

// ResultHandler handles POST /matches/{matchID}/result.
func (h *MatchHandler) ResultHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input submitResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.MatchCode == "" {
		badRequestResponse(w, r, errors.New("match_code is required"))
		return
	}
	if input.WinnerEntryID < 1 {
		badRequestResponse(w, r, errors.New("winner_entry_id is required"))
		return
	}

	match, err := h.matchService.SubmitResult(r.Context(), matchID, input.MatchCode, input.WinnerEntryID)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok", "match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
