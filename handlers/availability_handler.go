package handlers

import (
	"net/http"

	"github.com/Dosada05/fixture-engine/services"
)

type AvailabilityHandler struct {
	availabilityService services.AvailabilityService
}

func NewAvailabilityHandler(as services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: as}
}

// GetHandler handles GET /tournaments/{tournamentID}/availability.
func (h *AvailabilityHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.availabilityService.TournamentAvailability(r.Context(), tournamentID)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok", "availability": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
