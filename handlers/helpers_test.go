package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/fixture-engine/services"
)

func TestMapServiceError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{services.ErrTournamentNotFound, http.StatusNotFound},
		{services.ErrRoundNotFound, http.StatusNotFound},
		{services.ErrMatchNotFound, http.StatusNotFound},
		{services.ErrNotEnoughEntries, http.StatusUnprocessableEntity},
		{services.ErrNoCourtsConfigured, http.StatusUnprocessableEntity},
		{services.ErrUnsupportedFormat, http.StatusUnprocessableEntity},
		{services.ErrWinnerNotInMatch, http.StatusUnprocessableEntity},
		{services.ErrRoundIncomplete, http.StatusConflict},
		{services.ErrTournamentComplete, http.StatusConflict},
		{services.ErrMatchAlreadyStarted, http.StatusConflict},
		{services.ErrMatchCodeUsed, http.StatusConflict},
		{services.ErrMatchCodeInvalid, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		mapServiceError(rec, req, tc.err)
		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)
		assert.Contains(t, rec.Body.String(), `"status":"error"`)
	}
}

func TestReadJSON(t *testing.T) {
	type input struct {
		Seeded bool `json:"seeded"`
	}

	t.Run("valid body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"seeded": true}`))
		var dst input
		require.NoError(t, readJSON(rec, req, &dst))
		assert.True(t, dst.Seeded)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"sedded": true}`))
		var dst input
		err := readJSON(rec, req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown key")
	})

	t.Run("empty body rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
		var dst input
		err := readJSON(rec, req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be empty")
	})

	t.Run("trailing JSON rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"seeded": true}{"seeded": false}`))
		var dst input
		err := readJSON(rec, req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "single JSON value")
	})

	t.Run("malformed JSON rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"seeded":`))
		var dst input
		require.Error(t, readJSON(rec, req, &dst))
	})
}
