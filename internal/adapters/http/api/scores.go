package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	service "github.com/okian/hackboard/internal/app"
	"github.com/okian/hackboard/internal/domain/scoring"
)

// ScoresHandler serves the complete, overview and history score views.
type ScoresHandler struct {
	deps ScoreDependencies
	r    *responder
}

// HandleGetScores handles GET /v1/events/{eventID}/scores.
func (h *ScoresHandler) HandleGetScores(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathUUID(r, "eventID")
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	scores, err := h.deps.GetCompleteScores(r.Context(), eventID)
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	if scores == nil {
		scores = []scoring.ScoreNormalized{}
	}
	writeJSON(w, http.StatusOK, scores)
}

// HandleGetLeaderboard handles GET /v1/events/{eventID}/leaderboard.
// finalists=true puts the expert finalists first.
func (h *ScoresHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathUUID(r, "eventID")
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	finalists := false
	if raw := r.URL.Query().Get("finalists"); raw != "" {
		finalists, err = strconv.ParseBool(raw)
		if err != nil {
			h.r.fail(w, r, fmt.Errorf("%w: finalists must be a boolean", ErrBadRequest))
			return
		}
	}

	entries, err := h.deps.GetOverviewLeaderboard(r.Context(), eventID, finalists)
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []scoring.OverviewEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetHistory handles GET /v1/events/{eventID}/history.
func (h *ScoresHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathUUID(r, "eventID")
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	window, err := queryWindow(r)
	if err != nil {
		h.r.fail(w, r, err)
		return
	}

	history, err := h.deps.GetHistory(r.Context(), eventID, window)
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	if history == nil {
		history = map[uuid.UUID][]service.HistoryPoint{}
	}
	writeJSON(w, http.StatusOK, history)
}
