package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/domain/model"
)

// JudgingHandler serves technical results and public votes.
type JudgingHandler struct {
	deps JudgingDependencies
	r    *responder
}

// technicalResultRequest carries the awarded points; null clears the award.
type technicalResultRequest struct {
	Points *float64 `json:"points"`
}

type voteRequest struct {
	VoterID string `json:"voter_id" validate:"required,uuid"`
	TeamID  string `json:"team_id" validate:"required,uuid"`
	Rank    int    `json:"rank" validate:"required,min=1,max=3"`
}

// HandlePutTechnicalResult handles
// PUT /v1/technical-questions/{questionID}/teams/{teamID}.
func (h *JudgingHandler) HandlePutTechnicalResult(w http.ResponseWriter, r *http.Request) {
	questionID, err := pathUUID(r, "questionID")
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	teamID, err := pathUUID(r, "teamID")
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	var req technicalResultRequest
	if err := h.r.decode(w, r, &req); err != nil {
		h.r.fail(w, r, err)
		return
	}

	if err := h.deps.SetTechnicalResult(r.Context(), questionID, teamID, req.Points); err != nil {
		h.r.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePutVote handles PUT /v1/events/{eventID}/votes.
func (h *JudgingHandler) HandlePutVote(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathUUID(r, "eventID")
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	var req voteRequest
	if err := h.r.decode(w, r, &req); err != nil {
		h.r.fail(w, r, err)
		return
	}

	vote := model.Vote{
		EventID: eventID,
		VoterID: mustUUID(req.VoterID),
		TeamID:  mustUUID(req.TeamID),
		Rank:    req.Rank,
	}
	if err := h.deps.CastVote(r.Context(), vote); err != nil {
		h.r.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mustUUID parses a string already checked by the uuid validator.
func mustUUID(s string) uuid.UUID {
	return uuid.MustParse(s)
}
