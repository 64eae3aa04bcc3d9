package api

import (
	"net/http"
	"time"

	"github.com/okian/hackboard/internal/domain/cooldown"
	"github.com/okian/hackboard/internal/domain/model"
)

// AttemptsHandler serves cooldowns and sidequest attempts.
type AttemptsHandler struct {
	deps AttemptDependencies
	r    *responder
}

type cooldownResponse struct {
	DurationSeconds float64    `json:"duration_seconds"`
	LastAttempt     *time.Time `json:"last_attempt,omitempty"`
	NextAttempt     *time.Time `json:"next_attempt,omitempty"`
}

func newCooldownResponse(s cooldown.Status) cooldownResponse {
	return cooldownResponse{
		DurationSeconds: s.Duration.Seconds(),
		LastAttempt:     s.LastAttempt,
		NextAttempt:     s.NextAttempt,
	}
}

type createAttemptRequest struct {
	UserID string   `json:"user_id" validate:"required,uuid"`
	Result *float64 `json:"result" validate:"required"`
}

// HandleGetCooldown handles GET /v1/events/{eventID}/cooldown.
func (h *AttemptsHandler) HandleGetCooldown(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathUUID(r, "eventID")
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	userID, err := headerUser(r)
	if err != nil {
		h.r.fail(w, r, err)
		return
	}

	status, err := h.deps.GetCooldown(r.Context(), userID, eventID)
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCooldownResponse(status))
}

// HandleListAttempts handles GET /v1/events/{eventID}/attempts.
func (h *AttemptsHandler) HandleListAttempts(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathUUID(r, "eventID")
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	userID, err := headerUser(r)
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	window, err := queryWindow(r)
	if err != nil {
		h.r.fail(w, r, err)
		return
	}

	attempts, err := h.deps.ListUserAttempts(r.Context(), userID, eventID, window)
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}
	writeJSON(w, http.StatusOK, attempts)
}

// HandleCreateAttempt handles POST /v1/sidequests/{sidequestID}/attempts.
func (h *AttemptsHandler) HandleCreateAttempt(w http.ResponseWriter, r *http.Request) {
	sidequestID, err := pathUUID(r, "sidequestID")
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	var req createAttemptRequest
	if err := h.r.decode(w, r, &req); err != nil {
		h.r.fail(w, r, err)
		return
	}

	attempt, err := h.deps.CreateAttempt(r.Context(), mustUUID(req.UserID), sidequestID, *req.Result)
	if err != nil {
		h.r.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, attempt)
}
