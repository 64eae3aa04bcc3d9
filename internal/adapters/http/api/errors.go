package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/okian/hackboard/internal/adapters/repository"
	service "github.com/okian/hackboard/internal/app"
	"github.com/okian/hackboard/internal/domain/cooldown"
	"github.com/okian/hackboard/internal/domain/model"
	"github.com/okian/hackboard/internal/domain/scoring"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrMissingUser = errors.New("missing or invalid X-User-ID header")
)

// Machine-readable error codes.
const (
	codeBadRequest       = "bad_request"
	codeCooldown         = "sidequest_cooldown"
	codeNotHacking       = "event_not_hacking"
	codeWrongPoints      = "wrong_technical_question_points"
	codeNotFound         = "not_found"
	codeConflict         = "conflict"
	codeInvalidReference = "invalid_reference"
	codeInternal         = "internal_error"
	internalErrorMessage = "internal error"
)

type errorResponse struct {
	Code      string     `json:"code"`
	Message   string     `json:"message"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// classify maps a service error onto a status and response body.
func classify(err error) (int, errorResponse) {
	var cdErr *cooldown.Error
	switch {
	case errors.As(err, &cdErr):
		expires := cdErr.ExpiresAt
		return http.StatusTooManyRequests, errorResponse{Code: codeCooldown, Message: err.Error(), ExpiresAt: &expires}
	case errors.Is(err, model.ErrEventNotHacking):
		return http.StatusConflict, errorResponse{Code: codeNotHacking, Message: err.Error()}
	case errors.Is(err, scoring.ErrWrongTechnicalQuestionPoints):
		return http.StatusUnprocessableEntity, errorResponse{Code: codeWrongPoints, Message: err.Error()}
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrMissingUser),
		errors.Is(err, service.ErrInvalidResult),
		errors.Is(err, service.ErrInvalidVoteRank),
		errors.Is(err, service.ErrInvalidWindow):
		return http.StatusBadRequest, errorResponse{Code: codeBadRequest, Message: err.Error()}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, errorResponse{Code: codeNotFound, Message: err.Error()}
	case errors.Is(err, repository.ErrInvalidReference):
		return http.StatusUnprocessableEntity, errorResponse{Code: codeInvalidReference, Message: err.Error()}
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, errorResponse{Code: codeConflict, Message: err.Error()}
	default:
		return http.StatusInternalServerError, errorResponse{Code: codeInternal, Message: internalErrorMessage}
	}
}
