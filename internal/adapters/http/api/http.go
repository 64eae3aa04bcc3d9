// Package api serves the scoring operations over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/adapters/http/swagger"
	"github.com/okian/hackboard/internal/adapters/repository"
	service "github.com/okian/hackboard/internal/app"
	"github.com/okian/hackboard/internal/domain/cooldown"
	"github.com/okian/hackboard/internal/domain/model"
	"github.com/okian/hackboard/internal/domain/scoring"
	"github.com/okian/hackboard/pkg/logger"
	"github.com/okian/hackboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	userHeader            = "X-User-ID"
	defaultRequestTimeout = 15 * time.Second
	maxBodyBytes          = 1 << 20
)

// Dependencies is the full set of operations the API serves.
type Dependencies interface {
	AttemptDependencies
	ScoreDependencies
	JudgingDependencies
}

// AttemptDependencies covers cooldowns and sidequest attempts.
type AttemptDependencies interface {
	GetCooldown(ctx context.Context, userID, eventID uuid.UUID) (cooldown.Status, error)
	CreateAttempt(ctx context.Context, userID, sidequestID uuid.UUID, result float64) (model.Attempt, error)
	ListUserAttempts(ctx context.Context, userID, eventID uuid.UUID, w repository.Window) ([]model.Attempt, error)
}

// ScoreDependencies covers the read-only score views.
type ScoreDependencies interface {
	GetCompleteScores(ctx context.Context, eventID uuid.UUID) ([]scoring.ScoreNormalized, error)
	GetOverviewLeaderboard(ctx context.Context, eventID uuid.UUID, finalists bool) ([]scoring.OverviewEntry, error)
	GetHistory(ctx context.Context, eventID uuid.UUID, w repository.Window) (map[uuid.UUID][]service.HistoryPoint, error)
}

// JudgingDependencies covers technical results and public votes.
type JudgingDependencies interface {
	SetTechnicalResult(ctx context.Context, questionID, teamID uuid.UUID, points *float64) error
	CastVote(ctx context.Context, v model.Vote) error
}

// Server wires HTTP routes for the scoring API.
type Server struct {
	attempts *AttemptsHandler
	scores   *ScoresHandler
	judging  *JudgingHandler
	health   *HealthHandler

	corsOrigins    []string
	requestTimeout time.Duration
	logger         logger.Logger
}

// NewServer creates an API server over deps.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		corsOrigins:    []string{"*"},
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}

	r := newResponder(s.logger)
	s.attempts = &AttemptsHandler{deps: deps, r: r}
	s.scores = &ScoresHandler{deps: deps, r: r}
	s.judging = &JudgingHandler{deps: deps, r: r}
	s.health = NewHealthHandler()
	return s
}

// Routes returns the router serving every endpoint.
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", userHeader},
		MaxAge:         300,
	}))
	router.Use(MetricsMiddleware)

	router.Get("/healthz", s.health.HandleHealth)
	router.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	swagger.Register(router)

	router.Route("/v1", func(v1 chi.Router) {
		v1.Use(middleware.Timeout(s.requestTimeout))

		v1.Get("/events/{eventID}/cooldown", s.attempts.HandleGetCooldown)
		v1.Get("/events/{eventID}/attempts", s.attempts.HandleListAttempts)
		v1.Post("/sidequests/{sidequestID}/attempts", s.attempts.HandleCreateAttempt)

		v1.Get("/events/{eventID}/scores", s.scores.HandleGetScores)
		v1.Get("/events/{eventID}/leaderboard", s.scores.HandleGetLeaderboard)
		v1.Get("/events/{eventID}/history", s.scores.HandleGetHistory)

		v1.Put("/technical-questions/{questionID}/teams/{teamID}", s.judging.HandlePutTechnicalResult)
		v1.Put("/events/{eventID}/votes", s.judging.HandlePutVote)
	})
	return router
}

// responder writes JSON bodies and maps errors. It is shared by handlers.
type responder struct {
	validate *validator.Validate
	logger   logger.Logger
}

func newResponder(l logger.Logger) *responder {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &responder{validate: v, logger: l}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (rs *responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		metrics.RecordErrorByComponent("api", "internal")
		rs.logger.Error(r.Context(), "request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(err),
		)
	}
	writeJSON(w, status, body)
}

// decode reads a JSON body into dst and validates it.
func (rs *responder) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %w", ErrBadRequest, err)
	}
	if err := rs.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", ErrBadRequest, translateValidationError(verrs[0]))
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a UUID", ErrBadRequest, name)
	}
	return id, nil
}

func headerUser(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(r.Header.Get(userHeader)))
	if err != nil {
		return uuid.Nil, ErrMissingUser
	}
	return id, nil
}

// queryWindow parses optional RFC3339 after/before parameters.
func queryWindow(r *http.Request) (repository.Window, error) {
	var w repository.Window
	for name, dst := range map[string]**time.Time{"after": &w.After, "before": &w.Before} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return repository.Window{}, fmt.Errorf("%w: %s must be RFC3339", ErrBadRequest, name)
		}
		*dst = &t
	}
	return w, nil
}
