package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	"github.com/okian/hackboard/internal/domain/model"
	"github.com/okian/hackboard/pkg/metrics"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	roleParticipant = "participant"
	roleMember      = "member"
)

// SQLStore implements Store on SQLite or PostgreSQL through sqlx.
type SQLStore struct {
	db     *sqlx.DB
	driver string
}

var _ Store = (*SQLStore)(nil)

// Open connects to the store selected by driver and, unless disabled,
// creates missing tables.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*SQLStore, error) {
	switch driver {
	case DriverSQLite:
		return NewSQLite(ctx, dsn, opts...)
	case DriverPostgres:
		return NewPostgres(ctx, dsn, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// NewSQLite opens (creating if needed) a SQLite database file.
func NewSQLite(ctx context.Context, path string, opts ...Option) (*SQLStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_time_format=sqlite",
		path, o.busyTimeout.Milliseconds())
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)
	return newSQLStore(ctx, db, DriverSQLite, sqliteSchema, o)
}

// NewPostgres connects to PostgreSQL through the pgx driver.
func NewPostgres(ctx context.Context, url string, opts ...Option) (*SQLStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	db, err := sqlx.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(o.maxOpenConns)
	return newSQLStore(ctx, db, DriverPostgres, postgresSchema, o)
}

func newSQLStore(ctx context.Context, db *sqlx.DB, driver, schema string, o options) (*SQLStore, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrap("ping "+driver, err)
	}
	if o.applySchema {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			_ = db.Close()
			return nil, wrap("apply schema", err)
		}
	}
	return &SQLStore{db: db, driver: driver}, nil
}

// Close releases the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Driver returns the store driver name.
func (s *SQLStore) Driver() string {
	return s.driver
}

// observe records the latency of a store call.
func observe(start time.Time) {
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
}

// utc normalizes timestamps so SQLite text comparison orders them correctly.
func utc(t time.Time) time.Time {
	return t.UTC()
}

// withWindow appends the window bounds on column to a query.
func withWindow(query, column string, w Window, args []any) (string, []any) {
	var b strings.Builder
	b.WriteString(query)
	if w.After != nil {
		b.WriteString(" AND " + column + " >= ?")
		args = append(args, utc(*w.After))
	}
	if w.Before != nil {
		b.WriteString(" AND " + column + " < ?")
		args = append(args, utc(*w.Before))
	}
	return b.String(), args
}

func (s *SQLStore) selectContext(ctx context.Context, op string, dest any, query string, args ...any) error {
	defer observe(time.Now())
	if err := s.db.SelectContext(ctx, dest, s.db.Rebind(query), args...); err != nil {
		return wrap(op, err)
	}
	return nil
}

func (s *SQLStore) getContext(ctx context.Context, op string, dest any, query string, args ...any) error {
	defer observe(time.Now())
	if err := s.db.GetContext(ctx, dest, s.db.Rebind(query), args...); err != nil {
		return wrap(op, err)
	}
	return nil
}

func (s *SQLStore) execContext(ctx context.Context, op, query string, args ...any) error {
	defer observe(time.Now())
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...); err != nil {
		return wrap(op, err)
	}
	return nil
}

const eventColumns = `id, name, phase, sidequest_cooldown`

// GetEvent implements EventReader.
func (s *SQLStore) GetEvent(ctx context.Context, eventID uuid.UUID) (model.Event, error) {
	var e model.Event
	err := s.getContext(ctx, "get event "+eventID.String(), &e,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, eventID)
	return e, err
}

// ListEvents implements EventReader.
func (s *SQLStore) ListEvents(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := s.selectContext(ctx, "list events", &events,
		`SELECT `+eventColumns+` FROM events ORDER BY name`)
	return events, err
}

// CountParticipants implements EventReader.
func (s *SQLStore) CountParticipants(ctx context.Context, eventID uuid.UUID) (int, error) {
	var n int
	err := s.getContext(ctx, "count participants", &n,
		`SELECT COUNT(*) FROM event_participants WHERE event_id = ? AND role = ?`, eventID, roleParticipant)
	return n, err
}

// ListTeams implements EventReader.
func (s *SQLStore) ListTeams(ctx context.Context, eventID uuid.UUID) ([]model.Team, error) {
	var teams []model.Team
	if err := s.selectContext(ctx, "list teams", &teams,
		`SELECT id, event_id, name, extra_score FROM teams WHERE event_id = ? ORDER BY name`, eventID); err != nil {
		return nil, err
	}

	var members []struct {
		TeamID uuid.UUID `db:"team_id"`
		UserID uuid.UUID `db:"user_id"`
	}
	if err := s.selectContext(ctx, "list team members", &members, `
		SELECT tm.team_id, tm.user_id
		FROM team_members tm
		JOIN teams t ON t.id = tm.team_id
		WHERE t.event_id = ? AND tm.role = ?`, eventID, roleMember); err != nil {
		return nil, err
	}

	index := make(map[uuid.UUID]int, len(teams))
	for i := range teams {
		index[teams[i].ID] = i
		teams[i].Members = []uuid.UUID{}
	}
	for _, m := range members {
		if i, ok := index[m.TeamID]; ok {
			teams[i].Members = append(teams[i].Members, m.UserID)
		}
	}
	return teams, nil
}

const sidequestColumns = `id, event_id, name, is_higher_result_better`

// GetSidequest implements AttemptStore.
func (s *SQLStore) GetSidequest(ctx context.Context, sidequestID uuid.UUID) (model.Sidequest, error) {
	var sq model.Sidequest
	err := s.getContext(ctx, "get sidequest "+sidequestID.String(), &sq,
		`SELECT `+sidequestColumns+` FROM sidequests WHERE id = ?`, sidequestID)
	return sq, err
}

// ListSidequests implements AttemptStore.
func (s *SQLStore) ListSidequests(ctx context.Context, eventID uuid.UUID) ([]model.Sidequest, error) {
	var sqs []model.Sidequest
	err := s.selectContext(ctx, "list sidequests", &sqs,
		`SELECT `+sidequestColumns+` FROM sidequests WHERE event_id = ? ORDER BY name`, eventID)
	return sqs, err
}

const attemptColumns = `a.id, a.sidequest_id, a.user_id, a.result, a.attempted_at`

// ListAttemptsBySidequest implements AttemptStore.
func (s *SQLStore) ListAttemptsBySidequest(ctx context.Context, sidequestID uuid.UUID, w Window) ([]model.Attempt, error) {
	query, args := withWindow(
		`SELECT `+attemptColumns+` FROM attempts a WHERE a.sidequest_id = ?`,
		"a.attempted_at", w, []any{sidequestID})
	var attempts []model.Attempt
	err := s.selectContext(ctx, "list attempts by sidequest", &attempts, query+` ORDER BY a.attempted_at`, args...)
	return attempts, err
}

// ListAttemptsByUser implements AttemptStore.
func (s *SQLStore) ListAttemptsByUser(ctx context.Context, userID, eventID uuid.UUID, w Window) ([]model.Attempt, error) {
	query, args := withWindow(`
		SELECT `+attemptColumns+`
		FROM attempts a
		JOIN sidequests s ON s.id = a.sidequest_id
		WHERE a.user_id = ? AND s.event_id = ?`,
		"a.attempted_at", w, []any{userID, eventID})
	var attempts []model.Attempt
	err := s.selectContext(ctx, "list attempts by user", &attempts, query+` ORDER BY a.attempted_at`, args...)
	return attempts, err
}

// LatestAttempt implements AttemptStore.
func (s *SQLStore) LatestAttempt(ctx context.Context, userID, eventID uuid.UUID) (*model.Attempt, error) {
	var a model.Attempt
	err := s.getContext(ctx, "latest attempt", &a, `
		SELECT `+attemptColumns+`
		FROM attempts a
		JOIN sidequests s ON s.id = a.sidequest_id
		WHERE a.user_id = ? AND s.event_id = ?
		ORDER BY a.attempted_at DESC
		LIMIT 1`, userID, eventID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// InsertAttempt implements AttemptStore.
func (s *SQLStore) InsertAttempt(ctx context.Context, a model.Attempt) error {
	return s.execContext(ctx, "insert attempt", `
		INSERT INTO attempts (id, sidequest_id, user_id, result, attempted_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.SidequestID, a.UserID, a.Result, utc(a.AttemptedAt))
}

// ListExpertRatings implements JudgingStore.
func (s *SQLStore) ListExpertRatings(ctx context.Context, eventID uuid.UUID) ([]model.ExpertRating, error) {
	var ratings []model.ExpertRating
	err := s.selectContext(ctx, "list expert ratings", &ratings, `
		SELECT r.team_id, r.rater_id, r.category, r.rating
		FROM expert_ratings r
		JOIN teams t ON t.id = r.team_id
		WHERE t.event_id = ?`, eventID)
	return ratings, err
}

const questionColumns = `id, event_id, question, min_points, max_points, is_binary`

// GetTechnicalQuestion implements JudgingStore.
func (s *SQLStore) GetTechnicalQuestion(ctx context.Context, questionID uuid.UUID) (model.TechnicalQuestion, error) {
	var q model.TechnicalQuestion
	err := s.getContext(ctx, "get technical question "+questionID.String(), &q,
		`SELECT `+questionColumns+` FROM technical_questions WHERE id = ?`, questionID)
	return q, err
}

// ListTechnicalQuestions implements JudgingStore.
func (s *SQLStore) ListTechnicalQuestions(ctx context.Context, eventID uuid.UUID) ([]model.TechnicalQuestion, error) {
	var qs []model.TechnicalQuestion
	err := s.selectContext(ctx, "list technical questions", &qs,
		`SELECT `+questionColumns+` FROM technical_questions WHERE event_id = ?`, eventID)
	return qs, err
}

// ListTechnicalResults implements JudgingStore.
func (s *SQLStore) ListTechnicalResults(ctx context.Context, eventID uuid.UUID) ([]model.TechnicalResult, error) {
	var results []model.TechnicalResult
	err := s.selectContext(ctx, "list technical results", &results, `
		SELECT r.team_id, r.question_id, r.points
		FROM technical_results r
		JOIN technical_questions q ON q.id = r.question_id
		WHERE q.event_id = ?`, eventID)
	return results, err
}

// UpsertTechnicalResult implements JudgingStore.
func (s *SQLStore) UpsertTechnicalResult(ctx context.Context, r model.TechnicalResult) error {
	return s.execContext(ctx, "upsert technical result", `
		INSERT INTO technical_results (team_id, question_id, points)
		VALUES (?, ?, ?)
		ON CONFLICT (team_id, question_id) DO UPDATE SET points = excluded.points`,
		r.TeamID, r.QuestionID, r.Points)
}

// ListVotes implements JudgingStore.
func (s *SQLStore) ListVotes(ctx context.Context, eventID uuid.UUID) ([]model.Vote, error) {
	var votes []model.Vote
	err := s.selectContext(ctx, "list votes", &votes,
		`SELECT event_id, voter_id, team_id, rank FROM votes WHERE event_id = ?`, eventID)
	return votes, err
}

// UpsertVote implements JudgingStore.
func (s *SQLStore) UpsertVote(ctx context.Context, v model.Vote) error {
	return s.execContext(ctx, "upsert vote", `
		INSERT INTO votes (event_id, voter_id, team_id, rank)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (event_id, voter_id, rank) DO UPDATE SET team_id = excluded.team_id`,
		v.EventID, v.VoterID, v.TeamID, v.Rank)
}

// InsertSnapshots implements SnapshotStore.
func (s *SQLStore) InsertSnapshots(ctx context.Context, rows []model.ScoreSnapshot) error {
	if len(rows) == 0 {
		return nil
	}
	defer observe(time.Now())

	normalized := make([]model.ScoreSnapshot, len(rows))
	for i, r := range rows {
		r.ValidAt = utc(r.ValidAt)
		normalized[i] = r
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO score_snapshots (team_id, score, valid_at)
		VALUES (:team_id, :score, :valid_at)`, normalized)
	if err != nil {
		return wrap("insert snapshots", err)
	}
	return nil
}

// ListSnapshots implements SnapshotStore.
func (s *SQLStore) ListSnapshots(ctx context.Context, eventID uuid.UUID, w Window) ([]model.ScoreSnapshot, error) {
	query, args := withWindow(`
		SELECT ss.team_id, ss.score, ss.valid_at
		FROM score_snapshots ss
		JOIN teams t ON t.id = ss.team_id
		WHERE t.event_id = ?`,
		"ss.valid_at", w, []any{eventID})
	var rows []model.ScoreSnapshot
	err := s.selectContext(ctx, "list snapshots", &rows, query+` ORDER BY ss.valid_at, ss.id`, args...)
	return rows, err
}
