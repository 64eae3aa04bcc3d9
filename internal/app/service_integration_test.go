package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/okian/hackboard/internal/adapters/repository"
	service "github.com/okian/hackboard/internal/app"
	"github.com/okian/hackboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestService_SQLiteIntegration(t *testing.T) {
	Convey("Given a service over a SQLite store", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "hackboard.db")
		store, err := repository.NewSQLite(ctx, path)
		So(err, ShouldBeNil)
		defer func() { _ = store.Close() }()

		db, err := sqlx.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)&_time_format=sqlite")
		So(err, ShouldBeNil)
		defer func() { _ = db.Close() }()

		event, sq := uuid.New(), uuid.New()
		teamA, teamB := uuid.New(), uuid.New()
		alice, bob := uuid.New(), uuid.New()
		for _, stmt := range []struct {
			query string
			args  []any
		}{
			{`INSERT INTO events (id, name, phase, sidequest_cooldown) VALUES (?, 'Hack', 'hacking', 30)`, []any{event}},
			{`INSERT INTO event_participants (event_id, user_id, role) VALUES (?, ?, 'participant'), (?, ?, 'participant')`,
				[]any{event, alice, event, bob}},
			{`INSERT INTO teams (id, event_id, name) VALUES (?, ?, 'A'), (?, ?, 'B')`, []any{teamA, event, teamB, event}},
			{`INSERT INTO team_members (team_id, user_id) VALUES (?, ?), (?, ?)`, []any{teamA, alice, teamB, bob}},
			{`INSERT INTO sidequests (id, event_id, name, is_higher_result_better) VALUES (?, ?, 'Speedrun', 0)`, []any{sq, event}},
		} {
			_, err := db.ExecContext(ctx, stmt.query, stmt.args...)
			So(err, ShouldBeNil)
		}

		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		svc := service.New(store,
			service.WithLogger(logger.Nop()),
			service.WithClock(func() time.Time { return now }),
		)

		Convey("When both users submit a time and a snapshot is taken", func() {
			_, err := svc.CreateAttempt(ctx, alice, sq, 61.5)
			So(err, ShouldBeNil)
			_, err = svc.CreateAttempt(ctx, bob, sq, 58.2)
			So(err, ShouldBeNil)

			_, err = svc.CreateAttempt(ctx, bob, sq, 50)
			So(err, ShouldNotBeNil)

			So(svc.Snapshot(ctx), ShouldBeNil)

			Convey("Then the faster team leads every view", func() {
				rows, err := svc.GetCompleteScores(ctx, event)
				So(err, ShouldBeNil)
				So(rows[0].TeamID, ShouldEqual, teamB)
				So(rows[0].Final, ShouldAlmostEqual, 10.0)
				So(rows[1].Final, ShouldAlmostEqual, 5.0)

				overview, err := svc.GetOverviewLeaderboard(ctx, event, false)
				So(err, ShouldBeNil)
				So(overview[0].TeamID, ShouldEqual, teamB)
				So(overview[0].Score, ShouldEqual, 2.0)

				history, err := svc.GetHistory(ctx, event, repository.Window{})
				So(err, ShouldBeNil)
				So(history[teamB], ShouldHaveLength, 1)
				So(history[teamB][0].Date.Equal(now), ShouldBeTrue)

				status, err := svc.GetCooldown(ctx, bob, event)
				So(err, ShouldBeNil)
				So(status.NextAttempt.Equal(now.Add(30*time.Minute)), ShouldBeTrue)
			})
		})
	})
}
