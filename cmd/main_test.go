package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/adapters/repository"
	"github.com/okian/hackboard/internal/domain/scoring"
	"github.com/okian/hackboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRootCommand(t *testing.T) {
	Convey("Given the root command", t, func() {
		root := rootCmd()

		Convey("Then it exposes serve, snapshot and scores", func() {
			names := map[string]bool{}
			for _, c := range root.Commands() {
				names[c.Name()] = true
			}
			So(names["serve"], ShouldBeTrue)
			So(names["snapshot"], ShouldBeTrue)
			So(names["scores"], ShouldBeTrue)
		})

		Convey("When scores is run without an event", func() {
			root.SetArgs([]string{"scores"})
			err := root.Execute()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "event")
		})

		Convey("When scores is run with a malformed event", func() {
			root.SetArgs([]string{"scores", "--event", "nope"})
			err := root.Execute()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid --event")
		})
	})
}

func TestCommandsAgainstSQLite(t *testing.T) {
	Convey("Given an empty sqlite store", t, func() {
		cfgFile = ""
		t.Setenv("HACKBOARD_CONFIG", "")
		t.Setenv("HACKBOARD_STORE_DRIVER", "sqlite")
		t.Setenv("HACKBOARD_SQLITE_PATH", filepath.Join(t.TempDir(), "cli.db"))
		t.Setenv("HACKBOARD_LOG_LEVEL", "error")

		Convey("Then a snapshot with no events succeeds", func() {
			t.Setenv("HACKBOARD_LOG_LEVEL", "info")
			t.Setenv("HACKBOARD_METRICS_NAMESPACE", "clitest")
			var logs bytes.Buffer
			So(runSnapshot(context.Background(), &logs), ShouldBeNil)
			So(logs.String(), ShouldContainSubstring, "snapshot recorded")

			n, err := testutil.GatherAndCount(metrics.GetRegistry(), "clitest_scoring_snapshot_ticks_total")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})

		Convey("Then serve fails when the address is already bound", func() {
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			So(err, ShouldBeNil)
			defer ln.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err = runServe(ctx, ln.Addr().String())

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "http server")
			So(ctx.Err(), ShouldBeNil)
		})

		Convey("Then scores of an unknown event is not found", func() {
			var out bytes.Buffer
			var logs bytes.Buffer
			err := runScores(context.Background(), &out, &logs, uuid.New(), true)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			So(out.Len(), ShouldEqual, 0)
		})
	})
}

func TestRenderScores(t *testing.T) {
	Convey("Given a complete leaderboard", t, func() {
		scores := []scoring.ScoreNormalized{
			{
				TeamID:    uuid.New(),
				TeamName:  "Alpha",
				Sidequest: &scoring.CategoryScore{Score: 10, Raw: 10, Rank: 1},
				Final:     10,
				MaxFinal:  100,
				Rank:      1,
			},
			{TeamID: uuid.New(), TeamName: "Beta", MaxFinal: 100, Rank: 2},
		}

		Convey("When rendered as a table", func() {
			var out bytes.Buffer
			So(renderScores(&out, scores, false), ShouldBeNil)

			Convey("Then every team has a row and missing categories show a dash", func() {
				text := out.String()
				So(text, ShouldContainSubstring, "RANK")
				So(text, ShouldContainSubstring, "Alpha")
				So(text, ShouldContainSubstring, "10.00/100")
				So(text, ShouldContainSubstring, "Beta")
				So(text, ShouldContainSubstring, "-")
			})
		})

		Convey("When rendered as JSON", func() {
			var out bytes.Buffer
			So(renderScores(&out, scores, true), ShouldBeNil)

			var got []scoring.ScoreNormalized
			So(json.Unmarshal(out.Bytes(), &got), ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(got[0].TeamName, ShouldEqual, "Alpha")
		})

		Convey("When there are no teams", func() {
			var out bytes.Buffer
			So(renderScores(&out, nil, false), ShouldBeNil)
			So(out.String(), ShouldEqual, "No teams.\n")
		})
	})
}
