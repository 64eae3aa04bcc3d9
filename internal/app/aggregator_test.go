package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	service "github.com/okian/hackboard/internal/app"
	"github.com/okian/hackboard/internal/domain/model"
	"github.com/okian/hackboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSnapshotAggregator(t *testing.T) {
	Convey("Given events in several phases", t, func() {
		store := newFakeStore()
		agg := service.NewSnapshotAggregator(store, service.NewEngine(store), logger.Nop())
		ctx := context.Background()

		hacking, teamA, teamB := seedTenFive(store)
		judging := store.addEvent(model.PhaseJudging, 0, 2)
		store.addTeam(judging.ID, "late", uuid.New())

		Convey("When a tick runs", func() {
			So(agg.Tick(ctx, t0), ShouldBeNil)

			Convey("Then only the hacking event is snapshotted", func() {
				So(store.snapshotCount(), ShouldEqual, 2)
				byTeam := map[uuid.UUID]model.ScoreSnapshot{}
				for _, r := range store.snapshots {
					byTeam[r.TeamID] = r
				}
				So(byTeam[teamA.ID].Score, ShouldEqual, 10.0)
				So(byTeam[teamB.ID].Score, ShouldEqual, 5.0)
				So(byTeam[teamA.ID].ValidAt, ShouldEqual, t0)
			})
		})

		Convey("When the same tick is retried", func() {
			So(agg.Tick(ctx, t0), ShouldBeNil)
			So(agg.Tick(ctx, t0), ShouldBeNil)

			Convey("Then rows are appended, not deduplicated", func() {
				So(store.snapshotCount(), ShouldEqual, 4)
				So(store.snapshots[0], ShouldResemble, store.snapshots[2])
			})
		})

		Convey("When one hacking event fails", func() {
			broken := store.addEvent(model.PhaseHacking, 0, 1)
			store.failTeams[broken.ID] = true

			err := agg.Tick(ctx, t0)

			Convey("Then the other events are still snapshotted", func() {
				So(errors.Is(err, errStoreDown), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, broken.ID.String())
				So(store.snapshotCount(), ShouldEqual, 2)
				So(hacking.ID, ShouldNotEqual, broken.ID)
			})
		})

		Convey("When a hacking event has no teams", func() {
			store.addEvent(model.PhaseHacking, 0, 0)

			So(agg.Tick(ctx, t0), ShouldBeNil)
			So(store.snapshotCount(), ShouldEqual, 2)
		})
	})
}
